// Copyright © 2018 One Concern

package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/oneconcern/tico/pkg/engine"
	"github.com/oneconcern/tico/pkg/engine/status"
	"github.com/oneconcern/tico/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var commitCmd = &cobra.Command{
	Use:   "commit",
	Short: "Record the tracked files on the current branch",
	Long: `Record the tracked files on the current branch.

When untracked files exist, tico asks whether they should be committed too,
unless --yes or --no is given. The yes key of the config file answers the same question.
`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := initContext()
		repo, err := openRepo(ctx)
		if err != nil {
			wrapFatalln("opening repository", err)
			return
		}
		defer repo.Close()

		c, err := repo.Commit(ctx, params.commit.message, foldPolicy(cmd.OutOrStdout()))
		if errors.Is(err, status.ErrNothingToCommit) {
			fmt.Fprintln(cmd.OutOrStdout(), err)
			return
		}
		if err != nil {
			wrapFatalln("committing", err)
			return
		}

		fmt.Fprintf(cmd.OutOrStdout(), "[%s %s] %s\n", c.Branch, color.MagentaString(c.ID), c.Message)
		fmt.Fprintf(cmd.OutOrStdout(), "%d file(s) changed\n", len(c.Changed))
	},
}

// foldPolicy for untracked files, from the flags or the config, or else asking the user
func foldPolicy(out io.Writer) engine.FoldPolicy {
	switch {
	case params.commit.no:
		return engine.NeverFold
	case viper.GetBool("yes"):
		return engine.AlwaysFold
	}
	return engine.FoldFunc(func(_ context.Context, untracked []string) (bool, error) {
		fmt.Fprintln(out, "untracked files:")
		for _, p := range untracked {
			fmt.Fprintf(out, "  %s\n", color.YellowString(p))
		}
		fmt.Fprint(out, "commit untracked files? (y/n) ")
		return confirm(stdin)
	})
}

func confirm(r io.Reader) (bool, error) {
	answer, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

func init() {
	addCommitMessageFlag(commitCmd)
	addYesFlag(commitCmd)
	addNoFlag(commitCmd)
	rootCmd.AddCommand(commitCmd)
}
