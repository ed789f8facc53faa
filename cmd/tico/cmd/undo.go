// Copyright © 2018 One Concern

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var undoCmd = &cobra.Command{
	Use:   "undo",
	Short: "Remove the last commit of the current branch",
	Long: `Remove the last commit of the current branch.

The working directory and the stage return to the state of the previous commit.
Files added by the removed commit are deleted from the working directory.
The removed commit is kept aside and still shows in the log.
`,
	Aliases: []string{"rmcommit"},
	Args:    cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := initContext()
		repo, err := openRepo(ctx)
		if err != nil {
			wrapFatalln("opening repository", err)
			return
		}
		defer repo.Close()

		c, err := repo.UndoLastCommit(ctx)
		if err != nil {
			wrapFatalln("undoing last commit", err)
			return
		}
		fmt.Fprintf(cmd.OutOrStdout(), "removed commit %s: %s\n", c.ID, c.Message)
	},
}

var checkoutCmd = &cobra.Command{
	Use:   "checkout ID",
	Short: "Return to a commit of the current branch",
	Long: `Return to a commit of the current branch.

The commit may be given by a unique prefix of its id, of at least 4 characters.
The commits that follow it are removed from the branch, and the working directory
is replaced by the files of the commit.
`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := initContext()
		repo, err := openRepo(ctx)
		if err != nil {
			wrapFatalln("opening repository", err)
			return
		}
		defer repo.Close()

		c, err := repo.Checkout(ctx, args[0])
		if err != nil {
			wrapFatalln("checking out "+args[0], err)
			return
		}
		fmt.Fprintf(cmd.OutOrStdout(), "at commit %s: %s\n", c.ID, c.Message)
	},
}

var gcCmd = &cobra.Command{
	Use:   "gc",
	Short: "Remove the file contents no commit refers to",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := initContext()
		repo, err := openRepo(ctx)
		if err != nil {
			wrapFatalln("opening repository", err)
			return
		}
		defer repo.Close()

		removed, err := repo.GC(ctx)
		if err != nil {
			wrapFatalln("collecting garbage", err)
			return
		}
		fmt.Fprintf(cmd.OutOrStdout(), "removed %d object(s)\n", len(removed))
	},
}

func init() {
	rootCmd.AddCommand(undoCmd)
	rootCmd.AddCommand(checkoutCmd)
	rootCmd.AddCommand(gcCmd)
}
