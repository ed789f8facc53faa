// Copyright © 2018 One Concern

package cmd

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/oneconcern/tico/pkg/engine"
	"github.com/spf13/cobra"
)

var branchCmd = &cobra.Command{
	Use:   "branch NAME",
	Short: "Switch to a branch, creating it if needed",
	Long: `Switch to a branch, creating it if needed.

A new branch starts empty: the working directory and the stage are cleared.
Switching to an existing branch restores the files of its last commit.
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

		created, err := repo.Branch(ctx, args[0])
		if err != nil {
			wrapFatalln("switching to branch "+args[0], err)
			return
		}
		if created {
			fmt.Fprintf(cmd.OutOrStdout(), "switched to a new branch %s\n", args[0])
			return
		}
		fmt.Fprintf(cmd.OutOrStdout(), "switched to branch %s\n", args[0])
	},
}

var branchListCmd = &cobra.Command{
	Use:     "list",
	Short:   "List the branches of the repository",
	Aliases: []string{"ls"},
	Args:    cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := initContext()
		repo, err := openRepo(ctx)
		if err != nil {
			wrapFatalln("opening repository", err)
			return
		}
		defer repo.Close()

		branches, err := repo.Branches(ctx)
		if err != nil {
			wrapFatalln("listing branches", err)
			return
		}
		if err := print(cmd, branches); err != nil {
			wrapFatalln("printing branches", err)
		}
	},
}

var branchFormatter = FormatterFunc(func(w io.Writer, data interface{}) error {
	branches := data.([]engine.BranchInfo)
	table := uitable.New()
	for _, b := range branches {
		marker := " "
		name := b.Name
		if b.Current {
			marker = "*"
			name = color.GreenString(b.Name)
		}
		table.AddRow(marker, name, fmt.Sprintf("%d commit(s)", b.Commits), color.HiBlackString(b.Head))
	}
	_, err := fmt.Fprintln(w, table)
	return err
})

func init() {
	addFormatFlag(branchListCmd, "list", map[string]Formatter{"list": branchFormatter})
	branchCmd.AddCommand(branchListCmd)
	rootCmd.AddCommand(branchCmd)
}
