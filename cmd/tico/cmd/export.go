// Copyright © 2018 One Concern

package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export DIR",
	Short: "Write the files of the last commit to a directory",
	Long: `Write the files of the last commit of the current branch to a directory.

The directory is created when it does not exist. Existing files with the same
paths are overwritten, other files are left alone.
`,
	Aliases: []string{"push"},
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := initContext()
		repo, err := openRepo(ctx)
		if err != nil {
			wrapFatalln("opening repository", err)
			return
		}
		defer repo.Close()

		target, err := filepath.Abs(args[0])
		if err != nil {
			wrapFatalln("resolving "+args[0], err)
			return
		}
		c, err := repo.Export(ctx, target)
		if err != nil {
			wrapFatalln("exporting to "+args[0], err)
			return
		}
		fmt.Fprintf(cmd.OutOrStdout(), "exported %d file(s) of commit %s to %s\n", len(c.Snapshot), c.ID, target)
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
}
