// Copyright © 2018 One Concern

package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add PATH...",
	Short: "Stage files for the next commit",
	Long: `Stage files for the next commit.

A directory stages every file below it. Paths are relative to the current directory.
`,
	Args: cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := initContext()
		repo, err := openRepo(ctx)
		if err != nil {
			wrapFatalln("opening repository", err)
			return
		}
		defer repo.Close()

		for _, arg := range args {
			pth, err := filepath.Abs(arg)
			if err != nil {
				wrapFatalln("resolving "+arg, err)
				return
			}
			added, err := repo.Add(ctx, pth)
			for _, p := range added.Paths() {
				fmt.Fprintf(cmd.OutOrStdout(), "added %s\n", p)
			}
			if err != nil {
				wrapFatalln("adding "+arg, err)
				return
			}
		}
	},
}

var unaddCmd = &cobra.Command{
	Use:     "unadd PATH...",
	Short:   "Remove files from the stage",
	Long:    `Remove files from the stage. The files are left untouched in the working directory.`,
	Aliases: []string{"rmadd", "rm"},
	Args:    cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := initContext()
		repo, err := openRepo(ctx)
		if err != nil {
			wrapFatalln("opening repository", err)
			return
		}
		defer repo.Close()

		for _, arg := range args {
			pth, err := filepath.Abs(arg)
			if err != nil {
				wrapFatalln("resolving "+arg, err)
				return
			}
			removed, err := repo.Unadd(ctx, pth)
			for _, p := range removed {
				fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", p)
			}
			if err != nil {
				wrapFatalln("removing "+arg, err)
				return
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(unaddCmd)
}
