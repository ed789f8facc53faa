// Copyright © 2018 One Concern

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Commands to manage the current user of the repository",
	Long:  `The current user is the author of the commits. It is set by init and may be changed at any time.`,
}

var userShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the current user",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := initContext()
		repo, err := openRepo(ctx)
		if err != nil {
			wrapFatalln("opening repository", err)
			return
		}
		defer repo.Close()

		fmt.Fprintln(cmd.OutOrStdout(), repo.Whoami(ctx))
	},
}

var userSetCmd = &cobra.Command{
	Use:   "set NAME",
	Short: "Change the current user",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx := initContext()
		repo, err := openRepo(ctx)
		if err != nil {
			wrapFatalln("opening repository", err)
			return
		}
		defer repo.Close()

		if err := repo.SetUser(ctx, args[0]); err != nil {
			wrapFatalln("setting user", err)
			return
		}
		fmt.Fprintf(cmd.OutOrStdout(), "commits are now authored by %s\n", repo.Whoami(ctx))
	},
}

func init() {
	userCmd.AddCommand(userShowCmd)
	userCmd.AddCommand(userSetCmd)
	rootCmd.AddCommand(userCmd)
}
