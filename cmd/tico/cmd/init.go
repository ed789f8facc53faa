// Copyright © 2018 One Concern

package cmd

import (
	"fmt"

	"github.com/oneconcern/tico/pkg/engine"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a repository in the working directory",
	Long: `Create a repository in the working directory.

The repository starts on the main branch, with an empty stage.
When no user is given, the user of the operating system is the author of the commits.
`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := initContext()
		opts, err := repoOptions()
		if err != nil {
			wrapFatalln("configuring repository", err)
			return
		}
		root, err := repoRoot()
		if err != nil {
			wrapFatalln("resolving working directory", err)
			return
		}

		repo, err := engine.Init(ctx, root, params.init.user, opts...)
		if err != nil {
			wrapFatalln("initializing repository", err)
			return
		}
		defer repo.Close()

		fmt.Fprintf(cmd.OutOrStdout(), "initialized repository in %s for %s\n", repo.Root(), repo.Whoami(ctx))
	},
}

func init() {
	addUserFlag(initCmd)
	rootCmd.AddCommand(initCmd)
}
