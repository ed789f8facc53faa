// Copyright © 2018 One Concern

package cmd

import (
	"github.com/spf13/cobra"
)

// configCmd represents the config command
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Commands to manage the config of tico",
	Long:  `The namespace for managing config settings of tico`,
}

// dumpCmd represents the dump command
var dumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Print the config used",
	Long:  `Print the config used by the invocation of the tico command`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig()
		if err != nil {
			wrapFatalln("reading config", err)
			return
		}
		if err := print(cmd, cfg); err != nil {
			wrapFatalln("printing config", err)
		}
	},
}

func init() {
	addFormatFlag(dumpCmd, "yaml")
	configCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(configCmd)
}
