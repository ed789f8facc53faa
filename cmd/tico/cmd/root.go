// Copyright © 2018 One Concern

package cmd

import (
	"context"
	"log"
	"os"
	"path/filepath"

	"github.com/oneconcern/tico"
	"github.com/oneconcern/tico/pkg/dlogger"
	"github.com/oneconcern/tico/pkg/engine"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envPrefix = "TICO"

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tico",
	Short: "tico keeps local versions of a working directory",
	Long: `tico keeps local versions of a working directory.

Files are added to a stage, then committed on a branch. Every branch holds a linear
history of commits, which may be checked out, undone or exported to another directory.

File contents are stored once, keyed by their fingerprint, in the metadata directory
at the root of the working directory.
`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		osExit(1)
	}
}

func init() {
	log.SetFlags(0)
	cobra.OnInitialize(initConfig)

	addRepoFlag(rootCmd)
	addLogLevelFlag(rootCmd)
	addMetadataFlag(rootCmd)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if os.Getenv(envPrefix+"_CONFIG") != "" {
		viper.SetConfigFile(os.Getenv(envPrefix + "_CONFIG"))
	} else {
		viper.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			viper.AddConfigPath(home)
		}
		viper.SetConfigName(".tico")
	}

	viper.SetEnvPrefix(envPrefix)
	viper.SetDefault("metadata", engine.DefaultMetaDir)
	viper.SetDefault("loglevel", dlogger.LogLevelNone)
	viper.AutomaticEnv() // read in environment variables that match

	// a missing config file is fine
	_ = viper.ReadInConfig()
}

func loadConfig() (tico.Config, error) {
	var cfg tico.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// repoOptions builds the engine options from the config
func repoOptions() ([]engine.Option, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	logger, err := cfg.Logger()
	if err != nil {
		return nil, err
	}
	return cfg.EngineOptions(logger), nil
}

func repoRoot() (string, error) {
	return filepath.Abs(params.root.repo)
}

// openRepo opens the repository of the working directory given by --repo
func openRepo(ctx context.Context) (*engine.Repository, error) {
	opts, err := repoOptions()
	if err != nil {
		return nil, err
	}
	root, err := repoRoot()
	if err != nil {
		return nil, err
	}
	return engine.Open(ctx, root, opts...)
}

func initContext() context.Context {
	return context.Background()
}
