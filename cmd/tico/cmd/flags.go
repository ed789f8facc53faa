// Copyright © 2018 One Concern

package cmd

import (
	"github.com/oneconcern/tico/pkg/dlogger"
	"github.com/oneconcern/tico/pkg/engine"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type paramsT struct {
	root struct {
		repo     string
		logLevel string
		metadata string
	}
	init struct {
		user string
	}
	commit struct {
		message string
		yes     bool
		no      bool
	}
	log struct {
		short bool
	}
}

var params = paramsT{}

func addRepoFlag(cmd *cobra.Command) string {
	repo := "repo"
	cmd.PersistentFlags().StringVar(&params.root.repo, repo, ".", "The working directory of the repository")
	return repo
}

func addLogLevelFlag(cmd *cobra.Command) string {
	logLevel := "loglevel"
	cmd.PersistentFlags().StringVar(&params.root.logLevel, logLevel, dlogger.LogLevelNone, "The logging level: none, info or debug")
	_ = viper.BindPFlag(logLevel, cmd.PersistentFlags().Lookup(logLevel))
	return logLevel
}

func addMetadataFlag(cmd *cobra.Command) string {
	metadata := "metadata"
	cmd.PersistentFlags().StringVar(&params.root.metadata, metadata, engine.DefaultMetaDir, "The name of the metadata directory")
	_ = viper.BindPFlag(metadata, cmd.PersistentFlags().Lookup(metadata))
	return metadata
}

func addUserFlag(cmd *cobra.Command) string {
	user := "user"
	cmd.Flags().StringVar(&params.init.user, user, "", "The user committing in this repository (defaults to the system user)")
	return user
}

func addCommitMessageFlag(cmd *cobra.Command) string {
	message := "message"
	cmd.Flags().StringVarP(&params.commit.message, message, "m", "", "The message describing the commit")
	return message
}

func addYesFlag(cmd *cobra.Command) string {
	yes := "yes"
	cmd.Flags().BoolVarP(&params.commit.yes, yes, "y", false, "Commit untracked files without asking")
	_ = viper.BindPFlag(yes, cmd.Flags().Lookup(yes))
	return yes
}

func addNoFlag(cmd *cobra.Command) string {
	no := "no"
	cmd.Flags().BoolVarP(&params.commit.no, no, "n", false, "Commit staged files only, without asking")
	return no
}

func addShortFlag(cmd *cobra.Command) string {
	short := "short"
	cmd.Flags().BoolVar(&params.log.short, short, false, "One line per commit")
	return short
}
