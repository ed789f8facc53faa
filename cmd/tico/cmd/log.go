// Copyright © 2018 One Concern

package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/oneconcern/tico/pkg/engine"
	"github.com/oneconcern/tico/pkg/store"
	"github.com/spf13/cobra"
)

const shortIDLen = 12

// logCmd represents the log command
var logCmd = &cobra.Command{
	Use:   "log",
	Short: "Get commit history",
	Long: `Displays the commits of the current branch, newest first, with their messages.

Commits removed by undo or checkout are listed afterwards.
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

		h, err := repo.Log(ctx)
		if err != nil {
			wrapFatalln("reading history", err)
			return
		}
		if err := print(cmd, h); err != nil {
			wrapFatalln("printing history", err)
		}
	},
}

var logFormatter = FormatterFunc(func(w io.Writer, data interface{}) error {
	h := data.(*engine.History)
	if params.log.short {
		return shortLog(w, h)
	}
	if len(h.Commits) == 0 {
		fmt.Fprintf(w, "no commits on branch %s\n", h.Branch)
	}
	for i := len(h.Commits) - 1; i >= 0; i-- {
		printCommit(w, h.Commits[i])
	}
	if len(h.Removed) > 0 {
		fmt.Fprintln(w, color.RedString("Removed commits:"))
		fmt.Fprintln(w)
		for _, c := range h.Removed {
			printCommit(w, c)
		}
	}
	return nil
})

func printCommit(w io.Writer, c *store.Commit) {
	fmt.Fprintf(w, "     ID: %s\n", color.MagentaString(c.ID))
	fmt.Fprintf(w, " Author: %s\n", color.YellowString(c.Author))
	fmt.Fprintf(w, " Branch: %s\n", c.Branch)
	fmt.Fprintf(w, "   Date: %s\n", color.YellowString(c.Timestamp.Local().Format(time.RFC3339)))
	fmt.Fprintf(w, "  Files: %d changed, %d in total\n", len(c.Changed), len(c.Snapshot))
	fmt.Fprintln(w)
	fmt.Fprintf(w, "    %s\n", c.Message)
	fmt.Fprintln(w)
}

func shortLog(w io.Writer, h *engine.History) error {
	table := uitable.New()
	table.MaxColWidth = 60
	for i := len(h.Commits) - 1; i >= 0; i-- {
		c := h.Commits[i]
		table.AddRow(color.MagentaString(abbrev(c.ID)), c.Timestamp.Local().Format(time.RFC3339), c.Author, c.Message)
	}
	for _, c := range h.Removed {
		table.AddRow(color.HiBlackString(abbrev(c.ID)), c.Timestamp.Local().Format(time.RFC3339), c.Author, color.HiBlackString("(removed) "+c.Message))
	}
	_, err := fmt.Fprintln(w, table)
	return err
}

func abbrev(id string) string {
	if len(id) > shortIDLen {
		return id[:shortIDLen]
	}
	return id
}

func init() {
	addShortFlag(logCmd)
	addFormatFlag(logCmd, "log", map[string]Formatter{"log": logFormatter})
	rootCmd.AddCommand(logCmd)
}
