// Copyright © 2018 One Concern

package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	units "github.com/docker/go-units"
	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/oneconcern/tico/pkg/engine"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the state of the working directory",
	Long: `Show the state of the working directory.

Every file is either tracked, when its content is the one known by the repository,
or untracked. Staged files are committed by the next commit.
Files known by the repository but absent from the working directory are listed as missing.
`,
	Aliases: []string{"st"},
	Run: func(cmd *cobra.Command, args []string) {
		ctx := initContext()
		repo, err := openRepo(ctx)
		if err != nil {
			wrapFatalln("opening repository", err)
			return
		}
		defer repo.Close()

		st, err := repo.Status(ctx)
		if err != nil {
			wrapFatalln("reading status", err)
			return
		}
		if err := print(cmd, st); err != nil {
			wrapFatalln("printing status", err)
			return
		}
		if st.Failures != nil {
			fmt.Fprintln(cmd.OutOrStderr(), color.RedString("some files could not be read: %v", st.Failures))
		}
	},
}

var statusFormatter = FormatterFunc(func(w io.Writer, data interface{}) error {
	st := data.(*engine.Status)
	root, err := repoRoot()
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "On branch %s\n", st.Branch)
	if st.UpToDate {
		fmt.Fprintln(w, "Your directory is up to date.")
		return nil
	}

	staged := make(map[string]bool, len(st.Staged))
	for _, p := range st.Staged {
		staged[p] = true
	}
	paths := make([]string, 0, len(st.Files))
	for p := range st.Files {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	table := uitable.New()
	table.MaxColWidth = 80
	for _, p := range paths {
		state := string(st.Files[p])
		if staged[p] {
			state += " (staged)"
		}
		table.AddRow(state, p, fileSize(root, p))
	}
	for _, p := range st.Missing {
		table.AddRow(color.RedString("Missing"), p, "")
	}
	_, err = fmt.Fprintln(w, table)
	return err
})

func fileSize(root, rel string) string {
	fi, err := os.Stat(filepath.Join(root, filepath.FromSlash(rel)))
	if err != nil {
		return ""
	}
	return units.HumanSize(float64(fi.Size()))
}

func init() {
	addFormatFlag(statusCmd, "text", map[string]Formatter{"text": statusFormatter})
	rootCmd.AddCommand(statusCmd)
}
