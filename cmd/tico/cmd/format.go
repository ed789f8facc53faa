// Copyright © 2018 One Concern

package cmd

import (
	"fmt"
	"io"
	"sort"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"
	yaml "gopkg.in/yaml.v2"
)

const formatFlag = "format"

// Formatter renders the result of a command
type Formatter interface {
	Format(io.Writer, interface{}) error
}

// FormatterFunc adapts a function to a Formatter
type FormatterFunc func(io.Writer, interface{}) error

// Format data to the writer
func (f FormatterFunc) Format(w io.Writer, data interface{}) error {
	return f(w, data)
}

var (
	yamlFormatter = FormatterFunc(func(w io.Writer, data interface{}) error {
		b, err := yaml.Marshal(data)
		if err != nil {
			return err
		}
		_, err = w.Write(b)
		return err
	})

	jsonFormatter = FormatterFunc(func(w io.Writer, data interface{}) error {
		enc := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	})

	// formatters registered per command, on top of yaml and json
	formatters = make(map[*cobra.Command]map[string]Formatter)
)

// addFormatFlag registers the --format flag of a command.
//
// yaml and json are always available.
func addFormatFlag(cmd *cobra.Command, defaultFormat string, custom ...map[string]Formatter) {
	known := map[string]Formatter{
		"yaml": yamlFormatter,
		"json": jsonFormatter,
	}
	for _, fmts := range custom {
		for k, v := range fmts {
			known[k] = v
		}
	}
	formatters[cmd] = known

	names := make([]string, 0, len(known))
	for k := range known {
		names = append(names, k)
	}
	sort.Strings(names)
	cmd.Flags().String(formatFlag, defaultFormat, "The output format: "+strings.Join(names, ", "))
}

// print the result of a command in the format selected by the user
func print(cmd *cobra.Command, data interface{}) error {
	name, err := cmd.Flags().GetString(formatFlag)
	if err != nil {
		return err
	}
	f, ok := formatters[cmd][name]
	if !ok {
		return fmt.Errorf("unknown format %q", name)
	}
	return f.Format(cmd.OutOrStdout(), data)
}
