// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/flamekit/flamekit/pkg/flame"
	"github.com/flamekit/flamekit/pkg/flamestore"
)

func newListCommand(app *App) *cobra.Command {
	var iterations bool
	cmd := &cobra.Command{
		Use:   "list FILE",
		Short: "List the preset names of a flame file",
		Long: `List the preset names of a flame file in file order.

Only the names are read, so this is fast for large collections.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			names, err := app.listNames(args[0])
			if err != nil {
				return fileError("list presets", args[0], err)
			}
			out := cmd.OutOrStdout()
			for _, name := range names {
				if !iterations {
					fmt.Fprintln(out, name)
					continue
				}
				fmt.Fprintf(out, "%s\t%d\n", name, flame.LoadIterations(name, app.settings().DefaultIterations))
			}
			app.log().Debug("listed presets", "file", args[0], "count", len(names))
			return nil
		},
	}
	cmd.Flags().BoolVarP(&iterations, "iterations", "i", false, "also print each preset's load iteration count")
	return cmd
}

func (a *App) listNames(path string) ([]string, error) {
	if path != stdinPath {
		return flamestore.ListFile(path)
	}
	data, err := a.read(path)
	if err != nil {
		return nil, err
	}
	return flamestore.ListNames(data)
}

func newPrettyCommand(app *App) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "pretty FILE",
		Short: "Re-indent a flame file without changing its content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := app.read(args[0])
			if err != nil {
				return fileError("read flame file", args[0], err)
			}
			pretty, err := flamestore.Pretty(data)
			if err != nil {
				return fileError("indent flame file", args[0], err)
			}
			if output == "" {
				_, err = cmd.OutOrStdout().Write(pretty)
				return err
			}
			if err := os.WriteFile(output, pretty, 0o644); err != nil {
				return fileError("write flame file", output, err)
			}
			app.log().Debug("indented flame file", "from", args[0], "to", output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to this file instead of standard output")
	return cmd
}
