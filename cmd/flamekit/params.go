// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/flamekit/flamekit/pkg/flame"
	"github.com/flamekit/flamekit/pkg/flamestore"
	"github.com/flamekit/flamekit/pkg/host"
	"github.com/flamekit/flamekit/pkg/numstr"
)

func newParamsCommand(app *App) *cobra.Command {
	var (
		presetName string
		index      int
		prefix     string
	)
	cmd := &cobra.Command{
		Use:   "params FILE",
		Short: "Print a preset as flat host parameters",
		Long: `Print one preset as the flat parameter set a host application stores, one
"name = value" line per parameter in name order. Animated keyframes are not
part of a preset, so every value is static.

Without --preset or --index only the first preset is parsed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := selectHostPreset(cmd, app, args[0], presetName, index)
			if err != nil {
				return err
			}
			store := host.NewMemoryStore()
			host.Apply(store, p)
			printParams(cmd.OutOrStdout(), store, prefix)
			return nil
		},
	}
	cmd.Flags().StringVarP(&presetName, "preset", "p", "", "preset name")
	cmd.Flags().IntVarP(&index, "index", "n", 0, "zero-based preset index")
	cmd.Flags().StringVar(&prefix, "prefix", "", "print only parameters starting with this prefix")
	return cmd
}

func selectHostPreset(cmd *cobra.Command, app *App, path, name string, index int) (flame.Preset, error) {
	if name == "" && !cmd.Flags().Changed("index") {
		data, err := app.read(path)
		if err != nil {
			return flame.Preset{}, fileError("read flame file", path, err)
		}
		p, report, err := flamestore.FirstPreset(data, app.storeOptions())
		if err != nil {
			return flame.Preset{}, fileError("load first preset", path, err)
		}
		report.Log(app.log().With("file", path))
		return p, nil
	}

	res, err := app.load(path)
	if err != nil {
		return flame.Preset{}, err
	}
	if name != "" {
		p, err := flamestore.Select(res.Document, name, 0)
		if err != nil {
			return flame.Preset{}, fileError("select preset", path, err)
		}
		return p, nil
	}
	p, _, ok := host.Current(res.Document, host.FixedSelection(index))
	if !ok {
		return flame.Preset{}, fileError("select preset", path, &flamestore.NoSuchPresetError{Index: index})
	}
	return *p, nil
}

func printParams(w io.Writer, store *host.MemoryStore, prefix string) {
	for _, key := range store.Keys() {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		if v, ok := store.Float(key); ok {
			fmt.Fprintf(w, "%s = %s\n", key, numstr.RoundTrim(v))
			continue
		}
		if v, ok := store.String(key); ok {
			fmt.Fprintf(w, "%s = %q\n", key, v)
		}
	}
}
