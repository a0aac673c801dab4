// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/flamekit/flamekit/pkg/flamestore"
)

// newPaletteCommand creates the `flamekit palette` command tree.
func newPaletteCommand(app *App) *cobra.Command {
	paletteCmd := &cobra.Command{
		Use:   "palette",
		Short: "Exchange palettes with JSON palette libraries",
		Long: `Exchange palettes with JSON palette libraries.

A library maps preset names to a hex colour string and an optional HSV
correction:

  {"Spiral": {"hex": "ff0000...", "hsv": "1 1 1"}}`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	var samples int
	exportCmd := &cobra.Command{
		Use:   "export FILE OUT.json",
		Short: "Write the palette of every preset to a library",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := app.load(args[0])
			if err != nil {
				return err
			}
			lib := flamestore.ExportPalettes(res.Document, samples)
			if err := flamestore.SavePalettes(args[1], lib); err != nil {
				return fileError("save palette library", args[1], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Exported %d palettes to %s\n", SuccessStyle.Render("✓"), lib.Len(), args[1])
			return nil
		},
	}
	exportCmd.Flags().IntVarP(&samples, "samples", "s", 0, "resample every palette to this many colours (0 keeps each palette's count)")

	var output string
	importCmd := &cobra.Command{
		Use:   "import FILE IN.json",
		Short: "Replace preset palettes from a library",
		Long: `Replace the palette of every preset named in the library. Library entries that
match no preset are listed and skipped. FILE is rewritten unless --output names
another file.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := app.load(args[0])
			if err != nil {
				return err
			}
			lib, err := flamestore.LoadPalettes(args[1])
			if err != nil {
				return fileError("load palette library", args[1], err)
			}
			result, err := flamestore.ImportPalettes(res.Document, lib)
			if err != nil {
				return fileError("import palettes", args[1], err)
			}

			target := args[0]
			if output != "" {
				target = output
			}
			if err := app.save(target, res.Document, app.storeOptions()); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, name := range result.Unmatched {
				fmt.Fprintf(out, "%s no preset named %s\n", WarningStyle.Render("!"), NameStyle.Render(name))
			}
			fmt.Fprintf(out, "%s Imported %d palettes into %s\n", SuccessStyle.Render("✓"), len(result.Applied), target)
			return nil
		},
	}
	importCmd.Flags().StringVarP(&output, "output", "o", "", "write the result here instead of FILE")

	paletteCmd.AddCommand(exportCmd, importCmd)
	return paletteCmd
}
