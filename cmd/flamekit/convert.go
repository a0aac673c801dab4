// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/flamekit/flamekit/pkg/flame"
	"github.com/flamekit/flamekit/pkg/flamestore"
	"github.com/flamekit/flamekit/pkg/variation"
)

type convertFlags struct {
	compat          bool
	f3hAffine       bool
	extendedPalette bool
	bakeHSV         bool
	preset          string
}

func newConvertCommand(app *App) *cobra.Command {
	var flags convertFlags
	cmd := &cobra.Command{
		Use:   "convert IN OUT",
		Short: "Rewrite a flame file with the chosen output conventions",
		Long: `Read IN and write it to OUT using the configured output conventions. Flags
override the configuration for this run only. Use "-" as IN to read from
standard input.

Nothing is written when any xform section uses a variation more than once.`,
		Example: `  flamekit convert spirals.flame spirals-apo.flame --compat
  flamekit convert spirals.flame one.flame --preset Spiral --bake-hsv`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := app.storeOptions()
			fs := cmd.Flags()
			if fs.Changed("compat") {
				opts.Write.Dialect = variation.Native
				if flags.compat {
					opts.Write.Dialect = variation.Compat
				}
			}
			if fs.Changed("f3h-affine") {
				opts.Write.ExtendedAffine = flags.f3hAffine
			}
			if fs.Changed("extended-palette") {
				opts.Write.ExtendedPalette = flags.extendedPalette
			}
			if fs.Changed("bake-hsv") {
				opts.Write.BakeHSV = flags.bakeHSV
			}

			res, err := app.loadWith(args[0], opts)
			if err != nil {
				return err
			}
			doc := res.Document
			if flags.preset != "" {
				p, err := flamestore.Select(doc, flags.preset, 0)
				if err != nil {
					return fileError("select preset", args[0], err)
				}
				doc = flame.NewDocument(p)
			}
			if err := app.save(args[1], doc, opts); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Wrote %d presets to %s (%s names)\n",
				SuccessStyle.Render("✓"), doc.Len(), args[1], opts.Write.Dialect)
			return nil
		},
	}
	cmd.Flags().BoolVar(&flags.compat, "compat", false, "write APO/Fractorium parameter names")
	cmd.Flags().BoolVar(&flags.f3hAffine, "f3h-affine", false, "also write the un-rotated affine form")
	cmd.Flags().BoolVar(&flags.extendedPalette, "extended-palette", false, "write palettes with more than 256 samples")
	cmd.Flags().BoolVar(&flags.bakeHSV, "bake-hsv", false, "apply HSV correction to palette colours")
	cmd.Flags().StringVarP(&flags.preset, "preset", "p", "", "write only this preset")
	return cmd
}
