// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/flamekit/flamekit/pkg/flamestore"
)

func newMergeCommand(app *App) *cobra.Command {
	var (
		replace bool
		output  string
	)
	cmd := &cobra.Command{
		Use:   "merge DEST SRC",
		Short: "Append the presets of SRC to DEST",
		Long: `Append every preset of SRC to DEST, in order. With --replace, a preset whose
name already exists in DEST is replaced in place instead.

DEST is rewritten unless --output names another file.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			dst, err := app.load(args[0])
			if err != nil {
				return err
			}
			src, err := app.load(args[1])
			if err != nil {
				return err
			}
			appended, replaced := flamestore.Merge(dst.Document, src.Document, replace)

			target := args[0]
			if output != "" {
				target = output
			}
			if err := app.save(target, dst.Document, app.storeOptions()); err != nil {
				return err
			}
			app.log().Debug("merged presets", "from", args[1], "into", target, "appended", appended, "replaced", replaced)
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s: %d appended, %d replaced\n",
				SuccessStyle.Render("✓"), target, appended, replaced)
			return nil
		},
	}
	cmd.Flags().BoolVar(&replace, "replace", false, "replace presets with matching names")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write the result here instead of DEST")
	return cmd
}
