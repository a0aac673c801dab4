// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/flamekit/flamekit/pkg/variation"
)

func newVarsCommand(app *App) *cobra.Command {
	var (
		params bool
		compat bool
		appTag string
	)
	cmd := &cobra.Command{
		Use:   "vars [FILTER]",
		Short: "List the known variations",
		Long: `List the variations flamekit recognizes, in registry order. FILTER keeps only
names containing it. With --params, each variation's parameter names are
printed too, under the native or (--compat) APO/Fractorium convention.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dialect := variation.Native
			if compat || (!cmd.Flags().Changed("compat") && app.settings().CompatNames) {
				dialect = variation.Compat
			}
			filter := ""
			if len(args) == 1 {
				filter = strings.ToLower(args[0])
			}

			out := cmd.OutOrStdout()
			shown := 0
			for _, d := range variation.All() {
				name := variation.Name(d.ID, appTag)
				if filter != "" && !strings.Contains(name, filter) {
					continue
				}
				shown++
				if !params {
					fmt.Fprintln(out, name)
					continue
				}
				names := variation.ParamNames(d.ID, dialect, appTag)
				if len(names) == 0 {
					fmt.Fprintln(out, NameStyle.Render(name))
					continue
				}
				fmt.Fprintf(out, "%s %s\n", NameStyle.Render(name), SubtitleStyle.Render(strings.Join(names, " ")))
			}
			app.log().Debug("listed variations", "shown", shown, "registered", variation.Count(), "dialect", dialect)
			return nil
		},
	}
	cmd.Flags().BoolVar(&params, "params", false, "print parameter names")
	cmd.Flags().BoolVar(&compat, "compat", false, "use APO/Fractorium parameter names")
	cmd.Flags().StringVar(&appTag, "app", "", "apply naming exceptions of this authoring application")
	return cmd
}
