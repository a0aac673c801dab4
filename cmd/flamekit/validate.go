// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"golang.org/x/exp/slices"

	"github.com/flamekit/flamekit/internal/issue"
	"github.com/flamekit/flamekit/pkg/flamexml"
)

// validation accumulates results across the files of one validate run.
type validation struct {
	out     io.Writer
	strict  bool
	verbose bool
	failed  bool
	issues  []issue.Id
}

func newValidateCommand(app *App) *cobra.Command {
	var explain, strict bool
	cmd := &cobra.Command{
		Use:   "validate FILE...",
		Short: "Check flame files for problems",
		Long: `Parse flame files and report every problem recovered along the way, then check
that each xform section uses a variation at most once, which writing requires.

Files with unreadable structure or repeated variations fail. With --strict, any
warning-level diagnostic fails the file too. --explain prints remediation notes
for each kind of problem found.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v := &validation{out: cmd.OutOrStdout(), strict: strict, verbose: app.verbose}
			opts := app.storeOptions()
			opts.Logger = slog.New(slog.DiscardHandler)
			for _, path := range args {
				res, err := app.loadWith(path, opts)
				v.check(path, res, err)
			}
			if explain {
				style := app.glamourStyle(v.out)
				for _, id := range v.issues {
					rendered, err := issue.Get(id).Render(style)
					if err != nil {
						return err
					}
					fmt.Fprint(v.out, rendered)
				}
			}
			if v.failed {
				return &ExitError{Code: 1}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&explain, "explain", false, "print remediation notes for the problems found")
	cmd.Flags().BoolVar(&strict, "strict", false, "fail on any warning-level diagnostic")
	return cmd
}

func (v *validation) check(path string, res *flamexml.Result, err error) {
	if err != nil {
		v.fail(path, err)
		return
	}

	warnings := 0
	for _, e := range res.Report.Entries() {
		if e.Kind.Level() < slog.LevelWarn {
			if v.verbose {
				fmt.Fprintf(v.out, "  %s %s\n", SubtitleStyle.Render("·"), e)
			}
			continue
		}
		warnings++
		fmt.Fprintf(v.out, "  %s %s\n", WarningStyle.Render("!"), e)
		v.note(issue.ForKind(e.Kind))
	}

	if err := flamexml.CheckDuplicates(res.Document); err != nil {
		v.fail(path, err)
		return
	}
	if v.strict && warnings > 0 {
		v.failed = true
		fmt.Fprintf(v.out, "%s %s: %d warnings\n", ErrorStyle.Render("✗"), path, warnings)
		return
	}

	summary := fmt.Sprintf("%d presets", res.Document.Len())
	if warnings > 0 {
		summary += WarningStyle.Render(fmt.Sprintf(", %d warnings", warnings))
	}
	fmt.Fprintf(v.out, "%s %s: %s\n", SuccessStyle.Render("✓"), path, summary)
}

func (v *validation) fail(path string, err error) {
	v.failed = true
	fmt.Fprintf(v.out, "%s %s\n", ErrorStyle.Render("✗"), path)

	var dup *flamexml.IncompatibleError
	if errors.As(err, &dup) {
		for _, d := range dup.Duplicates {
			fmt.Fprintf(v.out, "  %s %s\n", ErrorStyle.Render("x"), d)
		}
		for _, c := range dup.Conflicts {
			fmt.Fprintf(v.out, "  %s %s\n", ErrorStyle.Render("x"), c)
		}
		if len(dup.Duplicates) > 0 {
			v.note(issue.DuplicateVariationId)
		}
		if len(dup.Conflicts) > 0 {
			v.note(issue.ReservedValueId)
		}
		return
	}
	fmt.Fprintf(v.out, "  %s\n", formatError(err, v.verbose))
	v.note(issue.ForError(err))
}

// note records id once, in first-seen order. Zero ids are ignored.
func (v *validation) note(id issue.Id) {
	if id == 0 || slices.Contains(v.issues, id) {
		return
	}
	v.issues = append(v.issues, id)
}
