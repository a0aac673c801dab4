// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"
)

// NewRootCommand builds the flamekit command tree around app.
func NewRootCommand(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "flamekit",
		Short: "Read, write, and convert fractal flame preset files",
		Long: TitleStyle.Render("flamekit") + SubtitleStyle.Render(" - fractal flame preset toolkit") + `

flamekit reads and writes the XML flame format shared by flam3, Apophysis,
Chaotica, JWildfire, and Fractorium. Files are parsed leniently: malformed
numbers, unknown variations, and overflowing variation sections are reported
as diagnostics and the rest of the preset is kept.

` + SubtitleStyle.Render("Examples:") + `
  flamekit list spirals.flame               List preset names
  flamekit inspect spirals.flame -p Spiral  Summarize one preset
  flamekit validate *.flame                 Check files for problems
  flamekit convert in.flame out.flame       Rewrite with current settings
  flamekit config show                      Show current configuration`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.init(cmd.Context())
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&app.verbose, "verbose", "v", false, "show debug diagnostics and full error chains")
	rootCmd.PersistentFlags().StringVar(&app.configPath, "config", "", "config file (default is $XDG_CONFIG_HOME/flamekit/config.cue)")

	rootCmd.SetOut(app.stdout)
	rootCmd.SetErr(app.stderr)

	rootCmd.AddCommand(
		newListCommand(app),
		newInspectCommand(app),
		newValidateCommand(app),
		newConvertCommand(app),
		newPrettyCommand(app),
		newMergeCommand(app),
		newPaletteCommand(app),
		newParamsCommand(app),
		newVarsCommand(app),
		newConfigCommand(app),
	)
	return rootCmd
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Run executes the command tree with args and returns the process exit code.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	app := NewApp(Dependencies{Stdin: os.Stdin, Stdout: stdout, Stderr: stderr})
	rootCmd := NewRootCommand(app)
	rootCmd.SetArgs(args)

	err := fang.Execute(
		ctx,
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(func(w io.Writer, _ fang.Styles, err error) {
			var exitErr *ExitError
			if errors.As(err, &exitErr) && exitErr.Err == nil {
				return
			}
			fmt.Fprintln(w, ErrorStyle.Render("Error: ")+formatError(err, app.verbose))
		}),
	)
	if err == nil {
		return 0
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return 1
}

// Execute runs flamekit with the process arguments and exits.
// This is called by main.main().
func Execute() {
	os.Exit(Run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}
