// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/flamekit/flamekit/internal/config"
)

// configKeys lists the keys accepted by `config set`, in display order.
var configKeys = []string{
	"default_iterations",
	"compat_names",
	"f3h_affine",
	"generator",
	"palette.extended",
	"palette.bake_hsv",
	"palette.wrap",
	"ui.color_scheme",
	"ui.verbose",
}

// newConfigCommand creates the `flamekit config` command tree.
func newConfigCommand(app *App) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage flamekit configuration",
		Long: `Manage flamekit configuration.

Configuration is stored in:
  - Linux: ~/.config/flamekit/config.cue
  - macOS: ~/Library/Application Support/flamekit/config.cue
  - Windows: %APPDATA%\flamekit\config.cue

Any key can be overridden with a FLAMEKIT_ environment variable, for example
FLAMEKIT_PALETTE_WRAP=0.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			showConfig(cmd.OutOrStdout(), app.settings())
			return nil
		},
	})

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.CreateDefaultConfig("", force)
			if err != nil {
				return fmt.Errorf("failed to create config: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s Configuration at %s\n", SuccessStyle.Render("✓"), path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing configuration file")
	cfgCmd.AddCommand(initCmd)

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.ConfigFilePath("")
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:       "set <key> <value>",
		Short:     "Set a configuration value",
		Args:      cobra.ExactArgs(2),
		ValidArgs: configKeys,
		RunE: func(cmd *cobra.Command, args []string) error {
			return setConfigValue(cmd.OutOrStdout(), app, args[0], args[1])
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output raw configuration as CUE",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprint(cmd.OutOrStdout(), config.GenerateCUE(app.settings()))
			return nil
		},
	})

	return cfgCmd
}

func showConfig(w io.Writer, cfg *config.Config) {
	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(w)

	source := SubtitleStyle.Render("(using defaults)")
	if cfg.Source != "" {
		source = cfg.Source
	}
	fmt.Fprintf(w, "%s: %s\n\n", NameStyle.Render("Config file"), source)

	value := func(key string, v any) {
		fmt.Fprintf(w, "%s: %s\n", NameStyle.Render(key), SuccessStyle.Render(fmt.Sprint(v)))
	}
	value("default_iterations", cfg.DefaultIterations)
	value("compat_names", cfg.CompatNames)
	value("f3h_affine", cfg.F3HAffine)
	value("generator", cfg.Generator)

	fmt.Fprintf(w, "\n%s:\n", NameStyle.Render("palette"))
	fmt.Fprintf(w, "  extended: %s\n", SuccessStyle.Render(strconv.FormatBool(cfg.Palette.Extended)))
	fmt.Fprintf(w, "  bake_hsv: %s\n", SuccessStyle.Render(strconv.FormatBool(cfg.Palette.BakeHSV)))
	fmt.Fprintf(w, "  wrap: %s\n", SuccessStyle.Render(strconv.Itoa(cfg.Palette.Wrap)))

	fmt.Fprintf(w, "\n%s:\n", NameStyle.Render("ui"))
	fmt.Fprintf(w, "  color_scheme: %s\n", SuccessStyle.Render(cfg.UI.ColorScheme.String()))
	fmt.Fprintf(w, "  verbose: %s\n", SuccessStyle.Render(strconv.FormatBool(cfg.UI.Verbose)))
}

// setConfigValue updates one key and saves the result to the file the configuration came
// from, or to the default location.
func setConfigValue(w io.Writer, app *App, key, value string) error {
	cfg := *app.settings()

	parseBool := func() (bool, error) {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return false, fmt.Errorf("invalid %s %q: must be true or false", key, value)
		}
		return b, nil
	}
	parseInt := func() (int, error) {
		n, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s %q: must be an integer", key, value)
		}
		return n, nil
	}

	var err error
	switch key {
	case "default_iterations":
		cfg.DefaultIterations, err = parseInt()
	case "compat_names":
		cfg.CompatNames, err = parseBool()
	case "f3h_affine":
		cfg.F3HAffine, err = parseBool()
	case "generator":
		cfg.Generator = value
	case "palette.extended":
		cfg.Palette.Extended, err = parseBool()
	case "palette.bake_hsv":
		cfg.Palette.BakeHSV, err = parseBool()
	case "palette.wrap":
		cfg.Palette.Wrap, err = parseInt()
	case "ui.color_scheme":
		cfg.UI.ColorScheme = config.ColorScheme(value)
	case "ui.verbose":
		cfg.UI.Verbose, err = parseBool()
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	if err != nil {
		return err
	}
	if valid, errs := cfg.IsValid(); !valid {
		return errs[0]
	}

	path := cfg.Source
	if path == "" {
		if path, err = config.ConfigFilePath(""); err != nil {
			return err
		}
	}
	if err := config.Save(path, &cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	fmt.Fprintf(w, "%s Set %s = %s\n", SuccessStyle.Render("✓"), key, value)
	return nil
}
