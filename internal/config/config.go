// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/spf13/viper"

	"github.com/flamekit/flamekit/internal/cueutil"
	"github.com/flamekit/flamekit/internal/issue"
	"github.com/flamekit/flamekit/pkg/flamestore"
	"github.com/flamekit/flamekit/pkg/flamexml"
	"github.com/flamekit/flamekit/pkg/variation"
)

const (
	// AppName is the application name.
	AppName = "flamekit"
	// ConfigFileName is the name of the config file (without extension).
	ConfigFileName = "config"
	// ConfigFileExt is the config file extension.
	ConfigFileExt = "cue"
	// EnvPrefix prefixes environment overrides (FLAMEKIT_PALETTE_WRAP).
	EnvPrefix = "FLAMEKIT"
)

//go:embed config_schema.cue
var configSchema []byte

// ConfigDir returns the flamekit configuration directory using platform-specific
// conventions: Windows uses %APPDATA%, macOS uses ~/Library/Application Support,
// and Linux/others use $XDG_CONFIG_HOME (defaulting to ~/.config).
//
//nolint:revive // ConfigDir is more descriptive than Dir for external callers
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}

	var configDir string
	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, "Library", "Application Support")
	default:
		configDir = os.Getenv("XDG_CONFIG_HOME")
		if configDir == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("failed to get home directory: %w", err)
			}
			configDir = filepath.Join(home, ".config")
		}
	}
	return filepath.Join(configDir, AppName), nil
}

// ConfigFilePath returns the path of config.cue inside dir, or inside ConfigDir when dir
// is empty.
func ConfigFilePath(dir string) (string, error) {
	dir, err := configDirWithOverride(dir)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, ConfigFileName+"."+ConfigFileExt), nil
}

// loadWithOptions loads defaults, then the selected CUE file, then environment overrides.
// It returns the path of the file used, empty when none was found.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, string, error) {
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := viper.New()
	defaults := DefaultConfig()
	v.SetDefault("default_iterations", defaults.DefaultIterations)
	v.SetDefault("compat_names", defaults.CompatNames)
	v.SetDefault("f3h_affine", defaults.F3HAffine)
	v.SetDefault("generator", defaults.Generator)
	v.SetDefault("palette.extended", defaults.Palette.Extended)
	v.SetDefault("palette.bake_hsv", defaults.Palette.BakeHSV)
	v.SetDefault("palette.wrap", defaults.Palette.Wrap)
	v.SetDefault("ui.color_scheme", defaults.UI.ColorScheme)
	v.SetDefault("ui.verbose", defaults.UI.Verbose)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	resolvedPath, err := resolveConfigFile(opts)
	if err != nil {
		return nil, "", err
	}
	if resolvedPath != "" {
		if err := loadCUEIntoViper(v, resolvedPath); err != nil {
			return nil, "", loadError(resolvedPath, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, "", loadError(resolvedPath, fmt.Errorf("failed to parse config: %w", err))
	}
	if valid, errs := cfg.IsValid(); !valid {
		return nil, "", issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(resolvedPath).
			WithSuggestion("Check FLAMEKIT_* environment variables for typos").
			WithIssue(issue.ConfigLoadFailedId).
			Wrap(errors.Join(errs...)).
			BuildError()
	}
	cfg.Source = resolvedPath
	return &cfg, resolvedPath, nil
}

// resolveConfigFile picks the explicit file, then config.cue in the config directory, then
// config.cue in the working directory. A missing explicit file is an error; a missing
// implicit one is not.
func resolveConfigFile(opts LoadOptions) (string, error) {
	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return "", issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(opts.ConfigFilePath).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Use 'flamekit config show' to see the default configuration").
				WithIssue(issue.ConfigLoadFailedId).
				Wrap(fmt.Errorf("config file not found: %w", os.ErrNotExist)).
				BuildError()
		}
		return opts.ConfigFilePath, nil
	}

	cuePath, err := ConfigFilePath(opts.ConfigDirPath)
	if err != nil {
		return "", err
	}
	if fileExists(cuePath) {
		return cuePath, nil
	}
	if local := ConfigFileName + "." + ConfigFileExt; fileExists(local) {
		return local, nil
	}
	return "", nil
}

func loadError(path string, err error) error {
	return issue.NewErrorContext().
		WithOperation("load configuration").
		WithResource(path).
		WithSuggestion("Check that the file contains valid CUE syntax").
		WithSuggestion("Verify the configuration values match the expected schema").
		WithIssue(issue.ConfigLoadFailedId).
		Wrap(err).
		BuildError()
}

// configDirWithOverride resolves the configuration directory, honoring
// explicit provider options before platform defaults.
func configDirWithOverride(configDirPath string) (string, error) {
	if configDirPath != "" {
		return configDirPath, nil
	}
	return ConfigDir()
}

// loadCUEIntoViper validates a CUE file against #Config and merges it into v. The file is
// decoded to a map rather than a Config so that unset fields keep viper's defaults.
func loadCUEIntoViper(v *viper.Viper, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	res, err := cueutil.ParseAndDecode[map[string]any](configSchema, data, "#Config",
		cueutil.WithFilename(path),
		cueutil.WithConcrete(false),
	)
	if err != nil {
		return err
	}
	if err := v.MergeConfigMap(*res.Value); err != nil {
		return fmt.Errorf("failed to merge config: %w", err)
	}
	return nil
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// StoreOptions translates the configuration into load and save options for flamestore.
func (c *Config) StoreOptions(logger *slog.Logger) flamestore.Options {
	dialect := variation.Native
	if c.CompatNames {
		dialect = variation.Compat
	}
	wrap := c.Palette.Wrap
	if wrap == 0 {
		wrap = -1
	}
	return flamestore.Options{
		Parse: flamexml.ParseOptions{DefaultIterations: c.DefaultIterations},
		Write: flamexml.WriteOptions{
			Dialect:         dialect,
			ExtendedAffine:  c.F3HAffine,
			ExtendedPalette: c.Palette.Extended,
			BakeHSV:         c.Palette.BakeHSV,
			Generator:       c.Generator,
			Wrap:            wrap,
		},
		Logger: logger,
	}
}

// CreateDefaultConfig writes the default config.cue into dir (ConfigDir when empty). An
// existing file is kept unless force is set. It returns the file path.
func CreateDefaultConfig(dir string, force bool) (string, error) {
	cfgPath, err := ConfigFilePath(dir)
	if err != nil {
		return "", err
	}
	if !force && fileExists(cfgPath) {
		return cfgPath, nil
	}
	return cfgPath, Save(cfgPath, DefaultConfig())
}

// Save writes cfg as CUE to path, creating parent directories.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(GenerateCUE(cfg)), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// GenerateCUE generates a CUE representation of the configuration
func GenerateCUE(cfg *Config) string {
	var sb strings.Builder

	sb.WriteString("// flamekit configuration file\n\n")
	sb.WriteString(fmt.Sprintf("default_iterations: %d\n", cfg.DefaultIterations))
	sb.WriteString(fmt.Sprintf("compat_names: %v\n", cfg.CompatNames))
	sb.WriteString(fmt.Sprintf("f3h_affine: %v\n", cfg.F3HAffine))
	sb.WriteString(fmt.Sprintf("generator: %q\n", cfg.Generator))

	sb.WriteString("\npalette: {\n")
	sb.WriteString(fmt.Sprintf("\textended: %v\n", cfg.Palette.Extended))
	sb.WriteString(fmt.Sprintf("\tbake_hsv: %v\n", cfg.Palette.BakeHSV))
	sb.WriteString(fmt.Sprintf("\twrap: %d\n", cfg.Palette.Wrap))
	sb.WriteString("}\n")

	sb.WriteString("\nui: {\n")
	sb.WriteString(fmt.Sprintf("\tcolor_scheme: %q\n", cfg.UI.ColorScheme))
	sb.WriteString(fmt.Sprintf("\tverbose: %v\n", cfg.UI.Verbose))
	sb.WriteString("}\n")

	return sb.String()
}
