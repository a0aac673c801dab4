// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"strings"
)

const (
	// ColorSchemeAuto detects the terminal color scheme automatically.
	ColorSchemeAuto ColorScheme = "auto"
	// ColorSchemeDark forces dark color scheme.
	ColorSchemeDark ColorScheme = "dark"
	// ColorSchemeLight forces light color scheme.
	ColorSchemeLight ColorScheme = "light"

	// DefaultIterations is used for presets whose name carries no "::N" suffix.
	DefaultIterations = 64
	// DefaultGenerator is written as the version of presets that declare none.
	DefaultGenerator = "flamekit"
	// DefaultPaletteWrap is the number of palette colours per written line.
	DefaultPaletteWrap = 8
)

var (
	// ErrInvalidColorScheme is returned when a ColorScheme value is not recognized.
	ErrInvalidColorScheme = errors.New("invalid color scheme")
	// ErrInvalidIterations is the sentinel error wrapped by InvalidIterationsError.
	ErrInvalidIterations = errors.New("invalid default iterations")
	// ErrInvalidPaletteConfig is the sentinel error wrapped by InvalidPaletteConfigError.
	ErrInvalidPaletteConfig = errors.New("invalid palette config")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")
)

type (
	// ColorScheme specifies the terminal color scheme preference.
	ColorScheme string

	// InvalidColorSchemeError is returned when a ColorScheme value is not recognized.
	InvalidColorSchemeError struct {
		Value ColorScheme
	}

	// InvalidIterationsError is returned for a non-positive default iteration count.
	InvalidIterationsError struct {
		Value int
	}

	// InvalidPaletteConfigError is returned for a negative palette wrap.
	InvalidPaletteConfigError struct {
		Wrap int
	}

	// InvalidConfigError aggregates field errors of a Config.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config is the flamekit configuration.
	Config struct {
		// DefaultIterations applies to presets whose name has no iteration suffix.
		DefaultIterations int `json:"default_iterations" mapstructure:"default_iterations"`
		// CompatNames writes APO/Fractorium parameter names and colour-speed convention.
		CompatNames bool `json:"compat_names" mapstructure:"compat_names"`
		// F3HAffine also writes the un-rotated affine form next to rotated coefficients.
		F3HAffine bool `json:"f3h_affine" mapstructure:"f3h_affine"`
		// Generator is written as the version of presets that declare none.
		Generator string `json:"generator" mapstructure:"generator"`
		// Palette configures palette output.
		Palette PaletteConfig `json:"palette" mapstructure:"palette"`
		// UI configures CLI output.
		UI UIConfig `json:"ui" mapstructure:"ui"`

		// Source is the file the configuration was read from, empty for defaults.
		Source string `json:"-" mapstructure:"-"`
	}

	// PaletteConfig configures how palettes are written.
	PaletteConfig struct {
		// Extended writes more than 256 samples when a palette carries them.
		Extended bool `json:"extended" mapstructure:"extended"`
		// BakeHSV applies the HSV correction to the colours instead of writing it.
		BakeHSV bool `json:"bake_hsv" mapstructure:"bake_hsv"`
		// Wrap is the number of colours per line; 0 never wraps.
		Wrap int `json:"wrap" mapstructure:"wrap"`
	}

	// UIConfig configures CLI output.
	UIConfig struct {
		// ColorScheme sets the color scheme
		ColorScheme ColorScheme `json:"color_scheme" mapstructure:"color_scheme"`
		// Verbose enables debug diagnostics
		Verbose bool `json:"verbose" mapstructure:"verbose"`
	}
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		DefaultIterations: DefaultIterations,
		CompatNames:       false,
		F3HAffine:         true,
		Generator:         DefaultGenerator,
		Palette: PaletteConfig{
			Wrap: DefaultPaletteWrap,
		},
		UI: UIConfig{
			ColorScheme: ColorSchemeAuto,
		},
	}
}

// String returns the string representation of the ColorScheme.
func (cs ColorScheme) String() string { return string(cs) }

// IsValid returns whether the ColorScheme is one of the defined schemes.
func (cs ColorScheme) IsValid() (bool, []error) {
	switch cs {
	case ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight:
		return true, nil
	default:
		return false, []error{&InvalidColorSchemeError{Value: cs}}
	}
}

// GlamourStyle returns the glamour style name for the scheme. Auto picks "notty" when
// output is not a terminal.
func (cs ColorScheme) GlamourStyle(isTerminal bool) string {
	switch {
	case cs == ColorSchemeDark, cs == ColorSchemeLight:
		return string(cs)
	case isTerminal:
		return "dark"
	default:
		return "notty"
	}
}

// Error implements the error interface.
func (e *InvalidColorSchemeError) Error() string {
	return fmt.Sprintf("invalid color scheme %q (valid: auto, dark, light)", e.Value)
}

// Unwrap returns ErrInvalidColorScheme for errors.Is() compatibility.
func (e *InvalidColorSchemeError) Unwrap() error { return ErrInvalidColorScheme }

// Error implements the error interface.
func (e *InvalidIterationsError) Error() string {
	return fmt.Sprintf("invalid default iterations %d: must be positive", e.Value)
}

// Unwrap returns ErrInvalidIterations for errors.Is() compatibility.
func (e *InvalidIterationsError) Unwrap() error { return ErrInvalidIterations }

// Error implements the error interface.
func (e *InvalidPaletteConfigError) Error() string {
	return fmt.Sprintf("invalid palette wrap %d: must not be negative", e.Wrap)
}

// Unwrap returns ErrInvalidPaletteConfig for errors.Is() compatibility.
func (e *InvalidPaletteConfigError) Unwrap() error { return ErrInvalidPaletteConfig }

// IsValid returns whether the PaletteConfig has valid fields.
func (c PaletteConfig) IsValid() (bool, []error) {
	if c.Wrap < 0 {
		return false, []error{&InvalidPaletteConfigError{Wrap: c.Wrap}}
	}
	return true, nil
}

// IsValid returns whether the Config has valid fields.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if c.DefaultIterations <= 0 {
		errs = append(errs, &InvalidIterationsError{Value: c.DefaultIterations})
	}
	if valid, fieldErrs := c.Palette.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.UI.ColorScheme.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("invalid config: %s", strings.Join(msgs, "; "))
}

// Unwrap returns ErrInvalidConfig followed by the field errors.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}
