// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/flamekit/flamekit/internal/issue"
	"github.com/flamekit/flamekit/pkg/variation"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.cue"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	if cfg.DefaultIterations != 64 || !cfg.F3HAffine || cfg.CompatNames || cfg.Generator != "flamekit" {
		t.Errorf("DefaultConfig() = %+v", cfg)
	}
	if cfg.Palette.Wrap != 8 || cfg.UI.ColorScheme != ColorSchemeAuto {
		t.Errorf("DefaultConfig() nested = %+v", cfg)
	}
	if valid, errs := cfg.IsValid(); !valid {
		t.Errorf("default config invalid: %v", errs)
	}
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	t.Parallel()

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: t.TempDir()})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := DefaultConfig()
	if *cfg != *want {
		t.Errorf("Load() = %+v, want %+v", cfg, want)
	}
}

func TestLoad_File(t *testing.T) {
	t.Parallel()

	dir := writeConfig(t, `
default_iterations: 32
compat_names: true
palette: wrap: 0
ui: color_scheme: "light"
`)
	cfg, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.DefaultIterations != 32 || !cfg.CompatNames || cfg.Palette.Wrap != 0 || cfg.UI.ColorScheme != ColorSchemeLight {
		t.Errorf("Load() = %+v", cfg)
	}
	if !cfg.F3HAffine || cfg.Generator != DefaultGenerator {
		t.Errorf("unset fields lost their defaults: %+v", cfg)
	}
	if cfg.Source != filepath.Join(dir, "config.cue") {
		t.Errorf("Source = %q", cfg.Source)
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantMsg string
	}{
		{"schema bound", "default_iterations: 0\n", "default_iterations"},
		{"unknown field", "render_threads: 4\n", "render_threads"},
		{"bad enum", "ui: color_scheme: \"sepia\"\n", "color_scheme"},
		{"syntax", "palette: {\n", "config.cue"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: writeConfig(t, tt.content)})
			if err == nil || !strings.Contains(err.Error(), tt.wantMsg) {
				t.Fatalf("Load() error = %v, want mention of %q", err, tt.wantMsg)
			}
			var ae *issue.ActionableError
			if !errors.As(err, &ae) || ae.Issue != issue.ConfigLoadFailedId || len(ae.Suggestions) == 0 {
				t.Errorf("error = %#v, want actionable config error", err)
			}
		})
	}
}

func TestLoad_ExplicitFileMissing(t *testing.T) {
	t.Parallel()

	_, err := NewProvider().Load(context.Background(), LoadOptions{ConfigFilePath: filepath.Join(t.TempDir(), "nope.cue")})
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Load() error = %v", err)
	}
}

func TestLoad_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewProvider().Load(ctx, LoadOptions{ConfigDirPath: t.TempDir()}); !errors.Is(err, context.Canceled) {
		t.Errorf("Load() error = %v", err)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("FLAMEKIT_DEFAULT_ITERATIONS", "128")
	t.Setenv("FLAMEKIT_PALETTE_BAKE_HSV", "true")

	dir := writeConfig(t, "default_iterations: 32\n")
	cfg, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatal(err)
	}
	if cfg.DefaultIterations != 128 || !cfg.Palette.BakeHSV {
		t.Errorf("env overrides not applied: %+v", cfg)
	}

	t.Setenv("FLAMEKIT_DEFAULT_ITERATIONS", "-1")
	_, err = NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: dir})
	if !errors.Is(err, ErrInvalidIterations) {
		t.Errorf("invalid env value error = %v", err)
	}
}

func TestConfigDir_Override(t *testing.T) {
	dir := t.TempDir()
	SetConfigDirOverride(dir)
	t.Cleanup(Reset)

	got, err := ConfigDir()
	if err != nil || got != dir {
		t.Errorf("ConfigDir() = %q, %v", got, err)
	}
	path, err := ConfigFilePath("")
	if err != nil || path != filepath.Join(dir, "config.cue") {
		t.Errorf("ConfigFilePath() = %q, %v", path, err)
	}
}

func TestCreateDefaultConfig(t *testing.T) {
	t.Parallel()

	dir := filepath.Join(t.TempDir(), "nested")
	path, err := CreateDefaultConfig(dir, false)
	if err != nil {
		t.Fatalf("CreateDefaultConfig() error = %v", err)
	}
	cfg, err := NewProvider().Load(context.Background(), LoadOptions{ConfigFilePath: path})
	if err != nil {
		t.Fatalf("generated config does not load: %v", err)
	}
	if *cfg != (Config{Source: path, DefaultIterations: 64, F3HAffine: true, Generator: "flamekit",
		Palette: PaletteConfig{Wrap: 8}, UI: UIConfig{ColorScheme: ColorSchemeAuto}}) {
		t.Errorf("round trip = %+v", cfg)
	}

	if err := os.WriteFile(path, []byte("compat_names: true\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := CreateDefaultConfig(dir, false); err != nil {
		t.Fatal(err)
	}
	if data, _ := os.ReadFile(path); string(data) != "compat_names: true\n" {
		t.Error("existing config overwritten without force")
	}
	if _, err := CreateDefaultConfig(dir, true); err != nil {
		t.Fatal(err)
	}
	if data, _ := os.ReadFile(path); string(data) != GenerateCUE(DefaultConfig()) {
		t.Error("force did not rewrite the config")
	}
}

func TestStoreOptions(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	opts := cfg.StoreOptions(nil)
	if opts.Parse.DefaultIterations != 64 || opts.Write.Dialect != variation.Native || !opts.Write.ExtendedAffine {
		t.Errorf("StoreOptions() = %+v", opts)
	}
	if opts.Write.Wrap != 8 || opts.Write.Generator != "flamekit" {
		t.Errorf("StoreOptions().Write = %+v", opts.Write)
	}

	cfg.CompatNames = true
	cfg.Palette.Wrap = 0
	opts = cfg.StoreOptions(nil)
	if opts.Write.Dialect != variation.Compat || opts.Write.Wrap >= 0 {
		t.Errorf("StoreOptions(compat, nowrap).Write = %+v", opts.Write)
	}
}

func TestColorScheme(t *testing.T) {
	t.Parallel()

	for _, cs := range []ColorScheme{ColorSchemeAuto, ColorSchemeDark, ColorSchemeLight} {
		if valid, _ := cs.IsValid(); !valid {
			t.Errorf("%q should be valid", cs)
		}
	}
	valid, errs := ColorScheme("sepia").IsValid()
	if valid || len(errs) != 1 || !errors.Is(errs[0], ErrInvalidColorScheme) {
		t.Errorf("IsValid(sepia) = %v, %v", valid, errs)
	}

	if ColorSchemeAuto.GlamourStyle(false) != "notty" || ColorSchemeAuto.GlamourStyle(true) != "dark" ||
		ColorSchemeLight.GlamourStyle(false) != "light" {
		t.Error("GlamourStyle mapping")
	}
}
