// SPDX-License-Identifier: MPL-2.0

// Package config loads flamekit settings.
//
// Settings come from built-in defaults, then an optional config.cue file (validated
// against the embedded config_schema.cue), then FLAMEKIT_* environment variables
// (FLAMEKIT_DEFAULT_ITERATIONS, FLAMEKIT_PALETTE_WRAP, ...). The file lives in the
// platform config directory, see ConfigDir, or in the current directory.
package config
