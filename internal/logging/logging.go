// SPDX-License-Identifier: MPL-2.0

// Package logging builds the slog logger the flamekit CLI hands to the codec packages.
package logging

import (
	"io"
	"log/slog"

	"github.com/charmbracelet/log"
)

// Prefix is printed before every record.
const Prefix = "flamekit"

// New returns a slog.Logger writing through a charmbracelet/log handler. Diagnostics logged
// at debug level (token corrections, remapped blurs) are shown only when verbose is set.
func New(w io.Writer, verbose bool) *slog.Logger {
	level := log.WarnLevel
	if verbose {
		level = log.DebugLevel
	}
	handler := log.NewWithOptions(w, log.Options{
		Prefix: Prefix,
		Level:  level,
	})
	return slog.New(handler)
}
