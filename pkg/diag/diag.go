// SPDX-License-Identifier: MPL-2.0

// Package diag defines the recoverable-problem taxonomy shared by the flame codec.
//
// Anything the codec can recover from with a sane default (a malformed number, an
// unknown variation, an overflowing slot) is recorded as an Entry in a Report instead
// of failing the whole load. Callers inspect the Report, log it, or surface it to users.
// Failures that would silently change fractal semantics are not diagnostics: they are
// returned as typed errors by the packages that detect them.
package diag

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

const (
	// MalformedToken means a numeric token could not be read and a default was used.
	MalformedToken Kind = iota + 1
	// CorrectedToken means a numeric token was cleaned of stray characters and then read.
	CorrectedToken
	// UnknownVariation means an xform attribute is not recognized by any vocabulary.
	UnknownVariation
	// MissingVariation means a variation exists in the wider ecosystem but not in the registry.
	MissingVariation
	// SlotOverflow means a variation was dropped because its section was full.
	SlotOverflow
	// InvalidAffineLength means an affine attribute did not carry exactly six values.
	InvalidAffineLength
	// InvalidPalette means a palette could not be decoded and the error palette was substituted.
	InvalidPalette
	// NegativeWeight means a PRE or POST weight was negative and its absolute value was used.
	NegativeWeight
	// DuplicateVariation means a variation appeared twice in one section.
	DuplicateVariation
	// RemappedPreBlur means a pre_gaussian_blur was read as the pre_blur weight.
	RemappedPreBlur
	// InvalidXaos means a xaos row was rejected and replaced by its fallback.
	InvalidXaos
)

type (
	// Kind classifies a diagnostic.
	Kind int

	// Entry is one recorded problem.
	Entry struct {
		Kind Kind
		// Preset is the name of the preset being processed, if any.
		Preset string
		// Target names the xform ("iterator 2", "final xform") or element involved.
		Target string
		// Key is the attribute name involved, if any.
		Key string
		// Message is a human-readable description.
		Message string
	}

	// Report is an ordered collection of entries. The zero value is ready to use.
	Report struct {
		entries []Entry
	}
)

var kindNames = map[Kind]string{
	MalformedToken:      "malformed-token",
	CorrectedToken:      "corrected-token",
	UnknownVariation:    "unknown-variation",
	MissingVariation:    "missing-variation",
	SlotOverflow:        "slot-overflow",
	InvalidAffineLength: "invalid-affine-length",
	InvalidPalette:      "invalid-palette",
	NegativeWeight:      "negative-weight",
	DuplicateVariation:  "duplicate-variation",
	RemappedPreBlur:     "remapped-pre-blur",
	InvalidXaos:         "invalid-xaos",
}

// String returns the stable kebab-case name of the Kind.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Level returns the slog level the kind is emitted at.
// Corrections that keep the author's value are debug noise; everything else is a warning.
func (k Kind) Level() slog.Level {
	switch k {
	case CorrectedToken, RemappedPreBlur:
		return slog.LevelDebug
	default:
		return slog.LevelWarn
	}
}

// String renders the entry on a single line.
func (e Entry) String() string {
	var sb strings.Builder
	sb.WriteString(e.Kind.String())
	for _, part := range []string{e.Preset, e.Target, e.Key} {
		if part == "" {
			continue
		}
		sb.WriteString(": ")
		sb.WriteString(part)
	}
	if e.Message != "" {
		sb.WriteString(": ")
		sb.WriteString(e.Message)
	}
	return sb.String()
}

// Add appends an entry.
func (r *Report) Add(e Entry) {
	r.entries = append(r.entries, e)
}

// Addf appends an entry with a formatted message.
func (r *Report) Addf(kind Kind, preset, target, key, format string, args ...any) {
	r.Add(Entry{Kind: kind, Preset: preset, Target: target, Key: key, Message: fmt.Sprintf(format, args...)})
}

// Merge appends every entry of other.
func (r *Report) Merge(other *Report) {
	if other == nil {
		return
	}
	r.entries = append(r.entries, other.entries...)
}

// Entries returns a copy of the recorded entries in insertion order.
func (r *Report) Entries() []Entry {
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Len returns the number of recorded entries.
func (r *Report) Len() int { return len(r.entries) }

// Empty reports whether nothing was recorded.
func (r *Report) Empty() bool { return len(r.entries) == 0 }

// Has reports whether at least one entry of the given kind was recorded.
func (r *Report) Has(kind Kind) bool {
	for _, e := range r.entries {
		if e.Kind == kind {
			return true
		}
	}
	return false
}

// ByKind returns the entries of the given kind.
func (r *Report) ByKind(kind Kind) []Entry {
	var out []Entry
	for _, e := range r.entries {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// Keys returns the attribute keys of the entries of the given kind, deduplicated,
// in first-seen order. Used for "unknown"/"missing" variation summaries.
func (r *Report) Keys(kind Kind) []string {
	seen := make(map[string]bool)
	var out []string
	for _, e := range r.entries {
		if e.Kind != kind || e.Key == "" || seen[e.Key] {
			continue
		}
		seen[e.Key] = true
		out = append(out, e.Key)
	}
	return out
}

// Log emits every entry to logger at the level of its kind. A nil logger uses slog.Default().
func (r *Report) Log(logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	for _, e := range r.entries {
		logger.Log(context.Background(), e.Kind.Level(), e.Message,
			"kind", e.Kind.String(),
			"preset", e.Preset,
			"target", e.Target,
			"key", e.Key,
		)
	}
}
