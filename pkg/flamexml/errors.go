// SPDX-License-Identifier: MPL-2.0

package flamexml

import (
	"errors"
	"fmt"
	"strings"

	"github.com/flamekit/flamekit/pkg/flame"
)

var (
	// ErrInvalidDocument is the sentinel error wrapped by InvalidDocumentError.
	ErrInvalidDocument = errors.New("invalid flame document")

	// ErrUnsupportedFormat is the sentinel error wrapped by UnsupportedFormatError.
	ErrUnsupportedFormat = errors.New("unsupported flame-family format")

	// ErrDuplicateVariationInSection is the sentinel error wrapped by IncompatibleError.
	ErrDuplicateVariationInSection = errors.New("duplicate variation in section")
)

type (
	// InvalidDocumentError is returned when data is not XML, has no flame elements, or its
	// root cannot be classified.
	InvalidDocumentError struct {
		Root   string
		Reason string
	}

	// UnsupportedFormatError is returned for the "ifs" sibling format.
	UnsupportedFormatError struct {
		Root string
	}

	// IncompatibleError lists every duplicate (xform, section, variation) and every reserved
	// value that prevents a document from being written.
	IncompatibleError struct {
		Duplicates []flame.Duplicate
		Conflicts  []flame.Conflict
	}
)

// Error implements the error interface.
func (e *InvalidDocumentError) Error() string {
	if e.Root != "" {
		return fmt.Sprintf("invalid flame document (root <%s>): %s", e.Root, e.Reason)
	}
	return "invalid flame document: " + e.Reason
}

// Unwrap returns ErrInvalidDocument for errors.Is() compatibility.
func (e *InvalidDocumentError) Unwrap() error { return ErrInvalidDocument }

// Error implements the error interface.
func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported format: <%s> is a chaos-only IFS document, not a flame document", e.Root)
}

// Unwrap returns ErrUnsupportedFormat for errors.Is() compatibility.
func (e *UnsupportedFormatError) Unwrap() error { return ErrUnsupportedFormat }

// Error implements the error interface.
func (e *IncompatibleError) Error() string {
	var parts []string
	if len(e.Duplicates) > 0 || len(e.Conflicts) == 0 {
		lines := make([]string, len(e.Duplicates))
		for i, d := range e.Duplicates {
			lines[i] = d.String()
		}
		parts = append(parts, fmt.Sprintf("%d duplicate variation(s): %s", len(e.Duplicates), strings.Join(lines, "; ")))
	}
	if len(e.Conflicts) > 0 {
		lines := make([]string, len(e.Conflicts))
		for i, c := range e.Conflicts {
			lines[i] = c.String()
		}
		parts = append(parts, fmt.Sprintf("%d reserved value(s): %s", len(e.Conflicts), strings.Join(lines, "; ")))
	}
	return "cannot write flame: " + strings.Join(parts, "; ")
}

// Unwrap returns ErrDuplicateVariationInSection and, when conflicts are listed,
// flame.ErrReservedValue, for errors.Is() compatibility.
func (e *IncompatibleError) Unwrap() []error {
	var errs []error
	if len(e.Duplicates) > 0 || len(e.Conflicts) == 0 {
		errs = append(errs, ErrDuplicateVariationInSection)
	}
	if len(e.Conflicts) > 0 {
		errs = append(errs, flame.ErrReservedValue)
	}
	return errs
}

// Targets returns the distinct xform targets that hold duplicates, in report order.
func (e *IncompatibleError) Targets() []string {
	seen := map[string]bool{}
	var out []string
	for _, d := range e.Duplicates {
		key := d.Preset + "\x00" + d.Target
		if !seen[key] {
			seen[key] = true
			out = append(out, d.Target)
		}
	}
	return out
}
