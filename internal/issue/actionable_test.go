// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/flamekit/flamekit/pkg/flamexml"
)

func TestActionableError_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      *ActionableError
		expected string
	}{
		{
			name:     "operation only",
			err:      &ActionableError{Operation: "load flame file"},
			expected: "failed to load flame file",
		},
		{
			name:     "operation with resource",
			err:      &ActionableError{Operation: "load flame file", Resource: "a.flame"},
			expected: "failed to load flame file: a.flame",
		},
		{
			name:     "full context",
			err:      &ActionableError{Operation: "save palettes", Resource: "p.json", Cause: errors.New("disk full")},
			expected: "failed to save palettes: p.json: disk full",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.err.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestActionableError_Format(t *testing.T) {
	t.Parallel()

	root := errors.New("root cause")
	err := &ActionableError{
		Operation:   "convert",
		Resource:    "in.flame",
		Suggestions: []string{"first", "second"},
		Cause:       fmt.Errorf("wrapped: %w", root),
	}

	plain := err.Format(false)
	if !strings.Contains(plain, "\n  • first\n  • second") {
		t.Errorf("Format(false) missing suggestions:\n%s", plain)
	}
	if strings.Contains(plain, "Error chain") {
		t.Error("Format(false) must not include the chain")
	}

	verbose := err.Format(true)
	if !strings.Contains(verbose, "1. wrapped: root cause") || !strings.Contains(verbose, "2. root cause") {
		t.Errorf("Format(true) chain:\n%s", verbose)
	}
}

func TestErrorContext_Build(t *testing.T) {
	t.Parallel()

	if NewErrorContext().WithResource("x").Build() != nil {
		t.Error("Build() without an operation must return nil")
	}
	if err := NewErrorContext().BuildError(); err != nil {
		t.Errorf("BuildError() = %v, want untyped nil", err)
	}

	cause := &flamexml.IncompatibleError{}
	ae := NewErrorContext().
		WithOperation("save").
		WithResource("out.flame").
		WithSuggestion("fix it").
		Wrap(cause).
		Build()
	if ae.Issue != DuplicateVariationId {
		t.Errorf("Issue = %d, want DuplicateVariationId", ae.Issue)
	}
	if !errors.Is(ae, flamexml.ErrDuplicateVariationInSection) {
		t.Error("errors.Is through ActionableError failed")
	}

	explicit := NewErrorContext().WithOperation("load config").WithIssue(ConfigLoadFailedId).Wrap(os.ErrNotExist).Build()
	if explicit.Issue != ConfigLoadFailedId {
		t.Errorf("explicit issue overridden: %d", explicit.Issue)
	}
}

func TestWrapWithContext(t *testing.T) {
	t.Parallel()

	if WrapWithContext(nil, "op", "res") != nil {
		t.Error("WrapWithContext(nil) must return nil")
	}
	ae := WrapWithContext(fmt.Errorf("open: %w", os.ErrNotExist), "load flame file", "a.flame")
	if ae.Issue != FileNotFoundId || ae.Resource != "a.flame" {
		t.Errorf("WrapWithContext() = %+v", ae)
	}
}
