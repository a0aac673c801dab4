// SPDX-License-Identifier: MPL-2.0

// Package numstr converts between flame-file numeric text and Go values.
//
// Flame files are written by several applications, some of which emit localized or
// otherwise damaged numbers ("0,5", "1.5x", "--2"). Every function in this package is
// total: malformed input resolves to a caller-provided default instead of an error, and
// the returned Outcome tells the caller whether to emit a diagnostic.
package numstr

import (
	"math"
	"strconv"
	"strings"
)

const (
	// Parsed means the token was a valid number as written.
	Parsed Outcome = iota
	// Corrected means stray characters were removed before the token could be read.
	Corrected
	// Defaulted means the token was not a value and the default was used.
	Defaulted
)

// Decimals is the rounding ceiling applied when formatting non-integer values.
const Decimals = 8

// Outcome reports how a token was resolved.
type Outcome int

// String returns a short description of the outcome.
func (o Outcome) String() string {
	switch o {
	case Parsed:
		return "parsed"
	case Corrected:
		return "corrected"
	case Defaulted:
		return "defaulted"
	default:
		return "outcome(" + strconv.Itoa(int(o)) + ")"
	}
}

// Worse returns the more severe of two outcomes.
func (o Outcome) Worse(other Outcome) Outcome {
	if other > o {
		return other
	}
	return o
}

// CleanFloat reads token as a float64. When the token does not parse, every character
// outside the numeric alphabet (digits, '.', '-', '+', 'e', 'E') is removed and the token
// is parsed once more; if that also fails, def is returned. Non-finite values never
// pass: "NaN" and "Inf" resolve to def.
func CleanFloat(token string, def float64) (float64, Outcome) {
	token = strings.TrimSpace(token)
	if v, ok := parseFinite(token); ok {
		return v, Parsed
	}

	cleaned := strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9', r == '.', r == '-', r == '+', r == 'e', r == 'E':
			return r
		case r == ',':
			// decimal comma from localized writers
			return '.'
		default:
			return -1
		}
	}, token)

	if cleaned != "" && cleaned != token {
		if v, ok := parseFinite(cleaned); ok {
			return v, Corrected
		}
	}
	return def, Defaulted
}

func parseFinite(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

// CleanInt reads token as an int, accepting float notation ("64.0") and truncating.
func CleanInt(token string, def int) (int, Outcome) {
	token = strings.TrimSpace(token)
	if v, err := strconv.Atoi(token); err == nil {
		return v, Parsed
	}
	f, outcome := CleanFloat(token, float64(def))
	if outcome == Defaulted {
		return def, Defaulted
	}
	if f > math.MaxInt32 || f < math.MinInt32 {
		return def, Defaulted
	}
	return int(f), outcome.Worse(Corrected)
}

// RoundTrim formats f for XML output. Integral values are written without a fractional
// part; every other value is rounded to Decimals places with trailing zeros removed.
func RoundTrim(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "0"
	}
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		s := strconv.FormatFloat(f, 'f', 0, 64)
		if s == "-0" {
			return "0"
		}
		return s
	}

	s := strconv.FormatFloat(f, 'f', Decimals, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	if s == "-0" || s == "" {
		return "0"
	}
	return s
}

// Round rounds f to Decimals places, matching what RoundTrim writes.
func Round(f float64) float64 {
	v, _ := strconv.ParseFloat(RoundTrim(f), 64)
	return v
}

// ParseFloats splits s on whitespace, commas and semicolons and reads each token with
// CleanFloat. When n > 0 the result has exactly n values: missing values are def and
// extra values are dropped. The returned Outcome is the worst seen, and is Corrected
// when padding or truncation changed the count.
func ParseFloats(s string, n int, def float64) ([]float64, Outcome) {
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == '\r' || r == ';' || r == ','
	})

	worst := Parsed
	out := make([]float64, 0, max(n, len(fields)))
	for _, f := range fields {
		v, outcome := CleanFloat(f, def)
		worst = worst.Worse(outcome)
		out = append(out, v)
	}

	if n <= 0 {
		return out, worst
	}
	if len(out) > n {
		return out[:n], worst.Worse(Corrected)
	}
	for len(out) < n {
		out = append(out, def)
		worst = worst.Worse(Corrected)
	}
	return out, worst
}

// FormatFloats joins vals with single spaces using RoundTrim.
func FormatFloats(vals ...float64) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		parts[i] = RoundTrim(v)
	}
	return strings.Join(parts, " ")
}
