// SPDX-License-Identifier: MPL-2.0

// Package xaos handles xaos (chaos) weights: the per-iterator-pair transition weights that
// override uniform iterator selection.
//
// A matrix is square over the iterator count. In the "to" convention row i lists how strongly
// iterator i routes into every iterator; the "from" convention is its transpose. Missing
// entries are 1.0 (a default connection), so rows are stored and written sparse.
package xaos

import (
	"strings"

	"github.com/flamekit/flamekit/pkg/numstr"
)

// Default is the weight of an unspecified connection.
const Default = 1.0

// Keyword prefixes the editable row form ("xaos:1:0.5:1").
const Keyword = "xaos"

const (
	// OK means the row was accepted as written.
	OK Status = iota
	// Coerced means negative entries were replaced by Default.
	Coerced
	// Reverted means a malformed token rejected the whole row and the fallback was used.
	Reverted
)

type (
	// Matrix is a square weight grid in the "to" convention unless stated otherwise.
	Matrix [][]float64

	// Status reports how a row was resolved.
	Status int
)

// String returns a short description of the status.
func (s Status) String() string {
	switch s {
	case OK:
		return "ok"
	case Coerced:
		return "coerced"
	case Reverted:
		return "reverted"
	default:
		return "status(?)"
	}
}

// Defaults returns a row of n default weights.
func Defaults(n int) []float64 {
	row := make([]float64, n)
	for i := range row {
		row[i] = Default
	}
	return row
}

// Fill returns row padded with Default (or truncated) to exactly n entries.
func Fill(row []float64, n int) []float64 {
	out := Defaults(n)
	copy(out, row)
	return out
}

// ParseRow reads the editable row form. Accepted inputs:
//
//   - "" or the bare keyword: every weight is Default;
//   - "xaos:a:b:..." (keyword case-insensitive, whitespace ignored): one weight per iterator,
//     missing entries Default, extra entries dropped;
//   - a lone non-negative number without keyword: that weight broadcast to the whole row.
//
// Negative weights become Default. Any token that is not a number rejects the whole row,
// which reverts to history when it has n entries, else to all-Default, and Reverted is
// returned: a half-typed edit never corrupts the rest of the row.
func ParseRow(raw string, n int, history []float64) ([]float64, Status) {
	compact := strings.Join(strings.Fields(raw), "")
	if compact == "" {
		return Defaults(n), OK
	}

	lower := strings.ToLower(compact)
	if !strings.HasPrefix(lower, Keyword) {
		v, ok := parseWeight(compact)
		if !ok {
			return revert(n, history), Reverted
		}
		if v < 0 {
			return Defaults(n), Coerced
		}
		row := make([]float64, n)
		for i := range row {
			row[i] = v
		}
		return row, OK
	}

	body := strings.TrimPrefix(compact[len(Keyword):], ":")
	if body == "" {
		return Defaults(n), OK
	}
	return parseTokens(strings.Split(body, ":"), n, history)
}

// ParseChaos reads the wire form: the space-separated flam3 "chaos" attribute.
func ParseChaos(attr string, n int) ([]float64, Status) {
	fields := strings.Fields(attr)
	if len(fields) == 0 {
		return Defaults(n), OK
	}
	return parseTokens(fields, n, nil)
}

func parseTokens(tokens []string, n int, history []float64) ([]float64, Status) {
	row := Defaults(n)
	status := OK
	for i, tok := range tokens {
		v, ok := parseWeight(tok)
		if !ok {
			return revert(n, history), Reverted
		}
		if i >= n {
			continue
		}
		if v < 0 {
			v = Default
			status = Coerced
		}
		row[i] = v
	}
	return row, status
}

func parseWeight(tok string) (float64, bool) {
	v, outcome := numstr.CleanFloat(tok, 0)
	return v, outcome == numstr.Parsed
}

func revert(n int, history []float64) []float64 {
	if len(history) == n {
		return append([]float64(nil), history...)
	}
	return Defaults(n)
}

// StripTrailingDefault removes Default entries from the end of row.
func StripTrailingDefault(row []float64) []float64 {
	end := len(row)
	for end > 0 && row[end-1] == Default {
		end--
	}
	return row[:end]
}

// IsDefault reports whether every entry in row is Default.
func IsDefault(row []float64) bool {
	return len(StripTrailingDefault(row)) == 0
}

// FormatRow writes the editable row form; a default row is the bare keyword with a colon.
func FormatRow(row []float64) string {
	row = StripTrailingDefault(row)
	parts := make([]string, 0, len(row)+1)
	parts = append(parts, Keyword)
	for _, v := range row {
		parts = append(parts, numstr.RoundTrim(v))
	}
	if len(parts) == 1 {
		return Keyword + ":"
	}
	return strings.Join(parts, ":")
}

// FormatChaos writes the wire form. A default row is the empty string.
func FormatChaos(row []float64) string {
	return numstr.FormatFloats(StripTrailingDefault(row)...)
}

// Square returns a copy of m filled to n x n with Default.
func Square(m Matrix, n int) Matrix {
	out := make(Matrix, n)
	for i := range out {
		if i < len(m) {
			out[i] = Fill(m[i], n)
		} else {
			out[i] = Defaults(n)
		}
	}
	return out
}

// Transpose converts between the "to" and "from" conventions. Missing rows and columns are
// filled to n first, so Transpose(Transpose(m, n), n) equals Square(m, n).
func Transpose(m Matrix, n int) Matrix {
	sq := Square(m, n)
	out := make(Matrix, n)
	for i := range out {
		out[i] = make([]float64, n)
		for j := range out[i] {
			out[i][j] = sq[j][i]
		}
	}
	return out
}

// RemoveIterator drops iterator idx from m: its row and its column.
func RemoveIterator(m Matrix, idx int) Matrix {
	n := len(m)
	sq := Square(m, n)
	if idx < 0 || idx >= n {
		return sq
	}
	out := make(Matrix, 0, n-1)
	for i, row := range sq {
		if i == idx {
			continue
		}
		next := make([]float64, 0, n-1)
		next = append(next, row[:idx]...)
		next = append(next, row[idx+1:]...)
		out = append(out, next)
	}
	return out
}

// InsertIterator inserts a default-connected iterator at idx, shifting later iterators.
func InsertIterator(m Matrix, idx int) Matrix {
	n := len(m)
	if idx < 0 {
		idx = 0
	}
	if idx > n {
		idx = n
	}
	sq := Square(m, n)
	out := make(Matrix, 0, n+1)
	for i := 0; i <= n; i++ {
		if i == idx {
			out = append(out, Defaults(n+1))
		}
		if i == n {
			break
		}
		row := make([]float64, 0, n+1)
		row = append(row, sq[i][:idx]...)
		row = append(row, Default)
		row = append(row, sq[i][idx:]...)
		out = append(out, row)
	}
	return out
}
