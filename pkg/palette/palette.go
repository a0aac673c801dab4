// SPDX-License-Identifier: MPL-2.0

// Package palette implements flame colour gradients: the key list, its logical sample
// count, the optional HSV correction, and the hex text encoding used by flame files.
package palette

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/flamekit/flamekit/pkg/numstr"
)

// DefaultSamples is the sample count written when extended palettes are not enabled.
const DefaultSamples = 256

var (
	// ErrInvalidHex is the sentinel error wrapped by InvalidHexError.
	ErrInvalidHex = errors.New("invalid palette hex")

	// ErrTooFewColors is the sentinel error wrapped by TooFewColorsError.
	ErrTooFewColors = errors.New("palette needs at least two colours")

	// SampleCounts enumerates the logical sample counts a palette may carry.
	SampleCounts = []int{16, 32, 64, 128, 256, 512, 1024}

	// DefaultBuckets are the sample counts considered when resampling an extended palette.
	DefaultBuckets = []int{256, 512, 1024}
)

type (
	// RGB is one colour key with channels in [0,1].
	RGB struct {
		R, G, B float64
	}

	// HSV is a palette correction triple. H encodes a hue shift of (H-1) turns; S and V are
	// multipliers. (1,1,1) means no correction. The zero value is treated as unset, which is
	// also no correction.
	HSV struct {
		H, S, V float64
	}

	// Palette is an evenly spaced gradient: key i sits at position i/(len-1).
	Palette struct {
		Colors  []RGB
		Samples int
		HSV     HSV
	}

	// InvalidHexError is returned when palette text does not decode as whole hex triples.
	InvalidHexError struct {
		// Index is the zero-based colour index that failed, or -1 for a length problem.
		Index int
		Token string
		Len   int
	}

	// TooFewColorsError is returned when a decoded palette has fewer than two keys.
	TooFewColorsError struct {
		Count int
	}
)

// Error implements the error interface.
func (e *InvalidHexError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("invalid palette hex: %d digits is not a whole number of colours", e.Len)
	}
	return fmt.Sprintf("invalid palette hex: colour %d %q is not hex", e.Index, e.Token)
}

// Unwrap returns ErrInvalidHex for errors.Is() compatibility.
func (e *InvalidHexError) Unwrap() error { return ErrInvalidHex }

// Error implements the error interface.
func (e *TooFewColorsError) Error() string {
	return fmt.Sprintf("palette needs at least two colours (got %d)", e.Count)
}

// Unwrap returns ErrTooFewColors for errors.Is() compatibility.
func (e *TooFewColorsError) Unwrap() error { return ErrTooFewColors }

// NoCorrection returns the identity HSV triple.
func NoCorrection() HSV { return HSV{H: 1, S: 1, V: 1} }

// Normalized maps the unset zero value to NoCorrection.
func (h HSV) Normalized() HSV {
	if h == (HSV{}) {
		return NoCorrection()
	}
	return h
}

// IsDefault reports whether h applies no correction.
func (h HSV) IsDefault() bool {
	return h.Normalized() == NoCorrection()
}

// Shift returns the hue shift in turns.
func (h HSV) Shift() float64 { return h.Normalized().H - 1 }

// String returns the "h s v" attribute form.
func (h HSV) String() string {
	n := h.Normalized()
	return numstr.FormatFloats(n.H, n.S, n.V)
}

// ParseHSV reads an "h s v" triple. Missing components default to 1.
func ParseHSV(s string) (HSV, numstr.Outcome) {
	vals, outcome := numstr.ParseFloats(s, 3, 1)
	return HSV{H: vals[0], S: vals[1], V: vals[2]}, outcome
}

// Hex returns the 6-digit uppercase hex form of c.
func (c RGB) Hex() string { return numstr.RGB01ToHex(c.R, c.G, c.B) }

// New returns a palette over colors with the default sample count and no correction.
func New(colors ...RGB) Palette {
	return Palette{
		Colors:  append([]RGB(nil), colors...),
		Samples: NearestBucketCount(len(colors)),
		HSV:     NoCorrection(),
	}
}

// ErrorPalette returns the one-key red sentinel substituted for a palette that failed to load.
func ErrorPalette() Palette {
	return Palette{Colors: []RGB{{R: 1}}, Samples: DefaultSamples, HSV: NoCorrection()}
}

// IsError reports whether p is the error sentinel.
func (p Palette) IsError() bool {
	return len(p.Colors) == 1 && p.Colors[0] == RGB{R: 1}
}

// Validate returns an error when p has fewer than two keys.
func (p Palette) Validate() error {
	if len(p.Colors) < 2 {
		return &TooFewColorsError{Count: len(p.Colors)}
	}
	return nil
}

// Clone returns a copy of p that shares no memory with it.
func (p Palette) Clone() Palette {
	p.Colors = append([]RGB(nil), p.Colors...)
	return p
}

// NearestBucketCount returns the smallest bucket >= n, or the largest bucket when n exceeds
// them all. With no buckets the DefaultBuckets are used.
func NearestBucketCount(n int, buckets ...int) int {
	if len(buckets) == 0 {
		buckets = DefaultBuckets
	}
	best := 0
	largest := 0
	for _, b := range buckets {
		largest = max(largest, b)
		if b >= n && (best == 0 || b < best) {
			best = b
		}
	}
	if best == 0 {
		return largest
	}
	return best
}

// At returns the linearly interpolated colour at pos in [0,1].
func (p Palette) At(pos float64) RGB {
	switch len(p.Colors) {
	case 0:
		return RGB{}
	case 1:
		return p.Colors[0]
	}
	pos = math.Max(0, math.Min(1, pos))
	x := pos * float64(len(p.Colors)-1)
	i := int(math.Floor(x))
	if i >= len(p.Colors)-1 {
		return p.Colors[len(p.Colors)-1]
	}
	t := x - float64(i)
	a, b := p.Colors[i], p.Colors[i+1]
	return RGB{
		R: a.R + (b.R-a.R)*t,
		G: a.G + (b.G-a.G)*t,
		B: a.B + (b.B-a.B)*t,
	}
}

// Resample returns p sampled at n evenly spaced positions. A palette that already has n keys
// is copied unchanged.
func Resample(p Palette, n int) Palette {
	out := p.Clone()
	if n <= 0 || n == len(p.Colors) {
		return out
	}
	out.Colors = make([]RGB, n)
	for i := range out.Colors {
		pos := 0.0
		if n > 1 {
			pos = float64(i) / float64(n-1)
		}
		out.Colors[i] = p.At(pos)
	}
	return out
}

// ApplyHSV converts every key to HSV, applies (h+shift turns, s*sMul, v*vMul) and converts
// back. The HSV field of the result is left as it was.
func ApplyHSV(p Palette, shift, sMul, vMul float64) Palette {
	out := p.Clone()
	if shift == 0 && sMul == 1 && vMul == 1 {
		return out
	}
	for i, c := range out.Colors {
		h, s, v := colorful.Color{R: c.R, G: c.G, B: c.B}.Hsv()
		h = math.Mod(h+shift*360, 360)
		if h < 0 {
			h += 360
		}
		s = math.Max(0, math.Min(1, s*sMul))
		v = math.Max(0, math.Min(1, v*vMul))
		rgb := colorful.Hsv(h, s, v).Clamped()
		out.Colors[i] = RGB{R: rgb.R, G: rgb.G, B: rgb.B}
	}
	return out
}

// Corrected bakes p's HSV correction into its keys and resets the correction.
func (p Palette) Corrected() Palette {
	h := p.HSV.Normalized()
	out := ApplyHSV(p, h.H-1, h.S, h.V)
	out.HSV = NoCorrection()
	return out
}

// EncodeHex resamples p at samples positions (its own key count when samples <= 0) and
// writes 6 hex digits per colour, breaking the line every wrap colours (never when wrap <= 0).
func EncodeHex(p Palette, samples, wrap int) string {
	r := Resample(p, samples)
	var sb strings.Builder
	sb.Grow(len(r.Colors) * 7)
	for i, c := range r.Colors {
		if wrap > 0 && i > 0 && i%wrap == 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(c.Hex())
	}
	return sb.String()
}

// DecodeHex removes all whitespace from text and decodes it in 6-digit chunks. Any
// non-hex chunk, or a digit count that is not a multiple of 6, fails the whole palette.
// The result has the default sample count for its size and no correction.
func DecodeHex(text string) (Palette, error) {
	compact := strings.Join(strings.Fields(text), "")
	if len(compact)%6 != 0 {
		return Palette{}, &InvalidHexError{Index: -1, Len: len(compact)}
	}
	colors := make([]RGB, 0, len(compact)/6)
	for i := 0; i < len(compact); i += 6 {
		tok := compact[i : i+6]
		rgb, ok := numstr.HexToRGB01(tok)
		if !ok {
			return Palette{}, &InvalidHexError{Index: i / 6, Token: tok}
		}
		colors = append(colors, RGB{R: rgb[0], G: rgb[1], B: rgb[2]})
	}
	p := New(colors...)
	if err := p.Validate(); err != nil {
		return Palette{}, err
	}
	return p, nil
}
