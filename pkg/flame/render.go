// SPDX-License-Identifier: MPL-2.0

package flame

import (
	"slices"

	"github.com/flamekit/flamekit/pkg/numstr"
)

// DefaultCurveLiterals are the tone-curve attribute values treated as the default curve.
var DefaultCurveLiterals = []string{
	"0 0 0.25 0.25 0.5 0.5 0.75 0.75 1 1",
	"0 0 1 1",
	"0;0;0.25;0.25;0.5;0.5;0.75;0.75;1;1",
}

type (
	// Knot is one tone-curve control point.
	Knot struct {
		X, Y float64
	}

	// ToneCurve is an ordered knot list.
	ToneCurve []Knot

	// RenderProperties are the scalar render parameters of a preset.
	RenderProperties struct {
		Size           [2]int
		Center         [2]float64
		Rotate         float64
		Scale          float64
		Quality        float64
		Gamma          float64
		GammaThreshold float64
		Brightness     float64
		Vibrancy       float64
		HighlightPower float64
		K2             float64
		Background     [3]float64

		Overall ToneCurve
		Red     ToneCurve
		Green   ToneCurve
		Blue    ToneCurve
	}
)

// DefaultCurve returns the 5-knot linear curve.
func DefaultCurve() ToneCurve {
	return ToneCurve{{0, 0}, {0.25, 0.25}, {0.5, 0.5}, {0.75, 0.75}, {1, 1}}
}

// DefaultRender returns the render properties of a new preset.
func DefaultRender() RenderProperties {
	return RenderProperties{
		Size:           [2]int{1024, 1024},
		Scale:          100,
		Quality:        1000,
		Gamma:          2.5,
		GammaThreshold: 0.01,
		Brightness:     3,
		Vibrancy:       1,
		HighlightPower: 1,
		Overall:        DefaultCurve(),
		Red:            DefaultCurve(),
		Green:          DefaultCurve(),
		Blue:           DefaultCurve(),
	}
}

// ParseCurve reads a tone-curve attribute. Empty text and the default literals yield the
// default curve, as does text with fewer than two knots. A trailing unpaired value is dropped.
func ParseCurve(s string) (ToneCurve, numstr.Outcome) {
	if s == "" || slices.Contains(DefaultCurveLiterals, s) {
		return DefaultCurve(), numstr.Parsed
	}
	vals, outcome := numstr.ParseFloats(s, 0, 0)
	if len(vals)%2 != 0 {
		vals = vals[:len(vals)-1]
		outcome = outcome.Worse(numstr.Corrected)
	}
	if len(vals) < 4 {
		return DefaultCurve(), outcome.Worse(numstr.Corrected)
	}
	c := make(ToneCurve, 0, len(vals)/2)
	for i := 0; i < len(vals); i += 2 {
		c = append(c, Knot{vals[i], vals[i+1]})
	}
	return c, outcome
}

// IsDefault reports whether c is the default curve. An empty curve counts as default.
func (c ToneCurve) IsDefault() bool {
	return len(c) == 0 || slices.Equal(c, DefaultCurve())
}

// String returns the space-separated attribute form.
func (c ToneCurve) String() string {
	vals := make([]float64, 0, 2*len(c))
	for _, k := range c {
		vals = append(vals, k.X, k.Y)
	}
	return numstr.FormatFloats(vals...)
}

// Clone returns an independent copy of r.
func (r RenderProperties) Clone() RenderProperties {
	r.Overall = slices.Clone(r.Overall)
	r.Red = slices.Clone(r.Red)
	r.Green = slices.Clone(r.Green)
	r.Blue = slices.Clone(r.Blue)
	return r
}
