// SPDX-License-Identifier: MPL-2.0

// Package affine implements the 2x2-plus-offset affine transforms of flame xforms.
//
// An Affine stores the X and Y basis vectors, the origin offset and, for the extended
// F3H encoding, a rotation angle in degrees kept separate from the basis. The native flam3
// encoding has no angle: Decompose folds the angle into the basis so readers without angle
// support reconstruct the same geometry.
package affine

import (
	"fmt"
	"math"

	"github.com/flamekit/flamekit/pkg/diag"
	"github.com/flamekit/flamekit/pkg/numstr"
)

// Len is the number of coefficients in the native encoding.
const Len = 6

type (
	// Vec is a 2D vector.
	Vec [2]float64

	// Coeffs is the native 6-float encoding: X.x X.y Y.x Y.y O.x O.y (flam3 "a d b e c f").
	Coeffs [Len]float64

	// Affine is an affine transform with an optional separate rotation angle in degrees.
	Affine struct {
		X     Vec
		Y     Vec
		O     Vec
		Angle float64
	}
)

// Identity returns the default affine: unit basis, zero offset, zero angle.
func Identity() Affine {
	return Affine{X: Vec{1, 0}, Y: Vec{0, 1}}
}

// FromCoeffs builds an Affine with zero angle from the native encoding.
func FromCoeffs(c Coeffs) Affine {
	return Affine{X: Vec{c[0], c[1]}, Y: Vec{c[2], c[3]}, O: Vec{c[4], c[5]}}
}

// Coeffs returns the native encoding of a's basis and offset, ignoring the angle.
func (a Affine) Coeffs() Coeffs {
	return Coeffs{a.X[0], a.X[1], a.Y[0], a.Y[1], a.O[0], a.O[1]}
}

// Rotate returns v rotated counter-clockwise by deg degrees.
func (v Vec) Rotate(deg float64) Vec {
	if deg == 0 {
		return v
	}
	s, c := math.Sincos(deg * math.Pi / 180)
	return Vec{v[0]*c - v[1]*s, v[0]*s + v[1]*c}
}

// Decompose folds the rotation angle into the basis (basis' = basis * R(angle)) and
// returns the result with angle 0. The origin is not rotated.
func Decompose(a Affine) Affine {
	if a.Angle == 0 {
		return a
	}
	return Affine{X: a.X.Rotate(a.Angle), Y: a.Y.Rotate(a.Angle), O: a.O}
}

// Recompose is the inverse of Decompose: given an already-rotated transform and the angle
// that produced it, it returns the un-rotated basis carrying that angle.
func Recompose(rotated Affine, deg float64) Affine {
	if deg == 0 {
		return Affine{X: rotated.X, Y: rotated.Y, O: rotated.O}
	}
	return Affine{X: rotated.X.Rotate(-deg), Y: rotated.Y.Rotate(-deg), O: rotated.O, Angle: deg}
}

// IsDefault reports whether a is the identity with angle exactly 0. It decides whether a
// post-affine is written on export and enabled on import.
func IsDefault(a Affine) bool {
	return a == Identity()
}

// Apply maps p through the transform, angle included: p.x*X + p.y*Y + O.
func (a Affine) Apply(p Vec) Vec {
	r := Decompose(a)
	return Vec{
		p[0]*r.X[0] + p[1]*r.Y[0] + r.O[0],
		p[0]*r.X[1] + p[1]*r.Y[1] + r.O[1],
	}
}

// Format writes the native encoding of a's basis and offset as space-separated values.
func (c Coeffs) Format() string {
	return numstr.FormatFloats(c[:]...)
}

// Rounded returns a with every component rounded to the precision written to files.
func (a Affine) Rounded() Affine {
	return Affine{
		X:     Vec{numstr.Round(a.X[0]), numstr.Round(a.X[1])},
		Y:     Vec{numstr.Round(a.Y[0]), numstr.Round(a.Y[1])},
		O:     Vec{numstr.Round(a.O[0]), numstr.Round(a.O[1])},
		Angle: numstr.Round(a.Angle),
	}
}

// PadOrReport converts a parsed value list into the native encoding. Fewer than six values
// are zero-padded and more are truncated; either case returns a diagnostic naming owner
// (e.g. "iterator 3") and key (e.g. "coefs").
func PadOrReport(values []float64, owner, key string) (Coeffs, *diag.Entry) {
	var c Coeffs
	copy(c[:], values)
	if len(values) == Len {
		return c, nil
	}

	msg := fmt.Sprintf("expected %d values, got %d: zero-padded", Len, len(values))
	if len(values) > Len {
		msg = fmt.Sprintf("expected %d values, got %d: truncated", Len, len(values))
	}
	return c, &diag.Entry{Kind: diag.InvalidAffineLength, Target: owner, Key: key, Message: msg}
}

// Parse reads a native encoding string, reporting malformed tokens and wrong lengths.
func Parse(s, owner, key string) (Coeffs, []diag.Entry) {
	vals, outcome := numstr.ParseFloats(s, 0, 0)
	var entries []diag.Entry
	switch outcome {
	case numstr.Defaulted:
		entries = append(entries, diag.Entry{Kind: diag.MalformedToken, Target: owner, Key: key,
			Message: fmt.Sprintf("malformed value in %q: 0 used", s)})
	case numstr.Corrected:
		entries = append(entries, diag.Entry{Kind: diag.CorrectedToken, Target: owner, Key: key,
			Message: fmt.Sprintf("corrected value in %q", s)})
	}
	c, e := PadOrReport(vals, owner, key)
	if e != nil {
		entries = append(entries, *e)
	}
	return c, entries
}
