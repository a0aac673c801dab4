// SPDX-License-Identifier: MPL-2.0

package palette

import (
	"errors"
	"slices"
	"testing"
)

func TestLibrary_LoadPreservesOrder(t *testing.T) {
	t.Parallel()

	data := []byte(`{
  "zeta": {"hex": "FF000000FF00"},
  "alpha": {"hex": "0000FFFFFFFF", "hsv": "1.5 1 0.5"}
}`)
	lib, err := LoadLibrary(data)
	if err != nil {
		t.Fatalf("LoadLibrary() error = %v", err)
	}
	if got := lib.Names(); !slices.Equal(got, []string{"zeta", "alpha"}) {
		t.Errorf("Names() = %v", got)
	}

	p, ok, err := lib.Palette("alpha")
	if !ok || err != nil {
		t.Fatalf("Palette(alpha) = %v %v", ok, err)
	}
	if p.HSV != (HSV{H: 1.5, S: 1, V: 0.5}) || len(p.Colors) != 2 {
		t.Errorf("Palette(alpha) = %+v", p)
	}

	if _, ok, _ := lib.Palette("missing"); ok {
		t.Error("Palette(missing) reported found")
	}
}

func TestLibrary_MarshalRoundTrip(t *testing.T) {
	t.Parallel()

	lib := NewLibrary()
	lib.Set("b", New(RGB{R: 1}, RGB{G: 1}), 2)
	hsv := New(RGB{B: 1}, RGB{R: 1, G: 1, B: 1})
	hsv.HSV = HSV{H: 1, S: 0.5, V: 1}
	lib.Set("a", hsv, 2)
	lib.Set("b", New(RGB{}, RGB{}), 2)

	data, err := lib.Marshal()
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	back, err := LoadLibrary(data)
	if err != nil {
		t.Fatalf("LoadLibrary(Marshal()) error = %v\n%s", err, data)
	}
	if got := back.Names(); !slices.Equal(got, []string{"b", "a"}) {
		t.Errorf("Names() = %v", got)
	}
	if e, _ := back.Entry("b"); e.Hex != "000000000000" || e.HSV != "" {
		t.Errorf("replaced entry = %+v", e)
	}
	if e, _ := back.Entry("a"); e.HSV != "1 0.5 1" {
		t.Errorf("hsv entry = %+v", e)
	}
}

func TestLibrary_Empty(t *testing.T) {
	t.Parallel()

	data, err := NewLibrary().Marshal()
	if err != nil || string(data) != "{}\n" {
		t.Errorf("Marshal() = %q, %v", data, err)
	}
	lib, err := LoadLibrary(data)
	if err != nil || lib.Len() != 0 {
		t.Errorf("LoadLibrary({}) = %v, %v", lib, err)
	}
}

func TestLoadLibrary_Errors(t *testing.T) {
	t.Parallel()

	for _, in := range []string{
		``,
		`[]`,
		`{"x": {"hsv": "1 1 1"}}`,
		`{"x": 3}`,
		`{"x": {"hex": "FF0000FF0000"}} {}`,
	} {
		if _, err := LoadLibrary([]byte(in)); !errors.Is(err, ErrInvalidLibrary) {
			t.Errorf("LoadLibrary(%q) error = %v", in, err)
		}
	}
}
