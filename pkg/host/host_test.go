// SPDX-License-Identifier: MPL-2.0

package host

import (
	"errors"
	"reflect"
	"slices"
	"sync"
	"testing"

	"github.com/flamekit/flamekit/pkg/affine"
	"github.com/flamekit/flamekit/pkg/diag"
	"github.com/flamekit/flamekit/pkg/flame"
	"github.com/flamekit/flamekit/pkg/palette"
	"github.com/flamekit/flamekit/pkg/variation"
)

func testPreset(t *testing.T) flame.Preset {
	t.Helper()
	julian, _ := variation.Lookup("julian")
	swirl, _ := variation.Lookup("swirl")
	spherical, _ := variation.Lookup("spherical")

	p := flame.NewPreset("host::12")
	p.Iterations = 12
	p.Generator = "flamekit"
	// Capture returns slots grouped PRE, VAR, POST.
	p.XForms[0].Slots = []flame.Slot{
		{Kind: variation.Pre, ID: swirl, Weight: 0.75},
		p.XForms[0].Slots[0],
		{Kind: variation.Var, ID: julian, Weight: 0.25, Params: []float64{3, 0.5}},
	}
	p.XForms[0].Pre = affine.Affine{X: affine.Vec{0.9, 0.1}, Y: affine.Vec{-0.1, 0.9}, O: affine.Vec{0.3, 0}, Angle: 12.5}

	second := flame.NewXForm()
	second.Active = false
	second.Note = "spare"
	second.PreBlur = 0.2
	second.Xaos = []float64{0, 3}
	p.XForms = append(p.XForms, second)

	final := flame.NewFinal()
	final.Slots = []flame.Slot{{Kind: variation.Post, ID: spherical, Weight: 0.5}}
	p.Final = &final

	p.Palette.HSV = palette.HSV{H: 1.1, S: 0.9, V: 1}
	p.Render.Overall = flame.ToneCurve{{X: 0, Y: 0}, {X: 0.4, Y: 0.6}, {X: 1, Y: 1}}
	p.Render.Size = [2]int{800, 600}
	return p
}

func TestApplyCapture_RoundTrip(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	p := testPreset(t)
	Apply(store, p)

	got, err := Capture(store)
	if err != nil {
		t.Fatalf("Capture() error = %v", err)
	}
	if !reflect.DeepEqual(got, p) {
		t.Errorf("Capture() mismatch\n got: %+v\nwant: %+v", got, p)
	}
}

func TestApply_ClearsAnimation(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	name := XFormParam(0, "weight")
	store.Animate(name)
	store.Animate("unrelated")

	Apply(store, flame.NewPreset("a"))
	if store.Animated(name) {
		t.Errorf("%s still animated", name)
	}
	if !store.Animated("unrelated") {
		t.Error("unrelated animation dropped")
	}
}

func TestApply_ShrinkingSlots(t *testing.T) {
	t.Parallel()

	store := NewMemoryStore()
	Apply(store, testPreset(t))
	Apply(store, flame.NewPreset("small"))

	got, err := Capture(store)
	if err != nil {
		t.Fatal(err)
	}
	if len(got.XForms) != 1 || len(got.XForms[0].Populated()) != 1 || got.Final != nil {
		t.Errorf("stale state captured: %+v", got)
	}
}

func TestCapture_Errors(t *testing.T) {
	t.Parallel()

	if _, err := Capture(NewMemoryStore()); !errors.Is(err, ErrMissingParam) {
		t.Errorf("empty store error = %v", err)
	}

	store := NewMemoryStore()
	Apply(store, flame.NewPreset("a"))
	store.SetString(XFormParam(0, "var1_type"), "nonesuch")
	_, err := Capture(store)
	if !errors.Is(err, ErrInvalidParam) {
		t.Fatalf("unknown type error = %v", err)
	}
	var ie *InvalidParamError
	if !errors.As(err, &ie) || ie.Name != "xf1_var1_type" || !errors.Is(ie.Err, flame.ErrUnknownSlotVariation) {
		t.Errorf("error = %#v", err)
	}

	store = NewMemoryStore()
	Apply(store, flame.NewPreset("a"))
	store.SetString(XFormParam(0, "xaos"), "xaos:1:bad")
	if _, err := Capture(store); !errors.Is(err, ErrInvalidParam) {
		t.Errorf("bad xaos error = %v", err)
	}
}

func TestCapture_ErrorPalette(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		hex  string
	}{
		{"sentinel", ""},
		{"truncated", "FF00"},
		{"single colour", "00FF00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := flame.NewPreset("red")
			p.Palette = palette.ErrorPalette()
			store := NewMemoryStore()
			Apply(store, p)
			if tt.hex != "" {
				store.SetString(ParamPaletteHex, tt.hex)
			}

			got, report, err := CaptureReport(store)
			if err != nil {
				t.Fatalf("CaptureReport() error = %v", err)
			}
			if !reflect.DeepEqual(got.Palette, palette.ErrorPalette()) {
				t.Errorf("palette = %+v", got.Palette)
			}
			entries := report.ByKind(diag.InvalidPalette)
			if len(entries) != 1 || entries[0].Preset != "red" || entries[0].Key != ParamPaletteHex {
				t.Errorf("report = %v", report.Entries())
			}
			if _, err := Capture(store); err != nil {
				t.Errorf("Capture() error = %v", err)
			}
		})
	}
}

func TestCurrent(t *testing.T) {
	t.Parallel()

	doc := flame.NewDocument(flame.NewPreset("a"), flame.NewPreset("b"))
	tests := []struct {
		name string
		sel  Selection
		want string
		ok   bool
	}{
		{"first", FixedSelection(0), "a", true},
		{"second", FixedSelection(1), "b", true},
		{"none", FixedSelection(-1), "", false},
		{"out of range", FixedSelection(2), "", false},
		{"nil selection", nil, "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			p, _, ok := Current(doc, tt.sel)
			if ok != tt.ok {
				t.Fatalf("Current() ok = %v, want %v", ok, tt.ok)
			}
			if ok && p.Name != tt.want {
				t.Errorf("Current() = %q, want %q", p.Name, tt.want)
			}
		})
	}

	p, _, _ := Current(doc, FixedSelection(1))
	p.Iterations = 77
	if doc.Presets[1].Iterations != 77 {
		t.Error("Current() must point into the document")
	}
}

func TestMemoryStore(t *testing.T) {
	t.Parallel()

	m := NewMemoryStore()
	m.SetFloat("b", 1)
	m.SetString("a", "x")
	m.SetString("b", "y")
	if _, ok := m.Float("b"); ok {
		t.Error("SetString must replace a float of the same name")
	}
	if got := m.Keys(); !slices.Equal(got, []string{"a", "b"}) {
		t.Errorf("Keys() = %v", got)
	}

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			name := XFormParam(i, "weight")
			m.SetFloat(name, float64(i))
			m.Float(name)
		}()
	}
	wg.Wait()
	if m.Len() != 10 {
		t.Errorf("Len() = %d, want 10", m.Len())
	}
}
