// SPDX-License-Identifier: MPL-2.0

package flame

import (
	"errors"
	"slices"
	"testing"

	"github.com/flamekit/flamekit/pkg/affine"
	"github.com/flamekit/flamekit/pkg/numstr"
	"github.com/flamekit/flamekit/pkg/variation"
	"github.com/flamekit/flamekit/pkg/xaos"
)

func TestSplitName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		base string
		n    int
		ok   bool
	}{
		{"MyFlame::16", "MyFlame", 16, true},
		{"MyFlame", "MyFlame", 0, false},
		{"a::b::64", "a::b", 64, true},
		{"Bad::x", "Bad::x", 0, false},
		{"Zero::0", "Zero::0", 0, false},
		{"::8", "", 8, true},
	}
	for _, tt := range tests {
		base, n, ok := SplitName(tt.name)
		if base != tt.base || n != tt.n || ok != tt.ok {
			t.Errorf("SplitName(%q) = (%q, %d, %v), want (%q, %d, %v)", tt.name, base, n, ok, tt.base, tt.n, tt.ok)
		}
	}
}

func TestLoadIterations(t *testing.T) {
	t.Parallel()

	if got := LoadIterations("MyFlame::16", 64); got != 16 {
		t.Errorf("LoadIterations(suffix) = %d, want 16", got)
	}
	if got := LoadIterations("MyFlame", 64); got != 64 {
		t.Errorf("LoadIterations(no suffix) = %d, want caller default 64", got)
	}
	if got := JoinName("MyFlame", 16); got != "MyFlame::16" {
		t.Errorf("JoinName() = %q", got)
	}
	if got := JoinName("MyFlame", 0); got != "MyFlame" {
		t.Errorf("JoinName(0) = %q", got)
	}
}

func TestCoerceWeight(t *testing.T) {
	t.Parallel()

	for _, w := range []float64{-2.5, -0.1, 0, 0.3, 7} {
		for _, kind := range []variation.Section{variation.Pre, variation.Post} {
			got := CoerceWeight(kind, w)
			if got < 0 || (got != w && got != -w) {
				t.Errorf("CoerceWeight(%v, %v) = %v", kind, w, got)
			}
		}
		if got := CoerceWeight(variation.Var, w); got != w {
			t.Errorf("CoerceWeight(VAR, %v) = %v", w, got)
		}
	}
}

func TestParseCurve(t *testing.T) {
	t.Parallel()

	for _, lit := range append([]string{""}, DefaultCurveLiterals...) {
		c, outcome := ParseCurve(lit)
		if !c.IsDefault() || outcome != numstr.Parsed {
			t.Errorf("ParseCurve(%q) = %v %v", lit, c, outcome)
		}
	}

	c, outcome := ParseCurve("0 0 0.5 0.7 1 1")
	if c.IsDefault() || len(c) != 3 || c[1] != (Knot{0.5, 0.7}) || outcome != numstr.Parsed {
		t.Errorf("ParseCurve(custom) = %v %v", c, outcome)
	}
	if got := c.String(); got != "0 0 0.5 0.7 1 1" {
		t.Errorf("String() = %q", got)
	}

	c, outcome = ParseCurve("0 0 0.5 0.7 1")
	if len(c) != 2 || outcome != numstr.Corrected {
		t.Errorf("ParseCurve(odd) = %v %v", c, outcome)
	}

	if c, _ := ParseCurve("0 0"); !c.IsDefault() {
		t.Errorf("single-knot curve = %v", c)
	}
	if got := DefaultCurve().String(); got != DefaultCurveLiterals[0] {
		t.Errorf("DefaultCurve().String() = %q", got)
	}
}

func TestXForm_AddSlot(t *testing.T) {
	t.Parallel()

	x := NewFinal()
	julian, _ := variation.Lookup("julian")
	if !x.AddSlot(NewSlot(variation.Pre, julian, -0.5), FinalLimits) {
		t.Fatal("first PRE slot rejected")
	}
	if got := x.Section(variation.Pre)[0]; got.Weight != 0.5 || len(got.Params) != 2 {
		t.Errorf("PRE slot = %+v", got)
	}
	if x.AddSlot(NewSlot(variation.Pre, 0, 1), FinalLimits) {
		t.Error("second PRE slot accepted on final xform")
	}
	if !x.AddSlot(NewSlot(variation.Post, 0, 1), FinalLimits) || !x.AddSlot(NewSlot(variation.Post, 2, 1), FinalLimits) {
		t.Error("final xform must hold two POST slots")
	}
	if got := len(x.Populated()); got != 3 {
		t.Errorf("Populated() = %d slots", got)
	}
}

func TestXForm_IsValid(t *testing.T) {
	t.Parallel()

	x := NewXForm()
	if ok, errs := x.IsValid(IteratorLimits); !ok {
		t.Fatalf("NewXForm() invalid: %v", errs)
	}

	x.Slots = append(x.Slots,
		Slot{Kind: variation.Post, ID: 1, Weight: 1},
		Slot{Kind: variation.Post, ID: 2, Weight: -1},
		Slot{Kind: variation.Var, ID: 999, Weight: 1},
	)
	ok, errs := x.IsValid(IteratorLimits)
	if ok {
		t.Fatal("IsValid() = true")
	}
	var sawOverflow, sawNegative, sawUnknown bool
	for _, err := range errs {
		sawOverflow = sawOverflow || errors.Is(err, ErrSlotOverflow)
		sawNegative = sawNegative || errors.Is(err, ErrNegativeSlotWeight)
		sawUnknown = sawUnknown || errors.Is(err, ErrUnknownSlotVariation)
	}
	if !sawOverflow || !sawNegative || !sawUnknown {
		t.Errorf("IsValid() errors = %v", errs)
	}
}

func TestColorSpeed(t *testing.T) {
	t.Parallel()

	for _, s := range []float64{-1, -0.25, 0, 0.3, 1} {
		if got := SymmetryFromColorSpeed(ColorSpeed(s)); got != s {
			t.Errorf("symmetry %v round trip = %v", s, got)
		}
	}
	if ColorSpeed(1) != 0 || ColorSpeed(-1) != 1 {
		t.Error("ColorSpeed endpoints")
	}
}

func TestPreset_ActiveCount(t *testing.T) {
	t.Parallel()

	p := NewPreset("p")
	p.XForms = append(p.XForms, NewXForm(), NewXForm())
	p.XForms[1].Active = false
	if p.ActiveCount() != 2 || !p.HasInactive() {
		t.Errorf("ActiveCount() = %d", p.ActiveCount())
	}
}

func TestPreset_Duplicates(t *testing.T) {
	t.Parallel()

	p := NewPreset("dup")
	x := NewXForm()
	x.Slots = []Slot{
		{Kind: variation.Var, ID: 2, Weight: 1},
		{Kind: variation.Var, ID: 2, Weight: 0.5},
		{Kind: variation.Pre, ID: 2, Weight: 1},
		{Kind: variation.Var, ID: 3, Weight: 0},
		{Kind: variation.Var, ID: 3, Weight: 1},
	}
	p.XForms = []XForm{NewXForm(), x}
	final := NewFinal()
	final.Slots = []Slot{{Kind: variation.Post, ID: 0, Weight: 1}, {Kind: variation.Post, ID: 0, Weight: 1}}
	p.Final = &final

	got := p.Duplicates()
	if len(got) != 2 {
		t.Fatalf("Duplicates() = %v", got)
	}
	if got[0].Target != "iterator 2" || got[0].Section != variation.Var || got[0].ID != 2 || got[0].Count != 2 {
		t.Errorf("iterator duplicate = %+v", got[0])
	}
	if got[1].XForm != FinalIndex || got[1].Section != variation.Post {
		t.Errorf("final duplicate = %+v", got[1])
	}
}

func TestPreset_XaosEditing(t *testing.T) {
	t.Parallel()

	p := NewPreset("x")
	p.XForms = []XForm{NewXForm(), NewXForm(), NewXForm()}
	p.XForms[0].Xaos = []float64{0, 2}
	p.XForms[2].Xaos = []float64{1, 1, 0}

	p.RemoveXForm(1)
	if len(p.XForms) != 2 {
		t.Fatalf("RemoveXForm() left %d xforms", len(p.XForms))
	}
	if !slices.Equal(p.XForms[0].Xaos, []float64{0}) || !slices.Equal(p.XForms[1].Xaos, []float64{1, 0}) {
		t.Errorf("rows after remove = %v %v", p.XForms[0].Xaos, p.XForms[1].Xaos)
	}

	p.InsertXForm(0, NewXForm())
	m := p.XaosMatrix()
	want := xaos.Matrix{{1, 1, 1}, {1, 0, 1}, {1, 1, 0}}
	for i := range want {
		if !slices.Equal(m[i], want[i]) {
			t.Errorf("row %d after insert = %v, want %v", i, m[i], want[i])
		}
	}
	if p.XForms[0].Xaos != nil {
		t.Errorf("default row stored as %v", p.XForms[0].Xaos)
	}
}

func TestPreset_XFormEditingLeavesCopies(t *testing.T) {
	t.Parallel()

	p := NewPreset("x")
	p.XForms = []XForm{NewXForm(), NewXForm(), NewXForm()}
	p.XForms[0].Note = "a"
	p.XForms[1].Note = "b"
	p.XForms[2].Note = "c"
	p.XForms[2].Xaos = []float64{0}

	removed := p
	removed.RemoveXForm(0)
	inserted := p
	inserted.InsertXForm(1, NewXForm())

	notes := func(xs []XForm) []string {
		var out []string
		for _, x := range xs {
			out = append(out, x.Note)
		}
		return out
	}
	if got := notes(p.XForms); !slices.Equal(got, []string{"a", "b", "c"}) {
		t.Errorf("original iterators = %v", got)
	}
	if !slices.Equal(p.XForms[2].Xaos, []float64{0}) {
		t.Errorf("original xaos row = %v", p.XForms[2].Xaos)
	}
	if got := notes(removed.XForms); !slices.Equal(got, []string{"b", "c"}) {
		t.Errorf("after remove = %v", got)
	}
	if got := notes(inserted.XForms); !slices.Equal(got, []string{"a", "", "b", "c"}) {
		t.Errorf("after insert = %v", got)
	}
}

func TestPreset_Conflicts(t *testing.T) {
	t.Parallel()

	blur, _ := variation.Lookup("blur")
	preBlur := Slot{Kind: variation.Pre, ID: blur, Weight: 0.2}

	p := NewPreset("r")
	named := NewXForm()
	named.Note = OffName
	off := NewXForm()
	off.Active = false
	off.Note = OffName
	varBlur := NewXForm()
	varBlur.Slots = append(varBlur.Slots, Slot{Kind: variation.Var, ID: blur, Weight: 1}, Slot{Kind: variation.Pre, ID: blur, Weight: 0})
	p.XForms = append(p.XForms, named, off, varBlur)
	p.XForms[0].Slots = append(p.XForms[0].Slots, preBlur)
	final := NewFinal()
	final.Note = OffName
	final.Slots = []Slot{preBlur}
	p.Final = &final

	got := p.Conflicts()
	want := []Conflict{
		{Preset: "r", Target: "iterator 1", XForm: 0, Reason: PreBlurSlotConflict},
		{Preset: "r", Target: "iterator 2", XForm: 1, Reason: ReservedNoteConflict},
		{Preset: "r", Target: FinalTarget, XForm: FinalIndex, Reason: PreBlurSlotConflict},
	}
	if !slices.Equal(got, want) {
		t.Fatalf("Conflicts() = %+v, want %+v", got, want)
	}

	ok, errs := p.IsValid()
	if ok || len(errs) != 3 {
		t.Fatalf("IsValid() = %v, %v", ok, errs)
	}
	var rv *ReservedValueError
	if !errors.Is(errs[0], ErrReservedValue) || !errors.As(errs[1], &rv) || rv.Reason != ReservedNoteConflict {
		t.Errorf("IsValid() errors = %v", errs)
	}
}

func TestPreset_Clone(t *testing.T) {
	t.Parallel()

	p := NewPreset("c")
	f := NewFinal()
	p.Final = &f
	c := p.Clone()
	c.XForms[0].Slots[0].Weight = 9
	c.Final.Weight = 3
	c.Palette.Colors[0].R = 1
	c.Render.Overall[0].Y = 1

	if p.XForms[0].Slots[0].Weight == 9 || p.Final.Weight == 3 || p.Palette.Colors[0].R == 1 || p.Render.Overall[0].Y == 1 {
		t.Error("Clone() shares memory with the original")
	}
}

func TestPreset_IsValid(t *testing.T) {
	t.Parallel()

	p := NewPreset("v")
	if ok, errs := p.IsValid(); !ok {
		t.Fatalf("NewPreset() invalid: %v", errs)
	}
	p.Palette.Colors = p.Palette.Colors[:1]
	if ok, _ := p.IsValid(); ok {
		t.Error("single-key palette accepted")
	}
}

func TestDocument(t *testing.T) {
	t.Parallel()

	d := NewDocument(NewPreset("a::10"), NewPreset("b"))
	if d.RootName != DefaultRoot || d.Len() != 2 {
		t.Fatalf("NewDocument() = %+v", d)
	}
	if !slices.Equal(d.Names(), []string{"a::10", "b"}) {
		t.Errorf("Names() = %v", d.Names())
	}
	if d.Index("b") != 1 || d.Index("c") != -1 {
		t.Error("Index()")
	}
	if p, ok := d.Preset("a::10"); !ok || p.Iterations != 10 || p.BaseName() != "a" {
		t.Errorf("Preset() = %+v %v", p, ok)
	}
}

func TestDefaults(t *testing.T) {
	t.Parallel()

	x := NewXForm()
	if x.Weight != DefaultWeight || !x.Active || x.Opacity != 1 || x.HasPost() || !affine.IsDefault(x.Pre) {
		t.Errorf("NewXForm() = %+v", x)
	}
	r := DefaultRender()
	if r.Size != [2]int{1024, 1024} || r.Scale != 100 || !r.Overall.IsDefault() {
		t.Errorf("DefaultRender() = %+v", r)
	}
}
