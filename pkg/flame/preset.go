// SPDX-License-Identifier: MPL-2.0

package flame

import (
	"fmt"
	"slices"

	"github.com/flamekit/flamekit/pkg/palette"
	"github.com/flamekit/flamekit/pkg/variation"
	"github.com/flamekit/flamekit/pkg/xaos"
)

// FinalTarget names the final xform in diagnostics.
const FinalTarget = "final xform"

// FinalIndex is the XForm index reported for the final xform.
const FinalIndex = -1

type (
	// Preset is one flame of a document.
	Preset struct {
		// Name is the raw name, possibly carrying a "::N" iteration suffix.
		Name string
		// Iterations is the resolved load iteration count.
		Iterations int
		// Generator is the declared authoring application (the version attribute).
		Generator string

		XForms  []XForm
		Final   *XForm
		Palette palette.Palette
		Render  RenderProperties
	}

	// Duplicate is one variation used more than once in a single xform section.
	Duplicate struct {
		Preset  string
		Target  string
		XForm   int
		Section variation.Section
		ID      variation.ID
		Count   int
	}

	// Conflict is one xform value that the XML format cannot hold.
	Conflict struct {
		Preset string
		Target string
		XForm  int
		Reason string
	}
)

// Conflict reasons.
const (
	PreBlurSlotConflict  = "PRE blur slot collides with the pre_blur attribute"
	ReservedNoteConflict = "active iterator is named " + OffName + ", the inactive token"
)

// IteratorTarget names iterator i (zero-based) in diagnostics.
func IteratorTarget(i int) string { return fmt.Sprintf("iterator %d", i+1) }

// DefaultNote returns the name written for iterator i when it has no note.
func DefaultNote(i int) string { return fmt.Sprintf("iterator_%d", i+1) }

// NewPreset returns a preset with one default iterator, a black-to-white palette and
// default render properties.
func NewPreset(name string) Preset {
	return Preset{
		Name:       name,
		Iterations: LoadIterations(name, 0),
		XForms:     []XForm{NewXForm()},
		Palette:    palette.New(palette.RGB{}, palette.RGB{R: 1, G: 1, B: 1}),
		Render:     DefaultRender(),
	}
}

// BaseName returns the name without its iteration suffix.
func (p Preset) BaseName() string {
	base, _, _ := SplitName(p.Name)
	return base
}

// ActiveCount returns the number of active iterators.
func (p Preset) ActiveCount() int {
	n := 0
	for _, x := range p.XForms {
		if x.Active {
			n++
		}
	}
	return n
}

// HasInactive reports whether any iterator is inactive.
func (p Preset) HasInactive() bool { return p.ActiveCount() != len(p.XForms) }

// XaosMatrix returns the square "to" matrix over the preset's iterators.
func (p Preset) XaosMatrix() xaos.Matrix {
	m := make(xaos.Matrix, len(p.XForms))
	for i, x := range p.XForms {
		m[i] = x.Xaos
	}
	return xaos.Square(m, len(p.XForms))
}

// SetXaosMatrix stores m ("to" convention) as sparse rows.
func (p *Preset) SetXaosMatrix(m xaos.Matrix) {
	sq := xaos.Square(m, len(p.XForms))
	for i := range p.XForms {
		row := xaos.StripTrailingDefault(sq[i])
		if len(row) == 0 {
			p.XForms[i].Xaos = nil
			continue
		}
		p.XForms[i].Xaos = append([]float64(nil), row...)
	}
}

// InsertXForm inserts x at index i and keeps every xaos row aligned. The new iterator is
// connected to and from every other iterator with the default weight.
func (p *Preset) InsertXForm(i int, x XForm) {
	i = max(0, min(i, len(p.XForms)))
	m := xaos.InsertIterator(p.XaosMatrix(), i)
	p.XForms = slices.Concat(p.XForms[:i], []XForm{x}, p.XForms[i:])
	p.SetXaosMatrix(m)
}

// RemoveXForm deletes iterator i and its xaos row and column.
func (p *Preset) RemoveXForm(i int) {
	if i < 0 || i >= len(p.XForms) {
		return
	}
	m := xaos.RemoveIterator(p.XaosMatrix(), i)
	p.XForms = slices.Delete(slices.Clone(p.XForms), i, i+1)
	p.SetXaosMatrix(m)
}

// Duplicates returns every (xform, section, variation) used more than once, iterators first
// and then the final xform.
func (p Preset) Duplicates() []Duplicate {
	var out []Duplicate
	for i, x := range p.XForms {
		out = append(out, duplicatesIn(p.Name, IteratorTarget(i), i, x)...)
	}
	if p.Final != nil {
		out = append(out, duplicatesIn(p.Name, FinalTarget, FinalIndex, *p.Final)...)
	}
	return out
}

func duplicatesIn(preset, target string, idx int, x XForm) []Duplicate {
	var out []Duplicate
	for _, s := range []variation.Section{variation.Pre, variation.Var, variation.Post} {
		counts := map[variation.ID]int{}
		var order []variation.ID
		for _, slot := range x.Section(s) {
			if counts[slot.ID] == 0 {
				order = append(order, slot.ID)
			}
			counts[slot.ID]++
		}
		for _, id := range order {
			if counts[id] > 1 {
				out = append(out, Duplicate{Preset: preset, Target: target, XForm: idx, Section: s, ID: id, Count: counts[id]})
			}
		}
	}
	return out
}

// Conflicts returns every PRE blur slot and every active iterator noted OFF, iterators first
// and then the final xform.
func (p Preset) Conflicts() []Conflict {
	var out []Conflict
	for i, x := range p.XForms {
		target := IteratorTarget(i)
		if x.HasPreBlurSlot() {
			out = append(out, Conflict{Preset: p.Name, Target: target, XForm: i, Reason: PreBlurSlotConflict})
		}
		if x.Active && x.Note == OffName {
			out = append(out, Conflict{Preset: p.Name, Target: target, XForm: i, Reason: ReservedNoteConflict})
		}
	}
	if p.Final != nil && p.Final.HasPreBlurSlot() {
		out = append(out, Conflict{Preset: p.Name, Target: FinalTarget, XForm: FinalIndex, Reason: PreBlurSlotConflict})
	}
	return out
}

// String describes the conflict on one line.
func (c Conflict) String() string {
	return fmt.Sprintf("%s: %s: %s", c.Preset, c.Target, c.Reason)
}

// String describes the duplicate on one line.
func (d Duplicate) String() string {
	return fmt.Sprintf("%s: %s: %s used %d times in %s", d.Preset, d.Target, d.ID, d.Count, d.Section)
}

// IsValid validates every xform against its slot ceilings and the palette key count.
func (p Preset) IsValid() (bool, []error) {
	var errs []error
	for i, x := range p.XForms {
		if ok, xerrs := x.IsValid(IteratorLimits); !ok {
			for _, err := range xerrs {
				errs = append(errs, fmt.Errorf("%s: %w", IteratorTarget(i), err))
			}
		}
	}
	if p.Final != nil {
		if ok, xerrs := p.Final.IsValid(FinalLimits); !ok {
			for _, err := range xerrs {
				errs = append(errs, fmt.Errorf("%s: %w", FinalTarget, err))
			}
		}
	}
	for _, c := range p.Conflicts() {
		errs = append(errs, fmt.Errorf("%s: %w", c.Target, &ReservedValueError{Reason: c.Reason}))
	}
	if err := p.Palette.Validate(); err != nil && !p.Palette.IsError() {
		errs = append(errs, err)
	}
	return len(errs) == 0, errs
}

// Clone returns an independent copy of p.
func (p Preset) Clone() Preset {
	p.XForms = slices.Clone(p.XForms)
	for i, x := range p.XForms {
		p.XForms[i] = x.Clone()
	}
	if p.Final != nil {
		f := p.Final.Clone()
		p.Final = &f
	}
	p.Palette = p.Palette.Clone()
	p.Render = p.Render.Clone()
	return p
}
