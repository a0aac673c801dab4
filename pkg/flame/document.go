// SPDX-License-Identifier: MPL-2.0

package flame

// DefaultRoot is the root tag written for documents.
const DefaultRoot = "flames"

// Document is one flame file: presets in file order.
type Document struct {
	// RootName is the recognized root tag.
	RootName string
	// Name is the root's name attribute, if any.
	Name    string
	Presets []Preset
}

// NewDocument returns an empty document with the default root.
func NewDocument(presets ...Preset) *Document {
	return &Document{RootName: DefaultRoot, Presets: presets}
}

// Len returns the number of presets.
func (d *Document) Len() int { return len(d.Presets) }

// Names returns the raw preset names in order.
func (d *Document) Names() []string {
	out := make([]string, len(d.Presets))
	for i, p := range d.Presets {
		out[i] = p.Name
	}
	return out
}

// Index returns the position of the first preset named name, or -1.
func (d *Document) Index(name string) int {
	for i, p := range d.Presets {
		if p.Name == name {
			return i
		}
	}
	return -1
}

// Preset returns the first preset named name.
func (d *Document) Preset(name string) (*Preset, bool) {
	i := d.Index(name)
	if i < 0 {
		return nil, false
	}
	return &d.Presets[i], true
}

// Clone returns an independent copy of d.
func (d *Document) Clone() *Document {
	out := &Document{RootName: d.RootName, Name: d.Name, Presets: make([]Preset, len(d.Presets))}
	for i, p := range d.Presets {
		out.Presets[i] = p.Clone()
	}
	return out
}
