// SPDX-License-Identifier: MPL-2.0

package flamestore

import (
	"fmt"
	"os"

	"github.com/flamekit/flamekit/pkg/flame"
	"github.com/flamekit/flamekit/pkg/palette"
)

// PaletteExt is the conventional extension of palette library files.
const PaletteExt = ".json"

// ImportResult lists what ImportPalettes did.
type ImportResult struct {
	// Applied are the presets whose palette was replaced.
	Applied []string
	// Unmatched are library names with no preset in the document.
	Unmatched []string
}

// ExportPalettes builds a library entry per preset, sampled at samples colours (the palette's
// own count when samples <= 0). Later presets with a repeated name overwrite earlier ones.
func ExportPalettes(doc *flame.Document, samples int) *palette.Library {
	lib := palette.NewLibrary()
	for _, p := range doc.Presets {
		n := samples
		if n <= 0 {
			n = p.Palette.Samples
		}
		lib.Set(p.Name, p.Palette, n)
	}
	return lib
}

// ImportPalettes replaces the palette of every preset named in lib. An entry that fails to
// decode stops the import with the document unchanged.
func ImportPalettes(doc *flame.Document, lib *palette.Library) (ImportResult, error) {
	decoded := make(map[string]palette.Palette, lib.Len())
	var res ImportResult
	for _, name := range lib.Names() {
		p, _, err := lib.Palette(name)
		if err != nil {
			return ImportResult{}, fmt.Errorf("palette %q: %w", name, err)
		}
		if doc.Index(name) < 0 {
			res.Unmatched = append(res.Unmatched, name)
			continue
		}
		decoded[name] = p
	}
	for i := range doc.Presets {
		if p, ok := decoded[doc.Presets[i].Name]; ok {
			doc.Presets[i].Palette = p
			res.Applied = append(res.Applied, doc.Presets[i].Name)
		}
	}
	return res, nil
}

// LoadPalettes reads a palette library file.
func LoadPalettes(path string) (*palette.Library, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &FileError{Op: "read", Path: path, Err: err}
	}
	lib, err := palette.LoadLibrary(data)
	if err != nil {
		return nil, &FileError{Op: "parse", Path: path, Err: err}
	}
	return lib, nil
}

// SavePalettes writes lib to path atomically.
func SavePalettes(path string, lib *palette.Library) error {
	data, err := lib.Marshal()
	if err != nil {
		return err
	}
	if err := atomicWriteFile(path, data); err != nil {
		return &FileError{Op: "write", Path: path, Err: err}
	}
	return nil
}
