// SPDX-License-Identifier: MPL-2.0

package palette

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// ErrInvalidLibrary is the sentinel error wrapped by InvalidLibraryError.
var ErrInvalidLibrary = errors.New("invalid palette library")

type (
	// Entry is one palette of the JSON side-channel format.
	Entry struct {
		Hex string `json:"hex"`
		HSV string `json:"hsv,omitempty"`
	}

	// Library is the palette side-channel: a JSON object mapping preset name to Entry.
	// Key order is preserved on load and on marshal.
	Library struct {
		names   []string
		entries map[string]Entry
	}

	// InvalidLibraryError is returned when side-channel JSON cannot be read.
	InvalidLibraryError struct {
		Name   string
		Reason string
	}
)

// Error implements the error interface.
func (e *InvalidLibraryError) Error() string {
	if e.Name == "" {
		return "invalid palette library: " + e.Reason
	}
	return fmt.Sprintf("invalid palette library: entry %q: %s", e.Name, e.Reason)
}

// Unwrap returns ErrInvalidLibrary for errors.Is() compatibility.
func (e *InvalidLibraryError) Unwrap() error { return ErrInvalidLibrary }

// NewLibrary returns an empty library.
func NewLibrary() *Library {
	return &Library{entries: map[string]Entry{}}
}

// LoadLibrary reads the side-channel JSON. Entries without hex text are rejected; the hex
// text itself is only decoded by Palette.
func LoadLibrary(data []byte) (*Library, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return nil, &InvalidLibraryError{Reason: err.Error()}
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return nil, &InvalidLibraryError{Reason: "top level must be an object"}
	}

	lib := NewLibrary()
	for dec.More() {
		tok, err = dec.Token()
		if err != nil {
			return nil, &InvalidLibraryError{Reason: err.Error()}
		}
		name, _ := tok.(string)
		var e Entry
		if err := dec.Decode(&e); err != nil {
			return nil, &InvalidLibraryError{Name: name, Reason: err.Error()}
		}
		if e.Hex == "" {
			return nil, &InvalidLibraryError{Name: name, Reason: "missing hex"}
		}
		lib.SetEntry(name, e)
	}
	if _, err := dec.Token(); err != nil {
		return nil, &InvalidLibraryError{Reason: err.Error()}
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, &InvalidLibraryError{Reason: "trailing data after object"}
	}
	return lib, nil
}

// Len returns the number of entries.
func (l *Library) Len() int { return len(l.names) }

// Names returns the entry names in order.
func (l *Library) Names() []string {
	return append([]string(nil), l.names...)
}

// Entry returns the raw entry for name.
func (l *Library) Entry(name string) (Entry, bool) {
	e, ok := l.entries[name]
	return e, ok
}

// SetEntry adds or replaces an entry. A replaced entry keeps its position.
func (l *Library) SetEntry(name string, e Entry) {
	if l.entries == nil {
		l.entries = map[string]Entry{}
	}
	if _, ok := l.entries[name]; !ok {
		l.names = append(l.names, name)
	}
	l.entries[name] = e
}

// Set stores p under name, encoded at samples positions. A default HSV is not recorded.
func (l *Library) Set(name string, p Palette, samples int) {
	e := Entry{Hex: EncodeHex(p, samples, 0)}
	if !p.HSV.IsDefault() {
		e.HSV = p.HSV.String()
	}
	l.SetEntry(name, e)
}

// Palette decodes the entry stored under name.
func (l *Library) Palette(name string) (Palette, bool, error) {
	e, ok := l.entries[name]
	if !ok {
		return Palette{}, false, nil
	}
	p, err := DecodeHex(e.Hex)
	if err != nil {
		return Palette{}, true, err
	}
	if e.HSV != "" {
		p.HSV, _ = ParseHSV(e.HSV)
	}
	return p, true, nil
}

// Marshal writes the library as indented JSON in entry order.
func (l *Library) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("{")
	for i, name := range l.names {
		if i > 0 {
			buf.WriteString(",")
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		val, err := json.MarshalIndent(l.entries[name], "  ", "  ")
		if err != nil {
			return nil, err
		}
		buf.WriteString("\n  ")
		buf.Write(key)
		buf.WriteString(": ")
		buf.Write(val)
	}
	if len(l.names) > 0 {
		buf.WriteString("\n")
	}
	buf.WriteString("}\n")
	return buf.Bytes(), nil
}
