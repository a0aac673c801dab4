// SPDX-License-Identifier: MPL-2.0

package flamexml

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"

	"github.com/flamekit/flamekit/pkg/flame"
)

const flameTag = "flame"

// classifyRoot maps the top-level elements of a file to a flames root. A lone <flame> or a
// run of rootless <flame> elements is wrapped in a synthetic root.
func classifyRoot(top []*Node) (*Node, error) {
	switch len(top) {
	case 0:
		return nil, &InvalidDocumentError{Reason: "no elements"}
	case 1:
		return classifyOne(top[0])
	}
	for _, n := range top {
		if !strings.EqualFold(n.Name, flameTag) {
			return nil, &InvalidDocumentError{Root: n.Name, Reason: "several top-level elements that are not all <flame>"}
		}
	}
	return &Node{Name: flame.DefaultRoot, Children: top}, nil
}

func classifyOne(n *Node) (*Node, error) {
	lower := strings.ToLower(n.Name)
	switch {
	case strings.Contains(lower, flame.DefaultRoot):
		return n, nil
	case lower == flameTag:
		return &Node{Name: flame.DefaultRoot, Children: []*Node{n}}, nil
	case strings.Contains(lower, "ifs"):
		return nil, &UnsupportedFormatError{Root: n.Name}
	default:
		return nil, &InvalidDocumentError{Root: n.Name, Reason: "root is not a flames element"}
	}
}

// classifyName applies the same rules to a bare tag name. wrap reports that the element is
// itself a preset.
func classifyName(name string) (wrap bool, err error) {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, flame.DefaultRoot):
		return false, nil
	case lower == flameTag:
		return true, nil
	case strings.Contains(lower, "ifs"):
		return false, &UnsupportedFormatError{Root: name}
	default:
		return false, &InvalidDocumentError{Root: name, Reason: "root is not a flames element"}
	}
}

// Names lists the raw preset names of data in file order. Only the root is classified;
// presets are not decoded, so it is cheap enough for menus and listings.
func Names(data []byte) ([]string, error) {
	d := newDecoder(bytes.NewReader(data))
	var (
		names     []string
		depth     int
		inRoot    bool
		sawRoot   bool
		sawFlames bool
	)
	for {
		tok, err := d.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &InvalidDocumentError{Reason: err.Error()}
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if depth == 0 {
				wrap, err := classifyName(t.Name.Local)
				if err != nil {
					return nil, err
				}
				if sawFlames || (sawRoot && !wrap) {
					return nil, &InvalidDocumentError{Root: t.Name.Local, Reason: "several top-level elements that are not all <flame>"}
				}
				sawRoot = true
				sawFlames = !wrap
				if wrap {
					names = append(names, attrValue(t.Attr, "name"))
					if err := d.Skip(); err != nil {
						return nil, &InvalidDocumentError{Reason: err.Error()}
					}
					continue
				}
				inRoot = true
				depth++
				continue
			}
			if inRoot && depth == 1 && strings.EqualFold(t.Name.Local, flameTag) {
				names = append(names, attrValue(t.Attr, "name"))
			}
			if err := d.Skip(); err != nil {
				return nil, &InvalidDocumentError{Reason: err.Error()}
			}
		case xml.EndElement:
			if depth > 0 {
				depth--
				inRoot = depth > 0
			}
		}
	}
	if !sawRoot {
		return nil, &InvalidDocumentError{Reason: "no elements"}
	}
	if len(names) == 0 {
		return nil, &InvalidDocumentError{Reason: "no flame elements"}
	}
	return names, nil
}

func attrValue(attrs []xml.Attr, name string) string {
	for _, a := range attrs {
		if strings.EqualFold(a.Name.Local, name) {
			return a.Value
		}
	}
	return ""
}
