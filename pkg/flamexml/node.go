// SPDX-License-Identifier: MPL-2.0

package flamexml

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
)

// indentUnit is the indentation written per nesting level.
const indentUnit = "  "

type (
	// Node is a generic element: name, attributes in document order, trimmed text and
	// child elements. Comments and processing instructions are not kept.
	Node struct {
		Name     string
		Attrs    []xml.Attr
		Text     string
		Children []*Node
	}
)

// newNode returns an element with no attributes.
func newNode(name string) *Node { return &Node{Name: name} }

// Set appends an attribute. Callers control the order in which attributes are written.
func (n *Node) Set(name, value string) {
	n.Attrs = append(n.Attrs, xml.Attr{Name: xml.Name{Local: name}, Value: value})
}

// Attr returns the value of the first attribute named name (case-insensitive).
func (n *Node) Attr(name string) (string, bool) {
	for _, a := range n.Attrs {
		if strings.EqualFold(a.Name.Local, name) {
			return a.Value, true
		}
	}
	return "", false
}

// Elements returns the children whose name matches name (case-insensitive).
func (n *Node) Elements(name string) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if strings.EqualFold(c.Name, name) {
			out = append(out, c)
		}
	}
	return out
}

// Add appends a child.
func (n *Node) Add(child *Node) *Node {
	n.Children = append(n.Children, child)
	return child
}

func newDecoder(r io.Reader) *xml.Decoder {
	d := xml.NewDecoder(r)
	d.Strict = false
	d.Entity = xml.HTMLEntity
	d.CharsetReader = charset.NewReaderLabel
	return d
}

// decodeForest reads every top-level element of data. Text outside elements is ignored.
func decodeForest(data []byte) ([]*Node, error) {
	d := newDecoder(bytes.NewReader(data))
	var (
		top   []*Node
		stack []*Node
		texts []*strings.Builder
	)
	for {
		tok, err := d.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		switch t := tok.(type) {
		case xml.StartElement:
			n := &Node{Name: t.Name.Local}
			for _, a := range t.Attr {
				n.Attrs = append(n.Attrs, xml.Attr{Name: xml.Name{Local: a.Name.Local}, Value: a.Value})
			}
			if len(stack) == 0 {
				top = append(top, n)
			} else {
				stack[len(stack)-1].Add(n)
			}
			stack = append(stack, n)
			texts = append(texts, &strings.Builder{})
		case xml.EndElement:
			if len(stack) == 0 {
				continue
			}
			last := len(stack) - 1
			stack[last].Text = normalizeText(texts[last].String())
			stack, texts = stack[:last], texts[:last]
		case xml.CharData:
			if len(texts) > 0 {
				texts[len(texts)-1].Write(t)
			}
		}
	}
	// Unclosed elements at EOF keep whatever text they collected.
	for i, n := range stack {
		n.Text = normalizeText(texts[i].String())
	}
	return top, nil
}

// normalizeText trims every line and drops blank ones, so re-indenting is stable.
func normalizeText(s string) string {
	lines := strings.Split(s, "\n")
	out := lines[:0]
	for _, l := range lines {
		if l = strings.TrimSpace(l); l != "" {
			out = append(out, l)
		}
	}
	return strings.Join(out, "\n")
}

// encode writes n and its subtree with two-space indentation. Elements with neither text
// nor children are self-closed; multi-line text is written one indented line per line.
func (n *Node) encode(buf *bytes.Buffer, depth int) {
	pad := strings.Repeat(indentUnit, depth)
	buf.WriteString(pad)
	buf.WriteByte('<')
	buf.WriteString(n.Name)
	for _, a := range n.Attrs {
		buf.WriteByte(' ')
		buf.WriteString(a.Name.Local)
		buf.WriteString(`="`)
		_ = xml.EscapeText(buf, []byte(a.Value))
		buf.WriteByte('"')
	}

	if n.Text == "" && len(n.Children) == 0 {
		buf.WriteString("/>\n")
		return
	}
	buf.WriteByte('>')

	if len(n.Children) == 0 && !strings.Contains(n.Text, "\n") {
		_ = xml.EscapeText(buf, []byte(n.Text))
	} else {
		buf.WriteByte('\n')
		inner := pad + indentUnit
		if n.Text != "" {
			for _, line := range strings.Split(n.Text, "\n") {
				buf.WriteString(inner)
				_ = xml.EscapeText(buf, []byte(line))
				buf.WriteByte('\n')
			}
		}
		for _, c := range n.Children {
			c.encode(buf, depth+1)
		}
		buf.WriteString(pad)
	}
	buf.WriteString("</")
	buf.WriteString(n.Name)
	buf.WriteString(">\n")
}

// Bytes returns the indented encoding of n.
func (n *Node) Bytes() []byte {
	var buf bytes.Buffer
	n.encode(&buf, 0)
	return buf.Bytes()
}

// Indent re-indents an XML document. Whitespace between elements and around text lines is
// normalized, so Indent(Indent(x)) == Indent(x). Several top-level elements are kept in order.
func Indent(data []byte) ([]byte, error) {
	top, err := decodeForest(data)
	if err != nil {
		return nil, &InvalidDocumentError{Reason: err.Error()}
	}
	if len(top) == 0 {
		return nil, &InvalidDocumentError{Reason: "no elements"}
	}
	var buf bytes.Buffer
	for _, n := range top {
		n.encode(&buf, 0)
	}
	return buf.Bytes(), nil
}
