// SPDX-License-Identifier: MPL-2.0

package flamexml

import (
	"slices"
	"strings"

	"github.com/flamekit/flamekit/pkg/affine"
	"github.com/flamekit/flamekit/pkg/flame"
	"github.com/flamekit/flamekit/pkg/numstr"
	"github.com/flamekit/flamekit/pkg/palette"
	"github.com/flamekit/flamekit/pkg/variation"
	"github.com/flamekit/flamekit/pkg/xaos"
)

// DefaultWrap is the number of palette colours written per line.
const DefaultWrap = 8

type (
	// WriteOptions tune Write.
	WriteOptions struct {
		// Dialect selects parameter names and the colour-speed convention.
		Dialect variation.Dialect
		// ExtendedAffine also writes the un-rotated F3H form of rotated affines.
		ExtendedAffine bool
		// ExtendedPalette writes more than 256 samples when the palette carries them.
		ExtendedPalette bool
		// BakeHSV applies the HSV correction to the colours instead of writing it.
		BakeHSV bool
		// Generator is written as the version of presets that declare none.
		Generator string
		// Wrap is the palette colours per line: 0 means DefaultWrap, negative never wraps.
		Wrap int
	}

	// presetWriter carries per-preset write state.
	presetWriter struct {
		opts    WriteOptions
		app     string
		plugins []string
	}
)

// CheckDuplicates reports every variation used more than once in one section of one xform,
// and every value the format reserves (a PRE blur slot, an active iterator noted OFF),
// across all presets of doc. It returns nil or an *IncompatibleError.
func CheckDuplicates(doc *flame.Document) error {
	var (
		dups      []flame.Duplicate
		conflicts []flame.Conflict
	)
	for _, p := range doc.Presets {
		dups = append(dups, p.Duplicates()...)
		conflicts = append(conflicts, p.Conflicts()...)
	}
	if len(dups) > 0 || len(conflicts) > 0 {
		return &IncompatibleError{Duplicates: dups, Conflicts: conflicts}
	}
	return nil
}

// Write encodes doc. The duplicate and reserved-value check runs to completion first; when
// it fails no bytes are produced.
func Write(doc *flame.Document, opts WriteOptions) ([]byte, error) {
	if err := CheckDuplicates(doc); err != nil {
		return nil, err
	}
	return Encode(doc, opts).Bytes(), nil
}

// Encode builds the element tree of doc without checking it.
func Encode(doc *flame.Document, opts WriteOptions) *Node {
	rootName := doc.RootName
	if rootName == "" {
		rootName = flame.DefaultRoot
	}
	root := newNode(rootName)
	if doc.Name != "" {
		root.Set("name", doc.Name)
	}
	for _, p := range doc.Presets {
		root.Add(EncodePreset(p, opts))
	}
	return root
}

// EncodePreset builds the <flame> element of p.
func EncodePreset(p flame.Preset, opts WriteOptions) *Node {
	app := p.Generator
	if app == "" {
		app = opts.Generator
	}
	w := &presetWriter{opts: opts, app: app}

	xforms := make([]*Node, 0, len(p.XForms)+1)
	for i, x := range p.XForms {
		xforms = append(xforms, w.xform(x, i))
	}
	if p.Final != nil {
		xforms = append(xforms, w.xform(*p.Final, flame.FinalIndex))
	}

	el := newNode(flameTag)
	el.Set("name", p.Name)
	if app != "" {
		el.Set("version", app)
	}
	w.render(el, p.Render)
	if len(w.plugins) > 0 {
		el.Set("plugins", strings.Join(w.plugins, " "))
	}
	el.Set("new_linear", "1")

	el.Children = append(el.Children, xforms...)
	el.Add(w.palette(p.Palette))
	return el
}

func (w *presetWriter) render(el *Node, r flame.RenderProperties) {
	el.Set("size", numstr.FormatFloats(float64(r.Size[0]), float64(r.Size[1])))
	el.Set("center", numstr.FormatFloats(r.Center[:]...))
	el.Set("scale", numstr.RoundTrim(r.Scale))
	el.Set("rotate", numstr.RoundTrim(r.Rotate))
	el.Set("quality", numstr.RoundTrim(r.Quality))
	el.Set("gamma", numstr.RoundTrim(r.Gamma))
	el.Set("gamma_threshold", numstr.RoundTrim(r.GammaThreshold))
	el.Set("brightness", numstr.RoundTrim(r.Brightness))
	el.Set("vibrancy", numstr.RoundTrim(r.Vibrancy))
	el.Set("highlight_power", numstr.RoundTrim(r.HighlightPower))
	el.Set("k2", numstr.RoundTrim(r.K2))
	el.Set("background", numstr.FormatFloats(r.Background[:]...))
	for _, tc := range curveAttrs(&r) {
		if !tc.curve.IsDefault() {
			el.Set(tc.key, tc.curve.String())
		}
	}
}

func (w *presetWriter) xform(x flame.XForm, idx int) *Node {
	final := idx == flame.FinalIndex
	n := newNode("xform")
	if final {
		n.Name = "finalxform"
	}

	if !final {
		weight := x.Weight
		if !x.Active {
			weight = 0
		}
		n.Set("weight", numstr.RoundTrim(weight))
	}
	n.Set("color", numstr.RoundTrim(x.Color))
	if w.opts.Dialect == variation.Compat {
		n.Set("color_speed", numstr.RoundTrim(flame.ColorSpeed(x.Speed)))
	} else {
		n.Set("symmetry", numstr.RoundTrim(x.Speed))
	}
	n.Set("opacity", numstr.RoundTrim(x.Opacity))

	switch {
	case final:
		if x.Note != "" {
			n.Set("name", x.Note)
		}
	case !x.Active:
		n.Set("name", flame.OffName)
	case x.Note != "":
		n.Set("name", x.Note)
	default:
		n.Set("name", flame.DefaultNote(idx))
	}

	if x.PreBlur != 0 {
		n.Set("pre_blur", numstr.RoundTrim(x.PreBlur))
	}
	for _, s := range x.Populated() {
		// Encode does not check; a PRE blur slot would overwrite pre_blur.
		if s.Kind == variation.Pre && s.ID == blur && x.PreBlur != 0 {
			continue
		}
		w.slot(n, s)
	}

	w.affine(n, x.Pre, "coefs", "f3h_coefs", "f3h_coefs_angle")
	if x.HasPost() {
		w.affine(n, x.Post, "post", "f3h_post", "f3h_post_angle")
	}

	if !final {
		if chaos := xaos.FormatChaos(x.Xaos); chaos != "" {
			n.Set("chaos", chaos)
		}
	}
	return n
}

var blur, _ = variation.Lookup("blur")

func (w *presetWriter) slot(n *Node, s flame.Slot) {
	name := variation.Name(s.ID, w.app)
	if !slices.Contains(w.plugins, name) {
		w.plugins = append(w.plugins, name)
	}
	prefix := s.Kind.Prefix()
	n.Set(prefix+name, numstr.RoundTrim(flame.CoerceWeight(s.Kind, s.Weight)))

	d, _ := variation.ByID(s.ID)
	defaults := d.Defaults()
	for i, param := range variation.ParamNames(s.ID, w.opts.Dialect, w.app) {
		v := defaults[i]
		if i < len(s.Params) {
			v = s.Params[i]
		}
		n.Set(prefix+param, numstr.RoundTrim(v))
	}
}

// affine writes the native rotated form and, when requested and rotated, the extended one.
func (w *presetWriter) affine(n *Node, a affine.Affine, native, ext, angleKey string) {
	n.Set(native, affine.Decompose(a).Coeffs().Format())
	if w.opts.ExtendedAffine && a.Angle != 0 {
		n.Set(ext, a.Coeffs().Format())
		n.Set(angleKey, numstr.RoundTrim(a.Angle))
	}
}

func (w *presetWriter) palette(p palette.Palette) *Node {
	if len(p.Colors) == 0 {
		p = palette.ErrorPalette()
	}
	if w.opts.BakeHSV {
		p = p.Corrected()
	}

	samples := palette.DefaultSamples
	if w.opts.ExtendedPalette {
		samples = palette.NearestBucketCount(max(p.Samples, palette.DefaultSamples))
	}
	wrap := w.opts.Wrap
	if wrap == 0 {
		wrap = DefaultWrap
	}

	n := newNode("palette")
	n.Set("count", numstr.RoundTrim(float64(samples)))
	n.Set("format", "RGB")
	if !p.HSV.IsDefault() {
		n.Set("hsv", p.HSV.String())
	}
	n.Text = palette.EncodeHex(p, samples, wrap)
	return n
}
