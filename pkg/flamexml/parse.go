// SPDX-License-Identifier: MPL-2.0

package flamexml

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"github.com/flamekit/flamekit/pkg/affine"
	"github.com/flamekit/flamekit/pkg/diag"
	"github.com/flamekit/flamekit/pkg/flame"
	"github.com/flamekit/flamekit/pkg/numstr"
	"github.com/flamekit/flamekit/pkg/palette"
	"github.com/flamekit/flamekit/pkg/variation"
	"github.com/flamekit/flamekit/pkg/xaos"
)

// scalarKeys are xform attributes that are never variation names or parameters.
var scalarKeys = map[string]bool{
	"weight": true, "color": true, "symmetry": true, "color_speed": true, "opacity": true,
	"name": true, "coefs": true, "post": true, "chaos": true, "xaos": true, "pre_blur": true,
	"f3h_coefs": true, "f3h_coefs_angle": true, "f3h_post": true, "f3h_post_angle": true,
	"plotmode": true, "animate": true, "var_color": true,
}

type (
	// ParseOptions tune Parse.
	ParseOptions struct {
		// DefaultIterations is used for presets whose name carries no iteration suffix.
		DefaultIterations int
		// Iterations, when positive, overrides every preset's iteration count.
		Iterations int
	}

	// Result is a parsed document and the problems recovered while reading it.
	Result struct {
		Document *flame.Document
		Report   *diag.Report
	}

	// presetReader carries per-preset parse state.
	presetReader struct {
		report  *diag.Report
		preset  string
		app     string
		dialect variation.Dialect
		count   int
	}

	// attrBag is an xform attribute map with case-insensitive lookup and document order.
	attrBag struct {
		keys   []string
		values map[string]string
	}
)

// Parse decodes a flame document. Anything recoverable is repaired and recorded in the
// report; only an unusable root or a missing preset fails.
func Parse(data []byte, opts ParseOptions) (*Result, error) {
	top, err := decodeForest(data)
	if err != nil {
		return nil, &InvalidDocumentError{Reason: err.Error()}
	}
	root, err := classifyRoot(top)
	if err != nil {
		return nil, err
	}
	flames := root.Elements(flameTag)
	if len(flames) == 0 {
		return nil, &InvalidDocumentError{Root: root.Name, Reason: "no flame elements"}
	}

	res := &Result{
		Document: &flame.Document{RootName: root.Name},
		Report:   &diag.Report{},
	}
	res.Document.Name, _ = root.Attr("name")
	for _, el := range flames {
		res.Document.Presets = append(res.Document.Presets, parsePreset(el, opts, res.Report))
	}
	return res, nil
}

func parsePreset(el *Node, opts ParseOptions, report *diag.Report) flame.Preset {
	name, _ := el.Attr("name")
	gen, _ := el.Attr("version")
	r := &presetReader{report: report, preset: name, app: gen, dialect: dialectFor(gen)}

	p := flame.Preset{
		Name:       name,
		Generator:  gen,
		Iterations: flame.LoadIterations(name, opts.DefaultIterations),
		Render:     r.render(el),
	}
	if opts.Iterations > 0 {
		p.Iterations = opts.Iterations
	}

	xforms := el.Elements("xform")
	r.count = len(xforms)
	for i, x := range xforms {
		p.XForms = append(p.XForms, r.xform(x, i, flame.IteratorTarget(i), flame.IteratorLimits))
	}
	if finals := el.Elements("finalxform"); len(finals) > 0 {
		f := r.xform(finals[0], flame.FinalIndex, flame.FinalTarget, flame.FinalLimits)
		p.Final = &f
	}
	p.Palette = r.palette(el)
	return p
}

// dialectFor picks the preferred parameter naming for files written by gen. The other
// conventions are still accepted.
func dialectFor(gen string) variation.Dialect {
	lower := strings.ToLower(gen)
	if strings.HasPrefix(lower, "apophysis") || strings.Contains(lower, "fractorium") {
		return variation.Compat
	}
	return variation.Native
}

func newAttrBag(n *Node) attrBag {
	b := attrBag{values: make(map[string]string, len(n.Attrs))}
	for _, a := range n.Attrs {
		k := strings.ToLower(a.Name.Local)
		if _, dup := b.values[k]; dup {
			continue
		}
		b.keys = append(b.keys, a.Name.Local)
		b.values[k] = a.Value
	}
	return b
}

func (b attrBag) get(key string) (string, bool) {
	v, ok := b.values[strings.ToLower(key)]
	return v, ok
}

func (r *presetReader) add(kind diag.Kind, target, key, format string, args ...any) {
	r.report.Addf(kind, r.preset, target, key, format, args...)
}

// float reads a numeric attribute, recording malformed or corrected tokens.
func (r *presetReader) float(raw, target, key string, def float64) float64 {
	v, outcome := numstr.CleanFloat(raw, def)
	r.note(outcome, target, key, raw)
	return v
}

func (r *presetReader) floats(raw, target, key string, n int, def float64) []float64 {
	vals, outcome := numstr.ParseFloats(raw, n, def)
	r.note(outcome, target, key, raw)
	return vals
}

func (r *presetReader) note(outcome numstr.Outcome, target, key, raw string) {
	switch outcome {
	case numstr.Defaulted:
		r.add(diag.MalformedToken, target, key, "malformed value %q: default used", raw)
	case numstr.Corrected:
		r.add(diag.CorrectedToken, target, key, "corrected value %q", raw)
	}
}

func (r *presetReader) attrFloat(n *Node, key string, def float64) float64 {
	raw, ok := n.Attr(key)
	if !ok {
		return def
	}
	return r.float(raw, flameTag, key, def)
}

type toneCurveAttr struct {
	key   string
	curve *flame.ToneCurve
}

// curveAttrs pairs each tone curve of rp with its attribute name, in write order.
func curveAttrs(rp *flame.RenderProperties) []toneCurveAttr {
	return []toneCurveAttr{
		{"overall_curve", &rp.Overall},
		{"red_curve", &rp.Red},
		{"green_curve", &rp.Green},
		{"blue_curve", &rp.Blue},
	}
}

func (r *presetReader) render(el *Node) flame.RenderProperties {
	rp := flame.DefaultRender()
	if raw, ok := el.Attr("size"); ok {
		v := r.floats(raw, flameTag, "size", 2, 1024)
		rp.Size = [2]int{int(v[0]), int(v[1])}
	}
	if raw, ok := el.Attr("center"); ok {
		v := r.floats(raw, flameTag, "center", 2, 0)
		rp.Center = [2]float64{v[0], v[1]}
	}
	if raw, ok := el.Attr("background"); ok {
		v := r.floats(raw, flameTag, "background", 3, 0)
		rp.Background = [3]float64{v[0], v[1], v[2]}
	}
	rp.Rotate = r.attrFloat(el, "rotate", rp.Rotate)
	rp.Scale = r.attrFloat(el, "scale", rp.Scale)
	rp.Quality = r.attrFloat(el, "quality", rp.Quality)
	rp.Gamma = r.attrFloat(el, "gamma", rp.Gamma)
	rp.GammaThreshold = r.attrFloat(el, "gamma_threshold", rp.GammaThreshold)
	rp.Brightness = r.attrFloat(el, "brightness", rp.Brightness)
	rp.Vibrancy = r.attrFloat(el, "vibrancy", rp.Vibrancy)
	rp.HighlightPower = r.attrFloat(el, "highlight_power", rp.HighlightPower)
	rp.K2 = r.attrFloat(el, "k2", rp.K2)

	for _, tc := range curveAttrs(&rp) {
		raw, ok := el.Attr(tc.key)
		if !ok {
			continue
		}
		c, outcome := flame.ParseCurve(raw)
		r.note(outcome, flameTag, tc.key, raw)
		*tc.curve = c
	}
	return rp
}

// candidate is a variation attribute found while partitioning xform keys.
type candidate struct {
	key     string
	section variation.Section
	id      variation.ID
	weight  float64
}

func (r *presetReader) xform(n *Node, idx int, target string, limits flame.Limits) flame.XForm {
	bag := newAttrBag(n)
	x := flame.XForm{Active: true}

	if idx != flame.FinalIndex {
		x.Weight = flame.DefaultWeight
		if raw, ok := bag.get("weight"); ok {
			x.Weight = r.float(raw, target, "weight", flame.DefaultWeight)
		}
	}
	if raw, ok := bag.get("color"); ok {
		x.Color = r.float(raw, target, "color", 0)
	}
	if raw, ok := bag.get("symmetry"); ok {
		x.Speed = r.float(raw, target, "symmetry", 0)
	} else if raw, ok := bag.get("color_speed"); ok {
		x.Speed = flame.SymmetryFromColorSpeed(r.float(raw, target, "color_speed", 0.5))
	}
	x.Opacity = 1
	if raw, ok := bag.get("opacity"); ok {
		x.Opacity = r.float(raw, target, "opacity", 1)
	}
	if mode, ok := bag.get("plotmode"); ok && strings.EqualFold(mode, "off") {
		x.Opacity = 0
	}

	if name, ok := bag.get("name"); ok {
		switch {
		case name == flame.OffName && idx != flame.FinalIndex:
			x.Active = false
		case idx != flame.FinalIndex && name == flame.DefaultNote(idx):
		default:
			x.Note = name
		}
	}

	x.Pre = r.affine(bag, target, "coefs", "f3h_coefs", "f3h_coefs_angle")
	x.Post = r.affine(bag, target, "post", "f3h_post", "f3h_post_angle")

	rawBlur, explicitPreBlur := bag.get("pre_blur")
	if explicitPreBlur {
		x.PreBlur = r.float(rawBlur, target, "pre_blur", 0)
	}

	for _, c := range r.partition(bag, target) {
		if c.section == variation.Pre && c.id == gaussianBlur && !explicitPreBlur && x.PreBlur == 0 &&
			len(x.Section(variation.Pre)) == 0 {
			x.PreBlur = c.weight
			r.add(diag.RemappedPreBlur, target, c.key, "read as pre_blur")
			continue
		}
		if c.section != variation.Var && c.weight < 0 {
			r.add(diag.NegativeWeight, target, c.key, "negative weight %s: absolute value used", numstr.RoundTrim(c.weight))
		}
		if slices.ContainsFunc(x.Section(c.section), func(s flame.Slot) bool { return s.ID == c.id }) {
			r.add(diag.DuplicateVariation, target, c.key, "%s already used in %s: dropped", c.id, c.section)
			continue
		}
		slot := flame.Slot{Kind: c.section, ID: c.id, Weight: c.weight, Params: r.params(bag, target, c)}
		if !x.AddSlot(slot, limits) {
			r.add(diag.SlotOverflow, target, c.key, "%s section full (%d): dropped", c.section, limits.Of(c.section))
		}
	}

	if idx != flame.FinalIndex {
		x.Xaos = r.xaos(bag, target)
	}
	return x
}

var gaussianBlur, _ = variation.Lookup("gaussian_blur")

// partition finds the variation attributes of an xform in document order and records the
// keys that are neither variations, parameters nor scalars.
func (r *presetReader) partition(bag attrBag, target string) []candidate {
	var out []candidate
	for _, key := range bag.keys {
		lower := strings.ToLower(key)
		if scalarKeys[lower] {
			continue
		}
		section, base := variation.SplitPrefix(lower)
		if id, ok := variation.Lookup(base); ok {
			raw := bag.values[lower]
			w := r.float(raw, target, key, 0)
			if w == 0 {
				continue
			}
			out = append(out, candidate{key: key, section: section, id: id, weight: w})
			continue
		}
		if _, ok := variation.ParamOwner(base); ok {
			continue
		}
		if variation.KnownElsewhere(base) {
			r.add(diag.MissingVariation, target, key, "variation %q is not available: dropped", base)
			continue
		}
		if _, ok := variation.ElsewhereOwner(base); ok {
			continue
		}
		r.add(diag.UnknownVariation, target, key, "unrecognized attribute: dropped")
	}
	return out
}

// params reads the parameters of a parametric slot under any known naming, preferring the
// preset's generator convention. Missing parameters take registry defaults.
func (r *presetReader) params(bag attrBag, target string, c candidate) []float64 {
	d, _ := variation.ByID(c.id)
	if !d.Parametric() {
		return nil
	}
	defaults := d.Defaults()
	out := make([]float64, len(defaults))
	for i, names := range variation.ParamCandidates(c.id, r.dialect, r.app) {
		out[i] = defaults[i]
		for _, name := range names {
			key := c.section.Prefix() + name
			if raw, ok := bag.get(key); ok {
				out[i] = r.float(raw, target, key, defaults[i])
				break
			}
		}
	}
	return out
}

// affine reads the native key, or the extended key plus angle when present.
func (r *presetReader) affine(bag attrBag, target, native, ext, angleKey string) affine.Affine {
	if raw, ok := bag.get(ext); ok {
		c, entries := affine.Parse(raw, target, ext)
		r.addEntries(entries)
		a := affine.FromCoeffs(c)
		if rawAngle, ok := bag.get(angleKey); ok {
			a.Angle = r.float(rawAngle, target, angleKey, 0)
		}
		return a
	}
	if raw, ok := bag.get(native); ok {
		c, entries := affine.Parse(raw, target, native)
		r.addEntries(entries)
		return affine.FromCoeffs(c)
	}
	return affine.Identity()
}

func (r *presetReader) addEntries(entries []diag.Entry) {
	for _, e := range entries {
		e.Preset = r.preset
		r.report.Add(e)
	}
}

// xaos reads the wire "chaos" attribute or, failing that, the editable "xaos:" form.
func (r *presetReader) xaos(bag attrBag, target string) []float64 {
	var (
		row    []float64
		status xaos.Status
		key    string
	)
	if raw, ok := bag.get("chaos"); ok {
		key = "chaos"
		row, status = xaos.ParseChaos(raw, r.count)
	} else if raw, ok := bag.get("xaos"); ok {
		key = "xaos"
		row, status = xaos.ParseRow(raw, r.count, nil)
	} else {
		return nil
	}
	switch status {
	case xaos.Reverted:
		r.add(diag.InvalidXaos, target, key, "malformed row: all weights reset to 1")
	case xaos.Coerced:
		r.add(diag.InvalidXaos, target, key, "negative weights replaced by 1")
	}
	row = xaos.StripTrailingDefault(row)
	if len(row) == 0 {
		return nil
	}
	return slices.Clone(row)
}

// palette reads <palette>, or legacy <color> keys when there is none. Failures substitute
// the error palette.
func (r *presetReader) palette(el *Node) palette.Palette {
	if nodes := el.Elements("palette"); len(nodes) > 0 {
		return r.hexPalette(nodes[0])
	}
	if colors := el.Elements("color"); len(colors) > 0 {
		return r.legacyPalette(colors)
	}
	r.add(diag.InvalidPalette, flameTag, "palette", "no palette: error palette used")
	return palette.ErrorPalette()
}

func (r *presetReader) hexPalette(n *Node) palette.Palette {
	p, err := palette.DecodeHex(n.Text)
	if err != nil {
		r.add(diag.InvalidPalette, "palette", "", "%v: error palette used", err)
		return palette.ErrorPalette()
	}
	if raw, ok := n.Attr("count"); ok {
		count, outcome := numstr.CleanInt(raw, 0)
		r.note(outcome, "palette", "count", raw)
		if slices.Contains(palette.SampleCounts, count) {
			p.Samples = count
		}
	}
	if raw, ok := n.Attr("hsv"); ok {
		hsv, outcome := palette.ParseHSV(raw)
		r.note(outcome, "palette", "hsv", raw)
		p.HSV = hsv
	}
	return p
}

func (r *presetReader) legacyPalette(nodes []*Node) palette.Palette {
	type key struct {
		index int
		rgb   palette.RGB
	}
	keys := make([]key, 0, len(nodes))
	for i, n := range nodes {
		idx := i
		if raw, ok := n.Attr("index"); ok {
			v, outcome := numstr.CleanInt(raw, i)
			r.note(outcome, "color", "index", raw)
			idx = v
		}
		raw, _ := n.Attr("rgb")
		v := r.floats(raw, fmt.Sprintf("color %d", idx), "rgb", 3, 0)
		keys = append(keys, key{idx, palette.RGB{R: v[0] / 255, G: v[1] / 255, B: v[2] / 255}})
	}
	slices.SortStableFunc(keys, func(a, b key) int { return cmp.Compare(a.index, b.index) })

	colors := make([]palette.RGB, len(keys))
	for i, k := range keys {
		colors[i] = k.rgb
	}
	p := palette.New(colors...)
	if err := p.Validate(); err != nil {
		r.add(diag.InvalidPalette, "palette", "", "%v: error palette used", err)
		return palette.ErrorPalette()
	}
	return p
}
