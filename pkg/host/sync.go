// SPDX-License-Identifier: MPL-2.0

package host

import (
	"errors"
	"fmt"

	"github.com/flamekit/flamekit/pkg/affine"
	"github.com/flamekit/flamekit/pkg/diag"
	"github.com/flamekit/flamekit/pkg/flame"
	"github.com/flamekit/flamekit/pkg/numstr"
	"github.com/flamekit/flamekit/pkg/palette"
	"github.com/flamekit/flamekit/pkg/variation"
	"github.com/flamekit/flamekit/pkg/xaos"
)

// Parameter names of the preset-level values. Per-xform names are built by XFormParam.
const (
	ParamName        = "flamename"
	ParamIterations  = "iterations"
	ParamGenerator   = "generator"
	ParamCount       = "xf_count"
	ParamFinal       = "ff_enable"
	ParamPaletteHex  = "palette_hex"
	ParamPaletteHSV  = "palette_hsv"
	ParamPaletteSize = "palette_samples"
)

// finalPrefix names the final xform's parameters.
const finalPrefix = "ff"

var (
	// ErrMissingParam is the sentinel error wrapped by MissingParamError.
	ErrMissingParam = errors.New("missing host parameter")

	// ErrInvalidParam is the sentinel error wrapped by InvalidParamError.
	ErrInvalidParam = errors.New("invalid host parameter")
)

type (
	// MissingParamError is returned by Capture when a required parameter is absent.
	MissingParamError struct {
		Name string
	}

	// InvalidParamError is returned by Capture when a parameter holds an unusable value.
	InvalidParamError struct {
		Name  string
		Value string
		Err   error
	}

	// reader pulls typed values out of a store and remembers the first failure.
	reader struct {
		store  ParamStore
		count  int
		err    error
		preset string
		report *diag.Report
	}
)

// Error implements the error interface.
func (e *MissingParamError) Error() string {
	return fmt.Sprintf("missing host parameter %q", e.Name)
}

// Unwrap returns ErrMissingParam for errors.Is() compatibility.
func (e *MissingParamError) Unwrap() error { return ErrMissingParam }

// Error implements the error interface.
func (e *InvalidParamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid host parameter %q = %q: %v", e.Name, e.Value, e.Err)
	}
	return fmt.Sprintf("invalid host parameter %q = %q", e.Name, e.Value)
}

// Unwrap returns ErrInvalidParam for errors.Is() compatibility.
func (e *InvalidParamError) Unwrap() error { return ErrInvalidParam }

// XFormParam returns the parameter name of field for iterator i (0-based), or of the final
// xform when i is flame.FinalIndex: XFormParam(0, "weight") == "xf1_weight".
func XFormParam(i int, field string) string {
	if i == flame.FinalIndex {
		return finalPrefix + "_" + field
	}
	return fmt.Sprintf("xf%d_%s", i+1, field)
}

func slotParam(i int, s variation.Section, n int, field string) string {
	return XFormParam(i, fmt.Sprintf("%s%d_%s", sectionTag(s), n+1, field))
}

func sectionTag(s variation.Section) string {
	switch s {
	case variation.Pre:
		return "pre"
	case variation.Post:
		return "post"
	default:
		return "var"
	}
}

var sections = []variation.Section{variation.Pre, variation.Var, variation.Post}

// set writes a float after dropping any animation that would override it.
func set(store ParamStore, name string, v float64) {
	store.DeleteAnimation(name)
	store.SetFloat(name, v)
}

func setString(store ParamStore, name, v string) {
	store.DeleteAnimation(name)
	store.SetString(name, v)
}

func setBool(store ParamStore, name string, b bool) {
	v := 0.0
	if b {
		v = 1
	}
	set(store, name, v)
}

// Apply writes p into store as flat parameters.
func Apply(store ParamStore, p flame.Preset) {
	setString(store, ParamName, p.Name)
	set(store, ParamIterations, float64(p.Iterations))
	setString(store, ParamGenerator, p.Generator)
	set(store, ParamCount, float64(len(p.XForms)))
	for i, x := range p.XForms {
		applyXForm(store, i, x, flame.IteratorLimits)
	}
	setBool(store, ParamFinal, p.Final != nil)
	if p.Final != nil {
		applyXForm(store, flame.FinalIndex, *p.Final, flame.FinalLimits)
	}

	setString(store, ParamPaletteHex, palette.EncodeHex(p.Palette, 0, 0))
	setString(store, ParamPaletteHSV, p.Palette.HSV.String())
	set(store, ParamPaletteSize, float64(p.Palette.Samples))
	applyRender(store, p.Render)
}

func applyXForm(store ParamStore, i int, x flame.XForm, limits flame.Limits) {
	set(store, XFormParam(i, "weight"), x.Weight)
	setBool(store, XFormParam(i, "active"), x.Active)
	setString(store, XFormParam(i, "note"), x.Note)
	set(store, XFormParam(i, "color"), x.Color)
	set(store, XFormParam(i, "speed"), x.Speed)
	set(store, XFormParam(i, "opacity"), x.Opacity)
	set(store, XFormParam(i, "preblur"), x.PreBlur)
	applyAffine(store, XFormParam(i, "pre"), x.Pre)
	applyAffine(store, XFormParam(i, "post"), x.Post)
	if i != flame.FinalIndex {
		setString(store, XFormParam(i, "xaos"), xaos.FormatRow(x.Xaos))
	}

	for _, s := range sections {
		populated := x.Section(s)
		for n := range limits.Of(s) {
			if n >= len(populated) {
				// Empty slots are weight 0 with the linear placeholder.
				setString(store, slotParam(i, s, n, "type"), variation.ID(0).String())
				set(store, slotParam(i, s, n, "weight"), 0)
				continue
			}
			slot := populated[n]
			setString(store, slotParam(i, s, n, "type"), slot.ID.String())
			set(store, slotParam(i, s, n, "weight"), slot.Weight)
			for k, v := range slot.Params {
				set(store, slotParam(i, s, n, fmt.Sprintf("p%d", k+1)), v)
			}
		}
	}
}

var affineFields = []string{"xx", "xy", "yx", "yy", "ox", "oy", "angle"}

func applyAffine(store ParamStore, prefix string, a affine.Affine) {
	c := a.Coeffs()
	for k, v := range c {
		set(store, prefix+"_"+affineFields[k], v)
	}
	set(store, prefix+"_angle", a.Angle)
}

func applyRender(store ParamStore, r flame.RenderProperties) {
	set(store, "res_x", float64(r.Size[0]))
	set(store, "res_y", float64(r.Size[1]))
	set(store, "center_x", r.Center[0])
	set(store, "center_y", r.Center[1])
	set(store, "rotate", r.Rotate)
	set(store, "scale", r.Scale)
	set(store, "quality", r.Quality)
	set(store, "gamma", r.Gamma)
	set(store, "gamma_threshold", r.GammaThreshold)
	set(store, "brightness", r.Brightness)
	set(store, "vibrancy", r.Vibrancy)
	set(store, "highlight_power", r.HighlightPower)
	set(store, "k2", r.K2)
	set(store, "bg_r", r.Background[0])
	set(store, "bg_g", r.Background[1])
	set(store, "bg_b", r.Background[2])
	for _, c := range curveParams(&r) {
		setString(store, c.name, c.curve.String())
	}
}

type curveParam struct {
	name  string
	curve *flame.ToneCurve
}

func curveParams(r *flame.RenderProperties) []curveParam {
	return []curveParam{
		{"curve_overall", &r.Overall},
		{"curve_red", &r.Red},
		{"curve_green", &r.Green},
		{"curve_blue", &r.Blue},
	}
}

// Capture reads a preset back from store. It fails on the first required parameter that is
// missing or unusable. An undecodable palette is replaced by the error palette.
func Capture(store ParamStore) (flame.Preset, error) {
	p, _, err := CaptureReport(store)
	return p, err
}

// CaptureReport is Capture that also returns the non-fatal corrections it made.
func CaptureReport(store ParamStore) (flame.Preset, *diag.Report, error) {
	r := &reader{store: store, report: &diag.Report{}}
	p := flame.Preset{
		Name:       r.str(ParamName),
		Iterations: int(r.float(ParamIterations)),
		Generator:  r.str(ParamGenerator),
	}
	r.preset = p.Name
	count := int(r.float(ParamCount))
	if r.err != nil {
		return flame.Preset{}, nil, r.err
	}
	if count < 0 {
		return flame.Preset{}, nil, &InvalidParamError{Name: ParamCount, Value: numstr.RoundTrim(float64(count))}
	}

	r.count = count
	for i := range count {
		p.XForms = append(p.XForms, r.xform(i, flame.IteratorLimits))
	}
	if r.float(ParamFinal) != 0 {
		f := r.xform(flame.FinalIndex, flame.FinalLimits)
		p.Final = &f
	}
	p.Palette = r.palette()
	p.Render = r.render()
	if r.err != nil {
		return flame.Preset{}, nil, r.err
	}
	return p, r.report, nil
}

func (r *reader) fail(err error) {
	if r.err == nil {
		r.err = err
	}
}

func (r *reader) float(name string) float64 {
	v, ok := r.store.Float(name)
	if !ok {
		r.fail(&MissingParamError{Name: name})
	}
	return v
}

func (r *reader) str(name string) string {
	v, ok := r.store.String(name)
	if !ok {
		r.fail(&MissingParamError{Name: name})
	}
	return v
}

func (r *reader) xform(i int, limits flame.Limits) flame.XForm {
	x := flame.XForm{
		Weight:  r.float(XFormParam(i, "weight")),
		Active:  r.float(XFormParam(i, "active")) != 0,
		Note:    r.str(XFormParam(i, "note")),
		Color:   r.float(XFormParam(i, "color")),
		Speed:   r.float(XFormParam(i, "speed")),
		Opacity: r.float(XFormParam(i, "opacity")),
		PreBlur: r.float(XFormParam(i, "preblur")),
		Pre:     r.affine(XFormParam(i, "pre")),
		Post:    r.affine(XFormParam(i, "post")),
	}
	if i != flame.FinalIndex {
		name := XFormParam(i, "xaos")
		raw := r.str(name)
		row, status := xaos.ParseRow(raw, r.count, nil)
		if status == xaos.Reverted {
			r.fail(&InvalidParamError{Name: name, Value: raw})
		}
		if row = xaos.StripTrailingDefault(row); len(row) > 0 {
			x.Xaos = row
		}
	}

	for _, s := range sections {
		for n := range limits.Of(s) {
			weight := r.float(slotParam(i, s, n, "weight"))
			typeName := slotParam(i, s, n, "type")
			raw := r.str(typeName)
			if weight == 0 {
				continue
			}
			id, ok := variation.Lookup(raw)
			if !ok {
				r.fail(&InvalidParamError{Name: typeName, Value: raw, Err: &flame.UnknownSlotVariationError{ID: variation.NotFound}})
				continue
			}
			slot := flame.Slot{Kind: s, ID: id, Weight: weight}
			d, _ := variation.ByID(id)
			if d.Parametric() {
				defaults := d.Defaults()
				slot.Params = make([]float64, len(defaults))
				for k, def := range defaults {
					v, ok := r.store.Float(slotParam(i, s, n, fmt.Sprintf("p%d", k+1)))
					if !ok {
						v = def
					}
					slot.Params[k] = v
				}
			}
			x.AddSlot(slot, limits)
		}
	}
	return x
}

func (r *reader) affine(prefix string) affine.Affine {
	var c affine.Coeffs
	for k := range c {
		c[k] = r.float(prefix + "_" + affineFields[k])
	}
	a := affine.FromCoeffs(c)
	a.Angle = r.float(prefix + "_angle")
	return a
}

func (r *reader) palette() palette.Palette {
	raw := r.str(ParamPaletteHex)
	if r.err != nil {
		return palette.Palette{}
	}
	p, err := palette.DecodeHex(raw)
	if err != nil {
		r.report.Addf(diag.InvalidPalette, r.preset, "palette", ParamPaletteHex, "%v: error palette used", err)
		return palette.ErrorPalette()
	}
	if hsv, ok := r.store.String(ParamPaletteHSV); ok {
		p.HSV, _ = palette.ParseHSV(hsv)
	}
	if n, ok := r.store.Float(ParamPaletteSize); ok && n > 0 {
		p.Samples = int(n)
	}
	return p
}

func (r *reader) render() flame.RenderProperties {
	rp := flame.DefaultRender()
	floats := []struct {
		name string
		dst  *float64
	}{
		{"center_x", &rp.Center[0]},
		{"center_y", &rp.Center[1]},
		{"rotate", &rp.Rotate},
		{"scale", &rp.Scale},
		{"quality", &rp.Quality},
		{"gamma", &rp.Gamma},
		{"gamma_threshold", &rp.GammaThreshold},
		{"brightness", &rp.Brightness},
		{"vibrancy", &rp.Vibrancy},
		{"highlight_power", &rp.HighlightPower},
		{"k2", &rp.K2},
		{"bg_r", &rp.Background[0]},
		{"bg_g", &rp.Background[1]},
		{"bg_b", &rp.Background[2]},
	}
	for _, f := range floats {
		if v, ok := r.store.Float(f.name); ok {
			*f.dst = v
		}
	}
	if v, ok := r.store.Float("res_x"); ok {
		rp.Size[0] = int(v)
	}
	if v, ok := r.store.Float("res_y"); ok {
		rp.Size[1] = int(v)
	}
	for _, c := range curveParams(&rp) {
		if raw, ok := r.store.String(c.name); ok {
			*c.curve, _ = flame.ParseCurve(raw)
		}
	}
	return rp
}

// Current returns the preset of doc that sel points at. It reports false when nothing is
// selected or the index is out of range.
func Current(doc *flame.Document, sel Selection) (*flame.Preset, int, bool) {
	if doc == nil || sel == nil {
		return nil, -1, false
	}
	i := sel.SelectedIndex()
	if i < 0 || i >= doc.Len() {
		return nil, -1, false
	}
	return &doc.Presets[i], i, true
}
