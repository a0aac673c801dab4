// SPDX-License-Identifier: MPL-2.0

package variation

import "math"

// g builds a parameter group from name/default pairs: g("low", 0, "high", 1).
// Names are suffixes; the variation name and an underscore are prepended by the table builder.
func g(pairs ...any) groupSpec {
	grp := groupSpec{}
	for i := 0; i+1 < len(pairs); i += 2 {
		grp.names = append(grp.names, pairs[i].(string))
		switch v := pairs[i+1].(type) {
		case int:
			grp.defaults = append(grp.defaults, float64(v))
		case float64:
			grp.defaults = append(grp.defaults, v)
		}
	}
	return grp
}

type (
	groupSpec struct {
		names    []string
		defaults []float64
	}

	entrySpec struct {
		name   string
		groups []groupSpec
		// prefix overrides the parameter prefix when it differs from the variation name.
		prefix string
	}
)

// table lists every supported variation in index order. The index of an entry is its ID.
var table = []entrySpec{
	{name: "linear"},
	{name: "sinusoidal"},
	{name: "spherical"},
	{name: "swirl"},
	{name: "horseshoe"},
	{name: "polar"},
	{name: "handkerchief"},
	{name: "heart"},
	{name: "disc"},
	{name: "spiral"},
	{name: "hyperbolic"},
	{name: "diamond"},
	{name: "ex"},
	{name: "julia"},
	{name: "bent"},
	{name: "waves"},
	{name: "fisheye"},
	{name: "popcorn"},
	{name: "exponential"},
	{name: "power"},
	{name: "cosine"},
	{name: "rings"},
	{name: "fan"},
	{name: "blob", groups: []groupSpec{g("low", 0, "high", 1, "waves", 1)}},
	{name: "pdj", groups: []groupSpec{g("a", 0, "b", 0, "c", 0, "d", 0)}},
	{name: "fan2", groups: []groupSpec{g("x", 0, "y", 0)}},
	{name: "rings2", groups: []groupSpec{g("val", 0)}},
	{name: "eyefish"},
	{name: "bubble"},
	{name: "cylinder"},
	{name: "perspective", groups: []groupSpec{g("angle", 0, "dist", 0)}},
	{name: "noise"},
	{name: "julian", groups: []groupSpec{g("power", 1, "dist", 1)}},
	{name: "juliascope", groups: []groupSpec{g("power", 1, "dist", 1)}},
	{name: "blur"},
	{name: "gaussian_blur"},
	{name: "radial_blur", groups: []groupSpec{g("angle", 0)}},
	{name: "pie", groups: []groupSpec{g("slices", 6, "rotation", 0, "thickness", 0.5)}},
	{name: "ngon", groups: []groupSpec{g("sides", 5, "power", 3, "circle", 1, "corners", 2)}},
	{name: "curl", groups: []groupSpec{g("c1", 0, "c2", 0)}},
	{name: "rectangles", groups: []groupSpec{g("x", 1, "y", 1)}},
	{name: "arch"},
	{name: "tangent"},
	{name: "square"},
	{name: "rays"},
	{name: "blade"},
	{name: "secant2"},
	{name: "twintrian"},
	{name: "cross"},
	{name: "disc2", groups: []groupSpec{g("rot", 0, "twist", 0)}},
	{name: "super_shape", groups: []groupSpec{
		g("rnd", 0),
		g("m", 0),
		g("n1", 1, "n2", 1, "n3", 1),
		g("holes", 0),
	}},
	{name: "flower", groups: []groupSpec{g("petals", 0, "holes", 0)}},
	{name: "conic", groups: []groupSpec{g("eccentricity", 1, "holes", 0)}},
	{name: "parabola", groups: []groupSpec{g("height", 0, "width", 0)}},
	{name: "bent2", groups: []groupSpec{g("x", 1, "y", 1)}},
	{name: "bipolar", groups: []groupSpec{g("shift", 0)}},
	{name: "boarders"},
	{name: "butterfly"},
	{name: "cell", groups: []groupSpec{g("size", 1)}},
	{name: "cpow", groups: []groupSpec{g("r", 1, "i", 0, "power", 1)}},
	{name: "curve", groups: []groupSpec{g("xamp", 0, "yamp", 0), g("xlength", 1, "ylength", 1)}},
	{name: "edisc"},
	{name: "elliptic"},
	{name: "escher", groups: []groupSpec{g("beta", 0)}},
	{name: "foci"},
	{name: "lazysusan", groups: []groupSpec{g("spin", 0, "space", 0, "twist", 0), g("x", 0, "y", 0)}},
	{name: "loonie"},
	{name: "modulus", groups: []groupSpec{g("x", 1, "y", 1)}},
	{name: "oscilloscope", prefix: "oscope", groups: []groupSpec{
		g("separation", 1, "frequency", math.Pi, "amplitude", 1, "damping", 0),
	}},
	{name: "polar2"},
	{name: "popcorn2", groups: []groupSpec{g("x", 0, "y", 0), g("c", 0)}},
	{name: "scry"},
	{name: "separation", groups: []groupSpec{g("x", 0, "xinside", 0), g("y", 0, "yinside", 0)}},
	{name: "split", groups: []groupSpec{g("xsize", 0, "ysize", 0)}},
	{name: "splits", groups: []groupSpec{g("x", 0, "y", 0)}},
	{name: "stripes", groups: []groupSpec{g("space", 0, "warp", 0)}},
	{name: "wedge", groups: []groupSpec{g("angle", 0, "hole", 0, "count", 1, "swirl", 0)}},
	{name: "wedge_julia", groups: []groupSpec{g("angle", 0, "count", 1, "power", 1, "dist", 0)}},
	{name: "wedge_sph", groups: []groupSpec{g("angle", 0, "count", 1, "hole", 0, "swirl", 0)}},
	{name: "whorl", groups: []groupSpec{g("inside", 1, "outside", 1)}},
	{name: "waves2", groups: []groupSpec{g("scalex", 0, "scaley", 0), g("freqx", 0, "freqy", 0)}},
	{name: "exp"},
	{name: "log"},
	{name: "sin"},
	{name: "cos"},
	{name: "tan"},
	{name: "sec"},
	{name: "csc"},
	{name: "cot"},
	{name: "sinh"},
	{name: "cosh"},
	{name: "tanh"},
	{name: "sech"},
	{name: "csch"},
	{name: "coth"},
	{name: "auger", groups: []groupSpec{g("freq", 1, "weight", 0.5, "scale", 1, "sym", 0)}},
	{name: "flux", groups: []groupSpec{g("spread", 0)}},
	{name: "mobius", groups: []groupSpec{
		g("re_a", 1, "re_b", 0, "re_c", 0, "re_d", 1),
		g("im_a", 0, "im_b", 0, "im_c", 0, "im_d", 0),
	}},
	{name: "bwraps", groups: []groupSpec{
		g("cellsize", 1, "space", 0, "gain", 1),
		g("inner_twist", 0, "outer_twist", 0),
	}},
	{name: "crop", groups: []groupSpec{
		g("left", -1, "top", -1, "right", 1, "bottom", 1),
		g("scatter_area", 0, "zero", 0),
	}},
	{name: "hemisphere"},
	{name: "polynomial", groups: []groupSpec{g("powx", 1, "powy", 1), g("lcx", 0, "lcy", 0), g("scx", 0, "scy", 0)}},
	{name: "glynnia"},
	{name: "unpolar"},
	{name: "point_symmetry", groups: []groupSpec{g("centre_x", 0, "centre_y", 0, "order", 3)}},
	{name: "circlize", groups: []groupSpec{g("hole", 0)}},
}

// compatParams lists parameter names that differ in the APO/Fractorium-compatible
// dialect. Keys are native variation names; values are full parameter names by group.
var compatParams = map[string][][]string{
	"mobius": {
		{"re_a", "re_b", "re_c", "re_d"},
		{"im_a", "im_b", "im_c", "im_d"},
	},
}

// exceptions are per-application substitutions keyed by (variation, application).
// Application matching is a case-insensitive prefix match on the preset's version string,
// so the more specific application must come first when two entries share a variation.
var exceptions = []Exception{
	{Variation: "bwraps", App: "Apophysis 7x", Name: "bwraps7"},
	{Variation: "oscilloscope", App: "Apophysis", Params: [][]string{
		{"oscilloscope_separation", "oscilloscope_frequency", "oscilloscope_amplitude", "oscilloscope_damping"},
	}},
}

// ecosystem names variations known to Apophysis, Fractorium and JWildfire that this
// registry does not implement. Lowercase.
var ecosystem = []string{
	"linear3d", "blur3d", "bubble2", "julia3d", "julia3dz", "spherical3d", "sinusoidal3d",
	"curl3d", "pie3d", "pdj3d", "hypertile", "hypertile1", "hypertile2", "hexes", "synth",
	"ortho", "circleblur", "falloff2", "falloff3", "xheart", "spirograph", "truchet",
	"checks", "circlecrop", "dc_linear", "dc_carpet", "dc_cube", "dc_cylinder", "dc_gridout",
	"dc_triangle", "dc_ztransl", "epispiral", "lissajous", "kaleidoscope", "blur_circle",
	"blur_zoom", "blur_pixelize", "blur_heart", "cardioid", "sphericaln", "tancos", "target",
	"tile_log", "tile_hlp", "trade", "twoface", "waffle", "wdisc", "xtrb", "murl", "murl2",
	"npolar", "oscilloscope2", "ovoid", "juliaq", "persp", "rotate", "scale", "zblur",
	"zcone", "ztranslate", "flatten", "smartcrop", "dust", "shredrad",
	"handkerchief3d", "loonie2", "loonie3", "cpow2", "cpow3", "wedge_julia3d", "bsplit",
	"bmod", "bswirl", "btransform", "bcollide", "bipolar2", "elliptic2", "escher2",
	"glynnsim1", "glynnsim2", "glynnsim3", "julian2", "juliac", "lazyjess", "lazytravis",
	"mcarpet", "nblur", "ngon2", "petal", "popcorn2_3d", "sinusgrid", "squarize", "vogel",
	"yinyang",
}
