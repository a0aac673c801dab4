// SPDX-License-Identifier: MPL-2.0

package variation

import (
	"slices"
	"strings"
	"testing"
)

func TestRegistry_Count(t *testing.T) {
	t.Parallel()

	if got := Count(); got != 106 {
		t.Errorf("Count() = %d, want 106", got)
	}
	all := All()
	for i, d := range all {
		if int(d.ID) != i {
			t.Errorf("All()[%d].ID = %d", i, d.ID)
		}
	}
}

func TestLookup(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		want ID
		ok   bool
	}{
		{"linear", 0, true},
		{"spherical", 2, true},
		{"Spherical", 2, true},
		{"julian", 32, true},
		{"bwraps7", 98, true},
		{"hypertile", NotFound, false},
		{"", NotFound, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := Lookup(tt.name)
			if got != tt.want || ok != tt.ok {
				t.Errorf("Lookup(%q) = (%d, %v), want (%d, %v)", tt.name, got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestByID(t *testing.T) {
	t.Parallel()

	d, ok := ByID(38)
	if !ok || d.Name != "ngon" {
		t.Fatalf("ByID(38) = %+v, %v", d, ok)
	}
	if !d.Parametric() || d.ParamCount() != 4 || d.Groups[0].Dim() != 4 {
		t.Errorf("ngon layout = %+v", d.Groups)
	}
	if got := d.Defaults(); len(got) != 4 || got[0] != 5 {
		t.Errorf("ngon defaults = %v", got)
	}

	if _, ok := ByID(-1); ok {
		t.Error("ByID(-1) should fail")
	}
	if _, ok := ByID(ID(Count())); ok {
		t.Error("ByID(Count()) should fail")
	}
}

func TestDescriptor_NonParametric(t *testing.T) {
	t.Parallel()

	d, _ := ByID(0)
	if d.Parametric() || d.ParamCount() != 0 || len(d.Defaults()) != 0 {
		t.Errorf("linear should carry no parameters: %+v", d)
	}
}

func TestParamOwner(t *testing.T) {
	t.Parallel()

	tests := []struct {
		param string
		want  string
	}{
		{"julian_power", "julian"},
		{"oscope_frequency", "oscilloscope"},
		{"oscilloscope_damping", "oscilloscope"},
		{"re_a", "mobius"},
		{"mobius_im_d", "mobius"},
		{"super_shape_n2", "super_shape"},
	}

	for _, tt := range tests {
		id, ok := ParamOwner(tt.param)
		if !ok || id.String() != tt.want {
			t.Errorf("ParamOwner(%q) = (%v, %v), want %s", tt.param, id, ok, tt.want)
		}
	}

	if _, ok := ParamOwner("julian"); ok {
		t.Error("a variation name is not a parameter")
	}
}

func TestSplitPrefix(t *testing.T) {
	t.Parallel()

	tests := []struct {
		key     string
		section Section
		base    string
	}{
		{"pre_swirl", Pre, "swirl"},
		{"post_curl_c1", Post, "curl_c1"},
		{"spherical", Var, "spherical"},
		{"prefix", Var, "prefix"},
	}

	for _, tt := range tests {
		section, base := SplitPrefix(tt.key)
		if section != tt.section || base != tt.base {
			t.Errorf("SplitPrefix(%q) = (%v, %q), want (%v, %q)", tt.key, section, base, tt.section, tt.base)
		}
		if got := section.Prefix() + base; got != tt.key {
			t.Errorf("Prefix()+base = %q, want %q", got, tt.key)
		}
	}
}

func TestName_AppException(t *testing.T) {
	t.Parallel()

	id, _ := Lookup("bwraps")
	if got := Name(id, ""); got != "bwraps" {
		t.Errorf("Name(bwraps, \"\") = %q", got)
	}
	if got := Name(id, "Apophysis 7X Version 15C"); got != "bwraps7" {
		t.Errorf("Name(bwraps, Apophysis 7X) = %q, want bwraps7", got)
	}
	if got := Name(id, "EMBER-1.0 (Fractorium)"); got != "bwraps" {
		t.Errorf("Name(bwraps, Fractorium) = %q", got)
	}
}

func TestGroups_Dialects(t *testing.T) {
	t.Parallel()

	mobius, _ := Lookup("mobius")
	if got := ParamNames(mobius, Native, ""); got[0] != "mobius_re_a" {
		t.Errorf("native mobius names = %v", got)
	}
	if got := ParamNames(mobius, Compat, ""); got[0] != "re_a" || got[7] != "im_d" {
		t.Errorf("compat mobius names = %v", got)
	}

	osc, _ := Lookup("oscilloscope")
	if got := ParamNames(osc, Native, "Apophysis 2.09"); got[0] != "oscilloscope_separation" {
		t.Errorf("Apophysis oscilloscope names = %v", got)
	}
	if got := ParamNames(osc, Compat, "FLAM3H"); got[0] != "oscope_separation" {
		t.Errorf("FLAM3H oscilloscope names = %v", got)
	}

	groups := Groups(osc, Native, "Apophysis")
	if len(groups) != 1 || groups[0].Defaults[0] != 1 {
		t.Errorf("exception groups must keep native defaults: %+v", groups)
	}
}

func TestParamCandidates(t *testing.T) {
	t.Parallel()

	osc, _ := Lookup("oscilloscope")
	cands := ParamCandidates(osc, Native, "")
	if len(cands) != 4 {
		t.Fatalf("candidates = %v", cands)
	}
	if cands[0][0] != "oscope_separation" {
		t.Errorf("preferred candidate = %q", cands[0][0])
	}
	if !strings.Contains(strings.Join(cands[0], ","), "oscilloscope_separation") {
		t.Errorf("exception names missing from candidates: %v", cands[0])
	}

	bwraps, _ := Lookup("bwraps")
	cands = ParamCandidates(bwraps, Native, "")
	if cands[0][0] != "bwraps_cellsize" || !slices.Contains(cands[0], "bwraps7_cellsize") {
		t.Errorf("renamed spelling missing from candidates: %v", cands[0])
	}
	if cands[4][0] != "bwraps_outer_twist" || !slices.Contains(cands[4], "bwraps7_outer_twist") {
		t.Errorf("second group candidates = %v", cands[4])
	}
	for _, param := range []string{"bwraps7_cellsize", "bwraps7_space", "BWRAPS7_GAIN"} {
		if id, ok := ParamOwner(param); !ok || id != bwraps {
			t.Errorf("ParamOwner(%q) = %v, %v", param, id, ok)
		}
	}

	linear, _ := Lookup("linear")
	if got := ParamCandidates(linear, Native, ""); len(got) != 0 {
		t.Errorf("linear candidates = %v", got)
	}
}

func TestKnownElsewhere(t *testing.T) {
	t.Parallel()

	if !KnownElsewhere("hypertile") || !KnownElsewhere("Linear3D") {
		t.Error("ecosystem names must be recognized")
	}
	if KnownElsewhere("spherical") || KnownElsewhere("nonsense") {
		t.Error("registered or invented names are not ecosystem-only")
	}
	for _, d := range All() {
		if KnownElsewhere(d.Name) {
			t.Errorf("%q is registered and must not be in the ecosystem list", d.Name)
		}
	}
}

func TestParamNames_Unique(t *testing.T) {
	t.Parallel()

	seen := map[string]string{}
	for _, d := range All() {
		for _, n := range ParamNames(d.ID, Native, "") {
			if other, dup := seen[n]; dup {
				t.Errorf("parameter %q shared by %s and %s", n, other, d.Name)
			}
			seen[n] = d.Name
			if _, isVar := Lookup(n); isVar {
				t.Errorf("parameter %q collides with a variation name", n)
			}
		}
	}
}

func TestElsewhereOwner(t *testing.T) {
	t.Parallel()

	tests := []struct {
		param string
		want  string
		ok    bool
	}{
		{"hypertile_p", "hypertile", true},
		{"hypertile1_q", "hypertile1", true},
		{"Murl2_power", "murl2", true},
		{"julian_power", "", false},
		{"hypertile", "", false},
	}
	for _, tt := range tests {
		got, ok := ElsewhereOwner(tt.param)
		if got != tt.want || ok != tt.ok {
			t.Errorf("ElsewhereOwner(%q) = (%q, %v), want (%q, %v)", tt.param, got, ok, tt.want, tt.ok)
		}
	}
}
