// SPDX-License-Identifier: MPL-2.0

package variation

import (
	"fmt"
	"strings"

	"golang.org/x/exp/slices"
)

const (
	// Native is the flam3 naming convention.
	Native Dialect = iota
	// Compat is the APO/Fractorium-compatible naming convention.
	Compat
)

const (
	// Pre is the pre-affine variation section ("pre_" prefix).
	Pre Section = iota + 1
	// Var is the main variation section (no prefix).
	Var
	// Post is the post-affine variation section ("post_" prefix).
	Post
)

// NotFound is the ID returned alongside false by lookups that fail.
const NotFound ID = -1

type (
	// ID indexes a variation in the registry.
	ID int

	// Dialect selects a parameter-naming convention.
	Dialect int

	// Section is the variation slot section of an xform.
	Section int

	// Group is a set of 1-4 parameters edited together (a float, vector2, vector3 or vector4).
	Group struct {
		Names    []string
		Defaults []float64
	}

	// Descriptor describes one registered variation.
	Descriptor struct {
		ID     ID
		Name   string
		Groups []Group
	}

	// Exception is a per-application naming substitution for one variation.
	// Either Name or Params (or both) is set.
	Exception struct {
		Variation string
		App       string
		Name      string
		Params    [][]string
	}
)

var (
	descriptors []Descriptor
	byName      = map[string]ID{}
	byParam     = map[string]ID{}
	compat      = map[ID][]Group{}
	elsewhere   = map[string]bool{}
)

func init() {
	descriptors = make([]Descriptor, len(table))
	for i, row := range table {
		id := ID(i)
		d := Descriptor{ID: id, Name: row.name}
		prefix := row.prefix
		if prefix == "" {
			prefix = row.name
		}
		for _, gs := range row.groups {
			grp := Group{Defaults: slices.Clone(gs.defaults)}
			for _, n := range gs.names {
				full := prefix + "_" + n
				grp.Names = append(grp.Names, full)
				byParam[full] = id
			}
			d.Groups = append(d.Groups, grp)
		}
		descriptors[i] = d
		byName[row.name] = id
	}

	for name, groups := range compatParams {
		id := byName[name]
		native := descriptors[id].Groups
		var out []Group
		for gi, names := range groups {
			out = append(out, Group{Names: names, Defaults: native[gi].Defaults})
			for _, n := range names {
				byParam[n] = id
			}
		}
		compat[id] = out
	}

	for _, ex := range exceptions {
		id := byName[ex.Variation]
		if ex.Name != "" {
			byName[ex.Name] = id
			for _, n := range renamedParams(id, ex) {
				byParam[n] = id
			}
		}
		for _, names := range ex.Params {
			for _, n := range names {
				byParam[n] = id
			}
		}
	}

	for _, name := range ecosystem {
		elsewhere[name] = true
	}
}

// Count returns the number of registered variations.
func Count() int { return len(descriptors) }

// All returns every descriptor in index order.
func All() []Descriptor {
	out := make([]Descriptor, len(descriptors))
	copy(out, descriptors)
	return out
}

// Lookup maps a variation name (without section prefix) to its ID. Names are matched
// exactly first and then case-insensitively; application-specific spellings such as
// "bwraps7" are accepted too.
func Lookup(name string) (ID, bool) {
	if id, ok := byName[name]; ok {
		return id, true
	}
	if id, ok := byName[strings.ToLower(name)]; ok {
		return id, true
	}
	return NotFound, false
}

// ByID returns the descriptor for id.
func ByID(id ID) (Descriptor, bool) {
	if id < 0 || int(id) >= len(descriptors) {
		return Descriptor{}, false
	}
	return descriptors[id], true
}

// ParamOwner reports which variation a parameter name (without section prefix) belongs
// to, across every dialect and application exception.
func ParamOwner(param string) (ID, bool) {
	if id, ok := byParam[param]; ok {
		return id, true
	}
	if id, ok := byParam[strings.ToLower(param)]; ok {
		return id, true
	}
	return NotFound, false
}

// KnownElsewhere reports whether name is a variation of the wider flame ecosystem that this
// registry does not implement.
func KnownElsewhere(name string) bool {
	return elsewhere[strings.ToLower(name)]
}

// ElsewhereOwner reports which unimplemented ecosystem variation a parameter name (without
// section prefix) belongs to, e.g. "hypertile_q" -> "hypertile". The longest match wins.
func ElsewhereOwner(param string) (string, bool) {
	lower := strings.ToLower(param)
	best := ""
	for _, name := range ecosystem {
		if len(name) > len(best) && strings.HasPrefix(lower, name+"_") {
			best = name
		}
	}
	return best, best != ""
}

// String returns the native name of the variation.
func (id ID) String() string {
	if d, ok := ByID(id); ok {
		return d.Name
	}
	return fmt.Sprintf("variation(%d)", int(id))
}

// Parametric reports whether the variation takes parameters beyond its weight.
func (d Descriptor) Parametric() bool { return len(d.Groups) > 0 }

// ParamCount returns the flattened number of parameters.
func (d Descriptor) ParamCount() int {
	n := 0
	for _, grp := range d.Groups {
		n += len(grp.Names)
	}
	return n
}

// Defaults returns the flattened default parameter values.
func (d Descriptor) Defaults() []float64 {
	out := make([]float64, 0, d.ParamCount())
	for _, grp := range d.Groups {
		out = append(out, grp.Defaults...)
	}
	return out
}

// Dim returns the dimensionality of the group (1-4).
func (g Group) Dim() int { return len(g.Names) }

// String returns the dialect name.
func (d Dialect) String() string {
	if d == Compat {
		return "compat"
	}
	return "native"
}

// Prefix returns the attribute prefix of the section ("pre_", "", "post_").
func (s Section) Prefix() string {
	switch s {
	case Pre:
		return "pre_"
	case Post:
		return "post_"
	default:
		return ""
	}
}

// String returns the section label used in reports.
func (s Section) String() string {
	switch s {
	case Pre:
		return "PRE"
	case Var:
		return "VAR"
	case Post:
		return "POST"
	default:
		return fmt.Sprintf("section(%d)", int(s))
	}
}

// SplitPrefix separates the section prefix from an attribute key.
func SplitPrefix(key string) (Section, string) {
	switch {
	case strings.HasPrefix(key, "pre_"):
		return Pre, key[len("pre_"):]
	case strings.HasPrefix(key, "post_"):
		return Post, key[len("post_"):]
	default:
		return Var, key
	}
}

// renamedParams respells the native parameter names of id under the exception's variation
// name: "bwraps_cellsize" becomes "bwraps7_cellsize". Files written by the application may
// use either spelling.
func renamedParams(id ID, ex Exception) []string {
	native := ParamNames(id, Native, "")
	out := make([]string, len(native))
	for i, n := range native {
		if rest, ok := strings.CutPrefix(n, ex.Variation+"_"); ok {
			out[i] = ex.Name + "_" + rest
		} else {
			out[i] = n
		}
	}
	return out
}

// exceptionFor returns the exception that applies to id for the given application.
func exceptionFor(id ID, app string) (Exception, bool) {
	if app == "" {
		return Exception{}, false
	}
	name := id.String()
	lowerApp := strings.ToLower(app)
	for _, ex := range exceptions {
		if ex.Variation == name && strings.HasPrefix(lowerApp, strings.ToLower(ex.App)) {
			return ex, true
		}
	}
	return Exception{}, false
}

// Name returns the attribute name to write for id in the given dialect and application.
func Name(id ID, app string) string {
	if ex, ok := exceptionFor(id, app); ok && ex.Name != "" {
		return ex.Name
	}
	return id.String()
}

// Groups returns the parameter groups of id under the naming convention selected by dialect
// and application. Application exceptions take precedence over the dialect.
func Groups(id ID, dialect Dialect, app string) []Group {
	d, ok := ByID(id)
	if !ok {
		return nil
	}
	if ex, ok := exceptionFor(id, app); ok && len(ex.Params) > 0 {
		out := make([]Group, len(ex.Params))
		for i, names := range ex.Params {
			out[i] = Group{Names: names, Defaults: d.Groups[i].Defaults}
		}
		return out
	}
	if dialect == Compat {
		if groups, ok := compat[id]; ok {
			return groups
		}
	}
	return d.Groups
}

// ParamNames returns the flattened parameter names of id for dialect and application.
func ParamNames(id ID, dialect Dialect, app string) []string {
	var out []string
	for _, grp := range Groups(id, dialect, app) {
		out = append(out, grp.Names...)
	}
	return out
}

// ParamCandidates returns, for each flattened parameter of id, every name it may be stored
// under: the preferred names for dialect/app first, then the remaining conventions. Readers
// use it to accept files written by any application.
func ParamCandidates(id ID, dialect Dialect, app string) [][]string {
	d, ok := ByID(id)
	if !ok {
		return nil
	}
	orders := [][]string{
		ParamNames(id, dialect, app),
		ParamNames(id, Native, ""),
		ParamNames(id, Compat, ""),
	}
	for _, ex := range exceptions {
		if ex.Variation != d.Name {
			continue
		}
		if len(ex.Params) > 0 {
			var flat []string
			for _, names := range ex.Params {
				flat = append(flat, names...)
			}
			orders = append(orders, flat)
		}
		if ex.Name != "" {
			orders = append(orders, renamedParams(id, ex))
		}
	}

	out := make([][]string, d.ParamCount())
	for i := range out {
		for _, names := range orders {
			if i < len(names) && !slices.Contains(out[i], names[i]) {
				out[i] = append(out[i], names[i])
			}
		}
	}
	return out
}
