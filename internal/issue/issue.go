// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"errors"
	"io/fs"
	"maps"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/slices"

	"github.com/flamekit/flamekit/pkg/diag"
	"github.com/flamekit/flamekit/pkg/flame"
	"github.com/flamekit/flamekit/pkg/flamestore"
	"github.com/flamekit/flamekit/pkg/flamexml"
	"github.com/flamekit/flamekit/pkg/palette"
)

type Id int

const (
	FileNotFoundId Id = iota + 1
	PermissionDeniedId
	InvalidDocumentId
	UnsupportedFormatId
	DuplicateVariationId
	InvalidPaletteId
	PresetNotFoundId
	ConfigLoadFailedId
	UnknownVariationId
	SlotOverflowId
	MalformedNumberId
	InvalidXaosId
	ReservedValueId
)

type MarkdownMsg string

type HttpLink string

type Issue struct {
	id       Id          // ID used to lookup the issue
	mdMsg    MarkdownMsg // Markdown text that will be rendered
	docLinks []HttpLink
	extLinks []HttpLink // external links that might be useful for the user
}

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Render renders the issue markdown through glamour with the given style ("dark", "light",
// "notty", or a path to a JSON style).
func (i *Issue) Render(stylePath string) (string, error) {
	md := string(i.mdMsg)
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		md += "\n\n## See also\n"
		for _, link := range i.docLinks {
			md += "\n- <" + string(link) + ">"
		}
		for _, link := range i.extLinks {
			md += "\n- <" + string(link) + ">"
		}
	}
	return render(md, stylePath)
}

var (
	render = glamour.Render

	fileNotFoundIssue = &Issue{
		id: FileNotFoundId,
		mdMsg: `
# File not found!

flamekit could not open the file you named.

## Things you can try:
- Check the path for typos; flame files usually end in ` + "`.flame`" + `
- List the directory to confirm the file is there:
~~~
$ ls *.flame
~~~`,
	}

	permissionDeniedIssue = &Issue{
		id: PermissionDeniedId,
		mdMsg: `
# Permission denied!

flamekit could not read or write the file.

## Things you can try:
- Check the file and directory permissions
- Save to a directory you own with a different output path`,
	}

	invalidDocumentIssue = &Issue{
		id: InvalidDocumentId,
		mdMsg: `
# Not a flame document!

The file is not well-formed XML, or its root element is neither ` + "`<flames>`" + ` nor
` + "`<flame>`" + `, or it contains no presets.

## Things you can try:
- Open the file in a text editor and check the first element
- Files pasted from a forum often hold a single ` + "`<flame>`" + ` element; that is fine
- Re-export the preset from the editor that produced it`,
	}

	unsupportedFormatIssue = &Issue{
		id: UnsupportedFormatId,
		mdMsg: `
# Unsupported flame format!

The file uses a sibling format of the flame family (an ` + "`<ifs>`" + ` root) that flamekit does not read.

## Things you can try:
- Convert the file to the ` + "`<flames>`" + ` format in its original editor first`,
		extLinks: []HttpLink{"https://github.com/scottdraves/flam3/wiki"},
	}

	duplicateVariationIssue = &Issue{
		id: DuplicateVariationId,
		mdMsg: `
# Duplicate variation in a section!

One xform holds the same variation twice within the same PRE, VAR, or POST section. The XML
format gives every variation a single attribute per section, so one of them would be lost.
Nothing was written.

## Things you can try:
- Remove or replace the repeated variation in the listed xform
- Move one copy to a different section (for example ` + "`pre_`" + ` or ` + "`post_`" + `)`,
	}

	invalidPaletteIssue = &Issue{
		id: InvalidPaletteId,
		mdMsg: `
# Invalid palette!

A palette is a run of six-digit hex colours. The data does not divide into whole colours or
holds non-hex characters, so a red error palette was used instead.

## Things you can try:
- Check that the palette text length is a multiple of six
- Re-import the palette from a palette library:
~~~
$ flamekit palette import presets.flame palettes.json
~~~`,
	}

	presetNotFoundIssue = &Issue{
		id: PresetNotFoundId,
		mdMsg: `
# Preset not found!

The document holds no preset with that name or index.

## Things you can try:
- List the presets:
~~~
$ flamekit list presets.flame
~~~
- Indexes start at 0`,
	}

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration!

The configuration file could not be parsed or does not match the schema.

## Things you can try:
- Show the effective configuration:
~~~
$ flamekit config show
~~~
- Recreate the default file:
~~~
$ flamekit config init --force
~~~

## Example config.cue:
~~~cue
default_iterations: 64
palette: {
	extended: false
	wrap:     8
}
ui: color_scheme: "auto"
~~~`,
	}

	unknownVariationIssue = &Issue{
		id: UnknownVariationId,
		mdMsg: `
# Unknown variation!

An xform attribute names a variation flamekit does not know. Known-but-unsupported
variations from other editors are reported as missing; anything else is unknown. Either way
the variation was skipped and the rest of the xform was kept.

## Things you can try:
- List the supported variations:
~~~
$ flamekit vars
~~~
- Replace the variation in the editor that produced the file`,
	}

	slotOverflowIssue = &Issue{
		id: SlotOverflowId,
		mdMsg: `
# Too many variations in one section!

Each xform holds at most four PRE, four VAR, and four POST variations. Extra variations were
dropped in file order.

## Things you can try:
- Split the xform into two xforms sharing the load`,
	}

	malformedNumberIssue = &Issue{
		id: MalformedNumberId,
		mdMsg: `
# Malformed number!

A numeric attribute could not be read. Decimal commas and stray characters are cleaned when
possible; otherwise the attribute's default was used.

## Things you can try:
- Inspect the listed attribute and fix the value by hand`,
	}

	invalidXaosIssue = &Issue{
		id: InvalidXaosId,
		mdMsg: `
# Invalid xaos row!

A xaos row must read ` + "`xaos:v1:v2:...`" + ` with numeric values. The row was replaced by
its default (every weight 1).

## Things you can try:
- Check the ` + "`chaos`" + ` attribute of the listed xform`,
	}

	reservedValueIssue = &Issue{
		id: ReservedValueId,
		mdMsg: `
# Value reserved by the flame format!

An xform holds a value whose attribute the XML format already uses for something else:
- a PRE ` + "`blur`" + ` slot is keyed ` + "`pre_blur`" + `, the gaussian pre-blur weight
- an active iterator named ` + "`OFF`" + ` would be read back as inactive

Nothing was written.

## Things you can try:
- Replace the PRE blur slot with ` + "`pre_gaussian_blur`" + ` or move it to the VAR section
- Rename the iterator`,
	}

	issues = map[Id]*Issue{
		fileNotFoundIssue.Id():       fileNotFoundIssue,
		permissionDeniedIssue.Id():   permissionDeniedIssue,
		invalidDocumentIssue.Id():    invalidDocumentIssue,
		unsupportedFormatIssue.Id():  unsupportedFormatIssue,
		duplicateVariationIssue.Id(): duplicateVariationIssue,
		invalidPaletteIssue.Id():     invalidPaletteIssue,
		presetNotFoundIssue.Id():     presetNotFoundIssue,
		configLoadFailedIssue.Id():   configLoadFailedIssue,
		unknownVariationIssue.Id():   unknownVariationIssue,
		slotOverflowIssue.Id():       slotOverflowIssue,
		malformedNumberIssue.Id():    malformedNumberIssue,
		invalidXaosIssue.Id():        invalidXaosIssue,
		reservedValueIssue.Id():      reservedValueIssue,
	}

	kindIssues = map[diag.Kind]Id{
		diag.MalformedToken:     MalformedNumberId,
		diag.UnknownVariation:   UnknownVariationId,
		diag.MissingVariation:   UnknownVariationId,
		diag.SlotOverflow:       SlotOverflowId,
		diag.InvalidPalette:     InvalidPaletteId,
		diag.DuplicateVariation: DuplicateVariationId,
		diag.InvalidXaos:        InvalidXaosId,
	}
)

// Values returns every catalog entry ordered by Id.
func Values() []*Issue {
	all := make([]*Issue, 0, len(issues))
	for v := range maps.Values(issues) {
		all = append(all, v)
	}
	slices.SortFunc(all, func(a, b *Issue) int { return int(a.id) - int(b.id) })
	return all
}

func Get(id Id) *Issue {
	return issues[id]
}

// ForError maps an error to the catalog entry that explains it, or 0.
func ForError(err error) Id {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, fs.ErrNotExist):
		return FileNotFoundId
	case errors.Is(err, fs.ErrPermission):
		return PermissionDeniedId
	case errors.Is(err, flamexml.ErrUnsupportedFormat):
		return UnsupportedFormatId
	case errors.Is(err, flamexml.ErrInvalidDocument):
		return InvalidDocumentId
	case errors.Is(err, flamexml.ErrDuplicateVariationInSection):
		return DuplicateVariationId
	case errors.Is(err, flame.ErrReservedValue):
		return ReservedValueId
	case errors.Is(err, palette.ErrInvalidHex), errors.Is(err, palette.ErrInvalidLibrary):
		return InvalidPaletteId
	case errors.Is(err, flamestore.ErrNoSuchPreset):
		return PresetNotFoundId
	case errors.Is(err, flame.ErrSlotOverflow):
		return SlotOverflowId
	case errors.Is(err, flame.ErrUnknownSlotVariation):
		return UnknownVariationId
	}
	return 0
}

// ForKind maps a diagnostic kind to its catalog entry, or 0 for kinds that need no
// explanation.
func ForKind(k diag.Kind) Id {
	return kindIssues[k]
}
