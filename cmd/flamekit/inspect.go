// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/flamekit/flamekit/pkg/flame"
	"github.com/flamekit/flamekit/pkg/flamestore"
	"github.com/flamekit/flamekit/pkg/numstr"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
	formatTOML = "toml"
)

type (
	// presetSummary is the machine-readable view printed by inspect.
	presetSummary struct {
		Name       string         `json:"name" yaml:"name" toml:"name"`
		Iterations int            `json:"iterations" yaml:"iterations" toml:"iterations"`
		Generator  string         `json:"generator" yaml:"generator" toml:"generator"`
		Size       [2]int         `json:"size" yaml:"size" toml:"size"`
		Center     [2]float64     `json:"center" yaml:"center" toml:"center"`
		Scale      float64        `json:"scale" yaml:"scale" toml:"scale"`
		Rotate     float64        `json:"rotate" yaml:"rotate" toml:"rotate"`
		Palette    paletteSummary `json:"palette" yaml:"palette" toml:"palette"`
		XForms     []xformSummary `json:"xforms" yaml:"xforms" toml:"xforms"`
		Final      *xformSummary  `json:"final,omitempty" yaml:"final,omitempty" toml:"final,omitempty"`
	}

	paletteSummary struct {
		Colors  int    `json:"colors" yaml:"colors" toml:"colors"`
		Samples int    `json:"samples" yaml:"samples" toml:"samples"`
		HSV     string `json:"hsv,omitempty" yaml:"hsv,omitempty" toml:"hsv,omitempty"`
	}

	xformSummary struct {
		Name       string   `json:"name" yaml:"name" toml:"name"`
		Weight     float64  `json:"weight" yaml:"weight" toml:"weight"`
		Active     bool     `json:"active" yaml:"active" toml:"active"`
		Color      float64  `json:"color" yaml:"color" toml:"color"`
		PostAffine bool     `json:"post_affine" yaml:"post_affine" toml:"post_affine"`
		Variations []string `json:"variations" yaml:"variations" toml:"variations"`
	}
)

func newInspectCommand(app *App) *cobra.Command {
	var (
		presetName string
		index      int
		format     string
	)
	cmd := &cobra.Command{
		Use:   "inspect FILE",
		Short: "Summarize one preset of a flame file",
		Long: `Summarize one preset of a flame file: render properties, palette, and the
variations of every xform. Use "-" to read from standard input.

The preset is chosen by --preset, or by --index (the first preset by default).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch format {
			case formatText, formatJSON, formatYAML, formatTOML:
			default:
				return fmt.Errorf("invalid format %q (valid: text, json, yaml, toml)", format)
			}
			res, err := app.load(args[0])
			if err != nil {
				return err
			}
			p, err := flamestore.Select(res.Document, presetName, index)
			if err != nil {
				return fileError("select preset", args[0], err)
			}
			return writeSummary(cmd.OutOrStdout(), summarize(p), format)
		},
	}
	cmd.Flags().StringVarP(&presetName, "preset", "p", "", "preset name")
	cmd.Flags().IntVarP(&index, "index", "n", 0, "zero-based preset index, used when --preset is empty")
	cmd.Flags().StringVarP(&format, "format", "f", formatText, "output format: text, json, yaml, toml")
	return cmd
}

// summarize flattens p into a presetSummary.
func summarize(p flame.Preset) presetSummary {
	s := presetSummary{
		Name:       p.Name,
		Iterations: p.Iterations,
		Generator:  p.Generator,
		Size:       p.Render.Size,
		Center:     p.Render.Center,
		Scale:      p.Render.Scale,
		Rotate:     p.Render.Rotate,
		Palette: paletteSummary{
			Colors:  len(p.Palette.Colors),
			Samples: p.Palette.Samples,
		},
		XForms: make([]xformSummary, len(p.XForms)),
	}
	if !p.Palette.HSV.IsDefault() {
		s.Palette.HSV = p.Palette.HSV.String()
	}
	for i, x := range p.XForms {
		s.XForms[i] = summarizeXForm(x, flame.IteratorTarget(i))
	}
	if p.Final != nil {
		final := summarizeXForm(*p.Final, flame.FinalTarget)
		s.Final = &final
	}
	return s
}

func summarizeXForm(x flame.XForm, target string) xformSummary {
	name := target
	if x.Note != "" {
		name = x.Note
	}
	vars := make([]string, 0, len(x.Slots))
	for _, slot := range x.Populated() {
		vars = append(vars, slot.Key()+" "+numstr.RoundTrim(slot.Weight))
	}
	return xformSummary{
		Name:       name,
		Weight:     x.Weight,
		Active:     x.Active,
		Color:      x.Color,
		PostAffine: x.HasPost(),
		Variations: vars,
	}
}

func writeSummary(w io.Writer, s presetSummary, format string) error {
	var (
		data []byte
		err  error
	)
	switch format {
	case formatJSON:
		data, err = json.MarshalIndent(s, "", "  ")
		data = append(data, '\n')
	case formatYAML:
		data, err = yaml.Marshal(s)
	case formatTOML:
		data, err = toml.Marshal(s)
	default:
		renderSummary(w, s)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to encode summary as %s: %w", format, err)
	}
	_, err = w.Write(data)
	return err
}

func renderSummary(w io.Writer, s presetSummary) {
	label := func(name, value string) {
		fmt.Fprintf(w, "%s %s\n", labelStyle.Render(name), value)
	}
	fmt.Fprintln(w, TitleStyle.Render(s.Name))
	label("Iterations", strconv.Itoa(s.Iterations))
	if s.Generator != "" {
		label("Generator", s.Generator)
	}
	label("Size", fmt.Sprintf("%dx%d", s.Size[0], s.Size[1]))
	label("Center", numstr.FormatFloats(s.Center[0], s.Center[1]))
	label("Scale", numstr.RoundTrim(s.Scale))
	label("Rotate", numstr.RoundTrim(s.Rotate))
	palette := fmt.Sprintf("%d colors, %d samples", s.Palette.Colors, s.Palette.Samples)
	if s.Palette.HSV != "" {
		palette += ", hsv " + s.Palette.HSV
	}
	label("Palette", palette)
	fmt.Fprintln(w)

	rows := make([][]string, 0, len(s.XForms)+1)
	for _, x := range s.XForms {
		rows = append(rows, xformRow(x))
	}
	if s.Final != nil {
		rows = append(rows, xformRow(*s.Final))
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(SubtitleStyle).
		Headers("XFORM", "WEIGHT", "COLOR", "VARIATIONS").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return SubtitleStyle.Bold(true).Padding(0, 1)
			}
			if col == 0 {
				return NameStyle.Padding(0, 1)
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	fmt.Fprintln(w, t.Render())
}

func xformRow(x xformSummary) []string {
	weight := numstr.RoundTrim(x.Weight)
	if !x.Active {
		weight = "off"
	}
	return []string{x.Name, weight, numstr.RoundTrim(x.Color), strings.Join(x.Variations, ", ")}
}
