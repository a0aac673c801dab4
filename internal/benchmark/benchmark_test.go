// SPDX-License-Identifier: MPL-2.0

package benchmark

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/flamekit/flamekit/internal/config"
	"github.com/flamekit/flamekit/pkg/flamexml"
	"github.com/flamekit/flamekit/pkg/palette"
	"github.com/flamekit/flamekit/pkg/variation"
)

const sampleConfig = `
default_iterations: 32
compat_names: true
palette: {
	wrap: 0
}
`

// sampleFlames builds a collection of n presets, each with a few parametric xforms, a
// final xform, and a full 256-colour palette.
func sampleFlames(n int) []byte {
	var hex strings.Builder
	for i := range 256 {
		fmt.Fprintf(&hex, "%02X%02X%02X", i, 255-i, (i*7)%256)
	}

	var sb strings.Builder
	sb.WriteString("<flames name=\"bench\">\n")
	for i := range n {
		fmt.Fprintf(&sb, "  <flame name=\"preset_%d::%d\" version=\"Apophysis 7X\" size=\"640 480\" center=\"0 0\" scale=\"120\">\n", i, 16+i%8)
		sb.WriteString("    <xform weight=\"0.5\" color=\"0\" symmetry=\"0.5\" linear=\"0.75\" julia=\"0.25\" coefs=\"0.5 0 0 0.5 -0.5 0\" chaos=\"1 0.5 1\"/>\n")
		sb.WriteString("    <xform weight=\"0.25\" color=\"0.5\" pdj=\"1\" pdj_a=\"1.1\" pdj_b=\"-2\" pdj_c=\"0.3\" pdj_d=\"0.4\" coefs=\"0.5 0 0 0.5 0.5 0\" post=\"1 0 0 1 0.1 0\"/>\n")
		sb.WriteString("    <xform weight=\"0.25\" color=\"1\" pre_blur=\"0.2\" spherical=\"0.6\" post_bubble=\"0.1\" coefs=\"0.5 0 0 0.5 0 0.5\"/>\n")
		sb.WriteString("    <finalxform color=\"0\" color_speed=\"0\" linear=\"1\" coefs=\"1 0 0 1 0 0\"/>\n")
		fmt.Fprintf(&sb, "    <palette count=\"256\" format=\"RGB\">%s</palette>\n", hex.String())
		sb.WriteString("  </flame>\n")
	}
	sb.WriteString("</flames>\n")
	return []byte(sb.String())
}

// BenchmarkParse benchmarks full decoding of a preset collection.
func BenchmarkParse(b *testing.B) {
	data := sampleFlames(50)
	opts := flamexml.ParseOptions{DefaultIterations: 64}

	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for b.Loop() {
		if _, err := flamexml.Parse(data, opts); err != nil {
			b.Fatalf("Parse failed: %v", err)
		}
	}
}

// BenchmarkNames benchmarks the names-only listing path on the same collection.
func BenchmarkNames(b *testing.B) {
	data := sampleFlames(50)

	b.SetBytes(int64(len(data)))
	b.ResetTimer()
	for b.Loop() {
		names, err := flamexml.Names(data)
		if err != nil {
			b.Fatalf("Names failed: %v", err)
		}
		if len(names) != 50 {
			b.Fatalf("Names returned %d entries", len(names))
		}
	}
}

// BenchmarkWrite benchmarks encoding in each naming dialect.
func BenchmarkWrite(b *testing.B) {
	res, err := flamexml.Parse(sampleFlames(50), flamexml.ParseOptions{DefaultIterations: 64})
	if err != nil {
		b.Fatalf("Parse failed: %v", err)
	}

	for _, dialect := range []variation.Dialect{variation.Native, variation.Compat} {
		b.Run(dialect.String(), func(b *testing.B) {
			opts := flamexml.WriteOptions{Dialect: dialect, ExtendedAffine: true}
			for b.Loop() {
				if _, err := flamexml.Write(res.Document, opts); err != nil {
					b.Fatalf("Write failed: %v", err)
				}
			}
		})
	}
}

// BenchmarkPalette benchmarks hex decoding followed by resampling to the nearest bucket.
func BenchmarkPalette(b *testing.B) {
	var hex strings.Builder
	for i := range 1024 {
		fmt.Fprintf(&hex, "%02X%02X%02X", i%256, (i/4)%256, 128)
	}
	text := hex.String()

	b.ResetTimer()
	for b.Loop() {
		p, err := palette.DecodeHex(text)
		if err != nil {
			b.Fatalf("DecodeHex failed: %v", err)
		}
		_ = palette.Resample(p, palette.NearestBucketCount(len(p.Colors)))
	}
}

// BenchmarkConfigLoad benchmarks CUE configuration loading with schema validation.
func BenchmarkConfigLoad(b *testing.B) {
	dir := b.TempDir()
	path := filepath.Join(dir, "config.cue")
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		b.Fatalf("Failed to write config: %v", err)
	}
	provider := config.NewProvider()
	ctx := context.Background()

	b.ResetTimer()
	for b.Loop() {
		cfg, err := provider.Load(ctx, config.LoadOptions{ConfigFilePath: path})
		if err != nil {
			b.Fatalf("Load failed: %v", err)
		}
		if !cfg.CompatNames {
			b.Fatal("config file not applied")
		}
	}
}
