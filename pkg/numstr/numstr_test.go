// SPDX-License-Identifier: MPL-2.0

package numstr

import (
	"math"
	"testing"
)

func TestCleanFloat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		token   string
		def     float64
		want    float64
		outcome Outcome
	}{
		{"plain", "0.5", 1, 0.5, Parsed},
		{"negative exponent", "-1.25e-3", 1, -0.00125, Parsed},
		{"surrounding space", "  3 ", 1, 3, Parsed},
		{"trailing garbage", "1.5x", 9, 1.5, Corrected},
		{"decimal comma", "0,75", 9, 0.75, Corrected},
		{"quoted", "\"2\"", 9, 2, Corrected},
		{"empty", "", 9, 9, Defaulted},
		{"word", "abc", 9, 9, Defaulted},
		{"double minus", "--2", 9, 9, Defaulted},
		{"nan", "NaN", 4, 4, Defaulted},
		{"inf", "Inf", 4, 4, Defaulted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, outcome := CleanFloat(tt.token, tt.def)
			if got != tt.want || outcome != tt.outcome {
				t.Errorf("CleanFloat(%q, %v) = (%v, %v), want (%v, %v)",
					tt.token, tt.def, got, outcome, tt.want, tt.outcome)
			}
		})
	}
}

func TestCleanInt(t *testing.T) {
	t.Parallel()

	tests := []struct {
		token   string
		want    int
		outcome Outcome
	}{
		{"64", 64, Parsed},
		{"64.0", 64, Corrected},
		{"x16", 16, Corrected},
		{"", 7, Defaulted},
		{"1e20", 7, Defaulted},
	}

	for _, tt := range tests {
		got, outcome := CleanInt(tt.token, 7)
		if got != tt.want || outcome != tt.outcome {
			t.Errorf("CleanInt(%q) = (%d, %v), want (%d, %v)", tt.token, got, outcome, tt.want, tt.outcome)
		}
	}
}

func TestRoundTrim(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{1, "1"},
		{-3, "-3"},
		{100, "100"},
		{0.5, "0.5"},
		{0.123456789123, "0.12345679"},
		{0.999999999, "1"},
		{-0.000000001, "0"},
		{math.Copysign(0, -1), "0"},
		{math.NaN(), "0"},
		{1.0 / 3.0, "0.33333333"},
	}

	for _, tt := range tests {
		if got := RoundTrim(tt.in); got != tt.want {
			t.Errorf("RoundTrim(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRound_MatchesRoundTrim(t *testing.T) {
	t.Parallel()

	for _, v := range []float64{0.1234567891, 2.5, -7.000000004} {
		if got, want := RoundTrim(Round(v)), RoundTrim(v); got != want {
			t.Errorf("RoundTrim(Round(%v)) = %q, want %q", v, got, want)
		}
	}
}

func TestParseFloats(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      string
		n       int
		want    []float64
		outcome Outcome
	}{
		{"exact", "1 0 0 1 0 0", 6, []float64{1, 0, 0, 1, 0, 0}, Parsed},
		{"padded", "1 2", 4, []float64{1, 2, 0, 0}, Corrected},
		{"truncated", "1 2 3", 2, []float64{1, 2}, Corrected},
		{"unbounded", "0;0;1;1", 0, []float64{0, 0, 1, 1}, Parsed},
		{"garbage token", "1 x 3", 3, []float64{1, 0, 3}, Defaulted},
		{"empty", "", 0, []float64{}, Parsed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, outcome := ParseFloats(tt.in, tt.n, 0)
			if outcome != tt.outcome {
				t.Errorf("outcome = %v, want %v", outcome, tt.outcome)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("ParseFloats(%q) = %v, want %v", tt.in, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("ParseFloats(%q)[%d] = %v, want %v", tt.in, i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestFormatFloats(t *testing.T) {
	t.Parallel()

	if got := FormatFloats(1, 0.5, -2, 0.000000001); got != "1 0.5 -2 0" {
		t.Errorf("FormatFloats() = %q", got)
	}
	if got := FormatFloats(); got != "" {
		t.Errorf("FormatFloats() with no values = %q, want empty", got)
	}
}

func TestHexRoundTrip(t *testing.T) {
	t.Parallel()

	rgb, ok := HexToRGB01("#FF8000")
	if !ok {
		t.Fatal("HexToRGB01 rejected a valid colour")
	}
	if rgb[0] != 1 || rgb[2] != 0 || math.Abs(rgb[1]-128.0/255) > 1e-12 {
		t.Errorf("HexToRGB01 = %v", rgb)
	}
	if got := RGB01ToHex(rgb[0], rgb[1], rgb[2]); got != "FF8000" {
		t.Errorf("RGB01ToHex = %q, want FF8000", got)
	}

	lower, ok := HexToRGB01("ff8000")
	if !ok || lower != rgb {
		t.Errorf("lowercase hex decoded to %v, ok=%v", lower, ok)
	}
}

func TestHexToRGB01_Invalid(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"", "FFF", "FF80001", "GG0000", "#12345"} {
		if _, ok := HexToRGB01(in); ok {
			t.Errorf("HexToRGB01(%q) should fail", in)
		}
	}
}

func TestRGB01ToHex_Clamps(t *testing.T) {
	t.Parallel()

	if got := RGB01ToHex(-1, 2, math.NaN()); got != "00FF00" {
		t.Errorf("RGB01ToHex clamping = %q, want 00FF00", got)
	}
}

func TestIsHex(t *testing.T) {
	t.Parallel()

	if !IsHex("0aF9") || IsHex("0aZ9") {
		t.Error("IsHex misclassified input")
	}
}
