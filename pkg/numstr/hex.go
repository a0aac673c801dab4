// SPDX-License-Identifier: MPL-2.0

package numstr

import (
	"math"
	"strings"
)

const hexDigits = "0123456789ABCDEF"

// HexToRGB01 decodes a 6-digit hex colour ("FF8000", optionally "#"-prefixed) into three
// channels in [0,1]. ok is false when the text is not exactly six hex digits.
func HexToRGB01(hex string) (rgb [3]float64, ok bool) {
	hex = strings.TrimPrefix(strings.TrimSpace(hex), "#")
	if len(hex) != 6 {
		return rgb, false
	}
	for i := range 3 {
		hi, okHi := hexValue(hex[2*i])
		lo, okLo := hexValue(hex[2*i+1])
		if !okHi || !okLo {
			return [3]float64{}, false
		}
		rgb[i] = float64(hi<<4|lo) / 255
	}
	return rgb, true
}

// RGB01ToHex encodes three [0,1] channels as 6 uppercase hex digits. Channels are clamped.
func RGB01ToHex(r, g, b float64) string {
	var buf [6]byte
	for i, c := range [3]float64{r, g, b} {
		v := Channel255(c)
		buf[2*i] = hexDigits[v>>4]
		buf[2*i+1] = hexDigits[v&0x0F]
	}
	return string(buf[:])
}

// Channel255 maps a [0,1] channel to 0..255 with clamping and rounding.
func Channel255(c float64) uint8 {
	if math.IsNaN(c) || c <= 0 {
		return 0
	}
	if c >= 1 {
		return 255
	}
	return uint8(math.Round(c * 255))
}

// IsHex reports whether s consists only of hex digits.
func IsHex(s string) bool {
	for i := 0; i < len(s); i++ {
		if _, ok := hexValue(s[i]); !ok {
			return false
		}
	}
	return true
}

func hexValue(c byte) (uint8, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	default:
		return 0, false
	}
}
