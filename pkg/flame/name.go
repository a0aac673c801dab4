// SPDX-License-Identifier: MPL-2.0

package flame

import (
	"strconv"
	"strings"
)

// NameDivider separates a preset name from its embedded load iteration count.
const NameDivider = "::"

// SplitName separates "Name::64" into its base name and iteration count. ok is false when
// there is no divider or the suffix is not a positive integer; base is then the whole name.
func SplitName(name string) (base string, iterations int, ok bool) {
	i := strings.LastIndex(name, NameDivider)
	if i < 0 {
		return name, 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(name[i+len(NameDivider):]))
	if err != nil || n <= 0 {
		return name, 0, false
	}
	return name[:i], n, true
}

// JoinName appends an iteration suffix to base. A non-positive count returns base.
func JoinName(base string, iterations int) string {
	if iterations <= 0 {
		return base
	}
	return base + NameDivider + strconv.Itoa(iterations)
}

// LoadIterations resolves the iteration count for a preset name: the embedded suffix when
// present and valid, else def.
func LoadIterations(name string, def int) int {
	if _, n, ok := SplitName(name); ok {
		return n
	}
	return def
}
