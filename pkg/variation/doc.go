// SPDX-License-Identifier: MPL-2.0

// Package variation is the static registry of flame variations.
//
// Every variation has a stable ID (its index), a native name and zero or more parameter
// groups. Three naming conventions are reconciled here so the rest of the codec never does
// string surgery on attribute names:
//
//   - native flam3 names ("julian", "julian_power");
//   - section-prefixed names ("pre_julian", "post_julian_power"), see SplitPrefix;
//   - APO/Fractorium-compatible names and per-application exceptions, see Dialect and Exception.
//
// The registry is built once at package initialization and is read-only afterwards, so it
// is safe for concurrent use.
package variation
