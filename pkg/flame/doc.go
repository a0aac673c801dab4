// SPDX-License-Identifier: MPL-2.0

// Package flame is the in-memory model of flame documents.
//
// A Document is an ordered list of presets. A Preset carries its iterators (XForm), an
// optional final xform, a palette and the scalar render properties. Variation slots are a
// tagged list (Slot) rather than an attribute bag: the section, registry ID, weight and
// flattened parameters of each populated slot.
//
// Values are plain data. Callers that share a Preset across goroutines should Clone it.
package flame
