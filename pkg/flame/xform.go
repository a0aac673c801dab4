// SPDX-License-Identifier: MPL-2.0

package flame

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/flamekit/flamekit/pkg/affine"
	"github.com/flamekit/flamekit/pkg/numstr"
	"github.com/flamekit/flamekit/pkg/variation"
)

// DefaultWeight is the weight of a new iterator.
const DefaultWeight = 0.5

// OffName is the reserved name token written for inactive iterators.
const OffName = "OFF"

var (
	// IteratorLimits are the slot ceilings of a regular iterator.
	IteratorLimits = Limits{Pre: 2, Var: 4, Post: 1}
	// FinalLimits are the slot ceilings of the final xform.
	FinalLimits = Limits{Pre: 1, Var: 2, Post: 2}

	// ErrSlotOverflow is the sentinel error wrapped by SlotOverflowError.
	ErrSlotOverflow = errors.New("variation section is full")
	// ErrNegativeSlotWeight is the sentinel error wrapped by NegativeSlotWeightError.
	ErrNegativeSlotWeight = errors.New("negative PRE/POST variation weight")
	// ErrUnknownSlotVariation is the sentinel error wrapped by UnknownSlotVariationError.
	ErrUnknownSlotVariation = errors.New("slot references an unregistered variation")
	// ErrReservedValue is the sentinel error wrapped by ReservedValueError.
	ErrReservedValue = errors.New("value cannot be written as flame XML")

	blurID, _ = variation.Lookup("blur")
)

type (
	// Limits caps the number of populated slots per section.
	Limits struct {
		Pre, Var, Post int
	}

	// Slot is one populated variation of an xform.
	Slot struct {
		Kind   variation.Section
		ID     variation.ID
		Weight float64
		// Params is the flattened parameter payload in registry group order.
		Params []float64
	}

	// XForm is one iterator (or the final xform) of a preset.
	XForm struct {
		Weight float64
		// Active is false for iterators written under the OFF name token.
		Active bool
		Note   string

		Pre  affine.Affine
		Post affine.Affine

		Slots   []Slot
		PreBlur float64

		// Xaos is the sparse "to" row; missing entries are 1.
		Xaos []float64

		Color   float64
		Speed   float64
		Opacity float64
	}

	// SlotOverflowError is returned when a section holds more slots than its limit.
	SlotOverflowError struct {
		Section variation.Section
		Count   int
		Limit   int
	}

	// NegativeSlotWeightError is returned when a PRE or POST slot weight is negative.
	NegativeSlotWeightError struct {
		Slot Slot
	}

	// UnknownSlotVariationError is returned when a slot ID is outside the registry.
	UnknownSlotVariationError struct {
		ID variation.ID
	}

	// ReservedValueError is returned for a value whose attribute the format reserves for
	// something else. Reason is one of the Conflict reasons.
	ReservedValueError struct {
		Reason string
	}
)

// Error implements the error interface.
func (e *SlotOverflowError) Error() string {
	return fmt.Sprintf("%s section holds %d variations (limit %d)", e.Section, e.Count, e.Limit)
}

// Unwrap returns ErrSlotOverflow for errors.Is() compatibility.
func (e *SlotOverflowError) Unwrap() error { return ErrSlotOverflow }

// Error implements the error interface.
func (e *NegativeSlotWeightError) Error() string {
	return fmt.Sprintf("%s %s weight %s is negative", e.Slot.Kind, e.Slot.ID, numstr.RoundTrim(e.Slot.Weight))
}

// Unwrap returns ErrNegativeSlotWeight for errors.Is() compatibility.
func (e *NegativeSlotWeightError) Unwrap() error { return ErrNegativeSlotWeight }

// Error implements the error interface.
func (e *UnknownSlotVariationError) Error() string {
	return fmt.Sprintf("variation id %d is not registered", int(e.ID))
}

// Unwrap returns ErrUnknownSlotVariation for errors.Is() compatibility.
func (e *UnknownSlotVariationError) Unwrap() error { return ErrUnknownSlotVariation }

// Error implements the error interface.
func (e *ReservedValueError) Error() string { return e.Reason }

// Unwrap returns ErrReservedValue for errors.Is() compatibility.
func (e *ReservedValueError) Unwrap() error { return ErrReservedValue }

// Of returns the ceiling for section s.
func (l Limits) Of(s variation.Section) int {
	switch s {
	case variation.Pre:
		return l.Pre
	case variation.Var:
		return l.Var
	case variation.Post:
		return l.Post
	default:
		return 0
	}
}

// CoerceWeight returns the weight stored for a slot of kind. PRE and POST weights are
// never negative; VAR weights are kept as given.
func CoerceWeight(kind variation.Section, w float64) float64 {
	if kind == variation.Var {
		return w
	}
	return math.Abs(w)
}

// NewSlot returns a slot of kind for id with the registry's default parameters.
func NewSlot(kind variation.Section, id variation.ID, weight float64) Slot {
	s := Slot{Kind: kind, ID: id, Weight: CoerceWeight(kind, weight)}
	if d, ok := variation.ByID(id); ok && d.Parametric() {
		s.Params = d.Defaults()
	}
	return s
}

// Key returns the attribute name of the slot's weight under the native naming.
func (s Slot) Key() string {
	return s.Kind.Prefix() + s.ID.String()
}

// Clone returns an independent copy of s.
func (s Slot) Clone() Slot {
	s.Params = slices.Clone(s.Params)
	return s
}

// NewXForm returns an active iterator with default weight, identity affines, full opacity
// and linear at weight 1.
func NewXForm() XForm {
	return XForm{
		Weight:  DefaultWeight,
		Active:  true,
		Pre:     affine.Identity(),
		Post:    affine.Identity(),
		Slots:   []Slot{NewSlot(variation.Var, 0, 1)},
		Opacity: 1,
	}
}

// NewFinal returns an empty final xform: identity affines and no populated slots.
func NewFinal() XForm {
	return XForm{
		Active:  true,
		Pre:     affine.Identity(),
		Post:    affine.Identity(),
		Opacity: 1,
	}
}

// Section returns the populated slots of section s in order.
func (x XForm) Section(s variation.Section) []Slot {
	var out []Slot
	for _, slot := range x.Slots {
		if slot.Kind == s && slot.Weight != 0 {
			out = append(out, slot)
		}
	}
	return out
}

// Populated returns every slot with non-zero weight in order.
func (x XForm) Populated() []Slot {
	var out []Slot
	for _, slot := range x.Slots {
		if slot.Weight != 0 {
			out = append(out, slot)
		}
	}
	return out
}

// AddSlot appends slot when its section has room under limits. The weight is coerced for
// the slot's kind. It reports whether the slot was added.
func (x *XForm) AddSlot(slot Slot, limits Limits) bool {
	if slot.Weight != 0 && len(x.Section(slot.Kind)) >= limits.Of(slot.Kind) {
		return false
	}
	slot.Weight = CoerceWeight(slot.Kind, slot.Weight)
	x.Slots = append(x.Slots, slot)
	return true
}

// HasPreBlurSlot reports whether x holds a populated PRE blur slot. The XML format keys that
// slot as pre_blur, the attribute of the PreBlur scalar.
func (x XForm) HasPreBlurSlot() bool {
	return slices.ContainsFunc(x.Section(variation.Pre), func(s Slot) bool { return s.ID == blurID })
}

// HasPost reports whether the post-affine is written.
func (x XForm) HasPost() bool { return !affine.IsDefault(x.Post) }

// IsValid checks slot ceilings, registry membership and weight signs.
func (x XForm) IsValid(limits Limits) (bool, []error) {
	var errs []error
	for _, s := range []variation.Section{variation.Pre, variation.Var, variation.Post} {
		if n := len(x.Section(s)); n > limits.Of(s) {
			errs = append(errs, &SlotOverflowError{Section: s, Count: n, Limit: limits.Of(s)})
		}
	}
	for _, slot := range x.Slots {
		if _, ok := variation.ByID(slot.ID); !ok {
			errs = append(errs, &UnknownSlotVariationError{ID: slot.ID})
			continue
		}
		if slot.Kind != variation.Var && slot.Weight < 0 {
			errs = append(errs, &NegativeSlotWeightError{Slot: slot})
		}
	}
	return len(errs) == 0, errs
}

// ColorSpeed converts a symmetry value to the Apophysis/Fractorium color_speed attribute.
func ColorSpeed(symmetry float64) float64 { return (1 - symmetry) / 2 }

// SymmetryFromColorSpeed inverts ColorSpeed.
func SymmetryFromColorSpeed(speed float64) float64 { return numstr.Round(1 - 2*speed) }

// Clone returns an independent copy of x.
func (x XForm) Clone() XForm {
	x.Slots = slices.Clone(x.Slots)
	for i, s := range x.Slots {
		x.Slots[i] = s.Clone()
	}
	x.Xaos = slices.Clone(x.Xaos)
	return x
}
