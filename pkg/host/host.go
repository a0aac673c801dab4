// SPDX-License-Identifier: MPL-2.0

// Package host defines the contracts a host application implements to drive flame presets
// through flat, named parameters, and an in-memory implementation of them.
//
// A host (a node graph, a UI, a scripting layer) stores one value per parameter name and
// may animate parameters. Apply pushes a preset into such a store, Capture reads it back,
// and Current picks the preset a selection widget points at.
package host

import (
	"maps"
	"slices"
	"sync"
)

type (
	// ParamStore is a host parameter system keyed by parameter name.
	ParamStore interface {
		Float(name string) (float64, bool)
		SetFloat(name string, v float64)
		String(name string) (string, bool)
		SetString(name string, v string)
		// DeleteAnimation drops any keyframes on name so a set value is not overridden.
		DeleteAnimation(name string)
	}

	// Selection reports the preset index a host UI currently shows. A negative index means
	// nothing is selected.
	Selection interface {
		SelectedIndex() int
	}

	// FixedSelection is a Selection that always returns its own value.
	FixedSelection int

	// MemoryStore is a ParamStore held in maps. It is safe for concurrent use.
	MemoryStore struct {
		mu       sync.RWMutex
		floats   map[string]float64
		strings  map[string]string
		animated map[string]bool
	}
)

// SelectedIndex implements Selection.
func (s FixedSelection) SelectedIndex() int { return int(s) }

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		floats:   map[string]float64{},
		strings:  map[string]string{},
		animated: map[string]bool{},
	}
}

// Float implements ParamStore.
func (m *MemoryStore) Float(name string) (float64, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.floats[name]
	return v, ok
}

// SetFloat implements ParamStore.
func (m *MemoryStore) SetFloat(name string, v float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.strings, name)
	m.floats[name] = v
}

// String implements ParamStore.
func (m *MemoryStore) String(name string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.strings[name]
	return v, ok
}

// SetString implements ParamStore.
func (m *MemoryStore) SetString(name, v string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.floats, name)
	m.strings[name] = v
}

// DeleteAnimation implements ParamStore.
func (m *MemoryStore) DeleteAnimation(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.animated, name)
}

// Animate marks name as animated.
func (m *MemoryStore) Animate(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.animated[name] = true
}

// Animated reports whether name carries keyframes.
func (m *MemoryStore) Animated(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.animated[name]
}

// Keys returns every stored parameter name, sorted.
func (m *MemoryStore) Keys() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	keys := slices.AppendSeq(slices.Collect(maps.Keys(m.floats)), maps.Keys(m.strings))
	slices.Sort(keys)
	return keys
}

// Len returns the number of stored parameters.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.floats) + len(m.strings)
}
