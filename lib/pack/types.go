// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pack

// This file defines the Go realization of the value universe V
// (spec.md §3). Go has no dynamic "any object" type with a fixed
// closed set of builtin kinds, so V is modeled as `any` holding either
// a native Go type (nil, bool, integers, float64, complex128, string,
// []byte) or one of the exported wrapper types below. See SPEC_FULL.md
// §"Go realization of the data model" for the full mapping table.

// ByteArray distinguishes a mutable byte sequence (wire kind
// BYTEARRAY) from an immutable one ([]byte, wire kind BYTES). The two
// have identical Go representations but different tags on the wire.
type ByteArray []byte

// Tuple is an ordered, immutable sequence (wire kind TUPLE).
type Tuple []any

// List is an ordered, mutable sequence (wire kind LIST). Identical
// representation to Tuple; distinguished only by its wire tag.
type List []any

// DictEntry is one key-value pair of a Dict.
type DictEntry struct {
	Key   any
	Value any
}

// Dict is a finite sequence of key-value pairs (wire kind DICT).
// Represented as an ordered slice rather than a Go map because dict
// keys in the source data model may themselves be containers, which
// are not valid Go map keys. Encoding preserves slice order; decoding
// reconstructs the same order it read. Equality between two Dicts
// should be tested with DictEqual, which compares as an unordered
// collection of pairs per the spec's dict-equality contract, not with
// reflect.DeepEqual (which would wrongly require matching order).
type Dict []DictEntry

// Get returns the value associated with key and whether it was found.
// Uses ValueEqual for key comparison (see equal.go).
func (d Dict) Get(key any) (any, bool) {
	for _, entry := range d {
		if ValueEqual(entry.Key, key) {
			return entry.Value, true
		}
	}
	return nil, false
}

// Set is a finite, mutable collection with no defined iteration order
// (wire kind SET). Element order on the wire is implementation-defined
// and, per §9, not part of the contract — tests must compare sets with
// SetEqual, not byte-for-byte.
type Set []any

// FrozenSet is the immutable counterpart of Set (wire kind FROZENSET).
type FrozenSet []any

// ClassRef is a reference to a registered type, identified by its
// (module, qualname) pair (wire kind CLASS). Packing a value that
// implements Class encodes its ClassRef() directly; decoding a CLASS
// tag looks up the encoded ClassRef in the registry and returns the
// registered Class handle.
type ClassRef struct {
	Module   string
	Qualname string
}

// Singleton is the wire-level marker for a registered singleton value
// (wire kind SINGLETON), carrying only its canonical name. It never
// appears as a decoded value itself — decoding a SINGLETON tag looks
// the name up in the registry and returns the registered handle.
// Packing a Singleton writes a SINGLETON tag for Name directly, the
// same encoding a Reduction with a non-empty SingletonName produces;
// most callers never construct one directly.
type Singleton struct {
	Name string
}

// Instance is the Go realization of an instance reduction (wire kind
// INSTANCE): a constructor reference, its arguments, and up to three
// optional reconstruction steps applied in order after construction.
// State, Extend, and Update are nil when absent.
type Instance struct {
	Callable any
	Args     Tuple
	State    any
	Extend   any
	Update   any
}

// Reduction is returned by Reducer.Reduce. A non-empty SingletonName
// means "this value reduces to the registered singleton of this
// name"; otherwise Callable/Args/State/Extend/Update describe an
// instance reduction exactly like Instance.
type Reduction struct {
	SingletonName string

	Callable              any
	Args                  Tuple
	State, Extend, Update any
}

// Reducer is implemented by Go values that are not one of the builtin
// V kinds but can still be packed, by describing how to reconstruct
// them. This is the Go analogue of Python's __reduce__.
type Reducer interface {
	Reduce() (Reduction, error)
}

// Class is implemented by registry handles that can both identify
// themselves on the wire (ClassRef) and construct new instances from
// decoded arguments (New). Packing a Class value directly encodes a
// CLASS tag; packing an Instance whose Callable is a Class encodes an
// INSTANCE tag referencing that class.
type Class interface {
	ClassRef() ClassRef
	New(args Tuple) (any, error)
}

// StateSetter is the primary path for the "state" reconstruction step
// (spec §4.4 step a). If a constructed value does not implement it and
// the state is a Dict, DictMerger is tried as a fallback.
type StateSetter interface {
	SetState(state any) error
}

// DictMerger is the fallback for the "state" reconstruction step when
// the constructed value has no SetState method and state decodes to a
// Dict — the Go analogue of merging into __dict__.
type DictMerger interface {
	MergeState(state Dict) error
}

// Extender is the primary path for the "extend" reconstruction step
// (spec §4.4 step b). ConcatAdder is tried as a fallback.
type Extender interface {
	Extend(arg any) error
}

// ConcatAdder is the fallback for the "extend" step — the Go analogue
// of in-place concatenation or addition (sq_inplace_concat /
// nb_inplace_add in the original).
type ConcatAdder interface {
	ConcatOrAdd(arg any) error
}

// Updater is the primary path for the "update" reconstruction step
// (spec §4.4 step c). PairSetter is tried as a fallback, receiving one
// call per (key, value) pair found by iterating the update argument as
// a Dict or a Tuple/List of pairs.
type Updater interface {
	Update(arg any) error
}

// PairSetter is the fallback for the "update" step.
type PairSetter interface {
	Set(key, value any) error
}
