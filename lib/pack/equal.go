// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pack

import "bytes"

// ValueEqual reports whether a and b are structurally equal under the
// round-trip law of §8: elementwise and length-equal for Tuple/List,
// dict-equality for Dict, set-equality for Set/FrozenSet. It is the
// comparison round-trip tests should use instead of
// reflect.DeepEqual, which gets container and map semantics wrong for
// this package's types (Dict key order and Set element order are
// explicitly not part of the wire contract).
func ValueEqual(a, b any) bool {
	switch av := a.(type) {
	case []byte:
		bv, ok := b.([]byte)
		return ok && bytes.Equal(av, bv)
	case ByteArray:
		bv, ok := b.(ByteArray)
		return ok && bytes.Equal(av, bv)
	case Tuple:
		bv, ok := b.(Tuple)
		return ok && sequenceEqual(av, bv)
	case List:
		bv, ok := b.(List)
		return ok && sequenceEqual(av, bv)
	case Dict:
		bv, ok := b.(Dict)
		return ok && DictEqual(av, bv)
	case Set:
		bv, ok := b.(Set)
		return ok && SetEqual(av, bv)
	case FrozenSet:
		bv, ok := b.(FrozenSet)
		return ok && SetEqual(av, bv)
	default:
		return a == b
	}
}

func sequenceEqual(a, b []any) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !ValueEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

// DictEqual reports whether two Dicts hold the same set of key-value
// pairs, ignoring order.
func DictEqual(a, b Dict) bool {
	if len(a) != len(b) {
		return false
	}
	used := make([]bool, len(b))
	for _, ea := range a {
		found := false
		for i, eb := range b {
			if used[i] {
				continue
			}
			if ValueEqual(ea.Key, eb.Key) && ValueEqual(ea.Value, eb.Value) {
				used[i] = true
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// SetEqual reports whether two element slices hold the same elements,
// ignoring order and representation (Set vs FrozenSet).
func SetEqual(a, b []any) bool {
	if len(a) != len(b) {
		return false
	}
	used := make([]bool, len(b))
	for _, ea := range a {
		found := false
		for i, eb := range b {
			if used[i] {
				continue
			}
			if ValueEqual(ea, eb) {
				used[i] = true
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}
