// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package pack implements a compact, typed binary codec for
// inter-process object exchange on a single host.
//
// Every encoded value begins with a one-byte tag whose high nibble
// names a kind (integer, string, tuple, dict, ...) and whose low
// nibble is either a fixed subtype id or a width code selecting how
// many bytes the following length prefix occupies. Numeric and length
// fields are written little-endian, in the narrowest width that holds
// them exactly, mirroring the encoder/decoder pair this package is
// modeled on.
//
// The value universe is the closed set of types in types.go: nil,
// bool, the Go integer kinds, float64, complex128, string, []byte,
// ByteArray, Tuple, List, Dict, Set, FrozenSet, plus three identity
// kinds — ClassRef, Singleton, and Instance — used to exchange
// references to registered types and values and to reconstruct
// instances of them. A Registry resolves CLASS and SINGLETON
// identities during decode only; Pack never performs a registry
// lookup.
//
// Values that are not already one of the builtin kinds can still be
// packed by implementing Reducer, returning a Reduction that names
// either a registered singleton or a constructor plus optional
// state/extend/update reconstruction steps, applied in that order by
// Unpack via the Class, StateSetter/DictMerger, Extender/ConcatAdder,
// and Updater/PairSetter interfaces.
//
// Pack/Unpack produce and consume self-delimiting bytes with no outer
// length; Encode additionally prepends a width byte and a length
// field so a transport can frame the message, and Size decodes that
// length field back out of an exactly 1, 2, 4, or 8 byte buffer.
package pack
