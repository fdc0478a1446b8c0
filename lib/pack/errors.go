// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pack

import "errors"

// Sentinel errors returned by package pack. Callers should use
// errors.Is against these rather than comparing error strings — every
// error returned by Pack/Encode/Unpack/Size is one of these, either
// directly or wrapped with fmt.Errorf("...: %w", ...) for additional
// context. Register's error for a conflicting re-registration wraps
// none of them.
var (
	// ErrEOF is returned when a decoder reads past the end of the
	// input buffer.
	ErrEOF = errors.New("objpack: unexpected end of input")

	// ErrInvalidTag is returned when a tag byte is 0x00 or an
	// undefined kind/width combination.
	ErrInvalidTag = errors.New("objpack: invalid tag")

	// ErrBadLength is returned when a length prefix decodes to a
	// negative value, or when size() is given a buffer whose length
	// is not exactly 1, 2, 4, or 8 bytes.
	ErrBadLength = errors.New("objpack: bad length prefix")

	// ErrBadEncoding is returned when UTF-8 validation fails on a STR
	// payload.
	ErrBadEncoding = errors.New("objpack: invalid UTF-8 in string payload")

	// ErrRecursion is returned when container nesting exceeds the
	// configured recursion depth, during either packing or unpacking.
	ErrRecursion = errors.New("objpack: maximum recursion depth exceeded")

	// ErrOverflow is returned when packing an integer too large to
	// represent even as an unsigned 64-bit value.
	ErrOverflow = errors.New("objpack: integer too large to pack")

	// ErrNotRegistered is returned when a CLASS or SINGLETON identity
	// is not present in the registry at decode time.
	ErrNotRegistered = errors.New("objpack: identity not registered")

	// ErrBadReduce is returned when a Reducer's Reduce method, or a
	// Register call, produces a value of the wrong shape.
	ErrBadReduce = errors.New("objpack: malformed reduction")

	// ErrTypeUnpackable is returned when a value has no Reducer and is
	// not one of the built-in kinds, and by Register when a handle
	// implements neither Class nor Named.
	ErrTypeUnpackable = errors.New("objpack: value cannot be packed")

	// ErrBadState is returned when a reconstruction step (SetState,
	// Extend, or Update and their fallbacks) fails.
	ErrBadState = errors.New("objpack: instance reconstruction failed")
)
