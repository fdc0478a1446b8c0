// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pack

import (
	"encoding/binary"
	"fmt"
	"math"
	"math/big"
	"unicode/utf8"
)

// --- encode ---------------------------------------------------------------

func encodeNone(b *buffer) {
	b.writeTag(tagNone)
}

func encodeBool(b *buffer, v bool) {
	if v {
		b.writeTag(tagTrue)
	} else {
		b.writeTag(tagFalse)
	}
}

// encodeInt picks the narrowest width that represents v exactly and
// writes the INT tag for that width.
func encodeInt(b *buffer, v int64) {
	width := intWidth(v)
	b.writeTagAndBytes(withWidth(0, width), encodeFixedWidth(v, width))
}

func encodeUint(b *buffer, v uint64) {
	p := make([]byte, 8)
	binary.LittleEndian.PutUint64(p, v)
	b.writeTagAndBytes(tagUint, p)
}

// encodeGenericInt implements §4.2's packing rule for a generic host
// integer: attempt signed 64-bit, and on positive overflow retry as
// unsigned 64-bit. v may be any Go integer kind or *big.Int.
func encodeGenericInt(b *buffer, v any) error {
	switch n := v.(type) {
	case int:
		encodeInt(b, int64(n))
	case int8:
		encodeInt(b, int64(n))
	case int16:
		encodeInt(b, int64(n))
	case int32:
		encodeInt(b, int64(n))
	case int64:
		encodeInt(b, n)
	case uint:
		return encodeGenericUint64(b, uint64(n))
	case uint8:
		encodeInt(b, int64(n))
	case uint16:
		encodeInt(b, int64(n))
	case uint32:
		encodeInt(b, int64(n))
	case uint64:
		return encodeGenericUint64(b, n)
	case *big.Int:
		return encodeBigInt(b, n)
	default:
		return fmt.Errorf("%w: unsupported integer type %T", ErrTypeUnpackable, v)
	}
	return nil
}

func encodeGenericUint64(b *buffer, v uint64) error {
	if v <= math.MaxInt64 {
		encodeInt(b, int64(v))
		return nil
	}
	encodeUint(b, v)
	return nil
}

func encodeBigInt(b *buffer, v *big.Int) error {
	if v.IsInt64() {
		encodeInt(b, v.Int64())
		return nil
	}
	if v.Sign() > 0 && v.IsUint64() {
		encodeUint(b, v.Uint64())
		return nil
	}
	if v.Sign() < 0 {
		return fmt.Errorf("%w: %s is negative and does not fit in 64 bits", ErrOverflow, v.String())
	}
	return fmt.Errorf("%w: %s does not fit in unsigned 64 bits", ErrOverflow, v.String())
}

func encodeFloat(b *buffer, v float64) {
	p := make([]byte, 8)
	binary.LittleEndian.PutUint64(p, math.Float64bits(v))
	b.writeTagAndBytes(tagFloat, p)
}

func encodeComplex(b *buffer, v complex128) {
	p := make([]byte, 16)
	binary.LittleEndian.PutUint64(p[0:8], math.Float64bits(real(v)))
	binary.LittleEndian.PutUint64(p[8:16], math.Float64bits(imag(v)))
	b.writeTagAndBytes(tagComplex, p)
}

// encodeData writes a length-prefixed STR/BYTES/BYTEARRAY payload.
func encodeData(b *buffer, kind tag, data []byte) {
	width := lengthWidth(int64(len(data)))
	b.writeTagAndBuffers(withWidth(kind, width), encodeFixedWidth(int64(len(data)), width), data)
}

func encodeStr(b *buffer, s string) {
	encodeData(b, tagStr, []byte(s))
}

func encodeBytes(b *buffer, p []byte) {
	encodeData(b, tagBytes, p)
}

func encodeByteArray(b *buffer, p []byte) {
	encodeData(b, tagByteArray, p)
}

// packStrBytes encodes s as a standalone STR value into a fresh
// buffer, outside of a surrounding encode call. Identity bytes are
// computed by classIdentity/singletonIdentity in identity.go, not here.
func packStrBytes(s string) []byte {
	b := newBuffer()
	encodeStr(b, s)
	return b.bytes()
}

// --- decode -----------------------------------------------------------------

func decodeInt(p []byte) int64 {
	return decodeFixedWidth(p)
}

func decodeUint(p []byte) uint64 {
	return binary.LittleEndian.Uint64(p)
}

func decodeFloat(p []byte) float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(p))
}

func decodeComplex(p []byte) complex128 {
	r := math.Float64frombits(binary.LittleEndian.Uint64(p[0:8]))
	i := math.Float64frombits(binary.LittleEndian.Uint64(p[8:16]))
	return complex(r, i)
}

func decodeStr(p []byte) (string, error) {
	if !utf8.Valid(p) {
		return "", ErrBadEncoding
	}
	return string(p), nil
}
