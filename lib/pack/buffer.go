// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pack

import "encoding/binary"

// buffer is a growable, append-only byte vector. It doubles capacity
// on growth, mirroring the original C implementation's
// __msg_resize__ (alloc = max(needed, alloc*2)) rather than relying
// on Go's append() growth heuristics, so that repeated small writes
// during deep container packing amortize the same way the reference
// implementation does.
type buffer struct {
	data []byte
}

const initialBufferCapacity = 32

func newBuffer() *buffer {
	return &buffer{data: make([]byte, 0, initialBufferCapacity)}
}

// grow ensures at least n additional bytes of spare capacity.
func (b *buffer) grow(n int) {
	needed := len(b.data) + n
	if needed <= cap(b.data) {
		return
	}
	newCap := cap(b.data) * 2
	if newCap < needed {
		newCap = needed
	}
	if newCap < initialBufferCapacity {
		newCap = initialBufferCapacity
	}
	grown := make([]byte, len(b.data), newCap)
	copy(grown, b.data)
	b.data = grown
}

// writeTag appends a single tag byte.
func (b *buffer) writeTag(t tag) {
	b.grow(1)
	b.data = append(b.data, byte(t))
}

// writeTagAndBytes appends a tag byte followed by p verbatim.
func (b *buffer) writeTagAndBytes(t tag, p []byte) {
	b.grow(1 + len(p))
	b.data = append(b.data, byte(t))
	b.data = append(b.data, p...)
}

// writeTagAndBuffers appends a tag byte, then p1, then p2 — used for
// length-prefixed payloads (tag, length bytes, data bytes) without an
// intermediate allocation to concatenate them.
func (b *buffer) writeTagAndBuffers(t tag, p1, p2 []byte) {
	b.grow(1 + len(p1) + len(p2))
	b.data = append(b.data, byte(t))
	b.data = append(b.data, p1...)
	b.data = append(b.data, p2...)
}

// bytes returns the accumulated buffer contents. The returned slice
// aliases the buffer's backing array and must not be retained past
// further writes.
func (b *buffer) bytes() []byte {
	return b.data
}

// writeFramed appends tag(kind|W) followed by L(W) and then payload
// verbatim, where W is the narrowest width able to hold len(payload).
// This is the length-prefixed framing spec §4.4 defines for CLASS,
// SINGLETON, and INSTANCE: each first packs its inner content (a pair
// of strings, a single string, or a tuple, respectively) into a
// scratch buffer, then wraps that scratch buffer's bytes with this
// framing.
func (b *buffer) writeFramed(kind tag, payload []byte) {
	width := lengthWidth(int64(len(payload)))
	b.writeTagAndBuffers(withWidth(kind, width), encodeFixedWidth(int64(len(payload)), width), payload)
}

// encodeFixedWidth writes n as a little-endian two's-complement integer in
// exactly width bytes (1, 2, 4, or 8), per §4.1. Width must already
// have been selected via lengthWidth or intWidth.
func encodeFixedWidth(n int64, width byte) []byte {
	out := make([]byte, width)
	switch width {
	case 1:
		out[0] = byte(int8(n))
	case 2:
		binary.LittleEndian.PutUint16(out, uint16(int16(n)))
	case 4:
		binary.LittleEndian.PutUint32(out, uint32(int32(n)))
	case 8:
		binary.LittleEndian.PutUint64(out, uint64(n))
	}
	return out
}

// decodeFixedWidth sign-extends a width-byte little-endian two's
// complement integer back to int64.
func decodeFixedWidth(p []byte) int64 {
	switch len(p) {
	case 1:
		return int64(int8(p[0]))
	case 2:
		return int64(int16(binary.LittleEndian.Uint16(p)))
	case 4:
		return int64(int32(binary.LittleEndian.Uint32(p)))
	case 8:
		return int64(binary.LittleEndian.Uint64(p))
	default:
		return 0
	}
}
