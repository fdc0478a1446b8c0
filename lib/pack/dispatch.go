// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pack

import (
	"fmt"
	"math/big"
)

// encoder carries the per-call state for one Pack/PackWith invocation:
// the output buffer and the current container nesting depth. A fresh
// encoder is created for every call, so concurrent Pack calls never
// share mutable state and need no locking of their own.
type encoder struct {
	buf   *buffer
	depth int
}

// decoder carries the per-call state for one Unpack/UnpackWith
// invocation: the input slice, read cursor, nesting depth, and the
// registry consulted for CLASS/SINGLETON identities.
type decoder struct {
	data     []byte
	pos      int
	depth    int
	registry *Registry
}

func (d *decoder) readByte() (byte, error) {
	if d.pos >= len(d.data) {
		return 0, ErrEOF
	}
	b := d.data[d.pos]
	d.pos++
	return b, nil
}

func (d *decoder) readTag() (tag, error) {
	b, err := d.readByte()
	return tag(b), err
}

func (d *decoder) readN(n int) ([]byte, error) {
	if n < 0 || n > len(d.data)-d.pos {
		return nil, ErrEOF
	}
	p := d.data[d.pos : d.pos+n]
	d.pos += n
	return p, nil
}

func (d *decoder) readLength(width byte) (int64, error) {
	p, err := d.readN(int(width))
	if err != nil {
		return 0, err
	}
	n := decodeFixedWidth(p)
	if n < 0 {
		return 0, ErrBadLength
	}
	return n, nil
}

// encodeValue dispatches v to its wire encoding by concrete type
// first, then by the Class/Named/Reducer interfaces, in that order —
// so that a value which happens to also implement one of those
// interfaces but matches one of the builtin wire kinds above encodes
// as the builtin kind, not as a reduction.
func (e *encoder) encodeValue(v any) error {
	switch val := v.(type) {
	case nil:
		encodeNone(e.buf)
		return nil
	case bool:
		encodeBool(e.buf, val)
		return nil
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, *big.Int:
		return encodeGenericInt(e.buf, val)
	case float64:
		encodeFloat(e.buf, val)
		return nil
	case float32:
		encodeFloat(e.buf, float64(val))
		return nil
	case complex128:
		encodeComplex(e.buf, val)
		return nil
	case complex64:
		encodeComplex(e.buf, complex128(val))
		return nil
	case string:
		encodeStr(e.buf, val)
		return nil
	case []byte:
		encodeBytes(e.buf, val)
		return nil
	case ByteArray:
		encodeByteArray(e.buf, val)
		return nil
	case Tuple:
		return e.encodeSequence(tagTuple, val)
	case List:
		return e.encodeSequence(tagList, val)
	case Dict:
		return e.encodeDict(val)
	case Set:
		return e.encodeSequence(tagSet, val)
	case FrozenSet:
		return e.encodeSequence(tagFrozenSet, val)
	case ClassRef:
		return e.encodeClassRef(val)
	case Singleton:
		return e.encodeSingletonName(val.Name)
	case Instance:
		return e.encodeInstance(val.Callable, val.Args, val.State, val.Extend, val.Update)
	}

	if c, ok := v.(Class); ok {
		return e.encodeClassRef(c.ClassRef())
	}
	if n, ok := v.(Named); ok {
		return e.encodeSingletonName(n.SingletonName())
	}
	if r, ok := v.(Reducer); ok {
		red, err := r.Reduce()
		if err != nil {
			return fmt.Errorf("%w: Reduce: %v", ErrBadReduce, err)
		}
		if red.SingletonName != "" {
			return e.encodeSingletonName(red.SingletonName)
		}
		return e.encodeInstance(red.Callable, red.Args, red.State, red.Extend, red.Update)
	}
	return fmt.Errorf("%w: %T", ErrTypeUnpackable, v)
}

func (d *decoder) decodeValue() (any, error) {
	t, err := d.readTag()
	if err != nil {
		return nil, err
	}

	switch t {
	case tagInt1, tagInt2, tagInt4, tagInt8:
		p, err := d.readN(int(t))
		if err != nil {
			return nil, err
		}
		return decodeInt(p), nil
	case tagUint:
		p, err := d.readN(8)
		if err != nil {
			return nil, err
		}
		return decodeUint(p), nil
	case tagFloat:
		p, err := d.readN(8)
		if err != nil {
			return nil, err
		}
		return decodeFloat(p), nil
	case tagComplex:
		p, err := d.readN(16)
		if err != nil {
			return nil, err
		}
		return decodeComplex(p), nil
	case tagNone:
		return nil, nil
	case tagTrue:
		return true, nil
	case tagFalse:
		return false, nil
	}

	kind := t & kindMask
	width := byte(t & widthMask)
	switch width {
	case 1, 2, 4, 8:
	default:
		return nil, unsupportedContainer(t)
	}
	switch kind {
	case tagStr & kindMask:
		n, err := d.readLength(width)
		if err != nil {
			return nil, err
		}
		p, err := d.readN(int(n))
		if err != nil {
			return nil, err
		}
		return decodeStr(p)
	case tagBytes & kindMask:
		n, err := d.readLength(width)
		if err != nil {
			return nil, err
		}
		p, err := d.readN(int(n))
		if err != nil {
			return nil, err
		}
		return append([]byte(nil), p...), nil
	case tagByteArray & kindMask:
		n, err := d.readLength(width)
		if err != nil {
			return nil, err
		}
		p, err := d.readN(int(n))
		if err != nil {
			return nil, err
		}
		return ByteArray(append([]byte(nil), p...)), nil
	case tagTuple & kindMask:
		n, err := d.readLength(width)
		if err != nil {
			return nil, err
		}
		items, err := d.decodeSequence(n)
		if err != nil {
			return nil, err
		}
		return Tuple(items), nil
	case tagList & kindMask:
		n, err := d.readLength(width)
		if err != nil {
			return nil, err
		}
		items, err := d.decodeSequence(n)
		if err != nil {
			return nil, err
		}
		return List(items), nil
	case tagDict & kindMask:
		n, err := d.readLength(width)
		if err != nil {
			return nil, err
		}
		return d.decodeDict(n)
	case tagSet & kindMask:
		n, err := d.readLength(width)
		if err != nil {
			return nil, err
		}
		items, err := d.decodeSequence(n)
		if err != nil {
			return nil, err
		}
		return Set(items), nil
	case tagFrozenSet & kindMask:
		n, err := d.readLength(width)
		if err != nil {
			return nil, err
		}
		items, err := d.decodeSequence(n)
		if err != nil {
			return nil, err
		}
		return FrozenSet(items), nil
	case tagClass & kindMask:
		payload, err := d.readFramedPayload(width)
		if err != nil {
			return nil, err
		}
		return d.decodeClass(payload)
	case tagSingleton & kindMask:
		payload, err := d.readFramedPayload(width)
		if err != nil {
			return nil, err
		}
		return d.decodeSingleton(payload)
	case tagInstance & kindMask:
		payload, err := d.readFramedPayload(width)
		if err != nil {
			return nil, err
		}
		return d.decodeInstance(payload)
	default:
		return nil, unsupportedContainer(t)
	}
}

// readFramedPayload reads the L(W)-prefixed byte payload that follows
// a CLASS, SINGLETON, or INSTANCE tag: width bytes naming the payload
// length, then that many bytes of inner content (spec §4.4).
func (d *decoder) readFramedPayload(width byte) ([]byte, error) {
	n, err := d.readLength(width)
	if err != nil {
		return nil, err
	}
	return d.readN(int(n))
}

// Pack encodes v using DefaultRegistry.
func Pack(v any) ([]byte, error) {
	return PackWith(v)
}

// PackWith encodes v into its wire representation. Packing never
// consults a registry: Class and Named values, and the singleton/
// instance reductions produced by Reducer, always encode their
// identity directly.
func PackWith(v any) ([]byte, error) {
	e := &encoder{buf: newBuffer()}
	if err := e.encodeValue(v); err != nil {
		return nil, err
	}
	return e.buf.bytes(), nil
}

// Unpack decodes a single value from data using DefaultRegistry,
// requiring the entire slice to be consumed.
func Unpack(data []byte) (any, error) {
	return UnpackWith(DefaultRegistry, data)
}

// UnpackWith decodes a single value from data using r to resolve CLASS
// and SINGLETON identities.
func UnpackWith(r *Registry, data []byte) (any, error) {
	d := &decoder{data: data, registry: r}
	v, err := d.decodeValue()
	if err != nil {
		return nil, err
	}
	if d.pos != len(d.data) {
		return nil, fmt.Errorf("%w: %d trailing byte(s) after decoded value", ErrInvalidTag, len(d.data)-d.pos)
	}
	return v, nil
}

// Encode packs v, then prepends the outer frame described in spec
// §4.5/§6.1: one byte W naming the width of the length field that
// follows, then the packed payload's length in W little-endian bytes,
// then the payload itself. This is the only entry point that produces
// a self-framed message; pack/PackWith's output carries no outer
// length and is meant for a caller that already knows (or separately
// transmits) how many bytes to read.
func Encode(v any) ([]byte, error) {
	return EncodeWith(v)
}

// EncodeWith is Encode with an explicit PackWith call underneath; it
// exists for symmetry with PackWith/UnpackWith even though encoding
// never consults a registry.
func EncodeWith(v any) ([]byte, error) {
	payload, err := PackWith(v)
	if err != nil {
		return nil, err
	}
	width := lengthWidth(int64(len(payload)))
	out := make([]byte, 0, 1+int(width)+len(payload))
	out = append(out, width)
	out = append(out, encodeFixedWidth(int64(len(payload)), width)...)
	out = append(out, payload...)
	return out, nil
}

// Size decodes data as a signed little-endian integer, per spec §4.5:
// it is the operation a transport uses to read the W-byte length
// field that follows the leading width byte of an Encode-produced
// frame. data must be exactly 1, 2, 4, or 8 bytes; any other length is
// ErrBadLength.
func Size(data []byte) (int64, error) {
	switch len(data) {
	case 1, 2, 4, 8:
		return decodeFixedWidth(data), nil
	default:
		return 0, fmt.Errorf("%w: size() requires a 1, 2, 4, or 8 byte buffer, got %d", ErrBadLength, len(data))
	}
}
