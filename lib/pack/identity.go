// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pack

import "fmt"

// This file implements the CLASS, SINGLETON, and INSTANCE wire kinds
// (spec §4.4). Each packs its inner content into a scratch buffer
// first, then wraps that scratch buffer with the kind's own tag and
// length prefix (buffer.writeFramed) — the length prefix covers the
// inner bytes, not any count of elements, which is why these three
// kinds carry a byte-length rather than an element-count in their
// width-selected L(W) field. One asymmetry from the reference
// implementation carries over unchanged: encoding a Class or Named
// value writes its identity directly — module/qualname or singleton
// name — with no registry lookup; decoding a CLASS or SINGLETON tag is
// the only place the registry is consulted.
//
// An INSTANCE's optional State/Extend/Update slots are encoded
// positionally within the inner tuple: only the slots up to and
// including the last present one are written, with any earlier absent
// slot written as None rather than omitted, because there is no way to
// skip a slot in the middle of a positional encoding.

// classIdentity returns ID(T) = pack_str(module) ‖ pack_str(qualname),
// the exact byte sequence spec §4.4 defines as a class's registry key
// — not a Go-level struct or string built some other way. Both
// encodeClassRef and the registry use this same helper so the bytes a
// decoder reads off the wire are always the bytes a lookup key was
// built from.
func classIdentity(ref ClassRef) ([]byte, error) {
	inner := &encoder{buf: newBuffer()}
	if err := inner.encodeValue(ref.Module); err != nil {
		return nil, err
	}
	if err := inner.encodeValue(ref.Qualname); err != nil {
		return nil, err
	}
	return inner.buf.bytes(), nil
}

// singletonIdentity returns ID(s) = pack_str(name), the byte sequence
// spec §4.4 defines as a singleton's registry key.
func singletonIdentity(name string) ([]byte, error) {
	inner := &encoder{buf: newBuffer()}
	if err := inner.encodeValue(name); err != nil {
		return nil, err
	}
	return inner.buf.bytes(), nil
}

func (e *encoder) encodeClassRef(ref ClassRef) error {
	id, err := classIdentity(ref)
	if err != nil {
		return err
	}
	e.buf.writeFramed(tagClass, id)
	return nil
}

func (e *encoder) encodeSingletonName(name string) error {
	id, err := singletonIdentity(name)
	if err != nil {
		return err
	}
	e.buf.writeFramed(tagSingleton, id)
	return nil
}

// encodeInstance packs R = (callable, args [, state [, extend [, update]]])
// as a tuple into a scratch buffer, then wraps that buffer with the
// INSTANCE tag and length prefix per spec §4.4.
func (e *encoder) encodeInstance(callable any, args Tuple, state, extend, update any) error {
	if e.depth >= maxDepth {
		return ErrRecursion
	}
	e.depth++
	defer func() { e.depth-- }()

	slots := [3]any{state, extend, update}
	last := -1
	for i, s := range slots {
		if s != nil {
			last = i
		}
	}

	r := make(Tuple, 0, 2+last+1)
	r = append(r, callable, args)
	for i := 0; i <= last; i++ {
		r = append(r, slots[i])
	}

	inner := &encoder{buf: newBuffer(), depth: e.depth}
	if err := inner.encodeSequence(tagTuple, r); err != nil {
		return err
	}
	e.buf.writeFramed(tagInstance, inner.buf.bytes())
	return nil
}

// decodeClass decodes a CLASS payload — the L bytes following a CLASS
// tag's length prefix, i.e. ID(T) = pack_str(module) ‖ pack_str(qualname).
func (d *decoder) decodeClass(payload []byte) (any, error) {
	inner := &decoder{data: payload, registry: d.registry, depth: d.depth}
	moduleV, err := inner.decodeValue()
	if err != nil {
		return nil, err
	}
	qualnameV, err := inner.decodeValue()
	if err != nil {
		return nil, err
	}
	if inner.pos != len(payload) {
		return nil, fmt.Errorf("%w: %d trailing byte(s) in CLASS payload", ErrInvalidTag, len(payload)-inner.pos)
	}
	module, ok := moduleV.(string)
	if !ok {
		return nil, fmt.Errorf("%w: CLASS module is not a string", ErrInvalidTag)
	}
	qualname, ok := qualnameV.(string)
	if !ok {
		return nil, fmt.Errorf("%w: CLASS qualname is not a string", ErrInvalidTag)
	}
	ref := ClassRef{Module: module, Qualname: qualname}
	if c, ok := d.registry.lookupClass(ref); ok {
		return c, nil
	}
	return nil, fmt.Errorf("%w: class %s.%s", ErrNotRegistered, module, qualname)
}

// decodeSingleton decodes a SINGLETON payload, i.e. ID(s) = pack_str(name).
func (d *decoder) decodeSingleton(payload []byte) (any, error) {
	inner := &decoder{data: payload, registry: d.registry, depth: d.depth}
	nameV, err := inner.decodeValue()
	if err != nil {
		return nil, err
	}
	if inner.pos != len(payload) {
		return nil, fmt.Errorf("%w: %d trailing byte(s) in SINGLETON payload", ErrInvalidTag, len(payload)-inner.pos)
	}
	name, ok := nameV.(string)
	if !ok {
		return nil, fmt.Errorf("%w: SINGLETON name is not a string", ErrInvalidTag)
	}
	if n, ok := d.registry.lookupNamed(name); ok {
		return n, nil
	}
	return nil, fmt.Errorf("%w: singleton %q", ErrNotRegistered, name)
}

// decodeInstance decodes an INSTANCE payload: the bytes of a single
// TUPLE value of 2 to 5 elements, (callable, args, [state], [extend],
// [update]).
func (d *decoder) decodeInstance(payload []byte) (any, error) {
	if d.depth >= maxDepth {
		return nil, ErrRecursion
	}
	inner := &decoder{data: payload, registry: d.registry, depth: d.depth + 1}
	v, err := inner.decodeValue()
	if err != nil {
		return nil, err
	}
	if inner.pos != len(payload) {
		return nil, fmt.Errorf("%w: %d trailing byte(s) in INSTANCE payload", ErrInvalidTag, len(payload)-inner.pos)
	}
	r, ok := v.(Tuple)
	if !ok {
		return nil, fmt.Errorf("%w: INSTANCE inner value is not a tuple", ErrBadReduce)
	}
	if len(r) < 2 || len(r) > 5 {
		return nil, fmt.Errorf("%w: INSTANCE tuple has %d elements, want 2-5", ErrBadReduce, len(r))
	}

	callable := r[0]
	args, ok := r[1].(Tuple)
	if !ok {
		return nil, fmt.Errorf("%w: INSTANCE args is not a tuple", ErrBadReduce)
	}
	var slots [3]any
	for i := 2; i < len(r); i++ {
		slots[i-2] = r[i]
	}
	return reconstruct(callable, args, slots[0], slots[1], slots[2])
}
