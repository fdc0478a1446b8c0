// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pack

import "fmt"

// maxDepth bounds container nesting during both encode and decode, the
// Go realization of the reference implementation's recursion guard
// (spec §5, "bounded recursion"). A value nested exactly maxDepth
// containers deep packs and unpacks successfully; one nested
// maxDepth+1 deep fails with ErrRecursion.
const maxDepth = 256

func (e *encoder) encodeSequence(kind tag, items []any) error {
	if e.depth >= maxDepth {
		return ErrRecursion
	}
	e.depth++
	defer func() { e.depth-- }()

	width := lengthWidth(int64(len(items)))
	e.buf.writeTagAndBytes(withWidth(kind, width), encodeFixedWidth(int64(len(items)), width))
	for _, item := range items {
		if err := e.encodeValue(item); err != nil {
			return err
		}
	}
	return nil
}

func (e *encoder) encodeDict(d Dict) error {
	if e.depth >= maxDepth {
		return ErrRecursion
	}
	e.depth++
	defer func() { e.depth-- }()

	width := lengthWidth(int64(len(d)))
	e.buf.writeTagAndBytes(withWidth(tagDict, width), encodeFixedWidth(int64(len(d)), width))
	for _, entry := range d {
		if err := e.encodeValue(entry.Key); err != nil {
			return err
		}
		if err := e.encodeValue(entry.Value); err != nil {
			return err
		}
	}
	return nil
}

func (d *decoder) decodeSequence(count int64) ([]any, error) {
	if d.depth >= maxDepth {
		return nil, ErrRecursion
	}
	d.depth++
	defer func() { d.depth-- }()

	items := make([]any, 0, clampCap(count))
	for i := int64(0); i < count; i++ {
		v, err := d.decodeValue()
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	return items, nil
}

func (d *decoder) decodeDict(count int64) (Dict, error) {
	if d.depth >= maxDepth {
		return nil, ErrRecursion
	}
	d.depth++
	defer func() { d.depth-- }()

	entries := make(Dict, 0, clampCap(count))
	for i := int64(0); i < count; i++ {
		k, err := d.decodeValue()
		if err != nil {
			return nil, err
		}
		v, err := d.decodeValue()
		if err != nil {
			return nil, err
		}
		entries = append(entries, DictEntry{Key: k, Value: v})
	}
	return entries, nil
}

// clampCap bounds a length-prefixed count used as a slice
// preallocation hint, so a corrupt or adversarial length prefix cannot
// force an oversized allocation before any element has actually been
// read.
func clampCap(count int64) int {
	const max = 4096
	if count < 0 {
		return 0
	}
	if count > max {
		return max
	}
	return int(count)
}

func unsupportedContainer(kind tag) error {
	return fmt.Errorf("%w: tag 0x%02x", ErrInvalidTag, byte(kind))
}
