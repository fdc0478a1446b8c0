// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pack

import (
	"errors"
	"fmt"
	"testing"
)

// point is a minimal Class + StateSetter implementation used to
// exercise the INSTANCE reconstruction pipeline end to end.
type point struct {
	X, Y  int64
	label string
}

type pointClass struct{}

func (pointClass) ClassRef() ClassRef { return ClassRef{Module: "geo", Qualname: "Point"} }

func (pointClass) New(args Tuple) (any, error) {
	if len(args) != 2 {
		return nil, errors.New("Point requires exactly 2 arguments")
	}
	x, ok1 := args[0].(int64)
	y, ok2 := args[1].(int64)
	if !ok1 || !ok2 {
		return nil, errors.New("Point arguments must be integers")
	}
	return &point{X: x, Y: y}, nil
}

func (p *point) SetState(state any) error {
	d, ok := state.(Dict)
	if !ok {
		return errors.New("expected Dict state")
	}
	if label, ok := d.Get("label"); ok {
		p.label, _ = label.(string)
	}
	return nil
}

func (p *point) Reduce() (Reduction, error) {
	return Reduction{
		Callable: pointClass{},
		Args:     Tuple{p.X, p.Y},
		State:    Dict{{Key: "label", Value: p.label}},
	}, nil
}

func init() {
	// Registered once for the whole test binary; harmless to
	// re-register the identical handle across tests.
	_ = Register(pointClass{})
}

func TestInstanceRoundTrip(t *testing.T) {
	p := &point{X: 3, Y: 4}
	p.label = "origin"

	data, err := Pack(p)
	if err != nil {
		t.Fatalf("Pack: %v", err)
	}
	got, err := Unpack(data)
	if err != nil {
		t.Fatalf("Unpack: %v", err)
	}
	gp, ok := got.(*point)
	if !ok {
		t.Fatalf("got %T, want *point", got)
	}
	if gp.X != 3 || gp.Y != 4 || gp.label != "origin" {
		t.Errorf("got %+v", gp)
	}
}

func TestClassRoundTrip(t *testing.T) {
	got := roundTrip(t, pointClass{})
	if _, ok := got.(Class); !ok {
		t.Fatalf("got %T, want a Class", got)
	}
}

func TestSingletonRoundTrip(t *testing.T) {
	got := roundTrip(t, NotImplementedSingleton)
	if got != any(NotImplementedSingleton) {
		t.Errorf("got %#v, want NotImplementedSingleton", got)
	}
}

func TestUnregisteredClassFails(t *testing.T) {
	data, err := Pack(ClassRef{Module: "nope", Qualname: "Missing"})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Unpack(data); !errors.Is(err, ErrNotRegistered) {
		t.Errorf("got %v, want ErrNotRegistered", err)
	}
}

func TestRegisterConflict(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(pointClass{}); err != nil {
		t.Fatal(err)
	}
	type other struct{ pointClass }
	if err := r.Register(other{}); err == nil {
		t.Fatal("expected conflict error registering a different handle under the same identity")
	}
}

// dictBag exercises the MergeState/ConcatOrAdd/PairSetter fallback
// paths, for constructed values that don't implement the primary
// SetState/Extend/Update interfaces.
type dictBag struct {
	entries Dict
	extra   []any
}

type dictBagClass struct{}

func (dictBagClass) ClassRef() ClassRef { return ClassRef{Module: "geo", Qualname: "Bag"} }
func (dictBagClass) New(Tuple) (any, error) {
	return &dictBag{}, nil
}

func (b *dictBag) MergeState(state Dict) error {
	b.entries = append(b.entries, state...)
	return nil
}

func (b *dictBag) ConcatOrAdd(arg any) error {
	items, ok := arg.(List)
	if !ok {
		return errors.New("expected List")
	}
	b.extra = append(b.extra, items...)
	return nil
}

func (b *dictBag) Set(key, value any) error {
	b.entries = append(b.entries, DictEntry{Key: key, Value: value})
	return nil
}

func init() {
	_ = Register(dictBagClass{})
}

func TestFallbackReconstructionPaths(t *testing.T) {
	value, err := reconstruct(
		dictBagClass{}, Tuple{},
		Dict{{Key: "a", Value: int64(1)}},
		List{int64(9), int64(8)},
		Dict{{Key: "b", Value: int64(2)}},
	)
	if err != nil {
		t.Fatalf("reconstruct: %v", err)
	}
	bag, ok := value.(*dictBag)
	if !ok {
		t.Fatalf("got %T", value)
	}
	if len(bag.entries) != 2 || len(bag.extra) != 2 {
		t.Errorf("got entries=%v extra=%v", bag.entries, bag.extra)
	}
}

// instanceTupleLen decodes an encodeInstance result down to the inner
// TUPLE's element count, to check that only slots up to and including
// the last present one were written — spec §4.4's "pack R as a tuple
// into a scratch buffer" — rather than just round-tripping through the
// matching decoder, which would hide a wire-format regression.
func instanceTupleLen(t *testing.T, encoded []byte) int {
	t.Helper()
	d := &decoder{data: encoded}
	tg, err := d.readTag()
	if err != nil {
		t.Fatal(err)
	}
	if tg&kindMask != tagInstance&kindMask {
		t.Fatalf("tag 0x%02x is not INSTANCE", byte(tg))
	}
	width := byte(tg & widthMask)
	payload, err := d.readFramedPayload(width)
	if err != nil {
		t.Fatal(err)
	}
	if d.pos != len(d.data) {
		t.Fatalf("%d trailing byte(s) after INSTANCE frame", len(d.data)-d.pos)
	}
	inner := &decoder{data: payload}
	tupleTag, err := inner.readTag()
	if err != nil {
		t.Fatal(err)
	}
	if tupleTag&kindMask != tagTuple&kindMask {
		t.Fatalf("INSTANCE inner tag 0x%02x is not TUPLE", byte(tupleTag))
	}
	n, err := inner.readLength(byte(tupleTag & widthMask))
	if err != nil {
		t.Fatal(err)
	}
	return int(n)
}

func TestOptionalSlotTrimming(t *testing.T) {
	// Only "state" is present; extend/update must not appear on the wire,
	// so the inner tuple has exactly 3 elements (callable, args, state).
	e := &encoder{buf: newBuffer()}
	if err := e.encodeInstance(pointClass{}, Tuple{int64(1), int64(2)}, Dict{}, nil, nil); err != nil {
		t.Fatal(err)
	}
	if n := instanceTupleLen(t, e.buf.bytes()); n != 3 {
		t.Errorf("inner tuple has %d elements, want 3", n)
	}

	d := &decoder{data: e.buf.bytes(), registry: DefaultRegistry}
	if _, err := d.decodeValue(); err != nil {
		t.Fatal(err)
	}
	if d.pos != len(d.data) {
		t.Errorf("decoder left %d unread bytes", len(d.data)-d.pos)
	}
}

// TestOptionalSlotCombinations exercises every one of the 8 present/
// absent combinations of state/extend/update spec §8 requires, using
// dictBag's MergeState/ConcatOrAdd/Set fallback paths (the primary
// StateSetter/Extender/Updater paths are exercised separately above
// and in TestFallbackReconstructionPaths).
func TestOptionalSlotCombinations(t *testing.T) {
	args := Tuple{}
	for mask := 0; mask < 8; mask++ {
		mask := mask
		t.Run(fmt.Sprintf("state=%v/extend=%v/update=%v", mask&1 != 0, mask&2 != 0, mask&4 != 0), func(t *testing.T) {
			var state, extend, update any
			wantEntries := 0
			wantExtra := 0
			if mask&1 != 0 {
				state = Dict{{Key: "a", Value: int64(1)}}
				wantEntries++
			}
			if mask&2 != 0 {
				extend = List{int64(9)}
				wantExtra++
			}
			if mask&4 != 0 {
				update = Dict{{Key: "b", Value: int64(2)}}
				wantEntries++
			}

			e := &encoder{buf: newBuffer()}
			if err := e.encodeInstance(dictBagClass{}, args, state, extend, update); err != nil {
				t.Fatal(err)
			}

			wantLen := 2
			for i, present := range []bool{mask&1 != 0, mask&2 != 0, mask&4 != 0} {
				if present {
					wantLen = 3 + i
				}
			}
			if n := instanceTupleLen(t, e.buf.bytes()); n != wantLen {
				t.Errorf("inner tuple has %d elements, want %d", n, wantLen)
			}

			d := &decoder{data: e.buf.bytes(), registry: DefaultRegistry}
			got, err := d.decodeValue()
			if err != nil {
				t.Fatal(err)
			}
			if d.pos != len(d.data) {
				t.Errorf("decoder left %d unread bytes", len(d.data)-d.pos)
			}
			bag, ok := got.(*dictBag)
			if !ok {
				t.Fatalf("got %T, want *dictBag", got)
			}
			if len(bag.entries) != wantEntries {
				t.Errorf("entries = %v, want %d entries", bag.entries, wantEntries)
			}
			if len(bag.extra) != wantExtra {
				t.Errorf("extra = %v, want %d items", bag.extra, wantExtra)
			}
		})
	}
}
