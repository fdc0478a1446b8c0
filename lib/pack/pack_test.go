// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pack

import (
	"errors"
	"math"
	"testing"
)

func roundTrip(t *testing.T, v any) any {
	t.Helper()
	data, err := Pack(v)
	if err != nil {
		t.Fatalf("Pack(%#v): %v", v, err)
	}
	got, err := Unpack(data)
	if err != nil {
		t.Fatalf("Unpack: %v", err)
	}
	return got
}

func TestPrimitiveRoundTrip(t *testing.T) {
	cases := []any{
		nil, true, false,
		int64(0), int64(-1), int64(127), int64(-128), int64(128),
		int64(32767), int64(-32768), int64(32768),
		int64(2147483647), int64(-2147483648), int64(2147483648),
		int64(math.MaxInt64), int64(math.MinInt64),
		3.14159, -0.0, math.Inf(1), math.Inf(-1),
		complex(1.5, -2.5),
		"", "hello", "héllo wörld 日本語",
		[]byte{}, []byte{0x01, 0x02, 0x03},
		ByteArray{0xff, 0x00},
	}
	for _, c := range cases {
		got := roundTrip(t, c)
		if !ValueEqual(got, c) {
			t.Errorf("round trip %#v: got %#v", c, got)
		}
	}
}

func TestUintOverflow(t *testing.T) {
	v := uint64(math.MaxUint64)
	got := roundTrip(t, v)
	if got != v {
		t.Errorf("got %v, want %v", got, v)
	}
}

func TestIntWidthBoundaries(t *testing.T) {
	tests := []struct {
		v    int64
		want byte
	}{
		{0, 1}, {127, 1}, {-128, 1},
		{128, 2}, {-129, 2}, {32767, 2}, {-32768, 2},
		{32768, 4}, {-32769, 4}, {2147483647, 4}, {-2147483648, 4},
		{2147483648, 8}, {-2147483649, 8},
	}
	for _, tc := range tests {
		if got := intWidth(tc.v); got != tc.want {
			t.Errorf("intWidth(%d) = %d, want %d", tc.v, got, tc.want)
		}
	}
}

func TestContainerRoundTrip(t *testing.T) {
	tup := Tuple{int64(1), "two", nil, true}
	if got := roundTrip(t, tup); !ValueEqual(got, tup) {
		t.Errorf("tuple round trip: got %#v", got)
	}

	lst := List{int64(1), List{int64(2), int64(3)}}
	if got := roundTrip(t, lst); !ValueEqual(got, lst) {
		t.Errorf("list round trip: got %#v", got)
	}

	d := Dict{{Key: "a", Value: int64(1)}, {Key: int64(2), Value: "b"}}
	if got := roundTrip(t, d); !ValueEqual(got, d) {
		t.Errorf("dict round trip: got %#v", got)
	}

	s := Set{int64(1), int64(2), "three"}
	got := roundTrip(t, s)
	gotSet, ok := got.(Set)
	if !ok || !SetEqual(gotSet, s) {
		t.Errorf("set round trip: got %#v", got)
	}

	fs := FrozenSet{int64(1), int64(2)}
	gotFS := roundTrip(t, fs)
	if v, ok := gotFS.(FrozenSet); !ok || !SetEqual(v, fs) {
		t.Errorf("frozenset round trip: got %#v", gotFS)
	}
}

func TestEmptyContainers(t *testing.T) {
	for _, v := range []any{Tuple{}, List{}, Dict{}, Set{}, FrozenSet{}} {
		got := roundTrip(t, v)
		if !ValueEqual(got, v) {
			t.Errorf("empty %T round trip: got %#v", v, got)
		}
	}
}

func TestRecursionGuard(t *testing.T) {
	var v any = List{}
	for i := 0; i < maxDepth-1; i++ {
		v = List{v}
	}
	if _, err := Pack(v); err != nil {
		t.Fatalf("expected pack at depth %d to succeed: %v", maxDepth-1, err)
	}

	v = List{}
	for i := 0; i < maxDepth+1; i++ {
		v = List{v}
	}
	if _, err := Pack(v); !errors.Is(err, ErrRecursion) {
		t.Fatalf("expected ErrRecursion past max depth, got %v", err)
	}
}

func TestUnpackTrailingBytes(t *testing.T) {
	data, _ := Pack(int64(1))
	data = append(data, 0xff)
	if _, err := Unpack(data); err == nil {
		t.Fatal("expected error on trailing bytes")
	}
}

func TestUnpackTruncated(t *testing.T) {
	data, _ := Pack("hello world")
	for n := 0; n < len(data); n++ {
		if _, err := Unpack(data[:n]); !errors.Is(err, ErrEOF) {
			t.Errorf("truncated at %d: got %v, want ErrEOF", n, err)
		}
	}
}

func TestBadUTF8(t *testing.T) {
	data, _ := Pack("ok")
	// Corrupt the payload byte to an invalid UTF-8 continuation byte.
	data[len(data)-1] = 0x80
	if _, err := Unpack(data); !errors.Is(err, ErrBadEncoding) {
		t.Errorf("got %v, want ErrBadEncoding", err)
	}
}

func TestSizeDecodesFixedWidthBuffers(t *testing.T) {
	cases := []struct {
		data []byte
		want int64
	}{
		{[]byte{0x7f}, 127},
		{[]byte{0xff}, -1},
		{[]byte{0x80, 0x00}, 128},
		{[]byte{0x00, 0x00, 0x00, 0x40}, 1 << 30},
		{[]byte{0, 0, 0, 0, 0, 0, 0, 1}, 1 << 56},
	}
	for _, tc := range cases {
		n, err := Size(tc.data)
		if err != nil {
			t.Fatalf("Size(%x): %v", tc.data, err)
		}
		if n != tc.want {
			t.Errorf("Size(%x) = %d, want %d", tc.data, n, tc.want)
		}
	}
}

func TestSizeRejectsOtherLengths(t *testing.T) {
	for _, n := range []int{0, 3, 5, 6, 7, 9} {
		if _, err := Size(make([]byte, n)); !errors.Is(err, ErrBadLength) {
			t.Errorf("Size(%d bytes): got %v, want ErrBadLength", n, err)
		}
	}
}

// TestEncodeFrame checks the outer W‖L(W)‖payload frame Encode prepends
// to Pack's output, and the Framing law of spec §8: decoding the L(W)
// field with Size recovers exactly len(Pack(v)).
func TestEncodeFrame(t *testing.T) {
	v := Tuple{int64(1)}
	payload, err := Pack(v)
	if err != nil {
		t.Fatal(err)
	}
	framed, err := Encode(v)
	if err != nil {
		t.Fatal(err)
	}
	width := int(framed[0])
	if width != 1 && width != 2 && width != 4 && width != 8 {
		t.Fatalf("frame width byte = %d, not one of 1/2/4/8", width)
	}
	lengthField := framed[1 : 1+width]
	n, err := Size(lengthField)
	if err != nil {
		t.Fatalf("Size(length field): %v", err)
	}
	if int(n) != len(payload) {
		t.Errorf("framed length = %d, want len(pack(v)) = %d", n, len(payload))
	}
	if got := framed[1+width:]; !bytesEqual(got, payload) {
		t.Errorf("framed payload = %x, want %x", got, payload)
	}
}

func bytesEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// TestLiteralWireFormats pins the encoder to the exact byte sequences
// spec §8 enumerates, so a regression in tag/width/length selection is
// caught even when a round trip through the matching decoder would
// hide it.
func TestLiteralWireFormats(t *testing.T) {
	cases := []struct {
		name string
		v    any
		want []byte
	}{
		{"none", nil, []byte{0x21}},
		{"true", true, []byte{0x22}},
		{"false", false, []byte{0x23}},
		{"int 127", int64(127), []byte{0x01, 0x7f}},
		{"int 128", int64(128), []byte{0x02, 0x80, 0x00}},
		{"int -1", int64(-1), []byte{0x01, 0xff}},
		{"str hi", "hi", []byte{0x31, 0x02, 0x68, 0x69}},
		{"tuple (1,2)", Tuple{int64(1), int64(2)}, []byte{0x61, 0x02, 0x01, 0x01, 0x01, 0x02}},
		{"dict {}", Dict{}, []byte{0x81, 0x00}},
	}
	for _, tc := range cases {
		got, err := Pack(tc.v)
		if err != nil {
			t.Fatalf("%s: Pack: %v", tc.name, err)
		}
		if !bytesEqual(got, tc.want) {
			t.Errorf("%s: Pack(%#v) = % x, want % x", tc.name, tc.v, got, tc.want)
		}
	}
}

// TestSingletonWireFormat pins scenario 8 of spec §8: a singleton whose
// canonical name packs to a zero-length string produces SINGLETON|W1
// with a 2-byte inner STR("") payload — tag E1, L=2, then 31 00.
func TestSingletonWireFormat(t *testing.T) {
	const blank = builtinSingleton("")
	r := NewRegistry()
	if err := r.RegisterNamed(blank); err != nil {
		t.Fatal(err)
	}
	got, err := PackWith(blank)
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{0xe1, 0x02, 0x31, 0x00}
	if !bytesEqual(got, want) {
		t.Errorf("Pack(blank singleton) = % x, want % x", got, want)
	}
	back, err := UnpackWith(r, got)
	if err != nil {
		t.Fatal(err)
	}
	if back != any(blank) {
		t.Errorf("round trip = %#v, want %#v", back, blank)
	}
}
