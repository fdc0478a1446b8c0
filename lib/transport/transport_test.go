// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package transport

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/bureau-foundation/objpack/lib/pack"
)

func TestAbstractSocketRoundTrip(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	name := NewUniqueName("objpack-test")
	ln, err := Listen(ctx, name, 0)
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer ln.Close()

	accepted := make(chan error, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			accepted <- err
			return
		}
		defer conn.Close()
		accepted <- SendValue(conn, pack.Tuple{int64(1), "hello"}, CompressionZstd)
	}()

	conn, err := Dial(ctx, name, 0)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	if err := <-accepted; err != nil {
		t.Fatalf("server goroutine: %v", err)
	}

	v, err := ReceiveValue(conn, pack.DefaultRegistry)
	if err != nil {
		t.Fatalf("ReceiveValue: %v", err)
	}
	want := pack.Tuple{int64(1), "hello"}
	if !pack.ValueEqual(v, want) {
		t.Errorf("got %#v, want %#v", v, want)
	}
}

func TestSendReceiveValueRoundTrip(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	name := NewUniqueName("objpack-value-test")
	ln, err := Listen(ctx, name, 0)
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	defer ln.Close()

	values := []any{
		nil, true, int64(42), "a longer string to push past the width-1 boundary",
		pack.Dict{{Key: "k", Value: pack.List{int64(1), int64(2), int64(3)}}},
	}

	accepted := make(chan error, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			accepted <- err
			return
		}
		defer conn.Close()
		for _, tag := range []CompressionTag{CompressionNone, CompressionLZ4, CompressionZstd} {
			for _, v := range values {
				if err := SendValue(conn, v, tag); err != nil {
					accepted <- err
					return
				}
			}
		}
		accepted <- nil
	}()

	conn, err := Dial(ctx, name, 0)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	for _, tag := range []CompressionTag{CompressionNone, CompressionLZ4, CompressionZstd} {
		for _, want := range values {
			got, err := ReceiveValue(conn, pack.DefaultRegistry)
			if err != nil {
				t.Fatalf("ReceiveValue(%s): %v", tag, err)
			}
			if !pack.ValueEqual(got, want) {
				t.Errorf("%s: got %#v, want %#v", tag, got, want)
			}
		}
	}
	if err := <-accepted; err != nil {
		t.Fatalf("server goroutine: %v", err)
	}
}

func TestFrameRoundTrip(t *testing.T) {
	payload := bytes.Repeat([]byte("objpack frame payload "), 100)

	for _, tag := range []CompressionTag{CompressionNone, CompressionLZ4, CompressionZstd} {
		var buf bytes.Buffer
		if err := WriteFrame(&buf, payload, tag); err != nil {
			t.Fatalf("WriteFrame(%s): %v", tag, err)
		}
		got, err := ReadFrame(&buf)
		if err != nil {
			t.Fatalf("ReadFrame(%s): %v", tag, err)
		}
		if !bytes.Equal(got, payload) {
			t.Errorf("%s: round trip mismatch", tag)
		}
	}
}

func TestFrameEmptyPayload(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteFrame(&buf, nil, CompressionZstd); err != nil {
		t.Fatalf("WriteFrame: %v", err)
	}
	got, err := ReadFrame(&buf)
	if err != nil {
		t.Fatalf("ReadFrame: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d bytes, want 0", len(got))
	}
}
