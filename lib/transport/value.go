// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package transport

import (
	"fmt"
	"io"

	"github.com/bureau-foundation/objpack/lib/pack"
)

// SendValue encodes v with pack.Encode — producing the self-framed
// W‖L(W)‖payload form spec.md §4.5 defines for encode() — and writes
// the result as one WriteFrame frame under the given compression tag.
// The compression envelope wraps around the encode frame rather than
// replacing it: a collaborator reading raw, uncompressed bytes off the
// wire (say, from a packet capture) still sees a valid encode() frame
// once CompressionNone is in effect.
func SendValue(w io.Writer, v any, tag CompressionTag) error {
	encoded, err := pack.Encode(v)
	if err != nil {
		return fmt.Errorf("transport: encode value: %w", err)
	}
	return WriteFrame(w, encoded, tag)
}

// ReceiveValue reads one WriteFrame frame from r, then parses its
// payload as an encode()-produced frame: a leading width byte, a
// pack.Size-decoded length field, and the inner pack.Pack payload,
// which it decodes with r's registry.
func ReceiveValue(r io.Reader, registry *pack.Registry) (any, error) {
	frame, err := ReadFrame(r)
	if err != nil {
		return nil, err
	}
	return decodeEncodeFrame(frame, registry)
}

// decodeEncodeFrame parses the encode() frame layout out of data: one
// width byte W, then W bytes decoded by pack.Size as the payload
// length, then the payload itself.
func decodeEncodeFrame(data []byte, registry *pack.Registry) (any, error) {
	if len(data) < 1 {
		return nil, fmt.Errorf("transport: encode frame is empty")
	}
	width := int(data[0])
	if len(data) < 1+width {
		return nil, fmt.Errorf("transport: encode frame truncated before its %d-byte length field", width)
	}
	n, err := pack.Size(data[1 : 1+width])
	if err != nil {
		return nil, fmt.Errorf("transport: decode encode frame length: %w", err)
	}
	start := 1 + width
	end := start + int(n)
	if n < 0 || end > len(data) {
		return nil, fmt.Errorf("transport: encode frame declares payload length %d, have %d bytes", n, len(data)-start)
	}
	return pack.UnpackWith(registry, data[start:end])
}
