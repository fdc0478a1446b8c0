// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package fixtures

import (
	"encoding/hex"
	"fmt"

	"github.com/zeebo/blake3"
)

// Hash is a 32-byte BLAKE3 digest identifying one fixture's contents.
type Hash [32]byte

// vectorDomainKey domain-separates fixture hashes from any other
// BLAKE3 keyed hash an embedding application might compute over the
// same bytes, so the two can never collide regardless of content.
var vectorDomainKey = [32]byte{
	'o', 'b', 'j', 'p', 'a', 'c', 'k', '.', 'f', 'i', 'x', 't', 'u', 'r', 'e', '.',
	'v', 'e', 'c', 't', 'o', 'r', 0, 0, 0, 0, 0, 0, 0, 0, 0, 0,
}

// HashVector computes the fixture-domain BLAKE3 keyed hash of data.
func HashVector(data []byte) Hash {
	hasher, err := blake3.NewKeyed(vectorDomainKey[:])
	if err != nil {
		panic("fixtures: BLAKE3 keyed hash initialization failed: " + err.Error())
	}
	hasher.Write(data)
	var h Hash
	copy(h[:], hasher.Sum(nil))
	return h
}

// String returns the hex-encoded digest.
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// ParseHash parses a 64-character hex string into a Hash.
func ParseHash(s string) (Hash, error) {
	var h Hash
	decoded, err := hex.DecodeString(s)
	if err != nil {
		return h, fmt.Errorf("fixtures: parsing hash: %w", err)
	}
	if len(decoded) != 32 {
		return h, fmt.Errorf("fixtures: hash is %d bytes, want 32", len(decoded))
	}
	copy(h[:], decoded)
	return h, nil
}
