// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package fixtures provides a content-addressed store for golden wire
// vectors used by objpack's test suite.
//
// A fixture is named test data — typically the encoded bytes produced
// by a prior, known-good Pack call — stored on disk under the
// BLAKE3 keyed hash of its contents. A manifest file maps human
// fixture names to hashes, so golden vectors can be regenerated or
// inspected by name while still being verified for integrity by hash
// whenever they are read.
package fixtures
