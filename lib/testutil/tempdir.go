// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for objpack packages.
package testutil

import (
	"os"
	"testing"
)

// SocketDir creates a temporary directory suitable for filesystem Unix
// domain sockets.
//
// Unix domain sockets have a 108-byte path limit (sun_path in
// sockaddr_un), and test runners often set TMPDIR to deeply nested
// paths that exceed it, making t.TempDir() unsuitable for socket
// files. This function creates a short-named directory directly in
// /tmp instead. Tests that use abstract-namespace sockets (see
// lib/transport) don't need this — abstract names have no filesystem
// path — but it remains useful for fixture files and PID-style
// bookkeeping that do need a short, real path.
//
// The directory is automatically removed when the test completes.
func SocketDir(t *testing.T) string {
	t.Helper()
	directory, err := os.MkdirTemp("/tmp", "objpack-test-*")
	if err != nil {
		t.Fatalf("creating socket directory: %v", err)
	}
	t.Cleanup(func() {
		_ = os.RemoveAll(directory)
	})
	return directory
}
