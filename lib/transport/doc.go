// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package transport provides same-host IPC connections for exchanging
// objpack-encoded messages: abstract-namespace Unix domain sockets
// plus an optional frame-compression envelope.
//
// Abstract sockets (Linux-only, [AF_UNIX] names beginning with a NUL
// byte) need no filesystem entry and are automatically reclaimed when
// the last reference closes, avoiding the stale-socket-file cleanup
// problem of path-based Unix sockets. Go's net package accepts this
// addressing directly: an address string beginning with "@" is
// translated to a leading NUL byte before it reaches the kernel.
//
// [AF_UNIX]: https://man7.org/linux/man-pages/man7/unix.7.html
package transport
