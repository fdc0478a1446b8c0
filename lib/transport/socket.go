// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package transport

import (
	"context"
	"fmt"
	"net"
	"syscall"

	"github.com/google/uuid"
	"golang.org/x/sys/unix"
)

// AbstractAddress returns the net.Dial/net.Listen address for the
// abstract Unix domain socket name "name" (without the leading "@" or
// NUL byte). Go's unixConn implementation prepends the NUL for us.
func AbstractAddress(name string) string {
	return "@" + name
}

// NewUniqueName returns an abstract socket name of the form
// "prefix-<uuid>", unique across hosts and processes. Use this for
// ephemeral collaborator sockets — test harnesses, one-shot CLI
// invocations — where two independent runs must never collide in the
// shared abstract namespace even if they happen to start at the same
// instant on the same host.
func NewUniqueName(prefix string) string {
	return prefix + "-" + uuid.NewString()
}

// Listener wraps a net.Listener bound to an abstract Unix domain
// socket, applying the send-buffer size from config to every accepted
// connection.
type Listener struct {
	net.Listener
	sendBufferBytes int
}

// Listen binds an abstract-namespace SOCK_STREAM listener under name.
// sendBufferBytes, if non-zero, is applied via SO_SNDBUF to every
// connection this listener accepts, mirroring the reference
// implementation's getsocksize()-driven buffer tuning.
func Listen(ctx context.Context, name string, sendBufferBytes int) (*Listener, error) {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "unix", AbstractAddress(name))
	if err != nil {
		return nil, fmt.Errorf("transport: listen on abstract socket %q: %w", name, err)
	}
	return &Listener{Listener: ln, sendBufferBytes: sendBufferBytes}, nil
}

// Accept accepts the next connection and applies the configured send
// buffer size to it.
func (l *Listener) Accept() (net.Conn, error) {
	conn, err := l.Listener.Accept()
	if err != nil {
		return nil, err
	}
	if l.sendBufferBytes > 0 {
		if err := setSendBuffer(conn, l.sendBufferBytes); err != nil {
			conn.Close()
			return nil, err
		}
	}
	return conn, nil
}

// Dial connects to an abstract-namespace SOCK_STREAM listener bound to
// name, applying sendBufferBytes to the new connection if non-zero.
func Dial(ctx context.Context, name string, sendBufferBytes int) (net.Conn, error) {
	var d net.Dialer
	conn, err := d.DialContext(ctx, "unix", AbstractAddress(name))
	if err != nil {
		return nil, fmt.Errorf("transport: dial abstract socket %q: %w", name, err)
	}
	if sendBufferBytes > 0 {
		if err := setSendBuffer(conn, sendBufferBytes); err != nil {
			conn.Close()
			return nil, err
		}
	}
	return conn, nil
}

// SendBufferSize reads the current SO_SNDBUF size of conn, the Go
// equivalent of the reference implementation's getsocksize().
func SendBufferSize(conn net.Conn) (int, error) {
	uc, ok := conn.(*net.UnixConn)
	if !ok {
		return 0, fmt.Errorf("transport: %T is not a Unix domain connection", conn)
	}
	raw, err := uc.SyscallConn()
	if err != nil {
		return 0, err
	}
	var size int
	var sysErr error
	err = raw.Control(func(fd uintptr) {
		size, sysErr = unix.GetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_SNDBUF)
	})
	if err != nil {
		return 0, err
	}
	if sysErr != nil {
		return 0, fmt.Errorf("transport: getsockopt SO_SNDBUF: %w", sysErr)
	}
	return size, nil
}

func setSendBuffer(conn net.Conn, size int) error {
	uc, ok := conn.(*net.UnixConn)
	if !ok {
		return fmt.Errorf("transport: %T is not a Unix domain connection", conn)
	}
	raw, err := uc.SyscallConn()
	if err != nil {
		return err
	}
	var sysErr error
	err = raw.Control(func(fd uintptr) {
		sysErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_SNDBUF, size)
	})
	if err != nil {
		return err
	}
	if sysErr != nil && sysErr != syscall.ENOPROTOOPT {
		return fmt.Errorf("transport: setsockopt SO_SNDBUF=%d: %w", size, sysErr)
	}
	return nil
}
