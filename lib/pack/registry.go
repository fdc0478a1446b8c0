// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pack

import (
	"fmt"
	"sync"
)

// Named is implemented by singleton handles that register under a
// stable wire name (wire kind SINGLETON). Unlike Class, a singleton
// handle is not itself constructed from arguments — it is registered
// once and returned by reference on every subsequent decode of that
// name.
type Named interface {
	SingletonName() string
}

// Registry maps wire identities to live Go handles. Per spec §9,
// "identity bytes are the only key — not hashes or pointers": the map
// key is literally the encoded ID(T)/ID(s) byte sequence (classIdentity/
// singletonIdentity in identity.go), the same bytes a CLASS or
// SINGLETON tag's payload carries on the wire, converted to a string
// for use as a Go map key. It is consulted only when decoding — see
// identity.go — never when encoding: packing a Class or a Named value
// always writes its identity directly, regardless of whether that
// identity happens to be registered. This mirrors the asymmetry of the
// reference implementation, where __pack_class_id/__pack_singleton_id
// encode unconditionally but __unpack_registered looks the identity up.
//
// A Registry is safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	classes map[string]Class
	named   map[string]Named
}

// NewRegistry returns a new registry holding only the two
// builtin singletons the wire format assumes every registry carries:
// NotImplementedSingleton and EllipsisSingleton (spec §9's
// NotImplemented/Ellipsis redesign note).
func NewRegistry() *Registry {
	r := &Registry{
		classes: make(map[string]Class),
		named:   make(map[string]Named),
	}
	if err := r.RegisterNamed(NotImplementedSingleton); err != nil {
		panic("objpack: registering builtin singleton NotImplemented: " + err.Error())
	}
	if err := r.RegisterNamed(EllipsisSingleton); err != nil {
		panic("objpack: registering builtin singleton Ellipsis: " + err.Error())
	}
	return r
}

// DefaultRegistry is the package-level registry used by Pack/Unpack
// when no explicit Registry is supplied.
var DefaultRegistry = NewRegistry()

// RegisterClass adds c under the identity returned by c.ClassRef().
// Registering a second, different handle under an identity already
// held is an error — the Open Question in spec §9 ("what happens on
// re-registration with a different object?") is resolved here in
// favor of rejecting the conflict rather than silently shadowing the
// first registration, so that a duplicate wire-format name collision
// is caught at registration time rather than producing
// nondeterministic decode results depending on registration order.
func (r *Registry) RegisterClass(c Class) error {
	ref := c.ClassRef()
	id, err := classIdentity(ref)
	if err != nil {
		return fmt.Errorf("objpack: computing identity for class %s.%s: %w", ref.Module, ref.Qualname, err)
	}
	key := string(id)
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.classes[key]; ok && existing != c {
		return fmt.Errorf("objpack: class %s.%s already registered with a different handle", ref.Module, ref.Qualname)
	}
	r.classes[key] = c
	return nil
}

// RegisterNamed adds n under n.SingletonName(), with the same
// conflict-rejection rule as RegisterClass.
func (r *Registry) RegisterNamed(n Named) error {
	name := n.SingletonName()
	id, err := singletonIdentity(name)
	if err != nil {
		return fmt.Errorf("objpack: computing identity for singleton %q: %w", name, err)
	}
	key := string(id)
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.named[key]; ok && existing != n {
		return fmt.Errorf("objpack: singleton %q already registered with a different handle", name)
	}
	r.named[key] = n
	return nil
}

// Register registers handle under whichever identity it exposes. It
// accepts a Class, a Named, or a value implementing both, and fails if
// handle implements neither.
func (r *Registry) Register(handle any) error {
	var did bool
	if c, ok := handle.(Class); ok {
		if err := r.RegisterClass(c); err != nil {
			return err
		}
		did = true
	}
	if n, ok := handle.(Named); ok {
		if err := r.RegisterNamed(n); err != nil {
			return err
		}
		did = true
	}
	if !did {
		return fmt.Errorf("%w: %T implements neither Class nor Named", ErrTypeUnpackable, handle)
	}
	return nil
}

func (r *Registry) lookupClass(ref ClassRef) (Class, bool) {
	id, err := classIdentity(ref)
	if err != nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.classes[string(id)]
	return c, ok
}

func (r *Registry) lookupNamed(name string) (Named, bool) {
	id, err := singletonIdentity(name)
	if err != nil {
		return nil, false
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	n, ok := r.named[string(id)]
	return n, ok
}

// Register registers handle with DefaultRegistry.
func Register(handle any) error {
	return DefaultRegistry.Register(handle)
}

// builtin singleton handles -------------------------------------------------

type builtinSingleton string

func (b builtinSingleton) SingletonName() string { return string(b) }

// NotImplementedSingleton and EllipsisSingleton stand in for Python's
// NotImplemented and Ellipsis builtin singletons, which the original
// wire format always treats as registered regardless of what the
// embedding application registers. Decoding SINGLETON("NotImplemented")
// or SINGLETON("Ellipsis") returns these exact values.
const (
	NotImplementedSingleton = builtinSingleton("NotImplemented")
	EllipsisSingleton       = builtinSingleton("Ellipsis")
)
