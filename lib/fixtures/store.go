// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package fixtures

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// manifestEntry is one name-to-hash mapping persisted in manifest.yaml.
type manifestEntry struct {
	Name string `yaml:"name"`
	Hash string `yaml:"hash"`
}

// Store is a directory-backed, content-addressed fixture store. Blob
// contents live at <dir>/objects/<hash>.bin; the name-to-hash mapping
// lives at <dir>/manifest.yaml so fixtures can be referenced by a
// readable name in test source while still being integrity-checked by
// hash whenever they're read back.
type Store struct {
	dir     string
	entries map[string]Hash
}

// Open loads (or initializes, if absent) the fixture store rooted at
// dir.
func Open(dir string) (*Store, error) {
	s := &Store{dir: dir, entries: make(map[string]Hash)}
	if err := os.MkdirAll(filepath.Join(dir, "objects"), 0755); err != nil {
		return nil, fmt.Errorf("fixtures: creating object directory: %w", err)
	}

	manifestPath := filepath.Join(dir, "manifest.yaml")
	data, err := os.ReadFile(manifestPath)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fixtures: reading manifest: %w", err)
	}

	var entries []manifestEntry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("fixtures: parsing manifest: %w", err)
	}
	for _, e := range entries {
		h, err := ParseHash(e.Hash)
		if err != nil {
			return nil, fmt.Errorf("fixtures: manifest entry %q: %w", e.Name, err)
		}
		s.entries[e.Name] = h
	}
	return s, nil
}

// Put stores data under name, writing its content-addressed blob if
// not already present, and returns the resulting hash.
func (s *Store) Put(name string, data []byte) (Hash, error) {
	h := HashVector(data)
	path := s.objectPath(h)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.WriteFile(path, data, 0644); err != nil {
			return h, fmt.Errorf("fixtures: writing object %s: %w", h, err)
		}
	}
	s.entries[name] = h
	if err := s.saveManifest(); err != nil {
		return h, err
	}
	return h, nil
}

// Get reads the fixture registered under name, verifying its contents
// against the recorded hash.
func (s *Store) Get(name string) ([]byte, error) {
	h, ok := s.entries[name]
	if !ok {
		return nil, fmt.Errorf("fixtures: no fixture named %q", name)
	}
	data, err := os.ReadFile(s.objectPath(h))
	if err != nil {
		return nil, fmt.Errorf("fixtures: reading fixture %q: %w", name, err)
	}
	if got := HashVector(data); got != h {
		return nil, fmt.Errorf("fixtures: fixture %q failed integrity check: got hash %s, want %s", name, got, h)
	}
	return data, nil
}

// Hash returns the recorded hash for name without reading its blob.
func (s *Store) Hash(name string) (Hash, bool) {
	h, ok := s.entries[name]
	return h, ok
}

func (s *Store) objectPath(h Hash) string {
	return filepath.Join(s.dir, "objects", h.String()+".bin")
}

func (s *Store) saveManifest() error {
	names := make([]string, 0, len(s.entries))
	for name := range s.entries {
		names = append(names, name)
	}
	sort.Strings(names)

	entries := make([]manifestEntry, 0, len(names))
	for _, name := range names {
		entries = append(entries, manifestEntry{Name: name, Hash: s.entries[name].String()})
	}

	data, err := yaml.Marshal(entries)
	if err != nil {
		return fmt.Errorf("fixtures: marshaling manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, "manifest.yaml"), data, 0644); err != nil {
		return fmt.Errorf("fixtures: writing manifest: %w", err)
	}
	return nil
}
