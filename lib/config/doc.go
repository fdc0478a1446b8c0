// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for objpack
// components.
//
// Configuration is loaded from a single file specified by either the
// OBJPACK_CONFIG environment variable (via [Load]) or a --config flag
// (via [LoadFile]). There are no fallbacks, no ~/.config discovery,
// and no automatic file search. This ensures deterministic, auditable
// configuration with no hidden overrides.
//
// Variable expansion is performed on the transport socket name after
// loading: ${VAR} and ${VAR:-default} patterns are expanded against
// the process environment. No environment variable ever overrides a
// value already present in the config file.
//
// Key exports:
//
//   - [Config] -- Registry preload list and Transport settings
//   - [Default] -- returns a Config with default transport settings
//   - [Load] and [LoadFile] -- the two entry points for loading
//
// This package depends on no other objpack package.
package config
