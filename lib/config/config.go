// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides configuration loading for objpack-dump and
// other objpack-based components.
//
// Configuration is loaded from a single file specified by:
//   - OBJPACK_CONFIG environment variable, or
//   - --config flag passed to the command
//
// There are no fallbacks or automatic discovery. This ensures
// deterministic, auditable configuration with no hidden overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Compression names the optional transport envelope compression, one
// of "none", "zstd", or "lz4".
type Compression string

const (
	CompressionNone Compression = "none"
	CompressionZstd Compression = "zstd"
	CompressionLZ4  Compression = "lz4"
)

// Config is the configuration for objpack components: the registry of
// classes/singletons to preload and the default transport settings for
// a collaborator socket.
type Config struct {
	// Registry lists the class and singleton identities (module plus
	// qualname or singleton name) a deployment expects to be registered
	// at startup. Loading a config registers nothing: resolving an
	// entry to a Go handle is the caller's responsibility, and this
	// field only records the expected set for auditing.
	Registry []RegistryEntry `yaml:"registry"`

	// Transport configures the abstract-namespace Unix socket used for
	// same-host collaborator connections.
	Transport TransportConfig `yaml:"transport"`
}

// RegistryEntry names one class or singleton expected to be
// registered at startup.
type RegistryEntry struct {
	Module   string `yaml:"module"`
	Qualname string `yaml:"qualname,omitempty"`
	Singleton string `yaml:"singleton,omitempty"`
}

// TransportConfig configures socket behavior.
type TransportConfig struct {
	// SocketName is the abstract socket name (without the leading NUL)
	// a listener binds to and a dialer connects to. Default: "objpack".
	SocketName string `yaml:"socket_name"`

	// SendBufferBytes requests a specific SO_SNDBUF size for new
	// connections. Zero means leave the kernel default in place.
	SendBufferBytes int `yaml:"send_buffer_bytes"`

	// Compression selects the optional frame compression envelope.
	// Default: "none".
	Compression Compression `yaml:"compression"`
}

// Default returns the default configuration. These defaults exist so
// all fields have sensible zero-values, not as a fallback — the config
// file is still required for Load to succeed.
func Default() *Config {
	return &Config{
		Transport: TransportConfig{
			SocketName:  "objpack",
			Compression: CompressionNone,
		},
	}
}

// Load loads configuration from the OBJPACK_CONFIG environment
// variable. There is no fallback: if the variable is unset, Load
// fails rather than guessing a path.
func Load() (*Config, error) {
	path := os.Getenv("OBJPACK_CONFIG")
	if path == "" {
		return nil, fmt.Errorf("OBJPACK_CONFIG environment variable not set; " +
			"set it to the path of your objpack.yaml config file, or use --config")
	}
	return LoadFile(path)
}

// LoadFile loads configuration from a specific file path.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	cfg.expandVariables()
	return cfg, nil
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in the
// socket name, so a deployment can template it per-user or per-host.
func (c *Config) expandVariables() {
	c.Transport.SocketName = expandVars(c.Transport.SocketName, nil)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

func expandVars(s string, vars map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}
		name := parts[1]
		defaultValue := ""
		if len(parts) >= 3 {
			defaultValue = parts[2]
		}
		if value, ok := vars[name]; ok && value != "" {
			return value
		}
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	var errs []error

	if c.Transport.SocketName == "" {
		errs = append(errs, fmt.Errorf("transport.socket_name is required"))
	}
	if c.Transport.SendBufferBytes < 0 {
		errs = append(errs, fmt.Errorf("transport.send_buffer_bytes must not be negative"))
	}
	switch c.Transport.Compression {
	case "", CompressionNone, CompressionZstd, CompressionLZ4:
	default:
		errs = append(errs, fmt.Errorf("transport.compression must be one of: none, zstd, lz4"))
	}
	for i, entry := range c.Registry {
		if entry.Module == "" {
			errs = append(errs, fmt.Errorf("registry[%d].module is required", i))
		}
		if entry.Qualname == "" && entry.Singleton == "" {
			errs = append(errs, fmt.Errorf("registry[%d] must set qualname or singleton", i))
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
