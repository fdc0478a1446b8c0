// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// objpack-dump inspects objpack-encoded messages from a file or
// stdin: it reports the decoded value's shape and size, and can
// transcode it to CBOR or JSON for inspection with other tooling.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/pflag"

	"github.com/bureau-foundation/objpack/lib/codec"
	"github.com/bureau-foundation/objpack/lib/config"
	"github.com/bureau-foundation/objpack/lib/pack"
	"github.com/bureau-foundation/objpack/lib/version"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		fmt.Println(version.Full())
		return
	}
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var filePath string
	var configPath string
	var format string
	var sizeOnly bool
	var framed bool

	flagSet := pflag.NewFlagSet("objpack-dump", pflag.ContinueOnError)
	flagSet.StringVar(&filePath, "file", "", "path to an objpack-encoded message (default: stdin)")
	flagSet.StringVar(&configPath, "config", "", "path to objpack.yaml (overrides OBJPACK_CONFIG)")
	flagSet.StringVar(&format, "format", "json", "transcode output format: json or cbor")
	flagSet.BoolVar(&sizeOnly, "size-only", false, "print only the encoded size in bytes, human-readable")
	flagSet.BoolVar(&framed, "framed", false, "input is an encode() frame (width byte + size() length field + payload) rather than a bare pack() value")
	flagSet.BoolP("help", "h", false, "show help")

	if err := flagSet.Parse(os.Args[1:]); err != nil {
		if err == pflag.ErrHelp {
			printHelp(flagSet)
			return nil
		}
		return err
	}
	if help, _ := flagSet.GetBool("help"); help {
		printHelp(flagSet)
		return nil
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	registry := pack.DefaultRegistry
	if configPath != "" || os.Getenv("OBJPACK_CONFIG") != "" {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return err
		}
		if len(cfg.Registry) > 0 {
			logger.Warn("config lists registry entries, but objpack-dump cannot construct arbitrary Go types from a config file; entries are reported, not registered", "count", len(cfg.Registry))
			for _, entry := range cfg.Registry {
				logger.Warn("registry entry (unresolved)", "module", entry.Module, "qualname", entry.Qualname, "singleton", entry.Singleton)
			}
		}
	}

	data, err := readInput(filePath)
	if err != nil {
		return err
	}

	payload, size, err := splitInput(data, framed)
	if err != nil {
		return err
	}

	if sizeOnly {
		fmt.Println(humanize.Bytes(uint64(size)))
		return nil
	}

	value, err := pack.UnpackWith(registry, payload)
	if err != nil {
		return fmt.Errorf("decoding: %w", err)
	}

	fmt.Fprintf(os.Stderr, "decoded %s (%d bytes)\n", humanize.Bytes(uint64(size)), size)

	transcodable := toTranscodable(value)
	switch format {
	case "json":
		out, err := json.MarshalIndent(transcodable, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding JSON: %w", err)
		}
		fmt.Println(string(out))
	case "cbor":
		out, err := codec.Marshal(transcodable)
		if err != nil {
			return fmt.Errorf("encoding CBOR: %w", err)
		}
		diag, err := codec.Diagnose(out)
		if err != nil {
			return fmt.Errorf("diagnosing CBOR: %w", err)
		}
		fmt.Println(diag)
	default:
		return fmt.Errorf("unknown --format %q: want json or cbor", format)
	}
	return nil
}

func loadConfig(explicitPath string) (*config.Config, error) {
	if explicitPath != "" {
		return config.LoadFile(explicitPath)
	}
	return config.Load()
}

func readInput(path string) ([]byte, error) {
	if path == "" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

// splitInput returns the pack()-encoded payload within data and its
// length. With --framed, data is an encode() frame (spec §4.5): a
// width byte, a size()-decoded length field, then the payload. Without
// it, data is assumed to be exactly one bare pack() payload with no
// outer frame, so the payload is the whole file and its length needs
// no decoding.
func splitInput(data []byte, framed bool) ([]byte, int64, error) {
	if !framed {
		return data, int64(len(data)), nil
	}
	if len(data) < 1 {
		return nil, 0, fmt.Errorf("framed input is empty")
	}
	width := int(data[0])
	if len(data) < 1+width {
		return nil, 0, fmt.Errorf("framed input truncated before its %d-byte length field", width)
	}
	size, err := pack.Size(data[1 : 1+width])
	if err != nil {
		return nil, 0, fmt.Errorf("measuring encoded size: %w", err)
	}
	start := 1 + width
	end := start + int(size)
	if size < 0 || end > len(data) {
		return nil, 0, fmt.Errorf("framed input declares payload length %d, have %d bytes", size, len(data)-start)
	}
	return data[start:end], size, nil
}

// toTranscodable converts a decoded pack value into a tree of plain
// Go maps, slices, and scalars suitable for JSON/CBOR marshaling.
// pack's own container types (Tuple, Dict, Set, ...) are not directly
// marshalable: Dict keys may not be strings, and Set/FrozenSet have no
// JSON/CBOR equivalent, so both are flattened into ordered arrays of
// [key, value] pairs / elements for inspection purposes.
func toTranscodable(v any) any {
	switch val := v.(type) {
	case pack.Tuple:
		return convertSlice(val)
	case pack.List:
		return convertSlice(val)
	case pack.Set:
		return convertSlice(val)
	case pack.FrozenSet:
		return convertSlice(val)
	case pack.Dict:
		pairs := make([][2]any, len(val))
		for i, entry := range val {
			pairs[i] = [2]any{toTranscodable(entry.Key), toTranscodable(entry.Value)}
		}
		return pairs
	case pack.ByteArray:
		return []byte(val)
	case pack.ClassRef:
		return map[string]string{"module": val.Module, "qualname": val.Qualname}
	case pack.Singleton:
		return map[string]string{"singleton": val.Name}
	case pack.Instance:
		return map[string]any{
			"callable": toTranscodable(val.Callable),
			"args":     convertSlice(val.Args),
		}
	default:
		return val
	}
}

func convertSlice(items []any) []any {
	out := make([]any, len(items))
	for i, item := range items {
		out[i] = toTranscodable(item)
	}
	return out
}

func printHelp(flagSet *pflag.FlagSet) {
	fmt.Fprintf(os.Stderr, `objpack-dump — inspect and transcode objpack-encoded messages.

Reads a single objpack-encoded value from --file (or stdin), reports
its encoded size, and prints it transcoded to JSON or CBOR diagnostic
notation for inspection. By default the input is a bare pack() payload
(no outer frame); pass --framed to read an encode()-produced frame
instead (a width byte and size()-decoded length field precede the
payload).

Usage:
  objpack-dump [flags]

Examples:
  objpack-dump --file message.bin
  objpack-dump --file message.bin --format cbor
  objpack-dump --file message.bin --framed
  cat message.bin | objpack-dump --size-only

Flags:
`)
	flagSet.SetOutput(os.Stderr)
	flagSet.PrintDefaults()
}
