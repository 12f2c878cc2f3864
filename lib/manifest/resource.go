// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// ArtifactExtension replaces the source extension to form the path of
// a resource's generated artifact.
const ArtifactExtension = ".bin"

// Compression selects how a resource's artifact is produced.
type Compression uint8

const (
	// CompressionNone copies the source verbatim.
	CompressionNone Compression = iota

	// CompressionLZ77 encodes the source with the lz77 package.
	CompressionLZ77
)

// String returns the manifest spelling of the compression.
func (compression Compression) String() string {
	switch compression {
	case CompressionNone:
		return "NONE"
	case CompressionLZ77:
		return "LZ77"
	default:
		return fmt.Sprintf("Compression(%d)", uint8(compression))
	}
}

// ParseCompression parses a manifest compression value. Matching is
// case-insensitive.
func ParseCompression(value string) (Compression, error) {
	switch strings.ToUpper(strings.TrimSpace(value)) {
	case "NONE":
		return CompressionNone, nil
	case "LZ77":
		return CompressionLZ77, nil
	default:
		return 0, fmt.Errorf("unknown compression %q (want NONE or LZ77)", value)
	}
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (compression *Compression) UnmarshalYAML(node *yaml.Node) error {
	var value string
	if err := node.Decode(&value); err != nil {
		return fmt.Errorf("line %d: compression must be a string: %w", node.Line, err)
	}
	parsed, err := ParseCompression(value)
	if err != nil {
		return fmt.Errorf("line %d: %w", node.Line, err)
	}
	*compression = parsed
	return nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (compression *Compression) UnmarshalJSON(data []byte) error {
	var value string
	if err := json.Unmarshal(data, &value); err != nil {
		return fmt.Errorf("compression must be a string: %w", err)
	}
	parsed, err := ParseCompression(value)
	if err != nil {
		return err
	}
	*compression = parsed
	return nil
}

// MarshalText implements encoding.TextMarshaler so compression values
// render by name in reports.
func (compression Compression) MarshalText() ([]byte, error) {
	return []byte(compression.String()), nil
}

// Resource is one manifest entry. Resources are never mutated after
// loading.
type Resource struct {
	// ID is the logical name readers use to look the resource up.
	// Non-empty and unique within a manifest.
	ID string `yaml:"id" json:"id"`

	// Compression selects the artifact encoding.
	Compression Compression `yaml:"compression" json:"compression"`

	// Filepath is the source file, relative to the manifest's
	// directory.
	Filepath string `yaml:"filepath" json:"filepath"`
}

// ArtifactPath returns the artifact path for a source path: same
// directory and stem, with the extension replaced by
// [ArtifactExtension].
func ArtifactPath(source string) string {
	return strings.TrimSuffix(source, filepath.Ext(source)) + ArtifactExtension
}
