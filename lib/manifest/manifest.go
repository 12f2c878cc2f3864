// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// Limits imposed by the pack container's field widths.
const (
	// MaxResources is the largest resource count a pack header can
	// carry (uint16).
	MaxResources = math.MaxUint16

	// MaxIDLength is the longest ID a descriptor record can locate
	// (uint16 byte length).
	MaxIDLength = math.MaxUint16
)

// Format identifies the manifest document syntax.
type Format int

const (
	// FormatYAML is the default manifest syntax.
	FormatYAML Format = iota

	// FormatJSON is JSON, optionally with comments and trailing
	// commas.
	FormatJSON
)

// FormatForPath picks the manifest syntax from a file extension:
// .json and .jsonc are JSON, everything else is YAML.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		return FormatJSON
	default:
		return FormatYAML
	}
}

// ParseError reports a manifest document that does not match the
// schema. File system failures are never wrapped in ParseError, so
// callers can tell "could not read" from "could not understand".
type ParseError struct {
	// Path is the manifest file, empty when parsing from memory.
	Path string

	// Err is the underlying decode or validation failure.
	Err error
}

func (err *ParseError) Error() string {
	if err.Path == "" {
		return "parsing manifest: " + err.Err.Error()
	}
	return fmt.Sprintf("parsing manifest %s: %v", err.Path, err.Err)
}

func (err *ParseError) Unwrap() error {
	return err.Err
}

// Manifest is a loaded resource list together with the directory its
// relative paths resolve against.
type Manifest struct {
	// Path is the manifest file path as given to [Load].
	Path string

	// Dir is the directory containing the manifest.
	Dir string

	// Resources are the entries in document order.
	Resources []Resource
}

// rawResource mirrors Resource with pointer fields so that a missing
// key is distinguishable from an empty value.
type rawResource struct {
	ID          *string      `yaml:"id" json:"id"`
	Compression *Compression `yaml:"compression" json:"compression"`
	Filepath    *string      `yaml:"filepath" json:"filepath"`
}

// Load reads and validates the manifest at path. Read failures are
// returned wrapped (errors.Is(err, fs.ErrNotExist) works); schema and
// validation failures are returned as *ParseError.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}

	resources, err := Parse(data, FormatForPath(path))
	if err != nil {
		var parseError *ParseError
		if errors.As(err, &parseError) {
			parseError.Path = path
		}
		return nil, err
	}

	manifest := &Manifest{
		Path:      path,
		Dir:       filepath.Dir(path),
		Resources: resources,
	}
	if err := manifest.Validate(); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	return manifest, nil
}

// Parse decodes a manifest document. It checks the schema (required
// fields, known keys, compression values) but not cross-resource
// rules; see [Manifest.Validate].
func Parse(data []byte, format Format) ([]Resource, error) {
	var raw []rawResource
	switch format {
	case FormatJSON:
		decoder := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
		decoder.DisallowUnknownFields()
		if err := decoder.Decode(&raw); err != nil {
			return nil, &ParseError{Err: err}
		}
	default:
		decoder := yaml.NewDecoder(bytes.NewReader(data))
		decoder.KnownFields(true)
		// An empty document decodes to io.EOF: an empty manifest.
		if err := decoder.Decode(&raw); err != nil && !errors.Is(err, io.EOF) {
			return nil, &ParseError{Err: err}
		}
	}

	resources := make([]Resource, 0, len(raw))
	for i, entry := range raw {
		switch {
		case entry.ID == nil:
			return nil, &ParseError{Err: fmt.Errorf("resource %d: missing id", i)}
		case entry.Compression == nil:
			return nil, &ParseError{Err: fmt.Errorf("resource %d (%q): missing compression", i, *entry.ID)}
		case entry.Filepath == nil:
			return nil, &ParseError{Err: fmt.Errorf("resource %d (%q): missing filepath", i, *entry.ID)}
		}
		resources = append(resources, Resource{
			ID:          *entry.ID,
			Compression: *entry.Compression,
			Filepath:    *entry.Filepath,
		})
	}
	return resources, nil
}

// Validate checks the rules that span resources and the limits of
// the pack format: IDs non-empty, unique and short enough; at most
// [MaxResources] entries; file paths non-empty and relative; and
// artifact paths distinct from every source and from each other.
func (manifest *Manifest) Validate() error {
	if len(manifest.Resources) > MaxResources {
		return fmt.Errorf("manifest lists %d resources, the pack format allows at most %d",
			len(manifest.Resources), MaxResources)
	}

	ids := make(map[string]int, len(manifest.Resources))
	sources := make(map[string]int, len(manifest.Resources))
	artifacts := make(map[string]int, len(manifest.Resources))

	for i, resource := range manifest.Resources {
		if resource.ID == "" {
			return fmt.Errorf("resource %d: id is empty", i)
		}
		if len(resource.ID) > MaxIDLength {
			return fmt.Errorf("resource %d: id is %d bytes, the pack format allows at most %d",
				i, len(resource.ID), MaxIDLength)
		}
		if previous, exists := ids[resource.ID]; exists {
			return fmt.Errorf("resource %d: duplicate id %q (first used by resource %d)", i, resource.ID, previous)
		}
		ids[resource.ID] = i

		if resource.Filepath == "" {
			return fmt.Errorf("resource %q: filepath is empty", resource.ID)
		}
		if filepath.IsAbs(resource.Filepath) {
			return fmt.Errorf("resource %q: filepath %q must be relative to the manifest", resource.ID, resource.Filepath)
		}
		if resource.Compression != CompressionNone && resource.Compression != CompressionLZ77 {
			return fmt.Errorf("resource %q: unknown compression %s", resource.ID, resource.Compression)
		}

		source := filepath.Clean(resource.Filepath)
		sources[source] = i
		artifact := ArtifactPath(source)
		if previous, exists := artifacts[artifact]; exists {
			return fmt.Errorf("resource %q: artifact %s collides with resource %q",
				resource.ID, artifact, manifest.Resources[previous].ID)
		}
		artifacts[artifact] = i
	}

	for _, resource := range manifest.Resources {
		artifact := ArtifactPath(filepath.Clean(resource.Filepath))
		if owner, exists := sources[artifact]; exists {
			return fmt.Errorf("resource %q: artifact %s would overwrite the source of resource %q",
				resource.ID, artifact, manifest.Resources[owner].ID)
		}
	}

	return nil
}

// SourcePath returns the on-disk path of a resource's source file.
func (manifest *Manifest) SourcePath(resource Resource) string {
	return filepath.Join(manifest.Dir, resource.Filepath)
}

// ArtifactPath returns the on-disk path of a resource's artifact.
func (manifest *Manifest) ArtifactPath(resource Resource) string {
	return ArtifactPath(manifest.SourcePath(resource))
}
