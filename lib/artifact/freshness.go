// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package artifact

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// Status classifies a source/artifact pair.
type Status uint8

const (
	// Fresh means the artifact exists and is at least as new as the
	// source.
	Fresh Status = iota

	// ArtifactMissing means no artifact exists yet.
	ArtifactMissing

	// ArtifactStale means the artifact is older than the source.
	ArtifactStale

	// SourceMissing means the declared source file does not exist.
	// Nothing can be generated for it.
	SourceMissing
)

// String returns the human-readable name of a status.
func (status Status) String() string {
	switch status {
	case Fresh:
		return "fresh"
	case ArtifactMissing:
		return "artifact-missing"
	case ArtifactStale:
		return "artifact-stale"
	case SourceMissing:
		return "source-missing"
	default:
		return fmt.Sprintf("unknown(%d)", status)
	}
}

// NeedsRegeneration reports whether the artifact must be (re)built.
// Only a missing or stale artifact qualifies; a missing source is the
// caller's policy decision.
func (status Status) NeedsRegeneration() bool {
	return status == ArtifactMissing || status == ArtifactStale
}

// Check classifies the artifact at artifactPath against the source at
// sourcePath. Modification times are compared at whole-second
// precision: an artifact written in the same second as its source is
// fresh.
//
// Only "does not exist" is classified. Any other stat failure
// (permission denied, I/O error) is returned as an error so it cannot
// masquerade as a missing file.
func Check(sourcePath, artifactPath string) (Status, error) {
	sourceInfo, err := os.Stat(sourcePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return SourceMissing, nil
		}
		return 0, fmt.Errorf("checking source %s: %w", sourcePath, err)
	}
	if sourceInfo.IsDir() {
		return 0, fmt.Errorf("checking source %s: is a directory", sourcePath)
	}

	artifactInfo, err := os.Stat(artifactPath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ArtifactMissing, nil
		}
		return 0, fmt.Errorf("checking artifact %s: %w", artifactPath, err)
	}

	if artifactInfo.ModTime().Unix() < sourceInfo.ModTime().Unix() {
		return ArtifactStale, nil
	}
	return Fresh, nil
}
