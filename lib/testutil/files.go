// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// WriteFile writes data to path, creating parent directories.
func WriteFile(t testing.TB, path string, data []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("creating directory for %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
}

// WriteFileAt writes data to path and sets its modification time.
func WriteFileAt(t testing.TB, path string, data []byte, modTime time.Time) {
	t.Helper()
	WriteFile(t, path, data)
	SetModTime(t, path, modTime)
}

// SetModTime sets both the access and modification time of path.
func SetModTime(t testing.TB, path string, modTime time.Time) {
	t.Helper()
	if err := os.Chtimes(path, modTime, modTime); err != nil {
		t.Fatalf("setting modification time of %s: %v", path, err)
	}
}

// ManifestEntry is one resource line for [WriteManifest].
type ManifestEntry struct {
	ID          string
	Compression string
	Filepath    string
}

// WriteManifest writes a YAML manifest listing entries to path and
// returns path.
func WriteManifest(t testing.TB, path string, entries ...ManifestEntry) string {
	t.Helper()
	var builder strings.Builder
	if len(entries) == 0 {
		builder.WriteString("[]\n")
	}
	for _, entry := range entries {
		fmt.Fprintf(&builder, "- id: %q\n  compression: %s\n  filepath: %q\n",
			entry.ID, entry.Compression, entry.Filepath)
	}
	WriteFile(t, path, []byte(builder.String()))
	return path
}
