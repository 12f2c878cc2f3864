// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"bytes"
	"runtime"
	"strings"
	"testing"
)

func TestInfo(t *testing.T) {
	originalCommit, originalDirty, originalTime := GitCommit, GitDirty, BuildTime
	t.Cleanup(func() {
		GitCommit, GitDirty, BuildTime = originalCommit, originalDirty, originalTime
	})

	GitCommit, GitDirty, BuildTime = "abc1234", "false", "2026-03-01T00:00:00Z"
	if got, want := Info(), Version+" (abc1234, 2026-03-01T00:00:00Z)"; got != want {
		t.Errorf("Info() = %q, want %q", got, want)
	}

	GitDirty = "true"
	if got := Info(); !strings.Contains(got, "abc1234-dirty") {
		t.Errorf("Info() = %q, want dirty marker", got)
	}
}

func TestFull(t *testing.T) {
	full := Full()
	if !strings.HasPrefix(full, Info()) {
		t.Errorf("Full() = %q, does not start with Info()", full)
	}
	if !strings.Contains(full, runtime.Version()) {
		t.Errorf("Full() = %q, missing Go version", full)
	}
}

func TestFprint(t *testing.T) {
	var buffer bytes.Buffer
	Fprint(&buffer, "respack")
	if got, want := buffer.String(), "respack "+Info()+"\n"; got != want {
		t.Errorf("Fprint wrote %q, want %q", got, want)
	}
}
