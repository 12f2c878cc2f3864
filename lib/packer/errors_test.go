// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package packer

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"
)

func TestErrorUnwrapsAndClassifies(t *testing.T) {
	cause := fmt.Errorf("source ghost.raw: %w", fs.ErrNotExist)
	err := fmt.Errorf("build: %w", &Error{Kind: MissingBaseFile, Resource: "ghost", Err: cause})

	if !errors.Is(err, fs.ErrNotExist) {
		t.Error("errors.Is does not reach the cause")
	}
	if !IsKind(err, MissingBaseFile) {
		t.Error("IsKind(MissingBaseFile) = false")
	}
	if IsKind(err, ParseError) {
		t.Error("IsKind(ParseError) = true")
	}
	if kind, ok := KindOf(err); !ok || kind != MissingBaseFile {
		t.Errorf("KindOf = %q, %v", kind, ok)
	}
	if want := `build: resource "ghost": source ghost.raw: file does not exist`; err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestKindOfUnclassified(t *testing.T) {
	if _, ok := KindOf(errors.New("plain")); ok {
		t.Error("KindOf classified a plain error")
	}
	if IsKind(nil, FilesystemError) {
		t.Error("IsKind(nil) = true")
	}
}
