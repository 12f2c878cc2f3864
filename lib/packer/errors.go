// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package packer

import (
	"errors"
	"fmt"
)

// Kind classifies a build failure so the CLI can report it without
// parsing error text.
type Kind string

const (
	// FilesystemError covers every I/O failure: opening the manifest,
	// statting sources and artifacts, generating artifacts, writing
	// or verifying the pack, and writing the report.
	FilesystemError Kind = "FilesystemError"

	// ParseError means the manifest could not be decoded or failed
	// validation.
	ParseError Kind = "ParseError"

	// MissingBaseFile means a resource's source file does not exist
	// and the build was not asked to skip missing sources.
	MissingBaseFile Kind = "MissingBaseFile"
)

// Error is a classified build failure. It wraps the underlying error,
// so errors.Is and errors.As see the full chain.
type Error struct {
	// Kind classifies the failure.
	Kind Kind

	// Path is the file the failure concerns, if any.
	Path string

	// Resource is the ID of the resource involved, if any.
	Resource string

	// Err is the underlying error.
	Err error
}

func (err *Error) Error() string {
	if err.Resource != "" {
		return fmt.Sprintf("resource %q: %v", err.Resource, err.Err)
	}
	return err.Err.Error()
}

func (err *Error) Unwrap() error {
	return err.Err
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) (Kind, bool) {
	var buildError *Error
	if errors.As(err, &buildError) {
		return buildError.Kind, true
	}
	return "", false
}

// IsKind reports whether err's chain contains an *Error of the given
// kind.
func IsKind(err error, kind Kind) bool {
	found, ok := KindOf(err)
	return ok && found == kind
}

func filesystemError(path string, err error) *Error {
	return &Error{Kind: FilesystemError, Path: path, Err: err}
}
