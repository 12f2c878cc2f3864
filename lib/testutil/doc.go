// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for respack packages.
//
// [WriteFile] and [WriteFileAt] create fixture files under a test's
// temporary directory, creating parent directories as needed.
// [WriteFileAt] and [SetModTime] pin a file's modification time, which
// is how freshness tests construct "artifact older than source" and
// "artifact newer than source" fixtures without sleeping.
//
// [WriteManifest] renders a YAML manifest from a list of entries so
// pipeline tests do not repeat document boilerplate.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
//
// This package has no respack-internal dependencies.
package testutil
