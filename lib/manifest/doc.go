// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package manifest loads the resource list that drives a pack build.
//
// A manifest is an ordered list of resources, each naming a logical
// ID, a source file relative to the manifest's directory, and the
// compression to apply:
//
//	- id: title-screen
//	  compression: LZ77
//	  filepath: images/title.raw
//	- id: credits
//	  compression: NONE
//	  filepath: text/credits.txt
//
// YAML is the default format. Files ending in .json or .jsonc are
// read as JSON, with comments and trailing commas stripped first. In
// both formats unknown fields are rejected so that a misspelled key
// fails loudly instead of silently falling back to a default.
//
// Manifest order is significant: it fixes the order of the ID section,
// descriptor table, and data section in the built pack.
//
// Every resource has a derived artifact path: the source path with
// its extension replaced by .bin. [Manifest.Validate] rejects
// manifests where two resources would share an artifact, or where an
// artifact would overwrite its own source.
//
// This package depends on no other respack packages.
package manifest
