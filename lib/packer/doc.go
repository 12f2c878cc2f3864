// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package packer runs a resource pack build end to end.
//
// [Build] loads the manifest, classifies each resource's artifact with
// [artifact.Check], regenerates missing or stale artifacts on a bounded
// worker pool, and assembles the pack in manifest order with
// [pack.Builder]. A resource whose source file is missing fails the
// build with [MissingBaseFile] unless [Options.SkipMissing] is set, in
// which case it is left out of the ID section, descriptor table, and
// data section alike.
//
// Every failure is an [*Error] carrying a [Kind], so callers can
// report the class of failure without inspecting message text:
//
//	result, err := packer.Build(ctx, packer.Options{ManifestPath: ".manifest.yaml"})
//	if kind, ok := packer.KindOf(err); ok {
//	    fmt.Fprintf(os.Stderr, "%s: %v\n", kind, err)
//	}
//
// Optional steps after assembly re-read and decode the pack
// ([VerifyPack]) and write a deterministic CBOR [Report].
package packer
