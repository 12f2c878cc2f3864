// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package artifact maintains the per-resource artifact cache that sits
// between loose source files and the assembled pack.
//
// Every manifest resource has an artifact next to its source (same
// stem, .bin extension) holding exactly the bytes the pack embeds:
// a verbatim copy for uncompressed resources, or an LZ77 codeword
// stream for compressed ones. Artifacts persist between runs, and
// only the ones whose source changed are regenerated.
//
// The package is organized in two layers:
//
//   - Freshness: [Check] classifies a source/artifact pair by
//     comparing whole-second modification times. Only a missing or
//     older artifact needs regeneration.
//
//   - Generation: [Generate] produces one artifact; [GenerateAll] runs
//     a batch on a bounded worker pool. Artifacts are written through
//     a temporary file and renamed into place, so an interrupted run
//     never leaves a truncated artifact that a later run would judge
//     fresh.
//
// Generation order is irrelevant to the pack: the assembler reads
// artifacts back in manifest order after every job has finished.
package artifact
