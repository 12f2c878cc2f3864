// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package binhash computes content digests of built resource packs.
//
// A pack digest is a BLAKE3 keyed hash under a fixed pack domain key,
// so the same bytes hashed in another context never collide with a
// pack digest. Build reports and the CLI status line carry the digest
// so two builds can be compared without diffing packs.
//
//   - [HashFile] streams a file through the hasher with constant memory
//   - [HashBytes] hashes an in-memory buffer
//   - [FormatDigest] and [ParseDigest] convert to and from the
//     "blake3:<hex>" text form
package binhash
