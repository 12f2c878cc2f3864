// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package lz77 implements the sliding-window compressor used for
// resource pack artifacts.
//
// The encoder turns a whole-resource buffer into a sequence of
// fixed-width codewords. Each codeword is either a literal byte or a
// back-reference run followed by one trailing literal:
//
//   - Literal: lookback 0, length 0, token = the byte.
//   - Run: lookback 1..65535, length 0..255, token = the byte that
//     follows the copied bytes.
//
// On the wire every codeword is exactly 4 bytes: a little-endian
// uint16 lookback, a uint8 length, and the token byte. A lookback of
// zero never describes a real match, so it marks literals without a
// separate tag.
//
// Matching is greedy over a bounded window. Candidates share a 3-byte
// prefix with the current position, are filtered one byte at a time
// until none survive, and ties between equally long matches go to the
// nearest candidate. Encoding is a pure function of its input: the
// same bytes always produce the same codeword stream.
//
// [Decode] is the companion reader. Runs may overlap the bytes they
// produce (lookback smaller than length), so copies proceed forward
// one byte at a time.
package lz77
