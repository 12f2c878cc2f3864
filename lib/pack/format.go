// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pack

import (
	"errors"
	"math"
)

// Container format constants. These are part of the on-disk contract;
// changing any of them breaks every existing reader.
const (
	// FormatVersion is the only version this package writes and
	// reads.
	FormatVersion = 1

	// HeaderSize is the fixed header: 4-byte magic, 2-byte version,
	// 2-byte resource count, 4-byte ID section length.
	HeaderSize = 12

	// RecordSize is one descriptor record: 4-byte ID offset, 2-byte
	// ID length, 2-byte flags, 4-byte data offset, 4-byte data
	// length, 4-byte uncompressed length.
	RecordSize = 20

	// idAlignment is the padding granularity of the ID section.
	idAlignment = 4

	// MaxResources is the largest count the header can carry.
	MaxResources = math.MaxUint16

	// MaxIDLength is the longest ID a record can describe.
	MaxIDLength = math.MaxUint16
)

// Descriptor flag bits.
const (
	// FlagLZ77Compressed marks a resource whose stored bytes are an
	// LZ77 codeword stream rather than the raw source.
	FlagLZ77Compressed uint16 = 1 << 0
)

// Magic is the 4-byte file signature.
var Magic = [4]byte{'s', 'm', 'p', 'r'}

var (
	// ErrBadMagic is returned when a file does not start with [Magic].
	ErrBadMagic = errors.New("not a resource pack (invalid magic bytes)")

	// ErrUnsupportedVersion is returned for packs written in a
	// version other than [FormatVersion].
	ErrUnsupportedVersion = errors.New("unsupported resource pack version")

	// ErrTooLarge is returned when a pack would exceed the 32-bit
	// offsets of the descriptor table.
	ErrTooLarge = errors.New("resource pack exceeds 4 GiB addressable by the descriptor table")
)

// PaddedIDSectionLength rounds an ID byte count up to the next
// multiple of 4.
func PaddedIDSectionLength(length int) int {
	return (length + idAlignment - 1) / idAlignment * idAlignment
}

// DataSectionStart returns the file offset of the first data byte for
// a pack with the given padded ID section length and resource count.
func DataSectionStart(idSectionLength, resourceCount int) int64 {
	return HeaderSize + int64(idSectionLength) + RecordSize*int64(resourceCount)
}
