// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pack

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// Entry is one resource handed to the assembler. Entries are laid out
// in the order they are added.
type Entry struct {
	// ID is the resource's logical name. Non-empty, at most
	// [MaxIDLength] bytes.
	ID string

	// Flags is the descriptor flag word, e.g. [FlagLZ77Compressed].
	Flags uint16

	// DataLength is the exact number of bytes Open yields: the
	// encoded artifact size.
	DataLength int64

	// UncompressedLength is the size of the original source.
	UncompressedLength int64

	// Open returns the artifact bytes. It is called once, in order,
	// while the data section is written, and the reader is closed
	// before the next entry is opened.
	Open func() (io.ReadCloser, error)
}

// Record is one descriptor table entry as stored in the pack.
type Record struct {
	// IDOffset is the byte offset of the ID within the ID section.
	IDOffset uint32

	// IDLength is the ID's length in bytes.
	IDLength uint16

	// Flags is the descriptor flag word.
	Flags uint16

	// DataOffset is the absolute file offset of the stored bytes.
	DataOffset uint32

	// DataLength is the number of stored bytes.
	DataLength uint32

	// UncompressedLength is the size of the resource once decoded.
	UncompressedLength uint32
}

// Compressed reports whether the stored bytes are an LZ77 stream.
func (record Record) Compressed() bool {
	return record.Flags&FlagLZ77Compressed != 0
}

// AppendBinary appends the 20-byte big-endian encoding of the record.
func (record Record) AppendBinary(dst []byte) []byte {
	dst = binary.BigEndian.AppendUint32(dst, record.IDOffset)
	dst = binary.BigEndian.AppendUint16(dst, record.IDLength)
	dst = binary.BigEndian.AppendUint16(dst, record.Flags)
	dst = binary.BigEndian.AppendUint32(dst, record.DataOffset)
	dst = binary.BigEndian.AppendUint32(dst, record.DataLength)
	return binary.BigEndian.AppendUint32(dst, record.UncompressedLength)
}

// parseRecord decodes a record from exactly RecordSize bytes.
func parseRecord(data []byte) Record {
	return Record{
		IDOffset:           binary.BigEndian.Uint32(data[0:4]),
		IDLength:           binary.BigEndian.Uint16(data[4:6]),
		Flags:              binary.BigEndian.Uint16(data[6:8]),
		DataOffset:         binary.BigEndian.Uint32(data[8:12]),
		DataLength:         binary.BigEndian.Uint32(data[12:16]),
		UncompressedLength: binary.BigEndian.Uint32(data[16:20]),
	}
}

// Layout is the fully computed structure of a pack: everything except
// the data bytes themselves.
type Layout struct {
	// IDSection is the padded ID section exactly as written.
	IDSection []byte

	// Records are the descriptor records in entry order.
	Records []Record

	// DataSectionStart is the file offset of the first data byte.
	DataSectionStart int64

	// Size is the total pack file size.
	Size int64
}

// ComputeLayout assigns ID and data offsets for entries in order. It
// does not open any entry; sizes come from the entries' declared
// lengths.
func ComputeLayout(entries []Entry) (*Layout, error) {
	if len(entries) > MaxResources {
		return nil, fmt.Errorf("%d resources exceeds the format limit of %d", len(entries), MaxResources)
	}

	records := make([]Record, len(entries))

	// ID section: concatenate in order, then pad to alignment.
	var idLength int
	for i, entry := range entries {
		switch {
		case entry.ID == "":
			return nil, fmt.Errorf("resource %d: empty id", i)
		case len(entry.ID) > MaxIDLength:
			return nil, fmt.Errorf("resource %q: id length %d exceeds %d", entry.ID, len(entry.ID), MaxIDLength)
		}
		idLength += len(entry.ID)
	}
	idSection := make([]byte, 0, PaddedIDSectionLength(idLength))
	for i, entry := range entries {
		records[i].IDOffset = uint32(len(idSection))
		records[i].IDLength = uint16(len(entry.ID))
		idSection = append(idSection, entry.ID...)
	}
	for len(idSection)%idAlignment != 0 {
		idSection = append(idSection, 0)
	}

	// Data section: contiguous, starting right after the table.
	dataSectionStart := DataSectionStart(len(idSection), len(entries))
	offset := dataSectionStart
	for i, entry := range entries {
		if entry.DataLength < 0 || entry.UncompressedLength < 0 {
			return nil, fmt.Errorf("resource %q: negative length", entry.ID)
		}
		if entry.UncompressedLength > math.MaxUint32 {
			return nil, fmt.Errorf("resource %q: uncompressed length %d: %w", entry.ID, entry.UncompressedLength, ErrTooLarge)
		}
		if offset+entry.DataLength > math.MaxUint32 {
			return nil, fmt.Errorf("resource %q ends at offset %d: %w", entry.ID, offset+entry.DataLength, ErrTooLarge)
		}

		records[i].Flags = entry.Flags
		records[i].DataOffset = uint32(offset)
		records[i].DataLength = uint32(entry.DataLength)
		records[i].UncompressedLength = uint32(entry.UncompressedLength)
		offset += entry.DataLength
	}

	return &Layout{
		IDSection:        idSection,
		Records:          records,
		DataSectionStart: dataSectionStart,
		Size:             offset,
	}, nil
}

// AppendHeader appends the 12-byte header, the ID section, and the
// descriptor table: every byte of the pack before the data section.
func (layout *Layout) AppendHeader(dst []byte) []byte {
	dst = append(dst, Magic[:]...)
	dst = binary.BigEndian.AppendUint16(dst, FormatVersion)
	dst = binary.BigEndian.AppendUint16(dst, uint16(len(layout.Records)))
	dst = binary.BigEndian.AppendUint32(dst, uint32(len(layout.IDSection)))
	dst = append(dst, layout.IDSection...)
	for _, record := range layout.Records {
		dst = record.AppendBinary(dst)
	}
	return dst
}
