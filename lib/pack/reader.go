// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pack

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/bureau-foundation/respack/lib/lz77"
)

// Index is the parsed header, ID section, and descriptor table of a
// pack. Create one with [ReadIndex], then read resource data with
// [Index.ReadData] or [Index.Extract].
type Index struct {
	// Version is the format version from the header.
	Version uint16

	// IDSection is the padded ID section.
	IDSection []byte

	// Records are the descriptor records in pack order.
	Records []Record

	// DataSectionStart is the file offset where resource data begins.
	DataSectionStart int64
}

// ReadIndex reads and validates the header, ID section, and
// descriptor table from r, which must be positioned at the start of
// the pack. After this call r is positioned at the start of the data
// section.
func ReadIndex(r io.Reader) (*Index, error) {
	var header [HeaderSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, fmt.Errorf("reading pack header: %w", err)
	}
	if !bytes.Equal(header[0:4], Magic[:]) {
		return nil, ErrBadMagic
	}
	version := binary.BigEndian.Uint16(header[4:6])
	if version != FormatVersion {
		return nil, fmt.Errorf("%w: version %d (this code supports version %d)",
			ErrUnsupportedVersion, version, FormatVersion)
	}
	count := int(binary.BigEndian.Uint16(header[6:8]))
	idSectionLength := binary.BigEndian.Uint32(header[8:12])
	if idSectionLength%idAlignment != 0 {
		return nil, fmt.Errorf("ID section length %d is not a multiple of %d", idSectionLength, idAlignment)
	}

	// Bound the allocation by what the format can describe: every
	// ID is at most MaxIDLength bytes, plus padding.
	if int64(idSectionLength) > int64(count)*MaxIDLength+idAlignment {
		return nil, fmt.Errorf("ID section length %d is impossible for %d resources", idSectionLength, count)
	}
	idSection := make([]byte, idSectionLength)
	if _, err := io.ReadFull(r, idSection); err != nil {
		return nil, fmt.Errorf("reading ID section (%d bytes): %w", idSectionLength, err)
	}

	table := make([]byte, count*RecordSize)
	if _, err := io.ReadFull(r, table); err != nil {
		return nil, fmt.Errorf("reading descriptor table (%d records): %w", count, err)
	}
	records := make([]Record, count)
	for i := range records {
		records[i] = parseRecord(table[i*RecordSize : (i+1)*RecordSize])
	}

	index := &Index{
		Version:          version,
		IDSection:        idSection,
		Records:          records,
		DataSectionStart: DataSectionStart(len(idSection), count),
	}
	if err := index.checkIDs(); err != nil {
		return nil, err
	}
	return index, nil
}

// checkIDs verifies that the records tile the ID section in order and
// that only NUL padding follows the last ID.
func (index *Index) checkIDs() error {
	var next uint32
	for i, record := range index.Records {
		if record.IDOffset != next {
			return fmt.Errorf("record %d: ID offset %d, expected %d", i, record.IDOffset, next)
		}
		if record.IDLength == 0 {
			return fmt.Errorf("record %d: empty ID", i)
		}
		next += uint32(record.IDLength)
		if next > uint32(len(index.IDSection)) {
			return fmt.Errorf("record %d: ID ends at %d, past the %d-byte ID section", i, next, len(index.IDSection))
		}
	}
	if PaddedIDSectionLength(int(next)) != len(index.IDSection) {
		return fmt.Errorf("ID section is %d bytes, IDs occupy %d", len(index.IDSection), next)
	}
	for _, b := range index.IDSection[next:] {
		if b != 0 {
			return fmt.Errorf("non-NUL byte %#02x in ID section padding", b)
		}
	}
	return nil
}

// Len returns the number of resources.
func (index *Index) Len() int {
	return len(index.Records)
}

// ID returns the ID of resource i.
func (index *Index) ID(i int) string {
	record := index.Records[i]
	return string(index.IDSection[record.IDOffset : record.IDOffset+uint32(record.IDLength)])
}

// IDs returns every resource ID in pack order.
func (index *Index) IDs() []string {
	ids := make([]string, len(index.Records))
	for i := range index.Records {
		ids[i] = index.ID(i)
	}
	return ids
}

// Lookup returns the position of the resource with the given ID.
func (index *Index) Lookup(id string) (int, bool) {
	for i := range index.Records {
		if index.ID(i) == id {
			return i, true
		}
	}
	return -1, false
}

// DataSize returns the sum of all records' data lengths.
func (index *Index) DataSize() int64 {
	var total int64
	for _, record := range index.Records {
		total += int64(record.DataLength)
	}
	return total
}

// Verify checks the data section invariants against the pack's total
// file size: offsets start at the data section, are contiguous, and
// the data lengths account for every remaining byte of the file.
func (index *Index) Verify(fileSize int64) error {
	next := index.DataSectionStart
	for i, record := range index.Records {
		if int64(record.DataOffset) != next {
			return fmt.Errorf("record %d (%q): data offset %d, expected %d",
				i, index.ID(i), record.DataOffset, next)
		}
		next += int64(record.DataLength)
	}
	if next != fileSize {
		return fmt.Errorf("descriptor table accounts for %d bytes, file is %d", next, fileSize)
	}
	return nil
}

// ReadData reads the stored (possibly compressed) bytes of resource i.
func (index *Index) ReadData(r io.ReaderAt, i int) ([]byte, error) {
	if i < 0 || i >= len(index.Records) {
		return nil, fmt.Errorf("resource index %d out of range [0, %d)", i, len(index.Records))
	}
	record := index.Records[i]
	data := make([]byte, record.DataLength)
	if len(data) == 0 {
		return data, nil
	}
	// ReaderAt may report io.EOF alongside a full read at end of file.
	n, err := r.ReadAt(data, int64(record.DataOffset))
	if err != nil && !(n == len(data) && errors.Is(err, io.EOF)) {
		return nil, fmt.Errorf("reading resource %q (%d bytes at offset %d): %w",
			index.ID(i), record.DataLength, record.DataOffset, err)
	}
	return data, nil
}

// Extract reads resource i and decodes it if it is compressed. The
// result is checked against the record's uncompressed length.
func (index *Index) Extract(r io.ReaderAt, i int) ([]byte, error) {
	data, err := index.ReadData(r, i)
	if err != nil {
		return nil, err
	}
	record := index.Records[i]
	if record.Compressed() {
		data, err = lz77.Decode(data)
		if err != nil {
			return nil, fmt.Errorf("decoding resource %q: %w", index.ID(i), err)
		}
	}
	if int64(len(data)) != int64(record.UncompressedLength) {
		return nil, fmt.Errorf("resource %q: decoded %d bytes, record says %d",
			index.ID(i), len(data), record.UncompressedLength)
	}
	return data, nil
}
