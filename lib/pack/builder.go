// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package pack

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/bureau-foundation/respack/lib/atomicfile"
)

// Builder accumulates entries and writes them as a pack. The header
// and descriptor table precede the data, so all sizes must be known
// up front; entry contents are only streamed during [Builder.Write].
//
// Typical usage:
//
//	builder := pack.NewBuilder()
//	builder.Add(entry)
//	// ... add more entries in manifest order ...
//	layout, err := builder.WriteFile("pack.smr")
type Builder struct {
	entries []Entry
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Add appends an entry. Entries are written in the order added.
func (b *Builder) Add(entry Entry) {
	b.entries = append(b.entries, entry)
}

// Count returns the number of entries added so far.
func (b *Builder) Count() int {
	return len(b.entries)
}

// Layout computes the pack layout for the entries added so far.
func (b *Builder) Layout() (*Layout, error) {
	return ComputeLayout(b.entries)
}

// Write writes the complete pack to w and returns its layout. Each
// entry must yield exactly its declared DataLength bytes; a short or
// long artifact is an error, since every later offset in the already
// written table would be wrong.
func (b *Builder) Write(w io.Writer) (*Layout, error) {
	layout, err := b.Layout()
	if err != nil {
		return nil, err
	}

	header := layout.AppendHeader(make([]byte, 0, layout.DataSectionStart))
	if _, err := w.Write(header); err != nil {
		return nil, fmt.Errorf("writing pack header: %w", err)
	}

	for i, entry := range b.entries {
		if err := copyEntry(w, entry); err != nil {
			return nil, fmt.Errorf("writing data for resource %d (%q): %w", i, entry.ID, err)
		}
	}

	return layout, nil
}

// WriteFile atomically writes the pack to path. On failure no file is
// left at path (or the previous pack there is kept intact).
func (b *Builder) WriteFile(path string) (*Layout, error) {
	var layout *Layout
	written, err := atomicfile.Write(path, func(w io.Writer) error {
		var err error
		layout, err = b.Write(w)
		return err
	})
	if err != nil {
		return nil, err
	}
	if written != layout.Size {
		return nil, fmt.Errorf("wrote %d bytes to %s, layout expects %d", written, path, layout.Size)
	}
	return layout, nil
}

// copyEntry streams one entry's data, checking the declared length.
func copyEntry(w io.Writer, entry Entry) error {
	if entry.Open == nil {
		if entry.DataLength == 0 {
			return nil
		}
		return fmt.Errorf("no data source for %d bytes", entry.DataLength)
	}

	reader, err := entry.Open()
	if err != nil {
		return err
	}
	defer reader.Close()

	copied, err := io.CopyN(w, reader, entry.DataLength)
	if err != nil {
		if err == io.EOF {
			return fmt.Errorf("artifact is %d bytes, expected %d", copied, entry.DataLength)
		}
		return err
	}

	// Any byte past the declared length means the artifact changed
	// between sizing and copying.
	var probe [1]byte
	if n, _ := reader.Read(probe[:]); n > 0 {
		return fmt.Errorf("artifact is longer than the expected %d bytes", entry.DataLength)
	}
	return nil
}

// BytesEntry returns an entry backed by an in-memory buffer.
func BytesEntry(id string, flags uint16, data []byte, uncompressedLength int64) Entry {
	return Entry{
		ID:                 id,
		Flags:              flags,
		DataLength:         int64(len(data)),
		UncompressedLength: uncompressedLength,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

// FileEntry returns an entry backed by the file at path. The data
// length is taken from the file's current size.
func FileEntry(id string, flags uint16, path string, uncompressedLength int64) (Entry, error) {
	info, err := os.Stat(path)
	if err != nil {
		return Entry{}, fmt.Errorf("sizing artifact %s: %w", path, err)
	}
	if !info.Mode().IsRegular() {
		return Entry{}, fmt.Errorf("artifact %s is not a regular file", path)
	}
	return Entry{
		ID:                 id,
		Flags:              flags,
		DataLength:         info.Size(),
		UncompressedLength: uncompressedLength,
		Open: func() (io.ReadCloser, error) {
			file, err := os.Open(path)
			if err != nil {
				return nil, fmt.Errorf("opening artifact %s: %w", path, err)
			}
			return file, nil
		},
	}, nil
}
