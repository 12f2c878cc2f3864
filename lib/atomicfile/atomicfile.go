// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package atomicfile writes files through a temporary sibling and a
// rename, so readers only ever observe the previous content or the
// complete new content. A failed write removes the temporary file and
// leaves any existing file at the destination untouched.
package atomicfile

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Write creates path by calling fill with a buffered writer over a
// temporary file in the same directory. The buffer is flushed, the
// file synced and closed, and then renamed over path. If fill or any
// later step fails, the temporary file is removed and path is left as
// it was.
//
// Returns the number of bytes written.
func Write(path string, fill func(w io.Writer) error) (int64, error) {
	directory := filepath.Dir(path)
	tmpFile, err := os.CreateTemp(directory, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return 0, fmt.Errorf("creating temp file for %s: %w", path, err)
	}
	tmpPath := tmpFile.Name()

	// Clean up the temp file on any error path.
	success := false
	defer func() {
		if !success {
			tmpFile.Close()
			os.Remove(tmpPath)
		}
	}()

	counter := &countingWriter{writer: tmpFile}
	buffered := bufio.NewWriter(counter)
	if err := fill(buffered); err != nil {
		return 0, err
	}
	if err := buffered.Flush(); err != nil {
		return 0, fmt.Errorf("flushing %s: %w", tmpPath, err)
	}
	if err := tmpFile.Sync(); err != nil {
		return 0, fmt.Errorf("syncing %s: %w", tmpPath, err)
	}
	if err := tmpFile.Close(); err != nil {
		return 0, fmt.Errorf("closing %s: %w", tmpPath, err)
	}

	// CreateTemp uses 0600; match what os.Create would have produced.
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return 0, fmt.Errorf("setting permissions on %s: %w", tmpPath, err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return 0, fmt.Errorf("renaming %s to %s: %w", tmpPath, path, err)
	}

	success = true
	return counter.written, nil
}

// WriteBytes atomically replaces path with data.
func WriteBytes(path string, data []byte) error {
	_, err := Write(path, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	})
	return err
}

type countingWriter struct {
	writer  io.Writer
	written int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.writer.Write(p)
	c.written += int64(n)
	return n, err
}
