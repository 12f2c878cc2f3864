// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package packer

import (
	"bufio"
	"bytes"
	"fmt"
	"os"

	"github.com/bureau-foundation/respack/lib/pack"
)

// VerifyPack re-reads the pack at path and checks it end to end: the
// header and ID section parse, data offsets are contiguous and account
// for the whole file, and every resource extracts (decoding LZ77) to
// its recorded uncompressed length. If expected is non-nil the on-disk
// ID section and records must match it exactly.
func VerifyPack(path string, expected *pack.Layout) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return err
	}

	index, err := pack.ReadIndex(bufio.NewReader(file))
	if err != nil {
		return err
	}
	if err := index.Verify(info.Size()); err != nil {
		return err
	}

	if expected != nil {
		if !bytes.Equal(index.IDSection, expected.IDSection) {
			return fmt.Errorf("ID section on disk differs from the computed layout")
		}
		if len(index.Records) != len(expected.Records) {
			return fmt.Errorf("pack has %d records, layout has %d", len(index.Records), len(expected.Records))
		}
		for i := range index.Records {
			if index.Records[i] != expected.Records[i] {
				return fmt.Errorf("record %d (%q) on disk is %+v, layout has %+v",
					i, index.ID(i), index.Records[i], expected.Records[i])
			}
		}
	}

	for i := range index.Records {
		if _, err := index.Extract(file, i); err != nil {
			return err
		}
	}
	return nil
}
