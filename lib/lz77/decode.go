// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package lz77

import "fmt"

// Decode reverses [Compress]: it parses the 4-byte codeword stream and
// reconstructs the original bytes.
func Decode(stream []byte) ([]byte, error) {
	codewords, err := ParseCodewords(stream)
	if err != nil {
		return nil, err
	}
	return DecodeCodewords(codewords)
}

// DecodeCodewords reconstructs the bytes described by codewords. A
// run whose lookback reaches before the start of the output is
// reported as [ErrCorrupt].
func DecodeCodewords(codewords []Codeword) ([]byte, error) {
	size := 0
	for _, codeword := range codewords {
		size += codeword.Span()
	}
	out := make([]byte, 0, size)

	for i, codeword := range codewords {
		if err := codeword.validate(); err != nil {
			return nil, fmt.Errorf("%w: codeword %d: %v", ErrCorrupt, i, err)
		}
		if codeword.Kind == KindRun {
			start := len(out) - int(codeword.Lookback)
			if start < 0 {
				return nil, fmt.Errorf("%w: codeword %d looks back %d bytes with only %d decoded",
					ErrCorrupt, i, codeword.Lookback, len(out))
			}
			// Forward byte-at-a-time copy: when lookback < length the
			// source range overlaps bytes appended by this loop.
			for offset := 0; offset < int(codeword.Length); offset++ {
				out = append(out, out[start+offset])
			}
		}
		out = append(out, codeword.Token)
	}

	return out, nil
}
