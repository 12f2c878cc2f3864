// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package lz77

import "sort"

// Encode compresses data into a codeword stream. The returned slice
// is empty for empty input. See [Compress] for the serialized form.
func Encode(data []byte) []Codeword {
	if len(data) == 0 {
		return nil
	}

	index := newPrefixIndex(data)
	codewords := make([]Codeword, 0, len(data)/2+1)

	position := 0
	for position < len(data) {
		remaining := len(data) - position
		if position == 0 || remaining < MinMatch {
			codewords = append(codewords, Literal(data[position]))
			position++
			continue
		}

		window := min(position, MaxLookback)
		lookahead := min(MaxLength, remaining-1)

		candidates := index.window(data, position, window)
		if len(candidates) == 0 {
			codewords = append(codewords, Literal(data[position]))
			position++
			continue
		}

		lookback, length := longestMatch(data, position, lookahead, candidates)
		codewords = append(codewords, Run(uint16(lookback), uint8(length), data[position+length]))
		position += length + 1
	}

	return codewords
}

// Compress encodes data and serializes the codewords into the 4-byte
// wire format.
func Compress(data []byte) []byte {
	codewords := Encode(data)
	out := make([]byte, 0, len(codewords)*CodewordSize)
	// Encode only produces well-formed codewords, so serialization
	// cannot fail.
	out, err := AppendCodewords(out, codewords)
	if err != nil {
		panic("lz77: encoder produced an invalid codeword: " + err.Error())
	}
	return out
}

// longestMatch finds the longest match for position among candidates,
// which are ascending start positions that already share the
// MinMatch-byte prefix. The result is the one the candidate filter
// produces: the match grows while any candidate still agrees, and ties
// go to the nearest candidate. Walking candidates nearest first and
// keeping only strictly longer matches yields the same pair, and a
// match that reaches lookahead cannot be beaten, so the walk stops
// there.
func longestMatch(data []byte, position, lookahead int, candidates []int) (lookback, length int) {
	for i := len(candidates) - 1; i >= 0; i-- {
		start := candidates[i]

		// The seeded prefix covers the first MinMatch bytes.
		matched := min(MinMatch, lookahead)
		for matched < lookahead && data[start+matched] == data[position+matched] {
			matched++
		}

		if matched > length {
			length = matched
			lookback = position - start
			if length == lookahead {
				break
			}
		}
	}
	return lookback, length
}

// prefixIndex maps each 3-byte prefix to the ascending list of
// positions where it begins. The encoder consults it instead of
// scanning the whole window at every position.
type prefixIndex struct {
	positions map[uint32][]int
}

func newPrefixIndex(data []byte) *prefixIndex {
	index := &prefixIndex{positions: make(map[uint32][]int)}
	for position := 0; position+MinMatch <= len(data); position++ {
		key := prefixKey(data, position)
		index.positions[key] = append(index.positions[key], position)
	}
	return index
}

// window returns the ascending start positions in
// [position-size, position) that share the prefix at position. The
// result aliases the index and must not be modified.
func (index *prefixIndex) window(data []byte, position, size int) []int {
	starts := index.positions[prefixKey(data, position)]
	lower := sort.SearchInts(starts, position-size)
	upper := sort.SearchInts(starts, position)
	return starts[lower:upper]
}

func prefixKey(data []byte, position int) uint32 {
	return uint32(data[position])<<16 | uint32(data[position+1])<<8 | uint32(data[position+2])
}
