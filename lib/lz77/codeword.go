// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package lz77

import (
	"encoding/binary"
	"errors"
	"fmt"
)

// Wire format constants. These are fixed by the artifact format and
// are not tunable: the lookback field is a uint16 and the length
// field a uint8.
const (
	// CodewordSize is the encoded width of every codeword.
	CodewordSize = 4

	// MaxLookback is the largest distance a run can reach back.
	MaxLookback = 65535

	// MaxLength is the largest number of bytes a single run copies.
	MaxLength = 255

	// MinMatch is the prefix length a candidate must share with the
	// current position before it is considered. Shorter matches cost
	// more as a 4-byte codeword than the literals they replace.
	MinMatch = 3
)

// ErrCorrupt is returned when a codeword stream cannot be decoded.
var ErrCorrupt = errors.New("lz77: corrupt codeword stream")

// Kind distinguishes the two codeword shapes.
type Kind uint8

const (
	// KindLiteral emits a single byte.
	KindLiteral Kind = iota

	// KindRun copies earlier output and then emits a trailing byte.
	KindRun
)

// String returns the human-readable name of the codeword kind.
func (kind Kind) String() string {
	switch kind {
	case KindLiteral:
		return "literal"
	case KindRun:
		return "run"
	default:
		return fmt.Sprintf("unknown(%d)", kind)
	}
}

// Codeword is one unit of the compressed stream. Construct values
// with [Literal] or [Run]; the zero value is a literal NUL byte.
type Codeword struct {
	// Kind selects between a literal and a run.
	Kind Kind

	// Lookback is the distance from the current output position back
	// to the start of the copied bytes. Always zero for literals.
	Lookback uint16

	// Length is the number of bytes copied. Always zero for literals.
	Length uint8

	// Token is the literal byte, or for a run the byte emitted after
	// the copy.
	Token byte
}

// Literal returns a codeword that emits b.
func Literal(b byte) Codeword {
	return Codeword{Kind: KindLiteral, Token: b}
}

// Run returns a codeword that copies length bytes starting lookback
// bytes back, then emits token. Lookback must be at least 1.
func Run(lookback uint16, length uint8, token byte) Codeword {
	return Codeword{Kind: KindRun, Lookback: lookback, Length: length, Token: token}
}

// Span returns the number of output bytes the codeword produces.
func (c Codeword) Span() int {
	if c.Kind == KindLiteral {
		return 1
	}
	return int(c.Length) + 1
}

func (c Codeword) String() string {
	if c.Kind == KindLiteral {
		return fmt.Sprintf("Literal(%#02x)", c.Token)
	}
	return fmt.Sprintf("Run(lookback=%d, length=%d, token=%#02x)", c.Lookback, c.Length, c.Token)
}

// validate checks that the codeword can round-trip through the wire
// encoding without changing shape.
func (c Codeword) validate() error {
	switch c.Kind {
	case KindLiteral:
		if c.Lookback != 0 || c.Length != 0 {
			return fmt.Errorf("literal codeword with lookback %d and length %d", c.Lookback, c.Length)
		}
	case KindRun:
		if c.Lookback == 0 {
			return fmt.Errorf("run codeword with zero lookback")
		}
	default:
		return fmt.Errorf("unknown codeword kind %d", c.Kind)
	}
	return nil
}

// AppendBinary appends the 4-byte wire form of c to dst.
func (c Codeword) AppendBinary(dst []byte) ([]byte, error) {
	if err := c.validate(); err != nil {
		return dst, err
	}
	dst = binary.LittleEndian.AppendUint16(dst, c.Lookback)
	return append(dst, c.Length, c.Token), nil
}

// MarshalBinary returns the 4-byte wire form of c.
func (c Codeword) MarshalBinary() ([]byte, error) {
	return c.AppendBinary(make([]byte, 0, CodewordSize))
}

// UnmarshalBinary parses exactly one 4-byte codeword.
func (c *Codeword) UnmarshalBinary(data []byte) error {
	if len(data) != CodewordSize {
		return fmt.Errorf("%w: codeword is %d bytes, want %d", ErrCorrupt, len(data), CodewordSize)
	}
	lookback := binary.LittleEndian.Uint16(data[0:2])
	length := data[2]
	token := data[3]
	if lookback == 0 {
		if length != 0 {
			return fmt.Errorf("%w: literal marker with non-zero length %d", ErrCorrupt, length)
		}
		*c = Literal(token)
		return nil
	}
	*c = Run(lookback, length, token)
	return nil
}

// AppendCodewords serializes codewords onto dst in stream order.
func AppendCodewords(dst []byte, codewords []Codeword) ([]byte, error) {
	for i, codeword := range codewords {
		var err error
		dst, err = codeword.AppendBinary(dst)
		if err != nil {
			return dst, fmt.Errorf("codeword %d: %w", i, err)
		}
	}
	return dst, nil
}

// ParseCodewords splits a serialized stream into codewords. The
// stream length must be a multiple of [CodewordSize].
func ParseCodewords(data []byte) ([]Codeword, error) {
	if len(data)%CodewordSize != 0 {
		return nil, fmt.Errorf("%w: stream length %d is not a multiple of %d",
			ErrCorrupt, len(data), CodewordSize)
	}
	codewords := make([]Codeword, len(data)/CodewordSize)
	for i := range codewords {
		offset := i * CodewordSize
		if err := codewords[i].UnmarshalBinary(data[offset : offset+CodewordSize]); err != nil {
			return nil, fmt.Errorf("codeword %d at offset %d: %w", i, offset, err)
		}
	}
	return codewords, nil
}
