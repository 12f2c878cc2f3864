// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package binhash

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/zeebo/blake3"
)

// Digest is a 32-byte BLAKE3 digest.
type Digest [32]byte

// digestPrefix tags the text form with the algorithm.
const digestPrefix = "blake3:"

// packDomainKey is the BLAKE3 key for pack digests: the ASCII domain
// name zero-padded to 32 bytes. Changing it changes every digest.
var packDomainKey = [32]byte{
	'r', 'e', 's', 'p', 'a', 'c', 'k', '.', 'p', 'a', 'c', 'k',
}

func newHasher() *blake3.Hasher {
	hasher, err := blake3.NewKeyed(packDomainKey[:])
	if err != nil {
		// Only fails for a key that is not 32 bytes.
		panic("binhash: " + err.Error())
	}
	return hasher
}

// HashFile computes the digest of the file at path, streaming it
// through the hasher.
func HashFile(path string) (Digest, error) {
	file, err := os.Open(path)
	if err != nil {
		return Digest{}, fmt.Errorf("opening %s for hashing: %w", path, err)
	}
	defer file.Close()

	hasher := newHasher()
	if _, err := io.Copy(hasher, file); err != nil {
		return Digest{}, fmt.Errorf("hashing %s: %w", path, err)
	}

	var digest Digest
	copy(digest[:], hasher.Sum(nil))
	return digest, nil
}

// HashBytes computes the digest of data.
func HashBytes(data []byte) Digest {
	hasher := newHasher()
	hasher.Write(data)
	var digest Digest
	copy(digest[:], hasher.Sum(nil))
	return digest
}

// FormatDigest returns the canonical text form, "blake3:" followed by
// 64 lowercase hex characters.
func FormatDigest(digest Digest) string {
	return digestPrefix + hex.EncodeToString(digest[:])
}

// String implements fmt.Stringer.
func (digest Digest) String() string {
	return FormatDigest(digest)
}

// Short returns the first 12 hex characters, for status lines.
func (digest Digest) Short() string {
	return hex.EncodeToString(digest[:6])
}

// ParseDigest parses the text form produced by [FormatDigest]. The
// "blake3:" prefix is optional.
func ParseDigest(text string) (Digest, error) {
	var digest Digest
	decoded, err := hex.DecodeString(strings.TrimPrefix(text, digestPrefix))
	if err != nil {
		return digest, fmt.Errorf("parsing digest: %w", err)
	}
	if len(decoded) != len(digest) {
		return digest, fmt.Errorf("digest is %d bytes, want %d", len(decoded), len(digest))
	}
	copy(digest[:], decoded)
	return digest, nil
}
