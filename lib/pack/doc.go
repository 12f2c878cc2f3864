// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package pack assembles and reads resource pack containers.
//
// A pack is a single file with four consecutive sections. All
// multi-byte integers are big-endian.
//
//	offset 0   magic "smpr"                         4 bytes
//	offset 4   format version (1)                   2 bytes
//	offset 6   resource count N                     2 bytes
//	offset 8   ID section length L (multiple of 4)  4 bytes
//	offset 12  ID section                           L bytes
//	12+L       descriptor table                     N x 20 bytes
//	12+L+20N   data section                         sum of data lengths
//
// The ID section is every resource ID concatenated in manifest order
// and padded with NUL bytes to a multiple of 4. Each descriptor
// record locates one resource:
//
//	id offset            4 bytes  relative to the ID section
//	id length            2 bytes
//	flags                2 bytes  bit 0: LZ77 compressed
//	data offset          4 bytes  absolute, from the start of the file
//	data length          4 bytes  encoded (stored) size
//	uncompressed length  4 bytes  size of the original source
//
// The ID section, descriptor table, and data section are parallel:
// entry i of each belongs to the same resource, in manifest order.
// Data offsets start immediately after the descriptor table and are
// contiguous, so a reader can locate any resource with one table
// read and no scanning.
//
// [ComputeLayout] derives every offset from the entry list without
// touching the file system. [Builder] writes a complete pack, and
// [ReadIndex] parses one back and checks its structural invariants.
package pack
