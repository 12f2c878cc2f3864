// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides the standard CBOR encoding configuration.
//
// Build reports are written as CBOR so that tools consuming them get a
// compact, typed, self-describing record. The encoder uses Core
// Deterministic Encoding (RFC 8949 §4.2): sorted map keys, smallest
// integer encoding, no indefinite-length items. The same report always
// produces identical bytes, so two builds of the same inputs can be
// compared byte for byte.
//
//	data, err := codec.Marshal(value)
//	err = codec.Unmarshal(data, &value)
//
// Types carry `json` struct tags; fxamacker/cbor reads them when `cbor`
// tags are absent, so one tag controls field naming for both formats.
package codec
