// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

// Package clock provides an injectable time source for testability.
//
// Code that measures or records wall time accepts a [Clock] instead of
// calling time.Now directly. Production code passes [Real]; tests pass
// [Fake], which stands still until [FakeClock.Advance] is called:
//
//	c := clock.Fake(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
//	result, err := packer.Build(ctx, packer.Options{Clock: c})
//	// result.Duration is exactly what the test advanced, here zero.
package clock
