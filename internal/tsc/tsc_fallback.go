// tsc_fallback.go: portable fallback for architectures without a native
// cycle-counter reader in this package
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

//go:build !amd64 && !arm64

package tsc

import "time"

// newReader backs Fast/Mid/Hard with the monotonic wall clock on
// architectures this package has no assembly for. This is explicitly not
// a true cycle counter — it trades the spec's "never fall back to a
// coarse wall clock" preference for the ability to run at all outside
// amd64/arm64. Every value returned by this fallback carries nanosecond,
// not cycle, granularity; Calibrate() still measures cycles_per_ns
// against it, which converges to 1.0 since the numerator and denominator
// are now the same clock.
func newReader() Reader {
	read := func() uint64 { return uint64(time.Now().UnixNano()) }
	return Reader{Fast: read, Mid: read, Hard: read}
}

func invariantTSC() bool {
	return false
}
