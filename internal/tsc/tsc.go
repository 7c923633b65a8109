// tsc.go: cycle-counter reader selection
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

// Package tsc reads the CPU's user-mode cycle counter at three
// serialization strengths: Fast (unordered), Mid (serializing on one
// side), and Hard (load-fence plus serializing read). Each GOARCH gets
// its own file pair (implementation + build tag), the same convention
// ehrlich-b's ublk driver uses for its per-platform io_uring opcode
// files: one real implementation file per architecture, one portable
// stub for everything else.
package tsc

// Reader exposes the three timestamp sources at increasing
// serialization strength, matching the hierarchy this package's callers
// require: Fast for steady-state sampling, Mid and Hard for the scope
// boundaries that must not be reordered across.
type Reader struct {
	Fast func() uint64
	Mid  func() uint64
	Hard func() uint64
}

// Default is the Reader selected for the running GOARCH at init time.
var Default = newReader()

// Invariant reports whether the platform's cycle counter is believed to
// be invariant across cores (constant rate, no core-migration skew). When
// false, callers should pin the recording goroutine's OS thread if they
// need cross-call monotonicity; the package itself never pins threads.
var Invariant = invariantTSC()
