// tsc_amd64.go: amd64 RDTSC/RDTSCP cycle-counter reads
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package tsc

import "golang.org/x/sys/cpu"

//go:noescape
func readTSC() uint64

//go:noescape
func readTSCP() uint64

//go:noescape
func readTSCFenced() uint64

func newReader() Reader {
	return Reader{
		Fast: readTSC,
		Mid:  readTSCP,
		Hard: readTSCFenced,
	}
}

// invariantTSC approximates the InvariantTSC CPU feature, which
// golang.org/x/sys/cpu does not expose: it reports true when the CPU has
// AVX or SSE4.2, as a proxy for a modern x86-64 part, and false
// otherwise. The invariant-TSC bit itself is not read. It only affects
// the Invariant advisory flag, not correctness (core migration
// mid-scope is handled by clamping the delta to zero regardless of this
// flag's value).
func invariantTSC() bool {
	return cpu.X86.HasAVX || cpu.X86.HasSSE42
}
