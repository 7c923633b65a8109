// tsc_arm64.go: arm64 CNTVCT_EL0 cycle-counter reads
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package tsc

//go:noescape
func readCNTVCT() uint64

//go:noescape
func readCNTVCTIsb() uint64

//go:noescape
func readCNTVCTFenced() uint64

func newReader() Reader {
	return Reader{
		Fast: readCNTVCT,
		Mid:  readCNTVCTIsb,
		Hard: readCNTVCTFenced,
	}
}

// invariantTSC is true on every arm64 implementation chronoscope targets:
// the architecture mandates that the virtual counter, CNTVCT_EL0, runs at
// a constant frequency shared across cores.
func invariantTSC() bool {
	return true
}
