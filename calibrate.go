// calibrate.go: one-shot self-calibration
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package chronoscope

import (
	"fmt"
	"sort"
	"time"

	"github.com/agilira/chronoscope/internal/tsc"
)

const (
	calibWallSleep      = 120 * time.Millisecond
	calibSamplesPerPair = 2000
	calibWarmupPerPair  = 200
	calibBucketSize     = 1000
)

// calibration holds the results of the one-shot self-measurement:
// cycles-per-nanosecond and the per-(start, stop) mode overhead table
// plus the reserved Pulse slot.
type calibration struct {
	cyclesPerNs   float64
	uncalibrated  bool
	overhead      [overheadSlots]uint64
	overheadValid [overheadSlots]bool
}

// offset returns the measured overhead for k, or 0 if k is a sentinel
// (unset/mixed) or was never measured.
func (c calibration) offset(k calibKey) uint64 {
	if k == keyUnset || k == keyMixed {
		return 0
	}
	if int(k) >= len(c.overhead) || !c.overheadValid[k] {
		return 0
	}
	return c.overhead[k]
}

// runCalibration executes the full calibration procedure: cycles_per_ns,
// the nine (start, stop) permutations, and the Pulse slot. It runs its
// measurement loops against a dedicated Session and erases the
// calibration telemetry ids from that Session's buffer map before
// returning, so they never surface in a user-visible report.
func runCalibration() calibration {
	c := calibration{cyclesPerNs: measureCyclesPerNs()}
	if c.cyclesPerNs <= 0 {
		c.cyclesPerNs = 1.0
		c.uncalibrated = true
	}

	sess := newSession(calibSamplesPerPair + calibWarmupPerPair + 64)
	var usedIDs []ID

	for s := Mode(0); s < numModes; s++ {
		for e := Mode(0); e < numModes; e++ {
			id := Site(fmt.Sprintf("chronoscope.calibrate.%s.%s", s, e))
			usedIDs = append(usedIDs, id)
			measurePair(sess, s, e, id)
			idx := key(s, e)
			c.overhead[idx] = bumed(rawSamples(sess, id))
			c.overheadValid[idx] = true
		}
	}

	pulseID := Site("chronoscope.calibrate.pulse")
	usedIDs = append(usedIDs, pulseID)
	measurePulse(sess, pulseID)
	c.overhead[keyPulse] = bumed(rawSamples(sess, pulseID))
	c.overheadValid[keyPulse] = true

	defaultManager.forgetCalibrationIDs(usedIDs...)
	return c
}

// measureCyclesPerNs dual-samples a monotonic wall clock and the Fast
// TSC across a sleep of at least 100ms and derives the cycles-per-
// nanosecond ratio. Falls back to 0 (caller coerces to 1.0) if the
// wall-clock interval could not be measured.
func measureCyclesPerNs() float64 {
	wallStart := time.Now()
	tscStart := tsc.Default.Fast()
	time.Sleep(calibWallSleep)
	tscEnd := tsc.Default.Fast()
	wallElapsed := time.Since(wallStart)

	if wallElapsed <= 0 {
		return 0
	}
	return float64(tscEnd-tscStart) / float64(wallElapsed.Nanoseconds())
}

func modeRecorder(s *Session, m Mode) ModeRecorder {
	switch m {
	case Fast:
		return s.Fast
	case Mid:
		return s.Mid
	default:
		return s.Hard
	}
}

// measurePair runs an instrumented no-op Start(start)/Stop(stop) pair
// enough times to cover warmup plus the sample count BUMED needs,
// bracketing each iteration with a Hard read as a load-serializing
// barrier so consecutive iterations cannot interleave.
func measurePair(sess *Session, start, stop Mode, id ID) {
	startRec := modeRecorder(sess, start)
	stopRec := modeRecorder(sess, stop)

	for i := 0; i < calibSamplesPerPair+calibWarmupPerPair; i++ {
		startRec.Start(id)
		stopRec.Stop(id)
		tsc.Default.Hard()
	}
}

// measurePulse runs an instrumented Start/Pulse/Stop triple, the shape
// the Pulse primitive is actually used in: a scope wrapping one pulse
// event.
func measurePulse(sess *Session, id ID) {
	for i := 0; i < calibSamplesPerPair+calibWarmupPerPair; i++ {
		sess.Fast.Start(id)
		sess.Pulse(id)
		sess.Fast.Stop(id)
		tsc.Default.Hard()
	}
}

// rawSamples returns the samples measurePair/measurePulse recorded for
// id, past the warmup prefix.
func rawSamples(sess *Session, id ID) []uint64 {
	rb, ok := sess.buffers[id]
	if !ok {
		return nil
	}
	samples := rb.snapshot()
	if len(samples) <= calibWarmupPerPair {
		return samples
	}
	return samples[calibWarmupPerPair:]
}

// bumed computes the bucketed minimum median of samples: partition into
// fixed-size buckets of calibBucketSize, take each bucket's minimum, and
// return the median of those minima. A short trailing bucket is dropped.
// If no full bucket exists, returns the global minimum.
func bumed(samples []uint64) uint64 {
	if len(samples) == 0 {
		return 0
	}

	nBuckets := len(samples) / calibBucketSize
	if nBuckets == 0 {
		return minNonZero(samples)
	}

	minima := make([]uint64, 0, nBuckets)
	for b := 0; b < nBuckets; b++ {
		chunk := samples[b*calibBucketSize : (b+1)*calibBucketSize]
		minima = append(minima, minNonZero(chunk))
	}

	sort.Slice(minima, func(i, j int) bool { return minima[i] < minima[j] })
	n := len(minima)
	if n%2 == 1 {
		return minima[n/2]
	}
	a, b := minima[n/2-1], minima[n/2]
	// Overflow-safe average of two uint64s, rounded down.
	return a/2 + b/2 + (a%2+b%2)/2
}

func minNonZero(samples []uint64) uint64 {
	var min uint64
	found := false
	for _, v := range samples {
		if v == 0 {
			continue
		}
		if !found || v < min {
			min = v
			found = true
		}
	}
	return min
}
