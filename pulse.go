// pulse.go: delta-between-events recording
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package chronoscope

import "github.com/agilira/chronoscope/internal/tsc"

// pulseState is the per-(Session, id) cached state for Pulse: the ring
// buffer reference (looked up once) and the timestamp of the previous
// call.
type pulseState struct {
	buffer *ringBuffer
	last   uint64
}

// Pulse records the delta since the last Pulse call for id on this
// Session. The first call per (Session, id) only establishes the
// baseline timestamp and records no sample, matching the package's
// "duration 0 is never valid" convention — there is no prior event to
// measure a delta against. Pulse always uses the Fast timestamp source;
// its own overhead is measured in the calibration table's dedicated
// Pulse slot rather than one of the nine (start, stop) permutations.
func (s *Session) Pulse(id ID) {
	now := tsc.Default.Fast()

	p, ok := s.pulses[id]
	if !ok {
		s.pulses[id] = &pulseState{buffer: s.bufferFor(id), last: now}
		return
	}

	var delta uint64
	if now >= p.last {
		delta = now - p.last
	}
	p.last = now
	if delta == 0 {
		return
	}
	p.buffer.push(delta, keyPulse)
}
