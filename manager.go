// manager.go: process-wide session registry and calibration gate
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package chronoscope

import "sync"

// manager is the process-wide singleton registry of Sessions. Its lock
// guards only cold paths: Session registration at creation, calibration's
// one-shot run, and sample extraction for a report. Nothing on the
// Start/Stop/Pulse path ever touches it.
type manager struct {
	mu       sync.Mutex
	sessions []*Session

	calibrateOnce sync.Once
	calib         calibration
}

var defaultManager = &manager{}

// register appends a Session to the registry under lock. Called once per
// Session, from Bind/BindWithCapacity.
func (m *manager) register(s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions = append(m.sessions, s)
}

// ensureCalibrated runs the calibrator at most once per process,
// regardless of how many goroutines call it concurrently.
func (m *manager) ensureCalibrated() {
	m.calibrateOnce.Do(func() {
		m.calib = runCalibration()
	})
}

// extractRaw collects all non-zero samples for id across every
// registered Session, holding the registry lock for the whole scan. The
// caller must ensure no Session is actively recording against id while
// this runs; concurrent recording during extraction is explicitly
// undefined, matching the package's dump-quiescence contract.
func (m *manager) extractRaw(id ID) []uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []uint64
	for _, s := range m.sessions {
		if rb, ok := s.buffers[id]; ok {
			out = append(out, rb.snapshot()...)
		}
	}
	return out
}

// calibrationTag returns the calibration tag recorded for id, scanning
// every registered Session's buffer for it. Returns keyUnset if id has
// never been written to.
func (m *manager) calibrationTag(id ID) calibKey {
	m.mu.Lock()
	defer m.mu.Unlock()

	tag := keyUnset
	for _, s := range m.sessions {
		if rb, ok := s.buffers[id]; ok {
			tag = nextKey(tag, rb.tag)
		}
	}
	return tag
}

// knownIDs returns every id that has an allocated buffer in some
// registered Session, deduplicated, in first-seen order.
func (m *manager) knownIDs() []ID {
	m.mu.Lock()
	defer m.mu.Unlock()

	seen := make(map[ID]struct{})
	var ids []ID
	for _, s := range m.sessions {
		for id := range s.buffers {
			if _, ok := seen[id]; !ok {
				seen[id] = struct{}{}
				ids = append(ids, id)
			}
		}
	}
	return ids
}

// forgetCalibrationIDs removes the calibration telemetry ids from every
// registered Session's buffer map so they never surface in a report. It
// is called once, at the end of calibration, against whichever Session
// ran the measurement loop.
func (m *manager) forgetCalibrationIDs(ids ...ID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, s := range m.sessions {
		for _, id := range ids {
			delete(s.buffers, id)
		}
	}
}

// Snapshot returns the raw cycle samples recorded for id across every
// registered Session, as a single multiset. This is a cold-path,
// lock-holding operation; do not call it while any Session may still be
// recording against id.
func Snapshot(id ID) []uint64 {
	return defaultManager.extractRaw(id)
}

// Calibrate forces the process-wide one-shot calibration to run if it has
// not already. Idempotent: subsequent calls are no-ops and never change
// cycles_per_ns or the overhead table.
func Calibrate() {
	defaultManager.ensureCalibrated()
}
