// recorder.go: Start/Stop recording over a chosen timestamp source
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package chronoscope

import "github.com/agilira/chronoscope/internal/tsc"

// ModeRecorder is a zero-allocation Start/Stop pair bound to one Session
// and one Mode. Session exposes three of these (Fast, Mid, Hard); callers
// never construct one directly.
type ModeRecorder struct {
	session *Session
	mode    Mode
}

func sourceFor(m Mode) func() uint64 {
	switch m {
	case Fast:
		return tsc.Default.Fast
	case Mid:
		return tsc.Default.Mid
	default:
		return tsc.Default.Hard
	}
}

// Start opens a scope for id: reads the timestamp and pushes it onto the
// Session's scope stack. If the stack is already at its depth bound the
// scope is dropped and no sample will be recorded for the matching Stop.
func (r ModeRecorder) Start(id ID) {
	t := sourceFor(r.mode)()
	r.session.pushScope(id, t, r.mode)
}

// Stop closes the innermost open scope, pushing one sample into the ring
// buffer for that scope's id. The id argument is advisory only — per the
// package's LIFO contract, Stop always closes the top-of-stack scope
// regardless of which id was passed, and records the sample against that
// scope's own id. Calling Stop on an empty stack is a no-op.
func (r ModeRecorder) Stop(id ID) {
	t := sourceFor(r.mode)()

	entry, ok := r.session.popScope()
	if !ok {
		return
	}

	delta := t - entry.ts
	if t < entry.ts {
		// TSC went backwards, most likely a core migration on
		// non-invariant hardware. Coerce to the empty sentinel so the
		// non-zero-sample invariant discards it.
		delta = 0
	}
	if delta == 0 {
		return
	}

	rb := r.session.bufferFor(entry.id)
	rb.push(delta, key(entry.mode, r.mode))
}
