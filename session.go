// session.go: per-goroutine thread storage
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package chronoscope

// maxScopeDepth is the default depth bound (D_max) of a Session's scope
// stack.
const maxScopeDepth = 64

// scopeEntry is one slot of the scope stack: the id passed to Start, the
// timestamp read at Start time, and the mode the scope was opened with.
// The stack is a single array of these structs, not three parallel
// arrays.
type scopeEntry struct {
	id   ID
	ts   uint64
	mode Mode
}

// Session is the Thread Storage of a single recording goroutine: a
// bounded LIFO scope stack plus a map from ID to ring buffer. It is owned
// by exactly one goroutine for its entire lifetime — obtain one with
// Bind and keep it for as long as that goroutine instruments hot-path
// code. Sharing a Session across goroutines defeats the single-writer
// contract the ring buffers depend on.
//
// Session also exposes the three mode-specific recorders (Fast, Mid,
// Hard) and the Pulse primitive as zero-allocation value types bound to
// this Session.
type Session struct {
	stack    [maxScopeDepth]scopeEntry
	top      int
	buffers  map[ID]*ringBuffer
	pulses   map[ID]*pulseState
	capacity int

	Fast ModeRecorder
	Mid  ModeRecorder
	Hard ModeRecorder
}

// Bind creates a new Session and registers it with the Manager. Every
// call, from any goroutine, allocates and registers a distinct Session;
// registered Sessions are never released. Call it once per goroutine and
// retain the returned value for the goroutine's lifetime.
func Bind() *Session {
	return newSession(defaultRingCapacity)
}

// BindWithCapacity is Bind with an explicit per-id ring buffer capacity,
// rounded up to the next power of two.
func BindWithCapacity(capacity int) *Session {
	return newSession(capacity)
}

// BindWithCapacityString is BindWithCapacity for configuration surfaces
// that carry capacity as a string — CLI flags, config files — rather
// than a raw int. Accepts the same grammar as ParseCapacity ("64K",
// "65536", ...).
func BindWithCapacityString(s string) (*Session, error) {
	capacity, err := ParseCapacity(s)
	if err != nil {
		return nil, wrapErr(err, ErrCodeConfig, "binding session with capacity string")
	}
	return BindWithCapacity(capacity), nil
}

func newSession(capacity int) *Session {
	s := &Session{
		buffers:  make(map[ID]*ringBuffer),
		pulses:   make(map[ID]*pulseState),
		capacity: capacity,
	}
	s.Fast = ModeRecorder{session: s, mode: Fast}
	s.Mid = ModeRecorder{session: s, mode: Mid}
	s.Hard = ModeRecorder{session: s, mode: Hard}
	defaultManager.register(s)
	return s
}

// pushScope attempts to open a scope. If the stack is already at
// maxScopeDepth the scope is silently dropped: no sample will be recorded
// for this Start/Stop pair. This path is the cold, unlikely one.
func (s *Session) pushScope(id ID, ts uint64, mode Mode) {
	if s.top >= maxScopeDepth {
		return
	}
	s.stack[s.top] = scopeEntry{id: id, ts: ts, mode: mode}
	s.top++
}

// popScope pops the top scope. On an empty stack it is a no-op and ok is
// false.
func (s *Session) popScope() (entry scopeEntry, ok bool) {
	if s.top == 0 {
		return scopeEntry{}, false
	}
	s.top--
	return s.stack[s.top], true
}

// bufferFor returns the ring buffer for id, creating it on first use.
// Creation is a cold path (one allocation per new id per Session).
func (s *Session) bufferFor(id ID) *ringBuffer {
	rb, ok := s.buffers[id]
	if !ok {
		rb = newRingBuffer(s.capacity)
		s.buffers[id] = rb
	}
	return rb
}
