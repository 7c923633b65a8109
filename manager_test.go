package chronoscope

import "testing"

func TestExtractRawAggregatesAcrossSessions(t *testing.T) {
	m := &manager{}
	id := Site("shared")

	s1 := newSessionForManager(m, 16)
	s2 := newSessionForManager(m, 16)

	s1.Fast.Start(id)
	s1.Fast.Stop(id)
	s2.Fast.Start(id)
	s2.Fast.Stop(id)

	got := m.extractRaw(id)
	if len(got) != 2 {
		t.Fatalf("expected samples from both sessions, got %d", len(got))
	}
}

func TestSnapshotIsUnionOfBuffers(t *testing.T) {
	id := Site("snap-test")
	s := Bind()
	s.Fast.Start(id)
	s.Fast.Stop(id)

	snap := Snapshot(id)
	if len(snap) == 0 {
		t.Fatalf("expected Snapshot to return at least one sample")
	}
}

func TestForgetCalibrationIDsRemovesBuffers(t *testing.T) {
	m := &manager{}
	id := Site("calib-temp")
	s := newSessionForManager(m, 16)
	s.Fast.Start(id)
	s.Fast.Stop(id)

	if _, ok := s.buffers[id]; !ok {
		t.Fatal("expected buffer to exist before forgetting")
	}

	m.forgetCalibrationIDs(id)

	if _, ok := s.buffers[id]; ok {
		t.Fatalf("expected buffer to be removed after forgetCalibrationIDs")
	}
}

// newSessionForManager builds a Session registered against a specific
// manager instance, for tests that must not pollute the package-level
// defaultManager singleton.
func newSessionForManager(m *manager, capacity int) *Session {
	s := &Session{
		buffers:  make(map[ID]*ringBuffer),
		pulses:   make(map[ID]*pulseState),
		capacity: capacity,
	}
	s.Fast = ModeRecorder{session: s, mode: Fast}
	s.Mid = ModeRecorder{session: s, mode: Mid}
	s.Hard = ModeRecorder{session: s, mode: Hard}
	m.register(s)
	return s
}
