package chronoscope

import "testing"

func TestStartStopRecordsOneSample(t *testing.T) {
	s := newSession(16)
	id := Site("scope")

	s.Fast.Start(id)
	s.Fast.Stop(id)

	rb := s.buffers[id]
	if rb == nil {
		t.Fatal("expected a ring buffer to be created for id")
	}
	samples := rb.snapshot()
	if len(samples) != 1 {
		t.Fatalf("expected exactly one sample, got %d", len(samples))
	}
}

func TestDeepNestingRecordsExpectedCounts(t *testing.T) {
	s := newSession(1024)
	a := Site("A")
	b := Site("B")

	var recurse func(depth int)
	recurse = func(depth int) {
		s.Fast.Start(a)
		if depth > 0 {
			s.Fast.Start(b)
			s.Fast.Stop(b)
			recurse(depth - 1)
		}
		s.Fast.Stop(a)
	}
	// recurse(9) visits depths 9,8,...,0 — 10 levels, each opening/closing
	// A once, and B opens/closes at every level but the innermost
	// (depth==0), 9 of the 10. Matches spec §8 scenario 1's "10-deep
	// recursion" expecting 10 A samples and 9 B samples.
	recurse(9)

	aSamples := s.buffers[a].snapshot()
	bSamples := s.buffers[b].snapshot()

	if len(aSamples) != 10 {
		t.Fatalf("expected 10 samples under A, got %d", len(aSamples))
	}
	if len(bSamples) != 9 {
		t.Fatalf("expected 9 samples under B, got %d", len(bSamples))
	}
}

func TestStopOnEmptyStackIsNoop(t *testing.T) {
	s := newSession(16)
	id := Site("never-started")

	s.Fast.Stop(id)

	if _, ok := s.buffers[id]; ok {
		t.Fatalf("Stop on an empty stack must not create or modify any ring buffer")
	}
}

func TestStopIgnoresPassedIDUsesTopOfStack(t *testing.T) {
	s := newSession(16)
	a := Site("a")
	b := Site("b")

	s.Fast.Start(a)
	// Stop is called with id=b, but per the LIFO contract it must close
	// and record against a, the actual top-of-stack scope.
	s.Fast.Stop(b)

	if _, ok := s.buffers[b]; ok {
		t.Fatalf("Stop must record against the top-of-stack id, not the passed id")
	}
	if samples := s.buffers[a].snapshot(); len(samples) != 1 {
		t.Fatalf("expected one sample recorded against a, got %d", len(samples))
	}
}

func TestMixedModeMarksBufferTagMixed(t *testing.T) {
	s := newSession(16)
	id := Site("m")

	s.Fast.Start(id)
	s.Hard.Stop(id)
	firstTag := s.buffers[id].tag
	if firstTag != key(Fast, Hard) {
		t.Fatalf("expected tag key(Fast,Hard)=%d, got %d", key(Fast, Hard), firstTag)
	}

	s.Mid.Start(id)
	s.Hard.Stop(id)
	if s.buffers[id].tag != keyMixed {
		t.Fatalf("expected tag to become keyMixed after a differing (start,stop) pair")
	}
}
