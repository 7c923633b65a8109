package chronoscope

import "testing"

func TestComputeStatsBasic(t *testing.T) {
	c := cleaned{samples: []uint64{10, 20, 30}, bypass: 1}
	s := computeStats(c)

	if s.samples != 3 {
		t.Fatalf("expected samples=3, got %d", s.samples)
	}
	if s.avg != 20 {
		t.Fatalf("expected avg=20, got %v", s.avg)
	}
	if s.median != 20 {
		t.Fatalf("expected median=20, got %v", s.median)
	}
	if s.min != 10 || s.max != 30 || s.rng != 20 {
		t.Fatalf("unexpected min/max/rng: %d/%d/%d", s.min, s.max, s.rng)
	}
	if s.bypass != 1 {
		t.Fatalf("expected bypass to be carried through, got %d", s.bypass)
	}
}

func TestComputeStatsEvenCountMedian(t *testing.T) {
	c := cleaned{samples: []uint64{10, 20, 30, 40}}
	s := computeStats(c)
	if s.median != 25 {
		t.Fatalf("expected median=25 for even-length sample set, got %v", s.median)
	}
}

func TestComputeStatsSingleSampleHasZeroSkewAndStdDev(t *testing.T) {
	c := cleaned{samples: []uint64{42}}
	s := computeStats(c)
	if s.stdDev != 0 || s.skew != 0 {
		t.Fatalf("expected stdDev=0 and skew=0 for a single sample, got %v/%v", s.stdDev, s.skew)
	}
	if s.min != 42 || s.max != 42 || s.rng != 0 {
		t.Fatalf("expected min=max=42, rng=0, got %d/%d/%d", s.min, s.max, s.rng)
	}
}

func TestComputeStatsUniformSamplesHaveZeroStdDev(t *testing.T) {
	c := cleaned{samples: []uint64{5, 5, 5, 5}}
	s := computeStats(c)
	if s.stdDev != 0 {
		t.Fatalf("expected stdDev=0 for uniform samples, got %v", s.stdDev)
	}
	if s.skew != 0 {
		t.Fatalf("expected skew=0 when stdDev is ~0, got %v", s.skew)
	}
}
