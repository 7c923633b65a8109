// cleaner.go: bucketed-IQR outlier filter
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package chronoscope

import "sort"

const (
	cleanerBucketSize     = 1000
	cleanerShortBucketMin = 500
)

// cleaned is the result of running the cleaner over one id's raw sample
// set: the kept samples, sorted ascending, and the count of samples
// judged to be OS-preemption outliers and excluded.
type cleaned struct {
	samples []uint64
	bypass  int
}

// clean partitions input into fixed-size buckets, computes an upper
// fence from the bucket maxima via a bucketed interquartile rule, and
// splits input into kept (<=fence) and bypassed (>fence) samples. If
// filtering would empty the kept set, it reverts to the full unfiltered
// input with bypass=0. The kept set is always returned sorted ascending.
func clean(input []uint64) cleaned {
	if len(input) == 0 {
		return cleaned{samples: nil, bypass: 0}
	}

	fence := upperFence(input)

	kept := make([]uint64, 0, len(input))
	bypass := 0
	for _, v := range input {
		if v <= fence {
			kept = append(kept, v)
		} else {
			bypass++
		}
	}

	if len(kept) == 0 {
		kept = append(kept[:0], input...)
		bypass = 0
	}

	sort.Slice(kept, func(i, j int) bool { return kept[i] < kept[j] })
	return cleaned{samples: kept, bypass: bypass}
}

// upperFence computes the cutoff above which a sample is judged an
// outlier, from the maxima of fixed-size buckets of the input (a short
// trailing bucket of fewer than cleanerShortBucketMin samples is
// dropped).
func upperFence(input []uint64) uint64 {
	nFull := len(input) / cleanerBucketSize
	remainder := len(input) % cleanerBucketSize
	if remainder >= cleanerShortBucketMin {
		nFull++
	}
	if nFull == 0 {
		return ^uint64(0) // no filtering
	}

	maxima := make([]uint64, 0, nFull)
	for b := 0; b < nFull; b++ {
		start := b * cleanerBucketSize
		end := start + cleanerBucketSize
		if end > len(input) {
			end = len(input)
		}
		maxima = append(maxima, maxOf(input[start:end]))
	}

	if len(maxima) >= 4 {
		sorted := append([]uint64(nil), maxima...)
		sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
		n := len(sorted)
		q1 := sorted[n/4]
		q3 := sorted[3*n/4]
		iqr := q3 - q1
		if iqr == 0 {
			return uint64(1.5 * float64(q3))
		}
		return q3 + 3*iqr
	}

	// 1-3 bucket maxima: too few points for a quartile split, so the
	// fence is 1.5x the median of the maxima rather than their outright
	// max — a lone high bucket (the common case this branch exists for)
	// would otherwise set its own fence and never be judged an outlier.
	return uint64(1.5 * medianOf(maxima))
}

func medianOf(xs []uint64) float64 {
	sorted := append([]uint64(nil), xs...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	n := len(sorted)
	if n%2 == 1 {
		return float64(sorted[n/2])
	}
	return (float64(sorted[n/2-1]) + float64(sorted[n/2])) / 2
}

func maxOf(xs []uint64) uint64 {
	m := xs[0]
	for _, v := range xs[1:] {
		if v > m {
			m = v
		}
	}
	return m
}
