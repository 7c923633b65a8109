// report.go: tabular report rendering
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package chronoscope

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/agilira/go-timecache"
)

// reportClock backs report-header timestamps. The hot path never touches
// it; only DumpToStream does, which is explicitly a cold, quiescent-only
// operation.
var reportClock = timecache.NewWithResolution(time.Millisecond)

// Unit selects how the Reporter renders a duration value.
type Unit int

const (
	// Cycles renders raw cycle counts with metric suffixes (K/M/B/T).
	Cycles Unit = iota
	// Time converts cycles to wall-clock time via cycles_per_ns and
	// renders with adaptive time-unit suffixes (ns/us/ms/s/min).
	Time
)

// DataMode selects whether the Reporter subtracts measured instrumentation
// overhead before cleaning and aggregating.
type DataMode int

const (
	// Raw reports samples exactly as recorded.
	Raw DataMode = iota
	// Calibrated subtracts the measured (start, stop) overhead from each
	// sample, clamped to zero, before cleaning.
	Calibrated
)

// ReportOptions configures a Reporter.
type ReportOptions struct {
	// IDs restricts the report to the given sites, in the given order.
	// When nil, the report covers every id chronoscope has ever seen.
	IDs []ID
}

// Reporter walks the Manager's registry, extracts samples for each id,
// optionally subtracts calibration overhead, runs the cleaner, computes
// statistics, and renders a plain-text table. Constructing a Reporter
// does not touch the Manager lock; only DumpToStream does, taking it
// separately for the id listing, for each id's extraction, for each id's
// calibration-tag lookup in Calibrated mode, and during the first
// calibration run.
type Reporter struct {
	opts ReportOptions
}

// NewReporter constructs a Reporter with the given options.
func NewReporter(opts ReportOptions) *Reporter {
	return &Reporter{opts: opts}
}

// DumpToStream renders the report to w. In Calibrated mode,
// Calibrate() is invoked first (idempotent) and the output is preceded
// by the overhead table.
func (r *Reporter) DumpToStream(w io.Writer, unit Unit, data DataMode) error {
	ids := r.opts.IDs
	if ids == nil {
		ids = defaultManager.knownIDs()
	}

	// cycles_per_ns is needed to render Time units at all, independent of
	// whether overhead is being subtracted, so calibration must run
	// whenever unit == Time — not only in Calibrated mode. Skipping this
	// for unit == Time, data == Raw would leave calib.cyclesPerNs at its
	// zero value and silently print raw cycle counts mislabeled as
	// nanoseconds.
	var calib calibration
	if data == Calibrated || unit == Time {
		defaultManager.ensureCalibrated()
		calib = defaultManager.calib
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	if data == Calibrated {
		if err := writeOverheadTable(tw, calib); err != nil {
			return wrapErr(err, ErrCodeReport, "writing overhead table")
		}
		fmt.Fprintln(tw)
	}

	fmt.Fprintf(tw, "# chronoscope report — generated %s\n", reportClock.CachedTime().Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintln(tw, strings.Repeat("=", 8))
	fmt.Fprintln(tw, "COMPONENT\tSAMPLES\tAVG\tMEDIAN\tSTD DEV\tSKEW\tMIN\tMAX\tRANGE\tBYPASS")

	for _, id := range ids {
		raw := defaultManager.extractRaw(id)
		if data == Calibrated {
			tag := defaultManager.calibrationTag(id)
			offset := calib.offset(tag)
			raw = subtractClamped(raw, offset)
		}

		c := clean(raw)
		if len(c.samples) == 0 {
			continue
		}
		s := computeStats(c)
		writeRow(tw, *id, s, unit, calib.cyclesPerNs)
	}

	fmt.Fprintln(tw, strings.Repeat("#", 8))

	return wrapErr(tw.Flush(), ErrCodeReport, "flushing report table")
}

func subtractClamped(raw []uint64, offset uint64) []uint64 {
	if offset == 0 {
		return raw
	}
	out := make([]uint64, len(raw))
	for i, v := range raw {
		if v > offset {
			out[i] = v - offset
		} else {
			out[i] = 0
		}
	}
	return out
}

func writeRow(tw *tabwriter.Writer, name string, s stats, unit Unit, cyclesPerNs float64) {
	fmt.Fprintf(tw, "%s\t%d\t%s\t%s\t%s\t%.2f\t%s\t%s\t%s\t%d\n",
		name,
		s.samples,
		formatValue(s.avg, unit, cyclesPerNs),
		formatValue(s.median, unit, cyclesPerNs),
		formatValue(s.stdDev, unit, cyclesPerNs),
		s.skew,
		formatValue(float64(s.min), unit, cyclesPerNs),
		formatValue(float64(s.max), unit, cyclesPerNs),
		formatValue(float64(s.rng), unit, cyclesPerNs),
		s.bypass,
	)
}

func writeOverheadTable(tw *tabwriter.Writer, calib calibration) error {
	fmt.Fprintln(tw, "# calibration overhead (cycles)")
	fmt.Fprintln(tw, "START\\STOP\tFast\tMid\tHard")
	for s := Mode(0); s < numModes; s++ {
		fmt.Fprintf(tw, "%s", s)
		for e := Mode(0); e < numModes; e++ {
			fmt.Fprintf(tw, "\t%d", calib.overhead[key(s, e)])
		}
		fmt.Fprintln(tw)
	}
	fmt.Fprintf(tw, "Pulse\t%d\n", calib.overhead[keyPulse])
	return nil
}

// formatValue renders a numeric value per the selected Unit: adaptive
// time units (ns/us/ms/s/min) when unit is Time, converting cycles to
// nanoseconds via cyclesPerNs first; metric-suffixed cycle counts
// (K/M/B/T) otherwise.
func formatValue(v float64, unit Unit, cyclesPerNs float64) string {
	if unit == Time {
		ns := v
		if cyclesPerNs > 0 {
			ns = v / cyclesPerNs
		}
		return humanizeTime(ns)
	}
	return humanizeCycles(v)
}

// humanizeTime adapts a nanosecond value to the coarsest unit that keeps
// it above 1, matching the report format's " ns"/" us"/" ms"/" s"/" min"
// suffixes with two decimal places.
func humanizeTime(ns float64) string {
	switch {
	case ns < 1e3:
		return fmt.Sprintf("%.2f ns", ns)
	case ns < 1e6:
		return fmt.Sprintf("%.2f us", ns/1e3)
	case ns < 1e9:
		return fmt.Sprintf("%.2f ms", ns/1e6)
	case ns < 60e9:
		return fmt.Sprintf("%.2f s", ns/1e9)
	default:
		return fmt.Sprintf("%.2f min", ns/60e9)
	}
}

// humanizeCycles adapts a cycle count to metric suffixes K/M/B/T.
func humanizeCycles(c float64) string {
	switch {
	case c < 1e3:
		return fmt.Sprintf("%.2f", c)
	case c < 1e6:
		return fmt.Sprintf("%.2f K", c/1e3)
	case c < 1e9:
		return fmt.Sprintf("%.2f M", c/1e6)
	case c < 1e12:
		return fmt.Sprintf("%.2f B", c/1e9)
	default:
		return fmt.Sprintf("%.2f T", c/1e12)
	}
}
