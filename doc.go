// Package chronoscope provides in-process, ultra-low-latency hot-path
// instrumentation for soft-real-time software: trading engines, game
// loops, matching engines. It measures region durations with the CPU
// cycle counter, aggregates per-goroutine samples in fixed-capacity ring
// buffers, self-calibrates its own observational overhead, and renders a
// statistical report.
//
// Chronoscope was built around a single rule: anything done between the
// two timestamp reads poisons the measurement. There is no allocation and
// no lock on the Start/Stop/Pulse path after the first call per goroutine
// per id; the per-id buffer is found with one Go map lookup keyed by the
// id pointer, which Stop performs after its timestamp read.
//
// # Quick Start
//
//	var orderMatch = chronoscope.Site("order.match")
//
//	func handle() {
//		s := chronoscope.Bind()
//		s.Fast.Start(orderMatch)
//		defer s.Fast.Stop(orderMatch)
//		// ... matching logic ...
//	}
//
//	// At shutdown:
//	r := chronoscope.NewReporter(chronoscope.ReportOptions{})
//	r.DumpToStream(os.Stdout, chronoscope.Time, chronoscope.Calibrated)
//
// # Binding a Session
//
// Go has no public per-goroutine storage slot, so chronoscope makes the
// Thread Storage of the underlying design an explicit value: Bind()
// returns a *Session that the calling goroutine keeps for its own
// lifetime, typically at the top of a pinned hot loop:
//
//	func worker() {
//		s := chronoscope.Bind() // once per goroutine
//		for {
//			s.Mid.Start(loopBody)
//			step()
//			s.Mid.Stop(loopBody)
//		}
//	}
//
// A Session must never be shared across goroutines — its ring buffers
// assume a single writer.
//
// # Timing Source Modes
//
// Three modes trade overhead for serialization strength:
//
//   - Fast: unordered cycle read, lowest overhead, may be reordered by
//     the CPU around the call site.
//   - Mid: serializing read that drains retirement on one side.
//   - Hard: explicit load-fence followed by a serializing read; use this
//     at scope boundaries where out-of-order execution would distort the
//     measurement.
//
// # Pulse
//
// For tight loops with no natural "scope", Pulse records the delta
// between successive calls instead of between a Start and a Stop:
//
//	s := chronoscope.Bind()
//	for range ticks {
//		s.Pulse(tickSite)
//		process()
//	}
//
// # Calibration
//
// Calibrate() runs once per process (idempotent) and measures the cost
// of the instrumentation itself for every (start mode, stop mode)
// permutation plus the Pulse path, using a bucketed-minimum-median
// estimator that rejects OS-preemption noise. DumpToStream in Calibrated
// mode subtracts the matching offset from every sample before reporting,
// clamped at zero.
//
// # Reporting
//
//	r := chronoscope.NewReporter(chronoscope.ReportOptions{
//		IDs: []chronoscope.ID{orderMatch},
//	})
//	r.DumpToStream(os.Stdout, chronoscope.Time, chronoscope.Calibrated)
//
// # Rotating Report Sinks
//
// For long-running processes, pair a Reporter with a Sink and a
// Scheduler to periodically dump reports to a rotating, optionally
// compressed and checksummed file:
//
//	sink, _ := chronoscope.NewSink(chronoscope.SinkConfig{
//		Filename:   "chronoscope-report.txt",
//		MaxSizeStr: "16MB",
//		MaxBackups: 10,
//		Compress:   true,
//		Checksum:   true,
//	})
//	defer sink.Close()
//
//	sched := chronoscope.NewScheduler(sink, r, time.Minute, chronoscope.Time, chronoscope.Calibrated)
//	sched.Start()
//	defer sched.Stop()
//
// # Thread Safety
//
// Session is single-writer: exactly one goroutine may call its Start,
// Stop, or Pulse methods. Snapshot, Calibrate, and DumpToStream are safe
// to call from any goroutine but must not run concurrently with active
// recording — the package's cold-path lock protects its own bookkeeping,
// not a consistent view of in-flight samples.
//
// # Performance Notes
//
//   - Zero allocation after the first call per (Session, id) pair.
//   - Zero locks on the hot path; the Manager's mutex is touched only at
//     Session creation and during Calibrate/Snapshot/DumpToStream.
//   - A full scope stack silently drops new scopes rather than blocking
//     or erroring; deeply recursive call trees should stay within the
//     Session's 64-level scope-stack bound.
//   - Use BindWithCapacity to size a Session's per-id ring buffers when
//     the default 65536-sample capacity is a poor fit for a site's call
//     volume.
package chronoscope
