// scheduler.go: background worker pool and periodic auto-dump
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package chronoscope

import (
	"bytes"
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// sinkTask is a unit of Sink housekeeping work: cleanup, compression, or
// checksum generation for one rotated file.
type sinkTask struct {
	kind string
	path string
	sink *Sink
}

// sinkWorkers is a small fixed-size pool draining a task queue, the same
// shape the package's file rotation borrows for compression/checksum/
// cleanup work off the rotating goroutine's critical path.
type sinkWorkers struct {
	ctx       context.Context
	cancel    context.CancelFunc
	taskQueue chan sinkTask
	wg        sync.WaitGroup
	stopOnce  sync.Once
}

func newSinkWorkers(n int) *sinkWorkers {
	ctx, cancel := context.WithCancel(context.Background())
	w := &sinkWorkers{
		ctx:       ctx,
		cancel:    cancel,
		taskQueue: make(chan sinkTask, 100),
	}
	for i := 0; i < n; i++ {
		w.wg.Add(1)
		go w.run()
	}
	return w
}

func (w *sinkWorkers) run() {
	defer w.wg.Done()
	for {
		select {
		case <-w.ctx.Done():
			return
		case task := <-w.taskQueue:
			w.process(task)
		}
	}
}

func (w *sinkWorkers) process(task sinkTask) {
	switch task.kind {
	case "cleanup":
		task.sink.cleanupOldFiles()
	case "compress":
		task.sink.compressFile(task.path)
	case "checksum":
		task.sink.generateChecksum(task.path)
	}
}

func (w *sinkWorkers) submit(task sinkTask) {
	select {
	case <-w.ctx.Done():
		return
	default:
	}
	select {
	case w.taskQueue <- task:
	case <-w.ctx.Done():
	default:
		// queue full, drop: housekeeping is best-effort
	}
}

func (w *sinkWorkers) stop() {
	w.stopOnce.Do(func() {
		w.cancel()
		w.wg.Wait()
	})
}

// Scheduler periodically renders a Reporter's report and writes it to a
// Sink, on the same adaptive-ticker shape the package's consumer loop
// uses to drain its buffer: busy periods tighten the tick, idle periods
// relax it.
type Scheduler struct {
	sink     *Sink
	reporter *Reporter
	unit     Unit
	data     DataMode
	interval time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	ticker *time.Ticker
	wg     sync.WaitGroup

	running atomic.Bool

	// lastActivity and emptyRounds are owned exclusively by run()'s
	// goroutine — no synchronization needed, the same single-writer
	// shape the rest of the package relies on for its hot-path state.
	lastActivity int
	emptyRounds  int
}

const (
	// schedulerIdleRounds is the number of consecutive ticks with no new
	// samples before the cadence backs off, mirroring
	// agilira-lethe/buffer.go's adjustFlushTiming emptyRounds threshold.
	schedulerIdleRounds = 10
	// schedulerIdleBackoff multiplies the base interval once idle rounds
	// accumulate.
	schedulerIdleBackoff = 5
	// schedulerBusyThreshold is the minimum growth in total recorded
	// samples across all known ids, observed between two ticks, that
	// counts as a busy round.
	schedulerBusyThreshold = 1000
	// schedulerBusyDivisor tightens the cadence by this factor during a
	// busy round.
	schedulerBusyDivisor = 10
)

// NewScheduler builds a Scheduler that dumps reporter's report to sink
// every interval once Start is called.
func NewScheduler(sink *Sink, reporter *Reporter, interval time.Duration, unit Unit, data DataMode) *Scheduler {
	if interval <= 0 {
		interval = time.Minute
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		sink:     sink,
		reporter: reporter,
		unit:     unit,
		data:     data,
		interval: interval,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start begins the periodic dump loop in a background goroutine. Calling
// Start twice is a no-op.
func (s *Scheduler) Start() {
	if !s.running.CompareAndSwap(false, true) {
		return
	}
	s.ticker = time.NewTicker(s.interval)
	s.wg.Add(1)
	go s.run()
}

// Stop cancels the loop and waits for the final dump to complete.
func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
}

func (s *Scheduler) run() {
	defer s.wg.Done()
	defer s.ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			s.dump()
			return
		case <-s.ticker.C:
			s.dump()
			s.adjustDumpTiming()
		}
	}
}

func (s *Scheduler) dump() {
	var buf bytes.Buffer
	if err := s.reporter.DumpToStream(&buf, s.unit, s.data); err != nil {
		s.sink.reportError("scheduled_dump", err)
		return
	}
	if _, err := s.sink.Write(buf.Bytes()); err != nil {
		s.sink.reportError("scheduled_write", err)
	}
}

// adjustDumpTiming implements the same adaptive-ticker shape
// agilira-lethe/buffer.go's MPSCConsumer.adjustFlushTiming uses to pace
// its log-flush loop: back off across consecutive idle rounds, tighten
// during a burst, and fall back to the configured base interval
// otherwise. "Activity" here is the growth in total recorded samples
// across every known id since the previous tick — the report-dump
// analogue of adjustFlushTiming's itemsProcessed.
func (s *Scheduler) adjustDumpTiming() {
	current := totalKnownSamples()
	delta := current - s.lastActivity
	s.lastActivity = current

	switch {
	case delta <= 0:
		s.emptyRounds++
		if s.emptyRounds >= schedulerIdleRounds {
			s.ticker.Reset(s.interval * schedulerIdleBackoff)
			s.emptyRounds = 0
		}
	case delta > schedulerBusyThreshold:
		s.emptyRounds = 0
		s.ticker.Reset(s.interval / schedulerBusyDivisor)
	default:
		s.emptyRounds = 0
		s.ticker.Reset(s.interval)
	}
}

// totalKnownSamples sums the number of recorded samples across every id
// chronoscope has ever seen. Used only to pace the Scheduler's adaptive
// ticker; never called from the hot path.
func totalKnownSamples() int {
	total := 0
	for _, id := range defaultManager.knownIDs() {
		total += len(defaultManager.extractRaw(id))
	}
	return total
}
