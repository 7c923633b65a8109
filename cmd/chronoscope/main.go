// main.go: chronoscope CLI
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/agilira/chronoscope"
	"github.com/spf13/cobra"
)

func main() {
	root := &cobra.Command{
		Use:   "chronoscope",
		Short: "Hot-path latency instrumentation and reporting",
		Long: `chronoscope instruments hot code paths with CPU-cycle-precision
timers and renders the recorded samples as a cleaned, calibrated report.

* GitHub: https://github.com/agilira/chronoscope`,
	}

	root.AddCommand(newReportCmd(), newCalibrateCmd(), newDemoCmd())

	if err := root.Execute(); err != nil {
		slog.Error(err.Error())
		os.Exit(1)
	}
}

func newCalibrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "calibrate",
		Short: "Run the one-shot self-calibration pass and print the overhead table",
		RunE: func(cmd *cobra.Command, args []string) error {
			chronoscope.Calibrate()
			r := chronoscope.NewReporter(chronoscope.ReportOptions{})
			return r.DumpToStream(os.Stdout, chronoscope.Time, chronoscope.Calibrated)
		},
	}
}

func newReportCmd() *cobra.Command {
	var (
		unitStr string
		raw     bool
		outPath string
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Dump the current process's recorded samples as a table",
		RunE: func(cmd *cobra.Command, args []string) error {
			unit := chronoscope.Time
			if unitStr == "cycles" {
				unit = chronoscope.Cycles
			}
			data := chronoscope.Calibrated
			if raw {
				data = chronoscope.Raw
			}

			w := os.Stdout
			if outPath != "" {
				f, err := os.Create(outPath) // #nosec G304 -- operator-supplied output path
				if err != nil {
					return fmt.Errorf("creating output file: %w", err)
				}
				defer f.Close()
				w = f
			}

			r := chronoscope.NewReporter(chronoscope.ReportOptions{})
			return r.DumpToStream(w, unit, data)
		},
	}

	cmd.Flags().StringVar(&unitStr, "unit", "time", "render durations as \"time\" or \"cycles\"")
	cmd.Flags().BoolVar(&raw, "raw", false, "skip overhead subtraction")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write the report to a file instead of stdout")
	return cmd
}

func newDemoCmd() *cobra.Command {
	var (
		interval    time.Duration
		outPath     string
		capacityStr string
	)

	cmd := &cobra.Command{
		Use:   "demo",
		Short: "Run the bundled trading-simulator demo with a periodic report dump",
		RunE: func(cmd *cobra.Command, args []string) error {
			capacity := 0
			if capacityStr != "" {
				c, err := chronoscope.ParseCapacity(capacityStr)
				if err != nil {
					return fmt.Errorf("parsing --capacity: %w", err)
				}
				capacity = c
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return runDemo(ctx, interval, outPath, capacity)
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", 5*time.Second, "report auto-dump interval")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "write periodic report dumps to this file instead of stdout")
	cmd.Flags().StringVar(&capacityStr, "capacity", "", "ring buffer capacity per id, e.g. \"64K\" (default: library default)")
	return cmd
}

func runDemo(ctx context.Context, interval time.Duration, outPath string, capacity int) error {
	if outPath == "" {
		return runDemoUnsinked(ctx, interval, capacity)
	}

	sink, err := chronoscope.NewSink(chronoscope.SinkConfig{
		Filename:   outPath,
		MaxSizeStr: "8MB",
		MaxBackups: 5,
		Compress:   true,
	})
	if err != nil {
		return fmt.Errorf("creating report sink: %w", err)
	}
	defer sink.Close()

	reporter := chronoscope.NewReporter(chronoscope.ReportOptions{})
	sched := chronoscope.NewScheduler(sink, reporter, interval, chronoscope.Time, chronoscope.Calibrated)
	sched.Start()
	defer sched.Stop()

	runMatchingEngine(ctx, capacity)
	return nil
}

func runDemoUnsinked(ctx context.Context, interval time.Duration, capacity int) error {
	done := make(chan struct{})
	go func() {
		defer close(done)
		runMatchingEngine(ctx, capacity)
	}()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	reporter := chronoscope.NewReporter(chronoscope.ReportOptions{})
	for {
		select {
		case <-done:
			return reporter.DumpToStream(os.Stdout, chronoscope.Time, chronoscope.Calibrated)
		case <-ticker.C:
			_ = reporter.DumpToStream(os.Stdout, chronoscope.Time, chronoscope.Calibrated)
		}
	}
}
