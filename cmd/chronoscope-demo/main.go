// main.go: minimal instrumented demo program
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/agilira/chronoscope"
)

// This is a standalone, dependency-free companion to the chronoscope CLI's
// own "demo" subcommand: a single file showing the library's API end to
// end without cobra, flags, or a report sink, for anyone who just wants to
// `go run` something and see a report.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// "64K" is the library's own default ring capacity, named here as a
	// sample count to show BindWithCapacityString's string idiom rather
	// than duplicate the int-based default Bind would already give.
	s, err := chronoscope.BindWithCapacityString("64K")
	if err != nil {
		fmt.Fprintln(os.Stderr, "bind error:", err)
		os.Exit(1)
	}
	idWork := chronoscope.Site("demo.work")
	idTick := chronoscope.Site("demo.tick")

	rng := rand.New(rand.NewSource(1))

	fmt.Fprintln(os.Stderr, "chronoscope-demo: running until interrupted (Ctrl-C)")

	for {
		select {
		case <-ctx.Done():
			r := chronoscope.NewReporter(chronoscope.ReportOptions{})
			if err := r.DumpToStream(os.Stdout, chronoscope.Time, chronoscope.Calibrated); err != nil {
				fmt.Fprintln(os.Stderr, "report error:", err)
				os.Exit(1)
			}
			return
		default:
		}

		s.Mid.Start(idWork)
		busyWork(rng)
		s.Mid.Stop(idWork)

		s.Pulse(idTick)

		time.Sleep(200 * time.Microsecond)
	}
}

func busyWork(rng *rand.Rand) int64 {
	var acc int64
	n := 10 + rng.Int63n(40)
	for i := int64(0); i < n; i++ {
		acc += i * i
	}
	return acc
}
