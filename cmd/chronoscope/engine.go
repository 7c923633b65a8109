// engine.go: instrumented toy matching engine exercising chronoscope's API
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package main

import (
	"context"
	"math/rand"
	"time"

	"github.com/agilira/chronoscope"
)

var (
	idMatch     = chronoscope.Site("demo.match")
	idQuote     = chronoscope.Site("demo.quote")
	idHeartbeat = chronoscope.Site("demo.heartbeat")
)

type order struct {
	price int64
	size  int64
	buy   bool
}

// runMatchingEngine simulates a tiny single-book matching loop, timing the
// match step with Hard (a scope boundary worth the strongest ordering) and
// the quote step with Fast (steady-state, reordering-tolerant sampling),
// and pulsing a heartbeat id on every iteration. It runs until ctx is
// cancelled. capacity overrides the ring buffer capacity for every id
// this loop records against; 0 keeps the library default.
func runMatchingEngine(ctx context.Context, capacity int) {
	var s *chronoscope.Session
	if capacity > 0 {
		s = chronoscope.BindWithCapacity(capacity)
	} else {
		s = chronoscope.Bind()
	}
	rng := rand.New(rand.NewSource(1))

	var book []order

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		s.Hard.Start(idMatch)
		book = match(book, rng)
		s.Hard.Stop(idMatch)

		s.Fast.Start(idQuote)
		_ = bestQuote(book)
		s.Fast.Stop(idQuote)

		s.Pulse(idHeartbeat)

		time.Sleep(time.Microsecond)
	}
}

func match(book []order, rng *rand.Rand) []order {
	o := order{
		price: 100 + rng.Int63n(20),
		size:  1 + rng.Int63n(10),
		buy:   rng.Intn(2) == 0,
	}
	book = append(book, o)
	if len(book) > 256 {
		book = book[len(book)-256:]
	}
	return book
}

func bestQuote(book []order) (int64, int64) {
	var bestBid, bestAsk int64
	for _, o := range book {
		if o.buy {
			if o.price > bestBid {
				bestBid = o.price
			}
		} else if bestAsk == 0 || o.price < bestAsk {
			bestAsk = o.price
		}
	}
	return bestBid, bestAsk
}
