// id.go: measurement site identifiers
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package chronoscope

// ID identifies a measurement site by address, not by content. Two IDs
// are the same site iff they are the same pointer; the string they point
// to is never compared or hashed.
//
// Callers obtain an ID with Site, which returns the address of a fresh
// copy of its label, and store it in a package-level variable. Every
// Site call yields a new identity, so calling Site again for the same
// label (inside a loop or a function body, say) creates a separate site
// whose samples are reported as a separate row.
type ID = *string

// Site declares a new measurement site identifier bound to label. The
// returned ID is stable for the lifetime of the returned value, which
// callers must keep reachable (typically by storing it in a package-level
// var) for as long as they record against it.
//
//	var orderMatch = chronoscope.Site("order.match")
//	...
//	s.Fast.Start(orderMatch)
func Site(label string) ID {
	return &label
}
