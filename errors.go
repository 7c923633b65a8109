// errors.go: structured cold-path errors
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package chronoscope

import (
	goerrors "github.com/agilira/go-errors"
)

// Error codes surfaced by cold-path operations: config parsing, sink
// I/O, and report rendering. The hot-path recorders never return an
// error and never touch this type.
const (
	ErrCodeConfig   goerrors.ErrorCode = "CHRONO_CONFIG"
	ErrCodeSinkIO   goerrors.ErrorCode = "CHRONO_SINK_IO"
	ErrCodeReport   goerrors.ErrorCode = "CHRONO_REPORT"
	ErrCodeRotation goerrors.ErrorCode = "CHRONO_ROTATION"
)

// wrapErr is a thin convenience wrapper over go-errors.Wrap, used
// in sink.go, session.go and report.go to attach a stable error code to an
// underlying filesystem or parse error.
func wrapErr(err error, code goerrors.ErrorCode, msg string) error {
	if err == nil {
		return nil
	}
	return goerrors.Wrap(err, code, msg)
}
