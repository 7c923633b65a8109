package chronoscope

import (
	"errors"
	"strings"
	"testing"
)

func TestWrapErrReturnsNilForNilInput(t *testing.T) {
	if err := wrapErr(nil, ErrCodeConfig, "should not appear"); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}

func TestWrapErrPreservesUnderlyingErrorMessage(t *testing.T) {
	underlying := errors.New("disk full")
	err := wrapErr(underlying, ErrCodeSinkIO, "writing report")
	if err == nil {
		t.Fatal("expected a non-nil wrapped error")
	}
	if !strings.Contains(err.Error(), "disk full") {
		t.Fatalf("expected wrapped error to mention the underlying cause, got %v", err)
	}
}
