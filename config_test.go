package chronoscope

import (
	"testing"
	"time"
)

func TestParseSizePlainNumber(t *testing.T) {
	v, err := ParseSize("1024")
	if err != nil || v != 1024 {
		t.Fatalf("expected 1024, nil, got %d, %v", v, err)
	}
}

func TestParseSizeSuffixes(t *testing.T) {
	cases := map[string]int64{
		"1K":   1024,
		"16MB": 16 * 1024 * 1024,
		"1GB":  1024 * 1024 * 1024,
	}
	for in, want := range cases {
		got, err := ParseSize(in)
		if err != nil {
			t.Fatalf("ParseSize(%q): unexpected error: %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseSize(%q) = %d, want %d", in, got, want)
		}
	}
}

func TestParseSizeRejectsUnknownSuffix(t *testing.T) {
	if _, err := ParseSize("1XB"); err == nil {
		t.Fatal("expected error for unknown suffix")
	}
}

func TestParseSizeRejectsEmpty(t *testing.T) {
	if _, err := ParseSize(""); err == nil {
		t.Fatal("expected error for empty string")
	}
}

func TestParseDurationGoNative(t *testing.T) {
	d, err := ParseDuration("500ms")
	if err != nil || d != 500*time.Millisecond {
		t.Fatalf("expected 500ms, nil, got %v, %v", d, err)
	}
}

func TestParseDurationExtendedSuffixes(t *testing.T) {
	cases := map[string]time.Duration{
		"7d": 7 * 24 * time.Hour,
		"2w": 2 * 7 * 24 * time.Hour,
		"1y": 365 * 24 * time.Hour,
	}
	for in, want := range cases {
		got, err := ParseDuration(in)
		if err != nil {
			t.Fatalf("ParseDuration(%q): unexpected error: %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseDuration(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestParseDurationRejectsUnknownSuffix(t *testing.T) {
	if _, err := ParseDuration("5x"); err == nil {
		t.Fatal("expected error for unknown duration suffix")
	}
}

func TestSanitizeFilenameStripsNulOnUnix(t *testing.T) {
	got := SanitizeFilename("report\x00.txt")
	if got != "report_.txt" {
		t.Fatalf("expected NUL byte replaced, got %q", got)
	}
}

func TestValidatePathLengthAcceptsNormalPath(t *testing.T) {
	if err := ValidatePathLength("report.txt"); err != nil {
		t.Fatalf("unexpected error for a short path: %v", err)
	}
}

func TestGetDefaultFileModeIsReadableWritable(t *testing.T) {
	mode := GetDefaultFileMode()
	if mode&0600 != 0600 {
		t.Fatalf("expected owner read/write bits set, got %v", mode)
	}
}

func TestRetryFileOperationSucceedsEventually(t *testing.T) {
	attempts := 0
	err := RetryFileOperation(func() error {
		attempts++
		if attempts < 3 {
			return errTransient
		}
		return nil
	}, 5, time.Millisecond)
	if err != nil {
		t.Fatalf("expected eventual success, got %v", err)
	}
	if attempts != 3 {
		t.Fatalf("expected exactly 3 attempts, got %d", attempts)
	}
}

func TestRetryFileOperationGivesUpAfterRetryCount(t *testing.T) {
	attempts := 0
	err := RetryFileOperation(func() error {
		attempts++
		return errTransient
	}, 2, time.Millisecond)
	if err == nil {
		t.Fatal("expected an error after exhausting retries")
	}
	if attempts != 2 {
		t.Fatalf("expected exactly 2 attempts, got %d", attempts)
	}
}

func TestParseCapacityRoundsUpToPowerOfTwo(t *testing.T) {
	got, err := ParseCapacity("100")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 128 {
		t.Fatalf("expected 100 to round up to 128, got %d", got)
	}
}

func TestParseCapacityAcceptsSizeSuffix(t *testing.T) {
	got, err := ParseCapacity("64K")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 1<<16 {
		t.Fatalf("expected \"64K\" to parse to 65536 samples, got %d", got)
	}
}

func TestParseCapacityRejectsNonPositive(t *testing.T) {
	if _, err := ParseCapacity("0"); err == nil {
		t.Fatal("expected an error for a non-positive capacity")
	}
}

var errTransient = &retryTestError{}

type retryTestError struct{}

func (e *retryTestError) Error() string { return "transient failure" }
