package chronoscope

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNewSinkRequiresFilename(t *testing.T) {
	_, err := NewSink(SinkConfig{})
	if err == nil {
		t.Fatal("expected an error for an empty filename")
	}
}

func TestNewSinkCreatesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.txt")

	s, err := NewSink(SinkConfig{Filename: path})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer s.Close()

	if _, err := os.Stat(path); err != nil {
		t.Fatalf("expected sink to create %s: %v", path, err)
	}
}

func TestSinkWriteAppendsBytes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.txt")

	s, err := NewSink(SinkConfig{Filename: path})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer s.Close()

	n, err := s.Write([]byte("hello"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 5 {
		t.Fatalf("expected 5 bytes written, got %d", n)
	}

	n, err = s.Write([]byte("world"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 5 {
		t.Fatalf("expected 5 bytes written, got %d", n)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("unexpected error reading sink file: %v", err)
	}
	if string(content) != "helloworld" {
		t.Fatalf("expected appended content, got %q", content)
	}
}

func TestSinkRotatesOnSizeThreshold(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.txt")

	s, err := NewSink(SinkConfig{Filename: path, MaxSizeStr: "10"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer s.Close()

	if _, err := s.Write([]byte("0123456789ABCDEF")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	matches, err := filepath.Glob(path + ".*")
	if err != nil {
		t.Fatalf("unexpected error globbing backups: %v", err)
	}
	if len(matches) == 0 {
		t.Fatal("expected a rotated backup file to exist after crossing the size threshold")
	}
}

func TestSinkWriteFailsAfterClose(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.txt")

	s, err := NewSink(SinkConfig{Filename: path})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("unexpected error closing sink: %v", err)
	}

	if _, err := s.Write([]byte("x")); err == nil {
		t.Fatal("expected write after close to fail")
	}
}

func TestSinkCloseIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "report.txt")

	s, err := NewSink(SinkConfig{Filename: path})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("unexpected error on first close: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("expected second close to be a no-op, got %v", err)
	}
}
