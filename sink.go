// sink.go: rotating report-dump file sink
//
// Copyright (c) 2025 AGILira
// Series: an AGILira fragment
// SPDX-License-Identifier: MPL-2.0

package chronoscope

import (
	"compress/gzip"
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/agilira/go-timecache"
)

// SinkConfig configures a Sink: where report dumps are written, when
// they rotate, and what background housekeeping runs on a rotated file.
type SinkConfig struct {
	// Filename is the report file written to. Rotated files are renamed
	// with a timestamp suffix, the same convention the package's sink
	// inherits from Lethe's log rotation.
	Filename string

	// MaxSizeStr is the maximum file size before rotation ("16MB", "1GB").
	MaxSizeStr string
	// MaxAgeStr is the maximum file age before rotation ("24h", "7d").
	MaxAgeStr string
	// MaxBackups is the number of rotated files to retain; 0 keeps all.
	MaxBackups int
	// MaxFileAge removes backup files older than this; 0 disables it.
	MaxFileAge time.Duration

	Compress  bool
	Checksum  bool
	LocalTime bool

	FileMode   os.FileMode
	RetryCount int
	RetryDelay time.Duration

	// ErrorCallback, if set, receives non-fatal sink errors (rotation,
	// compression, checksum, cleanup). Write and Close do not return
	// these errors, so without a callback they are not reported at all.
	ErrorCallback func(operation string, err error)
}

// Sink is a rotating file writer for periodic report dumps: size- and
// age-based rotation, optional gzip compression and SHA-256 checksums of
// rotated files. Rotation itself runs inline in the Write that crosses a
// threshold; compression, checksums and backup cleanup run on a small
// background worker pool, so Write never blocks on those.
type Sink struct {
	cfg          SinkConfig
	maxSizeBytes int64

	currentFile  atomic.Pointer[os.File]
	bytesWritten atomic.Uint64
	fileCreated  atomic.Int64
	rotationSeq  atomic.Uint64
	rotating     atomic.Bool

	timeCache *timecache.TimeCache
	workers   *sinkWorkers
	closeOnce sync.Once
}

// NewSink validates cfg, opens (creating if needed) the report file, and
// starts its background worker pool.
func NewSink(cfg SinkConfig) (*Sink, error) {
	if cfg.Filename == "" {
		return nil, wrapErr(fmt.Errorf("empty filename"), ErrCodeConfig, "sink requires a filename")
	}

	s := &Sink{cfg: cfg, timeCache: timecache.NewWithResolution(time.Millisecond)}

	if cfg.MaxSizeStr != "" {
		size, err := ParseSize(cfg.MaxSizeStr)
		if err != nil {
			return nil, wrapErr(err, ErrCodeConfig, "parsing MaxSizeStr")
		}
		s.maxSizeBytes = size
	}

	if err := s.initFile(); err != nil {
		return nil, err
	}

	s.workers = newSinkWorkers(2)
	return s, nil
}

// Write appends report bytes to the current file, rotating first if the
// configured size or age threshold has been crossed.
func (s *Sink) Write(report []byte) (int, error) {
	file := s.currentFile.Load()
	if file == nil {
		return 0, wrapErr(fmt.Errorf("no current file"), ErrCodeSinkIO, "sink has no open file")
	}

	n, err := file.Write(report)
	if err != nil {
		s.reportError("write", err)
		return n, wrapErr(err, ErrCodeSinkIO, "writing report")
	}

	newSize := s.bytesWritten.Add(uint64(n))
	if s.shouldRotate(newSize) {
		s.triggerRotation()
	}
	return n, nil
}

// Close stops the background worker pool and closes the current file.
func (s *Sink) Close() error {
	var closeErr error
	s.closeOnce.Do(func() {
		if s.workers != nil {
			s.workers.stop()
		}
		if file := s.currentFile.Load(); file != nil {
			closeErr = file.Close()
		}
	})
	return closeErr
}

func (s *Sink) reportError(op string, err error) {
	if s.cfg.ErrorCallback != nil {
		s.cfg.ErrorCallback(op, err)
	}
}

func (s *Sink) retryConfig() (int, time.Duration, os.FileMode) {
	retryCount := s.cfg.RetryCount
	if retryCount == 0 {
		retryCount = 3
	}
	retryDelay := s.cfg.RetryDelay
	if retryDelay == 0 {
		retryDelay = 10 * time.Millisecond
	}
	fileMode := s.cfg.FileMode
	if fileMode == 0 {
		fileMode = GetDefaultFileMode()
	}
	return retryCount, retryDelay, fileMode
}

func (s *Sink) initFile() error {
	if err := ValidatePathLength(s.cfg.Filename); err != nil {
		return wrapErr(err, ErrCodeConfig, "validating sink path")
	}

	dir := filepath.Dir(s.cfg.Filename)
	base := SanitizeFilename(filepath.Base(s.cfg.Filename))
	sanitized := filepath.Join(dir, base)
	s.cfg.Filename = sanitized

	retryCount, retryDelay, fileMode := s.retryConfig()

	if dir != "." {
		if err := RetryFileOperation(func() error {
			return os.MkdirAll(dir, 0750)
		}, retryCount, retryDelay); err != nil {
			return wrapErr(err, ErrCodeRotation, "creating sink directory")
		}
	}

	var file *os.File
	if err := RetryFileOperation(func() error {
		var err error
		file, err = os.OpenFile(sanitized, os.O_CREATE|os.O_WRONLY|os.O_APPEND, fileMode) // #nosec G304 -- sanitized above
		return err
	}, retryCount, retryDelay); err != nil {
		return wrapErr(err, ErrCodeSinkIO, "opening sink file")
	}

	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return wrapErr(err, ErrCodeSinkIO, "statting sink file")
	}

	s.currentFile.Store(file)
	size := info.Size()
	if size < 0 {
		size = 0
	}
	s.bytesWritten.Store(uint64(size))
	s.fileCreated.Store(s.timeCache.CachedTime().Unix())
	return nil
}

func (s *Sink) shouldRotate(currentSize uint64) bool {
	if s.maxSizeBytes > 0 && currentSize >= uint64(s.maxSizeBytes) {
		return true
	}

	var maxAge time.Duration
	if s.cfg.MaxAgeStr != "" {
		if d, err := ParseDuration(s.cfg.MaxAgeStr); err == nil {
			maxAge = d
		}
	}
	if maxAge > 0 {
		created := s.fileCreated.Load()
		if created > 0 && time.Since(time.Unix(created, 0)) >= maxAge {
			return true
		}
	}
	return false
}

func (s *Sink) triggerRotation() {
	if !s.rotating.CompareAndSwap(false, true) {
		return
	}
	defer s.rotating.Store(false)

	if err := s.performRotation(); err != nil {
		s.reportError("rotation", err)
	}
}

func (s *Sink) performRotation() error {
	currentFile := s.currentFile.Load()
	if currentFile == nil {
		return wrapErr(fmt.Errorf("no current file to rotate"), ErrCodeRotation, "rotation")
	}

	backupName := s.generateBackupName()
	retryCount, retryDelay, fileMode := s.retryConfig()

	if err := RetryFileOperation(currentFile.Close, retryCount, retryDelay); err != nil {
		return wrapErr(err, ErrCodeRotation, "closing current sink file")
	}
	if err := RetryFileOperation(func() error {
		return os.Rename(s.cfg.Filename, backupName)
	}, retryCount, retryDelay); err != nil {
		return wrapErr(err, ErrCodeRotation, "renaming sink file")
	}

	time.Sleep(retryDelay)

	var newFile *os.File
	if err := RetryFileOperation(func() error {
		var err error
		newFile, err = os.OpenFile(s.cfg.Filename, os.O_CREATE|os.O_WRONLY|os.O_APPEND, fileMode) // #nosec G304 -- s.cfg.Filename is sink-owned
		return err
	}, retryCount, retryDelay); err != nil {
		return wrapErr(err, ErrCodeRotation, "creating new sink file")
	}

	s.currentFile.Store(newFile)
	s.bytesWritten.Store(0)
	s.fileCreated.Store(s.timeCache.CachedTime().Unix())
	s.rotationSeq.Add(1)

	s.scheduleHousekeeping(backupName)
	return nil
}

func (s *Sink) generateBackupName() string {
	now := s.timeCache.CachedTime()
	if !s.cfg.LocalTime {
		now = now.UTC()
	}
	return fmt.Sprintf("%s.%s", s.cfg.Filename, now.Format("2006-01-02-15-04-05"))
}

func (s *Sink) scheduleHousekeeping(backupName string) {
	if s.workers == nil {
		return
	}
	if s.cfg.MaxBackups > 0 || s.cfg.MaxFileAge > 0 {
		s.workers.submit(sinkTask{kind: "cleanup", sink: s})
	}
	if s.cfg.Checksum {
		s.workers.submit(sinkTask{kind: "checksum", path: backupName, sink: s})
	}
	if s.cfg.Compress {
		s.workers.submit(sinkTask{kind: "compress", path: backupName, sink: s})
	}
}

func (s *Sink) cleanupOldFiles() {
	pattern := s.cfg.Filename + ".*"
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return
	}

	type fileInfo struct {
		name    string
		modTime time.Time
	}

	var files []fileInfo
	now := s.timeCache.CachedTime()

	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil {
			continue
		}

		if s.cfg.MaxFileAge > 0 {
			age := now.Sub(info.ModTime())
			if age > s.cfg.MaxFileAge {
				if err := os.Remove(match); err != nil {
					s.reportError("age_cleanup", err)
				}
				continue
			}
		}

		files = append(files, fileInfo{name: match, modTime: info.ModTime()})
	}

	if s.cfg.MaxBackups <= 0 || len(files) <= s.cfg.MaxBackups {
		return
	}

	sort.Slice(files, func(i, j int) bool { return files[i].modTime.Before(files[j].modTime) })

	toRemove := len(files) - s.cfg.MaxBackups
	for i := 0; i < toRemove; i++ {
		if err := os.Remove(files[i].name); err != nil {
			s.reportError("count_cleanup", err)
		}
	}
}

func (s *Sink) compressFile(filename string) {
	source, err := os.Open(filename) // #nosec G304 -- internal backup path
	if err != nil {
		s.reportError("compress_open", err)
		return
	}
	defer source.Close()

	compressedName := filename + ".gz"
	tempName := compressedName + ".tmp"

	target, err := os.Create(tempName) // #nosec G304 -- internally generated
	if err != nil {
		s.reportError("compress_create", err)
		return
	}

	gzWriter := gzip.NewWriter(target)
	if _, err := io.Copy(gzWriter, source); err != nil {
		_ = gzWriter.Close()
		_ = target.Close()
		_ = os.Remove(tempName)
		s.reportError("compress_copy", err)
		return
	}
	if err := gzWriter.Close(); err != nil {
		_ = target.Close()
		_ = os.Remove(tempName)
		s.reportError("compress_finalize", err)
		return
	}
	if err := target.Close(); err != nil {
		_ = os.Remove(tempName)
		s.reportError("compress_close", err)
		return
	}

	if err := os.Rename(tempName, compressedName); err != nil {
		_ = os.Remove(tempName)
		s.reportError("compress_rename", err)
		return
	}
	if err := os.Remove(filename); err != nil {
		s.reportError("compress_cleanup", err)
	}
}

func (s *Sink) generateChecksum(filename string) {
	if _, err := os.Stat(filename); err != nil {
		gz := filename + ".gz"
		if _, gzErr := os.Stat(gz); gzErr == nil {
			filename = gz
		} else {
			s.reportError("checksum_missing", err)
			return
		}
	}

	file, err := os.Open(filename) // #nosec G304 -- internal backup path
	if err != nil {
		s.reportError("checksum_open", err)
		return
	}
	defer file.Close()

	hash := sha256.New()
	if _, err := io.Copy(hash, file); err != nil {
		s.reportError("checksum_read", err)
		return
	}

	content := fmt.Sprintf("%x  %s\n", hash.Sum(nil), filepath.Base(filename))
	if err := os.WriteFile(filename+".sha256", []byte(content), 0600); err != nil {
		s.reportError("checksum_write", err)
	}
}
