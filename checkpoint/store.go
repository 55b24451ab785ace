// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package checkpoint

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/FatihSuicmez/TUIK-MCP/core"
)

// File names inside the work directory.
const (
	CompletedLogName = "processed_files.log"
	CheckpointName   = "fragments.ckpt"
	FailureLogName   = "failed_files.log"
)

// TimestampFormat is the layout of the failure log timestamp column.
const TimestampFormat = "2006-01-02 15:04:05"

var failureHeader = []string{"timestamp", "category", "filename", "error_message"}

// Stats summarizes the fragment checkpoint.
type Stats struct {
	Batches   int
	Fragments int
}

// Store is the durable ingestion ledger: completed files, failed files and
// the fragments of every completed file.
//
// Writes go to the fragment checkpoint first and to the completed log
// second, each fsynced, so a crash between the two leaves a batch without
// its completed entry. Open repairs that by appending the missing entry.
//
// Store is safe for concurrent use; the ingestion collector is expected to
// be its only writer.
type Store struct {
	dir string

	mu        sync.Mutex
	ckpt      *os.File
	completed *os.File
	done      map[string]struct{}
	doneOrder []string
	failures  map[string]core.FailureRecord
	stats     Stats
	closed    bool
	now       func() time.Time
	logger    *slog.Logger

	// last completed entry lacks its newline
	completedUnterminated bool
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets a custom logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock overrides the time source used for failure timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// Open opens (creating if needed) the ledger in dir and checks the
// fragment checkpoint against the completed log.
func Open(dir string, opts ...Option) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create work directory: %w", err)
	}

	s := &Store{
		dir:      dir,
		done:     make(map[string]struct{}),
		failures: make(map[string]core.FailureRecord),
		now:      time.Now,
		logger:   slog.Default().With("component", "checkpoint"),
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.readCompleted(); err != nil {
		return nil, err
	}
	if err := s.readFailures(); err != nil {
		return nil, err
	}

	var err error
	s.ckpt, err = os.OpenFile(s.path(CheckpointName), os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open fragment checkpoint: %w", err)
	}
	s.completed, err = os.OpenFile(s.path(CompletedLogName), os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		s.ckpt.Close()
		return nil, fmt.Errorf("failed to open completed log: %w", err)
	}

	if err := s.repairCompletedTail(); err != nil {
		s.ckpt.Close()
		s.completed.Close()
		return nil, err
	}
	if err := s.recover(); err != nil {
		s.ckpt.Close()
		s.completed.Close()
		return nil, err
	}

	s.logger.Info("opened checkpoint store",
		"dir", dir, "completed", len(s.done), "failed", len(s.failures),
		"batches", s.stats.Batches, "fragments", s.stats.Fragments)
	return s, nil
}

// Dir returns the work directory.
func (s *Store) Dir() string {
	return s.dir
}

func (s *Store) path(name string) string {
	return filepath.Join(s.dir, name)
}

// Completed returns completed basenames in completion order.
func (s *Store) Completed() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.doneOrder))
	copy(out, s.doneOrder)
	return out
}

// IsCompleted reports whether basename has a committed batch.
func (s *Store) IsCompleted(basename string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.done[basename]
	return ok
}

// Failures returns the last failure log entry per basename.
func (s *Store) Failures() map[string]core.FailureRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]core.FailureRecord, len(s.failures))
	for k, v := range s.failures {
		out[k] = v
	}
	return out
}

// Stats returns checkpoint batch and fragment counts.
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.stats
}

// RecordSuccess commits the fragments of desc: the batch is appended to the
// fragment checkpoint and synced before the completed log entry is written.
func (s *Store) RecordSuccess(desc core.InputDescriptor, fragments []core.Fragment) error {
	batch := &core.FragmentBatch{
		Basename:  desc.Basename(),
		Category:  desc.Category,
		Fragments: fragments,
	}
	if err := core.ValidateBatch(batch); err != nil {
		return err
	}
	frame, err := encodeFrame(batch)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}

	if _, err := s.ckpt.Seek(0, io.SeekEnd); err != nil {
		return err
	}
	if _, err := s.ckpt.Write(frame); err != nil {
		return fmt.Errorf("failed to append batch for %s: %w", batch.Basename, err)
	}
	if err := s.ckpt.Sync(); err != nil {
		return fmt.Errorf("failed to sync fragment checkpoint: %w", err)
	}
	s.stats.Batches++
	s.stats.Fragments += len(fragments)

	return s.markCompleted(batch.Basename)
}

// markCompleted appends basename to the completed log. Caller holds mu.
func (s *Store) markCompleted(basename string) error {
	if _, ok := s.done[basename]; ok {
		return nil
	}
	if _, err := s.completed.WriteString(basename + "\n"); err != nil {
		return fmt.Errorf("failed to append completed entry for %s: %w", basename, err)
	}
	if err := s.completed.Sync(); err != nil {
		return fmt.Errorf("failed to sync completed log: %w", err)
	}
	s.done[basename] = struct{}{}
	s.doneOrder = append(s.doneOrder, basename)
	return nil
}

// RecordFailure appends one row to the failure log, creating it with a
// header on first use.
func (s *Store) RecordFailure(desc core.InputDescriptor, cause error) error {
	record := core.FailureRecord{
		Timestamp:    s.now(),
		Category:     desc.Category,
		Filename:     desc.Basename(),
		ErrorMessage: "unknown error",
	}
	if cause != nil {
		record.ErrorMessage = cause.Error()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}

	f, err := os.OpenFile(s.path(FailureLogName), os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open failure log: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}

	w := csv.NewWriter(f)
	if info.Size() == 0 {
		if err := w.Write(failureHeader); err != nil {
			return err
		}
	}
	err = w.Write([]string{
		record.Timestamp.Format(TimestampFormat),
		record.Category,
		record.Filename,
		record.ErrorMessage,
	})
	if err != nil {
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("failed to write failure log: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("failed to sync failure log: %w", err)
	}

	s.failures[record.Filename] = record
	return nil
}

// ResetFailures deletes the failure log.
func (s *Store) ResetFailures() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrStoreClosed
	}
	if err := os.Remove(s.path(FailureLogName)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete failure log: %w", err)
	}
	s.failures = make(map[string]core.FailureRecord)
	return nil
}

// LoadCorpus reads every batch and returns the flattened fragments in
// commit order. When a file was committed more than once (reprocessed
// after an earlier success) only its latest batch is kept. A torn final
// record ends the stream.
func (s *Store) LoadCorpus() ([]core.Fragment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, ErrStoreClosed
	}

	batches, err := s.readBatches()
	if err != nil {
		return nil, err
	}

	latest := make(map[string]int, len(batches))
	for i, b := range batches {
		latest[b.Basename] = i
	}

	var fragments []core.Fragment
	for i, b := range batches {
		if latest[b.Basename] != i {
			s.logger.Debug("skipping superseded batch", "file", b.Basename)
			continue
		}
		fragments = append(fragments, b.Fragments...)
	}
	if fragments == nil {
		fragments = []core.Fragment{}
	}
	return fragments, nil
}

// Close closes the underlying files.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return errors.Join(s.ckpt.Close(), s.completed.Close())
}

// readBatches scans the checkpoint from the start. Caller holds mu.
func (s *Store) readBatches() ([]*core.FragmentBatch, error) {
	info, err := s.ckpt.Stat()
	if err != nil {
		return nil, err
	}
	if _, err := s.ckpt.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	fr := newFrameReader(s.ckpt, info.Size())
	var batches []*core.FragmentBatch
	for {
		batch, tail, err := fr.next()
		if errors.Is(err, io.EOF) || errors.Is(err, errTornFrame) {
			break
		}
		var corrupt *CorruptionError
		if errors.As(err, &corrupt) {
			if tail {
				break
			}
			corrupt.Path = s.path(CheckpointName)
			return nil, corrupt
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read fragment checkpoint: %w", err)
		}
		batches = append(batches, batch)
	}
	return batches, nil
}

// recover truncates a torn tail and backfills missing completed entries.
func (s *Store) recover() error {
	info, err := s.ckpt.Stat()
	if err != nil {
		return err
	}
	if _, err := s.ckpt.Seek(0, io.SeekStart); err != nil {
		return err
	}

	fr := newFrameReader(s.ckpt, info.Size())
	var batches []*core.FragmentBatch
	for {
		batch, tail, err := fr.next()
		if errors.Is(err, io.EOF) {
			break
		}
		var corrupt *CorruptionError
		if errors.Is(err, errTornFrame) || (errors.As(err, &corrupt) && tail) {
			if err := s.checkDroppable(batches, fr.offset); err != nil {
				return err
			}
			s.logger.Warn("truncating torn checkpoint record",
				"offset", fr.offset, "size", info.Size())
			if err := s.ckpt.Truncate(fr.offset); err != nil {
				return fmt.Errorf("failed to truncate fragment checkpoint: %w", err)
			}
			if err := s.ckpt.Sync(); err != nil {
				return err
			}
			break
		}
		if corrupt != nil {
			corrupt.Path = s.path(CheckpointName)
			return corrupt
		}
		if err != nil {
			return fmt.Errorf("failed to read fragment checkpoint: %w", err)
		}
		batches = append(batches, batch)
	}

	for _, b := range batches {
		s.stats.Batches++
		s.stats.Fragments += len(b.Fragments)
		if _, ok := s.done[b.Basename]; !ok {
			s.logger.Warn("backfilling completed entry", "file", b.Basename)
			if err := s.markCompleted(b.Basename); err != nil {
				return err
			}
		}
	}
	return nil
}

// checkDroppable refuses to truncate at offset when a completed file has no
// batch before it. Only the record in flight at a crash may be dropped, and
// that file is never in the completed log yet.
func (s *Store) checkDroppable(kept []*core.FragmentBatch, offset int64) error {
	present := make(map[string]struct{}, len(kept))
	for _, b := range kept {
		present[b.Basename] = struct{}{}
	}
	for _, name := range s.doneOrder {
		if _, ok := present[name]; !ok {
			return &CorruptionError{
				Path:   s.path(CheckpointName),
				Offset: offset,
				Reason: fmt.Sprintf("damaged record precedes committed batch of %s", name),
			}
		}
	}
	return nil
}

// repairCompletedTail terminates a final completed entry that lacks its
// newline so the next append starts on a fresh line.
func (s *Store) repairCompletedTail() error {
	if !s.completedUnterminated {
		return nil
	}
	if _, err := s.completed.WriteString("\n"); err != nil {
		return fmt.Errorf("failed to repair completed log: %w", err)
	}
	if err := s.completed.Sync(); err != nil {
		return fmt.Errorf("failed to sync completed log: %w", err)
	}
	s.completedUnterminated = false
	return nil
}

func (s *Store) readCompleted() error {
	f, err := os.Open(s.path(CompletedLogName))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read completed log: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	if size := info.Size(); size > 0 {
		var last [1]byte
		if _, err := f.ReadAt(last[:], size-1); err != nil {
			return fmt.Errorf("failed to read completed log: %w", err)
		}
		s.completedUnterminated = last[0] != '\n'
	}

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		name := strings.TrimSpace(scanner.Text())
		if name == "" {
			continue
		}
		if _, ok := s.done[name]; ok {
			continue
		}
		s.done[name] = struct{}{}
		s.doneOrder = append(s.doneOrder, name)
	}
	return scanner.Err()
}

func (s *Store) readFailures() error {
	f, err := os.Open(s.path(FailureLogName))
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read failure log: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return fmt.Errorf("failed to parse failure log: %w", err)
	}

	for i, row := range rows {
		if i == 0 && len(row) > 0 && row[0] == failureHeader[0] {
			continue
		}
		if len(row) < 3 || row[2] == "" {
			continue
		}
		record := core.FailureRecord{Category: row[1], Filename: row[2]}
		if ts, err := time.ParseInLocation(TimestampFormat, row[0], time.Local); err == nil {
			record.Timestamp = ts
		}
		if len(row) > 3 {
			record.ErrorMessage = row[3]
		}
		s.failures[record.Filename] = record
	}
	return nil
}
