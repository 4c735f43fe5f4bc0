package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/aretw0/mcdata/pkg/report"
)

// DefaultPath is where the report is written when no path is given.
var DefaultPath = filepath.Join(".mcdata", "diagnostics.json")

// Store implements ports.DiagnosticStore on top of a JSON file.
// Changes are kept in memory until Flush.
type Store struct {
	Path string

	mu        sync.Mutex
	collector *report.Collector
}

// New creates a new Store with the given path.
// If path is empty, it defaults to DefaultPath.
func New(path string) *Store {
	if path == "" {
		path = DefaultPath
	}
	return &Store{Path: path, collector: report.NewCollector()}
}

func (s *Store) AddError(file string, d report.Diagnostic) {
	d.IDs = append(d.IDs[:0:0], d.IDs...)
	s.collector.AddError(file, d)
}

func (s *Store) RemoveError(file string, kind report.Kind) {
	s.collector.RemoveError(file, kind)
}

// List returns the pending snapshot, flushed or not.
func (s *Store) List(ctx context.Context) ([]report.Entry, error) {
	return s.collector.Entries(), nil
}

// Reset drops every diagnostic and deletes the file.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.collector.Reset()
	if err := os.Remove(s.Path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete report file: %w", err)
	}
	return nil
}

// Load replaces the snapshot with the file content. A missing file is empty.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.Path)
	if err != nil {
		if os.IsNotExist(err) {
			s.collector.Reset()
			return nil
		}
		return fmt.Errorf("failed to read report file: %w", err)
	}

	var entries []report.Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("failed to unmarshal report: %w", err)
	}
	s.collector.Reset()
	for _, e := range entries {
		s.collector.AddError(e.File, e.Diagnostic)
	}
	return nil
}

// Flush writes the snapshot atomically.
// It writes to a temporary file first, syncs via fsync, and then renames it to the destination.
func (s *Store) Flush(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	dir := filepath.Dir(s.Path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to ensure report directory: %w", err)
	}

	data, err := json.MarshalIndent(s.collector.Entries(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	// Same directory, so that the rename stays on one filesystem.
	tmpFile, err := os.CreateTemp(dir, "tmp-"+filepath.Base(s.Path)+"-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmpFile.Name()
	defer func() {
		_ = tmpFile.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmpFile.Write(data); err != nil {
		return fmt.Errorf("failed to write to temp file: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	// Windows cannot rename an open file.
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	// On Windows, os.Rename fails if dest exists.
	if _, err := os.Stat(s.Path); err == nil {
		if err := os.Remove(s.Path); err != nil {
			return fmt.Errorf("failed to remove existing report for overwrite: %w", err)
		}
	}
	if err := os.Rename(tmpPath, s.Path); err != nil {
		return fmt.Errorf("failed to rename temp file to report: %w", err)
	}
	return nil
}
