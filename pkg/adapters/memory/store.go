package memory

import (
	"context"

	"github.com/aretw0/mcdata/pkg/report"
)

// Store implements ports.DiagnosticStore in memory.
// Safe for concurrent use.
type Store struct {
	collector *report.Collector
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{collector: report.NewCollector()}
}

// AddError records the diagnostic, replacing one of the same kind for file.
func (s *Store) AddError(file string, d report.Diagnostic) {
	d.IDs = append(d.IDs[:0:0], d.IDs...)
	s.collector.AddError(file, d)
}

// RemoveError drops the diagnostic of kind for file.
func (s *Store) RemoveError(file string, kind report.Kind) {
	s.collector.RemoveError(file, kind)
}

// List returns every stored diagnostic.
func (s *Store) List(ctx context.Context) ([]report.Entry, error) {
	return s.collector.Entries(), nil
}

// File returns the diagnostics of a single file.
func (s *Store) File(file string) []report.Diagnostic {
	return s.collector.File(file)
}

// Reset drops everything.
func (s *Store) Reset(ctx context.Context) error {
	s.collector.Reset()
	return nil
}
