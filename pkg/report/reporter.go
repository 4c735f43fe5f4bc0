package report

import (
	"slices"
	"strings"
	"sync"
)

// Reporter receives diagnostics keyed by file.
type Reporter interface {
	// AddError records d for file, replacing any diagnostic of the same kind.
	AddError(file string, d Diagnostic)
	// RemoveError drops the diagnostic of kind for file, if any.
	RemoveError(file string, kind Kind)
}

// Nop discards everything.
type Nop struct{}

func (Nop) AddError(string, Diagnostic) {}
func (Nop) RemoveError(string, Kind)    {}

// Clear removes every kind for file.
func Clear(r Reporter, file string) {
	for _, k := range Kinds() {
		r.RemoveError(file, k)
	}
}

type multi []Reporter

// Multi fans diagnostics out to every reporter.
func Multi(reporters ...Reporter) Reporter {
	return multi(reporters)
}

func (m multi) AddError(file string, d Diagnostic) {
	for _, r := range m {
		r.AddError(file, d)
	}
}

func (m multi) RemoveError(file string, kind Kind) {
	for _, r := range m {
		r.RemoveError(file, kind)
	}
}

// Collector keeps diagnostics in memory. It is safe for concurrent use.
type Collector struct {
	mu    sync.RWMutex
	files map[string]map[Kind]Diagnostic
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{files: make(map[string]map[Kind]Diagnostic)}
}

func (c *Collector) AddError(file string, d Diagnostic) {
	c.mu.Lock()
	defer c.mu.Unlock()
	kinds, ok := c.files[file]
	if !ok {
		kinds = make(map[Kind]Diagnostic)
		c.files[file] = kinds
	}
	kinds[d.Kind] = d
}

func (c *Collector) RemoveError(file string, kind Kind) {
	c.mu.Lock()
	defer c.mu.Unlock()
	kinds, ok := c.files[file]
	if !ok {
		return
	}
	delete(kinds, kind)
	if len(kinds) == 0 {
		delete(c.files, file)
	}
}

// File returns the diagnostics of file ordered by kind.
func (c *Collector) File(file string) []Diagnostic {
	c.mu.RLock()
	defer c.mu.RUnlock()
	kinds := c.files[file]
	out := make([]Diagnostic, 0, len(kinds))
	for _, d := range kinds {
		out = append(out, d)
	}
	slices.SortFunc(out, func(a, b Diagnostic) int { return int(a.Kind) - int(b.Kind) })
	return out
}

// Entries returns every diagnostic ordered by file then kind.
func (c *Collector) Entries() []Entry {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []Entry
	for file, kinds := range c.files {
		for _, d := range kinds {
			out = append(out, Entry{File: file, Diagnostic: d})
		}
	}
	SortEntries(out)
	return out
}

// Len returns the number of stored diagnostics.
func (c *Collector) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	n := 0
	for _, kinds := range c.files {
		n += len(kinds)
	}
	return n
}

// Reset drops everything.
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	clear(c.files)
}

// SortEntries orders entries by file then kind.
func SortEntries(entries []Entry) {
	slices.SortFunc(entries, func(a, b Entry) int {
		if c := strings.Compare(a.File, b.File); c != 0 {
			return c
		}
		return int(a.Kind) - int(b.Kind)
	})
}
