package resolve

import "strconv"

// ScopeID identifies an overlay scope, such as one workspace root.
type ScopeID int

// SourceID identifies one source inside a scope, such as one datapack.
type SourceID int

// ScopeRef selects the global layer or one scope. The zero value is global.
type ScopeRef struct {
	scope ScopeID
	local bool
}

// Global selects the immutable global layer.
func Global() ScopeRef {
	return ScopeRef{}
}

// In selects scope.
func In(scope ScopeID) ScopeRef {
	return ScopeRef{scope: scope, local: true}
}

// Scope returns the selected scope, or false for the global layer.
func (r ScopeRef) Scope() (ScopeID, bool) {
	return r.scope, r.local
}

// IsGlobal reports whether r selects the global layer.
func (r ScopeRef) IsGlobal() bool {
	return !r.local
}

func (r ScopeRef) String() string {
	if !r.local {
		return "global"
	}
	return "scope:" + strconv.Itoa(int(r.scope))
}

// Sourced is a local raw value tagged with the source it came from.
type Sourced[T any] struct {
	Source SourceID
	Value  T
}

// Input is one entry of the combined resolver input. Global entries have
// Local set to false and a zero Source.
type Input[T any] struct {
	Value  T
	Source SourceID
	Local  bool
}

// Values holds every raw value visible for a key from one scope.
type Values[T any] struct {
	Global    T
	HasGlobal bool
	// Locals are in source insertion order.
	Locals []Sourced[T]
}

// Empty reports whether no value is visible.
func (v Values[T]) Empty() bool {
	return !v.HasGlobal && len(v.Locals) == 0
}

// Ordered returns locals first, global last.
func (v Values[T]) Ordered() []Input[T] {
	out := make([]Input[T], 0, len(v.Locals)+1)
	for _, l := range v.Locals {
		out = append(out, Input[T]{Value: l.Value, Source: l.Source, Local: true})
	}
	if v.HasGlobal {
		out = append(out, Input[T]{Value: v.Global})
	}
	return out
}

type sourced[T any] struct {
	index  map[SourceID]int
	values []Sourced[T]
}

func (s *sourced[T]) set(src SourceID, v T) (T, bool) {
	if i, ok := s.index[src]; ok {
		prev := s.values[i].Value
		s.values[i].Value = v
		return prev, true
	}
	if s.index == nil {
		s.index = make(map[SourceID]int)
	}
	s.index[src] = len(s.values)
	s.values = append(s.values, Sourced[T]{Source: src, Value: v})
	var zero T
	return zero, false
}

func (s *sourced[T]) delete(src SourceID) bool {
	i, ok := s.index[src]
	if !ok {
		return false
	}
	s.values = append(s.values[:i], s.values[i+1:]...)
	delete(s.index, src)
	for j := i; j < len(s.values); j++ {
		s.index[s.values[j].Source] = j
	}
	return true
}

func (s *sourced[T]) len() int {
	return len(s.values)
}

func (s *sourced[T]) snapshot() []Sourced[T] {
	if len(s.values) == 0 {
		return nil
	}
	out := make([]Sourced[T], len(s.values))
	copy(out, s.values)
	return out
}

func (s *sourced[T]) has(src SourceID) bool {
	_, ok := s.index[src]
	return ok
}
