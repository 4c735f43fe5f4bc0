package id

import "iter"

// Set is a collection of unique IDs with the same normalization as Map.
// The zero value is ready to use.
type Set struct {
	m Map[struct{}]
}

// NewSet creates a Set holding ids.
func NewSet(ids ...ID) *Set {
	s := &Set{}
	for _, i := range ids {
		s.Add(i)
	}
	return s
}

// Add inserts id.
func (s *Set) Add(id ID) {
	s.m.Set(id, struct{}{})
}

// Has reports whether id is a member.
func (s *Set) Has(id ID) bool {
	return s.m.Has(id)
}

// Delete removes id and reports whether it was a member.
func (s *Set) Delete(id ID) bool {
	return s.m.Delete(id)
}

// Len returns the number of members.
func (s *Set) Len() int {
	return s.m.Len()
}

// Clear removes every member.
func (s *Set) Clear() {
	s.m.Clear()
}

// All yields the members in insertion order, grouped by namespace.
func (s *Set) All() iter.Seq[ID] {
	return s.m.Keys()
}
