package id

import "iter"

// Map associates IDs with values. The zero value is ready to use.
// Mutating a Map while ranging over All is only safe for Set on keys that
// already exist.
type Map[V any] struct {
	spaces map[string]*partition[V]
	order  []string
}

type partition[V any] struct {
	index   map[string]int
	entries []entry[V]
	live    int
}

type entry[V any] struct {
	path    string
	value   V
	deleted bool
}

// NewMap creates an empty Map.
func NewMap[V any]() *Map[V] {
	return &Map[V]{}
}

// Len returns the number of mappings.
func (m *Map[V]) Len() int {
	n := 0
	for _, p := range m.spaces {
		n += p.live
	}
	return n
}

// Clear removes all mappings.
func (m *Map[V]) Clear() {
	m.spaces = nil
	m.order = nil
}

// Get returns the value stored for id.
func (m *Map[V]) Get(id ID) (V, bool) {
	var zero V
	p := m.spaces[id.LogicalNamespace()]
	if p == nil {
		return zero, false
	}
	idx, ok := p.index[id.Path]
	if !ok {
		return zero, false
	}
	return p.entries[idx].value, true
}

// Has reports whether id has a value.
func (m *Map[V]) Has(id ID) bool {
	_, ok := m.Get(id)
	return ok
}

// Set stores value under id, replacing any previous value in place.
func (m *Map[V]) Set(id ID, value V) {
	p := m.partitionOrCreate(id.LogicalNamespace())
	if idx, ok := p.index[id.Path]; ok {
		p.entries[idx].value = value
		return
	}
	p.index[id.Path] = len(p.entries)
	p.entries = append(p.entries, entry[V]{path: id.Path, value: value})
	p.live++
}

// GetOrInsert returns the value for id, storing the result of create first
// when id has no value.
func (m *Map[V]) GetOrInsert(id ID, create func() V) V {
	if v, ok := m.Get(id); ok {
		return v
	}
	v := create()
	m.Set(id, v)
	return v
}

// Delete removes id and reports whether it was present.
func (m *Map[V]) Delete(id ID) bool {
	ns := id.LogicalNamespace()
	p := m.spaces[ns]
	if p == nil {
		return false
	}
	idx, ok := p.index[id.Path]
	if !ok {
		return false
	}
	var zero V
	p.entries[idx] = entry[V]{deleted: true, value: zero}
	delete(p.index, id.Path)
	p.live--
	if p.live == 0 {
		m.dropPartition(ns)
		return true
	}
	if len(p.entries) > 2*p.live {
		p.compact()
	}
	return true
}

// All yields every (ID, value) pair. The returned IDs always carry their
// logical namespace.
func (m *Map[V]) All() iter.Seq2[ID, V] {
	return func(yield func(ID, V) bool) {
		for _, ns := range m.order {
			p := m.spaces[ns]
			if p == nil {
				continue
			}
			for i := 0; i < len(p.entries); i++ {
				e := p.entries[i]
				if e.deleted {
					continue
				}
				if !yield(ID{Namespace: ns, Path: e.path}, e.value) {
					return
				}
			}
		}
	}
}

// Keys yields every ID in iteration order.
func (m *Map[V]) Keys() iter.Seq[ID] {
	return func(yield func(ID) bool) {
		for k := range m.All() {
			if !yield(k) {
				return
			}
		}
	}
}

func (m *Map[V]) partitionOrCreate(ns string) *partition[V] {
	if m.spaces == nil {
		m.spaces = make(map[string]*partition[V])
	}
	p := m.spaces[ns]
	if p == nil {
		p = &partition[V]{index: make(map[string]int)}
		m.spaces[ns] = p
		m.order = append(m.order, ns)
	}
	return p
}

func (m *Map[V]) dropPartition(ns string) {
	delete(m.spaces, ns)
	for i, name := range m.order {
		if name == ns {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
}

func (p *partition[V]) compact() {
	kept := make([]entry[V], 0, p.live)
	for _, e := range p.entries {
		if e.deleted {
			continue
		}
		p.index[e.path] = len(kept)
		kept = append(kept, e)
	}
	p.entries = kept
}
