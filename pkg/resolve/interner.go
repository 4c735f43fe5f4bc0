package resolve

// handle is an index into an interner's arena.
type handle int32

// interner assigns a stable handle to every key it sees. Handles are never
// reused, so the arena grows with the number of distinct keys.
type interner[K comparable] struct {
	index map[K]handle
	keys  []K
}

func (in *interner[K]) intern(k K) handle {
	if h, ok := in.index[k]; ok {
		return h
	}
	if in.index == nil {
		in.index = make(map[K]handle)
	}
	h := handle(len(in.keys))
	in.index[k] = h
	in.keys = append(in.keys, k)
	return h
}

func (in *interner[K]) key(h handle) K {
	return in.keys[h]
}

// handleSet is an insertion-ordered set of handles.
type handleSet struct {
	items []handle
	has   map[handle]struct{}
}

func (s *handleSet) add(h handle) {
	if _, ok := s.has[h]; ok {
		return
	}
	if s.has == nil {
		s.has = make(map[handle]struct{})
	}
	s.has[h] = struct{}{}
	s.items = append(s.items, h)
}

func (s *handleSet) len() int {
	return len(s.items)
}

// walk visits start and every handle reachable through deps, depth first,
// each at most once. deps returns nil for handles without a record.
func walk(start handle, deps func(handle) (*handleSet, bool)) []handle {
	visited := map[handle]struct{}{}
	stack := []handle{start}
	var order []handle
	for len(stack) > 0 {
		h := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, seen := visited[h]; seen {
			continue
		}
		visited[h] = struct{}{}
		set, ok := deps(h)
		if !ok {
			continue
		}
		order = append(order, h)
		if set == nil {
			continue
		}
		for i := len(set.items) - 1; i >= 0; i-- {
			if _, seen := visited[set.items[i]]; !seen {
				stack = append(stack, set.items[i])
			}
		}
	}
	return order
}
