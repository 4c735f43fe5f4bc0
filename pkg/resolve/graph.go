package resolve

import (
	"fmt"
	"iter"
	"time"

	"github.com/aretw0/mcdata/pkg/id"
)

// Resolver computes the resolved value of one raw record. It may read other
// keys through g; every such read is recorded as a dependency of key.
// A returned error is memoized like a value until key is invalidated.
type Resolver[T, R any] func(raw T, key id.ID, g *Graph[T, R]) (R, error)

// outcome is the memoized part of a record.
type outcome[R any] struct {
	state    State
	resolved R
	err      error
}

func (o *outcome[R]) clear() {
	if o.state != StateCached {
		return
	}
	var zero R
	o.resolved, o.err = zero, nil
	o.state = StateIdle
}

type record[T, R any] struct {
	outcome[R]
	raw        T
	dependents handleSet
}

// Graph is a single-layer resolution graph.
type Graph[T, R any] struct {
	store    id.Map[*record[T, R]]
	keys     interner[id.ID]
	resolver Resolver[T, R]
	cfg      config

	inFlight  handle
	resolving bool
}

// New creates an empty graph that resolves records with resolver.
func New[T, R any](resolver Resolver[T, R], opts ...Option) *Graph[T, R] {
	return &Graph[T, R]{
		resolver: resolver,
		cfg:      buildConfig(opts),
	}
}

// Set replaces the raw value of key and invalidates every record that read it.
// It returns the previous raw value when there was one.
func (g *Graph[T, R]) Set(key id.ID, raw T) (T, bool) {
	g.guard()
	g.invalidate(key)

	var prev T
	rec, ok := g.store.Get(key)
	if !ok {
		g.store.Set(key, &record[T, R]{outcome: outcome[R]{state: StateIdle}, raw: raw})
		return prev, false
	}
	had := rec.state != StateAbsent
	prev = rec.raw
	rec.raw = raw
	rec.state = StateIdle
	return prev, had
}

// Delete invalidates key's dependents and removes its record. It reports
// whether key had a raw value.
func (g *Graph[T, R]) Delete(key id.ID) bool {
	g.guard()
	rec, ok := g.store.Get(key)
	if !ok {
		return false
	}
	g.invalidate(key)
	g.store.Delete(key)
	return rec.state != StateAbsent
}

// Has reports whether key has a raw value.
func (g *Graph[T, R]) Has(key id.ID) bool {
	rec, ok := g.store.Get(key)
	return ok && rec.state != StateAbsent
}

// GetRaw returns the raw value of key without resolving it.
func (g *Graph[T, R]) GetRaw(key id.ID) (T, bool) {
	rec, ok := g.store.Get(key)
	if !ok || rec.state == StateAbsent {
		var zero T
		return zero, false
	}
	return rec.raw, true
}

// GetCycle resolves key and returns a view of its record. A view whose
// InProgress reports true means key is being computed higher up the current
// resolution chain. It reports false when key has no raw value.
func (g *Graph[T, R]) GetCycle(key id.ID) (View[T, R], bool) {
	rec := g.resolve(key)
	if rec == nil || rec.state == StateAbsent {
		return View[T, R]{}, false
	}
	return View[T, R]{raw: rec.raw, resolved: rec.resolved, err: rec.err, state: rec.state}, true
}

// Get resolves key. It fails with ErrCycleDetected when key is in progress
// and returns the memoized resolver error when resolution failed.
func (g *Graph[T, R]) Get(key id.ID) (R, bool, error) {
	var zero R
	v, ok := g.GetCycle(key)
	if !ok {
		return zero, false, nil
	}
	if v.InProgress() {
		return zero, false, fmt.Errorf("%w: %s", ErrCycleDetected, key)
	}
	if v.err != nil {
		return zero, false, v.err
	}
	return v.resolved, true, nil
}

// ResolveDependents clears the resolved value of key and of everything that
// transitively read it, then resolves each of those records again so that
// resolver side effects run once more.
func (g *Graph[T, R]) ResolveDependents(key id.ID) {
	g.guard()
	for _, h := range g.invalidate(key) {
		g.resolve(g.keys.key(h))
	}
}

// All iterates over every key with a raw value.
func (g *Graph[T, R]) All() iter.Seq2[id.ID, T] {
	return func(yield func(id.ID, T) bool) {
		for key, rec := range g.store.All() {
			if rec.state == StateAbsent {
				continue
			}
			if !yield(key, rec.raw) {
				return
			}
		}
	}
}

// Len returns the number of keys with a raw value.
func (g *Graph[T, R]) Len() int {
	n := 0
	for range g.All() {
		n++
	}
	return n
}

// StateOf returns the state of key's record, or StateAbsent when there is none.
func (g *Graph[T, R]) StateOf(key id.ID) State {
	if rec, ok := g.store.Get(key); ok {
		return rec.state
	}
	return StateAbsent
}

func (g *Graph[T, R]) guard() {
	if g.resolving {
		panic(ErrReentrantMutation)
	}
}

func (g *Graph[T, R]) resolve(key id.ID) *record[T, R] {
	rec, ok := g.store.Get(key)
	if !ok {
		if !g.resolving {
			return nil
		}
		rec = &record[T, R]{}
		rec.dependents.add(g.inFlight)
		g.store.Set(key, rec)
		return rec
	}
	if g.resolving {
		rec.dependents.add(g.inFlight)
	}

	switch rec.state {
	case StateAbsent:
		return rec
	case StateCached:
		g.cfg.hooks.cacheHit(Event{Key: key})
		return rec
	case StateInProgress:
		g.cfg.logger.Debug("cycle observed", "key", key.String())
		g.cfg.hooks.cycle(Event{Key: key})
		return rec
	}

	g.compute(key, rec)
	return rec
}

func (g *Graph[T, R]) compute(key id.ID, rec *record[T, R]) {
	prev, prevResolving := g.inFlight, g.resolving
	g.inFlight, g.resolving = g.keys.intern(key.Canonical()), true
	rec.state = StateInProgress
	defer func() {
		g.inFlight, g.resolving = prev, prevResolving
		if rec.state == StateInProgress {
			// resolver panicked
			rec.state = StateIdle
		}
	}()

	start := time.Now()
	rec.resolved, rec.err = g.resolver(rec.raw, key, g)
	rec.state = StateCached

	elapsed := time.Since(start)
	g.cfg.logger.Debug("resolved", "key", key.String(), "duration", elapsed, "err", rec.err)
	g.cfg.hooks.resolved(Event{Key: key, Duration: elapsed, Err: rec.err})
}

// invalidate clears resolved values on the dependents closure of key and
// returns the visited handles in walk order.
func (g *Graph[T, R]) invalidate(key id.ID) []handle {
	order := walk(g.keys.intern(key.Canonical()), func(h handle) (*handleSet, bool) {
		rec, ok := g.store.Get(g.keys.key(h))
		if !ok {
			return nil, false
		}
		rec.clear()
		return &rec.dependents, true
	})
	if len(order) > 0 {
		g.cfg.logger.Debug("invalidated", "key", key.String(), "count", len(order))
		g.cfg.hooks.invalidated(Event{Key: key, Count: len(order)})
	}
	return order
}
