package resolve

import (
	"fmt"
	"iter"
	"time"

	"github.com/aretw0/mcdata/pkg/id"
)

// LayeredResolver computes the resolved value of key as seen from ref. in
// holds every visible raw value, locals first and global last.
type LayeredResolver[T, R any] func(in []Input[T], key id.ID, ref ScopeRef, g *Layered[T, R]) (R, error)

// node identifies a record across layers. Dependency edges and the in-flight
// marker are keyed by node so equal keys in different scopes never alias.
type node struct {
	ref ScopeRef
	key id.ID
}

type globalRecord[T, R any] struct {
	outcome[R]
	raw T
}

type localRecord[T, R any] struct {
	outcome[R]
	values     sourced[T]
	dependents handleSet
}

// Layered is a resolution graph with an immutable global layer beneath
// independent scopes. Each scope holds any number of sources per key.
//
// Edges are only recorded between records of the same scope. Global records
// are memoized and cycle-checked but never invalidated, since the global
// layer cannot change after construction.
type Layered[T, R any] struct {
	global   id.Map[*globalRecord[T, R]]
	scopes   map[ScopeID]*id.Map[*localRecord[T, R]]
	nodes    interner[node]
	resolver LayeredResolver[T, R]
	cfg      config

	inFlight  handle
	resolving bool
}

// NewLayered creates a layered graph whose global layer is a copy of global.
// global may be nil.
func NewLayered[T, R any](resolver LayeredResolver[T, R], global *id.Map[T], opts ...Option) *Layered[T, R] {
	g := &Layered[T, R]{
		scopes:   make(map[ScopeID]*id.Map[*localRecord[T, R]]),
		resolver: resolver,
		cfg:      buildConfig(opts),
	}
	if global != nil {
		for key, raw := range global.All() {
			g.global.Set(key, &globalRecord[T, R]{outcome: outcome[R]{state: StateIdle}, raw: raw})
		}
	}
	return g
}

// Set stores raw for key under source in scope, invalidating the records of
// that scope which read key. It returns the value previously stored by the
// same source.
func (g *Layered[T, R]) Set(key id.ID, scope ScopeID, source SourceID, raw T) (T, bool) {
	g.guard()
	g.invalidate(key, scope)

	m := g.scope(scope, true)
	rec := m.GetOrInsert(key, func() *localRecord[T, R] {
		return &localRecord[T, R]{outcome: outcome[R]{state: StateIdle}}
	})
	return rec.values.set(source, raw)
}

// DeleteSource removes the value source stored for key in scope. The record
// itself is kept so that readers stay tracked.
func (g *Layered[T, R]) DeleteSource(key id.ID, scope ScopeID, source SourceID) bool {
	g.guard()
	rec, ok := g.local(key, scope)
	if !ok || !rec.values.has(source) {
		return false
	}
	g.invalidate(key, scope)
	return rec.values.delete(source)
}

// Delete removes every local value of key in scope. Global data and other
// scopes are untouched. It reports whether any local value existed.
func (g *Layered[T, R]) Delete(key id.ID, scope ScopeID) bool {
	g.guard()
	rec, ok := g.local(key, scope)
	if !ok {
		return false
	}
	g.invalidate(key, scope)

	m := g.scopes[scope]
	m.Delete(key)
	if m.Len() == 0 {
		delete(g.scopes, scope)
	}
	return rec.values.len() > 0
}

// Reresolve clears the resolved value of key in scope and of every record
// that transitively read it, then resolves each of them again.
func (g *Layered[T, R]) Reresolve(key id.ID, scope ScopeID) {
	g.guard()
	for _, h := range g.invalidate(key, scope) {
		n := g.nodes.key(h)
		g.resolve(n.key, n.ref)
	}
}

// DropScope discards every local record of scope.
func (g *Layered[T, R]) DropScope(scope ScopeID) {
	g.guard()
	if m, ok := g.scopes[scope]; ok {
		g.cfg.logger.Debug("scope dropped", "scope", int(scope), "records", m.Len())
		delete(g.scopes, scope)
	}
}

// GetValues returns every raw value of key visible from ref.
func (g *Layered[T, R]) GetValues(key id.ID, ref ScopeRef) Values[T] {
	var v Values[T]
	if rec, ok := g.global.Get(key); ok {
		v.Global, v.HasGlobal = rec.raw, true
	}
	if ref.local {
		if rec, ok := g.local(key, ref.scope); ok {
			v.Locals = rec.values.snapshot()
		}
	}
	return v
}

// Has reports whether any value of key is visible from ref.
func (g *Layered[T, R]) Has(key id.ID, ref ScopeRef) bool {
	return !g.GetValues(key, ref).Empty()
}

// GetCycle resolves key as seen from ref. See Graph.GetCycle.
func (g *Layered[T, R]) GetCycle(key id.ID, ref ScopeRef) (View[Values[T], R], bool) {
	out, values := g.resolve(key, ref)
	if out == nil {
		return View[Values[T], R]{}, false
	}
	return View[Values[T], R]{raw: values, resolved: out.resolved, err: out.err, state: out.state}, true
}

// Get resolves key as seen from ref. See Graph.Get.
func (g *Layered[T, R]) Get(key id.ID, ref ScopeRef) (R, bool, error) {
	var zero R
	v, ok := g.GetCycle(key, ref)
	if !ok {
		return zero, false, nil
	}
	if v.InProgress() {
		return zero, false, fmt.Errorf("%w: %s in %s", ErrCycleDetected, key, ref)
	}
	if v.err != nil {
		return zero, false, v.err
	}
	return v.resolved, true, nil
}

// All iterates over keys with a visible value from ref: scope-local keys
// first, in insertion order, then global keys without local values.
func (g *Layered[T, R]) All(ref ScopeRef) iter.Seq2[id.ID, Values[T]] {
	return func(yield func(id.ID, Values[T]) bool) {
		var m *id.Map[*localRecord[T, R]]
		if ref.local {
			m = g.scopes[ref.scope]
		}
		if m != nil {
			for key, rec := range m.All() {
				if rec.values.len() == 0 {
					continue
				}
				if !yield(key, g.GetValues(key, ref)) {
					return
				}
			}
		}
		for key, rec := range g.global.All() {
			if m != nil {
				if local, ok := m.Get(key); ok && local.values.len() > 0 {
					continue
				}
			}
			if !yield(key, Values[T]{Global: rec.raw, HasGlobal: true}) {
				return
			}
		}
	}
}

// StateOf returns the state of key's record in ref.
func (g *Layered[T, R]) StateOf(key id.ID, ref ScopeRef) State {
	if !ref.local {
		if rec, ok := g.global.Get(key); ok {
			return rec.state
		}
		return StateAbsent
	}
	if rec, ok := g.local(key, ref.scope); ok {
		return rec.state
	}
	return StateAbsent
}

func (g *Layered[T, R]) guard() {
	if g.resolving {
		panic(ErrReentrantMutation)
	}
}

func (g *Layered[T, R]) scope(scope ScopeID, create bool) *id.Map[*localRecord[T, R]] {
	m, ok := g.scopes[scope]
	if !ok && create {
		m = id.NewMap[*localRecord[T, R]]()
		g.scopes[scope] = m
	}
	return m
}

func (g *Layered[T, R]) local(key id.ID, scope ScopeID) (*localRecord[T, R], bool) {
	m, ok := g.scopes[scope]
	if !ok {
		return nil, false
	}
	return m.Get(key)
}

func (g *Layered[T, R]) resolve(key id.ID, ref ScopeRef) (*outcome[R], Values[T]) {
	values := g.GetValues(key, ref)

	var out *outcome[R]
	if ref.local {
		tracking := g.resolving && g.nodes.key(g.inFlight).ref == ref
		rec, ok := g.local(key, ref.scope)
		if !ok {
			if !tracking && values.Empty() {
				return nil, values
			}
			rec = &localRecord[T, R]{outcome: outcome[R]{state: StateIdle}}
			g.scope(ref.scope, true).Set(key, rec)
		}
		if tracking {
			rec.dependents.add(g.inFlight)
		}
		out = &rec.outcome
	} else {
		rec, ok := g.global.Get(key)
		if !ok {
			return nil, values
		}
		out = &rec.outcome
	}
	if values.Empty() {
		return nil, values
	}

	switch out.state {
	case StateCached:
		g.cfg.hooks.cacheHit(Event{Key: key, Scope: ref})
		return out, values
	case StateInProgress:
		g.cfg.logger.Debug("cycle observed", "key", key.String(), "scope", ref.String())
		g.cfg.hooks.cycle(Event{Key: key, Scope: ref})
		return out, values
	}

	g.compute(key, ref, values, out)
	return out, values
}

func (g *Layered[T, R]) compute(key id.ID, ref ScopeRef, values Values[T], out *outcome[R]) {
	prev, prevResolving := g.inFlight, g.resolving
	g.inFlight, g.resolving = g.nodes.intern(node{ref: ref, key: key.Canonical()}), true
	out.state = StateInProgress
	defer func() {
		g.inFlight, g.resolving = prev, prevResolving
		if out.state == StateInProgress {
			out.state = StateIdle
		}
	}()

	start := time.Now()
	out.resolved, out.err = g.resolver(values.Ordered(), key, ref, g)
	out.state = StateCached

	elapsed := time.Since(start)
	g.cfg.logger.Debug("resolved", "key", key.String(), "scope", ref.String(), "duration", elapsed, "err", out.err)
	g.cfg.hooks.resolved(Event{Key: key, Scope: ref, Duration: elapsed, Err: out.err})
}

func (g *Layered[T, R]) invalidate(key id.ID, scope ScopeID) []handle {
	ref := In(scope)
	start := g.nodes.intern(node{ref: ref, key: key.Canonical()})
	order := walk(start, func(h handle) (*handleSet, bool) {
		n := g.nodes.key(h)
		rec, ok := g.local(n.key, n.ref.scope)
		if !ok || n.ref != ref {
			return nil, false
		}
		rec.clear()
		return &rec.dependents, true
	})
	if len(order) > 0 {
		g.cfg.logger.Debug("invalidated", "key", key.String(), "scope", ref.String(), "count", len(order))
		g.cfg.hooks.invalidated(Event{Key: key, Scope: ref, Count: len(order)})
	}
	return order
}
