package resolve_test

import (
	"testing"

	"github.com/aretw0/mcdata/pkg/id"
	"github.com/aretw0/mcdata/pkg/resolve"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// refs is a raw record: plain strings are leaves, "#name" reads another key.
type refs []string

// expander flattens references with GetCycle and counts resolver calls per key.
type expander struct {
	calls map[string]int
}

func newExpander() *expander {
	return &expander{calls: map[string]int{}}
}

func (e *expander) resolve(raw refs, key id.ID, g *resolve.Graph[refs, []string]) ([]string, error) {
	e.calls[key.String()]++
	var out []string
	for _, r := range raw {
		if len(r) == 0 || r[0] != '#' {
			out = append(out, r)
			continue
		}
		v, ok := g.GetCycle(id.New(r[1:]))
		if !ok {
			out = append(out, "missing:"+r[1:])
			continue
		}
		if res, done := v.Resolved(); done {
			out = append(out, res...)
		} else {
			out = append(out, "loop:"+r[1:])
		}
	}
	return out, nil
}

func TestGraph_UnknownKey(t *testing.T) {
	g := resolve.New(newExpander().resolve)
	k := id.New("nope")

	assert.False(t, g.Has(k))
	_, ok := g.GetCycle(k)
	assert.False(t, ok)
	v, ok, err := g.Get(k)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, v)
	_, ok = g.GetRaw(k)
	assert.False(t, ok)
	assert.Equal(t, resolve.StateAbsent, g.StateOf(k))
}

func TestGraph_Memoization(t *testing.T) {
	e := newExpander()
	g := resolve.New(e.resolve)
	k := id.New("a")

	prev, had := g.Set(k, refs{"x", "y"})
	assert.False(t, had)
	assert.Nil(t, prev)

	v, ok, err := g.Get(k)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"x", "y"}, v)

	_, _, _ = g.Get(k)
	_, _ = g.GetCycle(id.New("minecraft:a"))
	assert.Equal(t, 1, e.calls["minecraft:a"])
	assert.Equal(t, resolve.StateCached, g.StateOf(k))

	prev, had = g.Set(k, refs{"z"})
	assert.True(t, had)
	assert.Equal(t, refs{"x", "y"}, prev)
	assert.Equal(t, resolve.StateIdle, g.StateOf(k))

	v, _, _ = g.Get(k)
	assert.Equal(t, []string{"z"}, v)
	assert.Equal(t, 2, e.calls["minecraft:a"])
}

func TestGraph_TransitiveInvalidation(t *testing.T) {
	e := newExpander()
	g := resolve.New(e.resolve)
	a, b, c, u := id.New("a"), id.New("b"), id.New("c"), id.New("unrelated")

	g.Set(a, refs{"#b"})
	g.Set(b, refs{"#c"})
	g.Set(c, refs{"leaf"})
	g.Set(u, refs{"other"})

	for _, k := range []id.ID{a, b, c, u} {
		_, _, err := g.Get(k)
		require.NoError(t, err)
	}
	assert.Equal(t, map[string]int{"minecraft:a": 1, "minecraft:b": 1, "minecraft:c": 1, "minecraft:unrelated": 1}, e.calls)

	g.Set(c, refs{"new"})
	assert.Equal(t, resolve.StateIdle, g.StateOf(a))
	assert.Equal(t, resolve.StateIdle, g.StateOf(b))
	assert.Equal(t, resolve.StateCached, g.StateOf(u))

	vc, _, _ := g.Get(c)
	vb, _, _ := g.Get(b)
	va, _, _ := g.Get(a)
	_, _, _ = g.Get(u)
	assert.Equal(t, []string{"new"}, vc)
	assert.Equal(t, []string{"new"}, vb)
	assert.Equal(t, []string{"new"}, va)
	assert.Equal(t, map[string]int{"minecraft:a": 2, "minecraft:b": 2, "minecraft:c": 2, "minecraft:unrelated": 1}, e.calls)
}

func TestGraph_SelfCycle(t *testing.T) {
	calls := 0
	strict := func(raw refs, key id.ID, g *resolve.Graph[refs, []string]) ([]string, error) {
		calls++
		v, _, err := g.Get(id.New(raw[0]))
		if err != nil {
			return nil, err
		}
		return v, nil
	}
	g := resolve.New(strict)
	x := id.New("x")
	g.Set(x, refs{"x"})

	_, ok, err := g.Get(x)
	assert.False(t, ok)
	require.ErrorIs(t, err, resolve.ErrCycleDetected)
	assert.Contains(t, err.Error(), "minecraft:x")

	v, ok := g.GetCycle(x)
	require.True(t, ok)
	_, done := v.Resolved()
	assert.False(t, done)
	assert.ErrorIs(t, v.Err(), resolve.ErrCycleDetected)
	assert.Equal(t, refs{"x"}, v.Raw())
	assert.Equal(t, 1, calls, "failed resolution is memoized")
}

func TestGraph_SelfCycleObservedInProgress(t *testing.T) {
	var seen resolve.View[refs, []string]
	g := resolve.New(func(raw refs, key id.ID, g *resolve.Graph[refs, []string]) ([]string, error) {
		seen, _ = g.GetCycle(key)
		return []string{"done"}, nil
	})
	x := id.New("x")
	g.Set(x, refs{})

	v, ok := g.GetCycle(x)
	require.True(t, ok)
	assert.True(t, seen.InProgress())
	_, done := seen.Resolved()
	assert.False(t, done)

	res, done := v.Resolved()
	assert.True(t, done)
	assert.Equal(t, []string{"done"}, res)
}

func TestGraph_MutualCycle(t *testing.T) {
	e := newExpander()
	g := resolve.New(e.resolve)
	a, b := id.New("a"), id.New("b")
	g.Set(a, refs{"#b", "from-a"})
	g.Set(b, refs{"#a", "from-b"})

	va, ok, err := g.Get(a)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"loop:a", "from-b", "from-a"}, va)

	vb, ok, err := g.Get(b)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"loop:a", "from-b"}, vb)

	// Starting from b on a fresh graph, the loop is attributed the other way.
	g2 := resolve.New(newExpander().resolve)
	g2.Set(a, refs{"#b", "from-a"})
	g2.Set(b, refs{"#a", "from-b"})
	vb, _, err = g2.Get(b)
	require.NoError(t, err)
	assert.Equal(t, []string{"loop:b", "from-a", "from-b"}, vb)
}

func TestGraph_PlaceholderTracksMissingDependency(t *testing.T) {
	e := newExpander()
	g := resolve.New(e.resolve)
	a, late := id.New("a"), id.New("late")
	g.Set(a, refs{"#late"})

	v, _, _ := g.Get(a)
	assert.Equal(t, []string{"missing:late"}, v)
	assert.False(t, g.Has(late), "placeholder is not a value")
	assert.Equal(t, 1, g.Len())

	g.Set(late, refs{"arrived"})
	v, _, _ = g.Get(a)
	assert.Equal(t, []string{"arrived"}, v)
	assert.Equal(t, 2, e.calls["minecraft:a"])
}

func TestGraph_Delete(t *testing.T) {
	e := newExpander()
	g := resolve.New(e.resolve)
	a, b := id.New("a"), id.New("b")
	g.Set(a, refs{"#b"})
	g.Set(b, refs{"v"})
	_, _, _ = g.Get(a)

	assert.True(t, g.Delete(b))
	v, _, _ := g.Get(a)
	assert.Equal(t, []string{"missing:b"}, v)

	assert.False(t, g.Delete(id.New("absent")))
	assert.False(t, g.Delete(id.New("absent")))
	// b is now a placeholder tracking a; deleting it reports no value.
	assert.False(t, g.Delete(b))
}

func TestGraph_ResolveDependents(t *testing.T) {
	e := newExpander()
	g := resolve.New(e.resolve)
	a, b := id.New("a"), id.New("b")
	g.Set(a, refs{"#b"})
	g.Set(b, refs{"v"})
	_, _, _ = g.Get(a)

	g.ResolveDependents(b)
	assert.Equal(t, 2, e.calls["minecraft:a"])
	assert.Equal(t, 2, e.calls["minecraft:b"])
	assert.Equal(t, resolve.StateCached, g.StateOf(a))
	assert.Equal(t, resolve.StateCached, g.StateOf(b))
}

func TestGraph_InvalidationTerminatesOnCyclicDependents(t *testing.T) {
	e := newExpander()
	g := resolve.New(e.resolve)
	a, b := id.New("a"), id.New("b")
	g.Set(a, refs{"#b"})
	g.Set(b, refs{"#a"})
	_, _, _ = g.Get(a)
	_, _, _ = g.Get(b)

	g.ResolveDependents(a)
	assert.Equal(t, resolve.StateCached, g.StateOf(a))
	assert.Equal(t, resolve.StateCached, g.StateOf(b))
}

func TestGraph_ReentrantMutationPanics(t *testing.T) {
	g := resolve.New(func(raw refs, key id.ID, g *resolve.Graph[refs, []string]) ([]string, error) {
		g.Set(id.New("other"), refs{})
		return nil, nil
	})
	g.Set(id.New("a"), refs{})

	assert.PanicsWithError(t, resolve.ErrReentrantMutation.Error(), func() {
		_, _, _ = g.Get(id.New("a"))
	})
	// The in-flight marker was restored: mutation works again.
	assert.NotPanics(t, func() { g.Set(id.New("b"), refs{}) })
	assert.Equal(t, resolve.StateIdle, g.StateOf(id.New("a")))
}

func TestGraph_All(t *testing.T) {
	g := resolve.New(newExpander().resolve)
	g.Set(id.New("b"), refs{"#ghost"})
	g.Set(id.New("a"), refs{"1"})
	_, _, _ = g.Get(id.New("b"))

	var keys []string
	for k := range g.All() {
		keys = append(keys, k.String())
	}
	assert.Equal(t, []string{"minecraft:b", "minecraft:a"}, keys)
	assert.Equal(t, 2, g.Len())
}

func TestGraph_Hooks(t *testing.T) {
	var resolved, hits, cycles, invalidated int
	hooks := resolve.Hooks{
		OnResolve:    func(resolve.Event) { resolved++ },
		OnCacheHit:   func(resolve.Event) { hits++ },
		OnCycle:      func(resolve.Event) { cycles++ },
		OnInvalidate: func(e resolve.Event) { invalidated += e.Count },
	}
	g := resolve.New(newExpander().resolve, resolve.WithHooks(hooks), resolve.WithName("test"))
	g.Set(id.New("a"), refs{"#a"})
	_, _, _ = g.Get(id.New("a"))
	_, _, _ = g.Get(id.New("a"))
	g.Set(id.New("a"), refs{"x"})

	assert.Equal(t, 1, resolved)
	assert.Equal(t, 1, hits)
	assert.Equal(t, 1, cycles)
	assert.Equal(t, 1, invalidated)
}
