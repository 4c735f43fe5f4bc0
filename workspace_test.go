package mcdata_test

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/aretw0/mcdata"
	"github.com/aretw0/mcdata/pkg/datapack"
	"github.com/aretw0/mcdata/pkg/id"
	"github.com/aretw0/mcdata/pkg/report"
	"github.com/aretw0/mcdata/pkg/resolve"
	"github.com/aretw0/mcdata/pkg/tags"
	"github.com/aretw0/mcdata/pkg/vanilla"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const worldPath = "/worlds/test"

func file(data string) *fstest.MapFile {
	return &fstest.MapFile{Data: []byte(data)}
}

func testWorld() fstest.MapFS {
	return fstest.MapFS{
		"datapacks/a/pack.mcmeta":                          file(`{"pack": {"pack_format": 6, "description": "A"}}`),
		"datapacks/a/data/demo/tags/blocks/logs.json":      file(`{"values": ["oak_log", "#demo:more", "#demo:nope"]}`),
		"datapacks/a/data/demo/tags/blocks/more.json":      file(`{"values": ["minecraft:birch_log"]}`),
		"datapacks/a/data/demo/tags/blocks/loop_a.json":    file(`{"values": ["#demo:loop_b"]}`),
		"datapacks/a/data/demo/tags/blocks/loop_b.json":    file(`{"values": ["#demo:loop_a"]}`),
		"datapacks/a/data/minecraft/tags/blocks/logs.json": file(`{"values": ["#demo:more"]}`),
		"datapacks/a/data/demo/tags/functions/tick.json":   file(`{"values": ["demo:main", "demo:missing"]}`),
		"datapacks/a/data/demo/functions/main.mcfunction":  file(`say hi`),
		"datapacks/a/data/demo/tags/items/bad.json":        file(`{`),
		"datapacks/b/data/demo/tags/blocks/more.json":      file(`{"values": ["spruce_log"]}`),
		"datapacks/b/data/demo/tags/blocks/weird.json":     file(`{"values": ["not_a_block"]}`),
	}
}

func testGlobal() *vanilla.Global {
	g := vanilla.Empty()
	for _, b := range []string{"oak_log", "birch_log", "spruce_log", "jungle_log", "dark_oak_log"} {
		g.Blocks.Set(id.New(b), vanilla.Properties{})
	}
	g.Resources.AddTag(datapack.BlockTags, id.New("logs"), tags.Tag{
		Values: []tags.Ref{tags.ParseRef("dark_oak_log")},
	})
	return g
}

func names(ids []id.ID) []string {
	out := make([]string, len(ids))
	for i, v := range ids {
		out[i] = v.String()
	}
	return out
}

func packFile(parts ...string) string {
	return filepath.Join(append([]string{worldPath, "datapacks"}, parts...)...)
}

type resolveCounter struct {
	mu     sync.Mutex
	counts map[string]int
}

func (c *resolveCounter) hooks(graph string) resolve.Hooks {
	return resolve.Hooks{
		OnResolve: func(e resolve.Event) {
			c.mu.Lock()
			defer c.mu.Unlock()
			c.counts[graph+" "+e.Key.String()]++
		},
	}
}

func (c *resolveCounter) get(key string) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[key]
}

func diagnosticKinds(w *mcdata.Workspace) map[string][]report.Kind {
	out := make(map[string][]report.Kind)
	for _, e := range w.Diagnostics() {
		out[e.File] = append(out[e.File], e.Kind)
	}
	return out
}

func TestWorkspace_AddRoot(t *testing.T) {
	w := mcdata.New(testGlobal())
	root, err := w.AddRoot(context.Background(), testWorld(), worldPath)
	require.NoError(t, err)

	assert.Equal(t, datapack.World, root.Kind)
	require.Len(t, root.Datapacks, 2)
	a, ok := w.Datapack(root.Datapacks[0])
	require.True(t, ok)
	assert.Equal(t, "a", a.Name)
	require.NotNil(t, a.Mcmeta)
	assert.Equal(t, "A", a.Mcmeta.DescriptionText())

	logs, ok, err := w.Tag(datapack.BlockTags, id.New("demo:logs"), root.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"minecraft:oak_log", "minecraft:birch_log", "minecraft:spruce_log"}, names(logs.Results))

	// Local definitions come before the global one.
	vanillaLogs, ok, err := w.Tag(datapack.BlockTags, id.New("logs"), root.ID)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"minecraft:birch_log", "minecraft:spruce_log", "minecraft:dark_oak_log"}, names(vanillaLogs.Results))

	global, ok, err := w.Tag(datapack.BlockTags, id.New("logs"), 0)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"minecraft:dark_oak_log"}, names(global.Results))

	_, ok, err = w.Tag(datapack.BlockTags, id.New("demo:unknown"), root.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestWorkspace_Diagnostics(t *testing.T) {
	extra := report.NewCollector()
	w := mcdata.New(testGlobal(), mcdata.WithReporter(extra))
	_, err := w.AddRoot(context.Background(), testWorld(), worldPath)
	require.NoError(t, err)

	got := diagnosticKinds(w)
	assert.Equal(t, []report.Kind{report.InvalidTagDependency}, got[packFile("a", "data", "demo", "tags", "blocks", "logs.json")])
	assert.Equal(t, []report.Kind{report.LoopingTag}, got[packFile("a", "data", "demo", "tags", "blocks", "loop_a.json")])
	assert.Equal(t, []report.Kind{report.LoopingTag}, got[packFile("a", "data", "demo", "tags", "blocks", "loop_b.json")])
	assert.Equal(t, []report.Kind{report.InvalidTagMembers}, got[packFile("a", "data", "demo", "tags", "functions", "tick.json")])
	assert.Equal(t, []report.Kind{report.InvalidJSON}, got[packFile("a", "data", "demo", "tags", "items", "bad.json")])
	assert.Equal(t, []report.Kind{report.InvalidTagMembers}, got[packFile("b", "data", "demo", "tags", "blocks", "weird.json")])
	assert.Len(t, got, 6)

	tick := extra.File(packFile("a", "data", "demo", "tags", "functions", "tick.json"))
	require.Len(t, tick, 1)
	assert.Equal(t, []string{"demo:missing"}, names(tick[0].IDs))
	assert.Equal(t, len(w.Diagnostics()), extra.Len())
}

func TestWorkspace_ReloadRoot(t *testing.T) {
	counter := &resolveCounter{counts: make(map[string]int)}
	w := mcdata.New(testGlobal(), mcdata.WithGraphHooks(counter.hooks))
	world := testWorld()
	root, err := w.AddRoot(context.Background(), world, worldPath)
	require.NoError(t, err)
	require.Equal(t, 1, counter.get("block_tags demo:loop_a"))
	require.Equal(t, 1, counter.get("block_tags demo:logs"))

	world["datapacks/b/data/demo/tags/blocks/more.json"] = file(`{"values": ["jungle_log"]}`)
	world["datapacks/a/data/demo/functions/missing.mcfunction"] = file(`say found`)
	world["datapacks/a/data/demo/tags/items/bad.json"] = file(`{"values": []}`)
	delete(world, "datapacks/b/data/demo/tags/blocks/weird.json")

	root, err = w.ReloadRoot(context.Background(), world, root.ID)
	require.NoError(t, err)

	logs, _, err := w.Tag(datapack.BlockTags, id.New("demo:logs"), root.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"minecraft:oak_log", "minecraft:birch_log", "minecraft:jungle_log"}, names(logs.Results))

	// Only the readers of the changed tag were recomputed.
	assert.Equal(t, 2, counter.get("block_tags demo:logs"))
	assert.Equal(t, 1, counter.get("block_tags demo:loop_a"))

	got := diagnosticKinds(w)
	assert.NotContains(t, got, packFile("a", "data", "demo", "tags", "items", "bad.json"))
	assert.NotContains(t, got, packFile("a", "data", "demo", "tags", "functions", "tick.json"))
	assert.NotContains(t, got, packFile("b", "data", "demo", "tags", "blocks", "weird.json"))
	assert.Contains(t, got, packFile("a", "data", "demo", "tags", "blocks", "logs.json"))
}

func TestWorkspace_ReloadRemovesDatapack(t *testing.T) {
	w := mcdata.New(testGlobal())
	world := testWorld()
	root, err := w.AddRoot(context.Background(), world, worldPath)
	require.NoError(t, err)

	for name := range world {
		if strings.HasPrefix(name, "datapacks/b/") {
			delete(world, name)
		}
	}

	root, err = w.AddRoot(context.Background(), world, worldPath)
	require.NoError(t, err)
	assert.Len(t, root.Datapacks, 1)

	more, _, err := w.Tag(datapack.BlockTags, id.New("demo:more"), root.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"minecraft:birch_log"}, names(more.Results))
	assert.NotContains(t, diagnosticKinds(w), packFile("b", "data", "demo", "tags", "blocks", "weird.json"))
}

func TestWorkspace_ScopeIsolation(t *testing.T) {
	w := mcdata.New(testGlobal())
	first, err := w.AddRoot(context.Background(), testWorld(), worldPath)
	require.NoError(t, err)

	other := fstest.MapFS{
		"data/demo/tags/blocks/more.json": file(`{"values": ["oak_log"]}`),
	}
	second, err := w.AddRoot(context.Background(), other, "/packs/other")
	require.NoError(t, err)
	assert.Equal(t, datapack.Pack, second.Kind)
	assert.NotEqual(t, first.ID, second.ID)

	more, _, err := w.Tag(datapack.BlockTags, id.New("demo:more"), second.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"minecraft:oak_log"}, names(more.Results))

	_, ok, err := w.Tag(datapack.BlockTags, id.New("demo:loop_a"), second.ID)
	require.NoError(t, err)
	assert.False(t, ok)

	values, err := w.Values(datapack.BlockTags, id.New("demo:more"), first.ID)
	require.NoError(t, err)
	assert.Len(t, values.Locals, 2)
	assert.False(t, values.HasGlobal)

	keys, err := w.Tags(datapack.BlockTags, second.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"demo:more", "minecraft:logs"}, names(keys))
}

func TestWorkspace_RemoveRoot(t *testing.T) {
	w := mcdata.New(testGlobal())
	root, err := w.AddRoot(context.Background(), testWorld(), worldPath)
	require.NoError(t, err)
	require.NotEmpty(t, w.Diagnostics())

	assert.True(t, w.RemoveRoot(root.ID))
	assert.False(t, w.RemoveRoot(root.ID))
	assert.Empty(t, w.Diagnostics())
	assert.Empty(t, w.Roots())

	_, _, err = w.Tag(datapack.BlockTags, id.New("demo:logs"), root.ID)
	assert.ErrorIs(t, err, mcdata.ErrUnknownRoot)
	_, err = w.ReloadRoot(context.Background(), testWorld(), root.ID)
	assert.ErrorIs(t, err, mcdata.ErrUnknownRoot)
}

func TestWorkspace_Errors(t *testing.T) {
	w := mcdata.New(nil)

	_, err := w.AddRoot(context.Background(), fstest.MapFS{}, "/empty")
	assert.ErrorIs(t, err, mcdata.ErrUndetectedRoot)

	_, _, err = w.Tag(datapack.Functions, id.New("demo:main"), 0)
	assert.ErrorIs(t, err, mcdata.ErrNotATagKind)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = w.AddRoot(ctx, testWorld(), worldPath)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWorkspace_FunctionsRoot(t *testing.T) {
	w := mcdata.New(nil)
	fns := fstest.MapFS{
		"functions/load.mcfunction":      file(`say load`),
		"functions/util/tp.mcfunction":   file(`tp @s ~ ~1 ~`),
		"functions/notes.mcfunction.txt": file(`oops`),
	}
	root, err := w.AddRoot(context.Background(), fns, "/src/demo")
	require.NoError(t, err)
	assert.Equal(t, datapack.FunctionsRoot, root.Kind)

	got := diagnosticKinds(w)
	assert.Equal(t, []report.Kind{report.WrongExtension}, got[filepath.Join("/src/demo", "functions", "notes.mcfunction.txt")])
}

func TestRunner_Run(t *testing.T) {
	w := mcdata.New(testGlobal())
	_, err := w.AddRoot(context.Background(), testWorld(), worldPath)
	require.NoError(t, err)

	var out strings.Builder
	r := mcdata.NewRunner()
	r.Output = &out
	n, err := r.Run(w)
	require.NoError(t, err)
	assert.Equal(t, 6, n)
	assert.Contains(t, out.String(), "# mcdata lint")
	assert.Contains(t, out.String(), "**LOOPING_TAG**")

	_, err = mcdata.NewRunner().Run(w)
	assert.Error(t, err)
}
