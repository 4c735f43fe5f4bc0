package vanilla_test

import (
	"io"
	"log/slog"
	"testing"
	"testing/fstest"

	"github.com/aretw0/mcdata/pkg/datapack"
	"github.com/aretw0/mcdata/pkg/id"
	"github.com/aretw0/mcdata/pkg/vanilla"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var nop = slog.New(slog.NewTextHandler(io.Discard, nil))

func generated() fstest.MapFS {
	return fstest.MapFS{
		"reports/blocks.json": {Data: []byte(`{
			"minecraft:stone": {},
			"minecraft:oak_log": {"properties": {"axis": ["x", "y", "z"]}}
		}`)},
		"reports/registries.json": {Data: []byte(`{
			"minecraft:item": {"entries": {"minecraft:stick": {"protocol_id": 1}}},
			"minecraft:fluid": {"entries": {"minecraft:water": {"protocol_id": 0}}},
			"minecraft:broken": {}
		}`)},
		"reports/commands.json": {Data: []byte(`{
			"type": "root",
			"children": {"say": {"type": "literal", "children": {"message": {"type": "argument", "parser": "minecraft:message", "executable": true}}}}
		}`)},
		"data/minecraft/tags/blocks/logs.json": {Data: []byte(`{"values": ["oak_log"]}`)},
	}
}

func TestLoad(t *testing.T) {
	g, err := vanilla.Load(generated(), "1.16", nop)
	require.NoError(t, err)

	assert.Equal(t, "1.16", g.Version)
	assert.True(t, g.HasBlock(id.New("stone")))
	assert.False(t, g.HasBlock(id.New("dirt")))
	props, ok := g.Blocks.Get(id.New("oak_log"))
	require.True(t, ok)
	assert.Equal(t, []string{"x", "y", "z"}, props["axis"])

	assert.True(t, g.InRegistry(vanilla.RegistryItem, id.New("stick")))
	assert.False(t, g.InRegistry(vanilla.RegistryEntityType, id.New("pig")))
	assert.Equal(t, []string{"minecraft:fluid", "minecraft:item"}, g.RegistryNames())

	require.NotNil(t, g.Commands)
	msg := g.Commands.Children["say"].Children["message"]
	assert.Equal(t, "minecraft:message", msg.Parser)
	assert.True(t, msg.Executable)

	assert.True(t, g.Resources.Has(datapack.BlockTags, id.New("logs")))
}

func TestLoad_MissingReports(t *testing.T) {
	fsys := generated()
	delete(fsys, "reports/commands.json")
	g, err := vanilla.Load(fsys, "", nop)
	require.NoError(t, err)
	assert.Nil(t, g.Commands)

	delete(fsys, "reports/blocks.json")
	_, err = vanilla.Load(fsys, "", nop)
	assert.ErrorIs(t, err, vanilla.ErrMissingReport)
}

func TestLoad_InvalidReport(t *testing.T) {
	fsys := generated()
	fsys["reports/registries.json"] = &fstest.MapFile{Data: []byte(`{`)}
	_, err := vanilla.Load(fsys, "", nop)
	require.Error(t, err)
	assert.NotErrorIs(t, err, vanilla.ErrMissingReport)
}

func TestEmpty(t *testing.T) {
	g := vanilla.Empty()
	assert.False(t, g.HasBlock(id.New("stone")))
	assert.Empty(t, g.RegistryNames())
}
