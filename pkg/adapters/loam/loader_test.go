package loam

import (
	"context"
	"testing"

	"github.com/aretw0/loam"
	"github.com/aretw0/mcdata/internal/testutils"
	"github.com/aretw0/mcdata/pkg/datapack"
	"github.com/aretw0/mcdata/pkg/id"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTagPath(t *testing.T) {
	tests := []struct {
		docID string
		want  TagPath
		ok    bool
	}{
		{"data/demo/tags/blocks/logs.json", TagPath{Kind: datapack.BlockTags, Key: id.New("demo:logs")}, true},
		{"datapacks/a/data/demo/tags/functions/sub/tick", TagPath{Pack: "a", Kind: datapack.FunctionTags, Key: id.New("demo:sub/tick")}, true},
		{"data/demo/tags/entities/mobs.json", TagPath{Kind: datapack.EntityTags, Key: id.New("demo:mobs")}, true},
		{"data/demo/recipes/stick.json", TagPath{}, false},
		{"data/demo/tags/unknown/x.json", TagPath{}, false},
		{"data/demo/tags/blocks", TagPath{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.docID, func(t *testing.T) {
			got, ok := ParseTagPath(tt.docID)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSource_ListTags(t *testing.T) {
	tmpDir, repo := testutils.SetupTestRepo(t)
	testutils.WriteFiles(t, tmpDir, map[string]string{
		"data/demo/tags/blocks/logs.json":  `{"values": ["oak_log", "#demo:more"]}`,
		"data/demo/tags/items/tools.json":  `{"replace": true, "values": [{"id": "demo:maybe", "required": false}]}`,
		"data/demo/advancements/root.json": `{"criteria": {}}`,
	})

	src := New(loam.NewTypedRepository[TagDocument](repo))
	entries, err := src.ListTags(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)

	byKind := make(map[datapack.Kind]TagEntry)
	for _, e := range entries {
		byKind[e.Kind] = e
	}
	logs := byKind[datapack.BlockTags]
	assert.Equal(t, "demo:logs", logs.Key.String())
	require.Len(t, logs.Tag.Values, 2)
	assert.True(t, logs.Tag.Values[1].Tag)

	tools := byKind[datapack.ItemTags]
	assert.True(t, tools.Tag.Replace)
	require.Len(t, tools.Tag.Values, 1)
	assert.False(t, tools.Tag.Values[0].Required)

	tag, err := src.Tag(context.Background(), "data/demo/tags/blocks/logs.json")
	require.NoError(t, err)
	assert.Equal(t, logs.Tag, tag)
}
