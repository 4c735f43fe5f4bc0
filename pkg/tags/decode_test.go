package tags_test

import (
	"testing"

	"github.com/aretw0/mcdata/pkg/id"
	"github.com/aretw0/mcdata/pkg/tags"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tag, err := tags.Parse([]byte(`{
		"replace": true,
		"values": [
			"stone",
			"#ns:logs",
			{"id": "#ns:optional", "required": false},
			{"id": "mod:thing"},
			42,
			{"required": true}
		]
	}`))
	require.NoError(t, err)
	assert.True(t, tag.Replace)
	assert.Equal(t, []tags.Ref{
		{ID: id.New("stone"), Required: true},
		{Tag: true, ID: id.New("ns:logs"), Required: true},
		{Tag: true, ID: id.New("ns:optional"), Required: false},
		{ID: id.New("mod:thing"), Required: true},
	}, tag.Values)
	assert.Equal(t, []id.ID{id.New("stone"), id.New("mod:thing")}, tag.Members())
}

func TestParse_MissingValues(t *testing.T) {
	tag, err := tags.Parse([]byte(`{}`))
	require.NoError(t, err)
	assert.False(t, tag.Replace)
	assert.Empty(t, tag.Values)
}

func TestParse_InvalidJSON(t *testing.T) {
	_, err := tags.Parse([]byte(`{"values": [`))
	assert.Error(t, err)
}

func TestDecode_WrongShape(t *testing.T) {
	_, err := tags.Decode(map[string]any{"replace": map[string]any{"x": 1}})
	assert.ErrorIs(t, err, tags.ErrInvalidTag)
}

func TestRef_String(t *testing.T) {
	assert.Equal(t, "#minecraft:logs", tags.ParseRef("#logs").String())
	assert.Equal(t, "ns:a", tags.ParseRef("ns:a").String())
}
