package id

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		namespace string
		path      string
	}{
		{"bare path", "stone", "", "stone"},
		{"namespaced", "minecraft:stone", "minecraft", "stone"},
		{"custom namespace", "pack:tags/ores", "pack", "tags/ores"},
		{"leading separator", ":stone", "", "stone"},
		{"only first separator splits", "a:b:c", "a", "b:c"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := New(tt.input)
			assert.Equal(t, tt.namespace, got.Namespace)
			assert.Equal(t, tt.path, got.Path)
		})
	}
}

func TestParse_CustomSeparator(t *testing.T) {
	got := Parse("minecraft.stone", ".")
	assert.Equal(t, NewIn("minecraft", "stone"), got)
}

func TestEqual_DefaultNamespace(t *testing.T) {
	assert.True(t, New("stone").Equal(New("minecraft:stone")))
	assert.True(t, NewIn("minecraft", "stone").Equal(New("stone")))
	assert.False(t, New("dirt").Equal(New("minecraft:stone")))
	assert.False(t, New("minecraft:stone").Equal(New("other:stone")))
	assert.True(t, New("other:stone").SameNamespace(New("other:dirt")))
}

func TestString(t *testing.T) {
	assert.Equal(t, "minecraft:stone", New("stone").String())
	assert.Equal(t, "pack:x", New("pack:x").String())
	assert.Equal(t, New("minecraft:stone"), New("stone").Canonical())
}

func TestValidate(t *testing.T) {
	require.NoError(t, New("minecraft:tags/blocks.v1-a_b").Validate())
	assert.ErrorIs(t, New("Minecraft:stone").Validate(), ErrInvalidSegment)
	assert.ErrorIs(t, New("minecraft:Stone").Validate(), ErrInvalidSegment)
}

func TestTextRoundTrip(t *testing.T) {
	var got ID
	require.NoError(t, got.UnmarshalText([]byte("pack:logs")))
	text, err := got.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "pack:logs", string(text))
}
