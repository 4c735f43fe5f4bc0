package ports

import (
	"context"
	"testing"

	"github.com/aretw0/mcdata/pkg/id"
	"github.com/aretw0/mcdata/pkg/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunDiagnosticStoreContract runs a suite of tests to verify that a DiagnosticStore
// implementation adheres to the defined interface contract. The store must be empty.
func RunDiagnosticStoreContract(t *testing.T, store DiagnosticStore) {
	ctx := context.Background()
	const fileA = "world/datapacks/pack/data/ns/tags/blocks/a.json"
	const fileB = "world/datapacks/pack/data/ns/tags/blocks/b.json"

	t.Run("Add and List", func(t *testing.T) {
		store.AddError(fileB, report.Diagnostic{Kind: report.InvalidJSON, Message: "unexpected end of JSON input"})
		store.AddError(fileA, report.Diagnostic{
			Kind:     report.LoopingTag,
			IDs:      []id.ID{id.New("ns:b")},
			Resource: "block_tags",
		})
		store.AddError(fileA, report.Diagnostic{
			Kind:     report.InvalidTagMembers,
			IDs:      []id.ID{id.New("not_a_block")},
			Resource: "block_tags",
		})

		entries, err := store.List(ctx)
		require.NoError(t, err, "List should not return error")
		require.Len(t, entries, 3)

		assert.Equal(t, fileA, entries[0].File)
		assert.Equal(t, report.InvalidTagMembers, entries[0].Kind)
		assert.Equal(t, fileA, entries[1].File)
		assert.Equal(t, report.LoopingTag, entries[1].Kind)
		assert.Equal(t, []id.ID{id.New("ns:b")}, entries[1].IDs)
		assert.Equal(t, "block_tags", entries[1].Resource)
		assert.Equal(t, fileB, entries[2].File)
		assert.Equal(t, "unexpected end of JSON input", entries[2].Message)
	})

	t.Run("Add Replaces Same Kind", func(t *testing.T) {
		store.AddError(fileA, report.Diagnostic{
			Kind:     report.LoopingTag,
			IDs:      []id.ID{id.New("ns:c")},
			Resource: "block_tags",
		})

		entries, err := store.List(ctx)
		require.NoError(t, err)
		require.Len(t, entries, 3)
		assert.Equal(t, []id.ID{id.New("ns:c")}, entries[1].IDs)
	})

	t.Run("Remove", func(t *testing.T) {
		store.RemoveError(fileA, report.LoopingTag)
		store.RemoveError(fileA, report.WrongExtension)
		store.RemoveError("never-reported.json", report.InvalidJSON)

		entries, err := store.List(ctx)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, report.InvalidTagMembers, entries[0].Kind)
		assert.Equal(t, fileB, entries[1].File)
	})

	t.Run("Reset", func(t *testing.T) {
		require.NoError(t, store.Reset(ctx), "Reset should not return error")

		entries, err := store.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}
