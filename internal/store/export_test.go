package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/agent-recall/internal/model"
)

func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	src := newTestStore(t)

	id1, err := src.Remember(ctx, RememberParams{Content: "alpha", Importance: 6, SessionID: "s"})
	require.NoError(t, err)
	id2, err := src.Remember(ctx, RememberParams{Content: "beta", RelationTo: id1, RelationType: model.RelUpdates})
	require.NoError(t, err)

	// Build up some access history so counters are non-trivial
	_, err = src.Recall(ctx, "beta", "")
	require.NoError(t, err)

	ex, err := src.ExportAll(ctx)
	require.NoError(t, err)
	require.Len(t, ex.Memories, 2)
	require.Len(t, ex.Links, 1)

	dst := newTestStore(t)
	n, err := dst.Import(ctx, ex)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// Ids, flags, and counters survive the transfer
	m1, err := dst.Get(ctx, id1)
	require.NoError(t, err)
	assert.True(t, m1.IsLongTerm)
	assert.False(t, m1.IsLatest)

	m2, err := dst.Get(ctx, id2)
	require.NoError(t, err)
	assert.Equal(t, 1, m2.AccessCount)

	links, err := dst.ListRelationships(ctx, id1)
	require.NoError(t, err)
	require.Len(t, links, 1)
	assert.Equal(t, model.RelUpdates, links[0].RelationType)
}

func TestImportSkipsExisting(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.Remember(ctx, RememberParams{Content: "already here"})
	require.NoError(t, err)

	ex, err := s.ExportAll(ctx)
	require.NoError(t, err)

	n, err := s.Import(ctx, ex)
	require.NoError(t, err)
	assert.Zero(t, n, "re-importing the same dump is a no-op")
}

func TestImportedRowsAreSearchable(t *testing.T) {
	ctx := context.Background()
	src := newTestStore(t)

	_, err := src.Remember(ctx, RememberParams{Content: "searchable after transfer"})
	require.NoError(t, err)

	ex, err := src.ExportAll(ctx)
	require.NoError(t, err)

	dst := newTestStore(t)
	_, err = dst.Import(ctx, ex)
	require.NoError(t, err)

	results, err := dst.Search(ctx, "transfer", 10)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}
