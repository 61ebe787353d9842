package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/agent-recall/internal/model"
)

func backdate(t *testing.T, s *SQLiteStore, id, stamp string) {
	t.Helper()
	_, err := s.db.Exec(`UPDATE memories SET created_at = ?, last_accessed = ? WHERE id = ?`, stamp, stamp, id)
	require.NoError(t, err)
}

func backdateDays(t *testing.T, s *SQLiteStore, id string, days int) {
	t.Helper()
	backdate(t, s, id, time.Now().UTC().AddDate(0, 0, -days).Format(time.RFC3339))
}

func TestConsolidate_PrunesStale(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	stale, err := s.Remember(ctx, RememberParams{Content: "an old irrelevant fact"})
	require.NoError(t, err)
	fresh, err := s.Remember(ctx, RememberParams{Content: "a fresh fact"})
	require.NoError(t, err)
	backdate(t, s, stale, "2020-01-01T00:00:00Z")

	pruned, err := s.Consolidate(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, pruned)

	_, err = s.Get(ctx, stale)
	assert.True(t, errors.Is(err, ErrNotFound), "stale memory should be gone")
	_, err = s.Get(ctx, fresh)
	assert.NoError(t, err, "fresh memory should survive")
}

func TestConsolidate_LongTermExempt(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	keeper, err := s.Remember(ctx, RememberParams{Content: "an old but vital fact", Importance: 9})
	require.NoError(t, err)
	backdate(t, s, keeper, "2020-01-01T00:00:00Z")

	pruned, err := s.Consolidate(ctx, 1)
	require.NoError(t, err)
	assert.Zero(t, pruned)

	_, err = s.Get(ctx, keeper)
	assert.NoError(t, err, "long-term memory is permanently exempt")
}

func TestConsolidate_SupersededPrunedEvenIfAccessed(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	old, err := s.Remember(ctx, RememberParams{Content: "old host name"})
	require.NoError(t, err)
	_, err = s.Remember(ctx, RememberParams{Content: "new host name", RelationTo: old, RelationType: model.RelUpdates})
	require.NoError(t, err)

	// Old enough to be a candidate, but keep last_accessed current:
	// the superseded branch of the condition still catches it.
	_, err = s.db.Exec(`UPDATE memories SET created_at = '2020-01-01T00:00:00Z' WHERE id = ?`, old)
	require.NoError(t, err)

	pruned, err := s.Consolidate(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, 1, pruned)

	_, err = s.Get(ctx, old)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestConsolidate_RecentCreationProtects(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	// Superseded immediately, but created inside the window: the
	// created_at guard keeps it around for now.
	old, err := s.Remember(ctx, RememberParams{Content: "short-lived draft"})
	require.NoError(t, err)
	_, err = s.Remember(ctx, RememberParams{Content: "final version", RelationTo: old, RelationType: model.RelUpdates})
	require.NoError(t, err)

	pruned, err := s.Consolidate(ctx, 7)
	require.NoError(t, err)
	assert.Zero(t, pruned)
}

func TestConsolidate_RemovesLinks(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	stale, err := s.Remember(ctx, RememberParams{Content: "stale base"})
	require.NoError(t, err)
	other, err := s.Remember(ctx, RememberParams{Content: "extends the stale base", RelationTo: stale, RelationType: model.RelExtends})
	require.NoError(t, err)
	backdate(t, s, stale, "2020-01-01T00:00:00Z")

	pruned, err := s.Consolidate(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, 1, pruned)

	links, err := s.ListRelationships(ctx, other)
	require.NoError(t, err)
	assert.Empty(t, links, "links touching a pruned memory go with it")
}

func TestConsolidate_DefaultTTL(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	edge, err := s.Remember(ctx, RememberParams{Content: "five days old"})
	require.NoError(t, err)
	// Five days back: inside the default seven-day window
	backdateDays(t, s, edge, 5)

	pruned, err := s.Consolidate(ctx, 0)
	require.NoError(t, err)
	assert.Zero(t, pruned, "default TTL is seven days")

	backdateDays(t, s, edge, 10)
	pruned, err = s.Consolidate(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, pruned)
}
