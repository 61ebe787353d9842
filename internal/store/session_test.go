package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rcliao/agent-recall/internal/model"
)

func TestSummarizeSession(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.Remember(ctx, RememberParams{Content: "Fact 1", SessionID: "session-sum"})
	require.NoError(t, err)
	_, err = s.Remember(ctx, RememberParams{Content: "Fact 2", SessionID: "session-sum"})
	require.NoError(t, err)

	sid, err := s.SummarizeSession(ctx, "session-sum", "Integrated summary")
	require.NoError(t, err)

	results, err := s.Recall(ctx, "Integrated", "session-sum")
	require.NoError(t, err)
	require.NotEmpty(t, results)
	assert.Equal(t, sid, results[0].ID)
	assert.Equal(t, model.TypeSummary, results[0].Type)

	links, err := s.ListRelationships(ctx, sid)
	require.NoError(t, err)
	require.Len(t, links, 2)
	for _, l := range links {
		assert.Equal(t, sid, l.SourceID)
		assert.Equal(t, model.RelDerives, l.RelationType)
	}
}

func TestSummarizeSessionIsLongTerm(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.Remember(ctx, RememberParams{Content: "Fact", SessionID: "s"})
	sid, err := s.SummarizeSession(ctx, "s", "Summary of s")
	require.NoError(t, err)

	m, err := s.Get(ctx, sid)
	require.NoError(t, err)
	assert.True(t, m.IsLongTerm, "summaries are long-term from creation")
	assert.Equal(t, 5.0, m.Importance)
	assert.Equal(t, "s", m.SessionID)
}

func TestSummarizeSessionSkipsOtherSummaries(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.Remember(ctx, RememberParams{Content: "Fact A", SessionID: "s"})
	_, err := s.SummarizeSession(ctx, "s", "First summary")
	require.NoError(t, err)

	s.Remember(ctx, RememberParams{Content: "Fact B", SessionID: "s"})
	sid2, err := s.SummarizeSession(ctx, "s", "Second summary")
	require.NoError(t, err)

	// The second summary derives from the two facts, never from the
	// first summary.
	links, err := s.ListRelationships(ctx, sid2)
	require.NoError(t, err)
	require.Len(t, links, 2)
	for _, l := range links {
		target, err := s.Get(ctx, l.TargetID)
		require.NoError(t, err)
		assert.NotEqual(t, model.TypeSummary, target.Type)
	}
}

func TestSummarizeEmptySession(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	// A session with no members still gets its summary, just no links
	sid, err := s.SummarizeSession(ctx, "empty", "Summary of nothing")
	require.NoError(t, err)

	links, err := s.ListRelationships(ctx, sid)
	require.NoError(t, err)
	assert.Empty(t, links)
}

func TestSummarizeValidation(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	_, err := s.SummarizeSession(ctx, "", "content")
	assert.Error(t, err)

	_, err = s.SummarizeSession(ctx, "s", "   ")
	assert.ErrorIs(t, err, ErrEmptyContent)
}

func TestSessions(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	s.Remember(ctx, RememberParams{Content: "a", SessionID: "busy"})
	s.Remember(ctx, RememberParams{Content: "b", SessionID: "busy"})
	s.Remember(ctx, RememberParams{Content: "c", SessionID: "quiet"})
	s.Remember(ctx, RememberParams{Content: "no session"})
	_, err := s.SummarizeSession(ctx, "busy", "busy summary")
	require.NoError(t, err)

	sessions, err := s.Sessions(ctx)
	require.NoError(t, err)
	require.Len(t, sessions, 2)
	assert.Equal(t, "busy", sessions[0].SessionID)
	assert.Equal(t, 3, sessions[0].Memories)
	assert.Equal(t, 1, sessions[0].Summaries)
	assert.Equal(t, "quiet", sessions[1].SessionID)
	assert.Equal(t, 0, sessions[1].Summaries)
}
