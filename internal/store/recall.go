package store

import (
	"context"
	"sort"
	"time"

	"github.com/rcliao/agent-recall/internal/model"
)

// sessionBonus and latestBonus weight the ranking alongside raw
// importance, which is unbounded: a sufficiently important stale
// memory can outrank a trivial latest one.
const (
	sessionBonus = 10.0
	latestBonus  = 5.0
)

func scoreMemory(m model.Memory, sessionID string) float64 {
	score := m.Importance
	if m.IsLatest {
		score += latestBonus
	}
	if sessionID != "" && m.SessionID == sessionID {
		score += sessionBonus
	}
	return score
}

// Recall runs the retrieval cascade for the query, ranks the
// candidates, and returns the top results with access tracking
// applied. Not a pure read: every returned memory has its access
// count bumped and may be promoted to long-term.
func (s *SQLiteStore) Recall(ctx context.Context, query, sessionID string) (results []RecallResult, err error) {
	start := time.Now()
	defer func() { s.observe(ctx, "recall", start, err) }()

	cleaned := normalizeQuery(query)

	var candidates []model.Memory
	for _, stage := range cascade {
		candidates, err = stage(ctx, s, cleaned, stageLimit)
		if err != nil {
			return nil, err
		}
		if len(candidates) > 0 {
			break
		}
	}

	// Dedup by id, first seen wins
	seen := make(map[string]bool, len(candidates))
	unique := make([]model.Memory, 0, len(candidates))
	for _, m := range candidates {
		if seen[m.ID] {
			continue
		}
		seen[m.ID] = true
		unique = append(unique, m)
	}

	// Rank by score, stable so ties keep first-seen order
	sort.SliceStable(unique, func(i, j int) bool {
		return scoreMemory(unique[i], sessionID) > scoreMemory(unique[j], sessionID)
	})
	if len(unique) > recallLimit {
		unique = unique[:recallLimit]
	}

	now := time.Now().UTC()
	results = make([]RecallResult, 0, len(unique))
	for _, m := range unique {
		m.AccessCount++
		m.LastAccessed = now
		if m.AccessCount >= promoteAccessCount {
			m.IsLongTerm = true
		}

		// Row-level update outside the candidate snapshot; a row
		// evicted in between is a silent no-op.
		_, err = s.db.ExecContext(ctx,
			`UPDATE memories SET access_count = ?, last_accessed = ?, is_long_term = ? WHERE id = ?`,
			m.AccessCount, now.Format(time.RFC3339), boolInt(m.IsLongTerm), m.ID)
		if err != nil {
			return nil, err
		}

		var links []model.Link
		links, err = s.linksFrom(ctx, m.ID)
		if err != nil {
			return nil, err
		}

		results = append(results, RecallResult{
			Memory:   m,
			Score:    scoreMemory(m, sessionID),
			Links:    links,
			Metadata: model.DecodeMetadata(m.Metadata),
		})
	}

	return results, nil
}
