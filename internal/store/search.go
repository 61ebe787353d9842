package store

import (
	"context"
	"strings"
	"unicode"

	"github.com/rcliao/agent-recall/internal/model"
)

// searchStrategy is one stage of the recall cascade. Stages run in
// order; each runs only when every earlier stage came back empty.
type searchStrategy func(ctx context.Context, s *SQLiteStore, query string, limit int) ([]model.Memory, error)

// cascade is the fallback order: stemmed full-text, substring over
// the latest rows, substring over everything, per-token substring.
var cascade = []searchStrategy{
	searchFullText,
	searchSubstringLatest,
	searchSubstringAll,
	searchTokens,
}

// normalizeQuery strips everything but letters, digits, and
// whitespace, then collapses whitespace runs to single spaces.
func normalizeQuery(q string) string {
	var b strings.Builder
	for _, r := range q {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

// Search queries the stemmed full-text index over content and
// citation. It fails closed: an unavailable index or an unparseable
// query yields an empty result, never an error.
func (s *SQLiteStore) Search(ctx context.Context, text string, limit int) ([]model.Memory, error) {
	if limit <= 0 {
		limit = stageLimit
	}
	return searchFullText(ctx, s, normalizeQuery(text), limit)
}

func searchFullText(ctx context.Context, s *SQLiteStore, query string, limit int) ([]model.Memory, error) {
	if query == "" {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT m.id, m.content, m.citation, m.metadata, m.type, m.session_id,
		       m.access_count, m.importance, m.is_long_term, m.is_latest,
		       m.created_at, m.last_accessed
		FROM memories_fts f
		JOIN memories m ON m.rowid = f.rowid
		WHERE memories_fts MATCH ?
		ORDER BY f.rank
		LIMIT ?`, query, limit)
	if err != nil {
		// Fail closed: a bad match expression or a missing index is
		// not fatal, the cascade falls through to substring search.
		return nil, nil
	}
	defer rows.Close()

	memories, err := collectMemories(rows)
	if err != nil {
		return nil, nil
	}
	return memories, nil
}

func searchSubstringLatest(ctx context.Context, s *SQLiteStore, query string, limit int) ([]model.Memory, error) {
	return searchSubstring(ctx, s, query, limit, true)
}

func searchSubstringAll(ctx context.Context, s *SQLiteStore, query string, limit int) ([]model.Memory, error) {
	return searchSubstring(ctx, s, query, limit, false)
}

func searchSubstring(ctx context.Context, s *SQLiteStore, query string, limit int, latestOnly bool) ([]model.Memory, error) {
	if query == "" {
		return nil, nil
	}
	like := "%" + query + "%"
	q := selectMemory + ` WHERE (content LIKE ? OR citation LIKE ?)`
	if latestOnly {
		q += ` AND is_latest = 1`
	}
	q += ` LIMIT ?`

	rows, err := s.db.QueryContext(ctx, q, like, like, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMemories(rows)
}

// searchTokens is the last resort: any memory whose content contains
// any query token longer than two characters.
func searchTokens(ctx context.Context, s *SQLiteStore, query string, limit int) ([]model.Memory, error) {
	var conds []string
	var args []interface{}
	for _, tok := range strings.Fields(query) {
		if len(tok) <= 2 {
			continue
		}
		conds = append(conds, "content LIKE ?")
		args = append(args, "%"+tok+"%")
	}
	if len(conds) == 0 {
		return nil, nil
	}
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx,
		selectMemory+` WHERE `+strings.Join(conds, " OR ")+` LIMIT ?`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMemories(rows)
}
