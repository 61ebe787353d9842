package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rcliao/agent-recall/internal/model"
)

// SummarizeSession writes a summary memory for the session and links
// it to every non-summary member with a derives relation. The summary
// insert and the link fan-out land in one transaction.
func (s *SQLiteStore) SummarizeSession(ctx context.Context, sessionID, summary string) (id string, err error) {
	start := time.Now()
	defer func() { s.observe(ctx, "summarize_session", start, err) }()

	if sessionID == "" {
		return "", fmt.Errorf("session id is required")
	}
	if strings.TrimSpace(summary) == "" {
		return "", ErrEmptyContent
	}

	id = s.newID()
	now := time.Now().UTC()
	stamp := now.Format(time.RFC3339)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	err = insertMemory(ctx, tx, &model.Memory{
		ID:           id,
		Content:      summary,
		Metadata:     "{}",
		Type:         model.TypeSummary,
		SessionID:    sessionID,
		Importance:   longTermImportance,
		IsLongTerm:   true,
		IsLatest:     true,
		CreatedAt:    now,
		LastAccessed: now,
	})
	if err != nil {
		return "", fmt.Errorf("insert summary: %w", err)
	}

	rows, err := tx.QueryContext(ctx,
		`SELECT id FROM memories WHERE session_id = ? AND type != ?`,
		sessionID, model.TypeSummary)
	if err != nil {
		return "", err
	}
	var members []string
	for rows.Next() {
		var mid string
		if err = rows.Scan(&mid); err != nil {
			rows.Close()
			return "", err
		}
		members = append(members, mid)
	}
	rows.Close()
	if err = rows.Err(); err != nil {
		return "", err
	}

	for _, mid := range members {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO links (source_id, target_id, relation_type, created_at) VALUES (?, ?, ?, ?)`,
			id, mid, model.RelDerives, stamp)
		if err != nil {
			return "", fmt.Errorf("insert derives link: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return "", err
	}
	return id, nil
}

// SessionStats holds per-session counts.
type SessionStats struct {
	SessionID string `json:"session_id"`
	Memories  int    `json:"memories"`
	Summaries int    `json:"summaries"`
}

// Sessions lists the sessions present in the store, busiest first.
func (s *SQLiteStore) Sessions(ctx context.Context) ([]SessionStats, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT session_id, COUNT(*) AS cnt,
		       SUM(CASE WHEN type = ? THEN 1 ELSE 0 END)
		FROM memories
		WHERE session_id IS NOT NULL AND session_id != ''
		GROUP BY session_id ORDER BY cnt DESC`, model.TypeSummary)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []SessionStats
	for rows.Next() {
		var st SessionStats
		if err := rows.Scan(&st.SessionID, &st.Memories, &st.Summaries); err != nil {
			return nil, err
		}
		sessions = append(sessions, st)
	}
	return sessions, rows.Err()
}
