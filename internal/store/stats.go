package store

import (
	"context"
	"os"
)

// Stats holds store statistics.
type Stats struct {
	DBPath        string `json:"db_path,omitempty"`
	DBSizeBytes   int64  `json:"db_size_bytes,omitempty"`
	TotalMemories int    `json:"total_memories"`
	LongTerm      int    `json:"long_term"`
	Superseded    int    `json:"superseded"`
	TotalLinks    int    `json:"total_links"`
	Sessions      int    `json:"sessions"`
}

// Stats returns store statistics.
func (s *SQLiteStore) Stats(ctx context.Context, dbPath string) (*Stats, error) {
	st := &Stats{DBPath: dbPath}

	// DB file size
	if info, err := os.Stat(dbPath); err == nil {
		st.DBSizeBytes = info.Size()
	}

	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM memories`).Scan(&st.TotalMemories)
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM memories WHERE is_long_term = 1`).Scan(&st.LongTerm)
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM memories WHERE is_latest = 0`).Scan(&st.Superseded)
	s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM links`).Scan(&st.TotalLinks)
	s.db.QueryRowContext(ctx, `SELECT COUNT(DISTINCT session_id) FROM memories
		WHERE session_id IS NOT NULL AND session_id != ''`).Scan(&st.Sessions)

	return st, nil
}
