package store

import (
	"context"
	"time"
)

// Consolidate prunes short-term memories whose TTL has lapsed. A
// memory is a candidate when it is not long-term, was created before
// the cutoff, and was either superseded or not accessed since the
// cutoff. Each candidate's links and row are deleted together; the
// sweep is the only destructive operation in the system.
func (s *SQLiteStore) Consolidate(ctx context.Context, ttlDays int) (pruned int, err error) {
	start := time.Now()
	defer func() { s.observe(ctx, "consolidate", start, err) }()

	if ttlDays <= 0 {
		ttlDays = defaultTTLDays
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -ttlDays).Format(time.RFC3339)

	rows, err := s.db.QueryContext(ctx, `
		SELECT id FROM memories
		WHERE is_long_term = 0
		  AND (last_accessed < ? OR is_latest = 0)
		  AND created_at < ?`, cutoff, cutoff)
	if err != nil {
		return 0, err
	}
	var stale []string
	for rows.Next() {
		var id string
		if err = rows.Scan(&id); err != nil {
			rows.Close()
			return 0, err
		}
		stale = append(stale, id)
	}
	rows.Close()
	if err = rows.Err(); err != nil {
		return 0, err
	}

	for _, id := range stale {
		if err = s.Delete(ctx, id); err != nil {
			return pruned, err
		}
		pruned++
	}

	var remaining int64
	if s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM memories`).Scan(&remaining) == nil {
		s.metrics.SetStorageCount(ctx, "memories", remaining)
	}

	return pruned, nil
}
