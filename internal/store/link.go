package store

import (
	"context"
	"time"

	"github.com/rcliao/agent-recall/internal/model"
)

const selectLinks = `SELECT source_id, target_id, relation_type, created_at FROM links`

// ListRelationships returns every link where the id is source or
// target. Pure read; dangling references come back exactly as stored.
func (s *SQLiteStore) ListRelationships(ctx context.Context, memoryID string) (links []model.Link, err error) {
	start := time.Now()
	defer func() { s.observe(ctx, "list_relationships", start, err) }()

	return s.queryLinks(ctx, selectLinks+` WHERE source_id = ? OR target_id = ?`, memoryID, memoryID)
}

// linksFrom returns the outgoing links for a memory.
func (s *SQLiteStore) linksFrom(ctx context.Context, memoryID string) ([]model.Link, error) {
	return s.queryLinks(ctx, selectLinks+` WHERE source_id = ?`, memoryID)
}

func (s *SQLiteStore) queryLinks(ctx context.Context, query string, args ...interface{}) ([]model.Link, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	links := []model.Link{}
	for rows.Next() {
		var l model.Link
		if err := rows.Scan(&l.SourceID, &l.TargetID, &l.RelationType, &l.CreatedAt); err != nil {
			return nil, err
		}
		links = append(links, l)
	}
	return links, rows.Err()
}
