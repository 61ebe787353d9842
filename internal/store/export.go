package store

import (
	"context"
	"errors"

	"github.com/rcliao/agent-recall/internal/model"
)

// Export is a full dump of the store.
type Export struct {
	Memories []model.Memory `json:"memories"`
	Links    []model.Link   `json:"links"`
}

// ExportAll returns every memory and link for backup or transfer.
func (s *SQLiteStore) ExportAll(ctx context.Context) (*Export, error) {
	rows, err := s.db.QueryContext(ctx, selectMemory+` ORDER BY created_at, id`)
	if err != nil {
		return nil, err
	}
	memories, err := collectMemories(rows)
	rows.Close()
	if err != nil {
		return nil, err
	}

	links, err := s.queryLinks(ctx, selectLinks+` ORDER BY created_at`)
	if err != nil {
		return nil, err
	}

	return &Export{Memories: memories, Links: links}, nil
}

// Import restores an export. Ids, counters, and lifecycle flags are
// preserved so the restored store behaves identically; memories and
// links already present are skipped.
func (s *SQLiteStore) Import(ctx context.Context, ex *Export) (int, error) {
	imported := 0
	for i := range ex.Memories {
		err := s.Insert(ctx, &ex.Memories[i])
		if errors.Is(err, ErrDuplicateID) {
			continue
		}
		if err != nil {
			return imported, err
		}
		imported++
	}

	for _, l := range ex.Links {
		_, err := s.db.ExecContext(ctx,
			`INSERT OR IGNORE INTO links (source_id, target_id, relation_type, created_at) VALUES (?, ?, ?, ?)`,
			l.SourceID, l.TargetID, l.RelationType, l.CreatedAt)
		if err != nil {
			return imported, err
		}
	}

	return imported, nil
}
