package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rcliao/agent-recall/internal/model"
)

// Remember ingests a new memory and optionally links it to an existing
// one. The insert, the link, and the supersession flip land in a
// single transaction.
func (s *SQLiteStore) Remember(ctx context.Context, p RememberParams) (id string, err error) {
	start := time.Now()
	defer func() { s.observe(ctx, "remember", start, err) }()

	if strings.TrimSpace(p.Content) == "" {
		return "", ErrEmptyContent
	}
	if (p.RelationTo == "") != (p.RelationType == "") {
		return "", ErrInvalidLink
	}

	memType := p.Type
	if memType == "" {
		memType = model.TypeFact
	}
	importance := p.Importance
	if importance == 0 {
		importance = 1.0
	}

	metaJSON := "{}"
	if p.Metadata != nil {
		b, err := json.Marshal(p.Metadata)
		if err != nil {
			return "", fmt.Errorf("encode metadata: %w", err)
		}
		metaJSON = string(b)
	}

	id = s.newID()
	now := time.Now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", err
	}
	defer tx.Rollback()

	err = insertMemory(ctx, tx, &model.Memory{
		ID:           id,
		Content:      p.Content,
		Citation:     p.Citation,
		Metadata:     metaJSON,
		Type:         memType,
		SessionID:    p.SessionID,
		Importance:   importance,
		IsLongTerm:   importance >= longTermImportance,
		IsLatest:     true,
		CreatedAt:    now,
		LastAccessed: now,
	})
	if err != nil {
		return "", fmt.Errorf("insert memory: %w", err)
	}

	if p.RelationTo != "" {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO links (source_id, target_id, relation_type, created_at) VALUES (?, ?, ?, ?)`,
			id, p.RelationTo, p.RelationType, now.Format(time.RFC3339))
		if err != nil {
			return "", fmt.Errorf("insert link: %w", err)
		}
		if p.RelationType == model.RelUpdates {
			// Supersede the target, one hop only. A missing target is
			// a no-op; the flip never walks along update chains.
			_, err = tx.ExecContext(ctx,
				`UPDATE memories SET is_latest = 0 WHERE id = ?`, p.RelationTo)
			if err != nil {
				return "", fmt.Errorf("supersede target: %w", err)
			}
		}
	}

	if err = tx.Commit(); err != nil {
		return "", err
	}
	return id, nil
}
