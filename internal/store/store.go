// Package store provides the memory storage interface and SQLite implementation.
package store

import (
	"context"

	"github.com/rcliao/agent-recall/internal/model"
)

// Lifecycle thresholds.
const (
	// longTermImportance is the importance at or above which a memory
	// is long-term from the moment it is created.
	longTermImportance = 5.0

	// promoteAccessCount is the number of recalls after which a
	// memory is promoted to long-term.
	promoteAccessCount = 3

	// defaultTTLDays is the consolidation window when none is given.
	defaultTTLDays = 7

	// recallLimit caps how many memories a single recall returns.
	recallLimit = 5

	// stageLimit caps the candidates each cascade stage may produce.
	stageLimit = 20
)

// RememberParams holds parameters for ingesting a memory.
type RememberParams struct {
	Content      string
	Citation     string
	Metadata     map[string]any
	Importance   float64 // zero means the 1.0 default
	RelationTo   string
	RelationType string
	SessionID    string
	Type         string // default "fact"
}

// ListParams filters a store listing.
type ListParams struct {
	Type       string
	SessionID  string
	LatestOnly bool
	Limit      int
}

// RecallResult is a memory enriched for return to the caller: ranking
// score, outgoing links, and decoded metadata.
type RecallResult struct {
	model.Memory
	Score    float64        `json:"score"`
	Links    []model.Link   `json:"links"`
	Metadata model.Metadata `json:"metadata"`
}

// Store defines the memory engine interface.
type Store interface {
	// Remember ingests a new memory, optionally linking it to an
	// existing one. Returns the new memory id.
	Remember(ctx context.Context, p RememberParams) (string, error)

	// Recall returns up to five memories ranked for the query,
	// updating access counters on everything it returns.
	Recall(ctx context.Context, query, sessionID string) ([]RecallResult, error)

	// SummarizeSession writes a summary memory deriving from every
	// non-summary memory in the session. Returns the summary id.
	SummarizeSession(ctx context.Context, sessionID, summary string) (string, error)

	// Consolidate prunes stale short-term memories older than the
	// TTL. Returns the number pruned.
	Consolidate(ctx context.Context, ttlDays int) (int, error)

	// ListRelationships returns every link touching the given id.
	ListRelationships(ctx context.Context, memoryID string) ([]model.Link, error)

	// Get retrieves a memory by id.
	Get(ctx context.Context, id string) (*model.Memory, error)

	// Close closes the store.
	Close() error
}
