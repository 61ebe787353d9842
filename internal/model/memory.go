// Package model defines the core memory data types.
package model

import "time"

// Relation types with engine-level meaning. The column is an open
// string and anything is stored, but only RelUpdates has a side
// effect (it supersedes its target).
const (
	RelUpdates = "updates"
	RelExtends = "extends"
	RelDerives = "derives"
)

// Memory types written by the engine itself. The column is open-ended.
const (
	TypeFact      = "fact"
	TypeReasoning = "reasoning"
	TypeSummary   = "summary"
)

// Memory represents a single remembered fact.
type Memory struct {
	ID           string    `json:"id"`
	Content      string    `json:"content"`
	Citation     string    `json:"citation,omitempty"`
	Metadata     string    `json:"metadata,omitempty"` // JSON blob as stored
	Type         string    `json:"type"`
	SessionID    string    `json:"session_id,omitempty"`
	AccessCount  int       `json:"access_count"`
	Importance   float64   `json:"importance"`
	IsLongTerm   bool      `json:"is_long_term"`
	IsLatest     bool      `json:"is_latest"`
	CreatedAt    time.Time `json:"created_at"`
	LastAccessed time.Time `json:"last_accessed"`
}

// Link represents a directed relation between two memory ids. Targets
// are not validated; a link may outlive the memory it points at.
type Link struct {
	SourceID     string `json:"source_id"`
	TargetID     string `json:"target_id"`
	RelationType string `json:"relation_type"`
	CreatedAt    string `json:"created_at"`
}
