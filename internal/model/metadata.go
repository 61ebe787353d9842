package model

import "encoding/json"

// Metadata is either a decoded key/value mapping or, when the stored
// blob is not valid JSON, the raw form passed through untouched.
type Metadata struct {
	Fields map[string]any `json:"-"`
	Raw    string         `json:"-"`
}

// DecodeMetadata parses a stored metadata blob. A malformed blob is
// not an error; it round-trips as the raw string.
func DecodeMetadata(raw string) Metadata {
	if raw == "" {
		return Metadata{Fields: map[string]any{}}
	}
	var fields map[string]any
	if err := json.Unmarshal([]byte(raw), &fields); err != nil || fields == nil {
		return Metadata{Raw: raw}
	}
	return Metadata{Fields: fields}
}

// Structured reports whether the blob decoded into a mapping.
func (m Metadata) Structured() bool { return m.Fields != nil }

// MarshalJSON emits the mapping when structured, the raw string otherwise.
func (m Metadata) MarshalJSON() ([]byte, error) {
	if m.Fields != nil {
		return json.Marshal(m.Fields)
	}
	return json.Marshal(m.Raw)
}
