package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/rcliao/agent-recall/internal/metrics"
	"github.com/rcliao/agent-recall/internal/model"
)

// Ephemeral is the path for a non-durable store. Behavior matches
// durable mode except nothing survives Close.
const Ephemeral = ":memory:"

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db      *sql.DB
	entropy *rand.Rand
	metrics metrics.Collector
}

// Option configures a SQLiteStore.
type Option func(*SQLiteStore)

// WithCollector attaches a metrics collector. Default is a no-op.
func WithCollector(c metrics.Collector) Option {
	return func(s *SQLiteStore) { s.metrics = c }
}

// NewSQLiteStore opens or creates a SQLite database at the given path.
// Pass Ephemeral for an in-memory store.
func NewSQLiteStore(dbPath string, opts ...Option) (*SQLiteStore, error) {
	dsn := dbPath
	if dbPath != Ephemeral {
		dir := filepath.Dir(dbPath)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
		dsn = dbPath + "?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// One connection serializes all callers at the store boundary and
	// keeps the ephemeral mode on a single database.
	db.SetMaxOpenConns(1)

	s := &SQLiteStore{
		db:      db,
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
		metrics: metrics.Noop{},
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) newID() string {
	return ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS memories (
		id            TEXT PRIMARY KEY,
		content       TEXT NOT NULL,
		citation      TEXT,
		metadata      TEXT NOT NULL DEFAULT '{}',
		type          TEXT NOT NULL DEFAULT 'fact',
		session_id    TEXT,
		access_count  INTEGER NOT NULL DEFAULT 0,
		importance    REAL NOT NULL DEFAULT 1.0,
		is_long_term  INTEGER NOT NULL DEFAULT 0,
		is_latest     INTEGER NOT NULL DEFAULT 1,
		created_at    TEXT NOT NULL,
		last_accessed TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_memories_session ON memories(session_id);
	CREATE INDEX IF NOT EXISTS idx_memories_lifecycle ON memories(is_long_term, last_accessed);
	CREATE INDEX IF NOT EXISTS idx_memories_created ON memories(created_at DESC);

	CREATE TABLE IF NOT EXISTS links (
		source_id     TEXT NOT NULL,
		target_id     TEXT NOT NULL,
		relation_type TEXT NOT NULL,
		created_at    TEXT NOT NULL,
		PRIMARY KEY (source_id, target_id, relation_type)
	);
	CREATE INDEX IF NOT EXISTS idx_links_target ON links(target_id);

	CREATE VIRTUAL TABLE IF NOT EXISTS memories_fts USING fts5(
		content,
		citation,
		content=memories,
		content_rowid=rowid,
		tokenize='porter unicode61'
	);
	`
	_, err := s.db.Exec(schema)
	if err != nil {
		return err
	}

	// Columns added after the first release (upgrade from older schema)
	s.db.Exec(`ALTER TABLE memories ADD COLUMN session_id TEXT`)
	s.db.Exec(`ALTER TABLE memories ADD COLUMN type TEXT NOT NULL DEFAULT 'fact'`)
	s.db.Exec(`ALTER TABLE memories ADD COLUMN is_latest INTEGER NOT NULL DEFAULT 1`)

	// FTS5 triggers for automatic sync
	s.db.Exec(`CREATE TRIGGER IF NOT EXISTS memories_ai AFTER INSERT ON memories BEGIN
		INSERT INTO memories_fts(rowid, content, citation) VALUES (new.rowid, new.content, new.citation);
	END`)
	s.db.Exec(`CREATE TRIGGER IF NOT EXISTS memories_ad AFTER DELETE ON memories BEGIN
		INSERT INTO memories_fts(memories_fts, rowid, content, citation) VALUES('delete', old.rowid, old.content, old.citation);
	END`)
	s.db.Exec(`CREATE TRIGGER IF NOT EXISTS memories_au AFTER UPDATE ON memories BEGIN
		INSERT INTO memories_fts(memories_fts, rowid, content, citation) VALUES('delete', old.rowid, old.content, old.citation);
		INSERT INTO memories_fts(rowid, content, citation) VALUES (new.rowid, new.content, new.citation);
	END`)

	// Backfill FTS for rows indexed before the triggers existed
	s.db.Exec(`INSERT OR IGNORE INTO memories_fts(rowid, content, citation) SELECT rowid, content, citation FROM memories`)

	return nil
}

// observe reports one finished operation to the collector.
func (s *SQLiteStore) observe(ctx context.Context, op string, start time.Time, err error) {
	if err != nil {
		s.metrics.RecordError(ctx, op, "storage")
		return
	}
	s.metrics.RecordOperation(ctx, op, "ok", time.Since(start).Milliseconds())
}

const selectMemory = `SELECT id, content, citation, metadata, type, session_id,
	access_count, importance, is_long_term, is_latest, created_at, last_accessed
	FROM memories`

type execer interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// insertMemory writes a fully-formed memory row through db or tx.
func insertMemory(ctx context.Context, e execer, m *model.Memory) error {
	_, err := e.ExecContext(ctx, `INSERT INTO memories
		(id, content, citation, metadata, type, session_id, access_count,
		 importance, is_long_term, is_latest, created_at, last_accessed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.Content, nullable(m.Citation), m.Metadata, m.Type, nullable(m.SessionID),
		m.AccessCount, m.Importance, boolInt(m.IsLongTerm), boolInt(m.IsLatest),
		m.CreatedAt.UTC().Format(time.RFC3339), m.LastAccessed.UTC().Format(time.RFC3339))
	if err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return fmt.Errorf("%w: %s", ErrDuplicateID, m.ID)
	}
	return err
}

// Insert writes a memory row outside any compound operation. Fails
// with ErrDuplicateID when the id already exists.
func (s *SQLiteStore) Insert(ctx context.Context, m *model.Memory) error {
	return insertMemory(ctx, s.db, m)
}

// Update applies the given column values to a memory row. Fails with
// ErrNotFound when the id is absent.
func (s *SQLiteStore) Update(ctx context.Context, id string, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	cols := make([]string, 0, len(fields))
	for col := range fields {
		cols = append(cols, col)
	}
	sort.Strings(cols)

	sets := make([]string, 0, len(cols))
	args := make([]interface{}, 0, len(cols)+1)
	for _, col := range cols {
		sets = append(sets, col+" = ?")
		args = append(args, fields[col])
	}
	args = append(args, id)

	res, err := s.db.ExecContext(ctx,
		`UPDATE memories SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// Delete removes a memory and every link touching it, in one
// transaction. Deleting an absent id is a no-op.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM links WHERE source_id = ? OR target_id = ?`, id, id); err != nil {
		return fmt.Errorf("delete links: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM memories WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete memory: %w", err)
	}
	return tx.Commit()
}

// Get retrieves a memory by id.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*model.Memory, error) {
	row := s.db.QueryRowContext(ctx, selectMemory+` WHERE id = ?`, id)
	m, err := scanMemory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// List returns memories newest first, filtered by type and session.
func (s *SQLiteStore) List(ctx context.Context, p ListParams) ([]model.Memory, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = 20
	}

	where := []string{"1 = 1"}
	args := []interface{}{}

	if p.Type != "" {
		where = append(where, "type = ?")
		args = append(args, p.Type)
	}
	if p.SessionID != "" {
		where = append(where, "session_id = ?")
		args = append(args, p.SessionID)
	}
	if p.LatestOnly {
		where = append(where, "is_latest = 1")
	}
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, selectMemory+
		` WHERE `+strings.Join(where, " AND ")+
		` ORDER BY created_at DESC LIMIT ?`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectMemories(rows)
}

// Close closes the store.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanMemory(row scanner) (model.Memory, error) {
	var m model.Memory
	var citation, sessionID sql.NullString
	var longTerm, latest int
	var createdAt, lastAccessed string

	err := row.Scan(
		&m.ID, &m.Content, &citation, &m.Metadata, &m.Type, &sessionID,
		&m.AccessCount, &m.Importance, &longTerm, &latest,
		&createdAt, &lastAccessed,
	)
	if err != nil {
		return m, err
	}

	if citation.Valid {
		m.Citation = citation.String
	}
	if sessionID.Valid {
		m.SessionID = sessionID.String
	}
	m.IsLongTerm = longTerm != 0
	m.IsLatest = latest != 0
	m.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
	m.LastAccessed, _ = time.Parse(time.RFC3339, lastAccessed)

	return m, nil
}

func collectMemories(rows *sql.Rows) ([]model.Memory, error) {
	var memories []model.Memory
	for rows.Next() {
		m, err := scanMemory(rows)
		if err != nil {
			return nil, err
		}
		memories = append(memories, m)
	}
	return memories, rows.Err()
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
