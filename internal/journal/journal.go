// Package journal keeps a local sqlite audit trail of the mutations an
// operator ran against the backend.
package journal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/sorenmh/homeservices-admin/internal/mutation"
)

// Entry is one journaled mutation
type Entry struct {
	ID         string        `json:"id" yaml:"id"`
	Verb       string        `json:"verb" yaml:"verb"`
	Entity     string        `json:"entity" yaml:"entity"`
	EntityID   string        `json:"entityId,omitempty" yaml:"entityId,omitempty"`
	OK         bool          `json:"ok" yaml:"ok"`
	Message    string        `json:"message,omitempty" yaml:"message,omitempty"`
	Duration   time.Duration `json:"duration" yaml:"duration"`
	RecordedAt time.Time     `json:"recordedAt" yaml:"recordedAt"`
}

// Filter narrows List
type Filter struct {
	Entity string
	Limit  int
	Offset int
}

type Store struct {
	db  *sql.DB
	now func() time.Time
}

// New opens (and creates if needed) the journal at path
func New(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping journal: %w", err)
	}

	s := &Store{db: db, now: time.Now}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate journal: %w", err)
	}

	return s, nil
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS mutations (
		id TEXT PRIMARY KEY,
		verb TEXT NOT NULL,
		entity TEXT NOT NULL,
		entity_id TEXT,
		ok BOOLEAN NOT NULL,
		message TEXT,
		duration_ms INTEGER NOT NULL DEFAULT 0,
		recorded_at TIMESTAMP NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_mutations_entity ON mutations(entity);
	CREATE INDEX IF NOT EXISTS idx_mutations_recorded_at ON mutations(recorded_at DESC);
	`

	_, err := s.db.Exec(schema)
	return err
}

// RecordMutation stores rec
func (s *Store) RecordMutation(ctx context.Context, rec mutation.Record) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO mutations (id, verb, entity, entity_id, ok, message, duration_ms, recorded_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, uuid.New().String(), rec.Verb, rec.Entity, rec.EntityID, rec.OK, rec.Message, rec.Duration.Milliseconds(), s.now().UTC())
	if err != nil {
		return fmt.Errorf("failed to record mutation: %w", err)
	}
	return nil
}

// List returns journaled mutations, newest first, and the total matching f
func (s *Store) List(ctx context.Context, f Filter) ([]Entry, int, error) {
	if f.Limit <= 0 {
		f.Limit = 20
	}

	where := ""
	args := []any{}
	if f.Entity != "" {
		where = "WHERE entity = ?"
		args = append(args, f.Entity)
	}

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM mutations `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, verb, entity, entity_id, ok, message, duration_ms, recorded_at
		FROM mutations `+where+`
		ORDER BY recorded_at DESC, rowid DESC
		LIMIT ? OFFSET ?
	`, append(args, f.Limit, f.Offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var (
			e          Entry
			entityID   sql.NullString
			message    sql.NullString
			durationMS int64
		)
		if err := rows.Scan(&e.ID, &e.Verb, &e.Entity, &entityID, &e.OK, &message, &durationMS, &e.RecordedAt); err != nil {
			return nil, 0, err
		}
		e.EntityID = entityID.String
		e.Message = message.String
		e.Duration = time.Duration(durationMS) * time.Millisecond
		entries = append(entries, e)
	}

	return entries, total, rows.Err()
}

// Ping checks the connection
func (s *Store) Ping() error {
	return s.db.Ping()
}

// Close closes the journal
func (s *Store) Close() error {
	return s.db.Close()
}
