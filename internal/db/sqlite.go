// Package db provides SQLite storage for the session and the offline agenda.
package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/hawkeyecrm/hawkeye/internal/session"
)

// SQLite implements session.Store, activity.Store and activity.UserDirectory.
type SQLite struct {
	db  *sql.DB
	loc *time.Location
}

// busyTimeout is how long a connection waits on a lock held by another process.
const busyTimeout = 5 * time.Second

// New creates a new SQLite store and runs migrations.
// Writes are serialized on a single connection so concurrent updates queue
// instead of failing with SQLITE_BUSY.
func New(path string) (*SQLite, error) {
	dsn := fmt.Sprintf("%s?_pragma=busy_timeout(%d)", path, busyTimeout.Milliseconds())
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	s := &SQLite{db: db, loc: time.Local}
	if err := s.migrate(); err != nil {
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// SetLocation sets the zone activity times are returned in.
func (s *SQLite) SetLocation(loc *time.Location) {
	if loc != nil {
		s.loc = loc
	}
}

// Close releases database resources.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// LoadSession returns the stored tokens, or session.ErrNotLoggedIn.
func (s *SQLite) LoadSession(ctx context.Context) (session.Tokens, error) {
	var t session.Tokens
	err := s.db.QueryRowContext(ctx, `SELECT access, refresh FROM session WHERE id = 1`).Scan(&t.Access, &t.Refresh)
	if errors.Is(err, sql.ErrNoRows) {
		return session.Tokens{}, session.ErrNotLoggedIn
	}
	if err != nil {
		return session.Tokens{}, fmt.Errorf("querying session: %w", err)
	}
	if t.Access == "" {
		return session.Tokens{}, session.ErrNotLoggedIn
	}
	return t, nil
}

// SaveSession stores the token pair, replacing any previous one.
func (s *SQLite) SaveSession(ctx context.Context, t session.Tokens) error {
	query := `
		INSERT INTO session (id, access, refresh, updated_at) VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			access = excluded.access,
			refresh = excluded.refresh,
			updated_at = excluded.updated_at
	`
	if _, err := s.db.ExecContext(ctx, query, t.Access, t.Refresh, time.Now().Format(time.RFC3339)); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

// ClearSession removes the stored tokens.
func (s *SQLite) ClearSession(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM session`); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	return nil
}

var _ session.Store = (*SQLite)(nil)
