package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hawkeyecrm/hawkeye/internal/activity"
)

// ListUsers returns the cached users ordered by name.
func (s *SQLite) ListUsers(ctx context.Context) ([]activity.User, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, username, first_name, last_name
		FROM users
		ORDER BY first_name, last_name, username
	`)
	if err != nil {
		return nil, fmt.Errorf("querying users: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var users []activity.User
	for rows.Next() {
		var u activity.User
		if err := rows.Scan(&u.ID, &u.Username, &u.FirstName, &u.LastName); err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		users = append(users, u)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating users: %w", err)
	}

	return users, nil
}

// SaveUsers upserts users into the cache.
func (s *SQLite) SaveUsers(ctx context.Context, users []activity.User) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, u := range users {
		if err := upsertUser(ctx, tx, u); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func upsertUser(ctx context.Context, tx *sql.Tx, u activity.User) error {
	query := `
		INSERT INTO users (id, username, first_name, last_name) VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			username = excluded.username,
			first_name = excluded.first_name,
			last_name = excluded.last_name
	`
	if _, err := tx.ExecContext(ctx, query, u.ID, u.Username, u.FirstName, u.LastName); err != nil {
		return fmt.Errorf("saving user %d: %w", u.ID, err)
	}
	return nil
}

var _ activity.UserDirectory = (*SQLite)(nil)
