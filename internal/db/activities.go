package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hawkeyecrm/hawkeye/internal/activity"
)

const selectActivities = `
	SELECT a.id, a.kind, a.status, a.start_unix, a.end_unix,
	       a.employee_description, a.public_description,
	       a.client_id, a.property_id, a.request_id, a.responsible_user_id,
	       u.username, u.first_name, u.last_name
	FROM activities a
	LEFT JOIN users u ON u.id = a.responsible_user_id
`

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *SQLite) scanActivity(row rowScanner) (*activity.Activity, error) {
	var (
		a          activity.Activity
		start, end int64
		client     sql.NullInt64
		property   sql.NullInt64
		request    sql.NullInt64
		username   sql.NullString
		firstName  sql.NullString
		lastName   sql.NullString
	)

	err := row.Scan(
		&a.ID,
		&a.Kind,
		&a.Status,
		&start,
		&end,
		&a.EmployeeDescription,
		&a.PublicDescription,
		&client,
		&property,
		&request,
		&a.ResponsibleUserID,
		&username,
		&firstName,
		&lastName,
	)
	if err != nil {
		return nil, err
	}

	a.StartAt = time.Unix(start, 0).In(s.loc)
	a.EndAt = time.Unix(end, 0).In(s.loc)
	if client.Valid {
		a.ClientID = &client.Int64
	}
	if property.Valid {
		a.PropertyID = &property.Int64
	}
	if request.Valid {
		a.RequestID = &request.Int64
	}
	if username.Valid {
		a.Responsible = &activity.User{
			ID:        a.ResponsibleUserID,
			Username:  username.String,
			FirstName: firstName.String,
			LastName:  lastName.String,
		}
	}

	return &a, nil
}

// List returns the activities matching f ordered by start time.
func (s *SQLite) List(ctx context.Context, f activity.Filter) ([]*activity.Activity, error) {
	var (
		where []string
		args  []any
	)
	if !f.From.IsZero() {
		where = append(where, "a.start_unix >= ?")
		args = append(args, f.From.Unix())
	}
	if !f.To.IsZero() {
		where = append(where, "a.start_unix < ?")
		args = append(args, f.To.Unix())
	}
	if len(f.UserIDs) > 0 {
		marks := strings.TrimSuffix(strings.Repeat("?,", len(f.UserIDs)), ",")
		where = append(where, "a.responsible_user_id IN ("+marks+")")
		for _, id := range f.UserIDs {
			args = append(args, id)
		}
	}
	if f.ClientID != 0 {
		where = append(where, "a.client_id = ?")
		args = append(args, f.ClientID)
	}
	if f.PropertyID != 0 {
		where = append(where, "a.property_id = ?")
		args = append(args, f.PropertyID)
	}
	if f.RequestID != 0 {
		where = append(where, "a.request_id = ?")
		args = append(args, f.RequestID)
	}

	query := selectActivities
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY a.start_unix, a.id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying activities: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []*activity.Activity
	for rows.Next() {
		a, err := s.scanActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning activity: %w", err)
		}
		out = append(out, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating activities: %w", err)
	}

	return out, nil
}

// Get retrieves an activity by ID.
func (s *SQLite) Get(ctx context.Context, id int64) (*activity.Activity, error) {
	a, err := s.scanActivity(s.db.QueryRowContext(ctx, selectActivities+" WHERE a.id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("activity %d: %w", id, activity.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying activity: %w", err)
	}
	return a, nil
}

// Create inserts a. A non-zero ID is kept, so synced activities retain
// their CRM identity.
func (s *SQLite) Create(ctx context.Context, a *activity.Activity) (*activity.Activity, error) {
	query := `
		INSERT INTO activities (
			id, kind, status, start_unix, end_unix, employee_description,
			public_description, client_id, property_id, request_id, responsible_user_id
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	var id any
	if a.ID != 0 {
		id = a.ID
	}
	result, err := s.db.ExecContext(ctx, query, append([]any{id}, columns(a)...)...)
	if err != nil {
		return nil, fmt.Errorf("inserting activity: %w", err)
	}

	newID, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting last insert id: %w", err)
	}

	return s.Get(ctx, newID)
}

// Update applies u to the stored activity.
func (s *SQLite) Update(ctx context.Context, id int64, u activity.Update) (*activity.Activity, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	current, err := s.scanActivity(tx.QueryRowContext(ctx, selectActivities+" WHERE a.id = ?", id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("activity %d: %w", id, activity.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("querying activity: %w", err)
	}

	next := u.Apply(current)
	query := `
		UPDATE activities SET
			kind = ?, status = ?, start_unix = ?, end_unix = ?, employee_description = ?,
			public_description = ?, client_id = ?, property_id = ?, request_id = ?,
			responsible_user_id = ?
		WHERE id = ?
	`
	if _, err := tx.ExecContext(ctx, query, append(columns(next), id)...); err != nil {
		return nil, fmt.Errorf("updating activity: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}

	return s.Get(ctx, id)
}

// SyncActivities replaces the cached activities starting in [from, to) with
// acts. IDs are kept as given.
func (s *SQLite) SyncActivities(ctx context.Context, from, to time.Time, acts []*activity.Activity) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM activities WHERE start_unix >= ? AND start_unix < ?`,
		from.Unix(), to.Unix(),
	); err != nil {
		return fmt.Errorf("clearing range: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR REPLACE INTO activities (
			id, kind, status, start_unix, end_unix, employee_description,
			public_description, client_id, property_id, request_id, responsible_user_id
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, a := range acts {
		if _, err := stmt.ExecContext(ctx, append([]any{a.ID}, columns(a)...)...); err != nil {
			return fmt.Errorf("inserting activity %d: %w", a.ID, err)
		}
		if a.Responsible != nil {
			if err := upsertUser(ctx, tx, *a.Responsible); err != nil {
				return err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

func columns(a *activity.Activity) []any {
	return []any{
		string(a.Kind),
		string(a.Status),
		a.StartAt.Unix(),
		a.EndAt.Unix(),
		a.EmployeeDescription,
		a.PublicDescription,
		a.ClientID,
		a.PropertyID,
		a.RequestID,
		a.ResponsibleUserID,
	}
}

var _ activity.Store = (*SQLite)(nil)
