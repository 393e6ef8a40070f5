// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// SQLite implementation of the account storage layer.
//
// # Error Mapping
//
// Storage-specific errors (like sql.ErrNoRows) are mapped to domain-friendly
// [apperr.AppError] types via [dberr.Wrap] to avoid leaking storage
// implementation details.
package auth

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/buivan/libris/internal/platform/dberr"
)

// SQLiteUserStore implements the [UserStore] interface on the app store.
type SQLiteUserStore struct {
	db *sql.DB
}

// NewUserStore creates a new SQLite implementation of the UserStore.
//
// The handle is shared and long-lived; the store never closes it.
func NewUserStore(db *sql.DB) *SQLiteUserStore {
	return &SQLiteUserStore{db: db}
}

const userColumns = `id, username, email, password_hash, is_admin, is_approved, created_at, updated_at`

// Create persists a new user record.
func (store *SQLiteUserStore) Create(ctx context.Context, user *User) error {
	const query = `
		INSERT INTO users (id, username, email, password_hash, is_admin, is_approved, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := store.db.ExecContext(ctx, query,
		user.ID,
		user.Username,
		nullIfEmpty(user.Email),
		nullIfEmpty(user.PasswordHash),
		boolToInt(user.IsAdmin),
		boolToInt(user.IsApproved),
		formatTime(user.CreatedAt),
		formatTime(user.UpdatedAt),
	)

	if err != nil {
		return fmt.Errorf("sqlite_user_store_create_failed: %w", err)
	}

	return nil
}

// FindByUsername retrieves a user record by their unique username.
func (store *SQLiteUserStore) FindByUsername(ctx context.Context, username string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = ?`
	return store.scanOne(store.db.QueryRowContext(ctx, query, username))
}

// FindByID retrieves a user record by their immutable ID.
func (store *SQLiteUserStore) FindByID(ctx context.Context, id string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`
	return store.scanOne(store.db.QueryRowContext(ctx, query, id))
}

// FindByIDOrEmail retrieves a user record matching either key.
//
// An empty email matches by id only. Accounts without an email are stored
// with a NULL column, and an `email = ''` predicate would otherwise resolve
// two distinct subjects to whichever email-less account was created first.
func (store *SQLiteUserStore) FindByIDOrEmail(ctx context.Context, id, email string) (*User, error) {
	if email == "" {
		return store.FindByID(ctx, id)
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE id = ? OR email = ?`
	return store.scanOne(store.db.QueryRowContext(ctx, query, id, email))
}

// SetApproved flips the approval flag for a user.
func (store *SQLiteUserStore) SetApproved(ctx context.Context, id string, approved bool) error {
	const query = `UPDATE users SET is_approved = ?, updated_at = ? WHERE id = ?`

	result, err := store.db.ExecContext(ctx, query, boolToInt(approved), formatTime(time.Now().UTC()), id)
	if err != nil {
		return fmt.Errorf("sqlite_user_store_set_approved_failed: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite_user_store_set_approved_failed: %w", err)
	}
	if affected == 0 {
		return dberr.Wrap(sql.ErrNoRows, "User")
	}

	return nil
}

// Delete permanently removes a user record.
func (store *SQLiteUserStore) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM users WHERE id = ?`

	result, err := store.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("sqlite_user_store_delete_failed: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("sqlite_user_store_delete_failed: %w", err)
	}
	if affected == 0 {
		return dberr.Wrap(sql.ErrNoRows, "User")
	}

	return nil
}

// ListPending returns all unapproved users, newest first.
func (store *SQLiteUserStore) ListPending(ctx context.Context) ([]*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE is_approved = 0 ORDER BY created_at DESC`

	rows, err := store.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("sqlite_user_store_list_pending_failed: %w", err)
	}
	defer rows.Close()

	users := make([]*User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("sqlite_user_store_list_pending_failed: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite_user_store_list_pending_failed: %w", err)
	}

	return users, nil
}

// ── Row Mapping ──────────────────────────────────────────────────────────────

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func (store *SQLiteUserStore) scanOne(row *sql.Row) (*User, error) {
	user, err := scanUser(row)
	if err != nil {
		return nil, dberr.Wrap(err, "User")
	}
	return user, nil
}

func scanUser(row rowScanner) (*User, error) {
	var (
		user         User
		email        sql.NullString
		passwordHash sql.NullString
		isAdmin      int
		isApproved   int
		createdAt    string
		updatedAt    string
	)

	err := row.Scan(
		&user.ID,
		&user.Username,
		&email,
		&passwordHash,
		&isAdmin,
		&isApproved,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	user.Email = email.String
	user.PasswordHash = passwordHash.String
	user.IsAdmin = isAdmin == 1
	user.IsApproved = isApproved == 1
	user.CreatedAt = parseTime(createdAt)
	user.UpdatedAt = parseTime(updatedAt)

	return &user, nil
}

// Timestamps are stored as RFC 3339 TEXT, matching how the app store has
// always been written.

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func parseTime(value string) time.Time {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}
	}
	return t
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
