// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
)

// UserStore defines the persistence contract for accounts in the app store.
//
// # Error Contract
//
// Lookup methods return an apperr 404 when the row is absent and an apperr
// 500 wrapping the cause for real storage failures. Callers rely on this
// distinction: a miss during login means "bad credentials", a storage
// failure must never be reported as one.
type UserStore interface {
	// Create persists a new user record.
	Create(ctx context.Context, user *User) error

	// FindByUsername retrieves a user by their unique username.
	FindByUsername(ctx context.Context, username string) (*User, error)

	// FindByID retrieves a user by their immutable ID.
	FindByID(ctx context.Context, id string) (*User, error)

	// FindByIDOrEmail retrieves a user matching either key. OAuth callbacks
	// use this so a bootstrap admin (known only by email) is recognized on
	// first social login. An empty email matches by id only; email-less
	// accounts must never match each other.
	FindByIDOrEmail(ctx context.Context, id, email string) (*User, error)

	// SetApproved flips the approval flag for a user.
	SetApproved(ctx context.Context, id string, approved bool) error

	// Delete permanently removes a user record.
	Delete(ctx context.Context, id string) error

	// ListPending returns all unapproved users, newest first.
	ListPending(ctx context.Context) ([]*User, error)
}
