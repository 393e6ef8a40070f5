// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package auth implements the authentication and account domain for Libris.
//
// # Architecture
//
// Entities in this file represent the "Truth" of the account system. They
// have no dependencies on outer layers (databases, HTTP, libraries).
package auth

import (
	"time"
)

// User represents a registered account in the app store.
//
// # Rules
//   - ID is immutable once assigned (OAuth profile id, bootstrap "admin",
//     or a generated UUID for provisioned accounts).
//   - Email is unique across all users; it is empty when an OAuth provider
//     withheld the address, and empty emails never identify an account.
//   - PasswordHash is bcrypt, set exclusively through this package; it is
//     empty for OAuth-only accounts, which can never password-login.
//   - IsApproved gates access for self-registered/OAuth accounts; only an
//     admin action flips it.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Explicitly omitted from JSON for security.
	IsAdmin      bool      `json:"isAdmin"`
	IsApproved   bool      `json:"isApproved"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// OAuthProfile is the provider-agnostic identity returned by an OAuth
// provider's userinfo endpoint.
type OAuthProfile struct {
	// ID is the provider's stable subject identifier.
	ID string
	// Username is a display/login name; providers differ in what they offer.
	Username string
	// Email may be empty when the provider withholds it.
	Email string
}
