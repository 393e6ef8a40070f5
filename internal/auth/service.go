// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/buivan/libris/internal/platform/apperr"
	"github.com/buivan/libris/internal/platform/sec"
)

// TokenProvider issues signed session tokens. It decouples the service from
// the concrete JWT implementation in the sec package.
type TokenProvider interface {
	GenerateToken(userID, username string, isAdmin bool) (string, error)
}

// dummyHash is a valid bcrypt hash of a random string. ValidateUser compares
// against it when the account is missing or has no password so the miss path
// costs the same as a real comparison.
var dummyHash, _ = sec.HashPassword("libris-timing-equalizer")

// Service implements the account use cases: credential validation, session
// issuance, OAuth provisioning, and the admin approval queue.
type Service struct {
	users  UserStore
	tokens TokenProvider
	logger *slog.Logger
}

// NewService creates a new auth service.
func NewService(users UserStore, tokens TokenProvider, logger *slog.Logger) *Service {
	return &Service{
		users:  users,
		tokens: tokens,
		logger: logger,
	}
}

// LoginResult is the payload returned on a successful login.
type LoginResult struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}

// ValidateUser checks a username/password pair against the app store.
//
// Unknown username, missing password hash, and wrong password are deliberately
// indistinguishable to the caller. Storage failures pass through unchanged so
// they surface as 500s, never as bad credentials.
func (service *Service) ValidateUser(ctx context.Context, username, password string) (*User, error) {
	invalid := apperr.Unauthorized("Invalid username or password")

	user, err := service.users.FindByUsername(ctx, username)
	if err != nil {
		if apperr.IsNotFound(err) {
			sec.CheckPasswordHash(password, dummyHash)
			return nil, invalid
		}
		return nil, err
	}

	if user.PasswordHash == "" {
		// OAuth-only account; no password will ever match.
		sec.CheckPasswordHash(password, dummyHash)
		return nil, invalid
	}

	if !sec.CheckPasswordHash(password, user.PasswordHash) {
		return nil, invalid
	}

	return user, nil
}

// Login validates credentials and issues a session token.
//
// Valid credentials on an unapproved account yield a 403, not a 401: the
// caller proved who they are, they just are not allowed in yet.
func (service *Service) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := service.ValidateUser(ctx, username, password)
	if err != nil {
		return nil, err
	}

	if !user.IsApproved {
		return nil, apperr.Forbidden("Account is pending approval")
	}

	token, err := service.tokens.GenerateToken(user.ID, user.Username, user.IsAdmin)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("auth_token_generation_failed: %w", err))
	}

	return &LoginResult{User: user, Token: token}, nil
}

// IssueToken creates a session token for an already-authenticated user.
// OAuth callbacks use it after provisioning.
func (service *Service) IssueToken(user *User) (string, error) {
	token, err := service.tokens.GenerateToken(user.ID, user.Username, user.IsAdmin)
	if err != nil {
		return "", apperr.Internal(fmt.Errorf("auth_token_generation_failed: %w", err))
	}
	return token, nil
}

// CurrentUser re-fetches the account behind a verified token so /me reflects
// up-to-the-second state (approval or admin flags may have changed since the
// token was minted).
func (service *Service) CurrentUser(ctx context.Context, userID string) (*User, error) {
	user, err := service.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// FindOrCreateOAuthUser resolves an OAuth profile to a local account,
// provisioning an unapproved one on first sight.
//
// The lookup matches on provider subject ID or email: a bootstrap admin is
// known only by email until their first social login, and this is the moment
// the two identities merge.
func (service *Service) FindOrCreateOAuthUser(ctx context.Context, profile OAuthProfile) (*User, error) {
	user, err := service.users.FindByIDOrEmail(ctx, profile.ID, profile.Email)
	if err == nil {
		return user, nil
	}
	if !apperr.IsNotFound(err) {
		return nil, err
	}

	user = &User{
		ID:         profile.ID,
		Username:   profile.Username,
		Email:      profile.Email,
		IsAdmin:    false,
		IsApproved: false,
	}

	if err := service.users.Create(ctx, user); err != nil {
		return nil, apperr.Internal(fmt.Errorf("auth_oauth_provision_failed: %w", err))
	}

	service.logger.InfoContext(ctx, "oauth_user_provisioned",
		slog.String("user_id", user.ID),
		slog.String("username", user.Username),
	)

	return user, nil
}

// PendingUsers lists all accounts awaiting approval, newest first.
func (service *Service) PendingUsers(ctx context.Context) ([]*User, error) {
	return service.users.ListPending(ctx)
}

// ApproveUser flips an account to approved and returns its fresh state.
func (service *Service) ApproveUser(ctx context.Context, id string) (*User, error) {
	if err := service.users.SetApproved(ctx, id, true); err != nil {
		return nil, err
	}
	return service.users.FindByID(ctx, id)
}

// RejectUser deletes an account from the approval queue.
//
// Only unapproved accounts can be rejected; deleting an active account this
// way would silently revoke access, so it is refused with a 409.
func (service *Service) RejectUser(ctx context.Context, id string) error {
	user, err := service.users.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if user.IsApproved {
		return apperr.Conflict("User is already approved")
	}

	return service.users.Delete(ctx, user.ID)
}

// BootstrapAdmin ensures a pre-approved admin account exists for the
// configured email. It runs once at startup and is a no-op when the account
// is already present.
//
// The account has no password; the admin signs in through an OAuth provider,
// where FindOrCreateOAuthUser matches them by email.
func (service *Service) BootstrapAdmin(ctx context.Context, email string) error {
	_, err := service.users.FindByIDOrEmail(ctx, "admin", email)
	if err == nil {
		return nil
	}
	if !apperr.IsNotFound(err) {
		return err
	}

	admin := &User{
		ID:         "admin",
		Username:   "admin",
		Email:      email,
		IsAdmin:    true,
		IsApproved: true,
		CreatedAt:  time.Now().UTC(),
	}

	if err := service.users.Create(ctx, admin); err != nil {
		return fmt.Errorf("auth_admin_bootstrap_failed: %w", err)
	}

	service.logger.InfoContext(ctx, "admin_account_bootstrapped",
		slog.String("email", email),
	)

	return nil
}
