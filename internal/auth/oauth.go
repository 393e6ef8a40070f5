// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
	"golang.org/x/oauth2/google"

	"github.com/buivan/libris/internal/platform/config"
	"github.com/buivan/libris/internal/platform/constants"
	"github.com/buivan/libris/internal/platform/sec"
)

// OAuthHandler implements the authorization-code flow for social login.
//
// # Flow
//
// GET /api/auth/{provider} sets a CSRF state cookie and redirects to the
// provider's consent page. The provider calls back with a code; the callback
// handler validates the state, exchanges the code, resolves the profile to a
// local account, and redirects the browser back to the frontend carrying a
// session token (or to the pending page for unapproved accounts).
type OAuthHandler struct {
	service        *Service
	frontendOrigin string
	secureCookies  bool
	providers      []*oauthProvider
	logger         *slog.Logger
}

// oauthProvider couples an oauth2.Config with a provider-specific profile
// fetcher. Everything after the token exchange is provider-agnostic.
type oauthProvider struct {
	name         string
	config       *oauth2.Config
	fetchProfile func(ctx context.Context, client *http.Client) (OAuthProfile, error)
}

// NewOAuthHandler builds the handler from configured provider credentials.
// It returns nil when no provider has both a client id and a secret.
func NewOAuthHandler(cfg *config.Config, service *Service, logger *slog.Logger) *OAuthHandler {
	handler := &OAuthHandler{
		service:        service,
		frontendOrigin: cfg.FrontendOrigin,
		secureCookies:  cfg.IsProduction(),
		logger:         logger,
	}

	if cfg.GoogleClientID != "" && cfg.GoogleClientSecret != "" {
		handler.providers = append(handler.providers, &oauthProvider{
			name: "google",
			config: &oauth2.Config{
				ClientID:     cfg.GoogleClientID,
				ClientSecret: cfg.GoogleClientSecret,
				Endpoint:     google.Endpoint,
				RedirectURL:  cfg.OAuthCallbackBase + "/api/auth/google/callback",
				Scopes:       []string{"openid", "profile", "email"},
			},
			fetchProfile: fetchGoogleProfile,
		})
	}

	if cfg.GithubClientID != "" && cfg.GithubClientSecret != "" {
		handler.providers = append(handler.providers, &oauthProvider{
			name: "github",
			config: &oauth2.Config{
				ClientID:     cfg.GithubClientID,
				ClientSecret: cfg.GithubClientSecret,
				Endpoint:     github.Endpoint,
				RedirectURL:  cfg.OAuthCallbackBase + "/api/auth/github/callback",
				Scopes:       []string{"read:user", "user:email"},
			},
			fetchProfile: fetchGithubProfile,
		})
	}

	if len(handler.providers) == 0 {
		return nil
	}

	return handler
}

// Mount registers the begin/callback route pair for every configured provider.
func (handler *OAuthHandler) Mount(router chi.Router) {
	for _, provider := range handler.providers {
		router.Get("/"+provider.name, func(w http.ResponseWriter, r *http.Request) {
			handler.begin(w, r, provider)
		})
		router.Get("/"+provider.name+"/callback", func(w http.ResponseWriter, r *http.Request) {
			handler.callback(w, r, provider)
		})
	}
}

// begin starts the code flow by redirecting to the provider's consent page.
func (handler *OAuthHandler) begin(writer http.ResponseWriter, request *http.Request, provider *oauthProvider) {
	state, err := sec.GenerateSecureToken(16)
	if err != nil {
		handler.failLogin(writer, request, provider.name, fmt.Errorf("state generation: %w", err))
		return
	}

	http.SetCookie(writer, &http.Cookie{
		Name:     constants.OAuthStateCookie,
		Value:    state,
		Path:     "/api/auth",
		MaxAge:   int(constants.OAuthStateTTL.Seconds()),
		HttpOnly: true,
		Secure:   handler.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(writer, request, provider.config.AuthCodeURL(state), http.StatusFound)
}

// callback completes the code flow.
func (handler *OAuthHandler) callback(writer http.ResponseWriter, request *http.Request, provider *oauthProvider) {
	handler.clearStateCookie(writer)

	cookie, err := request.Cookie(constants.OAuthStateCookie)
	if err != nil || cookie.Value == "" || cookie.Value != request.URL.Query().Get("state") {
		handler.failLogin(writer, request, provider.name, fmt.Errorf("state mismatch"))
		return
	}

	code := request.URL.Query().Get("code")
	if code == "" {
		handler.failLogin(writer, request, provider.name, fmt.Errorf("missing code"))
		return
	}

	token, err := provider.config.Exchange(request.Context(), code)
	if err != nil {
		handler.failLogin(writer, request, provider.name, fmt.Errorf("code exchange: %w", err))
		return
	}

	profile, err := provider.fetchProfile(request.Context(), provider.config.Client(request.Context(), token))
	if err != nil {
		handler.failLogin(writer, request, provider.name, fmt.Errorf("profile fetch: %w", err))
		return
	}

	user, err := handler.service.FindOrCreateOAuthUser(request.Context(), profile)
	if err != nil {
		handler.failLogin(writer, request, provider.name, fmt.Errorf("user resolution: %w", err))
		return
	}

	if !user.IsApproved {
		http.Redirect(writer, request, handler.frontendOrigin+"/pending", http.StatusFound)
		return
	}

	sessionToken, err := handler.service.IssueToken(user)
	if err != nil {
		handler.failLogin(writer, request, provider.name, err)
		return
	}

	redirect := handler.frontendOrigin + "/auth/callback?token=" + url.QueryEscape(sessionToken)
	http.Redirect(writer, request, redirect, http.StatusFound)
}

// failLogin logs the cause server-side and bounces the browser to the
// frontend login page with an opaque error flag. Redirect flows cannot
// render a JSON error body.
func (handler *OAuthHandler) failLogin(writer http.ResponseWriter, request *http.Request, providerName string, cause error) {
	handler.logger.WarnContext(request.Context(), "oauth_login_failed",
		slog.String("provider", providerName),
		slog.String("cause", cause.Error()),
	)
	http.Redirect(writer, request, handler.frontendOrigin+"/login?error=oauth_failed", http.StatusFound)
}

func (handler *OAuthHandler) clearStateCookie(writer http.ResponseWriter) {
	http.SetCookie(writer, &http.Cookie{
		Name:     constants.OAuthStateCookie,
		Value:    "",
		Path:     "/api/auth",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   handler.secureCookies,
		SameSite: http.SameSiteLaxMode,
	})
}

// ── Profile Fetchers ─────────────────────────────────────────────────────────

// Account IDs are prefixed with the provider name so numeric subject IDs from
// different providers can never collide in the app store.

func fetchGoogleProfile(ctx context.Context, client *http.Client) (OAuthProfile, error) {
	var payload struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}

	if err := fetchJSON(ctx, client, "https://www.googleapis.com/oauth2/v2/userinfo", &payload); err != nil {
		return OAuthProfile{}, err
	}
	if payload.ID == "" {
		return OAuthProfile{}, fmt.Errorf("google userinfo returned no subject id")
	}

	username := payload.Name
	if username == "" {
		username = emailLocalPart(payload.Email)
	}

	return OAuthProfile{
		ID:       "google-" + payload.ID,
		Username: username,
		Email:    payload.Email,
	}, nil
}

func fetchGithubProfile(ctx context.Context, client *http.Client) (OAuthProfile, error) {
	var payload struct {
		ID    int64  `json:"id"`
		Login string `json:"login"`
		Email string `json:"email"`
	}

	if err := fetchJSON(ctx, client, "https://api.github.com/user", &payload); err != nil {
		return OAuthProfile{}, err
	}
	if payload.ID == 0 {
		return OAuthProfile{}, fmt.Errorf("github user endpoint returned no id")
	}

	// GitHub omits the email when the user hides it; the primary verified
	// address is available from a second endpoint.
	email := payload.Email
	if email == "" {
		email = fetchGithubPrimaryEmail(ctx, client)
	}

	return OAuthProfile{
		ID:       "github-" + strconv.FormatInt(payload.ID, 10),
		Username: payload.Login,
		Email:    email,
	}, nil
}

func fetchGithubPrimaryEmail(ctx context.Context, client *http.Client) string {
	var emails []struct {
		Email    string `json:"email"`
		Primary  bool   `json:"primary"`
		Verified bool   `json:"verified"`
	}

	if err := fetchJSON(ctx, client, "https://api.github.com/user/emails", &emails); err != nil {
		return ""
	}

	for _, entry := range emails {
		if entry.Primary && entry.Verified {
			return entry.Email
		}
	}

	return ""
}

func fetchJSON(ctx context.Context, client *http.Client, endpoint string, target any) error {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("oauth profile request: %w", err)
	}
	request.Header.Set("Accept", "application/json")

	response, err := client.Do(request)
	if err != nil {
		return fmt.Errorf("oauth profile request: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		return fmt.Errorf("oauth profile request: unexpected status %d from %s", response.StatusCode, endpoint)
	}

	if err := json.NewDecoder(response.Body).Decode(target); err != nil {
		return fmt.Errorf("oauth profile decode: %w", err)
	}

	return nil
}

func emailLocalPart(email string) string {
	if at := strings.Index(email, "@"); at > 0 {
		return email[:at]
	}
	return email
}
