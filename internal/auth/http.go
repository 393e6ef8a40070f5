// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/buivan/libris/internal/platform/apperr"
	"github.com/buivan/libris/internal/platform/ctxutil"
	"github.com/buivan/libris/internal/platform/respond"
	"github.com/buivan/libris/internal/platform/validate"
)

// HTTPHandler exposes the auth use cases over HTTP.
type HTTPHandler struct {
	service *Service
	oauth   *OAuthHandler
}

// NewHTTPHandler creates the auth HTTP handler. oauth may be nil when no
// provider is configured; the social login routes are then absent.
func NewHTTPHandler(service *Service, oauth *OAuthHandler) *HTTPHandler {
	return &HTTPHandler{service: service, oauth: oauth}
}

// Routes returns the router for the /api/auth subtree.
func (handler *HTTPHandler) Routes() http.Handler {
	router := chi.NewRouter()

	router.Post("/login", handler.login)
	router.Post("/logout", handler.logout)
	router.Get("/me", handler.me)

	if handler.oauth != nil {
		handler.oauth.Mount(router)
	}

	return router
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// login handles POST /api/auth/login.
func (handler *HTTPHandler) login(writer http.ResponseWriter, request *http.Request) {
	var payload loginRequest
	if err := json.NewDecoder(request.Body).Decode(&payload); err != nil {
		respond.Error(writer, request, validate.ErrInvalidJSON)
		return
	}

	v := &validate.Validator{}
	v.Required("username", payload.Username).Required("password", payload.Password)
	if v.HasErrors() {
		// The SPA surfaces this exact sentence, so the field details are
		// collapsed into one message.
		respond.Error(writer, request, apperr.ValidationError("Username and password are required"))
		return
	}

	result, err := handler.service.Login(request.Context(), payload.Username, payload.Password)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, result)
}

// logout handles POST /api/auth/logout.
//
// Tokens are stateless so there is nothing to revoke server-side; the client
// discards its copy. The endpoint exists so the SPA has a uniform call.
func (handler *HTTPHandler) logout(writer http.ResponseWriter, request *http.Request) {
	respond.Message(writer, "Logged out successfully")
}

// me handles GET /api/auth/me. It re-reads the account row so the response
// reflects current approval and role state, not the token snapshot.
func (handler *HTTPHandler) me(writer http.ResponseWriter, request *http.Request) {
	claims := ctxutil.GetAuthUser(request.Context())
	if claims == nil {
		respond.Error(writer, request, apperr.Unauthorized("No token provided"))
		return
	}

	user, err := handler.service.CurrentUser(request.Context(), claims.UserID)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}
