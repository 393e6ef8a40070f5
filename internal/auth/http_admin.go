// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/buivan/libris/internal/platform/respond"
)

// AdminHTTPHandler exposes the approval queue. The router mounting it is
// responsible for the admin gate; these handlers assume an admin caller.
type AdminHTTPHandler struct {
	service *Service
}

// NewAdminHTTPHandler creates the admin HTTP handler.
func NewAdminHTTPHandler(service *Service) *AdminHTTPHandler {
	return &AdminHTTPHandler{service: service}
}

// Routes returns the router for the /api/admin subtree.
func (handler *AdminHTTPHandler) Routes() http.Handler {
	router := chi.NewRouter()

	router.Get("/pending", handler.pendingUsers)
	router.Post("/approve/{id}", handler.approveUser)
	router.Post("/reject/{id}", handler.rejectUser)

	return router
}

// pendingUsers handles GET /api/admin/pending.
func (handler *AdminHTTPHandler) pendingUsers(writer http.ResponseWriter, request *http.Request) {
	users, err := handler.service.PendingUsers(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, users)
}

// approveUser handles POST /api/admin/approve/{id}.
func (handler *AdminHTTPHandler) approveUser(writer http.ResponseWriter, request *http.Request) {
	id := chi.URLParam(request, "id")

	user, err := handler.service.ApproveUser(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, user)
}

// rejectUser handles POST /api/admin/reject/{id}.
func (handler *AdminHTTPHandler) rejectUser(writer http.ResponseWriter, request *http.Request) {
	id := chi.URLParam(request, "id")

	if err := handler.service.RejectUser(request.Context(), id); err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Message(writer, "User rejected successfully")
}
