// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/buivan/libris/internal/platform/apperr"
	"github.com/buivan/libris/internal/platform/respond"
	"github.com/buivan/libris/pkg/filename"
	"github.com/buivan/libris/pkg/pagination"
)

// HTTPHandler exposes the catalog over HTTP. All routes sit behind the
// authentication gate applied by the parent router.
type HTTPHandler struct {
	service *Service
}

// NewHTTPHandler creates the catalog HTTP handler.
func NewHTTPHandler(service *Service) *HTTPHandler {
	return &HTTPHandler{service: service}
}

// Routes returns the router for the /api/books subtree.
func (handler *HTTPHandler) Routes() http.Handler {
	router := chi.NewRouter()

	router.Get("/", handler.list)
	router.Get("/{id}", handler.get)
	router.Get("/{id}/cover", handler.cover)
	router.Get("/{id}/download", handler.download)

	return router
}

// list handles GET /api/books?page&limit&search.
func (handler *HTTPHandler) list(writer http.ResponseWriter, request *http.Request) {
	params := pagination.FromRequest(request)
	search := strings.TrimSpace(request.URL.Query().Get("search"))

	page, err := handler.service.List(request.Context(), params, search)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, page)
}

// get handles GET /api/books/{id}.
func (handler *HTTPHandler) get(writer http.ResponseWriter, request *http.Request) {
	id, err := parseBookID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	book, err := handler.service.Get(request.Context(), id)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, book)
}

// cover handles GET /api/books/{id}/cover.
//
// A book without a cover flag, a flagged book whose cover file is missing,
// and a nonexistent book all answer 404 "Cover not found"; the client cannot
// tell which, and does not need to.
func (handler *HTTPHandler) cover(writer http.ResponseWriter, request *http.Request) {
	id, err := parseBookID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	book, err := handler.service.Get(request.Context(), id)
	if err != nil {
		if apperr.IsNotFound(err) {
			respond.Error(writer, request, apperr.NotFound("Cover"))
			return
		}
		respond.Error(writer, request, err)
		return
	}

	path, ok := handler.service.CoverPath(book)
	if !ok {
		respond.Error(writer, request, apperr.NotFound("Cover"))
		return
	}

	if _, err := os.Stat(path); err != nil {
		respond.Error(writer, request, apperr.NotFound("Cover"))
		return
	}

	http.ServeFile(writer, request, path)
}

// download handles GET /api/books/{id}/download.
func (handler *HTTPHandler) download(writer http.ResponseWriter, request *http.Request) {
	id, err := parseBookID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	book, err := handler.service.Get(request.Context(), id)
	if err != nil {
		if apperr.IsNotFound(err) {
			respond.Error(writer, request, apperr.NotFound("Book file"))
			return
		}
		respond.Error(writer, request, err)
		return
	}

	path, ok := handler.service.FilePath(book)
	if !ok {
		respond.Error(writer, request, apperr.NotFound("Book file"))
		return
	}

	if _, err := os.Stat(path); err != nil {
		respond.Error(writer, request, apperr.NotFound("Book file"))
		return
	}

	// Headers must be set before ServeFile writes the status line.
	writer.Header().Set("Content-Disposition",
		`attachment; filename="`+filename.Attachment(book.Title, *book.Format)+`"`)
	writer.Header().Set("Content-Type", "application/"+*book.Format)

	http.ServeFile(writer, request, path)
}

func parseBookID(request *http.Request) (int64, error) {
	raw := chi.URLParam(request, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id < 1 {
		return 0, apperr.ValidationError("Invalid book ID")
	}
	return id, nil
}
