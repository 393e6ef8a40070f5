// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buivan/libris/internal/catalog"
	"github.com/buivan/libris/internal/platform/apperr"
	"github.com/buivan/libris/internal/platform/middleware"
	"github.com/buivan/libris/internal/platform/sec"
)

// newCatalogRouter mounts the catalog behind the real auth gate, as the
// server composes it, and returns a valid reader token.
func newCatalogRouter(store catalog.BookStore, libraryRoot string) (http.Handler, string) {
	tokens := sec.NewTokenService("test-secret", "libris", time.Hour)
	service := catalog.NewService(store, libraryRoot)
	handler := catalog.NewHTTPHandler(service)

	router := chi.NewRouter()
	router.Use(middleware.Authenticate(tokens))
	router.Route("/api/books", func(books chi.Router) {
		books.Use(middleware.RequireAuth)
		books.Mount("/", handler.Routes())
	})

	token, err := tokens.GenerateToken("user-1", "alice", false)
	if err != nil {
		panic(err)
	}
	return router, token
}

func doGet(router http.Handler, token, path string) *httptest.ResponseRecorder {
	request := httptest.NewRequest("GET", path, nil)
	if token != "" {
		request.Header.Set("Authorization", "Bearer "+token)
	}
	response := httptest.NewRecorder()
	router.ServeHTTP(response, request)
	return response
}

func errorMessage(t *testing.T, response *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(response.Body.Bytes(), &body))
	message, _ := body["error"].(string)
	return message
}

/*
TestHTTP_List verifies the paginated listing envelope and the auth gate.
*/
func TestHTTP_List(t *testing.T) {
	store := &mockBookStore{
		listFn: func(ctx context.Context, search string, limit, offset int) ([]*catalog.Book, int, error) {
			return []*catalog.Book{{ID: 1, Title: "Dune", Author: "Frank Herbert"}}, 42, nil
		},
	}
	router, token := newCatalogRouter(store, t.TempDir())

	t.Run("anonymous_is_401", func(t *testing.T) {
		response := doGet(router, "", "/api/books")
		assert.Equal(t, http.StatusUnauthorized, response.Code)
	})

	t.Run("authenticated_gets_page", func(t *testing.T) {
		response := doGet(router, token, "/api/books?page=2&limit=10")
		require.Equal(t, http.StatusOK, response.Code)

		var body struct {
			Books []map[string]any `json:"books"`
			Total int              `json:"total"`
		}
		require.NoError(t, json.Unmarshal(response.Body.Bytes(), &body))

		assert.Equal(t, 42, body.Total)
		require.Len(t, body.Books, 1)
		assert.Equal(t, "Dune", body.Books[0]["title"])
	})

	t.Run("empty_page_is_array_not_null", func(t *testing.T) {
		emptyStore := &mockBookStore{
			listFn: func(ctx context.Context, search string, limit, offset int) ([]*catalog.Book, int, error) {
				return nil, 0, nil
			},
		}
		emptyRouter, emptyToken := newCatalogRouter(emptyStore, t.TempDir())

		response := doGet(emptyRouter, emptyToken, "/api/books")
		require.Equal(t, http.StatusOK, response.Code)
		assert.Contains(t, response.Body.String(), `"books":[]`)
	})
}

/*
TestHTTP_Get verifies single book lookup and id validation.
*/
func TestHTTP_Get(t *testing.T) {
	store := &mockBookStore{
		findByIDFn: func(ctx context.Context, id int64) (*catalog.Book, error) {
			if id == 1 {
				return &catalog.Book{ID: 1, Title: "Dune"}, nil
			}
			return nil, apperr.NotFound("Book")
		},
	}
	router, token := newCatalogRouter(store, t.TempDir())

	t.Run("found", func(t *testing.T) {
		response := doGet(router, token, "/api/books/1")
		require.Equal(t, http.StatusOK, response.Code)

		var body map[string]any
		require.NoError(t, json.Unmarshal(response.Body.Bytes(), &body))
		assert.Equal(t, "Dune", body["title"])
	})

	t.Run("non_numeric_id_is_400", func(t *testing.T) {
		response := doGet(router, token, "/api/books/abc")
		require.Equal(t, http.StatusBadRequest, response.Code)
		assert.Equal(t, "Invalid book ID", errorMessage(t, response))
	})

	t.Run("missing_is_404", func(t *testing.T) {
		response := doGet(router, token, "/api/books/99")
		require.Equal(t, http.StatusNotFound, response.Code)
		assert.Equal(t, "Book not found", errorMessage(t, response))
	})
}

/*
TestHTTP_Cover verifies cover streaming and the collapsed 404 cases.
*/
func TestHTTP_Cover(t *testing.T) {
	libraryRoot := t.TempDir()
	bookDir := filepath.Join(libraryRoot, "Frank Herbert", "Dune (1)")
	require.NoError(t, os.MkdirAll(bookDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(bookDir, "cover.jpg"), []byte("jpeg-bytes"), 0o644))

	books := map[int64]*catalog.Book{
		1: {ID: 1, Title: "Dune", Path: "Frank Herbert/Dune (1)", HasCover: true},
		2: {ID: 2, Title: "No Cover", Path: "Frank Herbert/Dune (1)", HasCover: false},
		3: {ID: 3, Title: "Gone", Path: "Missing/Dir (3)", HasCover: true},
	}
	store := &mockBookStore{
		findByIDFn: func(ctx context.Context, id int64) (*catalog.Book, error) {
			if book, ok := books[id]; ok {
				return book, nil
			}
			return nil, apperr.NotFound("Book")
		},
	}
	router, token := newCatalogRouter(store, libraryRoot)

	t.Run("streams_cover_bytes", func(t *testing.T) {
		response := doGet(router, token, "/api/books/1/cover")
		require.Equal(t, http.StatusOK, response.Code)
		assert.Equal(t, "jpeg-bytes", response.Body.String())
	})

	t.Run("flag_off_is_404", func(t *testing.T) {
		response := doGet(router, token, "/api/books/2/cover")
		require.Equal(t, http.StatusNotFound, response.Code)
		assert.Equal(t, "Cover not found", errorMessage(t, response))
	})

	t.Run("file_missing_is_404", func(t *testing.T) {
		response := doGet(router, token, "/api/books/3/cover")
		require.Equal(t, http.StatusNotFound, response.Code)
		assert.Equal(t, "Cover not found", errorMessage(t, response))
	})

	t.Run("book_missing_is_404", func(t *testing.T) {
		response := doGet(router, token, "/api/books/99/cover")
		require.Equal(t, http.StatusNotFound, response.Code)
		assert.Equal(t, "Cover not found", errorMessage(t, response))
	})
}

/*
TestHTTP_Download verifies file streaming with the attachment headers.
*/
func TestHTTP_Download(t *testing.T) {
	libraryRoot := t.TempDir()
	bookDir := filepath.Join(libraryRoot, "Jane Doe", "Test Book (1)")
	require.NoError(t, os.MkdirAll(bookDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(bookDir, "Test Book - Jane Doe.epub"), []byte("epub-bytes"), 0o644))

	format := "epub"
	books := map[int64]*catalog.Book{
		1: {ID: 1, Title: "Test Book", Author: "Jane Doe", Path: "Jane Doe/Test Book (1)", Format: &format},
		2: {ID: 2, Title: "Metadata Only", Path: "Jane Doe/Test Book (1)"},
		3: {ID: 3, Title: "Lost", Author: "Jane Doe", Path: "Missing/Dir (3)", Format: &format},
	}
	store := &mockBookStore{
		findByIDFn: func(ctx context.Context, id int64) (*catalog.Book, error) {
			if book, ok := books[id]; ok {
				return book, nil
			}
			return nil, apperr.NotFound("Book")
		},
	}
	router, token := newCatalogRouter(store, libraryRoot)

	t.Run("streams_with_attachment_headers", func(t *testing.T) {
		response := doGet(router, token, "/api/books/1/download")
		require.Equal(t, http.StatusOK, response.Code)

		assert.Equal(t, `attachment; filename="Test Book.epub"`, response.Header().Get("Content-Disposition"))
		assert.Equal(t, "application/epub", response.Header().Get("Content-Type"))
		assert.Equal(t, "epub-bytes", response.Body.String())
	})

	t.Run("no_stored_file_is_404", func(t *testing.T) {
		response := doGet(router, token, "/api/books/2/download")
		require.Equal(t, http.StatusNotFound, response.Code)
		assert.Equal(t, "Book file not found", errorMessage(t, response))
	})

	t.Run("file_missing_on_disk_is_404", func(t *testing.T) {
		response := doGet(router, token, "/api/books/3/download")
		require.Equal(t, http.StatusNotFound, response.Code)
		assert.Equal(t, "Book file not found", errorMessage(t, response))
	})
}
