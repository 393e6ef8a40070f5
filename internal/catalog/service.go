// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"context"
	"path/filepath"

	"github.com/buivan/libris/internal/platform/constants"
	"github.com/buivan/libris/pkg/filename"
	"github.com/buivan/libris/pkg/pagination"
)

// Service implements the catalog use cases: listing, lookup, and resolving
// a book's assets on disk.
type Service struct {
	store       BookStore
	libraryRoot string
}

// NewService creates a new catalog service. libraryRoot is the directory
// holding the book folders the library store's paths are relative to.
func NewService(store BookStore, libraryRoot string) *Service {
	return &Service{
		store:       store,
		libraryRoot: libraryRoot,
	}
}

// Page is one page of catalog results. Total counts every book matching the
// search, not just this page.
type Page struct {
	Books []*Book `json:"books"`
	Total int     `json:"total"`
}

// List returns one page of the catalog filtered by an optional search term.
func (service *Service) List(ctx context.Context, params pagination.Params, search string) (*Page, error) {
	books, total, err := service.store.List(ctx, search, params.Limit, params.Offset())
	if err != nil {
		return nil, err
	}

	if books == nil {
		// An empty page serializes as [] rather than null.
		books = []*Book{}
	}

	return &Page{Books: books, Total: total}, nil
}

// Get retrieves a single book.
func (service *Service) Get(ctx context.Context, id int64) (*Book, error) {
	return service.store.FindByID(ctx, id)
}

// CoverPath resolves the absolute path of a book's cover image. The second
// return value is false when the book has no cover.
//
// Existence on disk is the handler's concern; metadata and filesystem can
// disagree and both must map to the same not-found response.
func (service *Service) CoverPath(book *Book) (string, bool) {
	if !book.HasCover {
		return "", false
	}
	return filepath.Join(service.libraryRoot, filepath.FromSlash(book.Path), constants.CoverFilename), true
}

// FilePath resolves the absolute path of a book's stored file. The second
// return value is false when the library holds no file for the book.
func (service *Service) FilePath(book *Book) (string, bool) {
	if book.Format == nil {
		return "", false
	}

	name := filename.BookFile(book.Title, book.Author, *book.Format)
	return filepath.Join(service.libraryRoot, filepath.FromSlash(book.Path), name), true
}
