// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buivan/libris/internal/catalog"
	"github.com/buivan/libris/pkg/pagination"
)

// mockBookStore implements catalog.BookStore with per-test overrides.
type mockBookStore struct {
	listFn     func(ctx context.Context, search string, limit, offset int) ([]*catalog.Book, int, error)
	findByIDFn func(ctx context.Context, id int64) (*catalog.Book, error)
}

func (m *mockBookStore) List(ctx context.Context, search string, limit, offset int) ([]*catalog.Book, int, error) {
	return m.listFn(ctx, search, limit, offset)
}

func (m *mockBookStore) FindByID(ctx context.Context, id int64) (*catalog.Book, error) {
	return m.findByIDFn(ctx, id)
}

func strPtr(s string) *string { return &s }

/*
TestService_List verifies pagination parameters translate into store calls.
*/
func TestService_List(t *testing.T) {
	store := &mockBookStore{
		listFn: func(ctx context.Context, search string, limit, offset int) ([]*catalog.Book, int, error) {
			assert.Equal(t, "dune", search)
			assert.Equal(t, 20, limit)
			assert.Equal(t, 40, offset)
			return []*catalog.Book{{ID: 1, Title: "Dune"}}, 57, nil
		},
	}
	service := catalog.NewService(store, "/library")

	page, err := service.List(context.Background(), pagination.Params{Page: 3, Limit: 20}, "dune")
	require.NoError(t, err)

	assert.Equal(t, 57, page.Total)
	require.Len(t, page.Books, 1)
	assert.Equal(t, "Dune", page.Books[0].Title)
}

/*
TestService_CoverPath verifies cover resolution against the library root.
*/
func TestService_CoverPath(t *testing.T) {
	service := catalog.NewService(&mockBookStore{}, "/library")

	t.Run("with_cover", func(t *testing.T) {
		book := &catalog.Book{Path: "Frank Herbert/Dune (1)", HasCover: true}

		path, ok := service.CoverPath(book)
		require.True(t, ok)
		assert.Equal(t, filepath.Join("/library", "Frank Herbert", "Dune (1)", "cover.jpg"), path)
	})

	t.Run("without_cover", func(t *testing.T) {
		book := &catalog.Book{Path: "Frank Herbert/Dune (1)", HasCover: false}

		_, ok := service.CoverPath(book)
		assert.False(t, ok)
	})
}

/*
TestService_FilePath verifies book file resolution and the author-aware
naming convention.
*/
func TestService_FilePath(t *testing.T) {
	service := catalog.NewService(&mockBookStore{}, "/library")

	t.Run("single_author", func(t *testing.T) {
		book := &catalog.Book{
			Title:  "Dune",
			Author: "Frank Herbert",
			Path:   "Frank Herbert/Dune (1)",
			Format: strPtr("epub"),
		}

		path, ok := service.FilePath(book)
		require.True(t, ok)
		assert.Equal(t, filepath.Join("/library", "Frank Herbert", "Dune (1)", "Dune - Frank Herbert.epub"), path)
	})

	t.Run("no_stored_file", func(t *testing.T) {
		book := &catalog.Book{Title: "Dune", Path: "Frank Herbert/Dune (1)"}

		_, ok := service.FilePath(book)
		assert.False(t, ok)
	})

	t.Run("anonymous_work", func(t *testing.T) {
		book := &catalog.Book{Title: "Beowulf", Path: "Unknown/Beowulf (2)", Format: strPtr("pdf")}

		path, ok := service.FilePath(book)
		require.True(t, ok)
		assert.Equal(t, filepath.Join("/library", "Unknown", "Beowulf (2)", "Beowulf.pdf"), path)
	})
}
