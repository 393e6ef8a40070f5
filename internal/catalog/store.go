// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"context"
)

// BookStore defines the read-only query contract against the library store.
//
// # Error Contract
//
// FindByID returns an apperr 404 when the book does not exist and an apperr
// 500 wrapping the cause for storage failures.
type BookStore interface {
	// List returns one page of books plus the total count of books matching
	// the same search filter. An empty search matches everything. Both the
	// count and the page are evaluated against an identical predicate so the
	// total is always consistent with the rows returned.
	List(ctx context.Context, search string, limit, offset int) ([]*Book, int, error)

	// FindByID retrieves a single book projection.
	FindByID(ctx context.Context, id int64) (*Book, error)
}
