// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/buivan/libris/internal/platform/dberr"
)

// SQLiteBookStore implements [BookStore] against a Calibre metadata database
// opened read-only.
type SQLiteBookStore struct {
	db *sql.DB
}

// NewBookStore creates a new SQLite implementation of the BookStore.
//
// The handle is shared and long-lived; the store never closes it.
func NewBookStore(db *sql.DB) *SQLiteBookStore {
	return &SQLiteBookStore{db: db}
}

// bookColumns is the flattened projection over Calibre's normalized schema.
// Authors collapse to a single comma-joined string; publisher, series, and
// language resolve through their link tables; format takes one stored file
// per book (Calibre guarantees no ordering here, and neither do we).
const bookColumns = `
	b.id,
	b.title,
	COALESCE((SELECT group_concat(a.name, ', ')
	          FROM books_authors_link bal
	          JOIN authors a ON a.id = bal.author
	          WHERE bal.book = b.id), '') AS author,
	(SELECT p.name
	 FROM books_publishers_link bpl
	 JOIN publishers p ON p.id = bpl.publisher
	 WHERE bpl.book = b.id) AS publisher,
	b.pubdate,
	b.isbn,
	(SELECT s.name
	 FROM books_series_link bsl
	 JOIN series s ON s.id = bsl.series
	 WHERE bsl.book = b.id) AS series,
	b.series_index,
	(SELECT l.lang_code
	 FROM books_languages_link bll
	 JOIN languages l ON l.id = bll.lang_code
	 WHERE bll.book = b.id) AS language,
	(SELECT LOWER(d.format) FROM data d WHERE d.book = b.id LIMIT 1) AS format,
	b.path,
	b.has_cover,
	b.timestamp,
	b.last_modified`

// searchFilter matches a LIKE pattern against the title or the joined author
// string. The count and page queries in List share this predicate verbatim so
// the reported total always agrees with the rows.
const searchFilter = `(b.title LIKE ? ESCAPE '\'
	OR COALESCE((SELECT group_concat(a.name, ', ')
	             FROM books_authors_link bal
	             JOIN authors a ON a.id = bal.author
	             WHERE bal.book = b.id), '') LIKE ? ESCAPE '\')`

// List returns one page of books plus the total matching count.
func (store *SQLiteBookStore) List(ctx context.Context, search string, limit, offset int) ([]*Book, int, error) {
	countQuery := `SELECT COUNT(*) FROM books b`
	pageQuery := `SELECT ` + bookColumns + ` FROM books b`

	var filterArgs []any
	if search != "" {
		pattern := "%" + escapeLike(search) + "%"
		filterArgs = []any{pattern, pattern}
		countQuery += ` WHERE ` + searchFilter
		pageQuery += ` WHERE ` + searchFilter
	}

	var total int
	if err := store.db.QueryRowContext(ctx, countQuery, filterArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("sqlite_book_store_count_failed: %w", err)
	}

	// Newest first; the id tie-break keeps pagination stable when imports
	// share a timestamp.
	pageQuery += ` ORDER BY b.timestamp DESC, b.id DESC LIMIT ? OFFSET ?`
	args := append(filterArgs, limit, offset)

	rows, err := store.db.QueryContext(ctx, pageQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("sqlite_book_store_list_failed: %w", err)
	}
	defer rows.Close()

	books := make([]*Book, 0, limit)
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("sqlite_book_store_list_failed: %w", err)
		}
		books = append(books, book)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("sqlite_book_store_list_failed: %w", err)
	}

	return books, total, nil
}

// FindByID retrieves a single book projection.
func (store *SQLiteBookStore) FindByID(ctx context.Context, id int64) (*Book, error) {
	query := `SELECT ` + bookColumns + ` FROM books b WHERE b.id = ?`

	book, err := scanBook(store.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "Book")
	}

	return book, nil
}

// escapeLike neutralizes LIKE metacharacters in user-supplied search terms so
// they match literally.
func escapeLike(term string) string {
	replacer := strings.NewReplacer(
		`\`, `\\`,
		`%`, `\%`,
		`_`, `\_`,
	)
	return replacer.Replace(term)
}

// ── Row Mapping ──────────────────────────────────────────────────────────────

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBook(row rowScanner) (*Book, error) {
	var (
		book         Book
		publisher    sql.NullString
		pubDate      sql.NullString
		isbn         sql.NullString
		series       sql.NullString
		seriesIndex  sql.NullFloat64
		language     sql.NullString
		format       sql.NullString
		hasCover     int
		timestamp    sql.NullString
		lastModified sql.NullString
	)

	err := row.Scan(
		&book.ID,
		&book.Title,
		&book.Author,
		&publisher,
		&pubDate,
		&isbn,
		&series,
		&seriesIndex,
		&language,
		&format,
		&book.Path,
		&hasCover,
		&timestamp,
		&lastModified,
	)
	if err != nil {
		return nil, err
	}

	book.Publisher = optionalString(publisher)
	book.PubDate = optionalString(pubDate)
	book.ISBN = optionalString(isbn)
	book.Series = optionalString(series)
	book.Language = optionalString(language)
	book.Format = optionalString(format)
	book.HasCover = hasCover == 1
	book.SeriesIndex = seriesIndex.Float64
	book.Timestamp = timestamp.String
	book.LastModified = lastModified.String

	return &book, nil
}

// optionalString maps NULL and Calibre's empty-string defaults to a nil
// pointer so they serialize as JSON null.
func optionalString(value sql.NullString) *string {
	if !value.Valid || value.String == "" {
		return nil
	}
	s := value.String
	return &s
}
