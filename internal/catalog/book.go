// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package catalog implements the read-only book catalog backed by an
// externally maintained Calibre library database.
//
// # Architecture
//
// The library store is never written to. Every entity here is a projection
// assembled at query time from Calibre's normalized link tables; there is no
// local copy or cache of library data.
package catalog

// Book is the flattened catalog projection of a library entry.
//
// Optional metadata uses pointers so absent values serialize as JSON null,
// matching what the frontend expects from the library database's nullable
// joins.
type Book struct {
	ID     int64  `json:"id"`
	Title  string `json:"title"`
	Author string `json:"author"`

	Publisher *string `json:"publisher"`
	PubDate   *string `json:"pubdate"`
	ISBN      *string `json:"isbn"`
	Series    *string `json:"series"`
	Language  *string `json:"language"`

	// Format is the lowercased extension of one stored file for the book
	// (epub, pdf, ...). Nil when the library holds metadata but no file.
	Format *string `json:"format"`

	// Path is the book's directory relative to the library root, with
	// forward slashes as stored by the library database.
	Path string `json:"path"`

	HasCover     bool    `json:"has_cover"`
	SeriesIndex  float64 `json:"series_index"`
	Timestamp    string  `json:"timestamp"`
	LastModified string  `json:"last_modified"`
}
