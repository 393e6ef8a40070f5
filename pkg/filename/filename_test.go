// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package filename_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/buivan/libris/pkg/filename"
)

/*
TestAuthors verifies the pipe-to-comma rewrite of author lists.
*/
func TestAuthors(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"single_author", "Ursula K. Le Guin", "Ursula K. Le Guin"},
		{"pipe_delimited", "Terry Pratchett|Neil Gaiman", "Terry Pratchett, Neil Gaiman"},
		{"pipe_with_spaces", "Terry Pratchett | Neil Gaiman", "Terry Pratchett, Neil Gaiman"},
		{"already_comma_joined", "Terry Pratchett, Neil Gaiman", "Terry Pratchett, Neil Gaiman"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, filename.Authors(tt.raw))
		})
	}
}

/*
TestBookFile verifies the on-disk naming convention for stored book files.
*/
func TestBookFile(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		authors string
		format  string
		want    string
	}{
		{"title_and_author", "Good Omens", "Terry Pratchett|Neil Gaiman", "epub", "Good Omens - Terry Pratchett, Neil Gaiman.epub"},
		{"anonymous_work", "Beowulf", "", "pdf", "Beowulf.pdf"},
		{"slash_stripped", "Fahrenheit 451/2", "Ray Bradbury", "epub", "Fahrenheit 451 2 - Ray Bradbury.epub"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, filename.BookFile(tt.title, tt.authors, tt.format))
		})
	}
}

/*
TestAttachment verifies escaping of the Content-Disposition filename value.
*/
func TestAttachment(t *testing.T) {
	tests := []struct {
		name   string
		title  string
		format string
		want   string
	}{
		{"plain", "Test Book", "epub", "Test Book.epub"},
		{"embedded_quote", `The "Best" Book`, "pdf", `The \"Best\" Book.pdf`},
		{"backslash", `A\B`, "epub", `A\\B.epub`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, filename.Attachment(tt.title, tt.format))
		})
	}
}
