// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package filename derives file names for book assets.
//
// Two distinct names exist for every downloadable book:
//
//   - the on-disk name inside the book's library directory, which follows
//     the "{title} - {authors}.{format}" convention (the author-aware
//     variant; pipe-delimited author lists are rewritten to ", ");
//   - the attachment name offered to the browser, which is the plain
//     "{title}.{format}" fixed by the API contract.
package filename

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Authors rewrites a pipe-delimited author list to a comma-and-space–joined
// one. Already comma-joined input passes through unchanged.
func Authors(raw string) string {
	if !strings.Contains(raw, "|") {
		return raw
	}

	parts := strings.Split(raw, "|")
	for i, part := range parts {
		parts[i] = strings.TrimSpace(part)
	}
	return strings.Join(parts, ", ")
}

// BookFile returns the on-disk file name for a book inside its library
// directory. Authors may be empty (anonymous works), in which case the
// name degrades to "{title}.{format}".
//
// The result is NFC-normalized so it matches names written by tools that
// compose accented characters differently.
func BookFile(title, authors, format string) string {
	base := title
	if authors != "" {
		base += " - " + Authors(authors)
	}
	return norm.NFC.String(sanitize(base) + "." + format)
}

// Attachment returns the value placed inside the quotes of a
// Content-Disposition filename parameter: "{title}.{format}" with
// backslashes and double quotes escaped so the header stays well-formed.
func Attachment(title, format string) string {
	name := title + "." + format
	name = strings.ReplaceAll(name, `\`, `\\`)
	name = strings.ReplaceAll(name, `"`, `\"`)
	return name
}

// sanitize strips characters that would escape the book directory or break
// the filesystem. Library metadata should never contain these; this is a
// guard, not a normalization pass.
func sanitize(name string) string {
	replacer := strings.NewReplacer(
		"/", " ",
		`\`, " ",
		"\x00", "",
	)
	return strings.TrimSpace(replacer.Replace(name))
}
