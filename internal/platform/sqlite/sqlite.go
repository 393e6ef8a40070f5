// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sqlite provides managed SQLite connections for the two stores the
// application reads: its own app store (read-write) and the external Calibre
// library store (strictly read-only).
//
// # Architecture
//
// This package is part of the Infrastructure layer. Both handles are opened
// once at startup and injected into the repositories; nothing closes a shared
// handle per call. The handles live for the lifetime of the process.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	// CGO-free SQLite driver -- imported for side effect of registering "sqlite".
	_ "modernc.org/sqlite"
)

const (
	// pingTimeout is the maximum duration for a health check ping.
	pingTimeout = 2 * time.Second

	// libraryMaxConns bounds concurrent read connections against the library
	// store. Readers do not block each other in read-only mode.
	libraryMaxConns = 4
)

// OpenAppStore opens the application's own SQLite database read-write.
//
// SQLite permits a single writer, so the pool is capped at one connection;
// this also serializes reads, which is fine at this data volume and avoids
// SQLITE_BUSY churn entirely.
func OpenAppStore(ctx context.Context, path string, logger *slog.Logger) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)", uriPath(path))

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: failed to open app store %s: %w", path, err)
	}
	db.SetMaxOpenConns(1)

	if err := Ping(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("app store opened", slog.String("path", path))
	return db, nil
}

// OpenLibrary opens the external Calibre metadata database read-only.
//
// mode=ro makes accidental writes a driver-level error rather than a silent
// corruption of a store this system does not own.
func OpenLibrary(ctx context.Context, path string, logger *slog.Logger) (*sql.DB, error) {
	dsn := fmt.Sprintf("file:%s?mode=ro&_pragma=busy_timeout(5000)", uriPath(path))

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("sqlite: failed to open library store %s: %w", path, err)
	}
	db.SetMaxOpenConns(libraryMaxConns)

	if err := Ping(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("library store opened", slog.String("path", path))
	return db, nil
}

// uriPath escapes a filesystem path for use inside a "file:" DSN. A literal
// "?" or "#" in the path would otherwise terminate it early and drop the
// pragma query string. SQLite percent-decodes URI filenames, so the escapes
// round-trip to the original path.
func uriPath(path string) string {
	replacer := strings.NewReplacer("%", "%25", "?", "%3F", "#", "%23")
	return replacer.Replace(path)
}

// Ping verifies that a SQLite handle is healthy.
func Ping(ctx context.Context, db *sql.DB) error {
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		return fmt.Errorf("sqlite: ping failed: %w", err)
	}

	return nil
}
