// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr provides a bridge between low-level database errors and
// higher-level application errors.
package dberr

import (
	"database/sql"
	"errors"

	"github.com/buivan/libris/internal/platform/apperr"
)

// Wrap inspects a database error and wraps it into a meaningful [apperr.AppError].
// It hides internal database details from the client while classifying the
// error type: an empty result set becomes a 404 for the named resource,
// everything else is a storage failure (500).
//
// Keeping the two outcomes distinct matters at the service layer: a missing
// row during login means "bad credentials", while a real storage failure must
// surface as an internal error, never as a 401.
func Wrap(err error, resource string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, sql.ErrNoRows) {
		return apperr.NotFound(resource)
	}

	return apperr.Internal(err)
}
