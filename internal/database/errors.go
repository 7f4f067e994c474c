// Kennelwise - Pet Boarding, Daycare & Grooming Operations Platform
// Copyright 2026 Kennelwise Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kennelwise/kennelwise

package database

import (
	"errors"
	"io"

	"github.com/kennelwise/kennelwise/internal/logging"
)

// Sentinel errors returned by the data access layer. Handlers map these to
// NOT_FOUND and CONFLICT API errors.
var (
	// ErrNotFound indicates the requested row does not exist within the
	// caller's tenant.
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate indicates a uniqueness violation (subdomain, staff
	// email within a tenant).
	ErrDuplicate = errors.New("record already exists")
)

// closeQuietly closes a resource and explicitly ignores any error.
// Use in error paths where Close() failures are not actionable.
func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close()
	}
}

// closeRows closes a rows iterator and logs unexpected errors.
func closeRows(closer io.Closer) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.Warn().Err(err).Msg("Failed to close rows")
	}
}
