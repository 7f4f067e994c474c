// Kennelwise - Pet Boarding, Daycare & Grooming Operations Platform
// Copyright 2026 Kennelwise Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kennelwise/kennelwise

package database

import (
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
)

// isUniqueConstraintError detects DuckDB uniqueness violations. DuckDB
// reports them in the error message, not a typed error.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key")
}

// mustUUID parses a stored ID column. IDs are written by this package from
// uuid.UUID values, so a parse failure indicates external tampering; the
// zero UUID is returned rather than an error to keep scan paths simple.
func mustUUID(s string) uuid.UUID {
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil
	}
	return id
}

// nullUUIDPtr converts a nullable ID column to *uuid.UUID.
func nullUUIDPtr(ns sql.NullString) *uuid.UUID {
	if !ns.Valid || ns.String == "" {
		return nil
	}
	id := mustUUID(ns.String)
	return &id
}

// uuidPtrValue converts *uuid.UUID to a driver value for nullable columns.
func uuidPtrValue(id *uuid.UUID) any {
	if id == nil {
		return nil
	}
	return id.String()
}

// timePtrValue converts *time.Time to a driver value for nullable columns.
func timePtrValue(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}

// nullTimePtr converts a nullable timestamp column to *time.Time.
func nullTimePtr(nt sql.NullTime) *time.Time {
	if !nt.Valid {
		return nil
	}
	t := nt.Time
	return &t
}
