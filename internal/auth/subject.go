// Kennelwise - Pet Boarding, Daycare & Grooming Operations Platform
// Copyright 2026 Kennelwise Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kennelwise/kennelwise

package auth

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/kennelwise/kennelwise/internal/models"
)

// Standard authentication errors.
var (
	// ErrNoCredentials indicates no credentials were provided.
	ErrNoCredentials = errors.New("no credentials provided")

	// ErrInvalidCredentials indicates credentials were invalid.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrTenantMismatch indicates a token issued for a different tenant.
	ErrTenantMismatch = errors.New("token tenant does not match request tenant")
)

// Subject is the authenticated caller attached to the request context.
// Regular staff subjects carry their staff ID, role, and tenant; the
// super-admin subject has SuperAdmin set and no tenant binding.
type Subject struct {
	StaffID  uuid.UUID
	Email    string
	Role     string
	TenantID uuid.UUID

	// SuperAdmin marks requests authenticated with the platform API key.
	// Super-admin bypasses role checks and may address any tenant.
	SuperAdmin bool
}

// HasRole reports whether the subject's role is at least the required one
// in the admin > manager > staff hierarchy. Super-admin always passes.
func (s *Subject) HasRole(required string) bool {
	if s.SuperAdmin {
		return true
	}
	return models.RoleAtLeast(s.Role, required)
}

// SubjectFromClaims converts validated JWT claims into a Subject.
func SubjectFromClaims(claims *Claims) (*Subject, error) {
	if claims == nil {
		return nil, ErrInvalidCredentials
	}
	staffID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	tenantID, err := uuid.Parse(claims.TenantID)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	return &Subject{
		StaffID:  staffID,
		Email:    claims.Email,
		Role:     claims.Role,
		TenantID: tenantID,
	}, nil
}

type contextKey string

const subjectContextKey contextKey = "kennelwise_auth_subject"

// ContextWithSubject attaches the authenticated subject to the context.
func ContextWithSubject(ctx context.Context, s *Subject) context.Context {
	return context.WithValue(ctx, subjectContextKey, s)
}

// SubjectFromContext returns the authenticated subject, or nil on
// unauthenticated routes.
func SubjectFromContext(ctx context.Context) *Subject {
	s, _ := ctx.Value(subjectContextKey).(*Subject)
	return s
}
