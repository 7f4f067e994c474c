// Kennelwise - Pet Boarding, Daycare & Grooming Operations Platform
// Copyright 2026 Kennelwise Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kennelwise/kennelwise

package auth

import (
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/kennelwise/kennelwise/internal/logging"
	"github.com/kennelwise/kennelwise/internal/models"
	"github.com/kennelwise/kennelwise/internal/tenant"
)

// HeaderAPIKey carries the platform super-admin key for cross-tenant
// administration endpoints.
const HeaderAPIKey = "X-Api-Key"

// Middleware guards routes with JWT bearer tokens and the super-admin key.
type Middleware struct {
	jwtManager       *JWTManager
	superAdminAPIKey string
}

// NewMiddleware creates the auth middleware. An empty superAdminAPIKey
// disables super-admin access entirely.
func NewMiddleware(jwtManager *JWTManager, superAdminAPIKey string) *Middleware {
	return &Middleware{jwtManager: jwtManager, superAdminAPIKey: superAdminAPIKey}
}

// RequireAuth authenticates the request. Accepted credentials, in order:
// the super-admin API key, then a Bearer JWT. Staff tokens must match the
// tenant the request resolved to; a token minted for one facility cannot
// read another facility's data even with a forged X-Tenant-ID header.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		if m.isSuperAdmin(r) {
			ctx = ContextWithSubject(ctx, &Subject{SuperAdmin: true})
			next.ServeHTTP(w, r.WithContext(ctx))
			return
		}

		token := bearerToken(r)
		if token == "" {
			respondAuthError(w, http.StatusUnauthorized, "AUTH_REQUIRED", "Authentication required")
			return
		}

		claims, err := m.jwtManager.ValidateToken(token)
		if err != nil {
			logging.Ctx(ctx).Debug().Err(err).Msg("Token validation failed")
			respondAuthError(w, http.StatusUnauthorized, "AUTH_REQUIRED", "Invalid or expired token")
			return
		}

		subject, err := SubjectFromClaims(claims)
		if err != nil {
			respondAuthError(w, http.StatusUnauthorized, "AUTH_REQUIRED", "Invalid token claims")
			return
		}

		if t := tenant.FromContext(ctx); t != nil && subject.TenantID != t.ID {
			respondAuthError(w, http.StatusForbidden, "FORBIDDEN", "Token was issued for a different tenant")
			return
		}

		ctx = ContextWithSubject(ctx, subject)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole returns middleware enforcing a minimum role. Runs after
// RequireAuth; a missing subject is a programming error and yields 401.
func (m *Middleware) RequireRole(required string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			subject := SubjectFromContext(r.Context())
			if subject == nil {
				respondAuthError(w, http.StatusUnauthorized, "AUTH_REQUIRED", "Authentication required")
				return
			}
			if !subject.HasRole(required) {
				respondAuthError(w, http.StatusForbidden, "FORBIDDEN",
					"Requires "+required+" role or higher")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireSuperAdmin guards the cross-tenant administration surface
// (tenant CRUD). Only the platform API key passes.
func (m *Middleware) RequireSuperAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.isSuperAdmin(r) {
			respondAuthError(w, http.StatusForbidden, "FORBIDDEN", "Super-admin API key required")
			return
		}
		ctx := ContextWithSubject(r.Context(), &Subject{SuperAdmin: true})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// isSuperAdmin checks the API key header in constant time.
func (m *Middleware) isSuperAdmin(r *http.Request) bool {
	if m.superAdminAPIKey == "" {
		return false
	}
	provided := r.Header.Get(HeaderAPIKey)
	if provided == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(provided), []byte(m.superAdminAPIKey)) == 1
}

// bearerToken extracts the token from the Authorization header.
func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if len(header) > len(prefix) && strings.EqualFold(header[:len(prefix)], prefix) {
		return strings.TrimSpace(header[len(prefix):])
	}
	return ""
}

func respondAuthError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	resp := models.APIResponse{
		Status:   "error",
		Metadata: models.Metadata{Timestamp: time.Now().UTC()},
		Error: &models.APIError{
			Code:    code,
			Message: message,
		},
	}
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logging.Error().Err(err).Msg("Failed to encode auth error response")
	}
}
