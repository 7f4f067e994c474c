// Kennelwise - Pet Boarding, Daycare & Grooming Operations Platform
// Copyright 2026 Kennelwise Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kennelwise/kennelwise

package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/kennelwise/kennelwise/internal/models"
	"github.com/kennelwise/kennelwise/internal/tenant"
)

const testAPIKey = "super-admin-key-for-tests"

func newAuthFixture(t *testing.T) (*Middleware, *JWTManager) {
	t.Helper()
	jm, err := NewJWTManager(testSecurityConfig())
	if err != nil {
		t.Fatalf("NewJWTManager: %v", err)
	}
	return NewMiddleware(jm, testAPIKey), jm
}

func protectedHandler(captured **Subject) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*captured = SubjectFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequireAuthBearer(t *testing.T) {
	m, jm := newAuthFixture(t)
	tenantID := uuid.New()
	token, _, _ := jm.GenerateToken(uuid.New(), "jo@example.com", "staff", tenantID)

	var got *Subject
	handler := m.RequireAuth(protectedHandler(&got))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/customers", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	req = req.WithContext(tenant.ContextWith(req.Context(), &models.Tenant{
		ID:     tenantID,
		Status: models.TenantStatusActive,
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if got == nil || got.Email != "jo@example.com" {
		t.Errorf("subject = %+v", got)
	}
}

func TestRequireAuthRejections(t *testing.T) {
	m, jm := newAuthFixture(t)
	tenantID := uuid.New()
	token, _, _ := jm.GenerateToken(uuid.New(), "jo@example.com", "staff", tenantID)

	tests := []struct {
		name       string
		mutate     func(*http.Request)
		wantStatus int
		wantCode   string
	}{
		{
			name:       "no credentials",
			mutate:     func(r *http.Request) {},
			wantStatus: http.StatusUnauthorized,
			wantCode:   "AUTH_REQUIRED",
		},
		{
			name: "malformed token",
			mutate: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer nope")
			},
			wantStatus: http.StatusUnauthorized,
			wantCode:   "AUTH_REQUIRED",
		},
		{
			name: "wrong scheme",
			mutate: func(r *http.Request) {
				r.Header.Set("Authorization", "Basic dXNlcjpwYXNz")
			},
			wantStatus: http.StatusUnauthorized,
			wantCode:   "AUTH_REQUIRED",
		},
		{
			name: "cross-tenant token",
			mutate: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer "+token)
				ctx := tenant.ContextWith(r.Context(), &models.Tenant{
					ID:     uuid.New(), // not the token's tenant
					Status: models.TenantStatusActive,
				})
				*r = *r.WithContext(ctx)
			},
			wantStatus: http.StatusForbidden,
			wantCode:   "FORBIDDEN",
		},
		{
			name: "wrong api key",
			mutate: func(r *http.Request) {
				r.Header.Set(HeaderAPIKey, "guess")
			},
			wantStatus: http.StatusUnauthorized,
			wantCode:   "AUTH_REQUIRED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got *Subject
			handler := m.RequireAuth(protectedHandler(&got))
			req := httptest.NewRequest(http.MethodGet, "/api/v1/customers", nil)
			tt.mutate(req)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if got != nil {
				t.Errorf("handler ran with subject %+v", got)
			}
			if !strings.Contains(rec.Body.String(), tt.wantCode) {
				t.Errorf("body %q missing %s", rec.Body.String(), tt.wantCode)
			}
		})
	}
}

func TestRequireAuthSuperAdminKey(t *testing.T) {
	m, _ := newAuthFixture(t)
	var got *Subject
	handler := m.RequireAuth(protectedHandler(&got))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tenants", nil)
	req.Header.Set(HeaderAPIKey, testAPIKey)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got == nil || !got.SuperAdmin {
		t.Errorf("subject = %+v, want super-admin", got)
	}
}

func TestRequireAuthDisabledSuperAdmin(t *testing.T) {
	jm, _ := NewJWTManager(testSecurityConfig())
	m := NewMiddleware(jm, "") // no key configured

	var got *Subject
	handler := m.RequireAuth(protectedHandler(&got))
	req := httptest.NewRequest(http.MethodGet, "/api/v1/tenants", nil)
	req.Header.Set(HeaderAPIKey, "")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("empty configured key must never authenticate, got %d", rec.Code)
	}
}

func TestRequireRole(t *testing.T) {
	m, jm := newAuthFixture(t)
	tenantID := uuid.New()

	run := func(role, required string) int {
		token, _, _ := jm.GenerateToken(uuid.New(), "jo@example.com", role, tenantID)
		var got *Subject
		handler := m.RequireAuth(m.RequireRole(required)(protectedHandler(&got)))
		req := httptest.NewRequest(http.MethodPost, "/api/v1/staff", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec.Code
	}

	if code := run(models.RoleAdmin, models.RoleManager); code != http.StatusOK {
		t.Errorf("admin on manager route: %d", code)
	}
	if code := run(models.RoleStaff, models.RoleManager); code != http.StatusForbidden {
		t.Errorf("staff on manager route: %d, want 403", code)
	}

	// RequireRole without RequireAuth in front is a 401, not a panic.
	var got *Subject
	bare := m.RequireRole(models.RoleStaff)(protectedHandler(&got))
	rec := httptest.NewRecorder()
	bare.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("missing subject: %d, want 401", rec.Code)
	}
}

func TestRequireSuperAdmin(t *testing.T) {
	m, jm := newAuthFixture(t)

	var got *Subject
	handler := m.RequireSuperAdmin(protectedHandler(&got))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/tenants", nil)
	req.Header.Set(HeaderAPIKey, testAPIKey)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK || got == nil || !got.SuperAdmin {
		t.Errorf("super-admin key should pass: %d %+v", rec.Code, got)
	}

	// A staff JWT, even admin role, cannot reach the tenant admin surface.
	token, _, _ := jm.GenerateToken(uuid.New(), "jo@example.com", models.RoleAdmin, uuid.New())
	req = httptest.NewRequest(http.MethodPost, "/api/v1/tenants", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("JWT on super-admin route: %d, want 403", rec.Code)
	}
}
