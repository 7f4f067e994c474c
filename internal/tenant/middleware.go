// Kennelwise - Pet Boarding, Daycare & Grooming Operations Platform
// Copyright 2026 Kennelwise Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kennelwise/kennelwise

// Package tenant resolves which facility a request belongs to and makes the
// tenant available on the request context. Every data-plane route runs
// behind this middleware; repository queries then scope by the resolved
// tenant ID.
package tenant

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/kennelwise/kennelwise/internal/logging"
	"github.com/kennelwise/kennelwise/internal/models"
)

// HeaderTenantID carries an explicit tenant ID, taking precedence over
// subdomain resolution. Used by API clients and the super-admin tooling.
const HeaderTenantID = "X-Tenant-ID"

type contextKey string

const tenantContextKey contextKey = "kennelwise_tenant"

// Resolver looks tenants up by the two request-addressable keys.
type Resolver interface {
	GetTenantByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error)
	GetTenantBySubdomain(ctx context.Context, subdomain string) (*models.Tenant, error)
}

// Middleware resolves the tenant for each request.
type Middleware struct {
	resolver Resolver

	// baseDomain is the shared suffix for subdomain resolution:
	// "pawsitive.kennelwise.example" against base "kennelwise.example"
	// resolves the subdomain "pawsitive".
	baseDomain string
}

// NewMiddleware creates the tenant resolution middleware.
func NewMiddleware(resolver Resolver, baseDomain string) *Middleware {
	return &Middleware{resolver: resolver, baseDomain: strings.ToLower(strings.TrimSpace(baseDomain))}
}

// FromContext returns the tenant resolved for the request, or nil when the
// route runs outside tenant scope (health, tenant administration).
func FromContext(ctx context.Context) *models.Tenant {
	t, _ := ctx.Value(tenantContextKey).(*models.Tenant)
	return t
}

// ContextWith returns a context carrying the tenant. Exported for tests and
// for internal jobs that act on behalf of a tenant.
func ContextWith(ctx context.Context, t *models.Tenant) context.Context {
	return context.WithValue(ctx, tenantContextKey, t)
}

// Resolve is the middleware. Resolution order: X-Tenant-ID header, then the
// request host's subdomain. Requests that match neither get 400; unknown
// tenants get 404; paused or suspended tenants get 403.
func (m *Middleware) Resolve(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		tenant, code, errCode, msg := m.lookup(ctx, r)
		if tenant == nil {
			respondTenantError(w, code, errCode, msg)
			return
		}

		ctx = ContextWith(ctx, tenant)
		ctx = logging.ContextWithTenantID(ctx, tenant.ID.String())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (m *Middleware) lookup(ctx context.Context, r *http.Request) (*models.Tenant, int, string, string) {
	if raw := strings.TrimSpace(r.Header.Get(HeaderTenantID)); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, http.StatusBadRequest, "TENANT_REQUIRED", "X-Tenant-ID is not a valid UUID"
		}
		t, err := m.resolver.GetTenantByID(ctx, id)
		if err != nil || t == nil {
			return nil, http.StatusNotFound, "TENANT_NOT_FOUND", "No tenant with the given ID"
		}
		return m.gate(t)
	}

	sub := m.subdomain(r.Host)
	if sub == "" {
		return nil, http.StatusBadRequest, "TENANT_REQUIRED",
			"Provide X-Tenant-ID or use a tenant subdomain"
	}
	t, err := m.resolver.GetTenantBySubdomain(ctx, sub)
	if err != nil || t == nil {
		return nil, http.StatusNotFound, "TENANT_NOT_FOUND", "No tenant for subdomain " + sub
	}
	return m.gate(t)
}

// gate rejects tenants that are not ACTIVE.
func (m *Middleware) gate(t *models.Tenant) (*models.Tenant, int, string, string) {
	if !t.IsActive() {
		return nil, http.StatusForbidden, "TENANT_INACTIVE",
			"Tenant " + t.Subdomain + " is " + strings.ToLower(t.Status)
	}
	return t, 0, "", ""
}

// subdomain extracts the tenant label from the request host. Returns ""
// when the host is the base domain itself, is not under the base domain,
// or no base domain is configured.
func (m *Middleware) subdomain(host string) string {
	if m.baseDomain == "" {
		return ""
	}
	host = strings.ToLower(host)
	if i := strings.IndexByte(host, ':'); i >= 0 {
		host = host[:i]
	}
	suffix := "." + m.baseDomain
	if !strings.HasSuffix(host, suffix) {
		return ""
	}
	label := strings.TrimSuffix(host, suffix)
	// Only a single label resolves; "a.b.base" is not a tenant host.
	if label == "" || strings.Contains(label, ".") {
		return ""
	}
	return label
}

func respondTenantError(w http.ResponseWriter, status int, code, message string) {
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
		logging.Error().Err(err).Msg("Failed to encode tenant error response")
	}
}
