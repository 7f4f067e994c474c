// Kennelwise - Pet Boarding, Daycare & Grooming Operations Platform
// Copyright 2026 Kennelwise Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kennelwise/kennelwise

package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/kennelwise/kennelwise/internal/database"
	"github.com/kennelwise/kennelwise/internal/logging"
	"github.com/kennelwise/kennelwise/internal/models"
)

// Tenant provisioning is a platform-operator surface: every handler here
// sits behind RequireSuperAdmin and is never reachable with a staff JWT.

// TenantCreate provisions a new tenant.
func (h *Handler) TenantCreate(w http.ResponseWriter, r *http.Request) {
	var req models.CreateTenantRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}

	t := &models.Tenant{
		Name:      req.Name,
		Subdomain: strings.ToLower(req.Subdomain),
		Timezone:  req.Timezone,
	}
	if err := h.db.CreateTenant(r.Context(), t); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			respondError(w, http.StatusConflict, "CONFLICT", "subdomain already in use", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "could not create tenant", err)
		return
	}

	logging.Ctx(r.Context()).Info().
		Str("tenant_id", t.ID.String()).
		Str("subdomain", t.Subdomain).
		Msg("tenant provisioned")
	respondData(w, http.StatusCreated, t)
}

// TenantList returns all tenants on the platform.
func (h *Handler) TenantList(w http.ResponseWriter, r *http.Request) {
	tenants, err := h.db.ListTenants(r.Context())
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "could not list tenants", err)
		return
	}
	respondData(w, http.StatusOK, tenants)
}

// TenantGet returns one tenant by ID.
func (h *Handler) TenantGet(w http.ResponseWriter, r *http.Request) {
	id, ok := urlUUID(w, r, "id")
	if !ok {
		return
	}

	t, err := h.db.GetTenantByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondError(w, http.StatusNotFound, "NOT_FOUND", "tenant not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "could not load tenant", err)
		return
	}
	respondData(w, http.StatusOK, t)
}

// tenantStatusRequest updates a tenant's lifecycle status.
type tenantStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=ACTIVE PAUSED SUSPENDED"`
}

// TenantUpdateStatus pauses, suspends, or reactivates a tenant. Paused and
// suspended tenants stop serving API traffic immediately; their data stays
// intact.
func (h *Handler) TenantUpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := urlUUID(w, r, "id")
	if !ok {
		return
	}

	var req tenantStatusRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}

	if err := h.db.UpdateTenantStatus(r.Context(), id, req.Status); err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondError(w, http.StatusNotFound, "NOT_FOUND", "tenant not found", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "could not update tenant", err)
		return
	}

	logging.Ctx(r.Context()).Info().
		Str("tenant_id", id.String()).
		Str("status", req.Status).
		Msg("tenant status changed")
	respondData(w, http.StatusOK, map[string]string{"id": id.String(), "status": req.Status})
}
