// Kennelwise - Pet Boarding, Daycare & Grooming Operations Platform
// Copyright 2026 Kennelwise Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kennelwise/kennelwise

package api

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/kennelwise/kennelwise/internal/availability"
	"github.com/kennelwise/kennelwise/internal/models"
	"github.com/kennelwise/kennelwise/internal/tenant"
)

// ResourceCreate adds a bookable unit. The resource type is normalized, so
// "cage" and "dog run" land on KENNEL and "vip" on VIP_SUITE.
func (h *Handler) ResourceCreate(w http.ResponseWriter, r *http.Request) {
	t := tenant.FromContext(r.Context())

	var req models.CreateResourceRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}

	res := resourceFromRequest(t.ID, &req)
	if err := h.db.CreateResource(r.Context(), res); err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "could not create resource", err)
		return
	}
	respondData(w, http.StatusCreated, res)
}

// ResourceGet returns one resource.
func (h *Handler) ResourceGet(w http.ResponseWriter, r *http.Request) {
	t := tenant.FromContext(r.Context())
	id, ok := urlUUID(w, r, "id")
	if !ok {
		return
	}

	res, err := h.db.GetResource(r.Context(), t.ID, id)
	if err != nil {
		h.respondLookupError(w, err, "resource")
		return
	}
	respondData(w, http.StatusOK, res)
}

// ResourceList returns resources, optionally filtered by type (aliases and
// the "suite" wildcard accepted) and active flag.
func (h *Handler) ResourceList(w http.ResponseWriter, r *http.Request) {
	t := tenant.FromContext(r.Context())

	types := availability.ExpandTypes(r.URL.Query().Get("type"))
	activeOnly := r.URL.Query().Get("include_inactive") != "true"

	resources, err := h.db.ListResources(r.Context(), t.ID, types, activeOnly)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "could not list resources", err)
		return
	}
	respondData(w, http.StatusOK, resources)
}

// ResourceUpdate replaces a resource's fields.
func (h *Handler) ResourceUpdate(w http.ResponseWriter, r *http.Request) {
	t := tenant.FromContext(r.Context())
	id, ok := urlUUID(w, r, "id")
	if !ok {
		return
	}

	var req models.CreateResourceRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}

	res := resourceFromRequest(t.ID, &req)
	res.ID = id
	if err := h.db.UpdateResource(r.Context(), res); err != nil {
		h.respondLookupError(w, err, "resource")
		return
	}
	respondData(w, http.StatusOK, res)
}

// ResourceDeactivate soft-deletes a resource: it leaves availability but
// keeps its reservation history.
func (h *Handler) ResourceDeactivate(w http.ResponseWriter, r *http.Request) {
	t := tenant.FromContext(r.Context())
	id, ok := urlUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.db.DeactivateResource(r.Context(), t.ID, id); err != nil {
		h.respondLookupError(w, err, "resource")
		return
	}
	respondData(w, http.StatusOK, map[string]string{"id": id.String(), "active": "false"})
}

func resourceFromRequest(tenantID uuid.UUID, req *models.CreateResourceRequest) *models.Resource {
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	return &models.Resource{
		TenantID:     tenantID,
		Name:         req.Name,
		ResourceType: availability.NormalizeType(req.ResourceType),
		Capacity:     req.Capacity,
		Active:       active,
		Notes:        req.Notes,
	}
}
