// Kennelwise - Pet Boarding, Daycare & Grooming Operations Platform
// Copyright 2026 Kennelwise Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kennelwise/kennelwise

package api

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/kennelwise/kennelwise/internal/models"
	"github.com/kennelwise/kennelwise/internal/tenant"
)

// ServiceCreate adds a sellable offering.
func (h *Handler) ServiceCreate(w http.ResponseWriter, r *http.Request) {
	t := tenant.FromContext(r.Context())

	var req models.CreateServiceRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}

	s := serviceFromRequest(t.ID, &req)
	if err := h.db.CreateService(r.Context(), s); err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "could not create service", err)
		return
	}
	respondData(w, http.StatusCreated, s)
}

// ServiceGet returns one service.
func (h *Handler) ServiceGet(w http.ResponseWriter, r *http.Request) {
	t := tenant.FromContext(r.Context())
	id, ok := urlUUID(w, r, "id")
	if !ok {
		return
	}

	s, err := h.db.GetService(r.Context(), t.ID, id)
	if err != nil {
		h.respondLookupError(w, err, "service")
		return
	}
	respondData(w, http.StatusOK, s)
}

// ServiceList returns services, optionally filtered by category.
func (h *Handler) ServiceList(w http.ResponseWriter, r *http.Request) {
	t := tenant.FromContext(r.Context())

	category := r.URL.Query().Get("category")
	activeOnly := r.URL.Query().Get("include_inactive") != "true"

	services, err := h.db.ListServices(r.Context(), t.ID, category, activeOnly)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "could not list services", err)
		return
	}
	respondData(w, http.StatusOK, services)
}

// ServiceUpdate replaces a service's fields.
func (h *Handler) ServiceUpdate(w http.ResponseWriter, r *http.Request) {
	t := tenant.FromContext(r.Context())
	id, ok := urlUUID(w, r, "id")
	if !ok {
		return
	}

	var req models.CreateServiceRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}

	s := serviceFromRequest(t.ID, &req)
	s.ID = id
	if err := h.db.UpdateService(r.Context(), s); err != nil {
		h.respondLookupError(w, err, "service")
		return
	}
	respondData(w, http.StatusOK, s)
}

// AddOnCreate attaches an add-on to a service.
func (h *Handler) AddOnCreate(w http.ResponseWriter, r *http.Request) {
	t := tenant.FromContext(r.Context())

	var req models.CreateAddOnRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}

	serviceID := uuid.MustParse(req.ServiceID)
	if _, err := h.db.GetService(r.Context(), t.ID, serviceID); err != nil {
		h.respondLookupError(w, err, "service")
		return
	}

	a := &models.AddOn{
		TenantID:   t.ID,
		ServiceID:  serviceID,
		Name:       req.Name,
		PriceCents: req.PriceCents,
		Active:     true,
	}
	if err := h.db.CreateAddOn(r.Context(), a); err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "could not create add-on", err)
		return
	}
	respondData(w, http.StatusCreated, a)
}

// AddOnList returns add-ons, optionally filtered by service_id.
func (h *Handler) AddOnList(w http.ResponseWriter, r *http.Request) {
	t := tenant.FromContext(r.Context())

	serviceID, err := parseOptionalUUID(r.URL.Query().Get("service_id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "service_id must be a valid UUID", nil)
		return
	}

	addOns, err := h.db.ListAddOns(r.Context(), t.ID, serviceID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "could not list add-ons", err)
		return
	}
	respondData(w, http.StatusOK, addOns)
}

func serviceFromRequest(tenantID uuid.UUID, req *models.CreateServiceRequest) *models.Service {
	active := true
	if req.Active != nil {
		active = *req.Active
	}
	return &models.Service{
		TenantID:    tenantID,
		Name:        req.Name,
		Category:    req.Category,
		RateCents:   req.RateCents,
		Description: req.Description,
		Active:      active,
	}
}
