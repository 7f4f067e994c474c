// Kennelwise - Pet Boarding, Daycare & Grooming Operations Platform
// Copyright 2026 Kennelwise Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kennelwise/kennelwise

package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/kennelwise/kennelwise/internal/database"
	"github.com/kennelwise/kennelwise/internal/models"
	"github.com/kennelwise/kennelwise/internal/tenant"
)

// CustomerCreate registers a new pet owner.
func (h *Handler) CustomerCreate(w http.ResponseWriter, r *http.Request) {
	t := tenant.FromContext(r.Context())

	var req models.CreateCustomerRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}

	c := customerFromRequest(t.ID, &req)
	if err := h.db.CreateCustomer(r.Context(), c); err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "could not create customer", err)
		return
	}
	respondData(w, http.StatusCreated, c)
}

// CustomerGet returns one customer.
func (h *Handler) CustomerGet(w http.ResponseWriter, r *http.Request) {
	t := tenant.FromContext(r.Context())
	id, ok := urlUUID(w, r, "id")
	if !ok {
		return
	}

	c, err := h.db.GetCustomer(r.Context(), t.ID, id)
	if err != nil {
		h.respondLookupError(w, err, "customer")
		return
	}
	respondData(w, http.StatusOK, c)
}

// CustomerList returns customers, optionally filtered by a name/email
// search term, with offset pagination.
func (h *Handler) CustomerList(w http.ResponseWriter, r *http.Request) {
	t := tenant.FromContext(r.Context())
	limit, offset := h.pagination(r)
	search := r.URL.Query().Get("search")

	customers, total, err := h.db.ListCustomers(r.Context(), t.ID, search, limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "could not list customers", err)
		return
	}
	respondData(w, http.StatusOK, paginate(customers, len(customers), limit, offset, total))
}

// CustomerUpdate replaces a customer's profile fields.
func (h *Handler) CustomerUpdate(w http.ResponseWriter, r *http.Request) {
	t := tenant.FromContext(r.Context())
	id, ok := urlUUID(w, r, "id")
	if !ok {
		return
	}

	var req models.CreateCustomerRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}

	c := customerFromRequest(t.ID, &req)
	c.ID = id
	if err := h.db.UpdateCustomer(r.Context(), c); err != nil {
		h.respondLookupError(w, err, "customer")
		return
	}
	respondData(w, http.StatusOK, c)
}

// CustomerDelete removes a customer and their pets. Reservation history is
// retained for reporting.
func (h *Handler) CustomerDelete(w http.ResponseWriter, r *http.Request) {
	t := tenant.FromContext(r.Context())
	id, ok := urlUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.db.DeleteCustomer(r.Context(), t.ID, id); err != nil {
		h.respondLookupError(w, err, "customer")
		return
	}
	respondData(w, http.StatusOK, map[string]string{"id": id.String(), "deleted": "true"})
}

// PetCreate registers a pet under a customer.
func (h *Handler) PetCreate(w http.ResponseWriter, r *http.Request) {
	t := tenant.FromContext(r.Context())

	var req models.CreatePetRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}

	customerID := uuid.MustParse(req.CustomerID)
	if _, err := h.db.GetCustomer(r.Context(), t.ID, customerID); err != nil {
		h.respondLookupError(w, err, "customer")
		return
	}

	p := petFromRequest(t.ID, customerID, &req)
	if err := h.db.CreatePet(r.Context(), p); err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "could not create pet", err)
		return
	}
	respondData(w, http.StatusCreated, p)
}

// PetGet returns one pet.
func (h *Handler) PetGet(w http.ResponseWriter, r *http.Request) {
	t := tenant.FromContext(r.Context())
	id, ok := urlUUID(w, r, "id")
	if !ok {
		return
	}

	p, err := h.db.GetPet(r.Context(), t.ID, id)
	if err != nil {
		h.respondLookupError(w, err, "pet")
		return
	}
	respondData(w, http.StatusOK, p)
}

// PetList returns pets, optionally filtered by customer_id.
func (h *Handler) PetList(w http.ResponseWriter, r *http.Request) {
	t := tenant.FromContext(r.Context())

	customerID, err := parseOptionalUUID(r.URL.Query().Get("customer_id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "customer_id must be a valid UUID", nil)
		return
	}

	pets, err := h.db.ListPets(r.Context(), t.ID, customerID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "could not list pets", err)
		return
	}
	respondData(w, http.StatusOK, pets)
}

// PetUpdate replaces a pet's profile fields.
func (h *Handler) PetUpdate(w http.ResponseWriter, r *http.Request) {
	t := tenant.FromContext(r.Context())
	id, ok := urlUUID(w, r, "id")
	if !ok {
		return
	}

	var req models.CreatePetRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}

	p := petFromRequest(t.ID, uuid.MustParse(req.CustomerID), &req)
	p.ID = id
	if err := h.db.UpdatePet(r.Context(), p); err != nil {
		h.respondLookupError(w, err, "pet")
		return
	}
	respondData(w, http.StatusOK, p)
}

// PetDelete removes a pet.
func (h *Handler) PetDelete(w http.ResponseWriter, r *http.Request) {
	t := tenant.FromContext(r.Context())
	id, ok := urlUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.db.DeletePet(r.Context(), t.ID, id); err != nil {
		h.respondLookupError(w, err, "pet")
		return
	}
	respondData(w, http.StatusOK, map[string]string{"id": id.String(), "deleted": "true"})
}

// respondLookupError maps database errors from single-row lookups onto the
// standard NOT_FOUND / DATABASE_ERROR responses.
func (h *Handler) respondLookupError(w http.ResponseWriter, err error, entity string) {
	if errors.Is(err, database.ErrNotFound) {
		respondError(w, http.StatusNotFound, "NOT_FOUND", entity+" not found", nil)
		return
	}
	respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "could not load "+entity, err)
}

func customerFromRequest(tenantID uuid.UUID, req *models.CreateCustomerRequest) *models.Customer {
	return &models.Customer{
		TenantID:  tenantID,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Address:   req.Address,
		Notes:     req.Notes,
	}
}

func petFromRequest(tenantID, customerID uuid.UUID, req *models.CreatePetRequest) *models.Pet {
	p := &models.Pet{
		TenantID:     tenantID,
		CustomerID:   customerID,
		Name:         req.Name,
		Species:      req.Species,
		Breed:        req.Breed,
		WeightKg:     req.WeightKg,
		MedicalNotes: req.MedicalNotes,
	}
	if req.BirthDate != "" {
		bd := mustParseDate(req.BirthDate)
		p.BirthDate = &bd
	}
	if req.VaccinationExpiry != "" {
		ve := mustParseDate(req.VaccinationExpiry)
		p.VaccinationExpiry = &ve
	}
	return p
}

// vaccinationWarning returns a human-readable warning when the pet's
// vaccination record is expired or missing as of the stay start.
func vaccinationWarning(p *models.Pet, stayStart time.Time) string {
	if p.VaccinationExpiry == nil {
		return "pet has no vaccination record on file"
	}
	if p.VaccinationExpiry.Before(stayStart) {
		return "pet vaccination expires before the stay begins"
	}
	return ""
}
