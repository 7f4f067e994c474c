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

	"github.com/kennelwise/kennelwise/internal/auth"
	"github.com/kennelwise/kennelwise/internal/database"
	"github.com/kennelwise/kennelwise/internal/models"
	"github.com/kennelwise/kennelwise/internal/tenant"
)

// StaffCreate provisions a staff login. Admin only.
func (h *Handler) StaffCreate(w http.ResponseWriter, r *http.Request) {
	t := tenant.FromContext(r.Context())

	var req models.CreateStaffRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}

	hash, err := auth.HashPassword(req.Password, h.cfg.Security.BcryptCost)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "could not hash password", err)
		return
	}

	s := &models.StaffMember{
		TenantID:     t.ID,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Role:         req.Role,
		PasswordHash: hash,
		Active:       true,
	}
	if err := h.db.CreateStaff(r.Context(), s); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			respondError(w, http.StatusConflict, "CONFLICT", "email already registered for this tenant", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "could not create staff member", err)
		return
	}
	respondData(w, http.StatusCreated, s)
}

// StaffGet returns one staff member.
func (h *Handler) StaffGet(w http.ResponseWriter, r *http.Request) {
	t := tenant.FromContext(r.Context())
	id, ok := urlUUID(w, r, "id")
	if !ok {
		return
	}

	s, err := h.db.GetStaff(r.Context(), t.ID, id)
	if err != nil {
		h.respondLookupError(w, err, "staff member")
		return
	}
	respondData(w, http.StatusOK, s)
}

// StaffList returns the tenant's staff.
func (h *Handler) StaffList(w http.ResponseWriter, r *http.Request) {
	t := tenant.FromContext(r.Context())
	activeOnly := r.URL.Query().Get("include_inactive") != "true"

	staff, err := h.db.ListStaff(r.Context(), t.ID, activeOnly)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "could not list staff", err)
		return
	}
	respondData(w, http.StatusOK, staff)
}

// updateStaffRequest updates profile fields; password changes go through
// StaffUpdatePassword.
type updateStaffRequest struct {
	FirstName string `json:"first_name" validate:"required,min=1,max=80"`
	LastName  string `json:"last_name" validate:"required,min=1,max=80"`
	Role      string `json:"role" validate:"required,oneof=admin manager staff"`
	Active    *bool  `json:"active" validate:"omitempty"`
}

// StaffUpdate updates a staff member's profile and role. Admin only.
func (h *Handler) StaffUpdate(w http.ResponseWriter, r *http.Request) {
	t := tenant.FromContext(r.Context())
	id, ok := urlUUID(w, r, "id")
	if !ok {
		return
	}

	var req updateStaffRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}

	s, err := h.db.GetStaff(r.Context(), t.ID, id)
	if err != nil {
		h.respondLookupError(w, err, "staff member")
		return
	}
	s.FirstName = req.FirstName
	s.LastName = req.LastName
	s.Role = req.Role
	if req.Active != nil {
		s.Active = *req.Active
	}

	if err := h.db.UpdateStaff(r.Context(), s); err != nil {
		h.respondLookupError(w, err, "staff member")
		return
	}
	respondData(w, http.StatusOK, s)
}

type updatePasswordRequest struct {
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// StaffUpdatePassword replaces a staff member's password. Admin only.
func (h *Handler) StaffUpdatePassword(w http.ResponseWriter, r *http.Request) {
	t := tenant.FromContext(r.Context())
	id, ok := urlUUID(w, r, "id")
	if !ok {
		return
	}

	var req updatePasswordRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}

	hash, err := auth.HashPassword(req.Password, h.cfg.Security.BcryptCost)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "could not hash password", err)
		return
	}
	if err := h.db.UpdateStaffPassword(r.Context(), t.ID, id, hash); err != nil {
		h.respondLookupError(w, err, "staff member")
		return
	}
	respondData(w, http.StatusOK, map[string]string{"id": id.String(), "updated": "true"})
}

// ShiftCreate schedules a work block for a staff member.
func (h *Handler) ShiftCreate(w http.ResponseWriter, r *http.Request) {
	t := tenant.FromContext(r.Context())

	var req models.CreateShiftRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}

	startsAt, _ := time.Parse(time.RFC3339, req.StartsAt)
	endsAt, _ := time.Parse(time.RFC3339, req.EndsAt)
	if !endsAt.After(startsAt) {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "ends_at must be after starts_at", nil)
		return
	}

	staffID := uuid.MustParse(req.StaffID)
	if _, err := h.db.GetStaff(r.Context(), t.ID, staffID); err != nil {
		h.respondLookupError(w, err, "staff member")
		return
	}

	shift := &models.Shift{
		TenantID: t.ID,
		StaffID:  staffID,
		StartsAt: startsAt,
		EndsAt:   endsAt,
		Role:     req.Role,
		Notes:    req.Notes,
	}
	if err := h.db.CreateShift(r.Context(), shift); err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "could not create shift", err)
		return
	}
	respondData(w, http.StatusCreated, shift)
}

// ShiftList returns shifts overlapping a time window, optionally filtered by
// staff member. The window defaults to the next seven days.
func (h *Handler) ShiftList(w http.ResponseWriter, r *http.Request) {
	t := tenant.FromContext(r.Context())

	staffID, err := parseOptionalUUID(r.URL.Query().Get("staff_id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "staff_id must be a valid UUID", nil)
		return
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	from, ok := parseDateParam(r, "from", today)
	if !ok {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "from must be YYYY-MM-DD", nil)
		return
	}
	to, ok := parseDateParam(r, "to", from.AddDate(0, 0, 7))
	if !ok {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "to must be YYYY-MM-DD", nil)
		return
	}

	shifts, err := h.db.ListShifts(r.Context(), t.ID, staffID, from, to)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "could not list shifts", err)
		return
	}
	respondData(w, http.StatusOK, shifts)
}

// ShiftDelete removes a shift.
func (h *Handler) ShiftDelete(w http.ResponseWriter, r *http.Request) {
	t := tenant.FromContext(r.Context())
	id, ok := urlUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.db.DeleteShift(r.Context(), t.ID, id); err != nil {
		h.respondLookupError(w, err, "shift")
		return
	}
	respondData(w, http.StatusOK, map[string]string{"id": id.String(), "deleted": "true"})
}
