// Kennelwise - Pet Boarding, Daycare & Grooming Operations Platform
// Copyright 2026 Kennelwise Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kennelwise/kennelwise

package api

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/kennelwise/kennelwise/internal/availability"
	"github.com/kennelwise/kennelwise/internal/billing"
	"github.com/kennelwise/kennelwise/internal/logging"
	"github.com/kennelwise/kennelwise/internal/metrics"
	"github.com/kennelwise/kennelwise/internal/models"
	"github.com/kennelwise/kennelwise/internal/tenant"
)

// reservationResponse wraps a reservation with non-fatal warnings, such as
// an expired vaccination record.
type reservationResponse struct {
	Reservation *models.Reservation `json:"reservation"`
	Warnings    []string            `json:"warnings,omitempty"`
}

// ReservationCreate books a stay. The booking is rejected with CONFLICT when
// the requested resource has no free spot anywhere in the inclusive date
// range; an expired vaccination record produces a warning, not a rejection.
func (h *Handler) ReservationCreate(w http.ResponseWriter, r *http.Request) {
	t := tenant.FromContext(r.Context())

	var req models.CreateReservationRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}

	start := mustParseDate(req.StartDate)
	end := mustParseDate(req.EndDate)
	if end.Before(start) {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "end_date must not precede start_date", nil)
		return
	}

	customerID := uuid.MustParse(req.CustomerID)
	if _, err := h.db.GetCustomer(r.Context(), t.ID, customerID); err != nil {
		h.respondLookupError(w, err, "customer")
		return
	}

	pet, err := h.db.GetPet(r.Context(), t.ID, uuid.MustParse(req.PetID))
	if err != nil {
		h.respondLookupError(w, err, "pet")
		return
	}
	if pet.CustomerID != customerID {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "pet does not belong to the customer", nil)
		return
	}

	svc, err := h.db.GetService(r.Context(), t.ID, uuid.MustParse(req.ServiceID))
	if err != nil {
		h.respondLookupError(w, err, "service")
		return
	}

	res, err := h.db.GetResource(r.Context(), t.ID, uuid.MustParse(req.ResourceID))
	if err != nil {
		h.respondLookupError(w, err, "resource")
		return
	}
	if !res.Active {
		respondError(w, http.StatusConflict, "CONFLICT", "resource is not active", nil)
		return
	}
	if !serviceFitsResource(svc.Category, res.ResourceType) {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR",
			"resource type does not match the service category", nil)
		return
	}

	addOnIDs, apiErr := parseUUIDs(req.AddOnIDs)
	if apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}
	addOns, err := h.db.GetAddOnsByIDs(r.Context(), t.ID, addOnIDs)
	if err != nil {
		h.respondLookupError(w, err, "add-on")
		return
	}

	if _, ok := h.conflictCheck(w, r, t.ID, *res, start, end, uuid.Nil); !ok {
		return
	}

	reservation := &models.Reservation{
		TenantID:   t.ID,
		CustomerID: customerID,
		PetID:      pet.ID,
		ResourceID: res.ID,
		ServiceID:  svc.ID,
		Status:     models.ReservationStatusPending,
		StartDate:  start,
		EndDate:    end,
		AddOnIDs:   addOnIDs,
		TotalCents: billing.QuoteReservation(svc, addOns, start, end),
		Notes:      req.Notes,
	}
	if req.StaffID != "" {
		staffID := uuid.MustParse(req.StaffID)
		reservation.StaffID = &staffID
	}

	if err := h.db.CreateReservation(r.Context(), reservation); err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "could not create reservation", err)
		return
	}

	metrics.ReservationsCreated.WithLabelValues(t.Subdomain).Inc()
	h.hub.BroadcastReservationCreated(t.ID, reservation)

	resp := reservationResponse{Reservation: reservation}
	if warning := vaccinationWarning(pet, start); warning != "" {
		resp.Warnings = append(resp.Warnings, warning)
	}
	respondData(w, http.StatusCreated, resp)
}

// conflictCheck loads the overlapping active reservations for the tenant and
// rejects the request with 409 CONFLICT when the resource has no free spot.
// excludeID skips the reservation being rescheduled.
func (h *Handler) conflictCheck(w http.ResponseWriter, r *http.Request, tenantID uuid.UUID, res models.Resource, start, end time.Time, excludeID uuid.UUID) ([]uuid.UUID, bool) {
	overlapping, err := h.db.ListActiveReservationsOverlapping(r.Context(), tenantID, start, end)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "could not check availability", err)
		return nil, false
	}

	conflict, conflictIDs := h.checker.HasConflict(res, overlapping, start, end, excludeID)
	if conflict {
		ids := make([]interface{}, 0, len(conflictIDs))
		for _, id := range conflictIDs {
			ids = append(ids, id.String())
		}
		respondJSON(w, http.StatusConflict, &models.APIResponse{
			Status:   "error",
			Metadata: models.Metadata{Timestamp: time.Now().UTC()},
			Error: &models.APIError{
				Code:    "CONFLICT",
				Message: "resource is fully booked for the requested dates",
				Details: map[string]interface{}{"conflicting_reservation_ids": ids},
			},
		})
		return conflictIDs, false
	}
	return nil, true
}

// ReservationGet returns one reservation with its add-on IDs.
func (h *Handler) ReservationGet(w http.ResponseWriter, r *http.Request) {
	t := tenant.FromContext(r.Context())
	id, ok := urlUUID(w, r, "id")
	if !ok {
		return
	}

	reservation, err := h.db.GetReservation(r.Context(), t.ID, id)
	if err != nil {
		h.respondLookupError(w, err, "reservation")
		return
	}
	respondData(w, http.StatusOK, reservation)
}

// ReservationList returns reservations matching the query filters. from/to
// select reservations whose inclusive date range intersects the window.
func (h *Handler) ReservationList(w http.ResponseWriter, r *http.Request) {
	t := tenant.FromContext(r.Context())
	limit, offset := h.pagination(r)

	filter := &models.ReservationFilter{
		Status: r.URL.Query().Get("status"),
		Limit:  limit,
		Offset: offset,
	}

	var err error
	if filter.CustomerID, err = parseOptionalUUID(r.URL.Query().Get("customer_id")); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "customer_id must be a valid UUID", nil)
		return
	}
	if filter.PetID, err = parseOptionalUUID(r.URL.Query().Get("pet_id")); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "pet_id must be a valid UUID", nil)
		return
	}
	if filter.ResourceID, err = parseOptionalUUID(r.URL.Query().Get("resource_id")); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "resource_id must be a valid UUID", nil)
		return
	}

	if from, ok := parseDateParam(r, "from", time.Time{}); !ok {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "from must be YYYY-MM-DD", nil)
		return
	} else if !from.IsZero() {
		filter.From = &from
	}
	if to, ok := parseDateParam(r, "to", time.Time{}); !ok {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "to must be YYYY-MM-DD", nil)
		return
	} else if !to.IsZero() {
		filter.To = &to
	}

	reservations, total, err := h.db.ListReservations(r.Context(), t.ID, filter)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "could not list reservations", err)
		return
	}
	respondData(w, http.StatusOK, paginate(reservations, len(reservations), limit, offset, total))
}

// terminalStatuses cannot transition anywhere else.
var terminalStatuses = map[string]bool{
	models.ReservationStatusCheckedOut: true,
	models.ReservationStatusCancelled:  true,
	models.ReservationStatusNoShow:     true,
}

// ReservationUpdateStatus transitions a reservation. Check-in and check-out
// stamp their timestamps; terminal statuses are immutable.
func (h *Handler) ReservationUpdateStatus(w http.ResponseWriter, r *http.Request) {
	t := tenant.FromContext(r.Context())
	id, ok := urlUUID(w, r, "id")
	if !ok {
		return
	}

	var req models.UpdateReservationStatusRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}

	current, err := h.db.GetReservation(r.Context(), t.ID, id)
	if err != nil {
		h.respondLookupError(w, err, "reservation")
		return
	}
	if terminalStatuses[current.Status] {
		respondError(w, http.StatusConflict, "CONFLICT",
			"reservation is already "+current.Status+" and cannot change status", nil)
		return
	}

	if err := h.db.UpdateReservationStatus(r.Context(), t.ID, id, req.Status); err != nil {
		h.respondLookupError(w, err, "reservation")
		return
	}

	h.hub.BroadcastStatusChange(t.ID, id, req.Status)
	logging.Ctx(r.Context()).Info().
		Str("reservation_id", id.String()).
		Str("from", current.Status).
		Str("to", req.Status).
		Msg("reservation status changed")

	reservation, err := h.db.GetReservation(r.Context(), t.ID, id)
	if err != nil {
		h.respondLookupError(w, err, "reservation")
		return
	}
	respondData(w, http.StatusOK, reservation)
}

// updateReservationRequest reschedules a reservation.
type updateReservationRequest struct {
	ResourceID string `json:"resource_id" validate:"omitempty,uuid4"`
	StaffID    string `json:"staff_id" validate:"omitempty,uuid4"`
	StartDate  string `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
	EndDate    string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	Notes      string `json:"notes" validate:"omitempty,max=2000"`
}

// ReservationUpdate reschedules a reservation: new dates, a different
// resource, or an assigned staff member. Date or resource changes re-run the
// conflict check (excluding the reservation itself) and requote the total.
func (h *Handler) ReservationUpdate(w http.ResponseWriter, r *http.Request) {
	t := tenant.FromContext(r.Context())
	id, ok := urlUUID(w, r, "id")
	if !ok {
		return
	}

	var req updateReservationRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}

	reservation, err := h.db.GetReservation(r.Context(), t.ID, id)
	if err != nil {
		h.respondLookupError(w, err, "reservation")
		return
	}
	if terminalStatuses[reservation.Status] {
		respondError(w, http.StatusConflict, "CONFLICT",
			"reservation is already "+reservation.Status+" and cannot be rescheduled", nil)
		return
	}

	if req.StartDate != "" {
		reservation.StartDate = mustParseDate(req.StartDate)
	}
	if req.EndDate != "" {
		reservation.EndDate = mustParseDate(req.EndDate)
	}
	if reservation.EndDate.Before(reservation.StartDate) {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "end_date must not precede start_date", nil)
		return
	}
	if req.ResourceID != "" {
		reservation.ResourceID = uuid.MustParse(req.ResourceID)
	}
	if req.StaffID != "" {
		staffID := uuid.MustParse(req.StaffID)
		reservation.StaffID = &staffID
	}
	if req.Notes != "" {
		reservation.Notes = req.Notes
	}

	res, err := h.db.GetResource(r.Context(), t.ID, reservation.ResourceID)
	if err != nil {
		h.respondLookupError(w, err, "resource")
		return
	}
	svc, err := h.db.GetService(r.Context(), t.ID, reservation.ServiceID)
	if err != nil {
		h.respondLookupError(w, err, "service")
		return
	}
	if !serviceFitsResource(svc.Category, res.ResourceType) {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR",
			"resource type does not match the service category", nil)
		return
	}

	if _, ok := h.conflictCheck(w, r, t.ID, *res, reservation.StartDate, reservation.EndDate, reservation.ID); !ok {
		return
	}

	addOns, err := h.db.GetAddOnsByIDs(r.Context(), t.ID, reservation.AddOnIDs)
	if err != nil {
		h.respondLookupError(w, err, "add-on")
		return
	}
	reservation.TotalCents = billing.QuoteReservation(svc, addOns, reservation.StartDate, reservation.EndDate)

	if err := h.db.UpdateReservation(r.Context(), reservation); err != nil {
		h.respondLookupError(w, err, "reservation")
		return
	}
	respondData(w, http.StatusOK, reservation)
}

// AvailabilityCheck reports which resources are free over a date range.
// resource_type accepts canonical types, aliases, and the "suite" wildcard;
// service_category derives the types from the service kind instead. When
// nothing is free, alternative windows of the same stay length come back as
// suggestions.
func (h *Handler) AvailabilityCheck(w http.ResponseWriter, r *http.Request) {
	t := tenant.FromContext(r.Context())

	req := models.AvailabilityRequest{
		StartDate:       r.URL.Query().Get("start_date"),
		EndDate:         r.URL.Query().Get("end_date"),
		ResourceType:    r.URL.Query().Get("resource_type"),
		ServiceCategory: r.URL.Query().Get("service_category"),
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}

	start := mustParseDate(req.StartDate)
	end := mustParseDate(req.EndDate)
	if end.Before(start) {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "end_date must not precede start_date", nil)
		return
	}

	requestedType := req.ResourceType
	types := availability.ExpandTypes(requestedType)
	if req.ServiceCategory != "" {
		types = availability.TypesForCategory(req.ServiceCategory)
		requestedType = ""
	}

	resources, err := h.db.ListResources(r.Context(), t.ID, types, true)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "could not list resources", err)
		return
	}
	reservations, err := h.db.ListActiveReservationsOverlapping(r.Context(), t.ID, start, end)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "could not load reservations", err)
		return
	}

	resp := h.checker.Check(resources, reservations, start, end, requestedType)
	if req.ServiceCategory != "" {
		resp.ResourceTypes = types
	}
	if len(resp.Suggestions) > 0 {
		// The overlap set above only covers the queried window; suggestions
		// scan forward, so recompute them against the full horizon.
		horizon := end.AddDate(0, 0, h.suggestionHorizonDays())
		extended, err := h.db.ListActiveReservationsOverlapping(r.Context(), t.ID, start, horizon)
		if err == nil {
			resp.Suggestions = h.checker.Suggest(resources, extended, start, end, requestedType)
		}
	}
	respondData(w, http.StatusOK, resp)
}

func (h *Handler) suggestionHorizonDays() int {
	if h.checker.SuggestionHorizonDays > 0 {
		return h.checker.SuggestionHorizonDays
	}
	return 30
}

// DoubleBookingAudit sweeps every active resource for overlapping active
// reservations beyond capacity. Findings are broadcast to the front desk
// dashboard in addition to being returned.
func (h *Handler) DoubleBookingAudit(w http.ResponseWriter, r *http.Request) {
	t := tenant.FromContext(r.Context())

	resources, err := h.db.ListResources(r.Context(), t.ID, nil, true)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "could not list resources", err)
		return
	}
	reservations, err := h.db.ListActiveReservations(r.Context(), t.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "could not load reservations", err)
		return
	}

	findings := h.checker.DoubleBookings(resources, reservations)
	for i := range findings {
		metrics.DoubleBookingsDetected.WithLabelValues(t.Subdomain).Inc()
		h.hub.BroadcastDoubleBookingAlert(t.ID, &findings[i])
	}
	if len(findings) > 0 {
		logging.Ctx(r.Context()).Warn().
			Int("count", len(findings)).
			Msg("double-booking audit found over-capacity resources")
	}

	respondData(w, http.StatusOK, map[string]interface{}{
		"double_bookings": findings,
		"count":           len(findings),
	})
}

// serviceFitsResource reports whether a resource type can host a service
// category.
func serviceFitsResource(category, resourceType string) bool {
	for _, rt := range availability.TypesForCategory(category) {
		if rt == resourceType {
			return true
		}
	}
	return false
}

// parseUUIDs parses a validated list of UUID strings.
func parseUUIDs(raw []string) ([]uuid.UUID, *models.APIError) {
	if len(raw) == 0 {
		return nil, nil
	}
	ids := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, &models.APIError{Code: "VALIDATION_ERROR", Message: "add_on_ids must be valid UUIDs"}
		}
		ids = append(ids, id)
	}
	return ids, nil
}
