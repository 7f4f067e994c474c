// Kennelwise - Pet Boarding, Daycare & Grooming Operations Platform
// Copyright 2026 Kennelwise Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kennelwise/kennelwise

package models

import (
	"time"

	"github.com/google/uuid"
)

// Reservation statuses. PENDING, CONFIRMED, and CHECKED_IN hold the resource
// and participate in conflict detection; CANCELLED, CHECKED_OUT, and NO_SHOW
// release it.
const (
	ReservationStatusPending    = "PENDING"
	ReservationStatusConfirmed  = "CONFIRMED"
	ReservationStatusCheckedIn  = "CHECKED_IN"
	ReservationStatusCheckedOut = "CHECKED_OUT"
	ReservationStatusCancelled  = "CANCELLED"
	ReservationStatusNoShow     = "NO_SHOW"
)

// ActiveReservationStatuses are the statuses that occupy a resource.
var ActiveReservationStatuses = []string{
	ReservationStatusPending,
	ReservationStatusConfirmed,
	ReservationStatusCheckedIn,
}

// IsActiveReservationStatus reports whether the status occupies a resource.
func IsActiveReservationStatus(status string) bool {
	switch status {
	case ReservationStatusPending, ReservationStatusConfirmed, ReservationStatusCheckedIn:
		return true
	default:
		return false
	}
}

// Reservation is a booked stay or appointment. StartDate and EndDate are
// inclusive day bounds; a one-day grooming appointment has StartDate equal
// to EndDate.
type Reservation struct {
	ID         uuid.UUID  `json:"id"`
	TenantID   uuid.UUID  `json:"tenant_id"`
	CustomerID uuid.UUID  `json:"customer_id"`
	PetID      uuid.UUID  `json:"pet_id"`
	ResourceID uuid.UUID  `json:"resource_id"`
	ServiceID  uuid.UUID  `json:"service_id"`
	StaffID    *uuid.UUID `json:"staff_id,omitempty"`
	Status     string     `json:"status"`
	StartDate  time.Time  `json:"start_date"`
	EndDate    time.Time  `json:"end_date"`

	// AddOnIDs lists purchased add-ons (extra walks, medication, baths).
	AddOnIDs []uuid.UUID `json:"add_on_ids,omitempty"`

	// TotalCents is the quoted charge: service rate times billable units
	// plus add-ons. Recomputed on service or date changes.
	TotalCents int64 `json:"total_cents"`

	Notes        string     `json:"notes,omitempty"`
	CheckedInAt  *time.Time `json:"checked_in_at,omitempty"`
	CheckedOutAt *time.Time `json:"checked_out_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Nights returns the number of nights between start and end dates.
// Same-day reservations (daycare, grooming) count as one billable unit.
func (r *Reservation) Nights() int {
	n := int(r.EndDate.Sub(r.StartDate).Hours() / 24)
	if n < 1 {
		return 1
	}
	return n
}

// Overlaps reports whether the reservation's inclusive date interval
// intersects [start, end].
func (r *Reservation) Overlaps(start, end time.Time) bool {
	return !r.StartDate.After(end) && !r.EndDate.Before(start)
}

// CreateReservationRequest is the payload for booking a stay.
type CreateReservationRequest struct {
	CustomerID string   `json:"customer_id" validate:"required,uuid4"`
	PetID      string   `json:"pet_id" validate:"required,uuid4"`
	ResourceID string   `json:"resource_id" validate:"required,uuid4"`
	ServiceID  string   `json:"service_id" validate:"required,uuid4"`
	StaffID    string   `json:"staff_id" validate:"omitempty,uuid4"`
	StartDate  string   `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate    string   `json:"end_date" validate:"required,datetime=2006-01-02"`
	AddOnIDs   []string `json:"add_on_ids" validate:"omitempty,dive,uuid4"`
	Notes      string   `json:"notes" validate:"omitempty,max=2000"`
}

// UpdateReservationStatusRequest transitions a reservation's status.
type UpdateReservationStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=PENDING CONFIRMED CHECKED_IN CHECKED_OUT CANCELLED NO_SHOW"`
}

// ReservationFilter narrows reservation list queries.
type ReservationFilter struct {
	CustomerID *uuid.UUID
	PetID      *uuid.UUID
	ResourceID *uuid.UUID
	Status     string
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}
