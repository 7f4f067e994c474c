// Kennelwise - Pet Boarding, Daycare & Grooming Operations Platform
// Copyright 2026 Kennelwise Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kennelwise/kennelwise

package models

import (
	"time"

	"github.com/google/uuid"
)

// Canonical resource types. The availability package normalizes aliases
// ("cage", "vip", "standard plus suite", ...) onto these constants and
// expands the wildcard category "SUITE" to all suite tiers.
const (
	ResourceTypeKennel            = "KENNEL"
	ResourceTypeSuite             = "SUITE" // wildcard category, not a concrete type
	ResourceTypeStandardSuite     = "STANDARD_SUITE"
	ResourceTypeStandardPlusSuite = "STANDARD_PLUS_SUITE"
	ResourceTypeVIPSuite          = "VIP_SUITE"
	ResourceTypeGroomingStation   = "GROOMING_STATION"
	ResourceTypeDaycareRoom       = "DAYCARE_ROOM"
	ResourceTypePlayYard          = "PLAY_YARD"
)

// Resource is a bookable unit: a kennel, a suite tier, a grooming station,
// a daycare room, or a play yard.
type Resource struct {
	ID           uuid.UUID `json:"id"`
	TenantID     uuid.UUID `json:"tenant_id"`
	Name         string    `json:"name"`
	ResourceType string    `json:"resource_type"`

	// Capacity is the number of pets the resource holds concurrently.
	// Most kennels and suites are 1; daycare rooms and play yards hold more.
	Capacity int `json:"capacity"`

	// Active resources participate in availability; inactive ones are
	// hidden from availability but keep their reservation history.
	Active bool `json:"active"`

	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateResourceRequest is the payload for creating or updating a resource.
type CreateResourceRequest struct {
	Name         string `json:"name" validate:"required,min=1,max=80"`
	ResourceType string `json:"resource_type" validate:"required,max=40"`
	Capacity     int    `json:"capacity" validate:"required,min=1,max=100"`
	Active       *bool  `json:"active" validate:"omitempty"`
	Notes        string `json:"notes" validate:"omitempty,max=2000"`
}

// AvailabilityRequest asks which resources are free over a date range.
// ResourceType accepts canonical types, aliases, or the "suite" wildcard;
// ServiceCategory instead derives the resource types from the service kind.
type AvailabilityRequest struct {
	StartDate       string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate         string `json:"end_date" validate:"required,datetime=2006-01-02"`
	ResourceType    string `json:"resource_type" validate:"omitempty,max=40"`
	ServiceCategory string `json:"service_category" validate:"omitempty,oneof=BOARDING DAYCARE GROOMING TRAINING"`
}

// ResourceAvailability describes one resource's state within a queried range.
type ResourceAvailability struct {
	Resource     Resource    `json:"resource"`
	Available    bool        `json:"available"`
	ConflictIDs  []uuid.UUID `json:"conflict_ids,omitempty"`
	BookedSpots  int         `json:"booked_spots"`
	RemainingCap int         `json:"remaining_capacity"`
}

// AvailabilityResponse is the result of an availability query.
type AvailabilityResponse struct {
	StartDate     time.Time              `json:"start_date"`
	EndDate       time.Time              `json:"end_date"`
	ResourceTypes []string               `json:"resource_types"`
	Resources     []ResourceAvailability `json:"resources"`
	FreeCount     int                    `json:"free_count"`
	Suggestions   []DateWindow           `json:"suggestions,omitempty"`
}

// DateWindow is an alternative stay window suggested when the requested
// range has no free resource.
type DateWindow struct {
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
	FreeCount int       `json:"free_count"`
}

// DoubleBooking reports a resource holding more overlapping active
// reservations than its capacity allows.
type DoubleBooking struct {
	Resource       Resource      `json:"resource"`
	Reservations   []Reservation `json:"reservations"`
	OverlapStart   time.Time     `json:"overlap_start"`
	OverlapEnd     time.Time     `json:"overlap_end"`
	ExcessBookings int           `json:"excess_bookings"`
}
