// Kennelwise - Pet Boarding, Daycare & Grooming Operations Platform
// Copyright 2026 Kennelwise Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kennelwise/kennelwise

package models

import (
	"time"

	"github.com/google/uuid"
)

// Service categories. The category determines which resource types a
// reservation for the service can occupy.
const (
	ServiceCategoryBoarding = "BOARDING"
	ServiceCategoryDaycare  = "DAYCARE"
	ServiceCategoryGrooming = "GROOMING"
	ServiceCategoryTraining = "TRAINING"
)

// Service is a sellable offering: overnight boarding, a daycare day,
// a groom, a training session.
type Service struct {
	ID       uuid.UUID `json:"id"`
	TenantID uuid.UUID `json:"tenant_id"`
	Name     string    `json:"name"`
	Category string    `json:"category"`

	// RateCents is the per-unit price; the unit is a night for boarding
	// and a day/session for everything else.
	RateCents int64 `json:"rate_cents"`

	Description string    `json:"description,omitempty"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// AddOn is an optional extra sold with a reservation (extra walk,
// medication administration, exit bath).
type AddOn struct {
	ID         uuid.UUID `json:"id"`
	TenantID   uuid.UUID `json:"tenant_id"`
	ServiceID  uuid.UUID `json:"service_id"`
	Name       string    `json:"name"`
	PriceCents int64     `json:"price_cents"`
	Active     bool      `json:"active"`
	CreatedAt  time.Time `json:"created_at"`
}

// CreateServiceRequest is the payload for creating or updating a service.
type CreateServiceRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=120"`
	Category    string `json:"category" validate:"required,oneof=BOARDING DAYCARE GROOMING TRAINING"`
	RateCents   int64  `json:"rate_cents" validate:"required,min=0,max=10000000"`
	Description string `json:"description" validate:"omitempty,max=2000"`
	Active      *bool  `json:"active" validate:"omitempty"`
}

// CreateAddOnRequest is the payload for attaching an add-on to a service.
type CreateAddOnRequest struct {
	ServiceID  string `json:"service_id" validate:"required,uuid4"`
	Name       string `json:"name" validate:"required,min=1,max=120"`
	PriceCents int64  `json:"price_cents" validate:"required,min=0,max=10000000"`
}
