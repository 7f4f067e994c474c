// Kennelwise - Pet Boarding, Daycare & Grooming Operations Platform
// Copyright 2026 Kennelwise Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kennelwise/kennelwise

package models

import (
	"time"

	"github.com/google/uuid"
)

// StaffMember is a tenant employee with a login. PasswordHash is bcrypt and
// never serialized.
type StaffMember struct {
	ID           uuid.UUID `json:"id"`
	TenantID     uuid.UUID `json:"tenant_id"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	PasswordHash string    `json:"-"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Shift is a scheduled work block for a staff member.
type Shift struct {
	ID       uuid.UUID `json:"id"`
	TenantID uuid.UUID `json:"tenant_id"`
	StaffID  uuid.UUID `json:"staff_id"`
	StartsAt time.Time `json:"starts_at"`
	EndsAt   time.Time `json:"ends_at"`
	Role     string    `json:"role,omitempty"`
	Notes    string    `json:"notes,omitempty"`
}

// CreateStaffRequest is the admin payload for creating a staff account.
type CreateStaffRequest struct {
	FirstName string `json:"first_name" validate:"required,min=1,max=80"`
	LastName  string `json:"last_name" validate:"required,min=1,max=80"`
	Email     string `json:"email" validate:"required,email"`
	Role      string `json:"role" validate:"required,oneof=admin manager staff"`
	Password  string `json:"password" validate:"required,min=8,max=128"`
}

// CreateShiftRequest schedules a work block. EndsAt must be after StartsAt;
// the handler enforces this since validator cannot compare fields parsed
// from RFC3339 strings.
type CreateShiftRequest struct {
	StaffID  string `json:"staff_id" validate:"required,uuid4"`
	StartsAt string `json:"starts_at" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	EndsAt   string `json:"ends_at" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	Role     string `json:"role" validate:"omitempty,max=40"`
	Notes    string `json:"notes" validate:"omitempty,max=2000"`
}
