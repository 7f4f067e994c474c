// Kennelwise - Pet Boarding, Daycare & Grooming Operations Platform
// Copyright 2026 Kennelwise Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kennelwise/kennelwise

package models

import (
	"time"

	"github.com/google/uuid"
)

// Tenant statuses. Only ACTIVE tenants may serve API traffic; SUSPENDED and
// PAUSED tenants are rejected by the tenant middleware with TENANT_INACTIVE.
const (
	TenantStatusActive    = "ACTIVE"
	TenantStatusPaused    = "PAUSED"
	TenantStatusSuspended = "SUSPENDED"
)

// Tenant is a single pet-care business on the platform. Every other entity
// is partitioned by TenantID.
type Tenant struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Subdomain string    `json:"subdomain"`
	Status    string    `json:"status"`
	Timezone  string    `json:"timezone"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsActive reports whether the tenant may serve API traffic.
func (t *Tenant) IsActive() bool {
	return t.Status == TenantStatusActive
}

// CreateTenantRequest is the super-admin payload for provisioning a tenant.
type CreateTenantRequest struct {
	Name      string `json:"name" validate:"required,min=2,max=120"`
	Subdomain string `json:"subdomain" validate:"required,min=2,max=63,hostname_rfc1123"`
	Timezone  string `json:"timezone" validate:"omitempty,max=64"`
}
