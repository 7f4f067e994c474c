// Kennelwise - Pet Boarding, Daycare & Grooming Operations Platform
// Copyright 2026 Kennelwise Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kennelwise/kennelwise

package models

import (
	"time"

	"github.com/google/uuid"
)

// Customer is a pet owner belonging to a tenant.
type Customer struct {
	ID        uuid.UUID `json:"id"`
	TenantID  uuid.UUID `json:"tenant_id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Pet belongs to a customer. Vaccination expiry is checked at reservation
// time; an expired record produces a warning, not a rejection.
type Pet struct {
	ID                uuid.UUID  `json:"id"`
	TenantID          uuid.UUID  `json:"tenant_id"`
	CustomerID        uuid.UUID  `json:"customer_id"`
	Name              string     `json:"name"`
	Species           string     `json:"species"`
	Breed             string     `json:"breed,omitempty"`
	BirthDate         *time.Time `json:"birth_date,omitempty"`
	WeightKg          float64    `json:"weight_kg,omitempty"`
	MedicalNotes      string     `json:"medical_notes,omitempty"`
	VaccinationExpiry *time.Time `json:"vaccination_expiry,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// CreateCustomerRequest is the payload for creating or updating a customer.
type CreateCustomerRequest struct {
	FirstName string `json:"first_name" validate:"required,min=1,max=80"`
	LastName  string `json:"last_name" validate:"required,min=1,max=80"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"omitempty,max=32"`
	Address   string `json:"address" validate:"omitempty,max=300"`
	Notes     string `json:"notes" validate:"omitempty,max=2000"`
}

// CreatePetRequest is the payload for creating or updating a pet.
type CreatePetRequest struct {
	CustomerID        string  `json:"customer_id" validate:"required,uuid4"`
	Name              string  `json:"name" validate:"required,min=1,max=80"`
	Species           string  `json:"species" validate:"required,oneof=DOG CAT BIRD RABBIT OTHER"`
	Breed             string  `json:"breed" validate:"omitempty,max=80"`
	BirthDate         string  `json:"birth_date" validate:"omitempty,datetime=2006-01-02"`
	WeightKg          float64 `json:"weight_kg" validate:"omitempty,gt=0,lt=200"`
	MedicalNotes      string  `json:"medical_notes" validate:"omitempty,max=4000"`
	VaccinationExpiry string  `json:"vaccination_expiry" validate:"omitempty,datetime=2006-01-02"`
}
