// Kennelwise - Pet Boarding, Daycare & Grooming Operations Platform
// Copyright 2026 Kennelwise Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kennelwise/kennelwise

package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/kennelwise/kennelwise/internal/logging"
	"github.com/kennelwise/kennelwise/internal/models"
)

// seedDemoData provisions the "sunnypaws" demo tenant with a small but
// fully linked data set: staff login, resources across every type, a
// service catalog, and one customer with a pet. Idempotent; does nothing
// when the tenant already exists.
func (db *DB) seedDemoData() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if _, err := db.GetTenantBySubdomain(ctx, "sunnypaws"); err == nil {
		return nil
	} else if !errors.Is(err, ErrNotFound) {
		return err
	}

	tenant := &models.Tenant{
		Name:      "Sunny Paws Resort",
		Subdomain: "sunnypaws",
		Timezone:  "America/Chicago",
	}
	if err := db.CreateTenant(ctx, tenant); err != nil {
		return fmt.Errorf("failed to seed tenant: %w", err)
	}

	// Demo login: admin@sunnypaws.test / kennelwise-demo
	hash, err := bcrypt.GenerateFromPassword([]byte("kennelwise-demo"), bcrypt.MinCost)
	if err != nil {
		return fmt.Errorf("failed to hash demo password: %w", err)
	}
	admin := &models.StaffMember{
		TenantID:     tenant.ID,
		FirstName:    "Dana",
		LastName:     "Whitfield",
		Email:        "admin@sunnypaws.test",
		Role:         models.RoleAdmin,
		PasswordHash: string(hash),
		Active:       true,
	}
	if err := db.CreateStaff(ctx, admin); err != nil {
		return fmt.Errorf("failed to seed staff: %w", err)
	}

	resources := []models.Resource{
		{Name: "Kennel 1", ResourceType: models.ResourceTypeKennel, Capacity: 1, Active: true},
		{Name: "Kennel 2", ResourceType: models.ResourceTypeKennel, Capacity: 1, Active: true},
		{Name: "Standard Suite A", ResourceType: models.ResourceTypeStandardSuite, Capacity: 1, Active: true},
		{Name: "Standard Plus Suite B", ResourceType: models.ResourceTypeStandardPlusSuite, Capacity: 1, Active: true},
		{Name: "VIP Suite", ResourceType: models.ResourceTypeVIPSuite, Capacity: 2, Active: true},
		{Name: "Grooming Station 1", ResourceType: models.ResourceTypeGroomingStation, Capacity: 1, Active: true},
		{Name: "Daycare Room", ResourceType: models.ResourceTypeDaycareRoom, Capacity: 12, Active: true},
		{Name: "Play Yard", ResourceType: models.ResourceTypePlayYard, Capacity: 20, Active: true},
	}
	for i := range resources {
		resources[i].TenantID = tenant.ID
		if err := db.CreateResource(ctx, &resources[i]); err != nil {
			return fmt.Errorf("failed to seed resource: %w", err)
		}
	}

	services := []models.Service{
		{Name: "Overnight Boarding", Category: models.ServiceCategoryBoarding, RateCents: 5500, Active: true},
		{Name: "VIP Boarding", Category: models.ServiceCategoryBoarding, RateCents: 9500, Active: true},
		{Name: "Daycare Day Pass", Category: models.ServiceCategoryDaycare, RateCents: 3500, Active: true},
		{Name: "Full Groom", Category: models.ServiceCategoryGrooming, RateCents: 8000, Active: true},
		{Name: "Basic Obedience Session", Category: models.ServiceCategoryTraining, RateCents: 6000, Active: true},
	}
	for i := range services {
		services[i].TenantID = tenant.ID
		if err := db.CreateService(ctx, &services[i]); err != nil {
			return fmt.Errorf("failed to seed service: %w", err)
		}
	}

	addOn := &models.AddOn{
		TenantID:   tenant.ID,
		ServiceID:  services[0].ID,
		Name:       "Extra Walk",
		PriceCents: 1000,
		Active:     true,
	}
	if err := db.CreateAddOn(ctx, addOn); err != nil {
		return fmt.Errorf("failed to seed add-on: %w", err)
	}

	customer := &models.Customer{
		TenantID:  tenant.ID,
		FirstName: "Morgan",
		LastName:  "Reyes",
		Email:     "morgan@example.com",
		Phone:     "555-0142",
	}
	if err := db.CreateCustomer(ctx, customer); err != nil {
		return fmt.Errorf("failed to seed customer: %w", err)
	}

	vaccinated := time.Now().AddDate(1, 0, 0)
	pet := &models.Pet{
		TenantID:          tenant.ID,
		CustomerID:        customer.ID,
		Name:              "Biscuit",
		Species:           "DOG",
		Breed:             "Corgi",
		WeightKg:          12.5,
		VaccinationExpiry: &vaccinated,
	}
	if err := db.CreatePet(ctx, pet); err != nil {
		return fmt.Errorf("failed to seed pet: %w", err)
	}

	logging.Info().Str("tenant", tenant.Subdomain).Msg("Demo data seeded")
	return nil
}
