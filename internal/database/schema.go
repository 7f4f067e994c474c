// Kennelwise - Pet Boarding, Daycare & Grooming Operations Platform
// Copyright 2026 Kennelwise Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kennelwise/kennelwise

/*
schema.go - Database Schema Management

Tables (all tenant-partitioned except tenants itself):
  - tenants: facilities on the platform, addressed by subdomain
  - staff: employee accounts with bcrypt password hashes and roles
  - shifts: staff work schedule blocks
  - customers: pet owners
  - pets: owned by customers, carry vaccination expiry
  - resources: bookable units (kennels, suites, stations, rooms, yards)
  - services: sellable offerings with per-unit rates in cents
  - add_ons: optional extras attached to a service
  - reservations: stays/appointments with inclusive day bounds
  - reservation_add_ons: join table for purchased add-ons
  - invoices / payments: billing records, amounts in integer cents

Schema Strategy:
All columns are defined in the initial CREATE TABLE statements; there is no
migration framework yet. Additive changes go through versioned migrations
once the first release has real data behind it.

Index Strategy:
The availability scan dominates query volume, so reservations are indexed
on (tenant_id, resource_id, start_date, end_date) plus status. Everything
else gets plain tenant_id indexes for list endpoints.
*/
package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context with timeout for schema operations.
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createSchema creates all tables and indexes.
func (db *DB) createSchema() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, q := range tableCreationQueries() {
		if _, err := db.conn.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}
	for _, q := range indexCreationQueries() {
		if _, err := db.conn.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("failed to create index: %w", err)
		}
	}
	return nil
}

func tableCreationQueries() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS tenants (
			id VARCHAR PRIMARY KEY,
			name VARCHAR NOT NULL,
			subdomain VARCHAR NOT NULL UNIQUE,
			status VARCHAR NOT NULL DEFAULT 'ACTIVE',
			timezone VARCHAR NOT NULL DEFAULT 'UTC',
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS staff (
			id VARCHAR PRIMARY KEY,
			tenant_id VARCHAR NOT NULL,
			first_name VARCHAR NOT NULL,
			last_name VARCHAR NOT NULL,
			email VARCHAR NOT NULL,
			role VARCHAR NOT NULL,
			password_hash VARCHAR NOT NULL,
			active BOOLEAN NOT NULL DEFAULT true,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL,
			UNIQUE (tenant_id, email)
		)`,

		`CREATE TABLE IF NOT EXISTS shifts (
			id VARCHAR PRIMARY KEY,
			tenant_id VARCHAR NOT NULL,
			staff_id VARCHAR NOT NULL,
			starts_at TIMESTAMP NOT NULL,
			ends_at TIMESTAMP NOT NULL,
			role VARCHAR,
			notes VARCHAR
		)`,

		`CREATE TABLE IF NOT EXISTS customers (
			id VARCHAR PRIMARY KEY,
			tenant_id VARCHAR NOT NULL,
			first_name VARCHAR NOT NULL,
			last_name VARCHAR NOT NULL,
			email VARCHAR NOT NULL,
			phone VARCHAR,
			address VARCHAR,
			notes VARCHAR,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS pets (
			id VARCHAR PRIMARY KEY,
			tenant_id VARCHAR NOT NULL,
			customer_id VARCHAR NOT NULL,
			name VARCHAR NOT NULL,
			species VARCHAR NOT NULL,
			breed VARCHAR,
			birth_date DATE,
			weight_kg DOUBLE,
			medical_notes VARCHAR,
			vaccination_expiry DATE,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS resources (
			id VARCHAR PRIMARY KEY,
			tenant_id VARCHAR NOT NULL,
			name VARCHAR NOT NULL,
			resource_type VARCHAR NOT NULL,
			capacity INTEGER NOT NULL DEFAULT 1,
			active BOOLEAN NOT NULL DEFAULT true,
			notes VARCHAR,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS services (
			id VARCHAR PRIMARY KEY,
			tenant_id VARCHAR NOT NULL,
			name VARCHAR NOT NULL,
			category VARCHAR NOT NULL,
			rate_cents BIGINT NOT NULL,
			description VARCHAR,
			active BOOLEAN NOT NULL DEFAULT true,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS add_ons (
			id VARCHAR PRIMARY KEY,
			tenant_id VARCHAR NOT NULL,
			service_id VARCHAR NOT NULL,
			name VARCHAR NOT NULL,
			price_cents BIGINT NOT NULL,
			active BOOLEAN NOT NULL DEFAULT true,
			created_at TIMESTAMP NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS reservations (
			id VARCHAR PRIMARY KEY,
			tenant_id VARCHAR NOT NULL,
			customer_id VARCHAR NOT NULL,
			pet_id VARCHAR NOT NULL,
			resource_id VARCHAR NOT NULL,
			service_id VARCHAR NOT NULL,
			staff_id VARCHAR,
			status VARCHAR NOT NULL DEFAULT 'PENDING',
			start_date DATE NOT NULL,
			end_date DATE NOT NULL,
			total_cents BIGINT NOT NULL DEFAULT 0,
			notes VARCHAR,
			checked_in_at TIMESTAMP,
			checked_out_at TIMESTAMP,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS reservation_add_ons (
			reservation_id VARCHAR NOT NULL,
			add_on_id VARCHAR NOT NULL,
			UNIQUE (reservation_id, add_on_id)
		)`,

		`CREATE TABLE IF NOT EXISTS invoices (
			id VARCHAR PRIMARY KEY,
			tenant_id VARCHAR NOT NULL,
			customer_id VARCHAR NOT NULL,
			reservation_id VARCHAR,
			status VARCHAR NOT NULL DEFAULT 'DRAFT',
			subtotal_cents BIGINT NOT NULL,
			tax_cents BIGINT NOT NULL,
			total_cents BIGINT NOT NULL,
			issued_at TIMESTAMP,
			due_at TIMESTAMP,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS payments (
			id VARCHAR PRIMARY KEY,
			tenant_id VARCHAR NOT NULL,
			invoice_id VARCHAR NOT NULL,
			customer_id VARCHAR NOT NULL,
			amount_cents BIGINT NOT NULL,
			method VARCHAR NOT NULL,
			status VARCHAR NOT NULL,
			gateway_ref VARCHAR,
			created_at TIMESTAMP NOT NULL
		)`,
	}
}

func indexCreationQueries() []string {
	return []string{
		`CREATE INDEX IF NOT EXISTS idx_staff_tenant ON staff(tenant_id)`,
		`CREATE INDEX IF NOT EXISTS idx_shifts_tenant_staff ON shifts(tenant_id, staff_id, starts_at)`,
		`CREATE INDEX IF NOT EXISTS idx_customers_tenant ON customers(tenant_id)`,
		`CREATE INDEX IF NOT EXISTS idx_pets_tenant_customer ON pets(tenant_id, customer_id)`,
		`CREATE INDEX IF NOT EXISTS idx_resources_tenant_type ON resources(tenant_id, resource_type)`,
		`CREATE INDEX IF NOT EXISTS idx_services_tenant ON services(tenant_id)`,
		`CREATE INDEX IF NOT EXISTS idx_add_ons_tenant_service ON add_ons(tenant_id, service_id)`,
		`CREATE INDEX IF NOT EXISTS idx_reservations_availability ON reservations(tenant_id, resource_id, start_date, end_date)`,
		`CREATE INDEX IF NOT EXISTS idx_reservations_status ON reservations(tenant_id, status)`,
		`CREATE INDEX IF NOT EXISTS idx_reservations_customer ON reservations(tenant_id, customer_id)`,
		`CREATE INDEX IF NOT EXISTS idx_invoices_tenant_status ON invoices(tenant_id, status)`,
		`CREATE INDEX IF NOT EXISTS idx_payments_tenant_invoice ON payments(tenant_id, invoice_id)`,
	}
}
