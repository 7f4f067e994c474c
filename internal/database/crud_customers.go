// Kennelwise - Pet Boarding, Daycare & Grooming Operations Platform
// Copyright 2026 Kennelwise Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kennelwise/kennelwise

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kennelwise/kennelwise/internal/models"
)

const customerColumns = `id, tenant_id, first_name, last_name, email, phone, address, notes, created_at, updated_at`

// CreateCustomer adds a pet owner to the tenant.
func (db *DB) CreateCustomer(ctx context.Context, c *models.Customer) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now

	query := `INSERT INTO customers (` + customerColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := db.conn.ExecContext(ctx, query,
		c.ID.String(), c.TenantID.String(), c.FirstName, c.LastName, c.Email,
		c.Phone, c.Address, c.Notes, c.CreatedAt, c.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create customer: %w", err)
	}
	return nil
}

// GetCustomer retrieves a customer within the tenant.
func (db *DB) GetCustomer(ctx context.Context, tenantID, id uuid.UUID) (*models.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE tenant_id = ? AND id = ?`
	row := db.conn.QueryRowContext(ctx, query, tenantID.String(), id.String())

	var c models.Customer
	var cid, tid string
	var phone, address, notes sql.NullString
	err := row.Scan(&cid, &tid, &c.FirstName, &c.LastName, &c.Email, &phone, &address, &notes, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan customer: %w", err)
	}
	c.ID, c.TenantID = mustUUID(cid), mustUUID(tid)
	c.Phone, c.Address, c.Notes = phone.String, address.String, notes.String
	return &c, nil
}

// ListCustomers returns the tenant's customers with offset pagination and an
// optional case-insensitive name/email search.
func (db *DB) ListCustomers(ctx context.Context, tenantID uuid.UUID, search string, limit, offset int) ([]models.Customer, int, error) {
	where := `WHERE tenant_id = ?`
	args := []any{tenantID.String()}
	if search != "" {
		where += ` AND (lower(first_name || ' ' || last_name) LIKE lower(?) OR lower(email) LIKE lower(?))`
		pattern := "%" + search + "%"
		args = append(args, pattern, pattern)
	}

	var total int
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM customers `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count customers: %w", err)
	}

	query := `SELECT ` + customerColumns + ` FROM customers ` + where + ` ORDER BY last_name, first_name LIMIT ? OFFSET ?`
	args = append(args, limit, offset)
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list customers: %w", err)
	}
	defer closeRows(rows)

	var customers []models.Customer
	for rows.Next() {
		var c models.Customer
		var cid, tid string
		var phone, address, notes sql.NullString
		if err := rows.Scan(&cid, &tid, &c.FirstName, &c.LastName, &c.Email, &phone, &address, &notes, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, 0, fmt.Errorf("failed to scan customer: %w", err)
		}
		c.ID, c.TenantID = mustUUID(cid), mustUUID(tid)
		c.Phone, c.Address, c.Notes = phone.String, address.String, notes.String
		customers = append(customers, c)
	}
	return customers, total, rows.Err()
}

// UpdateCustomer replaces the customer's editable fields.
func (db *DB) UpdateCustomer(ctx context.Context, c *models.Customer) error {
	c.UpdatedAt = time.Now().UTC()
	result, err := db.conn.ExecContext(ctx,
		`UPDATE customers SET first_name = ?, last_name = ?, email = ?, phone = ?, address = ?, notes = ?, updated_at = ?
		 WHERE tenant_id = ? AND id = ?`,
		c.FirstName, c.LastName, c.Email, c.Phone, c.Address, c.Notes, c.UpdatedAt,
		c.TenantID.String(), c.ID.String())
	if err != nil {
		return fmt.Errorf("failed to update customer: %w", err)
	}
	return requireRowsAffected(result)
}

// DeleteCustomer removes a customer and their pets. Reservations are kept
// for historical reporting.
func (db *DB) DeleteCustomer(ctx context.Context, tenantID, id uuid.UUID) error {
	if _, err := db.conn.ExecContext(ctx,
		`DELETE FROM pets WHERE tenant_id = ? AND customer_id = ?`,
		tenantID.String(), id.String()); err != nil {
		return fmt.Errorf("failed to delete customer pets: %w", err)
	}
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM customers WHERE tenant_id = ? AND id = ?`,
		tenantID.String(), id.String())
	if err != nil {
		return fmt.Errorf("failed to delete customer: %w", err)
	}
	return requireRowsAffected(result)
}

const petColumns = `id, tenant_id, customer_id, name, species, breed, birth_date, weight_kg, medical_notes, vaccination_expiry, created_at, updated_at`

// CreatePet adds a pet under a customer.
func (db *DB) CreatePet(ctx context.Context, p *models.Pet) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now

	query := `INSERT INTO pets (` + petColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := db.conn.ExecContext(ctx, query,
		p.ID.String(), p.TenantID.String(), p.CustomerID.String(), p.Name, p.Species, p.Breed,
		timePtrValue(p.BirthDate), p.WeightKg, p.MedicalNotes, timePtrValue(p.VaccinationExpiry),
		p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create pet: %w", err)
	}
	return nil
}

// GetPet retrieves a pet within the tenant.
func (db *DB) GetPet(ctx context.Context, tenantID, id uuid.UUID) (*models.Pet, error) {
	query := `SELECT ` + petColumns + ` FROM pets WHERE tenant_id = ? AND id = ?`
	row := db.conn.QueryRowContext(ctx, query, tenantID.String(), id.String())

	p, err := scanPet(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// ListPets returns a customer's pets, or all tenant pets when customerID is nil.
func (db *DB) ListPets(ctx context.Context, tenantID uuid.UUID, customerID *uuid.UUID) ([]models.Pet, error) {
	query := `SELECT ` + petColumns + ` FROM pets WHERE tenant_id = ?`
	args := []any{tenantID.String()}
	if customerID != nil {
		query += ` AND customer_id = ?`
		args = append(args, customerID.String())
	}
	query += ` ORDER BY name`

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list pets: %w", err)
	}
	defer closeRows(rows)

	var pets []models.Pet
	for rows.Next() {
		p, err := scanPet(rows.Scan)
		if err != nil {
			return nil, err
		}
		pets = append(pets, *p)
	}
	return pets, rows.Err()
}

// UpdatePet replaces the pet's editable fields.
func (db *DB) UpdatePet(ctx context.Context, p *models.Pet) error {
	p.UpdatedAt = time.Now().UTC()
	result, err := db.conn.ExecContext(ctx,
		`UPDATE pets SET name = ?, species = ?, breed = ?, birth_date = ?, weight_kg = ?,
		 medical_notes = ?, vaccination_expiry = ?, updated_at = ?
		 WHERE tenant_id = ? AND id = ?`,
		p.Name, p.Species, p.Breed, timePtrValue(p.BirthDate), p.WeightKg,
		p.MedicalNotes, timePtrValue(p.VaccinationExpiry), p.UpdatedAt,
		p.TenantID.String(), p.ID.String())
	if err != nil {
		return fmt.Errorf("failed to update pet: %w", err)
	}
	return requireRowsAffected(result)
}

// DeletePet removes a pet.
func (db *DB) DeletePet(ctx context.Context, tenantID, id uuid.UUID) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM pets WHERE tenant_id = ? AND id = ?`,
		tenantID.String(), id.String())
	if err != nil {
		return fmt.Errorf("failed to delete pet: %w", err)
	}
	return requireRowsAffected(result)
}

// scanPet scans a pet from any row-shaped scan function.
func scanPet(scan func(...any) error) (*models.Pet, error) {
	var p models.Pet
	var pid, tid, cid string
	var breed, medicalNotes sql.NullString
	var birthDate, vaccinationExpiry sql.NullTime
	var weight sql.NullFloat64

	err := scan(&pid, &tid, &cid, &p.Name, &p.Species, &breed, &birthDate, &weight,
		&medicalNotes, &vaccinationExpiry, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("failed to scan pet: %w", err)
	}

	p.ID, p.TenantID, p.CustomerID = mustUUID(pid), mustUUID(tid), mustUUID(cid)
	p.Breed, p.MedicalNotes = breed.String, medicalNotes.String
	p.BirthDate = nullTimePtr(birthDate)
	p.VaccinationExpiry = nullTimePtr(vaccinationExpiry)
	p.WeightKg = weight.Float64
	return &p, nil
}
