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

const serviceColumns = `id, tenant_id, name, category, rate_cents, description, active, created_at, updated_at`

// CreateService adds a sellable offering to the tenant's catalog.
func (db *DB) CreateService(ctx context.Context, s *models.Service) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	now := time.Now().UTC()
	s.CreatedAt = now
	s.UpdatedAt = now

	query := `INSERT INTO services (` + serviceColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := db.conn.ExecContext(ctx, query,
		s.ID.String(), s.TenantID.String(), s.Name, s.Category, s.RateCents,
		s.Description, s.Active, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create service: %w", err)
	}
	return nil
}

// GetService retrieves a service within the tenant.
func (db *DB) GetService(ctx context.Context, tenantID, id uuid.UUID) (*models.Service, error) {
	query := `SELECT ` + serviceColumns + ` FROM services WHERE tenant_id = ? AND id = ?`
	row := db.conn.QueryRowContext(ctx, query, tenantID.String(), id.String())
	s, err := scanService(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

// ListServices returns the catalog, optionally filtered by category.
func (db *DB) ListServices(ctx context.Context, tenantID uuid.UUID, category string, activeOnly bool) ([]models.Service, error) {
	query := `SELECT ` + serviceColumns + ` FROM services WHERE tenant_id = ?`
	args := []any{tenantID.String()}
	if category != "" {
		query += ` AND category = ?`
		args = append(args, category)
	}
	if activeOnly {
		query += ` AND active = true`
	}
	query += ` ORDER BY category, name`

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	defer closeRows(rows)

	var services []models.Service
	for rows.Next() {
		s, err := scanService(rows.Scan)
		if err != nil {
			return nil, err
		}
		services = append(services, *s)
	}
	return services, rows.Err()
}

// UpdateService replaces the service's editable fields.
func (db *DB) UpdateService(ctx context.Context, s *models.Service) error {
	s.UpdatedAt = time.Now().UTC()
	result, err := db.conn.ExecContext(ctx,
		`UPDATE services SET name = ?, category = ?, rate_cents = ?, description = ?, active = ?, updated_at = ?
		 WHERE tenant_id = ? AND id = ?`,
		s.Name, s.Category, s.RateCents, s.Description, s.Active, s.UpdatedAt,
		s.TenantID.String(), s.ID.String())
	if err != nil {
		return fmt.Errorf("failed to update service: %w", err)
	}
	return requireRowsAffected(result)
}

// CreateAddOn attaches an optional extra to a service.
func (db *DB) CreateAddOn(ctx context.Context, a *models.AddOn) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	a.CreatedAt = time.Now().UTC()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO add_ons (id, tenant_id, service_id, name, price_cents, active, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.ID.String(), a.TenantID.String(), a.ServiceID.String(), a.Name, a.PriceCents, a.Active, a.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create add-on: %w", err)
	}
	return nil
}

// ListAddOns returns add-ons for a service, or the whole tenant when
// serviceID is nil.
func (db *DB) ListAddOns(ctx context.Context, tenantID uuid.UUID, serviceID *uuid.UUID) ([]models.AddOn, error) {
	query := `SELECT id, tenant_id, service_id, name, price_cents, active, created_at FROM add_ons WHERE tenant_id = ?`
	args := []any{tenantID.String()}
	if serviceID != nil {
		query += ` AND service_id = ?`
		args = append(args, serviceID.String())
	}
	query += ` ORDER BY name`

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list add-ons: %w", err)
	}
	defer closeRows(rows)

	var addOns []models.AddOn
	for rows.Next() {
		var a models.AddOn
		var aid, tid, sid string
		if err := rows.Scan(&aid, &tid, &sid, &a.Name, &a.PriceCents, &a.Active, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan add-on: %w", err)
		}
		a.ID, a.TenantID, a.ServiceID = mustUUID(aid), mustUUID(tid), mustUUID(sid)
		addOns = append(addOns, a)
	}
	return addOns, rows.Err()
}

// GetAddOnsByIDs loads specific add-ons for quote computation. Missing IDs
// are reported as ErrNotFound so a reservation can never reference a
// foreign or deleted add-on silently.
func (db *DB) GetAddOnsByIDs(ctx context.Context, tenantID uuid.UUID, ids []uuid.UUID) ([]models.AddOn, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query := `SELECT id, tenant_id, service_id, name, price_cents, active, created_at FROM add_ons
		WHERE tenant_id = ? AND id IN (`
	args := []any{tenantID.String()}
	for i, id := range ids {
		if i > 0 {
			query += `, `
		}
		query += `?`
		args = append(args, id.String())
	}
	query += `)`

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load add-ons: %w", err)
	}
	defer closeRows(rows)

	var addOns []models.AddOn
	for rows.Next() {
		var a models.AddOn
		var aid, tid, sid string
		if err := rows.Scan(&aid, &tid, &sid, &a.Name, &a.PriceCents, &a.Active, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan add-on: %w", err)
		}
		a.ID, a.TenantID, a.ServiceID = mustUUID(aid), mustUUID(tid), mustUUID(sid)
		addOns = append(addOns, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(addOns) != len(ids) {
		return nil, ErrNotFound
	}
	return addOns, nil
}

func scanService(scan func(...any) error) (*models.Service, error) {
	var s models.Service
	var sid, tid string
	var description sql.NullString
	err := scan(&sid, &tid, &s.Name, &s.Category, &s.RateCents, &description, &s.Active, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("failed to scan service: %w", err)
	}
	s.ID, s.TenantID = mustUUID(sid), mustUUID(tid)
	s.Description = description.String
	return &s, nil
}
