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

const resourceColumns = `id, tenant_id, name, resource_type, capacity, active, notes, created_at, updated_at`

// CreateResource adds a bookable unit to the tenant.
func (db *DB) CreateResource(ctx context.Context, r *models.Resource) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.Capacity < 1 {
		r.Capacity = 1
	}
	now := time.Now().UTC()
	r.CreatedAt = now
	r.UpdatedAt = now

	query := `INSERT INTO resources (` + resourceColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := db.conn.ExecContext(ctx, query,
		r.ID.String(), r.TenantID.String(), r.Name, r.ResourceType, r.Capacity,
		r.Active, r.Notes, r.CreatedAt, r.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create resource: %w", err)
	}
	return nil
}

// GetResource retrieves a resource within the tenant.
func (db *DB) GetResource(ctx context.Context, tenantID, id uuid.UUID) (*models.Resource, error) {
	query := `SELECT ` + resourceColumns + ` FROM resources WHERE tenant_id = ? AND id = ?`
	row := db.conn.QueryRowContext(ctx, query, tenantID.String(), id.String())
	r, err := scanResource(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return r, nil
}

// ListResources returns the tenant's resources, optionally narrowed to a
// set of concrete resource types (nil means all).
func (db *DB) ListResources(ctx context.Context, tenantID uuid.UUID, types []string, activeOnly bool) ([]models.Resource, error) {
	query := `SELECT ` + resourceColumns + ` FROM resources WHERE tenant_id = ?`
	args := []any{tenantID.String()}
	if len(types) > 0 {
		query += ` AND resource_type IN (`
		for i, t := range types {
			if i > 0 {
				query += `, `
			}
			query += `?`
			args = append(args, t)
		}
		query += `)`
	}
	if activeOnly {
		query += ` AND active = true`
	}
	query += ` ORDER BY name`

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list resources: %w", err)
	}
	defer closeRows(rows)

	var resources []models.Resource
	for rows.Next() {
		r, err := scanResource(rows.Scan)
		if err != nil {
			return nil, err
		}
		resources = append(resources, *r)
	}
	return resources, rows.Err()
}

// UpdateResource replaces the resource's editable fields.
func (db *DB) UpdateResource(ctx context.Context, r *models.Resource) error {
	r.UpdatedAt = time.Now().UTC()
	result, err := db.conn.ExecContext(ctx,
		`UPDATE resources SET name = ?, resource_type = ?, capacity = ?, active = ?, notes = ?, updated_at = ?
		 WHERE tenant_id = ? AND id = ?`,
		r.Name, r.ResourceType, r.Capacity, r.Active, r.Notes, r.UpdatedAt,
		r.TenantID.String(), r.ID.String())
	if err != nil {
		return fmt.Errorf("failed to update resource: %w", err)
	}
	return requireRowsAffected(result)
}

// DeactivateResource hides a resource from availability without deleting
// its reservation history.
func (db *DB) DeactivateResource(ctx context.Context, tenantID, id uuid.UUID) error {
	result, err := db.conn.ExecContext(ctx,
		`UPDATE resources SET active = false, updated_at = ? WHERE tenant_id = ? AND id = ?`,
		time.Now().UTC(), tenantID.String(), id.String())
	if err != nil {
		return fmt.Errorf("failed to deactivate resource: %w", err)
	}
	return requireRowsAffected(result)
}

func scanResource(scan func(...any) error) (*models.Resource, error) {
	var r models.Resource
	var rid, tid string
	var notes sql.NullString
	err := scan(&rid, &tid, &r.Name, &r.ResourceType, &r.Capacity, &r.Active, &notes, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("failed to scan resource: %w", err)
	}
	r.ID, r.TenantID = mustUUID(rid), mustUUID(tid)
	r.Notes = notes.String
	return &r, nil
}
