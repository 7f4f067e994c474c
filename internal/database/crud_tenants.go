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
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kennelwise/kennelwise/internal/models"
)

const tenantColumns = `id, name, subdomain, status, timezone, created_at, updated_at`

// CreateTenant provisions a new facility. Subdomains are stored lowercase
// and must be globally unique.
func (db *DB) CreateTenant(ctx context.Context, t *models.Tenant) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.Status == "" {
		t.Status = models.TenantStatusActive
	}
	if t.Timezone == "" {
		t.Timezone = "UTC"
	}
	t.Subdomain = strings.ToLower(t.Subdomain)
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now

	query := `INSERT INTO tenants (` + tenantColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?)`
	_, err := db.conn.ExecContext(ctx, query,
		t.ID.String(), t.Name, t.Subdomain, t.Status, t.Timezone, t.CreatedAt, t.UpdatedAt)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create tenant: %w", err)
	}
	return nil
}

// GetTenantByID retrieves a tenant by ID.
func (db *DB) GetTenantByID(ctx context.Context, id uuid.UUID) (*models.Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants WHERE id = ?`
	return scanTenant(db.conn.QueryRowContext(ctx, query, id.String()))
}

// GetTenantBySubdomain retrieves a tenant by its subdomain label.
func (db *DB) GetTenantBySubdomain(ctx context.Context, subdomain string) (*models.Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants WHERE subdomain = ?`
	return scanTenant(db.conn.QueryRowContext(ctx, query, strings.ToLower(subdomain)))
}

// ListTenants returns all tenants, newest first. Super-admin only.
func (db *DB) ListTenants(ctx context.Context) ([]models.Tenant, error) {
	query := `SELECT ` + tenantColumns + ` FROM tenants ORDER BY created_at DESC`
	rows, err := db.conn.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list tenants: %w", err)
	}
	defer closeRows(rows)

	var tenants []models.Tenant
	for rows.Next() {
		t, err := scanTenantRow(rows)
		if err != nil {
			return nil, err
		}
		tenants = append(tenants, *t)
	}
	return tenants, rows.Err()
}

// UpdateTenantStatus transitions a tenant between ACTIVE, PAUSED, and
// SUSPENDED.
func (db *DB) UpdateTenantStatus(ctx context.Context, id uuid.UUID, status string) error {
	result, err := db.conn.ExecContext(ctx,
		`UPDATE tenants SET status = ?, updated_at = ? WHERE id = ?`,
		status, time.Now().UTC(), id.String())
	if err != nil {
		return fmt.Errorf("failed to update tenant status: %w", err)
	}
	return requireRowsAffected(result)
}

// requireRowsAffected converts a zero-row update into ErrNotFound.
func requireRowsAffected(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func scanTenant(row *sql.Row) (*models.Tenant, error) {
	var t models.Tenant
	var id string
	err := row.Scan(&id, &t.Name, &t.Subdomain, &t.Status, &t.Timezone, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan tenant: %w", err)
	}
	t.ID = mustUUID(id)
	return &t, nil
}

func scanTenantRow(rows *sql.Rows) (*models.Tenant, error) {
	var t models.Tenant
	var id string
	if err := rows.Scan(&id, &t.Name, &t.Subdomain, &t.Status, &t.Timezone, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, fmt.Errorf("failed to scan tenant: %w", err)
	}
	t.ID = mustUUID(id)
	return &t, nil
}
