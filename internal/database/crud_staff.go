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

const staffColumns = `id, tenant_id, first_name, last_name, email, role, password_hash, active, created_at, updated_at`

// CreateStaff adds an employee account. Emails are stored lowercase and
// unique per tenant.
func (db *DB) CreateStaff(ctx context.Context, s *models.StaffMember) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	s.Email = strings.ToLower(s.Email)
	now := time.Now().UTC()
	s.CreatedAt = now
	s.UpdatedAt = now

	query := `INSERT INTO staff (` + staffColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := db.conn.ExecContext(ctx, query,
		s.ID.String(), s.TenantID.String(), s.FirstName, s.LastName, s.Email,
		s.Role, s.PasswordHash, s.Active, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to create staff member: %w", err)
	}
	return nil
}

// GetStaff retrieves a staff member within the tenant.
func (db *DB) GetStaff(ctx context.Context, tenantID, id uuid.UUID) (*models.StaffMember, error) {
	query := `SELECT ` + staffColumns + ` FROM staff WHERE tenant_id = ? AND id = ?`
	row := db.conn.QueryRowContext(ctx, query, tenantID.String(), id.String())
	s, err := scanStaff(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

// GetStaffByEmail retrieves a staff member by login email for
// authentication.
func (db *DB) GetStaffByEmail(ctx context.Context, tenantID uuid.UUID, email string) (*models.StaffMember, error) {
	query := `SELECT ` + staffColumns + ` FROM staff WHERE tenant_id = ? AND email = ?`
	row := db.conn.QueryRowContext(ctx, query, tenantID.String(), strings.ToLower(email))
	s, err := scanStaff(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

// ListStaff returns the tenant's staff roster.
func (db *DB) ListStaff(ctx context.Context, tenantID uuid.UUID, activeOnly bool) ([]models.StaffMember, error) {
	query := `SELECT ` + staffColumns + ` FROM staff WHERE tenant_id = ?`
	if activeOnly {
		query += ` AND active = true`
	}
	query += ` ORDER BY last_name, first_name`

	rows, err := db.conn.QueryContext(ctx, query, tenantID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to list staff: %w", err)
	}
	defer closeRows(rows)

	var staff []models.StaffMember
	for rows.Next() {
		s, err := scanStaff(rows.Scan)
		if err != nil {
			return nil, err
		}
		staff = append(staff, *s)
	}
	return staff, rows.Err()
}

// UpdateStaff replaces the staff member's editable fields. Password changes
// go through UpdateStaffPassword.
func (db *DB) UpdateStaff(ctx context.Context, s *models.StaffMember) error {
	s.UpdatedAt = time.Now().UTC()
	result, err := db.conn.ExecContext(ctx,
		`UPDATE staff SET first_name = ?, last_name = ?, email = ?, role = ?, active = ?, updated_at = ?
		 WHERE tenant_id = ? AND id = ?`,
		s.FirstName, s.LastName, strings.ToLower(s.Email), s.Role, s.Active, s.UpdatedAt,
		s.TenantID.String(), s.ID.String())
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("failed to update staff member: %w", err)
	}
	return requireRowsAffected(result)
}

// UpdateStaffPassword replaces the stored bcrypt hash.
func (db *DB) UpdateStaffPassword(ctx context.Context, tenantID, id uuid.UUID, passwordHash string) error {
	result, err := db.conn.ExecContext(ctx,
		`UPDATE staff SET password_hash = ?, updated_at = ? WHERE tenant_id = ? AND id = ?`,
		passwordHash, time.Now().UTC(), tenantID.String(), id.String())
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	return requireRowsAffected(result)
}

// CreateShift schedules a work block.
func (db *DB) CreateShift(ctx context.Context, s *models.Shift) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO shifts (id, tenant_id, staff_id, starts_at, ends_at, role, notes)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		s.ID.String(), s.TenantID.String(), s.StaffID.String(), s.StartsAt, s.EndsAt, s.Role, s.Notes)
	if err != nil {
		return fmt.Errorf("failed to create shift: %w", err)
	}
	return nil
}

// ListShifts returns shifts overlapping [from, to], optionally for one
// staff member.
func (db *DB) ListShifts(ctx context.Context, tenantID uuid.UUID, staffID *uuid.UUID, from, to time.Time) ([]models.Shift, error) {
	query := `SELECT id, tenant_id, staff_id, starts_at, ends_at, role, notes FROM shifts
		WHERE tenant_id = ? AND starts_at <= ? AND ends_at >= ?`
	args := []any{tenantID.String(), to, from}
	if staffID != nil {
		query += ` AND staff_id = ?`
		args = append(args, staffID.String())
	}
	query += ` ORDER BY starts_at`

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list shifts: %w", err)
	}
	defer closeRows(rows)

	var shifts []models.Shift
	for rows.Next() {
		var s models.Shift
		var sid, tid, staffIDStr string
		var role, notes sql.NullString
		if err := rows.Scan(&sid, &tid, &staffIDStr, &s.StartsAt, &s.EndsAt, &role, &notes); err != nil {
			return nil, fmt.Errorf("failed to scan shift: %w", err)
		}
		s.ID, s.TenantID, s.StaffID = mustUUID(sid), mustUUID(tid), mustUUID(staffIDStr)
		s.Role, s.Notes = role.String, notes.String
		shifts = append(shifts, s)
	}
	return shifts, rows.Err()
}

// DeleteShift removes a scheduled work block.
func (db *DB) DeleteShift(ctx context.Context, tenantID, id uuid.UUID) error {
	result, err := db.conn.ExecContext(ctx,
		`DELETE FROM shifts WHERE tenant_id = ? AND id = ?`, tenantID.String(), id.String())
	if err != nil {
		return fmt.Errorf("failed to delete shift: %w", err)
	}
	return requireRowsAffected(result)
}

func scanStaff(scan func(...any) error) (*models.StaffMember, error) {
	var s models.StaffMember
	var sid, tid string
	err := scan(&sid, &tid, &s.FirstName, &s.LastName, &s.Email, &s.Role, &s.PasswordHash, &s.Active, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("failed to scan staff member: %w", err)
	}
	s.ID, s.TenantID = mustUUID(sid), mustUUID(tid)
	return &s, nil
}
