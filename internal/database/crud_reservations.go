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

const reservationColumns = `id, tenant_id, customer_id, pet_id, resource_id, service_id, staff_id,
	status, start_date, end_date, total_cents, notes, checked_in_at, checked_out_at, created_at, updated_at`

// activeStatusesSQL is the availability scan's status filter.
const activeStatusesSQL = `status IN ('PENDING', 'CONFIRMED', 'CHECKED_IN')`

// CreateReservation inserts a reservation and its add-on rows in one
// transaction. Conflict checking happens in the handler before this call;
// the database does not re-verify capacity.
func (db *DB) CreateReservation(ctx context.Context, r *models.Reservation) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.Status == "" {
		r.Status = models.ReservationStatusPending
	}
	now := time.Now().UTC()
	r.CreatedAt = now
	r.UpdatedAt = now

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query := `INSERT INTO reservations (` + reservationColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = tx.ExecContext(ctx, query,
		r.ID.String(), r.TenantID.String(), r.CustomerID.String(), r.PetID.String(),
		r.ResourceID.String(), r.ServiceID.String(), uuidPtrValue(r.StaffID),
		r.Status, r.StartDate, r.EndDate, r.TotalCents, r.Notes,
		timePtrValue(r.CheckedInAt), timePtrValue(r.CheckedOutAt), r.CreatedAt, r.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create reservation: %w", err)
	}

	for _, addOnID := range r.AddOnIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO reservation_add_ons (reservation_id, add_on_id) VALUES (?, ?)`,
			r.ID.String(), addOnID.String()); err != nil {
			return fmt.Errorf("failed to attach add-on: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit reservation: %w", err)
	}
	return nil
}

// GetReservation retrieves a reservation with its add-on IDs.
func (db *DB) GetReservation(ctx context.Context, tenantID, id uuid.UUID) (*models.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE tenant_id = ? AND id = ?`
	row := db.conn.QueryRowContext(ctx, query, tenantID.String(), id.String())
	r, err := scanReservation(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if err := db.loadAddOnIDs(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// ListReservations returns the tenant's reservations matching the filter,
// newest stays first, plus the total match count for pagination.
func (db *DB) ListReservations(ctx context.Context, tenantID uuid.UUID, f *models.ReservationFilter) ([]models.Reservation, int, error) {
	where := `WHERE tenant_id = ?`
	args := []any{tenantID.String()}

	if f.CustomerID != nil {
		where += ` AND customer_id = ?`
		args = append(args, f.CustomerID.String())
	}
	if f.PetID != nil {
		where += ` AND pet_id = ?`
		args = append(args, f.PetID.String())
	}
	if f.ResourceID != nil {
		where += ` AND resource_id = ?`
		args = append(args, f.ResourceID.String())
	}
	if f.Status != "" {
		where += ` AND status = ?`
		args = append(args, f.Status)
	}
	// Date filters use the same inclusive overlap rule as availability.
	if f.To != nil {
		where += ` AND start_date <= ?`
		args = append(args, *f.To)
	}
	if f.From != nil {
		where += ` AND end_date >= ?`
		args = append(args, *f.From)
	}

	var total int
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM reservations `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count reservations: %w", err)
	}

	query := `SELECT ` + reservationColumns + ` FROM reservations ` + where + ` ORDER BY start_date DESC, created_at DESC LIMIT ? OFFSET ?`
	args = append(args, f.Limit, f.Offset)

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list reservations: %w", err)
	}
	defer closeRows(rows)

	var reservations []models.Reservation
	for rows.Next() {
		r, err := scanReservation(rows.Scan)
		if err != nil {
			return nil, 0, err
		}
		reservations = append(reservations, *r)
	}
	return reservations, total, rows.Err()
}

// ListActiveReservationsOverlapping returns reservations that hold a
// resource during [start, end]: active status and inclusive interval
// intersection (start_date <= end AND end_date >= start).
func (db *DB) ListActiveReservationsOverlapping(ctx context.Context, tenantID uuid.UUID, start, end time.Time) ([]models.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations
		WHERE tenant_id = ? AND ` + activeStatusesSQL + ` AND start_date <= ? AND end_date >= ?
		ORDER BY start_date`

	rows, err := db.conn.QueryContext(ctx, query, tenantID.String(), end, start)
	if err != nil {
		return nil, fmt.Errorf("failed to query overlapping reservations: %w", err)
	}
	defer closeRows(rows)

	var reservations []models.Reservation
	for rows.Next() {
		r, err := scanReservation(rows.Scan)
		if err != nil {
			return nil, err
		}
		reservations = append(reservations, *r)
	}
	return reservations, rows.Err()
}

// ListActiveReservations returns every reservation currently holding a
// resource, for the double-booking audit.
func (db *DB) ListActiveReservations(ctx context.Context, tenantID uuid.UUID) ([]models.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations
		WHERE tenant_id = ? AND ` + activeStatusesSQL + ` ORDER BY resource_id, start_date`

	rows, err := db.conn.QueryContext(ctx, query, tenantID.String())
	if err != nil {
		return nil, fmt.Errorf("failed to query active reservations: %w", err)
	}
	defer closeRows(rows)

	var reservations []models.Reservation
	for rows.Next() {
		r, err := scanReservation(rows.Scan)
		if err != nil {
			return nil, err
		}
		reservations = append(reservations, *r)
	}
	return reservations, rows.Err()
}

// UpdateReservationStatus transitions a reservation and stamps check-in and
// check-out times on the corresponding transitions.
func (db *DB) UpdateReservationStatus(ctx context.Context, tenantID, id uuid.UUID, status string) error {
	now := time.Now().UTC()

	query := `UPDATE reservations SET status = ?, updated_at = ?`
	args := []any{status, now}
	switch status {
	case models.ReservationStatusCheckedIn:
		query += `, checked_in_at = ?`
		args = append(args, now)
	case models.ReservationStatusCheckedOut:
		query += `, checked_out_at = ?`
		args = append(args, now)
	}
	query += ` WHERE tenant_id = ? AND id = ?`
	args = append(args, tenantID.String(), id.String())

	result, err := db.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update reservation status: %w", err)
	}
	return requireRowsAffected(result)
}

// UpdateReservation replaces the reschedulable fields: dates, resource,
// staff assignment, total, and notes. Status transitions go through
// UpdateReservationStatus.
func (db *DB) UpdateReservation(ctx context.Context, r *models.Reservation) error {
	r.UpdatedAt = time.Now().UTC()
	result, err := db.conn.ExecContext(ctx,
		`UPDATE reservations SET resource_id = ?, staff_id = ?, start_date = ?, end_date = ?,
		 total_cents = ?, notes = ?, updated_at = ?
		 WHERE tenant_id = ? AND id = ?`,
		r.ResourceID.String(), uuidPtrValue(r.StaffID), r.StartDate, r.EndDate,
		r.TotalCents, r.Notes, r.UpdatedAt,
		r.TenantID.String(), r.ID.String())
	if err != nil {
		return fmt.Errorf("failed to update reservation: %w", err)
	}
	return requireRowsAffected(result)
}

// loadAddOnIDs populates r.AddOnIDs from the join table.
func (db *DB) loadAddOnIDs(ctx context.Context, r *models.Reservation) error {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT add_on_id FROM reservation_add_ons WHERE reservation_id = ?`, r.ID.String())
	if err != nil {
		return fmt.Errorf("failed to load reservation add-ons: %w", err)
	}
	defer closeRows(rows)

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return fmt.Errorf("failed to scan add-on id: %w", err)
		}
		r.AddOnIDs = append(r.AddOnIDs, mustUUID(id))
	}
	return rows.Err()
}

func scanReservation(scan func(...any) error) (*models.Reservation, error) {
	var r models.Reservation
	var rid, tid, cid, pid, resID, sid string
	var staffID, notes sql.NullString
	var checkedIn, checkedOut sql.NullTime

	err := scan(&rid, &tid, &cid, &pid, &resID, &sid, &staffID,
		&r.Status, &r.StartDate, &r.EndDate, &r.TotalCents, &notes,
		&checkedIn, &checkedOut, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("failed to scan reservation: %w", err)
	}

	r.ID, r.TenantID = mustUUID(rid), mustUUID(tid)
	r.CustomerID, r.PetID = mustUUID(cid), mustUUID(pid)
	r.ResourceID, r.ServiceID = mustUUID(resID), mustUUID(sid)
	r.StaffID = nullUUIDPtr(staffID)
	r.Notes = notes.String
	r.CheckedInAt = nullTimePtr(checkedIn)
	r.CheckedOutAt = nullTimePtr(checkedOut)
	return &r, nil
}
