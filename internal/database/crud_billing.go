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

const invoiceColumns = `id, tenant_id, customer_id, reservation_id, status, subtotal_cents, tax_cents,
	total_cents, issued_at, due_at, created_at, updated_at`

// CreateInvoice writes a draft invoice. TotalCents is recomputed here so
// the stored row always satisfies subtotal + tax = total.
func (db *DB) CreateInvoice(ctx context.Context, inv *models.Invoice) error {
	if inv.ID == uuid.Nil {
		inv.ID = uuid.New()
	}
	if inv.Status == "" {
		inv.Status = models.InvoiceStatusDraft
	}
	inv.TotalCents = inv.SubtotalCents + inv.TaxCents
	now := time.Now().UTC()
	inv.CreatedAt = now
	inv.UpdatedAt = now

	query := `INSERT INTO invoices (` + invoiceColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err := db.conn.ExecContext(ctx, query,
		inv.ID.String(), inv.TenantID.String(), inv.CustomerID.String(), uuidPtrValue(inv.ReservationID),
		inv.Status, inv.SubtotalCents, inv.TaxCents, inv.TotalCents,
		timePtrValue(inv.IssuedAt), timePtrValue(inv.DueAt), inv.CreatedAt, inv.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create invoice: %w", err)
	}
	return nil
}

// GetInvoice retrieves an invoice within the tenant.
func (db *DB) GetInvoice(ctx context.Context, tenantID, id uuid.UUID) (*models.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE tenant_id = ? AND id = ?`
	row := db.conn.QueryRowContext(ctx, query, tenantID.String(), id.String())
	inv, err := scanInvoice(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return inv, nil
}

// ListInvoices returns the tenant's invoices, optionally filtered by
// status and customer.
func (db *DB) ListInvoices(ctx context.Context, tenantID uuid.UUID, status string, customerID *uuid.UUID, limit, offset int) ([]models.Invoice, int, error) {
	where := `WHERE tenant_id = ?`
	args := []any{tenantID.String()}
	if status != "" {
		where += ` AND status = ?`
		args = append(args, status)
	}
	if customerID != nil {
		where += ` AND customer_id = ?`
		args = append(args, customerID.String())
	}

	var total int
	if err := db.conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM invoices `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count invoices: %w", err)
	}

	query := `SELECT ` + invoiceColumns + ` FROM invoices ` + where + ` ORDER BY created_at DESC LIMIT ? OFFSET ?`
	args = append(args, limit, offset)
	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list invoices: %w", err)
	}
	defer closeRows(rows)

	var invoices []models.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows.Scan)
		if err != nil {
			return nil, 0, err
		}
		invoices = append(invoices, *inv)
	}
	return invoices, total, rows.Err()
}

// UpdateInvoiceStatus transitions an invoice, stamping issued_at on ISSUED.
func (db *DB) UpdateInvoiceStatus(ctx context.Context, tenantID, id uuid.UUID, status string) error {
	now := time.Now().UTC()
	query := `UPDATE invoices SET status = ?, updated_at = ?`
	args := []any{status, now}
	if status == models.InvoiceStatusIssued {
		query += `, issued_at = ?`
		args = append(args, now)
	}
	query += ` WHERE tenant_id = ? AND id = ?`
	args = append(args, tenantID.String(), id.String())

	result, err := db.conn.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to update invoice status: %w", err)
	}
	return requireRowsAffected(result)
}

// CreatePayment records money received against an invoice.
func (db *DB) CreatePayment(ctx context.Context, p *models.Payment) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	p.CreatedAt = time.Now().UTC()

	_, err := db.conn.ExecContext(ctx,
		`INSERT INTO payments (id, tenant_id, invoice_id, customer_id, amount_cents, method, status, gateway_ref, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID.String(), p.TenantID.String(), p.InvoiceID.String(), p.CustomerID.String(),
		p.AmountCents, p.Method, p.Status, p.GatewayRef, p.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}
	return nil
}

// ListPayments returns payments for an invoice, or the whole tenant when
// invoiceID is nil.
func (db *DB) ListPayments(ctx context.Context, tenantID uuid.UUID, invoiceID *uuid.UUID) ([]models.Payment, error) {
	query := `SELECT id, tenant_id, invoice_id, customer_id, amount_cents, method, status, gateway_ref, created_at
		FROM payments WHERE tenant_id = ?`
	args := []any{tenantID.String()}
	if invoiceID != nil {
		query += ` AND invoice_id = ?`
		args = append(args, invoiceID.String())
	}
	query += ` ORDER BY created_at DESC`

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer closeRows(rows)

	var payments []models.Payment
	for rows.Next() {
		var p models.Payment
		var pid, tid, iid, cid string
		var gatewayRef sql.NullString
		if err := rows.Scan(&pid, &tid, &iid, &cid, &p.AmountCents, &p.Method, &p.Status, &gatewayRef, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		p.ID, p.TenantID = mustUUID(pid), mustUUID(tid)
		p.InvoiceID, p.CustomerID = mustUUID(iid), mustUUID(cid)
		p.GatewayRef = gatewayRef.String
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

// SumCompletedPayments returns completed payment cents against an invoice,
// used to flip invoices to PAID once fully covered.
func (db *DB) SumCompletedPayments(ctx context.Context, tenantID, invoiceID uuid.UUID) (int64, error) {
	var sum sql.NullInt64
	err := db.conn.QueryRowContext(ctx,
		`SELECT SUM(amount_cents) FROM payments
		 WHERE tenant_id = ? AND invoice_id = ? AND status = 'COMPLETED'`,
		tenantID.String(), invoiceID.String()).Scan(&sum)
	if err != nil {
		return 0, fmt.Errorf("failed to sum payments: %w", err)
	}
	return sum.Int64, nil
}

func scanInvoice(scan func(...any) error) (*models.Invoice, error) {
	var inv models.Invoice
	var iid, tid, cid string
	var reservationID sql.NullString
	var issuedAt, dueAt sql.NullTime

	err := scan(&iid, &tid, &cid, &reservationID, &inv.Status,
		&inv.SubtotalCents, &inv.TaxCents, &inv.TotalCents,
		&issuedAt, &dueAt, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("failed to scan invoice: %w", err)
	}

	inv.ID, inv.TenantID, inv.CustomerID = mustUUID(iid), mustUUID(tid), mustUUID(cid)
	inv.ReservationID = nullUUIDPtr(reservationID)
	inv.IssuedAt = nullTimePtr(issuedAt)
	inv.DueAt = nullTimePtr(dueAt)
	return &inv, nil
}
