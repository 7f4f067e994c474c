// Kennelwise - Pet Boarding, Daycare & Grooming Operations Platform
// Copyright 2026 Kennelwise Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kennelwise/kennelwise

package database

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/kennelwise/kennelwise/internal/models"
)

// RevenueAggregates are the raw period sums the billing service
// cross-validates. Each figure comes from an independent table so
// bookkeeping bugs in one path cannot hide in another.
type RevenueAggregates struct {
	InvoicedCents       int64
	InvoiceCount        int
	LargestInvoiceCents int64

	CollectedCents int64
	RefundedCents  int64
	PaymentCount   int

	BookedCents      int64
	ReservationCount int

	OutstandingCents  int64
	RevenueByCategory map[string]int64
}

// GetRevenueAggregates computes the three independent revenue figures for
// [start, end] plus the supporting counts.
//
//   - Invoiced: ISSUED and PAID invoice totals, by issue date.
//   - Collected: COMPLETED payments minus refunds, by payment date.
//   - Booked: reservation charges for stays ending in the period,
//     excluding cancellations and no-shows.
func (db *DB) GetRevenueAggregates(ctx context.Context, tenantID uuid.UUID, start, end time.Time) (*RevenueAggregates, error) {
	agg := &RevenueAggregates{RevenueByCategory: make(map[string]int64)}
	tid := tenantID.String()

	var invoiced, largest sql.NullInt64
	err := db.conn.QueryRowContext(ctx,
		`SELECT SUM(total_cents), COUNT(*), MAX(total_cents) FROM invoices
		 WHERE tenant_id = ? AND status IN ('ISSUED', 'PAID')
		   AND COALESCE(issued_at, created_at) >= ? AND COALESCE(issued_at, created_at) < ?`,
		tid, start, end.Add(24*time.Hour)).Scan(&invoiced, &agg.InvoiceCount, &largest)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate invoices: %w", err)
	}
	agg.InvoicedCents = invoiced.Int64
	agg.LargestInvoiceCents = largest.Int64

	var collected, refunded sql.NullInt64
	err = db.conn.QueryRowContext(ctx,
		`SELECT
			SUM(CASE WHEN status = 'COMPLETED' THEN amount_cents ELSE 0 END),
			SUM(CASE WHEN status = 'REFUNDED' THEN amount_cents ELSE 0 END),
			COUNT(CASE WHEN status = 'COMPLETED' THEN 1 END)
		 FROM payments
		 WHERE tenant_id = ? AND created_at >= ? AND created_at < ?`,
		tid, start, end.Add(24*time.Hour)).Scan(&collected, &refunded, &agg.PaymentCount)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate payments: %w", err)
	}
	agg.CollectedCents = collected.Int64 - refunded.Int64
	agg.RefundedCents = refunded.Int64

	var booked sql.NullInt64
	err = db.conn.QueryRowContext(ctx,
		`SELECT SUM(total_cents), COUNT(*) FROM reservations
		 WHERE tenant_id = ? AND end_date >= ? AND end_date <= ?
		   AND status NOT IN ('CANCELLED', 'NO_SHOW')`,
		tid, start, end).Scan(&booked, &agg.ReservationCount)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate reservations: %w", err)
	}
	agg.BookedCents = booked.Int64

	// Outstanding: issued but not yet covered by completed payments.
	var outstanding sql.NullInt64
	err = db.conn.QueryRowContext(ctx,
		`SELECT SUM(i.total_cents - COALESCE(p.paid, 0))
		 FROM invoices i
		 LEFT JOIN (
			SELECT invoice_id, SUM(amount_cents) AS paid FROM payments
			WHERE tenant_id = ? AND status = 'COMPLETED' GROUP BY invoice_id
		 ) p ON p.invoice_id = i.id
		 WHERE i.tenant_id = ? AND i.status = 'ISSUED'`,
		tid, tid).Scan(&outstanding)
	if err != nil {
		return nil, fmt.Errorf("failed to compute outstanding balance: %w", err)
	}
	agg.OutstandingCents = outstanding.Int64

	rows, err := db.conn.QueryContext(ctx,
		`SELECT s.category, SUM(r.total_cents) FROM reservations r
		 JOIN services s ON s.id = r.service_id AND s.tenant_id = r.tenant_id
		 WHERE r.tenant_id = ? AND r.end_date >= ? AND r.end_date <= ?
		   AND r.status NOT IN ('CANCELLED', 'NO_SHOW')
		 GROUP BY s.category`,
		tid, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate revenue by category: %w", err)
	}
	defer closeRows(rows)
	for rows.Next() {
		var category string
		var cents sql.NullInt64
		if err := rows.Scan(&category, &cents); err != nil {
			return nil, fmt.Errorf("failed to scan category revenue: %w", err)
		}
		agg.RevenueByCategory[category] = cents.Int64
	}
	return agg, rows.Err()
}

// GetOccupancyReport computes per-type utilization over [start, end].
// Capacity days are resource capacity times the period length; reserved
// days are the day-overlap of each active or completed stay clamped to the
// period.
func (db *DB) GetOccupancyReport(ctx context.Context, tenantID uuid.UUID, start, end time.Time) (*models.OccupancyReport, error) {
	periodDays := int64(end.Sub(start).Hours()/24) + 1
	if periodDays < 1 {
		periodDays = 1
	}

	report := &models.OccupancyReport{PeriodStart: start, PeriodEnd: end}
	tid := tenantID.String()

	rows, err := db.conn.QueryContext(ctx,
		`SELECT resource_type, COUNT(*), SUM(capacity) FROM resources
		 WHERE tenant_id = ? AND active = true GROUP BY resource_type ORDER BY resource_type`,
		tid)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate resources: %w", err)
	}
	defer closeRows(rows)

	byType := make(map[string]*models.OccupancyRow)
	for rows.Next() {
		var row models.OccupancyRow
		var capacitySum int64
		if err := rows.Scan(&row.ResourceType, &row.ResourceCount, &capacitySum); err != nil {
			return nil, fmt.Errorf("failed to scan resource aggregate: %w", err)
		}
		row.CapacityDays = capacitySum * periodDays
		byType[row.ResourceType] = &row
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	reservedRows, err := db.conn.QueryContext(ctx,
		`SELECT res.resource_type,
			SUM(date_diff('day', GREATEST(r.start_date, CAST(? AS DATE)), LEAST(r.end_date, CAST(? AS DATE))) + 1)
		 FROM reservations r
		 JOIN resources res ON res.id = r.resource_id AND res.tenant_id = r.tenant_id
		 WHERE r.tenant_id = ? AND r.start_date <= ? AND r.end_date >= ?
		   AND r.status NOT IN ('CANCELLED', 'NO_SHOW')
		 GROUP BY res.resource_type`,
		start, end, tid, end, start)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate reserved days: %w", err)
	}
	defer closeRows(reservedRows)

	for reservedRows.Next() {
		var resourceType string
		var reserved sql.NullInt64
		if err := reservedRows.Scan(&resourceType, &reserved); err != nil {
			return nil, fmt.Errorf("failed to scan reserved days: %w", err)
		}
		if row, ok := byType[resourceType]; ok {
			row.ReservedDays = reserved.Int64
		}
	}
	if err := reservedRows.Err(); err != nil {
		return nil, err
	}

	for _, row := range byType {
		if row.CapacityDays > 0 {
			row.Utilization = float64(row.ReservedDays) / float64(row.CapacityDays)
		}
		report.ByType = append(report.ByType, *row)
	}
	sort.Slice(report.ByType, func(i, j int) bool {
		return report.ByType[i].ResourceType < report.ByType[j].ResourceType
	})
	return report, nil
}
