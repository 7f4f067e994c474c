// Kennelwise - Pet Boarding, Daycare & Grooming Operations Platform
// Copyright 2026 Kennelwise Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kennelwise/kennelwise

// Package billing computes revenue reports with three-way cross-validation
// and talks to the external card processor behind a circuit breaker.
package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kennelwise/kennelwise/internal/database"
	"github.com/kennelwise/kennelwise/internal/logging"
	"github.com/kennelwise/kennelwise/internal/models"
)

// RevenueSource supplies the raw period aggregates. Satisfied by
// *database.DB.
type RevenueSource interface {
	GetRevenueAggregates(ctx context.Context, tenantID uuid.UUID, start, end time.Time) (*database.RevenueAggregates, error)
}

// Service builds billing reports.
type Service struct {
	source RevenueSource

	// driftToleranceCents is the max pairwise disagreement between the
	// three revenue figures before the report flags drift.
	driftToleranceCents int64
}

// NewService creates a billing report service.
func NewService(source RevenueSource, driftToleranceCents int64) *Service {
	return &Service{source: source, driftToleranceCents: driftToleranceCents}
}

// BuildRevenueSummary computes period revenue three independent ways and
// cross-validates them:
//
//   - invoiced: what was billed (invoice totals by issue date)
//   - collected: what was received (completed payments minus refunds)
//   - booked: what was earned (reservation charges for stays ending
//     in the period)
//
// In a healthy book all three converge as stays complete, get invoiced,
// and get paid. Disagreement beyond the tolerance marks DriftDetected so
// operators investigate instead of trusting any single figure.
func (s *Service) BuildRevenueSummary(ctx context.Context, tenantID uuid.UUID, start, end time.Time) (*models.RevenueSummary, error) {
	agg, err := s.source.GetRevenueAggregates(ctx, tenantID, start, end)
	if err != nil {
		return nil, fmt.Errorf("failed to load revenue aggregates: %w", err)
	}

	summary := &models.RevenueSummary{
		PeriodStart:         start,
		PeriodEnd:           end,
		InvoicedCents:       agg.InvoicedCents,
		CollectedCents:      agg.CollectedCents,
		BookedCents:         agg.BookedCents,
		OutstandingCents:    agg.OutstandingCents,
		InvoicedVsCollected: agg.InvoicedCents - agg.CollectedCents,
		InvoicedVsBooked:    agg.InvoicedCents - agg.BookedCents,
		DriftToleranceCents: s.driftToleranceCents,
		PaymentCount:        agg.PaymentCount,
		InvoiceCount:        agg.InvoiceCount,
		ReservationCount:    agg.ReservationCount,
		RefundedCents:       agg.RefundedCents,
		LargestInvoiceCents: agg.LargestInvoiceCents,
		RevenueByCategory:   agg.RevenueByCategory,
	}
	if agg.InvoiceCount > 0 {
		summary.AverageInvoiceCents = agg.InvoicedCents / int64(agg.InvoiceCount)
	}

	summary.DriftDetected = abs64(summary.InvoicedVsCollected) > s.driftToleranceCents ||
		abs64(summary.InvoicedVsBooked) > s.driftToleranceCents

	if summary.DriftDetected {
		logging.Ctx(ctx).Warn().
			Int64("invoiced_cents", summary.InvoicedCents).
			Int64("collected_cents", summary.CollectedCents).
			Int64("booked_cents", summary.BookedCents).
			Int64("tolerance_cents", s.driftToleranceCents).
			Msg("Revenue drift detected")
	}
	return summary, nil
}

func abs64(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}

// QuoteReservation computes the charge for a stay: service rate times
// billable units plus add-on prices. Boarding bills per night; everything
// else bills per day with same-day visits counting as one unit.
func QuoteReservation(service *models.Service, addOns []models.AddOn, start, end time.Time) int64 {
	units := int64(end.Sub(start).Hours() / 24)
	if service.Category != models.ServiceCategoryBoarding {
		units++ // day-based services include the start day
	}
	if units < 1 {
		units = 1
	}

	total := service.RateCents * units
	for _, a := range addOns {
		total += a.PriceCents
	}
	return total
}
