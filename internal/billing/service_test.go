// Kennelwise - Pet Boarding, Daycare & Grooming Operations Platform
// Copyright 2026 Kennelwise Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kennelwise/kennelwise

package billing

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/kennelwise/kennelwise/internal/database"
	"github.com/kennelwise/kennelwise/internal/models"
)

type fakeSource struct {
	agg *database.RevenueAggregates
}

func (f *fakeSource) GetRevenueAggregates(context.Context, uuid.UUID, time.Time, time.Time) (*database.RevenueAggregates, error) {
	return f.agg, nil
}

func summaryFor(t *testing.T, agg *database.RevenueAggregates, tolerance int64) *models.RevenueSummary {
	t.Helper()
	svc := NewService(&fakeSource{agg: agg}, tolerance)
	summary, err := svc.BuildRevenueSummary(context.Background(), uuid.New(),
		time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("BuildRevenueSummary: %v", err)
	}
	return summary
}

func TestRevenueSummaryConverged(t *testing.T) {
	summary := summaryFor(t, &database.RevenueAggregates{
		InvoicedCents:  100000,
		CollectedCents: 100000,
		BookedCents:    100000,
		InvoiceCount:   4,
	}, 100)

	if summary.DriftDetected {
		t.Error("converged figures must not flag drift")
	}
	if summary.InvoicedVsCollected != 0 || summary.InvoicedVsBooked != 0 {
		t.Errorf("diffs = %d/%d", summary.InvoicedVsCollected, summary.InvoicedVsBooked)
	}
	if summary.AverageInvoiceCents != 25000 {
		t.Errorf("average invoice = %d", summary.AverageInvoiceCents)
	}
}

func TestRevenueSummaryDrift(t *testing.T) {
	tests := []struct {
		name      string
		agg       database.RevenueAggregates
		tolerance int64
		wantDrift bool
	}{
		{
			name:      "collected lags within tolerance",
			agg:       database.RevenueAggregates{InvoicedCents: 10000, CollectedCents: 9950, BookedCents: 10000},
			tolerance: 100,
			wantDrift: false,
		},
		{
			name:      "collected lags beyond tolerance",
			agg:       database.RevenueAggregates{InvoicedCents: 10000, CollectedCents: 8000, BookedCents: 10000},
			tolerance: 100,
			wantDrift: true,
		},
		{
			name:      "booked disagrees beyond tolerance",
			agg:       database.RevenueAggregates{InvoicedCents: 10000, CollectedCents: 10000, BookedCents: 14000},
			tolerance: 100,
			wantDrift: true,
		},
		{
			name:      "exactly at tolerance is not drift",
			agg:       database.RevenueAggregates{InvoicedCents: 10000, CollectedCents: 9900, BookedCents: 10000},
			tolerance: 100,
			wantDrift: false,
		},
		{
			name:      "zero tolerance flags any difference",
			agg:       database.RevenueAggregates{InvoicedCents: 10000, CollectedCents: 9999, BookedCents: 10000},
			tolerance: 0,
			wantDrift: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			summary := summaryFor(t, &tt.agg, tt.tolerance)
			if summary.DriftDetected != tt.wantDrift {
				t.Errorf("drift = %v, want %v", summary.DriftDetected, tt.wantDrift)
			}
		})
	}
}

func TestQuoteReservation(t *testing.T) {
	boarding := &models.Service{Category: models.ServiceCategoryBoarding, RateCents: 5000}
	grooming := &models.Service{Category: models.ServiceCategoryGrooming, RateCents: 8000}
	daycare := &models.Service{Category: models.ServiceCategoryDaycare, RateCents: 3500}
	addOns := []models.AddOn{{PriceCents: 1000}, {PriceCents: 500}}

	d := func(dd int) time.Time { return time.Date(2026, 4, dd, 0, 0, 0, 0, time.UTC) }

	tests := []struct {
		name       string
		service    *models.Service
		addOns     []models.AddOn
		start, end time.Time
		want       int64
	}{
		{"four nights boarding", boarding, nil, d(1), d(5), 20000},
		{"boarding with add-ons", boarding, addOns, d(1), d(5), 21500},
		{"same-day boarding bills one night", boarding, nil, d(1), d(1), 5000},
		{"same-day groom bills one unit", grooming, nil, d(3), d(3), 8000},
		{"two daycare days", daycare, nil, d(1), d(2), 7000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := QuoteReservation(tt.service, tt.addOns, tt.start, tt.end); got != tt.want {
				t.Errorf("quote = %d, want %d", got, tt.want)
			}
		})
	}
}
