// Kennelwise - Pet Boarding, Daycare & Grooming Operations Platform
// Copyright 2026 Kennelwise Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kennelwise/kennelwise

package models

import (
	"time"

	"github.com/google/uuid"
)

// Invoice statuses.
const (
	InvoiceStatusDraft  = "DRAFT"
	InvoiceStatusIssued = "ISSUED"
	InvoiceStatusPaid   = "PAID"
	InvoiceStatusVoid   = "VOID"
)

// Payment methods and statuses.
const (
	PaymentMethodCard  = "CARD"
	PaymentMethodCash  = "CASH"
	PaymentMethodCheck = "CHECK"

	PaymentStatusCompleted = "COMPLETED"
	PaymentStatusFailed    = "FAILED"
	PaymentStatusRefunded  = "REFUNDED"
)

// Invoice bills a customer for one or more reservations. All amounts are
// integer cents; TotalCents = SubtotalCents + TaxCents.
type Invoice struct {
	ID            uuid.UUID  `json:"id"`
	TenantID      uuid.UUID  `json:"tenant_id"`
	CustomerID    uuid.UUID  `json:"customer_id"`
	ReservationID *uuid.UUID `json:"reservation_id,omitempty"`
	Status        string     `json:"status"`
	SubtotalCents int64      `json:"subtotal_cents"`
	TaxCents      int64      `json:"tax_cents"`
	TotalCents    int64      `json:"total_cents"`
	IssuedAt      *time.Time `json:"issued_at,omitempty"`
	DueAt         *time.Time `json:"due_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// Payment records money received against an invoice. Card payments go
// through the gateway client; cash and check are recorded directly.
type Payment struct {
	ID          uuid.UUID `json:"id"`
	TenantID    uuid.UUID `json:"tenant_id"`
	InvoiceID   uuid.UUID `json:"invoice_id"`
	CustomerID  uuid.UUID `json:"customer_id"`
	AmountCents int64     `json:"amount_cents"`
	Method      string    `json:"method"`
	Status      string    `json:"status"`

	// GatewayRef is the processor's transaction reference for card payments.
	GatewayRef string `json:"gateway_ref,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// CreateInvoiceRequest is the payload for creating an invoice.
type CreateInvoiceRequest struct {
	CustomerID    string `json:"customer_id" validate:"required,uuid4"`
	ReservationID string `json:"reservation_id" validate:"omitempty,uuid4"`
	SubtotalCents int64  `json:"subtotal_cents" validate:"min=0,max=100000000"`
	TaxCents      int64  `json:"tax_cents" validate:"min=0,max=100000000"`
	DueAt         string `json:"due_at" validate:"omitempty,datetime=2006-01-02"`
}

// CreatePaymentRequest is the payload for taking a payment.
type CreatePaymentRequest struct {
	InvoiceID   string `json:"invoice_id" validate:"required,uuid4"`
	AmountCents int64  `json:"amount_cents" validate:"required,min=1,max=100000000"`
	Method      string `json:"method" validate:"required,oneof=CARD CASH CHECK"`

	// CardToken is the tokenized card reference required for CARD payments.
	CardToken string `json:"card_token" validate:"omitempty,max=128"`
}

// RevenueSummary is the period revenue report. Revenue is computed three
// independent ways and cross-validated; any pairwise disagreement beyond
// the configured tolerance sets DriftDetected.
type RevenueSummary struct {
	PeriodStart time.Time `json:"period_start"`
	PeriodEnd   time.Time `json:"period_end"`

	// InvoicedCents sums issued and paid invoice totals in the period.
	InvoicedCents int64 `json:"invoiced_cents"`

	// CollectedCents sums completed payments, net of refunds.
	CollectedCents int64 `json:"collected_cents"`

	// BookedCents sums reservation service + add-on charges for stays
	// ending in the period.
	BookedCents int64 `json:"booked_cents"`

	OutstandingCents    int64            `json:"outstanding_cents"`
	InvoicedVsCollected int64            `json:"invoiced_vs_collected_cents"`
	InvoicedVsBooked    int64            `json:"invoiced_vs_booked_cents"`
	DriftDetected       bool             `json:"drift_detected"`
	DriftToleranceCents int64            `json:"drift_tolerance_cents"`
	PaymentCount        int              `json:"payment_count"`
	InvoiceCount        int              `json:"invoice_count"`
	ReservationCount    int              `json:"reservation_count"`
	RefundedCents       int64            `json:"refunded_cents"`
	AverageInvoiceCents int64            `json:"average_invoice_cents"`
	LargestInvoiceCents int64            `json:"largest_invoice_cents"`
	RevenueByCategory   map[string]int64 `json:"revenue_by_category,omitempty"`
}

// OccupancyReport summarizes resource utilization per type over a period.
type OccupancyReport struct {
	PeriodStart time.Time      `json:"period_start"`
	PeriodEnd   time.Time      `json:"period_end"`
	ByType      []OccupancyRow `json:"by_type"`
}

// OccupancyRow is one resource type's utilization.
type OccupancyRow struct {
	ResourceType  string  `json:"resource_type"`
	ResourceCount int     `json:"resource_count"`
	CapacityDays  int64   `json:"capacity_days"`
	ReservedDays  int64   `json:"reserved_days"`
	Utilization   float64 `json:"utilization"`
}
