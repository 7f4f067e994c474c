// Kennelwise - Pet Boarding, Daycare & Grooming Operations Platform
// Copyright 2026 Kennelwise Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kennelwise/kennelwise

package api

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/kennelwise/kennelwise/internal/billing"
	"github.com/kennelwise/kennelwise/internal/logging"
	"github.com/kennelwise/kennelwise/internal/metrics"
	"github.com/kennelwise/kennelwise/internal/models"
	"github.com/kennelwise/kennelwise/internal/tenant"
)

// InvoiceCreate raises a draft invoice for a customer, optionally linked to
// a reservation. TotalCents is always recomputed server-side.
func (h *Handler) InvoiceCreate(w http.ResponseWriter, r *http.Request) {
	t := tenant.FromContext(r.Context())

	var req models.CreateInvoiceRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}

	customerID := uuid.MustParse(req.CustomerID)
	if _, err := h.db.GetCustomer(r.Context(), t.ID, customerID); err != nil {
		h.respondLookupError(w, err, "customer")
		return
	}

	inv := &models.Invoice{
		TenantID:      t.ID,
		CustomerID:    customerID,
		SubtotalCents: req.SubtotalCents,
		TaxCents:      req.TaxCents,
	}
	if req.ReservationID != "" {
		reservationID := uuid.MustParse(req.ReservationID)
		if _, err := h.db.GetReservation(r.Context(), t.ID, reservationID); err != nil {
			h.respondLookupError(w, err, "reservation")
			return
		}
		inv.ReservationID = &reservationID
	}
	if req.DueAt != "" {
		due := mustParseDate(req.DueAt)
		inv.DueAt = &due
	}

	if err := h.db.CreateInvoice(r.Context(), inv); err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "could not create invoice", err)
		return
	}
	respondData(w, http.StatusCreated, inv)
}

// InvoiceGet returns one invoice.
func (h *Handler) InvoiceGet(w http.ResponseWriter, r *http.Request) {
	t := tenant.FromContext(r.Context())
	id, ok := urlUUID(w, r, "id")
	if !ok {
		return
	}

	inv, err := h.db.GetInvoice(r.Context(), t.ID, id)
	if err != nil {
		h.respondLookupError(w, err, "invoice")
		return
	}
	respondData(w, http.StatusOK, inv)
}

// InvoiceList returns invoices filtered by status and customer.
func (h *Handler) InvoiceList(w http.ResponseWriter, r *http.Request) {
	t := tenant.FromContext(r.Context())
	limit, offset := h.pagination(r)

	customerID, err := parseOptionalUUID(r.URL.Query().Get("customer_id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "customer_id must be a valid UUID", nil)
		return
	}

	invoices, total, err := h.db.ListInvoices(r.Context(), t.ID, r.URL.Query().Get("status"), customerID, limit, offset)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "could not list invoices", err)
		return
	}
	respondData(w, http.StatusOK, paginate(invoices, len(invoices), limit, offset, total))
}

type invoiceStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=DRAFT ISSUED PAID VOID"`
}

// InvoiceUpdateStatus transitions an invoice. Issuing stamps issued_at.
func (h *Handler) InvoiceUpdateStatus(w http.ResponseWriter, r *http.Request) {
	t := tenant.FromContext(r.Context())
	id, ok := urlUUID(w, r, "id")
	if !ok {
		return
	}

	var req invoiceStatusRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}

	if err := h.db.UpdateInvoiceStatus(r.Context(), t.ID, id, req.Status); err != nil {
		h.respondLookupError(w, err, "invoice")
		return
	}

	inv, err := h.db.GetInvoice(r.Context(), t.ID, id)
	if err != nil {
		h.respondLookupError(w, err, "invoice")
		return
	}
	respondData(w, http.StatusOK, inv)
}

// PaymentCreate takes a payment against an invoice. CARD payments are
// charged through the gateway client; CASH and CHECK are recorded directly.
// When the collected total reaches the invoice total, the invoice flips to
// PAID.
func (h *Handler) PaymentCreate(w http.ResponseWriter, r *http.Request) {
	t := tenant.FromContext(r.Context())

	var req models.CreatePaymentRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}

	invoiceID := uuid.MustParse(req.InvoiceID)
	inv, err := h.db.GetInvoice(r.Context(), t.ID, invoiceID)
	if err != nil {
		h.respondLookupError(w, err, "invoice")
		return
	}
	if inv.Status == models.InvoiceStatusVoid {
		respondError(w, http.StatusConflict, "CONFLICT", "cannot pay a void invoice", nil)
		return
	}

	payment := &models.Payment{
		TenantID:    t.ID,
		InvoiceID:   inv.ID,
		CustomerID:  inv.CustomerID,
		AmountCents: req.AmountCents,
		Method:      req.Method,
		Status:      models.PaymentStatusCompleted,
	}

	if req.Method == models.PaymentMethodCard {
		result, err := h.gateway.Charge(r.Context(), &billing.ChargeRequest{
			ReferenceID: inv.ID.String(),
			AmountCents: req.AmountCents,
			Currency:    "USD",
			CardToken:   req.CardToken,
		})
		switch {
		case errors.Is(err, billing.ErrChargeDeclined):
			metrics.RecordGatewayCharge("declined")
			payment.Status = models.PaymentStatusFailed
			if err := h.db.CreatePayment(r.Context(), payment); err != nil {
				respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "could not record payment", err)
				return
			}
			respondError(w, http.StatusPaymentRequired, "PAYMENT_GATEWAY_ERROR", "card declined", nil)
			return
		case err != nil:
			metrics.RecordGatewayCharge("unavailable")
			respondError(w, http.StatusBadGateway, "PAYMENT_GATEWAY_ERROR", "payment processor unavailable", err)
			return
		default:
			metrics.RecordGatewayCharge("approved")
			payment.GatewayRef = result.TransactionRef
		}
	}

	if err := h.db.CreatePayment(r.Context(), payment); err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "could not record payment", err)
		return
	}

	// Flip the invoice to PAID once collected funds cover the total.
	collected, err := h.db.SumCompletedPayments(r.Context(), t.ID, inv.ID)
	if err == nil && collected >= inv.TotalCents && inv.Status != models.InvoiceStatusPaid {
		if err := h.db.UpdateInvoiceStatus(r.Context(), t.ID, inv.ID, models.InvoiceStatusPaid); err != nil {
			logging.Ctx(r.Context()).Warn().Err(err).
				Str("invoice_id", inv.ID.String()).
				Msg("payment recorded but invoice status update failed")
		}
	}

	respondData(w, http.StatusCreated, payment)
}

// PaymentList returns payments, optionally filtered by invoice_id.
func (h *Handler) PaymentList(w http.ResponseWriter, r *http.Request) {
	t := tenant.FromContext(r.Context())

	invoiceID, err := parseOptionalUUID(r.URL.Query().Get("invoice_id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "invoice_id must be a valid UUID", nil)
		return
	}

	payments, err := h.db.ListPayments(r.Context(), t.ID, invoiceID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "could not list payments", err)
		return
	}
	respondData(w, http.StatusOK, payments)
}
