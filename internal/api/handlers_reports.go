// Kennelwise - Pet Boarding, Daycare & Grooming Operations Platform
// Copyright 2026 Kennelwise Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kennelwise/kennelwise

package api

import (
	"net/http"
	"time"

	"github.com/kennelwise/kennelwise/internal/metrics"
	"github.com/kennelwise/kennelwise/internal/tenant"
)

// reportPeriod resolves the from/to query parameters, defaulting to the
// current calendar month.
func reportPeriod(r *http.Request) (start, end time.Time, ok bool) {
	now := time.Now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, -1)

	start, ok = parseDateParam(r, "from", monthStart)
	if !ok {
		return time.Time{}, time.Time{}, false
	}
	end, ok = parseDateParam(r, "to", monthEnd)
	if !ok || end.Before(start) {
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

// RevenueReport computes the period revenue three independent ways
// (invoiced, collected, booked) and cross-validates them. Disagreement
// beyond the configured tolerance flags drift for investigation.
func (h *Handler) RevenueReport(w http.ResponseWriter, r *http.Request) {
	t := tenant.FromContext(r.Context())

	start, end, ok := reportPeriod(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "from/to must be YYYY-MM-DD with to >= from", nil)
		return
	}

	summary, err := h.billing.BuildRevenueSummary(r.Context(), t.ID, start, end)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "could not build revenue report", err)
		return
	}
	if summary.DriftDetected {
		metrics.RevenueDriftDetected.WithLabelValues(t.Subdomain).Inc()
	}
	respondData(w, http.StatusOK, summary)
}

// OccupancyReport summarizes utilization per resource type over the period:
// reserved resource-days against available capacity-days.
func (h *Handler) OccupancyReport(w http.ResponseWriter, r *http.Request) {
	t := tenant.FromContext(r.Context())

	start, end, ok := reportPeriod(r)
	if !ok {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "from/to must be YYYY-MM-DD with to >= from", nil)
		return
	}

	report, err := h.db.GetOccupancyReport(r.Context(), t.ID, start, end)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "could not build occupancy report", err)
		return
	}
	respondData(w, http.StatusOK, report)
}
