// Kennelwise - Pet Boarding, Daycare & Grooming Operations Platform
// Copyright 2026 Kennelwise Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kennelwise/kennelwise

// Package metrics exposes Prometheus instrumentation: API latency and
// throughput, database query timing, and the domain gauges the front desk
// dashboard reads (active reservations, occupancy, gateway health).
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kennelwise_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kennelwise_api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "kennelwise_api_active_requests",
			Help: "Number of API requests currently being served",
		},
	)

	// Database metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "kennelwise_db_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kennelwise_db_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation"},
	)

	// Domain metrics
	ActiveReservations = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "kennelwise_active_reservations",
			Help: "Reservations currently holding a resource, by status",
		},
		[]string{"tenant", "status"},
	)

	ReservationsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kennelwise_reservations_created_total",
			Help: "Total reservations created",
		},
		[]string{"tenant"},
	)

	DoubleBookingsDetected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kennelwise_double_bookings_detected_total",
			Help: "Double-bookings found by the availability audit",
		},
		[]string{"tenant"},
	)

	RevenueDriftDetected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kennelwise_revenue_drift_detected_total",
			Help: "Revenue reports that flagged cross-validation drift",
		},
		[]string{"tenant"},
	)

	// Payment gateway metrics
	GatewayCharges = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "kennelwise_gateway_charges_total",
			Help: "Card charges by outcome",
		},
		[]string{"outcome"}, // "approved", "declined", "unavailable"
	)

	// WebSocket metrics
	WebSocketConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "kennelwise_websocket_connections",
			Help: "Currently connected front-desk WebSocket clients",
		},
	)

	WebSocketMessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "kennelwise_websocket_messages_sent_total",
			Help: "Total WebSocket messages broadcast to clients",
		},
	)
)

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest adjusts the in-flight request gauge.
func TrackActiveRequest(start bool) {
	if start {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordDBQuery records query timing and errors.
func RecordDBQuery(operation string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		DBQueryErrors.WithLabelValues(operation).Inc()
	}
}

// RecordGatewayCharge records a card charge outcome.
func RecordGatewayCharge(outcome string) {
	GatewayCharges.WithLabelValues(outcome).Inc()
}
