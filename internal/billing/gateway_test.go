// Kennelwise - Pet Boarding, Daycare & Grooming Operations Platform
// Copyright 2026 Kennelwise Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kennelwise/kennelwise

package billing

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/kennelwise/kennelwise/internal/config"
)

func gatewayConfig(url string) *config.BillingConfig {
	return &config.BillingConfig{
		GatewayURL:       url,
		GatewayAPIKey:    "test-key",
		GatewayTimeout:   5 * time.Second,
		GatewayRateLimit: 100,
	}
}

func TestGatewayRecordOnlyMode(t *testing.T) {
	g := NewGateway(gatewayConfig(""))
	if !g.RecordOnly() {
		t.Fatal("empty URL should enable record-only mode")
	}

	result, err := g.Charge(context.Background(), &ChargeRequest{AmountCents: 5000})
	if err != nil {
		t.Fatalf("Charge: %v", err)
	}
	if !result.Approved {
		t.Error("record-only charges are always approved")
	}
	if !strings.HasPrefix(result.TransactionRef, "rec_") {
		t.Errorf("synthetic ref = %q", result.TransactionRef)
	}
}

func TestGatewayCharge(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if r.URL.Path != "/v1/charges" {
			t.Errorf("path = %s", r.URL.Path)
		}
		var req ChargeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode: %v", err)
		}
		_ = json.NewEncoder(w).Encode(ChargeResult{TransactionRef: "txn_123", Approved: true})
	}))
	defer server.Close()

	g := NewGateway(gatewayConfig(server.URL))
	result, err := g.Charge(context.Background(), &ChargeRequest{
		ReferenceID: "inv-1",
		AmountCents: 5000,
		Currency:    "USD",
		CardToken:   "tok_abc",
	})
	if err != nil {
		t.Fatalf("Charge: %v", err)
	}
	if result.TransactionRef != "txn_123" {
		t.Errorf("ref = %s", result.TransactionRef)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("auth header = %q", gotAuth)
	}
}

func TestGatewayDecline(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(ChargeResult{Approved: false, DeclineReason: "insufficient funds"})
	}))
	defer server.Close()

	g := NewGateway(gatewayConfig(server.URL))
	_, err := g.Charge(context.Background(), &ChargeRequest{AmountCents: 5000})
	if !errors.Is(err, ErrChargeDeclined) {
		t.Fatalf("got %v, want ErrChargeDeclined", err)
	}
	if !strings.Contains(err.Error(), "insufficient funds") {
		t.Errorf("decline reason missing: %v", err)
	}
}

func TestGatewayServerErrorIsUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	g := NewGateway(gatewayConfig(server.URL))
	_, err := g.Charge(context.Background(), &ChargeRequest{AmountCents: 5000})
	if !errors.Is(err, ErrGatewayUnavailable) {
		t.Fatalf("got %v, want ErrGatewayUnavailable", err)
	}
}

func TestGatewayBreakerOpensOnRepeatedFailure(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	g := NewGateway(gatewayConfig(server.URL))
	for i := 0; i < 20; i++ {
		_, _ = g.Charge(context.Background(), &ChargeRequest{AmountCents: 100})
	}
	if calls >= 20 {
		t.Errorf("breaker never opened: %d upstream calls for 20 charges", calls)
	}
}
