// Kennelwise - Pet Boarding, Daycare & Grooming Operations Platform
// Copyright 2026 Kennelwise Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kennelwise/kennelwise

package billing

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/kennelwise/kennelwise/internal/config"
	"github.com/kennelwise/kennelwise/internal/logging"
)

// Gateway errors.
var (
	// ErrGatewayUnavailable indicates the circuit is open or the processor
	// is unreachable.
	ErrGatewayUnavailable = errors.New("payment gateway unavailable")

	// ErrChargeDeclined indicates the processor rejected the charge.
	ErrChargeDeclined = errors.New("charge declined")
)

// ChargeRequest is sent to the card processor.
type ChargeRequest struct {
	ReferenceID string `json:"reference_id"`
	AmountCents int64  `json:"amount_cents"`
	Currency    string `json:"currency"`
	CardToken   string `json:"card_token"`
}

// ChargeResult is the processor's response.
type ChargeResult struct {
	TransactionRef string `json:"transaction_ref"`
	Approved       bool   `json:"approved"`
	DeclineReason  string `json:"decline_reason,omitempty"`
}

// Gateway is the card processor client. Calls go through a token-bucket
// rate limiter and a circuit breaker so a slow or failing processor cannot
// stall the front desk.
//
// With no GatewayURL configured the gateway runs in record-only mode:
// charges are approved locally with a synthetic reference. This is the
// mode for facilities that settle cards on a physical terminal.
type Gateway struct {
	url     string
	apiKey  string
	client  *http.Client
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker[*ChargeResult]
}

// NewGateway creates the processor client from billing configuration.
func NewGateway(cfg *config.BillingConfig) *Gateway {
	timeout := cfg.GatewayTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	rps := cfg.GatewayRateLimit
	if rps <= 0 {
		rps = 10
	}

	breaker := gobreaker.NewCircuitBreaker[*ChargeResult](gobreaker.Settings{
		Name:        "payment-gateway",
		MaxRequests: 2,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 5 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.5
		},
		// Declines are processor answers, not processor failures; they
		// must not open the circuit.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, ErrChargeDeclined)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().
				Str("breaker", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Circuit breaker state transition")
		},
	})

	return &Gateway{
		url:     cfg.GatewayURL,
		apiKey:  cfg.GatewayAPIKey,
		client:  &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(rate.Limit(rps), int(rps)),
		breaker: breaker,
	}
}

// RecordOnly reports whether the gateway approves charges locally instead
// of calling a processor.
func (g *Gateway) RecordOnly() bool {
	return g.url == ""
}

// Charge authorizes a card payment. Declines return ErrChargeDeclined with
// the processor's reason attached; transport and breaker failures return
// ErrGatewayUnavailable.
func (g *Gateway) Charge(ctx context.Context, req *ChargeRequest) (*ChargeResult, error) {
	if g.RecordOnly() {
		return &ChargeResult{
			TransactionRef: "rec_" + uuid.NewString(),
			Approved:       true,
		}, nil
	}

	if err := g.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}

	result, err := g.breaker.Execute(func() (*ChargeResult, error) {
		return g.doCharge(ctx, req)
	})
	if err != nil {
		if errors.Is(err, ErrChargeDeclined) {
			return nil, err
		}
		logging.Ctx(ctx).Error().Err(err).Str("reference_id", req.ReferenceID).Msg("Gateway charge failed")
		return nil, fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	return result, nil
}

func (g *Gateway) doCharge(ctx context.Context, req *ChargeRequest) (*ChargeResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode charge request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, g.url+"/v1/charges", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build charge request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("charge request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read charge response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		var result ChargeResult
		if err := json.Unmarshal(payload, &result); err != nil {
			return nil, fmt.Errorf("failed to decode charge response: %w", err)
		}
		if !result.Approved {
			return nil, fmt.Errorf("%w: %s", ErrChargeDeclined, result.DeclineReason)
		}
		return &result, nil
	case resp.StatusCode == http.StatusPaymentRequired || resp.StatusCode == http.StatusUnprocessableEntity:
		return nil, fmt.Errorf("%w: status %d", ErrChargeDeclined, resp.StatusCode)
	default:
		return nil, fmt.Errorf("gateway returned status %d", resp.StatusCode)
	}
}
