// Kennelwise - Pet Boarding, Daycare & Grooming Operations Platform
// Copyright 2026 Kennelwise Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kennelwise/kennelwise

package services

import (
	"context"
)

// HubRunner matches the websocket hub's context-aware run loop.
type HubRunner interface {
	RunWithContext(ctx context.Context) error
}

// WebSocketHubService runs the websocket hub under supervision. The hub's
// run loop already speaks suture's dialect (block until the context is
// canceled, then drain), so the wrapper is a thin adapter.
type WebSocketHubService struct {
	hub HubRunner
}

// NewWebSocketHubService wraps the hub as a supervised service.
func NewWebSocketHubService(hub HubRunner) *WebSocketHubService {
	return &WebSocketHubService{hub: hub}
}

// Serve implements suture.Service.
func (s *WebSocketHubService) Serve(ctx context.Context) error {
	return s.hub.RunWithContext(ctx)
}

// String implements fmt.Stringer for suture's log messages.
func (s *WebSocketHubService) String() string {
	return "websocket-hub"
}
