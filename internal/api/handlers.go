// Kennelwise - Pet Boarding, Daycare & Grooming Operations Platform
// Copyright 2026 Kennelwise Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kennelwise/kennelwise

package api

import (
	"errors"
	"net/http"

	gorilla "github.com/gorilla/websocket"

	"github.com/kennelwise/kennelwise/internal/auth"
	"github.com/kennelwise/kennelwise/internal/availability"
	"github.com/kennelwise/kennelwise/internal/billing"
	"github.com/kennelwise/kennelwise/internal/config"
	"github.com/kennelwise/kennelwise/internal/database"
	"github.com/kennelwise/kennelwise/internal/logging"
	"github.com/kennelwise/kennelwise/internal/models"
	"github.com/kennelwise/kennelwise/internal/tenant"
	"github.com/kennelwise/kennelwise/internal/websocket"
)

// Handler holds the dependencies shared by all HTTP handlers.
type Handler struct {
	db       *database.DB
	cfg      *config.Config
	checker  *availability.Checker
	billing  *billing.Service
	gateway  *billing.Gateway
	jwt      *auth.JWTManager
	hub      *websocket.Hub
	upgrader gorilla.Upgrader
}

// NewHandler creates the handler set.
func NewHandler(db *database.DB, cfg *config.Config, jwtManager *auth.JWTManager, hub *websocket.Hub) *Handler {
	return &Handler{
		db:      db,
		cfg:     cfg,
		checker: &availability.Checker{},
		billing: billing.NewService(db, cfg.Billing.DriftToleranceCents),
		gateway: billing.NewGateway(&cfg.Billing),
		jwt:     jwtManager,
		hub:     hub,
		upgrader: gorilla.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkWebSocketOrigin(cfg),
		},
	}
}

// checkWebSocketOrigin allows same-origin upgrades plus any configured CORS
// origin. Wildcard CORS allows everything.
func checkWebSocketOrigin(cfg *config.Config) func(r *http.Request) bool {
	allowed := make(map[string]bool, len(cfg.Security.CORSOrigins))
	wildcard := false
	for _, origin := range cfg.Security.CORSOrigins {
		if origin == "*" {
			wildcard = true
		}
		allowed[origin] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || wildcard {
			return true
		}
		return allowed[origin]
	}
}

// HealthLive is the liveness probe: the process is up.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondData(w, http.StatusOK, map[string]string{"status": "alive"})
}

// HealthReady is the readiness probe: the database answers.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Ping(r.Context()); err != nil {
		respondError(w, http.StatusServiceUnavailable, "DATABASE_ERROR", "database not reachable", err)
		return
	}
	respondData(w, http.StatusOK, map[string]string{"status": "ready"})
}

// HealthSummary reports overall health in one response: process state,
// database reachability, and connected websocket clients.
func (h *Handler) HealthSummary(w http.ResponseWriter, r *http.Request) {
	overall, dbStatus, status := "healthy", "up", http.StatusOK
	if err := h.db.Ping(r.Context()); err != nil {
		overall, dbStatus, status = "degraded", "down", http.StatusServiceUnavailable
	}
	respondData(w, status, map[string]interface{}{
		"status":            overall,
		"database":          dbStatus,
		"websocket_clients": h.hub.GetClientCount(),
		"environment":       h.cfg.Server.Environment,
	})
}

// Login authenticates a staff member against the resolved tenant and issues
// a JWT. Unknown emails and wrong passwords return the same error so the
// endpoint cannot be used to enumerate accounts.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	t := tenant.FromContext(r.Context())
	if t == nil {
		respondError(w, http.StatusBadRequest, "TENANT_REQUIRED", "tenant could not be resolved", nil)
		return
	}

	var req models.LoginRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}

	staff, err := h.db.GetStaffByEmail(r.Context(), t.ID, req.Email)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			respondError(w, http.StatusUnauthorized, "AUTH_REQUIRED", "invalid email or password", nil)
			return
		}
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "login failed", err)
		return
	}
	if !staff.Active {
		respondError(w, http.StatusUnauthorized, "AUTH_REQUIRED", "invalid email or password", nil)
		return
	}
	if err := auth.CheckPassword(staff.PasswordHash, req.Password); err != nil {
		logging.Ctx(r.Context()).Warn().Str("email", sanitizeLogValue(req.Email)).Msg("failed login attempt")
		respondError(w, http.StatusUnauthorized, "AUTH_REQUIRED", "invalid email or password", nil)
		return
	}

	token, expiresAt, err := h.jwt.GenerateToken(staff.ID, staff.Email, staff.Role, t.ID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "could not issue token", err)
		return
	}

	respondData(w, http.StatusOK, models.LoginResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		Email:     staff.Email,
		Role:      staff.Role,
		UserID:    staff.ID.String(),
		TenantID:  t.ID.String(),
	})
}

// WebSocket upgrades the connection and registers the client with the hub,
// scoped to the authenticated tenant.
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	t := tenant.FromContext(r.Context())
	if t == nil {
		respondError(w, http.StatusBadRequest, "TENANT_REQUIRED", "tenant could not be resolved", nil)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := websocket.NewClient(h.hub, conn, t.ID)
	h.hub.Register <- client
	client.Start()
}
