// Kennelwise - Pet Boarding, Daycare & Grooming Operations Platform
// Copyright 2026 Kennelwise Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kennelwise/kennelwise

// Package websocket pushes live front-desk events (new reservations,
// check-ins, double-booking alerts) to connected dashboard clients.
package websocket

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/kennelwise/kennelwise/internal/logging"
	"github.com/kennelwise/kennelwise/internal/metrics"
	"github.com/kennelwise/kennelwise/internal/models"
)

// Message types for WebSocket communication
const (
	MessageTypePing               = "ping"
	MessageTypePong               = "pong"
	MessageTypeReservationCreated = "reservation_created"
	MessageTypeReservationStatus  = "reservation_status"
	MessageTypeDoubleBookingAlert = "double_booking_alert"
	MessageTypeArrivalReminder    = "arrival_reminder"
)

// Message represents a WebSocket message. TenantID scopes delivery:
// clients only receive messages for the tenant they authenticated under.
type Message struct {
	Type     string      `json:"type"`
	TenantID string      `json:"tenant_id,omitempty"`
	Data     interface{} `json:"data"`
}

// Hub maintains the set of active clients and broadcasts messages to them.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan Message
	Register   chan *Client
	Unregister chan *Client
	mu         sync.RWMutex
}

// NewHub creates a new Hub.
func NewHub() *Hub {
	return &Hub{
		broadcast:  make(chan Message, 256),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
	}
}

// RunWithContext starts the hub with context support for graceful shutdown.
// Designed for use under suture supervision: when the context is canceled
// all connected clients are closed and ctx.Err() is returned, so the hub
// can be restarted without orphaned connections.
//
// Selection is priority-based: shutdown first, then client lifecycle
// events, then broadcasts. This keeps client state consistent before any
// message is delivered.
func (h *Hub) RunWithContext(ctx context.Context) error {
	for {
		// Priority 1: shutdown (non-blocking check)
		select {
		case <-ctx.Done():
			h.shutdown(ctx)
			return ctx.Err()
		default:
		}

		// Priority 2: client lifecycle events (non-blocking check)
		select {
		case client := <-h.Register:
			h.addClient(client)
			continue
		case client := <-h.Unregister:
			h.removeClient(client)
			continue
		default:
		}

		// Priority 3: broadcasts, or block until anything arrives
		select {
		case <-ctx.Done():
			h.shutdown(ctx)
			return ctx.Err()
		case client := <-h.Register:
			h.addClient(client)
		case client := <-h.Unregister:
			h.removeClient(client)
		case message := <-h.broadcast:
			h.broadcastToClients(message)
		}
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	h.clients[client] = true
	total := len(h.clients)
	h.mu.Unlock()
	metrics.WebSocketConnections.Inc()
	logging.Info().Int("total_clients", total).Str("tenant_id", client.tenantID.String()).Msg("websocket client connected")
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	if _, ok := h.clients[client]; ok {
		delete(h.clients, client)
		close(client.send)
		metrics.WebSocketConnections.Dec()
	}
	total := len(h.clients)
	h.mu.Unlock()
	logging.Info().Int("total_clients", total).Msg("websocket client disconnected")
}

// shutdown closes all connected clients and logs the reason. Context
// cancellation is expected during graceful shutdown, so it is not logged
// as an error.
func (h *Hub) shutdown(ctx context.Context) {
	h.mu.Lock()
	clients := sortedClients(h.clients)
	for _, client := range clients {
		close(client.send)
		delete(h.clients, client)
		metrics.WebSocketConnections.Dec()
	}
	h.mu.Unlock()

	reason := "context_canceled"
	if ctx.Err() == context.DeadlineExceeded {
		reason = "context_deadline"
	}
	logging.Info().
		Str("component", "websocket-hub").
		Str("reason", reason).
		Int("clients_closed", len(clients)).
		Msg("websocket hub stopped")
}

// broadcastToClients delivers a message to every client subscribed to the
// message's tenant. Clients are visited in ID order so delivery order is
// deterministic; a client whose send buffer is full is dropped.
func (h *Hub) broadcastToClients(message Message) {
	h.mu.Lock()
	defer h.mu.Unlock()

	var toRemove []*Client
	for _, client := range sortedClients(h.clients) {
		if message.TenantID != "" && client.tenantID != uuid.Nil && client.tenantID.String() != message.TenantID {
			continue
		}
		select {
		case client.send <- message:
			metrics.WebSocketMessagesSent.Inc()
		default:
			toRemove = append(toRemove, client)
		}
	}

	for _, client := range toRemove {
		close(client.send)
		delete(h.clients, client)
		metrics.WebSocketConnections.Dec()
	}
}

func sortedClients(set map[*Client]bool) []*Client {
	clients := make([]*Client, 0, len(set))
	for client := range set {
		clients = append(clients, client)
	}
	sort.Slice(clients, func(i, j int) bool {
		return clients[i].id < clients[j].id
	})
	return clients
}

// BroadcastReservationCreated notifies dashboard clients of a new booking.
func (h *Hub) BroadcastReservationCreated(tenantID uuid.UUID, reservation *models.Reservation) {
	h.enqueue(Message{
		Type:     MessageTypeReservationCreated,
		TenantID: tenantID.String(),
		Data:     reservation,
	})
}

// StatusChangeData accompanies a reservation_status message.
type StatusChangeData struct {
	ReservationID string `json:"reservation_id"`
	Status        string `json:"status"`
	Timestamp     string `json:"timestamp"`
}

// BroadcastStatusChange notifies clients of a check-in, check-out, or other
// status transition.
func (h *Hub) BroadcastStatusChange(tenantID, reservationID uuid.UUID, status string) {
	h.enqueue(Message{
		Type:     MessageTypeReservationStatus,
		TenantID: tenantID.String(),
		Data: StatusChangeData{
			ReservationID: reservationID.String(),
			Status:        status,
			Timestamp:     time.Now().UTC().Format(time.RFC3339),
		},
	})
}

// BroadcastDoubleBookingAlert warns the front desk that the audit found a
// resource booked past capacity.
func (h *Hub) BroadcastDoubleBookingAlert(tenantID uuid.UUID, alert *models.DoubleBooking) {
	h.enqueue(Message{
		Type:     MessageTypeDoubleBookingAlert,
		TenantID: tenantID.String(),
		Data:     alert,
	})
}

// ArrivalReminderData accompanies an arrival_reminder message.
type ArrivalReminderData struct {
	ReservationID string `json:"reservation_id"`
	PetID         string `json:"pet_id"`
	StartDate     string `json:"start_date"`
	DaysOut       int    `json:"days_out"`
}

// BroadcastArrivalReminder surfaces an upcoming arrival to the dashboard.
func (h *Hub) BroadcastArrivalReminder(tenantID uuid.UUID, data ArrivalReminderData) {
	h.enqueue(Message{
		Type:     MessageTypeArrivalReminder,
		TenantID: tenantID.String(),
		Data:     data,
	})
}

// BroadcastJSON sends an arbitrary typed message to clients of a tenant.
func (h *Hub) BroadcastJSON(tenantID uuid.UUID, messageType string, data interface{}) {
	h.enqueue(Message{Type: messageType, TenantID: tenantID.String(), Data: data})
}

func (h *Hub) enqueue(message Message) {
	select {
	case h.broadcast <- message:
	default:
		logging.Warn().Str("message_type", message.Type).Msg("broadcast channel full, dropping message")
	}
}

// GetClientCount returns the number of connected clients.
func (h *Hub) GetClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// MarshalMessage converts a message to JSON.
func MarshalMessage(msg Message) ([]byte, error) {
	return json.Marshal(msg)
}
