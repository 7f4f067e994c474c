// Kennelwise - Pet Boarding, Daycare & Grooming Operations Platform
// Copyright 2026 Kennelwise Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kennelwise/kennelwise

package websocket

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/kennelwise/kennelwise/internal/logging"
	"github.com/kennelwise/kennelwise/internal/models"
)

//nolint:gochecknoinits // init ensures consistent logging for tests
func init() {
	logging.Init(logging.Config{
		Level:  "info",
		Format: "console",
		Output: io.Discard,
	})
}

// setupHub starts a supervised hub and tears it down with the test.
func setupHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = hub.RunWithContext(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	time.Sleep(10 * time.Millisecond)
	return hub
}

// createTestClient builds a client without a real connection.
func createTestClient(hub *Hub, tenantID uuid.UUID) *Client {
	return &Client{
		id:       clientIDCounter.Add(1),
		tenantID: tenantID,
		hub:      hub,
		conn:     nil,
		send:     make(chan Message, 256),
	}
}

func registerClient(hub *Hub, client *Client) {
	hub.Register <- client
	time.Sleep(20 * time.Millisecond)
}

func TestNewHub(t *testing.T) {
	hub := NewHub()

	if hub == nil {
		t.Fatal("NewHub returned nil")
	}
	if hub.clients == nil || hub.broadcast == nil || hub.Register == nil || hub.Unregister == nil {
		t.Error("hub channels not initialized")
	}
	if len(hub.clients) != 0 {
		t.Error("clients map should start empty")
	}
}

func TestHubGetClientCount(t *testing.T) {
	hub := NewHub()

	if hub.GetClientCount() != 0 {
		t.Errorf("expected 0 clients initially, got %d", hub.GetClientCount())
	}

	for i := 0; i < 5; i++ {
		hub.clients[createTestClient(hub, uuid.New())] = true
	}

	if hub.GetClientCount() != 5 {
		t.Errorf("expected 5 clients, got %d", hub.GetClientCount())
	}
}

func TestHubRegisterUnregister(t *testing.T) {
	hub := setupHub(t)
	client := createTestClient(hub, uuid.New())

	registerClient(hub, client)
	if hub.GetClientCount() != 1 {
		t.Fatalf("expected 1 client after register, got %d", hub.GetClientCount())
	}

	hub.Unregister <- client
	time.Sleep(20 * time.Millisecond)
	if hub.GetClientCount() != 0 {
		t.Fatalf("expected 0 clients after unregister, got %d", hub.GetClientCount())
	}
}

func TestHubBroadcastDeliversToTenantClients(t *testing.T) {
	hub := setupHub(t)
	tenantA := uuid.New()
	tenantB := uuid.New()

	clientA := createTestClient(hub, tenantA)
	clientB := createTestClient(hub, tenantB)
	registerClient(hub, clientA)
	registerClient(hub, clientB)

	reservation := &models.Reservation{ID: uuid.New(), TenantID: tenantA}
	hub.BroadcastReservationCreated(tenantA, reservation)

	select {
	case msg := <-clientA.send:
		if msg.Type != MessageTypeReservationCreated {
			t.Errorf("message type = %s", msg.Type)
		}
		if msg.TenantID != tenantA.String() {
			t.Errorf("tenant id = %s", msg.TenantID)
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatal("tenant A client never received the broadcast")
	}

	select {
	case msg := <-clientB.send:
		t.Fatalf("tenant B client received foreign message %s", msg.Type)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHubBroadcastStatusChange(t *testing.T) {
	hub := setupHub(t)
	tenantID := uuid.New()
	client := createTestClient(hub, tenantID)
	registerClient(hub, client)

	reservationID := uuid.New()
	hub.BroadcastStatusChange(tenantID, reservationID, models.ReservationStatusCheckedIn)

	select {
	case msg := <-client.send:
		data, ok := msg.Data.(StatusChangeData)
		if !ok {
			t.Fatalf("unexpected data type %T", msg.Data)
		}
		if data.ReservationID != reservationID.String() {
			t.Errorf("reservation id = %s", data.ReservationID)
		}
		if data.Status != models.ReservationStatusCheckedIn {
			t.Errorf("status = %s", data.Status)
		}
	case <-time.After(500 * time.Millisecond):
		t.Fatal("status change never delivered")
	}
}

func TestHubBroadcastWithoutClients(t *testing.T) {
	hub := setupHub(t)
	hub.BroadcastDoubleBookingAlert(uuid.New(), &models.DoubleBooking{})
	hub.BroadcastJSON(uuid.New(), "test_type", map[string]interface{}{"count": 42})
	time.Sleep(10 * time.Millisecond)
}

func TestHubShutdownClosesClients(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- hub.RunWithContext(ctx) }()
	time.Sleep(10 * time.Millisecond)

	client := createTestClient(hub, uuid.New())
	registerClient(hub, client)

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("RunWithContext returned %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("hub did not stop on context cancel")
	}

	if _, open := <-client.send; open {
		t.Error("client send channel left open after shutdown")
	}
	if hub.GetClientCount() != 0 {
		t.Errorf("clients remaining after shutdown: %d", hub.GetClientCount())
	}
}

func TestMarshalMessage(t *testing.T) {
	data, err := MarshalMessage(Message{Type: MessageTypePong})
	if err != nil {
		t.Fatalf("MarshalMessage: %v", err)
	}
	if len(data) == 0 {
		t.Error("empty payload")
	}
}
