// Kennelwise - Pet Boarding, Daycare & Grooming Operations Platform
// Copyright 2026 Kennelwise Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kennelwise/kennelwise

package reminder

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/kennelwise/kennelwise/internal/config"
	"github.com/kennelwise/kennelwise/internal/database"
	"github.com/kennelwise/kennelwise/internal/logging"
	"github.com/kennelwise/kennelwise/internal/models"
	"github.com/kennelwise/kennelwise/internal/websocket"
)

//nolint:gochecknoinits // init ensures consistent logging for tests
func init() {
	logging.Init(logging.Config{
		Level:  "error",
		Format: "console",
		Output: io.Discard,
	})
}

type schedulerFixture struct {
	db        *database.DB
	scheduler *Scheduler
	tenant    *models.Tenant
}

func newSchedulerFixture(t *testing.T) *schedulerFixture {
	t.Helper()

	db, err := database.New(&config.DatabaseConfig{Path: ":memory:", MaxMemory: "256MB", Threads: 2})
	if err != nil {
		t.Fatalf("database.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	hub := websocket.NewHub()
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

	tn := &models.Tenant{Name: "Pawsitive Stays", Subdomain: "pawsitive"}
	if err := db.CreateTenant(context.Background(), tn); err != nil {
		t.Fatalf("CreateTenant: %v", err)
	}

	scheduler := NewScheduler(db, hub, config.ReminderConfig{
		Enabled:       true,
		CheckInterval: time.Minute,
		LeadTime:      48 * time.Hour,
	})
	return &schedulerFixture{db: db, scheduler: scheduler, tenant: tn}
}

func (f *schedulerFixture) seedReservation(t *testing.T, status string, startDate time.Time) *models.Reservation {
	t.Helper()
	ctx := context.Background()

	customer := &models.Customer{TenantID: f.tenant.ID, FirstName: "Robin", LastName: "Vale", Email: "robin@example.com"}
	if err := f.db.CreateCustomer(ctx, customer); err != nil {
		t.Fatalf("CreateCustomer: %v", err)
	}
	pet := &models.Pet{TenantID: f.tenant.ID, CustomerID: customer.ID, Name: "Pickles", Species: "DOG"}
	if err := f.db.CreatePet(ctx, pet); err != nil {
		t.Fatalf("CreatePet: %v", err)
	}
	resource := &models.Resource{TenantID: f.tenant.ID, Name: "Kennel A", ResourceType: models.ResourceTypeKennel, Capacity: 1, Active: true}
	if err := f.db.CreateResource(ctx, resource); err != nil {
		t.Fatalf("CreateResource: %v", err)
	}
	service := &models.Service{TenantID: f.tenant.ID, Name: "Boarding", Category: models.ServiceCategoryBoarding, RateCents: 5000, Active: true}
	if err := f.db.CreateService(ctx, service); err != nil {
		t.Fatalf("CreateService: %v", err)
	}

	res := &models.Reservation{
		TenantID:   f.tenant.ID,
		CustomerID: customer.ID,
		PetID:      pet.ID,
		ResourceID: resource.ID,
		ServiceID:  service.ID,
		Status:     status,
		StartDate:  startDate,
		EndDate:    startDate.AddDate(0, 0, 3),
		TotalCents: 15000,
	}
	if err := f.db.CreateReservation(ctx, res); err != nil {
		t.Fatalf("CreateReservation: %v", err)
	}
	return res
}

func TestSchedulerRemindsUpcomingArrival(t *testing.T) {
	f := newSchedulerFixture(t)
	tomorrow := time.Now().UTC().AddDate(0, 0, 1)
	f.seedReservation(t, models.ReservationStatusConfirmed, tomorrow)

	n, err := f.scheduler.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if n != 1 {
		t.Fatalf("reminders = %d, want 1", n)
	}

	// A second scan must not remind the same reservation again.
	n, err = f.scheduler.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if n != 0 {
		t.Errorf("repeat reminders = %d, want 0", n)
	}
}

func TestSchedulerSkipsOutsideLeadTime(t *testing.T) {
	f := newSchedulerFixture(t)
	nextWeek := time.Now().UTC().AddDate(0, 0, 7)
	f.seedReservation(t, models.ReservationStatusConfirmed, nextWeek)

	n, err := f.scheduler.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if n != 0 {
		t.Errorf("reminders = %d, want 0 for a stay beyond the lead time", n)
	}
}

func TestSchedulerSkipsCheckedIn(t *testing.T) {
	f := newSchedulerFixture(t)
	tomorrow := time.Now().UTC().AddDate(0, 0, 1)
	f.seedReservation(t, models.ReservationStatusCheckedIn, tomorrow)

	n, err := f.scheduler.RunOnce(context.Background())
	if err != nil {
		t.Fatalf("RunOnce: %v", err)
	}
	if n != 0 {
		t.Errorf("reminders = %d, want 0 for an already checked-in pet", n)
	}
}

func TestSchedulerStartStop(t *testing.T) {
	f := newSchedulerFixture(t)

	if err := f.scheduler.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := f.scheduler.Start(context.Background()); err == nil {
		t.Error("second Start should fail")
	}
	if err := f.scheduler.Stop(); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	// Stop on a stopped scheduler is a no-op.
	if err := f.scheduler.Stop(); err != nil {
		t.Fatalf("second Stop: %v", err)
	}
}
