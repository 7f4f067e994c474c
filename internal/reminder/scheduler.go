// Kennelwise - Pet Boarding, Daycare & Grooming Operations Platform
// Copyright 2026 Kennelwise Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kennelwise/kennelwise

// Package reminder scans for upcoming arrivals and pushes reminders to the
// front-desk dashboard over the websocket hub.
package reminder

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kennelwise/kennelwise/internal/config"
	"github.com/kennelwise/kennelwise/internal/database"
	"github.com/kennelwise/kennelwise/internal/logging"
	"github.com/kennelwise/kennelwise/internal/models"
	"github.com/kennelwise/kennelwise/internal/websocket"
)

// Scheduler periodically scans every active tenant for reservations whose
// start date falls within the configured lead time and broadcasts one
// arrival reminder per reservation. Reminders fire for PENDING and
// CONFIRMED stays; checked-in pets have already arrived.
type Scheduler struct {
	db  *database.DB
	hub *websocket.Hub
	cfg config.ReminderConfig

	mu     sync.Mutex
	sent   map[uuid.UUID]time.Time
	cancel context.CancelFunc
	done   chan struct{}
}

// NewScheduler creates the reminder scheduler.
func NewScheduler(db *database.DB, hub *websocket.Hub, cfg config.ReminderConfig) *Scheduler {
	return &Scheduler{
		db:   db,
		hub:  hub,
		cfg:  cfg,
		sent: make(map[uuid.UUID]time.Time),
	}
}

// Start begins the scan loop. It returns an error if the scheduler is
// already running.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return fmt.Errorf("reminder scheduler already started")
	}

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.done = make(chan struct{})

	go s.loop(ctx)

	logging.Info().
		Dur("check_interval", s.cfg.CheckInterval).
		Dur("lead_time", s.cfg.LeadTime).
		Msg("Reminder scheduler started")
	return nil
}

// Stop halts the scan loop and waits for it to exit.
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel = nil
	s.mu.Unlock()

	if cancel == nil {
		return nil
	}
	cancel()
	<-done
	logging.Info().Msg("Reminder scheduler stopped")
	return nil
}

func (s *Scheduler) loop(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.cfg.CheckInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.RunOnce(ctx); err != nil {
				logging.Error().Err(err).Msg("Reminder scan failed")
			}
		}
	}
}

// RunOnce performs a single scan across all active tenants and returns the
// number of reminders broadcast. Reservations already reminded are skipped
// until their start date passes.
func (s *Scheduler) RunOnce(ctx context.Context) (int, error) {
	now := time.Now().UTC()
	cutoff := now.Add(s.cfg.LeadTime)

	tenants, err := s.db.ListTenants(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list tenants: %w", err)
	}

	reminded := 0
	for i := range tenants {
		t := &tenants[i]
		if !t.IsActive() {
			continue
		}
		n, err := s.scanTenant(ctx, t, now, cutoff)
		if err != nil {
			logging.Error().Err(err).
				Str("tenant_id", t.ID.String()).
				Msg("Reminder scan failed for tenant")
			continue
		}
		reminded += n
	}

	s.prune(now)
	return reminded, nil
}

func (s *Scheduler) scanTenant(ctx context.Context, t *models.Tenant, now, cutoff time.Time) (int, error) {
	reservations, err := s.db.ListActiveReservations(ctx, t.ID)
	if err != nil {
		return 0, err
	}

	reminded := 0
	for i := range reservations {
		r := &reservations[i]
		if r.Status == models.ReservationStatusCheckedIn {
			continue
		}
		if r.StartDate.Before(now) || r.StartDate.After(cutoff) {
			continue
		}
		if s.alreadySent(r.ID) {
			continue
		}

		daysOut := int(r.StartDate.Sub(now).Hours() / 24)
		s.hub.BroadcastArrivalReminder(t.ID, websocket.ArrivalReminderData{
			ReservationID: r.ID.String(),
			PetID:         r.PetID.String(),
			StartDate:     r.StartDate.Format("2006-01-02"),
			DaysOut:       daysOut,
		})
		s.markSent(r.ID, r.StartDate)
		reminded++

		logging.Debug().
			Str("tenant_id", t.ID.String()).
			Str("reservation_id", r.ID.String()).
			Int("days_out", daysOut).
			Msg("Arrival reminder sent")
	}
	return reminded, nil
}

func (s *Scheduler) alreadySent(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sent[id]
	return ok
}

func (s *Scheduler) markSent(id uuid.UUID, startDate time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent[id] = startDate
}

// prune drops dedup entries for stays that already started, keeping the
// map bounded over long uptimes.
func (s *Scheduler) prune(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, start := range s.sent {
		if start.Before(now) {
			delete(s.sent, id)
		}
	}
}
