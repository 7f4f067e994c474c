// Kennelwise - Pet Boarding, Daycare & Grooming Operations Platform
// Copyright 2026 Kennelwise Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kennelwise/kennelwise

package services

import (
	"context"
	"fmt"
)

// ReminderManager matches the reminder scheduler's Start/Stop lifecycle.
type ReminderManager interface {
	Start(ctx context.Context) error
	Stop() error
}

// ReminderSchedulerService runs the arrival-reminder scheduler under
// supervision, adapting its Start/Stop lifecycle to suture's Serve: start
// the scan loop, block until cancellation, then stop it.
type ReminderSchedulerService struct {
	manager ReminderManager
}

// NewReminderSchedulerService wraps the scheduler as a supervised service.
func NewReminderSchedulerService(manager ReminderManager) *ReminderSchedulerService {
	return &ReminderSchedulerService{manager: manager}
}

// Serve implements suture.Service. A Start failure is returned immediately
// so suture restarts the service with backoff.
func (s *ReminderSchedulerService) Serve(ctx context.Context) error {
	if err := s.manager.Start(ctx); err != nil {
		return fmt.Errorf("reminder scheduler start failed: %w", err)
	}
	<-ctx.Done()
	if err := s.manager.Stop(); err != nil {
		return fmt.Errorf("reminder scheduler stop failed: %w", err)
	}
	return ctx.Err()
}

// String implements fmt.Stringer for suture's log messages.
func (s *ReminderSchedulerService) String() string {
	return "reminder-scheduler"
}
