// Kennelwise - Pet Boarding, Daycare & Grooming Operations Platform
// Copyright 2026 Kennelwise Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kennelwise/kennelwise

package availability

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/kennelwise/kennelwise/internal/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testResource(name, rtype string, capacity int) models.Resource {
	return models.Resource{
		ID:           uuid.New(),
		Name:         name,
		ResourceType: rtype,
		Capacity:     capacity,
		Active:       true,
	}
}

func testReservation(resourceID uuid.UUID, status string, start, end time.Time) models.Reservation {
	return models.Reservation{
		ID:         uuid.New(),
		ResourceID: resourceID,
		Status:     status,
		StartDate:  start,
		EndDate:    end,
	}
}

func TestCheckOverlapBoundaries(t *testing.T) {
	kennel := testResource("K1", models.ResourceTypeKennel, 1)
	booked := testReservation(kennel.ID, models.ReservationStatusConfirmed,
		date(2026, 3, 10), date(2026, 3, 14))

	tests := []struct {
		name       string
		start, end time.Time
		wantFree   bool
	}{
		{"fully before", date(2026, 3, 1), date(2026, 3, 9), true},
		{"fully after", date(2026, 3, 15), date(2026, 3, 20), true},
		{"touching start day conflicts", date(2026, 3, 5), date(2026, 3, 10), false},
		{"touching end day conflicts", date(2026, 3, 14), date(2026, 3, 18), false},
		{"contained", date(2026, 3, 11), date(2026, 3, 12), false},
		{"surrounding", date(2026, 3, 1), date(2026, 3, 31), false},
		{"identical range", date(2026, 3, 10), date(2026, 3, 14), false},
	}

	var c Checker
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := c.Check([]models.Resource{kennel}, []models.Reservation{booked}, tt.start, tt.end, "")
			if len(resp.Resources) != 1 {
				t.Fatalf("expected 1 resource, got %d", len(resp.Resources))
			}
			if got := resp.Resources[0].Available; got != tt.wantFree {
				t.Errorf("available = %v, want %v", got, tt.wantFree)
			}
		})
	}
}

func TestCheckStatusFiltering(t *testing.T) {
	kennel := testResource("K1", models.ResourceTypeKennel, 1)
	start, end := date(2026, 4, 1), date(2026, 4, 5)

	tests := []struct {
		status   string
		occupies bool
	}{
		{models.ReservationStatusPending, true},
		{models.ReservationStatusConfirmed, true},
		{models.ReservationStatusCheckedIn, true},
		{models.ReservationStatusCheckedOut, false},
		{models.ReservationStatusCancelled, false},
		{models.ReservationStatusNoShow, false},
	}

	var c Checker
	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			res := testReservation(kennel.ID, tt.status, start, end)
			resp := c.Check([]models.Resource{kennel}, []models.Reservation{res}, start, end, "")
			if got := resp.Resources[0].Available; got == tt.occupies {
				t.Errorf("status %s: available = %v, want %v", tt.status, got, !tt.occupies)
			}
		})
	}
}

func TestCheckCapacityIsPeakNotTotal(t *testing.T) {
	// Two bookings that never coexist must not consume two spots.
	room := testResource("Daycare A", models.ResourceTypeDaycareRoom, 2)
	reservations := []models.Reservation{
		testReservation(room.ID, models.ReservationStatusConfirmed, date(2026, 5, 1), date(2026, 5, 2)),
		testReservation(room.ID, models.ReservationStatusConfirmed, date(2026, 5, 4), date(2026, 5, 5)),
	}

	var c Checker
	resp := c.Check([]models.Resource{room}, reservations, date(2026, 5, 1), date(2026, 5, 5), "")
	ra := resp.Resources[0]
	if !ra.Available {
		t.Error("room with capacity 2 and peak 1 should be available")
	}
	if ra.BookedSpots != 1 {
		t.Errorf("booked spots = %d, want peak of 1", ra.BookedSpots)
	}
	if ra.RemainingCap != 1 {
		t.Errorf("remaining capacity = %d, want 1", ra.RemainingCap)
	}
	if len(ra.ConflictIDs) != 2 {
		t.Errorf("expected both reservations listed as conflicts, got %d", len(ra.ConflictIDs))
	}
}

func TestCheckFiltersInactiveAndType(t *testing.T) {
	kennel := testResource("K1", models.ResourceTypeKennel, 1)
	vip := testResource("VIP 1", models.ResourceTypeVIPSuite, 1)
	standard := testResource("Std 1", models.ResourceTypeStandardSuite, 1)
	retired := testResource("Old", models.ResourceTypeKennel, 1)
	retired.Active = false

	all := []models.Resource{kennel, vip, standard, retired}

	var c Checker
	resp := c.Check(all, nil, date(2026, 6, 1), date(2026, 6, 3), "suite")
	if len(resp.Resources) != 2 {
		t.Fatalf("suite wildcard should match 2 resources, got %d", len(resp.Resources))
	}
	if resp.FreeCount != 2 {
		t.Errorf("free count = %d, want 2", resp.FreeCount)
	}

	resp = c.Check(all, nil, date(2026, 6, 1), date(2026, 6, 3), "")
	if len(resp.Resources) != 3 {
		t.Errorf("inactive resource should be hidden, got %d resources", len(resp.Resources))
	}
}

func TestCheckSuggestionsWhenFull(t *testing.T) {
	kennel := testResource("K1", models.ResourceTypeKennel, 1)
	// Booked for the requested window plus two days after it.
	booked := testReservation(kennel.ID, models.ReservationStatusConfirmed,
		date(2026, 7, 1), date(2026, 7, 6))

	c := Checker{SuggestionHorizonDays: 10, MaxSuggestions: 2}
	resp := c.Check([]models.Resource{kennel}, []models.Reservation{booked},
		date(2026, 7, 1), date(2026, 7, 4), "")

	if resp.FreeCount != 0 {
		t.Fatalf("expected no free resources, got %d", resp.FreeCount)
	}
	if len(resp.Suggestions) != 2 {
		t.Fatalf("expected 2 suggestions, got %d", len(resp.Suggestions))
	}

	first := resp.Suggestions[0]
	if !first.StartDate.Equal(date(2026, 7, 7)) {
		t.Errorf("first free window should start 2026-07-07, got %s", first.StartDate.Format("2006-01-02"))
	}
	// Stay length preserved: 3 days.
	if !first.EndDate.Equal(date(2026, 7, 10)) {
		t.Errorf("first free window should end 2026-07-10, got %s", first.EndDate.Format("2006-01-02"))
	}
	if first.FreeCount != 1 {
		t.Errorf("free count = %d, want 1", first.FreeCount)
	}
}

func TestCheckNoSuggestionsWhenFree(t *testing.T) {
	kennel := testResource("K1", models.ResourceTypeKennel, 1)
	var c Checker
	resp := c.Check([]models.Resource{kennel}, nil, date(2026, 7, 1), date(2026, 7, 4), "")
	if resp.Suggestions != nil {
		t.Errorf("free windows should not produce suggestions, got %v", resp.Suggestions)
	}
}

func TestDoubleBookings(t *testing.T) {
	kennel := testResource("K1", models.ResourceTypeKennel, 1)
	ok := testResource("K2", models.ResourceTypeKennel, 1)

	a := testReservation(kennel.ID, models.ReservationStatusConfirmed, date(2026, 8, 1), date(2026, 8, 5))
	b := testReservation(kennel.ID, models.ReservationStatusPending, date(2026, 8, 4), date(2026, 8, 8))
	cancelled := testReservation(kennel.ID, models.ReservationStatusCancelled, date(2026, 8, 1), date(2026, 8, 8))
	clean := testReservation(ok.ID, models.ReservationStatusConfirmed, date(2026, 8, 1), date(2026, 8, 5))

	var c Checker
	reports := c.DoubleBookings(
		[]models.Resource{kennel, ok},
		[]models.Reservation{a, b, cancelled, clean},
	)

	if len(reports) != 1 {
		t.Fatalf("expected 1 double-booking report, got %d", len(reports))
	}
	db := reports[0]
	if db.Resource.ID != kennel.ID {
		t.Errorf("report names wrong resource %s", db.Resource.Name)
	}
	if !db.OverlapStart.Equal(date(2026, 8, 4)) || !db.OverlapEnd.Equal(date(2026, 8, 5)) {
		t.Errorf("overlap window = [%s, %s], want [2026-08-04, 2026-08-05]",
			db.OverlapStart.Format("2006-01-02"), db.OverlapEnd.Format("2006-01-02"))
	}
	if db.ExcessBookings != 1 {
		t.Errorf("excess = %d, want 1", db.ExcessBookings)
	}
	if len(db.Reservations) != 2 {
		t.Errorf("expected 2 implicated reservations, got %d", len(db.Reservations))
	}
}

func TestDoubleBookingsRespectsCapacity(t *testing.T) {
	yard := testResource("Yard", models.ResourceTypePlayYard, 3)
	start, end := date(2026, 9, 1), date(2026, 9, 3)
	reservations := []models.Reservation{
		testReservation(yard.ID, models.ReservationStatusConfirmed, start, end),
		testReservation(yard.ID, models.ReservationStatusConfirmed, start, end),
		testReservation(yard.ID, models.ReservationStatusCheckedIn, start, end),
	}

	var c Checker
	if reports := c.DoubleBookings([]models.Resource{yard}, reservations); len(reports) != 0 {
		t.Errorf("3 concurrent bookings on capacity 3 is not a double-booking, got %d reports", len(reports))
	}

	reservations = append(reservations,
		testReservation(yard.ID, models.ReservationStatusPending, start, end))
	reports := c.DoubleBookings([]models.Resource{yard}, reservations)
	if len(reports) != 1 {
		t.Fatalf("4 on capacity 3 should report, got %d", len(reports))
	}
	if reports[0].ExcessBookings != 1 {
		t.Errorf("excess = %d, want 1", reports[0].ExcessBookings)
	}
}

func TestHasConflict(t *testing.T) {
	kennel := testResource("K1", models.ResourceTypeKennel, 1)
	existing := testReservation(kennel.ID, models.ReservationStatusConfirmed,
		date(2026, 10, 10), date(2026, 10, 14))
	reservations := []models.Reservation{existing}

	var c Checker

	conflict, ids := c.HasConflict(kennel, reservations, date(2026, 10, 12), date(2026, 10, 16), uuid.Nil)
	if !conflict {
		t.Fatal("overlapping booking on full kennel should conflict")
	}
	if len(ids) != 1 || ids[0] != existing.ID {
		t.Errorf("conflict ids = %v, want [%s]", ids, existing.ID)
	}

	conflict, _ = c.HasConflict(kennel, reservations, date(2026, 10, 15), date(2026, 10, 18), uuid.Nil)
	if conflict {
		t.Error("non-overlapping booking should not conflict")
	}

	// Rescheduling the existing reservation against itself is allowed.
	conflict, _ = c.HasConflict(kennel, reservations, date(2026, 10, 11), date(2026, 10, 15), existing.ID)
	if conflict {
		t.Error("excluded reservation must not conflict with itself")
	}
}
