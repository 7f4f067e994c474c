// Kennelwise - Pet Boarding, Daycare & Grooming Operations Platform
// Copyright 2026 Kennelwise Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kennelwise/kennelwise

package availability

import (
	"time"

	"github.com/google/uuid"

	"github.com/kennelwise/kennelwise/internal/models"
)

const day = 24 * time.Hour

// Checker runs interval math over a resource set and the active
// reservations against it. It is a pure computation layer: callers load
// resources and reservations (already tenant-scoped) and hand them in.
type Checker struct {
	// SuggestionHorizonDays bounds how far forward Suggest scans for
	// alternative windows. Zero means the default of 30 days.
	SuggestionHorizonDays int

	// MaxSuggestions caps the windows returned by Suggest. Zero means 3.
	MaxSuggestions int
}

// activeOverlapping filters to reservations that occupy the resource during
// [start, end]: an active status and an inclusive interval intersection
// (reservation.start <= end AND reservation.end >= start).
func activeOverlapping(reservations []models.Reservation, resourceID uuid.UUID, start, end time.Time) []models.Reservation {
	var out []models.Reservation
	for i := range reservations {
		r := &reservations[i]
		if r.ResourceID != resourceID {
			continue
		}
		if !models.IsActiveReservationStatus(r.Status) {
			continue
		}
		if r.Overlaps(start, end) {
			out = append(out, *r)
		}
	}
	return out
}

// Check computes per-resource availability for [start, end]. A resource is
// available while its overlapping active reservation count stays below its
// capacity. Inactive resources are skipped entirely.
func (c *Checker) Check(resources []models.Resource, reservations []models.Reservation, start, end time.Time, requestedType string) models.AvailabilityResponse {
	resp := models.AvailabilityResponse{
		StartDate:     start,
		EndDate:       end,
		ResourceTypes: ExpandTypes(requestedType),
	}

	for i := range resources {
		res := resources[i]
		if !res.Active {
			continue
		}
		if !MatchesType(res.ResourceType, requestedType) {
			continue
		}

		conflicts := activeOverlapping(reservations, res.ID, start, end)

		// Capacity is judged at the worst moment of the stay, not by the
		// total conflict count: two bookings that never coexist on the same
		// day should not consume two spots.
		booked := peakConcurrent(conflicts, start, end)
		remaining := res.Capacity - booked
		if remaining < 0 {
			remaining = 0
		}

		ra := models.ResourceAvailability{
			Resource:     res,
			Available:    booked < res.Capacity,
			BookedSpots:  booked,
			RemainingCap: remaining,
		}
		for _, r := range conflicts {
			ra.ConflictIDs = append(ra.ConflictIDs, r.ID)
		}
		if ra.Available {
			resp.FreeCount++
		}
		resp.Resources = append(resp.Resources, ra)
	}

	if resp.FreeCount == 0 && len(resp.Resources) > 0 {
		resp.Suggestions = c.Suggest(resources, reservations, start, end, requestedType)
	}
	return resp
}

// peakConcurrent returns the maximum number of reservations simultaneously
// active on any single day of [start, end]. Dates are inclusive day bounds,
// so the sweep steps one day at a time.
func peakConcurrent(reservations []models.Reservation, start, end time.Time) int {
	peak := 0
	for d := start; !d.After(end); d = d.Add(day) {
		n := 0
		for i := range reservations {
			if reservations[i].Overlaps(d, d) {
				n++
			}
		}
		if n > peak {
			peak = n
		}
	}
	return peak
}

// Suggest scans forward from the requested window, one day at a time and
// keeping the stay length, and returns the first windows with at least one
// free resource of the requested type.
func (c *Checker) Suggest(resources []models.Resource, reservations []models.Reservation, start, end time.Time, requestedType string) []models.DateWindow {
	horizon := c.SuggestionHorizonDays
	if horizon <= 0 {
		horizon = 30
	}
	limit := c.MaxSuggestions
	if limit <= 0 {
		limit = 3
	}

	stay := end.Sub(start)
	var windows []models.DateWindow
	for offset := 1; offset <= horizon && len(windows) < limit; offset++ {
		ws := start.Add(time.Duration(offset) * day)
		we := ws.Add(stay)

		free := 0
		for i := range resources {
			res := resources[i]
			if !res.Active || !MatchesType(res.ResourceType, requestedType) {
				continue
			}
			conflicts := activeOverlapping(reservations, res.ID, ws, we)
			if peakConcurrent(conflicts, ws, we) < res.Capacity {
				free++
			}
		}
		if free > 0 {
			windows = append(windows, models.DateWindow{StartDate: ws, EndDate: we, FreeCount: free})
		}
	}
	return windows
}

// DoubleBookings finds resources whose active reservations exceed capacity
// on at least one day. One report per resource covering the first
// contiguous over-capacity stretch, with every reservation touching it.
func (c *Checker) DoubleBookings(resources []models.Resource, reservations []models.Reservation) []models.DoubleBooking {
	var out []models.DoubleBooking
	for i := range resources {
		res := resources[i]

		var active []models.Reservation
		span := struct{ start, end time.Time }{}
		for j := range reservations {
			r := reservations[j]
			if r.ResourceID != res.ID || !models.IsActiveReservationStatus(r.Status) {
				continue
			}
			active = append(active, r)
			if span.start.IsZero() || r.StartDate.Before(span.start) {
				span.start = r.StartDate
			}
			if r.EndDate.After(span.end) {
				span.end = r.EndDate
			}
		}
		if len(active) <= res.Capacity {
			continue
		}

		db, found := overCapacityWindow(res, active, span.start, span.end)
		if found {
			out = append(out, db)
		}
	}
	return out
}

// overCapacityWindow sweeps the resource's booked span day by day and
// returns the first contiguous stretch where concurrent active reservations
// exceed capacity.
func overCapacityWindow(res models.Resource, active []models.Reservation, spanStart, spanEnd time.Time) (models.DoubleBooking, bool) {
	var windowStart, windowEnd time.Time
	excess := 0
	inWindow := false

	for d := spanStart; !d.After(spanEnd); d = d.Add(day) {
		n := 0
		for i := range active {
			if active[i].Overlaps(d, d) {
				n++
			}
		}
		over := n > res.Capacity
		switch {
		case over && !inWindow:
			inWindow = true
			windowStart = d
			windowEnd = d
			excess = n - res.Capacity
		case over && inWindow:
			windowEnd = d
			if n-res.Capacity > excess {
				excess = n - res.Capacity
			}
		case !over && inWindow:
			// Report the first stretch only; later stretches surface on the
			// next run once this one is resolved.
			d = spanEnd.Add(day)
		}
	}
	if !inWindow {
		return models.DoubleBooking{}, false
	}

	db := models.DoubleBooking{
		Resource:       res,
		OverlapStart:   windowStart,
		OverlapEnd:     windowEnd,
		ExcessBookings: excess,
	}
	for i := range active {
		if active[i].Overlaps(windowStart, windowEnd) {
			db.Reservations = append(db.Reservations, active[i])
		}
	}
	return db, true
}

// HasConflict reports whether booking resourceID for [start, end] would
// exceed the resource's capacity, ignoring the reservation identified by
// excludeID (the zero UUID excludes nothing). Used on create and on date
// changes.
func (c *Checker) HasConflict(res models.Resource, reservations []models.Reservation, start, end time.Time, excludeID uuid.UUID) (bool, []uuid.UUID) {
	conflicts := activeOverlapping(reservations, res.ID, start, end)
	if excludeID != uuid.Nil {
		filtered := conflicts[:0]
		for _, r := range conflicts {
			if r.ID != excludeID {
				filtered = append(filtered, r)
			}
		}
		conflicts = filtered
	}

	if peakConcurrent(conflicts, start, end) < res.Capacity {
		return false, nil
	}
	ids := make([]uuid.UUID, len(conflicts))
	for i, r := range conflicts {
		ids[i] = r.ID
	}
	return true, ids
}
