// Kennelwise - Pet Boarding, Daycare & Grooming Operations Platform
// Copyright 2026 Kennelwise Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kennelwise/kennelwise

// Package availability computes free/busy resource sets, detects
// double-bookings, and suggests alternative stay windows.
//
// Resource types arrive from three places with three different spellings:
// the resource table (canonical), API query parameters (anything a front
// desk types), and legacy imports ("cage", "vip room"). The taxonomy in
// this file funnels all of them onto the canonical constants in the models
// package before any interval math runs.
package availability

import (
	"strings"

	"github.com/kennelwise/kennelwise/internal/models"
)

// suiteTypes are the concrete types covered by the "SUITE" wildcard
// category. A query for "suite" matches any tier.
var suiteTypes = []string{
	models.ResourceTypeSuite,
	models.ResourceTypeStandardSuite,
	models.ResourceTypeStandardPlusSuite,
	models.ResourceTypeVIPSuite,
}

// aliases maps normalized spellings onto canonical resource types.
// Keys are the output of normalizeKey, so lookups are case, space, and
// hyphen insensitive.
var aliases = map[string]string{
	"KENNEL":              models.ResourceTypeKennel,
	"CAGE":                models.ResourceTypeKennel,
	"RUN":                 models.ResourceTypeKennel,
	"DOG_RUN":             models.ResourceTypeKennel,
	"SUITE":               models.ResourceTypeSuite,
	"STANDARD_SUITE":      models.ResourceTypeStandardSuite,
	"STANDARD":            models.ResourceTypeStandardSuite,
	"STANDARD_PLUS_SUITE": models.ResourceTypeStandardPlusSuite,
	"STANDARD_PLUS":       models.ResourceTypeStandardPlusSuite,
	"VIP_SUITE":           models.ResourceTypeVIPSuite,
	"VIP":                 models.ResourceTypeVIPSuite,
	"VIP_ROOM":            models.ResourceTypeVIPSuite,
	"LUXURY_SUITE":        models.ResourceTypeVIPSuite,
	"GROOMING_STATION":    models.ResourceTypeGroomingStation,
	"GROOMING":            models.ResourceTypeGroomingStation,
	"GROOM_STATION":       models.ResourceTypeGroomingStation,
	"SALON":               models.ResourceTypeGroomingStation,
	"DAYCARE_ROOM":        models.ResourceTypeDaycareRoom,
	"DAYCARE":             models.ResourceTypeDaycareRoom,
	"PLAYROOM":            models.ResourceTypeDaycareRoom,
	"PLAY_YARD":           models.ResourceTypePlayYard,
	"YARD":                models.ResourceTypePlayYard,
	"OUTDOOR_YARD":        models.ResourceTypePlayYard,
}

// categoryTypes maps a service category to the resource types its
// reservations may occupy.
var categoryTypes = map[string][]string{
	models.ServiceCategoryBoarding: {
		models.ResourceTypeKennel,
		models.ResourceTypeSuite,
		models.ResourceTypeStandardSuite,
		models.ResourceTypeStandardPlusSuite,
		models.ResourceTypeVIPSuite,
	},
	models.ServiceCategoryDaycare: {
		models.ResourceTypeDaycareRoom,
		models.ResourceTypePlayYard,
	},
	models.ServiceCategoryGrooming: {
		models.ResourceTypeGroomingStation,
	},
	models.ServiceCategoryTraining: {
		models.ResourceTypePlayYard,
	},
}

// normalizeKey uppercases and collapses separators so "Standard-Plus Suite"
// and "standard_plus_suite" hit the same alias entry.
func normalizeKey(s string) string {
	s = strings.TrimSpace(strings.ToUpper(s))
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, " ", "_")
	for strings.Contains(s, "__") {
		s = strings.ReplaceAll(s, "__", "_")
	}
	return s
}

// NormalizeType resolves a resource type spelling to its canonical form.
// Unknown spellings return the normalized key unchanged so that tenants
// with custom resource types still match their own data exactly.
func NormalizeType(s string) string {
	key := normalizeKey(s)
	if canonical, ok := aliases[key]; ok {
		return canonical
	}
	return key
}

// ExpandTypes resolves a requested type into the set of concrete types to
// query. The "SUITE" wildcard expands to every suite tier; anything else
// expands to itself. An empty request returns nil, meaning all types.
func ExpandTypes(requested string) []string {
	if strings.TrimSpace(requested) == "" {
		return nil
	}

	canonical := NormalizeType(requested)
	if canonical == models.ResourceTypeSuite {
		out := make([]string, len(suiteTypes))
		copy(out, suiteTypes)
		return out
	}
	return []string{canonical}
}

// TypesForCategory returns the resource types a service category may
// occupy. Unknown categories return nil (no restriction).
func TypesForCategory(category string) []string {
	types, ok := categoryTypes[normalizeKey(category)]
	if !ok {
		return nil
	}
	out := make([]string, len(types))
	copy(out, types)
	return out
}

// MatchesType reports whether a resource's concrete type satisfies a
// requested type, honoring the suite wildcard in either position.
func MatchesType(resourceType, requested string) bool {
	if strings.TrimSpace(requested) == "" {
		return true
	}
	concrete := NormalizeType(resourceType)
	for _, t := range ExpandTypes(requested) {
		if t == concrete {
			return true
		}
	}
	return false
}
