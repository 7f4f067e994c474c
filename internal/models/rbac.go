// Kennelwise - Pet Boarding, Daycare & Grooming Operations Platform
// Copyright 2026 Kennelwise Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kennelwise/kennelwise

package models

// Role constants for tenant staff accounts.
// Hierarchy: admin > manager > staff. Admins can manage staff accounts and
// tenant settings; managers can modify business data; staff have read access
// plus check-in/check-out operations.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleStaff   = "staff"
)

// ValidRoles lists every assignable role.
var ValidRoles = []string{RoleAdmin, RoleManager, RoleStaff}

// RoleRank maps a role to its position in the hierarchy. Higher outranks
// lower; unknown roles rank below everything.
func RoleRank(role string) int {
	switch role {
	case RoleAdmin:
		return 3
	case RoleManager:
		return 2
	case RoleStaff:
		return 1
	default:
		return 0
	}
}

// RoleAtLeast reports whether role meets or exceeds the required role.
func RoleAtLeast(role, required string) bool {
	return RoleRank(role) >= RoleRank(required)
}
