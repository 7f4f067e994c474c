// Kennelwise - Pet Boarding, Daycare & Grooming Operations Platform
// Copyright 2026 Kennelwise Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kennelwise/kennelwise

package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/kennelwise/kennelwise/internal/config"
)

func testSecurityConfig() *config.SecurityConfig {
	return &config.SecurityConfig{
		JWTSecret:      "test-secret-at-least-32-characters-long!",
		SessionTimeout: time.Hour,
	}
}

func TestNewJWTManagerRequiresSecret(t *testing.T) {
	cfg := testSecurityConfig()
	cfg.JWTSecret = ""
	if _, err := NewJWTManager(cfg); err == nil {
		t.Fatal("expected error for empty JWT secret")
	}
}

func TestGenerateAndValidateToken(t *testing.T) {
	m, err := NewJWTManager(testSecurityConfig())
	if err != nil {
		t.Fatalf("NewJWTManager: %v", err)
	}

	staffID := uuid.New()
	tenantID := uuid.New()
	token, expires, err := m.GenerateToken(staffID, "jo@example.com", "manager", tenantID)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	if time.Until(expires) > time.Hour || time.Until(expires) < 55*time.Minute {
		t.Errorf("expiry %s not within session timeout", expires)
	}

	claims, err := m.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.Email != "jo@example.com" || claims.Role != "manager" {
		t.Errorf("claims = %s/%s", claims.Email, claims.Role)
	}
	if claims.Subject != staffID.String() {
		t.Errorf("subject = %s, want %s", claims.Subject, staffID)
	}
	if claims.TenantID != tenantID.String() {
		t.Errorf("tenant = %s, want %s", claims.TenantID, tenantID)
	}
}

func TestValidateTokenRejectsTampering(t *testing.T) {
	m, _ := NewJWTManager(testSecurityConfig())
	token, _, err := m.GenerateToken(uuid.New(), "jo@example.com", "staff", uuid.New())
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not.a.token"},
		{"empty", ""},
		{"truncated signature", token[:len(token)-4]},
		{"swapped payload", swapPayload(token)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := m.ValidateToken(tt.token); err == nil {
				t.Error("expected validation failure")
			}
		})
	}
}

func TestValidateTokenRejectsWrongSecret(t *testing.T) {
	m1, _ := NewJWTManager(testSecurityConfig())
	other := testSecurityConfig()
	other.JWTSecret = "another-secret-also-32-characters-xx"
	m2, _ := NewJWTManager(other)

	token, _, _ := m1.GenerateToken(uuid.New(), "jo@example.com", "staff", uuid.New())
	if _, err := m2.ValidateToken(token); err == nil {
		t.Error("token signed with different secret must fail")
	}
}

func TestValidateTokenRejectsExpired(t *testing.T) {
	cfg := testSecurityConfig()
	cfg.SessionTimeout = -time.Minute
	m, _ := NewJWTManager(cfg)

	token, _, _ := m.GenerateToken(uuid.New(), "jo@example.com", "staff", uuid.New())
	if _, err := m.ValidateToken(token); err == nil {
		t.Error("expired token must fail validation")
	}
}

// swapPayload splices the payload from a structurally valid but differently
// signed token.
func swapPayload(token string) string {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return token
	}
	return parts[0] + ".eyJyb2xlIjoiYWRtaW4ifQ." + parts[2]
}

func TestSubjectFromClaims(t *testing.T) {
	m, _ := NewJWTManager(testSecurityConfig())
	staffID, tenantID := uuid.New(), uuid.New()
	token, _, _ := m.GenerateToken(staffID, "jo@example.com", "admin", tenantID)
	claims, err := m.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}

	subject, err := SubjectFromClaims(claims)
	if err != nil {
		t.Fatalf("SubjectFromClaims: %v", err)
	}
	if subject.StaffID != staffID || subject.TenantID != tenantID {
		t.Errorf("subject ids = %s/%s", subject.StaffID, subject.TenantID)
	}
	if subject.SuperAdmin {
		t.Error("JWT subject must not be super-admin")
	}

	claims.TenantID = "broken"
	if _, err := SubjectFromClaims(claims); err == nil {
		t.Error("malformed tenant ID must fail")
	}
	if _, err := SubjectFromClaims(nil); err == nil {
		t.Error("nil claims must fail")
	}
}

func TestSubjectHasRole(t *testing.T) {
	tests := []struct {
		role     string
		required string
		want     bool
	}{
		{"admin", "staff", true},
		{"admin", "admin", true},
		{"manager", "staff", true},
		{"manager", "admin", false},
		{"staff", "manager", false},
		{"staff", "staff", true},
		{"", "staff", false},
	}
	for _, tt := range tests {
		s := &Subject{Role: tt.role}
		if got := s.HasRole(tt.required); got != tt.want {
			t.Errorf("HasRole(%q on %q) = %v, want %v", tt.required, tt.role, got, tt.want)
		}
	}

	super := &Subject{SuperAdmin: true}
	if !super.HasRole("admin") {
		t.Error("super-admin must pass every role check")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple", 10)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}
	if err := CheckPassword(hash, "correct horse battery staple"); err != nil {
		t.Errorf("matching password rejected: %v", err)
	}
	if err := CheckPassword(hash, "wrong"); err != ErrInvalidCredentials {
		t.Errorf("wrong password: got %v, want ErrInvalidCredentials", err)
	}
}
