// Kennelwise - Pet Boarding, Daycare & Grooming Operations Platform
// Copyright 2026 Kennelwise Authors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/kennelwise/kennelwise

// Package auth implements staff authentication: bcrypt password checks,
// HS256 JWT session tokens, and the HTTP middleware that guards tenant
// routes by role. The super-admin API key for cross-tenant administration
// also lives here.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/kennelwise/kennelwise/internal/config"
)

// Claims are the JWT claims issued at login. TenantID binds the token to
// the tenant the staff member belongs to; tokens never cross tenants.
type Claims struct {
	Email    string `json:"email"`
	Role     string `json:"role"`
	TenantID string `json:"tenant_id"`
	jwt.RegisteredClaims
}

// JWTManager creates and validates session tokens.
//
// Tokens use HMAC-SHA256 signing and are stateless: they cannot be revoked
// before expiration, so the session timeout bounds the exposure window.
type JWTManager struct {
	secret  []byte
	timeout time.Duration
}

// NewJWTManager builds a token manager from the security configuration.
// Returns an error if the JWT secret is empty; config.Validate enforces the
// minimum length separately.
func NewJWTManager(cfg *config.SecurityConfig) (*JWTManager, error) {
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT secret is required but was empty")
	}
	return &JWTManager{
		secret:  []byte(cfg.JWTSecret),
		timeout: cfg.SessionTimeout,
	}, nil
}

// SessionTimeout returns the configured token lifetime.
func (m *JWTManager) SessionTimeout() time.Duration {
	return m.timeout
}

// GenerateToken signs a token for an authenticated staff member. The
// returned expiry is echoed to the client so it can schedule re-login.
func (m *JWTManager) GenerateToken(staffID uuid.UUID, email, role string, tenantID uuid.UUID) (string, time.Time, error) {
	now := time.Now()
	expires := now.Add(m.timeout)

	claims := &Claims{
		Email:    email,
		Role:     role,
		TenantID: tenantID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   staffID.String(),
			ExpiresAt: jwt.NewNumericDate(expires),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expires, nil
}

// ValidateToken parses and verifies a token string. The signing method is
// pinned to HMAC to reject algorithm confusion attacks; expiry and
// not-before are checked by the parser.
func (m *JWTManager) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	return claims, nil
}
