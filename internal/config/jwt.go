package config

import (
	"errors"
	"fmt"
	"time"
)

// JWTConfig signs and bounds the lifetime of session tokens.
type JWTConfig struct {
	Secret          string
	ExpirationHours int
}

// JWT builds the token settings from the auth section.
func (c AuthConfig) JWT() (*JWTConfig, error) {
	return NewJWTConfig(c.JWTSecret, c.JWTExpirationHours)
}

// NewJWTConfig rejects an empty secret and lifetimes under one hour.
func NewJWTConfig(secret string, expirationHours int) (*JWTConfig, error) {
	if secret == "" {
		return nil, errors.New("auth.jwt_secret is empty: set JWT_SECRET or SMARTMATCH_AUTH_JWT_SECRET")
	}
	if expirationHours < 1 {
		return nil, fmt.Errorf("auth.jwt_expiration_hours is %d: tokens must live at least 1 hour", expirationHours)
	}
	return &JWTConfig{Secret: secret, ExpirationHours: expirationHours}, nil
}

// TTL is the lifetime of an issued token.
func (c *JWTConfig) TTL() time.Duration {
	return time.Duration(c.ExpirationHours) * time.Hour
}
