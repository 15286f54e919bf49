// Package config provides JWT configuration functionality.
package config

import (
	"fmt"
)

// JWTConfig holds configuration for JWT token generation and validation.
type JWTConfig struct {
	Secret          string
	ExpirationHours int
}

// NewJWTConfig builds a JWT configuration from the auth section.
// ExpirationHours defaults to 24 when unset.
func NewJWTConfig(auth AuthConfig) (*JWTConfig, error) {
	hours := auth.ExpirationHours
	if hours == 0 {
		hours = 24 // default
	}

	config := &JWTConfig{
		Secret:          auth.JWTSecret,
		ExpirationHours: hours,
	}

	if err := config.normalize(); err != nil {
		return nil, err
	}

	return config, nil
}

// normalize validates the configuration.
func (c *JWTConfig) normalize() error {
	if c.Secret == "" {
		return fmt.Errorf("JWT_SECRET cannot be empty")
	}
	if c.ExpirationHours < 1 {
		return fmt.Errorf("JWT_EXPIRATION_HOURS must be at least 1 hour, got: %d", c.ExpirationHours)
	}
	return nil
}
