package config

import (
	"fmt"
	"time"
)

// Token lifetimes
const (
	DefaultAccessTTL  = 150 * time.Minute
	DefaultRefreshTTL = 7 * 24 * time.Hour
)

// JWTConfig holds configuration for JWT token generation and validation.
type JWTConfig struct {
	Secret     string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// NewJWTConfig creates a validated JWT configuration. Zero lifetimes take the defaults.
func NewJWTConfig(secret string, accessTTL, refreshTTL time.Duration) (*JWTConfig, error) {
	config := &JWTConfig{
		Secret:     secret,
		AccessTTL:  accessTTL,
		RefreshTTL: refreshTTL,
	}
	if config.AccessTTL == 0 {
		config.AccessTTL = DefaultAccessTTL
	}
	if config.RefreshTTL == 0 {
		config.RefreshTTL = DefaultRefreshTTL
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
	if c.AccessTTL < time.Minute {
		return fmt.Errorf("access token lifetime must be at least 1 minute, got: %s", c.AccessTTL)
	}
	if c.RefreshTTL < c.AccessTTL {
		return fmt.Errorf("refresh token lifetime %s is shorter than access lifetime %s", c.RefreshTTL, c.AccessTTL)
	}
	return nil
}
