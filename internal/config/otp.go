package config

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// OTP defaults
const (
	DefaultBcryptCost = 10
	DefaultOTPTTL     = 5 * time.Minute
)

// OTPConfig holds configuration for one-time code hashing and refresh token digests.
type OTPConfig struct {
	BcryptCost int
	// Secret keys the HMAC used to store refresh tokens.
	Secret string
	TTL    time.Duration
}

// NewOTPConfig creates a validated OTP configuration. Zero values take the defaults.
func NewOTPConfig(secret string, bcryptCost int, ttl time.Duration) (*OTPConfig, error) {
	config := &OTPConfig{
		BcryptCost: bcryptCost,
		Secret:     secret,
		TTL:        ttl,
	}
	if config.BcryptCost == 0 {
		config.BcryptCost = DefaultBcryptCost
	}
	if config.TTL == 0 {
		config.TTL = DefaultOTPTTL
	}

	if err := config.normalize(); err != nil {
		return nil, err
	}
	return config, nil
}

// normalize validates the configuration.
func (c *OTPConfig) normalize() error {
	if c.BcryptCost < bcrypt.MinCost || c.BcryptCost > 14 {
		return fmt.Errorf("bcrypt cost out of range: %d (must be %d-14)", c.BcryptCost, bcrypt.MinCost)
	}
	if c.Secret == "" {
		return fmt.Errorf("OTP_SECRET cannot be empty")
	}
	if c.TTL <= 0 {
		return fmt.Errorf("OTP lifetime must be positive, got: %s", c.TTL)
	}
	return nil
}

// HashCode hashes a one-time code using bcrypt.
func (c *OTPConfig) HashCode(code string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(code), c.BcryptCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash code: %w", err)
	}
	return string(hash), nil
}

// VerifyCode verifies a one-time code against a stored hash.
func (c *OTPConfig) VerifyCode(code, storedHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(code)) == nil
}

// TokenDigest returns the hex HMAC-SHA256 of a token, used to store refresh
// tokens without keeping them in clear text.
func (c *OTPConfig) TokenDigest(token string) string {
	mac := hmac.New(sha256.New, []byte(c.Secret))
	mac.Write([]byte(token))
	return hex.EncodeToString(mac.Sum(nil))
}
