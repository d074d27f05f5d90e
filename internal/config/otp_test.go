package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestNewOTPConfig(t *testing.T) {
	tests := []struct {
		name     string
		secret   string
		cost     int
		ttl      time.Duration
		wantCost int
		wantTTL  time.Duration
		wantErr  bool
	}{
		{name: "defaults", secret: "s", wantCost: DefaultBcryptCost, wantTTL: 5 * time.Minute},
		{name: "custom", secret: "s", cost: 12, ttl: time.Minute, wantCost: 12, wantTTL: time.Minute},
		{name: "cost too low", secret: "s", cost: 2, wantErr: true},
		{name: "cost too high", secret: "s", cost: 15, wantErr: true},
		{name: "empty secret", secret: "", wantErr: true},
		{name: "negative ttl", secret: "s", ttl: -time.Second, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := NewOTPConfig(tt.secret, tt.cost, tt.ttl)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCost, cfg.BcryptCost)
			assert.Equal(t, tt.wantTTL, cfg.TTL)
		})
	}
}

func TestHashAndVerifyCode(t *testing.T) {
	cfg, err := NewOTPConfig("secret", bcrypt.MinCost, 0)
	require.NoError(t, err)

	hash, err := cfg.HashCode("123456")
	require.NoError(t, err)
	assert.NotEqual(t, "123456", hash)

	assert.True(t, cfg.VerifyCode("123456", hash))
	assert.False(t, cfg.VerifyCode("654321", hash))
	assert.False(t, cfg.VerifyCode("123456", "not-a-hash"))
}

func TestTokenDigest(t *testing.T) {
	a := &OTPConfig{Secret: "one"}
	b := &OTPConfig{Secret: "two"}

	d := a.TokenDigest("token")
	assert.Len(t, d, 64)
	assert.Equal(t, d, a.TokenDigest("token"), "digest must be deterministic")
	assert.NotEqual(t, d, a.TokenDigest("other"))
	assert.NotEqual(t, d, b.TokenDigest("token"), "digest must depend on the secret")
}
