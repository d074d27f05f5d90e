package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJWTConfig_DefaultValues(t *testing.T) {
	cfg, err := NewJWTConfig("test-secret-key", 0, 0)
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, "test-secret-key", cfg.Secret)
	assert.Equal(t, 150*time.Minute, cfg.AccessTTL, "should use default access lifetime")
	assert.Equal(t, 7*24*time.Hour, cfg.RefreshTTL, "should use default refresh lifetime")
}

func TestNewJWTConfig_Validation(t *testing.T) {
	tests := []struct {
		name       string
		secret     string
		accessTTL  time.Duration
		refreshTTL time.Duration
		wantErr    bool
	}{
		{name: "custom lifetimes", secret: "s", accessTTL: 10 * time.Minute, refreshTTL: time.Hour},
		{name: "empty secret", secret: "", wantErr: true},
		{name: "access too short", secret: "s", accessTTL: time.Second, wantErr: true},
		{name: "refresh shorter than access", secret: "s", accessTTL: time.Hour, refreshTTL: 30 * time.Minute, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := NewJWTConfig(tt.secret, tt.accessTTL, tt.refreshTTL)
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, cfg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.accessTTL, cfg.AccessTTL)
			assert.Equal(t, tt.refreshTTL, cfg.RefreshTTL)
		})
	}
}
