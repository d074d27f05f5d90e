package llm

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "gemini-2.5-flash", cfg.Model(TierStandard))
	assert.Equal(t, "gemini-2.5-flash-lite", cfg.Model(TierLite))
	assert.Equal(t, float32(0.1), cfg.Temperature)
}

func TestConfig_Model(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		tier ModelTier
		want string
	}{
		{"configured tier", Config{Models: map[ModelTier]string{TierLite: "lite-model"}, Fallback: "fb"}, TierLite, "lite-model"},
		{"missing tier uses fallback", Config{Models: map[ModelTier]string{TierLite: "lite-model"}, Fallback: "fb"}, TierStandard, "fb"},
		{"blank entry uses fallback", Config{Models: map[ModelTier]string{TierStandard: ""}, Fallback: "fb"}, TierStandard, "fb"},
		{"nothing configured", Config{}, TierStandard, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.cfg.Model(tt.tier))
		})
	}
}

func TestWithModel(t *testing.T) {
	cfg := DefaultConfig()
	custom := cfg.WithModel(TierStandard, "custom-model")

	assert.Equal(t, "gemini-2.5-flash", cfg.Model(TierStandard))
	assert.Equal(t, "custom-model", custom.Model(TierStandard))
	assert.Equal(t, "gemini-2.5-flash-lite", custom.Model(TierLite))
	assert.Equal(t, cfg.Temperature, custom.Temperature)

	empty := (&Config{}).WithModel(TierLite, "x")
	assert.Equal(t, "x", empty.Model(TierLite))
}

func TestNewGeminiClient_RequiresAPIKey(t *testing.T) {
	_, err := NewGeminiClient(t.Context(), nil, "")
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}
