// Package llm provides the language model client used for ATS analysis.
package llm

import "maps"

// ModelTier selects a model by how much reasoning a task needs.
type ModelTier string

const (
	// TierLite covers short extraction and classification prompts.
	TierLite ModelTier = "lite"
	// TierStandard covers structured analysis such as resume scoring.
	TierStandard ModelTier = "standard"
)

// DefaultModel answers ATS analysis prompts.
const DefaultModel = "gemini-2.5-flash"

const (
	DefaultTemperature   float32 = 0.1
	DefaultMaxInputRunes         = 5000
	DefaultMaxAttempts           = 3
)

// Config holds the Gemini generation settings.
type Config struct {
	// Models maps a tier to a model name. Tiers without an entry use Fallback.
	Models      map[ModelTier]string
	Fallback    string
	Temperature float32
}

// DefaultConfig returns the settings used by the ATS analyzer.
func DefaultConfig() *Config {
	return &Config{
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: DefaultModel,
		},
		Fallback:    DefaultModel,
		Temperature: DefaultTemperature,
	}
}

// Model resolves the model name for tier, or "" when nothing is configured.
func (c *Config) Model(tier ModelTier) string {
	if model := c.Models[tier]; model != "" {
		return model
	}
	return c.Fallback
}

// WithModel returns a copy of c that uses model for tier.
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	out := *c
	out.Models = maps.Clone(c.Models)
	if out.Models == nil {
		out.Models = make(map[ModelTier]string, 1)
	}
	out.Models[tier] = model
	return &out
}
