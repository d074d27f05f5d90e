// Package nlp extracts and scores skill candidates from resume and job description text.
package nlp

import (
	"fmt"
	"strings"
)

// Config holds the weights and thresholds used by the skill pipelines.
type Config struct {
	// Resume scoring
	ResumeBase             float64
	ResumeFrequencyBonus   float64
	ResumeSkillsBonus      float64
	ResumeExperienceBonus  float64
	ResumeFrequencyMinimum int

	// Job description scoring
	JDBase             float64
	JDFrequencyBonus   float64
	JDRequiredBonus    float64
	JDFrequencyMinimum int
	RequiredKeywords   []string
	RequiredWindow     int

	// MinConfidence is the inclusive cutoff for reported skills.
	MinConfidence float64

	// Stopwords are generic nouns that cannot form a skill on their own.
	Stopwords map[string]struct{}
}

// DefaultStopwords returns the generic nouns rejected by IsValidCandidate.
func DefaultStopwords() map[string]struct{} {
	words := []string{
		"system", "systems", "tool", "tools", "technology", "technologies",
		"software", "application", "applications",
	}
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// DefaultConfig returns the standard weights.
func DefaultConfig() Config {
	return Config{
		ResumeBase:             0.30,
		ResumeFrequencyBonus:   0.20,
		ResumeSkillsBonus:      0.20,
		ResumeExperienceBonus:  0.30,
		ResumeFrequencyMinimum: 2,

		JDBase:             0.40,
		JDFrequencyBonus:   0.30,
		JDRequiredBonus:    0.20,
		JDFrequencyMinimum: 2,
		RequiredKeywords:   []string{"must", "required", "requirement", "mandatory"},
		RequiredWindow:     50,

		MinConfidence: 0.5,
		Stopwords:     DefaultStopwords(),
	}
}

// Validate checks that every weight and threshold is in range.
func (c Config) Validate() error {
	weights := map[string]float64{
		"resume base":             c.ResumeBase,
		"resume frequency bonus":  c.ResumeFrequencyBonus,
		"resume skills bonus":     c.ResumeSkillsBonus,
		"resume experience bonus": c.ResumeExperienceBonus,
		"jd base":                 c.JDBase,
		"jd frequency bonus":      c.JDFrequencyBonus,
		"jd required bonus":       c.JDRequiredBonus,
		"min confidence":          c.MinConfidence,
	}
	for name, w := range weights {
		if w < 0 || w > 1 {
			return fmt.Errorf("%w: %s must be within [0, 1], got %v", ErrInvalidArgument, name, w)
		}
	}
	if c.RequiredWindow < 0 {
		return fmt.Errorf("%w: required window must not be negative, got %d", ErrInvalidArgument, c.RequiredWindow)
	}
	if c.ResumeFrequencyMinimum < 1 || c.JDFrequencyMinimum < 1 {
		return fmt.Errorf("%w: frequency minimums must be at least 1", ErrInvalidArgument)
	}
	for _, k := range c.RequiredKeywords {
		if strings.TrimSpace(k) == "" {
			return fmt.Errorf("%w: required keywords must not be blank", ErrInvalidArgument)
		}
	}
	return nil
}
