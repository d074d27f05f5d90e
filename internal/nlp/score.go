package nlp

import (
	"math"
	"sort"
	"strings"

	"github.com/Kartik4138/Resume-enhancer/internal/types"
)

// ScoreSkill assigns a resume confidence to a normalized skill.
//
// Occurrences are counted as raw substrings of the lowercased text. Section
// bonuses apply once each; "experience" and "projects" share one bonus and
// one source tag.
func ScoreSkill(skill, text string, sections types.SectionSet, cfg Config) types.Skill {
	confidence := cfg.ResumeBase
	sources := make(map[string]struct{}, 2)

	lowered := strings.ToLower(text)
	if skill != "" && strings.Count(lowered, skill) >= cfg.ResumeFrequencyMinimum {
		confidence += cfg.ResumeFrequencyBonus
	}

	if sections.Has(types.SectionSkills) {
		confidence += cfg.ResumeSkillsBonus
		sources[types.SourceSkills] = struct{}{}
	}

	if sections.Has(types.SectionExperience) || sections.Has(types.SectionProjects) {
		confidence += cfg.ResumeExperienceBonus
		sources[types.SourceExperience] = struct{}{}
	}

	tags := make([]string, 0, len(sources))
	for s := range sources {
		tags = append(tags, s)
	}
	sort.Strings(tags)

	return types.Skill{
		Name:       skill,
		Confidence: clampRound(confidence),
		Source:     tags,
	}
}

// clampRound clamps to [0, 1] and rounds to two decimals.
func clampRound(v float64) float64 {
	v = math.Max(0, math.Min(v, 1))
	return math.Round(v*100) / 100
}
