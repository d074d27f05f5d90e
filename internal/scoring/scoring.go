// Package scoring aggregates a language model ATS analysis into a 0-100 score.
package scoring

import (
	"math"

	"github.com/Kartik4138/Resume-enhancer/internal/types"
)

// Maximum points contributed by each dimension
const (
	skillsWeight     = 45.0
	experienceWeight = 30.0
	keywordsWeight   = 15.0
	sectionsWeight   = 5.0
	formattingWeight = 5.0

	// weakKeywordCredit is the share of a full match a weak keyword earns.
	weakKeywordCredit = 0.5
	maxScore          = 100.0
)

// ScoredSections are the sections that earn section points.
var ScoredSections = []string{
	types.SectionSkills,
	types.SectionExperience,
	types.SectionEducation,
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func clampPercent(v float64) float64 {
	return math.Max(0, math.Min(v, 100))
}

// ComputeSkillScore scales skills.match_percent to 45 points.
func ComputeSkillScore(skills types.SkillMatch) float64 {
	return round2(clampPercent(skills.MatchPercent) / 100 * skillsWeight)
}

// ComputeExperienceScore scales experience.relevance_score to 30 points.
func ComputeExperienceScore(exp types.ExperienceMatch) float64 {
	return round2(clampPercent(exp.RelevanceScore) / 100 * experienceWeight)
}

// ComputeKeywordScore credits matched keywords fully and weak ones by half, out of 15 points.
func ComputeKeywordScore(kw types.KeywordMatch) float64 {
	total := len(kw.Matched) + len(kw.Weak) + len(kw.Missing)
	if total == 0 {
		return 0
	}
	raw := (float64(len(kw.Matched)) + weakKeywordCredit*float64(len(kw.Weak))) / float64(total)
	return round2(raw * keywordsWeight)
}

// ComputeSectionScore gives 5 points spread over the scored sections.
func ComputeSectionScore(sections map[string]bool) float64 {
	present := 0
	for _, s := range ScoredSections {
		if sections[s] {
			present++
		}
	}
	return round2(float64(present) / float64(len(ScoredSections)) * sectionsWeight)
}

// ComputeFormattingScore scales formatting.score to 5 points.
func ComputeFormattingScore(f types.FormattingFeedback) float64 {
	return round2(clampPercent(f.Score) / 100 * formattingWeight)
}

// Aggregate combines every dimension of an analysis.
func Aggregate(a *types.ATSAnalysis) types.ATSScore {
	breakdown := types.ScoreBreakdown{
		Skills:     ComputeSkillScore(a.Skills),
		Experience: ComputeExperienceScore(a.Experience),
		Keywords:   ComputeKeywordScore(a.Keywords),
		Sections:   ComputeSectionScore(a.Sections),
		Formatting: ComputeFormattingScore(a.Formatting),
	}
	total := breakdown.Skills + breakdown.Experience + breakdown.Keywords +
		breakdown.Sections + breakdown.Formatting
	return types.ATSScore{
		FinalATSScore:  math.Min(round2(total), maxScore),
		ScoreBreakdown: breakdown,
	}
}

// StoredScore converts a final score to the integer persisted with an analysis.
func StoredScore(final float64) int {
	return int(math.Round(final))
}
