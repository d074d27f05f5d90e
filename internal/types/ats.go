package types

// SkillMatch is the skills block of an ATS analysis.
type SkillMatch struct {
	MatchPercent float64  `json:"match_percent"`
	Matched      []string `json:"matched"`
	Missing      []string `json:"missing"`
	Weak         []string `json:"weak"`
}

// ExperienceMatch is the experience block of an ATS analysis.
type ExperienceMatch struct {
	RelevanceScore       float64  `json:"relevance_score"`
	ExperienceSuggestion []string `json:"experience_suggestion"`
}

// KeywordMatch is the keywords block of an ATS analysis.
type KeywordMatch struct {
	Matched []string `json:"matched"`
	Weak    []string `json:"weak"`
	Missing []string `json:"missing"`
}

// FormattingFeedback is the formatting block of an ATS analysis.
type FormattingFeedback struct {
	Score    float64  `json:"score"`
	Feedback []string `json:"feedback"`
}

// ATSAnalysis is the structured output of the language model analysis.
type ATSAnalysis struct {
	Skills      SkillMatch         `json:"skills"`
	Experience  ExperienceMatch    `json:"experience"`
	Keywords    KeywordMatch       `json:"keywords"`
	Formatting  FormattingFeedback `json:"formatting"`
	Sections    map[string]bool    `json:"sections"`
	Suggestions []string           `json:"suggestions"`
}

// ScoreBreakdown holds the weighted contribution of each scoring dimension.
type ScoreBreakdown struct {
	Skills     float64 `json:"skills"`
	Experience float64 `json:"experience"`
	Keywords   float64 `json:"keywords"`
	Sections   float64 `json:"sections"`
	Formatting float64 `json:"formatting"`
}

// ATSScore is the aggregated score.
type ATSScore struct {
	FinalATSScore  float64        `json:"final_ats_score"`
	ScoreBreakdown ScoreBreakdown `json:"score_breakdown"`
}

// ATSScoreResponse is returned by the score endpoint and stored in the score cache.
type ATSScoreResponse struct {
	ATSScore
	ATSAnalysis
	Cached   bool   `json:"cached"`
	ResumeID string `json:"resume_id,omitempty"`
	JDID     string `json:"jd_id,omitempty"`
}
