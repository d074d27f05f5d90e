package types

import "github.com/google/uuid"

// AnalyzeJDRequest carries pasted job description text.
type AnalyzeJDRequest struct {
	Content string `json:"content" validate:"required,min=50"`
}

// JDAnalysis is the analyzed_data document stored on a job description.
type JDAnalysis struct {
	Skills []JDSkill `json:"skills"`
}

// JDAnalysisResponse is returned by the analyze endpoint.
type JDAnalysisResponse struct {
	JobDescriptionID uuid.UUID `json:"job_description_id"`
	Skills           []JDSkill `json:"skills"`
}
