package types

import (
	"time"

	"github.com/google/uuid"
)

// Resume version statuses
const (
	StatusPending = "PENDING"
	StatusParsed  = "PARSED"
	StatusFailed  = "FAILED"
)

// ParsedResume is the parsed_data document stored on a resume version.
type ParsedResume struct {
	RawText              string          `json:"raw_text"`
	CleanedText          string          `json:"cleaned_text"`
	Formatting           FormattingStats `json:"formatting"`
	FormattingViolations []RuleViolation `json:"formatting_violations"`
	SectionsDetected     map[string]bool `json:"sections_detected"`
	MissingSections      []string        `json:"missing_sections"`
	Skills               []Skill         `json:"skills"`
	Error                string          `json:"error,omitempty"`
}

// UploadResponse is returned by the upload endpoint.
type UploadResponse struct {
	ResumeID        uuid.UUID `json:"resume_id"`
	ResumeVersionID uuid.UUID `json:"resume_version_id"`
	Status          string    `json:"status"`
	Message         string    `json:"message,omitempty"`
}

// AnalysisHistoryItem is one scored analysis of a resume version.
type AnalysisHistoryItem struct {
	JobDescriptionID uuid.UUID      `json:"job_description_id"`
	FinalScore       int            `json:"final_score"`
	Breakdown        ScoreBreakdown `json:"breakdown"`
	CreatedAt        time.Time      `json:"created_at"`
}

// ResumeVersionHistory is one uploaded version with its analyses.
type ResumeVersionHistory struct {
	ResumeVersionID uuid.UUID             `json:"resume_version_id"`
	Status          string                `json:"status"`
	CreatedAt       time.Time             `json:"created_at"`
	Analyses        []AnalysisHistoryItem `json:"analyses"`
}

// ResumeHistoryResponse lists every version of a user's resume, newest first.
type ResumeHistoryResponse struct {
	ResumeID uuid.UUID              `json:"resume_id"`
	History  []ResumeVersionHistory `json:"history"`
}
