// Package jobs analyzes pasted job descriptions into weighted skill lists.
package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/Kartik4138/Resume-enhancer/internal/db"
	"github.com/Kartik4138/Resume-enhancer/internal/ingestion"
	"github.com/Kartik4138/Resume-enhancer/internal/nlp"
	"github.com/Kartik4138/Resume-enhancer/internal/types"
)

// ErrEmptyDescription is returned for blank job description text.
var ErrEmptyDescription = errors.New("Please enter a job description")

// Store is the persistence used by Service.
type Store interface {
	FindJobDescriptionByHash(ctx context.Context, userID uuid.UUID, contentHash string) (*db.JobDescription, error)
	CreateJobDescription(ctx context.Context, userID uuid.UUID, content, contentHash string, analyzedData []byte) (*db.JobDescription, error)
}

// Service analyzes and stores job descriptions.
type Service struct {
	store    Store
	pipeline *nlp.Pipeline
	logger   *slog.Logger
}

// NewService creates a job description service. A nil pipeline uses the default.
func NewService(store Store, pipeline *nlp.Pipeline, logger *slog.Logger) *Service {
	if pipeline == nil {
		pipeline = nlp.NewDefaultPipeline()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, pipeline: pipeline, logger: logger}
}

// Analyze extracts skills from content. Content already analyzed for the user
// returns the stored result.
func (s *Service) Analyze(ctx context.Context, userID uuid.UUID, content string) (*types.JDAnalysisResponse, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyDescription
	}
	hash := ingestion.ContentHash([]byte(content))

	existing, err := s.store.FindJobDescriptionByHash(ctx, userID, hash)
	if err != nil {
		return nil, err
	}
	if existing != nil && len(existing.AnalyzedData) > 0 {
		analysis, err := DecodeAnalysis(existing)
		if err != nil {
			return nil, err
		}
		return &types.JDAnalysisResponse{JobDescriptionID: existing.ID, Skills: analysis.Skills}, nil
	}

	cleaned := ingestion.CleanJobText(content)
	analysis := Extract(s.pipeline, cleaned)
	data, err := json.Marshal(analysis)
	if err != nil {
		return nil, fmt.Errorf("failed to encode job analysis: %w", err)
	}

	jd, err := s.store.CreateJobDescription(ctx, userID, cleaned, hash, data)
	if err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "job description analyzed",
		"user_id", userID,
		"job_description_id", jd.ID,
		"skills", len(analysis.Skills))

	return &types.JDAnalysisResponse{JobDescriptionID: jd.ID, Skills: analysis.Skills}, nil
}

// Extract runs JD skill extraction on cleaned text.
func Extract(pipeline *nlp.Pipeline, cleaned string) types.JDAnalysis {
	skills := pipeline.ExtractJDSkills(cleaned)
	if skills == nil {
		skills = []types.JDSkill{}
	}
	return types.JDAnalysis{Skills: skills}
}

// DecodeAnalysis returns the analysis stored on a job description.
func DecodeAnalysis(jd *db.JobDescription) (*types.JDAnalysis, error) {
	var analysis types.JDAnalysis
	if err := json.Unmarshal(jd.AnalyzedData, &analysis); err != nil {
		return nil, fmt.Errorf("failed to decode job analysis: %w", err)
	}
	return &analysis, nil
}
