// Package ats scores a user's latest parsed resume against their latest job description.
package ats

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/Kartik4138/Resume-enhancer/internal/cache"
	"github.com/Kartik4138/Resume-enhancer/internal/db"
	"github.com/Kartik4138/Resume-enhancer/internal/resumes"
	"github.com/Kartik4138/Resume-enhancer/internal/scoring"
	"github.com/Kartik4138/Resume-enhancer/internal/types"
)

// Analyzer produces the structured comparison of a resume and a job description.
type Analyzer interface {
	Analyze(ctx context.Context, resumeText, jobText string) (*types.ATSAnalysis, error)
}

// Store is the persistence used by Service.
type Store interface {
	LatestParsedResumeVersion(ctx context.Context, userID uuid.UUID) (*db.ResumeVersion, error)
	LatestAnalyzedJobDescription(ctx context.Context, userID uuid.UUID) (*db.JobDescription, error)
	UpsertAnalysisResult(ctx context.Context, versionID, jdID uuid.UUID, finalScore int, breakdown, result []byte) (*db.AnalysisResult, error)
}

// Service computes ATS scores.
type Service struct {
	store    Store
	analyzer Analyzer
	cache    cache.ScoreCache
	logger   *slog.Logger
}

// NewService creates a scoring service.
func NewService(store Store, analyzer Analyzer, scoreCache cache.ScoreCache, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, analyzer: analyzer, cache: scoreCache, logger: logger}
}

// Score compares the user's latest parsed resume with their latest analyzed
// job description. Repeated requests for unchanged texts are served from the cache.
func (s *Service) Score(ctx context.Context, userID uuid.UUID) (*types.ATSScoreResponse, error) {
	var (
		version *db.ResumeVersion
		jd      *db.JobDescription
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		version, err = s.store.LatestParsedResumeVersion(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		jd, err = s.store.LatestAnalyzedJobDescription(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if version == nil {
		return nil, ErrNoParsedResume
	}
	if jd == nil {
		return nil, ErrNoJobDescription
	}

	parsed, err := resumes.DecodeParsed(version)
	if err != nil {
		return nil, err
	}
	resumeText := parsed.CleanedText

	key := cache.ScoreKey(userID.String(), resumeText, jd.Content)
	cached, err := s.cache.Get(ctx, key)
	if err != nil {
		s.logger.WarnContext(ctx, "score cache read failed", "error", err)
	}
	if cached != nil {
		cached.Cached = true
		return cached, nil
	}

	analysis, err := s.analyzer.Analyze(ctx, resumeText, jd.Content)
	if err != nil {
		return nil, &AnalysisError{Err: err}
	}
	score := scoring.Aggregate(analysis)

	breakdown, err := json.Marshal(score.ScoreBreakdown)
	if err != nil {
		return nil, fmt.Errorf("failed to encode score breakdown: %w", err)
	}
	result, err := json.Marshal(analysis)
	if err != nil {
		return nil, fmt.Errorf("failed to encode analysis: %w", err)
	}
	if _, err := s.store.UpsertAnalysisResult(ctx, version.ID, jd.ID, scoring.StoredScore(score.FinalATSScore), breakdown, result); err != nil {
		return nil, err
	}

	resp := &types.ATSScoreResponse{
		ATSScore:    score,
		ATSAnalysis: *analysis,
		Cached:      false,
		ResumeID:    version.ID.String(),
		JDID:        jd.ID.String(),
	}
	if err := s.cache.Set(ctx, key, resp); err != nil {
		s.logger.WarnContext(ctx, "score cache write failed", "error", err)
	}

	s.logger.InfoContext(ctx, "resume scored",
		"user_id", userID,
		"resume_version_id", version.ID,
		"job_description_id", jd.ID,
		"final_score", score.FinalATSScore)
	return resp, nil
}
