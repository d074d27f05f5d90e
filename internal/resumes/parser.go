package resumes

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/Kartik4138/Resume-enhancer/internal/formatting"
	"github.com/Kartik4138/Resume-enhancer/internal/ingestion"
	"github.com/Kartik4138/Resume-enhancer/internal/nlp"
	"github.com/Kartik4138/Resume-enhancer/internal/queue"
	"github.com/Kartik4138/Resume-enhancer/internal/storage"
	"github.com/Kartik4138/Resume-enhancer/internal/types"
)

// StoredTextRunes caps the raw and cleaned text kept in parsed_data.
const StoredTextRunes = 5000

// Parser turns PENDING resume versions into parsed documents.
type Parser struct {
	store    Store
	objects  storage.ObjectStore
	pipeline *nlp.Pipeline
	rules    formatting.Rules
	logger   *slog.Logger
}

// NewParser creates a parser. A nil pipeline uses the default skill pipeline.
func NewParser(store Store, objects storage.ObjectStore, pipeline *nlp.Pipeline, logger *slog.Logger) *Parser {
	if pipeline == nil {
		pipeline = nlp.NewDefaultPipeline()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{
		store:    store,
		objects:  objects,
		pipeline: pipeline,
		rules:    formatting.DefaultRules(),
		logger:   logger,
	}
}

// Handle parses one queued version. Versions that are gone or no longer
// PENDING are skipped. Parse failures mark the version FAILED.
func (p *Parser) Handle(ctx context.Context, job queue.ParseJob) error {
	version, err := p.store.GetResumeVersion(ctx, job.ResumeVersionID)
	if err != nil {
		return err
	}
	if version == nil || version.Status != types.StatusPending {
		p.logger.InfoContext(ctx, "skipping parse job", "resume_version_id", job.ResumeVersionID)
		return nil
	}

	status := types.StatusParsed
	parsed, parseErr := p.parse(ctx, version.StorageKey, version.FileName)
	var data []byte
	if parseErr != nil {
		status = types.StatusFailed
		data = failedDocument(parseErr.Error())
	} else {
		data, err = json.Marshal(parsed)
		if err != nil {
			return fmt.Errorf("failed to encode parsed resume: %w", err)
		}
	}

	if err := p.store.UpdateResumeVersionStatus(ctx, version.ID, status, data); err != nil {
		return err
	}
	if parseErr != nil {
		return fmt.Errorf("failed to parse resume version %s: %w", version.ID, parseErr)
	}
	p.logger.InfoContext(ctx, "resume parsed",
		"resume_version_id", version.ID,
		"skills", len(parsed.Skills),
		"missing_sections", len(parsed.MissingSections))
	return nil
}

func (p *Parser) parse(ctx context.Context, storageKey, fileName string) (*types.ParsedResume, error) {
	body, err := p.objects.Open(ctx, storageKey)
	if err != nil {
		return nil, fmt.Errorf("failed to open resume file: %w", err)
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("failed to read resume file: %w", err)
	}
	raw, err := ingestion.ExtractText(fileName, data)
	if err != nil {
		return nil, err
	}
	return p.Analyze(ctx, raw)
}

// Analyze builds the parsed document for extracted resume text. Formatting
// analysis and skill extraction run concurrently.
func (p *Parser) Analyze(ctx context.Context, raw string) (*types.ParsedResume, error) {
	cleaned := ingestion.CleanResumeText(raw)

	var (
		stats      types.FormattingStats
		violations []types.RuleViolation
		sections   types.SectionSet
		missing    []string
		skills     []types.Skill
	)

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		stats = formatting.Analyze(cleaned, p.rules)
		violations = formatting.EvaluateFormatting(stats, p.rules)
		return nil
	})
	g.Go(func() error {
		sections = ingestion.DetectSections(cleaned)
		missing = ingestion.MissingSections(sections, ingestion.RequiredSections)
		skills = p.pipeline.ExtractResumeSkills(cleaned, sections)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &types.ParsedResume{
		RawText:              ingestion.Truncate(raw, StoredTextRunes),
		CleanedText:          ingestion.Truncate(cleaned, StoredTextRunes),
		Formatting:           stats,
		FormattingViolations: append(violations, formatting.EvaluateSections(missing)...),
		SectionsDetected:     sections.Flags(),
		MissingSections:      missing,
		Skills:               skills,
	}, nil
}
