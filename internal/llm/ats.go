package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Kartik4138/Resume-enhancer/internal/prompts"
	"github.com/Kartik4138/Resume-enhancer/internal/schemas"
	"github.com/Kartik4138/Resume-enhancer/internal/types"
)

// ErrNoJSONObject is returned when model output contains no JSON object.
var ErrNoJSONObject = errors.New("no JSON object found in model output")

// ParseError reports model output that did not decode into the expected document.
type ParseError struct {
	Raw   string
	Cause error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("invalid model output: %v", e.Cause)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// Analyzer runs the ATS analysis prompt against a language model.
type Analyzer struct {
	client        Client
	tier          ModelTier
	maxInputRunes int
	retry         RetryPolicy
	debug         *slog.Logger
}

// AnalyzerOption configures an Analyzer.
type AnalyzerOption func(*Analyzer)

// WithTier selects the model tier.
func WithTier(tier ModelTier) AnalyzerOption {
	return func(a *Analyzer) { a.tier = tier }
}

// WithMaxInputRunes bounds the resume and job text sent to the model.
func WithMaxInputRunes(n int) AnalyzerOption {
	return func(a *Analyzer) { a.maxInputRunes = n }
}

// WithRetryPolicy overrides the retry policy.
func WithRetryPolicy(p RetryPolicy) AnalyzerOption {
	return func(a *Analyzer) { a.retry = p }
}

// WithDebugLogger sets the logger that receives raw model output.
func WithDebugLogger(l *slog.Logger) AnalyzerOption {
	return func(a *Analyzer) { a.debug = l }
}

// NewAnalyzer creates an Analyzer backed by client.
func NewAnalyzer(client Client, opts ...AnalyzerOption) *Analyzer {
	a := &Analyzer{
		client:        client,
		tier:          TierStandard,
		maxInputRunes: DefaultMaxInputRunes,
		retry:         DefaultRetryPolicy(),
		debug:         slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze compares resume text with a job description and returns the validated analysis.
func (a *Analyzer) Analyze(ctx context.Context, resumeText, jobText string) (*types.ATSAnalysis, error) {
	prompt, err := prompts.ATSAnalysis(
		truncateRunes(resumeText, a.maxInputRunes),
		truncateRunes(jobText, a.maxInputRunes),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build prompt: %w", err)
	}

	return Retry(ctx, a.retry, func(ctx context.Context) (*types.ATSAnalysis, error) {
		a.debug.InfoContext(ctx, "calling model for ATS analysis", "tier", a.tier)
		raw, err := a.client.GenerateJSON(ctx, prompt, a.tier)
		if err != nil {
			if ctx.Err() != nil {
				return nil, Permanent(err)
			}
			return nil, err
		}
		a.debug.InfoContext(ctx, "model raw output", "output", raw)

		analysis, err := ParseAnalysis(raw)
		if err != nil {
			a.debug.ErrorContext(ctx, "model output rejected", "error", err)
			return nil, err
		}
		return analysis, nil
	})
}

// ParseAnalysis extracts, validates and decodes an ATS analysis from raw model output.
func ParseAnalysis(raw string) (*types.ATSAnalysis, error) {
	doc := ExtractJSONObject(CleanJSONBlock(raw))
	if doc == "" {
		return nil, &ParseError{Raw: raw, Cause: ErrNoJSONObject}
	}

	if err := schemas.ValidateATSAnalysis(doc); err != nil {
		return nil, &ParseError{Raw: raw, Cause: err}
	}

	var analysis types.ATSAnalysis
	if err := json.Unmarshal([]byte(doc), &analysis); err != nil {
		return nil, &ParseError{Raw: raw, Cause: err}
	}
	fillEmpty(&analysis)
	return &analysis, nil
}

// fillEmpty replaces nil collections so responses encode [] and {} rather than null.
func fillEmpty(a *types.ATSAnalysis) {
	for _, s := range []*[]string{
		&a.Skills.Matched, &a.Skills.Missing, &a.Skills.Weak,
		&a.Experience.ExperienceSuggestion,
		&a.Keywords.Matched, &a.Keywords.Weak, &a.Keywords.Missing,
		&a.Formatting.Feedback,
		&a.Suggestions,
	} {
		if *s == nil {
			*s = []string{}
		}
	}
	if a.Sections == nil {
		a.Sections = map[string]bool{}
	}
}
