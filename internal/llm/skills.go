package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Kartik4138/Resume-enhancer/internal/nlp"
	"github.com/Kartik4138/Resume-enhancer/internal/prompts"
	"github.com/Kartik4138/Resume-enhancer/internal/schemas"
)

// DefaultExtractTimeout bounds one skill extraction, retries included.
const DefaultExtractTimeout = 30 * time.Second

// SkillExtractorOptions tunes a SkillExtractor. Zero values take the defaults.
type SkillExtractorOptions struct {
	Tier          ModelTier
	Timeout       time.Duration
	MaxInputRunes int
	Retry         RetryPolicy
	Logger        *slog.Logger
}

// SkillExtractor is an nlp.PhraseExtractor that asks the model to list the
// skills named in a text. When the call fails or the answer is rejected, the
// fallback extractor is used instead.
type SkillExtractor struct {
	client   Client
	fallback nlp.PhraseExtractor
	opts     SkillExtractorOptions
}

// NewSkillExtractor creates a model backed extractor. A nil fallback yields
// no candidates when the model cannot answer.
func NewSkillExtractor(client Client, fallback nlp.PhraseExtractor, opts SkillExtractorOptions) *SkillExtractor {
	if opts.Tier == "" {
		opts.Tier = TierLite
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultExtractTimeout
	}
	if opts.MaxInputRunes <= 0 {
		opts.MaxInputRunes = DefaultMaxInputRunes
	}
	if opts.Retry.Attempts <= 0 {
		opts.Retry = DefaultRetryPolicy()
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	return &SkillExtractor{client: client, fallback: fallback, opts: opts}
}

// Extract returns the model's candidates for text.
func (e *SkillExtractor) Extract(text string) nlp.CandidateSet {
	if strings.TrimSpace(text) == "" {
		return nlp.NewCandidateSet()
	}

	ctx, cancel := context.WithTimeout(context.Background(), e.opts.Timeout)
	defer cancel()

	names, err := e.generate(ctx, text)
	if err != nil {
		e.opts.Logger.Warn("model skill extraction failed, using fallback extractor", "error", err)
		if e.fallback == nil {
			return nlp.NewCandidateSet()
		}
		return e.fallback.Extract(text)
	}
	return nlp.NewCandidateSet(names...)
}

func (e *SkillExtractor) generate(ctx context.Context, text string) ([]string, error) {
	prompt, err := prompts.SkillCandidates(truncateRunes(text, e.opts.MaxInputRunes))
	if err != nil {
		return nil, fmt.Errorf("failed to build prompt: %w", err)
	}

	return Retry(ctx, e.opts.Retry, func(ctx context.Context) ([]string, error) {
		raw, err := e.client.GenerateJSON(ctx, prompt, e.opts.Tier)
		if err != nil {
			if ctx.Err() != nil {
				return nil, Permanent(err)
			}
			return nil, err
		}
		return ParseSkillCandidates(raw)
	})
}

// ParseSkillCandidates extracts and validates the skill list from raw model output.
func ParseSkillCandidates(raw string) ([]string, error) {
	doc := ExtractJSONObject(CleanJSONBlock(raw))
	if doc == "" {
		return nil, &ParseError{Raw: raw, Cause: ErrNoJSONObject}
	}
	if err := schemas.ValidateSkillCandidates(doc); err != nil {
		return nil, &ParseError{Raw: raw, Cause: err}
	}

	var out struct {
		Skills []string `json:"skills"`
	}
	if err := json.Unmarshal([]byte(doc), &out); err != nil {
		return nil, &ParseError{Raw: raw, Cause: err}
	}
	return out.Skills, nil
}
