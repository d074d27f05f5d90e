package nlp

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Kartik4138/Resume-enhancer/internal/types"
)

// Pipeline runs extraction, normalization and scoring for resumes and job descriptions.
// A Pipeline is immutable and safe for concurrent use.
type Pipeline struct {
	extractor PhraseExtractor
	cfg       Config
}

// NewPipeline creates a pipeline. The extractor is required and cfg must validate.
func NewPipeline(extractor PhraseExtractor, cfg Config) (*Pipeline, error) {
	if extractor == nil {
		return nil, fmt.Errorf("%w: phrase extractor is nil", ErrInvalidArgument)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Stopwords == nil {
		cfg.Stopwords = DefaultStopwords()
	}
	return &Pipeline{extractor: extractor, cfg: cfg}, nil
}

// NewDefaultPipeline creates a pipeline with the rule based extractor and default weights.
func NewDefaultPipeline() *Pipeline {
	return &Pipeline{extractor: NewRuleExtractor(), cfg: DefaultConfig()}
}

// Config returns the pipeline configuration.
func (p *Pipeline) Config() Config {
	return p.cfg
}

// candidates extracts, normalizes and filters candidates, in sorted order without duplicates.
func (p *Pipeline) candidates(text string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, raw := range p.extractor.Extract(text).Sorted() {
		name := Normalize(raw)
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		if !IsValidCandidate(name, p.cfg.Stopwords) {
			continue
		}
		out = append(out, name)
	}
	return out
}

// ExtractResumeSkills returns the resume skills scoring at or above the cutoff,
// ordered by confidence descending, then name.
func (p *Pipeline) ExtractResumeSkills(text string, sections types.SectionSet) []types.Skill {
	skills := make([]types.Skill, 0)
	for _, name := range p.candidates(text) {
		scored := ScoreSkill(name, text, sections, p.cfg)
		if scored.Confidence < p.cfg.MinConfidence {
			continue
		}
		skills = append(skills, scored)
	}
	sort.SliceStable(skills, func(i, j int) bool {
		if skills[i].Confidence != skills[j].Confidence {
			return skills[i].Confidence > skills[j].Confidence
		}
		return skills[i].Name < skills[j].Name
	})
	return skills
}

// scoreJDSkill scores one normalized skill against lowercased JD text.
func (p *Pipeline) scoreJDSkill(name, lowered string) float64 {
	confidence := p.cfg.JDBase
	if CountWholeWord(lowered, name) >= p.cfg.JDFrequencyMinimum {
		confidence += p.cfg.JDFrequencyBonus
	}
	if IsRequiredSkill(lowered, name, p.cfg.RequiredKeywords, p.cfg.RequiredWindow) {
		confidence += p.cfg.JDRequiredBonus
	}
	return clampRound(confidence)
}

// ExtractJDSkills returns the job description skills scoring at or above the cutoff.
// Each name appears once with the highest confidence seen for it.
func (p *Pipeline) ExtractJDSkills(text string) []types.JDSkill {
	lowered := strings.ToLower(text)

	var scored []types.JDSkill
	for _, raw := range p.extractor.Extract(text).Sorted() {
		name := Normalize(raw)
		if !IsValidCandidate(name, p.cfg.Stopwords) {
			continue
		}
		confidence := p.scoreJDSkill(name, lowered)
		if confidence < p.cfg.MinConfidence {
			continue
		}
		scored = append(scored, types.JDSkill{Name: name, Confidence: confidence})
	}
	return mergeJDSkills(scored)
}

// mergeJDSkills keeps one entry per name with the maximum confidence,
// ordered by confidence descending, then name.
func mergeJDSkills(skills []types.JDSkill) []types.JDSkill {
	best := make(map[string]float64, len(skills))
	for _, s := range skills {
		if prev, ok := best[s.Name]; !ok || s.Confidence > prev {
			best[s.Name] = s.Confidence
		}
	}

	out := make([]types.JDSkill, 0, len(best))
	for name, confidence := range best {
		out = append(out, types.JDSkill{Name: name, Confidence: confidence})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Confidence != out[j].Confidence {
			return out[i].Confidence > out[j].Confidence
		}
		return out[i].Name < out[j].Name
	})
	return out
}
