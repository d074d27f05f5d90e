package llm

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kartik4138/Resume-enhancer/internal/schemas"
)

const sampleAnalysis = `{
  "skills": {"match_percent": 80, "matched": ["go", "sql"], "missing": ["kafka"], "weak": []},
  "experience": {"relevance_score": 70, "experience_suggestion": ["add metrics"]},
  "keywords": {"matched": ["api"], "weak": ["cloud"], "missing": []},
  "formatting": {"score": 90, "feedback": []},
  "sections": {"skills": true, "experience": true, "projects": false, "education": true, "certifications": false},
  "suggestions": ["quantify achievements"]
}`

type fakeClient struct {
	responses []string
	errs      []error
	prompts   []string
	tiers     []ModelTier
}

func (f *fakeClient) GenerateJSON(_ context.Context, prompt string, tier ModelTier) (string, error) {
	i := len(f.prompts)
	f.prompts = append(f.prompts, prompt)
	f.tiers = append(f.tiers, tier)
	var err error
	if i < len(f.errs) {
		err = f.errs[i]
	}
	resp := ""
	if i < len(f.responses) {
		resp = f.responses[i]
	}
	return resp, err
}

func (f *fakeClient) Close() error { return nil }

func noBackoff() AnalyzerOption {
	return WithRetryPolicy(RetryPolicy{Attempts: 3})
}

func TestAnalyzer_Analyze(t *testing.T) {
	client := &fakeClient{responses: []string{"```json\n" + sampleAnalysis + "\n```"}}
	a := NewAnalyzer(client, noBackoff())

	got, err := a.Analyze(context.Background(), "resume text", "job text")
	require.NoError(t, err)

	assert.Equal(t, 80.0, got.Skills.MatchPercent)
	assert.Equal(t, []string{"go", "sql"}, got.Skills.Matched)
	assert.Equal(t, []string{}, got.Skills.Weak)
	assert.True(t, got.Sections["skills"])
	assert.Equal(t, []string{"quantify achievements"}, got.Suggestions)

	require.Len(t, client.prompts, 1)
	assert.Contains(t, client.prompts[0], "resume text")
	assert.Contains(t, client.prompts[0], "job text")
	assert.Equal(t, TierStandard, client.tiers[0])
}

func TestAnalyzer_TruncatesInputs(t *testing.T) {
	client := &fakeClient{responses: []string{sampleAnalysis}}
	a := NewAnalyzer(client, noBackoff(), WithMaxInputRunes(10))

	_, err := a.Analyze(context.Background(), strings.Repeat("r", 50), strings.Repeat("j", 50))
	require.NoError(t, err)

	assert.Contains(t, client.prompts[0], strings.Repeat("r", 10))
	assert.NotContains(t, client.prompts[0], strings.Repeat("r", 11))
	assert.NotContains(t, client.prompts[0], strings.Repeat("j", 11))
}

func TestAnalyzer_RetriesTransientFailures(t *testing.T) {
	client := &fakeClient{
		errs:      []error{errors.New("503"), nil, nil},
		responses: []string{"", "not json at all", sampleAnalysis},
	}
	a := NewAnalyzer(client, noBackoff())

	got, err := a.Analyze(context.Background(), "r", "j")
	require.NoError(t, err)
	assert.Equal(t, 70.0, got.Experience.RelevanceScore)
	assert.Len(t, client.prompts, 3)
}

func TestAnalyzer_GivesUp(t *testing.T) {
	client := &fakeClient{responses: []string{"nope", "nope", "nope"}}
	a := NewAnalyzer(client, noBackoff())

	_, err := a.Analyze(context.Background(), "r", "j")
	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.ErrorIs(t, err, ErrNoJSONObject)
	assert.Equal(t, "nope", parseErr.Raw)
	assert.Len(t, client.prompts, 3)
}

func TestParseAnalysis_SchemaViolation(t *testing.T) {
	_, err := ParseAnalysis(`{"skills": {"match_percent": 50}}`)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)

	var schemaErr *schemas.ValidationError
	require.ErrorAs(t, err, &schemaErr)
	assert.NotEmpty(t, schemaErr.Errors)
	assert.Contains(t, err.Error(), "document does not match schema")
}

func TestParseAnalysis_TrailingMarker(t *testing.T) {
	got, err := ParseAnalysis("Sure!\n" + sampleAnalysis + "\nEND_OF_JSON")
	require.NoError(t, err)
	assert.Equal(t, 90.0, got.Formatting.Score)
	assert.Equal(t, []string{}, got.Formatting.Feedback)
}
