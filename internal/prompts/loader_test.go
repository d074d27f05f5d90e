package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		key      string
		wantErr  string
		contains []string
	}{
		{name: "ats analysis", file: ATSFile, key: ATSAnalysisKey, contains: []string{"{{.ResumeText}}", "{{.JobText}}"}},
		{name: "unknown file", file: "missing.json", key: ATSAnalysisKey, wantErr: "failed to read prompt file"},
		{name: "unknown key", file: ATSFile, key: "summary", wantErr: "not found"},
		{name: "skill candidates", file: SkillsFile, key: SkillCandidatesKey, contains: []string{"{{.Text}}"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prompt, err := Get(tt.file, tt.key)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			for _, want := range tt.contains {
				assert.Contains(t, prompt, want)
			}
		})
	}
}

func TestGet_ReturnsSamePromptTwice(t *testing.T) {
	first, err := Get(ATSFile, ATSAnalysisKey)
	require.NoError(t, err)
	second, err := Get(ATSFile, ATSAnalysisKey)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestMustGet(t *testing.T) {
	assert.NotEmpty(t, MustGet(ATSFile, ATSAnalysisKey))
	assert.Panics(t, func() { MustGet("missing.json", ATSAnalysisKey) })
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		template string
		data     map[string]string
		want     string
	}{
		{"replaces every key", "{{.ResumeText}} vs {{.JobText}}", map[string]string{KeyResumeText: "r", KeyJobText: "j"}, "r vs j"},
		{"repeated placeholder", "{{.X}}{{.X}}", map[string]string{"X": "ab"}, "abab"},
		{"unknown placeholders stay", "keep {{.Other}}", map[string]string{"X": "y"}, "keep {{.Other}}"},
		{"nil data", "keep {{.X}}", nil, "keep {{.X}}"},
		{"values are not expanded", "{{.A}} / {{.B}}", map[string]string{"A": "{{.B}}", "B": "x"}, "{{.B}} / x"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.template, tt.data))
		})
	}
}

func TestATSAnalysis(t *testing.T) {
	prompt, err := ATSAnalysis("resume body", "job body")
	require.NoError(t, err)

	assert.Contains(t, prompt, "Resume:\nresume body")
	assert.Contains(t, prompt, "Job Description:\njob body")
	assert.NotContains(t, prompt, "{{.")
	assert.Contains(t, prompt, `"match_percent"`)
}

func TestSkillCandidates(t *testing.T) {
	prompt, err := SkillCandidates("Go, PostgreSQL and Kubernetes")
	require.NoError(t, err)

	assert.Contains(t, prompt, "Text:\nGo, PostgreSQL and Kubernetes")
	assert.NotContains(t, prompt, "{{.")
	assert.Contains(t, prompt, `"skills": [string]`)
}
