// Package prompts loads the language model prompt templates embedded in the binary.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
)

//go:embed *.json
var promptFiles embed.FS

// ATS analysis prompt location and placeholders
const (
	ATSFile        = "ats.json"
	ATSAnalysisKey = "analysis"

	KeyResumeText = "ResumeText"
	KeyJobText    = "JobText"
)

// Skill candidate prompt location and placeholder
const (
	SkillsFile         = "skills.json"
	SkillCandidatesKey = "candidates"

	KeyText = "Text"
)

// files caches parsed prompt files by name.
var files sync.Map

// Get retrieves a prompt by filename and key, e.g. Get("ats.json", "analysis").
func Get(filename, key string) (string, error) {
	prompts, err := loadFile(filename)
	if err != nil {
		return "", err
	}

	prompt, ok := prompts[key]
	if !ok {
		return "", fmt.Errorf("prompt key %q not found in %s", key, filename)
	}
	return prompt, nil
}

// MustGet is Get for prompts required at startup. It panics when the prompt is missing.
func MustGet(filename, key string) string {
	prompt, err := Get(filename, key)
	if err != nil {
		panic(fmt.Sprintf("failed to load prompt: %v", err))
	}
	return prompt
}

// Format replaces {{.Key}} placeholders with values from data in a single pass,
// so substituted values are never themselves expanded.
func Format(template string, data map[string]string) string {
	if len(data) == 0 {
		return template
	}
	keys := make([]string, 0, len(data))
	for k := range data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, 2*len(keys))
	for _, k := range keys {
		pairs = append(pairs, "{{."+k+"}}", data[k])
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

// ATSAnalysis renders the ATS analysis prompt for a resume and job description.
func ATSAnalysis(resumeText, jobText string) (string, error) {
	template, err := Get(ATSFile, ATSAnalysisKey)
	if err != nil {
		return "", err
	}
	return Format(template, map[string]string{
		KeyResumeText: resumeText,
		KeyJobText:    jobText,
	}), nil
}

// SkillCandidates renders the prompt that asks the model to list the skills named in text.
func SkillCandidates(text string) (string, error) {
	template, err := Get(SkillsFile, SkillCandidatesKey)
	if err != nil {
		return "", err
	}
	return Format(template, map[string]string{KeyText: text}), nil
}

func loadFile(filename string) (map[string]string, error) {
	if cached, ok := files.Load(filename); ok {
		return cached.(map[string]string), nil
	}

	data, err := promptFiles.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt file %s: %w", filename, err)
	}

	var prompts map[string]string
	if err := json.Unmarshal(data, &prompts); err != nil {
		return nil, fmt.Errorf("failed to parse prompt file %s: %w", filename, err)
	}

	files.Store(filename, prompts)
	return prompts, nil
}
