// Package types provides type definitions for structured data used throughout the resume enhancer.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Skill is a resume skill with its confidence and the signals that produced it.
type Skill struct {
	Name       string   `json:"name"`
	Confidence float64  `json:"confidence"`
	Source     []string `json:"source"`
}

// JDSkill is a job description skill. JD skills carry no source tags.
type JDSkill struct {
	Name       string  `json:"name"`
	Confidence float64 `json:"confidence"`
}

// Skill source tags
const (
	SourceSkills     = "skills"
	SourceExperience = "experience"
)
