package ingestion

import (
	"strings"
	"unicode"

	"github.com/Kartik4138/Resume-enhancer/internal/types"
)

// RequiredSections are the sections every resume is expected to have.
var RequiredSections = []string{
	types.SectionSkills,
	types.SectionExperience,
	types.SectionEducation,
}

// maxHeadingWords bounds how long a heading line may be.
const maxHeadingWords = 4

// sectionHeadings maps normalized heading text to a section name.
var sectionHeadings = map[string]string{
	"skills":                      types.SectionSkills,
	"technical skills":            types.SectionSkills,
	"key skills":                  types.SectionSkills,
	"core skills":                 types.SectionSkills,
	"skills summary":              types.SectionSkills,
	"core competencies":           types.SectionSkills,
	"competencies":                types.SectionSkills,
	"technologies":                types.SectionSkills,
	"tech stack":                  types.SectionSkills,
	"experience":                  types.SectionExperience,
	"work experience":             types.SectionExperience,
	"professional experience":     types.SectionExperience,
	"relevant experience":         types.SectionExperience,
	"employment":                  types.SectionExperience,
	"employment history":          types.SectionExperience,
	"work history":                types.SectionExperience,
	"internships":                 types.SectionExperience,
	"projects":                    types.SectionProjects,
	"personal projects":           types.SectionProjects,
	"academic projects":           types.SectionProjects,
	"key projects":                types.SectionProjects,
	"education":                   types.SectionEducation,
	"academic background":         types.SectionEducation,
	"education and training":      types.SectionEducation,
	"academics":                   types.SectionEducation,
	"certifications":              types.SectionCertifications,
	"certification":               types.SectionCertifications,
	"certificates":                types.SectionCertifications,
	"licenses certifications":     types.SectionCertifications,
	"licenses and certifications": types.SectionCertifications,
}

// headingKey lowercases a line and keeps only its letter words.
func headingKey(line string) string {
	words := strings.FieldsFunc(strings.ToLower(line), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	if len(words) == 0 || len(words) > maxHeadingWords {
		return ""
	}
	return strings.Join(words, " ")
}

// DetectSections finds section headings in resume text. A heading is a short
// line naming a known section, optionally followed by a colon and inline content
// such as "Skills: Go, SQL".
func DetectSections(text string) types.SectionSet {
	found := types.NewSectionSet()
	for _, line := range strings.Split(normalizeLineEndings(text), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		candidates := []string{line}
		if head, _, ok := strings.Cut(line, ":"); ok {
			candidates = append(candidates, head)
		}
		for _, c := range candidates {
			if section, ok := sectionHeadings[headingKey(c)]; ok {
				found[section] = struct{}{}
				break
			}
		}
	}
	return found
}

// MissingSections returns the required sections absent from detected, in required order.
func MissingSections(detected types.SectionSet, required []string) []string {
	missing := make([]string, 0, len(required))
	for _, s := range required {
		if !detected.Has(s) {
			missing = append(missing, s)
		}
	}
	return missing
}
