package types

import "sort"

// Resume section names
const (
	SectionSkills         = "skills"
	SectionExperience     = "experience"
	SectionProjects       = "projects"
	SectionEducation      = "education"
	SectionCertifications = "certifications"
)

// KnownSections lists every section the detector reports on, in display order.
var KnownSections = []string{
	SectionSkills,
	SectionExperience,
	SectionProjects,
	SectionEducation,
	SectionCertifications,
}

// SectionSet is the set of section names detected in a document.
type SectionSet map[string]struct{}

// NewSectionSet builds a set from names.
func NewSectionSet(names ...string) SectionSet {
	s := make(SectionSet, len(names))
	for _, n := range names {
		s[n] = struct{}{}
	}
	return s
}

// Has reports whether name is in the set.
func (s SectionSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

// Names returns the members in sorted order.
func (s SectionSet) Names() []string {
	names := make([]string, 0, len(s))
	for n := range s {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Flags returns a presence flag for every known section.
func (s SectionSet) Flags() map[string]bool {
	flags := make(map[string]bool, len(KnownSections))
	for _, n := range KnownSections {
		flags[n] = s.Has(n)
	}
	return flags
}
