// Package ingestion extracts and cleans text from uploaded resumes and pasted job descriptions.
package ingestion

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	multiSpacePattern      = regexp.MustCompile(`[ \t\f\v]+`)
	excessBlankLinePattern = regexp.MustCompile(`\n\n\n+`)
)

// foldText applies NFKC so ligatures and full-width forms from PDF extraction
// become plain letters, and drops control characters other than line breaks and tabs.
func foldText(s string) string {
	t := transform.Chain(
		norm.NFKC,
		runes.Remove(runes.Predicate(func(r rune) bool {
			return unicode.IsControl(r) && r != '\n' && r != '\t'
		})),
	)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// normalizeLineEndings converts CRLF and CR to LF.
func normalizeLineEndings(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\r", "\n")
}

// CleanResumeText prepares extracted resume text for analysis: Unicode folding,
// one trimmed non-blank line per source line, "•" bullets rewritten as "-",
// lowercased. Line breaks are kept so formatting analysis can see them.
func CleanResumeText(text string) string {
	text = foldText(normalizeLineEndings(text))

	lines := strings.Split(text, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		line = strings.ReplaceAll(line, "•", "-")
		kept = append(kept, multiSpacePattern.ReplaceAllString(line, " "))
	}
	return strings.ToLower(strings.Join(kept, "\n"))
}

// CleanJobText prepares a pasted job description. HTML is reduced to text,
// runs of spaces collapse, and at most one blank line separates blocks.
// Case is preserved because skill extraction relies on capitalization.
func CleanJobText(content string) string {
	if LooksLikeHTML(content) {
		if text, err := HTMLToText(content); err == nil {
			content = text
		}
	}
	content = foldText(normalizeLineEndings(content))

	lines := strings.Split(content, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(multiSpacePattern.ReplaceAllString(line, " "))
	}
	result := excessBlankLinePattern.ReplaceAllString(strings.Join(lines, "\n"), "\n\n")
	return strings.TrimSpace(result)
}

// Truncate returns at most n runes of s.
func Truncate(s string, n int) string {
	if n < 0 {
		return ""
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}
