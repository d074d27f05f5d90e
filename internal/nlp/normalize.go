package nlp

import (
	"strings"
	"unicode"
)

// Normalize lowercases a candidate, strips every rune that is not a letter,
// digit or whitespace, and collapses whitespace runs to single spaces.
func Normalize(raw string) string {
	var sb strings.Builder
	sb.Grow(len(raw))
	pendingSpace := false
	for _, r := range strings.ToLower(raw) {
		switch {
		case unicode.IsSpace(r):
			pendingSpace = true
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if pendingSpace && sb.Len() > 0 {
				sb.WriteByte(' ')
			}
			pendingSpace = false
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

// IsValidCandidate reports whether a normalized candidate may become a skill.
// Single "-able" adjectives, stopword-only phrases and strings of two
// characters or fewer are rejected, in that order.
func IsValidCandidate(normalized string, stopwords map[string]struct{}) bool {
	words := strings.Fields(strings.ToLower(normalized))

	if len(words) == 1 && strings.HasSuffix(words[0], "able") {
		return false
	}

	allStop := true
	for _, w := range words {
		if _, ok := stopwords[w]; !ok {
			allStop = false
			break
		}
	}
	if allStop && len(words) > 0 {
		return false
	}

	return len([]rune(normalized)) > 2
}
