package nlp

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// isWordRune reports whether r continues a word for whole-word matching.
// "+" and "#" count as word runes so that "c" never matches inside "c++" or "c#".
func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '+' || r == '#'
}

// wholeWordIndexes returns the byte offsets of non-overlapping whole-word
// occurrences of needle in text. The needle is matched literally.
func wholeWordIndexes(text, needle string) []int {
	if needle == "" {
		return nil
	}
	var out []int
	offset := 0
	for offset <= len(text)-len(needle) {
		i := strings.Index(text[offset:], needle)
		if i < 0 {
			break
		}
		start := offset + i
		end := start + len(needle)
		if boundaryBefore(text, start, needle) && boundaryAfter(text, end, needle) {
			out = append(out, start)
			offset = end
			continue
		}
		_, size := utf8.DecodeRuneInString(text[start:])
		offset = start + size
	}
	return out
}

// boundaryBefore checks the rune preceding a match. A needle that itself
// starts with a non-word rune needs no boundary on that side.
func boundaryBefore(text string, start int, needle string) bool {
	first, _ := utf8.DecodeRuneInString(needle)
	if !isWordRune(first) || start == 0 {
		return true
	}
	prev, _ := utf8.DecodeLastRuneInString(text[:start])
	return !isWordRune(prev)
}

func boundaryAfter(text string, end int, needle string) bool {
	last, _ := utf8.DecodeLastRuneInString(needle)
	if !isWordRune(last) || end >= len(text) {
		return true
	}
	next, _ := utf8.DecodeRuneInString(text[end:])
	return !isWordRune(next)
}

// CountWholeWord counts whole-word occurrences of skill in text.
func CountWholeWord(text, skill string) int {
	return len(wholeWordIndexes(text, skill))
}

// IsRequiredSkill reports whether a required keyword appears within window
// characters of the first whole-word occurrence of skill. The window is the
// half-open rune range [match-window, match+window), clamped to the text.
func IsRequiredSkill(text, skill string, keywords []string, window int) bool {
	idx := wholeWordIndexes(text, skill)
	if len(idx) == 0 {
		return false
	}
	snippet := runeWindow(text, idx[0], window)
	for _, k := range keywords {
		if strings.Contains(snippet, k) {
			return true
		}
	}
	return false
}

// runeWindow returns up to n runes before and n runes after the byte offset at.
func runeWindow(text string, at, n int) string {
	start := at
	for i := 0; i < n && start > 0; i++ {
		_, size := utf8.DecodeLastRuneInString(text[:start])
		start -= size
	}
	end := at
	for i := 0; i < n && end < len(text); i++ {
		_, size := utf8.DecodeRuneInString(text[end:])
		end += size
	}
	return text[start:end]
}
