// Package formatting analyzes the line structure of resume text and evaluates it against layout rules.
package formatting

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/Kartik4138/Resume-enhancer/internal/types"
)

// bulletMarkers are the glyphs that open a bullet line.
var bulletMarkers = []string{"-", "•", "*", "▪", "●"}

// numberedBulletPattern matches "1. " or "2) " list markers.
var numberedBulletPattern = regexp.MustCompile(`^\d+[.)]\s+`)

// IsBulletLine reports whether a line, after left-trimming, starts with a bullet marker.
func IsBulletLine(line string) bool {
	stripped := strings.TrimLeftFunc(line, unicode.IsSpace)
	for _, m := range bulletMarkers {
		if strings.HasPrefix(stripped, m) {
			return true
		}
	}
	return numberedBulletPattern.MatchString(stripped)
}

// Analyze computes formatting statistics for text. Blank lines are ignored and
// paragraph lines longer than rules.LongParagraphChars count as long paragraphs.
func Analyze(text string, rules Rules) types.FormattingStats {
	var stats types.FormattingStats
	for _, raw := range strings.Split(text, "\n") {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		line := strings.TrimRightFunc(raw, unicode.IsSpace)
		stats.TotalLines++

		if IsBulletLine(line) {
			stats.BulletCount++
			continue
		}
		stats.ParagraphCount++
		if utf8.RuneCountInString(line) > rules.LongParagraphChars {
			stats.LongParagraphCount++
		}
	}
	stats.UsesBullets = stats.BulletCount > 0
	return stats
}
