package formatting

import (
	"fmt"

	"github.com/Kartik4138/Resume-enhancer/internal/types"
)

// Rule keys
const (
	RuleNoBullets        = "no_bullets"
	RuleLongParagraphs   = "long_paragraphs"
	RuleLowBulletDensity = "low_bullet_density"
)

// Rules holds the thresholds used by Analyze and EvaluateFormatting.
type Rules struct {
	// LongParagraphChars is the length above which a paragraph line is long.
	LongParagraphChars int
	// MaxLongParagraphs is the count of long paragraphs that triggers a violation.
	MaxLongParagraphs int
	// MinBullets is the bullet count below which density is too low.
	MinBullets int
}

// DefaultRules returns the standard thresholds.
func DefaultRules() Rules {
	return Rules{
		LongParagraphChars: 120,
		MaxLongParagraphs:  2,
		MinBullets:         5,
	}
}

// EvaluateFormatting checks stats against the formatting rules. Every rule is checked
// and violations are returned in rule order.
func EvaluateFormatting(stats types.FormattingStats, rules Rules) []types.RuleViolation {
	violations := make([]types.RuleViolation, 0, 3)

	if !stats.UsesBullets {
		violations = append(violations, types.RuleViolation{
			RuleKey:  RuleNoBullets,
			Severity: types.SeverityHigh,
			Data:     map[string]any{},
		})
	}

	if stats.LongParagraphCount >= rules.MaxLongParagraphs {
		violations = append(violations, types.RuleViolation{
			RuleKey:  RuleLongParagraphs,
			Severity: types.SeverityMedium,
			Data:     map[string]any{"count": stats.LongParagraphCount},
		})
	}

	if stats.BulletCount < rules.MinBullets {
		violations = append(violations, types.RuleViolation{
			RuleKey:  RuleLowBulletDensity,
			Severity: types.SeverityLow,
			Data:     map[string]any{"bullet_count": stats.BulletCount},
		})
	}

	return violations
}

// MissingSectionKey returns the rule key for a missing section.
func MissingSectionKey(section string) string {
	return fmt.Sprintf("missing_%s_section", section)
}

// EvaluateSections returns one HIGH violation per missing section, in input order.
func EvaluateSections(missing []string) []types.RuleViolation {
	violations := make([]types.RuleViolation, 0, len(missing))
	for _, s := range missing {
		violations = append(violations, types.RuleViolation{
			RuleKey:  MissingSectionKey(s),
			Severity: types.SeverityHigh,
			Data:     map[string]any{},
		})
	}
	return violations
}
