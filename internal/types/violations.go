package types

// Severity is the tier of a rule violation.
type Severity string

// Severity levels
const (
	SeverityLow    Severity = "LOW"
	SeverityMedium Severity = "MEDIUM"
	SeverityHigh   Severity = "HIGH"
)

// RuleViolation represents a single structural defect found in a resume.
type RuleViolation struct {
	RuleKey  string         `json:"rule_key"`
	Severity Severity       `json:"severity"`
	Data     map[string]any `json:"data"`
}

// FormattingStats summarizes the line structure of a document.
type FormattingStats struct {
	TotalLines         int  `json:"total_lines"`
	BulletCount        int  `json:"bullet_count"`
	ParagraphCount     int  `json:"paragraph_count"`
	LongParagraphCount int  `json:"long_paragraph_count"`
	UsesBullets        bool `json:"uses_bullets"`
}
