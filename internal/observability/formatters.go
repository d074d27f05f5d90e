// Package observability provides human-readable summaries for the offline CLI commands.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/Kartik4138/Resume-enhancer/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 8
)

// Printer handles formatted output for text mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		if utf8.RuneCountInString(line) > boxWidth-4 {
			line = string([]rune(line)[:boxWidth-7]) + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintParsedResume outputs sections, formatting findings and top skills of a parsed resume.
func (p *Printer) PrintParsedResume(parsed *types.ParsedResume) {
	if parsed == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString("Sections:\n")
	for _, name := range sectionOrder(parsed.SectionsDetected) {
		mark := "✗"
		if parsed.SectionsDetected[name] {
			mark = "✓"
		}
		fmt.Fprintf(&sb, "  %s %s\n", mark, name)
	}
	sb.WriteString("\n")

	f := parsed.Formatting
	fmt.Fprintf(&sb, "Lines: %d  Bullets: %d  Long paragraphs: %d\n",
		f.TotalLines, f.BulletCount, f.LongParagraphCount)
	if len(parsed.FormattingViolations) > 0 {
		sb.WriteString("Violations:\n")
		for _, v := range parsed.FormattingViolations {
			fmt.Fprintf(&sb, "  • %s (%s)\n", v.RuleKey, v.Severity)
		}
	}
	sb.WriteString("\n")

	fmt.Fprintf(&sb, "Skills found: %d\n", len(parsed.Skills))
	count := min(len(parsed.Skills), maxItemsToShow)
	for _, s := range parsed.Skills[:count] {
		fmt.Fprintf(&sb, "  • %-30s %.2f\n", s.Name, s.Confidence)
	}
	if len(parsed.Skills) > maxItemsToShow {
		fmt.Fprintf(&sb, "  ... and %d more\n", len(parsed.Skills)-maxItemsToShow)
	}

	p.printBox("PARSED RESUME", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintJDAnalysis outputs the skills extracted from a job description.
func (p *Printer) PrintJDAnalysis(analysis *types.JDAnalysis) {
	if analysis == nil {
		return
	}

	var sb strings.Builder
	if len(analysis.Skills) == 0 {
		sb.WriteString("No skills found")
	} else {
		fmt.Fprintf(&sb, "Skills found: %d\n", len(analysis.Skills))
	}
	count := min(len(analysis.Skills), maxItemsToShow)
	for _, s := range analysis.Skills[:count] {
		fmt.Fprintf(&sb, "  • %-30s %.2f\n", s.Name, s.Confidence)
	}
	if len(analysis.Skills) > maxItemsToShow {
		fmt.Fprintf(&sb, "  ... and %d more\n", len(analysis.Skills)-maxItemsToShow)
	}

	p.printBox("JOB DESCRIPTION SKILLS", strings.TrimSuffix(sb.String(), "\n"))
}

// sectionOrder lists the reported section names in display order.
func sectionOrder(flags map[string]bool) []string {
	out := make([]string, 0, len(flags))
	for _, name := range types.KnownSections {
		if _, ok := flags[name]; ok {
			out = append(out, name)
		}
	}
	return out
}
