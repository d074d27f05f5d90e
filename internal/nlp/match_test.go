package nlp

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCountWholeWord(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		skill string
		want  int
	}{
		{"c does not match inside c++", "requires c++ and c experience", "c", 1},
		{"plus signs are literal", "c++ and c++ and c", "c++", 2},
		{"hash is literal", "c# and c", "c#", 1},
		{"dot is literal", "node.js and nodejs and nodexjs", "node.js", 1},
		{"prefix of a longer word", "java and javascript", "java", 1},
		{"underscore joins words", "go_lang and go", "go", 1},
		{"punctuation is a boundary", "(go), go.", "go", 2},
		{"multi word skill", "machine learning and machine learning ops", "machine learning", 2},
		{"unicode letters are word runes", "café and cafés", "café", 1},
		{"no match", "python", "ruby", 0},
		{"empty skill", "anything", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CountWholeWord(tt.text, tt.skill))
		})
	}
}

func TestIsRequiredSkill(t *testing.T) {
	keywords := DefaultConfig().RequiredKeywords

	tests := []struct {
		name string
		text string
		want bool
	}{
		{"keyword before", "kubernetes is required", true},
		{"keyword as substring", "the requirements list kubernetes", true},
		{"no keyword", "nice to have kubernetes experience", false},
		{"keyword outside window", "must " + pad(60) + "kubernetes", false},
		{"keyword inside window", "must" + pad(40) + "kubernetes", true},
		{"not present", "must know docker", false},
		// "must" starts exactly 50 characters before the match
		{"window start is inclusive", "must" + pad(46) + "kubernetes", true},
		{"one character past the start", "must" + pad(47) + "kubernetes", false},
		// the window ends 50 characters after the match start, exclusive
		{"keyword ends at the window end", "kubernetes" + pad(36) + "must", true},
		{"keyword crosses the window end", "kubernetes" + pad(37) + "must", false},
		{"multibyte runes count as one character", "required " + strings.Repeat("é", 40) + " kubernetes", true},
		{"multibyte runes past the start", "must " + strings.Repeat("•", 46) + "kubernetes", false},
		{"multibyte runes after the match", "kubernetes " + strings.Repeat("–", 35) + "must", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsRequiredSkill(tt.text, "kubernetes", keywords, 50))
		})
	}
}

func TestIsRequiredSkill_UsesFirstOccurrence(t *testing.T) {
	text := "kubernetes" + pad(100) + "kubernetes is mandatory"
	assert.False(t, IsRequiredSkill(text, "kubernetes", []string{"mandatory"}, 50))
}

func pad(n int) string {
	return strings.Repeat(" ", n)
}
