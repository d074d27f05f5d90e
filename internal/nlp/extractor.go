package nlp

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// CandidateSet is a set of lowercase, trimmed candidate phrases.
type CandidateSet map[string]struct{}

// NewCandidateSet builds a set from phrases, lowercasing and trimming each.
// Empty phrases are dropped.
func NewCandidateSet(phrases ...string) CandidateSet {
	s := make(CandidateSet, len(phrases))
	for _, p := range phrases {
		s.Add(p)
	}
	return s
}

// Add inserts a phrase after lowercasing and trimming it.
func (s CandidateSet) Add(phrase string) {
	phrase = strings.TrimSpace(strings.ToLower(phrase))
	if phrase == "" {
		return
	}
	s[phrase] = struct{}{}
}

// Sorted returns the members in lexical order.
func (s CandidateSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for p := range s {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// PhraseExtractor proposes skill candidates from free text.
type PhraseExtractor interface {
	Extract(text string) CandidateSet
}

// ExtractorFunc adapts a function to PhraseExtractor.
type ExtractorFunc func(text string) CandidateSet

// Extract calls f(text).
func (f ExtractorFunc) Extract(text string) CandidateSet {
	return f(text)
}

// StaticExtractor returns the same candidates for every input.
type StaticExtractor []string

// Extract returns the fixed candidates.
func (s StaticExtractor) Extract(string) CandidateSet {
	return NewCandidateSet(s...)
}

// maxPhraseWords bounds noun-phrase-like spans.
const maxPhraseWords = 3

// functionWords split content-word runs. They never start, end or sit inside a phrase.
var functionWords = map[string]struct{}{
	"a": {}, "an": {}, "the": {}, "and": {}, "or": {}, "but": {}, "nor": {},
	"of": {}, "in": {}, "on": {}, "at": {}, "to": {}, "for": {}, "with": {},
	"by": {}, "from": {}, "into": {}, "over": {}, "under": {}, "via": {},
	"as": {}, "about": {}, "across": {}, "within": {}, "without": {}, "per": {},
	"is": {}, "are": {}, "was": {}, "were": {}, "be": {}, "been": {}, "being": {},
	"am": {}, "has": {}, "have": {}, "had": {}, "do": {}, "does": {}, "did": {},
	"will": {}, "would": {}, "can": {}, "could": {}, "should": {}, "may": {},
	"might": {}, "must": {}, "shall": {},
	"i": {}, "we": {}, "you": {}, "he": {}, "she": {}, "they": {}, "it": {},
	"my": {}, "our": {}, "your": {}, "their": {}, "its": {}, "me": {}, "us": {},
	"this": {}, "that": {}, "these": {}, "those": {}, "which": {}, "who": {},
	"whom": {}, "whose": {}, "what": {}, "where": {}, "when": {}, "while": {},
	"if": {}, "then": {}, "than": {}, "so": {}, "such": {}, "not": {}, "no": {},
	"all": {}, "any": {}, "each": {}, "every": {}, "some": {}, "more": {},
	"most": {}, "other": {}, "also": {}, "very": {}, "etc": {}, "e.g": {}, "i.e": {},
	"using": {}, "used": {}, "use": {}, "including": {}, "include": {},
	"includes": {}, "like": {}, "well": {}, "strong": {}, "good": {},
	"excellent": {}, "years": {}, "year": {}, "plus": {},
	"developed": {}, "built": {}, "led": {}, "managed": {}, "designed": {},
	"implemented": {}, "worked": {}, "created": {}, "improved": {},
	"responsible": {}, "experience": {}, "knowledge": {}, "ability": {},
	"familiarity": {}, "proficiency": {}, "understanding": {}, "required": {},
	"requirement": {}, "requirements": {}, "mandatory": {}, "preferred": {},
}

// clauseBreakers end a clause; phrases never span them.
const clauseBreakers = ",;:!?()[]{}|/\\\"<>•▪●\n\r\t"

// token is a word with its position in the source text.
type token struct {
	text        string
	clauseStart bool
}

// RuleExtractor is a model-free extractor built on word runs and capitalisation.
//
// Noun-phrase-like spans are every 1-3 word sub-span of a run of content words
// inside one clause. Entity-like spans are maximal runs of tokens that look like
// product, organisation or language names: mixed case, acronyms, title case away
// from the clause start, or containing symbols such as "+", "#" and ".".
type RuleExtractor struct{}

// NewRuleExtractor creates a rule based extractor.
func NewRuleExtractor() *RuleExtractor {
	return &RuleExtractor{}
}

// Extract returns the candidate phrases found in text.
func (e *RuleExtractor) Extract(text string) CandidateSet {
	out := make(CandidateSet)
	for _, clause := range splitClauses(text) {
		tokens := tokenize(clause)
		addNounPhrases(out, tokens)
		addEntities(out, tokens)
	}
	return out
}

// splitClauses cuts text at clause punctuation and at sentence-ending periods.
func splitClauses(text string) []string {
	var clauses []string
	var sb strings.Builder
	runes := []rune(text)
	for i, r := range runes {
		if strings.ContainsRune(clauseBreakers, r) {
			clauses = append(clauses, sb.String())
			sb.Reset()
			continue
		}
		// A period ends a sentence unless it sits inside a token like "node.js" or "3.5".
		if r == '.' {
			next := rune(0)
			if i+1 < len(runes) {
				next = runes[i+1]
			}
			if next == 0 || unicode.IsSpace(next) {
				clauses = append(clauses, sb.String())
				sb.Reset()
				continue
			}
		}
		sb.WriteRune(r)
	}
	clauses = append(clauses, sb.String())
	return clauses
}

// tokenize splits a clause on whitespace and trims decorative punctuation.
func tokenize(clause string) []token {
	fields := strings.Fields(clause)
	tokens := make([]token, 0, len(fields))
	for i, f := range fields {
		f = strings.TrimLeft(f, "-*'`.~")
		f = strings.TrimRight(f, "-*'`.~")
		if f == "" {
			continue
		}
		tokens = append(tokens, token{text: f, clauseStart: i == 0})
	}
	return tokens
}

func isFunctionWord(word string) bool {
	_, ok := functionWords[strings.ToLower(word)]
	return ok
}

func isNumeric(word string) bool {
	for _, r := range word {
		if !unicode.IsDigit(r) && r != '.' && r != '%' && r != ',' {
			return false
		}
	}
	return true
}

func addNounPhrases(out CandidateSet, tokens []token) {
	var run []string
	flush := func() {
		for i := range run {
			for n := 1; n <= maxPhraseWords && i+n <= len(run); n++ {
				out.Add(strings.Join(run[i:i+n], " "))
			}
		}
		run = run[:0]
	}
	for _, t := range tokens {
		if isFunctionWord(t.text) || isNumeric(t.text) {
			flush()
			continue
		}
		run = append(run, t.text)
	}
	flush()
}

func addEntities(out CandidateSet, tokens []token) {
	var run []string
	flush := func() {
		if len(run) > 0 {
			out.Add(strings.Join(run, " "))
		}
		run = run[:0]
	}
	for _, t := range tokens {
		if isEntityLike(t) {
			run = append(run, t.text)
			continue
		}
		flush()
	}
	flush()
}

// isEntityLike reports whether a token looks like a product, organisation or language name.
func isEntityLike(t token) bool {
	word := t.text
	if isFunctionWord(word) || isNumeric(word) {
		return false
	}
	if strings.ContainsAny(word, "+#") {
		return true
	}
	// Dotted names such as "node.js" or "asp.net"
	if i := strings.Index(word, "."); i > 0 && i < len(word)-1 {
		return true
	}

	upper, lower, letters := 0, 0, 0
	for _, r := range word {
		if unicode.IsLetter(r) {
			letters++
			if unicode.IsUpper(r) {
				upper++
			} else if unicode.IsLower(r) {
				lower++
			}
		}
	}
	if letters == 0 {
		return false
	}
	// Acronyms: AWS, SQL, GCP
	if upper == letters && letters >= 2 {
		return true
	}
	first, _ := utf8.DecodeRuneInString(word)
	// Mixed case past the first letter: JavaScript, PostgreSQL, iOS
	if upper > 0 && lower > 0 && (upper > 1 || !unicode.IsUpper(first)) {
		return true
	}
	// Title case counts only away from the start of a clause.
	return unicode.IsUpper(first) && !t.clauseStart
}
