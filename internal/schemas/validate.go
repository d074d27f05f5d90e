// Package schemas checks structured language model output against embedded JSON Schemas.
package schemas

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed ats_analysis.schema.json
var atsAnalysisSchema string

//go:embed skill_candidates.schema.json
var skillCandidatesSchema string

var (
	compiledATSAnalysis     = compileOnce(atsAnalysisSchema)
	compiledSkillCandidates = compileOnce(skillCandidatesSchema)
)

func compileOnce(raw string) func() (*gojsonschema.Schema, error) {
	return sync.OnceValues(func() (*gojsonschema.Schema, error) {
		return gojsonschema.NewSchema(gojsonschema.NewStringLoader(raw))
	})
}

// ATSAnalysisSchema returns the raw JSON Schema for ATS analysis output.
func ATSAnalysisSchema() string {
	return atsAnalysisSchema
}

// FieldError is one schema violation.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError lists every violation found in a document.
type ValidationError struct {
	Errors []FieldError
}

func (ve *ValidationError) Error() string {
	parts := make([]string, len(ve.Errors))
	for i, fe := range ve.Errors {
		parts[i] = fe.Field + ": " + fe.Message
	}
	return "document does not match schema: " + strings.Join(parts, "; ")
}

// DocumentError is returned when the schema or the document cannot be parsed at all.
type DocumentError struct {
	Cause error
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("invalid JSON document: %v", e.Cause)
}

func (e *DocumentError) Unwrap() error {
	return e.Cause
}

// ValidateATSAnalysis checks language model output against the ATS analysis schema.
func ValidateATSAnalysis(doc string) error {
	schema, err := compiledATSAnalysis()
	if err != nil {
		return fmt.Errorf("failed to compile ATS analysis schema: %w", err)
	}
	return validate(schema, doc)
}

// ValidateSkillCandidates checks language model output against the skill candidate schema.
func ValidateSkillCandidates(doc string) error {
	schema, err := compiledSkillCandidates()
	if err != nil {
		return fmt.Errorf("failed to compile skill candidate schema: %w", err)
	}
	return validate(schema, doc)
}

// Validate checks doc against an ad hoc schema.
func Validate(schemaJSON, doc string) error {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schemaJSON))
	if err != nil {
		return &DocumentError{Cause: fmt.Errorf("schema: %w", err)}
	}
	return validate(schema, doc)
}

func validate(schema *gojsonschema.Schema, doc string) error {
	result, err := schema.Validate(gojsonschema.NewStringLoader(doc))
	if err != nil {
		return &DocumentError{Cause: err}
	}
	if result.Valid() {
		return nil
	}

	ve := &ValidationError{Errors: make([]FieldError, 0, len(result.Errors()))}
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		ve.Errors = append(ve.Errors, FieldError{Field: field, Message: desc.Description()})
	}
	return ve
}
