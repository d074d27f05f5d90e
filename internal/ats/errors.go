package ats

import (
	"errors"
	"fmt"
)

var (
	// ErrNoParsedResume is returned when the user has no PARSED resume version.
	ErrNoParsedResume = errors.New("No parsed resume found.")
	// ErrNoJobDescription is returned when the user has no analyzed job description.
	ErrNoJobDescription = errors.New("No analyzed job description found.")
)

// AnalysisError wraps a failed language model analysis.
type AnalysisError struct {
	Err error
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("AI Analysis failed: %v", e.Err)
}

func (e *AnalysisError) Unwrap() error {
	return e.Err
}
