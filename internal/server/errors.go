package server

import (
	"errors"
	"net/http"

	"github.com/Kartik4138/Resume-enhancer/internal/ats"
	"github.com/Kartik4138/Resume-enhancer/internal/auth"
	"github.com/Kartik4138/Resume-enhancer/internal/jobs"
	"github.com/Kartik4138/Resume-enhancer/internal/resumes"
)

// msgInternal is shown for errors that carry no client-safe message.
const msgInternal = "Internal server error"

// ErrValidation represents a request that failed input validation.
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return "validation error: " + e.Field + " - " + e.Message
}

// HTTPStatus maps a service error to an HTTP status code.
func HTTPStatus(err error) int {
	var validation *ErrValidation
	var analysis *ats.AnalysisError
	var tooLarge *http.MaxBytesError

	switch {
	case err == nil:
		return http.StatusInternalServerError
	case errors.As(err, &validation):
		return http.StatusBadRequest
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, auth.ErrInvalidOTP),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenRevoked),
		errors.Is(err, auth.ErrWrongTokenType):
		return http.StatusUnauthorized
	case errors.Is(err, resumes.ErrUnsupportedFileType),
		errors.Is(err, resumes.ErrEmptyFile),
		errors.Is(err, jobs.ErrEmptyDescription):
		return http.StatusBadRequest
	case errors.Is(err, resumes.ErrNotFound),
		errors.Is(err, resumes.ErrFileMissing),
		errors.Is(err, ats.ErrNoParsedResume),
		errors.Is(err, ats.ErrNoJobDescription):
		return http.StatusNotFound
	case errors.As(err, &analysis):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// errorMessage returns the text safe to show the client for err.
func errorMessage(err error) string {
	var analysis *ats.AnalysisError
	if errors.As(err, &analysis) {
		return analysis.Error()
	}

	switch {
	case errors.Is(err, auth.ErrWrongTokenType):
		return auth.ErrInvalidToken.Error()
	case errors.Is(err, auth.ErrInvalidOTP):
		return auth.ErrInvalidOTP.Error()
	case errors.Is(err, auth.ErrInvalidToken):
		return auth.ErrInvalidToken.Error()
	case errors.Is(err, auth.ErrTokenRevoked):
		return auth.ErrTokenRevoked.Error()
	case errors.Is(err, resumes.ErrUnsupportedFileType):
		return "Unsupported file type"
	case errors.Is(err, resumes.ErrEmptyFile):
		return "Uploaded file is empty"
	}

	if HTTPStatus(err) == http.StatusInternalServerError {
		return msgInternal
	}
	return err.Error()
}
