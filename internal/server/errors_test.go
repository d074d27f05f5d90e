package server

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Kartik4138/Resume-enhancer/internal/ats"
	"github.com/Kartik4138/Resume-enhancer/internal/auth"
	"github.com/Kartik4138/Resume-enhancer/internal/jobs"
	"github.com/Kartik4138/Resume-enhancer/internal/resumes"
)

func TestErrValidation(t *testing.T) {
	err := &ErrValidation{Field: "email", Message: "invalid format"}
	assert.Equal(t, "validation error: email - invalid format", err.Error())
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(err))
}

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"validation", &ErrValidation{Field: "otp", Message: "len"}, http.StatusBadRequest},
		{"invalid otp", auth.ErrInvalidOTP, http.StatusUnauthorized},
		{"wrapped invalid token", fmt.Errorf("%w: token expired", auth.ErrInvalidToken), http.StatusUnauthorized},
		{"revoked", auth.ErrTokenRevoked, http.StatusUnauthorized},
		{"unsupported file", fmt.Errorf("%w: %q", resumes.ErrUnsupportedFileType, ".txt"), http.StatusBadRequest},
		{"empty file", resumes.ErrEmptyFile, http.StatusBadRequest},
		{"empty description", jobs.ErrEmptyDescription, http.StatusBadRequest},
		{"no resume", resumes.ErrNotFound, http.StatusNotFound},
		{"file missing", resumes.ErrFileMissing, http.StatusNotFound},
		{"no parsed resume", ats.ErrNoParsedResume, http.StatusNotFound},
		{"no job description", ats.ErrNoJobDescription, http.StatusNotFound},
		{"too large", &http.MaxBytesError{Limit: 10}, http.StatusRequestEntityTooLarge},
		{"analysis", &ats.AnalysisError{Err: errors.New("quota")}, http.StatusInternalServerError},
		{"unknown", assert.AnError, http.StatusInternalServerError},
		{"nil", nil, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, HTTPStatus(tt.err))
		})
	}
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{"analysis shows cause", &ats.AnalysisError{Err: errors.New("quota")}, "AI Analysis failed: quota"},
		{"wrong token type reads as invalid", auth.ErrWrongTokenType, "Invalid refresh token"},
		{"wrapped token error hides detail", fmt.Errorf("%w: invalid signature", auth.ErrInvalidToken), "Invalid refresh token"},
		{"unsupported file", fmt.Errorf("%w: %q", resumes.ErrUnsupportedFileType, ".txt"), "Unsupported file type"},
		{"not found passes through", ats.ErrNoParsedResume, "No parsed resume found."},
		{"internal hidden", errors.New("pq: connection refused"), msgInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, errorMessage(tt.err))
		})
	}
}
