package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/Kartik4138/Resume-enhancer/internal/jobs"
	"github.com/Kartik4138/Resume-enhancer/internal/types"
)

// handleAnalyzeJob extracts skills from pasted job description text.
func (s *Server) handleAnalyzeJob(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	var req types.AnalyzeJDRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.serviceError(w, r, &ErrValidation{Field: "body", Message: "invalid JSON"})
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		s.serviceError(w, r, jobs.ErrEmptyDescription)
		return
	}
	if err := s.validator.Struct(req); err != nil {
		s.serviceError(w, r, extractValidationErrors(err))
		return
	}

	resp, err := s.deps.Jobs.Analyze(r.Context(), userID, req.Content)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, resp)
}
