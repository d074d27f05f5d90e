package server

import "net/http"

// handleScore scores the caller's latest parsed resume against their latest job description.
func (s *Server) handleScore(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	resp, err := s.deps.Scores.Score(r.Context(), userID)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, resp)
}
