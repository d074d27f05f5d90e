package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/Kartik4138/Resume-enhancer/internal/types"
)

// MsgOTPSent acknowledges a code request.
const MsgOTPSent = "OTP sent to email. Previous codes have been invalidated."

// handleRequestOTP emails a fresh login code.
func (s *Server) handleRequestOTP(w http.ResponseWriter, r *http.Request) {
	var req types.RequestOTPRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.serviceError(w, r, err)
		return
	}

	if err := s.deps.Auth.RequestOTP(r.Context(), req.Email); err != nil {
		s.serviceError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, types.MessageResponse{Message: MsgOTPSent})
}

// handleVerifyOTP exchanges a code for an access and refresh token pair.
func (s *Server) handleVerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req types.VerifyOTPRequest
	if err := s.decodeAndValidate(r, &req); err != nil {
		s.serviceError(w, r, err)
		return
	}

	tokens, err := s.deps.Auth.VerifyOTP(r.Context(), req.Email, req.OTP)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, tokens)
}

// handleRefresh rotates a refresh token. The token may come in the JSON body
// or in the refresh_token query parameter.
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	req := types.RefreshRequest{RefreshToken: strings.TrimSpace(r.URL.Query().Get("refresh_token"))}
	if req.RefreshToken == "" && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.serviceError(w, r, &ErrValidation{Field: "body", Message: "invalid JSON"})
			return
		}
	}
	if err := s.validator.Struct(req); err != nil {
		s.serviceError(w, r, extractValidationErrors(err))
		return
	}

	tokens, err := s.deps.Auth.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, tokens)
}

// handleLogout revokes every refresh token of the caller.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	if err := s.deps.Auth.Logout(r.Context(), userID); err != nil {
		s.serviceError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, types.MessageResponse{Message: "Logged out successfully"})
}
