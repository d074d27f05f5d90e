package server

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/Kartik4138/Resume-enhancer/internal/resumes"
	"github.com/Kartik4138/Resume-enhancer/internal/types"
)

// Not-found messages of the file endpoints
const (
	msgNoAnalyzedResume = "No analyzed resume found for this user"
	msgNoUploadedResume = "No uploaded resume found to verify."
	msgFileMissing      = "Resume file not found on server"
)

// handleUploadResume accepts a multipart "file" field and queues it for parsing.
func (s *Server) handleUploadResume(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	// Leave room for the multipart envelope around the file.
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes+64<<10)
	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.errorResponse(w, http.StatusRequestEntityTooLarge, "File too large")
			return
		}
		s.errorResponse(w, http.StatusBadRequest, "A resume file is required")
		return
	}
	defer file.Close()

	if header.Size > s.maxUploadBytes {
		s.errorResponse(w, http.StatusRequestEntityTooLarge, "File too large")
		return
	}
	data, err := io.ReadAll(io.LimitReader(file, s.maxUploadBytes+1))
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	if int64(len(data)) > s.maxUploadBytes {
		s.errorResponse(w, http.StatusRequestEntityTooLarge, "File too large")
		return
	}

	resp, err := s.deps.Resumes.Upload(r.Context(), userID, header.Filename, data)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusAccepted, resp)
}

// handleResumeHistory lists the caller's resume versions with their scores.
func (s *Server) handleResumeHistory(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}

	history, err := s.deps.Resumes.History(r.Context(), userID)
	if err != nil {
		s.serviceError(w, r, err)
		return
	}
	if history.History == nil {
		history.History = []types.ResumeVersionHistory{}
	}
	s.jsonResponse(w, http.StatusOK, history)
}

// handleLatestAnalyzedFile streams the newest parsed resume file.
func (s *Server) handleLatestAnalyzedFile(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	f, err := s.deps.Resumes.LatestAnalyzedFile(r.Context(), userID)
	s.serveFile(w, r, f, err, msgNoAnalyzedResume)
}

// handleVerifyLatest streams the newest uploaded resume file, parsed or not.
func (s *Server) handleVerifyLatest(w http.ResponseWriter, r *http.Request) {
	userID, ok := s.userID(w, r)
	if !ok {
		return
	}
	f, err := s.deps.Resumes.LatestFile(r.Context(), userID)
	s.serveFile(w, r, f, err, msgNoUploadedResume)
}

func (s *Server) serveFile(w http.ResponseWriter, r *http.Request, f *resumes.File, err error, notFound string) {
	switch {
	case errors.Is(err, resumes.ErrNotFound):
		s.errorResponse(w, http.StatusNotFound, notFound)
		return
	case errors.Is(err, resumes.ErrFileMissing):
		s.errorResponse(w, http.StatusNotFound, msgFileMissing)
		return
	case err != nil:
		s.serviceError(w, r, err)
		return
	}
	defer f.Body.Close()

	w.Header().Set("Content-Type", f.Version.MimeType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("inline", map[string]string{"filename": f.Version.FileName}))
	if f.Version.SizeBytes > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(f.Version.SizeBytes, 10))
	}
	w.WriteHeader(http.StatusOK)
	if _, err := io.Copy(w, f.Body); err != nil {
		s.logger.WarnContext(r.Context(), "failed to stream resume file", "version_id", f.Version.ID, "error", err)
	}
}
