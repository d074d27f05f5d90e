// Package server provides the HTTP REST API for the resume enhancer.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"strconv"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/Kartik4138/Resume-enhancer/internal/config"
	"github.com/Kartik4138/Resume-enhancer/internal/resumes"
	"github.com/Kartik4138/Resume-enhancer/internal/server/middleware"
	"github.com/Kartik4138/Resume-enhancer/internal/server/ratelimit"
	"github.com/Kartik4138/Resume-enhancer/internal/types"
)

// DefaultMaxUploadBytes bounds resume uploads when no limit is configured.
const DefaultMaxUploadBytes = 5 << 20

// AuthService runs the passwordless login flow.
type AuthService interface {
	RequestOTP(ctx context.Context, email string) error
	VerifyOTP(ctx context.Context, email, code string) (*types.TokenResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*types.TokenResponse, error)
	Logout(ctx context.Context, userID uuid.UUID) error
}

// ResumeService stores resume uploads and serves them back.
type ResumeService interface {
	Upload(ctx context.Context, userID uuid.UUID, fileName string, data []byte) (*types.UploadResponse, error)
	History(ctx context.Context, userID uuid.UUID) (*types.ResumeHistoryResponse, error)
	LatestAnalyzedFile(ctx context.Context, userID uuid.UUID) (*resumes.File, error)
	LatestFile(ctx context.Context, userID uuid.UUID) (*resumes.File, error)
}

// JobService analyzes pasted job descriptions.
type JobService interface {
	Analyze(ctx context.Context, userID uuid.UUID, content string) (*types.JDAnalysisResponse, error)
}

// ScoreService scores the latest resume against the latest job description.
type ScoreService interface {
	Score(ctx context.Context, userID uuid.UUID) (*types.ATSScoreResponse, error)
}

// Pinger reports database health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps are the services behind the HTTP API.
type Deps struct {
	Auth    AuthService
	Tokens  middleware.TokenValidator
	Users   middleware.UserChecker
	Resumes ResumeService
	Jobs    JobService
	Scores  ScoreService
	DB      Pinger
}

// Options configure the HTTP listener.
type Options struct {
	Server         config.ServerConfig
	MaxUploadBytes int64
	RateLimit      *ratelimit.Config
	Logger         *slog.Logger
}

// Server represents the HTTP server
type Server struct {
	httpServer      *http.Server
	deps            Deps
	rateLimiter     *ratelimit.Limiter
	validator       *validator.Validate
	logger          *slog.Logger
	corsOrigins     []string
	maxUploadBytes  int64
	shutdownTimeout time.Duration
}

// New creates a new server instance
func New(deps Deps, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	limits := opts.RateLimit
	if limits == nil {
		limits = &ratelimit.Config{}
	}
	maxUpload := opts.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = DefaultMaxUploadBytes
	}
	shutdown := opts.Server.ShutdownTimeout
	if shutdown <= 0 {
		shutdown = 30 * time.Second
	}

	s := &Server{
		deps:            deps,
		rateLimiter:     ratelimit.NewLimiter(limits),
		validator:       validator.New(),
		logger:          logger,
		corsOrigins:     opts.Server.CORSOrigins,
		maxUploadBytes:  maxUpload,
		shutdownTimeout: shutdown,
	}

	addr := opts.Server.Addr
	if addr == "" {
		addr = ":8000"
	}
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  orDefault(opts.Server.ReadTimeout, 30*time.Second),
		WriteTimeout: orDefault(opts.Server.WriteTimeout, 120*time.Second), // scoring waits on the model
		IdleTimeout:  60 * time.Second,
	}
	return s
}

func orDefault(d, fallback time.Duration) time.Duration {
	if d > 0 {
		return d
	}
	return fallback
}

// Handler returns the routed handler wrapped in the middleware chain.
func (s *Server) Handler() http.Handler {
	authed := middleware.AuthMiddleware(s.deps.Tokens, s.deps.Users)
	protect := func(h http.HandlerFunc) http.Handler { return authed(h) }

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)

	// Auth
	mux.HandleFunc("POST /auth/request-otp", s.handleRequestOTP)
	mux.HandleFunc("POST /auth/verify-otp", s.handleVerifyOTP)
	mux.HandleFunc("POST /auth/refresh", s.handleRefresh)
	mux.Handle("POST /auth/logout", protect(s.handleLogout))

	// Resumes, with the file endpoints also served under /ats
	mux.Handle("POST /resumes/upload", protect(s.handleUploadResume))
	mux.Handle("GET /resumes/history", protect(s.handleResumeHistory))
	for _, prefix := range []string{"/resumes", "/ats"} {
		mux.Handle("GET "+prefix+"/latest-analyzed-file", protect(s.handleLatestAnalyzedFile))
		mux.Handle("GET "+prefix+"/latest/verify", protect(s.handleVerifyLatest))
	}

	mux.Handle("POST /jobs/analyze", protect(s.handleAnalyzeJob))
	mux.Handle("POST /ats/score", protect(s.handleScore))

	return s.withRateLimit(middleware.RequestID(s.withLogging(s.withCORS(mux))))
}

// Start listens until ctx is cancelled or the process receives SIGINT/SIGTERM,
// then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		s.rateLimiter.Stop()
		if ok {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()

	err := s.httpServer.Shutdown(shutdownCtx)
	s.rateLimiter.Stop()
	if err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}

// Close stops background work without serving.
func (s *Server) Close() {
	s.rateLimiter.Stop()
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if origin := s.allowedOrigin(r.Header.Get("Origin")); origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, "+middleware.RequestIDHeader)

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// allowedOrigin returns the Access-Control-Allow-Origin value for origin.
// With no configured origins every origin is allowed.
func (s *Server) allowedOrigin(origin string) string {
	if len(s.corsOrigins) == 0 || slices.Contains(s.corsOrigins, "*") {
		return "*"
	}
	if origin != "" && slices.Contains(s.corsOrigins, origin) {
		return origin
	}
	return ""
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(extractClientID(r), r.URL.Path, r.Method)
		setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, r, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// statusRecorder captures the response status for logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		level := slog.LevelInfo
		if rec.status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		s.logger.Log(r.Context(), level, "request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"remote_addr", r.RemoteAddr,
			"duration", time.Since(start),
		)
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.deps.DB != nil {
		if err := s.deps.DB.Ping(r.Context()); err != nil {
			s.logger.ErrorContext(r.Context(), "health check failed", "error", err)
			s.jsonResponse(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to encode JSON response", "error", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// serviceError maps err to a status and a client-safe message, logging server faults.
func (s *Server) serviceError(w http.ResponseWriter, r *http.Request, err error) {
	status := HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		s.logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "error", err)
	}
	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}
	s.errorResponse(w, status, errorMessage(err))
}

// decodeAndValidate decodes a JSON body into dst and runs struct validation.
func (s *Server) decodeAndValidate(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return &ErrValidation{Field: "body", Message: "invalid JSON"}
	}
	if err := s.validator.Struct(dst); err != nil {
		return extractValidationErrors(err)
	}
	return nil
}

// extractValidationErrors converts the first validator failure into an ErrValidation.
func extractValidationErrors(err error) *ErrValidation {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		ve := validationErrors[0]
		return &ErrValidation{Field: ve.Field(), Message: ve.Tag()}
	}
	return &ErrValidation{Field: "request", Message: "invalid"}
}

// userID returns the authenticated user, writing a 401 when missing.
func (s *Server) userID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, middleware.MsgNotAuthenticated)
		return uuid.Nil, false
	}
	return id, true
}

// extractClientID extracts the client identifier from the request.
// Forwarded headers are not trusted.
func extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(info.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(info.Remaining))
		w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(info.ResetTime.Unix(), 10))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, r *http.Request, info ratelimit.Info) {
	response := map[string]any{
		"error":     "rate_limit_exceeded",
		"message":   "Rate limit exceeded. Please try again later.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
		"reset_at":  info.ResetTime.Format(time.RFC3339),
	}

	if info.RetryAfter > 0 {
		seconds := int(info.RetryAfter.Seconds() + 0.5)
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", strconv.Itoa(seconds))
	}

	s.logger.WarnContext(r.Context(), "rate limit exceeded",
		"client", extractClientID(r),
		"path", r.URL.Path,
		"limit", info.Limit,
		"reset_at", info.ResetTime.Format(time.RFC3339),
	)

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
