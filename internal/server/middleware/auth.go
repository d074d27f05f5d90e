// Package middleware provides HTTP middleware for authentication and request tracing.
package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// ContextKey is a typed key for context values to avoid collisions.
type ContextKey string

// userIDKey is the context key for storing the authenticated user ID.
const userIDKey ContextKey = "userID"

// Authentication failure messages
const (
	MsgNotAuthenticated = "Not authenticated"
	MsgInvalidToken     = "Could not validate credentials"
	MsgUserNotFound     = "User not found"
)

// ErrNoUser is returned by GetUserID for unauthenticated requests.
var ErrNoUser = errors.New("user ID not found in request context")

// TokenValidator validates bearer tokens.
type TokenValidator interface {
	ValidateToken(tokenString string) (UserIDGetter, error)
}

// UserIDGetter extracts the user ID from validated claims.
type UserIDGetter interface {
	GetUserID() uuid.UUID
}

// UserChecker reports whether a user still exists.
type UserChecker func(ctx context.Context, userID uuid.UUID) (bool, error)

// AuthMiddleware validates the bearer access token and stores the user ID in
// the request context. When users is not nil, tokens of deleted users are rejected.
func AuthMiddleware(tokens TokenValidator, users UserChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				writeError(w, http.StatusUnauthorized, MsgNotAuthenticated)
				return
			}

			claims, err := tokens.ValidateToken(tokenString)
			if err != nil {
				writeError(w, http.StatusUnauthorized, MsgInvalidToken)
				return
			}
			userID := claims.GetUserID()
			if userID == uuid.Nil {
				writeError(w, http.StatusUnauthorized, MsgInvalidToken)
				return
			}

			if users != nil {
				exists, err := users(r.Context(), userID)
				if err != nil {
					writeError(w, http.StatusInternalServerError, "Internal server error")
					return
				}
				if !exists {
					writeError(w, http.StatusUnauthorized, MsgUserNotFound)
					return
				}
			}

			ctx := context.WithValue(r.Context(), userIDKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// bearerToken parses "Bearer <token>", accepting any case of the scheme.
func bearerToken(header string) (string, bool) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": message})
}

// GetUserID extracts the authenticated user ID from the request context.
func GetUserID(r *http.Request) (uuid.UUID, error) {
	userID, ok := r.Context().Value(userIDKey).(uuid.UUID)
	if !ok {
		return uuid.Nil, ErrNoUser
	}
	return userID, nil
}

// WithUserID returns ctx carrying userID, as AuthMiddleware would set it.
func WithUserID(ctx context.Context, userID uuid.UUID) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}
