// Package auth implements passwordless email login with one-time codes and JWT token pairs.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/Kartik4138/Resume-enhancer/internal/config"
	"github.com/Kartik4138/Resume-enhancer/internal/server/middleware"
)

// Token types carried in the "type" claim
const (
	TypeAccess  = "access"
	TypeRefresh = "refresh"
)

// Claims are the JWT claims of access and refresh tokens. The subject is the user ID.
type Claims struct {
	Type string `json:"type"`
	jwt.RegisteredClaims
}

// GetUserID returns the user ID from the subject claim, or uuid.Nil.
// This implements the middleware.UserIDGetter interface.
func (c *Claims) GetUserID() uuid.UUID {
	id, err := uuid.Parse(c.Subject)
	if err != nil {
		return uuid.Nil
	}
	return id
}

// TokenService issues and validates signed tokens.
type TokenService struct {
	config *config.JWTConfig
	now    func() time.Time
}

// NewTokenService creates a token service with the given configuration.
func NewTokenService(cfg *config.JWTConfig) *TokenService {
	return &TokenService{config: cfg, now: time.Now}
}

func (s *TokenService) ttl(tokenType string) time.Duration {
	if tokenType == TypeRefresh {
		return s.config.RefreshTTL
	}
	return s.config.AccessTTL
}

// Generate signs a token of tokenType for userID and returns it with its expiry.
func (s *TokenService) Generate(userID uuid.UUID, tokenType string) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.ttl(tokenType))

	claims := &Claims{
		Type: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ID:        uuid.NewString(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(s.config.Secret))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, expiresAt, nil
}

// Validate checks the signature, expiry and type of a token.
// Failures wrap ErrInvalidToken or ErrWrongTokenType.
func (s *TokenService) Validate(tokenString, tokenType string) (*Claims, error) {
	if tokenString == "" {
		return nil, fmt.Errorf("%w: token string is empty", ErrInvalidToken)
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		// Verify signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.Secret), nil
	}, jwt.WithTimeFunc(s.now), jwt.WithExpirationRequired())
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, fmt.Errorf("%w: token expired", ErrInvalidToken)
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, fmt.Errorf("%w: invalid signature", ErrInvalidToken)
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, fmt.Errorf("%w: malformed token", ErrInvalidToken)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return nil, fmt.Errorf("%w: token is not valid", ErrInvalidToken)
	}
	if claims.Type != tokenType {
		return nil, ErrWrongTokenType
	}
	if claims.GetUserID() == uuid.Nil {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}
	return claims, nil
}

// AsTokenValidator returns a middleware.TokenValidator accepting access tokens only.
func (s *TokenService) AsTokenValidator() middleware.TokenValidator {
	return &accessTokenValidator{service: s}
}

type accessTokenValidator struct {
	service *TokenService
}

func (v *accessTokenValidator) ValidateToken(tokenString string) (middleware.UserIDGetter, error) {
	claims, err := v.service.Validate(tokenString, TypeAccess)
	if err != nil {
		return nil, err
	}
	return claims, nil
}
