package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Kartik4138/Resume-enhancer/internal/config"
	"github.com/Kartik4138/Resume-enhancer/internal/db"
	"github.com/Kartik4138/Resume-enhancer/internal/email"
	"github.com/Kartik4138/Resume-enhancer/internal/types"
)

// TokenTypeBearer is the token_type of issued pairs.
const TokenTypeBearer = "bearer"

// Store is the persistence used by Service.
type Store interface {
	ReplaceOTP(ctx context.Context, email, otpHash string, expiresAt time.Time) error
	LatestValidOTP(ctx context.Context, email string, now time.Time) (*db.EmailOTP, error)
	MarkOTPUsed(ctx context.Context, id uuid.UUID) (bool, error)
	GetOrCreateUserByEmail(ctx context.Context, email string) (*db.User, error)
	CreateRefreshToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error
	FindActiveRefreshToken(ctx context.Context, userID uuid.UUID, tokenHash string) (*db.RefreshToken, error)
	RotateRefreshToken(ctx context.Context, oldID, userID uuid.UUID, newHash string, expiresAt time.Time) (bool, error)
	RevokeAllRefreshTokens(ctx context.Context, userID uuid.UUID) (int64, error)
}

// Service implements the login flow.
type Service struct {
	store   Store
	tokens  *TokenService
	otp     *config.OTPConfig
	sender  email.Sender
	logger  *slog.Logger
	now     func() time.Time
	newCode func() (string, error)
}

// NewService creates an auth service.
func NewService(store Store, tokens *TokenService, otpConfig *config.OTPConfig, sender email.Sender, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:   store,
		tokens:  tokens,
		otp:     otpConfig,
		sender:  sender,
		logger:  logger,
		now:     time.Now,
		newCode: GenerateCode,
	}
}

func normalizeEmail(address string) string {
	return strings.ToLower(strings.TrimSpace(address))
}

// RequestOTP replaces any outstanding code for address and emails a new one.
func (s *Service) RequestOTP(ctx context.Context, address string) error {
	address = normalizeEmail(address)
	code, err := s.newCode()
	if err != nil {
		return err
	}
	hash, err := s.otp.HashCode(code)
	if err != nil {
		return err
	}
	if err := s.store.ReplaceOTP(ctx, address, hash, s.now().Add(s.otp.TTL)); err != nil {
		return fmt.Errorf("failed to store code: %w", err)
	}
	if err := s.sender.SendOTP(ctx, address, code); err != nil {
		return fmt.Errorf("failed to send code: %w", err)
	}
	s.logger.InfoContext(ctx, "otp issued", "email", address)
	return nil
}

// VerifyOTP consumes a valid code and issues a token pair, creating the user on first login.
func (s *Service) VerifyOTP(ctx context.Context, address, code string) (*types.TokenResponse, error) {
	address = normalizeEmail(address)
	entry, err := s.store.LatestValidOTP(ctx, address, s.now())
	if err != nil {
		return nil, fmt.Errorf("failed to look up code: %w", err)
	}
	if entry == nil || !s.otp.VerifyCode(code, entry.OTPHash) {
		return nil, ErrInvalidOTP
	}
	consumed, err := s.store.MarkOTPUsed(ctx, entry.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to consume code: %w", err)
	}
	if !consumed {
		return nil, ErrInvalidOTP
	}

	user, err := s.store.GetOrCreateUserByEmail(ctx, address)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	access, refresh, refreshExpires, err := s.issuePair(user.ID)
	if err != nil {
		return nil, err
	}
	if err := s.store.CreateRefreshToken(ctx, user.ID, s.otp.TokenDigest(refresh), refreshExpires); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}
	s.logger.InfoContext(ctx, "user logged in", "user_id", user.ID)
	return &types.TokenResponse{AccessToken: access, RefreshToken: refresh, TokenType: TokenTypeBearer}, nil
}

// Refresh revokes a refresh token and issues a new pair.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*types.TokenResponse, error) {
	claims, err := s.tokens.Validate(refreshToken, TypeRefresh)
	if err != nil {
		if errors.Is(err, ErrWrongTokenType) {
			return nil, fmt.Errorf("%w: not a refresh token", ErrInvalidToken)
		}
		return nil, err
	}
	userID := claims.GetUserID()

	stored, err := s.store.FindActiveRefreshToken(ctx, userID, s.otp.TokenDigest(refreshToken))
	if err != nil {
		return nil, fmt.Errorf("failed to look up refresh token: %w", err)
	}
	if stored == nil {
		return nil, ErrTokenRevoked
	}

	access, refresh, refreshExpires, err := s.issuePair(userID)
	if err != nil {
		return nil, err
	}
	rotated, err := s.store.RotateRefreshToken(ctx, stored.ID, userID, s.otp.TokenDigest(refresh), refreshExpires)
	if err != nil {
		return nil, fmt.Errorf("failed to rotate refresh token: %w", err)
	}
	if !rotated {
		return nil, ErrTokenRevoked
	}
	return &types.TokenResponse{AccessToken: access, RefreshToken: refresh, TokenType: TokenTypeBearer}, nil
}

// Logout revokes every refresh token of a user.
func (s *Service) Logout(ctx context.Context, userID uuid.UUID) error {
	n, err := s.store.RevokeAllRefreshTokens(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to log out: %w", err)
	}
	s.logger.InfoContext(ctx, "user logged out", "user_id", userID, "revoked", n)
	return nil
}

func (s *Service) issuePair(userID uuid.UUID) (access, refresh string, refreshExpires time.Time, err error) {
	access, _, err = s.tokens.Generate(userID, TypeAccess)
	if err != nil {
		return "", "", time.Time{}, err
	}
	refresh, refreshExpires, err = s.tokens.Generate(userID, TypeRefresh)
	if err != nil {
		return "", "", time.Time{}, err
	}
	return access, refresh, refreshExpires, nil
}
