package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ReplaceOTP deletes every code issued to email and stores a new one.
func (db *DB) ReplaceOTP(ctx context.Context, email, otpHash string, expiresAt time.Time) error {
	email = strings.ToLower(strings.TrimSpace(email))
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM email_otps WHERE email = $1`, email); err != nil {
		return fmt.Errorf("failed to invalidate previous codes: %w", err)
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO email_otps (email, otp_hash, expires_at) VALUES ($1, $2, $3)`,
		email, otpHash, expiresAt,
	); err != nil {
		return fmt.Errorf("failed to store code: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit code: %w", err)
	}
	return nil
}

// LatestValidOTP returns the newest unused code for email that has not expired at now.
// Returns nil, nil when there is none.
func (db *DB) LatestValidOTP(ctx context.Context, email string, now time.Time) (*EmailOTP, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var o EmailOTP
	err := db.pool.QueryRow(ctx,
		`SELECT id, email, otp_hash, expires_at, used, created_at
		 FROM email_otps
		 WHERE email = $1 AND used = FALSE AND expires_at > $2
		 ORDER BY created_at DESC
		 LIMIT 1`,
		email, now,
	).Scan(&o.ID, &o.Email, &o.OTPHash, &o.ExpiresAt, &o.Used, &o.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get code: %w", err)
	}
	return &o, nil
}

// MarkOTPUsed consumes a code. It reports false when the code was already used.
func (db *DB) MarkOTPUsed(ctx context.Context, id uuid.UUID) (bool, error) {
	tag, err := db.pool.Exec(ctx,
		`UPDATE email_otps SET used = TRUE WHERE id = $1 AND used = FALSE`,
		id,
	)
	if err != nil {
		return false, fmt.Errorf("failed to mark code used: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// CreateRefreshToken stores the digest of an issued refresh token.
func (db *DB) CreateRefreshToken(ctx context.Context, userID uuid.UUID, tokenHash string, expiresAt time.Time) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO refresh_tokens (user_id, token_hash, expires_at) VALUES ($1, $2, $3)`,
		userID, tokenHash, expiresAt,
	)
	if err != nil {
		return fmt.Errorf("failed to store refresh token: %w", err)
	}
	return nil
}

// FindActiveRefreshToken returns the unrevoked token of userID with the given digest.
// Returns nil, nil when there is none.
func (db *DB) FindActiveRefreshToken(ctx context.Context, userID uuid.UUID, tokenHash string) (*RefreshToken, error) {
	var rt RefreshToken
	err := db.pool.QueryRow(ctx,
		`SELECT id, user_id, token_hash, expires_at, revoked, created_at
		 FROM refresh_tokens
		 WHERE user_id = $1 AND token_hash = $2 AND revoked = FALSE`,
		userID, tokenHash,
	).Scan(&rt.ID, &rt.UserID, &rt.TokenHash, &rt.ExpiresAt, &rt.Revoked, &rt.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get refresh token: %w", err)
	}
	return &rt, nil
}

// RotateRefreshToken revokes oldID and stores a replacement in one transaction.
// It reports false, storing nothing, when oldID was already revoked.
func (db *DB) RotateRefreshToken(ctx context.Context, oldID, userID uuid.UUID, newHash string, expiresAt time.Time) (bool, error) {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	tag, err := tx.Exec(ctx,
		`UPDATE refresh_tokens SET revoked = TRUE WHERE id = $1 AND revoked = FALSE`,
		oldID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}
	if _, err := tx.Exec(ctx,
		`INSERT INTO refresh_tokens (user_id, token_hash, expires_at) VALUES ($1, $2, $3)`,
		userID, newHash, expiresAt,
	); err != nil {
		return false, fmt.Errorf("failed to store refresh token: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("failed to commit refresh token: %w", err)
	}
	return true, nil
}

// RevokeAllRefreshTokens revokes every token of a user.
func (db *DB) RevokeAllRefreshTokens(ctx context.Context, userID uuid.UUID) (int64, error) {
	tag, err := db.pool.Exec(ctx,
		`UPDATE refresh_tokens SET revoked = TRUE WHERE user_id = $1 AND revoked = FALSE`,
		userID,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to revoke refresh tokens: %w", err)
	}
	return tag.RowsAffected(), nil
}
