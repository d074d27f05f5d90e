package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

func (db *DB) deleteBefore(ctx context.Context, what, query string, t time.Time) (int64, error) {
	tag, err := db.pool.Exec(ctx, query, t)
	if err != nil {
		return 0, fmt.Errorf("failed to delete %s: %w", what, err)
	}
	return tag.RowsAffected(), nil
}

// DeleteExpiredOTPs removes codes that expired before now.
func (db *DB) DeleteExpiredOTPs(ctx context.Context, now time.Time) (int64, error) {
	return db.deleteBefore(ctx, "expired codes",
		`DELETE FROM email_otps WHERE expires_at < $1`, now)
}

// DeleteExpiredRefreshTokens removes tokens that expired before now.
func (db *DB) DeleteExpiredRefreshTokens(ctx context.Context, now time.Time) (int64, error) {
	return db.deleteBefore(ctx, "expired refresh tokens",
		`DELETE FROM refresh_tokens WHERE expires_at < $1`, now)
}

// DeleteAnalysesBefore removes analyses created before cutoff.
func (db *DB) DeleteAnalysesBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return db.deleteBefore(ctx, "old analyses",
		`DELETE FROM analysis_results WHERE created_at < $1`, cutoff)
}

// DeleteJobDescriptionsBefore removes job descriptions created before cutoff.
func (db *DB) DeleteJobDescriptionsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return db.deleteBefore(ctx, "old job descriptions",
		`DELETE FROM job_descriptions WHERE created_at < $1`, cutoff)
}

// DeleteExpiredCacheEntries removes cache rows that expired before now.
func (db *DB) DeleteExpiredCacheEntries(ctx context.Context, now time.Time) (int64, error) {
	return db.deleteBefore(ctx, "expired cache entries",
		`DELETE FROM score_cache WHERE expires_at < $1`, now)
}

// ListExpiredResumeVersions returns versions with an expiry before now.
func (db *DB) ListExpiredResumeVersions(ctx context.Context, now time.Time) ([]ExpiredVersion, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, storage_key FROM resume_versions
		 WHERE expires_at IS NOT NULL AND expires_at < $1`,
		now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expired resume versions: %w", err)
	}
	versions, err := pgx.CollectRows(rows, pgx.RowToStructByPos[ExpiredVersion])
	if err != nil {
		return nil, fmt.Errorf("failed to list expired resume versions: %w", err)
	}
	return versions, nil
}

// DeleteResumeVersions removes the versions with the given IDs.
func (db *DB) DeleteResumeVersions(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	tag, err := db.pool.Exec(ctx, `DELETE FROM resume_versions WHERE id = ANY($1)`, ids)
	if err != nil {
		return 0, fmt.Errorf("failed to delete resume versions: %w", err)
	}
	return tag.RowsAffected(), nil
}
