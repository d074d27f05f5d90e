package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// FindJobDescriptionByHash returns the job description of userID with the given content hash.
// Returns nil, nil when missing.
func (db *DB) FindJobDescriptionByHash(ctx context.Context, userID uuid.UUID, contentHash string) (*JobDescription, error) {
	var jd JobDescription
	err := db.pool.QueryRow(ctx,
		`SELECT id, user_id, content, content_hash, analyzed_data, created_at
		 FROM job_descriptions
		 WHERE user_id = $1 AND content_hash = $2`,
		userID, contentHash,
	).Scan(&jd.ID, &jd.UserID, &jd.Content, &jd.ContentHash, &jd.AnalyzedData, &jd.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job description: %w", err)
	}
	return &jd, nil
}

// CreateJobDescription stores an analyzed job description. A concurrent insert
// of the same content keeps the first row and returns it.
func (db *DB) CreateJobDescription(ctx context.Context, userID uuid.UUID, content, contentHash string, analyzedData []byte) (*JobDescription, error) {
	var jd JobDescription
	err := db.pool.QueryRow(ctx,
		`INSERT INTO job_descriptions (user_id, content, content_hash, analyzed_data)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (user_id, content_hash) DO UPDATE SET
		     analyzed_data = COALESCE(job_descriptions.analyzed_data, EXCLUDED.analyzed_data)
		 RETURNING id, user_id, content, content_hash, analyzed_data, created_at`,
		userID, content, contentHash, analyzedData,
	).Scan(&jd.ID, &jd.UserID, &jd.Content, &jd.ContentHash, &jd.AnalyzedData, &jd.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create job description: %w", err)
	}
	return &jd, nil
}

// LatestAnalyzedJobDescription returns the newest analyzed job description of a user.
// Returns nil, nil when missing.
func (db *DB) LatestAnalyzedJobDescription(ctx context.Context, userID uuid.UUID) (*JobDescription, error) {
	var jd JobDescription
	err := db.pool.QueryRow(ctx,
		`SELECT id, user_id, content, content_hash, analyzed_data, created_at
		 FROM job_descriptions
		 WHERE user_id = $1 AND analyzed_data IS NOT NULL
		 ORDER BY created_at DESC
		 LIMIT 1`,
		userID,
	).Scan(&jd.ID, &jd.UserID, &jd.Content, &jd.ContentHash, &jd.AnalyzedData, &jd.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest job description: %w", err)
	}
	return &jd, nil
}
