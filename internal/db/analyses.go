package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// UpsertAnalysisResult stores the score of a version against a job description,
// replacing any earlier score of the same pair.
func (db *DB) UpsertAnalysisResult(ctx context.Context, versionID, jdID uuid.UUID, finalScore int, breakdown, result []byte) (*AnalysisResult, error) {
	var a AnalysisResult
	err := db.pool.QueryRow(ctx,
		`INSERT INTO analysis_results (resume_version_id, job_description_id, final_score, breakdown, result)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT ON CONSTRAINT uq_resume_jd_result DO UPDATE SET
		     final_score = EXCLUDED.final_score,
		     breakdown = EXCLUDED.breakdown,
		     result = EXCLUDED.result
		 RETURNING id, resume_version_id, job_description_id, final_score, breakdown, result, created_at`,
		versionID, jdID, finalScore, breakdown, result,
	).Scan(&a.ID, &a.ResumeVersionID, &a.JobDescriptionID, &a.FinalScore, &a.Breakdown, &a.Result, &a.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert analysis result: %w", err)
	}
	return &a, nil
}

// ListAnalysesByVersion returns the analyses of a version, newest first.
func (db *DB) ListAnalysesByVersion(ctx context.Context, versionID uuid.UUID) ([]AnalysisResult, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, resume_version_id, job_description_id, final_score, breakdown, result, created_at
		 FROM analysis_results
		 WHERE resume_version_id = $1
		 ORDER BY created_at DESC`,
		versionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	defer rows.Close()

	results := []AnalysisResult{}
	for rows.Next() {
		var a AnalysisResult
		if err := rows.Scan(&a.ID, &a.ResumeVersionID, &a.JobDescriptionID, &a.FinalScore,
			&a.Breakdown, &a.Result, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan analysis: %w", err)
		}
		results = append(results, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	return results, nil
}
