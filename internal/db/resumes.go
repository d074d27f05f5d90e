package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const versionColumns = `v.id, v.resume_id, v.storage_key, v.file_name, v.mime_type, v.size_bytes,
	v.file_hash, v.parsed_data, v.status, v.expires_at, v.created_at`

func scanVersion(row pgx.Row) (*ResumeVersion, error) {
	var v ResumeVersion
	err := row.Scan(&v.ID, &v.ResumeID, &v.StorageKey, &v.FileName, &v.MimeType, &v.SizeBytes,
		&v.FileHash, &v.ParsedData, &v.Status, &v.ExpiresAt, &v.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// queryVersion runs a single-row version query. Returns nil, nil when no row matches.
func (db *DB) queryVersion(ctx context.Context, what, query string, args ...any) (*ResumeVersion, error) {
	v, err := scanVersion(db.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get %s: %w", what, err)
	}
	return v, nil
}

// GetOrCreateResume returns the resume of a user, creating it when missing.
func (db *DB) GetOrCreateResume(ctx context.Context, userID uuid.UUID) (*Resume, error) {
	var r Resume
	err := db.pool.QueryRow(ctx,
		`INSERT INTO resumes (user_id) VALUES ($1)
		 ON CONFLICT (user_id) DO UPDATE SET user_id = EXCLUDED.user_id
		 RETURNING id, user_id, created_at`,
		userID,
	).Scan(&r.ID, &r.UserID, &r.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get or create resume: %w", err)
	}
	return &r, nil
}

// GetResumeByUser returns the resume of a user. Returns nil, nil when missing.
func (db *DB) GetResumeByUser(ctx context.Context, userID uuid.UUID) (*Resume, error) {
	var r Resume
	err := db.pool.QueryRow(ctx,
		`SELECT id, user_id, created_at FROM resumes WHERE user_id = $1`,
		userID,
	).Scan(&r.ID, &r.UserID, &r.CreatedAt)
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get resume: %w", err)
	}
	return &r, nil
}

// CreateResumeVersion stores a new PENDING version.
func (db *DB) CreateResumeVersion(ctx context.Context, in ResumeVersionInput) (*ResumeVersion, error) {
	v, err := scanVersion(db.pool.QueryRow(ctx,
		`INSERT INTO resume_versions AS v
		     (resume_id, storage_key, file_name, mime_type, size_bytes, file_hash, expires_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING `+versionColumns,
		in.ResumeID, in.StorageKey, in.FileName, in.MimeType, in.SizeBytes, in.FileHash, in.ExpiresAt,
	))
	if err != nil {
		return nil, fmt.Errorf("failed to create resume version: %w", err)
	}
	return v, nil
}

// FindResumeVersionByHash returns the version of resumeID with the given file hash.
func (db *DB) FindResumeVersionByHash(ctx context.Context, resumeID uuid.UUID, fileHash string) (*ResumeVersion, error) {
	return db.queryVersion(ctx, "resume version by hash",
		`SELECT `+versionColumns+` FROM resume_versions v
		 WHERE v.resume_id = $1 AND v.file_hash = $2`,
		resumeID, fileHash)
}

// GetResumeVersion retrieves a version by ID.
func (db *DB) GetResumeVersion(ctx context.Context, id uuid.UUID) (*ResumeVersion, error) {
	return db.queryVersion(ctx, "resume version",
		`SELECT `+versionColumns+` FROM resume_versions v WHERE v.id = $1`,
		id)
}

// UpdateResumeVersionStatus sets the status and parsed data of a version.
func (db *DB) UpdateResumeVersionStatus(ctx context.Context, id uuid.UUID, status string, parsedData []byte) error {
	tag, err := db.pool.Exec(ctx,
		`UPDATE resume_versions SET status = $2, parsed_data = $3 WHERE id = $1`,
		id, status, parsedData,
	)
	if err != nil {
		return fmt.Errorf("failed to update resume version: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("resume version not found: %s", id)
	}
	return nil
}

// ListResumeVersions returns the versions of a resume, newest first.
func (db *DB) ListResumeVersions(ctx context.Context, resumeID uuid.UUID) ([]ResumeVersion, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+versionColumns+` FROM resume_versions v
		 WHERE v.resume_id = $1
		 ORDER BY v.created_at DESC`,
		resumeID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list resume versions: %w", err)
	}
	defer rows.Close()

	versions := []ResumeVersion{}
	for rows.Next() {
		v, err := scanVersion(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan resume version: %w", err)
		}
		versions = append(versions, *v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list resume versions: %w", err)
	}
	return versions, nil
}

// LatestResumeVersion returns the newest version uploaded by a user.
func (db *DB) LatestResumeVersion(ctx context.Context, userID uuid.UUID) (*ResumeVersion, error) {
	return db.queryVersion(ctx, "latest resume version",
		`SELECT `+versionColumns+` FROM resume_versions v
		 JOIN resumes r ON r.id = v.resume_id
		 WHERE r.user_id = $1
		 ORDER BY v.created_at DESC
		 LIMIT 1`,
		userID)
}

// LatestParsedResumeVersion returns the newest PARSED version of a user.
func (db *DB) LatestParsedResumeVersion(ctx context.Context, userID uuid.UUID) (*ResumeVersion, error) {
	return db.queryVersion(ctx, "latest parsed resume version",
		`SELECT `+versionColumns+` FROM resume_versions v
		 JOIN resumes r ON r.id = v.resume_id
		 WHERE r.user_id = $1 AND v.status = 'PARSED'
		 ORDER BY v.created_at DESC
		 LIMIT 1`,
		userID)
}

// LatestAnalyzedResumeVersion returns the version used by the user's newest analysis.
func (db *DB) LatestAnalyzedResumeVersion(ctx context.Context, userID uuid.UUID) (*ResumeVersion, error) {
	return db.queryVersion(ctx, "latest analyzed resume version",
		`SELECT `+versionColumns+` FROM resume_versions v
		 JOIN analysis_results a ON a.resume_version_id = v.id
		 JOIN resumes r ON r.id = v.resume_id
		 WHERE r.user_id = $1
		 ORDER BY a.created_at DESC
		 LIMIT 1`,
		userID)
}

// DeleteResumeVersionsForUser removes every version of a user, with their
// analyses, and returns the storage keys of the removed files.
func (db *DB) DeleteResumeVersionsForUser(ctx context.Context, userID uuid.UUID) ([]string, error) {
	rows, err := db.pool.Query(ctx,
		`DELETE FROM resume_versions v
		 USING resumes r
		 WHERE r.id = v.resume_id AND r.user_id = $1
		 RETURNING v.storage_key`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to delete resume versions: %w", err)
	}
	keys, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to delete resume versions: %w", err)
	}
	return keys, nil
}
