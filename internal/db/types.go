package db

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// User is an account identified by email.
type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// EmailOTP is a hashed one-time login code.
type EmailOTP struct {
	ID        uuid.UUID
	Email     string
	OTPHash   string
	ExpiresAt time.Time
	Used      bool
	CreatedAt time.Time
}

// RefreshToken is the stored digest of an issued refresh token.
type RefreshToken struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	TokenHash string
	ExpiresAt time.Time
	Revoked   bool
	CreatedAt time.Time
}

// Resume is the single resume record of a user.
type Resume struct {
	ID        uuid.UUID `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// ResumeVersion is one uploaded file of a resume.
type ResumeVersion struct {
	ID         uuid.UUID       `json:"id"`
	ResumeID   uuid.UUID       `json:"resume_id"`
	StorageKey string          `json:"storage_key"`
	FileName   string          `json:"file_name"`
	MimeType   string          `json:"mime_type"`
	SizeBytes  int64           `json:"size_bytes"`
	FileHash   string          `json:"file_hash"`
	ParsedData json.RawMessage `json:"parsed_data,omitempty"`
	Status     string          `json:"status"`
	ExpiresAt  *time.Time      `json:"expires_at,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// ResumeVersionInput holds the fields of a new version.
type ResumeVersionInput struct {
	ResumeID   uuid.UUID
	StorageKey string
	FileName   string
	MimeType   string
	SizeBytes  int64
	FileHash   string
	ExpiresAt  *time.Time
}

// JobDescription is pasted job text with its analysis.
type JobDescription struct {
	ID           uuid.UUID       `json:"id"`
	UserID       uuid.UUID       `json:"user_id"`
	Content      string          `json:"content"`
	ContentHash  string          `json:"content_hash"`
	AnalyzedData json.RawMessage `json:"analyzed_data,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// AnalysisResult is the score of one resume version against one job description.
type AnalysisResult struct {
	ID               uuid.UUID       `json:"id"`
	ResumeVersionID  uuid.UUID       `json:"resume_version_id"`
	JobDescriptionID uuid.UUID       `json:"job_description_id"`
	FinalScore       int             `json:"final_score"`
	Breakdown        json.RawMessage `json:"breakdown"`
	Result           json.RawMessage `json:"result"`
	CreatedAt        time.Time       `json:"created_at"`
}

// ExpiredVersion identifies a resume version whose file has expired.
type ExpiredVersion struct {
	ID         uuid.UUID
	StorageKey string
}
