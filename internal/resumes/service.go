// Package resumes handles resume uploads, background parsing and version history.
package resumes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Kartik4138/Resume-enhancer/internal/db"
	"github.com/Kartik4138/Resume-enhancer/internal/ingestion"
	"github.com/Kartik4138/Resume-enhancer/internal/queue"
	"github.com/Kartik4138/Resume-enhancer/internal/storage"
	"github.com/Kartik4138/Resume-enhancer/internal/types"
)

// Upload messages
const (
	MessageQueued    = "Resume uploaded. Parsing in progress."
	MessageDuplicate = "Resume already uploaded"
)

// Store is the persistence used by the resume service and parser.
type Store interface {
	GetOrCreateResume(ctx context.Context, userID uuid.UUID) (*db.Resume, error)
	GetResumeByUser(ctx context.Context, userID uuid.UUID) (*db.Resume, error)
	CreateResumeVersion(ctx context.Context, in db.ResumeVersionInput) (*db.ResumeVersion, error)
	FindResumeVersionByHash(ctx context.Context, resumeID uuid.UUID, fileHash string) (*db.ResumeVersion, error)
	GetResumeVersion(ctx context.Context, id uuid.UUID) (*db.ResumeVersion, error)
	UpdateResumeVersionStatus(ctx context.Context, id uuid.UUID, status string, parsedData []byte) error
	ListResumeVersions(ctx context.Context, resumeID uuid.UUID) ([]db.ResumeVersion, error)
	ListAnalysesByVersion(ctx context.Context, versionID uuid.UUID) ([]db.AnalysisResult, error)
	LatestResumeVersion(ctx context.Context, userID uuid.UUID) (*db.ResumeVersion, error)
	LatestAnalyzedResumeVersion(ctx context.Context, userID uuid.UUID) (*db.ResumeVersion, error)
	DeleteResumeVersionsForUser(ctx context.Context, userID uuid.UUID) ([]string, error)
}

// Options configures upload behavior.
type Options struct {
	// KeepHistory keeps earlier versions when a new file is uploaded.
	KeepHistory bool
	// FileTTL sets an expiry on new versions. Zero means no expiry.
	FileTTL time.Duration
}

// Service implements the resume endpoints.
type Service struct {
	store   Store
	objects storage.ObjectStore
	queue   queue.Dispatcher
	opts    Options
	logger  *slog.Logger
	now     func() time.Time
}

// NewService creates a resume service.
func NewService(store Store, objects storage.ObjectStore, dispatcher queue.Dispatcher, opts Options, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		store:   store,
		objects: objects,
		queue:   dispatcher,
		opts:    opts,
		logger:  logger,
		now:     time.Now,
	}
}

// Upload stores a resume file as a new PENDING version and queues it for parsing.
// A file identical to an existing version of the resume returns that version.
func (s *Service) Upload(ctx context.Context, userID uuid.UUID, fileName string, data []byte) (*types.UploadResponse, error) {
	meta, err := ingestion.NewMetadata(fileName, data)
	if err != nil {
		return nil, err
	}

	if !s.opts.KeepHistory {
		if err := s.removeVersions(ctx, userID); err != nil {
			return nil, err
		}
	}

	resume, err := s.store.GetOrCreateResume(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load resume: %w", err)
	}

	existing, err := s.store.FindResumeVersionByHash(ctx, resume.ID, meta.Hash)
	if err != nil {
		return nil, fmt.Errorf("failed to check for duplicate upload: %w", err)
	}
	if existing != nil {
		return &types.UploadResponse{
			ResumeID:        resume.ID,
			ResumeVersionID: existing.ID,
			Status:          existing.Status,
			Message:         MessageDuplicate,
		}, nil
	}

	key, err := s.objects.Save(ctx, userID.String(), meta.FileName, meta.MimeType, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to store resume file: %w", err)
	}

	in := db.ResumeVersionInput{
		ResumeID:   resume.ID,
		StorageKey: key,
		FileName:   meta.FileName,
		MimeType:   meta.MimeType,
		SizeBytes:  meta.SizeBytes,
		FileHash:   meta.Hash,
	}
	if s.opts.FileTTL > 0 {
		expiresAt := s.now().Add(s.opts.FileTTL)
		in.ExpiresAt = &expiresAt
	}
	version, err := s.store.CreateResumeVersion(ctx, in)
	if err != nil {
		if delErr := s.objects.Delete(ctx, key); delErr != nil {
			s.logger.WarnContext(ctx, "failed to remove orphaned file", "storage_key", key, "error", delErr)
		}
		return nil, fmt.Errorf("failed to create resume version: %w", err)
	}

	if err := s.queue.Enqueue(ctx, queue.ParseJob{ResumeVersionID: version.ID}); err != nil {
		failed := failedDocument(fmt.Sprintf("failed to queue parsing: %v", err))
		if updErr := s.store.UpdateResumeVersionStatus(ctx, version.ID, types.StatusFailed, failed); updErr != nil {
			s.logger.ErrorContext(ctx, "failed to mark version failed", "resume_version_id", version.ID, "error", updErr)
		}
		return nil, fmt.Errorf("failed to queue resume parsing: %w", err)
	}

	s.logger.InfoContext(ctx, "resume uploaded",
		"user_id", userID,
		"resume_version_id", version.ID,
		"size_bytes", meta.SizeBytes)

	return &types.UploadResponse{
		ResumeID:        resume.ID,
		ResumeVersionID: version.ID,
		Status:          version.Status,
		Message:         MessageQueued,
	}, nil
}

// removeVersions deletes every version of the user's resume and their files.
func (s *Service) removeVersions(ctx context.Context, userID uuid.UUID) error {
	keys, err := s.store.DeleteResumeVersionsForUser(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to remove previous versions: %w", err)
	}
	for _, key := range keys {
		if err := s.objects.Delete(ctx, key); err != nil {
			s.logger.WarnContext(ctx, "failed to delete previous resume file", "storage_key", key, "error", err)
		}
	}
	return nil
}

// History lists the user's resume versions, newest first, with their analyses.
func (s *Service) History(ctx context.Context, userID uuid.UUID) (*types.ResumeHistoryResponse, error) {
	resume, err := s.store.GetResumeByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load resume: %w", err)
	}
	if resume == nil {
		return nil, ErrNotFound
	}

	versions, err := s.store.ListResumeVersions(ctx, resume.ID)
	if err != nil {
		return nil, err
	}

	resp := &types.ResumeHistoryResponse{
		ResumeID: resume.ID,
		History:  make([]types.ResumeVersionHistory, 0, len(versions)),
	}
	for _, v := range versions {
		analyses, err := s.store.ListAnalysesByVersion(ctx, v.ID)
		if err != nil {
			return nil, err
		}
		items := make([]types.AnalysisHistoryItem, 0, len(analyses))
		for _, a := range analyses {
			item := types.AnalysisHistoryItem{
				JobDescriptionID: a.JobDescriptionID,
				FinalScore:       a.FinalScore,
				CreatedAt:        a.CreatedAt,
			}
			if len(a.Breakdown) > 0 {
				if err := json.Unmarshal(a.Breakdown, &item.Breakdown); err != nil {
					return nil, fmt.Errorf("failed to decode score breakdown: %w", err)
				}
			}
			items = append(items, item)
		}
		resp.History = append(resp.History, types.ResumeVersionHistory{
			ResumeVersionID: v.ID,
			Status:          v.Status,
			CreatedAt:       v.CreatedAt,
			Analyses:        items,
		})
	}
	return resp, nil
}

// File is an open stored resume file. The caller closes Body.
type File struct {
	Version *db.ResumeVersion
	Body    io.ReadCloser
}

// LatestAnalyzedFile opens the file of the version used by the newest analysis.
func (s *Service) LatestAnalyzedFile(ctx context.Context, userID uuid.UUID) (*File, error) {
	version, err := s.store.LatestAnalyzedResumeVersion(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.open(ctx, version)
}

// LatestFile opens the file of the newest uploaded version.
func (s *Service) LatestFile(ctx context.Context, userID uuid.UUID) (*File, error) {
	version, err := s.store.LatestResumeVersion(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.open(ctx, version)
}

func (s *Service) open(ctx context.Context, version *db.ResumeVersion) (*File, error) {
	if version == nil {
		return nil, ErrNotFound
	}
	body, err := s.objects.Open(ctx, version.StorageKey)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrInvalidKey) {
			return nil, ErrFileMissing
		}
		return nil, fmt.Errorf("failed to open resume file: %w", err)
	}
	return &File{Version: version, Body: body}, nil
}

// DecodeParsed returns the parsed document stored on a version.
func DecodeParsed(version *db.ResumeVersion) (*types.ParsedResume, error) {
	if len(version.ParsedData) == 0 {
		return nil, fmt.Errorf("resume version %s has no parsed data", version.ID)
	}
	var parsed types.ParsedResume
	if err := json.Unmarshal(version.ParsedData, &parsed); err != nil {
		return nil, fmt.Errorf("failed to decode parsed resume: %w", err)
	}
	return &parsed, nil
}

func failedDocument(msg string) []byte {
	data, _ := json.Marshal(map[string]string{"error": msg})
	return data
}
