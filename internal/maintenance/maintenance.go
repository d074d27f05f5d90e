// Package maintenance removes expired and stale records on a schedule.
package maintenance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Kartik4138/Resume-enhancer/internal/db"
	"github.com/Kartik4138/Resume-enhancer/internal/storage"
)

// Defaults
const (
	DefaultInterval  = 10 * time.Minute
	DefaultRetention = 30 * 24 * time.Hour
)

// Store is the persistence used by Cleaner.
type Store interface {
	DeleteExpiredOTPs(ctx context.Context, now time.Time) (int64, error)
	DeleteExpiredRefreshTokens(ctx context.Context, now time.Time) (int64, error)
	ListExpiredResumeVersions(ctx context.Context, now time.Time) ([]db.ExpiredVersion, error)
	DeleteResumeVersions(ctx context.Context, ids []uuid.UUID) (int64, error)
	DeleteAnalysesBefore(ctx context.Context, cutoff time.Time) (int64, error)
	DeleteJobDescriptionsBefore(ctx context.Context, cutoff time.Time) (int64, error)
	DeleteExpiredCacheEntries(ctx context.Context, now time.Time) (int64, error)
}

// Report counts the rows removed by one pass.
type Report struct {
	OTPs           int64 `json:"otps"`
	RefreshTokens  int64 `json:"refresh_tokens"`
	ResumeVersions int64 `json:"resume_versions"`
	Files          int   `json:"files"`
	Analyses       int64 `json:"analyses"`
	JobDescs       int64 `json:"job_descriptions"`
	CacheEntries   int64 `json:"cache_entries"`
}

// Cleaner runs retention cleanup.
type Cleaner struct {
	store     Store
	objects   storage.ObjectStore
	retention time.Duration
	logger    *slog.Logger
	now       func() time.Time
}

// NewCleaner creates a cleaner. A non-positive retention takes DefaultRetention.
func NewCleaner(store Store, objects storage.ObjectStore, retention time.Duration, logger *slog.Logger) *Cleaner {
	if retention <= 0 {
		retention = DefaultRetention
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Cleaner{store: store, objects: objects, retention: retention, logger: logger, now: time.Now}
}

// RunOnce performs a single cleanup pass. Steps are independent: a failing
// step is logged and the remaining steps still run. Errors are joined.
func (c *Cleaner) RunOnce(ctx context.Context) (Report, error) {
	now := c.now().UTC()
	cutoff := now.Add(-c.retention)
	var report Report
	var errs []error

	step := func(name string, fn func() error) {
		if err := fn(); err != nil {
			c.logger.ErrorContext(ctx, "cleanup step failed", "step", name, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}

	step("otps", func() (err error) {
		report.OTPs, err = c.store.DeleteExpiredOTPs(ctx, now)
		return err
	})
	step("refresh_tokens", func() (err error) {
		report.RefreshTokens, err = c.store.DeleteExpiredRefreshTokens(ctx, now)
		return err
	})
	step("resume_files", func() error {
		return c.removeExpiredVersions(ctx, now, &report)
	})
	step("analyses", func() (err error) {
		report.Analyses, err = c.store.DeleteAnalysesBefore(ctx, cutoff)
		return err
	})
	step("job_descriptions", func() (err error) {
		report.JobDescs, err = c.store.DeleteJobDescriptionsBefore(ctx, cutoff)
		return err
	})
	step("score_cache", func() (err error) {
		report.CacheEntries, err = c.store.DeleteExpiredCacheEntries(ctx, now)
		return err
	})

	c.logger.InfoContext(ctx, "cleanup finished",
		"otps", report.OTPs,
		"refresh_tokens", report.RefreshTokens,
		"resume_versions", report.ResumeVersions,
		"files", report.Files,
		"analyses", report.Analyses,
		"job_descriptions", report.JobDescs,
		"cache_entries", report.CacheEntries)
	return report, errors.Join(errs...)
}

// removeExpiredVersions deletes the files of expired versions, then the rows.
// A file that cannot be deleted is logged and its row is removed anyway.
func (c *Cleaner) removeExpiredVersions(ctx context.Context, now time.Time, report *Report) error {
	expired, err := c.store.ListExpiredResumeVersions(ctx, now)
	if err != nil {
		return err
	}
	if len(expired) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, 0, len(expired))
	for _, v := range expired {
		ids = append(ids, v.ID)
		if v.StorageKey == "" {
			continue
		}
		if err := c.objects.Delete(ctx, v.StorageKey); err != nil {
			c.logger.WarnContext(ctx, "failed to delete expired resume file", "storage_key", v.StorageKey, "error", err)
			continue
		}
		report.Files++
	}
	report.ResumeVersions, err = c.store.DeleteResumeVersions(ctx, ids)
	return err
}

// Run calls RunOnce immediately and then every interval until ctx is done.
func (c *Cleaner) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if _, err := c.RunOnce(ctx); err != nil && ctx.Err() == nil {
			c.logger.ErrorContext(ctx, "cleanup pass failed", "error", err)
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
