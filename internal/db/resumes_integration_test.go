package db

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newVersionInput(resumeID uuid.UUID, hash string) ResumeVersionInput {
	return ResumeVersionInput{
		ResumeID:   resumeID,
		StorageKey: "key-" + hash,
		FileName:   "resume.pdf",
		MimeType:   "application/pdf",
		SizeBytes:  1234,
		FileHash:   hash,
	}
}

func TestIntegration_ResumeVersions(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	user := createTestUser(t, db)

	none, err := db.GetResumeByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Nil(t, none)

	resume, err := db.GetOrCreateResume(ctx, user.ID)
	require.NoError(t, err)
	again, err := db.GetOrCreateResume(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, resume.ID, again.ID)

	v1, err := db.CreateResumeVersion(ctx, newVersionInput(resume.ID, "hash-a"))
	require.NoError(t, err)
	assert.Equal(t, "PENDING", v1.Status)
	assert.Nil(t, v1.ParsedData)

	_, err = db.CreateResumeVersion(ctx, newVersionInput(resume.ID, "hash-a"))
	assert.Error(t, err, "duplicate hash must violate the unique constraint")

	found, err := db.FindResumeVersionByHash(ctx, resume.ID, "hash-a")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, v1.ID, found.ID)

	latestParsed, err := db.LatestParsedResumeVersion(ctx, user.ID)
	require.NoError(t, err)
	assert.Nil(t, latestParsed)

	require.NoError(t, db.UpdateResumeVersionStatus(ctx, v1.ID, "PARSED", []byte(`{"cleaned_text":"go"}`)))
	got, err := db.GetResumeVersion(ctx, v1.ID)
	require.NoError(t, err)
	assert.Equal(t, "PARSED", got.Status)
	assert.JSONEq(t, `{"cleaned_text":"go"}`, string(got.ParsedData))

	time.Sleep(10 * time.Millisecond)
	v2, err := db.CreateResumeVersion(ctx, newVersionInput(resume.ID, "hash-b"))
	require.NoError(t, err)

	latest, err := db.LatestResumeVersion(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, v2.ID, latest.ID)

	latestParsed, err = db.LatestParsedResumeVersion(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, v1.ID, latestParsed.ID)

	list, err := db.ListResumeVersions(ctx, resume.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, v2.ID, list[0].ID, "newest first")

	keys, err := db.DeleteResumeVersionsForUser(ctx, user.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"key-hash-a", "key-hash-b"}, keys)

	err = db.UpdateResumeVersionStatus(ctx, v1.ID, "FAILED", nil)
	assert.Error(t, err)
}

func TestIntegration_AnalysesAndJobDescriptions(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	user := createTestUser(t, db)

	resume, err := db.GetOrCreateResume(ctx, user.ID)
	require.NoError(t, err)
	version, err := db.CreateResumeVersion(ctx, newVersionInput(resume.ID, "hash-x"))
	require.NoError(t, err)

	missing, err := db.LatestAnalyzedJobDescription(ctx, user.ID)
	require.NoError(t, err)
	assert.Nil(t, missing)

	jd, err := db.CreateJobDescription(ctx, user.ID, "content", "jd-hash", []byte(`{"skills":[]}`))
	require.NoError(t, err)

	dup, err := db.CreateJobDescription(ctx, user.ID, "content", "jd-hash", []byte(`{"skills":[{"name":"go","confidence":1}]}`))
	require.NoError(t, err)
	assert.Equal(t, jd.ID, dup.ID)
	assert.JSONEq(t, `{"skills":[]}`, string(dup.AnalyzedData), "first analysis is kept")

	byHash, err := db.FindJobDescriptionByHash(ctx, user.ID, "jd-hash")
	require.NoError(t, err)
	require.NotNil(t, byHash)

	latestJD, err := db.LatestAnalyzedJobDescription(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, jd.ID, latestJD.ID)

	first, err := db.UpsertAnalysisResult(ctx, version.ID, jd.ID, 70, []byte(`{"skills":30}`), []byte(`{}`))
	require.NoError(t, err)
	second, err := db.UpsertAnalysisResult(ctx, version.ID, jd.ID, 80, []byte(`{"skills":40}`), []byte(`{}`))
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "upsert keeps one row per pair")
	assert.Equal(t, 80, second.FinalScore)

	analyses, err := db.ListAnalysesByVersion(ctx, version.ID)
	require.NoError(t, err)
	require.Len(t, analyses, 1)

	analyzed, err := db.LatestAnalyzedResumeVersion(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, analyzed)
	assert.Equal(t, version.ID, analyzed.ID)
}

func TestIntegration_CleanupAndCache(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	user := createTestUser(t, db)
	now := time.Now()

	resume, err := db.GetOrCreateResume(ctx, user.ID)
	require.NoError(t, err)
	in := newVersionInput(resume.ID, "hash-exp")
	past := now.Add(-time.Minute)
	in.ExpiresAt = &past
	expired, err := db.CreateResumeVersion(ctx, in)
	require.NoError(t, err)
	_, err = db.CreateResumeVersion(ctx, newVersionInput(resume.ID, "hash-keep"))
	require.NoError(t, err)

	list, err := db.ListExpiredResumeVersions(ctx, now)
	require.NoError(t, err)
	var ids []uuid.UUID
	for _, v := range list {
		ids = append(ids, v.ID)
	}
	assert.Contains(t, ids, expired.ID)

	n, err := db.DeleteResumeVersions(ctx, []uuid.UUID{expired.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = db.DeleteResumeVersions(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, n)

	key := "score:" + uuid.New().String()
	require.NoError(t, db.SetCacheEntry(ctx, key, []byte(`{"final_ats_score":50}`), now.Add(time.Hour)))
	value, err := db.GetCacheEntry(ctx, key, now)
	require.NoError(t, err)
	assert.JSONEq(t, `{"final_ats_score":50}`, string(value))

	value, err = db.GetCacheEntry(ctx, key, now.Add(2*time.Hour))
	require.NoError(t, err)
	assert.Nil(t, value, "stale entries are misses")

	_, err = db.DeleteExpiredCacheEntries(ctx, now.Add(2*time.Hour))
	require.NoError(t, err)
	value, err = db.GetCacheEntry(ctx, key, now)
	require.NoError(t, err)
	assert.Nil(t, value)
}
