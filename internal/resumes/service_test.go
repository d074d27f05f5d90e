package resumes

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kartik4138/Resume-enhancer/internal/db"
	"github.com/Kartik4138/Resume-enhancer/internal/storage"
	"github.com/Kartik4138/Resume-enhancer/internal/types"
)

type testEnv struct {
	store      *memoryStore
	objects    *storage.LocalStore
	dir        string
	dispatcher *recordingDispatcher
	service    *Service
	parser     *Parser
}

func newTestEnv(t *testing.T, opts Options) *testEnv {
	t.Helper()
	dir := t.TempDir()
	objects := storage.NewLocalStore(dir)
	logger := slog.New(slog.DiscardHandler)
	store := newMemoryStore()
	dispatcher := &recordingDispatcher{}
	return &testEnv{
		store:      store,
		objects:    objects,
		dir:        dir,
		dispatcher: dispatcher,
		service:    NewService(store, objects, dispatcher, opts, logger),
		parser:     NewParser(store, objects, nil, logger),
	}
}

func TestService_Upload(t *testing.T) {
	env := newTestEnv(t, Options{})
	ctx := context.Background()
	userID := uuid.New()

	resp, err := env.service.Upload(ctx, userID, "resume.docx", buildDocx(t, sampleResumeLines...))
	require.NoError(t, err)
	assert.Equal(t, types.StatusPending, resp.Status)
	assert.Equal(t, MessageQueued, resp.Message)

	require.Len(t, env.dispatcher.jobs, 1)
	assert.Equal(t, resp.ResumeVersionID, env.dispatcher.jobs[0].ResumeVersionID)

	version := env.store.versions[resp.ResumeVersionID]
	require.NotNil(t, version)
	assert.Equal(t, "resume.docx", version.FileName)
	assert.Nil(t, version.ExpiresAt)

	body, err := env.objects.Open(ctx, version.StorageKey)
	require.NoError(t, err)
	defer body.Close()
	data, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, version.SizeBytes, int64(len(data)))
}

func TestService_Upload_Rejections(t *testing.T) {
	env := newTestEnv(t, Options{})
	ctx := context.Background()

	_, err := env.service.Upload(ctx, uuid.New(), "resume.txt", []byte("plain text"))
	assert.ErrorIs(t, err, ErrUnsupportedFileType)

	_, err = env.service.Upload(ctx, uuid.New(), "resume.pdf", nil)
	assert.ErrorIs(t, err, ErrEmptyFile)

	assert.Empty(t, env.store.versions)
	assert.Empty(t, env.dispatcher.jobs)
}

func TestService_Upload_ReplacesPreviousVersions(t *testing.T) {
	env := newTestEnv(t, Options{})
	ctx := context.Background()
	userID := uuid.New()

	first, err := env.service.Upload(ctx, userID, "old.docx", buildDocx(t, "Old resume"))
	require.NoError(t, err)
	oldKey := env.store.versions[first.ResumeVersionID].StorageKey

	second, err := env.service.Upload(ctx, userID, "new.docx", buildDocx(t, "New resume"))
	require.NoError(t, err)

	assert.Equal(t, first.ResumeID, second.ResumeID)
	assert.NotContains(t, env.store.versions, first.ResumeVersionID)
	assert.Contains(t, env.store.versions, second.ResumeVersionID)

	_, err = env.objects.Open(ctx, oldKey)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestService_Upload_DuplicateWithHistory(t *testing.T) {
	env := newTestEnv(t, Options{KeepHistory: true, FileTTL: time.Hour})
	ctx := context.Background()
	userID := uuid.New()
	data := buildDocx(t, sampleResumeLines...)

	first, err := env.service.Upload(ctx, userID, "resume.docx", data)
	require.NoError(t, err)
	require.NotNil(t, env.store.versions[first.ResumeVersionID].ExpiresAt)

	again, err := env.service.Upload(ctx, userID, "renamed.docx", data)
	require.NoError(t, err)
	assert.Equal(t, first.ResumeVersionID, again.ResumeVersionID)
	assert.Equal(t, MessageDuplicate, again.Message)
	assert.Len(t, env.dispatcher.jobs, 1)
}

func TestService_Upload_QueueFailure(t *testing.T) {
	env := newTestEnv(t, Options{})
	env.dispatcher.err = errQueueDown

	_, err := env.service.Upload(context.Background(), uuid.New(), "resume.docx", buildDocx(t, "Resume"))
	require.ErrorIs(t, err, errQueueDown)

	require.Len(t, env.store.versions, 1)
	for _, v := range env.store.versions {
		assert.Equal(t, types.StatusFailed, v.Status)
		assert.JSONEq(t, `{"error":"failed to queue parsing: queue down"}`, string(v.ParsedData))
	}
}

func TestService_History(t *testing.T) {
	env := newTestEnv(t, Options{KeepHistory: true})
	ctx := context.Background()
	userID := uuid.New()

	_, err := env.service.History(ctx, userID)
	assert.ErrorIs(t, err, ErrNotFound)

	first, err := env.service.Upload(ctx, userID, "a.docx", buildDocx(t, "First"))
	require.NoError(t, err)
	second, err := env.service.Upload(ctx, userID, "b.docx", buildDocx(t, "Second"))
	require.NoError(t, err)

	breakdown, err := json.Marshal(types.ScoreBreakdown{Skills: 30, Experience: 20})
	require.NoError(t, err)
	jdID := uuid.New()
	env.store.analyses[first.ResumeVersionID] = []db.AnalysisResult{{
		ID:               uuid.New(),
		ResumeVersionID:  first.ResumeVersionID,
		JobDescriptionID: jdID,
		FinalScore:       50,
		Breakdown:        breakdown,
	}}

	history, err := env.service.History(ctx, userID)
	require.NoError(t, err)
	require.Len(t, history.History, 2)
	assert.Equal(t, second.ResumeVersionID, history.History[0].ResumeVersionID)
	assert.Empty(t, history.History[0].Analyses)

	require.Len(t, history.History[1].Analyses, 1)
	item := history.History[1].Analyses[0]
	assert.Equal(t, jdID, item.JobDescriptionID)
	assert.Equal(t, 50, item.FinalScore)
	assert.InDelta(t, 30, item.Breakdown.Skills, 0.001)
}

func TestService_LatestFiles(t *testing.T) {
	env := newTestEnv(t, Options{})
	ctx := context.Background()
	userID := uuid.New()

	_, err := env.service.LatestFile(ctx, userID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = env.service.LatestAnalyzedFile(ctx, userID)
	assert.ErrorIs(t, err, ErrNotFound)

	resp, err := env.service.Upload(ctx, userID, "resume.docx", buildDocx(t, "Resume"))
	require.NoError(t, err)
	env.store.analyzed = resp.ResumeVersionID

	file, err := env.service.LatestFile(ctx, userID)
	require.NoError(t, err)
	require.NoError(t, file.Body.Close())
	assert.Equal(t, "resume.docx", file.Version.FileName)

	file, err = env.service.LatestAnalyzedFile(ctx, userID)
	require.NoError(t, err)
	require.NoError(t, file.Body.Close())

	key := env.store.versions[resp.ResumeVersionID].StorageKey
	require.NoError(t, os.Remove(filepath.Join(env.dir, filepath.FromSlash(key))))
	_, err = env.service.LatestFile(ctx, userID)
	assert.ErrorIs(t, err, ErrFileMissing)
}
