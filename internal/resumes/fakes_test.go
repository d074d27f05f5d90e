package resumes

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/Kartik4138/Resume-enhancer/internal/db"
	"github.com/Kartik4138/Resume-enhancer/internal/queue"
	"github.com/Kartik4138/Resume-enhancer/internal/types"
)

// memoryStore is an in-memory Store.
type memoryStore struct {
	mu       sync.Mutex
	resumes  map[uuid.UUID]*db.Resume // by user
	versions map[uuid.UUID]*db.ResumeVersion
	analyses map[uuid.UUID][]db.AnalysisResult // by version
	analyzed uuid.UUID
	clock    time.Time
}

func newMemoryStore() *memoryStore {
	return &memoryStore{
		resumes:  make(map[uuid.UUID]*db.Resume),
		versions: make(map[uuid.UUID]*db.ResumeVersion),
		analyses: make(map[uuid.UUID][]db.AnalysisResult),
		clock:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (m *memoryStore) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func (m *memoryStore) GetOrCreateResume(_ context.Context, userID uuid.UUID) (*db.Resume, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if r, ok := m.resumes[userID]; ok {
		return r, nil
	}
	r := &db.Resume{ID: uuid.New(), UserID: userID, CreatedAt: m.tick()}
	m.resumes[userID] = r
	return r, nil
}

func (m *memoryStore) GetResumeByUser(_ context.Context, userID uuid.UUID) (*db.Resume, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resumes[userID], nil
}

func (m *memoryStore) CreateResumeVersion(_ context.Context, in db.ResumeVersionInput) (*db.ResumeVersion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v := &db.ResumeVersion{
		ID:         uuid.New(),
		ResumeID:   in.ResumeID,
		StorageKey: in.StorageKey,
		FileName:   in.FileName,
		MimeType:   in.MimeType,
		SizeBytes:  in.SizeBytes,
		FileHash:   in.FileHash,
		Status:     types.StatusPending,
		ExpiresAt:  in.ExpiresAt,
		CreatedAt:  m.tick(),
	}
	m.versions[v.ID] = v
	return v, nil
}

func (m *memoryStore) FindResumeVersionByHash(_ context.Context, resumeID uuid.UUID, fileHash string) (*db.ResumeVersion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, v := range m.versions {
		if v.ResumeID == resumeID && v.FileHash == fileHash {
			return v, nil
		}
	}
	return nil, nil
}

func (m *memoryStore) GetResumeVersion(_ context.Context, id uuid.UUID) (*db.ResumeVersion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.versions[id], nil
}

func (m *memoryStore) UpdateResumeVersionStatus(_ context.Context, id uuid.UUID, status string, parsedData []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.versions[id]
	if !ok {
		return fmt.Errorf("resume version not found: %s", id)
	}
	v.Status = status
	v.ParsedData = parsedData
	return nil
}

func (m *memoryStore) ListResumeVersions(_ context.Context, resumeID uuid.UUID) ([]db.ResumeVersion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []db.ResumeVersion{}
	for _, v := range m.versions {
		if v.ResumeID == resumeID {
			out = append(out, *v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memoryStore) ListAnalysesByVersion(_ context.Context, versionID uuid.UUID) ([]db.AnalysisResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.analyses[versionID], nil
}

func (m *memoryStore) latest(userID uuid.UUID) *db.ResumeVersion {
	r, ok := m.resumes[userID]
	if !ok {
		return nil
	}
	var newest *db.ResumeVersion
	for _, v := range m.versions {
		if v.ResumeID == r.ID && (newest == nil || v.CreatedAt.After(newest.CreatedAt)) {
			newest = v
		}
	}
	return newest
}

func (m *memoryStore) LatestResumeVersion(_ context.Context, userID uuid.UUID) (*db.ResumeVersion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.latest(userID), nil
}

func (m *memoryStore) LatestAnalyzedResumeVersion(_ context.Context, _ uuid.UUID) (*db.ResumeVersion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.versions[m.analyzed], nil
}

func (m *memoryStore) DeleteResumeVersionsForUser(_ context.Context, userID uuid.UUID) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.resumes[userID]
	if !ok {
		return nil, nil
	}
	var keys []string
	for id, v := range m.versions {
		if v.ResumeID == r.ID {
			keys = append(keys, v.StorageKey)
			delete(m.versions, id)
			delete(m.analyses, id)
		}
	}
	return keys, nil
}

// recordingDispatcher collects jobs instead of running them.
type recordingDispatcher struct {
	mu   sync.Mutex
	jobs []queue.ParseJob
	err  error
}

func (d *recordingDispatcher) Enqueue(_ context.Context, job queue.ParseJob) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.err != nil {
		return d.err
	}
	d.jobs = append(d.jobs, job)
	return nil
}

func (d *recordingDispatcher) Close() error { return nil }

var errQueueDown = errors.New("queue down")

// buildDocx returns a minimal DOCX file with one paragraph per line.
func buildDocx(t *testing.T, lines ...string) []byte {
	t.Helper()
	var body bytes.Buffer
	body.WriteString(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`)
	for _, line := range lines {
		body.WriteString(`<w:p><w:r><w:t xml:space="preserve">`)
		body.WriteString(line)
		body.WriteString(`</w:t></w:r></w:p>`)
	}
	body.WriteString(`</w:body></w:document>`)

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range map[string]string{
		"word/document.xml": body.String(),
		"word/_rels/document.xml.rels": `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
			`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`,
	} {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

var sampleResumeLines = []string{
	"Jane Doe",
	"Skills",
	"Go, Kubernetes, PostgreSQL, Docker",
	"Experience",
	"- Built payment services in Go on Kubernetes",
	"- Tuned PostgreSQL queries for reporting",
	"- Deployed services with Docker and Terraform",
	"Education",
	"BSc Computer Science",
}
