package jobs

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kartik4138/Resume-enhancer/internal/db"
	"github.com/Kartik4138/Resume-enhancer/internal/nlp"
	"github.com/Kartik4138/Resume-enhancer/internal/types"
)

type memoryStore struct {
	mu      sync.Mutex
	rows    map[string]*db.JobDescription
	creates int
}

func newMemoryStore() *memoryStore {
	return &memoryStore{rows: make(map[string]*db.JobDescription)}
}

func (m *memoryStore) FindJobDescriptionByHash(_ context.Context, userID uuid.UUID, contentHash string) (*db.JobDescription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rows[userID.String()+contentHash], nil
}

func (m *memoryStore) CreateJobDescription(_ context.Context, userID uuid.UUID, content, contentHash string, analyzedData []byte) (*db.JobDescription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.creates++
	jd := &db.JobDescription{
		ID:           uuid.New(),
		UserID:       userID,
		Content:      content,
		ContentHash:  contentHash,
		AnalyzedData: analyzedData,
		CreatedAt:    time.Now(),
	}
	m.rows[userID.String()+contentHash] = jd
	return jd, nil
}

const sampleJD = `<h2>Backend Engineer</h2>
<p>Kubernetes experience is required. You will run Kubernetes clusters and write Go services.</p>
<ul><li>PostgreSQL is a must</li></ul>`

func names(skills []types.JDSkill) []string {
	out := make([]string, 0, len(skills))
	for _, s := range skills {
		out = append(out, s.Name)
	}
	return out
}

func TestService_Analyze(t *testing.T) {
	store := newMemoryStore()
	svc := NewService(store, nil, slog.New(slog.DiscardHandler))
	ctx := context.Background()
	userID := uuid.New()

	resp, err := svc.Analyze(ctx, userID, sampleJD)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, resp.JobDescriptionID)
	assert.Contains(t, names(resp.Skills), "kubernetes")

	for _, s := range resp.Skills {
		if s.Name == "kubernetes" {
			assert.InDelta(t, 0.9, s.Confidence, 0.001)
		}
	}

	// Stored content is the cleaned text.
	for _, row := range store.rows {
		assert.NotContains(t, row.Content, "<p>")
	}

	again, err := svc.Analyze(ctx, userID, sampleJD)
	require.NoError(t, err)
	assert.Equal(t, resp.JobDescriptionID, again.JobDescriptionID)
	assert.Equal(t, resp.Skills, again.Skills)
	assert.Equal(t, 1, store.creates)

	// Another user gets their own record.
	other, err := svc.Analyze(ctx, uuid.New(), sampleJD)
	require.NoError(t, err)
	assert.NotEqual(t, resp.JobDescriptionID, other.JobDescriptionID)
}

func TestService_Analyze_Blank(t *testing.T) {
	svc := NewService(newMemoryStore(), nil, nil)
	for _, content := range []string{"", "   ", "\n\t"} {
		_, err := svc.Analyze(context.Background(), uuid.New(), content)
		assert.ErrorIs(t, err, ErrEmptyDescription)
	}
}

func TestExtract_NeverNil(t *testing.T) {
	analysis := Extract(nlp.NewDefaultPipeline(), "the and of")
	assert.NotNil(t, analysis.Skills)
	assert.Empty(t, analysis.Skills)
}
