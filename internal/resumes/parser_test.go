package resumes

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kartik4138/Resume-enhancer/internal/formatting"
	"github.com/Kartik4138/Resume-enhancer/internal/queue"
	"github.com/Kartik4138/Resume-enhancer/internal/types"
)

func skillNames(skills []types.Skill) []string {
	names := make([]string, 0, len(skills))
	for _, s := range skills {
		names = append(names, s.Name)
	}
	return names
}

func TestParser_Handle(t *testing.T) {
	env := newTestEnv(t, Options{})
	ctx := context.Background()

	resp, err := env.service.Upload(ctx, uuid.New(), "resume.docx", buildDocx(t, sampleResumeLines...))
	require.NoError(t, err)

	require.NoError(t, env.parser.Handle(ctx, env.dispatcher.jobs[0]))

	version := env.store.versions[resp.ResumeVersionID]
	assert.Equal(t, types.StatusParsed, version.Status)

	parsed, err := DecodeParsed(version)
	require.NoError(t, err)
	assert.Contains(t, parsed.RawText, "Jane Doe")
	assert.Contains(t, parsed.CleanedText, "jane doe")
	assert.True(t, parsed.SectionsDetected[types.SectionSkills])
	assert.True(t, parsed.SectionsDetected[types.SectionEducation])
	assert.False(t, parsed.SectionsDetected[types.SectionCertifications])
	assert.Empty(t, parsed.MissingSections)
	assert.Equal(t, 3, parsed.Formatting.BulletCount)
	assert.Contains(t, skillNames(parsed.Skills), "kubernetes")
	assert.Empty(t, parsed.Error)

	// A second delivery of the same job is ignored.
	require.NoError(t, env.parser.Handle(ctx, env.dispatcher.jobs[0]))
	assert.Equal(t, types.StatusParsed, env.store.versions[resp.ResumeVersionID].Status)
}

func TestParser_Handle_UnknownVersion(t *testing.T) {
	env := newTestEnv(t, Options{})
	assert.NoError(t, env.parser.Handle(context.Background(), queue.ParseJob{ResumeVersionID: uuid.New()}))
}

func TestParser_Handle_CorruptFile(t *testing.T) {
	env := newTestEnv(t, Options{})
	ctx := context.Background()

	resp, err := env.service.Upload(ctx, uuid.New(), "resume.pdf", []byte("not a pdf"))
	require.NoError(t, err)

	err = env.parser.Handle(ctx, env.dispatcher.jobs[0])
	require.Error(t, err)

	version := env.store.versions[resp.ResumeVersionID]
	assert.Equal(t, types.StatusFailed, version.Status)
	parsed, err := DecodeParsed(version)
	require.NoError(t, err)
	assert.NotEmpty(t, parsed.Error)
}

func TestParser_Analyze_MissingSections(t *testing.T) {
	env := newTestEnv(t, Options{})

	parsed, err := env.parser.Analyze(context.Background(), "Jane Doe\nSkills\nGo and Kubernetes")
	require.NoError(t, err)

	assert.Equal(t, []string{types.SectionExperience, types.SectionEducation}, parsed.MissingSections)

	keys := make([]string, 0, len(parsed.FormattingViolations))
	for _, v := range parsed.FormattingViolations {
		keys = append(keys, v.RuleKey)
	}
	assert.Contains(t, keys, formatting.RuleNoBullets)
	assert.Contains(t, keys, formatting.MissingSectionKey(types.SectionExperience))
	assert.Contains(t, keys, formatting.MissingSectionKey(types.SectionEducation))
}
