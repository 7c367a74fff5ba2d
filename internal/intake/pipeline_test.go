package intake

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/muhammadolammi/resumeintake/internal/config"
	"github.com/muhammadolammi/resumeintake/internal/extractor"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const resumeText = "Jane Doe\njane.doe@example.com\nSoftware developer with 5 years of experience in Python, React.\n"

func newTestPipeline(t *testing.T, cfg config.Extraction) *Pipeline {
	t.Helper()
	p, err := FromConfig(cfg, nil)
	require.NoError(t, err)
	return p
}

func TestAnalyzeBytes_TXT(t *testing.T) {
	p := newTestPipeline(t, config.Extraction{MaxUploadMB: 10})

	a := p.AnalyzeBytes(context.Background(), "jane.txt", []byte(resumeText))

	require.True(t, a.OK(), a.Error)
	assert.Equal(t, "jane.txt", a.FileName)
	assert.Equal(t, extractor.FormatTXT, a.Document.Format)
	assert.Equal(t, "Jane Doe", a.Resume.Name)
	assert.Equal(t, 5, a.Resume.YearsOfExperience)
	assert.Subset(t, a.Resume.AllSkills, []string{"Python", "React"})
}

func TestAnalyzeBytes_ExtractionFailure(t *testing.T) {
	p := newTestPipeline(t, config.Extraction{MaxUploadMB: 10})

	a := p.AnalyzeBytes(context.Background(), "resume.rtf", []byte(resumeText))

	assert.False(t, a.OK())
	assert.Nil(t, a.Resume)
	assert.Equal(t, extractor.KindUnsupportedFormat, a.ErrorKind)
	assert.Contains(t, a.Error, "rtf")
}

func TestAnalyzeBytes_ParseFailure(t *testing.T) {
	p := newTestPipeline(t, config.Extraction{MaxUploadMB: 10})

	a := p.AnalyzeBytes(context.Background(), "short.txt", []byte("  Hi  "))

	assert.False(t, a.OK())
	require.NotNil(t, a.Resume)
	assert.Contains(t, a.Resume.ErrorMessage, "too short")
}

func TestAnalyzeFile_WithSkillsFile(t *testing.T) {
	dir := t.TempDir()
	skills := filepath.Join(dir, "skills.yaml")
	require.NoError(t, os.WriteFile(skills, []byte("- name: infra\n  skills: [Nomad]\n"), 0644))
	resume := filepath.Join(dir, "ops.txt")
	require.NoError(t, os.WriteFile(resume, []byte("Sam Rivera\nOperated Nomad clusters for 3 years of experience.\n"), 0644))

	p := newTestPipeline(t, config.Extraction{SkillsFile: skills, MaxUploadMB: 10})
	a := p.AnalyzeFile(context.Background(), resume)

	require.True(t, a.OK(), a.Error)
	assert.Equal(t, map[string][]string{"infra": {"Nomad"}}, a.Resume.Skills)
}

func TestAnalyzeFile_Missing(t *testing.T) {
	p := newTestPipeline(t, config.Extraction{MaxUploadMB: 10})

	a := p.AnalyzeFile(context.Background(), filepath.Join(t.TempDir(), "gone.pdf"))

	assert.Equal(t, extractor.KindFileNotFound, a.ErrorKind)
}

func TestFromConfig_BadSkillsFile(t *testing.T) {
	_, err := FromConfig(config.Extraction{SkillsFile: filepath.Join(t.TempDir(), "nope.yaml")}, nil)
	assert.Error(t, err)
}
