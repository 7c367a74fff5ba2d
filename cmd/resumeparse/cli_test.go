package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/muhammadolammi/resumeintake/internal/config"
	"github.com/muhammadolammi/resumeintake/internal/intake"
	"github.com/muhammadolammi/resumeintake/internal/resumeparser"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleResume = `Jane Doe
jane.doe@example.com
(555) 987-6543
Software developer with 5 years of experience in Python, React and AWS.
Bachelor of Science in Computer Science
`

// isolateEnv clears extraction settings and resets package flags after the test.
func isolateEnv(t *testing.T) {
	t.Helper()
	t.Setenv("SKILLS_FILE", "")
	t.Setenv("PDFTOTEXT_PATH", "")
	t.Setenv("MAX_UPLOAD_MB", "")
	t.Cleanup(func() {
		skillsFile, verbose = "", false
		extractFile, extractJSON = "", false
		parseFile, parseStdin, parseOutput, parseValidate = "", false, "", false
		watchDir, watchExisting, watchQuiet = "", true, defaultQuietPeriod
	})
}

func newTestCommand(stdin string) (*cobra.Command, *bytes.Buffer) {
	out := &bytes.Buffer{}
	cmd := &cobra.Command{}
	cmd.SetContext(context.Background())
	cmd.SetOut(out)
	cmd.SetErr(io.Discard)
	cmd.SetIn(strings.NewReader(stdin))
	return cmd, out
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRunExtract_PrintsText(t *testing.T) {
	isolateEnv(t)
	extractFile = writeFile(t, t.TempDir(), "jane.txt", sampleResume)

	cmd, out := newTestCommand("")
	require.NoError(t, runExtract(cmd, nil))

	assert.Contains(t, out.String(), "Jane Doe")
	assert.Contains(t, out.String(), "Bachelor of Science")
}

func TestRunExtract_JSON(t *testing.T) {
	isolateEnv(t)
	extractFile = writeFile(t, t.TempDir(), "jane.txt", sampleResume)
	extractJSON = true

	cmd, out := newTestCommand("")
	require.NoError(t, runExtract(cmd, nil))

	var doc map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &doc))
	assert.Equal(t, "txt", doc["source_format"])
	assert.Contains(t, doc["text"], "Jane Doe")
}

func TestRunExtract_Failures(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()

	extractFile = writeFile(t, dir, "photo.png", "not a resume")
	cmd, _ := newTestCommand("")
	err := runExtract(cmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "UnsupportedFormat")

	extractFile = filepath.Join(dir, "missing.pdf")
	err = runExtract(cmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FileNotFound")
}

func TestRunExtract_TooLarge(t *testing.T) {
	isolateEnv(t)
	t.Setenv("MAX_UPLOAD_MB", "1")
	extractFile = writeFile(t, t.TempDir(), "big.txt", strings.Repeat("a", 1024*1024+1))

	cmd, _ := newTestCommand("")
	err := runExtract(cmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "larger than 1MB")
}

func TestRunParse_FileToOutput(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()
	parseFile = writeFile(t, dir, "jane.txt", sampleResume)
	parseOutput = filepath.Join(dir, "jane.json")
	parseValidate = true

	cmd, out := newTestCommand("")
	require.NoError(t, runParse(cmd, nil))
	assert.Empty(t, out.String())

	data, err := os.ReadFile(parseOutput)
	require.NoError(t, err)
	var parsed resumeparser.ParsedResume
	require.NoError(t, json.Unmarshal(data, &parsed))
	assert.Equal(t, resumeparser.StatusSuccess, parsed.ParsingStatus)
	assert.Equal(t, "Jane Doe", parsed.Name)
	assert.Equal(t, "jane.doe@example.com", parsed.Contact.Email)
	assert.Contains(t, parsed.AllSkills, "Python")
}

func TestRunParse_StdinShortText(t *testing.T) {
	isolateEnv(t)
	parseStdin = true

	cmd, out := newTestCommand("hi")
	err := runParse(cmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing failed")

	var parsed resumeparser.ParsedResume
	require.NoError(t, json.Unmarshal(out.Bytes(), &parsed))
	assert.Equal(t, resumeparser.StatusError, parsed.ParsingStatus)
	assert.NotNil(t, parsed.AllSkills)
}

func TestRunParse_CustomSkillsFlag(t *testing.T) {
	isolateEnv(t)
	skillsFile = writeFile(t, t.TempDir(), "skills.yaml", `
- name: infrastructure
  skills: [Terraform, Ansible]
`)
	parseStdin = true

	cmd, out := newTestCommand("Platform engineer automating everything with terraform and Python.")
	require.NoError(t, runParse(cmd, nil))

	var parsed resumeparser.ParsedResume
	require.NoError(t, json.Unmarshal(out.Bytes(), &parsed))
	assert.Equal(t, []string{"Terraform"}, parsed.AllSkills)
	assert.Equal(t, map[string][]string{"infrastructure": {"Terraform"}}, parsed.Skills)
}

func TestRunParse_BadSkillsFile(t *testing.T) {
	isolateEnv(t)
	skillsFile = filepath.Join(t.TempDir(), "nope.yaml")
	parseStdin = true

	cmd, _ := newTestCommand(sampleResume)
	err := runParse(cmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "skill dictionary")
}

func newTestWatcher(t *testing.T) *dirWatcher {
	t.Helper()
	pipeline, err := intake.FromConfig(config.Extraction{MaxUploadMB: 1}, nil)
	require.NoError(t, err)
	return &dirWatcher{
		pipeline: pipeline,
		limits:   config.Extraction{MaxUploadMB: 1},
		quiet:    50 * time.Millisecond,
		log:      newLogger(io.Discard),
	}
}

func TestHandleFile(t *testing.T) {
	isolateEnv(t)
	w := newTestWatcher(t)
	dir := t.TempDir()
	ctx := context.Background()

	resume := writeFile(t, dir, "jane.txt", sampleResume)
	handled, err := w.handleFile(ctx, resume)
	require.NoError(t, err)
	assert.True(t, handled)

	data, err := os.ReadFile(outputPath(resume))
	require.NoError(t, err)
	var analysis intake.Analysis
	require.NoError(t, json.Unmarshal(data, &analysis))
	require.NotNil(t, analysis.Resume)
	assert.Equal(t, "Jane Doe", analysis.Resume.Name)

	for _, name := range []string{"photo.png", "jane.txt.parsed.json"} {
		handled, err := w.handleFile(ctx, writeFile(t, dir, name, "{}"))
		require.NoError(t, err)
		assert.False(t, handled, name)
	}

	handled, err = w.handleFile(ctx, filepath.Join(dir, "gone.pdf"))
	require.NoError(t, err)
	assert.False(t, handled)
}

func TestHandleFile_RecordsExtractionFailure(t *testing.T) {
	isolateEnv(t)
	w := newTestWatcher(t)
	path := writeFile(t, t.TempDir(), "empty.txt", "")

	handled, err := w.handleFile(context.Background(), path)
	require.NoError(t, err)
	assert.True(t, handled)

	data, err := os.ReadFile(outputPath(path))
	require.NoError(t, err)
	var analysis intake.Analysis
	require.NoError(t, json.Unmarshal(data, &analysis))
	assert.Nil(t, analysis.Resume)
	assert.NotEmpty(t, analysis.ErrorKind)
}

func TestWatcherRun(t *testing.T) {
	isolateEnv(t)
	w := newTestWatcher(t)
	dir := t.TempDir()
	staging := t.TempDir()

	existing := writeFile(t, dir, "existing.txt", sampleResume)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.run(ctx, dir, true) }()

	parsedName := func(path string) string {
		data, err := os.ReadFile(outputPath(path))
		if err != nil {
			return ""
		}
		var analysis intake.Analysis
		if json.Unmarshal(data, &analysis) != nil || analysis.Resume == nil {
			return ""
		}
		return analysis.Resume.Name
	}

	require.Eventually(t, func() bool { return parsedName(existing) == "Jane Doe" }, 5*time.Second, 20*time.Millisecond)

	// Move a complete file in so the watcher never sees it half written.
	arrived := filepath.Join(dir, "arrived.txt")
	require.NoError(t, os.Rename(writeFile(t, staging, "arrived.txt", sampleResume), arrived))
	require.Eventually(t, func() bool { return parsedName(arrived) == "Jane Doe" }, 5*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher did not stop")
	}
}

func TestDebouncer(t *testing.T) {
	d := newDebouncer(500 * time.Millisecond)
	start := time.Now()

	d.touch("b.pdf", start)
	d.touch("a.pdf", start)
	d.touch("a.pdf", start.Add(300*time.Millisecond))

	assert.Empty(t, d.due(start.Add(400*time.Millisecond)))
	assert.Equal(t, []string{"b.pdf"}, d.due(start.Add(600*time.Millisecond)))
	assert.Equal(t, []string{"a.pdf"}, d.due(start.Add(800*time.Millisecond)))
	assert.Empty(t, d.due(start.Add(time.Second)))
}

func TestWatcherRun_ChunkedWrite(t *testing.T) {
	isolateEnv(t)
	w := newTestWatcher(t)
	dir := t.TempDir()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.run(ctx, dir, false) }()

	path := filepath.Join(dir, "chunked.txt")
	f, err := os.Create(path)
	require.NoError(t, err)
	for _, line := range strings.SplitAfter(sampleResume, "\n") {
		_, err := f.WriteString(line)
		require.NoError(t, err)
		time.Sleep(5 * time.Millisecond)
	}
	require.NoError(t, f.Close())

	require.Eventually(t, func() bool {
		data, err := os.ReadFile(outputPath(path))
		if err != nil {
			return false
		}
		var analysis intake.Analysis
		return json.Unmarshal(data, &analysis) == nil && analysis.Resume != nil &&
			analysis.Resume.Contact.Email == "jane.doe@example.com"
	}, 5*time.Second, 20*time.Millisecond)

	cancel()
	assert.NoError(t, <-done)
}

func TestWatcherRun_MissingDir(t *testing.T) {
	isolateEnv(t)
	w := newTestWatcher(t)

	err := w.run(context.Background(), filepath.Join(t.TempDir(), "nope"), true)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to watch")
}

func TestRunSchema(t *testing.T) {
	cmd, out := newTestCommand("")
	require.NoError(t, runSchema(cmd, nil))

	var schema map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &schema))
	assert.Equal(t, "object", schema["type"])
	assert.Contains(t, schema["required"], "parsing_status")
}
