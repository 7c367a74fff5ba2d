package extractor

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/unicode"
)

type fakeStrategy struct {
	name  string
	text  string
	err   error
	calls int
}

func (f *fakeStrategy) Name() string { return f.name }

func (f *fakeStrategy) Extract(_ context.Context, _ []byte) (string, error) {
	f.calls++
	return f.text, f.err
}

type panickingStrategy struct{}

func (panickingStrategy) Name() string { return "panics" }

func (panickingStrategy) Extract(context.Context, []byte) (string, error) {
	panic("malformed xref table")
}

type fakeDocxReader struct {
	text string
	err  error
}

func (f fakeDocxReader) Read(context.Context, []byte) (string, error) {
	return f.text, f.err
}

const documentXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
<w:p><w:r><w:t>Jane Doe</w:t></w:r></w:p>
<w:p><w:r><w:t xml:space="preserve">Senior </w:t></w:r><w:r><w:t>Engineer</w:t></w:r></w:p>
<w:p></w:p>
<w:tbl>
<w:tr><w:tc><w:p><w:r><w:t>Skills</w:t></w:r></w:p></w:tc><w:tc><w:p><w:r><w:t>Python</w:t></w:r></w:p></w:tc></w:tr>
<w:tr><w:tc><w:p><w:r><w:t>Email</w:t></w:r></w:p></w:tc><w:tc><w:p><w:r><w:t>jane@example.com</w:t></w:r></w:p></w:tc></w:tr>
</w:tbl>
<w:p><w:r><w:t>Summary after table</w:t></w:r></w:p>
</w:body>
</w:document>`

func buildDocx(t *testing.T, body string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	files := map[string]string{
		"[Content_Types].xml": `<?xml version="1.0" encoding="UTF-8"?><Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types"></Types>`,
		"_rels/.rels":         `<?xml version="1.0" encoding="UTF-8"?><Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`,
		"word/_rels/document.xml.rels": `<?xml version="1.0" encoding="UTF-8"?><Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships"></Relationships>`,
		"word/document.xml": body,
	}
	for name, content := range files {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestExtension(t *testing.T) {
	assert.Equal(t, "pdf", Extension("resume.PDF"))
	assert.Equal(t, "docx", Extension("/tmp/uploads/cv.final.docx"))
	assert.Equal(t, "txt", Extension("txt"))
	assert.Equal(t, "text", Extension(".text"))
}

func TestFormatFor(t *testing.T) {
	f, ok := FormatFor("text")
	assert.True(t, ok)
	assert.Equal(t, FormatTXT, f)

	_, ok = FormatFor("rtf")
	assert.False(t, ok)
}

func TestValidateFileSize(t *testing.T) {
	assert.True(t, ValidateFileSize(10*1024*1024, 10))
	assert.False(t, ValidateFileSize(10*1024*1024+1, 10))
}

func TestExtractBytes_UnsupportedFormat(t *testing.T) {
	res := New().ExtractBytes(context.Background(), "resume.exe", []byte("MZ"))

	require.False(t, res.OK())
	assert.Equal(t, KindUnsupportedFormat, res.Kind())
	assert.Contains(t, res.Failure.Detail, "exe")
	assert.Empty(t, res.Text())
}

func TestExtractBytes_TXTUTF8(t *testing.T) {
	res := New().ExtractBytes(context.Background(), "resume.txt", []byte("\n  Jane Doe\nSoftware Engineer  \n"))

	require.True(t, res.OK())
	assert.Equal(t, "Jane Doe\nSoftware Engineer", res.Text())
	assert.Equal(t, FormatTXT, res.Document.Format)
	assert.Equal(t, "utf-8", res.Document.Strategy)
}

func TestExtractBytes_TXTUTF16WithBOM(t *testing.T) {
	encoded, err := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder().Bytes([]byte("Jane Doe resume"))
	require.NoError(t, err)

	res := New().ExtractBytes(context.Background(), "resume.text", encoded)

	require.True(t, res.OK())
	assert.Equal(t, "Jane Doe resume", res.Text())
	assert.Equal(t, "utf-16", res.Document.Strategy)
}

func TestExtractBytes_TXTLatin1Fallback(t *testing.T) {
	res := New().ExtractBytes(context.Background(), "resume.txt", []byte("Jos\xe9 Garc\xeda, Ingeniero"))

	require.True(t, res.OK())
	assert.Equal(t, "José García, Ingeniero", res.Text())
	assert.Equal(t, "latin-1", res.Document.Strategy)
}

func TestExtractBytes_TXTEmpty(t *testing.T) {
	res := New().ExtractBytes(context.Background(), "resume.txt", []byte("   \n\t "))

	require.False(t, res.OK())
	assert.Equal(t, KindEmptyDocument, res.Kind())
}

func TestExtractBytes_TXTEncodingError(t *testing.T) {
	reject := Codec{Name: "strict", Decode: func([]byte) (string, error) { return "", errUndecodable }}
	ex := New(WithCodecs(reject, reject))

	res := ex.ExtractBytes(context.Background(), "resume.txt", []byte{0xff, 0xfe, 0xfd})

	require.False(t, res.OK())
	assert.Equal(t, KindEncodingError, res.Kind())
}

func TestExtractBytes_PDFFallsBackWhenFirstStrategyUnavailable(t *testing.T) {
	missing := &fakeStrategy{name: "missing", err: fmt.Errorf("%w: lib not installed", ErrStrategyUnavailable)}
	second := &fakeStrategy{name: "layout", text: "  Jane Doe\nPython developer  "}
	ex := New(WithPDFStrategies(missing, second))

	res := ex.ExtractBytes(context.Background(), "resume.pdf", []byte("%PDF-1.4"))

	require.True(t, res.OK())
	assert.Equal(t, "Jane Doe\nPython developer", res.Text())
	assert.Equal(t, "layout", res.Document.Strategy)
	assert.Empty(t, res.Document.Warnings, "unavailable strategies are skipped silently")
	assert.Equal(t, 1, missing.calls)
	assert.Equal(t, 1, second.calls)
}

func TestExtractBytes_PDFFirstNonEmptyWins(t *testing.T) {
	blank := &fakeStrategy{name: "blank", text: "  \n "}
	broken := &fakeStrategy{name: "broken", err: errors.New("bad xref")}
	good := &fakeStrategy{name: "good", text: "Resume text"}
	never := &fakeStrategy{name: "never", text: "unused"}
	ex := New(WithPDFStrategies(blank, broken, good, never))

	res := ex.ExtractBytes(context.Background(), "resume.pdf", []byte("%PDF-1.4"))

	require.True(t, res.OK())
	assert.Equal(t, "good", res.Document.Strategy)
	assert.Len(t, res.Document.Warnings, 2)
	assert.Equal(t, 0, never.calls)
}

func TestExtractBytes_PDFNoExtractableText(t *testing.T) {
	blank := &fakeStrategy{name: "blank", text: ""}
	missing := &fakeStrategy{name: "missing", err: ErrStrategyUnavailable}
	ex := New(WithPDFStrategies(blank, missing))

	res := ex.ExtractBytes(context.Background(), "scan.pdf", []byte("%PDF-1.4"))

	require.False(t, res.OK())
	assert.Equal(t, KindNoExtractableText, res.Kind())
	assert.Contains(t, res.Failure.Detail, "scanned")
}

func TestExtractBytes_PDFStrategyPanicIsContained(t *testing.T) {
	good := &fakeStrategy{name: "good", text: "Recovered text"}
	ex := New(WithPDFStrategies(panickingStrategy{}, good))

	res := ex.ExtractBytes(context.Background(), "resume.pdf", []byte("%PDF-1.4"))

	require.True(t, res.OK())
	assert.Equal(t, "Recovered text", res.Text())
	require.Len(t, res.Document.Warnings, 1)
	assert.Contains(t, res.Document.Warnings[0], "malformed xref table")
}

func TestExtractBytes_PDFGarbageWithDefaultChain(t *testing.T) {
	res := New().ExtractBytes(context.Background(), "resume.pdf", []byte("this is not a pdf at all"))

	require.False(t, res.OK())
	assert.Equal(t, KindNoExtractableText, res.Kind())
}

func TestPdftotextStrategy_MissingBinaryIsUnavailable(t *testing.T) {
	s := PdftotextStrategy{Path: filepath.Join(t.TempDir(), "no-such-pdftotext")}

	_, err := s.Extract(context.Background(), []byte("%PDF-1.4"))

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrStrategyUnavailable))
}

func TestExtractBytes_DocxParagraphsThenTables(t *testing.T) {
	res := New().ExtractBytes(context.Background(), "resume.docx", buildDocx(t, documentXML))

	require.True(t, res.OK(), "unexpected failure: %v", res.Err())
	assert.Equal(t,
		"Jane Doe\nSenior Engineer\nSummary after table\nSkills Python\nEmail jane@example.com",
		res.Text())
	assert.Equal(t, FormatDOCX, res.Document.Format)
}

func TestExtractBytes_DocxEmpty(t *testing.T) {
	empty := `<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body><w:p/></w:body></w:document>`
	res := New().ExtractBytes(context.Background(), "resume.docx", buildDocx(t, empty))

	require.False(t, res.OK())
	assert.Equal(t, KindEmptyDocument, res.Kind())
}

func TestExtractBytes_DocxCorrupt(t *testing.T) {
	res := New().ExtractBytes(context.Background(), "resume.docx", []byte("not a zip archive"))

	require.False(t, res.OK())
	assert.Equal(t, KindReadError, res.Kind())
	assert.Error(t, errors.Unwrap(res.Err()))
}

func TestExtractBytes_DocxMissingDependency(t *testing.T) {
	unavailable := fakeDocxReader{err: ErrStrategyUnavailable}

	res := New(WithDocxReader(unavailable)).ExtractBytes(context.Background(), "resume.docx", []byte("PK"))
	assert.Equal(t, KindMissingDependency, res.Kind())

	res = New(WithDocxReader(nil)).ExtractBytes(context.Background(), "resume.docx", []byte("PK"))
	assert.Equal(t, KindMissingDependency, res.Kind())
}

func TestDocumentText_TabsAndBreaks(t *testing.T) {
	xml := `<w:document xmlns:w="x"><w:body><w:p><w:r><w:t>A</w:t><w:tab/><w:t>B</w:t><w:br/><w:t>C</w:t></w:r></w:p></w:body></w:document>`

	text, err := documentText(xml)

	require.NoError(t, err)
	assert.Equal(t, "A\tB\nC", text)
}

func TestDocumentText_MalformedXML(t *testing.T) {
	_, err := documentText(`<w:document><w:body><w:p>`)
	assert.Error(t, err)
}

func TestExtractFile_NotFound(t *testing.T) {
	res := New().ExtractFile(context.Background(), filepath.Join(t.TempDir(), "missing.pdf"))

	require.False(t, res.OK())
	assert.Equal(t, KindFileNotFound, res.Kind())
}

func TestExtractFile_TXT(t *testing.T) {
	path := filepath.Join(t.TempDir(), "resume.txt")
	require.NoError(t, os.WriteFile(path, []byte("Jane Doe\njane@example.com"), 0644))

	res := New().ExtractFile(context.Background(), path)

	require.True(t, res.OK())
	assert.Equal(t, "Jane Doe\njane@example.com", res.Text())
}

func TestExtractBytes_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	never := &fakeStrategy{name: "never", text: "unused"}

	res := New(WithPDFStrategies(never)).ExtractBytes(ctx, "resume.pdf", []byte("%PDF"))

	assert.Equal(t, KindReadError, res.Kind())
	assert.Equal(t, 0, never.calls)
}
