// Package extractor turns uploaded resume files (PDF, DOCX, TXT) into plain text.
//
// Extraction never panics and never returns a bare string error. Every call yields a Result
// that is either a Document or an ExtractionError tagged with an ErrorKind, so callers
// cannot mistake an error message for resume content.
package extractor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Format is a supported source document format.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
	FormatTXT  Format = "txt"
)

// ErrorKind classifies why extraction produced no text.
type ErrorKind string

const (
	KindUnsupportedFormat ErrorKind = "UnsupportedFormat"
	KindMissingDependency ErrorKind = "MissingDependency"
	KindNoExtractableText ErrorKind = "NoExtractableText"
	KindEmptyDocument     ErrorKind = "EmptyDocument"
	KindEncodingError     ErrorKind = "EncodingError"
	KindFileNotFound      ErrorKind = "FileNotFound"
	KindReadError         ErrorKind = "ReadError"
)

// Document is the text recovered from one upload.
type Document struct {
	Text     string   `json:"text"`
	Format   Format   `json:"source_format"`
	Strategy string   `json:"strategy,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// ExtractionError describes a failed extraction.
type ExtractionError struct {
	Kind   ErrorKind
	Detail string
	Cause  error
}

func (e *ExtractionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Detail, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

// Result holds exactly one of Document or Failure.
type Result struct {
	Document *Document
	Failure  *ExtractionError
}

// OK reports whether the result carries usable text.
func (r Result) OK() bool {
	return r.Failure == nil && r.Document != nil
}

// Err returns the failure as an error, or nil on success.
func (r Result) Err() error {
	if r.Failure == nil {
		return nil
	}
	return r.Failure
}

// Kind returns the failure kind, or "" on success.
func (r Result) Kind() ErrorKind {
	if r.Failure == nil {
		return ""
	}
	return r.Failure.Kind
}

// Text returns the extracted text, or "" on failure.
func (r Result) Text() string {
	if r.Document == nil {
		return ""
	}
	return r.Document.Text
}

func succeeded(doc *Document) Result {
	return Result{Document: doc}
}

func failed(kind ErrorKind, detail string, cause error) Result {
	return Result{Failure: &ExtractionError{Kind: kind, Detail: detail, Cause: cause}}
}

// Extension returns the lower-cased extension of name without the dot.
// A bare extension ("PDF", ".docx") is returned as-is, lower-cased.
func Extension(name string) string {
	name = strings.TrimSpace(name)
	if ext := filepath.Ext(name); ext != "" {
		return strings.ToLower(strings.TrimPrefix(ext, "."))
	}
	return strings.ToLower(strings.TrimPrefix(name, "."))
}

// FormatFor maps a file extension to a supported format.
func FormatFor(ext string) (Format, bool) {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "pdf":
		return FormatPDF, true
	case "docx":
		return FormatDOCX, true
	case "txt", "text":
		return FormatTXT, true
	default:
		return "", false
	}
}

// ValidateFileSize reports whether sizeBytes fits within maxMB megabytes.
func ValidateFileSize(sizeBytes int64, maxMB int) bool {
	return sizeBytes <= int64(maxMB)*1024*1024
}

// Extractor reads resume documents. It holds no per-call state and is safe for concurrent use.
type Extractor struct {
	pdfStrategies []Strategy
	docx          DocxReader
	codecs        []Codec
	log           *slog.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithPDFStrategies replaces the PDF fallback chain. Strategies are tried in order.
func WithPDFStrategies(strategies ...Strategy) Option {
	return func(e *Extractor) {
		e.pdfStrategies = strategies
	}
}

// WithDocxReader replaces the DOCX reader. A nil reader reports MissingDependency.
func WithDocxReader(r DocxReader) Option {
	return func(e *Extractor) {
		e.docx = r
	}
}

// WithCodecs replaces the plain-text codec chain.
func WithCodecs(codecs ...Codec) Option {
	return func(e *Extractor) {
		e.codecs = codecs
	}
}

// WithLogger sets the logger used for skipped and failed strategies.
func WithLogger(log *slog.Logger) Option {
	return func(e *Extractor) {
		if log != nil {
			e.log = log
		}
	}
}

// New creates an Extractor with the default PDF chain, DOCX reader and codecs.
func New(opts ...Option) *Extractor {
	e := &Extractor{
		pdfStrategies: DefaultPDFStrategies(""),
		docx:          LibraryDocxReader{},
		codecs:        DefaultCodecs(),
		log:           slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExtractFile reads the document at path and extracts its text.
func (e *Extractor) ExtractFile(ctx context.Context, path string) Result {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return failed(KindFileNotFound, fmt.Sprintf("file not found: %s", path), err)
		}
		return failed(KindReadError, fmt.Sprintf("error reading file: %s", path), err)
	}
	return e.ExtractBytes(ctx, path, data)
}

// ExtractBytes extracts text from data. The format is taken from filename's extension;
// a bare extension such as "pdf" is also accepted.
func (e *Extractor) ExtractBytes(ctx context.Context, filename string, data []byte) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			e.log.Error("extraction panicked", "file", filename, "panic", r)
			res = failed(KindReadError, fmt.Sprintf("error processing file: %v", r), nil)
		}
	}()

	ext := Extension(filename)
	format, ok := FormatFor(ext)
	if !ok {
		return failed(KindUnsupportedFormat,
			fmt.Sprintf("unsupported file format: %q. Supported formats: PDF, DOCX, TXT", ext), nil)
	}

	switch format {
	case FormatPDF:
		return e.extractPDF(ctx, data)
	case FormatDOCX:
		return e.extractDocx(ctx, data)
	default:
		return e.extractTXT(data)
	}
}
