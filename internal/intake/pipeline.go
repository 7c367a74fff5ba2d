// Package intake chains the extractor and the resume parser: file in, ParsedResume out.
package intake

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/muhammadolammi/resumeintake/internal/config"
	"github.com/muhammadolammi/resumeintake/internal/extractor"
	"github.com/muhammadolammi/resumeintake/internal/resumeparser"
)

// Analysis is the outcome for one file. Resume is nil when extraction failed.
type Analysis struct {
	FileName  string                     `json:"file_name"`
	Document  *extractor.Document        `json:"document,omitempty"`
	Resume    *resumeparser.ParsedResume `json:"resume,omitempty"`
	ErrorKind extractor.ErrorKind        `json:"error_kind,omitempty"`
	Error     string                     `json:"error,omitempty"`
}

// OK reports whether text was extracted and parsed successfully.
func (a Analysis) OK() bool {
	return a.Error == "" && a.Resume != nil && a.Resume.OK()
}

type Pipeline struct {
	Extractor *extractor.Extractor
	Parser    *resumeparser.Parser
	Log       *slog.Logger
}

func NewPipeline(ex *extractor.Extractor, p *resumeparser.Parser, log *slog.Logger) *Pipeline {
	if log == nil {
		log = slog.Default()
	}
	return &Pipeline{Extractor: ex, Parser: p, Log: log}
}

// FromConfig builds a pipeline from extraction settings, loading the skill dictionary file
// when one is configured.
func FromConfig(cfg config.Extraction, log *slog.Logger) (*Pipeline, error) {
	var parserOpts []resumeparser.Option
	if cfg.SkillsFile != "" {
		dict, err := resumeparser.LoadDictionaryFile(cfg.SkillsFile)
		if err != nil {
			return nil, fmt.Errorf("load skill dictionary: %w", err)
		}
		parserOpts = append(parserOpts, resumeparser.WithDictionary(dict))
	}

	ex := extractor.New(
		extractor.WithPDFStrategies(extractor.DefaultPDFStrategies(cfg.PdftotextPath)...),
		extractor.WithLogger(log),
	)
	return NewPipeline(ex, resumeparser.New(parserOpts...), log), nil
}

// AnalyzeBytes extracts and parses an in-memory upload.
func (p *Pipeline) AnalyzeBytes(ctx context.Context, filename string, data []byte) Analysis {
	return p.analyze(filename, p.Extractor.ExtractBytes(ctx, filename, data))
}

// AnalyzeFile extracts and parses a file on disk.
func (p *Pipeline) AnalyzeFile(ctx context.Context, path string) Analysis {
	return p.analyze(path, p.Extractor.ExtractFile(ctx, path))
}

func (p *Pipeline) analyze(name string, res extractor.Result) Analysis {
	if !res.OK() {
		detail := "no text extracted"
		if res.Failure != nil {
			detail = res.Failure.Detail
		}
		p.Log.Warn("text extraction failed", "file", name, "kind", res.Kind(), "error", res.Err())
		return Analysis{FileName: name, ErrorKind: res.Kind(), Error: detail}
	}

	parsed := p.Parser.Parse(res.Text())
	if !parsed.OK() {
		p.Log.Warn("resume parsing failed", "file", name, "error", parsed.ErrorMessage)
	} else {
		p.Log.Debug("resume parsed", "file", name, "strategy", res.Document.Strategy,
			"skills", parsed.TotalSkills, "ats_score", parsed.ATSScore)
	}
	return Analysis{FileName: name, Document: res.Document, Resume: &parsed}
}
