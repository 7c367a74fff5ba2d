package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/muhammadolammi/resumeintake/internal/database"
	"github.com/muhammadolammi/resumeintake/internal/extractor"
	"github.com/muhammadolammi/resumeintake/internal/schemas"
	"golang.org/x/sync/errgroup"
)

// Error kinds raised by the worker itself; extraction kinds come from the extractor.
const (
	kindFileTooLarge    = "FileTooLarge"
	kindDownloadError   = "DownloadError"
	kindParseError      = "ParseError"
	kindSchemaViolation = "SchemaViolation"
)

const (
	uploadStatusParsed      = "parsed"
	uploadStatusParseFailed = "parse_failed"
)

var mimeExtensions = map[string]string{
	"application/pdf": "pdf",
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": "docx",
	"text/plain": "txt",
}

// resolveFileName returns a name whose extension the extractor understands, falling back
// to the upload's MIME type when the original filename has no usable extension.
func resolveFileName(resume database.Resume) string {
	name := resume.OriginalFilename
	if _, ok := extractor.FormatFor(extractor.Extension(name)); ok && filepath.Ext(name) != "" {
		return name
	}
	mime := strings.ToLower(strings.TrimSpace(strings.Split(resume.Mime, ";")[0]))
	if ext, ok := mimeExtensions[mime]; ok {
		base := strings.TrimSuffix(name, filepath.Ext(name))
		if base == "" {
			base = resume.ID.String()
		}
		return base + "." + ext
	}
	return name
}

func errorResult(result AnalysisResult, kind, msg string) AnalysisResult {
	result.IsErrorResult = true
	result.ErrorKind = kind
	result.Error = msg
	return result
}

// analyzeResume downloads, extracts, parses and validates one resume. Failures are
// recorded on the result rather than returned.
func analyzeResume(ctx context.Context, workerConfig *WorkerConfig, resume database.Resume) AnalysisResult {
	result := AnalysisResult{ResumeID: resume.ID, FileName: resume.OriginalFilename}

	maxMB := workerConfig.Extraction.MaxUploadMB
	tooLarge := func() AnalysisResult {
		return errorResult(result, kindFileTooLarge, fmt.Sprintf("file is larger than %dMB", maxMB))
	}
	if resume.SizeBytes > 0 && !extractor.ValidateFileSize(resume.SizeBytes, maxMB) {
		log.Printf("⚠️ %s is %d bytes, over the %dMB limit", resume.ObjectKey, resume.SizeBytes, maxMB)
		return tooLarge()
	}

	// ✅ Retry downloading file (network failures are transient, an oversized object is not)
	limit := workerConfig.Extraction.MaxUploadBytes()
	oversized := false
	fileBytes, err := retry(3, func() ([]byte, error) {
		data, err := workerConfig.Fetch(ctx, resume.ObjectKey, limit)
		if errors.Is(err, ErrObjectTooLarge) {
			oversized = true
			return nil, nil
		}
		return data, err
	})
	if err != nil {
		log.Printf("⚠️ Failed to download %s after retries: %v", resume.ObjectKey, err)
		return errorResult(result, kindDownloadError, fmt.Sprintf("file download error: %v", err))
	}
	if oversized || int64(len(fileBytes)) > limit {
		log.Printf("⚠️ %s is over the %dMB limit", resume.ObjectKey, maxMB)
		return tooLarge()
	}

	analysis := workerConfig.Pipeline.AnalyzeBytes(ctx, resolveFileName(resume), fileBytes)
	if analysis.Resume == nil {
		log.Printf("⚠️ Text extraction failed for %s: %s", resume.ObjectKey, analysis.Error)
		return errorResult(result, string(analysis.ErrorKind), "text extraction error: "+analysis.Error)
	}

	result.Resume = analysis.Resume
	result.CandidateEmail = analysis.Resume.Contact.Email
	if !analysis.Resume.OK() {
		log.Printf("⚠️ Parsing failed for %s: %s", resume.ObjectKey, analysis.Resume.ErrorMessage)
		return errorResult(result, kindParseError, analysis.Resume.ErrorMessage)
	}

	if err := schemas.ValidateParsedResume(analysis.Resume); err != nil {
		log.Printf("⚠️ Parsed resume for %s failed schema validation: %v", resume.ObjectKey, err)
		return errorResult(result, kindSchemaViolation, err.Error())
	}
	return result
}

// saveParsedResume stores the per-resume record and marks the upload as parsed or failed.
func saveParsedResume(ctx context.Context, workerConfig *WorkerConfig, sessionID uuid.UUID, result AnalysisResult) error {
	data := json.RawMessage(`{}`)
	params := database.UpsertParsedResumeParams{
		ID:            uuid.New(),
		ResumeID:      result.ResumeID,
		SessionID:     sessionID,
		ParsingStatus: "error",
		ErrorKind:     result.ErrorKind,
		ErrorMessage:  result.Error,
	}
	if r := result.Resume; r != nil {
		encoded, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("failed to marshal parsed resume %s: %w", result.ResumeID, err)
		}
		data = encoded
		params.CandidateName = r.Name
		params.CandidateEmail = r.Contact.Email
		params.AtsScore = int32(r.ATSScore)
		params.ExperienceLevel = string(r.ExperienceLevel)
	}
	if !result.IsErrorResult {
		params.ParsingStatus = "success"
	}
	params.Data = data

	_, err := retry(3, func() (database.ParsedResume, error) {
		return workerConfig.DB.UpsertParsedResume(ctx, params)
	})
	if err != nil {
		return fmt.Errorf("failed to save parsed resume %s after retries: %w", result.ResumeID, err)
	}

	status := uploadStatusParsed
	if result.IsErrorResult {
		status = uploadStatusParseFailed
	}
	if err := workerConfig.DB.UpdateResumeUploadStatus(ctx, database.UpdateResumeUploadStatusParams{
		UploadStatus: status,
		ID:           result.ResumeID,
	}); err != nil {
		log.Printf("⚠️ Failed to update upload status for %s: %v", result.ResumeID, err)
	}
	return nil
}

// analyzeResumes processes a session's resumes concurrently, keeping results in upload
// order. It fails only when a record cannot be stored.
func analyzeResumes(ctx context.Context, workerConfig *WorkerConfig, sessionID uuid.UUID, resumes []database.Resume) ([]AnalysisResult, error) {
	results := make([]AnalysisResult, len(resumes))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, workerConfig.ResumeConcurrency))
	for i, resume := range resumes {
		g.Go(func() error {
			results[i] = analyzeResume(gctx, workerConfig, resume)
			return saveParsedResume(gctx, workerConfig, sessionID, results[i])
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
