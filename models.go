package main

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/muhammadolammi/resumeintake/internal/config"
	"github.com/muhammadolammi/resumeintake/internal/database"
	"github.com/muhammadolammi/resumeintake/internal/intake"
	"github.com/muhammadolammi/resumeintake/internal/resumeparser"
	"github.com/streadway/amqp"
	"google.golang.org/adk/runner"
	"google.golang.org/adk/session"
)

// Store is the subset of database queries the worker uses.
type Store interface {
	GetResumesBySession(ctx context.Context, sessionID uuid.UUID) ([]database.Resume, error)
	UpdateResumeUploadStatus(ctx context.Context, arg database.UpdateResumeUploadStatusParams) error
	UpsertParsedResume(ctx context.Context, arg database.UpsertParsedResumeParams) (database.ParsedResume, error)
	CreateOrUpdateAnalysesResults(ctx context.Context, arg database.CreateOrUpdateAnalysesResultsParams) error
	UpdateSessionStatus(ctx context.Context, arg database.UpdateSessionStatusParams) error
}

// ObjectFetcher downloads an uploaded file by object key. Objects over limit bytes fail
// with ErrObjectTooLarge.
type ObjectFetcher func(ctx context.Context, key string, limit int64) ([]byte, error)

type WorkerConfig struct {
	DB                Store
	Fetch             ObjectFetcher
	Pipeline          *intake.Pipeline
	Extraction        config.Extraction
	ResumeConcurrency int
	RabbitConn        *amqp.Connection
	RABBITMQUrl       string
	// AgentRunner is nil when AI feedback is disabled.
	AgentRunner         *runner.Runner
	AgentSessionService session.Service
	AgentName           string
}

type Feedback struct {
	Strengths      []string `json:"strengths"`
	Weaknesses     []string `json:"weaknesses"`
	Recommendation string   `json:"recommendation"`
}

type AnalysisResult struct {
	ResumeID       uuid.UUID                  `json:"resume_id"`
	FileName       string                     `json:"file_name"`
	CandidateEmail string                     `json:"candidate_email,omitempty"`
	Resume         *resumeparser.ParsedResume `json:"resume,omitempty"`
	Feedback       *Feedback                  `json:"feedback,omitempty"`
	// Error result entry
	ErrorKind     string `json:"error_kind,omitempty"`
	IsErrorResult bool   `json:"is_error_result"`
	Error         string `json:"error,omitempty"`
}

type AnalysisResults struct {
	ID        uuid.UUID        `json:"id"`
	Results   []AnalysisResult `json:"results" db:"results"`
	CreatedAt time.Time        `json:"created_at"`
	SessionID uuid.UUID        `json:"session_id"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// FailedCount returns the number of error entries.
func (r *AnalysisResults) FailedCount() int {
	n := 0
	for _, res := range r.Results {
		if res.IsErrorResult {
			n++
		}
	}
	return n
}

type Session struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Name      string    `json:"name"`
	UserID    uuid.UUID `json:"user_id"`
	Status    string    `json:"status"`
}
