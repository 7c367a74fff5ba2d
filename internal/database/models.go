package database

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type Resume struct {
	ID               uuid.UUID
	OriginalFilename string
	Mime             string
	SizeBytes        int64
	StorageProvider  string
	ObjectKey        string
	StorageUrl       string
	UploadStatus     string
	CreatedAt        time.Time
	SessionID        uuid.UUID
}

type ParsedResume struct {
	ID              uuid.UUID
	ResumeID        uuid.UUID
	SessionID       uuid.UUID
	ParsingStatus   string
	ErrorKind       string
	ErrorMessage    string
	CandidateName   string
	CandidateEmail  string
	AtsScore        int32
	ExperienceLevel string
	Data            json.RawMessage
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
