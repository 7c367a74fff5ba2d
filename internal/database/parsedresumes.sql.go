package database

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
)

const upsertParsedResume = `-- name: UpsertParsedResume :one
INSERT INTO parsed_resumes (
id, resume_id, session_id, parsing_status, error_kind, error_message, candidate_name, candidate_email, ats_score, experience_level, data)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
ON CONFLICT (resume_id)
DO UPDATE SET
    parsing_status = EXCLUDED.parsing_status,
    error_kind = EXCLUDED.error_kind,
    error_message = EXCLUDED.error_message,
    candidate_name = EXCLUDED.candidate_name,
    candidate_email = EXCLUDED.candidate_email,
    ats_score = EXCLUDED.ats_score,
    experience_level = EXCLUDED.experience_level,
    data = EXCLUDED.data,
    updated_at = CURRENT_TIMESTAMP
RETURNING id, resume_id, session_id, parsing_status, error_kind, error_message, candidate_name, candidate_email, ats_score, experience_level, data, created_at, updated_at
`

type UpsertParsedResumeParams struct {
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
}

func (q *Queries) UpsertParsedResume(ctx context.Context, arg UpsertParsedResumeParams) (ParsedResume, error) {
	row := q.db.QueryRowContext(ctx, upsertParsedResume,
		arg.ID,
		arg.ResumeID,
		arg.SessionID,
		arg.ParsingStatus,
		arg.ErrorKind,
		arg.ErrorMessage,
		arg.CandidateName,
		arg.CandidateEmail,
		arg.AtsScore,
		arg.ExperienceLevel,
		arg.Data,
	)
	var i ParsedResume
	err := row.Scan(
		&i.ID,
		&i.ResumeID,
		&i.SessionID,
		&i.ParsingStatus,
		&i.ErrorKind,
		&i.ErrorMessage,
		&i.CandidateName,
		&i.CandidateEmail,
		&i.AtsScore,
		&i.ExperienceLevel,
		&i.Data,
		&i.CreatedAt,
		&i.UpdatedAt,
	)
	return i, err
}
