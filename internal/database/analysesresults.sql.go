package database

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
)

const createOrUpdateAnalysesResults = `-- name: CreateOrUpdateAnalysesResults :exec
INSERT INTO analyses_results (
results, session_id, resume_count, failed_count)
VALUES ( $1, $2, $3, $4)
ON CONFLICT (session_id)
DO UPDATE SET
    results = EXCLUDED.results,
    resume_count = EXCLUDED.resume_count,
    failed_count = EXCLUDED.failed_count,
    updated_at = CURRENT_TIMESTAMP
`

type CreateOrUpdateAnalysesResultsParams struct {
	Results     json.RawMessage
	SessionID   uuid.UUID
	ResumeCount int32
	FailedCount int32
}

func (q *Queries) CreateOrUpdateAnalysesResults(ctx context.Context, arg CreateOrUpdateAnalysesResultsParams) error {
	_, err := q.db.ExecContext(ctx, createOrUpdateAnalysesResults,
		arg.Results,
		arg.SessionID,
		arg.ResumeCount,
		arg.FailedCount,
	)
	return err
}
