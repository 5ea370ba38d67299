package analyses

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"jobmate-backend/internal/batch"
	"jobmate-backend/internal/orchestrate"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new analysis record.
func (r *PGRepo) Create(ctx context.Context, analysis Analysis) error {
	const query = `
INSERT INTO analyses (id, user_id, report_id, status, result, batch_result, error_message, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.DB.ExecContext(ctx, query,
		analysis.ID,
		analysis.UserID,
		analysis.ReportID,
		analysis.Status,
		nil,
		nil,
		nil,
		analysis.CreatedAt,
	)
	return err
}

// GetByID returns an analysis by ID.
func (r *PGRepo) GetByID(ctx context.Context, analysisID string) (Analysis, error) {
	const query = `
SELECT id, user_id, report_id, status, result, batch_result, error_message,
       created_at, started_at, completed_at, updated_at
FROM analyses
WHERE id = $1
LIMIT 1`
	analysis, err := scanAnalysis(r.DB.QueryRowContext(ctx, query, analysisID))
	if errors.Is(err, sql.ErrNoRows) {
		return Analysis{}, ErrNotFound
	}
	return analysis, err
}

// SetProcessing marks the analysis as started.
func (r *PGRepo) SetProcessing(ctx context.Context, analysisID string, startedAt time.Time) error {
	const query = `
UPDATE analyses
SET status = $2, started_at = $3, updated_at = $3
WHERE id = $1`
	return r.exec(ctx, query, analysisID, StatusProcessing, startedAt)
}

// Complete stores the final results and marks the analysis completed.
func (r *PGRepo) Complete(ctx context.Context, analysisID string, result orchestrate.AnalysisResult, batchResult batch.Result, completedAt time.Time) error {
	resultPayload, err := json.Marshal(result)
	if err != nil {
		return err
	}
	batchPayload, err := json.Marshal(batchResult)
	if err != nil {
		return err
	}
	const query = `
UPDATE analyses
SET status = $2, result = $3, batch_result = $4, error_message = NULL, completed_at = $5, updated_at = $5
WHERE id = $1`
	return r.exec(ctx, query, analysisID, StatusCompleted, string(resultPayload), string(batchPayload), completedAt)
}

// Fail marks the analysis failed with a sanitized message.
func (r *PGRepo) Fail(ctx context.Context, analysisID, message string, completedAt time.Time) error {
	const query = `
UPDATE analyses
SET status = $2, error_message = $3, completed_at = $4, updated_at = $4
WHERE id = $1`
	return r.exec(ctx, query, analysisID, StatusFailed, message, completedAt)
}

// ListByUser returns a user's analyses newest first.
func (r *PGRepo) ListByUser(ctx context.Context, userID string, limit, offset int) ([]Analysis, error) {
	const query = `
SELECT id, user_id, report_id, status, result, batch_result, error_message,
       created_at, started_at, completed_at, updated_at
FROM analyses
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`
	if limit <= 0 {
		limit = 20
	}
	rows, err := r.DB.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Analysis
	for rows.Next() {
		analysis, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, analysis)
	}
	return out, rows.Err()
}

func (r *PGRepo) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnalysis(row rowScanner) (Analysis, error) {
	var a Analysis
	var result sql.NullString
	var batchResult sql.NullString
	var errorMessage sql.NullString
	var startedAt sql.NullTime
	var completedAt sql.NullTime
	var updatedAt sql.NullTime

	if err := row.Scan(
		&a.ID,
		&a.UserID,
		&a.ReportID,
		&a.Status,
		&result,
		&batchResult,
		&errorMessage,
		&a.CreatedAt,
		&startedAt,
		&completedAt,
		&updatedAt,
	); err != nil {
		return Analysis{}, err
	}

	if result.Valid && result.String != "" {
		var parsed orchestrate.AnalysisResult
		if err := json.Unmarshal([]byte(result.String), &parsed); err != nil {
			return Analysis{}, err
		}
		a.Result = &parsed
	}
	if batchResult.Valid && batchResult.String != "" {
		var parsed batch.Result
		if err := json.Unmarshal([]byte(batchResult.String), &parsed); err != nil {
			return Analysis{}, err
		}
		a.BatchResult = &parsed
	}
	if errorMessage.Valid {
		a.ErrorMessage = &errorMessage.String
	}
	if startedAt.Valid {
		a.StartedAt = &startedAt.Time
	}
	if completedAt.Valid {
		a.CompletedAt = &completedAt.Time
	}
	if updatedAt.Valid {
		a.UpdatedAt = &updatedAt.Time
	}
	return a, nil
}

var _ Repo = (*PGRepo)(nil)
