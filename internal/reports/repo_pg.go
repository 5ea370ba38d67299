package reports

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"jobmate-backend/internal/orchestrate"
)

// PGRepo implements Repo using Postgres. Reports live in the
// analysis_results table keyed by (user_id, report_id).
type PGRepo struct {
	DB *sql.DB
}

// Save upserts the report, replacing any stored result for the pair.
func (r *PGRepo) Save(ctx context.Context, report Report) error {
	const query = `
INSERT INTO analysis_results (user_id, report_id, analysis_result, creation_datetime)
VALUES ($1, $2, $3, $4)
ON CONFLICT (user_id, report_id)
DO UPDATE SET analysis_result = EXCLUDED.analysis_result, creation_datetime = EXCLUDED.creation_datetime`
	payload, err := json.Marshal(report.AnalysisResult)
	if err != nil {
		return err
	}
	_, err = r.DB.ExecContext(ctx, query,
		report.UserID,
		report.ReportID,
		string(payload),
		report.CreatedAt,
	)
	return err
}

// GetByUser lists a user's reports newest first.
func (r *PGRepo) GetByUser(ctx context.Context, userID string) ([]Report, error) {
	const query = `
SELECT user_id, report_id, analysis_result, creation_datetime
FROM analysis_results
WHERE user_id = $1
ORDER BY creation_datetime DESC`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Report
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, report)
	}
	return out, rows.Err()
}

// GetByReport returns one report.
func (r *PGRepo) GetByReport(ctx context.Context, userID, reportID string) (Report, error) {
	const query = `
SELECT user_id, report_id, analysis_result, creation_datetime
FROM analysis_results
WHERE user_id = $1 AND report_id = $2
LIMIT 1`
	row := r.DB.QueryRowContext(ctx, query, userID, reportID)
	report, err := scanReport(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Report{}, ErrNotFound
	}
	if err != nil {
		return Report{}, err
	}
	return report, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReport(row rowScanner) (Report, error) {
	var report Report
	var payload sql.NullString
	if err := row.Scan(&report.UserID, &report.ReportID, &payload, &report.CreatedAt); err != nil {
		return Report{}, err
	}
	if payload.Valid && payload.String != "" {
		var result orchestrate.AnalysisResult
		if err := json.Unmarshal([]byte(payload.String), &result); err != nil {
			return Report{}, err
		}
		report.AnalysisResult = result
	}
	report.ID = report.UserID + "_" + report.ReportID
	return report, nil
}

var _ Repo = (*PGRepo)(nil)
