package reports

import "context"

// Repo defines persistence operations for analysis reports.
type Repo interface {
	// Save upserts a report keyed by (user_id, report_id).
	Save(ctx context.Context, report Report) error
	// GetByUser lists a user's reports newest first.
	GetByUser(ctx context.Context, userID string) ([]Report, error)
	// GetByReport returns one report or ErrNotFound.
	GetByReport(ctx context.Context, userID, reportID string) (Report, error)
}
