package analyses

import (
	"context"
	"time"

	"jobmate-backend/internal/batch"
	"jobmate-backend/internal/orchestrate"
)

// Repo defines persistence operations for analysis jobs.
type Repo interface {
	Create(ctx context.Context, analysis Analysis) error
	GetByID(ctx context.Context, analysisID string) (Analysis, error)
	SetProcessing(ctx context.Context, analysisID string, startedAt time.Time) error
	Complete(ctx context.Context, analysisID string, result orchestrate.AnalysisResult, batchResult batch.Result, completedAt time.Time) error
	Fail(ctx context.Context, analysisID, message string, completedAt time.Time) error
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]Analysis, error)
}
