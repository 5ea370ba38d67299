package analyses

import (
	"time"

	"jobmate-backend/internal/batch"
	"jobmate-backend/internal/orchestrate"
)

const (
	StatusQueued     = "queued"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Analysis is one submitted analysis job and its lifecycle state. Result
// and BatchResult are populated only on completion; ErrorMessage only on
// failure.
type Analysis struct {
	ID           string                      `json:"id"`
	UserID       string                      `json:"userId"`
	ReportID     string                      `json:"reportId"`
	Status       string                      `json:"status"`
	Result       *orchestrate.AnalysisResult `json:"result,omitempty"`
	BatchResult  *batch.Result               `json:"batchResult,omitempty"`
	ErrorMessage *string                     `json:"errorMessage,omitempty"`
	CreatedAt    time.Time                   `json:"createdAt"`
	StartedAt    *time.Time                  `json:"startedAt,omitempty"`
	CompletedAt  *time.Time                  `json:"completedAt,omitempty"`
	UpdatedAt    *time.Time                  `json:"updatedAt,omitempty"`
}
