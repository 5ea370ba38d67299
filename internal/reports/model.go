package reports

import (
	"time"

	"jobmate-backend/internal/orchestrate"
)

// Report is one persisted analysis result, addressed by user and report ID.
// Saving the same pair again replaces the stored result.
type Report struct {
	ID             string                     `json:"document_id"`
	UserID         string                     `json:"user_id"`
	ReportID       string                     `json:"report_id"`
	AnalysisResult orchestrate.AnalysisResult `json:"analysis_result"`
	CreatedAt      time.Time                  `json:"creation_datetime"`
}
