package reports

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"jobmate-backend/internal/agents"
	"jobmate-backend/internal/orchestrate"
	"jobmate-backend/internal/shared/telemetry"
)

// Service exposes report persistence and the next-action check toggle.
type Service struct {
	Repo Repo
}

func NewService(repo Repo) *Service {
	return &Service{Repo: repo}
}

// Save stores the analysis result under (userID, reportID), replacing any
// previous result for the pair.
func (s *Service) Save(ctx context.Context, userID, reportID string, result orchestrate.AnalysisResult) (Report, error) {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(reportID) == "" {
		return Report{}, fmt.Errorf("user_id and report_id are required")
	}
	report := Report{
		ID:             userID + "_" + reportID,
		UserID:         userID,
		ReportID:       reportID,
		AnalysisResult: result,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.Repo.Save(ctx, report); err != nil {
		return Report{}, err
	}
	telemetry.Info("report.saved", map[string]any{
		"user_id":   userID,
		"report_id": reportID,
	})
	return report, nil
}

// List returns a user's reports newest first.
func (s *Service) List(ctx context.Context, userID string) ([]Report, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, fmt.Errorf("user_id is required")
	}
	return s.Repo.GetByUser(ctx, userID)
}

// Get returns one report or ErrNotFound.
func (s *Service) Get(ctx context.Context, userID, reportID string) (Report, error) {
	if strings.TrimSpace(userID) == "" || strings.TrimSpace(reportID) == "" {
		return Report{}, fmt.Errorf("user_id and report_id are required")
	}
	return s.Repo.GetByReport(ctx, userID, reportID)
}

// SetNextActionChecked flips the isChecked flag on one suggested action of
// a stored report and persists the updated result. The index addresses the
// action list in stored order.
func (s *Service) SetNextActionChecked(ctx context.Context, userID, reportID string, index int, checked bool) (Report, error) {
	report, err := s.Get(ctx, userID, reportID)
	if err != nil {
		return Report{}, err
	}

	outcome := report.AnalysisResult.ActionItems
	if !outcome.Succeeded() || len(outcome.Payload) == 0 {
		return Report{}, fmt.Errorf("report %s has no action items", reportID)
	}

	var actions []agents.NextAction
	if err := json.Unmarshal(outcome.Payload, &actions); err != nil {
		return Report{}, fmt.Errorf("decode action items: %w", err)
	}
	if index < 0 || index >= len(actions) {
		return Report{}, fmt.Errorf("next action index %d out of range (0..%d)", index, len(actions)-1)
	}
	actions[index].IsChecked = checked

	payload, err := json.Marshal(actions)
	if err != nil {
		return Report{}, err
	}
	report.AnalysisResult.ActionItems.Payload = payload

	if err := s.Repo.Save(ctx, report); err != nil {
		return Report{}, err
	}
	telemetry.Info("report.next_action_toggled", map[string]any{
		"user_id":    userID,
		"report_id":  reportID,
		"index":      index,
		"is_checked": checked,
	})
	return report, nil
}
