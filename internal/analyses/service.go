package analyses

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"jobmate-backend/internal/agents"
	"jobmate-backend/internal/batch"
	"jobmate-backend/internal/orchestrate"
	"jobmate-backend/internal/queue"
	"jobmate-backend/internal/reports"
	"jobmate-backend/internal/shared/metrics"
	"jobmate-backend/internal/shared/storage/object"
	"jobmate-backend/internal/shared/telemetry"
)

// Service contains business logic for analysis jobs.
type Service struct {
	Repo         Repo
	Reports      *reports.Service
	Orchestrator *orchestrate.Orchestrator
	Aggregator   *batch.Aggregator
	Store        object.ObjectStore
	Queue        queue.Client
}

// SubmitInput is a validated analysis submission.
type SubmitInput struct {
	UserID      string
	ReportID    string
	UserSummary string
	Files       []batch.FileInput
}

// Create records a queued analysis and hands it off for asynchronous
// completion, via the queue when one is configured and in-process
// otherwise. Raw file contents are never persisted; they travel with the
// job and are dropped once processing finishes.
func (s *Service) Create(ctx context.Context, input SubmitInput) (Analysis, error) {
	if strings.TrimSpace(input.UserID) == "" {
		return Analysis{}, errors.New("user_id is required")
	}
	if strings.TrimSpace(input.UserSummary) == "" && len(input.Files) == 0 {
		return Analysis{}, errors.New("user_summary or files are required")
	}
	if strings.TrimSpace(input.ReportID) == "" {
		input.ReportID = uuid.NewString()
	}

	analysis := Analysis{
		ID:        uuid.NewString(),
		UserID:    input.UserID,
		ReportID:  input.ReportID,
		Status:    StatusQueued,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, analysis); err != nil {
		return Analysis{}, err
	}

	metrics.IncAnalysisStarted()
	telemetry.Info("analysis.status", map[string]any{
		"request_id":        requestIDFromContext(ctx),
		"user_id":           analysis.UserID,
		"report_id":         analysis.ReportID,
		"analysis_id":       analysis.ID,
		"status":            StatusQueued,
		"status_transition": "->queued",
		"file_count":        len(input.Files),
	})

	if s.Queue != nil {
		if err := s.enqueue(ctx, analysis.ID, input); err != nil {
			s.failAnalysis(ctx, analysis.ID, analysis.UserID, analysis.ReportID, fmt.Errorf("enqueue analysis: %w", err), nil)
			return Analysis{}, err
		}
		return analysis, nil
	}

	go s.Process(backgroundWithRequestID(ctx), analysis.ID, input)
	return analysis, nil
}

func (s *Service) enqueue(ctx context.Context, analysisID string, input SubmitInput) error {
	msg := queue.Message{
		AnalysisID:  analysisID,
		RequestID:   requestIDFromContext(ctx),
		UserID:      input.UserID,
		ReportID:    input.ReportID,
		UserSummary: input.UserSummary,
		EnqueuedAt:  time.Now().UTC().Format(time.RFC3339),
		Version:     1,
	}
	for _, file := range input.Files {
		msg.FileNames = append(msg.FileNames, file.Name)
		msg.Files = append(msg.Files, base64.StdEncoding.EncodeToString(file.Content))
	}
	return s.Queue.Send(ctx, msg)
}

// InputFromMessage rebuilds a submission from its queue payload.
func InputFromMessage(msg queue.Message) (SubmitInput, error) {
	input := SubmitInput{
		UserID:      msg.UserID,
		ReportID:    msg.ReportID,
		UserSummary: msg.UserSummary,
	}
	for i, encoded := range msg.Files {
		content, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return SubmitInput{}, fmt.Errorf("decode file %d: %w", i+1, err)
		}
		name := fmt.Sprintf("file_%d", i+1)
		if i < len(msg.FileNames) && strings.TrimSpace(msg.FileNames[i]) != "" {
			name = msg.FileNames[i]
		}
		input.Files = append(input.Files, batch.FileInput{Name: name, Content: content})
	}
	return input, nil
}

// Get returns an analysis by ID.
func (s *Service) Get(ctx context.Context, analysisID string) (Analysis, error) {
	if analysisID == "" {
		return Analysis{}, errors.New("analysisID is required")
	}
	return s.Repo.GetByID(ctx, analysisID)
}

// List returns a user's analyses.
func (s *Service) List(ctx context.Context, userID string, limit, offset int) ([]Analysis, error) {
	if userID == "" {
		return nil, errors.New("userID is required")
	}
	return s.Repo.ListByUser(ctx, userID, limit, offset)
}

// Process runs one analysis job to a terminal state. Any failure,
// including a panic, lands the job in failed with a recorded reason.
func (s *Service) Process(ctx context.Context, analysisID string, input SubmitInput) {
	startedAt := time.Now().UTC()
	defer func() {
		if r := recover(); r != nil {
			s.failAnalysis(ctx, analysisID, input.UserID, input.ReportID, fmt.Errorf("panic: %v", r), &startedAt)
		}
	}()

	if err := s.Repo.SetProcessing(ctx, analysisID, startedAt); err != nil {
		s.failAnalysis(ctx, analysisID, input.UserID, input.ReportID, fmt.Errorf("set processing failed: %w", err), &startedAt)
		return
	}
	telemetry.Info("analysis.status", map[string]any{
		"request_id":        requestIDFromContext(ctx),
		"user_id":           input.UserID,
		"report_id":         input.ReportID,
		"analysis_id":       analysisID,
		"status":            StatusProcessing,
		"status_transition": "queued->processing",
	})

	if s.Orchestrator == nil || s.Aggregator == nil {
		s.failAnalysis(ctx, analysisID, input.UserID, input.ReportID, errors.New("missing analysis dependencies"), &startedAt)
		return
	}

	files := input.Files
	if files == nil {
		files = []batch.FileInput{}
	}
	batchResult := s.Aggregator.Run(ctx, files)
	if batchResult.Error != nil {
		s.failAnalysis(ctx, analysisID, input.UserID, input.ReportID, fmt.Errorf("extraction failed: %s", *batchResult.Error), &startedAt)
		return
	}

	result, err := s.Orchestrator.Run(ctx, agents.AnalysisRequest{
		UserID:      input.UserID,
		ReportID:    input.ReportID,
		UserSummary: input.UserSummary,
		Content:     batchResult.ExtractedContent,
	})
	if err != nil {
		s.failAnalysis(ctx, analysisID, input.UserID, input.ReportID, fmt.Errorf("agent orchestration: %w", err), &startedAt)
		return
	}

	if s.Reports != nil {
		if _, err := s.Reports.Save(ctx, input.UserID, input.ReportID, result); err != nil {
			s.failAnalysis(ctx, analysisID, input.UserID, input.ReportID, fmt.Errorf("save report failed: %w", err), &startedAt)
			return
		}
	}

	s.archiveExtractedText(ctx, analysisID, batchResult.ExtractedContent)

	completedAt := time.Now().UTC()
	if err := s.Repo.Complete(ctx, analysisID, result, batchResult, completedAt); err != nil {
		s.failAnalysis(ctx, analysisID, input.UserID, input.ReportID, fmt.Errorf("set analysis result failed: %w", err), &startedAt)
		return
	}
	metrics.IncAnalysisCompleted()
	metrics.ObserveAnalysisDurationMs(durationMs(&startedAt, &completedAt))
	telemetry.Info("analysis.status", map[string]any{
		"request_id":        requestIDFromContext(ctx),
		"user_id":           input.UserID,
		"report_id":         input.ReportID,
		"analysis_id":       analysisID,
		"status":            StatusCompleted,
		"status_transition": "processing->completed",
		"duration_ms":       durationMs(&startedAt, &completedAt),
		"files_processed":   batchResult.TotalFilesProcessed,
	})
}

// archiveExtractedText keeps the derived combined text for later
// inspection. The submitted file contents themselves are never stored.
func (s *Service) archiveExtractedText(ctx context.Context, analysisID, content string) {
	if s.Store == nil || content == "" {
		return
	}
	key := "analyses/" + analysisID + ".extracted.txt"
	if _, err := s.Store.SaveWithKey(ctx, key, "text/plain; charset=utf-8", strings.NewReader(content)); err != nil {
		telemetry.Warn("analysis.archive_failed", map[string]any{
			"analysis_id": analysisID,
			"error":       sanitizeError(err),
		})
	}
}

func (s *Service) failAnalysis(ctx context.Context, analysisID, userID, reportID string, err error, startedAt *time.Time) {
	code := classifyFailure(err)
	msg := sanitizeError(err)
	completedAt := time.Now().UTC()
	if updateErr := s.Repo.Fail(context.Background(), analysisID, msg, completedAt); updateErr != nil {
		telemetry.Error("analysis.fail_update", map[string]any{
			"analysis_id": analysisID,
			"error":       sanitizeError(updateErr),
			"original":    msg,
		})
	}
	metrics.IncAnalysisFailed()
	if startedAt != nil {
		metrics.ObserveAnalysisDurationMs(durationMs(startedAt, &completedAt))
	}
	telemetry.Info("analysis.status", map[string]any{
		"request_id":        requestIDFromContext(ctx),
		"user_id":           userID,
		"report_id":         reportID,
		"analysis_id":       analysisID,
		"status":            StatusFailed,
		"status_transition": "processing->failed",
		"error_code":        code,
		"error":             msg,
		"duration_ms":       durationMs(startedAt, &completedAt),
	})
}

func durationMs(startedAt, completedAt *time.Time) float64 {
	if startedAt == nil || completedAt == nil {
		return 0
	}
	return float64(completedAt.Sub(*startedAt).Microseconds()) / 1000.0
}

func classifyFailure(err error) string {
	if err == nil {
		return ErrorCodeInternal
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "extraction failed"):
		return ErrorCodeExtraction
	case strings.Contains(msg, "agent") || strings.Contains(msg, "orchestration"):
		return ErrorCodeAgentFailed
	case strings.Contains(msg, "save report") || strings.Contains(msg, "set processing") || strings.Contains(msg, "analysis result"):
		return ErrorCodeStorage
	case strings.Contains(msg, "required") || strings.Contains(msg, "validation"):
		return ErrorCodeValidation
	default:
		return ErrorCodeInternal
	}
}

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	msg := strings.ReplaceAll(err.Error(), "\n", " ")
	msg = strings.ReplaceAll(msg, "\r", " ")
	msg = strings.TrimSpace(msg)
	const maxLen = 500
	if len(msg) > maxLen {
		msg = msg[:maxLen]
	}
	return msg
}
