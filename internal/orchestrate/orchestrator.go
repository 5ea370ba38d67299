package orchestrate

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"jobmate-backend/internal/agents"
	"jobmate-backend/internal/shared/telemetry"
)

// Outcome is the tagged result of one agent task: a payload on success or a
// reason on failure, never both.
type Outcome struct {
	Payload json.RawMessage `json:"payload,omitempty"`
	Error   string          `json:"error,omitempty"`
}

// Succeeded reports whether the task produced a payload.
func (o Outcome) Succeeded() bool { return o.Error == "" }

// AnalysisResult aggregates one outcome per agent role. It is complete only
// when every slot is populated; Run never returns a partial result.
type AnalysisResult struct {
	Comprehension Outcome `json:"comprehension"`
	Questions     Outcome `json:"questions"`
	ActionItems   Outcome `json:"action_items"`
}

func (r *AnalysisResult) setSlot(role agents.Role, out Outcome) error {
	switch role {
	case agents.RoleComprehension:
		r.Comprehension = out
	case agents.RoleQuestions:
		r.Questions = out
	case agents.RoleActionItems:
		r.ActionItems = out
	default:
		return fmt.Errorf("no result slot for role %q", role)
	}
	return nil
}

// Orchestrator fans an analysis request out to its agent tasks and joins
// their outcomes into one result.
type Orchestrator struct {
	tasks []agents.Task
}

// New validates that the task set covers every role exactly once.
func New(tasks ...agents.Task) (*Orchestrator, error) {
	seen := make(map[agents.Role]bool, len(tasks))
	for _, t := range tasks {
		if seen[t.Role()] {
			return nil, fmt.Errorf("duplicate task for role %q", t.Role())
		}
		seen[t.Role()] = true
	}
	for _, role := range agents.Roles() {
		if !seen[role] {
			return nil, fmt.Errorf("missing task for role %q", role)
		}
	}
	if len(tasks) != len(agents.Roles()) {
		return nil, fmt.Errorf("expected %d tasks, got %d", len(agents.Roles()), len(tasks))
	}
	return &Orchestrator{tasks: tasks}, nil
}

// Run dispatches every agent task concurrently, waits for all of them to
// finish, and assembles their outcomes keyed by role. A task failure is
// recorded in its slot and never cancels a sibling; only a request that
// cannot be dispatched at all makes Run itself fail.
func (o *Orchestrator) Run(ctx context.Context, req agents.AnalysisRequest) (AnalysisResult, error) {
	if strings.TrimSpace(req.UserSummary) == "" && strings.TrimSpace(req.Content) == "" {
		return AnalysisResult{}, fmt.Errorf("analysis request has no content")
	}

	// Each goroutine writes only its own slot; the WaitGroup is the all-of
	// barrier, so no lock is needed.
	outcomes := make([]Outcome, len(o.tasks))
	var wg sync.WaitGroup
	for i, t := range o.tasks {
		wg.Add(1)
		go func(i int, t agents.Task) {
			defer wg.Done()
			outcomes[i] = invoke(ctx, t, req)
		}(i, t)
	}
	wg.Wait()

	var result AnalysisResult
	for i, t := range o.tasks {
		if err := result.setSlot(t.Role(), outcomes[i]); err != nil {
			return AnalysisResult{}, err
		}
	}

	telemetry.Info("orchestration.complete", map[string]any{
		"user_id":       req.UserID,
		"report_id":     req.ReportID,
		"comprehension": result.Comprehension.Succeeded(),
		"questions":     result.Questions.Succeeded(),
		"action_items":  result.ActionItems.Succeeded(),
	})
	return result, nil
}

// invoke converts a task error or panic into a failure outcome so one agent
// can never take down the barrier.
func invoke(ctx context.Context, t agents.Task, req agents.AnalysisRequest) (out Outcome) {
	defer func() {
		if r := recover(); r != nil {
			out = Outcome{Error: fmt.Sprintf("agent %s panic: %v", t.Role(), r)}
		}
	}()
	payload, err := t.Invoke(ctx, req)
	if err != nil {
		return Outcome{Error: err.Error()}
	}
	return Outcome{Payload: payload}
}
