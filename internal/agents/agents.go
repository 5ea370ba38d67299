package agents

import (
	"context"
	"encoding/json"
)

// Role identifies which analysis an agent performs. Results are keyed by
// role, never by completion order.
type Role string

const (
	RoleComprehension Role = "comprehension"
	RoleQuestions     Role = "questions"
	RoleActionItems   Role = "action_items"
)

// Roles lists every role an orchestration must cover.
func Roles() []Role {
	return []Role{RoleComprehension, RoleQuestions, RoleActionItems}
}

// AnalysisRequest is the submitted input shared read-only by all agent
// tasks. It must not be mutated once an orchestration starts.
type AnalysisRequest struct {
	UserID      string `json:"user_id"`
	ReportID    string `json:"report_id"`
	UserSummary string `json:"user_summary"`
	Content     string `json:"content"`
}

// Task is one unit of analysis work. Invoke must be safe to call
// concurrently with sibling tasks sharing the same request.
type Task interface {
	Role() Role
	Invoke(ctx context.Context, req AnalysisRequest) (json.RawMessage, error)
}

// TaskFunc adapts a function to the Task interface.
type TaskFunc struct {
	TaskRole Role
	Fn       func(ctx context.Context, req AnalysisRequest) (json.RawMessage, error)
}

// Role returns the task's role.
func (t TaskFunc) Role() Role { return t.TaskRole }

// Invoke calls the wrapped function.
func (t TaskFunc) Invoke(ctx context.Context, req AnalysisRequest) (json.RawMessage, error) {
	return t.Fn(ctx, req)
}
