package reports

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"jobmate-backend/internal/agents"
	"jobmate-backend/internal/orchestrate"
)

func TestServiceSaveAndGet(t *testing.T) {
	svc := NewService(NewMemoryRepo())

	saved, err := svc.Save(context.Background(), "user-1", "report-1", sampleResult())
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if saved.CreatedAt.IsZero() {
		t.Fatalf("Save must stamp creation time")
	}

	got, err := svc.Get(context.Background(), "user-1", "report-1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got.AnalysisResult.Comprehension.Payload) != `{"score":80}` {
		t.Fatalf("unexpected stored result: %+v", got.AnalysisResult)
	}
}

func TestServiceSaveReplacesExisting(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	ctx := context.Background()

	if _, err := svc.Save(ctx, "user-1", "report-1", sampleResult()); err != nil {
		t.Fatalf("first Save: %v", err)
	}

	updated := sampleResult()
	updated.Questions = orchestrate.Outcome{Payload: json.RawMessage(`["q2","q3"]`)}
	if _, err := svc.Save(ctx, "user-1", "report-1", updated); err != nil {
		t.Fatalf("second Save: %v", err)
	}

	list, err := svc.List(ctx, "user-1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("upsert must not duplicate, got %d reports", len(list))
	}
	if string(list[0].AnalysisResult.Questions.Payload) != `["q2","q3"]` {
		t.Fatalf("result was not replaced: %s", list[0].AnalysisResult.Questions.Payload)
	}
}

func TestServiceSaveValidatesKeys(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	if _, err := svc.Save(context.Background(), "", "report-1", sampleResult()); err == nil {
		t.Fatalf("expected error for missing user_id")
	}
	if _, err := svc.Save(context.Background(), "user-1", " ", sampleResult()); err == nil {
		t.Fatalf("expected error for blank report_id")
	}
}

func TestServiceGetMissingReport(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	if _, err := svc.Get(context.Background(), "user-1", "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestServiceSetNextActionChecked(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	ctx := context.Background()

	result := sampleResult()
	result.ActionItems = orchestrate.Outcome{Payload: json.RawMessage(
		`[{"action":"revise summary","priority":"high","isChecked":false},` +
			`{"action":"add metrics","priority":"medium","isChecked":false}]`)}
	if _, err := svc.Save(ctx, "user-1", "report-1", result); err != nil {
		t.Fatalf("Save: %v", err)
	}

	updated, err := svc.SetNextActionChecked(ctx, "user-1", "report-1", 1, true)
	if err != nil {
		t.Fatalf("SetNextActionChecked: %v", err)
	}

	var actions []agents.NextAction
	if err := json.Unmarshal(updated.AnalysisResult.ActionItems.Payload, &actions); err != nil {
		t.Fatalf("decode actions: %v", err)
	}
	if actions[0].IsChecked || !actions[1].IsChecked {
		t.Fatalf("only index 1 should be checked: %+v", actions)
	}

	// The toggle must be persisted, not just returned.
	stored, err := svc.Get(ctx, "user-1", "report-1")
	if err != nil {
		t.Fatalf("Get after toggle: %v", err)
	}
	if err := json.Unmarshal(stored.AnalysisResult.ActionItems.Payload, &actions); err != nil {
		t.Fatalf("decode stored actions: %v", err)
	}
	if !actions[1].IsChecked {
		t.Fatalf("toggle was not persisted")
	}
}

func TestServiceSetNextActionCheckedOutOfRange(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	ctx := context.Background()

	if _, err := svc.Save(ctx, "user-1", "report-1", sampleResult()); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := svc.SetNextActionChecked(ctx, "user-1", "report-1", 5, true); err == nil {
		t.Fatalf("expected out of range error")
	}
	if _, err := svc.SetNextActionChecked(ctx, "user-1", "report-1", -1, true); err == nil {
		t.Fatalf("expected out of range error for negative index")
	}
}

func TestServiceSetNextActionCheckedNoActions(t *testing.T) {
	svc := NewService(NewMemoryRepo())
	ctx := context.Background()

	result := sampleResult()
	result.ActionItems = orchestrate.Outcome{Error: "agent timed out"}
	if _, err := svc.Save(ctx, "user-1", "report-1", result); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if _, err := svc.SetNextActionChecked(ctx, "user-1", "report-1", 0, true); err == nil {
		t.Fatalf("expected error when action items are absent")
	}
}
