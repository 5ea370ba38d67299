package openai

import (
	"testing"

	"jobmate-backend/internal/agents"
)

func TestNewClientRequiresKeyAndModel(t *testing.T) {
	if _, err := NewClient("", "gpt-4o-mini"); err == nil {
		t.Fatalf("expected error for missing key")
	}
	if _, err := NewClient("sk-test", ""); err == nil {
		t.Fatalf("expected error for missing model")
	}
}

func TestTasksCoverEveryRole(t *testing.T) {
	client, err := NewClient("sk-test", "gpt-4o-mini")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	tasks := client.Tasks()
	if len(tasks) != len(agents.Roles()) {
		t.Fatalf("expected %d tasks, got %d", len(agents.Roles()), len(tasks))
	}
	seen := map[agents.Role]bool{}
	for _, task := range tasks {
		seen[task.Role()] = true
	}
	for _, role := range agents.Roles() {
		if !seen[role] {
			t.Fatalf("missing task for role %s", role)
		}
	}
}

func TestNormalizePayloadQuestions(t *testing.T) {
	got, err := normalizePayload(agents.RoleQuestions, []byte(`{"questions":["why?","how?"]}`))
	if err != nil {
		t.Fatalf("normalizePayload: %v", err)
	}
	if string(got) != `["why?","how?"]` {
		t.Fatalf("unexpected payload: %s", got)
	}
}

func TestNormalizePayloadActionItems(t *testing.T) {
	got, err := normalizePayload(agents.RoleActionItems,
		[]byte(`{"next_actions":[{"action":"revise","priority":"high"}]}`))
	if err != nil {
		t.Fatalf("normalizePayload: %v", err)
	}
	want := `[{"action":"revise","priority":"high","isChecked":false}]`
	if string(got) != want {
		t.Fatalf("unexpected payload: %s, want %s", got, want)
	}
}

func TestNormalizePayloadComprehensionRejectsGarbage(t *testing.T) {
	if _, err := normalizePayload(agents.RoleComprehension, []byte(`"not an object"`)); err == nil {
		t.Fatalf("expected error for malformed payload")
	}
}
