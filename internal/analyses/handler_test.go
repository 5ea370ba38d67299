package analyses

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"jobmate-backend/internal/batch"
	"jobmate-backend/internal/reports"
)

func setupAnalysesRouter(t *testing.T) (*gin.Engine, *Service, *stubQueue) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	q := &stubQueue{}
	svc := &Service{
		Repo:         NewMemoryRepo(),
		Reports:      reports.NewService(reports.NewMemoryRepo()),
		Orchestrator: testOrchestrator(t),
		Aggregator:   batch.New(stubExtractor{}),
		Queue:        q,
	}
	router := gin.New()
	NewHandler(svc).RegisterRoutes(router.Group("/api/v1"))
	return router, svc, q
}

func TestStartAnalysisEndpoint(t *testing.T) {
	router, _, q := setupAnalysesRouter(t)

	payload, _ := json.Marshal(map[string]any{
		"user_id":      "user-1",
		"user_summary": "my project summary",
		"file_names":   []string{"notes.txt"},
		"files":        []string{base64.StdEncoding.EncodeToString([]byte("hello"))},
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", resp.Code, resp.Body.String())
	}

	var body struct {
		AnalysisID string `json:"analysisId"`
		Status     string `json:"status"`
		StatusURL  string `json:"statusUrl"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.AnalysisID == "" || body.Status != StatusQueued {
		t.Fatalf("unexpected body: %+v", body)
	}
	if body.StatusURL != "/api/v1/analyses/"+body.AnalysisID {
		t.Fatalf("unexpected status url: %s", body.StatusURL)
	}
	if len(q.sent) != 1 {
		t.Fatalf("expected job on the queue, got %d", len(q.sent))
	}
}

func TestStartAnalysisEndpointRejectsBadBase64(t *testing.T) {
	router, _, _ := setupAnalysesRouter(t)

	payload, _ := json.Marshal(map[string]any{
		"user_id":      "user-1",
		"user_summary": "summary",
		"files":        []string{"%%%not-base64%%%"},
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestStartAnalysisEndpointRejectsEmptySubmission(t *testing.T) {
	router, _, _ := setupAnalysesRouter(t)

	payload, _ := json.Marshal(map[string]any{"user_id": "user-1"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestStartAnalysisEndpointRejectsNameCountMismatch(t *testing.T) {
	router, _, _ := setupAnalysesRouter(t)

	payload, _ := json.Marshal(map[string]any{
		"user_id":      "user-1",
		"user_summary": "summary",
		"file_names":   []string{"a.txt", "b.txt"},
		"files":        []string{base64.StdEncoding.EncodeToString([]byte("one"))},
	})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
}

func TestGetAnalysisEndpoint(t *testing.T) {
	router, svc, _ := setupAnalysesRouter(t)

	analysis, err := svc.Create(context.Background(), SubmitInput{UserID: "user-1", UserSummary: "summary"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analyses/"+analysis.ID, nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var body struct {
		AnalysisID string `json:"analysisId"`
		Status     string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.AnalysisID != analysis.ID || body.Status != StatusQueued {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestGetAnalysisEndpointNotFound(t *testing.T) {
	router, _, _ := setupAnalysesRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analyses/missing", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}
}

func TestListAnalysesEndpoint(t *testing.T) {
	router, svc, _ := setupAnalysesRouter(t)

	for i := 0; i < 2; i++ {
		if _, err := svc.Create(context.Background(), SubmitInput{UserID: "user-1", UserSummary: "summary"}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/analyses?user_id=user-1", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var body struct {
		Count    int               `json:"count"`
		Analyses []json.RawMessage `json:"analyses"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Count != 2 || len(body.Analyses) != 2 {
		t.Fatalf("expected 2 analyses, got %+v", body)
	}
}
