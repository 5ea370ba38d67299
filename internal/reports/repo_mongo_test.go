package reports

import (
	"encoding/json"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"jobmate-backend/internal/orchestrate"
)

func TestEncodeResultStoresNestedDocument(t *testing.T) {
	doc, err := encodeResult(sampleResult())
	if err != nil {
		t.Fatalf("encodeResult: %v", err)
	}

	comp, ok := doc["comprehension"].(map[string]any)
	if !ok {
		t.Fatalf("comprehension is not a nested document: %T", doc["comprehension"])
	}
	payload, ok := comp["payload"].(map[string]any)
	if !ok {
		t.Fatalf("comprehension payload is not a nested document: %T", comp["payload"])
	}
	if payload["score"] != float64(80) {
		t.Fatalf("unexpected comprehension payload: %+v", payload)
	}
}

func TestDecodeResultRoundTrip(t *testing.T) {
	original := sampleResult()
	doc, err := encodeResult(original)
	if err != nil {
		t.Fatalf("encodeResult: %v", err)
	}

	decoded, err := decodeResult(doc)
	if err != nil {
		t.Fatalf("decodeResult: %v", err)
	}
	if !decoded.Comprehension.Succeeded() || !decoded.Questions.Succeeded() || !decoded.ActionItems.Succeeded() {
		t.Fatalf("decoded outcomes lost payloads: %+v", decoded)
	}

	var questions []string
	if err := json.Unmarshal(decoded.Questions.Payload, &questions); err != nil {
		t.Fatalf("unmarshal questions: %v", err)
	}
	if len(questions) != 1 || questions[0] != "q1" {
		t.Fatalf("unexpected questions after round trip: %v", questions)
	}
}

func TestDecodeResultKeepsFailureOutcome(t *testing.T) {
	result := sampleResult()
	result.Questions = orchestrate.Outcome{Error: "model unavailable"}

	doc, err := encodeResult(result)
	if err != nil {
		t.Fatalf("encodeResult: %v", err)
	}
	decoded, err := decodeResult(doc)
	if err != nil {
		t.Fatalf("decodeResult: %v", err)
	}
	if decoded.Questions.Succeeded() || decoded.Questions.Error != "model unavailable" {
		t.Fatalf("failure outcome not preserved: %+v", decoded.Questions)
	}
}

func TestMongoReportToReport(t *testing.T) {
	encoded, err := encodeResult(sampleResult())
	if err != nil {
		t.Fatalf("encodeResult: %v", err)
	}
	created := time.Now().UTC().Truncate(time.Millisecond)
	objectID := primitive.NewObjectID()
	doc := mongoReport{
		ID:             objectID,
		UserID:         "user-1",
		ReportID:       "report-1",
		AnalysisResult: encoded,
		CreatedAt:      created,
	}

	report, err := doc.toReport()
	if err != nil {
		t.Fatalf("toReport: %v", err)
	}
	if report.ID != objectID.Hex() {
		t.Fatalf("expected ID %q, got %q", objectID.Hex(), report.ID)
	}
	if report.UserID != "user-1" || report.ReportID != "report-1" {
		t.Fatalf("unexpected keys: %+v", report)
	}
	if !report.CreatedAt.Equal(created) {
		t.Fatalf("expected CreatedAt %v, got %v", created, report.CreatedAt)
	}
	if !report.AnalysisResult.Comprehension.Succeeded() {
		t.Fatalf("analysis result lost on mapping: %+v", report.AnalysisResult)
	}
}

func TestMongoReportToReportRejectsBadDocument(t *testing.T) {
	doc := mongoReport{
		UserID:         "user-1",
		ReportID:       "report-1",
		AnalysisResult: bson.M{"comprehension": make(chan int)},
	}
	if _, err := doc.toReport(); err == nil {
		t.Fatal("expected error for unmarshalable document")
	}
}
