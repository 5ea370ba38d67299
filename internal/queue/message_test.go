package queue

import (
	"reflect"
	"testing"
)

func TestMessageRoundTrip(t *testing.T) {
	msg := Message{
		AnalysisID:  "analysis-123",
		RequestID:   "request-456",
		UserID:      "user-1",
		ReportID:    "report-1",
		UserSummary: "summary text",
		FileNames:   []string{"resume.pdf"},
		Files:       []string{"aGVsbG8="},
		EnqueuedAt:  "2026-08-26T10:00:00Z",
		Version:     1,
	}

	payload, err := EncodeMessage(msg)
	if err != nil {
		t.Fatalf("encode message: %v", err)
	}

	got, err := DecodeMessage(payload)
	if err != nil {
		t.Fatalf("decode message: %v", err)
	}

	if !reflect.DeepEqual(got, msg) {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, msg)
	}
}

func TestDecodeMessageRejectsInvalidJSON(t *testing.T) {
	if _, err := DecodeMessage([]byte("{not json")); err == nil {
		t.Fatalf("expected error for invalid payload")
	}
}
