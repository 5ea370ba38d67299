package workerproc

import (
	"errors"
	"testing"

	"jobmate-backend/internal/queue"
)

func TestParseMessage(t *testing.T) {
	payload, err := queue.EncodeMessage(queue.Message{
		AnalysisID: "an-1",
		RequestID:  "req-1",
		UserID:     "user-1",
	})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	msg, meta, err := ParseMessage(string(payload))
	if err != nil {
		t.Fatalf("ParseMessage: %v", err)
	}
	if msg.AnalysisID != "an-1" || msg.UserID != "user-1" {
		t.Fatalf("unexpected message: %+v", msg)
	}
	if meta.BodyLen != len(payload) || meta.BodySHA == "" {
		t.Fatalf("unexpected meta: %+v", meta)
	}
}

func TestParseMessageEmptyBody(t *testing.T) {
	_, _, err := ParseMessage("   ")
	var empty ErrEmptyBody
	if !errors.As(err, &empty) {
		t.Fatalf("expected ErrEmptyBody, got %v", err)
	}
}

func TestParseMessageDecodeFailure(t *testing.T) {
	_, meta, err := ParseMessage("{broken")
	var decode ErrDecode
	if !errors.As(err, &decode) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}
	if meta.BodyLen != len("{broken") {
		t.Fatalf("unexpected meta: %+v", meta)
	}
}

func TestParseMessageMissingAnalysisID(t *testing.T) {
	_, _, err := ParseMessage(`{"requestId":"req-1"}`)
	var missing ErrMissingAnalysisID
	if !errors.As(err, &missing) {
		t.Fatalf("expected ErrMissingAnalysisID, got %v", err)
	}
	if missing.RequestID != "req-1" {
		t.Fatalf("expected request id to survive, got %+v", missing)
	}
}
