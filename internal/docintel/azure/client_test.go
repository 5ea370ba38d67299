package azure

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestClientExtractPollsUntilSucceeded(t *testing.T) {
	var polls int32
	mux := http.NewServeMux()

	var srv *httptest.Server
	mux.HandleFunc("/documentintelligence/documentModels/prebuilt-layout:analyze", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if r.Header.Get("Ocp-Apim-Subscription-Key") != "test-key" {
			t.Errorf("missing subscription key header")
		}
		w.Header().Set("Operation-Location", srv.URL+"/operations/op-1")
		w.WriteHeader(http.StatusAccepted)
	})
	mux.HandleFunc("/operations/op-1", func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&polls, 1) < 2 {
			w.Write([]byte(`{"status":"running"}`))
			return
		}
		w.Write([]byte(`{
			"status": "succeeded",
			"analyzeResult": {
				"content": "hello world",
				"paragraphs": [{"content": "hello world", "confidence": 0.9}],
				"tables": [{
					"rowCount": 1,
					"columnCount": 1,
					"cells": [{"content": "A1", "confidence": 0.7}]
				}]
			}
		}`))
	})
	srv = httptest.NewServer(mux)
	defer srv.Close()

	client, err := NewClient(srv.URL, "test-key", "")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	client.pollWait = 5 * time.Millisecond

	got, err := client.Extract(context.Background(), []byte("pdf bytes"), "resume.pdf")
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if got.Text != "hello world" {
		t.Fatalf("unexpected text: %q", got.Text)
	}
	if len(got.Paragraphs) != 1 || got.Paragraphs[0].Confidence == nil || *got.Paragraphs[0].Confidence != 0.9 {
		t.Fatalf("unexpected paragraphs: %+v", got.Paragraphs)
	}
	if len(got.Tables) != 1 || len(got.Tables[0].Cells) != 1 || *got.Tables[0].Cells[0].Confidence != 0.7 {
		t.Fatalf("unexpected tables: %+v", got.Tables)
	}
	if atomic.LoadInt32(&polls) < 2 {
		t.Fatalf("expected at least two polls, got %d", polls)
	}
}

func TestClientExtractOperationFailed(t *testing.T) {
	mux := http.NewServeMux()
	var srv *httptest.Server
	mux.HandleFunc("/documentintelligence/documentModels/prebuilt-layout:analyze", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Operation-Location", srv.URL+"/operations/op-2")
		w.WriteHeader(http.StatusAccepted)
	})
	mux.HandleFunc("/operations/op-2", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"failed"}`))
	})
	srv = httptest.NewServer(mux)
	defer srv.Close()

	client, err := NewClient(srv.URL, "test-key", "")
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	client.pollWait = time.Millisecond

	if _, err := client.Extract(context.Background(), []byte("x"), "resume.pdf"); err == nil {
		t.Fatalf("expected error for failed analyze operation")
	}
}

func TestNewClientRequiresEndpointAndKey(t *testing.T) {
	if _, err := NewClient("", "key", ""); err == nil {
		t.Fatalf("expected error for missing endpoint")
	}
	if _, err := NewClient("https://example.com", "", ""); err == nil {
		t.Fatalf("expected error for missing key")
	}
}
