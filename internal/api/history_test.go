package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/adpulse/adpulse/internal/config"
	"github.com/adpulse/adpulse/internal/schema"
	"github.com/adpulse/adpulse/internal/session"
)

func TestHistoryReturnsTranscriptInAskOrder(t *testing.T) {
	conversation := &fakeConversation{nextRun: session.Turn{State: session.StateInsightReady}}
	h := newAskHandler(t, conversation)

	for _, question := range []string{"first question", "second question"} {
		rr := httptest.NewRecorder()
		body := strings.NewReader(`{"question": "` + question + `"}`)
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/v1/ask", body))
		if rr.Code != http.StatusOK {
			t.Fatalf("ask status = %d", rr.Code)
		}
	}

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/history", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("history status = %d", rr.Code)
	}
	var resp historyResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json decode failed: %v", err)
	}
	if resp.Count != 2 {
		t.Fatalf("count = %d", resp.Count)
	}
	if resp.Turns[0].Question != "first question" || resp.Turns[1].Question != "second question" {
		t.Fatalf("turns = %#v", resp.Turns)
	}
}

func TestHistoryIsEmptyListWhenNoTurns(t *testing.T) {
	h := newAskHandler(t, &fakeConversation{})

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/history", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"turns":[]`) {
		t.Fatalf("body = %s", rr.Body.String())
	}
}

func TestDeleteHistoryResetsSession(t *testing.T) {
	conversation := &fakeConversation{nextRun: session.Turn{State: session.StateEmptyResults}}
	h := newAskHandler(t, conversation)

	body := strings.NewReader(`{"question": "anything"}`)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/v1/ask", body))
	if rr.Code != http.StatusOK {
		t.Fatalf("ask status = %d", rr.Code)
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/v1/history", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("reset status = %d", rr.Code)
	}
	if conversation.resets != 1 {
		t.Fatalf("resets = %d", conversation.resets)
	}

	rr = httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/history", nil))
	var resp historyResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json decode failed: %v", err)
	}
	if resp.Count != 0 {
		t.Fatalf("count after reset = %d", resp.Count)
	}
}

func TestSchemaEndpointReturnsDescriptor(t *testing.T) {
	cfg, err := config.Load("adpulse-api", mapLookup(map[string]string{}))
	if err != nil {
		t.Fatalf("config load failed: %v", err)
	}
	h := NewHandler(cfg, Dependencies{Schema: schema.Marketing()})

	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/schema", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	var resp schema.Descriptor
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json decode failed: %v", err)
	}
	if resp.Table != "customer" {
		t.Fatalf("table = %q", resp.Table)
	}
	if len(resp.Columns) != 19 || len(resp.Metrics) != 5 {
		t.Fatalf("columns = %d metrics = %d", len(resp.Columns), len(resp.Metrics))
	}
}
