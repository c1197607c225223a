package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/adpulse/adpulse/internal/config"
	"github.com/adpulse/adpulse/internal/session"
)

func newAskHandler(t *testing.T, conversation Conversation) http.Handler {
	t.Helper()
	cfg, err := config.Load("adpulse-api", mapLookup(map[string]string{}))
	if err != nil {
		t.Fatalf("config load failed: %v", err)
	}
	return NewHandler(cfg, Dependencies{Conversation: conversation})
}

func TestAskReturnsCompletedTurn(t *testing.T) {
	conversation := &fakeConversation{nextRun: session.Turn{
		State:    session.StateInsightReady,
		Message:  "Insight generated.",
		SQL:      `SELECT "platform" FROM customer`,
		Columns:  []string{"platform"},
		Rows:     [][]any{{"Meta"}},
		Insight:  "Meta leads the pack.",
		Duration: 1500 * time.Millisecond,
	}}
	h := newAskHandler(t, conversation)

	body := strings.NewReader(`{"question": "Which platform leads on ROAS?"}`)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/v1/ask", body))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d body = %s", rr.Code, rr.Body.String())
	}
	var resp askResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("json decode failed: %v", err)
	}
	if resp.State != session.StateInsightReady {
		t.Fatalf("state = %s", resp.State)
	}
	if resp.Insight != "Meta leads the pack." {
		t.Fatalf("insight = %q", resp.Insight)
	}
	if resp.DurationMs != 1500 {
		t.Fatalf("duration_ms = %d", resp.DurationMs)
	}
	if len(conversation.asked) != 1 || conversation.asked[0] != "Which platform leads on ROAS?" {
		t.Fatalf("asked = %#v", conversation.asked)
	}
}

func TestAskTrimsQuestionWhitespace(t *testing.T) {
	conversation := &fakeConversation{nextRun: session.Turn{State: session.StateInvalid}}
	h := newAskHandler(t, conversation)

	body := strings.NewReader(`{"question": "  What changed?  "}`)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/v1/ask", body))

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
	if len(conversation.asked) != 1 || conversation.asked[0] != "What changed?" {
		t.Fatalf("asked = %#v", conversation.asked)
	}
}

func TestAskRejectsBadRequests(t *testing.T) {
	conversation := &fakeConversation{}
	h := newAskHandler(t, conversation)

	cases := []struct {
		name string
		body string
	}{
		{name: "invalid json", body: `{`},
		{name: "unknown field", body: `{"question": "x", "sql": "SELECT 1"}`},
		{name: "empty question", body: `{"question": "   "}`},
		{name: "oversized question", body: `{"question": "` + strings.Repeat("a", maxQuestionLength+1) + `"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/v1/ask", strings.NewReader(tc.body)))
			if rr.Code != http.StatusBadRequest {
				t.Fatalf("status = %d", rr.Code)
			}
		})
	}
	if len(conversation.asked) != 0 {
		t.Fatalf("asked = %#v", conversation.asked)
	}
}

func TestAskWithoutConversationReturns501(t *testing.T) {
	h := newAskHandler(t, nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/v1/ask", strings.NewReader(`{"question": "x"}`)))
	if rr.Code != http.StatusNotImplemented {
		t.Fatalf("status = %d", rr.Code)
	}
}
