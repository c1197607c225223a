package api

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/adpulse/adpulse/internal/session"
)

const maxQuestionLength = 2000

type askRequest struct {
	Question string `json:"question"`
}

type askResponse struct {
	State      session.State `json:"state"`
	Message    string        `json:"message"`
	SQL        string        `json:"sql,omitempty"`
	Columns    []string      `json:"columns,omitempty"`
	Rows       [][]any       `json:"rows,omitempty"`
	Insight    string        `json:"insight,omitempty"`
	DurationMs int64         `json:"duration_ms"`
}

func handleAsk(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if deps.Conversation == nil {
		writeError(r.Context(), w, http.StatusNotImplemented, "ASK_NOT_CONFIGURED", "conversation dependencies are not configured", false, nil)
		return
	}

	var request askRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&request); err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_JSON", "invalid ask request body", false, map[string]any{"details": err.Error()})
		return
	}

	question := strings.TrimSpace(request.Question)
	if question == "" {
		writeError(r.Context(), w, http.StatusBadRequest, "QUESTION_REQUIRED", "question is required", false, nil)
		return
	}
	if len(question) > maxQuestionLength {
		writeError(r.Context(), w, http.StatusBadRequest, "QUESTION_TOO_LONG", "question exceeds the maximum length", false, map[string]any{"max_length": maxQuestionLength})
		return
	}

	turn := deps.Conversation.RunTurn(r.Context(), question)
	writeJSON(w, http.StatusOK, askResponse{
		State:      turn.State,
		Message:    turn.Message,
		SQL:        turn.SQL,
		Columns:    turn.Columns,
		Rows:       turn.Rows,
		Insight:    turn.Insight,
		DurationMs: turn.Duration.Milliseconds(),
	})
}
