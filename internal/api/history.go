package api

import (
	"net/http"

	"github.com/adpulse/adpulse/internal/session"
)

type historyResponse struct {
	Turns []session.Turn `json:"turns"`
	Count int            `json:"count"`
}

func handleHistory(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if deps.Conversation == nil {
		writeError(r.Context(), w, http.StatusNotImplemented, "ASK_NOT_CONFIGURED", "conversation dependencies are not configured", false, nil)
		return
	}
	turns := deps.Conversation.History()
	if turns == nil {
		turns = []session.Turn{}
	}
	writeJSON(w, http.StatusOK, historyResponse{Turns: turns, Count: len(turns)})
}

func handleResetHistory(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if deps.Conversation == nil {
		writeError(r.Context(), w, http.StatusNotImplemented, "ASK_NOT_CONFIGURED", "conversation dependencies are not configured", false, nil)
		return
	}
	deps.Conversation.Reset()
	writeJSON(w, http.StatusOK, map[string]any{"status": "reset"})
}
