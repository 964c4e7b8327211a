package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/VGOWTHAM55/chat-web/internal/domain"
	"github.com/VGOWTHAM55/chat-web/internal/observability"
	"github.com/VGOWTHAM55/chat-web/internal/service"
)

// MessageHandler serves the REST surface over the message store: the
// one-shot history backfill and the persistence-only submission path.
type MessageHandler struct {
	relayService *service.RelayService
}

// NewMessageHandler creates a new message handler
func NewMessageHandler(relayService *service.RelayService) *MessageHandler {
	return &MessageHandler{relayService: relayService}
}

// SubmitMessageRequest represents a REST message submission
type SubmitMessageRequest struct {
	Sender string `json:"sender"`
	Text   string `json:"text"`
}

// History returns the backfill snapshot: the oldest stored messages in
// ascending order, capped at 100. A store failure here never touches the
// live broadcast path.
func (h *MessageHandler) History(w http.ResponseWriter, r *http.Request) {
	messages, err := h.relayService.History(r.Context())
	if err != nil {
		observability.FromContext(r.Context()).Error("failed to serve history",
			"error", err.Error())
		http.Error(w, `{"error":"Failed to load messages"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(messages)
}

// Submit persists a message without fanning it out; the socket path is
// responsible for broadcast. A client that publishes over the socket AND
// posts here stores the same message twice: the wire format carries no
// idempotency token to deduplicate on, so both writes land.
func (h *MessageHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req SubmitMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, `{"error":"Invalid request body"}`, http.StatusBadRequest)
		return
	}

	msg, err := h.relayService.Save(r.Context(), req.Sender, req.Text)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			http.Error(w, `{"error":"`+err.Error()+`"}`, http.StatusBadRequest)
			return
		}
		observability.FromContext(r.Context()).Error("failed to save message",
			"error", err.Error(),
			"sender", req.Sender)
		http.Error(w, `{"error":"Failed to save message"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(msg)
}
