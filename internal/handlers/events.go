package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gamepulse/randomwatch/internal/services/queue"
	"github.com/gamepulse/randomwatch/internal/storage"
	"github.com/gamepulse/randomwatch/pkg/event"
)

// EventsHandler accepts client event envelopes and enqueues them for
// asynchronous processing.
type EventsHandler struct {
	queue   *queue.EventQueue
	storage storage.Storage
	logger  *slog.Logger
}

// NewEventsHandler creates a new event ingest handler
func NewEventsHandler(eventQueue *queue.EventQueue, storage storage.Storage, logger *slog.Logger) *EventsHandler {
	return &EventsHandler{
		queue:   eventQueue,
		storage: storage,
		logger:  logger,
	}
}

// ServeHTTP handles HTTP requests for event ingestion
// POST /v1/events - Enqueue an event envelope
func (h *EventsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		h.logger.Warn("Method not allowed for events endpoint", "method", r.Method)
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Only POST is supported.")
		return
	}

	var env event.Envelope
	if err := json.NewDecoder(r.Body).Decode(&env); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}

	if err := env.Validate(); err != nil {
		h.logger.Warn("Invalid event envelope", "error", err)
		writeError(w, h.logger, http.StatusBadRequest, err.Error())
		return
	}

	sess, err := h.storage.LoadSession(r.Context(), env.SessionID)
	if err != nil {
		h.logger.Error("Failed to load session", "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to load session")
		return
	}
	if sess == nil {
		writeError(w, h.logger, http.StatusNotFound, "Session not found")
		return
	}

	if err := h.queue.Enqueue(r.Context(), &env); err != nil {
		h.logger.Error("Failed to enqueue event", "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to enqueue event")
		return
	}

	h.logger.Debug("Event enqueued",
		"session_id", env.SessionID.String(),
		"type", env.Type,
		"tick", env.Tick,
	)

	w.WriteHeader(http.StatusAccepted)
	if err := json.NewEncoder(w).Encode(map[string]string{"status": "queued"}); err != nil {
		h.logger.Error("Failed to encode response", "error", err)
	}
}
