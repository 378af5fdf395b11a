package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/gamepulse/randomwatch/internal/storage"
	"github.com/gamepulse/randomwatch/pkg/session"
	"github.com/gamepulse/randomwatch/pkg/settings"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// CreateSessionRequest defines the request body for creating a session.
// Settings are optional; defaults apply when omitted.
type CreateSessionRequest struct {
	Player   string             `json:"player"`
	Settings *settings.Settings `json:"settings,omitempty"`
}

// SessionResponse pairs a session with its watcher settings.
type SessionResponse struct {
	Session  *session.State     `json:"session"`
	Settings *settings.Settings `json:"settings"`
}

type SessionsHandler struct {
	storage storage.Storage
	logger  *slog.Logger
}

func NewSessionsHandler(storage storage.Storage, logger *slog.Logger) *SessionsHandler {
	return &SessionsHandler{
		storage: storage,
		logger:  logger,
	}
}

// ServeHTTP handles HTTP requests for session operations
// Routes:
// POST /v1/sessions         - Create new session
// GET /v1/sessions/{id}     - Read session and settings by ID
// PATCH /v1/sessions/{id}   - Update session settings
// DELETE /v1/sessions/{id}  - Delete session by ID
func (h *SessionsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	path := strings.TrimPrefix(r.URL.Path, "/v1/sessions")
	var sessionID uuid.UUID
	var err error

	if path != "" && path != "/" {
		idStr := strings.Trim(path, "/")
		sessionID, err = uuid.Parse(idStr)
		if err != nil {
			h.logger.Warn("Invalid session ID", "id", idStr, "error", err)
			writeError(w, h.logger, http.StatusBadRequest, "Invalid session ID format")
			return
		}
	}

	switch r.Method {
	case http.MethodPost:
		h.handleCreate(w, r)

	case http.MethodGet:
		if sessionID == uuid.Nil {
			writeError(w, h.logger, http.StatusBadRequest, "Session ID is required for GET requests")
			return
		}
		h.handleRead(w, r, sessionID)

	case http.MethodPatch:
		if sessionID == uuid.Nil {
			writeError(w, h.logger, http.StatusBadRequest, "Session ID is required for PATCH requests")
			return
		}
		h.handlePatch(w, r, sessionID)

	case http.MethodDelete:
		if sessionID == uuid.Nil {
			writeError(w, h.logger, http.StatusBadRequest, "Session ID is required for DELETE requests")
			return
		}
		h.handleDelete(w, r, sessionID)

	default:
		h.logger.Warn("Method not allowed for sessions endpoint", "method", r.Method)
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Supported methods: POST, GET, PATCH, DELETE")
	}
}

func (h *SessionsHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}
	if req.Player == "" {
		writeError(w, h.logger, http.StatusBadRequest, "Player name is required")
		return
	}

	sess := session.New(req.Player)
	sets := req.Settings
	if sets == nil {
		sets = settings.Default()
	}

	if err := h.storage.SaveSettings(r.Context(), sess.ID, sets); err != nil {
		h.logger.Error("Failed to save settings", "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to create session")
		return
	}
	if err := h.storage.SaveSession(r.Context(), sess); err != nil {
		h.logger.Error("Failed to save session", "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to create session")
		return
	}

	h.logger.Info("Session created", "session_id", sess.ID.String(), "player", sess.Player)

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(SessionResponse{Session: sess, Settings: sets}); err != nil {
		h.logger.Error("Failed to encode session response", "error", err)
	}
}

func (h *SessionsHandler) handleRead(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	sess, err := h.storage.LoadSession(r.Context(), id)
	if err != nil {
		h.logger.Error("Failed to load session", "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to load session")
		return
	}
	if sess == nil {
		writeError(w, h.logger, http.StatusNotFound, "Session not found")
		return
	}

	sets, err := h.storage.LoadSettings(r.Context(), id)
	if err != nil {
		h.logger.Error("Failed to load settings", "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to load settings")
		return
	}
	if sets == nil {
		sets = settings.Default()
	}

	if err := json.NewEncoder(w).Encode(SessionResponse{Session: sess, Settings: sets}); err != nil {
		h.logger.Error("Failed to encode session response", "error", err)
	}
}

func (h *SessionsHandler) handlePatch(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	sess, err := h.storage.LoadSession(r.Context(), id)
	if err != nil {
		h.logger.Error("Failed to load session", "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to load session")
		return
	}
	if sess == nil {
		writeError(w, h.logger, http.StatusNotFound, "Session not found")
		return
	}

	var sets settings.Settings
	if err := json.NewDecoder(r.Body).Decode(&sets); err != nil {
		writeError(w, h.logger, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}

	if err := h.storage.SaveSettings(r.Context(), id, &sets); err != nil {
		h.logger.Error("Failed to save settings", "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to save settings")
		return
	}

	h.logger.Info("Session settings updated", "session_id", id.String())

	if err := json.NewEncoder(w).Encode(SessionResponse{Session: sess, Settings: &sets}); err != nil {
		h.logger.Error("Failed to encode session response", "error", err)
	}
}

func (h *SessionsHandler) handleDelete(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	if err := h.storage.DeleteSettings(r.Context(), id); err != nil {
		h.logger.Error("Failed to delete settings", "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to delete session")
		return
	}
	if err := h.storage.DeleteSession(r.Context(), id); err != nil {
		h.logger.Error("Failed to delete session", "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to delete session")
		return
	}

	h.logger.Info("Session deleted", "session_id", id.String())
	w.WriteHeader(http.StatusNoContent)
}

func writeError(w http.ResponseWriter, logger *slog.Logger, status int, message string) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(ErrorResponse{Error: message}); err != nil {
		logger.Error("Failed to encode error response", "error", err)
	}
}
