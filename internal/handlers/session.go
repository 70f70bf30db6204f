package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/jwebster45206/dialogue-engine/internal/storage"
	"github.com/jwebster45206/dialogue-engine/pkg/content"
	"github.com/jwebster45206/dialogue-engine/pkg/engine"
	"github.com/jwebster45206/dialogue-engine/pkg/state"
	"github.com/jwebster45206/dialogue-engine/pkg/view"
)

// SessionResponse pairs the session id with the view produced by the last
// action.
type SessionResponse struct {
	ID   uuid.UUID      `json:"id"`
	View *view.Snapshot `json:"view"`
}

// SessionHandler manages session lifecycle.
//
// Routes:
//
//	POST   /v1/sessions      - create a new session
//	GET    /v1/sessions/{id} - fetch the current view
//	DELETE /v1/sessions/{id} - delete a session
type SessionHandler struct {
	registry *content.Registry
	startCfg state.Config
	storage  storage.Storage
	logger   *slog.Logger
}

func NewSessionHandler(registry *content.Registry, startCfg state.Config, storage storage.Storage, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		registry: registry,
		startCfg: startCfg,
		storage:  storage,
		logger:   logger,
	}
}

func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/sessions"), "/")

	switch r.Method {
	case http.MethodPost:
		if path != "" {
			w.WriteHeader(http.StatusBadRequest)
			writeJSON(w, h.logger, ErrorResponse{Error: "POST does not take a session ID"})
			return
		}
		h.handleCreate(w, r)

	case http.MethodGet:
		id, ok := h.parseID(w, path)
		if !ok {
			return
		}
		h.handleGet(w, r, id)

	case http.MethodDelete:
		id, ok := h.parseID(w, path)
		if !ok {
			return
		}
		h.handleDelete(w, r, id)

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
		writeJSON(w, h.logger, ErrorResponse{Error: "Method not allowed. Supported methods: POST, GET, DELETE"})
	}
}

func (h *SessionHandler) parseID(w http.ResponseWriter, path string) (uuid.UUID, bool) {
	if path == "" {
		w.WriteHeader(http.StatusBadRequest)
		writeJSON(w, h.logger, ErrorResponse{Error: "Session ID is required"})
		return uuid.Nil, false
	}
	id, err := uuid.Parse(path)
	if err != nil {
		h.logger.Warn("Invalid session ID", "id", path, "error", err)
		w.WriteHeader(http.StatusBadRequest)
		writeJSON(w, h.logger, ErrorResponse{Error: "Invalid session ID format"})
		return uuid.Nil, false
	}
	return id, true
}

func (h *SessionHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	id := uuid.New()
	eng := engine.New(h.registry)
	snap := eng.NewSession(h.startCfg)

	if err := h.storage.SaveSession(r.Context(), id, eng.Save()); err != nil {
		h.logger.Error("Failed to save new session", "session_id", id, "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		writeJSON(w, h.logger, ErrorResponse{Error: "Failed to save session"})
		return
	}

	h.logger.Info("Session created", "session_id", id)
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, h.logger, SessionResponse{ID: id, View: snap})
}

func (h *SessionHandler) handleGet(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	saved, err := h.storage.LoadSession(r.Context(), id)
	if err != nil {
		h.logger.Error("Failed to load session", "session_id", id, "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		writeJSON(w, h.logger, ErrorResponse{Error: "Failed to load session"})
		return
	}
	if saved == nil {
		w.WriteHeader(http.StatusNotFound)
		writeJSON(w, h.logger, ErrorResponse{Error: "Session not found"})
		return
	}

	eng := engine.New(h.registry)
	snap := eng.Restore(saved)
	writeJSON(w, h.logger, SessionResponse{ID: id, View: snap})
}

func (h *SessionHandler) handleDelete(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	if err := h.storage.DeleteSession(r.Context(), id); err != nil {
		h.logger.Error("Failed to delete session", "session_id", id, "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		writeJSON(w, h.logger, ErrorResponse{Error: "Failed to delete session"})
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
