package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/jwebster45206/dialogue-engine/internal/storage"
	"github.com/jwebster45206/dialogue-engine/pkg/content"
	"github.com/jwebster45206/dialogue-engine/pkg/engine"
	"github.com/jwebster45206/dialogue-engine/pkg/view"
)

// ActionRequest is one player action. Type selects the action; the matching
// field carries its argument.
type ActionRequest struct {
	Type string `json:"type"` // choice, talk, take, travel, add_note, remove_note, locale

	ChoiceID   string `json:"choice_id,omitempty"`
	ActorID    string `json:"actor_id,omitempty"`
	ItemID     string `json:"item_id,omitempty"`
	LocationID string `json:"location_id,omitempty"`
	Text       string `json:"text,omitempty"`
	NoteIndex  int    `json:"note_index,omitempty"`
	Locale     string `json:"locale,omitempty"`
}

// ActionHandler applies player actions to a stored session.
//
// Route: POST /v1/sessions/{id}/action
type ActionHandler struct {
	registry *content.Registry
	storage  storage.Storage
	logger   *slog.Logger
}

func NewActionHandler(registry *content.Registry, storage storage.Storage, logger *slog.Logger) *ActionHandler {
	return &ActionHandler{
		registry: registry,
		storage:  storage,
		logger:   logger,
	}
}

func (h *ActionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		writeJSON(w, h.logger, ErrorResponse{Error: "Method not allowed. Supported methods: POST"})
		return
	}

	// Path shape: /v1/sessions/{id}/action
	path := strings.Trim(strings.TrimPrefix(r.URL.Path, "/v1/sessions"), "/")
	idStr, tail, _ := strings.Cut(path, "/")
	if tail != "action" {
		w.WriteHeader(http.StatusNotFound)
		writeJSON(w, h.logger, ErrorResponse{Error: "Not found"})
		return
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		writeJSON(w, h.logger, ErrorResponse{Error: "Invalid session ID format"})
		return
	}

	var req ActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		writeJSON(w, h.logger, ErrorResponse{Error: "Invalid request body"})
		return
	}

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

	eng := engine.New(h.registry, engine.WithLogger(h.logger))
	eng.Restore(saved)

	snap, ok := h.dispatch(eng, req)
	if !ok {
		w.WriteHeader(http.StatusBadRequest)
		writeJSON(w, h.logger, ErrorResponse{Error: "Unknown action type: " + req.Type})
		return
	}

	if err := h.storage.SaveSession(r.Context(), id, eng.Save()); err != nil {
		h.logger.Error("Failed to save session after action", "session_id", id, "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		writeJSON(w, h.logger, ErrorResponse{Error: "Failed to save session"})
		return
	}

	h.logger.Debug("Action applied", "session_id", id, "type", req.Type)
	writeJSON(w, h.logger, SessionResponse{ID: id, View: snap})
}

func (h *ActionHandler) dispatch(eng *engine.Engine, req ActionRequest) (*view.Snapshot, bool) {
	switch req.Type {
	case "choice":
		return eng.SelectChoice(req.ChoiceID), true
	case "talk":
		return eng.TalkTo(req.ActorID), true
	case "take":
		return eng.TakeItem(req.ItemID), true
	case "travel":
		return eng.TravelTo(req.LocationID), true
	case "add_note":
		return eng.AddNote(req.Text), true
	case "remove_note":
		return eng.RemoveNote(req.NoteIndex), true
	case "locale":
		return eng.SetLocale(req.Locale), true
	default:
		return nil, false
	}
}
