package handlers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwebster45206/dialogue-engine/internal/storage"
	"github.com/jwebster45206/dialogue-engine/pkg/content"
	"github.com/jwebster45206/dialogue-engine/pkg/script"
	"github.com/jwebster45206/dialogue-engine/pkg/state"
)

const innkeeperScript = `NODE greeting
  innkeeper: Welcome to the Harbor Inn.
  CHOICE A room for the night
    addVariable gold -50
  END
  CHOICE Just passing through
  END
`

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testRegistry(t *testing.T) *content.Registry {
	t.Helper()
	reg := content.NewRegistry()
	reg.Locations["harbor_inn"] = &content.Location{ID: "harbor_inn", Name: "The Harbor Inn"}
	reg.Locations["docks"] = &content.Location{ID: "docks", Name: "The Docks"}
	reg.Characters["innkeeper"] = &content.Character{ID: "innkeeper", Name: "Old Marta", Dialogue: "innkeeper_talk"}
	d, err := script.Compile("innkeeper_talk", innkeeperScript)
	require.NoError(t, err)
	reg.AddDialogue(d)
	return reg
}

func testStartConfig() state.Config {
	return state.Config{
		StartLocation: "harbor_inn",
		StartTime:     state.Time{Day: 1, Hour: 20},
		Vars:          map[string]any{"gold": float64(100)},
	}
}

func decodeSession(t *testing.T, body io.Reader) SessionResponse {
	t.Helper()
	var resp SessionResponse
	require.NoError(t, json.NewDecoder(body).Decode(&resp))
	return resp
}

func TestSessionCreate(t *testing.T) {
	mock := storage.NewMockStorage()
	h := NewSessionHandler(testRegistry(t), testStartConfig(), mock, testLogger())

	req := httptest.NewRequest(http.MethodPost, "/v1/sessions", nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	resp := decodeSession(t, w.Body)
	assert.NotEqual(t, uuid.Nil, resp.ID)
	require.NotNil(t, resp.View)
	assert.Equal(t, "The Harbor Inn", resp.View.Location.Name)

	// The new session is persisted.
	saved, err := mock.LoadSession(req.Context(), resp.ID)
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, "harbor_inn", saved.State.Location)
}

func TestSessionCreateRejectsID(t *testing.T) {
	h := NewSessionHandler(testRegistry(t), testStartConfig(), storage.NewMockStorage(), testLogger())

	req := httptest.NewRequest(http.MethodPost, "/v1/sessions/"+uuid.NewString(), nil)
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSessionCreateSaveError(t *testing.T) {
	mock := storage.NewMockStorage()
	mock.SaveErr = assert.AnError
	h := NewSessionHandler(testRegistry(t), testStartConfig(), mock, testLogger())

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/sessions", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestSessionGet(t *testing.T) {
	mock := storage.NewMockStorage()
	h := NewSessionHandler(testRegistry(t), testStartConfig(), mock, testLogger())

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/sessions", nil))
	created := decodeSession(t, w.Body)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/sessions/"+created.ID.String(), nil))

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeSession(t, w.Body)
	assert.Equal(t, created.ID, resp.ID)
	assert.Equal(t, "harbor_inn", resp.View.Location.ID)
}

func TestSessionGetErrors(t *testing.T) {
	h := NewSessionHandler(testRegistry(t), testStartConfig(), storage.NewMockStorage(), testLogger())

	tests := []struct {
		name string
		path string
		want int
	}{
		{"missing id", "/v1/sessions", http.StatusBadRequest},
		{"malformed id", "/v1/sessions/not-a-uuid", http.StatusBadRequest},
		{"unknown id", "/v1/sessions/" + uuid.NewString(), http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, tt.path, nil))
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestSessionDelete(t *testing.T) {
	mock := storage.NewMockStorage()
	h := NewSessionHandler(testRegistry(t), testStartConfig(), mock, testLogger())

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/v1/sessions", nil))
	created := decodeSession(t, w.Body)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/v1/sessions/"+created.ID.String(), nil))
	require.Equal(t, http.StatusNoContent, w.Code)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/v1/sessions/"+created.ID.String(), nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSessionMethodNotAllowed(t *testing.T) {
	h := NewSessionHandler(testRegistry(t), testStartConfig(), storage.NewMockStorage(), testLogger())

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodPut, "/v1/sessions", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
