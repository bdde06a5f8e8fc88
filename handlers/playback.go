package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"streamvault/services/playback"
)

type playbackManager interface {
	Open(sessionID, rawURL, title string) (playback.Status, error)
	Event(sessionID string, ev playback.Event) (playback.Status, error)
	Get(sessionID string) (playback.Status, error)
	Close(sessionID string)
}

var _ playbackManager = (*playback.Manager)(nil)

// PlaybackHandler drives playback sessions over HTTP: one session per
// open player overlay.
type PlaybackHandler struct {
	Manager playbackManager
}

func NewPlaybackHandler(manager playbackManager) *PlaybackHandler {
	return &PlaybackHandler{Manager: manager}
}

// Open starts (or resets) a playback session for a video URL.
func (h *PlaybackHandler) Open(w http.ResponseWriter, r *http.Request) {
	var body struct {
		SessionID string `json:"sessionId"`
		URL       string `json:"url"`
		Title     string `json:"title"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(body.URL) == "" {
		http.Error(w, "url is required", http.StatusBadRequest)
		return
	}

	status, err := h.Manager.Open(body.SessionID, body.URL, body.Title)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// Event feeds a player surface event (canplay, waiting, stalled, error,
// frameloaded) into a session.
func (h *PlaybackHandler) Event(w http.ResponseWriter, r *http.Request) {
	sessionID := strings.TrimSpace(mux.Vars(r)["sessionID"])

	var body struct {
		Event string `json:"event"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	status, err := h.Manager.Event(sessionID, playback.Event(body.Event))
	if err != nil {
		statusCode := http.StatusInternalServerError
		switch {
		case errors.Is(err, playback.ErrSessionNotFound):
			statusCode = http.StatusNotFound
		case errors.Is(err, playback.ErrSessionClosed):
			statusCode = http.StatusConflict
		}
		http.Error(w, err.Error(), statusCode)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// Get returns the current session snapshot.
func (h *PlaybackHandler) Get(w http.ResponseWriter, r *http.Request) {
	sessionID := strings.TrimSpace(mux.Vars(r)["sessionID"])

	status, err := h.Manager.Get(sessionID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// Close dismisses a session; pending provider timers are cancelled.
func (h *PlaybackHandler) Close(w http.ResponseWriter, r *http.Request) {
	sessionID := strings.TrimSpace(mux.Vars(r)["sessionID"])
	h.Manager.Close(sessionID)
	w.WriteHeader(http.StatusNoContent)
}
