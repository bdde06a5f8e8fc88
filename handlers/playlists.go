package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"streamvault/models"
	"streamvault/services/playlists"
)

type playlistsService interface {
	List() []models.Playlist
	Get(id string) (models.Playlist, bool)
	Create(name, description, color string) (models.Playlist, error)
	Update(id, name, description, color string) (models.Playlist, error)
	Delete(id string) error
	AddProgram(id, programID string) (models.Playlist, error)
	RemoveProgram(id, programID string) (models.Playlist, error)
}

var _ playlistsService = (*playlists.Service)(nil)

type programLookup interface {
	GetByID(id string) (models.Program, bool)
}

// PlaylistsHandler is the HTTP surface over the playlist collection.
type PlaylistsHandler struct {
	Service playlistsService
	Catalog programLookup
}

func NewPlaylistsHandler(service playlistsService, catalog programLookup) *PlaylistsHandler {
	return &PlaylistsHandler{Service: service, Catalog: catalog}
}

func (h *PlaylistsHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Service.List())
}

func (h *PlaylistsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(mux.Vars(r)["playlistID"])

	pl, ok := h.Service.Get(id)
	if !ok {
		http.Error(w, "playlist not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, pl)
}

// Programs resolves a playlist's id references against the catalog,
// skipping dangling ids.
func (h *PlaylistsHandler) Programs(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(mux.Vars(r)["playlistID"])

	pl, ok := h.Service.Get(id)
	if !ok {
		http.Error(w, "playlist not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, playlists.Resolve(pl, h.Catalog.GetByID))
}

func (h *PlaylistsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Color       string `json:"color"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	pl, err := h.Service.Create(body.Name, body.Description, body.Color)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, playlists.ErrNameRequired) {
			status = http.StatusBadRequest
		}
		http.Error(w, err.Error(), status)
		return
	}
	writeJSON(w, http.StatusCreated, pl)
}

func (h *PlaylistsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(mux.Vars(r)["playlistID"])

	var body struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Color       string `json:"color"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	pl, err := h.Service.Update(id, body.Name, body.Description, body.Color)
	if err != nil {
		http.Error(w, err.Error(), playlistErrorStatus(err))
		return
	}
	writeJSON(w, http.StatusOK, pl)
}

func (h *PlaylistsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(mux.Vars(r)["playlistID"])

	if err := h.Service.Delete(id); err != nil {
		http.Error(w, err.Error(), playlistErrorStatus(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *PlaylistsHandler) AddProgram(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	pl, err := h.Service.AddProgram(strings.TrimSpace(vars["playlistID"]), strings.TrimSpace(vars["programID"]))
	if err != nil {
		http.Error(w, err.Error(), playlistErrorStatus(err))
		return
	}
	writeJSON(w, http.StatusOK, pl)
}

func (h *PlaylistsHandler) RemoveProgram(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	pl, err := h.Service.RemoveProgram(strings.TrimSpace(vars["playlistID"]), strings.TrimSpace(vars["programID"]))
	if err != nil {
		http.Error(w, err.Error(), playlistErrorStatus(err))
		return
	}
	writeJSON(w, http.StatusOK, pl)
}

func playlistErrorStatus(err error) int {
	switch {
	case errors.Is(err, playlists.ErrPlaylistNotFound):
		return http.StatusNotFound
	case errors.Is(err, playlists.ErrNameRequired):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
