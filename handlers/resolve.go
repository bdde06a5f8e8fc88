package handlers

import (
	"errors"
	"net/http"
	"strings"

	"streamvault/internal/videosource"
)

// ResolveHandler exposes the pure URL classification so a viewer surface
// can pick its player element before opening a playback session.
type ResolveHandler struct{}

func NewResolveHandler() *ResolveHandler {
	return &ResolveHandler{}
}

type resolveResponse struct {
	Kind     videosource.Kind `json:"kind"`
	URL      string           `json:"url"`
	ID       string           `json:"id,omitempty"`
	EmbedURL string           `json:"embedUrl,omitempty"`
	Iframe   bool             `json:"iframe"`
	Error    string           `json:"error,omitempty"`
}

func (h *ResolveHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	rawURL := strings.TrimSpace(r.URL.Query().Get("url"))
	if rawURL == "" {
		http.Error(w, "url query parameter is required", http.StatusBadRequest)
		return
	}

	source := videosource.Resolve(rawURL)
	resp := resolveResponse{
		Kind:   source.Kind,
		URL:    source.URL,
		ID:     source.ID,
		Iframe: source.UsesIframe(),
	}

	embed, err := source.EmbedURL()
	switch {
	case err == nil:
		resp.EmbedURL = embed
	case errors.Is(err, videosource.ErrNoEmbedID):
		// Provider matched but no id: classification stands, the embed
		// is simply unavailable.
		resp.Error = err.Error()
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
