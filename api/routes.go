package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"streamvault/handlers"
)

// corsMiddleware handles CORS for API routes so a browser frontend served
// from another origin can talk to the catalog.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "*")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// Register mounts API endpoints onto the provided router.
func Register(
	r *mux.Router,
	catalogHandler *handlers.CatalogHandler,
	playlistsHandler *handlers.PlaylistsHandler,
	resolveHandler *handlers.ResolveHandler,
	playbackHandler *handlers.PlaybackHandler,
) {
	api := r.PathPrefix("/api").Subrouter()
	api.Use(corsMiddleware)

	// Preflight requests carry no method-specific route; the middleware
	// answers them once the subrouter matches.
	api.PathPrefix("/").Methods(http.MethodOptions).HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})

	// Program catalog
	api.HandleFunc("/programs", catalogHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/programs", catalogHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/programs", catalogHandler.Clear).Methods(http.MethodDelete)
	api.HandleFunc("/programs/reorder", catalogHandler.Reorder).Methods(http.MethodPost)
	api.HandleFunc("/programs/genres", catalogHandler.Genres).Methods(http.MethodGet)
	api.HandleFunc("/programs/featured", catalogHandler.GetFeatured).Methods(http.MethodGet)
	api.HandleFunc("/programs/export", catalogHandler.Export).Methods(http.MethodGet)
	api.HandleFunc("/programs/import", catalogHandler.Import).Methods(http.MethodPost)
	api.HandleFunc("/programs/import/url", catalogHandler.ImportURL).Methods(http.MethodPost)
	api.HandleFunc("/programs/reset", catalogHandler.Reset).Methods(http.MethodPost)
	api.HandleFunc("/programs/{programID}", catalogHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/programs/{programID}", catalogHandler.Edit).Methods(http.MethodPut)
	api.HandleFunc("/programs/{programID}", catalogHandler.Patch).Methods(http.MethodPatch)
	api.HandleFunc("/programs/{programID}", catalogHandler.Delete).Methods(http.MethodDelete)
	api.HandleFunc("/programs/{programID}/index", catalogHandler.IndexOf).Methods(http.MethodGet)
	api.HandleFunc("/programs/{programID}/featured", catalogHandler.SetFeatured).Methods(http.MethodPut)
	api.HandleFunc("/programs/{programID}/featured", catalogHandler.ClearFeatured).Methods(http.MethodDelete)
	api.HandleFunc("/programs/{programID}/favorite", catalogHandler.SetFavorite).Methods(http.MethodPut)
	api.HandleFunc("/programs/{programID}/progress", catalogHandler.SetProgress).Methods(http.MethodPut)

	// Playlists
	api.HandleFunc("/playlists", playlistsHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/playlists", playlistsHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/playlists/{playlistID}", playlistsHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/playlists/{playlistID}", playlistsHandler.Update).Methods(http.MethodPut)
	api.HandleFunc("/playlists/{playlistID}", playlistsHandler.Delete).Methods(http.MethodDelete)
	api.HandleFunc("/playlists/{playlistID}/programs", playlistsHandler.Programs).Methods(http.MethodGet)
	api.HandleFunc("/playlists/{playlistID}/programs/{programID}", playlistsHandler.AddProgram).Methods(http.MethodPut)
	api.HandleFunc("/playlists/{playlistID}/programs/{programID}", playlistsHandler.RemoveProgram).Methods(http.MethodDelete)

	// Video source resolution
	api.HandleFunc("/resolve", resolveHandler.Resolve).Methods(http.MethodGet)

	// Playback sessions
	api.HandleFunc("/playback/sessions", playbackHandler.Open).Methods(http.MethodPost)
	api.HandleFunc("/playback/sessions/{sessionID}", playbackHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/playback/sessions/{sessionID}", playbackHandler.Close).Methods(http.MethodDelete)
	api.HandleFunc("/playback/sessions/{sessionID}/events", playbackHandler.Event).Methods(http.MethodPost)
}
