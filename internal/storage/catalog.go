package storage

import (
	"encoding/json"
	"log/slog"

	"streamvault/models"
)

// Catalog persists the full program catalog as one JSON blob under
// ProgramsKey. Load and Save never return errors: a missing value means a
// cold start, a corrupt value or a failed write is logged and otherwise
// swallowed so the in-memory catalog keeps working. On a failed save the
// in-memory state simply runs ahead of disk until the next save succeeds.
type Catalog struct {
	store Store
}

func NewCatalog(store Store) *Catalog {
	return &Catalog{store: store}
}

// Load returns the persisted catalog, or an empty one when nothing usable
// is stored. The platform deliberately starts empty; there is no seed data.
func (c *Catalog) Load() []models.Program {
	raw, ok, err := c.store.Get(ProgramsKey)
	if err != nil {
		slog.Error("failed to load program catalog", "error", err)
		return []models.Program{}
	}
	if !ok {
		return []models.Program{}
	}

	var programs []models.Program
	if err := json.Unmarshal([]byte(raw), &programs); err != nil {
		slog.Error("stored program catalog is not valid JSON, starting empty", "error", err)
		return []models.Program{}
	}
	if programs == nil {
		programs = []models.Program{}
	}
	return programs
}

// Save overwrites the persisted catalog with the full sequence.
func (c *Catalog) Save(programs []models.Program) {
	data, err := json.Marshal(programs)
	if err != nil {
		slog.Error("failed to encode program catalog", "error", err)
		return
	}
	if err := c.store.Set(ProgramsKey, string(data)); err != nil {
		slog.Error("failed to persist program catalog", "error", err)
	}
}

// Clear drops the persisted value entirely.
func (c *Catalog) Clear() {
	if err := c.store.Delete(ProgramsKey); err != nil {
		slog.Error("failed to clear program catalog", "error", err)
	}
}

// Playlists persists the playlist collection under PlaylistsKey with the
// same failure tolerance as Catalog. Playlists are stored independently of
// programs and hold only id references.
type Playlists struct {
	store Store
}

func NewPlaylists(store Store) *Playlists {
	return &Playlists{store: store}
}

func (p *Playlists) Load() []models.Playlist {
	raw, ok, err := p.store.Get(PlaylistsKey)
	if err != nil {
		slog.Error("failed to load playlists", "error", err)
		return []models.Playlist{}
	}
	if !ok {
		return []models.Playlist{}
	}

	var playlists []models.Playlist
	if err := json.Unmarshal([]byte(raw), &playlists); err != nil {
		slog.Error("stored playlists are not valid JSON, starting empty", "error", err)
		return []models.Playlist{}
	}
	if playlists == nil {
		playlists = []models.Playlist{}
	}
	return playlists
}

func (p *Playlists) Save(playlists []models.Playlist) {
	data, err := json.Marshal(playlists)
	if err != nil {
		slog.Error("failed to encode playlists", "error", err)
		return
	}
	if err := p.store.Set(PlaylistsKey, string(data)); err != nil {
		slog.Error("failed to persist playlists", "error", err)
	}
}
