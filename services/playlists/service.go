package playlists

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"streamvault/internal/storage"
	"streamvault/models"
)

var (
	ErrNameRequired     = errors.New("playlist name is required")
	ErrPlaylistNotFound = errors.New("playlist not found")
)

// Service manages the playlist collection: ordered lists of program id
// references stored independently of the program catalog. No referential
// integrity is enforced against the catalog; Resolve simply skips ids
// that no longer exist.
type Service struct {
	mu        sync.RWMutex
	playlists []models.Playlist
	persist   *storage.Playlists
}

func NewService(persist *storage.Playlists) *Service {
	return &Service{
		playlists: persist.Load(),
		persist:   persist,
	}
}

// List returns a copy of all playlists in creation order.
func (s *Service) List() []models.Playlist {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Playlist, len(s.playlists))
	for i, pl := range s.playlists {
		out[i] = clonePlaylist(pl)
	}
	return out
}

// Get returns the playlist with the given id.
func (s *Service) Get(id string) (models.Playlist, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, pl := range s.playlists {
		if pl.ID == id {
			return clonePlaylist(pl), true
		}
	}
	return models.Playlist{}, false
}

// Create adds a new empty playlist.
func (s *Service) Create(name, description, color string) (models.Playlist, error) {
	if strings.TrimSpace(name) == "" {
		return models.Playlist{}, ErrNameRequired
	}

	now := time.Now().UTC()
	pl := models.Playlist{
		ID:          uuid.NewString(),
		Name:        name,
		Description: description,
		ProgramIDs:  []string{},
		CreatedAt:   now,
		UpdatedAt:   now,
		Color:       color,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.playlists = append(s.playlists, pl)
	s.persist.Save(s.playlists)
	return clonePlaylist(pl), nil
}

// Update changes name, description or color of a playlist. Empty name
// keeps the current one.
func (s *Service) Update(id, name, description, color string) (models.Playlist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.playlists {
		if s.playlists[i].ID != id {
			continue
		}
		if strings.TrimSpace(name) != "" {
			s.playlists[i].Name = name
		}
		if description != "" {
			s.playlists[i].Description = description
		}
		if color != "" {
			s.playlists[i].Color = color
		}
		s.playlists[i].UpdatedAt = time.Now().UTC()
		s.persist.Save(s.playlists)
		return clonePlaylist(s.playlists[i]), nil
	}
	return models.Playlist{}, ErrPlaylistNotFound
}

// Delete removes a playlist.
func (s *Service) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.playlists {
		if s.playlists[i].ID == id {
			s.playlists = append(s.playlists[:i], s.playlists[i+1:]...)
			s.persist.Save(s.playlists)
			return nil
		}
	}
	return ErrPlaylistNotFound
}

// AddProgram appends a program reference unless it is already present.
func (s *Service) AddProgram(id, programID string) (models.Playlist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.playlists {
		if s.playlists[i].ID != id {
			continue
		}
		if !s.playlists[i].Contains(programID) {
			s.playlists[i].ProgramIDs = append(s.playlists[i].ProgramIDs, programID)
			s.playlists[i].UpdatedAt = time.Now().UTC()
			s.persist.Save(s.playlists)
		}
		return clonePlaylist(s.playlists[i]), nil
	}
	return models.Playlist{}, ErrPlaylistNotFound
}

// RemoveProgram drops a program reference if present.
func (s *Service) RemoveProgram(id, programID string) (models.Playlist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.playlists {
		if s.playlists[i].ID != id {
			continue
		}
		ids := s.playlists[i].ProgramIDs
		for j, pid := range ids {
			if pid == programID {
				s.playlists[i].ProgramIDs = append(ids[:j:j], ids[j+1:]...)
				s.playlists[i].UpdatedAt = time.Now().UTC()
				s.persist.Save(s.playlists)
				break
			}
		}
		return clonePlaylist(s.playlists[i]), nil
	}
	return models.Playlist{}, ErrPlaylistNotFound
}

// Resolve maps a playlist's references onto actual catalog programs,
// skipping dangling ids.
func Resolve(pl models.Playlist, lookup func(string) (models.Program, bool)) []models.Program {
	programs := make([]models.Program, 0, len(pl.ProgramIDs))
	for _, id := range pl.ProgramIDs {
		if p, ok := lookup(id); ok {
			programs = append(programs, p)
		}
	}
	return programs
}

func clonePlaylist(pl models.Playlist) models.Playlist {
	ids := make([]string, len(pl.ProgramIDs))
	copy(ids, pl.ProgramIDs)
	pl.ProgramIDs = ids
	return pl
}
