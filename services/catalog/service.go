package catalog

import (
	"sync"

	"streamvault/internal/storage"
	"streamvault/models"
)

// Service is the single in-memory source of truth for the ordered program
// catalog. Every mutation is mirrored to the persistence adapter before it
// returns; reads hand out defensive copies so no caller can reach into the
// shared slice. Ordering is user-controlled (see Reorder) and never
// re-sorted implicitly.
type Service struct {
	mu       sync.RWMutex
	programs []models.Program
	persist  *storage.Catalog
}

// NewService loads the persisted catalog once and keeps it in memory for
// the lifetime of the process.
func NewService(persist *storage.Catalog) *Service {
	return &Service{
		programs: persist.Load(),
		persist:  persist,
	}
}

// GetAll returns a copy of the current ordered catalog.
func (s *Service) GetAll() []models.Program {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clonePrograms(s.programs)
}

// GetByID returns the program with the given id if present.
func (s *Service) GetByID(id string) (models.Program, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.programs {
		if p.ID == id {
			return cloneProgram(p), true
		}
	}
	return models.Program{}, false
}

// Add prepends a fully formed program to the catalog. Identity is the
// caller's responsibility (normally via BuildProgram); a colliding id is
// not rejected and simply yields two programs with the same id.
func (s *Service) Add(p models.Program) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.programs = append([]models.Program{cloneProgram(p)}, s.programs...)
	s.persist.Save(s.programs)
}

// Update shallow-merges the patch into the matching program. Missing ids
// are a silent no-op. Returns the updated program when one was found.
func (s *Service) Update(id string, patch models.ProgramPatch) (models.Program, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.programs {
		if s.programs[i].ID != id {
			continue
		}
		patch.Apply(&s.programs[i])
		s.persist.Save(s.programs)
		return cloneProgram(s.programs[i]), true
	}
	return models.Program{}, false
}

// Delete removes the matching program. Missing ids are a no-op.
func (s *Service) Delete(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.programs {
		if s.programs[i].ID == id {
			s.programs = append(s.programs[:i], s.programs[i+1:]...)
			s.persist.Save(s.programs)
			return
		}
	}
}

// Reorder moves the element at fromIndex to toIndex, shifting everything
// between (move semantics, not swap). Out-of-bounds indices are a no-op
// rather than a panic.
func (s *Service) Reorder(fromIndex, toIndex int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.programs)
	if fromIndex < 0 || fromIndex >= n || toIndex < 0 || toIndex >= n {
		return
	}
	if fromIndex == toIndex {
		return
	}

	moved := s.programs[fromIndex]
	rest := append(s.programs[:fromIndex:fromIndex], s.programs[fromIndex+1:]...)
	reordered := make([]models.Program, 0, n)
	reordered = append(reordered, rest[:toIndex]...)
	reordered = append(reordered, moved)
	reordered = append(reordered, rest[toIndex:]...)
	s.programs = reordered

	s.persist.Save(s.programs)
}

// IndexOf returns the position of the program with that id, or -1.
func (s *Service) IndexOf(id string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i, p := range s.programs {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// SetFeatured marks the matching program as the featured one. The flag is
// cleared on every other program first so at most one program is ever
// featured.
func (s *Service) SetFeatured(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.programs {
		s.programs[i].Featured = s.programs[i].ID == id
	}
	s.persist.Save(s.programs)
}

// ClearFeatured removes the featured flag from the matching program only.
func (s *Service) ClearFeatured(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.programs {
		if s.programs[i].ID == id {
			s.programs[i].Featured = false
		}
	}
	s.persist.Save(s.programs)
}

// GetFeatured returns the first featured program in catalog order.
func (s *Service) GetFeatured() (models.Program, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.programs {
		if p.Featured {
			return cloneProgram(p), true
		}
	}
	return models.Program{}, false
}

// SetFavorite toggles the favorite flag on the matching program.
func (s *Service) SetFavorite(id string, favorite bool) (models.Program, bool) {
	return s.Update(id, models.ProgramPatch{IsFavorite: &favorite})
}

// SetProgress records watch completion for the matching program, clamped
// to 0-100.
func (s *Service) SetProgress(id string, progress float64) (models.Program, bool) {
	if progress < 0 {
		progress = 0
	}
	if progress > 100 {
		progress = 100
	}
	return s.Update(id, models.ProgramPatch{Progress: &progress})
}

// Genres returns the distinct genre values in catalog order. Drives the
// genre filter on the consuming side.
func (s *Service) Genres() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{}, len(s.programs))
	genres := make([]string, 0)
	for _, p := range s.programs {
		if p.Genre == "" {
			continue
		}
		if _, ok := seen[p.Genre]; ok {
			continue
		}
		seen[p.Genre] = struct{}{}
		genres = append(genres, p.Genre)
	}
	return genres
}

// ClearAll empties the catalog and persists the empty state.
func (s *Service) ClearAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.programs = []models.Program{}
	s.persist.Save(s.programs)
}

// ResetToEmpty empties the catalog and removes the persisted value
// outright instead of writing an empty array.
func (s *Service) ResetToEmpty() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.programs = []models.Program{}
	s.persist.Clear()
}

func cloneProgram(p models.Program) models.Program {
	if p.Seasons == nil {
		return p
	}
	seasons := make([]models.Season, len(p.Seasons))
	for i, season := range p.Seasons {
		seasons[i] = season
		if season.Episodes != nil {
			episodes := make([]models.Episode, len(season.Episodes))
			copy(episodes, season.Episodes)
			seasons[i].Episodes = episodes
		}
	}
	p.Seasons = seasons
	return p
}

func clonePrograms(programs []models.Program) []models.Program {
	out := make([]models.Program, len(programs))
	for i, p := range programs {
		out[i] = cloneProgram(p)
	}
	return out
}
