package catalog

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"streamvault/models"
)

var (
	ErrTitleRequired   = errors.New("program title is required")
	ErrProgramNotFound = errors.New("program not found")
)

// PlaceholderPoster is substituted when no poster URL is supplied.
const PlaceholderPoster = "https://via.placeholder.com/300x450/1a1a1a/666666?text=Sem+Poster"

const (
	defaultCategory = "Filme"
	seriesCategory  = "Série"
	defaultGenre    = "Desconhecido"
)

// ProgramInput is the loosely filled form payload an add/edit dialog
// submits. Everything except the title is optional.
type ProgramInput struct {
	Title       string  `json:"title"`
	PosterURL   string  `json:"posterUrl"`
	Category    string  `json:"category"`
	Genre       string  `json:"genre"`
	Year        int     `json:"year"`
	Rating      float64 `json:"rating"`
	Description string  `json:"description"`
	Link        string  `json:"link"`
	VideoURL    string  `json:"videoUrl"`

	// Seed season/episode used when a new series is created.
	SeasonNumber    int    `json:"seasonNumber"`
	EpisodeNumber   int    `json:"episodeNumber"`
	EpisodeTitle    string `json:"episodeTitle"`
	EpisodeDuration int    `json:"episodeDuration"`
	AirDate         string `json:"airDate"`
}

// BuildProgram normalises dialog input into a complete program.
//
// In create mode it assigns identity and the immutable dateAdded stamp,
// and a series (category "Série") is seeded with one default season
// holding one default episode so the series pages have something to show.
// In edit mode the input is merged onto base without touching identity,
// dateAdded, favorite state or the season tree.
func BuildProgram(input ProgramInput, base *models.Program) (models.Program, error) {
	if strings.TrimSpace(input.Title) == "" {
		return models.Program{}, ErrTitleRequired
	}

	// An edit payload may omit the category; the existing one then stays
	// in force so the type and the season tree never drift apart.
	category := input.Category
	if category == "" && base != nil {
		category = base.Category
	}
	isSeries := category == seriesCategory

	poster := input.PosterURL
	if poster == "" {
		poster = PlaceholderPoster
	}
	genre := input.Genre
	if genre == "" {
		genre = defaultGenre
	}
	year := input.Year
	if year == 0 {
		year = time.Now().Year()
	}

	programType := models.TypeMovie
	if isSeries {
		programType = models.TypeSeries
	}

	if base != nil {
		p := *base
		p.Title = input.Title
		p.Poster = poster
		p.Category = category
		p.Genre = genre
		p.Year = year
		p.Rating = input.Rating
		p.Description = input.Description
		p.Link = input.Link
		p.VideoURL = input.VideoURL
		p.Type = programType
		return p, nil
	}

	if category == "" {
		category = defaultCategory
	}

	p := models.Program{
		ID:          uuid.NewString(),
		Title:       input.Title,
		Poster:      poster,
		Category:    category,
		Genre:       genre,
		Year:        year,
		Rating:      input.Rating,
		Description: input.Description,
		Link:        input.Link,
		VideoURL:    input.VideoURL,
		IsFavorite:  false,
		DateAdded:   time.Now().UTC().Format(time.RFC3339),
		Type:        programType,
	}

	if isSeries {
		seasonNumber := input.SeasonNumber
		if seasonNumber <= 0 {
			seasonNumber = 1
		}
		episodeNumber := input.EpisodeNumber
		if episodeNumber <= 0 {
			episodeNumber = 1
		}
		episodeTitle := input.EpisodeTitle
		if episodeTitle == "" {
			episodeTitle = fmt.Sprintf("Episódio %d", episodeNumber)
		}

		p.Seasons = []models.Season{{
			ID:           uuid.NewString(),
			SeasonNumber: seasonNumber,
			Title:        fmt.Sprintf("Temporada %d", seasonNumber),
			Year:         year,
			Episodes: []models.Episode{{
				ID:          uuid.NewString(),
				Title:       episodeTitle,
				Description: input.Description,
				Duration:    input.EpisodeDuration,
				VideoURL:    input.VideoURL,
				Link:        input.Link,
				AirDate:     input.AirDate,
				Watched:     false,
			}},
		}}
		p.TotalSeasons = 1
		p.TotalEpisodes = 1
		p.Status = models.StatusOngoing
	}

	return p, nil
}

// CreateFromInput normalises dialog input into a new program and prepends
// it to the catalog.
func (s *Service) CreateFromInput(input ProgramInput) (models.Program, error) {
	p, err := BuildProgram(input, nil)
	if err != nil {
		return models.Program{}, err
	}
	s.Add(p)
	return p, nil
}

// EditFromInput merges dialog input onto an existing program.
func (s *Service) EditFromInput(id string, input ProgramInput) (models.Program, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.programs {
		if s.programs[i].ID != id {
			continue
		}
		base := cloneProgram(s.programs[i])
		p, err := BuildProgram(input, &base)
		if err != nil {
			return models.Program{}, err
		}
		s.programs[i] = p
		s.persist.Save(s.programs)
		return cloneProgram(p), nil
	}
	return models.Program{}, ErrProgramNotFound
}
