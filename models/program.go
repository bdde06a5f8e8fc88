package models

// Program types for the catalog. JSON field names match the persisted
// interchange format, which doubles as the backup file format.

// ProgramType discriminates movies from series. Series-only fields
// (Seasons, TotalSeasons, TotalEpisodes, Status) are meaningful only
// when Type is TypeSeries.
type ProgramType string

const (
	TypeMovie  ProgramType = "movie"
	TypeSeries ProgramType = "series"
)

// SeriesStatus describes where a series is in its run.
type SeriesStatus string

const (
	StatusOngoing   SeriesStatus = "ongoing"
	StatusCompleted SeriesStatus = "completed"
	StatusCancelled SeriesStatus = "cancelled"
)

// Episode is the leaf playable unit of a series. It is owned by exactly
// one season; its lifecycle is tied to it.
type Episode struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Duration    int    `json:"duration,omitempty"` // minutes
	VideoURL    string `json:"videoUrl,omitempty"`
	Link        string `json:"link,omitempty"`
	Watched     bool   `json:"watched,omitempty"`
	AirDate     string `json:"airDate,omitempty"`
}

// Season groups episodes in display order. Owned by exactly one
// series-type program.
type Season struct {
	ID           string    `json:"id"`
	SeasonNumber int       `json:"seasonNumber"`
	Title        string    `json:"title,omitempty"`
	Description  string    `json:"description,omitempty"`
	Episodes     []Episode `json:"episodes"`
	Poster       string    `json:"poster,omitempty"`
	Year         int       `json:"year"`
}

// Program is one catalog entry, either a movie or a series.
//
// Category is a legacy free-form label ("Filme"/"Série") kept for display
// and old filters; Type is authoritative wherever series behaviour is
// decided. Featured is subject to the catalog-wide at-most-one invariant,
// enforced by the catalog service rather than by this shape.
type Program struct {
	ID          string  `json:"id"`
	Title       string  `json:"title"`
	Poster      string  `json:"poster"`
	Rating      float64 `json:"rating"`
	Category    string  `json:"category,omitempty"`
	Genre       string  `json:"genre"`
	Year        int     `json:"year"`
	IsFavorite  bool    `json:"isFavorite"`
	Description string  `json:"description"`
	DateAdded   string  `json:"dateAdded"` // ISO timestamp, immutable after creation
	Link        string  `json:"link"`
	VideoURL    string  `json:"videoUrl,omitempty"`
	Progress    float64 `json:"progress,omitempty"` // 0-100 watch completion

	Type          ProgramType  `json:"type"`
	Seasons       []Season     `json:"seasons,omitempty"`
	TotalSeasons  int          `json:"totalSeasons,omitempty"`
	TotalEpisodes int          `json:"totalEpisodes,omitempty"`
	Status        SeriesStatus `json:"status,omitempty"`

	Featured bool `json:"featured,omitempty"`
}

// IsSeries reports whether series-only fields apply to this program.
func (p Program) IsSeries() bool {
	return p.Type == TypeSeries
}

// PlaybackURL returns the URL the admin player would open: the explicit
// video URL when set, the generic link otherwise.
func (p Program) PlaybackURL() string {
	if p.VideoURL != "" {
		return p.VideoURL
	}
	return p.Link
}

// ProgramPatch carries a partial update for a program. Nil fields are
// left untouched by the merge; non-nil fields overwrite.
type ProgramPatch struct {
	Title         *string       `json:"title,omitempty"`
	Poster        *string       `json:"poster,omitempty"`
	Rating        *float64      `json:"rating,omitempty"`
	Category      *string       `json:"category,omitempty"`
	Genre         *string       `json:"genre,omitempty"`
	Year          *int          `json:"year,omitempty"`
	IsFavorite    *bool         `json:"isFavorite,omitempty"`
	Description   *string       `json:"description,omitempty"`
	Link          *string       `json:"link,omitempty"`
	VideoURL      *string       `json:"videoUrl,omitempty"`
	Progress      *float64      `json:"progress,omitempty"`
	Type          *ProgramType  `json:"type,omitempty"`
	Seasons       *[]Season     `json:"seasons,omitempty"`
	TotalSeasons  *int          `json:"totalSeasons,omitempty"`
	TotalEpisodes *int          `json:"totalEpisodes,omitempty"`
	Status        *SeriesStatus `json:"status,omitempty"`
}

// Apply merges the patch into the program. ID, DateAdded and Featured are
// never touched here; featured placement goes through the catalog service
// so the at-most-one invariant stays in one place.
func (patch ProgramPatch) Apply(p *Program) {
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Poster != nil {
		p.Poster = *patch.Poster
	}
	if patch.Rating != nil {
		p.Rating = *patch.Rating
	}
	if patch.Category != nil {
		p.Category = *patch.Category
	}
	if patch.Genre != nil {
		p.Genre = *patch.Genre
	}
	if patch.Year != nil {
		p.Year = *patch.Year
	}
	if patch.IsFavorite != nil {
		p.IsFavorite = *patch.IsFavorite
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Link != nil {
		p.Link = *patch.Link
	}
	if patch.VideoURL != nil {
		p.VideoURL = *patch.VideoURL
	}
	if patch.Progress != nil {
		p.Progress = *patch.Progress
	}
	if patch.Type != nil {
		p.Type = *patch.Type
	}
	if patch.Seasons != nil {
		p.Seasons = *patch.Seasons
	}
	if patch.TotalSeasons != nil {
		p.TotalSeasons = *patch.TotalSeasons
	}
	if patch.TotalEpisodes != nil {
		p.TotalEpisodes = *patch.TotalEpisodes
	}
	if patch.Status != nil {
		p.Status = *patch.Status
	}
}
