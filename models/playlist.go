package models

import "time"

// Playlist is an ordered list of program id references. It never embeds
// programs, and referential integrity with the catalog is not enforced:
// a dangling id is skipped when the playlist is resolved for display.
type Playlist struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	ProgramIDs  []string  `json:"programIds"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Color       string    `json:"color,omitempty"`
}

// Contains reports whether the playlist already references the program.
func (pl Playlist) Contains(programID string) bool {
	for _, id := range pl.ProgramIDs {
		if id == programID {
			return true
		}
	}
	return false
}
