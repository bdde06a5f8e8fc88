package storage_test

import (
	"testing"

	"github.com/spf13/afero"

	"streamvault/internal/storage"
	"streamvault/models"
)

func newTestStore(t *testing.T) *storage.FileStore {
	t.Helper()
	store, err := storage.NewFileStore(afero.NewMemMapFs(), "data")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	return store
}

func TestFileStoreGetMissingKey(t *testing.T) {
	store := newTestStore(t)

	_, ok, err := store.Get("streamflix-programs")
	if err != nil {
		t.Fatalf("get returned error: %v", err)
	}
	if ok {
		t.Fatal("expected missing key to report absence")
	}
}

func TestFileStoreSetGetDelete(t *testing.T) {
	store := newTestStore(t)

	if err := store.Set("streamflix-programs", `[{"id":"1"}]`); err != nil {
		t.Fatalf("set returned error: %v", err)
	}

	value, ok, err := store.Get("streamflix-programs")
	if err != nil {
		t.Fatalf("get returned error: %v", err)
	}
	if !ok {
		t.Fatal("expected value to be present")
	}
	if value != `[{"id":"1"}]` {
		t.Fatalf("unexpected value %q", value)
	}

	if err := store.Delete("streamflix-programs"); err != nil {
		t.Fatalf("delete returned error: %v", err)
	}
	if _, ok, _ := store.Get("streamflix-programs"); ok {
		t.Fatal("expected value to be gone after delete")
	}
}

func TestFileStoreDeleteMissingKeyIsNoop(t *testing.T) {
	store := newTestStore(t)

	if err := store.Delete("streamflix-programs"); err != nil {
		t.Fatalf("delete of missing key returned error: %v", err)
	}
}

func TestFileStoreRejectsPathEscapingKeys(t *testing.T) {
	store := newTestStore(t)

	if err := store.Set("../escape", "x"); err == nil {
		t.Fatal("expected path-escaping key to be rejected")
	}
	if _, _, err := store.Get(""); err == nil {
		t.Fatal("expected empty key to be rejected")
	}
}

func TestCatalogLoadColdStartIsEmpty(t *testing.T) {
	adapter := storage.NewCatalog(newTestStore(t))

	programs := adapter.Load()
	if len(programs) != 0 {
		t.Fatalf("expected empty catalog on cold start, got %d programs", len(programs))
	}
}

func TestCatalogRoundTrip(t *testing.T) {
	adapter := storage.NewCatalog(newTestStore(t))

	programs := []models.Program{
		{
			ID:        "p1",
			Title:     "Nosferatu",
			Poster:    "https://example.com/nosferatu.jpg",
			Rating:    8,
			Genre:     "Horror",
			Year:      1922,
			DateAdded: "2024-01-02T03:04:05Z",
			Link:      "https://archive.org/details/nosferatu",
			Type:      models.TypeMovie,
		},
		{
			ID:    "p2",
			Title: "Detective Serial",
			Type:  models.TypeSeries,
			Seasons: []models.Season{{
				ID:           "s1",
				SeasonNumber: 1,
				Year:         1949,
				Episodes: []models.Episode{{
					ID:       "e1",
					Title:    "Episode 1",
					Duration: 25,
					VideoURL: "https://example.com/e1.mp4",
				}},
			}},
			TotalSeasons:  1,
			TotalEpisodes: 1,
			Status:        models.StatusCompleted,
			Featured:      true,
		},
	}

	adapter.Save(programs)

	loaded := adapter.Load()
	if len(loaded) != len(programs) {
		t.Fatalf("expected %d programs, got %d", len(programs), len(loaded))
	}
	if loaded[0].ID != "p1" || loaded[0].Title != "Nosferatu" {
		t.Fatalf("first program did not round-trip: %+v", loaded[0])
	}
	if !loaded[1].Featured {
		t.Fatal("featured flag did not round-trip")
	}
	if len(loaded[1].Seasons) != 1 || len(loaded[1].Seasons[0].Episodes) != 1 {
		t.Fatalf("season tree did not round-trip: %+v", loaded[1].Seasons)
	}
	if loaded[1].Seasons[0].Episodes[0].Duration != 25 {
		t.Fatal("episode duration did not round-trip")
	}
}

func TestCatalogLoadCorruptValueDegradesToEmpty(t *testing.T) {
	store := newTestStore(t)
	if err := store.Set(storage.ProgramsKey, "{not json"); err != nil {
		t.Fatalf("set returned error: %v", err)
	}

	adapter := storage.NewCatalog(store)
	programs := adapter.Load()
	if len(programs) != 0 {
		t.Fatalf("expected corrupt value to degrade to empty catalog, got %d", len(programs))
	}
}

func TestPlaylistsRoundTrip(t *testing.T) {
	adapter := storage.NewPlaylists(newTestStore(t))

	if got := adapter.Load(); len(got) != 0 {
		t.Fatalf("expected empty playlists on cold start, got %d", len(got))
	}

	adapter.Save([]models.Playlist{{ID: "pl1", Name: "Night", ProgramIDs: []string{"p1", "p2"}}})

	loaded := adapter.Load()
	if len(loaded) != 1 {
		t.Fatalf("expected one playlist, got %d", len(loaded))
	}
	if loaded[0].Name != "Night" || len(loaded[0].ProgramIDs) != 2 {
		t.Fatalf("playlist did not round-trip: %+v", loaded[0])
	}
}
