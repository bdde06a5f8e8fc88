package catalog_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"streamvault/models"
	"streamvault/services/catalog"
)

func TestExportSnapshot(t *testing.T) {
	svc, _ := newTestService(t)
	svc.Add(program("a", "Backup Me"))
	svc.SetFeatured("a")

	snapshot := svc.ExportSnapshot()

	if !strings.HasPrefix(snapshot.Filename, "streamflix-backup-") || !strings.HasSuffix(snapshot.Filename, ".json") {
		t.Fatalf("unexpected backup filename %q", snapshot.Filename)
	}

	var exported []models.Program
	if err := json.Unmarshal(snapshot.Data, &exported); err != nil {
		t.Fatalf("snapshot is not a JSON array: %v", err)
	}
	if len(exported) != 1 {
		t.Fatalf("expected one program in snapshot, got %d", len(exported))
	}
	if exported[0].Title != "Backup Me" || !exported[0].Featured {
		t.Fatalf("snapshot program does not match catalog: %+v", exported[0])
	}

	// Pretty-printed, not compact.
	if !strings.Contains(string(snapshot.Data), "\n") {
		t.Fatal("expected snapshot to be pretty-printed")
	}
}

func TestExportEmptyCatalogIsEmptyArray(t *testing.T) {
	svc, _ := newTestService(t)

	snapshot := svc.ExportSnapshot()
	if got := strings.TrimSpace(string(snapshot.Data)); got != "[]" {
		t.Fatalf("expected empty array, got %q", got)
	}
}

func TestImportMergeAppendsOnlyNewIDs(t *testing.T) {
	svc, _ := newTestService(t)
	svc.Add(program("existing", "Already Here"))

	payload := `[
		{"id": "existing", "title": "Imported Duplicate", "type": "movie"},
		{"id": "new1", "title": "New One", "type": "movie"},
		{"id": "new2", "title": "New Two", "type": "series"}
	]`

	added, err := svc.ImportMerge(strings.NewReader(payload))
	if err != nil {
		t.Fatalf("import returned error: %v", err)
	}
	if added != 2 {
		t.Fatalf("expected 2 programs added, got %d", added)
	}

	all := svc.GetAll()
	if len(all) != 3 {
		t.Fatalf("expected 3 programs, got %d", len(all))
	}
	// Existing entry is untouched, imports are appended to the end.
	if all[0].ID != "existing" || all[0].Title != "Already Here" {
		t.Fatalf("existing program was modified: %+v", all[0])
	}
	if all[1].ID != "new1" || all[2].ID != "new2" {
		t.Fatalf("imports must be appended in file order, got %v", ids(all))
	}
}

func TestImportAllDuplicatesAddsNothing(t *testing.T) {
	svc, _ := newTestService(t)
	svc.Add(program("a", "A"))

	added, err := svc.ImportMerge(strings.NewReader(`[{"id":"a","title":"Clone"}]`))
	if err != nil {
		t.Fatalf("import returned error: %v", err)
	}
	if added != 0 {
		t.Fatalf("expected 0 added, got %d", added)
	}

	all := svc.GetAll()
	if len(all) != 1 || all[0].Title != "A" {
		t.Fatalf("catalog must be unchanged, got %+v", all)
	}
}

func TestImportRejectsNonArray(t *testing.T) {
	svc, _ := newTestService(t)
	svc.Add(program("a", "A"))

	_, err := svc.ImportMerge(strings.NewReader(`{"id":"a"}`))
	if !errors.Is(err, catalog.ErrNotAnArray) {
		t.Fatalf("expected ErrNotAnArray, got %v", err)
	}
	if got := len(svc.GetAll()); got != 1 {
		t.Fatalf("failed import must leave catalog unmodified, got %d programs", got)
	}
}

func TestImportRejectsInvalidJSON(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.ImportMerge(strings.NewReader(`[{"id": "broken"`))
	if !errors.Is(err, catalog.ErrInvalidJSON) {
		t.Fatalf("expected ErrInvalidJSON, got %v", err)
	}
}

func TestImportRejectsBinaryPayload(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.ImportMerge(strings.NewReader("\x89PNG\r\n\x1a\n\x00\x00\x00\x0dIHDR"))
	if !errors.Is(err, catalog.ErrUnsupportedFile) {
		t.Fatalf("expected ErrUnsupportedFile, got %v", err)
	}
}

func TestImportFileInternalDuplicatesFirstSeenWins(t *testing.T) {
	svc, _ := newTestService(t)

	added, err := svc.ImportMerge(strings.NewReader(`[
		{"id": "x", "title": "First Seen"},
		{"id": "x", "title": "Second Seen"}
	]`))
	if err != nil {
		t.Fatalf("import returned error: %v", err)
	}
	if added != 1 {
		t.Fatalf("expected 1 added, got %d", added)
	}

	got, _ := svc.GetByID("x")
	if got.Title != "First Seen" {
		t.Fatalf("expected first-seen copy to win, got %q", got.Title)
	}
}

func TestImportFromURL(t *testing.T) {
	svc, _ := newTestService(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"remote1","title":"Remote","type":"movie"}]`))
	}))
	defer server.Close()

	added, err := svc.ImportFromURL(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("import from url returned error: %v", err)
	}
	if added != 1 {
		t.Fatalf("expected 1 added, got %d", added)
	}
	if _, ok := svc.GetByID("remote1"); !ok {
		t.Fatal("expected remote program in catalog")
	}
}

func TestImportFromURLRejectsErrorStatus(t *testing.T) {
	svc, _ := newTestService(t)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusNotFound)
	}))
	defer server.Close()

	if _, err := svc.ImportFromURL(context.Background(), server.URL); err == nil {
		t.Fatal("expected error for non-200 response")
	}
	if got := len(svc.GetAll()); got != 0 {
		t.Fatalf("failed import must leave catalog unmodified, got %d programs", got)
	}
}
