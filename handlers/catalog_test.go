package handlers_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"streamvault/api"
	"streamvault/handlers"
	"streamvault/internal/storage"
	"streamvault/models"
	"streamvault/services/catalog"
	"streamvault/services/playback"
	"streamvault/services/playlists"
)

func newTestRouter(t *testing.T) (*mux.Router, *catalog.Service) {
	t.Helper()

	store, err := storage.NewFileStore(afero.NewMemMapFs(), "data")
	require.NoError(t, err)

	catalogSvc := catalog.NewService(storage.NewCatalog(store))
	playlistsSvc := playlists.NewService(storage.NewPlaylists(store))

	r := mux.NewRouter()
	api.Register(
		r,
		handlers.NewCatalogHandler(catalogSvc),
		handlers.NewPlaylistsHandler(playlistsSvc, catalogSvc),
		handlers.NewResolveHandler(),
		handlers.NewPlaybackHandler(playback.NewManager(0)),
	)
	return r, catalogSvc
}

func doJSON(t *testing.T, r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestCreateAndGetProgram(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/api/programs", map[string]any{
		"title": "Metropolis",
		"genre": "Ficção Científica",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created models.Program
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Metropolis", created.Title)

	rec = doJSON(t, r, http.MethodGet, "/api/programs/"+created.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var fetched models.Program
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fetched))
	assert.Equal(t, created.ID, fetched.ID)
}

func TestCreateWithoutTitleRejected(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPost, "/api/programs", map[string]any{"title": "  "})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFeaturedLifecycle(t *testing.T) {
	r, svc := newTestRouter(t)
	a, _ := svc.CreateFromInput(catalog.ProgramInput{Title: "A"})
	b, _ := svc.CreateFromInput(catalog.ProgramInput{Title: "B"})

	rec := doJSON(t, r, http.MethodGet, "/api/programs/featured", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, r, http.MethodPut, "/api/programs/"+a.ID+"/featured", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	// Featuring B must unset A.
	rec = doJSON(t, r, http.MethodPut, "/api/programs/"+b.ID+"/featured", nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, r, http.MethodGet, "/api/programs/featured", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var featured models.Program
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &featured))
	assert.Equal(t, b.ID, featured.ID)
}

func TestReorderEndpoint(t *testing.T) {
	r, svc := newTestRouter(t)
	svc.Add(models.Program{ID: "c", Title: "C"})
	svc.Add(models.Program{ID: "b", Title: "B"})
	svc.Add(models.Program{ID: "a", Title: "A"})

	rec := doJSON(t, r, http.MethodPost, "/api/programs/reorder", map[string]int{
		"fromIndex": 0,
		"toIndex":   2,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var all []models.Program
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &all))
	require.Len(t, all, 3)
	assert.Equal(t, "b", all[0].ID)
	assert.Equal(t, "c", all[1].ID)
	assert.Equal(t, "a", all[2].ID)
}

func TestExportHeaders(t *testing.T) {
	r, svc := newTestRouter(t)
	svc.Add(models.Program{ID: "p1", Title: "Kept"})

	rec := doJSON(t, r, http.MethodGet, "/api/programs/export", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	disposition := rec.Header().Get("Content-Disposition")
	assert.Contains(t, disposition, "attachment")
	assert.Contains(t, disposition, "streamflix-backup-")
	assert.Contains(t, disposition, ".json")

	var exported []models.Program
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &exported))
	require.Len(t, exported, 1)
}

func TestImportRawBody(t *testing.T) {
	r, svc := newTestRouter(t)
	svc.Add(models.Program{ID: "existing", Title: "Existing"})

	payload := `[{"id":"existing","title":"Dup"},{"id":"new","title":"New"}]`
	req := httptest.NewRequest(http.MethodPost, "/api/programs/import", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var result map[string]int
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 1, result["added"])

	all := svc.GetAll()
	require.Len(t, all, 2)
	// The existing copy wins over the imported duplicate.
	assert.Equal(t, "Existing", all[0].Title)
	assert.Equal(t, "new", all[1].ID)
}

func TestImportMultipartFile(t *testing.T) {
	r, svc := newTestRouter(t)

	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)
	part, err := form.CreateFormFile("file", "backup.json")
	require.NoError(t, err)
	_, err = part.Write([]byte(`[{"id":"m1","title":"From File"}]`))
	require.NoError(t, err)
	require.NoError(t, form.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/programs/import", &buf)
	req.Header.Set("Content-Type", form.FormDataContentType())
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, svc.GetAll(), 1)
}

func TestImportRejectsNonArray(t *testing.T) {
	r, svc := newTestRouter(t)
	svc.Add(models.Program{ID: "keep", Title: "Keep"})

	req := httptest.NewRequest(http.MethodPost, "/api/programs/import", strings.NewReader(`{"id":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Len(t, svc.GetAll(), 1)
}

func TestPatchUnknownProgram(t *testing.T) {
	r, _ := newTestRouter(t)

	rec := doJSON(t, r, http.MethodPatch, "/api/programs/missing", map[string]any{"title": "X"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteIsIdempotent(t *testing.T) {
	r, svc := newTestRouter(t)
	svc.Add(models.Program{ID: "p1", Title: "Gone Soon"})

	rec := doJSON(t, r, http.MethodDelete, "/api/programs/p1", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doJSON(t, r, http.MethodDelete, "/api/programs/p1", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, svc.GetAll())
}

func TestCORSPreflight(t *testing.T) {
	r, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/programs", nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
