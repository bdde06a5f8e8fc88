package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"streamvault/models"
	"streamvault/services/catalog"
)

type catalogService interface {
	GetAll() []models.Program
	GetByID(id string) (models.Program, bool)
	CreateFromInput(input catalog.ProgramInput) (models.Program, error)
	EditFromInput(id string, input catalog.ProgramInput) (models.Program, error)
	Update(id string, patch models.ProgramPatch) (models.Program, bool)
	Delete(id string)
	Reorder(fromIndex, toIndex int)
	IndexOf(id string) int
	SetFeatured(id string)
	ClearFeatured(id string)
	GetFeatured() (models.Program, bool)
	SetFavorite(id string, favorite bool) (models.Program, bool)
	SetProgress(id string, progress float64) (models.Program, bool)
	Genres() []string
	ClearAll()
	ResetToEmpty()
	ExportSnapshot() catalog.Snapshot
	ImportMerge(r io.Reader) (int, error)
	ImportFromURL(ctx context.Context, rawURL string) (int, error)
}

var _ catalogService = (*catalog.Service)(nil)

// CatalogHandler is the HTTP surface over the program catalog.
type CatalogHandler struct {
	Service catalogService
}

func NewCatalogHandler(service catalogService) *CatalogHandler {
	return &CatalogHandler{Service: service}
}

func (h *CatalogHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Service.GetAll())
}

func (h *CatalogHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(mux.Vars(r)["programID"])
	if id == "" {
		http.Error(w, "program id is required", http.StatusBadRequest)
		return
	}

	p, ok := h.Service.GetByID(id)
	if !ok {
		http.Error(w, "program not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *CatalogHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input catalog.ProgramInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	p, err := h.Service.CreateFromInput(input)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, catalog.ErrTitleRequired) {
			status = http.StatusBadRequest
		}
		http.Error(w, err.Error(), status)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// Edit runs the full add-dialog normalisation against an existing program.
func (h *CatalogHandler) Edit(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(mux.Vars(r)["programID"])
	if id == "" {
		http.Error(w, "program id is required", http.StatusBadRequest)
		return
	}

	var input catalog.ProgramInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	p, err := h.Service.EditFromInput(id, input)
	if err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, catalog.ErrTitleRequired):
			status = http.StatusBadRequest
		case errors.Is(err, catalog.ErrProgramNotFound):
			status = http.StatusNotFound
		}
		http.Error(w, err.Error(), status)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// Patch applies a partial field merge to a program.
func (h *CatalogHandler) Patch(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(mux.Vars(r)["programID"])
	if id == "" {
		http.Error(w, "program id is required", http.StatusBadRequest)
		return
	}

	var patch models.ProgramPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	p, ok := h.Service.Update(id, patch)
	if !ok {
		http.Error(w, "program not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *CatalogHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(mux.Vars(r)["programID"])
	if id == "" {
		http.Error(w, "program id is required", http.StatusBadRequest)
		return
	}

	h.Service.Delete(id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *CatalogHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	var body struct {
		FromIndex int `json:"fromIndex"`
		ToIndex   int `json:"toIndex"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	h.Service.Reorder(body.FromIndex, body.ToIndex)
	writeJSON(w, http.StatusOK, h.Service.GetAll())
}

func (h *CatalogHandler) IndexOf(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(mux.Vars(r)["programID"])
	writeJSON(w, http.StatusOK, map[string]int{"index": h.Service.IndexOf(id)})
}

func (h *CatalogHandler) SetFeatured(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(mux.Vars(r)["programID"])
	if id == "" {
		http.Error(w, "program id is required", http.StatusBadRequest)
		return
	}

	h.Service.SetFeatured(id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *CatalogHandler) ClearFeatured(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(mux.Vars(r)["programID"])
	if id == "" {
		http.Error(w, "program id is required", http.StatusBadRequest)
		return
	}

	h.Service.ClearFeatured(id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *CatalogHandler) GetFeatured(w http.ResponseWriter, r *http.Request) {
	p, ok := h.Service.GetFeatured()
	if !ok {
		http.Error(w, "no featured program", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *CatalogHandler) SetFavorite(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(mux.Vars(r)["programID"])

	var body struct {
		IsFavorite bool `json:"isFavorite"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	p, ok := h.Service.SetFavorite(id, body.IsFavorite)
	if !ok {
		http.Error(w, "program not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *CatalogHandler) SetProgress(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(mux.Vars(r)["programID"])

	var body struct {
		Progress float64 `json:"progress"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	p, ok := h.Service.SetProgress(id, body.Progress)
	if !ok {
		http.Error(w, "program not found", http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *CatalogHandler) Genres(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.Service.Genres())
}

func (h *CatalogHandler) Clear(w http.ResponseWriter, r *http.Request) {
	h.Service.ClearAll()
	w.WriteHeader(http.StatusNoContent)
}

func (h *CatalogHandler) Reset(w http.ResponseWriter, r *http.Request) {
	h.Service.ResetToEmpty()
	w.WriteHeader(http.StatusNoContent)
}

// Export serves the full catalog as a downloadable JSON backup.
func (h *CatalogHandler) Export(w http.ResponseWriter, r *http.Request) {
	snapshot := h.Service.ExportSnapshot()

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", snapshot.Filename))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(snapshot.Data)
}

// Import merges an uploaded backup file into the catalog. Accepts either
// a multipart form with a "file" part or a raw JSON body.
func (h *CatalogHandler) Import(w http.ResponseWriter, r *http.Request) {
	var added int
	var err error

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		file, _, formErr := r.FormFile("file")
		if formErr != nil {
			http.Error(w, "missing import file: "+formErr.Error(), http.StatusBadRequest)
			return
		}
		defer file.Close()
		added, err = h.Service.ImportMerge(file)
	} else {
		added, err = h.Service.ImportMerge(r.Body)
	}

	if err != nil {
		http.Error(w, err.Error(), importErrorStatus(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"added": added})
}

// ImportURL fetches a backup from a URL and merges it.
func (h *CatalogHandler) ImportURL(w http.ResponseWriter, r *http.Request) {
	var body struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(body.URL) == "" {
		http.Error(w, "url is required", http.StatusBadRequest)
		return
	}

	added, err := h.Service.ImportFromURL(r.Context(), body.URL)
	if err != nil {
		http.Error(w, err.Error(), importErrorStatus(err))
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"added": added})
}

func importErrorStatus(err error) int {
	switch {
	case errors.Is(err, catalog.ErrInvalidJSON),
		errors.Is(err, catalog.ErrNotAnArray),
		errors.Is(err, catalog.ErrUnsupportedFile):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadGateway
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
