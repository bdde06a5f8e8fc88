package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/gabriel-vasile/mimetype"

	"streamvault/models"
)

var (
	ErrInvalidJSON     = errors.New("import file is not valid JSON")
	ErrNotAnArray      = errors.New("import file does not contain a JSON array")
	ErrUnsupportedFile = errors.New("import file is not a JSON document")
)

const backupFilenameFormat = "streamflix-backup-%s.json"

var importClient = &http.Client{Timeout: 30 * time.Second}

// Snapshot is a downloadable backup of the full catalog.
type Snapshot struct {
	Filename string
	Data     []byte
}

// ExportSnapshot serialises the current catalog as pretty-printed JSON
// under a dated backup filename. It does not mutate the store.
func (s *Service) ExportSnapshot() Snapshot {
	s.mu.RLock()
	programs := clonePrograms(s.programs)
	s.mu.RUnlock()

	data, err := json.MarshalIndent(programs, "", "  ")
	if err != nil {
		// Programs are plain data, this cannot realistically fail.
		data = []byte("[]")
	}

	return Snapshot{
		Filename: fmt.Sprintf(backupFilenameFormat, time.Now().Format("2006-01-02")),
		Data:     data,
	}
}

// ImportMerge reads a backup, validates it holds a JSON array of programs
// and appends those whose id is not already in the catalog. Imported
// duplicates of existing ids are dropped, not merged; the first-seen copy
// wins. Returns the number of programs actually added. On any failure the
// catalog is left completely unmodified.
//
// The read happens before the catalog lock is taken, so mutations that
// land while a slow upload streams in are still reflected in the dedup
// check.
func (s *Service) ImportMerge(r io.Reader) (int, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, fmt.Errorf("read import file: %w", err)
	}
	return s.mergeImported(data)
}

// ImportFromURL fetches a backup from a URL and funnels it into the same
// merge-by-id path as file import. Transient fetch failures are retried.
func (s *Service) ImportFromURL(ctx context.Context, rawURL string) (int, error) {
	data, err := retry.DoWithData(
		func() ([]byte, error) { return fetchImport(ctx, rawURL) },
		retry.Context(ctx),
		retry.Attempts(3),
		retry.Delay(time.Second),
	)
	if err != nil {
		return 0, fmt.Errorf("fetch import: %w", err)
	}
	return s.mergeImported(data)
}

func fetchImport(ctx context.Context, rawURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, retry.Unrecoverable(err)
	}

	resp, err := importClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("unexpected status %s", resp.Status)
		if resp.StatusCode >= 400 && resp.StatusCode < 500 {
			// Client errors will not heal on retry.
			return nil, retry.Unrecoverable(err)
		}
		return nil, err
	}
	return io.ReadAll(resp.Body)
}

func (s *Service) mergeImported(data []byte) (int, error) {
	// Cheap guard before JSON parsing so a binary upload gets a clear
	// rejection instead of a syntax error at byte 0.
	if mt := mimetype.Detect(data); !mt.Is("application/json") && !mt.Is("text/plain") {
		return 0, fmt.Errorf("%w (detected %s)", ErrUnsupportedFile, mt)
	}

	var payload any
	if err := json.Unmarshal(data, &payload); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}
	if _, ok := payload.([]any); !ok {
		return 0, ErrNotAnArray
	}

	var imported []models.Program
	if err := json.Unmarshal(data, &imported); err != nil {
		return 0, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	existing := make(map[string]struct{}, len(s.programs))
	for _, p := range s.programs {
		existing[p.ID] = struct{}{}
	}

	added := 0
	for _, p := range imported {
		if _, ok := existing[p.ID]; ok {
			continue
		}
		s.programs = append(s.programs, p)
		existing[p.ID] = struct{}{}
		added++
	}

	if added > 0 {
		s.persist.Save(s.programs)
	}
	return added, nil
}
