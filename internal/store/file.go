package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/abralabs/redirects/internal/redirect"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

const fileMarker = "# Redirects\n"

// FileRepository persists redirect records as a YAML list in a single file.
type FileRepository struct {
	mu   sync.RWMutex
	path string
}

// NewFileRepository creates a file-backed repository. The file and its parent
// directories are created on first use; a fresh file is seeded with a marker
// comment.
func NewFileRepository(path string) (*FileRepository, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create redirects dir: %w", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := os.WriteFile(path, []byte(fileMarker), 0o644); err != nil {
			return nil, fmt.Errorf("seed redirects file: %w", err)
		}
	}

	return &FileRepository{path: path}, nil
}

// All returns every record, newest first. An unreadable or unparsable file
// degrades to an empty list so that lookups never fail the request path.
func (f *FileRepository) All(_ context.Context) ([]redirect.Record, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	return f.load(), nil
}

// Find returns the record matching source, exact matches first.
func (f *FileRepository) Find(ctx context.Context, source string) (*redirect.Record, error) {
	records, err := f.All(ctx)
	if err != nil {
		return nil, err
	}

	if rec := redirect.MatchRecords(records, source); rec != nil {
		return rec, nil
	}

	return nil, redirect.ErrNotFound
}

// Store persists a new record with a fresh id and timestamps.
func (f *FileRepository) Store(_ context.Context, data redirect.CreateData) (*redirect.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	records := f.load()
	source := redirect.NormalizePath(data.Source)

	for _, r := range records {
		if r.Source == source {
			return nil, redirect.ErrDuplicateSource
		}
	}

	statusCode := data.StatusCode
	if statusCode == 0 {
		statusCode = redirect.DefaultStatusCode
	}

	now := time.Now().UTC()
	rec := redirect.Record{
		ID:          uuid.NewString(),
		Source:      source,
		Destination: data.Destination,
		StatusCode:  statusCode,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	// Prepend so equal timestamps still list newest first.
	records = append([]redirect.Record{rec}, records...)

	if err := f.save(records); err != nil {
		return nil, err
	}

	return &rec, nil
}

// Update merges the provided fields over an existing record.
func (f *FileRepository) Update(_ context.Context, id string, data redirect.UpdateData) (*redirect.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	records := f.load()

	for i := range records {
		if records[i].ID != id {
			continue
		}

		if data.Source != nil {
			source := redirect.NormalizePath(*data.Source)
			for _, other := range records {
				if other.ID != id && other.Source == source {
					return nil, redirect.ErrDuplicateSource
				}
			}

			records[i].Source = source
		}

		if data.Destination != nil {
			records[i].Destination = *data.Destination
		}

		if data.StatusCode != nil {
			records[i].StatusCode = *data.StatusCode
		}

		records[i].UpdatedAt = time.Now().UTC()

		if err := f.save(records); err != nil {
			return nil, err
		}

		rec := records[i]

		return &rec, nil
	}

	return nil, redirect.ErrNotFound
}

// Delete removes a record by id, reporting whether it existed.
func (f *FileRepository) Delete(_ context.Context, id string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	records := f.load()

	for i := range records {
		if records[i].ID == id {
			records = append(records[:i], records[i+1:]...)

			if err := f.save(records); err != nil {
				return false, err
			}

			return true, nil
		}
	}

	return false, nil
}

// Exists reports whether any record other than excludeID has the given
// normalized source.
func (f *FileRepository) Exists(_ context.Context, source, excludeID string) (bool, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()

	normalized := redirect.NormalizePath(source)

	for _, r := range f.load() {
		if r.ID != excludeID && redirect.NormalizePath(r.Source) == normalized {
			return true, nil
		}
	}

	return false, nil
}

// Ping reports whether the backing file is reachable.
func (f *FileRepository) Ping(_ context.Context) error {
	_, err := os.Stat(f.path)
	return err
}

func (f *FileRepository) load() []redirect.Record {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return []redirect.Record{}
	}

	var records []redirect.Record
	if err := yaml.Unmarshal(data, &records); err != nil {
		return []redirect.Record{}
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})

	return records
}

func (f *FileRepository) save(records []redirect.Record) error {
	data, err := yaml.Marshal(records)
	if err != nil {
		return fmt.Errorf("encode redirects: %w", err)
	}

	if err := os.WriteFile(f.path, data, 0o644); err != nil {
		return fmt.Errorf("write redirects file: %w", err)
	}

	return nil
}

// Compile-time check.
var _ redirect.Repository = (*FileRepository)(nil)
