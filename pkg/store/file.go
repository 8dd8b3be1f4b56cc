package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/notate/pkg/document"
	"github.com/matzehuels/notate/pkg/errors"
)

// FileStore persists records as JSON files, one per document. Suited to
// single-process deployments; writes from concurrent processes may race.
type FileStore struct {
	mu      sync.RWMutex
	baseDir string
}

// NewFileStore creates a file-backed store rooted at baseDir. An empty
// baseDir means ~/.config/notate/documents.
func NewFileStore(baseDir string) (*FileStore, error) {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "resolve home directory")
		}
		baseDir = filepath.Join(home, ".config", "notate", "documents")
	}
	if err := os.MkdirAll(baseDir, 0o700); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create store directory")
	}
	return &FileStore{baseDir: baseDir}, nil
}

// Dir returns the directory records are stored in.
func (s *FileStore) Dir() string {
	return s.baseDir
}

// Create validates and stores a document under a fresh ID.
func (s *FileStore) Create(ctx context.Context, name string, d *document.Document) (*Record, error) {
	if err := validateCreateInput(name, d); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	rec := &Record{
		ID:        NewID(),
		Name:      strings.TrimSpace(name),
		Document:  *d,
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.writeRecord(rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Get retrieves a record by ID.
func (s *FileStore) Get(ctx context.Context, id string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.readRecord(id)
}

// Update replaces a record's document and bumps its timestamp.
func (s *FileStore) Update(ctx context.Context, id, name string, d *document.Document) (*Record, error) {
	if err := validateUpdateInput(name, d); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.readRecord(id)
	if err != nil {
		return nil, err
	}
	if name != "" {
		rec.Name = strings.TrimSpace(name)
	}
	rec.Document = *d
	rec.UpdatedAt = time.Now().UTC()

	if err := s.writeRecord(rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Delete removes a record.
func (s *FileStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if uuid.Validate(id) != nil {
		return notFound(id)
	}
	if err := os.Remove(s.recordPath(id)); err != nil {
		if os.IsNotExist(err) {
			return notFound(id)
		}
		return errors.Wrap(errors.ErrCodeInternal, err, "delete record %s", id)
	}
	return nil
}

// List returns records newest first. Files that fail to decode are
// skipped so one corrupt record does not hide the rest.
func (s *FileStore) List(ctx context.Context, opts ListOptions) ([]*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read store directory")
	}

	recs := make([]*Record, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		id := strings.TrimSuffix(entry.Name(), ".json")
		rec, err := s.readRecord(id)
		if err != nil {
			continue
		}
		recs = append(recs, rec)
	}

	sortNewestFirst(recs)
	return window(recs, opts), nil
}

// Close is a no-op for the file store.
func (s *FileStore) Close(ctx context.Context) error {
	return nil
}

// recordPath returns the file path for a record. IDs are validated before
// use so a crafted ID cannot address files outside the store directory.
func (s *FileStore) recordPath(id string) string {
	return filepath.Join(s.baseDir, id+".json")
}

func (s *FileStore) readRecord(id string) (*Record, error) {
	if uuid.Validate(id) != nil {
		return nil, notFound(id)
	}
	data, err := os.ReadFile(s.recordPath(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, notFound(id)
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read record %s", id)
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "decode record %s", id)
	}
	return &rec, nil
}

func (s *FileStore) writeRecord(rec *Record) error {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode record %s", rec.ID)
	}
	if err := os.WriteFile(s.recordPath(rec.ID), data, 0o600); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "write record %s", rec.ID)
	}
	return nil
}

var _ Store = (*FileStore)(nil)
