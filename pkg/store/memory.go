package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/matzehuels/notate/pkg/document"
)

// MemoryStore keeps records in process memory. Useful for development and
// tests; contents are lost on restart.
type MemoryStore struct {
	mu   sync.RWMutex
	recs map[string]*Record
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{recs: make(map[string]*Record)}
}

// Create validates and stores a document under a fresh ID.
func (s *MemoryStore) Create(ctx context.Context, name string, d *document.Document) (*Record, error) {
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
	s.recs[rec.ID] = rec
	s.mu.Unlock()

	out := *rec
	return &out, nil
}

// Get retrieves a record by ID.
func (s *MemoryStore) Get(ctx context.Context, id string) (*Record, error) {
	s.mu.RLock()
	rec, ok := s.recs[id]
	s.mu.RUnlock()
	if !ok {
		return nil, notFound(id)
	}
	out := *rec
	return &out, nil
}

// Update replaces a record's document and bumps its timestamp.
func (s *MemoryStore) Update(ctx context.Context, id, name string, d *document.Document) (*Record, error) {
	if err := validateUpdateInput(name, d); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.recs[id]
	if !ok {
		return nil, notFound(id)
	}
	if name != "" {
		rec.Name = strings.TrimSpace(name)
	}
	rec.Document = *d
	rec.UpdatedAt = time.Now().UTC()

	out := *rec
	return &out, nil
}

// Delete removes a record.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.recs[id]; !ok {
		return notFound(id)
	}
	delete(s.recs, id)
	return nil
}

// List returns records newest first.
func (s *MemoryStore) List(ctx context.Context, opts ListOptions) ([]*Record, error) {
	s.mu.RLock()
	recs := make([]*Record, 0, len(s.recs))
	for _, rec := range s.recs {
		out := *rec
		recs = append(recs, &out)
	}
	s.mu.RUnlock()

	sortNewestFirst(recs)
	return window(recs, opts), nil
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close(ctx context.Context) error {
	return nil
}

// sortNewestFirst orders records by update time, newest first, with the ID
// as a tie-breaker so the order is stable.
func sortNewestFirst(recs []*Record) {
	sort.Slice(recs, func(i, j int) bool {
		if !recs[i].UpdatedAt.Equal(recs[j].UpdatedAt) {
			return recs[i].UpdatedAt.After(recs[j].UpdatedAt)
		}
		return recs[i].ID < recs[j].ID
	})
}

// window applies offset and limit to an already sorted slice.
func window(recs []*Record, opts ListOptions) []*Record {
	if opts.Offset >= len(recs) {
		return []*Record{}
	}
	recs = recs[opts.Offset:]
	if limit := limitFor(opts); len(recs) > limit {
		recs = recs[:limit]
	}
	return recs
}

var _ Store = (*MemoryStore)(nil)
