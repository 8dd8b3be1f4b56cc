// Package store provides persistence for documents managed by the server.
//
// This package defines the storage interface for saved documents, with
// implementations for different backends:
//   - memory: In-memory storage for development/testing
//   - file: File-based storage for single-process deployments
//   - mongo: MongoDB-backed storage for production multi-instance deployments
//
// # Architecture
//
// A stored document is a [Record]: the document itself plus a generated ID,
// a user-facing name and timestamps. The Store interface supports:
//   - Create/Get/Update/Delete operations
//   - Listing, newest first, with offset and limit
//
// # Usage
//
// Create a store:
//
//	// Development
//	s := store.NewMemoryStore()
//
//	// Single process
//	s, err := store.NewFileStore("") // Uses ~/.config/notate/documents/
//
//	// Production
//	s, err := store.NewMongoStore(ctx, store.MongoOptions{
//	    URI: "mongodb://localhost:27017",
//	})
//
// Manage documents:
//
//	rec, err := s.Create(ctx, "quarterly report", doc)
//	if err != nil {
//	    return err
//	}
//	rec, err = s.Get(ctx, rec.ID)
package store

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/notate/pkg/document"
	"github.com/matzehuels/notate/pkg/errors"
)

// MaxNameLength bounds stored document names.
const MaxNameLength = 200

// DefaultListLimit caps List results when the caller sets no limit.
const DefaultListLimit = 100

// Record is a stored document with its bookkeeping fields.
type Record struct {
	ID        string            `json:"id" bson:"_id"`
	Name      string            `json:"name" bson:"name"`
	Document  document.Document `json:"document" bson:"document"`
	CreatedAt time.Time         `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time         `json:"updated_at" bson:"updated_at"`
}

// ListOptions narrows List results.
type ListOptions struct {
	// Limit caps the number of records returned. Zero means
	// DefaultListLimit.
	Limit int

	// Offset skips that many records from the newest end.
	Offset int
}

// Store is the interface for document storage backends.
type Store interface {
	// Create validates and stores a document under a fresh ID.
	Create(ctx context.Context, name string, d *document.Document) (*Record, error)

	// Get retrieves a record by ID. Missing records fail with
	// ErrCodeDocumentNotFound.
	Get(ctx context.Context, id string) (*Record, error)

	// Update replaces a record's document and bumps its timestamp. An
	// empty name keeps the stored one.
	Update(ctx context.Context, id, name string, d *document.Document) (*Record, error)

	// Delete removes a record. Missing records fail with
	// ErrCodeDocumentNotFound.
	Delete(ctx context.Context, id string) error

	// List returns records newest first.
	List(ctx context.Context, opts ListOptions) ([]*Record, error)

	// Close releases backend resources.
	Close(ctx context.Context) error
}

// NewID returns a fresh document ID.
func NewID() string {
	return uuid.NewString()
}

// ValidateName checks a document name for storage.
func ValidateName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return errors.New(errors.ErrCodeInvalidArgument, "document name is required")
	}
	if len(name) > MaxNameLength {
		return errors.New(errors.ErrCodeInvalidArgument, "document name exceeds %d characters", MaxNameLength)
	}
	return errors.ValidateDocumentName(name)
}

// validateCreateInput checks the inputs to Create.
func validateCreateInput(name string, d *document.Document) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	return validateDocument(d)
}

// validateUpdateInput checks the inputs to Update, where an empty name
// means "keep the stored one".
func validateUpdateInput(name string, d *document.Document) error {
	if name != "" {
		if err := ValidateName(name); err != nil {
			return err
		}
	}
	return validateDocument(d)
}

func validateDocument(d *document.Document) error {
	if d == nil {
		return errors.New(errors.ErrCodeInvalidArgument, "document is required")
	}
	return d.Validate()
}

// notFound is the shared missing-record error.
func notFound(id string) error {
	return errors.New(errors.ErrCodeDocumentNotFound, "document %s not found", id)
}

// limitFor resolves the effective list limit.
func limitFor(opts ListOptions) int {
	if opts.Limit <= 0 {
		return DefaultListLimit
	}
	return opts.Limit
}
