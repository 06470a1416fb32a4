package storage

import (
	"context"
	"errors"

	"studydesk/internal/document"
)

// ErrPersistence marks a document that could not be read or written.
var ErrPersistence = errors.New("document persistence failed")

// Repository loads and saves the whole application document.
// Get returns a copy owned by the caller; Put overwrites the stored document.
type Repository interface {
	Get(ctx context.Context) (*document.Document, error)
	Put(ctx context.Context, d *document.Document) error
}
