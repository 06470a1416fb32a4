package storage

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"studydesk/internal/document"
)

// ErrUnchanged may be returned by an Update mutation to skip the write.
var ErrUnchanged = errors.New("document unchanged")

// Store serializes read-modify-write cycles over a Repository.
//
// Read failures fall back to the default document and write failures are
// logged; neither reaches the caller. A fallback followed by a successful
// write replaces whatever the repository held.
type Store struct {
	repo   Repository
	logger *zap.Logger
	mu     sync.Mutex
}

func NewStore(repo Repository, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{repo: repo, logger: logger}
}

// Load returns a copy of the current document.
func (s *Store) Load(ctx context.Context) *document.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.get(ctx)
}

// Update re-reads the document, applies fn and writes the result back.
// An error from fn aborts the write and is returned, except ErrUnchanged
// which only skips it.
func (s *Store) Update(ctx context.Context, fn func(d *document.Document) error) (*document.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := s.get(ctx)
	if err := fn(d); err != nil {
		if errors.Is(err, ErrUnchanged) {
			return d, nil
		}
		return nil, err
	}
	if err := s.repo.Put(ctx, d); err != nil {
		s.logger.Error("failed to save document", zap.Error(err))
	}
	return d, nil
}

func (s *Store) get(ctx context.Context) *document.Document {
	d, err := s.repo.Get(ctx)
	if err != nil {
		s.logger.Error("failed to load document, using defaults", zap.Error(err))
		return document.New()
	}
	return d
}
