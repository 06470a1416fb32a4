// Package service implements the commands that read and mutate the
// application document. Every mutation runs as one Store.Update cycle.
package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"studydesk/internal/document"
	"studydesk/internal/metrics"
	"studydesk/internal/skills"
	"studydesk/internal/storage"
)

var (
	// ErrValidation marks rejected user input. Nothing is stored.
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")
)

// IsClientError reports whether err was caused by the request rather than
// the service.
func IsClientError(err error) bool {
	return errors.Is(err, ErrValidation) || errors.Is(err, ErrNotFound)
}

type Service struct {
	store   *storage.Store
	vocab   *skills.Vocabulary
	now     func() time.Time
	newID   func() string
	logger  *zap.Logger
	metrics *metrics.Metrics

	// externalPassword is set when the email password comes from a secret
	// file rather than the document.
	externalPassword bool
}

type Option func(*Service)

func WithVocabulary(v *skills.Vocabulary) Option {
	return func(s *Service) {
		if v != nil {
			s.vocab = v
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithIDGenerator(newID func() string) Option {
	return func(s *Service) { s.newID = newID }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithExternalPassword(external bool) Option {
	return func(s *Service) { s.externalPassword = external }
}

func New(store *storage.Store, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{
		store:  store,
		vocab:  skills.DefaultVocabulary(),
		now:    time.Now,
		newID:  uuid.NewString,
		logger: logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LoadDocument returns the whole current document.
func (s *Service) LoadDocument(ctx context.Context) *document.Document {
	return s.store.Load(ctx)
}
