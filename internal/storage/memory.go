package storage

import (
	"context"
	"sync"

	"studydesk/internal/document"
)

type MemoryStorage struct {
	doc *document.Document
	mu  sync.Mutex
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{doc: document.New()}
}

func (m *MemoryStorage) Get(_ context.Context) (*document.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.doc.Clone(), nil
}

func (m *MemoryStorage) Put(_ context.Context, d *document.Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.doc = d.Clone()
	return nil
}
