package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"studydesk/internal/document"
)

// FileStorage keeps the document as one indented JSON file.
type FileStorage struct {
	path string
	mu   sync.Mutex
}

func NewFileStorage(path string) *FileStorage {
	return &FileStorage{path: path}
}

func (fs *FileStorage) Path() string {
	return fs.path
}

func (fs *FileStorage) Get(_ context.Context) (*document.Document, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if _, err := os.Stat(fs.path); os.IsNotExist(err) {
		return document.New(), nil
	}
	data, err := os.ReadFile(fs.path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading %s: %v", ErrPersistence, fs.path, err)
	}
	d, _, err := document.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrPersistence, fs.path, err)
	}
	return d, nil
}

func (fs *FileStorage) Put(_ context.Context, d *document.Document) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	data, err := document.Encode(d)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	if dir := filepath.Dir(fs.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("%w: creating %s: %v", ErrPersistence, dir, err)
		}
	}
	if err := os.WriteFile(fs.path, data, 0o644); err != nil {
		return fmt.Errorf("%w: writing %s: %v", ErrPersistence, fs.path, err)
	}
	return nil
}
