package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"studydesk/internal/document"
)

const documentKey = "default"

// SQLiteStorage keeps the document as a JSON body in a single-row table.
type SQLiteStorage struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteStorage creates a new SQLite storage instance
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite database: %w", err)
	}

	s := &SQLiteStorage{db: db}
	if err := s.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return s, nil
}

// Close closes the database connection
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

func (s *SQLiteStorage) createTables() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS documents (
		id TEXT PRIMARY KEY,
		body TEXT NOT NULL,
		schema_version INTEGER NOT NULL,
		updated_at TEXT NOT NULL -- RFC 3339
	)`)
	return err
}

func (s *SQLiteStorage) Get(ctx context.Context) (*document.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var body string
	err := s.db.QueryRowContext(ctx, "SELECT body FROM documents WHERE id = ?", documentKey).Scan(&body)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return document.New(), nil
		}
		return nil, fmt.Errorf("%w: failed to read document: %v", ErrPersistence, err)
	}

	d, _, err := document.Decode([]byte(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	return d, nil
}

func (s *SQLiteStorage) Put(ctx context.Context, d *document.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	body, err := document.Encode(d)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrPersistence, err)
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO documents (id, body, schema_version, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET body = excluded.body,
			schema_version = excluded.schema_version,
			updated_at = excluded.updated_at`,
		documentKey, string(body), d.SchemaVersion, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("%w: failed to write document: %v", ErrPersistence, err)
	}
	return nil
}
