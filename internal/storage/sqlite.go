package storage

import (
	"context"
	"database/sql"
	"fmt"
	"io"
)

// SQLiteStore keeps blobs in the blobs table of the main database.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore returns a BlobStore backed by db.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) Put(ctx context.Context, key string, r io.Reader, size int64, mime string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("reading blob data: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO blobs (key, data, mime) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET data = excluded.data, mime = excluded.mime`,
		key, data, mime,
	)
	if err != nil {
		return fmt.Errorf("storing blob: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Get(ctx context.Context, key string) (*Blob, error) {
	b := &Blob{}
	err := s.db.QueryRowContext(ctx,
		`SELECT data, mime FROM blobs WHERE key = ?`, key,
	).Scan(&b.Data, &b.MIME)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting blob: %w", err)
	}
	return b, nil
}

func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM blobs WHERE key = ?`, key); err != nil {
		return fmt.Errorf("deleting blob: %w", err)
	}
	return nil
}
