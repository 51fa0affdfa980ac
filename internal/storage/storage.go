// Package storage stores and retrieves processed image blobs.
//
// The default backend keeps blobs in the portal's SQLite database so a
// single-binary deployment needs no extra services. An S3-compatible
// backend (MinIO) is available for deployments that want blobs outside
// the database file.
package storage

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound is returned when a blob key does not exist.
var ErrNotFound = errors.New("blob not found")

// Blob is a stored object with its content type.
type Blob struct {
	Data []byte
	MIME string
}

// BlobStore persists image blobs under opaque keys.
type BlobStore interface {
	// Put stores the blob under key, overwriting any previous content.
	Put(ctx context.Context, key string, r io.Reader, size int64, mime string) error

	// Get returns the blob for key, or ErrNotFound.
	Get(ctx context.Context, key string) (*Blob, error)

	// Delete removes the blob for key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
