// Package storage is the blob gateway for case attachments, backed by an
// S3-compatible object store.
package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/dmitrijs2005/bloodbay/internal/server/models"
	"github.com/google/uuid"
)

// BlobStore stores attachment bytes under generated keys.
type BlobStore interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	// Stat returns metadata with a temporary download link, or
	// common.ErrorNotFound when the blob does not exist.
	Stat(ctx context.Context, key string) (*models.FileMetadata, error)
	// DeleteAll empties the bucket; it only works in the test environment.
	DeleteAll(ctx context.Context) error
}

// NewKey returns a fresh storage key for a blob attached to caseID.
func NewKey(caseID string) string {
	return fmt.Sprintf("cases/%s/%v", caseID, uuid.New())
}
