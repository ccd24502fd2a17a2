// Package files stores the links between uploaded blobs and cases.
package files

import (
	"context"

	"github.com/dmitrijs2005/bloodbay/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, file *models.File) (*models.File, error)
	// ListByCase returns the links of a case in upload order.
	ListByCase(ctx context.Context, caseID string) ([]*models.File, error)
	DeleteAll(ctx context.Context) error
}
