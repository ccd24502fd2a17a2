// Package cases stores adverse-event case reports.
package cases

import (
	"context"

	"github.com/dmitrijs2005/bloodbay/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, c *models.Case) (*models.Case, error)
	GetByID(ctx context.Context, id string) (*models.Case, error)
	// List, ListByReporter and SearchByTag return newest cases first.
	List(ctx context.Context) ([]*models.Case, error)
	ListByReporter(ctx context.Context, reporterID string) ([]*models.Case, error)
	SearchByTag(ctx context.Context, tag string) ([]*models.Case, error)
	// Update applies the non-nil fields and returns the updated record.
	Update(ctx context.Context, id string, upd models.CaseUpdate) (*models.Case, error)
	// Delete removes the case only if it was reported by reporterID and
	// returns the number of deleted rows.
	Delete(ctx context.Context, id, reporterID string) (int64, error)
	DeleteAll(ctx context.Context) error
}
