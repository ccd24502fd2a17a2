// Package users stores the credential records of registered accounts.
package users

import (
	"context"

	"github.com/dmitrijs2005/bloodbay/internal/server/models"
)

type Repository interface {
	// Create inserts user and fills its ID, Role and CreatedAt. A duplicate
	// email or username yields common.ErrConflict.
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	// Update applies the non-nil fields and returns the updated record.
	Update(ctx context.Context, id string, upd models.UserUpdate) (*models.User, error)
	DeleteAll(ctx context.Context) error
}
