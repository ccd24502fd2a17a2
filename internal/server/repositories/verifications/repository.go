// Package verifications stores the email-verification ledger: one record
// per user, keyed by a random token.
package verifications

import (
	"context"

	"github.com/dmitrijs2005/bloodbay/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, token, userID string) (*models.EmailVerification, error)
	GetByToken(ctx context.Context, token string) (*models.EmailVerification, error)
	GetByUserID(ctx context.Context, userID string) (*models.EmailVerification, error)
	// MarkVerified flips verified to true and returns the updated record.
	// It returns common.ErrConflict when the record was already verified
	// and common.ErrorNotFound when no record has the token.
	MarkVerified(ctx context.Context, token string) (*models.EmailVerification, error)
	DeleteAll(ctx context.Context) error
}
