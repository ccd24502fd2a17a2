package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/bloodbay/internal/common"
	"github.com/dmitrijs2005/bloodbay/internal/logging"
	"github.com/dmitrijs2005/bloodbay/internal/server/repositories/repomanager"
)

// VerificationService completes email verification.
type VerificationService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	log         logging.Logger
}

func NewVerificationService(db *sql.DB, m repomanager.RepositoryManager, log logging.Logger) *VerificationService {
	return &VerificationService{db: db, repomanager: m, log: log}
}

// Verify marks the verification request identified by token as done.
// A request can be completed only once.
func (s *VerificationService) Verify(ctx context.Context, token string) error {
	if token == "" {
		return common.NewError(common.ErrValidation, common.MsgVerificationTokenNeeded)
	}

	v, err := s.repomanager.Verifications(s.db).MarkVerified(ctx, token)
	switch {
	case errors.Is(err, common.ErrorNotFound):
		return common.NewError(common.ErrorNotFound, common.MsgVerificationNotFound)
	case errors.Is(err, common.ErrConflict):
		return common.NewError(common.ErrConflict, common.MsgAlreadyVerified)
	case err != nil:
		return fmt.Errorf("error completing verification: %w", err)
	}

	s.log.Info(ctx, "email verified", "user_id", v.UserID)
	return nil
}
