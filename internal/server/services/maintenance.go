package services

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/bloodbay/internal/common"
	"github.com/dmitrijs2005/bloodbay/internal/dbx"
	"github.com/dmitrijs2005/bloodbay/internal/logging"
	"github.com/dmitrijs2005/bloodbay/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/bloodbay/internal/server/storage"
)

// MaintenanceService wipes all data between end-to-end test runs.
type MaintenanceService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	blobs       storage.BlobStore
	log         logging.Logger
	testEnv     bool
}

func NewMaintenanceService(db *sql.DB, m repomanager.RepositoryManager, blobs storage.BlobStore, log logging.Logger, testEnv bool) *MaintenanceService {
	return &MaintenanceService{db: db, repomanager: m, blobs: blobs, log: log, testEnv: testEnv}
}

// Reset deletes every record and blob. It refuses to run outside the test
// environment.
func (s *MaintenanceService) Reset(ctx context.Context) error {
	if !s.testEnv {
		return common.NewError(common.ErrAuthorization, common.MsgNonTestEnvironment)
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := s.repomanager.Files(tx).DeleteAll(ctx); err != nil {
			return err
		}
		if err := s.repomanager.Cases(tx).DeleteAll(ctx); err != nil {
			return err
		}
		if err := s.repomanager.Verifications(tx).DeleteAll(ctx); err != nil {
			return err
		}
		return s.repomanager.Users(tx).DeleteAll(ctx)
	})
	if err != nil {
		return err
	}

	if err := s.blobs.DeleteAll(ctx); err != nil {
		return err
	}

	s.log.Warn(ctx, "all data deleted")
	return nil
}
