package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/bloodbay/internal/dbx"
	"github.com/dmitrijs2005/bloodbay/internal/server/repositories/cases"
	"github.com/dmitrijs2005/bloodbay/internal/server/repositories/files"
	"github.com/dmitrijs2005/bloodbay/internal/server/repositories/users"
	"github.com/dmitrijs2005/bloodbay/internal/server/repositories/verifications"
)

// RepositoryManager vends repositories bound to a DBTX, so the same code
// path works against the pool and inside dbx.WithTx.
type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Verifications(db dbx.DBTX) verifications.Repository
	Cases(db dbx.DBTX) cases.Repository
	Files(db dbx.DBTX) files.Repository
}
