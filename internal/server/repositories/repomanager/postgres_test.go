package repomanager

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/bloodbay/internal/server/repositories/cases"
	"github.com/dmitrijs2005/bloodbay/internal/server/repositories/files"
	"github.com/dmitrijs2005/bloodbay/internal/server/repositories/users"
	"github.com/dmitrijs2005/bloodbay/internal/server/repositories/verifications"
	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newDB(t *testing.T) *sql.DB {
	t.Helper()
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestFactories_ReturnPostgresRepos(t *testing.T) {
	db := newDB(t)

	var m RepositoryManager = NewPostgresRepositoryManager()

	assert.IsType(t, &users.PostgresRepository{}, m.Users(db))
	assert.IsType(t, &verifications.PostgresRepository{}, m.Verifications(db))
	assert.IsType(t, &cases.PostgresRepository{}, m.Cases(db))
	assert.IsType(t, &files.PostgresRepository{}, m.Files(db))
}

func TestRunMigrations(t *testing.T) {
	db := newDB(t)

	orig := gooseUpContext
	t.Cleanup(func() { gooseUpContext = orig })

	t.Run("success", func(t *testing.T) {
		var gotDir string
		gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
			gotDir = dir
			assert.Empty(t, opts)
			return nil
		}

		require.NoError(t, NewPostgresRepositoryManager().RunMigrations(context.Background(), db))
		assert.Equal(t, ".", gotDir)
	})

	t.Run("error is returned", func(t *testing.T) {
		gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
			return errors.New("boom")
		}

		err := NewPostgresRepositoryManager().RunMigrations(context.Background(), db)
		assert.EqualError(t, err, "boom")
	})
}
