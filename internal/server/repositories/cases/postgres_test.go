package cases

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/bloodbay/internal/common"
	"github.com/dmitrijs2005/bloodbay/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var caseCols = []string{"id", "reported_by_id", "reported_by_name", "title", "description", "tags", "country", "created_at"}

// arrayConverter lets []string reach the mock like it reaches pgx.
type arrayConverter struct{}

func (arrayConverter) ConvertValue(v any) (driver.Value, error) {
	if s, ok := v.([]string); ok {
		return s, nil
	}
	return driver.DefaultParameterConverter.ConvertValue(v)
}

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(
		sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp),
		sqlmock.ValueConverterOption(arrayConverter{}),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewPostgresRepository(db), mock
}

func TestCreate(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now()

	mock.ExpectQuery(`(?s)^INSERT\s+INTO\s+cases\s*\(reported_by_id,\s*reported_by_name,\s*title,\s*description,\s*tags,\s*country\)`).
		WithArgs("u-1", "Alice", "Headache", "After 2nd dose", []string{"pfizer", "moderna"}, "LV").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("c-1", now))

	got, err := repo.Create(context.Background(), &models.Case{
		ReportedByID: "u-1", ReportedByName: "Alice", Title: "Headache", Description: "After 2nd dose",
		Tags: []string{"pfizer", "moderna"}, Country: "LV",
	})
	require.NoError(t, err)
	assert.Equal(t, "c-1", got.ID)
	assert.Equal(t, now, got.CreatedAt)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreate_NilTagsStoredEmpty(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(`INSERT\s+INTO\s+cases`).
		WithArgs("u-1", "Alice", "T", "D", []string{}, "").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow("c-1", time.Now()))

	got, err := repo.Create(context.Background(), &models.Case{ReportedByID: "u-1", ReportedByName: "Alice", Title: "T", Description: "D"})
	require.NoError(t, err)
	assert.Equal(t, []string{}, got.Tags)
}

func TestGetByID(t *testing.T) {
	now := time.Now()

	t.Run("found", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(`(?s)^SELECT\s+id,.*FROM\s+cases\s+WHERE\s+id\s*=\s*\$1$`).
			WithArgs("c-1").
			WillReturnRows(sqlmock.NewRows(caseCols).AddRow("c-1", "u-1", "Alice", "Headache", "desc", "{pfizer,moderna}", "LV", now))

		c, err := repo.GetByID(context.Background(), "c-1")
		require.NoError(t, err)
		assert.Equal(t, []string{"pfizer", "moderna"}, c.Tags)
		assert.Equal(t, "u-1", c.ReportedByID)
		assert.Equal(t, "LV", c.Country)
	})

	t.Run("not found", func(t *testing.T) {
		repo, mock := newRepoWithMock(t)
		mock.ExpectQuery(`FROM\s+cases\s+WHERE\s+id`).WithArgs("nope").WillReturnError(sql.ErrNoRows)

		_, err := repo.GetByID(context.Background(), "nope")
		assert.ErrorIs(t, err, common.ErrorNotFound)
	})
}

func TestList_NewestFirst(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now()

	mock.ExpectQuery(`(?s)FROM\s+cases\s+ORDER\s+BY\s+created_at\s+DESC$`).
		WillReturnRows(sqlmock.NewRows(caseCols).
			AddRow("c-2", "u-1", "Alice", "B", "d", "{astra,clots}", "", now).
			AddRow("c-1", "u-1", "Alice", "A", "d", "{}", "", now.Add(-time.Hour)))

	got, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "c-2", got[0].ID)
	assert.Equal(t, []string{}, got[1].Tags)
}

func TestList_Empty(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectQuery(`FROM\s+cases`).WillReturnRows(sqlmock.NewRows(caseCols))

	got, err := repo.List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestListByReporter_And_SearchByTag(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	now := time.Now()

	mock.ExpectQuery(`(?s)WHERE\s+reported_by_id\s*=\s*\$1\s+ORDER\s+BY\s+created_at\s+DESC`).
		WithArgs("u-1").
		WillReturnRows(sqlmock.NewRows(caseCols).AddRow("c-1", "u-1", "Alice", "A", "d", "{pfizer}", "", now))
	mock.ExpectQuery(`(?s)WHERE\s+\$1\s*=\s*ANY\(tags\)\s+ORDER\s+BY\s+created_at\s+DESC`).
		WithArgs("pfizer").
		WillReturnRows(sqlmock.NewRows(caseCols).AddRow("c-1", "u-1", "Alice", "A", "d", "{pfizer,moderna}", "", now))

	byReporter, err := repo.ListByReporter(context.Background(), "u-1")
	require.NoError(t, err)
	require.Len(t, byReporter, 1)

	byTag, err := repo.SearchByTag(context.Background(), "pfizer")
	require.NoError(t, err)
	require.Len(t, byTag, 1)
	assert.Contains(t, byTag[0].Tags, "pfizer")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestQuery_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectQuery(`FROM\s+cases`).WillReturnError(errors.New("db down"))

	_, err := repo.List(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to select cases")
}

func TestUpdate_ReturnsUpdatedRecord(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	title := "New title"

	mock.ExpectQuery(`(?s)^UPDATE\s+cases\s+SET.*COALESCE\(\$2,\s*title\).*RETURNING`).
		WithArgs("c-1", title, nil).
		WillReturnRows(sqlmock.NewRows(caseCols).AddRow("c-1", "u-1", "Alice", title, "d", "{}", "", time.Now()))

	got, err := repo.Update(context.Background(), "c-1", models.CaseUpdate{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, title, got.Title)
}

func TestDelete_GuardedByReporter(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	q := `^DELETE\s+FROM\s+cases\s+WHERE\s+id\s*=\s*\$1\s+AND\s+reported_by_id\s*=\s*\$2$`
	mock.ExpectExec(q).WithArgs("c-1", "u-1").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(q).WithArgs("c-1", "u-2").WillReturnResult(sqlmock.NewResult(0, 0))

	n, err := repo.Delete(context.Background(), "c-1", "u-1")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	n, err = repo.Delete(context.Background(), "c-1", "u-2")
	require.NoError(t, err)
	assert.EqualValues(t, 0, n)
}

func TestDeleteAll(t *testing.T) {
	repo, mock := newRepoWithMock(t)
	mock.ExpectExec(`^DELETE\s+FROM\s+cases$`).WillReturnResult(sqlmock.NewResult(0, 5))
	require.NoError(t, repo.DeleteAll(context.Background()))
}
