package cases

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/bloodbay/internal/common"
	"github.com/dmitrijs2005/bloodbay/internal/dbx"
	"github.com/dmitrijs2005/bloodbay/internal/server/models"
	"github.com/jackc/pgx/v5/pgtype"
)

// PostgresRepository implements Repository over a dbx.DBTX. Tags live in a
// TEXT[] column scanned through a pgtype.Map.
type PostgresRepository struct {
	db    dbx.DBTX
	types *pgtype.Map
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db, types: pgtype.NewMap()}
}

const caseColumns = `id, reported_by_id, reported_by_name, title, description, tags, country, created_at`

type scanner interface {
	Scan(dest ...any) error
}

func (r *PostgresRepository) Create(ctx context.Context, c *models.Case) (*models.Case, error) {
	if c.Tags == nil {
		c.Tags = []string{}
	}

	query :=
		`INSERT INTO cases (reported_by_id, reported_by_name, title, description, tags, country)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		c.ReportedByID, c.ReportedByName, c.Title, c.Description, c.Tags, c.Country).Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return c, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Case, error) {
	query := `SELECT ` + caseColumns + ` FROM cases WHERE id = $1`

	c, err := r.scan(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.Case, error) {
	return r.query(ctx, `SELECT `+caseColumns+` FROM cases ORDER BY created_at DESC`)
}

func (r *PostgresRepository) ListByReporter(ctx context.Context, reporterID string) ([]*models.Case, error) {
	return r.query(ctx, `SELECT `+caseColumns+` FROM cases WHERE reported_by_id = $1 ORDER BY created_at DESC`, reporterID)
}

func (r *PostgresRepository) SearchByTag(ctx context.Context, tag string) ([]*models.Case, error) {
	return r.query(ctx, `SELECT `+caseColumns+` FROM cases WHERE $1 = ANY(tags) ORDER BY created_at DESC`, tag)
}

func (r *PostgresRepository) Update(ctx context.Context, id string, upd models.CaseUpdate) (*models.Case, error) {
	query :=
		`UPDATE cases SET
			title = COALESCE($2, title),
			description = COALESCE($3, description)
		 WHERE id = $1
		 RETURNING ` + caseColumns

	c, err := r.scan(r.db.QueryRowContext(ctx, query, id, upd.Title, upd.Description))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return c, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id, reporterID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM cases WHERE id = $1 AND reported_by_id = $2`, id, reporterID)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected error: %w", err)
	}
	return n, nil
}

func (r *PostgresRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM cases`); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func (r *PostgresRepository) query(ctx context.Context, query string, args ...any) ([]*models.Case, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select cases: %w", err)
	}
	defer rows.Close()

	result := []*models.Case{}
	for rows.Next() {
		c, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) scan(row scanner) (*models.Case, error) {
	c := &models.Case{}
	if err := row.Scan(
		&c.ID, &c.ReportedByID, &c.ReportedByName, &c.Title, &c.Description,
		r.types.SQLScanner(&c.Tags), &c.Country, &c.CreatedAt,
	); err != nil {
		return nil, err
	}
	if c.Tags == nil {
		c.Tags = []string{}
	}
	return c, nil
}
