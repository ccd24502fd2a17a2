package verifications

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/bloodbay/internal/common"
	"github.com/dmitrijs2005/bloodbay/internal/dbx"
	"github.com/dmitrijs2005/bloodbay/internal/server/models"
)

// PostgresRepository implements Repository over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Create(ctx context.Context, token, userID string) (*models.EmailVerification, error) {
	query :=
		`INSERT INTO email_verifications (token, user_id)
		 VALUES ($1, $2)
		 RETURNING id, token, user_id, verified, created_at`

	v, err := scan(r.db.QueryRowContext(ctx, query, token, userID))
	if err != nil && dbx.IsUniqueViolation(err) {
		return nil, common.ErrConflict
	}
	return v, err
}

func (r *PostgresRepository) GetByToken(ctx context.Context, token string) (*models.EmailVerification, error) {
	query := `SELECT id, token, user_id, verified, created_at FROM email_verifications WHERE token = $1`
	return scan(r.db.QueryRowContext(ctx, query, token))
}

func (r *PostgresRepository) GetByUserID(ctx context.Context, userID string) (*models.EmailVerification, error) {
	query := `SELECT id, token, user_id, verified, created_at FROM email_verifications WHERE user_id = $1`
	return scan(r.db.QueryRowContext(ctx, query, userID))
}

func (r *PostgresRepository) MarkVerified(ctx context.Context, token string) (*models.EmailVerification, error) {
	query :=
		`UPDATE email_verifications SET verified = TRUE
		 WHERE token = $1 AND verified = FALSE
		 RETURNING id, token, user_id, verified, created_at`

	v, err := scan(r.db.QueryRowContext(ctx, query, token))
	if !errors.Is(err, common.ErrorNotFound) {
		return v, err
	}

	// nothing updated: either unknown token or verified already
	if _, err := r.GetByToken(ctx, token); err != nil {
		return nil, err
	}
	return nil, common.ErrConflict
}

func (r *PostgresRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM email_verifications`); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}

func scan(row *sql.Row) (*models.EmailVerification, error) {
	v := &models.EmailVerification{}
	if err := row.Scan(&v.ID, &v.Token, &v.UserID, &v.Verified, &v.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return v, nil
}
