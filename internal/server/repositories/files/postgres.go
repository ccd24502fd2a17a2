package files

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/bloodbay/internal/dbx"
	"github.com/dmitrijs2005/bloodbay/internal/server/models"
)

// PostgresRepository implements file-link storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts a link and fills its ID and CreatedAt.
func (r *PostgresRepository) Create(ctx context.Context, file *models.File) (*models.File, error) {
	query := `
		INSERT INTO files (uploaded_by_id, original_name, name, linked_to_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		file.UploadedByID, file.OriginalName, file.Name, file.LinkedToID).Scan(&file.ID, &file.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return file, nil
}

// ListByCase returns all links for caseID, oldest first. The result is
// empty, not nil, when there are none.
func (r *PostgresRepository) ListByCase(ctx context.Context, caseID string) ([]*models.File, error) {
	query := `
		SELECT id, uploaded_by_id, original_name, name, linked_to_id, created_at
		FROM files
		WHERE linked_to_id = $1
		ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, caseID)
	if err != nil {
		return nil, fmt.Errorf("failed to select files: %w", err)
	}
	defer rows.Close()

	result := []*models.File{}
	for rows.Next() {
		var f models.File
		if err := rows.Scan(&f.ID, &f.UploadedByID, &f.OriginalName, &f.Name, &f.LinkedToID, &f.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, &f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *PostgresRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM files`); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
