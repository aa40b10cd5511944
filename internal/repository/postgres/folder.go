package postgres

import (
	"context"
	"errors"

	"docvault/internal/domain/hierarchy"
	apperrors "docvault/pkg/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type FolderRepository struct {
	pool *pgxpool.Pool
}

func NewFolderRepository(db *DB) *FolderRepository {
	return &FolderRepository{pool: db.Pool}
}

func (r *FolderRepository) GetByID(ctx context.Context, id uuid.UUID) (*hierarchy.Folder, error) {
	query := `SELECT id, name, space_name, project_name, users, created_at
		FROM folders WHERE id = $1`

	var f hierarchy.Folder
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&f.ID, &f.Name, &f.SpaceName, &f.ProjectName, &f.Users, &f.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound(errFolderNotFoundMsg)
		}
		return nil, errFailedGetFolder(err)
	}

	return &f, nil
}
