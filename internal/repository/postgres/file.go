package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"docvault/internal/domain/file"
	apperrors "docvault/pkg/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const fileColumns = `id, filename, mime_type, size_bytes, storage_path, folder_id,
	is_encrypted, password_hash, description, created_by, users, created_at, updated_at`

type FileRepository struct {
	pool *pgxpool.Pool
}

func NewFileRepository(db *DB) *FileRepository {
	return &FileRepository{pool: db.Pool}
}

func (r *FileRepository) Create(ctx context.Context, input file.CreateFileInput) (*file.File, error) {
	query := `
		INSERT INTO files (filename, mime_type, size_bytes, storage_path, folder_id,
			is_encrypted, password_hash, description, created_by, users)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + fileColumns

	row := r.pool.QueryRow(ctx, query,
		input.Filename, input.MimeType, input.SizeBytes, input.StoragePath, input.FolderID,
		input.Encrypted, input.PasswordHash, input.Description, input.CreatedBy, input.Users,
	)

	f, err := scanFile(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.Conflict(errDuplicateStoragePathMsg)
		}
		if isForeignKeyViolation(err) {
			return nil, apperrors.NotFound(errFolderNotFoundMsg)
		}
		return nil, errFailedCreateFile(err)
	}

	return f, nil
}

func (r *FileRepository) GetByID(ctx context.Context, id uuid.UUID) (*file.File, error) {
	query := `SELECT ` + fileColumns + ` FROM files WHERE id = $1`

	f, err := scanFile(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound(errFileNotFoundMsg)
		}
		return nil, errFailedGetFile(err)
	}

	return f, nil
}

func (r *FileRepository) List(ctx context.Context, filter file.ListFilesFilter) ([]*file.File, error) {
	query := `SELECT ` + fileColumns + ` FROM files WHERE folder_id = $1`
	args := []any{filter.FolderID}

	if filter.NameContains != "" {
		args = append(args, "%"+filter.NameContains+"%")
		query += fmt.Sprintf(" AND filename ILIKE $%d", len(args))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args))

	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, errFailedListFiles(err)
	}
	defer rows.Close()

	var files []*file.File
	for rows.Next() {
		f, err := scanFile(rows)
		if err != nil {
			return nil, errFailedListFiles(err)
		}
		files = append(files, f)
	}

	if err := rows.Err(); err != nil {
		return nil, errFailedListFiles(err)
	}

	return files, nil
}

func (r *FileRepository) Update(ctx context.Context, id uuid.UUID, input file.UpdateFileInput) (*file.File, error) {
	sets := []string{"updated_at = now()"}
	args := []any{id}

	appendSet := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if input.Filename != nil {
		appendSet("filename", *input.Filename)
	}
	if input.Description != nil {
		appendSet("description", *input.Description)
	}
	if input.Encrypted != nil {
		appendSet("is_encrypted", *input.Encrypted)
		// Turning encryption off always clears the stored hash.
		if !*input.Encrypted {
			sets = append(sets, "password_hash = NULL")
		}
	}
	if input.PasswordHash != nil {
		appendSet("password_hash", *input.PasswordHash)
	}

	query := `UPDATE files SET ` + strings.Join(sets, ", ") + ` WHERE id = $1 RETURNING ` + fileColumns

	f, err := scanFile(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound(errFileNotFoundMsg)
		}
		return nil, errFailedUpdateFile(err)
	}

	return f, nil
}

func (r *FileRepository) UpdateActiveContent(ctx context.Context, id uuid.UUID, storagePath string, sizeBytes int64) error {
	query := `UPDATE files SET storage_path = $2, size_bytes = $3, updated_at = now() WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, id, storagePath, sizeBytes)
	if err != nil {
		return errFailedUpdateFile(err)
	}

	if tag.RowsAffected() == 0 {
		return apperrors.NotFound(errFileNotFoundMsg)
	}

	return nil
}

func (r *FileRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM files WHERE id = $1`, id)
	if err != nil {
		return errFailedDeleteFile(err)
	}

	if tag.RowsAffected() == 0 {
		return apperrors.NotFound(errFileNotFoundMsg)
	}

	return nil
}

func scanFile(row pgx.Row) (*file.File, error) {
	var f file.File
	err := row.Scan(
		&f.ID, &f.Filename, &f.MimeType, &f.SizeBytes, &f.StoragePath, &f.FolderID,
		&f.Encrypted, &f.PasswordHash, &f.Description, &f.CreatedBy, &f.Users,
		&f.CreatedAt, &f.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &f, nil
}
