package postgres

import (
	"context"
	"errors"

	"docvault/internal/domain/file"
	apperrors "docvault/pkg/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const versionColumns = `id, file_id, version_number, type, storage_path, size_bytes,
	uploaded_by, is_final, is_active, created_at`

type VersionRepository struct {
	pool *pgxpool.Pool
}

func NewVersionRepository(db *DB) *VersionRepository {
	return &VersionRepository{pool: db.Pool}
}

// Create numbers the new version max(version_number)+1 inside the insert
// itself so deleted versions never get their numbers reused. Activation,
// when requested, happens in the same transaction.
func (r *VersionRepository) Create(ctx context.Context, input file.CreateVersionInput) (*file.FileVersion, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, errFailedCreateVersion(err)
	}
	defer tx.Rollback(ctx)

	if input.Activate {
		if _, err := tx.Exec(ctx,
			`UPDATE file_versions SET is_active = false WHERE file_id = $1 AND is_active`,
			input.FileID,
		); err != nil {
			return nil, errFailedCreateVersion(err)
		}
	}

	query := `
		INSERT INTO file_versions (file_id, version_number, type, storage_path, size_bytes,
			uploaded_by, is_final, is_active)
		SELECT $1, COALESCE(MAX(version_number), 0) + 1, $2, $3, $4, $5, $6, $7
		FROM file_versions WHERE file_id = $1
		RETURNING ` + versionColumns

	row := tx.QueryRow(ctx, query,
		input.FileID, input.Type, input.StoragePath, input.SizeBytes,
		input.UploadedBy, input.IsFinal, input.Activate,
	)

	v, err := scanVersion(row)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, apperrors.NotFound(errFileNotFoundMsg)
		}
		return nil, errFailedCreateVersion(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, errFailedCreateVersion(err)
	}

	return v, nil
}

func (r *VersionRepository) GetByID(ctx context.Context, id uuid.UUID) (*file.FileVersion, error) {
	query := `SELECT ` + versionColumns + ` FROM file_versions WHERE id = $1`

	v, err := scanVersion(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound(errVersionNotFoundMsg)
		}
		return nil, errFailedGetVersion(err)
	}

	return v, nil
}

func (r *VersionRepository) GetActive(ctx context.Context, fileID uuid.UUID) (*file.FileVersion, error) {
	query := `SELECT ` + versionColumns + ` FROM file_versions WHERE file_id = $1 AND is_active`

	v, err := scanVersion(r.pool.QueryRow(ctx, query, fileID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound(errVersionNotFoundMsg)
		}
		return nil, errFailedGetVersion(err)
	}

	return v, nil
}

func (r *VersionRepository) ListByFile(ctx context.Context, fileID uuid.UUID) ([]*file.FileVersion, error) {
	query := `SELECT ` + versionColumns + ` FROM file_versions
		WHERE file_id = $1 ORDER BY version_number DESC`

	rows, err := r.pool.Query(ctx, query, fileID)
	if err != nil {
		return nil, errFailedListVersions(err)
	}
	defer rows.Close()

	var versions []*file.FileVersion
	for rows.Next() {
		v, err := scanVersion(rows)
		if err != nil {
			return nil, errFailedListVersions(err)
		}
		versions = append(versions, v)
	}

	if err := rows.Err(); err != nil {
		return nil, errFailedListVersions(err)
	}

	return versions, nil
}

// Restore moves the active flag to the target version inside one
// transaction. Deactivation must complete before activation: the partial
// unique index on (file_id) WHERE is_active is checked per row, so a single
// multi-row UPDATE would trip it whenever the target row is scanned before
// the currently active one. The FOR UPDATE lock on the target serializes
// concurrent restores of the same file; the index stays as the commit-time
// guard.
func (r *VersionRepository) Restore(ctx context.Context, versionID uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return errFailedRestoreVersion(err)
	}
	defer tx.Rollback(ctx)

	var fileID uuid.UUID
	err = tx.QueryRow(ctx,
		`SELECT file_id FROM file_versions WHERE id = $1 FOR UPDATE`,
		versionID,
	).Scan(&fileID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NotFound(errVersionNotFoundMsg)
		}
		return errFailedRestoreVersion(err)
	}

	if _, err := tx.Exec(ctx,
		`UPDATE file_versions SET is_active = false WHERE file_id = $1 AND is_active AND id <> $2`,
		fileID, versionID,
	); err != nil {
		return errFailedRestoreVersion(err)
	}

	if _, err := tx.Exec(ctx,
		`UPDATE file_versions SET is_active = true WHERE id = $1`,
		versionID,
	); err != nil {
		return errFailedRestoreVersion(err)
	}

	if err := tx.Commit(ctx); err != nil {
		return errFailedRestoreVersion(err)
	}

	return nil
}

func (r *VersionRepository) MarkFinal(ctx context.Context, versionID uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `UPDATE file_versions SET is_final = true WHERE id = $1`, versionID)
	if err != nil {
		return errFailedMarkVersionFinal(err)
	}

	if tag.RowsAffected() == 0 {
		return apperrors.NotFound(errVersionNotFoundMsg)
	}

	return nil
}

func scanVersion(row pgx.Row) (*file.FileVersion, error) {
	var v file.FileVersion
	err := row.Scan(
		&v.ID, &v.FileID, &v.VersionNumber, &v.Type, &v.StoragePath, &v.SizeBytes,
		&v.UploadedBy, &v.IsFinal, &v.IsActive, &v.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
