package postgres

import (
	"context"
	"errors"

	"docvault/internal/domain/share"
	apperrors "docvault/pkg/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const shareColumns = `id, token, file_id, grantee_id, permissions, kind, status,
	granted_on, expires_on`

type ShareRepository struct {
	pool *pgxpool.Pool
}

func NewShareRepository(db *DB) *ShareRepository {
	return &ShareRepository{pool: db.Pool}
}

func (r *ShareRepository) Create(ctx context.Context, input share.CreateShareInput) (*share.FileShare, error) {
	query := `
		INSERT INTO file_shares (token, file_id, grantee_id, permissions, kind, expires_on)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + shareColumns

	row := r.pool.QueryRow(ctx, query,
		input.Token, input.FileID, input.GranteeID, input.Permissions, input.Kind, input.ExpiresOn,
	)

	s, err := scanShare(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.Conflict(errDuplicateShareTokenMsg)
		}
		if isForeignKeyViolation(err) {
			return nil, apperrors.NotFound(errFileNotFoundMsg)
		}
		return nil, errFailedCreateShare(err)
	}

	return s, nil
}

func (r *ShareRepository) GetByID(ctx context.Context, id uuid.UUID) (*share.FileShare, error) {
	query := `SELECT ` + shareColumns + ` FROM file_shares WHERE id = $1`

	s, err := scanShare(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound(errShareNotFoundMsg)
		}
		return nil, errFailedGetShare(err)
	}

	return s, nil
}

func (r *ShareRepository) GetByToken(ctx context.Context, token string) (*share.FileShare, error) {
	query := `SELECT ` + shareColumns + ` FROM file_shares WHERE token = $1`

	s, err := scanShare(r.pool.QueryRow(ctx, query, token))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound(errShareNotFoundMsg)
		}
		return nil, errFailedGetShare(err)
	}

	return s, nil
}

func (r *ShareRepository) ListByFile(ctx context.Context, fileID uuid.UUID) ([]*share.FileShare, error) {
	query := `SELECT ` + shareColumns + ` FROM file_shares
		WHERE file_id = $1 ORDER BY granted_on DESC`

	rows, err := r.pool.Query(ctx, query, fileID)
	if err != nil {
		return nil, errFailedListShares(err)
	}
	defer rows.Close()

	var shares []*share.FileShare
	for rows.Next() {
		s, err := scanShare(rows)
		if err != nil {
			return nil, errFailedListShares(err)
		}
		shares = append(shares, s)
	}

	if err := rows.Err(); err != nil {
		return nil, errFailedListShares(err)
	}

	return shares, nil
}

func (r *ShareRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status share.Status) error {
	tag, err := r.pool.Exec(ctx, `UPDATE file_shares SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return errFailedUpdateShare(err)
	}

	if tag.RowsAffected() == 0 {
		return apperrors.NotFound(errShareNotFoundMsg)
	}

	return nil
}

func (r *ShareRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM file_shares WHERE id = $1`, id)
	if err != nil {
		return errFailedDeleteShare(err)
	}

	if tag.RowsAffected() == 0 {
		return apperrors.NotFound(errShareNotFoundMsg)
	}

	return nil
}

func scanShare(row pgx.Row) (*share.FileShare, error) {
	var s share.FileShare
	err := row.Scan(
		&s.ID, &s.Token, &s.FileID, &s.GranteeID, &s.Permissions, &s.Kind, &s.Status,
		&s.GrantedOn, &s.ExpiresOn,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
