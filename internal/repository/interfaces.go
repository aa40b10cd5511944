package repository

import (
	"context"

	"docvault/internal/domain/file"
	"docvault/internal/domain/hierarchy"
	"docvault/internal/domain/share"

	"github.com/google/uuid"
)

// Provider-side interfaces that concrete implementations must satisfy.

type FileRepository interface {
	Create(ctx context.Context, input file.CreateFileInput) (*file.File, error)
	GetByID(ctx context.Context, id uuid.UUID) (*file.File, error)
	List(ctx context.Context, filter file.ListFilesFilter) ([]*file.File, error)
	Update(ctx context.Context, id uuid.UUID, input file.UpdateFileInput) (*file.File, error)
	// UpdateActiveContent repoints the file row at the active version's blob.
	UpdateActiveContent(ctx context.Context, id uuid.UUID, storagePath string, sizeBytes int64) error
	// Delete removes the file row; version rows cascade with it.
	Delete(ctx context.Context, id uuid.UUID) error
}

type VersionRepository interface {
	// Create inserts a version numbered max(version_number)+1 for the file.
	// With input.Activate set, all sibling versions are deactivated and the
	// new one activated in the same transaction.
	Create(ctx context.Context, input file.CreateVersionInput) (*file.FileVersion, error)
	GetByID(ctx context.Context, id uuid.UUID) (*file.FileVersion, error)
	GetActive(ctx context.Context, fileID uuid.UUID) (*file.FileVersion, error)
	// ListByFile returns versions ordered by version_number descending.
	ListByFile(ctx context.Context, fileID uuid.UUID) ([]*file.FileVersion, error)
	// Restore deactivates every sibling and activates the target as one
	// indivisible operation; no reader may observe zero or two active
	// versions, even under concurrent restores.
	Restore(ctx context.Context, versionID uuid.UUID) error
	MarkFinal(ctx context.Context, versionID uuid.UUID) error
}

type ShareRepository interface {
	Create(ctx context.Context, input share.CreateShareInput) (*share.FileShare, error)
	GetByID(ctx context.Context, id uuid.UUID) (*share.FileShare, error)
	GetByToken(ctx context.Context, token string) (*share.FileShare, error)
	ListByFile(ctx context.Context, fileID uuid.UUID) ([]*share.FileShare, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status share.Status) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// FolderLookup resolves a file's containment context. Folder CRUD itself
// belongs to the surrounding hierarchy service.
type FolderLookup interface {
	GetByID(ctx context.Context, id uuid.UUID) (*hierarchy.Folder, error)
}
