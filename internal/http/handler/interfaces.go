package handler

import (
	"context"

	"docvault/internal/domain/file"
	"docvault/internal/domain/share"
	"docvault/internal/service"

	"github.com/google/uuid"
)

// Consumer-side interfaces defined by handlers; each lists only the methods
// the handler actually calls.

type FileManager interface {
	Upload(ctx context.Context, callerID uuid.UUID, input service.UploadInput) (*file.File, error)
	GetFile(ctx context.Context, fileID uuid.UUID) (*file.File, error)
	ListByFolder(ctx context.Context, callerID uuid.UUID, filter file.ListFilesFilter) ([]*file.File, error)
	Update(ctx context.Context, callerID uuid.UUID, fileID uuid.UUID, patch service.UpdateFileRequest) (*file.File, error)
	Delete(ctx context.Context, callerID uuid.UUID, fileID uuid.UUID) error
	DownloadActive(ctx context.Context, fileID uuid.UUID) (*file.File, []byte, error)
	Preview(ctx context.Context, fileID uuid.UUID) (*file.File, []byte, error)
}

type VersionManager interface {
	UploadVersion(ctx context.Context, callerID uuid.UUID, input service.UploadVersionInput) (*file.FileVersion, error)
	ListVersions(ctx context.Context, fileID uuid.UUID) ([]*file.FileVersion, error)
	RestoreVersion(ctx context.Context, callerID uuid.UUID, versionID uuid.UUID) error
	MarkVersionFinal(ctx context.Context, versionID uuid.UUID) error
	DownloadVersion(ctx context.Context, versionID uuid.UUID) (*file.FileVersion, []byte, error)
}

type ShareManager interface {
	GrantShare(ctx context.Context, callerID uuid.UUID, input service.GrantShareInput) (*share.FileShare, error)
	ListShares(ctx context.Context, callerID uuid.UUID, fileID uuid.UUID) ([]*share.FileShare, error)
	RevokeShare(ctx context.Context, callerID uuid.UUID, shareID uuid.UUID) error
	DownloadShared(ctx context.Context, token string) (*file.File, []byte, error)
}

type Searcher interface {
	Search(ctx context.Context, callerID uuid.UUID, query string) ([]service.SearchResult, error)
}
