// Package service orchestrates blob storage, version ledger, search index,
// and share grants behind the operations the transport layer exposes.
package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"path"
	"strings"
	"time"

	"docvault/internal/domain/access"
	"docvault/internal/domain/file"
	"docvault/internal/domain/share"
	"docvault/internal/extract"
	"docvault/internal/repository"
	"docvault/internal/search"
	"docvault/internal/storage/blob"
	apperrors "docvault/pkg/errors"
	"docvault/pkg/validator"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	shareTokenBytes = 24

	errBlobMissingMsg           = "stored content missing for existing metadata"
	errNotFileMemberMsg         = "caller is not in the file's access list"
	errPasswordRequiredMsg      = "encryption requires a password"
	errPreviewUnsupportedMsg    = "file type does not support preview"
	errShareExpiredMsg          = "share link expired"
	errShareRevokedMsg          = "share link revoked"
	errFailedHashPasswordMsg    = "failed to hash password"
	errFailedGenerateTokenMsg   = "failed to generate share token"
	errFailedStoreBlobMsg       = "failed to store file content"
	errFailedCreateVersionMsg   = "failed to create file version"
	errFailedActivateVersionMsg = "failed to activate file version"
)

// previewableTypes are the MIME types the browser can render inline.
var previewableTypes = map[string]struct{}{
	"image/jpeg":      {},
	"image/png":       {},
	"image/gif":       {},
	"application/pdf": {},
}

type FileService struct {
	files    repository.FileRepository
	versions repository.VersionRepository
	shares   repository.ShareRepository
	folders  repository.FolderLookup
	blobs    blob.Store
	index    search.Index
	indexer  IndexDispatcher
	logger   *zap.Logger

	maxUploadSize int64
	now           func() time.Time
}

func NewFileService(
	files repository.FileRepository,
	versions repository.VersionRepository,
	shares repository.ShareRepository,
	folders repository.FolderLookup,
	blobs blob.Store,
	index search.Index,
	indexer IndexDispatcher,
	logger *zap.Logger,
	maxUploadSize int64,
) *FileService {
	return &FileService{
		files:         files,
		versions:      versions,
		shares:        shares,
		folders:       folders,
		blobs:         blobs,
		index:         index,
		indexer:       indexer,
		logger:        logger,
		maxUploadSize: maxUploadSize,
		now:           time.Now,
	}
}

type UploadInput struct {
	FolderID    uuid.UUID
	Filename    string
	MimeType    string
	Data        []byte
	Encrypted   bool
	Password    string
	Description string
	Users       access.List
}

type UploadVersionInput struct {
	FileID   uuid.UUID
	Filename string
	Data     []byte
	IsFinal  bool
	Activate bool
}

type UpdateFileRequest struct {
	Filename    *string
	Description *string
	Encrypted   *bool
	Password    *string
}

type GrantShareInput struct {
	FileID      uuid.UUID
	GranteeID   uuid.UUID
	Permissions share.Permission
	Kind        share.Kind
	ExpiresOn   *time.Time
}

type SearchResult struct {
	File  *file.File `json:"file"`
	Score float64    `json:"score"`
}

// Upload validates input, writes the blob, creates the metadata row, and
// records version 1 as active. Metadata creation is the commit point: a blob
// written before a failed metadata insert is an orphan, never a dangling row.
func (s *FileService) Upload(ctx context.Context, callerID uuid.UUID, input UploadInput) (*file.File, error) {
	if err := validator.FileName(input.Filename); err != nil {
		return nil, apperrors.ValidationFailed(err.Error())
	}
	if err := validator.FileSize(int64(len(input.Data)), s.maxUploadSize); err != nil {
		return nil, apperrors.ValidationFailed(err.Error())
	}

	var passwordHash *string
	if input.Encrypted {
		if input.Password == "" {
			return nil, apperrors.ValidationFailed(errPasswordRequiredMsg)
		}
		if err := validator.Password(input.Password); err != nil {
			return nil, apperrors.ValidationFailed(err.Error())
		}
		hash, err := hashPassword(input.Password)
		if err != nil {
			return nil, apperrors.InternalServer(errFailedHashPasswordMsg, err)
		}
		passwordHash = &hash
	}

	folder, err := s.folders.GetByID(ctx, input.FolderID)
	if err != nil {
		return nil, err
	}

	storagePath, err := s.blobs.Put(ctx, folder.ID, input.Filename, input.Data)
	if err != nil {
		return nil, apperrors.InternalServer(errFailedStoreBlobMsg, err)
	}

	users := input.Users.Clone().Add(callerID)

	created, err := s.files.Create(ctx, file.CreateFileInput{
		Filename:     input.Filename,
		MimeType:     input.MimeType,
		SizeBytes:    int64(len(input.Data)),
		StoragePath:  storagePath,
		FolderID:     folder.ID,
		Encrypted:    input.Encrypted,
		PasswordHash: passwordHash,
		Description:  input.Description,
		CreatedBy:    callerID,
		Users:        users,
	})
	if err != nil {
		s.logger.Warn("orphan blob left after failed metadata create",
			zap.String("storage_path", storagePath), zap.Error(err))
		return nil, err
	}

	if _, err := s.versions.Create(ctx, file.CreateVersionInput{
		FileID:      created.ID,
		Type:        contentTypeTag(input.Filename),
		StoragePath: storagePath,
		SizeBytes:   int64(len(input.Data)),
		UploadedBy:  callerID,
		Activate:    true,
	}); err != nil {
		// A file row with no versions must not outlive a failed upload.
		if delErr := s.files.Delete(ctx, created.ID); delErr != nil {
			s.logger.Warn("failed to remove file row after version create failure",
				zap.String("file_id", created.ID.String()), zap.Error(delErr))
		}
		return nil, apperrors.InternalServer(errFailedCreateVersionMsg, err)
	}

	s.enqueueIndex(created, folder.Name, folder.SpaceName, folder.ProjectName, input.Data)

	return created, nil
}

// UploadVersion appends a new content snapshot. Without Activate the version
// is an inactive draft and the served content does not change.
func (s *FileService) UploadVersion(ctx context.Context, callerID uuid.UUID, input UploadVersionInput) (*file.FileVersion, error) {
	if err := validator.FileSize(int64(len(input.Data)), s.maxUploadSize); err != nil {
		return nil, apperrors.ValidationFailed(err.Error())
	}

	f, err := s.files.GetByID(ctx, input.FileID)
	if err != nil {
		return nil, err
	}

	name := input.Filename
	if name == "" {
		name = f.Filename
	}

	storagePath, err := s.blobs.Put(ctx, f.FolderID, name, input.Data)
	if err != nil {
		return nil, apperrors.InternalServer(errFailedStoreBlobMsg, err)
	}

	version, err := s.versions.Create(ctx, file.CreateVersionInput{
		FileID:      f.ID,
		Type:        contentTypeTag(name),
		StoragePath: storagePath,
		SizeBytes:   int64(len(input.Data)),
		UploadedBy:  callerID,
		IsFinal:     input.IsFinal,
		Activate:    input.Activate,
	})
	if err != nil {
		return nil, err
	}

	if input.Activate {
		if err := s.files.UpdateActiveContent(ctx, f.ID, storagePath, version.SizeBytes); err != nil {
			return nil, apperrors.InternalServer(errFailedActivateVersionMsg, err)
		}
		s.reindex(ctx, f.ID, input.Data)
	}

	return version, nil
}

// RestoreVersion moves the active flag to the target version and repoints the
// file row at its blob.
func (s *FileService) RestoreVersion(ctx context.Context, callerID uuid.UUID, versionID uuid.UUID) error {
	version, err := s.versions.GetByID(ctx, versionID)
	if err != nil {
		return err
	}

	if err := s.versions.Restore(ctx, versionID); err != nil {
		return err
	}

	if err := s.files.UpdateActiveContent(ctx, version.FileID, version.StoragePath, version.SizeBytes); err != nil {
		return apperrors.InternalServer(errFailedActivateVersionMsg, err)
	}

	s.reindex(ctx, version.FileID, nil)
	return nil
}

func (s *FileService) MarkVersionFinal(ctx context.Context, versionID uuid.UUID) error {
	return s.versions.MarkFinal(ctx, versionID)
}

func (s *FileService) ListVersions(ctx context.Context, fileID uuid.UUID) ([]*file.FileVersion, error) {
	if _, err := s.files.GetByID(ctx, fileID); err != nil {
		return nil, err
	}
	return s.versions.ListByFile(ctx, fileID)
}

func (s *FileService) GetFile(ctx context.Context, fileID uuid.UUID) (*file.File, error) {
	return s.files.GetByID(ctx, fileID)
}

// ListByFolder returns the folder's files visible to the caller. Files the
// caller is not a member of are silently excluded, not rejected.
func (s *FileService) ListByFolder(ctx context.Context, callerID uuid.UUID, filter file.ListFilesFilter) ([]*file.File, error) {
	if _, err := s.folders.GetByID(ctx, filter.FolderID); err != nil {
		return nil, err
	}

	files, err := s.files.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	visible := files[:0]
	for _, f := range files {
		if isMember(f, callerID) {
			visible = append(visible, f)
		}
	}
	return visible, nil
}

// DownloadActive returns the bytes of the file's active version. A metadata
// row whose blob is gone reports BlobMissing, never NotFound.
func (s *FileService) DownloadActive(ctx context.Context, fileID uuid.UUID) (*file.File, []byte, error) {
	f, err := s.files.GetByID(ctx, fileID)
	if err != nil {
		return nil, nil, err
	}

	data, err := s.blobs.Get(ctx, f.StoragePath)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil, apperrors.BlobMissing(errBlobMissingMsg)
		}
		return nil, nil, err
	}

	return f, data, nil
}

func (s *FileService) DownloadVersion(ctx context.Context, versionID uuid.UUID) (*file.FileVersion, []byte, error) {
	version, err := s.versions.GetByID(ctx, versionID)
	if err != nil {
		return nil, nil, err
	}

	data, err := s.blobs.Get(ctx, version.StoragePath)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil, apperrors.BlobMissing(errBlobMissingMsg)
		}
		return nil, nil, err
	}

	return version, data, nil
}

// Preview serves the active content of browser-renderable types only.
func (s *FileService) Preview(ctx context.Context, fileID uuid.UUID) (*file.File, []byte, error) {
	f, err := s.files.GetByID(ctx, fileID)
	if err != nil {
		return nil, nil, err
	}

	if _, ok := previewableTypes[f.MimeType]; !ok {
		return nil, nil, apperrors.ValidationFailed(errPreviewUnsupportedMsg)
	}

	data, err := s.blobs.Get(ctx, f.StoragePath)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, nil, apperrors.BlobMissing(errBlobMissingMsg)
		}
		return nil, nil, err
	}

	return f, data, nil
}

// Update applies a partial metadata edit. Enabling encryption without a
// password fails unless a hash is already stored.
func (s *FileService) Update(ctx context.Context, callerID uuid.UUID, fileID uuid.UUID, patch UpdateFileRequest) (*file.File, error) {
	f, err := s.files.GetByID(ctx, fileID)
	if err != nil {
		return nil, err
	}
	if !isMember(f, callerID) {
		return nil, apperrors.Forbidden(errNotFileMemberMsg)
	}

	if patch.Filename != nil {
		if err := validator.FileName(*patch.Filename); err != nil {
			return nil, apperrors.ValidationFailed(err.Error())
		}
	}

	input := file.UpdateFileInput{
		Filename:    patch.Filename,
		Description: patch.Description,
		Encrypted:   patch.Encrypted,
	}

	if patch.Encrypted != nil && *patch.Encrypted {
		if patch.Password == nil && f.PasswordHash == nil {
			return nil, apperrors.ValidationFailed(errPasswordRequiredMsg)
		}
	}
	if patch.Password != nil {
		if err := validator.Password(*patch.Password); err != nil {
			return nil, apperrors.ValidationFailed(err.Error())
		}
		hash, err := hashPassword(*patch.Password)
		if err != nil {
			return nil, apperrors.InternalServer(errFailedHashPasswordMsg, err)
		}
		input.PasswordHash = &hash
	}

	updated, err := s.files.Update(ctx, fileID, input)
	if err != nil {
		return nil, err
	}

	if patch.Filename != nil {
		s.reindex(ctx, updated.ID, nil)
	}

	return updated, nil
}

// Delete removes the file and everything hanging off it. Authorization
// precedes all destructive effects; index removal is best effort.
func (s *FileService) Delete(ctx context.Context, callerID uuid.UUID, fileID uuid.UUID) error {
	f, err := s.files.GetByID(ctx, fileID)
	if err != nil {
		return err
	}
	if !isMember(f, callerID) {
		return apperrors.Forbidden(errNotFileMemberMsg)
	}

	versions, err := s.versions.ListByFile(ctx, fileID)
	if err != nil {
		return err
	}

	for _, v := range versions {
		if err := s.blobs.Delete(ctx, v.StoragePath); err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			s.logger.Warn("failed to delete version blob",
				zap.String("storage_path", v.StoragePath), zap.Error(err))
		}
	}

	if err := s.files.Delete(ctx, fileID); err != nil {
		return err
	}

	s.indexer.EnqueueDelete(fileID)
	return nil
}

// Search queries the index and filters hits by caller membership. Hits whose
// metadata row is already gone are stale index entries and are skipped. An
// unreachable engine degrades to empty results, never to a failed request.
func (s *FileService) Search(ctx context.Context, callerID uuid.UUID, query string) ([]SearchResult, error) {
	hits, err := s.index.Search(ctx, query)
	if err != nil {
		s.logger.Warn("search query failed", zap.String("query", query), zap.Error(err))
		return []SearchResult{}, nil
	}

	results := make([]SearchResult, 0, len(hits))
	for _, hit := range hits {
		f, err := s.files.GetByID(ctx, hit.FileID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				continue
			}
			return nil, err
		}
		if !isMember(f, callerID) {
			continue
		}
		results = append(results, SearchResult{File: f, Score: hit.Score})
	}

	return results, nil
}

// GrantShare mints a capability token for the file.
func (s *FileService) GrantShare(ctx context.Context, callerID uuid.UUID, input GrantShareInput) (*share.FileShare, error) {
	f, err := s.files.GetByID(ctx, input.FileID)
	if err != nil {
		return nil, err
	}
	if !isMember(f, callerID) {
		return nil, apperrors.Forbidden(errNotFileMemberMsg)
	}

	token, err := generateShareToken()
	if err != nil {
		return nil, apperrors.InternalServer(errFailedGenerateTokenMsg, err)
	}

	permissions := input.Permissions
	if permissions == "" {
		permissions = share.PermissionRead
	}
	kind := input.Kind
	if kind == "" {
		kind = share.KindDirect
	}

	return s.shares.Create(ctx, share.CreateShareInput{
		Token:       token,
		FileID:      input.FileID,
		GranteeID:   input.GranteeID,
		Permissions: permissions,
		Kind:        kind,
		ExpiresOn:   input.ExpiresOn,
	})
}

func (s *FileService) RevokeShare(ctx context.Context, callerID uuid.UUID, shareID uuid.UUID) error {
	sh, err := s.shares.GetByID(ctx, shareID)
	if err != nil {
		return err
	}

	f, err := s.files.GetByID(ctx, sh.FileID)
	if err != nil {
		return err
	}
	if !isMember(f, callerID) {
		return apperrors.Forbidden(errNotFileMemberMsg)
	}

	return s.shares.UpdateStatus(ctx, shareID, share.StatusRevoked)
}

func (s *FileService) ListShares(ctx context.Context, callerID uuid.UUID, fileID uuid.UUID) ([]*share.FileShare, error) {
	f, err := s.files.GetByID(ctx, fileID)
	if err != nil {
		return nil, err
	}
	if !isMember(f, callerID) {
		return nil, apperrors.Forbidden(errNotFileMemberMsg)
	}

	return s.shares.ListByFile(ctx, fileID)
}

// ResolveShare authorizes access through a share token. Status and expiry
// are both checked here, at access time; a past-due share is lazily flipped
// to expired.
func (s *FileService) ResolveShare(ctx context.Context, token string) (*share.FileShare, *file.File, error) {
	sh, err := s.shares.GetByToken(ctx, token)
	if err != nil {
		return nil, nil, err
	}

	if sh.Status == share.StatusRevoked {
		return nil, nil, apperrors.Revoked(errShareRevokedMsg)
	}

	if sh.Status == share.StatusExpired || sh.ExpiredAt(s.now()) {
		if sh.Status != share.StatusExpired {
			if err := s.shares.UpdateStatus(ctx, sh.ID, share.StatusExpired); err != nil {
				s.logger.Warn("failed to mark share expired",
					zap.String("share_id", sh.ID.String()), zap.Error(err))
			}
		}
		return nil, nil, apperrors.Expired(errShareExpiredMsg)
	}

	f, err := s.files.GetByID(ctx, sh.FileID)
	if err != nil {
		return nil, nil, err
	}

	return sh, f, nil
}

// DownloadShared streams the active content behind a usable share token.
func (s *FileService) DownloadShared(ctx context.Context, token string) (*file.File, []byte, error) {
	_, f, err := s.ResolveShare(ctx, token)
	if err != nil {
		return nil, nil, err
	}
	return s.DownloadActive(ctx, f.ID)
}

// enqueueIndex builds the index document from already-known context and hands
// it to the background dispatcher. Extraction happens here, before handoff,
// so the worker never re-reads the blob.
func (s *FileService) enqueueIndex(f *file.File, folderName, spaceName, projectName string, data []byte) {
	s.indexer.EnqueueUpsert(f.ID, search.Document{
		SpaceName:   spaceName,
		FolderName:  folderName,
		ProjectName: projectName,
		Filename:    f.Filename,
		Content:     extract.Text(data, path.Ext(f.Filename)),
		FilePath:    f.StoragePath,
		CreatedAt:   f.CreatedAt,
	})
}

// reindex rebuilds the index entry from current metadata. With data nil the
// blob is re-read best effort; any failure degrades to metadata-only fields.
func (s *FileService) reindex(ctx context.Context, fileID uuid.UUID, data []byte) {
	f, err := s.files.GetByID(ctx, fileID)
	if err != nil {
		s.logger.Warn("reindex skipped, file lookup failed",
			zap.String("file_id", fileID.String()), zap.Error(err))
		return
	}

	folder, err := s.folders.GetByID(ctx, f.FolderID)
	if err != nil {
		s.logger.Warn("reindex skipped, folder lookup failed",
			zap.String("folder_id", f.FolderID.String()), zap.Error(err))
		return
	}

	if data == nil {
		if blobData, err := s.blobs.Get(ctx, f.StoragePath); err == nil {
			data = blobData
		}
	}

	s.enqueueIndex(f, folder.Name, folder.SpaceName, folder.ProjectName, data)
}

func isMember(f *file.File, callerID uuid.UUID) bool {
	return f.CreatedBy == callerID || f.Users.Contains(callerID)
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func generateShareToken() (string, error) {
	buf := make([]byte, shareTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func contentTypeTag(name string) string {
	ext := strings.TrimPrefix(strings.ToLower(path.Ext(name)), ".")
	if ext == "" {
		return "bin"
	}
	return ext
}
