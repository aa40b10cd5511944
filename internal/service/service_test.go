package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"docvault/internal/domain/access"
	"docvault/internal/domain/file"
	"docvault/internal/domain/hierarchy"
	"docvault/internal/domain/share"
	"docvault/internal/repository"
	"docvault/internal/repository/memory"
	"docvault/internal/search"
	"docvault/internal/storage/blob"
	apperrors "docvault/pkg/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testMaxUploadSize = 1 << 20

type fixture struct {
	svc     *FileService
	store   *memory.Store
	blobs   *blob.MemoryStore
	index   *search.MemoryIndex
	indexer *Indexer
	folder  hierarchy.Folder
	user    uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	return newFixtureWithIndex(t, search.NewMemoryIndex())
}

func newFixtureWithIndex(t *testing.T, index search.Index) *fixture {
	t.Helper()

	store := memory.NewStore()
	blobs := blob.NewMemoryStore()
	logger := zap.NewNop()
	indexer := NewIndexer(index, logger, 16)
	t.Cleanup(indexer.Close)

	user := uuid.New()
	folder := hierarchy.Folder{
		ID:          uuid.New(),
		Name:        "quarterly",
		SpaceName:   "finance",
		ProjectName: "reporting",
		Users:       access.List{user},
	}
	store.AddFolder(folder)

	svc := NewFileService(
		store.Files(), store.Versions(), store.Shares(), store,
		blobs, index, indexer, logger, testMaxUploadSize,
	)

	f := &fixture{
		svc: svc, store: store, blobs: blobs, indexer: indexer,
		folder: folder, user: user,
	}
	if mem, ok := index.(*search.MemoryIndex); ok {
		f.index = mem
	}
	return f
}

func (fx *fixture) upload(t *testing.T, name string, data []byte) *file.File {
	t.Helper()

	f, err := fx.svc.Upload(context.Background(), fx.user, UploadInput{
		FolderID: fx.folder.ID,
		Filename: name,
		MimeType: "application/pdf",
		Data:     data,
	})
	require.NoError(t, err)
	return f
}

func (fx *fixture) activeCount(t *testing.T, fileID uuid.UUID) int {
	t.Helper()

	versions, err := fx.store.Versions().ListByFile(context.Background(), fileID)
	require.NoError(t, err)

	active := 0
	for _, v := range versions {
		if v.IsActive {
			active++
		}
	}
	return active
}

func TestUpload_RoundTrip(t *testing.T) {
	fx := newFixture(t)
	payload := []byte("round trip payload")

	f := fx.upload(t, "notes.txt", payload)
	assert.Equal(t, int64(len(payload)), f.SizeBytes)
	assert.True(t, f.Users.Contains(fx.user))

	got, data, err := fx.svc.DownloadActive(context.Background(), f.ID)
	require.NoError(t, err)
	assert.Equal(t, payload, data)
	assert.Equal(t, f.ID, got.ID)

	assert.Equal(t, 1, fx.activeCount(t, f.ID))
}

func TestUpload_EncryptedWithoutPasswordHasNoSideEffects(t *testing.T) {
	fx := newFixture(t)

	_, err := fx.svc.Upload(context.Background(), fx.user, UploadInput{
		FolderID:  fx.folder.ID,
		Filename:  "secret.txt",
		Data:      []byte("classified"),
		Encrypted: true,
	})
	require.ErrorIs(t, err, apperrors.ErrValidation)

	assert.Equal(t, 0, fx.blobs.Len())
	files, err := fx.store.Files().List(context.Background(), file.ListFilesFilter{FolderID: fx.folder.ID})
	require.NoError(t, err)
	assert.Empty(t, files)

	fx.indexer.Close()
	assert.Equal(t, 0, fx.index.Len())
}

type failingVersionRepo struct {
	repository.VersionRepository
}

func (failingVersionRepo) Create(context.Context, file.CreateVersionInput) (*file.FileVersion, error) {
	return nil, errors.New("version insert failed")
}

func TestUpload_VersionCreateFailureLeavesNoFileRow(t *testing.T) {
	store := memory.NewStore()
	blobs := blob.NewMemoryStore()
	index := search.NewMemoryIndex()
	logger := zap.NewNop()
	indexer := NewIndexer(index, logger, 16)
	t.Cleanup(indexer.Close)

	user := uuid.New()
	folder := hierarchy.Folder{ID: uuid.New(), Name: "inbox", Users: access.List{user}}
	store.AddFolder(folder)

	svc := NewFileService(
		store.Files(), failingVersionRepo{store.Versions()}, store.Shares(), store,
		blobs, index, indexer, logger, testMaxUploadSize,
	)

	ctx := context.Background()
	_, err := svc.Upload(ctx, user, UploadInput{
		FolderID: folder.ID,
		Filename: "halfway.txt",
		Data:     []byte("payload"),
	})
	require.Error(t, err)

	// The failed upload must not leave a versionless file row behind.
	files, listErr := svc.ListByFolder(ctx, user, file.ListFilesFilter{FolderID: folder.ID})
	require.NoError(t, listErr)
	assert.Empty(t, files)
}

func TestUpload_UnknownFolder(t *testing.T) {
	fx := newFixture(t)

	_, err := fx.svc.Upload(context.Background(), fx.user, UploadInput{
		FolderID: uuid.New(),
		Filename: "lost.txt",
		Data:     []byte("x"),
	})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestUpload_IndexesDocument(t *testing.T) {
	fx := newFixture(t)

	f := fx.upload(t, "roadmap.txt", []byte("plain bytes"))
	fx.indexer.Close()

	doc, ok := fx.index.Get(f.ID)
	require.True(t, ok)
	assert.Equal(t, "finance", doc.SpaceName)
	assert.Equal(t, "quarterly", doc.FolderName)
	assert.Equal(t, "reporting", doc.ProjectName)
	assert.Equal(t, "roadmap.txt", doc.Filename)
	assert.Equal(t, f.StoragePath, doc.FilePath)
}

type failingIndex struct{}

func (failingIndex) EnsureSchema(context.Context) error { return nil }
func (failingIndex) Upsert(context.Context, uuid.UUID, search.Document) error {
	return errors.New("engine unreachable")
}
func (failingIndex) Delete(context.Context, uuid.UUID) error {
	return errors.New("engine unreachable")
}
func (failingIndex) Search(context.Context, string) ([]search.Hit, error) {
	return nil, errors.New("engine unreachable")
}

func TestUpload_IndexFailureDoesNotRegressPrimary(t *testing.T) {
	fx := newFixtureWithIndex(t, failingIndex{})
	payload := []byte("still retrievable")

	f := fx.upload(t, "resilient.txt", payload)

	_, data, err := fx.svc.DownloadActive(context.Background(), f.ID)
	require.NoError(t, err)
	assert.Equal(t, payload, data)

	files, err := fx.svc.ListByFolder(context.Background(), fx.user, file.ListFilesFilter{FolderID: fx.folder.ID})
	require.NoError(t, err)
	assert.Len(t, files, 1)

	results, err := fx.svc.Search(context.Background(), fx.user, "resilient")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestVersionLifecycleScenario(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	f := fx.upload(t, "report.pdf", []byte("12345"))
	assert.Equal(t, int64(5), f.SizeBytes)

	versions, err := fx.svc.ListVersions(ctx, f.ID)
	require.NoError(t, err)
	require.Len(t, versions, 1)
	assert.Equal(t, 1, versions[0].VersionNumber)
	assert.True(t, versions[0].IsActive)

	v2, err := fx.svc.UploadVersion(ctx, fx.user, UploadVersionInput{
		FileID: f.ID,
		Data:   []byte("12345678"),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, v2.VersionNumber)
	assert.False(t, v2.IsActive)

	active, err := fx.store.Versions().GetActive(ctx, f.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, active.VersionNumber)

	require.NoError(t, fx.svc.RestoreVersion(ctx, fx.user, v2.ID))

	active, err = fx.store.Versions().GetActive(ctx, f.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, active.VersionNumber)
	assert.Equal(t, 1, fx.activeCount(t, f.ID))

	got, err := fx.svc.GetFile(ctx, f.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(8), got.SizeBytes)

	_, data, err := fx.svc.DownloadActive(ctx, f.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("12345678"), data)

	require.NoError(t, fx.svc.Delete(ctx, fx.user, f.ID))
	assert.Equal(t, 0, fx.blobs.Len())

	_, _, err = fx.svc.DownloadVersion(ctx, v2.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	fx.indexer.Close()
	assert.Equal(t, 0, fx.index.Len())
}

func TestUploadVersion_WithActivateSwapsContent(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	f := fx.upload(t, "draft.txt", []byte("v1"))

	v2, err := fx.svc.UploadVersion(ctx, fx.user, UploadVersionInput{
		FileID:   f.ID,
		Data:     []byte("v2 content"),
		Activate: true,
	})
	require.NoError(t, err)
	assert.True(t, v2.IsActive)
	assert.Equal(t, 1, fx.activeCount(t, f.ID))

	_, data, err := fx.svc.DownloadActive(ctx, f.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("v2 content"), data)
}

func TestUploadVersion_UnknownFile(t *testing.T) {
	fx := newFixture(t)

	_, err := fx.svc.UploadVersion(context.Background(), fx.user, UploadVersionInput{
		FileID: uuid.New(),
		Data:   []byte("x"),
	})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestDownloadActive_BlobMissingIsDistinctFromNotFound(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	f := fx.upload(t, "gone.txt", []byte("bytes"))
	require.NoError(t, fx.blobs.Delete(ctx, f.StoragePath))

	_, _, err := fx.svc.DownloadActive(ctx, f.ID)
	assert.ErrorIs(t, err, apperrors.ErrBlobMissing)
	assert.NotErrorIs(t, err, apperrors.ErrNotFound)

	_, _, err = fx.svc.DownloadActive(ctx, uuid.New())
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestUpdate_ForbiddenForNonMember(t *testing.T) {
	fx := newFixture(t)
	stranger := uuid.New()

	f := fx.upload(t, "mine.txt", []byte("x"))

	newName := "yours.txt"
	_, err := fx.svc.Update(context.Background(), stranger, f.ID, UpdateFileRequest{Filename: &newName})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestUpdate_EncryptionRequiresPassword(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	f := fx.upload(t, "plain.txt", []byte("x"))

	enable := true
	_, err := fx.svc.Update(ctx, fx.user, f.ID, UpdateFileRequest{Encrypted: &enable})
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	password := "correct horse battery"
	updated, err := fx.svc.Update(ctx, fx.user, f.ID, UpdateFileRequest{Encrypted: &enable, Password: &password})
	require.NoError(t, err)
	assert.True(t, updated.Encrypted)
	assert.NotNil(t, updated.PasswordHash)
}

func TestDelete_ForbiddenLeavesFileIntact(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	stranger := uuid.New()

	f := fx.upload(t, "keep.txt", []byte("payload"))

	err := fx.svc.Delete(ctx, stranger, f.ID)
	assert.ErrorIs(t, err, apperrors.ErrForbidden)

	_, data, err := fx.svc.DownloadActive(ctx, f.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("payload"), data)
	assert.Equal(t, 1, fx.activeCount(t, f.ID))
}

func TestListByFolder_ExcludesNonMemberFiles(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	other := uuid.New()

	fx.upload(t, "visible.txt", []byte("a"))

	_, err := fx.svc.Upload(ctx, other, UploadInput{
		FolderID: fx.folder.ID,
		Filename: "private.txt",
		Data:     []byte("b"),
	})
	require.NoError(t, err)

	files, err := fx.svc.ListByFolder(ctx, fx.user, file.ListFilesFilter{FolderID: fx.folder.ID})
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, "visible.txt", files[0].Filename)
}

func TestSearch_FiltersByMembershipAndSkipsStaleHits(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	other := uuid.New()

	mine := fx.upload(t, "alpha-report.txt", []byte("alpha"))

	_, err := fx.svc.Upload(ctx, other, UploadInput{
		FolderID: fx.folder.ID,
		Filename: "alpha-private.txt",
		Data:     []byte("alpha"),
	})
	require.NoError(t, err)

	// A hit whose metadata row is gone is a stale index entry.
	stale := fx.upload(t, "alpha-stale.txt", []byte("alpha"))
	require.NoError(t, fx.store.Files().Delete(ctx, stale.ID))

	fx.indexer.Close()

	results, err := fx.svc.Search(ctx, fx.user, "alpha")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, mine.ID, results[0].File.ID)
}

func TestShares_LifecycleAndLazyExpiry(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	f := fx.upload(t, "shared.txt", []byte("shared payload"))

	sh, err := fx.svc.GrantShare(ctx, fx.user, GrantShareInput{
		FileID:    f.ID,
		GranteeID: uuid.New(),
		Kind:      share.KindLink,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, sh.Token)
	assert.Equal(t, share.PermissionRead, sh.Permissions)

	_, data, err := fx.svc.DownloadShared(ctx, sh.Token)
	require.NoError(t, err)
	assert.Equal(t, []byte("shared payload"), data)

	require.NoError(t, fx.svc.RevokeShare(ctx, fx.user, sh.ID))
	_, _, err = fx.svc.ResolveShare(ctx, sh.Token)
	assert.ErrorIs(t, err, apperrors.ErrRevoked)

	expires := time.Now().Add(time.Hour)
	timed, err := fx.svc.GrantShare(ctx, fx.user, GrantShareInput{
		FileID:    f.ID,
		GranteeID: uuid.New(),
		ExpiresOn: &expires,
	})
	require.NoError(t, err)

	fx.svc.now = func() time.Time { return expires.Add(time.Minute) }

	_, _, err = fx.svc.ResolveShare(ctx, timed.Token)
	assert.ErrorIs(t, err, apperrors.ErrExpired)

	// Lazy expiry persists the status flip.
	got, err := fx.store.Shares().GetByID(ctx, timed.ID)
	require.NoError(t, err)
	assert.Equal(t, share.StatusExpired, got.Status)
}

func TestGrantShare_ForbiddenForNonMember(t *testing.T) {
	fx := newFixture(t)

	f := fx.upload(t, "locked.txt", []byte("x"))

	_, err := fx.svc.GrantShare(context.Background(), uuid.New(), GrantShareInput{
		FileID:    f.ID,
		GranteeID: uuid.New(),
	})
	assert.ErrorIs(t, err, apperrors.ErrForbidden)
}

func TestPreview_GatedByMimeType(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	pdf := fx.upload(t, "doc.pdf", []byte("%PDF-fake"))
	_, data, err := fx.svc.Preview(ctx, pdf.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-fake"), data)

	f, err := fx.svc.Upload(ctx, fx.user, UploadInput{
		FolderID: fx.folder.ID,
		Filename: "archive.zip",
		MimeType: "application/zip",
		Data:     []byte("PK"),
	})
	require.NoError(t, err)

	_, _, err = fx.svc.Preview(ctx, f.ID)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}
