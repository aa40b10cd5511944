// Package memory holds an in-process implementation of the repository
// interfaces. It backs unit tests and local development without Postgres.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"docvault/internal/domain/file"
	"docvault/internal/domain/hierarchy"
	"docvault/internal/domain/share"
	apperrors "docvault/pkg/errors"

	"github.com/google/uuid"
)

const (
	errFileNotFoundMsg    = "file not found"
	errVersionNotFoundMsg = "file version not found"
	errShareNotFoundMsg   = "file share not found"
	errFolderNotFoundMsg  = "folder not found"

	errDuplicateStoragePathMsg = "storage path already in use"
	errDuplicateShareTokenMsg  = "share token already in use"
)

// Store keeps all records behind a single mutex, which makes the multi-row
// invariants (one active version per file) trivially atomic.
type Store struct {
	mu       sync.Mutex
	folders  map[uuid.UUID]hierarchy.Folder
	files    map[uuid.UUID]file.File
	versions map[uuid.UUID]file.FileVersion
	shares   map[uuid.UUID]share.FileShare
}

func NewStore() *Store {
	return &Store{
		folders:  make(map[uuid.UUID]hierarchy.Folder),
		files:    make(map[uuid.UUID]file.File),
		versions: make(map[uuid.UUID]file.FileVersion),
		shares:   make(map[uuid.UUID]share.FileShare),
	}
}

// AddFolder seeds a folder row. Tests use it in place of the hierarchy
// service that owns folder CRUD in production.
func (s *Store) AddFolder(f hierarchy.Folder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	s.folders[f.ID] = f
}

func (s *Store) GetByID(ctx context.Context, id uuid.UUID) (*hierarchy.Folder, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.folders[id]
	if !ok {
		return nil, apperrors.NotFound(errFolderNotFoundMsg)
	}
	out := f
	out.Users = f.Users.Clone()
	return &out, nil
}

// FileStore implements repository.FileRepository over the shared Store.
type FileStore struct{ *Store }

// VersionStore implements repository.VersionRepository over the shared Store.
type VersionStore struct{ *Store }

// ShareStore implements repository.ShareRepository over the shared Store.
type ShareStore struct{ *Store }

func (s *Store) Files() *FileStore       { return &FileStore{s} }
func (s *Store) Versions() *VersionStore { return &VersionStore{s} }
func (s *Store) Shares() *ShareStore     { return &ShareStore{s} }

func (s *FileStore) Create(_ context.Context, input file.CreateFileInput) (*file.File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.folders[input.FolderID]; !ok {
		return nil, apperrors.NotFound(errFolderNotFoundMsg)
	}
	for _, existing := range s.files {
		if existing.StoragePath == input.StoragePath {
			return nil, apperrors.Conflict(errDuplicateStoragePathMsg)
		}
	}

	now := time.Now()
	f := file.File{
		ID:           uuid.New(),
		Filename:     input.Filename,
		MimeType:     input.MimeType,
		SizeBytes:    input.SizeBytes,
		StoragePath:  input.StoragePath,
		FolderID:     input.FolderID,
		Encrypted:    input.Encrypted,
		PasswordHash: input.PasswordHash,
		Description:  input.Description,
		CreatedBy:    input.CreatedBy,
		Users:        input.Users.Clone(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	s.files[f.ID] = f

	out := f
	out.Users = f.Users.Clone()
	return &out, nil
}

func (s *FileStore) GetByID(_ context.Context, id uuid.UUID) (*file.File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.getFileLocked(id)
}

func (s *FileStore) List(_ context.Context, filter file.ListFilesFilter) ([]*file.File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var files []*file.File
	for _, f := range s.files {
		if f.FolderID != filter.FolderID {
			continue
		}
		if filter.NameContains != "" &&
			!strings.Contains(strings.ToLower(f.Filename), strings.ToLower(filter.NameContains)) {
			continue
		}
		out := f
		out.Users = f.Users.Clone()
		files = append(files, &out)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].CreatedAt.After(files[j].CreatedAt) })

	if filter.Offset > 0 {
		if filter.Offset >= len(files) {
			return nil, nil
		}
		files = files[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(files) {
		files = files[:filter.Limit]
	}

	return files, nil
}

func (s *FileStore) Update(_ context.Context, id uuid.UUID, input file.UpdateFileInput) (*file.File, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.files[id]
	if !ok {
		return nil, apperrors.NotFound(errFileNotFoundMsg)
	}

	if input.Filename != nil {
		f.Filename = *input.Filename
	}
	if input.Description != nil {
		f.Description = *input.Description
	}
	if input.Encrypted != nil {
		f.Encrypted = *input.Encrypted
		if !*input.Encrypted {
			f.PasswordHash = nil
		}
	}
	if input.PasswordHash != nil {
		f.PasswordHash = input.PasswordHash
	}
	f.UpdatedAt = time.Now()
	s.files[id] = f

	out := f
	out.Users = f.Users.Clone()
	return &out, nil
}

func (s *FileStore) UpdateActiveContent(_ context.Context, id uuid.UUID, storagePath string, sizeBytes int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.files[id]
	if !ok {
		return apperrors.NotFound(errFileNotFoundMsg)
	}
	f.StoragePath = storagePath
	f.SizeBytes = sizeBytes
	f.UpdatedAt = time.Now()
	s.files[id] = f
	return nil
}

func (s *FileStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.files[id]; !ok {
		return apperrors.NotFound(errFileNotFoundMsg)
	}
	delete(s.files, id)

	// Mirrors ON DELETE CASCADE.
	for vid, v := range s.versions {
		if v.FileID == id {
			delete(s.versions, vid)
		}
	}
	for sid, sh := range s.shares {
		if sh.FileID == id {
			delete(s.shares, sid)
		}
	}
	return nil
}

func (s *Store) getFileLocked(id uuid.UUID) (*file.File, error) {
	f, ok := s.files[id]
	if !ok {
		return nil, apperrors.NotFound(errFileNotFoundMsg)
	}
	out := f
	out.Users = f.Users.Clone()
	return &out, nil
}

func (s *VersionStore) Create(_ context.Context, input file.CreateVersionInput) (*file.FileVersion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.files[input.FileID]; !ok {
		return nil, apperrors.NotFound(errFileNotFoundMsg)
	}

	next := 1
	for _, v := range s.versions {
		if v.FileID == input.FileID && v.VersionNumber >= next {
			next = v.VersionNumber + 1
		}
	}

	if input.Activate {
		for vid, v := range s.versions {
			if v.FileID == input.FileID && v.IsActive {
				v.IsActive = false
				s.versions[vid] = v
			}
		}
	}

	v := file.FileVersion{
		ID:            uuid.New(),
		FileID:        input.FileID,
		VersionNumber: next,
		Type:          input.Type,
		StoragePath:   input.StoragePath,
		SizeBytes:     input.SizeBytes,
		UploadedBy:    input.UploadedBy,
		IsFinal:       input.IsFinal,
		IsActive:      input.Activate,
		CreatedAt:     time.Now(),
	}
	s.versions[v.ID] = v

	out := v
	return &out, nil
}

func (s *VersionStore) GetByID(_ context.Context, id uuid.UUID) (*file.FileVersion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.versions[id]
	if !ok {
		return nil, apperrors.NotFound(errVersionNotFoundMsg)
	}
	out := v
	return &out, nil
}

func (s *VersionStore) GetActive(_ context.Context, fileID uuid.UUID) (*file.FileVersion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, v := range s.versions {
		if v.FileID == fileID && v.IsActive {
			out := v
			return &out, nil
		}
	}
	return nil, apperrors.NotFound(errVersionNotFoundMsg)
}

func (s *VersionStore) ListByFile(_ context.Context, fileID uuid.UUID) ([]*file.FileVersion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var versions []*file.FileVersion
	for _, v := range s.versions {
		if v.FileID == fileID {
			out := v
			versions = append(versions, &out)
		}
	}

	sort.Slice(versions, func(i, j int) bool {
		return versions[i].VersionNumber > versions[j].VersionNumber
	})
	return versions, nil
}

func (s *VersionStore) Restore(_ context.Context, versionID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	target, ok := s.versions[versionID]
	if !ok {
		return apperrors.NotFound(errVersionNotFoundMsg)
	}

	for vid, v := range s.versions {
		if v.FileID == target.FileID {
			v.IsActive = vid == versionID
			s.versions[vid] = v
		}
	}
	return nil
}

func (s *VersionStore) MarkFinal(_ context.Context, versionID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, ok := s.versions[versionID]
	if !ok {
		return apperrors.NotFound(errVersionNotFoundMsg)
	}
	v.IsFinal = true
	s.versions[versionID] = v
	return nil
}

func (s *ShareStore) Create(_ context.Context, input share.CreateShareInput) (*share.FileShare, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.files[input.FileID]; !ok {
		return nil, apperrors.NotFound(errFileNotFoundMsg)
	}
	for _, existing := range s.shares {
		if existing.Token == input.Token {
			return nil, apperrors.Conflict(errDuplicateShareTokenMsg)
		}
	}

	sh := share.FileShare{
		ID:          uuid.New(),
		Token:       input.Token,
		FileID:      input.FileID,
		GranteeID:   input.GranteeID,
		Permissions: input.Permissions,
		Kind:        input.Kind,
		Status:      share.StatusActive,
		GrantedOn:   time.Now(),
		ExpiresOn:   input.ExpiresOn,
	}
	s.shares[sh.ID] = sh

	out := sh
	return &out, nil
}

func (s *ShareStore) GetByID(_ context.Context, id uuid.UUID) (*share.FileShare, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sh, ok := s.shares[id]
	if !ok {
		return nil, apperrors.NotFound(errShareNotFoundMsg)
	}
	out := sh
	return &out, nil
}

func (s *ShareStore) GetByToken(_ context.Context, token string) (*share.FileShare, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, sh := range s.shares {
		if sh.Token == token {
			out := sh
			return &out, nil
		}
	}
	return nil, apperrors.NotFound(errShareNotFoundMsg)
}

func (s *ShareStore) ListByFile(_ context.Context, fileID uuid.UUID) ([]*share.FileShare, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var shares []*share.FileShare
	for _, sh := range s.shares {
		if sh.FileID == fileID {
			out := sh
			shares = append(shares, &out)
		}
	}

	sort.Slice(shares, func(i, j int) bool { return shares[i].GrantedOn.After(shares[j].GrantedOn) })
	return shares, nil
}

func (s *ShareStore) UpdateStatus(_ context.Context, id uuid.UUID, status share.Status) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sh, ok := s.shares[id]
	if !ok {
		return apperrors.NotFound(errShareNotFoundMsg)
	}
	sh.Status = status
	s.shares[id] = sh
	return nil
}

func (s *ShareStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.shares[id]; !ok {
		return apperrors.NotFound(errShareNotFoundMsg)
	}
	delete(s.shares, id)
	return nil
}
