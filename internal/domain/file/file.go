package file

import (
	"time"

	"docvault/internal/domain/access"

	"github.com/google/uuid"
)

// File is a logical document. StoragePath and SizeBytes always describe the
// active version's blob; the full history lives in FileVersion rows.
type File struct {
	ID           uuid.UUID   `json:"id"`
	Filename     string      `json:"filename"`
	MimeType     string      `json:"mime_type"`
	SizeBytes    int64       `json:"size_bytes"`
	StoragePath  string      `json:"storage_path"`
	FolderID     uuid.UUID   `json:"folder_id"`
	Encrypted    bool        `json:"is_encrypted"`
	PasswordHash *string     `json:"-"`
	Description  string      `json:"description,omitempty"`
	CreatedBy    uuid.UUID   `json:"created_by"`
	Users        access.List `json:"users"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

// FileVersion is an immutable content snapshot. Exactly one version per file
// carries IsActive at any time; version numbers strictly increase and are
// never reused.
type FileVersion struct {
	ID            uuid.UUID `json:"id"`
	FileID        uuid.UUID `json:"file_id"`
	VersionNumber int       `json:"version_number"`
	Type          string    `json:"type"`
	StoragePath   string    `json:"storage_path"`
	SizeBytes     int64     `json:"size_bytes"`
	UploadedBy    uuid.UUID `json:"uploaded_by"`
	IsFinal       bool      `json:"is_final"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
}

type CreateFileInput struct {
	Filename     string
	MimeType     string
	SizeBytes    int64
	StoragePath  string
	FolderID     uuid.UUID
	Encrypted    bool
	PasswordHash *string
	Description  string
	CreatedBy    uuid.UUID
	Users        access.List
}

type UpdateFileInput struct {
	Filename     *string
	Description  *string
	Encrypted    *bool
	PasswordHash *string
}

type CreateVersionInput struct {
	FileID      uuid.UUID
	Type        string
	StoragePath string
	SizeBytes   int64
	UploadedBy  uuid.UUID
	IsFinal     bool
	// Activate atomically deactivates all sibling versions and activates the
	// new one in the same transaction. Without it the version is a draft.
	Activate bool
}

type ListFilesFilter struct {
	FolderID     uuid.UUID
	NameContains string
	Limit        int
	Offset       int
}
