// Package search maintains the external full-text index of file metadata and
// extracted content. The index is a derived projection: it may lag behind or
// briefly disagree with the metadata store, and it is never consulted as a
// source of truth.
package search

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Document is the indexed shape of a file: its hierarchy names, filename,
// extracted content, the exact storage path, and the creation timestamp.
type Document struct {
	SpaceName   string    `json:"space_name"`
	FolderName  string    `json:"folder_name"`
	ProjectName string    `json:"project_name"`
	Filename    string    `json:"filename"`
	Content     string    `json:"content"`
	FilePath    string    `json:"file_path"`
	CreatedAt   time.Time `json:"created_at"`
}

// Hit is a ranked match. Ranking comes from the underlying engine; this
// package only guarantees that a match on any indexed field surfaces the
// document.
type Hit struct {
	FileID uuid.UUID `json:"file_id"`
	Score  float64   `json:"score"`
}

type Index interface {
	// EnsureSchema creates the index schema, treating "already exists" as
	// success.
	EnsureSchema(ctx context.Context) error
	Upsert(ctx context.Context, fileID uuid.UUID, doc Document) error
	Delete(ctx context.Context, fileID uuid.UUID) error
	// Search runs a multi-field OR-match across space, folder, project,
	// filename, and content, ranked by relevance.
	Search(ctx context.Context, query string) ([]Hit, error)
}
