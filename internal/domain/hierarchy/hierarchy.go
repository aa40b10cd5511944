// Package hierarchy exposes the containment context a file lives in. The
// CRUD layer that manages spaces, projects, and folders is a separate
// service; this projection carries only what storage scoping, indexing, and
// authorization need.
package hierarchy

import (
	"time"

	"docvault/internal/domain/access"

	"github.com/google/uuid"
)

type Folder struct {
	ID          uuid.UUID   `json:"id"`
	Name        string      `json:"name"`
	SpaceName   string      `json:"space_name"`
	ProjectName string      `json:"project_name"`
	Users       access.List `json:"users"`
	CreatedAt   time.Time   `json:"created_at"`
}
