// Package blob persists raw file bytes under folder-scoped,
// collision-resistant paths.
package blob

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

const (
	pathPrefix     = "files"
	tokenRandBytes = 4
)

// Store is the blob persistence contract. Paths are append-only: Put never
// overwrites an existing path, so concurrent uploads to the same scope never
// collide. A blob write is not transactional with metadata creation; callers
// treat orphan blobs as reclaimable garbage.
type Store interface {
	// Put writes data under a freshly generated path inside the scope's
	// namespace and returns that path.
	Put(ctx context.Context, scopeID uuid.UUID, originalName string, data []byte) (string, error)
	// Get returns the blob bytes, or an error wrapping apperrors.ErrNotFound.
	Get(ctx context.Context, path string) ([]byte, error)
	Delete(ctx context.Context, path string) error
	Exists(ctx context.Context, path string) (bool, error)
	// DeleteScope removes every blob under the scope's namespace in one pass.
	DeleteScope(ctx context.Context, scopeID uuid.UUID) error
}

// ObjectPath derives a unique storage path for a blob: the slugged base name,
// a timestamp+random token, and the original extension, under the scope's
// namespace. The original filename stays on the metadata row untouched.
func ObjectPath(scopeID uuid.UUID, originalName string) string {
	ext := strings.ToLower(path.Ext(originalName))
	base := strings.TrimSuffix(path.Base(originalName), path.Ext(originalName))

	name := slug.Make(base)
	if name == "" {
		name = "file"
	}

	return pathPrefix + "/" + scopeID.String() + "/" + name + "-" + uniqueToken() + ext
}

// ScopePrefix is the namespace all of a scope's blobs live under.
func ScopePrefix(scopeID uuid.UUID) string {
	return pathPrefix + "/" + scopeID.String() + "/"
}

func uniqueToken() string {
	buf := make([]byte, tokenRandBytes)
	_, _ = rand.Read(buf)
	return strconv.FormatInt(time.Now().UnixNano(), 36) + hex.EncodeToString(buf)
}
