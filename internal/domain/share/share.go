package share

import (
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusActive  Status = "active"
	StatusRevoked Status = "revoked"
	StatusExpired Status = "expired"
)

type Kind string

const (
	KindDirect Kind = "direct"
	KindLink   Kind = "link"
	KindPublic Kind = "public"
)

type Permission string

const (
	PermissionRead  Permission = "read"
	PermissionWrite Permission = "write"
)

// FileShare is a capability grant on a single file. Status and ExpiresOn are
// both checked at access time, never only at grant time.
type FileShare struct {
	ID          uuid.UUID  `json:"id"`
	Token       string     `json:"token"`
	FileID      uuid.UUID  `json:"file_id"`
	GranteeID   uuid.UUID  `json:"grantee_id"`
	Permissions Permission `json:"permissions"`
	Kind        Kind       `json:"kind"`
	Status      Status     `json:"status"`
	GrantedOn   time.Time  `json:"granted_on"`
	ExpiresOn   *time.Time `json:"expires_on,omitempty"`
}

// ExpiredAt reports whether the grant's expiration date has passed. The
// status column may still say active; expiry is applied lazily at read time.
func (s *FileShare) ExpiredAt(now time.Time) bool {
	return s.ExpiresOn != nil && now.After(*s.ExpiresOn)
}

// UsableAt reports whether the share authorizes access at the given instant.
func (s *FileShare) UsableAt(now time.Time) bool {
	return s.Status == StatusActive && !s.ExpiredAt(now)
}

type CreateShareInput struct {
	Token       string
	FileID      uuid.UUID
	GranteeID   uuid.UUID
	Permissions Permission
	Kind        Kind
	ExpiresOn   *time.Time
}
