package blob

import (
	"context"
	"strings"
	"sync"

	apperrors "docvault/pkg/errors"

	"github.com/google/uuid"
)

// MemoryStore is an in-process Store used by tests and local development.
type MemoryStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[string][]byte)}
}

func (m *MemoryStore) Put(_ context.Context, scopeID uuid.UUID, originalName string, data []byte) (string, error) {
	objectPath := ObjectPath(scopeID, originalName)

	buf := make([]byte, len(data))
	copy(buf, data)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.blobs[objectPath] = buf

	return objectPath, nil
}

func (m *MemoryStore) Get(_ context.Context, path string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	data, ok := m.blobs[path]
	if !ok {
		return nil, apperrors.NotFound(errBlobNotFoundMsg)
	}

	buf := make([]byte, len(data))
	copy(buf, data)
	return buf, nil
}

func (m *MemoryStore) Delete(_ context.Context, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.blobs[path]; !ok {
		return apperrors.NotFound(errBlobNotFoundMsg)
	}
	delete(m.blobs, path)

	return nil
}

func (m *MemoryStore) Exists(_ context.Context, path string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	_, ok := m.blobs[path]
	return ok, nil
}

func (m *MemoryStore) DeleteScope(_ context.Context, scopeID uuid.UUID) error {
	prefix := ScopePrefix(scopeID)

	m.mu.Lock()
	defer m.mu.Unlock()

	for path := range m.blobs {
		if strings.HasPrefix(path, prefix) {
			delete(m.blobs, path)
		}
	}

	return nil
}

// Len reports the number of stored blobs.
func (m *MemoryStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.blobs)
}
