package search

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// MemoryIndex is an in-process Index used by tests and local development.
// Matching is case-insensitive substring containment over the same fields
// the engine-backed index queries; score is the number of matching fields.
type MemoryIndex struct {
	mu   sync.RWMutex
	docs map[uuid.UUID]Document
}

func NewMemoryIndex() *MemoryIndex {
	return &MemoryIndex{docs: make(map[uuid.UUID]Document)}
}

func (m *MemoryIndex) EnsureSchema(_ context.Context) error {
	return nil
}

func (m *MemoryIndex) Upsert(_ context.Context, fileID uuid.UUID, doc Document) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[fileID] = doc
	return nil
}

func (m *MemoryIndex) Delete(_ context.Context, fileID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.docs, fileID)
	return nil
}

func (m *MemoryIndex) Search(_ context.Context, query string) ([]Hit, error) {
	needle := strings.ToLower(strings.TrimSpace(query))

	m.mu.RLock()
	defer m.mu.RUnlock()

	var hits []Hit
	for fileID, doc := range m.docs {
		score := 0.0
		for _, field := range []string{doc.SpaceName, doc.FolderName, doc.ProjectName, doc.Filename, doc.Content} {
			if needle != "" && strings.Contains(strings.ToLower(field), needle) {
				score++
			}
		}
		if score > 0 {
			hits = append(hits, Hit{FileID: fileID, Score: score})
		}
	}

	sort.Slice(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	return hits, nil
}

// Get returns the indexed document for a file, if present.
func (m *MemoryIndex) Get(fileID uuid.UUID) (Document, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	doc, ok := m.docs[fileID]
	return doc, ok
}

// Len reports the number of indexed documents.
func (m *MemoryIndex) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.docs)
}
