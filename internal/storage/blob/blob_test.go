package blob

import (
	"context"
	"strings"
	"testing"

	apperrors "docvault/pkg/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectPath_SlugsNameAndKeepsExtension(t *testing.T) {
	scope := uuid.New()

	p := ObjectPath(scope, "Q3 Report (Final).PDF")

	assert.True(t, strings.HasPrefix(p, ScopePrefix(scope)))
	assert.True(t, strings.HasSuffix(p, ".pdf"))
	assert.Contains(t, p, "q3-report-final-")
	assert.NotContains(t, p, " ")
	assert.NotContains(t, p, "(")
}

func TestObjectPath_UnsluggableNameFallsBack(t *testing.T) {
	p := ObjectPath(uuid.New(), "???.txt")
	assert.Contains(t, p, "/file-")
	assert.True(t, strings.HasSuffix(p, ".txt"))
}

func TestObjectPath_NeverCollides(t *testing.T) {
	scope := uuid.New()

	seen := make(map[string]struct{})
	for i := 0; i < 200; i++ {
		p := ObjectPath(scope, "same-name.bin")
		_, dup := seen[p]
		require.False(t, dup, "duplicate path %s", p)
		seen[p] = struct{}{}
	}
}

func TestMemoryStore_RoundTrip(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	scope := uuid.New()
	payload := []byte("blob payload")

	p, err := store.Put(ctx, scope, "note.txt", payload)
	require.NoError(t, err)

	got, err := store.Get(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, payload, got)

	// Mutating the returned slice must not affect the stored copy.
	got[0] = 'X'
	again, err := store.Get(ctx, p)
	require.NoError(t, err)
	assert.Equal(t, payload, again)

	exists, err := store.Exists(ctx, p)
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, store.Delete(ctx, p))

	_, err = store.Get(ctx, p)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.ErrorIs(t, store.Delete(ctx, p), apperrors.ErrNotFound)
}

func TestMemoryStore_DeleteScopeRemovesOnlyThatScope(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	scopeA := uuid.New()
	scopeB := uuid.New()

	_, err := store.Put(ctx, scopeA, "a1.txt", []byte("a1"))
	require.NoError(t, err)
	_, err = store.Put(ctx, scopeA, "a2.txt", []byte("a2"))
	require.NoError(t, err)
	keep, err := store.Put(ctx, scopeB, "b.txt", []byte("b"))
	require.NoError(t, err)

	require.NoError(t, store.DeleteScope(ctx, scopeA))

	assert.Equal(t, 1, store.Len())
	exists, err := store.Exists(ctx, keep)
	require.NoError(t, err)
	assert.True(t, exists)
}
