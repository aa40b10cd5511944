package search

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryIndex_MatchOnAnyFieldSurfacesDocument(t *testing.T) {
	index := NewMemoryIndex()
	ctx := context.Background()

	id := uuid.New()
	require.NoError(t, index.Upsert(ctx, id, Document{
		SpaceName:  "engineering",
		FolderName: "designs",
		Filename:   "gateway.pdf",
		Content:    "throughput numbers",
	}))

	for _, query := range []string{"engineering", "designs", "gateway", "throughput"} {
		hits, err := index.Search(ctx, query)
		require.NoError(t, err)
		require.Len(t, hits, 1, "query %q", query)
		assert.Equal(t, id, hits[0].FileID)
	}
}

func TestMemoryIndex_RanksByFieldMatches(t *testing.T) {
	index := NewMemoryIndex()
	ctx := context.Background()

	strong := uuid.New()
	weak := uuid.New()
	require.NoError(t, index.Upsert(ctx, strong, Document{
		FolderName: "alpha", Filename: "alpha.txt", Content: "alpha notes",
	}))
	require.NoError(t, index.Upsert(ctx, weak, Document{
		Filename: "beta.txt", Content: "mentions alpha once",
	}))

	hits, err := index.Search(ctx, "alpha")
	require.NoError(t, err)
	require.Len(t, hits, 2)
	assert.Equal(t, strong, hits[0].FileID)
	assert.Greater(t, hits[0].Score, hits[1].Score)
}

func TestMemoryIndex_UpsertReplacesAndDeleteRemoves(t *testing.T) {
	index := NewMemoryIndex()
	ctx := context.Background()
	id := uuid.New()

	require.NoError(t, index.Upsert(ctx, id, Document{Filename: "old-name.txt"}))
	require.NoError(t, index.Upsert(ctx, id, Document{Filename: "new-name.txt"}))

	hits, err := index.Search(ctx, "old-name")
	require.NoError(t, err)
	assert.Empty(t, hits)

	hits, err = index.Search(ctx, "new-name")
	require.NoError(t, err)
	assert.Len(t, hits, 1)

	require.NoError(t, index.Delete(ctx, id))
	assert.Equal(t, 0, index.Len())
}

func TestMemoryIndex_EmptyQueryMatchesNothing(t *testing.T) {
	index := NewMemoryIndex()
	ctx := context.Background()

	require.NoError(t, index.Upsert(ctx, uuid.New(), Document{Filename: "anything.txt"}))

	hits, err := index.Search(ctx, "   ")
	require.NoError(t, err)
	assert.Empty(t, hits)
}
