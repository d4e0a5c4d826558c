package vectorstore

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestChromemStore(t *testing.T) *ChromemStore {
	t.Helper()
	store, err := NewChromemStore(filepath.Join(t.TempDir(), "vectors"))
	require.NoError(t, err)
	return store
}

// TestSearchHonorsFilePathPrefixAgainstRealStore grounds scenario S6
// against the production store, not just Fake: file_path_prefix isn't
// an equality match chromem-go's where clause can express, so Search
// must filter the nearest neighbors post-hoc rather than silently
// ignoring the prefix.
func TestSearchHonorsFilePathPrefixAgainstRealStore(t *testing.T) {
	store := newTestChromemStore(t)
	ctx := context.Background()

	records := []Record{
		{ID: "repo:src/api/handlers.py:handle_one", Vector: []float32{1, 0, 0, 0}, Metadata: Metadata{Repo: "repo", FilePath: "src/api/handlers.py", EntityType: "function"}},
		{ID: "repo:src/api/handlers.py:handle_two", Vector: []float32{0.9, 0.1, 0, 0}, Metadata: Metadata{Repo: "repo", FilePath: "src/api/handlers.py", EntityType: "function"}},
		{ID: "repo:src/other/thing.py:unrelated", Vector: []float32{0.95, 0.05, 0, 0}, Metadata: Metadata{Repo: "repo", FilePath: "src/other/thing.py", EntityType: "function"}},
	}
	require.NoError(t, store.BulkUpsert(ctx, records))

	hits, err := store.Search(ctx, []float32{1, 0, 0, 0}, 10, Filter{Repo: "repo", FilePathPrefix: "src/api/"})
	require.NoError(t, err)
	require.Len(t, hits, 2, "both src/api/ records must come back even though src/other/ is a closer-scoring spoiler")
	for _, h := range hits {
		assert.True(t, strings.HasPrefix(h.Metadata.FilePath, "src/api/"))
	}
}

// TestSearchEnforcesLimitAfterPrefixFiltering grounds the over-fetch
// fix: limit must bound the post-filter result count, not the
// pre-filter nearest-neighbor count.
func TestSearchEnforcesLimitAfterPrefixFiltering(t *testing.T) {
	store := newTestChromemStore(t)
	ctx := context.Background()

	records := []Record{
		{ID: "repo:src/api/a.py:f1", Vector: []float32{1, 0, 0, 0}, Metadata: Metadata{Repo: "repo", FilePath: "src/api/a.py", EntityType: "function"}},
		{ID: "repo:src/api/b.py:f2", Vector: []float32{0.9, 0.1, 0, 0}, Metadata: Metadata{Repo: "repo", FilePath: "src/api/b.py", EntityType: "function"}},
		{ID: "repo:src/api/c.py:f3", Vector: []float32{0.8, 0.2, 0, 0}, Metadata: Metadata{Repo: "repo", FilePath: "src/api/c.py", EntityType: "function"}},
	}
	require.NoError(t, store.BulkUpsert(ctx, records))

	hits, err := store.Search(ctx, []float32{1, 0, 0, 0}, 1, Filter{Repo: "repo", FilePathPrefix: "src/api/"})
	require.NoError(t, err)
	assert.Len(t, hits, 1)
}

func TestSearchWithoutPrefixStillRespectsRepoFilter(t *testing.T) {
	store := newTestChromemStore(t)
	ctx := context.Background()

	require.NoError(t, store.BulkUpsert(ctx, []Record{
		{ID: "repo:a.py:f", Vector: []float32{1, 0}, Metadata: Metadata{Repo: "repo", FilePath: "a.py"}},
		{ID: "other:a.py:f", Vector: []float32{1, 0}, Metadata: Metadata{Repo: "other", FilePath: "a.py"}},
	}))

	hits, err := store.Search(ctx, []float32{1, 0}, 10, Filter{Repo: "repo"})
	require.NoError(t, err)
	require.Len(t, hits, 1)
	assert.Equal(t, "repo:a.py:f", hits[0].ID)
}
