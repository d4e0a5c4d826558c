package sync

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeloom/codeloom/internal/embedbackend"
	"github.com/codeloom/codeloom/internal/entity"
	"github.com/codeloom/codeloom/internal/vectorstore"
)

func newEngine() (*Engine, *vectorstore.Fake, *embedbackend.Fake) {
	store := vectorstore.NewFake()
	backend := embedbackend.NewFake(8)
	return New(store, backend), store, backend
}

func fn(repo, path, name, code string) entity.Function {
	return entity.Function{
		Location: entity.Location{Repo: repo, FilePath: path, Name: name, StartLine: 1, EndLine: 5},
		Signature: "func " + name + "()",
		Code:      code,
	}
}

func TestSyncAllAddsNewEntities(t *testing.T) {
	eng, store, _ := newEngine()
	ctx := context.Background()

	entities := []entity.Entity{fn("repo", "a.go", "Foo", "func Foo() {}")}
	result, err := eng.SyncAll(ctx, "repo", entities, map[string]bool{"a.go": true})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Added)
	assert.Equal(t, 0, result.Updated)
	assert.Equal(t, 0, result.Skipped)

	rec, ok, err := store.Get(ctx, entities[0].ID())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, entity.ContentHashHex(entities[0]), rec.Metadata.ContentHash)
}

func TestSyncAllSkipsUnchangedEntity(t *testing.T) {
	eng, _, _ := newEngine()
	ctx := context.Background()
	entities := []entity.Entity{fn("repo", "a.go", "Foo", "func Foo() {}")}

	_, err := eng.SyncAll(ctx, "repo", entities, map[string]bool{"a.go": true})
	require.NoError(t, err)

	result, err := eng.SyncAll(ctx, "repo", entities, map[string]bool{"a.go": true})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Added)
	assert.Equal(t, 0, result.Updated)
	assert.Equal(t, 1, result.Skipped)
}

func TestSyncAllUpdatesChangedContentHash(t *testing.T) {
	eng, _, _ := newEngine()
	ctx := context.Background()

	first := []entity.Entity{fn("repo", "a.go", "Foo", "func Foo() {}")}
	_, err := eng.SyncAll(ctx, "repo", first, map[string]bool{"a.go": true})
	require.NoError(t, err)

	second := []entity.Entity{fn("repo", "a.go", "Foo", "func Foo() { return }")}
	result, err := eng.SyncAll(ctx, "repo", second, map[string]bool{"a.go": true})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Added)
	assert.Equal(t, 1, result.Updated)
}

func TestSyncAllDeletesRemovedEntitiesInParsedFile(t *testing.T) {
	eng, store, _ := newEngine()
	ctx := context.Background()

	entities := []entity.Entity{
		fn("repo", "a.go", "Foo", "func Foo() {}"),
		fn("repo", "a.go", "Bar", "func Bar() {}"),
	}
	_, err := eng.SyncAll(ctx, "repo", entities, map[string]bool{"a.go": true})
	require.NoError(t, err)

	remaining := []entity.Entity{entities[0]}
	result, err := eng.SyncAll(ctx, "repo", remaining, map[string]bool{"a.go": true})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Deleted)
	assert.Equal(t, 1, result.Skipped)

	_, ok, err := store.Get(ctx, entities[1].ID())
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSyncAllDoesNotDeleteEntitiesFromUnparsedFiles(t *testing.T) {
	eng, store, _ := newEngine()
	ctx := context.Background()

	entities := []entity.Entity{
		fn("repo", "a.go", "Foo", "func Foo() {}"),
		fn("repo", "b.go", "Bar", "func Bar() {}"),
	}
	_, err := eng.SyncAll(ctx, "repo", entities, map[string]bool{"a.go": true, "b.go": true})
	require.NoError(t, err)

	// Only a.go was re-parsed this pass; b.go's Bar must survive even
	// though it's absent from the new entity set.
	onlyA := []entity.Entity{entities[0]}
	result, err := eng.SyncAll(ctx, "repo", onlyA, map[string]bool{"a.go": true})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Deleted)

	_, ok, err := store.Get(ctx, entities[1].ID())
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSyncFileScopesToSingleFile(t *testing.T) {
	eng, _, _ := newEngine()
	ctx := context.Background()

	all := []entity.Entity{fn("repo", "a.go", "Foo", "func Foo() {}")}
	_, err := eng.SyncAll(ctx, "repo", all, map[string]bool{"a.go": true})
	require.NoError(t, err)

	result, err := eng.SyncFile(ctx, "repo", "a.go", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Deleted)
}

func TestDeleteFileRemovesAllItsRecords(t *testing.T) {
	eng, store, _ := newEngine()
	ctx := context.Background()

	entities := []entity.Entity{
		fn("repo", "a.go", "Foo", "func Foo() {}"),
		fn("repo", "a.go", "Bar", "func Bar() {}"),
		fn("repo", "b.go", "Baz", "func Baz() {}"),
	}
	_, err := eng.SyncAll(ctx, "repo", entities, map[string]bool{"a.go": true, "b.go": true})
	require.NoError(t, err)

	n, err := eng.DeleteFile(ctx, "repo", "a.go")
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	_, ok, _ := store.Get(ctx, entities[2].ID())
	assert.True(t, ok)
}

func TestFullReindexClearsPriorState(t *testing.T) {
	eng, store, _ := newEngine()
	ctx := context.Background()

	old := []entity.Entity{fn("repo", "a.go", "Stale", "func Stale() {}")}
	_, err := eng.SyncAll(ctx, "repo", old, map[string]bool{"a.go": true})
	require.NoError(t, err)

	fresh := []entity.Entity{fn("repo", "a.go", "Fresh", "func Fresh() {}")}
	result, err := eng.FullReindex(ctx, "repo", fresh)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Added)

	_, ok, _ := store.Get(ctx, old[0].ID())
	assert.False(t, ok)
	_, ok, _ = store.Get(ctx, fresh[0].ID())
	assert.True(t, ok)
}

func TestSyncAllSkipsFileEntitiesAsNonEmbeddable(t *testing.T) {
	eng, store, _ := newEngine()
	ctx := context.Background()

	entities := []entity.Entity{
		entity.File{Location: entity.Location{Repo: "repo", FilePath: "a.go"}, Language: "go"},
		fn("repo", "a.go", "Foo", "func Foo() {}"),
	}
	result, err := eng.SyncAll(ctx, "repo", entities, map[string]bool{"a.go": true})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Added)

	_, ok, _ := store.Get(ctx, entities[0].ID())
	assert.False(t, ok)
}

func TestEmbedAndUpsertRespectsBatchSize(t *testing.T) {
	eng, store, _ := newEngine()
	eng.BatchSize = 2
	ctx := context.Background()

	entities := []entity.Entity{
		fn("repo", "a.go", "One", "func One() {}"),
		fn("repo", "a.go", "Two", "func Two() {}"),
		fn("repo", "a.go", "Three", "func Three() {}"),
	}
	result, err := eng.SyncAll(ctx, "repo", entities, map[string]bool{"a.go": true})
	require.NoError(t, err)
	assert.Equal(t, 3, result.Added)
	for _, e := range entities {
		_, ok, _ := store.Get(ctx, e.ID())
		assert.True(t, ok)
	}
}

func TestDiffReportsWithoutMutatingStore(t *testing.T) {
	eng, store, _ := newEngine()
	ctx := context.Background()

	initial := []entity.Entity{
		fn("repo", "a.go", "Foo", "func Foo() {}"),
		fn("repo", "a.go", "Bar", "func Bar() {}"),
	}
	_, err := eng.SyncAll(ctx, "repo", initial, map[string]bool{"a.go": true})
	require.NoError(t, err)

	changed := []entity.Entity{
		fn("repo", "a.go", "Foo", "func Foo() { return }"),
	}
	result, err := eng.Diff(ctx, "repo", changed, map[string]bool{"a.go": true})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Added)
	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, 1, result.Deleted)

	// Diff must not have touched the store: Bar is still there, and
	// Foo's stored hash is still the pre-change one.
	_, ok, err := store.Get(ctx, initial[1].ID())
	require.NoError(t, err)
	assert.True(t, ok, "diff must not delete entities from the store")

	rec, ok, err := store.Get(ctx, initial[0].ID())
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, entity.ContentHashHex(initial[0]), rec.Metadata.ContentHash, "diff must not upsert the changed entity")
}

type erroringBackend struct{}

func (erroringBackend) Encode(ctx context.Context, texts []string, isQuery bool) ([][]float32, error) {
	return nil, assert.AnError
}
func (erroringBackend) Dimensions() int { return 8 }

func TestEmbeddingErrorsAreCollectedNotFatal(t *testing.T) {
	store := vectorstore.NewFake()
	eng := New(store, erroringBackend{})
	ctx := context.Background()

	entities := []entity.Entity{fn("repo", "a.go", "Foo", "func Foo() {}")}
	result, err := eng.SyncAll(ctx, "repo", entities, map[string]bool{"a.go": true})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Added)
	assert.Len(t, result.Errors, 1)
}
