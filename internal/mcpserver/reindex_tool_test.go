package mcpserver

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type reindexOut struct {
	DryRun  bool     `json:"dry_run"`
	Added   int      `json:"added"`
	Updated int      `json:"updated"`
	Deleted int      `json:"deleted"`
	Skipped int      `json:"skipped"`
	Errors  []string `json:"errors"`
}

func TestReindexDryRunDoesNotMutateGraphOrStore(t *testing.T) {
	s := newTestServer(t)
	write(t, s.pipeline.Config.RepoPath, "a.py", "def caller():\n    callee()\n    1\n")

	result, err := s.handleReindex(context.Background(), callTool(t, reindexParams{Path: "a.py", DryRun: true}))
	require.NoError(t, err)

	var out reindexOut
	decodeResult(t, result, &out)
	assert.True(t, out.DryRun)
	assert.Equal(t, 1, out.Updated)

	node, ok := s.graph.Node("repo:a.py:caller")
	require.True(t, ok)
	assert.NotNil(t, node)
}

func TestReindexPathScopedAppliesChange(t *testing.T) {
	s := newTestServer(t)
	write(t, s.pipeline.Config.RepoPath, "a.py", "def caller():\n    callee()\ndef extra():\n    pass\n")

	result, err := s.handleReindex(context.Background(), callTool(t, reindexParams{Path: "a.py"}))
	require.NoError(t, err)

	var out reindexOut
	decodeResult(t, result, &out)
	assert.False(t, out.DryRun)
	assert.Equal(t, 1, out.Added)

	_, ok := s.graph.Node("repo:a.py:extra")
	assert.True(t, ok)
}

func TestReindexWholeRepoFullRebuildsEmbeddings(t *testing.T) {
	s := newTestServer(t)
	before, err := s.store.ContentHashes(context.Background(), "repo")
	require.NoError(t, err)
	require.NotEmpty(t, before)

	result, err := s.handleReindex(context.Background(), callTool(t, reindexParams{Full: true}))
	require.NoError(t, err)

	var out reindexOut
	decodeResult(t, result, &out)
	assert.False(t, out.DryRun)
	assert.Equal(t, len(before), out.Added, "full reindex deletes every record first, so everything re-upserts as added")

	after, err := s.store.ContentHashes(context.Background(), "repo")
	require.NoError(t, err)
	assert.Equal(t, len(before), len(after))
}
