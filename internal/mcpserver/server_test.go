package mcpserver

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"

	"github.com/codeloom/codeloom/internal/builder"
	"github.com/codeloom/codeloom/internal/config"
	"github.com/codeloom/codeloom/internal/embedbackend"
	"github.com/codeloom/codeloom/internal/pipeline"
	syncengine "github.com/codeloom/codeloom/internal/sync"
	"github.com/codeloom/codeloom/internal/vectorstore"
)

// newTestServer cold-scans a temp repo containing a.py/b.py (a call
// edge and a class hierarchy) and returns an mcpserver.Server wired to
// the resulting graph and store, mirroring how cmd/codeloom wires a
// live server.
func newTestServer(t *testing.T) *Server {
	t.Helper()
	root := t.TempDir()
	write(t, root, "a.py", "def caller():\n    callee()\n")
	write(t, root, "b.py", "def callee():\n    pass\n")
	write(t, root, "m.py", "class Base:\n    pass\nclass Child(Base):\n    pass\n")

	cfg := &config.Config{
		RepoPath:            root,
		RepoName:            "repo",
		ParallelFileWorkers: 2,
		MaxFileSize:         1 << 20,
	}
	b := builder.New()
	store := vectorstore.NewFake()
	backend := embedbackend.NewFake(8)
	eng := syncengine.New(store, backend)
	p := pipeline.New("repo", filepath.Join(root, "graph.bbolt"), cfg, b, eng)

	_, err := p.ColdScan(context.Background())
	require.NoError(t, err)

	return New("repo", b.Graph, store, backend, p)
}

func write(t *testing.T, root, rel, content string) string {
	t.Helper()
	abs := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(abs), 0o755))
	require.NoError(t, os.WriteFile(abs, []byte(content), 0o644))
	return abs
}

func callTool(t *testing.T, args interface{}) *mcp.CallToolRequest {
	t.Helper()
	raw, err := json.Marshal(args)
	require.NoError(t, err)
	return &mcp.CallToolRequest{Params: &mcp.CallToolParamsRaw{Arguments: raw}}
}

func decodeResult(t *testing.T, result *mcp.CallToolResult, dst interface{}) {
	t.Helper()
	require.Len(t, result.Content, 1)
	text, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	require.NoError(t, json.Unmarshal([]byte(text.Text), dst))
}
