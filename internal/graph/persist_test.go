package graph

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeloom/codeloom/internal/entity"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	g := New()
	file := entity.File{Location: entity.Location{Repo: "repo", FilePath: "a.py"}, Imports: []string{"os"}}
	f := entity.Function{Location: entity.Location{Repo: "repo", FilePath: "a.py", Name: "foo"}, Code: "def foo(): pass"}
	g.AddNode(file)
	g.AddNode(f)
	g.AddEdge(file.ID(), f.ID(), Defines)

	path := filepath.Join(t.TempDir(), "graph.bbolt")
	require.NoError(t, g.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)

	assert.ElementsMatch(t, g.AllNodes(), loaded.AllNodes())
	assert.ElementsMatch(t, g.AllEdges(), loaded.AllEdges())

	n, ok := loaded.Node(f.ID())
	require.True(t, ok)
	loadedFn, ok := n.Payload.(entity.Function)
	require.True(t, ok)
	assert.Equal(t, "def foo(): pass", loadedFn.Code)
}

// TestSaveLoadRoundTripIsLogicallyStableAcrossRepeatedSaves checks the
// logical round-trip survives a second save/load cycle (load then
// re-save then reload), not that the underlying bbolt files are
// byte-identical: bbolt's own page/freelist layout isn't guaranteed
// stable across separate Update transactions even for identical
// content, so byte comparison would assert something bbolt itself
// doesn't promise. Node/edge fidelity of a single save/load is already
// covered by TestSaveLoadRoundTrip.
func TestSaveLoadRoundTripIsLogicallyStableAcrossRepeatedSaves(t *testing.T) {
	g := New()
	g.AddNode(entity.Function{Location: entity.Location{Repo: "repo", FilePath: "a.py", Name: "foo"}})

	dir := t.TempDir()
	path1 := filepath.Join(dir, "g1.bbolt")
	path2 := filepath.Join(dir, "g2.bbolt")
	require.NoError(t, g.Save(path1))

	loaded, err := Load(path1)
	require.NoError(t, err)
	require.NoError(t, loaded.Save(path2))

	reloaded, err := Load(path2)
	require.NoError(t, err)
	assert.ElementsMatch(t, g.AllNodes(), reloaded.AllNodes())
	assert.ElementsMatch(t, g.AllEdges(), reloaded.AllEdges())
}
