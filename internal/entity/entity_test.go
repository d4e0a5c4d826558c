package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFunctionID(t *testing.T) {
	free := Function{Location: Location{Repo: "repo", FilePath: "a.py", Name: "caller"}}
	assert.Equal(t, "repo:a.py:caller", free.ID())

	method := Function{Location: Location{Repo: "repo", FilePath: "m.ts", Name: "run"}, ClassName: "Outer.Inner"}
	assert.Equal(t, "repo:m.ts:Outer.Inner.run", method.ID())
}

func TestClassAndTypeAndFileID(t *testing.T) {
	c := Class{Location: Location{Repo: "repo", FilePath: "m.ts", Name: "Child"}}
	assert.Equal(t, "repo:m.ts:Child", c.ID())

	ty := TypeDefinition{Location: Location{Repo: "repo", FilePath: "x.go", Name: "Shape"}}
	assert.Equal(t, "repo:x.go:Shape", ty.ID())

	f := File{Location: Location{Repo: "repo", FilePath: "x.go"}}
	assert.Equal(t, "repo:x.go", f.ID())
}

func TestIsEmbeddable(t *testing.T) {
	assert.True(t, IsEmbeddable(Function{}))
	assert.True(t, IsEmbeddable(Class{}))
	assert.True(t, IsEmbeddable(TypeDefinition{}))
	assert.False(t, IsEmbeddable(File{}))
}

func TestContentHashClassIgnoresMethodRename(t *testing.T) {
	before := Class{Location: Location{Name: "Widget"}, Bases: []string{"Base"}, Decorators: []string{"final"}, Methods: []string{"run"}}
	after := Class{Location: Location{Name: "Widget"}, Bases: []string{"Base"}, Decorators: []string{"final"}, Methods: []string{"execute"}}
	assert.Equal(t, ContentHash(before), ContentHash(after), "renaming a method must not change the class content hash")
}

func TestContentHashClassOrderIndependent(t *testing.T) {
	a := Class{Location: Location{Name: "Widget"}, Bases: []string{"A", "B"}, Decorators: []string{"x", "y"}}
	b := Class{Location: Location{Name: "Widget"}, Bases: []string{"B", "A"}, Decorators: []string{"y", "x"}}
	assert.Equal(t, ContentHash(a), ContentHash(b))
}

func TestContentHashFunctionSensitiveToBody(t *testing.T) {
	a := Function{Location: Location{Name: "f"}, Code: "def f(): pass"}
	b := Function{Location: Location{Name: "f"}, Code: "def f(): return 1"}
	assert.NotEqual(t, ContentHash(a), ContentHash(b))
}

func TestContentHashHexLength(t *testing.T) {
	h := ContentHashHex(Function{Code: "x"})
	require.Len(t, h, 16)
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "pkg/a.go", Normalize("/repo", "/repo/pkg/a.go"))
	assert.Equal(t, "/outside/a.go", Normalize("/repo", "/outside/a.go"))
}

func TestExternalID(t *testing.T) {
	assert.Equal(t, "external:foo", ExternalID("foo"))
}
