package symtab

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegisterAndResolveThreeTiers(t *testing.T) {
	tab := New()
	tab.Register("repo:a.py:Widget.run", "run", "a.py", "Widget.run", true)
	tab.Register("repo:a.py:helper", "helper", "a.py", "", false)
	tab.Register("repo:b.py:Public", "Public", "b.py", "", true)

	id, ok := tab.Resolve("Widget.run", "")
	assert.True(t, ok)
	assert.Equal(t, "repo:a.py:Widget.run", id)

	id, ok = tab.Resolve("helper", "a.py")
	assert.True(t, ok)
	assert.Equal(t, "repo:a.py:helper", id)

	_, ok = tab.Resolve("helper", "other.py")
	assert.False(t, ok)

	id, ok = tab.Resolve("Public", "other.py")
	assert.True(t, ok)
	assert.Equal(t, "repo:b.py:Public", id)
}

func TestGlobalScopeLastWriterWins(t *testing.T) {
	tab := New()
	tab.Register("repo:a.py:f", "f", "a.py", "", true)
	tab.Register("repo:b.py:f", "f", "b.py", "", true)

	id, ok := tab.Resolve("f", "")
	assert.True(t, ok)
	assert.Equal(t, "repo:b.py:f", id)
}

func TestFileLocalTakesPrecedenceOverGlobal(t *testing.T) {
	tab := New()
	tab.Register("repo:a.py:shared", "shared", "a.py", "", true)
	tab.Register("repo:b.py:shared", "shared", "b.py", "", false)

	id, ok := tab.Resolve("shared", "b.py")
	assert.True(t, ok)
	assert.Equal(t, "repo:b.py:shared", id, "file-local scope must win over global for calls inside the same file")
}

func TestUnregisterRemovesAllScopes(t *testing.T) {
	tab := New()
	tab.Register("repo:a.py:Widget.run", "run", "a.py", "Widget.run", true)
	tab.Unregister("repo:a.py:Widget.run")

	_, ok := tab.Resolve("Widget.run", "")
	assert.False(t, ok)
	_, ok = tab.Resolve("run", "a.py")
	assert.False(t, ok)
}

func TestReRegisterReplacesPriorScopes(t *testing.T) {
	tab := New()
	tab.Register("repo:a.py:f", "f", "a.py", "", false)
	tab.Register("repo:a.py:f", "g", "a.py", "", true)

	_, ok := tab.Resolve("f", "a.py")
	assert.False(t, ok)
	id, ok := tab.Resolve("g", "")
	assert.True(t, ok)
	assert.Equal(t, "repo:a.py:f", id)
}

func TestUnregisterFileRemovesAllItsEntities(t *testing.T) {
	tab := New()
	tab.Register("repo:a.py:f", "f", "a.py", "", true)
	tab.Register("repo:a.py:g", "g", "a.py", "", false)
	tab.Register("repo:b.py:h", "h", "b.py", "", true)

	tab.UnregisterFile("a.py")

	_, ok := tab.Resolve("f", "")
	assert.False(t, ok)
	_, ok = tab.Resolve("g", "a.py")
	assert.False(t, ok)
	id, ok := tab.Resolve("h", "")
	assert.True(t, ok)
	assert.Equal(t, "repo:b.py:h", id)
}
