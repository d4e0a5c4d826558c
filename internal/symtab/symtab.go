// Package symtab is the scoped symbol table (component E): a small
// amount of per-entity name state used while building graph edges,
// not an inverted index over the whole graph (spec.md §9, "Symbol
// registry vs. inverted index"). It resolves names in three tiers —
// qualified, file-local, global — and tracks a reverse index so an
// entity's names can be removed in one pass.
package symtab

import "sync"

type scopeKey struct {
	scope string // "qualified" | "file:<path>" | "global"
	key   string
}

// Table is safe for concurrent use; callers holding the outer
// indexer-worker lock (spec.md §6) won't contend it, but query paths
// that peek at symbol state directly still need correctness.
type Table struct {
	mu sync.RWMutex

	qualified map[string]string            // "Class.method" -> entity id
	fileLocal map[string]map[string]string // file_path -> name -> entity id
	global    map[string]string            // exported top-level name -> entity id
	reverse   map[string][]scopeKey        // entity id -> scopes it was registered under
}

func New() *Table {
	return &Table{
		qualified: make(map[string]string),
		fileLocal: make(map[string]map[string]string),
		global:    make(map[string]string),
		reverse:   make(map[string][]scopeKey),
	}
}

// Register inserts entityID into file-local scope always, into
// qualified scope when qualifiedName is non-empty, and into global
// scope when isExported, per spec.md §4.5. Re-registering the same
// entityID first unregisters its prior scopes so a re-parsed entity
// never leaves stale names behind.
func (t *Table) Register(entityID, name, filePath, qualifiedName string, isExported bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.unregisterLocked(entityID)

	var keys []scopeKey

	byName, ok := t.fileLocal[filePath]
	if !ok {
		byName = make(map[string]string)
		t.fileLocal[filePath] = byName
	}
	byName[name] = entityID
	keys = append(keys, scopeKey{"file:" + filePath, name})

	if qualifiedName != "" {
		t.qualified[qualifiedName] = entityID
		keys = append(keys, scopeKey{"qualified", qualifiedName})
	}

	if isExported {
		t.global[name] = entityID // last-writer-wins, per spec.md §4.5
		keys = append(keys, scopeKey{"global", name})
	}

	t.reverse[entityID] = keys
}

// Resolve looks up name in qualified, then file-local (if
// contextFile is non-empty), then global scope, in that order.
func (t *Table) Resolve(name, contextFile string) (string, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if id, ok := t.qualified[name]; ok {
		return id, true
	}
	if contextFile != "" {
		if byName, ok := t.fileLocal[contextFile]; ok {
			if id, ok := byName[name]; ok {
				return id, true
			}
		}
	}
	if id, ok := t.global[name]; ok {
		return id, true
	}
	return "", false
}

// Unregister removes entityID from every scope it was registered
// under, via the reverse index.
func (t *Table) Unregister(entityID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.unregisterLocked(entityID)
}

func (t *Table) unregisterLocked(entityID string) {
	keys, ok := t.reverse[entityID]
	if !ok {
		return
	}
	for _, k := range keys {
		switch {
		case k.scope == "qualified":
			if t.qualified[k.key] == entityID {
				delete(t.qualified, k.key)
			}
		case k.scope == "global":
			if t.global[k.key] == entityID {
				delete(t.global, k.key)
			}
		case len(k.scope) > 5 && k.scope[:5] == "file:":
			filePath := k.scope[5:]
			if byName, ok := t.fileLocal[filePath]; ok {
				if byName[k.key] == entityID {
					delete(byName, k.key)
				}
				if len(byName) == 0 {
					delete(t.fileLocal, filePath)
				}
			}
		}
	}
	delete(t.reverse, entityID)
}

// UnregisterFile unregisters every entity whose reverse index
// recorded a scope in filePath's file-local bucket.
func (t *Table) UnregisterFile(filePath string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	byName, ok := t.fileLocal[filePath]
	if !ok {
		return
	}
	ids := make(map[string]bool, len(byName))
	for _, id := range byName {
		ids[id] = true
	}
	for id := range ids {
		t.unregisterLocked(id)
	}
}
