// Package graph is the graph storage component (F): a directed
// labeled multigraph of code entities, with file-indexed removal and
// the traversal primitives the MCP query tools and the builder need.
package graph

import (
	"sort"
	"sync"

	"github.com/codeloom/codeloom/internal/entity"
)

// EdgeType labels a directed edge, per spec.md §4.6.
type EdgeType string

const (
	Imports  EdgeType = "IMPORTS"
	Defines  EdgeType = "DEFINES"
	Calls    EdgeType = "CALLS"
	Inherits EdgeType = "INHERITS"
	Uses     EdgeType = "USES"
	Contains EdgeType = "CONTAINS"
)

// Node is the minimal projection of an entity spec.md §4.6 requires,
// plus the original entity as an opaque payload for later retrieval.
type Node struct {
	ID        string
	Name      string
	FilePath  string
	Kind      entity.Kind
	StartLine int
	EndLine   int
	Payload   entity.Entity // nil for external placeholders
}

type edgeKey struct {
	from, to string
	typ      EdgeType
}

// Graph is safe for concurrent use; spec.md §6 puts a single
// readers-writer lock around graph storage and the symbol table, with
// the indexer worker as sole writer.
type Graph struct {
	mu sync.RWMutex

	nodes map[string]*Node
	out   map[string]map[edgeKey]bool // from -> edge -> present
	in    map[string]map[edgeKey]bool // to -> edge -> present

	byFile map[string]map[string]bool // file_path -> set of node ids defined there
}

func New() *Graph {
	return &Graph{
		nodes:  make(map[string]*Node),
		out:    make(map[string]map[edgeKey]bool),
		in:     make(map[string]map[edgeKey]bool),
		byFile: make(map[string]map[string]bool),
	}
}

// AddNode inserts e as a node, or replaces its projection and payload
// if already present (idempotent, spec.md §4.6).
func (g *Graph) AddNode(e entity.Entity) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.addNodeLocked(e)
}

func (g *Graph) addNodeLocked(e entity.Entity) *Node {
	loc := e.Loc()
	n := &Node{
		ID:        e.ID(),
		Name:      loc.Name,
		FilePath:  loc.FilePath,
		Kind:      e.EntityKind(),
		StartLine: loc.StartLine,
		EndLine:   loc.EndLine,
		Payload:   e,
	}
	g.nodes[n.ID] = n
	if n.Kind != entity.KindFile {
		if g.byFile[n.FilePath] == nil {
			g.byFile[n.FilePath] = make(map[string]bool)
		}
		g.byFile[n.FilePath][n.ID] = true
	}
	return n
}

// addPlaceholderLocked inserts an external placeholder node if id is
// not already present, per spec.md §3 ("no location, variant
// External"). It never overwrites a real node.
func (g *Graph) addPlaceholderLocked(id string) *Node {
	if n, ok := g.nodes[id]; ok {
		return n
	}
	n := &Node{ID: id, Kind: entity.KindExternal}
	g.nodes[id] = n
	return n
}

// EnsurePlaceholder is the builder's entry point for registering an
// external reference; it is a no-op if id already names a real node.
func (g *Graph) EnsurePlaceholder(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.addPlaceholderLocked(id)
}

// Has reports whether id names a node (real or placeholder).
func (g *Graph) Has(id string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	_, ok := g.nodes[id]
	return ok
}

// Node returns the node for id, if present.
func (g *Graph) Node(id string) (Node, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	n, ok := g.nodes[id]
	if !ok {
		return Node{}, false
	}
	return *n, true
}

// RemoveNode deletes id and every edge incident to it.
func (g *Graph) RemoveNode(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.removeNodeLocked(id)
}

func (g *Graph) removeNodeLocked(id string) {
	n, ok := g.nodes[id]
	if !ok {
		return
	}
	for ek := range g.out[id] {
		delete(g.in[ek.to], ek)
	}
	for ek := range g.in[id] {
		delete(g.out[ek.from], ek)
	}
	delete(g.out, id)
	delete(g.in, id)
	delete(g.nodes, id)
	if n.Kind != entity.KindFile {
		if set := g.byFile[n.FilePath]; set != nil {
			delete(set, id)
			if len(set) == 0 {
				delete(g.byFile, n.FilePath)
			}
		}
	}
}

// AddEdge requires both endpoints to already exist (spec.md §4.6); it
// is a no-op if either is missing, and coalesces duplicate
// (from,to,type) triples.
func (g *Graph) AddEdge(from, to string, typ EdgeType) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.nodes[from]; !ok {
		return false
	}
	if _, ok := g.nodes[to]; !ok {
		return false
	}
	ek := edgeKey{from, to, typ}
	if g.out[from] == nil {
		g.out[from] = make(map[edgeKey]bool)
	}
	if g.in[to] == nil {
		g.in[to] = make(map[edgeKey]bool)
	}
	g.out[from][ek] = true
	g.in[to][ek] = true
	return true
}

// retargetEdgesLocked rewrites every edge touching oldID so it
// touches newID instead, used to reconcile an external placeholder
// once the real entity registers (spec.md §4.7 pass 1).
func (g *Graph) retargetEdgesLocked(oldID, newID string) {
	for ek := range g.out[oldID] {
		delete(g.in[ek.to], ek)
		nk := edgeKey{newID, ek.to, ek.typ}
		if g.out[newID] == nil {
			g.out[newID] = make(map[edgeKey]bool)
		}
		g.out[newID][nk] = true
		if g.in[ek.to] == nil {
			g.in[ek.to] = make(map[edgeKey]bool)
		}
		g.in[ek.to][nk] = true
	}
	delete(g.out, oldID)

	for ek := range g.in[oldID] {
		delete(g.out[ek.from], ek)
		nk := edgeKey{ek.from, newID, ek.typ}
		if g.in[newID] == nil {
			g.in[newID] = make(map[edgeKey]bool)
		}
		g.in[newID][nk] = true
		if g.out[ek.from] == nil {
			g.out[ek.from] = make(map[edgeKey]bool)
		}
		g.out[ek.from][nk] = true
	}
	delete(g.in, oldID)
}

// ReconcilePlaceholder rewrites every edge incident to
// external:<name> onto newID, then removes the placeholder — the
// mechanism behind scenario S2 (external reconciliation). It is a
// no-op if no such placeholder exists.
func (g *Graph) ReconcilePlaceholder(name, newID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	placeholderID := entity.ExternalID(name)
	n, ok := g.nodes[placeholderID]
	if !ok || n.Kind != entity.KindExternal {
		return
	}
	g.retargetEdgesLocked(placeholderID, newID)
	delete(g.nodes, placeholderID)
}

// Successors returns the ids reachable from id by an edge of typ (or
// any type, if typ is "").
func (g *Graph) Successors(id string, typ EdgeType) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	var out []string
	for ek := range g.out[id] {
		if typ == "" || ek.typ == typ {
			out = append(out, ek.to)
		}
	}
	sort.Strings(out)
	return out
}

// Predecessors returns the ids with an edge of typ (or any type)
// pointing at id.
func (g *Graph) Predecessors(id string, typ EdgeType) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	var out []string
	for ek := range g.in[id] {
		if typ == "" || ek.typ == typ {
			out = append(out, ek.from)
		}
	}
	sort.Strings(out)
	return out
}

// EntitiesByFile returns the ids of every non-File entity defined in
// path.
func (g *Graph) EntitiesByFile(path string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	set := g.byFile[path]
	out := make([]string, 0, len(set))
	for id := range set {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// RemoveFile removes the File node for path and every entity it
// defines, returning the removed ids (spec.md §4.6/§4.7).
func (g *Graph) RemoveFile(path string) []string {
	g.mu.Lock()
	defer g.mu.Unlock()

	var removed []string
	for id := range g.byFile[path] {
		removed = append(removed, id)
	}
	sort.Strings(removed)
	for _, id := range removed {
		g.removeNodeLocked(id)
	}
	delete(g.byFile, path)

	for id, n := range g.nodes {
		if n.Kind == entity.KindFile && n.FilePath == path {
			removed = append(removed, id)
			g.removeNodeLocked(id)
			break
		}
	}
	return removed
}

// Statistics reports node counts by kind, for get_index_status.
type Statistics struct {
	TotalNodes  int
	ByKind      map[entity.Kind]int
	TotalEdges  int
}

func (g *Graph) Statistics() Statistics {
	g.mu.RLock()
	defer g.mu.RUnlock()
	stats := Statistics{TotalNodes: len(g.nodes), ByKind: make(map[entity.Kind]int)}
	for _, n := range g.nodes {
		stats.ByKind[n.Kind]++
	}
	for _, edges := range g.out {
		stats.TotalEdges += len(edges)
	}
	return stats
}

// AllNodes returns every node, sorted by id, for persistence and
// full-scan queries (find_symbol, weakly_connected_components).
func (g *Graph) AllNodes() []Node {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		out = append(out, *n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// AllEdges returns every edge as (from, to, type) triples.
type Edge struct {
	From, To string
	Type     EdgeType
}

func (g *Graph) AllEdges() []Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()
	var out []Edge
	for from, edges := range g.out {
		for ek := range edges {
			out = append(out, Edge{From: from, To: ek.to, Type: ek.typ})
		}
		_ = from
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].From != out[j].From {
			return out[i].From < out[j].From
		}
		if out[i].To != out[j].To {
			return out[i].To < out[j].To
		}
		return out[i].Type < out[j].Type
	})
	return out
}
