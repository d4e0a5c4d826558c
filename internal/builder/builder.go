// Package builder is the graph builder (component G): it turns a
// parsed entity batch into graph nodes and typed edges, two passes at
// a time, and carries the external-placeholder reconciliation that
// makes incremental updates converge without a full rebuild.
package builder

import (
	"strings"

	"github.com/codeloom/codeloom/internal/entity"
	"github.com/codeloom/codeloom/internal/graph"
	"github.com/codeloom/codeloom/internal/langs"
	"github.com/codeloom/codeloom/internal/resolve"
	"github.com/codeloom/codeloom/internal/symtab"
)

// Builder is not safe for concurrent use by itself: spec.md §6 puts it
// on the single indexer worker, which serializes every mutating call.
type Builder struct {
	Graph   *graph.Graph
	Symbols *symtab.Table
	known   map[string]bool // file_path -> true, the resolver's known_files snapshot
}

func New() *Builder {
	return &Builder{
		Graph:   graph.New(),
		Symbols: symtab.New(),
		known:   make(map[string]bool),
	}
}

// NewWithGraph resumes building on top of an already-persisted graph
// (loaded via graph.Load): it rebuilds the symbol table and known-files
// set from the graph's own node payloads, since neither survives a
// process restart, without re-wiring edges that are already persisted.
func NewWithGraph(g *graph.Graph) *Builder {
	b := &Builder{Graph: g, Symbols: symtab.New(), known: make(map[string]bool)}
	var entities []entity.Entity
	for _, n := range g.AllNodes() {
		if n.Payload != nil {
			entities = append(entities, n.Payload)
		}
	}
	b.populate(entities)
	return b
}

// KnownFiles returns the resolver-facing snapshot of tracked source
// file paths.
func (b *Builder) KnownFiles() resolve.KnownFiles {
	return resolve.KnownFiles(b.known)
}

// Build is the cold-start contract: populate then wire edges for the
// whole entity set in one shot.
func (b *Builder) Build(entities []entity.Entity) {
	b.populate(entities)
	b.wireEdges(entities)
}

// UpdateFile is the incremental-update contract (spec.md §4.7): it
// first removes path's prior nodes/symbols, then re-runs both passes
// for the new entity set.
func (b *Builder) UpdateFile(path string, entities []entity.Entity) {
	b.RemoveFile(path)
	b.populate(entities)
	b.wireEdges(entities)
}

// RemoveFile removes path's graph nodes and unregisters its symbols.
func (b *Builder) RemoveFile(path string) []string {
	removed := b.Graph.RemoveFile(path)
	for _, id := range removed {
		b.Symbols.Unregister(id)
	}
	delete(b.known, path)
	return removed
}

// populate is pass 1: add every entity as a node, register its name
// in the symbol table, and reconcile any external placeholder that
// shares its name (spec.md §4.7 step 1).
func (b *Builder) populate(entities []entity.Entity) {
	for _, e := range entities {
		b.Graph.AddNode(e)

		switch v := e.(type) {
		case entity.File:
			b.known[v.FilePath] = true
		case entity.Function:
			qualified := ""
			if v.ClassName != "" {
				qualified = v.ClassName + "." + v.Name
			}
			b.Symbols.Register(v.ID(), v.Name, v.FilePath, qualified, isExported(v.Name))
			b.Graph.ReconcilePlaceholder(v.Name, v.ID())
		case entity.Class:
			b.Symbols.Register(v.ID(), v.Name, v.FilePath, "", isExported(v.Name))
			b.Graph.ReconcilePlaceholder(v.Name, v.ID())
		case entity.TypeDefinition:
			b.Symbols.Register(v.ID(), v.Name, v.FilePath, "", isExported(v.Name))
			b.Graph.ReconcilePlaceholder(v.Name, v.ID())
		}
	}
}

// wireEdges is pass 2: emit the typed edges spec.md §4.7 lists for
// each entity variant.
func (b *Builder) wireEdges(entities []entity.Entity) {
	for _, e := range entities {
		switch v := e.(type) {
		case entity.Function:
			for _, call := range v.Calls {
				b.linkOrPlaceholder(v.ID(), call, v.FilePath, graph.Calls)
			}
			if v.ClassName != "" {
				classID := v.Repo + ":" + v.FilePath + ":" + v.ClassName
				if b.Graph.Has(classID) {
					b.Graph.AddEdge(classID, v.ID(), graph.Contains)
				}
			}
		case entity.Class:
			for _, base := range v.Bases {
				b.linkOrPlaceholder(v.ID(), base, v.FilePath, graph.Inherits)
			}
		case entity.File:
			for _, id := range v.Defines {
				if b.Graph.Has(id) {
					b.Graph.AddEdge(v.ID(), id, graph.Defines)
				}
			}
			tag := langs.Tag(v.Language)
			for _, raw := range v.Imports {
				resolved := resolve.Resolve(tag, raw, v.FilePath, b.KnownFiles())
				if !resolved.IsExternal && resolved.ResolvedPath != "" {
					targetID := v.Repo + ":" + resolved.ResolvedPath
					if b.Graph.Has(targetID) {
						b.Graph.AddEdge(v.ID(), targetID, graph.Imports)
						continue
					}
				}
				placeholderID := entity.ExternalID(raw)
				b.Graph.EnsurePlaceholder(placeholderID)
				b.Graph.AddEdge(v.ID(), placeholderID, graph.Imports)
			}
		}
	}
}

// linkOrPlaceholder resolves name from contextFile via the symbol
// table and adds an edge of typ; on miss it creates (or reuses) the
// external:<name> placeholder, per spec.md §4.7 pass 2.
func (b *Builder) linkOrPlaceholder(fromID, name, contextFile string, typ graph.EdgeType) {
	if id, ok := b.Symbols.Resolve(name, contextFile); ok {
		b.Graph.AddEdge(fromID, id, typ)
		return
	}
	placeholderID := entity.ExternalID(name)
	b.Graph.EnsurePlaceholder(placeholderID)
	b.Graph.AddEdge(fromID, placeholderID, typ)
}

// isExported is a deliberately simple, language-agnostic proxy for
// "visible outside its file": a leading underscore marks a name
// private in every language this system parses (Python convention,
// C/C++ static-like intent, Dart library-private). Go's capitalized-
// export rule is a strict superset of callers actually relying on
// this for resolution fallthrough, so it is not special-cased.
func isExported(name string) bool {
	return name != "" && !strings.HasPrefix(name, "_")
}
