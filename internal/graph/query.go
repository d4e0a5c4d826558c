package graph

import (
	"sort"
	"strings"

	"github.com/hbollon/go-edlib"
)

// WeaklyConnectedComponents groups node ids by treating every edge as
// undirected, per spec.md §4.6.
func (g *Graph) WeaklyConnectedComponents() [][]string {
	g.mu.RLock()
	adjacency := make(map[string]map[string]bool, len(g.nodes))
	for id := range g.nodes {
		adjacency[id] = make(map[string]bool)
	}
	for from, edges := range g.out {
		for ek := range edges {
			adjacency[from][ek.to] = true
			adjacency[ek.to][from] = true
		}
	}
	ids := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	g.mu.RUnlock()

	sort.Strings(ids)
	visited := make(map[string]bool, len(ids))
	var components [][]string
	for _, start := range ids {
		if visited[start] {
			continue
		}
		var component []string
		queue := []string{start}
		visited[start] = true
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			component = append(component, cur)
			var neighbors []string
			for n := range adjacency[cur] {
				neighbors = append(neighbors, n)
			}
			sort.Strings(neighbors)
			for _, n := range neighbors {
				if !visited[n] {
					visited[n] = true
					queue = append(queue, n)
				}
			}
		}
		sort.Strings(component)
		components = append(components, component)
	}
	return components
}

// AllSimplePaths enumerates simple (no repeated node) directed paths
// from src to dst of at most maxLen edges, per spec.md §4.6. Cyclic
// graphs are handled by the per-path visited set, not global memoing,
// since paths must be simple.
func (g *Graph) AllSimplePaths(src, dst string, maxLen int) [][]string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if _, ok := g.nodes[src]; !ok {
		return nil
	}
	if _, ok := g.nodes[dst]; !ok {
		return nil
	}

	var paths [][]string
	visited := map[string]bool{src: true}
	var walk func(cur string, path []string)
	walk = func(cur string, path []string) {
		if cur == dst {
			paths = append(paths, append([]string(nil), path...))
			return
		}
		if len(path) >= maxLen+1 {
			return
		}
		var next []string
		for ek := range g.out[cur] {
			next = append(next, ek.to)
		}
		sort.Strings(next)
		for _, n := range next {
			if visited[n] {
				continue
			}
			visited[n] = true
			walk(n, append(path, n))
			visited[n] = false
		}
	}
	walk(src, []string{src})
	return paths
}

// SymbolMatch is one find_symbol hit, ranked by score descending.
type SymbolMatch struct {
	ID    string
	Name  string
	Score float64
}

// FindSymbol is a linear scan of graph nodes scored by exact-match,
// suffix-match, then fuzzy similarity, with a same-file boost, per
// spec.md §9 ("Symbol registry vs. inverted index"). It deliberately
// does not consult the symbol table.
func (g *Graph) FindSymbol(query, contextFile string, limit int) []SymbolMatch {
	g.mu.RLock()
	nodes := make([]Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		if n.Kind == "" {
			continue
		}
		nodes = append(nodes, *n)
	}
	g.mu.RUnlock()

	const sameFileBoost = 0.1
	var matches []SymbolMatch
	strongHit := false
	for _, n := range nodes {
		if n.Name == "" {
			continue
		}
		score := symbolScore(query, n.Name)
		if score <= 0 {
			continue
		}
		if score >= 2.0 {
			strongHit = true
		}
		if contextFile != "" && n.FilePath == contextFile {
			score += sameFileBoost
		}
		matches = append(matches, SymbolMatch{ID: n.ID, Name: n.Name, Score: score})
	}
	if strongHit {
		// Fuzzy hits only fill in when no exact or suffix match exists.
		kept := matches[:0]
		for _, m := range matches {
			if m.Score >= 2.0 {
				kept = append(kept, m)
			}
		}
		matches = kept
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].ID < matches[j].ID
	})
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

func symbolScore(query, name string) float64 {
	switch {
	case name == query:
		return 3.0
	case strings.HasSuffix(name, "."+query) || strings.HasSuffix(name, query):
		return 2.0
	default:
		sim, err := edlib.StringsSimilarity(query, name, edlib.JaroWinkler)
		if err != nil || sim < 0.75 {
			return 0
		}
		return float64(sim)
	}
}
