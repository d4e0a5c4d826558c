package extract

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// capture is one named capture produced by running a query over a tree.
type capture struct {
	name string
	node *sitter.Node
}

// runQuery executes a tree-sitter query string against root and returns
// every capture from every match, grouped by the match that produced
// them so callers can correlate e.g. @function.def with @function.name
// from the same match (spec.md §4.3 step 2).
func runQuery(lang *sitter.Language, queryStr string, root *sitter.Node, src []byte) ([][]capture, error) {
	if queryStr == "" {
		return nil, nil
	}
	q, qErr := sitter.NewQuery(lang, queryStr)
	if qErr != nil {
		return nil, qErr
	}
	defer q.Close()

	names := q.CaptureNames()
	cursor := sitter.NewQueryCursor()
	defer cursor.Close()

	matches := cursor.Matches(q, root, src)
	var out [][]capture
	for {
		m := matches.Next()
		if m == nil {
			break
		}
		var caps []capture
		for _, c := range m.Captures {
			idx := int(c.Index)
			name := ""
			if idx >= 0 && idx < len(names) {
				name = names[idx]
			}
			node := c.Node
			caps = append(caps, capture{name: name, node: &node})
		}
		out = append(out, caps)
	}
	return out, nil
}

// captureByName returns the first capture in caps with the given name.
func captureByName(caps []capture, name string) *sitter.Node {
	for _, c := range caps {
		if c.name == name {
			return c.node
		}
	}
	return nil
}

func allCapturesByName(caps []capture, name string) []*sitter.Node {
	var out []*sitter.Node
	for _, c := range caps {
		if c.name == name {
			out = append(out, c.node)
		}
	}
	return out
}

func nodeText(node *sitter.Node, src []byte) string {
	if node == nil {
		return ""
	}
	return string(src[node.StartByte():node.EndByte()])
}

// lineRange converts a node's 0-indexed tree-sitter points into the
// 1-indexed inclusive start/end lines spec.md §3 records on Location.
func lineRange(node *sitter.Node) (int, int) {
	if node == nil {
		return 0, 0
	}
	start := node.StartPosition()
	end := node.EndPosition()
	return int(start.Row) + 1, int(end.Row) + 1
}

// findParent walks up from node looking for an ancestor whose Kind is
// in kinds, used for class-context and decorator lookups.
func findParent(node *sitter.Node, kinds ...string) *sitter.Node {
	cur := node.Parent()
	for cur != nil {
		k := cur.Kind()
		for _, want := range kinds {
			if k == want {
				return cur
			}
		}
		cur = cur.Parent()
	}
	return nil
}

func hasErrorDescendant(node *sitter.Node) bool {
	if node.IsError() || node.IsMissing() {
		return true
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		if c := node.Child(i); c != nil && hasErrorDescendant(c) {
			return true
		}
	}
	return false
}
