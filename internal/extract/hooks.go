package extract

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/codeloom/codeloom/internal/langs"
)

// hooks isolates the per-language shapes spec.md §4.3 calls out
// (docstring location, decorator syntax, constructor naming, async
// keyword, name-node fallback) so the extraction algorithm in
// extract.go stays generic across all nine languages.
type hooks interface {
	// NameNode returns the identifier node naming def when the query
	// didn't already capture one (spec.md §4.3 edge case: Dart's
	// function_signature/method_signature name is a sibling, not a
	// labeled field; the default binds to the first identifier found).
	NameNode(def *sitter.Node, src []byte) *sitter.Node
	// Docstring extracts the doc comment/string associated with def.
	Docstring(def *sitter.Node, src []byte) string
	// ClassNameChain walks the parent chain of def collecting enclosing
	// class names, joined inner-to-outer reversed with "." (spec.md
	// §4.3: "Outer.Inner").
	ClassNameChain(def *sitter.Node, src []byte) string
	// Decorators returns decorator/annotation/attribute names applied
	// to def, own or immediately preceding, names only (arguments
	// stripped via AST, never regex).
	Decorators(def *sitter.Node, src []byte) []string
	// Bases returns the list of base/superclass/interface names for a
	// class definition node.
	Bases(def *sitter.Node, src []byte) []string
	// IsAsync reports whether def is an async function.
	IsAsync(def *sitter.Node, src []byte) bool
	// IsConstructor applies the glossary's per-language constructor
	// rule given the bare function name and its enclosing class chain.
	IsConstructor(name, classChain string) bool
}

var hooksByTag = map[langs.Tag]hooks{
	langs.Python:     pythonHooks{},
	langs.TypeScript: tsHooks{},
	langs.JavaScript: jsHooks{},
	langs.Go:         goHooks{},
	langs.Rust:       rustHooks{},
	langs.Java:        javaHooks{},
	langs.C:           cHooks{},
	langs.Cpp:         cppHooks{},
	langs.Dart:        dartHooks{},
}

// --- shared helpers used by multiple languages' hook implementations ---

// defaultNameNode returns the first identifier-shaped descendant of
// node, the fallback spec.md §4.3 mandates when no @function.name (or
// @class.name) capture exists for a match.
func defaultNameNode(node *sitter.Node) *sitter.Node {
	var walk func(n *sitter.Node) *sitter.Node
	walk = func(n *sitter.Node) *sitter.Node {
		for i := uint(0); i < n.ChildCount(); i++ {
			c := n.Child(i)
			if c == nil {
				continue
			}
			switch c.Kind() {
			case "identifier", "property_identifier", "field_identifier", "type_identifier":
				return c
			}
		}
		for i := uint(0); i < n.ChildCount(); i++ {
			if c := n.Child(i); c != nil {
				if found := walk(c); found != nil {
					return found
				}
			}
		}
		return nil
	}
	return walk(node)
}

// precedingCommentDocstring implements the curly-brace-language rule:
// the immediately preceding "/** ... */" or "//" comment node.
func precedingCommentDocstring(def *sitter.Node, src []byte) string {
	parent := def.Parent()
	if parent == nil {
		return ""
	}
	var prev *sitter.Node
	for i := uint(0); i < parent.ChildCount(); i++ {
		c := parent.Child(i)
		if c == nil {
			continue
		}
		if c.StartByte() == def.StartByte() && c.EndByte() == def.EndByte() {
			break
		}
		if c.Kind() == "comment" {
			prev = c
		} else if strings.TrimSpace(nodeText(c, src)) != "" {
			prev = nil // non-comment, non-blank sibling breaks adjacency
		}
	}
	if prev == nil {
		return ""
	}
	return strings.TrimSpace(nodeText(prev, src))
}

// pythonDocstring implements the §4.3 rule: the first string expression
// statement of the function/class body block.
func pythonDocstring(def *sitter.Node, src []byte) string {
	block := childByKind(def, "block")
	if block == nil {
		return ""
	}
	for i := uint(0); i < block.NamedChildCount(); i++ {
		stmt := block.NamedChild(i)
		if stmt == nil {
			continue
		}
		if stmt.Kind() != "expression_statement" {
			return ""
		}
		if stmt.NamedChildCount() == 0 {
			return ""
		}
		expr := stmt.NamedChild(0)
		if expr.Kind() == "string" {
			return strings.Trim(nodeText(expr, src), "\"'")
		}
		return ""
	}
	return ""
}

func childByKind(node *sitter.Node, kind string) *sitter.Node {
	for i := uint(0); i < node.NamedChildCount(); i++ {
		c := node.NamedChild(i)
		if c != nil && c.Kind() == kind {
			return c
		}
	}
	return nil
}

// classChainFrom walks node's ancestors collecting the name of every
// enclosing class-shaped node, identified by classKinds, and returns
// them joined inner-to-outer reversed ("Outer.Inner").
func classChainFrom(node *sitter.Node, src []byte, classKinds ...string) string {
	var names []string
	cur := node.Parent()
	for cur != nil {
		if contains(classKinds, cur.Kind()) {
			if n := defaultNameNode(cur); n != nil {
				names = append(names, nodeText(n, src))
			}
		}
		cur = cur.Parent()
	}
	if len(names) == 0 {
		return ""
	}
	// names were collected innermost-first while walking outward; the
	// spec wants "Outer.Inner", i.e. outermost first.
	reversed := make([]string, len(names))
	for i, n := range names {
		reversed[len(names)-1-i] = n
	}
	return strings.Join(reversed, ".")
}

func contains(xs []string, x string) bool {
	for _, v := range xs {
		if v == x {
			return true
		}
	}
	return false
}

// decoratorNamesFromSiblings collects names from preceding sibling
// nodes whose Kind is one of decoratorKinds (Python @decorator, Java
// annotations, Rust attribute_item), stopping at the first
// non-decorator, non-blank sibling.
func decoratorNamesFromSiblings(def *sitter.Node, src []byte, decoratorKinds ...string) []string {
	parent := def.Parent()
	if parent == nil {
		return nil
	}
	var found []*sitter.Node
	for i := uint(0); i < parent.ChildCount(); i++ {
		c := parent.Child(i)
		if c == nil {
			continue
		}
		if c.StartByte() == def.StartByte() && c.EndByte() == def.EndByte() {
			break
		}
		if contains(decoratorKinds, c.Kind()) {
			found = append(found, c)
		} else if strings.TrimSpace(nodeText(c, src)) != "" {
			found = nil
		}
	}
	names := make([]string, 0, len(found))
	for _, d := range found {
		name := decoratorBareName(d, src)
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}

// decoratorBareName strips call arguments from a decorator/annotation
// node via the AST (never regex): it walks to the first identifier or
// dotted-name-shaped child and stops before any argument list.
func decoratorBareName(d *sitter.Node, src []byte) string {
	if n := d.ChildByFieldName("name"); n != nil {
		return nodeText(n, src)
	}
	for i := uint(0); i < d.ChildCount(); i++ {
		c := d.Child(i)
		if c == nil {
			continue
		}
		switch c.Kind() {
		case "identifier", "dotted_name", "scoped_identifier", "type_identifier":
			return nodeText(c, src)
		case "call", "call_expression", "attribute":
			return decoratorBareName(c, src)
		}
	}
	return ""
}
