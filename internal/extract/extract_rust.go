package extract

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// rustHooks implements Rust's shapes: methods live inside `impl`
// blocks rather than trait/struct bodies, so ClassNameChain reads the
// impl's type name; the constructor rule matches "new"/"new_*"
// associated functions per the glossary.
type rustHooks struct{}

func (rustHooks) NameNode(def *sitter.Node, src []byte) *sitter.Node { return defaultNameNode(def) }

func (rustHooks) Docstring(def *sitter.Node, src []byte) string {
	// Rust doc comments ("///" or "/** */") lex as sequential `line_comment`/
	// `block_comment` siblings; reuse the generic preceding-comment rule.
	return precedingCommentDocstring(def, src)
}

func (rustHooks) ClassNameChain(def *sitter.Node, src []byte) string {
	impl := findParent(def, "impl_item")
	if impl == nil {
		return ""
	}
	typeNode := impl.ChildByFieldName("type")
	if typeNode == nil {
		return ""
	}
	return nodeText(typeNode, src)
}

func (rustHooks) Decorators(def *sitter.Node, src []byte) []string {
	return decoratorNamesFromSiblings(def, src, "attribute_item")
}

func (rustHooks) Bases(def *sitter.Node, src []byte) []string {
	// trait_item's supertraits, e.g. `trait Foo: Bar + Baz`.
	var bases []string
	for i := uint(0); i < def.ChildCount(); i++ {
		c := def.Child(i)
		if c != nil && c.Kind() == "trait_bounds" {
			for j := uint(0); j < c.NamedChildCount(); j++ {
				if n := c.NamedChild(j); n != nil {
					bases = append(bases, nodeText(n, src))
				}
			}
		}
	}
	return bases
}

func (rustHooks) IsAsync(def *sitter.Node, src []byte) bool {
	for i := uint(0); i < def.ChildCount(); i++ {
		if c := def.Child(i); c != nil && c.Kind() == "async" {
			return true
		}
	}
	return false
}

func (rustHooks) IsConstructor(name, classChain string) bool {
	return classChain != "" && (name == "new" || strings.HasPrefix(name, "new_"))
}
