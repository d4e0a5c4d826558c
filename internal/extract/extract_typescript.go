package extract

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// tsHooks implements TypeScript's shapes: class names are
// type_identifier nodes (vs. JS's identifier), decorators use
// "@decorator" syntax like Python's but are a distinct grammar node,
// and the constructor rule is the literal method name "constructor".
type tsHooks struct{}

func (tsHooks) NameNode(def *sitter.Node, src []byte) *sitter.Node { return defaultNameNode(def) }

func (tsHooks) Docstring(def *sitter.Node, src []byte) string { return precedingCommentDocstring(def, src) }

func (tsHooks) ClassNameChain(def *sitter.Node, src []byte) string {
	return classChainFrom(def, src, "class_declaration")
}

func (tsHooks) Decorators(def *sitter.Node, src []byte) []string {
	return decoratorNamesFromSiblings(def, src, "decorator")
}

func (tsHooks) Bases(def *sitter.Node, src []byte) []string {
	clause := childByKind(def, "class_heritage")
	if clause == nil {
		return nil
	}
	var bases []string
	for i := uint(0); i < clause.NamedChildCount(); i++ {
		c := clause.NamedChild(i)
		if c == nil {
			continue
		}
		switch c.Kind() {
		case "extends_clause", "implements_clause":
			for j := uint(0); j < c.NamedChildCount(); j++ {
				if n := c.NamedChild(j); n != nil {
					bases = append(bases, nodeText(n, src))
				}
			}
		}
	}
	return bases
}

func (tsHooks) IsAsync(def *sitter.Node, src []byte) bool {
	for i := uint(0); i < def.ChildCount(); i++ {
		if c := def.Child(i); c != nil && c.Kind() == "async" {
			return true
		}
	}
	return false
}

func (tsHooks) IsConstructor(name, classChain string) bool {
	return name == "constructor" && classChain != ""
}
