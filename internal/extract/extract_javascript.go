package extract

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// jsHooks mirrors tsHooks except class names are plain identifier
// nodes in the JavaScript grammar (spec.md §4.2 rationale).
type jsHooks struct{}

func (jsHooks) NameNode(def *sitter.Node, src []byte) *sitter.Node { return defaultNameNode(def) }

func (jsHooks) Docstring(def *sitter.Node, src []byte) string { return precedingCommentDocstring(def, src) }

func (jsHooks) ClassNameChain(def *sitter.Node, src []byte) string {
	return classChainFrom(def, src, "class_declaration")
}

func (jsHooks) Decorators(def *sitter.Node, src []byte) []string {
	return decoratorNamesFromSiblings(def, src, "decorator")
}

func (jsHooks) Bases(def *sitter.Node, src []byte) []string {
	clause := childByKind(def, "class_heritage")
	if clause == nil {
		return nil
	}
	var bases []string
	for i := uint(0); i < clause.NamedChildCount(); i++ {
		if c := clause.NamedChild(i); c != nil {
			bases = append(bases, nodeText(c, src))
		}
	}
	return bases
}

func (jsHooks) IsAsync(def *sitter.Node, src []byte) bool {
	for i := uint(0); i < def.ChildCount(); i++ {
		if c := def.Child(i); c != nil && c.Kind() == "async" {
			return true
		}
	}
	return false
}

func (jsHooks) IsConstructor(name, classChain string) bool {
	return name == "constructor" && classChain != ""
}
