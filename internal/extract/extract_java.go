package extract

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// javaHooks: constructors are methods whose name equals the enclosing
// class (glossary), annotations are the decorator equivalent.
type javaHooks struct{}

func (javaHooks) NameNode(def *sitter.Node, src []byte) *sitter.Node { return defaultNameNode(def) }

func (javaHooks) Docstring(def *sitter.Node, src []byte) string { return precedingCommentDocstring(def, src) }

func (javaHooks) ClassNameChain(def *sitter.Node, src []byte) string {
	return classChainFrom(def, src, "class_declaration", "interface_declaration")
}

func (javaHooks) Decorators(def *sitter.Node, src []byte) []string {
	return decoratorNamesFromSiblings(def, src, "marker_annotation", "annotation")
}

func (javaHooks) Bases(def *sitter.Node, src []byte) []string {
	var bases []string
	if sc := def.ChildByFieldName("superclass"); sc != nil {
		for i := uint(0); i < sc.NamedChildCount(); i++ {
			if n := sc.NamedChild(i); n != nil {
				bases = append(bases, nodeText(n, src))
			}
		}
	}
	if iface := def.ChildByFieldName("interfaces"); iface != nil {
		for i := uint(0); i < iface.NamedChildCount(); i++ {
			if n := iface.NamedChild(i); n != nil {
				bases = append(bases, nodeText(n, src))
			}
		}
	}
	return bases
}

func (javaHooks) IsAsync(def *sitter.Node, src []byte) bool { return false } // Java has no async keyword

func (javaHooks) IsConstructor(name, classChain string) bool {
	if classChain == "" {
		return false
	}
	parts := splitDot(classChain)
	return name == parts[len(parts)-1]
}

func splitDot(s string) []string {
	var parts []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	parts = append(parts, s[start:])
	return parts
}
