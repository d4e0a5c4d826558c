package extract

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// dartHooks handles the grammar quirk spec.md §4.3 calls out: Dart's
// function_signature/method_signature nodes hold their name as an
// unlabeled sibling rather than a named field, so NameNode searches
// within the signature node itself instead of relying on a capture.
// Constructors are default or named ("ClassName.named") forms on a
// class, per the glossary.
type dartHooks struct{}

func (dartHooks) NameNode(def *sitter.Node, src []byte) *sitter.Node { return defaultNameNode(def) }

func (dartHooks) Docstring(def *sitter.Node, src []byte) string { return precedingCommentDocstring(def, src) }

func (dartHooks) ClassNameChain(def *sitter.Node, src []byte) string {
	return classChainFrom(def, src, "class_definition")
}

func (dartHooks) Decorators(def *sitter.Node, src []byte) []string {
	return decoratorNamesFromSiblings(def, src, "annotation", "marker_annotation")
}

func (dartHooks) Bases(def *sitter.Node, src []byte) []string {
	var bases []string
	for _, kind := range []string{"superclass", "interfaces", "mixins"} {
		if n := def.ChildByFieldName(kind); n != nil {
			for i := uint(0); i < n.NamedChildCount(); i++ {
				if c := n.NamedChild(i); c != nil {
					bases = append(bases, nodeText(c, src))
				}
			}
		}
	}
	return bases
}

func (dartHooks) IsAsync(def *sitter.Node, src []byte) bool {
	return strings.Contains(nodeText(def, src), "async")
}

func (dartHooks) IsConstructor(name, classChain string) bool {
	if classChain == "" {
		return false
	}
	last := classChain
	if i := strings.LastIndexByte(classChain, '.'); i >= 0 {
		last = classChain[i+1:]
	}
	return name == last || strings.HasPrefix(name, last+".")
}
