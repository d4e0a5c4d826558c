package extract

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// pythonHooks implements the Python-specific shapes of spec.md §4.3 and
// the glossary's is_constructor rule (__init__).
type pythonHooks struct{}

func (pythonHooks) NameNode(def *sitter.Node, src []byte) *sitter.Node {
	return defaultNameNode(def)
}

func (pythonHooks) Docstring(def *sitter.Node, src []byte) string {
	return pythonDocstring(def, src)
}

func (pythonHooks) ClassNameChain(def *sitter.Node, src []byte) string {
	return classChainFrom(def, src, "class_definition")
}

func (pythonHooks) Decorators(def *sitter.Node, src []byte) []string {
	return decoratorNamesFromSiblings(def, src, "decorator")
}

func (pythonHooks) Bases(def *sitter.Node, src []byte) []string {
	argList := childByKind(def, "argument_list")
	if argList == nil {
		return nil
	}
	var bases []string
	for i := uint(0); i < argList.NamedChildCount(); i++ {
		c := argList.NamedChild(i)
		if c == nil {
			continue
		}
		switch c.Kind() {
		case "identifier", "attribute":
			bases = append(bases, nodeText(c, src))
		}
	}
	return bases
}

func (pythonHooks) IsAsync(def *sitter.Node, src []byte) bool {
	for i := uint(0); i < def.ChildCount(); i++ {
		c := def.Child(i)
		if c != nil && c.Kind() == "async" {
			return true
		}
	}
	return strings.HasPrefix(strings.TrimSpace(nodeText(def, src)), "async ")
}

func (pythonHooks) IsConstructor(name, classChain string) bool {
	return name == "__init__"
}
