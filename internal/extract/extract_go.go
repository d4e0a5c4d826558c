package extract

import (
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

// goHooks implements the Go grammar's shapes: methods carry a receiver
// rather than living lexically inside a class body, so ClassNameChain
// reads the receiver's type name instead of walking parents; the
// constructor rule is name-pattern based ("New*"), per the glossary.
type goHooks struct{}

func (goHooks) NameNode(def *sitter.Node, src []byte) *sitter.Node { return defaultNameNode(def) }

func (goHooks) Docstring(def *sitter.Node, src []byte) string { return precedingCommentDocstring(def, src) }

func (goHooks) ClassNameChain(def *sitter.Node, src []byte) string {
	if def.Kind() != "method_declaration" {
		return ""
	}
	recv := def.ChildByFieldName("receiver")
	if recv == nil {
		return ""
	}
	param := recv.NamedChild(0)
	if param == nil {
		return ""
	}
	typeNode := param.ChildByFieldName("type")
	if typeNode == nil {
		return ""
	}
	name := nodeText(typeNode, src)
	return strings.TrimPrefix(name, "*")
}

func (goHooks) Decorators(def *sitter.Node, src []byte) []string { return nil } // Go has no decorator syntax

func (goHooks) Bases(def *sitter.Node, src []byte) []string {
	// struct embedding: unnamed fields in the field_declaration_list
	// are treated as the struct's "bases" for graph INHERITS edges.
	body := childByKind(def, "struct_type")
	if body == nil {
		return nil
	}
	fields := childByKind(body, "field_declaration_list")
	if fields == nil {
		return nil
	}
	var bases []string
	for i := uint(0); i < fields.NamedChildCount(); i++ {
		fd := fields.NamedChild(i)
		if fd == nil || fd.Kind() != "field_declaration" {
			continue
		}
		if fd.ChildByFieldName("name") == nil {
			if t := fd.ChildByFieldName("type"); t != nil {
				bases = append(bases, strings.TrimPrefix(nodeText(t, src), "*"))
			}
		}
	}
	return bases
}

func (goHooks) IsAsync(def *sitter.Node, src []byte) bool { return false } // Go has no async functions

func (goHooks) IsConstructor(name, classChain string) bool {
	return strings.HasPrefix(name, "New")
}
