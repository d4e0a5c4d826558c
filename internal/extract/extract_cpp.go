package extract

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// cppHooks: methods defined inside a class body nest lexically like
// Java/JS; out-of-line definitions use a qualified_identifier
// declarator, handled by the bundle's nested-declarator query
// patterns (spec.md §4.3 edge case: "nested declarator for C/C++").
// The constructor rule matches a method name equal to its class.
type cppHooks struct{}

func (cppHooks) NameNode(def *sitter.Node, src []byte) *sitter.Node { return defaultNameNode(def) }

func (cppHooks) Docstring(def *sitter.Node, src []byte) string { return precedingCommentDocstring(def, src) }

func (cppHooks) ClassNameChain(def *sitter.Node, src []byte) string {
	if chain := classChainFrom(def, src, "class_specifier", "struct_specifier"); chain != "" {
		return chain
	}
	// Out-of-line definition: `Outer::method(...) { ... }` declares
	// name as a qualified_identifier; its scope prefix is the chain.
	declarator := childByKind(def, "function_declarator")
	if declarator == nil {
		return ""
	}
	qid := childByKind(declarator, "qualified_identifier")
	if qid == nil {
		return ""
	}
	scope := qid.ChildByFieldName("scope")
	if scope == nil {
		return ""
	}
	return nodeText(scope, src)
}

func (cppHooks) Decorators(def *sitter.Node, src []byte) []string {
	return decoratorNamesFromSiblings(def, src, "attribute_declaration")
}

func (cppHooks) Bases(def *sitter.Node, src []byte) []string {
	clause := childByKind(def, "base_class_clause")
	if clause == nil {
		return nil
	}
	var bases []string
	for i := uint(0); i < clause.NamedChildCount(); i++ {
		if n := clause.NamedChild(i); n != nil {
			bases = append(bases, nodeText(n, src))
		}
	}
	return bases
}

func (cppHooks) IsAsync(def *sitter.Node, src []byte) bool { return false }

func (cppHooks) IsConstructor(name, classChain string) bool {
	if classChain == "" {
		return false
	}
	parts := splitDot(classChain)
	return name == parts[len(parts)-1]
}
