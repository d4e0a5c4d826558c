package extract

import (
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// cHooks: C has no classes, decorators or async functions; the
// constructor rule never applies (glossary lists no C rule).
type cHooks struct{}

func (cHooks) NameNode(def *sitter.Node, src []byte) *sitter.Node { return defaultNameNode(def) }

func (cHooks) Docstring(def *sitter.Node, src []byte) string { return precedingCommentDocstring(def, src) }

func (cHooks) ClassNameChain(def *sitter.Node, src []byte) string { return "" }

func (cHooks) Decorators(def *sitter.Node, src []byte) []string { return nil }

func (cHooks) Bases(def *sitter.Node, src []byte) []string { return nil }

func (cHooks) IsAsync(def *sitter.Node, src []byte) bool { return false }

func (cHooks) IsConstructor(name, classChain string) bool { return false }
