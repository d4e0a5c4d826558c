// Package extract is the tree-sitter extractor (component C): it turns
// a parsed byte buffer into the uniform entity list of spec.md §3,
// using the per-language query bundle from internal/langs and the
// per-language hook set in hooks.go for the shapes that differ.
package extract

import (
	"fmt"
	"sort"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/codeloom/codeloom/internal/entity"
	"github.com/codeloom/codeloom/internal/langs"
)

// Parse implements the public contract of spec.md §4.3:
// parse(language, source_bytes, file_path, repo_name) -> entities.
// It never performs I/O; callers are responsible for reading the file.
// hadErrors reports whether the parse tree contained ERROR/MISSING
// nodes — extraction still proceeds best-effort (spec.md §4.3 failure
// modes), the flag is purely diagnostic for the caller's logs.
func Parse(tag langs.Tag, src []byte, filePath, repo string) (entities []entity.Entity, hadErrors bool, err error) {
	bundle := langs.Get(tag)
	if bundle == nil {
		return nil, false, nil // unsupported language: empty list, not an error
	}
	h, ok := hooksByTag[tag]
	if !ok {
		return nil, false, fmt.Errorf("extract: no hooks registered for language %q", tag)
	}

	lang := bundle.Grammar()
	parser := sitter.NewParser()
	defer parser.Close()
	if setErr := parser.SetLanguage(lang); setErr != nil {
		return nil, false, fmt.Errorf("extract: set language %q: %w", tag, setErr)
	}

	tree := parser.Parse(src, nil)
	if tree == nil {
		return nil, false, fmt.Errorf("extract: parser returned no tree for %s", filePath)
	}
	defer tree.Close()

	root := tree.RootNode()
	hadErrors = hasErrorDescendant(root)

	x := &extraction{
		lang:     lang,
		bundle:   bundle,
		hooks:    h,
		src:      src,
		repo:     repo,
		filePath: filePath,
	}
	return x.run(root), hadErrors, nil
}

type extraction struct {
	lang     *sitter.Language
	bundle   *langs.Bundle
	hooks    hooks
	src      []byte
	repo     string
	filePath string
}

func (x *extraction) run(root *sitter.Node) []entity.Entity {
	callMatches, _ := runQuery(x.lang, x.bundle.CallQuery, root, x.src)
	var allCalls []capture
	for _, m := range callMatches {
		allCalls = append(allCalls, m...)
	}

	functions := x.extractFunctions(root, allCalls)
	classes := x.extractClasses(root)
	types := x.extractTypes(root)
	x.attachMethods(classes, functions)

	var defines []string
	var all []entity.Entity
	for _, f := range functions {
		all = append(all, f)
		defines = append(defines, f.ID())
	}
	for _, c := range classes {
		all = append(all, c)
		defines = append(defines, c.ID())
	}
	for _, t := range types {
		all = append(all, t)
		defines = append(defines, t.ID())
	}

	file := entity.File{
		Location: entity.Location{Repo: x.repo, FilePath: x.filePath},
		Language: string(x.bundle.Tag),
		Imports:  x.extractImports(root),
		Defines:  defines,
	}
	return append([]entity.Entity{file}, all...)
}

func (x *extraction) extractFunctions(root *sitter.Node, allCalls []capture) []entity.Function {
	matches, _ := runQuery(x.lang, x.bundle.FunctionQuery, root, x.src)
	var out []entity.Function
	for _, caps := range matches {
		def := captureByName(caps, "function.def")
		if def == nil {
			continue
		}
		nameNode := captureByName(caps, "function.name")
		if nameNode == nil {
			nameNode = x.hooks.NameNode(def, x.src)
		}
		if nameNode == nil {
			continue
		}
		name := nodeText(nameNode, x.src)
		classChain := x.hooks.ClassNameChain(def, x.src)
		start, end := lineRange(def)

		out = append(out, entity.Function{
			Location: entity.Location{
				Repo: x.repo, FilePath: x.filePath, Name: name,
				StartLine: start, EndLine: end,
			},
			Signature:     name + paramsText(def, x.src),
			Docstring:     x.hooks.Docstring(def, x.src),
			Code:          nodeText(def, x.src),
			ClassName:     classChain,
			Decorators:    x.hooks.Decorators(def, x.src),
			Calls:         callsWithin(def, allCalls, x.src),
			IsAsync:       x.hooks.IsAsync(def, x.src),
			IsConstructor: x.hooks.IsConstructor(name, classChain),
		})
	}
	return out
}

func (x *extraction) extractClasses(root *sitter.Node) []entity.Class {
	matches, _ := runQuery(x.lang, x.bundle.ClassQuery, root, x.src)
	var out []entity.Class
	for _, caps := range matches {
		def := captureByName(caps, "class.def")
		if def == nil {
			continue
		}
		nameNode := captureByName(caps, "class.name")
		if nameNode == nil {
			nameNode = x.hooks.NameNode(def, x.src)
		}
		if nameNode == nil {
			continue
		}
		start, end := lineRange(def)
		out = append(out, entity.Class{
			Location: entity.Location{
				Repo: x.repo, FilePath: x.filePath, Name: nodeText(nameNode, x.src),
				StartLine: start, EndLine: end,
			},
			Docstring:   x.hooks.Docstring(def, x.src),
			Code:        nodeText(def, x.src),
			Bases:       x.hooks.Bases(def, x.src),
			Decorators:  x.hooks.Decorators(def, x.src),
			IsInterface: isInterfaceKind(def.Kind()),
		})
	}
	return out
}

func (x *extraction) extractTypes(root *sitter.Node) []entity.TypeDefinition {
	if x.bundle.TypeQuery == "" {
		return nil
	}
	matches, _ := runQuery(x.lang, x.bundle.TypeQuery, root, x.src)
	var out []entity.TypeDefinition
	for _, caps := range matches {
		def := captureByName(caps, "type.def")
		if def == nil {
			continue
		}
		nameNode := captureByName(caps, "type.name")
		if nameNode == nil {
			nameNode = x.hooks.NameNode(def, x.src)
		}
		if nameNode == nil {
			continue
		}
		start, end := lineRange(def)
		shape := def.Kind()
		if inner := def.ChildByFieldName("type"); shape == "type_spec" && inner != nil {
			shape = inner.Kind()
		}
		out = append(out, entity.TypeDefinition{
			Location: entity.Location{
				Repo: x.repo, FilePath: x.filePath, Name: nodeText(nameNode, x.src),
				StartLine: start, EndLine: end,
			},
			Definition: nodeText(def, x.src),
			Docstring:  x.hooks.Docstring(def, x.src),
			Kind:       kindFromNodeKind(shape),
		})
	}
	return out
}

// attachMethods fills Class.Methods from functions whose ClassName
// chain matches the class's own name, per spec.md §4.3 step 4
// ("recursive scan for function-shaped nodes inside the body").
// entity.Class only records its own unqualified name, while a nested
// class's methods carry the full dotted chain (e.g. "Outer.Inner"), so
// the match is against the chain's last segment rather than equality.
func (x *extraction) attachMethods(classes []entity.Class, functions []entity.Function) {
	for i := range classes {
		var methods []string
		for _, f := range functions {
			if lastSegment(f.ClassName) == classes[i].Name {
				methods = append(methods, f.Name)
			}
		}
		classes[i].Methods = methods
	}
}

func lastSegment(classChain string) string {
	if idx := strings.LastIndex(classChain, "."); idx != -1 {
		return classChain[idx+1:]
	}
	return classChain
}

func (x *extraction) extractImports(root *sitter.Node) []string {
	matches, _ := runQuery(x.lang, x.bundle.ImportQuery, root, x.src)
	seen := map[string]bool{}
	var out []string
	for _, caps := range matches {
		for _, key := range []string{"import.name", "import.module", "import.path", "import.source"} {
			for _, n := range allCapturesByName(caps, key) {
				raw := stripImportDelimiters(nodeText(n, x.src))
				if raw == "" || seen[raw] {
					continue
				}
				seen[raw] = true
				out = append(out, raw)
			}
		}
	}
	sort.Strings(out) // deduplicate is order-independent per spec.md §4.3 step 6
	return out
}

// stripImportDelimiters trims surrounding quotes but deliberately
// keeps a C/C++ system_lib_string's angle brackets intact: resolve/c.go
// uses them to tell `<system.h>` (always external) from `"local.h"`
// (relative, per spec.md §4.4).
func stripImportDelimiters(s string) string {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, "\"'")
	return s
}

// callsWithin returns the deduplicated union of @call.name and
// @call.method captures whose node lies inside def's byte range —
// equivalent to "run the call query over the body" (spec.md §4.3 step
// 3) without re-querying per function.
func callsWithin(def *sitter.Node, allCalls []capture, src []byte) []string {
	seen := map[string]bool{}
	var out []string
	for _, c := range allCalls {
		if c.node.StartByte() < def.StartByte() || c.node.EndByte() > def.EndByte() {
			continue
		}
		if c.name != "call.name" && c.name != "call.method" {
			continue
		}
		name := nodeText(c.node, src)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}

// paramsText returns the source text of def's parameter list, used to
// build Function.Signature ("name + captured parameter list text",
// spec.md §4.3 step 3).
func paramsText(def *sitter.Node, src []byte) string {
	if n := def.ChildByFieldName("parameters"); n != nil {
		return nodeText(n, src)
	}
	for i := uint(0); i < def.NamedChildCount(); i++ {
		c := def.NamedChild(i)
		if c != nil && strings.Contains(c.Kind(), "parameter") {
			return nodeText(c, src)
		}
	}
	return "()"
}

func isInterfaceKind(kind string) bool {
	return strings.Contains(kind, "interface")
}

func kindFromNodeKind(kind string) entity.TypeKind {
	switch kind {
	case "interface_type", "interface_declaration":
		return entity.TypeInterface
	case "struct_type", "struct_item", "struct_specifier":
		return entity.TypeStruct
	case "enum_item", "enum_declaration", "enum_specifier":
		return entity.TypeEnum
	default:
		return entity.TypeAlias
	}
}
