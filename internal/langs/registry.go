// Package langs is the language registry (component B): the fixed
// mapping from a language tag to its tree-sitter grammar and query
// bundle, extension-to-language lookup, and the ignore-path policy
// shared by the cold scan and the watcher.
package langs

import (
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	sitter "github.com/tree-sitter/go-tree-sitter"
)

// Tag is one of the nine supported language identifiers. The set is
// closed: adding a language means adding a Bundle, not parameterizing
// an existing one (spec.md §4.2).
type Tag string

const (
	Python     Tag = "python"
	TypeScript Tag = "typescript"
	JavaScript Tag = "javascript"
	Go         Tag = "go"
	Rust       Tag = "rust"
	Java       Tag = "java"
	C          Tag = "c"
	Cpp        Tag = "cpp"
	Dart       Tag = "dart"
)

// Bundle groups a grammar with the query-pattern set an extractor runs
// against every parse of that language (spec.md §4.2).
type Bundle struct {
	Tag           Tag
	Extensions    []string
	Grammar       func() *sitter.Language
	FunctionQuery string
	ClassQuery    string
	ImportQuery   string
	CallQuery     string
	TypeQuery     string // optional; empty means the language has no TypeDefinition extraction
}

var registry = map[Tag]*Bundle{}
var extByExt = map[string]Tag{}

func register(b *Bundle) {
	registry[b.Tag] = b
	for _, ext := range b.Extensions {
		extByExt[ext] = b.Tag
	}
}

func init() {
	register(pythonBundle())
	register(typescriptBundle())
	register(javascriptBundle())
	register(goBundle())
	register(rustBundle())
	register(javaBundle())
	register(cBundle())
	register(cppBundle())
	register(dartBundle())
}

// Get returns the bundle for tag, or nil if unsupported.
func Get(tag Tag) *Bundle { return registry[tag] }

// LanguageOf maps a file path's extension to a supported language tag.
// Returns ("", false) for unsupported extensions, which the extractor
// (C) treats as "return empty entity list, not an error" (spec.md §4.3).
func LanguageOf(path string) (Tag, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	tag, ok := extByExt[ext]
	return tag, ok
}

// ignoreDirs is the static set of directory names skipped during the
// cold scan and never watched, unless include_dirs names them (see
// ShouldIgnoreDir; spec.md §4.2). Hidden directories are ignored by
// convention except those explicitly allowed below.
var ignoreDirs = map[string]bool{
	".git":         true,
	".hg":          true,
	".svn":         true,
	"node_modules": true,
	"vendor":       true,
	".venv":        true,
	"venv":         true,
	"__pycache__":  true,
	".mypy_cache":  true,
	".pytest_cache": true,
	"target":       true, // Rust/Java build output
	"build":        true,
	"dist":         true,
	".dart_tool":   true,
	".gradle":      true,
	"bin":          true,
	"obj":          true,
	".idea":        true,
	".vscode":      true,
}

// allowedHiddenDirs overrides ignoreDirs for specific dot-directories
// that carry source-relevant configuration (spec.md §4.2 example:
// ".github").
var allowedHiddenDirs = map[string]bool{
	".github": true,
}

// ShouldIgnoreDir reports whether a directory name should be skipped
// during traversal, honoring an additional include-dirs override set
// (config key include_dirs, spec.md §6) that can rescue an otherwise
// ignored name.
func ShouldIgnoreDir(name string, includeDirs []string) bool {
	if allowedHiddenDirs[name] {
		return false
	}
	for _, inc := range includeDirs {
		if inc == name {
			return false
		}
	}
	if ignoreDirs[name] {
		return true
	}
	if strings.HasPrefix(name, ".") {
		return true
	}
	return false
}

// MatchesAnyGlob reports whether relPath matches any of the doublestar
// glob patterns in patterns. include_dirs entries are not matched
// through it: ShouldIgnoreDir compares them by exact directory name.
func MatchesAnyGlob(relPath string, patterns []string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, relPath); ok {
			return true
		}
	}
	return false
}

// SupportedTags returns every registered language tag, stable order.
func SupportedTags() []Tag {
	return []Tag{Python, TypeScript, JavaScript, Go, Rust, Java, C, Cpp, Dart}
}
