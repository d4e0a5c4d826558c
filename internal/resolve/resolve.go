// Package resolve is the import resolver (component D): it maps a raw
// import/include string captured by the extractor to an internal file
// path, or marks it external, following the per-language rules of
// spec.md §4.4.
package resolve

import (
	"strings"

	"github.com/codeloom/codeloom/internal/langs"
)

// Resolved is the public contract's ResolvedImport.
type Resolved struct {
	Original     string
	ResolvedPath string // repo-relative path, empty if unresolved
	IsExternal   bool
	IsRelative   bool
}

// KnownFiles is the set of repo-relative source file paths the builder
// currently tracks; a candidate path resolves iff it is a member.
type KnownFiles map[string]bool

// Resolve dispatches to the per-language resolution rule. Unknown
// languages default to external (spec.md §4.4, final paragraph).
func Resolve(tag langs.Tag, importString, contextFile string, known KnownFiles) Resolved {
	switch tag {
	case langs.Python:
		return resolvePython(importString, contextFile, known)
	case langs.TypeScript, langs.JavaScript:
		return resolveNode(importString, contextFile, known)
	case langs.Go:
		return resolveGo(importString, contextFile, known)
	case langs.Rust:
		return resolveRust(importString, contextFile, known)
	case langs.Java:
		return resolveJava(importString, contextFile, known)
	case langs.C, langs.Cpp:
		return resolveC(importString, contextFile, known)
	case langs.Dart:
		return resolveDart(importString, contextFile, known)
	default:
		return Resolved{Original: importString, IsExternal: true}
	}
}

// firstKnownCandidate returns the first of candidates present in known,
// or "" if none match.
func firstKnownCandidate(known KnownFiles, candidates ...string) string {
	for _, c := range candidates {
		if known[c] {
			return c
		}
	}
	return ""
}

func dirOf(path string) string {
	i := strings.LastIndexByte(path, '/')
	if i < 0 {
		return ""
	}
	return path[:i]
}

// joinClean joins base and rel with "/" and collapses "." / ".."
// segments, producing a repo-relative path (no leading "/").
func joinClean(base, rel string) string {
	parts := strings.Split(base, "/")
	if base == "" {
		parts = nil
	}
	for _, seg := range strings.Split(rel, "/") {
		switch seg {
		case "", ".":
			continue
		case "..":
			if len(parts) > 0 {
				parts = parts[:len(parts)-1]
			}
		default:
			parts = append(parts, seg)
		}
	}
	return strings.Join(parts, "/")
}
