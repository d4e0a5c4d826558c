package resolve

import "strings"

// resolveNode implements spec.md §4.4's TypeScript/JavaScript rule:
// specifiers starting with "./" or "../" are relative to the importing
// file's directory and probed with extensions .ts/.tsx/.js/.jsx and
// the index.* forms; anything else is a bare specifier and resolves
// external (npm package or path-mapped alias, both out of scope).
func resolveNode(importString, contextFile string, known KnownFiles) Resolved {
	r := Resolved{Original: importString}

	if !strings.HasPrefix(importString, "./") && !strings.HasPrefix(importString, "../") {
		if nodeBuiltins[importString] {
			r.IsExternal = true
			return r
		}
		r.IsExternal = true
		return r
	}
	r.IsRelative = true

	base := joinClean(dirOf(contextFile), importString)
	candidates := []string{
		base + ".ts", base + ".tsx", base + ".js", base + ".jsx",
		joinClean(base, "index.ts"), joinClean(base, "index.tsx"),
		joinClean(base, "index.js"), joinClean(base, "index.jsx"),
	}
	if strings.HasSuffix(base, ".ts") || strings.HasSuffix(base, ".tsx") ||
		strings.HasSuffix(base, ".js") || strings.HasSuffix(base, ".jsx") {
		candidates = append([]string{base}, candidates...)
	}
	if found := firstKnownCandidate(known, candidates...); found != "" {
		r.ResolvedPath = found
	}
	return r
}
