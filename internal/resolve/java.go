package resolve

import "strings"

// resolveJava implements spec.md §4.4's Java rule: "java.*", "javax.*"
// and "sun.*" packages are external; everything else has its dots
// turned into path separators and is probed under common source-root
// layouts since the resolver doesn't parse build files.
func resolveJava(importString, contextFile string, known KnownFiles) Resolved {
	r := Resolved{Original: importString}
	if strings.HasPrefix(importString, "java.") ||
		strings.HasPrefix(importString, "javax.") ||
		strings.HasPrefix(importString, "sun.") {
		r.IsExternal = true
		return r
	}

	rel := strings.ReplaceAll(importString, ".", "/") + ".java"
	candidates := []string{
		rel,
		joinClean("src", rel),
		joinClean("src/main/java", rel),
		joinClean("app/src/main/java", rel),
	}
	if found := firstKnownCandidate(known, candidates...); found != "" {
		r.ResolvedPath = found
		return r
	}
	r.IsExternal = true
	return r
}
