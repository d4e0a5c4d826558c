package resolve

import "strings"

// resolvePython implements spec.md §4.4's Python rule: leading dots
// count relative levels up from the importing file's package
// directory, remaining dots become path separators, and the result is
// probed both as "<path>.py" and "<path>/__init__.py". A bare
// first-segment present in the stdlib set resolves external.
func resolvePython(importString, contextFile string, known KnownFiles) Resolved {
	r := Resolved{Original: importString}

	leadingDots := 0
	for leadingDots < len(importString) && importString[leadingDots] == '.' {
		leadingDots++
	}
	rest := importString[leadingDots:]

	if leadingDots == 0 {
		first := rest
		if i := strings.IndexByte(rest, '.'); i >= 0 {
			first = rest[:i]
		}
		if pythonStdlib[first] {
			r.IsExternal = true
			return r
		}
	} else {
		r.IsRelative = true
	}

	modPath := strings.ReplaceAll(rest, ".", "/")

	base := dirOf(contextFile)
	if leadingDots > 1 {
		for i := 1; i < leadingDots; i++ {
			base = dirOf(base)
		}
	}
	if leadingDots == 0 {
		base = "" // absolute import resolves from the repo root
	}

	candidate := joinClean(base, modPath)
	if found := firstKnownCandidate(known, candidate+".py", joinClean(candidate, "__init__.py")); found != "" {
		r.ResolvedPath = found
		return r
	}

	if leadingDots == 0 {
		r.IsExternal = true
	}
	return r
}
