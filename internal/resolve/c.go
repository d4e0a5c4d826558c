package resolve

import "strings"

// resolveC implements spec.md §4.4's C/C++ rule: angle-bracket headers
// (`<foo.h>`, tree-sitter's system_lib_string) are always external;
// quoted headers (`"foo.h"`, stored without their quotes) are relative
// to the including file's directory first, then probed under
// "include/" and "src/".
func resolveC(importString, contextFile string, known KnownFiles) Resolved {
	r := Resolved{Original: importString}
	if strings.HasPrefix(importString, "<") && strings.HasSuffix(importString, ">") {
		r.IsExternal = true
		return r
	}
	r.IsRelative = true

	candidates := []string{
		joinClean(dirOf(contextFile), importString),
		joinClean("include", importString),
		joinClean("src", importString),
	}
	if found := firstKnownCandidate(known, candidates...); found != "" {
		r.ResolvedPath = found
		return r
	}
	r.IsExternal = true
	return r
}
