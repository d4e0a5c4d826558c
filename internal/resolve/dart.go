package resolve

import "strings"

// resolveDart implements spec.md §4.4's Dart rule: "package:" and
// "dart:" URI schemes are always external; anything else is a quoted
// relative URI resolved against the importing file's directory.
func resolveDart(importString, contextFile string, known KnownFiles) Resolved {
	r := Resolved{Original: importString}
	if strings.HasPrefix(importString, "package:") || strings.HasPrefix(importString, "dart:") {
		r.IsExternal = true
		return r
	}
	r.IsRelative = true

	candidate := joinClean(dirOf(contextFile), importString)
	if found := firstKnownCandidate(known, candidate); found != "" {
		r.ResolvedPath = found
		return r
	}
	r.IsExternal = true
	return r
}
