package resolve

import (
	"sort"
	"strings"
)

// resolveGo implements spec.md §4.4's Go rule: an import path whose
// first segment contains a dot (a domain, e.g. "github.com/...") is
// always external, as is anything in the stdlib set. Otherwise the
// import is treated as module-internal and probed directly against
// the known file set under its "pkg/"/"internal/"/"cmd/" prefixes and
// bare, since the module's own prefix is unknown to the resolver.
func resolveGo(importString, contextFile string, known KnownFiles) Resolved {
	r := Resolved{Original: importString}

	first := importString
	if i := strings.IndexByte(importString, '/'); i >= 0 {
		first = importString[:i]
	}
	if strings.Contains(first, ".") || goStdlib[importString] {
		r.IsExternal = true
		return r
	}

	trimmed := importString
	for _, prefix := range []string{"pkg/", "internal/", "cmd/"} {
		if i := strings.Index(importString, "/"+prefix); i >= 0 {
			trimmed = importString[i+1:]
			break
		}
		if strings.HasPrefix(importString, prefix) {
			trimmed = importString
			break
		}
	}

	// A Go import names a package directory, which may back several
	// known files; pick the lexicographically first for determinism.
	var inPackage []string
	for path := range known {
		dir := dirOf(path)
		if dir == trimmed || strings.HasSuffix(dir, "/"+trimmed) {
			inPackage = append(inPackage, path)
		}
	}
	if len(inPackage) > 0 {
		sort.Strings(inPackage)
		r.ResolvedPath = inPackage[0]
		return r
	}
	if found := firstKnownCandidate(known, joinClean(trimmed, "main.go")); found != "" {
		r.ResolvedPath = found
		return r
	}

	r.IsExternal = true
	return r
}
