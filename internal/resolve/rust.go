package resolve

import "strings"

// resolveRust implements spec.md §4.4's Rust rule: "std"/"core"/"alloc"
// roots and any other unrecognized crate root are external; "self",
// "super" and "crate" are relative to the current module tree and are
// probed as "<path>.rs" and "<path>/mod.rs". "crate" paths start from
// the importing file's nearest enclosing "src" directory (the repo root
// when there is none).
func resolveRust(importString, contextFile string, known KnownFiles) Resolved {
	r := Resolved{Original: importString}
	segs := strings.Split(importString, "::")
	if len(segs) == 0 || segs[0] == "" {
		r.IsExternal = true
		return r
	}

	root := segs[0]
	switch root {
	case "self", "super", "crate":
		r.IsRelative = true
	default:
		if rustExternalCrateRoots[root] {
			r.IsExternal = true
			return r
		}
		// Any other bare crate root names a Cargo dependency.
		r.IsExternal = true
		return r
	}

	base := dirOf(contextFile)
	rest := segs[1:]
	switch root {
	case "super":
		base = dirOf(base)
		rest = segs[1:]
	case "crate":
		base = ""
		if i := strings.LastIndex("/"+contextFile, "/src/"); i >= 0 {
			base = contextFile[:i+len("src")]
		}
	}
	modPath := strings.Join(rest, "/")
	candidate := joinClean(base, modPath)
	if found := firstKnownCandidate(known, candidate+".rs", joinClean(candidate, "mod.rs")); found != "" {
		r.ResolvedPath = found
	}
	return r
}
