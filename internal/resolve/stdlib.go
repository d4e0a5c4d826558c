package resolve

// These sets are intentionally small, high-frequency subsets rather
// than exhaustive standard library indexes — spec.md §4.4 only
// requires distinguishing "known external" from "maybe internal", and
// an incomplete set fails safe (the path-probe fallback still runs).

var pythonStdlib = set(
	"os", "sys", "re", "json", "io", "time", "math", "collections",
	"itertools", "functools", "typing", "abc", "dataclasses", "enum",
	"pathlib", "subprocess", "threading", "asyncio", "logging",
	"unittest", "datetime", "random", "string", "copy", "hashlib",
	"socket", "struct", "csv", "sqlite3", "http", "urllib", "shutil",
	"tempfile", "argparse", "traceback", "warnings", "contextlib",
)

var nodeBuiltins = set(
	"fs", "path", "http", "https", "os", "util", "events", "stream",
	"crypto", "child_process", "buffer", "url", "querystring", "net",
	"assert", "process", "readline", "zlib", "worker_threads",
)

var goStdlib = set(
	"fmt", "os", "io", "strings", "strconv", "errors", "context",
	"time", "sync", "net", "net/http", "encoding/json", "bytes",
	"bufio", "path", "path/filepath", "sort", "math", "regexp",
	"reflect", "testing", "log", "flag", "unicode", "runtime",
	"container/list", "container/heap", "crypto/sha256", "hash/fnv",
)

var rustExternalCrateRoots = set(
	"std", "core", "alloc", "proc_macro",
)

func set(items ...string) map[string]bool {
	m := make(map[string]bool, len(items))
	for _, it := range items {
		m[it] = true
	}
	return m
}
