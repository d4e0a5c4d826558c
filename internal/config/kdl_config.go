package config

import (
	"os"
	"path/filepath"
	"strings"

	kdl "github.com/sblinch/kdl-go"
	"github.com/sblinch/kdl-go/document"

	"github.com/codeloom/codeloom/internal/errs"
)

// fileName is the teacher's own convention of a dot-prefixed,
// project-named KDL config file, renamed to this product.
const fileName = ".codeloom.kdl"

// Load reads <root>/.codeloom.kdl if present and overlays its nodes on
// top of defaults(root); a missing file is not an error, it just means
// every key takes its default (spec.md §6 options are all optional).
func Load(root string) (*Config, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		absRoot = root
	}
	cfg := defaults(absRoot)

	path := filepath.Join(absRoot, fileName)
	content, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, errs.Wrap(errs.Config, err, "read config file").WithFile(path)
	}

	doc, err := kdl.Parse(strings.NewReader(string(content)))
	if err != nil {
		return nil, errs.Wrap(errs.Config, err, "parse KDL config").WithFile(path)
	}
	applyDocument(cfg, doc)
	return cfg, nil
}

func applyDocument(cfg *Config, doc *document.Document) {
	for _, n := range doc.Nodes {
		switch nodeName(n) {
		case "project":
			for _, cn := range n.Children {
				assignSimpleString(cn, "repo_path", func(v string) { cfg.RepoPath = v })
				assignSimpleString(cn, "repo_name", func(v string) { cfg.RepoName = v })
				assignSimpleString(cn, "persist_dir", func(v string) { cfg.PersistDir = v })
			}
		case "embedding":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "backend":
					assignSimpleString(cn, "backend", func(v string) { cfg.EmbeddingBackend = v })
				case "model":
					assignSimpleString(cn, "model", func(v string) { cfg.EmbeddingModel = v })
				case "dimensions":
					if v, ok := firstIntArg(cn); ok {
						cfg.EmbeddingDimensions = v
					}
				}
			}
		case "index":
			for _, cn := range n.Children {
				switch nodeName(cn) {
				case "debounce_seconds":
					if v, ok := firstIntArg(cn); ok {
						cfg.DebounceSeconds = v
					}
				case "include_dirs":
					cfg.IncludeDirs = collectStringArgs(cn)
				case "log_level":
					assignSimpleString(cn, "log_level", func(v string) { cfg.LogLevel = v })
				case "parallel_file_workers":
					if v, ok := firstIntArg(cn); ok {
						cfg.ParallelFileWorkers = v
					}
				case "max_file_size":
					if v, ok := firstIntArg(cn); ok {
						cfg.MaxFileSize = int64(v)
					}
				case "indexing_timeout_sec":
					if v, ok := firstIntArg(cn); ok {
						cfg.IndexingTimeoutSec = v
					}
				}
			}
		}
	}
}

func nodeName(n *document.Node) string {
	if n == nil || n.Name == nil {
		return ""
	}
	return n.Name.NodeNameString()
}

func firstIntArg(n *document.Node) (int, bool) {
	if len(n.Arguments) == 0 {
		return 0, false
	}
	switch v := n.Arguments[0].Value.(type) {
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}

func firstStringArg(n *document.Node) (string, bool) {
	if len(n.Arguments) == 0 {
		return "", false
	}
	if s, ok := n.Arguments[0].Value.(string); ok {
		return s, true
	}
	return "", false
}

func collectStringArgs(n *document.Node) []string {
	if n == nil {
		return nil
	}
	out := make([]string, 0, len(n.Arguments))
	for _, a := range n.Arguments {
		if s, ok := a.Value.(string); ok {
			out = append(out, s)
		}
	}
	if len(out) == 0 && len(n.Children) > 0 {
		out = make([]string, 0, len(n.Children))
		for _, child := range n.Children {
			if s, ok := firstStringArg(child); ok {
				out = append(out, s)
			} else if child.Name != nil {
				if s, ok := child.Name.Value.(string); ok {
					out = append(out, s)
				}
			}
		}
	}
	return out
}

func assignSimpleString(n *document.Node, target string, set func(string)) {
	if nodeName(n) == target {
		if s, ok := firstStringArg(n); ok {
			set(s)
		}
	}
}
