// Package config loads and validates the KDL configuration file
// (spec.md §6) the indexer, watcher, and embedding backend all read
// their settings from.
package config

import (
	"os"
	"path/filepath"

	"github.com/codeloom/codeloom/internal/errs"
)

// Config carries every key spec.md §6 lists plus the teacher-style
// performance knobs the cold-scan worker pool and watcher need.
type Config struct {
	RepoPath  string
	RepoName  string
	PersistDir string

	EmbeddingBackend    string
	EmbeddingModel      string
	EmbeddingDimensions int

	DebounceSeconds int
	IncludeDirs     []string
	LogLevel        string

	ParallelFileWorkers int
	MaxFileSize         int64
	IndexingTimeoutSec  int
}

// defaults mirrors the teacher's parseKDL default block: sane values
// applied before the file's own nodes are read, so a config that sets
// only a handful of keys still gets a fully populated struct.
func defaults(repoPath string) *Config {
	return &Config{
		RepoPath:            repoPath,
		RepoName:            filepath.Base(repoPath),
		PersistDir:          ".codeloom",
		EmbeddingBackend:    "genai",
		EmbeddingModel:      "text-embedding-004",
		EmbeddingDimensions: 768,
		DebounceSeconds:     5,
		LogLevel:            "INFO",
		ParallelFileWorkers: 4,
		MaxFileSize:         10 * 1024 * 1024,
		IndexingTimeoutSec:  600,
	}
}

// credentialEnvVar maps a remote embedding backend name to the
// environment variable Validate requires it to find set.
var credentialEnvVar = map[string]string{
	"genai": "GEMINI_API_KEY",
}

// Validate raises a ConfigError (spec.md §7, fatal at startup) for a
// missing/non-directory repo_path or a remote embedding backend
// selected without its credential env var set.
func (c *Config) Validate() error {
	info, err := os.Stat(c.RepoPath)
	if err != nil {
		return errs.Wrap(errs.Config, err, "repo_path does not exist").WithFile(c.RepoPath)
	}
	if !info.IsDir() {
		return errs.New(errs.Config, "repo_path is not a directory").WithFile(c.RepoPath)
	}
	if envVar, ok := credentialEnvVar[c.EmbeddingBackend]; ok {
		if os.Getenv(envVar) == "" {
			return errs.New(errs.Config, "embedding_backend "+c.EmbeddingBackend+" requires "+envVar+" to be set")
		}
	}
	return nil
}
