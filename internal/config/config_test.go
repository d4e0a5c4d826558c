package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codeloom/codeloom/internal/errs"
)

func TestLoadAppliesDefaultsWithNoConfigFile(t *testing.T) {
	root := t.TempDir()

	cfg, err := Load(root)
	require.NoError(t, err)
	assert.Equal(t, filepath.Base(root), cfg.RepoName)
	assert.Equal(t, ".codeloom", cfg.PersistDir)
	assert.Equal(t, "genai", cfg.EmbeddingBackend)
	assert.Equal(t, 768, cfg.EmbeddingDimensions)
	assert.Equal(t, 5, cfg.DebounceSeconds)
}

func TestLoadOverlaysConfigFileOnDefaults(t *testing.T) {
	root := t.TempDir()
	kdlContent := `
project {
    repo_name "myrepo"
    persist_dir ".idx"
}
embedding {
    backend "genai"
    model "text-embedding-005"
    dimensions 1536
}
index {
    debounce_seconds 10
    log_level "DEBUG"
    parallel_file_workers 8
}
`
	require.NoError(t, os.WriteFile(filepath.Join(root, fileName), []byte(kdlContent), 0o644))

	cfg, err := Load(root)
	require.NoError(t, err)
	assert.Equal(t, "myrepo", cfg.RepoName)
	assert.Equal(t, ".idx", cfg.PersistDir)
	assert.Equal(t, "text-embedding-005", cfg.EmbeddingModel)
	assert.Equal(t, 1536, cfg.EmbeddingDimensions)
	assert.Equal(t, 10, cfg.DebounceSeconds)
	assert.Equal(t, "DEBUG", cfg.LogLevel)
	assert.Equal(t, 8, cfg.ParallelFileWorkers)
}

func TestLoadIncludeDirsFromBlockForm(t *testing.T) {
	root := t.TempDir()
	kdlContent := `
index {
    include_dirs {
        ".github"
        "vendor"
    }
}
`
	require.NoError(t, os.WriteFile(filepath.Join(root, fileName), []byte(kdlContent), 0o644))

	cfg, err := Load(root)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{".github", "vendor"}, cfg.IncludeDirs)
}

func TestValidateRejectsMissingRepoPath(t *testing.T) {
	cfg := defaults(filepath.Join(t.TempDir(), "does-not-exist"))
	err := cfg.Validate()
	require.Error(t, err)
	var cerr *errs.Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, errs.Config, cerr.Kind)
}

func TestValidateRejectsNonDirectoryRepoPath(t *testing.T) {
	root := t.TempDir()
	filePath := filepath.Join(root, "file.txt")
	require.NoError(t, os.WriteFile(filePath, []byte("x"), 0o644))

	cfg := defaults(filePath)
	err := cfg.Validate()
	require.Error(t, err)
}

func TestValidateRejectsRemoteBackendWithoutCredential(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	cfg := defaults(t.TempDir())
	cfg.EmbeddingBackend = "genai"
	err := cfg.Validate()
	require.Error(t, err)
}

func TestValidatePassesWithCredentialSet(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "secret")
	cfg := defaults(t.TempDir())
	cfg.EmbeddingBackend = "genai"
	assert.NoError(t, cfg.Validate())
}
