package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/codeloom/codeloom/internal/builder"
	"github.com/codeloom/codeloom/internal/config"
	"github.com/codeloom/codeloom/internal/embedbackend"
	"github.com/codeloom/codeloom/internal/errs"
	"github.com/codeloom/codeloom/internal/graph"
	"github.com/codeloom/codeloom/internal/mcpserver"
	"github.com/codeloom/codeloom/internal/pipeline"
	syncengine "github.com/codeloom/codeloom/internal/sync"
	"github.com/codeloom/codeloom/internal/telemetry"
	"github.com/codeloom/codeloom/internal/vectorstore"
)

var version = "dev"

// loadConfigWithOverrides mirrors the teacher's own override shape
// (cmd/lci/main.go): load the KDL file found under --root (default
// "."), then let --log-level win over the file's log_level.
func loadConfigWithOverrides(c *cli.Context) (*config.Config, error) {
	root := c.String("root")
	if root == "" {
		root = "."
	}
	cfg, err := config.Load(root)
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", root, err)
	}
	if level := c.String("log-level"); level != "" {
		cfg.LogLevel = level
	}
	return cfg, nil
}

func graphPath(cfg *config.Config) string {
	return filepath.Join(cfg.RepoPath, cfg.PersistDir, "graph.bbolt")
}

// buildEmbeddingBackend picks the real Gemini backend or the
// deterministic fake, by cfg.EmbeddingBackend, the same switch shape
// the teacher uses to pick a search engine implementation by config
// value rather than a build tag.
func buildEmbeddingBackend(ctx context.Context, cfg *config.Config) (embedbackend.Backend, error) {
	switch cfg.EmbeddingBackend {
	case "fake":
		return embedbackend.NewFake(cfg.EmbeddingDimensions), nil
	case "genai", "":
		return embedbackend.NewGenaiBackend(ctx, os.Getenv("GEMINI_API_KEY"), cfg.EmbeddingModel, cfg.EmbeddingDimensions)
	default:
		return nil, errs.New(errs.Config, "unknown embedding_backend: "+cfg.EmbeddingBackend)
	}
}

// wireUp loads config, validates it, opens (or creates) the graph and
// vector store, and assembles a Pipeline ready for a cold scan, reindex,
// or serve. It is the one place every subcommand's startup sequence
// goes through, matching the teacher's single indexer-construction path
// shared by its mcp/search/status commands.
func wireUp(ctx context.Context, c *cli.Context) (*pipeline.Pipeline, error) {
	cfg, err := loadConfigWithOverrides(c)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	telemetry.SetLevel(cfg.LogLevel)

	persistDir := filepath.Join(cfg.RepoPath, cfg.PersistDir)
	if err := os.MkdirAll(persistDir, 0o755); err != nil {
		return nil, errs.Wrap(errs.Store, err, "wire up: create persist dir").WithFile(persistDir)
	}

	gp := graphPath(cfg)
	g, err := graph.Load(gp)
	if err != nil {
		g = graph.New()
	}

	storeDir := filepath.Join(cfg.RepoPath, cfg.PersistDir, "vectors")
	store, err := vectorstore.NewChromemStore(storeDir)
	if err != nil {
		return nil, errs.Wrap(errs.Store, err, "wire up: open vector store")
	}

	backend, err := buildEmbeddingBackend(ctx, cfg)
	if err != nil {
		return nil, err
	}

	b := builder.NewWithGraph(g)
	eng := syncengine.New(store, backend)
	p := pipeline.New(cfg.RepoName, gp, cfg, b, eng)
	return p, nil
}

func main() {
	app := &cli.App{
		Name:                   "codeloom",
		Usage:                  "Code dependency graph and semantic search over a repository, served over MCP",
		Version:                version,
		UseShortOptionHandling: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "root",
				Aliases: []string{"r"},
				Usage:   "Repository root to index (defaults to the current directory)",
				Value:   ".",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Override the configured log level (DEBUG, INFO, WARNING, ERROR, CRITICAL)",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "Cold-scan if needed, watch for changes, and serve the MCP tool surface over stdio",
				Action: serveCommand,
			},
			{
				Name:  "index",
				Usage: "Run a one-shot (re)index and print a summary",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "full",
						Usage: "Delete and re-embed every stored record instead of diffing by content hash",
					},
					&cli.StringFlag{
						Name:  "path",
						Usage: "Limit the reindex to a single file, relative to the repo root",
					},
				},
				Action: indexCommand,
			},
			{
				Name:   "status",
				Usage:  "Print get_index_status for the persisted graph, without starting a server",
				Action: statusCommand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func serveCommand(c *cli.Context) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p, err := wireUp(ctx, c)
	if err != nil {
		return err
	}

	logPath, err := telemetry.EnterMCPMode(filepath.Join(p.Config.RepoPath, p.Config.PersistDir))
	if err != nil {
		return fmt.Errorf("failed to redirect logging for stdio mode: %w", err)
	}
	defer telemetry.Close()
	telemetry.Logger().WithField("log_file", logPath).Info("codeloom serve starting")

	if p.Status.Snapshot().LastColdScanAt.IsZero() {
		if _, err := p.ColdScan(ctx); err != nil {
			return fmt.Errorf("cold scan failed: %w", err)
		}
	}

	watcher, err := pipeline.NewWatcher(p)
	if err != nil {
		return fmt.Errorf("failed to start file watcher: %w", err)
	}
	if err := watcher.Start(); err != nil {
		return fmt.Errorf("failed to start file watcher: %w", err)
	}
	defer watcher.Stop()

	srv := mcpserver.New(p.Repo, p.Builder.Graph, p.Sync.Store, p.Sync.Backend, p)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Run(ctx)
	}()

	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		telemetry.Logger().WithField("signal", sig.String()).Info("shutting down")
		cancel()
		return <-errCh
	}
}

func indexCommand(c *cli.Context) error {
	ctx := context.Background()
	p, err := wireUp(ctx, c)
	if err != nil {
		return err
	}

	path := c.String("path")
	full := c.Bool("full")

	absPath := ""
	if path != "" {
		absPath = filepath.Join(p.Config.RepoPath, path)
	}
	result, err := p.Reindex(ctx, absPath, full)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(result)
}

func statusCommand(c *cli.Context) error {
	ctx := context.Background()
	p, err := wireUp(ctx, c)
	if err != nil {
		return err
	}

	status := p.Status.Snapshot()
	stats := p.Builder.Graph.Statistics()

	out := map[string]interface{}{
		"phase":             status.Phase,
		"last_cold_scan_at": status.LastColdScanAt,
		"stale_file_count":  status.StaleFileCount,
		"total_nodes":       stats.TotalNodes,
		"total_edges":       stats.TotalEdges,
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
