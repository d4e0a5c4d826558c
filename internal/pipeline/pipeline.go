// Package pipeline is the event pipeline (component I): it drives the
// extractor, the graph builder, and the sync engine from both the
// cold-scan entry point and the debounced watcher, normalizing each
// path to a single terminal state before applying it.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/codeloom/codeloom/internal/builder"
	"github.com/codeloom/codeloom/internal/config"
	"github.com/codeloom/codeloom/internal/entity"
	"github.com/codeloom/codeloom/internal/errs"
	"github.com/codeloom/codeloom/internal/extract"
	"github.com/codeloom/codeloom/internal/langs"
	syncengine "github.com/codeloom/codeloom/internal/sync"
	"github.com/codeloom/codeloom/internal/telemetry"
)

// BatchOutcome aggregates a debounced batch's effect across every path
// it touched; it is the pipeline's local accounting, distinct from the
// per-sync-call syncengine.Result it folds together.
type BatchOutcome struct {
	Added   int
	Updated int
	Deleted int
	Skipped int
	Errors  []string
}

// Pipeline is the single indexer worker of spec.md §5: every mutating
// method here is meant to be called serially by one goroutine. Query
// tools read Builder.Graph and Sync.Store directly instead of calling
// through this type.
type Pipeline struct {
	Repo      string
	GraphPath string
	Config    *config.Config
	Builder   *builder.Builder
	Sync      *syncengine.Engine
	Status    *StatusTracker
}

func New(repo, graphPath string, cfg *config.Config, b *builder.Builder, s *syncengine.Engine) *Pipeline {
	return &Pipeline{
		Repo:      repo,
		GraphPath: graphPath,
		Config:    cfg,
		Builder:   b,
		Sync:      s,
		Status:    newStatusTracker(),
	}
}

func (p *Pipeline) log() *logrus.Entry {
	return telemetry.Logger().WithField("repo", p.Repo)
}

// ColdScan is the cold-start driver: it streams every repo file
// through the extractor in a worker pool, builds the whole graph in
// one shot, and runs a single sync_all pass (spec.md §4.9's "more
// efficiently" cold-start path).
func (p *Pipeline) ColdScan(ctx context.Context) (syncengine.Result, error) {
	p.Status.SetPhase(PhaseParsing)
	entities, filesParsed, err := p.scan(ctx)
	if err != nil {
		p.Status.SetPhase(PhaseError)
		return syncengine.Result{}, err
	}

	p.Status.SetPhase(PhaseBuildingGraph)
	p.Builder.Build(entities)

	p.Status.SetPhase(PhaseSyncingEmbeddings)
	result, err := p.Sync.SyncAll(ctx, p.Repo, entities, filesParsed)
	if err != nil {
		p.Status.SetPhase(PhaseError)
		return result, err
	}

	if err := p.Builder.Graph.Save(p.GraphPath); err != nil {
		p.Status.SetPhase(PhaseError)
		return result, errs.Wrap(errs.Store, err, "pipeline: save graph after cold scan")
	}

	p.Status.MarkColdScanComplete(time.Now())
	return result, nil
}

// DryRun implements the reindex dry_run supplement (SPEC_FULL §5): it
// parses path (or the whole repo, if path is empty) and runs the sync
// engine's diff stage without touching the graph or the vector store,
// reporting the SyncResult a real reindex would produce.
func (p *Pipeline) DryRun(ctx context.Context, path string) (syncengine.Result, error) {
	if path == "" {
		entities, filesParsed, err := p.scan(ctx)
		if err != nil {
			return syncengine.Result{}, err
		}
		return p.Sync.Diff(ctx, p.Repo, entities, filesParsed)
	}

	rel := entity.Normalize(p.Config.RepoPath, path)
	tag, ok := langs.LanguageOf(path)
	if !ok {
		return syncengine.Result{}, nil
	}
	entities, err := p.parseOne(tag, path, rel)
	if err != nil {
		return syncengine.Result{}, errs.Wrap(errs.Parse, err, "dry_run: parse").WithFile(rel)
	}
	return p.Sync.Diff(ctx, p.Repo, entities, map[string]bool{rel: true})
}

// Reindex is the live handling policy backing the `reindex` tool
// (spec.md §6): an empty path re-scans and rebuilds the whole repo,
// using full_reindex's delete-then-resync when full is set; a
// non-empty path is scoped to that one file via ApplyBatch's own
// terminal-state normalization.
func (p *Pipeline) Reindex(ctx context.Context, path string, full bool) (syncengine.Result, error) {
	if path != "" {
		outcome := p.ApplyBatch(ctx, []string{path})
		return syncengine.Result{
			Added:   outcome.Added,
			Updated: outcome.Updated,
			Deleted: outcome.Deleted,
			Skipped: outcome.Skipped,
			Errors:  outcome.Errors,
		}, nil
	}

	p.Status.SetPhase(PhaseParsing)
	entities, filesParsed, err := p.scan(ctx)
	if err != nil {
		p.Status.SetPhase(PhaseError)
		return syncengine.Result{}, err
	}

	p.Status.SetPhase(PhaseBuildingGraph)
	p.Builder.Build(entities)

	p.Status.SetPhase(PhaseSyncingEmbeddings)
	var result syncengine.Result
	if full {
		result, err = p.Sync.FullReindex(ctx, p.Repo, entities)
	} else {
		result, err = p.Sync.SyncAll(ctx, p.Repo, entities, filesParsed)
	}
	if err != nil {
		p.Status.SetPhase(PhaseError)
		return result, err
	}

	if err := p.Builder.Graph.Save(p.GraphPath); err != nil {
		p.Status.SetPhase(PhaseError)
		return result, errs.Wrap(errs.Store, err, "pipeline: save graph after reindex")
	}
	p.Status.MarkColdScanComplete(time.Now())
	return result, nil
}

// ApplyBatch is the debounced-event handling policy of spec.md §4.9:
// each path is normalized to a single terminal state (upsert if it
// currently exists on disk, delete otherwise) before being applied.
// Per-path errors are logged and do not abort the batch.
func (p *Pipeline) ApplyBatch(ctx context.Context, paths []string) BatchOutcome {
	batchID := uuid.NewString()
	logger := p.log().WithField("batch_id", batchID)
	logger.WithField("count", len(paths)).Info("applying debounced batch")

	var outcome BatchOutcome
	for _, absPath := range paths {
		rel := entity.Normalize(p.Config.RepoPath, absPath)
		fileLogger := logger.WithField("file", rel)

		info, statErr := os.Stat(absPath)
		if statErr != nil || info.IsDir() {
			p.Builder.RemoveFile(rel)
			n, err := p.Sync.DeleteFile(ctx, p.Repo, rel)
			if err != nil {
				outcome.Errors = append(outcome.Errors, fmt.Sprintf("%s: delete_file: %v", rel, err))
				fileLogger.WithError(err).Warn("delete_file failed")
				continue
			}
			outcome.Deleted += n
			continue
		}

		tag, ok := langs.LanguageOf(absPath)
		if !ok {
			// Unsupported extension: spec.md §4.9 treats this as a no-op,
			// leaving whatever the graph already has for this path alone.
			continue
		}

		src, readErr := os.ReadFile(absPath)
		if readErr != nil {
			outcome.Errors = append(outcome.Errors, fmt.Sprintf("%s: %v", rel, readErr))
			fileLogger.WithError(readErr).Warn("upsert: file unreadable, preserving previous entities")
			continue
		}

		entities, hadErrors, parseErr := extract.Parse(tag, src, rel, p.Repo)
		if parseErr != nil {
			outcome.Errors = append(outcome.Errors, fmt.Sprintf("%s: %v", rel, parseErr))
			fileLogger.WithError(parseErr).Warn("upsert: parse failed, preserving previous entities")
			continue
		}
		if hadErrors {
			fileLogger.Debug("parse completed with syntax errors, extracted best-effort")
		}

		p.Builder.UpdateFile(rel, entities)
		result, syncErr := p.Sync.SyncFile(ctx, p.Repo, rel, entities)
		if syncErr != nil {
			outcome.Errors = append(outcome.Errors, fmt.Sprintf("%s: sync_file: %v", rel, syncErr))
			fileLogger.WithError(syncErr).Warn("sync_file failed")
			continue
		}
		outcome.Added += result.Added
		outcome.Updated += result.Updated
		outcome.Deleted += result.Deleted
		outcome.Skipped += result.Skipped
		outcome.Errors = append(outcome.Errors, result.Errors...)
	}

	if err := p.Builder.Graph.Save(p.GraphPath); err != nil {
		outcome.Errors = append(outcome.Errors, fmt.Sprintf("graph save: %v", err))
		logger.WithError(err).Error("graph save failed after batch")
	}
	p.Status.AddStale(-len(paths))
	return outcome
}
