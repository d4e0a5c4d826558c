package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/codeloom/codeloom/internal/entity"
	"github.com/codeloom/codeloom/internal/extract"
	"github.com/codeloom/codeloom/internal/langs"
)

// scan walks Config.RepoPath, parsing every recognized file in a
// bounded worker pool (spec.md §5: "tree-sitter parsing of independent
// files in the cold-scan phase MAY run in a worker pool; entity lists
// are then serialized back to the indexer worker"). The merge back
// into all/filesParsed happens here, under a single mutex, before this
// function returns to the caller's single-threaded Build/SyncAll call.
func (p *Pipeline) scan(ctx context.Context) ([]entity.Entity, map[string]bool, error) {
	g, gctx := errgroup.WithContext(ctx)
	limit := p.Config.ParallelFileWorkers
	if limit <= 0 {
		limit = 4
	}
	g.SetLimit(limit)

	var mu sync.Mutex
	var all []entity.Entity
	filesParsed := make(map[string]bool)

	walkErr := filepath.Walk(p.Config.RepoPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil // continue scanning despite a stat error on one entry
		}
		select {
		case <-gctx.Done():
			return gctx.Err()
		default:
		}

		if info.IsDir() {
			if path != p.Config.RepoPath && langs.ShouldIgnoreDir(info.Name(), p.Config.IncludeDirs) {
				return filepath.SkipDir
			}
			return nil
		}

		if p.Config.MaxFileSize > 0 && info.Size() > p.Config.MaxFileSize {
			return nil
		}
		tag, ok := langs.LanguageOf(path)
		if !ok {
			return nil
		}
		rel := entity.Normalize(p.Config.RepoPath, path)

		g.Go(func() error {
			entities, fileErr := p.parseOne(tag, path, rel)
			if fileErr != nil {
				// Per-file parse failures are logged and skipped, not
				// propagated: a bad file must not abort the whole scan.
				return nil
			}
			mu.Lock()
			all = append(all, entities...)
			filesParsed[rel] = true
			mu.Unlock()
			return nil
		})
		return nil
	})
	if walkErr != nil {
		return nil, nil, walkErr
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return all, filesParsed, nil
}

func (p *Pipeline) parseOne(tag langs.Tag, absPath, relPath string) ([]entity.Entity, error) {
	src, err := os.ReadFile(absPath)
	if err != nil {
		p.log().WithError(err).WithField("file", relPath).Warn("cold scan: file unreadable, skipped")
		return nil, err
	}
	entities, hadErrors, err := extract.Parse(tag, src, relPath, p.Repo)
	if err != nil {
		p.log().WithError(err).WithField("file", relPath).Warn("cold scan: parse failed, skipped")
		return nil, err
	}
	if hadErrors {
		p.log().WithField("file", relPath).Debug("cold scan: parse completed with syntax errors, extracted best-effort")
	}
	return entities, nil
}
