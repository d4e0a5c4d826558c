// Package sync is the incremental synchronization engine (component
// H): it diffs parse results against the vector store by content
// hash and drives at-most-once embedding regeneration.
package sync

import (
	"context"
	"fmt"

	"github.com/codeloom/codeloom/internal/embedbackend"
	"github.com/codeloom/codeloom/internal/entity"
	"github.com/codeloom/codeloom/internal/errs"
	"github.com/codeloom/codeloom/internal/vectorstore"
)

// Result is spec.md §4.8's SyncResult.
type Result struct {
	Added   int
	Updated int
	Deleted int
	Skipped int
	Errors  []string
}

func (r *Result) merge(o Result) {
	r.Added += o.Added
	r.Updated += o.Updated
	r.Deleted += o.Deleted
	r.Skipped += o.Skipped
	r.Errors = append(r.Errors, o.Errors...)
}

// Engine is the sync.sync_all/sync_file/delete_file/full_reindex
// contract of spec.md §4.8.
type Engine struct {
	Store   vectorstore.Store
	Backend embedbackend.Backend

	// BatchSize bounds one embedding request; spec.md §4.8 step 6
	// defaults to 32 for sentence-level backends.
	BatchSize int
}

func New(store vectorstore.Store, backend embedbackend.Backend) *Engine {
	return &Engine{Store: store, Backend: backend, BatchSize: 32}
}

// SyncAll runs the full diff-and-upsert algorithm over entities,
// scoped to repo. filesParsed restricts the removed-entity
// computation to files that were actually parsed this pass (spec.md
// §4.8 step 4), avoiding cross-file phantom deletes when entities is
// a subset of the repo.
func (e *Engine) SyncAll(ctx context.Context, repo string, entities []entity.Entity, filesParsed map[string]bool) (Result, error) {
	embeddable := filterEmbeddable(entities)

	existing, err := e.Store.ContentHashes(ctx, repo)
	if err != nil {
		return Result{}, errs.Wrap(errs.Store, err, "sync: read content hashes")
	}

	newIDs := make(map[string]bool, len(embeddable))
	var toEmbed []entity.Entity
	result := Result{}
	for _, ent := range embeddable {
		id := ent.ID()
		newIDs[id] = true
		hash := entity.ContentHashHex(ent)
		prevHash, present := existing[id]
		switch {
		case !present:
			toEmbed = append(toEmbed, ent)
		case prevHash != hash:
			toEmbed = append(toEmbed, ent)
		default:
			result.Skipped++
		}
	}

	var removed []string
	for id := range existing {
		if newIDs[id] {
			continue
		}
		if filesParsed != nil && !entityFileWasParsed(id, filesParsed) {
			continue
		}
		removed = append(removed, id)
	}
	for _, id := range removed {
		if err := e.Store.Delete(ctx, id); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("delete %s: %v", id, err))
			continue
		}
		result.Deleted++
	}

	batchResult := e.embedAndUpsert(ctx, repo, toEmbed, existing)
	result.merge(batchResult)
	return result, nil
}

// SyncFile is SyncAll constrained to path: the existing-hash lookup
// and the removed set are both scoped to path's own entities.
func (e *Engine) SyncFile(ctx context.Context, repo, path string, entities []entity.Entity) (Result, error) {
	return e.SyncAll(ctx, repo, entities, map[string]bool{path: true})
}

// Diff runs the classification stage of SyncAll (steps 1-4) without
// embedding or mutating the store, returning the Result a real sync
// would produce. This backs the reindex dry_run supplement (SPEC_FULL
// §5): new/changed entities are tallied as Added/Updated by presence
// in the existing-hash map, never actually embedded or upserted.
func (e *Engine) Diff(ctx context.Context, repo string, entities []entity.Entity, filesParsed map[string]bool) (Result, error) {
	embeddable := filterEmbeddable(entities)

	existing, err := e.Store.ContentHashes(ctx, repo)
	if err != nil {
		return Result{}, errs.Wrap(errs.Store, err, "sync: read content hashes")
	}

	newIDs := make(map[string]bool, len(embeddable))
	result := Result{}
	for _, ent := range embeddable {
		id := ent.ID()
		newIDs[id] = true
		hash := entity.ContentHashHex(ent)
		prevHash, present := existing[id]
		switch {
		case !present:
			result.Added++
		case prevHash != hash:
			result.Updated++
		default:
			result.Skipped++
		}
	}

	for id := range existing {
		if newIDs[id] {
			continue
		}
		if filesParsed != nil && !entityFileWasParsed(id, filesParsed) {
			continue
		}
		result.Deleted++
	}
	return result, nil
}

// DeleteFile removes every stored record for path and returns the
// count removed.
func (e *Engine) DeleteFile(ctx context.Context, repo, path string) (int, error) {
	return e.Store.DeleteWhere(ctx, vectorstore.Filter{Repo: repo, FilePathPrefix: path})
}

// FullReindex deletes every record for repo first, then syncs as if
// nothing existed, guaranteeing a clean rebuild.
func (e *Engine) FullReindex(ctx context.Context, repo string, entities []entity.Entity) (Result, error) {
	if _, err := e.Store.DeleteWhere(ctx, vectorstore.Filter{Repo: repo}); err != nil {
		return Result{}, errs.Wrap(errs.Store, err, "sync: full_reindex delete")
	}
	return e.SyncAll(ctx, repo, entities, nil)
}

func (e *Engine) embedAndUpsert(ctx context.Context, repo string, entities []entity.Entity, existing map[string]string) Result {
	result := Result{}
	batchSize := e.BatchSize
	if batchSize <= 0 {
		batchSize = 32
	}

	for start := 0; start < len(entities); start += batchSize {
		end := start + batchSize
		if end > len(entities) {
			end = len(entities)
		}
		batch := entities[start:end]

		texts := make([]string, len(batch))
		for i, ent := range batch {
			texts[i] = embeddingText(ent)
		}

		vectors, err := e.Backend.Encode(ctx, texts, false)
		if err != nil {
			for _, ent := range batch {
				result.Errors = append(result.Errors, fmt.Sprintf("embed %s: %v", ent.ID(), err))
			}
			continue
		}

		records := make([]vectorstore.Record, len(batch))
		for i, ent := range batch {
			records[i] = toRecord(repo, ent, vectors[i])
		}
		if err := e.Store.BulkUpsert(ctx, records); err != nil {
			for _, ent := range batch {
				result.Errors = append(result.Errors, fmt.Sprintf("upsert %s: %v", ent.ID(), err))
			}
			continue
		}

		for _, ent := range batch {
			if _, present := existing[ent.ID()]; present {
				result.Updated++
			} else {
				result.Added++
			}
		}
	}
	return result
}

func filterEmbeddable(entities []entity.Entity) []entity.Entity {
	var out []entity.Entity
	for _, e := range entities {
		if entity.IsEmbeddable(e) {
			out = append(out, e)
		}
	}
	return out
}

// entityFileWasParsed reports whether id's originating file is in the
// parsed set. Entity ids are "<repo>:<file_path>:<name>" or
// "<repo>:<file_path>:<Class>.<name>", so the file path is always the
// second colon-delimited segment.
func entityFileWasParsed(id string, filesParsed map[string]bool) bool {
	parts := splitID(id)
	if len(parts) < 2 {
		return false
	}
	return filesParsed[parts[1]]
}

func splitID(id string) []string {
	var parts []string
	start := 0
	for i := 0; i < len(id); i++ {
		if id[i] == ':' {
			parts = append(parts, id[start:i])
			start = i + 1
			if len(parts) == 2 {
				break
			}
		}
	}
	parts = append(parts, id[start:])
	return parts
}

// embeddingText builds the text sent to the backend: signature and
// docstring carry the most retrieval signal, code grounds it.
func embeddingText(e entity.Entity) string {
	switch v := e.(type) {
	case entity.Function:
		return v.Signature + "\n" + v.Docstring + "\n" + v.Code
	case entity.Class:
		return v.Name + "\n" + v.Docstring + "\n" + v.Code
	case entity.TypeDefinition:
		return v.Name + "\n" + v.Docstring + "\n" + v.Definition
	default:
		return ""
	}
}

func toRecord(repo string, e entity.Entity, vector []float32) vectorstore.Record {
	loc := e.Loc()
	md := vectorstore.Metadata{
		Repo:        repo,
		EntityType:  string(e.EntityKind()),
		FilePath:    loc.FilePath,
		Name:        loc.Name,
		ContentHash: entity.ContentHashHex(e),
		StartLine:   loc.StartLine,
		EndLine:     loc.EndLine,
	}
	switch v := e.(type) {
	case entity.Function:
		md.Signature = v.Signature
		md.Docstring = v.Docstring
		md.Code = v.Code
		md.ClassName = v.ClassName
	case entity.Class:
		md.Code = v.Code
		md.Docstring = v.Docstring
	case entity.TypeDefinition:
		md.Code = v.Definition
		md.Docstring = v.Docstring
	}
	return vectorstore.Record{ID: e.ID(), Vector: vector, Metadata: md}
}
