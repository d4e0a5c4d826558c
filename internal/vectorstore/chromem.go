package vectorstore

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"

	chromem "github.com/philippgille/chromem-go"

	"github.com/codeloom/codeloom/internal/errs"
)

const collectionName = "codeloom_entities"

// ChromemStore is the default Store, an embedded on-disk vector
// database that needs no separate service — the right fit for a
// single-process, single-repo indexer (spec.md §6's persisted
// "vector store directory: owned by the embedding backend").
type ChromemStore struct {
	mu         sync.Mutex
	collection *chromem.Collection
}

// NewChromemStore opens (creating if absent) a persistent database
// rooted at dir. Since codeloom supplies its own vectors, the
// collection's embedding function is never invoked; it exists only to
// satisfy chromem-go's collection constructor.
func NewChromemStore(dir string) (*ChromemStore, error) {
	db, err := chromem.NewPersistentDB(dir, false)
	if err != nil {
		return nil, errs.Wrap(errs.Store, err, "vectorstore: open chromem db")
	}
	collection, err := db.GetOrCreateCollection(collectionName, nil, unusedEmbeddingFunc)
	if err != nil {
		return nil, errs.Wrap(errs.Store, err, "vectorstore: get or create collection")
	}
	return &ChromemStore{collection: collection}, nil
}

func unusedEmbeddingFunc(ctx context.Context, text string) ([]float32, error) {
	return nil, fmt.Errorf("vectorstore: embedding function should never be invoked, vectors are supplied directly")
}

func (s *ChromemStore) Upsert(ctx context.Context, r Record) error {
	return s.BulkUpsert(ctx, []Record{r})
}

func (s *ChromemStore) BulkUpsert(ctx context.Context, rs []Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	docs := make([]chromem.Document, len(rs))
	for i, r := range rs {
		docs[i] = chromem.Document{
			ID:        r.ID,
			Content:   r.Metadata.Code,
			Metadata:  metadataToMap(r.Metadata),
			Embedding: r.Vector,
		}
	}
	if err := s.collection.AddDocuments(ctx, docs, 1); err != nil {
		return errs.Wrap(errs.Store, err, "vectorstore: bulk upsert")
	}
	return nil
}

func (s *ChromemStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.collection.Delete(ctx, nil, nil, id); err != nil {
		return errs.Wrap(errs.Store, err, "vectorstore: delete")
	}
	return nil
}

func (s *ChromemStore) DeleteWhere(ctx context.Context, f Filter) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := s.matchingIDsLocked(f)
	if len(ids) == 0 {
		return 0, nil
	}
	if err := s.collection.Delete(ctx, nil, nil, ids...); err != nil {
		return 0, errs.Wrap(errs.Store, err, "vectorstore: delete_where")
	}
	return len(ids), nil
}

func (s *ChromemStore) Get(ctx context.Context, id string) (Record, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	doc, err := s.collection.GetByID(ctx, id)
	if err != nil {
		return Record{}, false, nil
	}
	return Record{ID: doc.ID, Vector: doc.Embedding, Metadata: metadataFromMap(doc.Metadata)}, true, nil
}

func (s *ChromemStore) ContentHashes(ctx context.Context, repo string) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string)
	for _, doc := range s.collection.GetAll(ctx) {
		if doc.Metadata["repo"] != repo {
			continue
		}
		out[doc.ID] = doc.Metadata["content_hash"]
	}
	return out, nil
}

func (s *ChromemStore) Search(ctx context.Context, queryVec []float32, limit int, f Filter) ([]Hit, error) {
	s.mu.Lock()
	where := filterToWhere(f)
	count := s.collection.Count()
	s.mu.Unlock()

	if count == 0 {
		return nil, nil
	}

	// file_path_prefix isn't an equality match chromem-go's where clause
	// can express, so it's applied post-hoc below. The nearest `limit`
	// neighbors by repo/entity_type alone can all fall outside the
	// prefix, so over-fetch every matching record and truncate after
	// filtering rather than handing limit to QueryEmbedding directly.
	queryLimit := limit
	if f.FilePathPrefix != "" {
		queryLimit = count
	}
	if queryLimit > count {
		queryLimit = count
	}

	results, err := s.collection.QueryEmbedding(ctx, queryVec, queryLimit, where, nil)
	if err != nil {
		return nil, errs.Wrap(errs.Store, err, "vectorstore: search")
	}

	hits := make([]Hit, 0, len(results))
	for _, r := range results {
		if f.FilePathPrefix != "" && !strings.HasPrefix(r.Metadata["file_path"], f.FilePathPrefix) {
			continue
		}
		hits = append(hits, Hit{ID: r.ID, Metadata: metadataFromMap(r.Metadata), Similarity: float64(r.Similarity)})
		if len(hits) == limit {
			break
		}
	}
	return hits, nil
}

func (s *ChromemStore) matchingIDsLocked(f Filter) []string {
	var ids []string
	for _, doc := range s.collection.GetAll(context.Background()) {
		if matches(doc.Metadata, f) {
			ids = append(ids, doc.ID)
		}
	}
	return ids
}

func matches(md map[string]string, f Filter) bool {
	if f.Repo != "" && md["repo"] != f.Repo {
		return false
	}
	if f.EntityType != "" && md["entity_type"] != f.EntityType {
		return false
	}
	if f.FilePathPrefix != "" && !strings.HasPrefix(md["file_path"], f.FilePathPrefix) {
		return false
	}
	return true
}

func filterToWhere(f Filter) map[string]string {
	where := map[string]string{}
	if f.Repo != "" {
		where["repo"] = f.Repo
	}
	if f.EntityType != "" {
		where["entity_type"] = f.EntityType
	}
	return where // file_path_prefix isn't an equality match; Search applies it post-hoc
}

func metadataToMap(m Metadata) map[string]string {
	return map[string]string{
		"repo":         m.Repo,
		"entity_type":  m.EntityType,
		"file_path":    m.FilePath,
		"name":         m.Name,
		"content_hash": m.ContentHash,
		"start_line":   strconv.Itoa(m.StartLine),
		"end_line":     strconv.Itoa(m.EndLine),
		"signature":    m.Signature,
		"docstring":    m.Docstring,
		"class_name":   m.ClassName,
		"code":         m.Code,
	}
}

func metadataFromMap(md map[string]string) Metadata {
	start, _ := strconv.Atoi(md["start_line"])
	end, _ := strconv.Atoi(md["end_line"])
	return Metadata{
		Repo:        md["repo"],
		EntityType:  md["entity_type"],
		FilePath:    md["file_path"],
		Name:        md["name"],
		Code:        md["code"],
		ContentHash: md["content_hash"],
		StartLine:   start,
		EndLine:     end,
		Signature:   md["signature"],
		Docstring:   md["docstring"],
		ClassName:   md["class_name"],
	}
}
