// Package vectorstore defines the vector store collaborator spec.md
// §6 describes as consumed, not implemented here, plus the default
// store this system wires it to.
package vectorstore

import "context"

// Metadata is the per-record payload spec.md §4.8 step 6 lists:
// repo, entity_type, file_path, name, content_hash, line range, and
// display fields (signature/docstring/code/class_name).
type Metadata struct {
	Repo         string
	EntityType   string
	FilePath     string
	Name         string
	ContentHash  string
	StartLine    int
	EndLine      int
	Signature    string
	Docstring    string
	Code         string
	ClassName    string
}

// Record is one upsert unit.
type Record struct {
	ID       string
	Vector   []float32
	Metadata Metadata
}

// Hit is one semantic_search result.
type Hit struct {
	ID         string
	Metadata   Metadata
	Similarity float64 // cosine similarity in [-1, 1]
}

// Filter narrows a query or a delete_where to records matching every
// non-zero field.
type Filter struct {
	Repo           string
	EntityType     string
	FilePathPrefix string
}

// Store is the collaborator interface; the default implementation,
// ChromemStore, is backed by chromem-go, an embedded pure-Go vector database appropriate for a
// single-process indexer.
type Store interface {
	Upsert(ctx context.Context, r Record) error
	BulkUpsert(ctx context.Context, rs []Record) error
	Delete(ctx context.Context, id string) error
	DeleteWhere(ctx context.Context, f Filter) (int, error)
	Get(ctx context.Context, id string) (Record, bool, error)
	ContentHashes(ctx context.Context, repo string) (map[string]string, error)
	Search(ctx context.Context, queryVec []float32, limit int, f Filter) ([]Hit, error)
}
