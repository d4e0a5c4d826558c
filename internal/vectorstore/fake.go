package vectorstore

import (
	"context"
	"math"
	"sort"
	"sync"
)

// Fake is an in-memory Store used by tests that exercise the sync
// engine without standing up chromem-go; it implements the exact same
// contract as ChromemStore.
type Fake struct {
	mu      sync.Mutex
	records map[string]Record
}

func NewFake() *Fake { return &Fake{records: make(map[string]Record)} }

func (f *Fake) Upsert(ctx context.Context, r Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records[r.ID] = r
	return nil
}

func (f *Fake) BulkUpsert(ctx context.Context, rs []Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range rs {
		f.records[r.ID] = r
	}
	return nil
}

func (f *Fake) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.records, id)
	return nil
}

func (f *Fake) DeleteWhere(ctx context.Context, filter Filter) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for id, r := range f.records {
		if matches(metadataToMap(r.Metadata), filter) {
			delete(f.records, id)
			n++
		}
	}
	return n, nil
}

func (f *Fake) Get(ctx context.Context, id string) (Record, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.records[id]
	return r, ok, nil
}

func (f *Fake) ContentHashes(ctx context.Context, repo string) (map[string]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[string]string)
	for id, r := range f.records {
		if r.Metadata.Repo == repo {
			out[id] = r.Metadata.ContentHash
		}
	}
	return out, nil
}

func (f *Fake) Search(ctx context.Context, queryVec []float32, limit int, filter Filter) ([]Hit, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var hits []Hit
	for _, r := range f.records {
		if !matches(metadataToMap(r.Metadata), filter) {
			continue
		}
		hits = append(hits, Hit{ID: r.ID, Metadata: r.Metadata, Similarity: cosine(queryVec, r.Vector)})
	}
	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Similarity != hits[j].Similarity {
			return hits[i].Similarity > hits[j].Similarity
		}
		return hits[i].ID < hits[j].ID
	})
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

func cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
