// Package embedbackend defines the embedding backend collaborator
// spec.md §6 describes as consumed, not implemented here, plus the
// default backend this system wires it to.
package embedbackend

import "context"

// Backend turns text into fixed-dimension vectors. IsQuery lets a
// backend apply an asymmetric query/document prefix internally
// (spec.md §6, "query-vs-document may require different input
// prefixes; the backend hides that").
type Backend interface {
	Encode(ctx context.Context, texts []string, isQuery bool) ([][]float32, error)
	Dimensions() int
}
