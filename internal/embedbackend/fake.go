package embedbackend

import (
	"context"

	"github.com/cespare/xxhash/v2"
)

// Fake is a deterministic Backend for tests: each text hashes to a
// small fixed-dimension vector, so identical input always encodes
// identically without any network or model dependency.
type Fake struct {
	Dim int
}

func NewFake(dim int) *Fake {
	if dim <= 0 {
		dim = 8
	}
	return &Fake{Dim: dim}
}

func (f *Fake) Dimensions() int { return f.Dim }

func (f *Fake) Encode(ctx context.Context, texts []string, isQuery bool) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = f.vectorFor(t)
	}
	return out, nil
}

func (f *Fake) vectorFor(text string) []float32 {
	v := make([]float32, f.Dim)
	h := xxhash.Sum64String(text)
	for i := range v {
		shifted := h >> (uint(i%8) * 8)
		v[i] = float32(shifted&0xff) / 255.0
		h = h*1099511628211 + 1
	}
	return v
}
