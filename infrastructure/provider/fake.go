package provider

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"sync"
)

// FakeEmbedder is a deterministic in-process embedder for tests and offline
// use. Each text becomes a normalised bag-of-words vector: every token is
// hashed into a bucket, so texts that share words land closer together and
// semantic-recall assertions hold without a network call.
type FakeEmbedder struct {
	dimension int

	mu    sync.Mutex
	calls int
	fail  error
}

// NewFakeEmbedder creates a fake embedder with the given vector width.
func NewFakeEmbedder(dimension int) *FakeEmbedder {
	if dimension <= 0 {
		dimension = 32
	}
	return &FakeEmbedder{dimension: dimension}
}

// Dimension returns the configured vector width.
func (f *FakeEmbedder) Dimension() int {
	return f.dimension
}

// Embed generates one deterministic vector per text.
func (f *FakeEmbedder) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f.mu.Lock()
	f.calls++
	fail := f.fail
	f.mu.Unlock()
	if fail != nil {
		return nil, fail
	}

	vectors := make([][]float64, len(texts))
	for i, text := range texts {
		vectors[i] = f.vector(text)
	}
	return vectors, nil
}

// Calls returns how many times Embed was invoked.
func (f *FakeEmbedder) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// FailWith makes subsequent Embed calls return err. Pass nil to recover.
func (f *FakeEmbedder) FailWith(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.fail = err
}

func (f *FakeEmbedder) vector(text string) []float64 {
	vec := make([]float64, f.dimension)

	tokens := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !('a' <= r && r <= 'z' || '0' <= r && r <= '9')
	})
	for _, token := range tokens {
		h := fnv.New32a()
		_, _ = h.Write([]byte(token))
		vec[int(h.Sum32())%f.dimension]++
	}

	var norm float64
	for _, v := range vec {
		norm += v * v
	}
	if norm == 0 {
		vec[0] = 1
		return vec
	}
	norm = math.Sqrt(norm)
	for i := range vec {
		vec[i] /= norm
	}
	return vec
}

var _ Embedder = (*FakeEmbedder)(nil)
