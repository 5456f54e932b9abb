package provider

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cosine(a, b []float64) float64 {
	var dot float64
	for i := range a {
		dot += a[i] * b[i]
	}
	return dot
}

func TestFakeEmbedderIsDeterministic(t *testing.T) {
	f := NewFakeEmbedder(64)
	ctx := context.Background()

	first, err := f.Embed(ctx, []string{"golang backend engineer"})
	require.NoError(t, err)
	second, err := f.Embed(ctx, []string{"golang backend engineer"})
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, first[0], 64)
	assert.Equal(t, 2, f.Calls())
}

func TestFakeEmbedderSharedWordsScoreHigher(t *testing.T) {
	f := NewFakeEmbedder(64)
	ctx := context.Background()

	vecs, err := f.Embed(ctx, []string{
		"golang backend engineer",
		"golang backend developer",
		"pastry chef",
	})
	require.NoError(t, err)

	// Vectors are unit length, so the dot product is the cosine similarity.
	similar := cosine(vecs[0], vecs[1])
	dissimilar := cosine(vecs[0], vecs[2])
	assert.Greater(t, similar, dissimilar)
}

func TestFakeEmbedderFailWith(t *testing.T) {
	f := NewFakeEmbedder(8)
	ctx := context.Background()

	boom := errors.New("provider down")
	f.FailWith(boom)
	_, err := f.Embed(ctx, []string{"text"})
	assert.ErrorIs(t, err, boom)

	f.FailWith(nil)
	_, err = f.Embed(ctx, []string{"text"})
	assert.NoError(t, err)
}

func TestFakeEmbedderEmptyTextGetsNonZeroVector(t *testing.T) {
	f := NewFakeEmbedder(8)

	vecs, err := f.Embed(context.Background(), []string{""})
	require.NoError(t, err)

	var norm float64
	for _, v := range vecs[0] {
		norm += v * v
	}
	assert.Greater(t, norm, 0.0)
}

func TestFakeEmbedderDefaultsDimension(t *testing.T) {
	f := NewFakeEmbedder(0)
	assert.Equal(t, 32, f.Dimension())
}
