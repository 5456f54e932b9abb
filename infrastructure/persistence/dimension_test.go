package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDimensionAdapter(t *testing.T) {
	tests := []struct {
		name      string
		native    int
		target    int
		wantLossy bool
	}{
		{name: "same width", native: 1536, target: 1536, wantLossy: false},
		{name: "truncating", native: 3072, target: 1536, wantLossy: true},
		{name: "target wider than native", native: 512, target: 1536, wantLossy: false},
		{name: "zero target falls back to native", native: 1536, target: 0, wantLossy: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewDimensionAdapter(tt.native, tt.target)
			assert.Equal(t, tt.wantLossy, a.Lossy())
			assert.Equal(t, tt.native, a.Native())
		})
	}
}

func TestDimensionAdapterReduce(t *testing.T) {
	a := NewDimensionAdapter(6, 3)

	vec := []float64{1, 2, 3, 4, 5, 6}
	got := a.Reduce(vec)

	assert.Equal(t, []float64{1, 2, 3}, got)
	// The input must not be mutated.
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6}, vec)
}

func TestDimensionAdapterReducePassThrough(t *testing.T) {
	a := NewDimensionAdapter(6, 10)

	vec := []float64{1, 2, 3}
	assert.Equal(t, vec, a.Reduce(vec))
}
