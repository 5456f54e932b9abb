package persistence

// DimensionAdapter reconciles the embedding model's native vector width with
// the width the table stores. Reduction is prefix truncation: keep the first
// target components, drop the rest. Truncation is lossy, so similarity over
// truncated vectors approximates full-width similarity.
type DimensionAdapter struct {
	native int
	target int
}

// NewDimensionAdapter creates an adapter from native to target width.
// A target of zero or less means no reduction.
func NewDimensionAdapter(native, target int) DimensionAdapter {
	if target <= 0 {
		target = native
	}
	return DimensionAdapter{native: native, target: target}
}

// Native returns the width the embedding model emits.
func (a DimensionAdapter) Native() int { return a.native }

// Target returns the stored vector width.
func (a DimensionAdapter) Target() int { return a.target }

// Lossy reports whether reduction discards components.
func (a DimensionAdapter) Lossy() bool { return a.native > a.target }

// Reduce returns the vector truncated to the target width. Vectors at or
// below the target width pass through unchanged. The input is never
// modified.
func (a DimensionAdapter) Reduce(vec []float64) []float64 {
	if len(vec) <= a.target {
		return vec
	}
	out := make([]float64, a.target)
	copy(out, vec[:a.target])
	return out
}
