package persistence

import (
	"math"
	"sort"
	"time"

	"github.com/jobvault/jobvault/domain/record"
)

// CosineSimilarity computes the cosine similarity between two vectors.
// Returns a value between -1 (opposite) and 1 (identical).
// Returns 0 if either vector has zero magnitude.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dotProduct, magA, magB float64
	for i := range a {
		dotProduct += a[i] * b[i]
		magA += a[i] * a[i]
		magB += b[i] * b[i]
	}

	if magA == 0 || magB == 0 {
		return 0
	}

	return dotProduct / (math.Sqrt(magA) * math.Sqrt(magB))
}

// scored pairs a candidate row with its similarity score for in-memory
// ranking on backends without a vector operator.
type scored struct {
	envelope  record.Envelope
	score     float64
	createdAt time.Time
	rowID     string
}

// rankTopK sorts candidates by score descending and returns the first k.
// Ties break by newest created_at, then row id, so ordering is stable.
func rankTopK(candidates []scored, k int) []scored {
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].score != candidates[j].score {
			return candidates[i].score > candidates[j].score
		}
		if !candidates[i].createdAt.Equal(candidates[j].createdAt) {
			return candidates[i].createdAt.After(candidates[j].createdAt)
		}
		return candidates[i].rowID < candidates[j].rowID
	})

	if k > 0 && k < len(candidates) {
		candidates = candidates[:k]
	}
	return candidates
}
