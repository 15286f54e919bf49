// Package ranking scores candidates against jobs from embeddings and skill sets.
package ranking

import "math"

// CosineSimilarity returns the cosine of the angle between a and b, clamped to [-1, 1].
// Empty vectors, vectors of different length and zero-norm vectors score 0.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	switch {
	case math.IsNaN(sim):
		return 0
	case sim > 1:
		return 1
	case sim < -1:
		return -1
	default:
		return sim
	}
}
