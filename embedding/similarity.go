package embedding

import (
	"fmt"
	"math"
)

// CosineSimilarity calculates the cosine similarity between two vectors.
// Returns a value between -1 and 1, where 1 means identical direction.
func CosineSimilarity(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("vectors must have same length: %d != %d", len(a), len(b))
	}
	if len(a) == 0 {
		return 0, fmt.Errorf("vectors must not be empty")
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0, fmt.Errorf("vectors must not be zero vectors")
	}
	return dotProduct / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}

// RelevanceFromSquaredL2 maps a squared L2 distance over unit-normalized
// vectors to a relevance score in [0,1], higher meaning more relevant.
// For unit vectors, squared L2 distance = 2 - 2*cos, so relevance is
// 1 - distance/2 = cos clamped to [0,1]. This transform is fixed for the
// lifetime of the system; changing it invalidates tuned thresholds.
func RelevanceFromSquaredL2(distance float64) float64 {
	relevance := 1 - distance/2
	if relevance < 0 {
		return 0
	}
	if relevance > 1 {
		return 1
	}
	return relevance
}

// RelevanceFromCosine maps a cosine similarity in [-1,1] to [0,1].
// Similarities from real embedding models are almost always positive, so
// this is usually the identity; the clamp covers adversarial vectors.
func RelevanceFromCosine(similarity float64) float64 {
	if similarity < 0 {
		return 0
	}
	if similarity > 1 {
		return 1
	}
	return similarity
}

// Normalize returns a unit-length copy of v. A zero vector is returned
// unchanged.
func Normalize(v []float32) []float32 {
	var norm float64
	for _, x := range v {
		norm += float64(x) * float64(x)
	}
	if norm == 0 {
		return v
	}
	norm = math.Sqrt(norm)

	out := make([]float32, len(v))
	for i, x := range v {
		out[i] = float32(float64(x) / norm)
	}
	return out
}
