// ABOUTME: Tests for the vector blob codec and cosine similarity
// ABOUTME: Round-trips vectors and checks similarity edge cases
package index

import (
	"math"
	"testing"
)

func TestVectorBlobRoundTrip(t *testing.T) {
	vectors := [][]float64{
		{},
		{0},
		{1.5, -2.25, 3.125},
		{math.MaxFloat64, math.SmallestNonzeroFloat64, -1},
	}

	for _, v := range vectors {
		got := BlobToVector(VectorToBlob(v))
		if len(got) != len(v) {
			t.Fatalf("round trip length = %d, want %d", len(got), len(v))
		}
		for i := range v {
			if got[i] != v[i] {
				t.Errorf("round trip[%d] = %v, want %v", i, got[i], v[i])
			}
		}
	}
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float64
		want float64
	}{
		{"identical", []float64{1, 2, 3}, []float64{1, 2, 3}, 1.0},
		{"scaled", []float64{1, 2, 3}, []float64{2, 4, 6}, 1.0},
		{"orthogonal", []float64{1, 0}, []float64{0, 1}, 0.0},
		{"opposite", []float64{1, 0}, []float64{-1, 0}, -1.0},
		{"length mismatch", []float64{1, 0}, []float64{1, 0, 0}, 0.0},
		{"zero vector", []float64{0, 0}, []float64{1, 1}, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CosineSimilarity(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("CosineSimilarity() = %v, want %v", got, tt.want)
			}
		})
	}
}
