// Package embedding turns text into fixed-dimensionality vectors via an
// external embedding service.
package embedding

import (
	"context"
	"math"
)

// Provider generates vector embeddings from text
type Provider interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
	Dimension() int
}

// MockProvider produces deterministic embeddings for tests. Identical text
// yields identical unit-length vectors.
type MockProvider struct {
	dim int
}

// NewMockProvider creates a mock provider with the given dimensionality.
func NewMockProvider(dim int) *MockProvider {
	return &MockProvider{dim: dim}
}

func (p *MockProvider) Dimension() int {
	return p.dim
}

func (p *MockProvider) GenerateEmbedding(_ context.Context, text string) ([]float32, error) {
	vec := make([]float32, p.dim)
	var h uint64 = 14695981039346656037
	for _, b := range []byte(text) {
		h ^= uint64(b)
		h *= 1099511628211
	}
	var norm float64
	for i := range vec {
		h ^= h << 13
		h ^= h >> 7
		h ^= h << 17
		v := float32(int64(h%2000)-1000) / 1000
		vec[i] = v
		norm += float64(v) * float64(v)
	}
	norm = math.Sqrt(norm)
	if norm > 0 {
		for i := range vec {
			vec[i] = float32(float64(vec[i]) / norm)
		}
	}
	return vec, nil
}
