package embedding

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockProvider_Deterministic(t *testing.T) {
	p := NewMockProvider(64)
	ctx := context.Background()

	a, err := p.GenerateEmbedding(ctx, "the same text")
	require.NoError(t, err)
	b, err := p.GenerateEmbedding(ctx, "the same text")
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Len(t, a, 64)
	assert.Equal(t, 64, p.Dimension())
}

func TestMockProvider_DistinctTexts(t *testing.T) {
	p := NewMockProvider(64)
	ctx := context.Background()

	a, err := p.GenerateEmbedding(ctx, "databases")
	require.NoError(t, err)
	b, err := p.GenerateEmbedding(ctx, "gardening")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}

func TestMockProvider_UnitLength(t *testing.T) {
	p := NewMockProvider(32)

	vec, err := p.GenerateEmbedding(context.Background(), "normalize me")
	require.NoError(t, err)

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	assert.InDelta(t, 1.0, math.Sqrt(norm), 1e-5)
}
