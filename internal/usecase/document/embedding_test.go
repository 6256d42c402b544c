package document

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedEmbedder struct {
	values []float32
}

func (e fixedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	return e.values, nil
}

func TestEmbeddingGateway_ReturnsVector(t *testing.T) {
	g := NewEmbeddingGateway(fixedEmbedder{values: []float32{0.1, 0.2, 0.3}}, 3, 0)

	vec, err := g.Embed(context.Background(), "rent roll")
	require.NoError(t, err)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, vec.Slice())
}

func TestEmbeddingGateway_RejectsWrongDimension(t *testing.T) {
	g := NewEmbeddingGateway(fixedEmbedder{values: []float32{0.1, 0.2}}, 3, 0)

	_, err := g.Embed(context.Background(), "rent roll")
	assert.ErrorContains(t, err, "dimension mismatch")
}

func TestEmbeddingGateway_PropagatesServiceError(t *testing.T) {
	g := NewEmbeddingGateway(&fakeEmbedder{failOn: 1}, testDimensions, 0)

	_, err := g.Embed(context.Background(), "rent roll")
	assert.ErrorIs(t, err, errEmbeddingQuota)
}

func TestEmbeddingGateway_LimiterHonoursContext(t *testing.T) {
	g := NewEmbeddingGateway(&fakeEmbedder{}, testDimensions, 0.001)

	_, err := g.Embed(context.Background(), "first")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = g.Embed(ctx, "second")
	assert.Error(t, err)
}
