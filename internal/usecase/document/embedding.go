package document

import (
	"context"
	"fmt"

	"github.com/pgvector/pgvector-go"
	"golang.org/x/time/rate"
)

// EmbeddingService is the external embedding capability.
type EmbeddingService interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// EmbeddingGateway is the single path from text to vectors, used for chunks
// and questions alike so both land in the same embedding space.
type EmbeddingGateway struct {
	service    EmbeddingService
	dimensions int
	limiter    *rate.Limiter
}

// NewEmbeddingGateway wraps service. ratePerSecond <= 0 disables the limiter.
func NewEmbeddingGateway(service EmbeddingService, dimensions int, ratePerSecond float64) *EmbeddingGateway {
	limit := rate.Inf
	burst := 1
	if ratePerSecond > 0 {
		limit = rate.Limit(ratePerSecond)
		burst = max(1, int(ratePerSecond))
	}
	return &EmbeddingGateway{
		service:    service,
		dimensions: dimensions,
		limiter:    rate.NewLimiter(limit, burst),
	}
}

func (g *EmbeddingGateway) Embed(ctx context.Context, text string) (pgvector.Vector, error) {
	if err := g.limiter.Wait(ctx); err != nil {
		return pgvector.Vector{}, fmt.Errorf("embedding rate limiter: %w", err)
	}

	values, err := g.service.Embed(ctx, text)
	if err != nil {
		return pgvector.Vector{}, fmt.Errorf("failed to generate embedding: %w", err)
	}
	if len(values) != g.dimensions {
		return pgvector.Vector{}, fmt.Errorf("embedding dimension mismatch: expected %d, got %d", g.dimensions, len(values))
	}

	return pgvector.NewVector(values), nil
}
