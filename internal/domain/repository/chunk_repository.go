package repository

import (
	"context"

	"om-api/internal/domain/entity"

	"github.com/pgvector/pgvector-go"
)

type ChunkRepository interface {
	Create(ctx context.Context, chunk *entity.DocumentChunk) error
	// MatchChunks returns up to limit chunks of one document ordered by
	// similarity to the query embedding, best first.
	MatchChunks(ctx context.Context, embedding pgvector.Vector, documentID string, limit int) ([]entity.ChunkMatch, error)
}
