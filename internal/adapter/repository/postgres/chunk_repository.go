package postgres

import (
	"context"
	"time"

	"om-api/internal/domain/entity"
	"om-api/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pgvector/pgvector-go"
)

type chunkRepository struct {
	db *sqlx.DB
}

func NewChunkRepository(db *sqlx.DB) repository.ChunkRepository {
	return &chunkRepository{db: db}
}

// create chunk, content and embedding go in one row
func (r *chunkRepository) Create(ctx context.Context, chunk *entity.DocumentChunk) error {
	chunk.ID = uuid.New().String()
	chunk.CreatedAt = time.Now()

	query := `
		INSERT INTO document_chunks (id, document_id, page_number, content, embedding, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query,
		chunk.ID,
		chunk.DocumentID,
		chunk.PageNumber,
		chunk.Content,
		chunk.Embedding,
		chunk.CreatedAt,
	)
	return err
}

// MatchChunks calls the match_document_chunks search function
func (r *chunkRepository) MatchChunks(ctx context.Context, embedding pgvector.Vector, documentID string, limit int) ([]entity.ChunkMatch, error) {
	matches := []entity.ChunkMatch{}
	query := `SELECT id, page_number, content, similarity FROM match_document_chunks($1, $2, $3)`
	if err := r.db.SelectContext(ctx, &matches, query, embedding, documentID, limit); err != nil {
		return nil, err
	}
	return matches, nil
}
