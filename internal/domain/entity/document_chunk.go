package entity

import (
	"time"

	"github.com/pgvector/pgvector-go"
)

type DocumentChunk struct {
	ID         string          `db:"id" json:"id"`
	DocumentID string          `db:"document_id" json:"documentId"`
	PageNumber int             `db:"page_number" json:"pageNumber"`
	Content    string          `db:"content" json:"content"`
	Embedding  pgvector.Vector `db:"embedding" json:"-"`
	CreatedAt  time.Time       `db:"created_at" json:"createdAt"`
}

// ChunkMatch is one row of a nearest-neighbour search, best match first.
type ChunkMatch struct {
	ID         string  `db:"id" json:"id"`
	PageNumber int     `db:"page_number" json:"pageNumber"`
	Content    string  `db:"content" json:"content"`
	Similarity float64 `db:"similarity" json:"similarity"`
}
