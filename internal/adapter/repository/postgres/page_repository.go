package postgres

import (
	"context"
	"time"

	"om-api/internal/domain/entity"
	"om-api/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type pageRepository struct {
	db *sqlx.DB
}

func NewPageRepository(db *sqlx.DB) repository.PageRepository {
	return &pageRepository{db: db}
}

func (r *pageRepository) Create(ctx context.Context, page *entity.DocumentPage) error {
	page.ID = uuid.New().String()
	page.CreatedAt = time.Now()

	query := `
		INSERT INTO document_pages (id, document_id, page_number, raw_text, created_at)
		VALUES (:id, :document_id, :page_number, :raw_text, :created_at)
	`
	_, err := r.db.NamedExecContext(ctx, query, page)
	return err
}
