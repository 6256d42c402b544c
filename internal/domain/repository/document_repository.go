package repository

import (
	"context"

	"om-api/internal/domain/entity"
)

type DocumentRepository interface {
	Create(ctx context.Context, doc *entity.Document) error
	FindByID(ctx context.Context, id string) (*entity.Document, error)
	List(ctx context.Context, page, limit int) ([]entity.DocumentWithMetrics, int, error)
	// UpdateStatus moves a processing document to a terminal status. It reports
	// false when the document was not in processing any more.
	UpdateStatus(ctx context.Context, id string, status entity.DocumentStatus, reason string) (bool, error)
}
