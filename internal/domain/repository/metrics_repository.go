package repository

import (
	"context"

	"om-api/internal/domain/entity"
)

type MetricsRepository interface {
	Create(ctx context.Context, metrics *entity.ExtractedMetrics) error
	FindByDocumentID(ctx context.Context, documentID string) (*entity.ExtractedMetrics, error)
}
