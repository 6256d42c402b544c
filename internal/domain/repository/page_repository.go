package repository

import (
	"context"

	"om-api/internal/domain/entity"
)

type PageRepository interface {
	Create(ctx context.Context, page *entity.DocumentPage) error
}
