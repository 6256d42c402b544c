package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"om-api/internal/domain/entity"
	"om-api/internal/domain/repository"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type metricsRepository struct {
	db *sqlx.DB
}

func NewMetricsRepository(db *sqlx.DB) repository.MetricsRepository {
	return &metricsRepository{db: db}
}

func (r *metricsRepository) Create(ctx context.Context, metrics *entity.ExtractedMetrics) error {
	metrics.ID = uuid.New().String()
	metrics.CreatedAt = time.Now()

	query := `
		INSERT INTO extracted_metrics (
			id, document_id, purchase_price, noi, cap_rate, occupancy, units, year_built,
			property_type, location, risk_summary, created_at
		) VALUES (
			:id, :document_id, :purchase_price, :noi, :cap_rate, :occupancy, :units, :year_built,
			:property_type, :location, :risk_summary, :created_at
		)
	`
	_, err := r.db.NamedExecContext(ctx, query, metrics)
	return err
}

func (r *metricsRepository) FindByDocumentID(ctx context.Context, documentID string) (*entity.ExtractedMetrics, error) {
	var metrics entity.ExtractedMetrics
	query := `
		SELECT id, document_id, purchase_price, noi, cap_rate, occupancy, units, year_built,
			property_type, location, risk_summary, created_at
		FROM extracted_metrics WHERE document_id = $1
	`
	err := r.db.GetContext(ctx, &metrics, query, documentID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &metrics, nil
}
