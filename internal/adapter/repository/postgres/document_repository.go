package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"om-api/internal/domain/entity"
	"om-api/internal/domain/repository"

	"github.com/jmoiron/sqlx"
)

type documentRepository struct {
	db *sqlx.DB
}

func NewDocumentRepository(db *sqlx.DB) repository.DocumentRepository {
	return &documentRepository{db: db}
}

// create document, the caller assigns the id
func (r *documentRepository) Create(ctx context.Context, doc *entity.Document) error {
	doc.CreatedAt = time.Now()
	doc.UpdatedAt = doc.CreatedAt

	query := `
		INSERT INTO documents (id, file_name, file_path, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query, doc.ID, doc.FileName, doc.FilePath, doc.Status, doc.CreatedAt, doc.UpdatedAt)
	return err
}

// find document by id
func (r *documentRepository) FindByID(ctx context.Context, id string) (*entity.Document, error) {
	var doc entity.Document
	query := `
		SELECT id, file_name, file_path, status, failure_reason, created_at, updated_at
		FROM documents WHERE id = $1
	`
	err := r.db.GetContext(ctx, &doc, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// list documents, newest first, with their metrics
func (r *documentRepository) List(ctx context.Context, page, limit int) ([]entity.DocumentWithMetrics, int, error) {
	offset := (page - 1) * limit

	query := `
		SELECT
			d.id, d.file_name, d.file_path, d.status, d.failure_reason, d.created_at, d.updated_at,
			m.id, m.purchase_price, m.noi, m.cap_rate, m.occupancy, m.units, m.year_built,
			m.property_type, m.location, m.risk_summary, m.created_at
		FROM documents d
		LEFT JOIN extracted_metrics m ON m.document_id = d.id
		ORDER BY d.created_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	docs := []entity.DocumentWithMetrics{}
	for rows.Next() {
		var (
			doc              entity.DocumentWithMetrics
			metrics          entity.ExtractedMetrics
			metricsID        sql.NullString
			metricsCreatedAt sql.NullTime
		)
		err := rows.Scan(
			&doc.ID,
			&doc.FileName,
			&doc.FilePath,
			&doc.Status,
			&doc.FailureReason,
			&doc.CreatedAt,
			&doc.UpdatedAt,
			&metricsID,
			&metrics.PurchasePrice,
			&metrics.NOI,
			&metrics.CapRate,
			&metrics.Occupancy,
			&metrics.Units,
			&metrics.YearBuilt,
			&metrics.PropertyType,
			&metrics.Location,
			&metrics.RiskSummary,
			&metricsCreatedAt,
		)
		if err != nil {
			return nil, 0, err
		}
		if metricsID.Valid {
			metrics.ID = metricsID.String
			metrics.DocumentID = doc.ID
			metrics.CreatedAt = metricsCreatedAt.Time
			doc.Metrics = &metrics
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM documents`); err != nil {
		return nil, 0, err
	}

	return docs, total, nil
}

// update status, only a processing document can move
func (r *documentRepository) UpdateStatus(ctx context.Context, id string, status entity.DocumentStatus, reason string) (bool, error) {
	var failureReason *string
	if reason != "" {
		failureReason = &reason
	}

	query := `
		UPDATE documents
		SET status = $1, failure_reason = $2, updated_at = NOW()
		WHERE id = $3 AND status = $4
	`
	res, err := r.db.ExecContext(ctx, query, status, failureReason, id, entity.StatusProcessing)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
