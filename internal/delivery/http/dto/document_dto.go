package dto

import (
	"time"

	"om-api/internal/domain/entity"
	"om-api/internal/usecase/document"
)

type UploadDocumentResponse struct {
	DocumentID string `json:"document_id"`
	Status     string `json:"status"`
}

// DocumentListItem is a document with its headline metrics flattened in.
type DocumentListItem struct {
	ID            string    `json:"id"`
	FileName      string    `json:"file_name"`
	Status        string    `json:"status"`
	FailureReason *string   `json:"failure_reason,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	PurchasePrice *float64  `json:"purchase_price"`
	NOI           *float64  `json:"noi"`
	CapRate       *float64  `json:"cap_rate"`
	Occupancy     *float64  `json:"occupancy"`
	Units         *int      `json:"units"`
	YearBuilt     *int      `json:"year_built"`
	PropertyType  *string   `json:"property_type"`
	Location      *string   `json:"location"`
}

type ListDocumentsResponse struct {
	Data []DocumentListItem `json:"data"`
	Meta PaginationMeta     `json:"meta"`
}

type PaginationMeta struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"total_pages"`
}

type MetricsInfo struct {
	PurchasePrice *float64 `json:"purchase_price"`
	NOI           *float64 `json:"noi"`
	CapRate       *float64 `json:"cap_rate"`
	Occupancy     *float64 `json:"occupancy"`
	Units         *int     `json:"units"`
	YearBuilt     *int     `json:"year_built"`
	PropertyType  *string  `json:"property_type"`
	Location      *string  `json:"location"`
	RiskSummary   *string  `json:"risk_summary"`
}

type DocumentDetailResponse struct {
	ID            string       `json:"id"`
	FileName      string       `json:"file_name"`
	Status        string       `json:"status"`
	FailureReason *string      `json:"failure_reason,omitempty"`
	CreatedAt     time.Time    `json:"created_at"`
	Metrics       *MetricsInfo `json:"metrics"`
}

type QueryDocumentRequest struct {
	Question string `json:"question" validate:"required,max=4000"`
}

type QueryDocumentResponse struct {
	Answer  string        `json:"answer"`
	Sources []QuerySource `json:"sources"`
}

type QuerySource struct {
	Page       int     `json:"page"`
	Excerpt    string  `json:"excerpt"`
	Similarity float64 `json:"similarity"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

func NewDocumentListItem(doc entity.DocumentWithMetrics) DocumentListItem {
	item := DocumentListItem{
		ID:            doc.ID,
		FileName:      doc.FileName,
		Status:        string(doc.Status),
		FailureReason: doc.FailureReason,
		CreatedAt:     doc.CreatedAt,
	}
	if m := doc.Metrics; m != nil {
		item.PurchasePrice = m.PurchasePrice
		item.NOI = m.NOI
		item.CapRate = m.CapRate
		item.Occupancy = m.Occupancy
		item.Units = m.Units
		item.YearBuilt = m.YearBuilt
		item.PropertyType = m.PropertyType
		item.Location = m.Location
	}
	return item
}

func NewDocumentDetailResponse(doc *entity.DocumentWithMetrics) DocumentDetailResponse {
	resp := DocumentDetailResponse{
		ID:            doc.ID,
		FileName:      doc.FileName,
		Status:        string(doc.Status),
		FailureReason: doc.FailureReason,
		CreatedAt:     doc.CreatedAt,
	}
	if m := doc.Metrics; m != nil {
		resp.Metrics = &MetricsInfo{
			PurchasePrice: m.PurchasePrice,
			NOI:           m.NOI,
			CapRate:       m.CapRate,
			Occupancy:     m.Occupancy,
			Units:         m.Units,
			YearBuilt:     m.YearBuilt,
			PropertyType:  m.PropertyType,
			Location:      m.Location,
			RiskSummary:   m.RiskSummary,
		}
	}
	return resp
}

func NewQueryDocumentResponse(result *document.QueryResult) QueryDocumentResponse {
	sources := make([]QuerySource, 0, len(result.Sources))
	for _, src := range result.Sources {
		sources = append(sources, QuerySource{
			Page:       src.Page,
			Excerpt:    src.Excerpt,
			Similarity: src.Similarity,
		})
	}
	return QueryDocumentResponse{Answer: result.Answer, Sources: sources}
}
