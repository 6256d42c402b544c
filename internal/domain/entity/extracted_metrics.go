package entity

import "time"

// ExtractionFailedSummary is the risk summary of the fallback metrics record.
const ExtractionFailedSummary = "Extraction failed"

// ExtractedMetrics holds the financial figures pulled out of an offering
// memorandum. Every field is nullable; the json tags are also the field names
// the language model is asked to produce.
type ExtractedMetrics struct {
	ID            string    `db:"id" json:"-"`
	DocumentID    string    `db:"document_id" json:"-"`
	PurchasePrice *float64  `db:"purchase_price" json:"purchase_price"`
	NOI           *float64  `db:"noi" json:"noi"`
	CapRate       *float64  `db:"cap_rate" json:"cap_rate"`
	Occupancy     *float64  `db:"occupancy" json:"occupancy"`
	Units         *int      `db:"units" json:"units"`
	YearBuilt     *int      `db:"year_built" json:"year_built"`
	PropertyType  *string   `db:"property_type" json:"property_type"`
	Location      *string   `db:"location" json:"location"`
	RiskSummary   *string   `db:"risk_summary" json:"risk_summary"`
	CreatedAt     time.Time `db:"created_at" json:"-"`
}

// FallbackMetrics returns the record stored when the model output cannot be parsed.
func FallbackMetrics() *ExtractedMetrics {
	summary := ExtractionFailedSummary
	return &ExtractedMetrics{RiskSummary: &summary}
}
