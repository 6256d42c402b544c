package entity

import "time"

type DocumentStatus string

const (
	StatusProcessing DocumentStatus = "processing"
	StatusReady      DocumentStatus = "ready"
	StatusFailed     DocumentStatus = "failed"
)

type Document struct {
	ID            string         `db:"id" json:"id"`
	FileName      string         `db:"file_name" json:"fileName"`
	FilePath      string         `db:"file_path" json:"filePath"`
	Status        DocumentStatus `db:"status" json:"status"`
	FailureReason *string        `db:"failure_reason" json:"failureReason,omitempty"`
	CreatedAt     time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time      `db:"updated_at" json:"updatedAt"`
}

// DocumentWithMetrics pairs a document with its extracted metrics, if any.
type DocumentWithMetrics struct {
	Document
	Metrics *ExtractedMetrics `json:"metrics"`
}
