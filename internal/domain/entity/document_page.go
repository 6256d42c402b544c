package entity

import "time"

type DocumentPage struct {
	ID         string    `db:"id" json:"id"`
	DocumentID string    `db:"document_id" json:"documentId"`
	PageNumber int       `db:"page_number" json:"pageNumber"`
	RawText    string    `db:"raw_text" json:"rawText"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
}
