package models

import "time"

// IngestPage is one scanned page waiting in the review queue. Content holds
// either corrected plain text or the structured OCR JSON payload.
type IngestPage struct {
	ID         string    `json:"id" db:"id"`
	Filename   string    `json:"filename" db:"filename"`
	ImageURL   string    `json:"image_url" db:"image_url"`
	Content    string    `json:"content" db:"content"`
	PageNumber int       `json:"page_number" db:"page_number"`
	DocumentID string    `json:"document_id" db:"document_id"`
	Status     Status    `json:"status" db:"status"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`

	// Joined from the owning document for display; empty when the page is
	// not linked to a document.
	DocumentTitle    string `json:"document_title,omitempty"`
	DocumentCategory string `json:"document_category,omitempty"`
}
