package repositories

import "context"

// DocumentEvent is the payload sent to the external processing workflow
// after an upload or replace completes.
type DocumentEvent struct {
	DocumentID string `json:"documentId"`
	VersionID  string `json:"versionId"`
	Title      string `json:"title"`
	Filename   string `json:"filename"`
	Category   string `json:"category"`
	FileURL    string `json:"fileUrl"`
	Version    string `json:"version"`
}

// PagePayload is one approved review-queue page sent for vectorization.
type PagePayload struct {
	ID         string `json:"id"`
	Filename   string `json:"filename"`
	ImageURL   string `json:"image_url"`
	Content    string `json:"content"`
	PageNumber int    `json:"page_number"`
	DocumentID string `json:"document_id"`
}

// WorkflowNotifier delivers structured payloads to the external workflow
// endpoints. The endpoints are opaque request/response services; responses
// are not interpreted beyond success/failure.
type WorkflowNotifier interface {
	// NotifyDocument announces a freshly uploaded document version for
	// downstream processing.
	NotifyDocument(ctx context.Context, event DocumentEvent) error

	// SendPages delivers a batch of approved pages for vectorization.
	SendPages(ctx context.Context, pages []PagePayload) error
}
