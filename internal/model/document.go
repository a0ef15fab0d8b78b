package model

import "time"

const (
	DocumentStatusExtracted = "extracted"
	DocumentStatusSkipped   = "skipped"
	DocumentStatusFailed    = "failed"
)

// Document holds the plain text extracted from an uploaded file by the
// background worker. Extraction never blocks the upload request.
type Document struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	SpaceID    uint      `gorm:"not null;index" json:"space_id"`
	OwnerToken string    `gorm:"size:16;not null;index" json:"owner_token"`
	Path       string    `gorm:"size:512;not null" json:"path"`
	Text       string    `gorm:"type:longtext" json:"text,omitempty"`
	Status     string    `gorm:"size:32;not null" json:"status"`
	CreatedAt  time.Time `json:"created_at"`
}

// ExtractJob is the queue payload published per stored upload.
type ExtractJob struct {
	SpaceID      uint   `json:"space_id"`
	OwnerToken   string `json:"owner_token"`
	Path         string `json:"path"`
	OriginalName string `json:"original_name"`
}
