package entities

import "time"

type ExtractionStatus string

const (
	ExtractionStatusSuccess ExtractionStatus = "success"
	ExtractionStatusFailed  ExtractionStatus = "failed"
)

// ExtractionEvent records one upload attempt. It never holds the uploaded
// bytes, the extracted text or the client's address and user agent.
type ExtractionEvent struct {
	ID         uint             `gorm:"primaryKey" json:"id"`
	RequestID  string           `gorm:"size:36;index" json:"request_id"`
	Filename   string           `gorm:"size:255" json:"filename"`
	Format     string           `gorm:"size:20;index" json:"format"`
	SizeBytes  int64            `json:"size_bytes"`
	Status     ExtractionStatus `gorm:"size:20;index" json:"status"`
	ErrorKind  string           `gorm:"size:50" json:"error_kind,omitempty"`
	ErrorMsg   string           `gorm:"size:500" json:"error_msg,omitempty"`
	TextLength int              `json:"text_length"` // In characters
	DurationMs int64            `json:"duration_ms"`
	CreatedAt  time.Time        `gorm:"index" json:"created_at"`
}

func (ExtractionEvent) TableName() string {
	return "extraction_events"
}
