package http

import (
	"context"

	"github.com/mrlokans/fastreed/internal/audit"
	auditRepo "github.com/mrlokans/fastreed/internal/database/audit"
	"github.com/mrlokans/fastreed/internal/entities"
)

// DocumentExtractor turns an uploaded file into plain text.
// *document.Dispatcher satisfies it.
type DocumentExtractor interface {
	Extract(ctx context.Context, data []byte, filename string) (string, error)
}

// AuditTrail records upload attempts and lists them back.
// *audit.Service satisfies it.
type AuditTrail interface {
	LogExtraction(x audit.Extraction)
	GetEvents(filter auditRepo.Filter, limit, offset int) ([]entities.ExtractionEvent, int64, error)
}
