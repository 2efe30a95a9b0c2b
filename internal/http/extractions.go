package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	auditRepo "github.com/mrlokans/fastreed/internal/database/audit"
	"github.com/mrlokans/fastreed/internal/document"
	"github.com/mrlokans/fastreed/internal/entities"
)

const (
	defaultExtractionsLimit = 25
	maxExtractionsLimit     = 100
)

type ExtractionsController struct {
	auditTrail AuditTrail
	logger     *zap.Logger
}

func NewExtractionsController(auditTrail AuditTrail, logger *zap.Logger) *ExtractionsController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExtractionsController{auditTrail: auditTrail, logger: logger}
}

// List returns recorded upload attempts, most recent first.
// GET /api/extractions?limit=&offset=&format=&status=
func (ec *ExtractionsController) List(c *gin.Context) {
	limit, offset := parsePagination(c, defaultExtractionsLimit, maxExtractionsLimit)

	filter := auditRepo.Filter{}
	if f := c.Query("format"); f != "" {
		format := document.Format(f)
		if !format.Supported() {
			respondBadRequest(c, "invalid_format", "unknown format "+f)
			return
		}
		filter.Format = format.String()
	}
	switch status := entities.ExtractionStatus(c.Query("status")); status {
	case "":
	case entities.ExtractionStatusSuccess, entities.ExtractionStatusFailed:
		filter.Status = status
	default:
		respondBadRequest(c, "invalid_status", "status must be success or failed")
		return
	}

	events, total, err := ec.auditTrail.GetEvents(filter, limit, offset)
	if err != nil {
		respondInternalError(c, ec.logger, err, "list extractions")
		return
	}
	if events == nil {
		events = []entities.ExtractionEvent{}
	}

	c.JSON(http.StatusOK, newPaginatedResponse(events, total, limit, offset))
}
