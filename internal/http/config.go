package http

import (
	"go.uber.org/zap"

	"github.com/mrlokans/fastreed/internal/config"
	"github.com/mrlokans/fastreed/internal/database"
)

// RouterConfig contains all dependencies and configuration needed
// to create the HTTP router.
type RouterConfig struct {
	// Core dependencies
	Extractor DocumentExtractor
	Database  *database.Database

	// Extraction audit trail (optional)
	AuditTrail AuditTrail

	// Mount GET /api/extractions; ignored without an AuditTrail
	ExposeExtractions bool

	// Upload limits; a file of exactly MaxFileSize bytes is accepted
	MaxFileSize int64

	// Words per minute when /rsvp is called without a speed
	DefaultRSVPSpeed int

	CORS config.CORS

	// Application info
	Version string

	Logger *zap.Logger
}
