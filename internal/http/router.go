package http

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mrlokans/fastreed/internal/config"
)

// NewRouter creates and configures the HTTP router with all endpoints.
func NewRouter(cfg RouterConfig) (*gin.Engine, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Extractor == nil {
		return nil, fmt.Errorf("router: document extractor is required")
	}

	if cfg.MaxFileSize <= 0 {
		cfg.MaxFileSize = config.DefaultMaxFileSize
	}

	corsHandler, err := CORSMiddleware(cfg.CORS)
	if err != nil {
		return nil, fmt.Errorf("invalid CORS configuration: %w", err)
	}

	router := gin.New()
	router.Use(RequestIDMiddleware())
	router.Use(LoggerMiddleware(logger))
	router.Use(RecoveryMiddleware(logger))
	router.Use(corsHandler)

	health := NewHealthController(cfg.Database, cfg.Version)
	upload := NewUploadController(cfg.Extractor, cfg.AuditTrail, cfg.MaxFileSize, logger)
	transforms := NewTransformController(cfg.DefaultRSVPSpeed)
	formats := NewFormatsController(cfg.MaxFileSize)

	// Health endpoints
	router.GET("/", health.Root)
	router.GET("/health", health.Status)
	router.GET("/ping", health.Ping)

	// Extraction and transforms
	router.POST("/upload", upload.Upload)
	router.POST("/bionic", transforms.Bionic)
	router.POST("/rsvp", transforms.RSVP)

	router.GET("/api/formats", formats.List)

	// Audit trail endpoints
	if cfg.AuditTrail != nil && cfg.ExposeExtractions {
		extractions := NewExtractionsController(cfg.AuditTrail, logger)
		router.GET("/api/extractions", extractions.List)
	}

	return router, nil
}
