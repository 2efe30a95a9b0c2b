package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mrlokans/fastreed/internal/audit"
	"github.com/mrlokans/fastreed/internal/document"
)

const (
	uploadFieldName = "file"

	// Room for multipart boundaries and part headers on top of the file cap.
	multipartOverhead = 1 << 20

	// Non-standard status used when the client went away mid-request.
	statusClientClosedRequest = 499
)

type UploadController struct {
	extractor   DocumentExtractor
	auditTrail  AuditTrail
	maxFileSize int64
	logger      *zap.Logger
}

type UploadResponse struct {
	Text string `json:"text"`
}

// NewUploadController creates a controller. auditTrail may be nil.
func NewUploadController(extractor DocumentExtractor, auditTrail AuditTrail, maxFileSize int64, logger *zap.Logger) *UploadController {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UploadController{
		extractor:   extractor,
		auditTrail:  auditTrail,
		maxFileSize: maxFileSize,
		logger:      logger,
	}
}

// Upload extracts text from a multipart file upload.
// POST /upload
func (uc *UploadController) Upload(c *gin.Context) {
	start := time.Now()

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, uc.maxFileSize+multipartOverhead)

	file, header, err := c.Request.FormFile(uploadFieldName)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			uc.respondExtractionError(c, &document.Error{
				Kind:    document.KindFileTooLarge,
				Message: fmt.Sprintf("file too large (max %d bytes)", uc.maxFileSize),
			})
			return
		}
		respondBadRequest(c, "missing_file", "file not provided")
		return
	}
	defer file.Close()

	text, err := uc.extract(c.Request.Context(), file, header)

	if uc.auditTrail != nil {
		uc.auditTrail.LogExtraction(audit.Extraction{
			RequestID:  requestID(c),
			Filename:   header.Filename,
			Format:     document.Detect(header.Filename),
			SizeBytes:  header.Size,
			TextLength: utf8.RuneCountInString(text),
			Duration:   time.Since(start),
			Err:        err,
		})
	}

	if err != nil {
		uc.respondExtractionError(c, err)
		return
	}

	c.JSON(http.StatusOK, UploadResponse{Text: text})
}

func (uc *UploadController) extract(ctx context.Context, file multipart.File, header *multipart.FileHeader) (string, error) {
	if header.Size > uc.maxFileSize {
		return "", document.NewFileTooLargeError(header.Size, uc.maxFileSize)
	}

	data, err := io.ReadAll(io.LimitReader(file, uc.maxFileSize+1))
	if err != nil {
		return "", &document.Error{Kind: document.KindIOFailure, Message: "failed to read upload", Err: err}
	}
	if int64(len(data)) > uc.maxFileSize {
		return "", document.NewFileTooLargeError(int64(len(data)), uc.maxFileSize)
	}

	return uc.extractor.Extract(ctx, data, header.Filename)
}

func (uc *UploadController) respondExtractionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, context.Canceled):
		uc.logger.Info("upload cancelled by client", zap.String("request_id", requestID(c)))
		c.AbortWithStatus(statusClientClosedRequest)
		return
	case errors.Is(err, context.DeadlineExceeded):
		respondError(c, http.StatusGatewayTimeout, "timeout", "extraction timed out")
		return
	}

	kind := document.KindOf(err)
	if kind == "" {
		respondInternalError(c, uc.logger, err, "upload")
		return
	}

	status := statusForKind(kind)
	if status >= http.StatusInternalServerError {
		uc.logger.Error("extraction failed",
			zap.String("request_id", requestID(c)),
			zap.String("kind", string(kind)),
			zap.Error(err))
	}
	respondError(c, status, string(kind), document.Detail(err))
}

// statusForKind maps extraction failures to HTTP status codes.
func statusForKind(kind document.ErrorKind) int {
	switch kind {
	case document.KindUnsupportedFormat, document.KindFileTooLarge:
		return http.StatusBadRequest
	case document.KindCorruptDocument, document.KindEncryptedDocument, document.KindEncodingError:
		return http.StatusUnprocessableEntity
	case document.KindIOFailure:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}
