package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/fastreed/internal/document"
)

type FormatInfo struct {
	Format    string `json:"format"`
	Extension string `json:"extension"`
}

type FormatsResponse struct {
	Formats     []FormatInfo `json:"formats"`
	MaxFileSize int64        `json:"max_file_size"`
}

type FormatsController struct {
	maxFileSize int64
}

func NewFormatsController(maxFileSize int64) *FormatsController {
	return &FormatsController{maxFileSize: maxFileSize}
}

// List returns the accepted upload formats and the size cap.
// GET /api/formats
func (fc *FormatsController) List(c *gin.Context) {
	supported := document.SupportedFormats()
	formats := make([]FormatInfo, 0, len(supported))
	for _, f := range supported {
		formats = append(formats, FormatInfo{Format: f.String(), Extension: f.Extension()})
	}

	c.JSON(http.StatusOK, FormatsResponse{
		Formats:     formats,
		MaxFileSize: fc.maxFileSize,
	})
}
