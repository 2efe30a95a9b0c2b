package document

import (
	"path/filepath"
	"strings"
)

// Format identifies a document format recognized by the extraction pipeline.
type Format string

const (
	FormatPDF         Format = "pdf"
	FormatEPUB        Format = "epub"
	FormatDOCX        Format = "docx"
	FormatText        Format = "txt"
	FormatUnsupported Format = "unsupported"
)

// supportedFormats is ordered so listings are stable.
var supportedFormats = []Format{FormatPDF, FormatEPUB, FormatDOCX, FormatText}

// SupportedFormats returns every format that has an extractor.
func SupportedFormats() []Format {
	out := make([]Format, len(supportedFormats))
	copy(out, supportedFormats)
	return out
}

// Detect maps a filename to a Format using its lowercased extension.
// The file content is never inspected.
func Detect(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".pdf":
		return FormatPDF
	case ".epub":
		return FormatEPUB
	case ".docx":
		return FormatDOCX
	case ".txt":
		return FormatText
	default:
		return FormatUnsupported
	}
}

// Extension returns the canonical file suffix, including the dot.
func (f Format) Extension() string {
	if !f.Supported() {
		return ""
	}
	return "." + string(f)
}

// Supported reports whether f is one of the extractable formats.
func (f Format) Supported() bool {
	for _, s := range supportedFormats {
		if f == s {
			return true
		}
	}
	return false
}

func (f Format) String() string {
	return string(f)
}
