package document

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFExtractor concatenates the text layer of every page in page order.
// Scanned pages without a text layer contribute nothing.
type PDFExtractor struct{}

func NewPDFExtractor() *PDFExtractor {
	return &PDFExtractor{}
}

func (e *PDFExtractor) Extract(ctx context.Context, path string) (text string, err error) {
	// ledongthuc/pdf panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			text = ""
			err = newError(KindCorruptDocument, "failed to parse PDF", fmt.Errorf("%v", r))
		}
	}()

	f, reader, err := pdf.Open(path)
	if f != nil {
		defer f.Close()
	}
	if err != nil {
		return "", classifyPDFOpenError(err)
	}

	var b strings.Builder
	total := reader.NumPage()
	for i := 1; i <= total; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		pageText, err := page.GetPlainText(nil)
		if err != nil {
			return "", newError(KindCorruptDocument, fmt.Sprintf("failed to read text of page %d", i), err)
		}
		b.WriteString(pageText)
	}

	return b.String(), nil
}

func classifyPDFOpenError(err error) *Error {
	if errors.Is(err, pdf.ErrInvalidPassword) || strings.Contains(strings.ToLower(err.Error()), "encrypt") {
		return newError(KindEncryptedDocument, "PDF is password protected", err)
	}
	return newError(KindCorruptDocument, "file is not a valid PDF document", err)
}
