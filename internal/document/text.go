package document

import (
	"context"
	"os"
	"unicode/utf8"
)

// TextExtractor reads plain UTF-8 text files verbatim.
type TextExtractor struct{}

func NewTextExtractor() *TextExtractor {
	return &TextExtractor{}
}

func (e *TextExtractor) Extract(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", newError(KindIOFailure, "failed to read text file", err)
	}

	if !utf8.Valid(data) {
		return "", newError(KindEncodingError, "file is not valid UTF-8 text", nil)
	}

	return string(data), nil
}
