package document

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// Extractor converts a document on disk into a single text string.
// Implementations must be safe for concurrent use.
type Extractor interface {
	Extract(ctx context.Context, path string) (string, error)
}

// ExtractorFunc adapts a function to the Extractor interface.
type ExtractorFunc func(ctx context.Context, path string) (string, error)

func (f ExtractorFunc) Extract(ctx context.Context, path string) (string, error) {
	return f(ctx, path)
}

// Dispatcher routes uploaded bytes to the extractor for their format.
// It is immutable after construction.
type Dispatcher struct {
	extractors map[Format]Extractor
	tempDir    string
	logger     *zap.Logger
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithTempDir sets the directory for per-request temporary files.
// An empty dir means os.TempDir.
func WithTempDir(dir string) Option {
	return func(d *Dispatcher) {
		d.tempDir = dir
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(d *Dispatcher) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// WithExtractor replaces the extractor registered for format.
func WithExtractor(format Format, extractor Extractor) Option {
	return func(d *Dispatcher) {
		d.extractors[format] = extractor
	}
}

// NewDispatcher creates a Dispatcher with the built-in extractors
// registered for every supported format.
func NewDispatcher(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		extractors: map[Format]Extractor{
			FormatPDF:  NewPDFExtractor(),
			FormatEPUB: NewEPUBExtractor(false),
			FormatDOCX: NewDOCXExtractor(),
			FormatText: NewTextExtractor(),
		},
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Missing returns the supported formats that have no extractor.
func (d *Dispatcher) Missing() []Format {
	var missing []Format
	for _, f := range supportedFormats {
		if d.extractors[f] == nil {
			missing = append(missing, f)
		}
	}
	return missing
}

// Extract detects the format of filename and runs the matching extractor
// over data. Unsupported formats are rejected before any extractor or
// temporary file is touched.
func (d *Dispatcher) Extract(ctx context.Context, data []byte, filename string) (string, error) {
	format := Detect(filename)
	if !format.Supported() {
		return "", &Error{
			Kind:    KindUnsupportedFormat,
			Message: fmt.Sprintf("unsupported file format %q", filepath.Ext(filename)),
		}
	}

	extractor := d.extractors[format]
	if extractor == nil {
		return "", &Error{
			Kind:    KindUnsupportedFormat,
			Format:  format,
			Message: "no extractor registered",
		}
	}

	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("extract %s: %w", format, err)
	}

	start := time.Now()
	d.logger.Debug("extracting document",
		zap.String("filename", filename),
		zap.Stringer("format", format),
		zap.Int("size", len(data)))

	var text string
	err := withTempFile(d.tempDir, format.Extension(), data, func(path string) (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = &Error{
					Kind:    KindCorruptDocument,
					Message: "document could not be parsed",
					Err:     fmt.Errorf("extractor panic: %v", r),
				}
			}
		}()
		text, err = extractor.Extract(ctx, path)
		return err
	})
	if err != nil {
		err = tagError(format, err)
		d.logger.Warn("extraction failed",
			zap.String("filename", filename),
			zap.Stringer("format", format),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return "", err
	}

	d.logger.Debug("extraction finished",
		zap.String("filename", filename),
		zap.Stringer("format", format),
		zap.Int("text_bytes", len(text)),
		zap.Duration("elapsed", time.Since(start)))

	return text, nil
}

// tagError attaches the originating format to err. Context errors keep
// their identity; anything else unclassified becomes an IO failure.
func tagError(format Format, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("extract %s: %w", format, err)
	}

	var e *Error
	if errors.As(err, &e) {
		tagged := *e
		if tagged.Format == "" {
			tagged.Format = format
		}
		return &tagged
	}

	return &Error{Kind: KindIOFailure, Format: format, Message: "extraction failed", Err: err}
}
