package cli

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mrlokans/fastreed/internal/config"
	"github.com/mrlokans/fastreed/internal/document"
	"github.com/mrlokans/fastreed/internal/transform"
)

const (
	ModeText   = "text"
	ModeBionic = "bionic"
	ModeRSVP   = "rsvp"
)

// ExtractCommand runs the extraction pipeline on a local file.
type ExtractCommand struct {
	File        string
	Output      string
	Mode        string
	Speed       int
	MaxFileSize int64
	StripMarkup bool
	SpineOrder  bool
	Timeout     time.Duration

	stdout     io.Writer
	createFile func(name string) (io.WriteCloser, error)
}

func NewExtractCommand() *ExtractCommand {
	return &ExtractCommand{
		stdout: os.Stdout,
		createFile: func(name string) (io.WriteCloser, error) {
			return os.Create(name)
		},
	}
}

func (cmd *ExtractCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("extract", flag.ContinueOnError)

	fs.StringVar(&cmd.File, "file", "", "Path to a .pdf, .epub, .docx or .txt file (required)")
	fs.StringVar(&cmd.Output, "output", "", "Write the result to this file instead of stdout")
	fs.StringVar(&cmd.Mode, "mode", ModeText, "Output mode: text, bionic or rsvp")
	fs.IntVar(&cmd.Speed, "speed", transform.DefaultSpeed, "Words per minute for rsvp mode")
	fs.Int64Var(&cmd.MaxFileSize, "max-size", config.DefaultMaxFileSize, "Maximum input size in bytes")
	fs.BoolVar(&cmd.StripMarkup, "strip-markup", false, "Return EPUB chapters as plain text instead of raw XHTML")
	fs.BoolVar(&cmd.SpineOrder, "spine-order", false, "Emit EPUB chapters in spine order instead of manifest order")
	fs.DurationVar(&cmd.Timeout, "timeout", 2*time.Minute, "Abort extraction after this long")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s extract [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Extract text from a local document.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s extract -file book.epub\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s extract -file report.pdf -mode bionic -output report.html\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s extract -file notes.txt -mode rsvp -speed 450\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.File == "" {
		fs.Usage()
		return fmt.Errorf("file is required")
	}

	cmd.Mode = strings.ToLower(cmd.Mode)
	switch cmd.Mode {
	case ModeText, ModeBionic, ModeRSVP:
	default:
		return fmt.Errorf("unknown mode %q (want text, bionic or rsvp)", cmd.Mode)
	}

	return nil
}

func (cmd *ExtractCommand) Run() error {
	info, err := os.Stat(cmd.File)
	if err != nil {
		return fmt.Errorf("cannot read input: %w", err)
	}
	if info.Size() > cmd.MaxFileSize {
		return document.NewFileTooLargeError(info.Size(), cmd.MaxFileSize)
	}

	data, err := os.ReadFile(cmd.File)
	if err != nil {
		return fmt.Errorf("cannot read input: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cmd.Timeout)
	defer cancel()

	dispatcher := document.NewDispatcher(
		document.WithExtractor(document.FormatEPUB, &document.EPUBExtractor{
			StripMarkup: cmd.StripMarkup,
			SpineOrder:  cmd.SpineOrder,
		}),
	)
	text, err := dispatcher.Extract(ctx, data, filepath.Base(cmd.File))
	if err != nil {
		return err
	}

	if cmd.Output != "" {
		return cmd.writeFile(text)
	}
	if err := cmd.write(cmd.stdout, text); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// writeFile writes the result to cmd.Output. A failed close is an error,
// since buffered data may not have reached the disk.
func (cmd *ExtractCommand) writeFile(text string) (err error) {
	f, err := cmd.createFile(cmd.Output)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close output file: %w", cerr)
		}
	}()

	if err := cmd.write(f, text); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (cmd *ExtractCommand) write(w io.Writer, text string) error {
	switch cmd.Mode {
	case ModeBionic:
		_, err := io.WriteString(w, transform.Bionic(text)+"\n")
		return err
	case ModeRSVP:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(transform.RSVP(text, &cmd.Speed))
	default:
		_, err := io.WriteString(w, text)
		return err
	}
}
