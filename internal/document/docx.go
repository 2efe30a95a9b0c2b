package document

import (
	"archive/zip"
	"context"
	"encoding/xml"
	"errors"
	"io"
	"strings"
)

const wordprocessingNamespace = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

const docxBodyPart = "word/document.xml"

// DOCXExtractor emits the text of every body paragraph, each followed by
// a newline. Paragraphs nested in tables or content controls are skipped.
type DOCXExtractor struct{}

func NewDOCXExtractor() *DOCXExtractor {
	return &DOCXExtractor{}
}

func (e *DOCXExtractor) Extract(ctx context.Context, path string) (string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return "", newError(KindCorruptDocument, "file is not a valid DOCX package", err)
	}
	defer zr.Close()

	var body *zip.File
	for _, f := range zr.File {
		if f.Name == docxBodyPart {
			body = f
			break
		}
	}
	if body == nil {
		return "", newError(KindCorruptDocument, "DOCX package has no "+docxBodyPart, nil)
	}

	rc, err := body.Open()
	if err != nil {
		return "", newError(KindCorruptDocument, "failed to open "+docxBodyPart, err)
	}
	defer rc.Close()

	paragraphs, err := readDOCXParagraphs(ctx, rc)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for _, p := range paragraphs {
		b.WriteString(p)
		b.WriteByte('\n')
	}
	return b.String(), nil
}

func isWordElement(name xml.Name, local string) bool {
	return name.Space == wordprocessingNamespace && name.Local == local
}

// readDOCXParagraphs walks document.xml and returns the plain text of each
// paragraph that is a direct child of w:body, in document order.
func readDOCXParagraphs(ctx context.Context, r io.Reader) ([]string, error) {
	dec := xml.NewDecoder(r)

	var (
		stack      []xml.Name
		paragraphs []string
		current    strings.Builder
		paraDepth  = -1
		inText     bool
	)

	parent := func() xml.Name {
		if len(stack) == 0 {
			return xml.Name{}
		}
		return stack[len(stack)-1]
	}

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, newError(KindCorruptDocument, "malformed "+docxBodyPart, err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch {
			case isWordElement(t.Name, "p") && isWordElement(parent(), "body"):
				paraDepth = len(stack)
				current.Reset()
			case paraDepth >= 0 && isWordElement(parent(), "r"):
				switch t.Name.Local {
				case "t":
					if t.Name.Space == wordprocessingNamespace {
						inText = true
					}
				case "tab":
					if t.Name.Space == wordprocessingNamespace {
						current.WriteByte('\t')
					}
				case "br", "cr":
					if t.Name.Space == wordprocessingNamespace {
						current.WriteByte('\n')
					}
				}
			}
			stack = append(stack, t.Name)

		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
			if isWordElement(t.Name, "t") {
				inText = false
			}
			if paraDepth >= 0 && len(stack) == paraDepth {
				paragraphs = append(paragraphs, current.String())
				paraDepth = -1
				if err := ctx.Err(); err != nil {
					return nil, err
				}
			}

		case xml.CharData:
			if inText {
				current.Write(t)
			}
		}
	}

	return paragraphs, nil
}
