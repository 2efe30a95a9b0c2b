package document

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
)

const (
	epubContainerPath   = "META-INF/container.xml"
	epubPackageMimeType = "application/oebps-package+xml"
	epubDocumentType    = "application/xhtml+xml"
)

type epubContainer struct {
	Rootfiles []epubRootfile `xml:"rootfiles>rootfile"`
}

type epubRootfile struct {
	FullPath  string `xml:"full-path,attr"`
	MediaType string `xml:"media-type,attr"`
}

type epubPackage struct {
	Manifest []epubItem    `xml:"manifest>item"`
	Spine    []epubItemRef `xml:"spine>itemref"`
}

type epubItem struct {
	ID        string `xml:"id,attr"`
	Href      string `xml:"href,attr"`
	MediaType string `xml:"media-type,attr"`
}

type epubItemRef struct {
	IDRef string `xml:"idref,attr"`
}

// EPUBExtractor concatenates the XHTML content documents of an EPUB in
// manifest declaration order. With SpineOrder set, spine items come first,
// then any remaining manifest documents. Markup is kept as-is unless
// StripMarkup is set.
type EPUBExtractor struct {
	StripMarkup bool
	SpineOrder  bool
}

func NewEPUBExtractor(stripMarkup bool) *EPUBExtractor {
	return &EPUBExtractor{StripMarkup: stripMarkup}
}

func (e *EPUBExtractor) Extract(ctx context.Context, path string) (string, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return "", newError(KindCorruptDocument, "file is not a valid EPUB container", err)
	}
	defer zr.Close()

	files := make(map[string]*zip.File, len(zr.File))
	for _, f := range zr.File {
		files[f.Name] = f
	}

	opfPath, err := findPackagePath(files)
	if err != nil {
		return "", err
	}

	var pkg epubPackage
	if err := decodeZipXML(files, opfPath, &pkg); err != nil {
		return "", err
	}

	items := manifestDocuments(pkg)
	if e.SpineOrder {
		items = spineDocuments(pkg)
	}

	var b strings.Builder
	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		name := resolveHref(opfPath, item.Href)
		data, err := readZipFile(files, name)
		if err != nil {
			return "", err
		}
		if !utf8.Valid(data) {
			return "", newError(KindEncodingError, fmt.Sprintf("content document %q is not valid UTF-8", name), nil)
		}

		if e.StripMarkup {
			text, err := markupText(data)
			if err != nil {
				return "", newError(KindCorruptDocument, fmt.Sprintf("failed to parse content document %q", name), err)
			}
			b.WriteString(text)
			continue
		}
		b.Write(data)
	}

	return b.String(), nil
}

func findPackagePath(files map[string]*zip.File) (string, error) {
	var container epubContainer
	if err := decodeZipXML(files, epubContainerPath, &container); err != nil {
		return "", err
	}

	for _, rf := range container.Rootfiles {
		if rf.MediaType == epubPackageMimeType && rf.FullPath != "" {
			return rf.FullPath, nil
		}
	}
	for _, rf := range container.Rootfiles {
		if rf.FullPath != "" {
			return rf.FullPath, nil
		}
	}
	return "", newError(KindCorruptDocument, "EPUB container declares no package document", nil)
}

// manifestDocuments returns the XHTML manifest items in declaration order.
func manifestDocuments(pkg epubPackage) []epubItem {
	seen := make(map[string]bool)
	var items []epubItem
	for _, item := range pkg.Manifest {
		if seen[item.ID] || item.MediaType != epubDocumentType {
			continue
		}
		seen[item.ID] = true
		items = append(items, item)
	}
	return items
}

// spineDocuments orders XHTML manifest items by spine position, followed by
// the documents the spine does not reference, in manifest order.
func spineDocuments(pkg epubPackage) []epubItem {
	byID := make(map[string]epubItem, len(pkg.Manifest))
	for _, item := range pkg.Manifest {
		byID[item.ID] = item
	}

	seen := make(map[string]bool)
	var items []epubItem
	for _, ref := range pkg.Spine {
		item, ok := byID[ref.IDRef]
		if !ok || seen[item.ID] || item.MediaType != epubDocumentType {
			continue
		}
		seen[item.ID] = true
		items = append(items, item)
	}
	for _, item := range pkg.Manifest {
		if seen[item.ID] || item.MediaType != epubDocumentType {
			continue
		}
		seen[item.ID] = true
		items = append(items, item)
	}
	return items
}

// resolveHref turns a manifest href into a zip entry name relative to the
// package document.
func resolveHref(opfPath, href string) string {
	if i := strings.IndexByte(href, '#'); i >= 0 {
		href = href[:i]
	}
	if unescaped, err := url.PathUnescape(href); err == nil {
		href = unescaped
	}
	return path.Join(path.Dir(opfPath), href)
}

func readZipFile(files map[string]*zip.File, name string) ([]byte, error) {
	f, ok := files[name]
	if !ok {
		return nil, newError(KindCorruptDocument, fmt.Sprintf("EPUB entry %q is missing", name), nil)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, newError(KindCorruptDocument, fmt.Sprintf("failed to open EPUB entry %q", name), err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, newError(KindCorruptDocument, fmt.Sprintf("failed to read EPUB entry %q", name), err)
	}
	return data, nil
}

func decodeZipXML(files map[string]*zip.File, name string, v any) error {
	data, err := readZipFile(files, name)
	if err != nil {
		return err
	}
	if err := xml.Unmarshal(data, v); err != nil {
		return newError(KindCorruptDocument, fmt.Sprintf("malformed XML in %q", name), err)
	}
	return nil
}

func markupText(data []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	return doc.Find("body").Text(), nil
}
