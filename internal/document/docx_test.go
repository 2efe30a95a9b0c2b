package document

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDOCXExtractor_Paragraphs(t *testing.T) {
	path := writeFile(t, "doc.docx", buildDOCX(t, "Alpha", "Beta"))

	text, err := NewDOCXExtractor().Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "Alpha\nBeta\n", text)
}

func TestDOCXExtractor_EmptyParagraphsKeepTheirNewline(t *testing.T) {
	path := writeFile(t, "doc.docx", buildDOCX(t, "Title", "", "Body"))

	text, err := NewDOCXExtractor().Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "Title\n\nBody\n", text)
}

func TestDOCXExtractor_RunsTabsAndBreaks(t *testing.T) {
	body := `<w:p>` +
		`<w:pPr><w:tabs><w:tab w:val="left" w:pos="720"/></w:tabs></w:pPr>` +
		`<w:r><w:t>Hello</w:t></w:r>` +
		`<w:r><w:tab/><w:t xml:space="preserve"> big </w:t></w:r>` +
		`<w:hyperlink><w:r><w:t>world</w:t></w:r></w:hyperlink>` +
		`<w:r><w:br/><w:t>next &amp; last</w:t></w:r>` +
		`</w:p>`
	path := writeFile(t, "doc.docx", buildDOCXBody(t, body))

	text, err := NewDOCXExtractor().Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "Hello\t big world\nnext & last\n", text)
}

func TestDOCXExtractor_SkipsTableParagraphs(t *testing.T) {
	body := `<w:p><w:r><w:t>Before</w:t></w:r></w:p>` +
		`<w:tbl><w:tr><w:tc><w:p><w:r><w:t>Cell</w:t></w:r></w:p></w:tc></w:tr></w:tbl>` +
		`<w:p><w:r><w:t>After</w:t></w:r></w:p>`
	path := writeFile(t, "doc.docx", buildDOCXBody(t, body))

	text, err := NewDOCXExtractor().Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "Before\nAfter\n", text)
}

func TestDOCXExtractor_IgnoresDeletedText(t *testing.T) {
	body := `<w:p><w:r><w:t>kept</w:t></w:r><w:del><w:r><w:delText>gone</w:delText></w:r></w:del></w:p>`
	path := writeFile(t, "doc.docx", buildDOCXBody(t, body))

	text, err := NewDOCXExtractor().Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "kept\n", text)
}

func TestDOCXExtractor_NoParagraphs(t *testing.T) {
	path := writeFile(t, "doc.docx", buildDOCXBody(t, ""))

	text, err := NewDOCXExtractor().Extract(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "", text)
}

func TestDOCXExtractor_CorruptPackages(t *testing.T) {
	tests := []struct {
		name string
		data func(t *testing.T) []byte
	}{
		{
			name: "not a zip",
			data: func(t *testing.T) []byte { return []byte("plain text pretending to be docx") },
		},
		{
			name: "missing document part",
			data: func(t *testing.T) []byte {
				return buildZip(t, zipEntry{name: "[Content_Types].xml", body: "<Types/>"})
			},
		},
		{
			name: "malformed xml",
			data: func(t *testing.T) []byte {
				return buildZip(t, zipEntry{name: "word/document.xml", body: "<w:document><w:body><w:p>"})
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "bad.docx", tt.data(t))

			_, err := NewDOCXExtractor().Extract(context.Background(), path)
			assert.ErrorIs(t, err, ErrCorruptDocument)
		})
	}
}

func TestDOCXExtractor_CanceledContext(t *testing.T) {
	path := writeFile(t, "doc.docx", buildDOCX(t, "Alpha", "Beta"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewDOCXExtractor().Extract(ctx, path)
	assert.ErrorIs(t, err, context.Canceled)
}
