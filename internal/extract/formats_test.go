package extract

import (
	"archive/zip"
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notesage/docextract/internal/domain"
)

func buildDocx(t *testing.T, documentXML string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(documentXML))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestExtractDOCX(t *testing.T) {
	doc := `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:r><w:t>First paragraph.</w:t></w:r></w:p>
    <w:p><w:r><w:t>Broken</w:t><w:br/><w:t>line</w:t></w:r></w:p>
    <w:p><w:r><w:t>col1</w:t><w:tab/><w:t>col2</w:t></w:r></w:p>
  </w:body>
</w:document>`

	text, err := ExtractDOCX(buildDocx(t, doc))
	require.NoError(t, err)

	assert.Contains(t, text, "First paragraph.")
	assert.Contains(t, text, "Broken\nline")
	assert.Contains(t, text, "col1\tcol2")
}

func TestExtractDOCXIgnoresNonTextNodes(t *testing.T) {
	doc := `<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body>
    <w:p><w:pPr><w:pStyle w:val="Heading1"/></w:pPr><w:r><w:t>Title</w:t></w:r></w:p>
  </w:body>
</w:document>`

	text, err := ExtractDOCX(buildDocx(t, doc))
	require.NoError(t, err)
	assert.Equal(t, "Title", text)
}

func TestExtractDOCXErrors(t *testing.T) {
	t.Run("not a zip", func(t *testing.T) {
		_, err := ExtractDOCX([]byte("plain bytes"))
		assert.True(t, domain.IsKind(err, domain.KindParse))
	})

	t.Run("zip without document.xml", func(t *testing.T) {
		var buf bytes.Buffer
		zw := zip.NewWriter(&buf)
		w, err := zw.Create("word/styles.xml")
		require.NoError(t, err)
		_, _ = w.Write([]byte("<styles/>"))
		require.NoError(t, zw.Close())

		_, err = ExtractDOCX(buf.Bytes())
		assert.True(t, domain.IsKind(err, domain.KindParse))
	})
}

func TestExtractPlainText(t *testing.T) {
	assert.Equal(t, "hello world", ExtractPlainText([]byte("  hello world \n")))
	assert.Equal(t, "", ExtractPlainText(nil))
}
