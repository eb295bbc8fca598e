package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"io"
	"strings"

	"github.com/notesage/docextract/internal/domain"
)

// ExtractDOCX pulls the text of a Word document from word/document.xml.
// Paragraph boundaries (w:p) become newlines, explicit breaks and tab marks
// (w:br, w:tab) become whitespace, and character data inside text runs (w:t)
// is concatenated.
func ExtractDOCX(buf []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(buf), int64(len(buf)))
	if err != nil {
		return "", domain.ParseError("opening docx archive", err)
	}

	var docXML io.ReadCloser
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			docXML, err = f.Open()
			if err != nil {
				return "", domain.ParseError("opening word/document.xml", err)
			}
			break
		}
	}
	if docXML == nil {
		return "", domain.ParseError("docx archive has no word/document.xml", nil)
	}
	defer docXML.Close()

	var sb strings.Builder
	inText := false
	dec := xml.NewDecoder(docXML)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", domain.ParseError("decoding word/document.xml", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inText = true
			case "tab":
				sb.WriteByte('\t')
			case "br":
				sb.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				sb.WriteByte('\n')
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
	}

	return strings.TrimSpace(sb.String()), nil
}

// ExtractPlainText passes UTF-8 text through with surrounding whitespace
// trimmed. Validation happens upstream.
func ExtractPlainText(buf []byte) string {
	return strings.TrimSpace(string(buf))
}
