package pdf

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"github.com/notesage/docextract/internal/domain"
)

// MIME types the pipeline accepts.
const (
	MIMEPDF   = "application/pdf"
	MIMEDocx  = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MIMEPlain = "text/plain"
)

var (
	pdfSignature = []byte("%PDF-")
	zipSignature = []byte("PK\x03\x04")
)

// Validator performs basic file-signature checks on document buffers.
type Validator struct{}

// NewValidator creates a new validator instance.
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateBuffer checks that buf is non-empty and matches the declared MIME
// type's file signature. Failures are validation errors, fatal for the call.
func (v *Validator) ValidateBuffer(buf []byte, mimeType string) error {
	if len(buf) == 0 {
		return domain.ValidationError("document buffer is empty", nil)
	}

	switch mimeType {
	case MIMEPDF:
		// Some producers prepend junk before the header; the PDF spec allows
		// the signature anywhere in the first 1024 bytes.
		window := buf
		if len(window) > 1024 {
			window = window[:1024]
		}
		if !bytes.Contains(window, pdfSignature) {
			return domain.ValidationError(
				fmt.Sprintf("buffer does not look like a PDF (starts with %q)", preview(buf)), nil)
		}
	case MIMEDocx:
		if !bytes.HasPrefix(buf, zipSignature) {
			return domain.ValidationError("buffer does not look like a DOCX archive", nil)
		}
	case MIMEPlain:
		if !utf8.Valid(buf) {
			return domain.ValidationError("buffer is not valid UTF-8 text", nil)
		}
	default:
		return domain.ValidationError(fmt.Sprintf("unsupported content type %q", mimeType), nil)
	}
	return nil
}

func preview(buf []byte) string {
	n := len(buf)
	if n > 16 {
		n = 16
	}
	return string(buf[:n])
}
