package pdf

import (
	"bytes"
	"fmt"
	"image/jpeg"
	"sync"

	"github.com/gen2brain/go-fitz"

	"github.com/notesage/docextract/internal/domain"
)

// Renderer wraps a structural PDF renderer session over one document buffer.
// It is the accurate, page-addressable path for page count, per-page native
// text, and full-page raster rendering.
//
// The underlying MuPDF context is not safe for concurrent page access, so all
// calls serialize on an internal mutex.
type Renderer struct {
	mu      sync.Mutex
	doc     *fitz.Document
	quality int
}

// NewRenderer opens a renderer session over buf. quality is the JPEG quality
// used for page screenshots (1-100).
func NewRenderer(buf []byte, quality int) (*Renderer, error) {
	doc, err := fitz.NewFromMemory(buf)
	if err != nil {
		return nil, domain.ExtractionError("failed to open document with structural renderer", err)
	}
	if quality < 1 || quality > 100 {
		quality = 85
	}
	return &Renderer{doc: doc, quality: quality}, nil
}

// PageCount reports the renderer's page count.
func (r *Renderer) PageCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.doc.NumPage()
}

// Metadata returns the document info dictionary as reported by the renderer.
func (r *Renderer) Metadata() map[string]string {
	r.mu.Lock()
	defer r.mu.Unlock()

	meta := make(map[string]string)
	for k, v := range r.doc.Metadata() {
		if v != "" {
			meta[k] = v
		}
	}
	return meta
}

// PageText extracts the native text layer of one page. pageNumber is
// 1-indexed.
func (r *Renderer) PageText(pageNumber int) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if pageNumber < 1 || pageNumber > r.doc.NumPage() {
		return "", domain.ExtractionError(fmt.Sprintf("page %d out of range", pageNumber), nil)
	}
	text, err := r.doc.Text(pageNumber - 1)
	if err != nil {
		return "", domain.ExtractionError(fmt.Sprintf("render text for page %d", pageNumber), err)
	}
	return text, nil
}

// RenderPage rasterizes one full page and returns it JPEG-encoded, for the
// scanned-page OCR fallback. pageNumber is 1-indexed.
func (r *Renderer) RenderPage(pageNumber int) ([]byte, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if pageNumber < 1 || pageNumber > r.doc.NumPage() {
		return nil, domain.ExtractionError(fmt.Sprintf("page %d out of range", pageNumber), nil)
	}
	img, err := r.doc.Image(pageNumber - 1)
	if err != nil {
		return nil, domain.ExtractionError(fmt.Sprintf("rasterize page %d", pageNumber), err)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: r.quality}); err != nil {
		return nil, domain.IOError(fmt.Sprintf("encode page %d screenshot", pageNumber), err)
	}
	return buf.Bytes(), nil
}

// Close releases the renderer session.
func (r *Renderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.doc != nil {
		err := r.doc.Close()
		r.doc = nil
		return err
	}
	return nil
}
