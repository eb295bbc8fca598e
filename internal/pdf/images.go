package pdf

import (
	"bytes"
	"image"
	"io"
	"sort"
	"sync"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/rs/zerolog"

	"github.com/notesage/docextract/internal/domain"
)

// ImageExtractor finds images embedded on a page and ranks them by pixel
// area, bounding the number of OCR candidates per page. The pdfcpu context
// is built lazily, once per session, and guarded for concurrent page tasks.
type ImageExtractor struct {
	buf []byte
	log zerolog.Logger

	once sync.Once
	mu   sync.Mutex
	ctx  *model.Context
	err  error
}

// NewImageExtractor creates an extractor bound to one document buffer.
func NewImageExtractor(buf []byte, log zerolog.Logger) *ImageExtractor {
	return &ImageExtractor{
		buf: buf,
		log: log.With().Str("component", "image_extractor").Logger(),
	}
}

func (e *ImageExtractor) context() (*model.Context, error) {
	e.once.Do(func() {
		e.ctx, e.err = api.ReadValidateAndOptimize(bytes.NewReader(e.buf), model.NewDefaultConfiguration())
	})
	return e.ctx, e.err
}

// SelectLargest returns at most maxImages embedded images from the given
// 1-indexed page, ordered by descending pixel area. A page without embedded
// images — or a document the image backend cannot open — is a legitimate
// empty result, not a fault.
func (e *ImageExtractor) SelectLargest(pageNumber, maxImages int) ([]domain.SelectedImage, error) {
	if maxImages <= 0 {
		return nil, nil
	}

	ctx, err := e.context()
	if err != nil {
		e.log.Debug().Err(err).Msg("image backend could not open document, treating as no images")
		return nil, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if len(pdfcpu.ImageObjNrs(ctx, pageNumber)) == 0 {
		return nil, nil
	}

	pageImages, err := pdfcpu.ExtractPageImages(ctx, pageNumber, false)
	if err != nil {
		e.log.Debug().Int("page", pageNumber).Err(err).Msg("embedded image extraction failed, treating as no images")
		return nil, nil
	}

	selected := make([]domain.SelectedImage, 0, len(pageImages))
	for _, img := range pageImages {
		data, err := io.ReadAll(img)
		if err != nil || len(data) == 0 {
			continue
		}
		sel := domain.SelectedImage{Data: data}
		if cfg, _, err := image.DecodeConfig(bytes.NewReader(data)); err == nil {
			sel.Width = cfg.Width
			sel.Height = cfg.Height
		}
		selected = append(selected, sel)
	}

	sort.SliceStable(selected, func(i, j int) bool {
		return selected[i].Area() > selected[j].Area()
	})
	if len(selected) > maxImages {
		selected = selected[:maxImages]
	}
	return selected, nil
}
