// Package extract drives per-page processing across a document in bounded
// concurrent batches and aggregates the results in page order.
package extract

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/notesage/docextract/internal/domain"
)

// Page assembly markers. Native text of page N follows its page separator;
// image-derived text for a page follows the image-text marker.
const (
	pageSeparatorFormat = "\n\n# Page %d\n\n"
	imageTextMarker     = "\n\n## Image Text\n\n"
)

// TextSource extracts the native text layer for one page. Implementations
// degrade to "" on failure rather than aborting the document.
type TextSource interface {
	Extract(pageNumber int) string
}

// ImageSource finds embedded page images and ranks them by pixel area.
// "No images" is a legitimate page state, not a fault.
type ImageSource interface {
	SelectLargest(pageNumber, maxImages int) ([]domain.SelectedImage, error)
}

// PageRenderer rasterizes a full page for the scanned-page fallback.
type PageRenderer interface {
	RenderPage(pageNumber int) ([]byte, error)
}

// VisionOCR submits one image to the vision model and returns the text it
// read, or "" when the model reports no text.
type VisionOCR interface {
	ExtractImageText(ctx context.Context, imageData []byte) (string, error)
}

// Options tunes one extraction run. Zero values select defaults.
type Options struct {
	// BatchSize pages run concurrently; batches run sequentially. Default 3.
	BatchSize int
	// MaxImagesPerPage bounds OCR calls for embedded images. Default 2.
	MaxImagesPerPage int
	// ScannedTextThreshold is the native-text length (runes) below which an
	// imageless page is treated as likely scanned. Default 100.
	ScannedTextThreshold int
	// DisableImageOCR stops after native text extraction: no embedded-image
	// OCR and no scanned-page fallback.
	DisableImageOCR bool
	// Progress, when set, is called after each page completes with the
	// number of pages done so far.
	Progress func(done int)
}

func (o Options) normalized() Options {
	if o.BatchSize < 1 {
		o.BatchSize = 3
	}
	if o.MaxImagesPerPage < 1 {
		o.MaxImagesPerPage = 2
	}
	if o.ScannedTextThreshold < 1 {
		o.ScannedTextThreshold = 100
	}
	return o
}

// Service orchestrates per-page processing. images, renderer, and ocr may be
// nil; the policy degrades to native-text-only where a collaborator is
// missing.
type Service struct {
	text     TextSource
	images   ImageSource
	renderer PageRenderer
	ocr      VisionOCR
	log      zerolog.Logger
}

// NewService creates an extraction service over one document session.
func NewService(text TextSource, images ImageSource, renderer PageRenderer, ocr VisionOCR, log zerolog.Logger) *Service {
	return &Service{
		text:     text,
		images:   images,
		renderer: renderer,
		ocr:      ocr,
		log:      log.With().Str("component", "extract").Logger(),
	}
}

// Process runs the per-page policy across totalPages in bounded batches and
// joins the results in ascending page order. Per-page failures degrade that
// page to empty text; they never abort the run. When ctx is cancelled
// mid-run, the pages aggregated so far are returned rather than discarded.
func (s *Service) Process(ctx context.Context, totalPages int, opts Options) *domain.ExtractionResult {
	opts = opts.normalized()

	results := make([]domain.PageResult, totalPages)
	var visionCalls atomic.Int64
	var pagesDone atomic.Int64

	for batchStart := 0; batchStart < totalPages; batchStart += opts.BatchSize {
		if ctx.Err() != nil {
			s.log.Warn().Err(ctx.Err()).Int("pages_done", int(pagesDone.Load())).
				Msg("extraction cancelled, returning partial results")
			break
		}

		batchEnd := batchStart + opts.BatchSize
		if batchEnd > totalPages {
			batchEnd = totalPages
		}

		g := new(errgroup.Group)
		for page := batchStart + 1; page <= batchEnd; page++ {
			page := page
			g.Go(func() error {
				results[page-1] = s.processPage(ctx, page, opts, &visionCalls)
				done := int(pagesDone.Add(1))
				if opts.Progress != nil {
					opts.Progress(done)
				}
				return nil
			})
		}
		_ = g.Wait()
	}

	return &domain.ExtractionResult{
		CombinedText:    assemble(results),
		VisionCallCount: int(visionCalls.Load()),
		PagesProcessed:  int(pagesDone.Load()),
		Pages:           results,
	}
}

// processPage applies the per-page policy:
//
//  1. native text; stop here if image OCR is disabled
//  2. embedded images found: OCR the top-ranked few, stop
//  3. no images and sparse text: scanned-page fallback, stop
//  4. otherwise native text only, no OCR calls
//
// A panic inside any collaborator degrades the page instead of killing the
// batch.
func (s *Service) processPage(ctx context.Context, pageNumber int, opts Options, visionCalls *atomic.Int64) (result domain.PageResult) {
	result = domain.PageResult{PageNumber: pageNumber}
	defer func() {
		if r := recover(); r != nil {
			s.log.Error().Int("page", pageNumber).Str("panic", fmt.Sprint(r)).
				Msg("page processing panicked, degrading to empty page")
			result = domain.PageResult{PageNumber: pageNumber}
		}
	}()

	result.NativeText = s.text.Extract(pageNumber)

	if opts.DisableImageOCR || s.ocr == nil {
		return result
	}

	images := s.selectImages(pageNumber, opts.MaxImagesPerPage)
	if len(images) > 0 {
		for _, img := range images {
			visionCalls.Add(1)
			text, err := s.ocr.ExtractImageText(ctx, img.Data)
			if err != nil {
				s.log.Warn().Int("page", pageNumber).Err(err).Msg("image OCR failed, continuing without it")
				continue
			}
			if text != "" {
				result.ImageTexts = append(result.ImageTexts, text)
			}
		}
		return result
	}

	if len([]rune(result.NativeText)) < opts.ScannedTextThreshold {
		result.NativeText = s.scannedFallback(ctx, pageNumber, result.NativeText, visionCalls)
	}
	return result
}

func (s *Service) selectImages(pageNumber, maxImages int) []domain.SelectedImage {
	if s.images == nil {
		return nil
	}
	images, err := s.images.SelectLargest(pageNumber, maxImages)
	if err != nil {
		s.log.Warn().Int("page", pageNumber).Err(err).Msg("image selection failed, treating as no images")
		return nil
	}
	return images
}

// scannedFallback renders the page to a full-page screenshot and OCRs it.
// Successful OCR replaces the sparse native text; a missing renderer or any
// failure returns the native text unchanged.
func (s *Service) scannedFallback(ctx context.Context, pageNumber int, nativeText string, visionCalls *atomic.Int64) string {
	if s.renderer == nil {
		return nativeText
	}

	screenshot, err := s.renderer.RenderPage(pageNumber)
	if err != nil {
		s.log.Warn().Int("page", pageNumber).Err(err).Msg("page render failed, keeping native text")
		return nativeText
	}

	visionCalls.Add(1)
	text, err := s.ocr.ExtractImageText(ctx, screenshot)
	if err != nil {
		s.log.Warn().Int("page", pageNumber).Err(err).Msg("scanned-page OCR failed, keeping native text")
		return nativeText
	}
	if text == "" {
		return nativeText
	}
	return text
}

// assemble joins page results in ascending page order. Pages that contributed
// nothing are skipped entirely, so a fully unreadable document yields "".
func assemble(results []domain.PageResult) string {
	var sb strings.Builder
	for _, pr := range results {
		if pr.Empty() {
			continue
		}
		sb.WriteString(fmt.Sprintf(pageSeparatorFormat, pr.PageNumber))
		sb.WriteString(strings.TrimSpace(pr.NativeText))
		if len(pr.ImageTexts) > 0 {
			sb.WriteString(imageTextMarker)
			sb.WriteString(strings.Join(pr.ImageTexts, "\n\n"))
		}
	}
	return strings.TrimSpace(sb.String())
}
