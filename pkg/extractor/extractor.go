// Package extractor is the public entry point for document text extraction.
// It routes a document buffer by MIME type through validation, per-page
// extraction with vision OCR fallbacks, and chunking.
package extractor

import (
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/notesage/docextract/internal/chunk"
	"github.com/notesage/docextract/internal/config"
	"github.com/notesage/docextract/internal/domain"
	"github.com/notesage/docextract/internal/extract"
	"github.com/notesage/docextract/internal/llm"
	"github.com/notesage/docextract/internal/pdf"
)

// ExtractOptions tunes a single Extract call.
type ExtractOptions struct {
	// DisableImageOCR skips embedded-image OCR and the scanned-page
	// fallback; only native text layers are used.
	DisableImageOCR bool
	// Progress, when set, is called after each page completes.
	Progress func(done, total int)
}

// Client extracts text from document buffers. Construct with NewClient;
// a Client is safe for concurrent use.
type Client struct {
	cfg       *config.Config
	log       zerolog.Logger
	validator *pdf.Validator
	adapter   *pdf.Adapter
	ocr       *llm.Client
}

// NewClient builds an extraction client from configuration. The OCR API key
// is read from OPENROUTER_API_KEY (a .env file is honored when present).
// Without a key the client still extracts native text but makes no vision
// calls.
func NewClient(cfg *config.Config, log zerolog.Logger) *Client {
	_ = godotenv.Load()

	c := &Client{
		cfg:       cfg,
		log:       log,
		validator: pdf.NewValidator(),
		adapter:   pdf.NewAdapter(log),
	}

	apiKey := os.Getenv("OPENROUTER_API_KEY")
	if apiKey == "" {
		log.Warn().Msg("OPENROUTER_API_KEY not set, vision OCR disabled")
		return c
	}

	c.ocr = llm.NewClient(apiKey, llm.Options{
		BaseURL:   cfg.OCR.BaseURL,
		Model:     cfg.OCR.Model,
		MaxTokens: cfg.OCR.MaxTokens,
		Timeout:   cfg.OCR.Timeout,
	})
	return c
}

// Extract validates the buffer against its declared MIME type and extracts
// its text. PDFs go through the page pipeline; DOCX and plain text are
// extracted whole. opts may be nil.
func (c *Client) Extract(ctx context.Context, buf []byte, mimeType string, opts *ExtractOptions) (*domain.ExtractionResult, error) {
	if opts == nil {
		opts = &ExtractOptions{}
	}
	if err := c.validator.ValidateBuffer(buf, mimeType); err != nil {
		return nil, err
	}

	switch mimeType {
	case pdf.MIMEPDF:
		return c.extractPDF(ctx, buf, opts)
	case pdf.MIMEDocx:
		text, err := extract.ExtractDOCX(buf)
		if err != nil {
			return nil, err
		}
		return wholeDocumentResult(text), nil
	default:
		return wholeDocumentResult(extract.ExtractPlainText(buf)), nil
	}
}

func (c *Client) extractPDF(ctx context.Context, buf []byte, opts *ExtractOptions) (*domain.ExtractionResult, error) {
	// The structural renderer is best effort. When it cannot open the
	// document the pipeline continues on the parser chain alone.
	var structural *pdf.Renderer
	renderer, err := pdf.NewRenderer(buf, c.cfg.Pipeline.RenderQuality)
	if err != nil {
		c.log.Warn().Err(err).Msg("structural open failed, continuing with parser chain only")
	} else {
		structural = renderer
		defer structural.Close()
	}

	meta := c.resolveMetadata(structural, buf)

	var (
		textSource   extract.TextSource
		imageSource  extract.ImageSource
		pageRenderer extract.PageRenderer
	)
	if structural != nil {
		textSource = pdf.NewPageTextExtractor(structural, c.adapter, buf, meta.PageCount, c.log)
		pageRenderer = structural
	} else {
		textSource = pdf.NewPageTextExtractor(nil, c.adapter, buf, meta.PageCount, c.log)
	}
	imageSource = pdf.NewImageExtractor(buf, c.log)

	svc := extract.NewService(textSource, imageSource, pageRenderer, c.ocrOrNil(), c.log)

	svcOpts := extract.Options{
		BatchSize:            c.cfg.Pipeline.BatchSize,
		MaxImagesPerPage:     c.cfg.Pipeline.MaxImagesPerPage,
		ScannedTextThreshold: c.cfg.Pipeline.ScannedTextThreshold,
		DisableImageOCR:      opts.DisableImageOCR,
	}
	if opts.Progress != nil {
		total := meta.PageCount
		svcOpts.Progress = func(done int) { opts.Progress(done, total) }
	}

	return svc.Process(ctx, meta.PageCount, svcOpts), nil
}

// ocrOrNil keeps the nil *llm.Client from becoming a non-nil interface.
func (c *Client) ocrOrNil() extract.VisionOCR {
	if c.ocr == nil {
		return nil
	}
	return c.ocr
}

func (c *Client) resolveMetadata(structural *pdf.Renderer, buf []byte) domain.DocumentMetadata {
	if structural != nil {
		return pdf.NewMetadataResolver(structural, c.adapter, c.log).Resolve(buf)
	}
	return pdf.NewMetadataResolver(nil, c.adapter, c.log).Resolve(buf)
}

// Metadata resolves page count and document info for a PDF buffer without
// running extraction. It never fails; unknown fields come back zero and the
// page count is estimated when no source reports one.
func (c *Client) Metadata(buf []byte) domain.DocumentMetadata {
	renderer, err := pdf.NewRenderer(buf, c.cfg.Pipeline.RenderQuality)
	if err != nil {
		return c.resolveMetadata(nil, buf)
	}
	defer renderer.Close()
	return c.resolveMetadata(renderer, buf)
}

// Chunk splits extracted text into word-bounded chunks using the configured
// chunk size.
func (c *Client) Chunk(text string) []domain.TextChunk {
	return chunk.Split(text, c.cfg.Pipeline.ChunkWords)
}

// Stats computes word count, estimated pages, and reading time for text.
func (c *Client) Stats(text string, pageCount int) domain.DocumentStats {
	return domain.ComputeStats(text, pageCount, domain.DefaultReadingSpeed)
}

// wholeDocumentResult wraps single-pass formats in the pipeline result shape.
func wholeDocumentResult(text string) *domain.ExtractionResult {
	result := &domain.ExtractionResult{
		CombinedText:   text,
		PagesProcessed: 1,
		Pages:          []domain.PageResult{{PageNumber: 1, NativeText: text}},
	}
	return result
}
