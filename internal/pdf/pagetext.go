package pdf

import (
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// pageTextSource is the renderer's page-addressable text accessor.
type pageTextSource interface {
	PageText(pageNumber int) (string, error)
}

// PageTextExtractor extracts the native text layer one page at a time.
//
// Primary path: the structural renderer's page-addressable accessor.
// Fallback path: parse the whole document once through the parser adapter
// (cached for the life of the session, single-flight) and approximate the
// requested page by proportional word-slicing. The fallback trades page
// precision for coverage; slices are not exact page boundaries.
type PageTextExtractor struct {
	structural pageTextSource // may be nil
	parser     docParser
	buf        []byte
	totalPages int
	log        zerolog.Logger

	once   sync.Once
	cached *ParseResult
	cerr   error
}

// NewPageTextExtractor creates an extractor bound to one document buffer.
// structural may be nil when no renderer is available.
func NewPageTextExtractor(structural pageTextSource, parser docParser, buf []byte, totalPages int, log zerolog.Logger) *PageTextExtractor {
	return &PageTextExtractor{
		structural: structural,
		parser:     parser,
		buf:        buf,
		totalPages: totalPages,
		log:        log.With().Str("component", "page_text").Logger(),
	}
}

// Extract returns the native text of the given 1-indexed page. Total failure
// for a page yields an empty string; one bad page never aborts the document.
func (e *PageTextExtractor) Extract(pageNumber int) string {
	if e.structural != nil {
		text, err := e.structural.PageText(pageNumber)
		if err == nil {
			return strings.TrimSpace(text)
		}
		e.log.Debug().Int("page", pageNumber).Err(err).Msg("structural page text failed, using sliced fallback")
	}
	return e.slicedPageText(pageNumber)
}

// fullParse parses the whole buffer exactly once per session, concurrently
// safe for sibling page tasks within a batch.
func (e *PageTextExtractor) fullParse() (*ParseResult, error) {
	e.once.Do(func() {
		e.cached, e.cerr = e.parser.Parse(e.buf)
	})
	return e.cached, e.cerr
}

func (e *PageTextExtractor) slicedPageText(pageNumber int) string {
	res, err := e.fullParse()
	if err != nil || res == nil || res.Text == "" {
		return ""
	}

	words := strings.Fields(res.Text)
	total := e.totalPages
	if total < 1 {
		total = 1
	}
	wordsPerPage := (len(words) + total - 1) / total
	if wordsPerPage < 1 {
		return ""
	}

	start := (pageNumber - 1) * wordsPerPage
	if start >= len(words) {
		return ""
	}
	end := pageNumber * wordsPerPage
	if end > len(words) {
		end = len(words)
	}
	return strings.Join(words[start:end], " ")
}
