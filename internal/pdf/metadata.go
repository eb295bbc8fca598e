package pdf

import (
	"strings"

	"github.com/rs/zerolog"

	"github.com/notesage/docextract/internal/domain"
)

// structuralSource is the renderer-backed view of a document. Nil when the
// structural renderer could not open the buffer.
type structuralSource interface {
	PageCount() int
	Metadata() map[string]string
}

// docParser is the whole-document parse contract (the parser adapter).
type docParser interface {
	Parse(buf []byte) (*ParseResult, error)
}

// MetadataResolver determines page count and basic document info using a
// tiered fallback. It never fails under normal operation: callers must not
// hard-fail merely because page-count detection is unreliable across PDF
// producers.
type MetadataResolver struct {
	structural structuralSource // may be nil
	parser     docParser
	log        zerolog.Logger
}

// NewMetadataResolver creates a resolver. structural may be nil when no
// renderer is available for the buffer.
func NewMetadataResolver(structural structuralSource, parser docParser, log zerolog.Logger) *MetadataResolver {
	return &MetadataResolver{
		structural: structural,
		parser:     parser,
		log:        log.With().Str("component", "metadata_resolver").Logger(),
	}
}

// Resolve computes document metadata for buf. The result's PageCount is
// always >= 1; tiers are tried in accuracy order and the first success wins:
//
//  1. structural renderer page count
//  2. parser adapter page count
//  3. word-count estimate (ceil(words / 500))
//  4. floor of 1
func (r *MetadataResolver) Resolve(buf []byte) domain.DocumentMetadata {
	meta := domain.NewDocumentMetadata()

	if r.structural != nil {
		for k, v := range r.structural.Metadata() {
			meta.Info[k] = v
		}
		if n := r.structural.PageCount(); n > 0 {
			meta.PageCount = n
			if v, ok := meta.Info["format"]; ok {
				meta.FormatVersion = v
			}
			return meta
		}
	}

	res, err := r.parser.Parse(buf)
	if err != nil || res == nil {
		r.log.Warn().Err(err).Msg("no parser could determine page count, defaulting to 1")
		return meta
	}

	for k, v := range res.Info {
		if _, ok := meta.Info[k]; !ok {
			meta.Info[k] = v
		}
	}
	if meta.FormatVersion == "" {
		meta.FormatVersion = res.Version
	}

	if res.PageCount > 0 {
		meta.PageCount = res.PageCount
		return meta
	}

	if words := len(strings.Fields(res.Text)); words > 0 {
		meta.PageCount = (words + domain.WordsPerPage - 1) / domain.WordsPerPage
		r.log.Debug().Int("pages", meta.PageCount).Msg("estimated page count from word count")
	}
	return meta
}
