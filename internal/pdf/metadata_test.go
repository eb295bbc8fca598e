package pdf

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/notesage/docextract/internal/observability"
)

type stubStructural struct {
	pages int
	info  map[string]string
}

func (s *stubStructural) PageCount() int              { return s.pages }
func (s *stubStructural) Metadata() map[string]string { return s.info }

type stubParser struct {
	res   *ParseResult
	err   error
	calls int
}

func (s *stubParser) Parse(buf []byte) (*ParseResult, error) {
	s.calls++
	return s.res, s.err
}

func TestResolveStructuralWins(t *testing.T) {
	structural := &stubStructural{pages: 12, info: map[string]string{"title": "Report", "format": "PDF-1.7"}}
	parser := &stubParser{res: &ParseResult{PageCount: 99}}
	r := NewMetadataResolver(structural, parser, observability.Nop())

	meta := r.Resolve(nil)

	assert.Equal(t, 12, meta.PageCount)
	assert.Equal(t, "Report", meta.Info["title"])
	assert.Equal(t, "PDF-1.7", meta.FormatVersion)
	assert.Zero(t, parser.calls, "parser should not run when the structural count is available")
}

func TestResolveFallsBackToParser(t *testing.T) {
	parser := &stubParser{res: &ParseResult{
		PageCount: 4, Version: "1.5", Info: map[string]string{"author": "A"},
	}}
	r := NewMetadataResolver(nil, parser, observability.Nop())

	meta := r.Resolve(nil)

	assert.Equal(t, 4, meta.PageCount)
	assert.Equal(t, "1.5", meta.FormatVersion)
	assert.Equal(t, "A", meta.Info["author"])
}

func TestResolveEstimatesFromWordCount(t *testing.T) {
	// 1001 words at 500 words per page rounds up to 3 pages.
	text := strings.TrimSpace(strings.Repeat("word ", 1001))
	parser := &stubParser{res: &ParseResult{Text: text}}
	r := NewMetadataResolver(nil, parser, observability.Nop())

	meta := r.Resolve(nil)
	assert.Equal(t, 3, meta.PageCount)
}

func TestResolveFloorsAtOnePage(t *testing.T) {
	t.Run("parser fails entirely", func(t *testing.T) {
		parser := &stubParser{err: errors.New("stub failure")}
		meta := NewMetadataResolver(nil, parser, observability.Nop()).Resolve(nil)
		assert.Equal(t, 1, meta.PageCount)
	})

	t.Run("parser yields nothing countable", func(t *testing.T) {
		parser := &stubParser{res: &ParseResult{}}
		meta := NewMetadataResolver(nil, parser, observability.Nop()).Resolve(nil)
		assert.Equal(t, 1, meta.PageCount)
	})

	t.Run("structural present but empty document", func(t *testing.T) {
		structural := &stubStructural{pages: 0, info: map[string]string{}}
		parser := &stubParser{res: &ParseResult{}}
		meta := NewMetadataResolver(structural, parser, observability.Nop()).Resolve(nil)
		assert.Equal(t, 1, meta.PageCount)
	})
}
