// Package domain holds the data model shared across the extraction pipeline.
package domain

import (
	"strings"
	"time"
)

// WordsPerPage is the pipeline's working assumption for page-count estimation
// when no parser can report a page count.
const WordsPerPage = 500

// DefaultReadingSpeed is the words-per-minute rate used for reading-time
// estimates.
const DefaultReadingSpeed = 200

// DocumentMetadata describes a parsed document. PageCount is always >= 1 for
// any buffer that passed signature validation; when no parser can determine it
// confidently, it degrades to an estimate rather than failing.
type DocumentMetadata struct {
	PageCount     int
	Info          map[string]string
	FormatVersion string
}

// NewDocumentMetadata returns metadata with the page-count floor applied.
func NewDocumentMetadata() DocumentMetadata {
	return DocumentMetadata{
		PageCount: 1,
		Info:      make(map[string]string),
	}
}

// PageResult is the outcome of processing a single page. PageNumber is
// 1-indexed and matches physical page order.
type PageResult struct {
	PageNumber int
	NativeText string
	ImageTexts []string
}

// Empty reports whether the page contributed no text at all.
func (p PageResult) Empty() bool {
	return strings.TrimSpace(p.NativeText) == "" && len(p.ImageTexts) == 0
}

// SelectedImage is an embedded page image that survived area-based ranking.
// Derived transiently from a page; never persisted.
type SelectedImage struct {
	Width  int
	Height int
	Data   []byte
}

// Area returns the pixel area used for ranking. Images whose dimensions could
// not be decoded rank with area zero.
func (s SelectedImage) Area() int {
	return s.Width * s.Height
}

// ExtractionResult is the pipeline's external output. CombinedText may be
// legitimately empty; deciding whether that is a user-facing error belongs to
// the caller.
type ExtractionResult struct {
	CombinedText    string
	VisionCallCount int
	PagesProcessed  int
	Pages           []PageResult
}

// TextChunk is a fixed-size (by word count) segment of a document's combined
// text. Chunks are immutable once handed to storage; regeneration replaces
// rather than edits them.
type TextChunk struct {
	Text    string
	Ordinal int
}

// DocumentStats is the display-oriented record computed from combined text and
// page count.
type DocumentStats struct {
	WordCount   int
	PageCount   int
	ReadingTime time.Duration
}

// ComputeStats derives word count and reading time from combined text.
// wordsPerMinute <= 0 selects DefaultReadingSpeed.
func ComputeStats(combinedText string, pageCount, wordsPerMinute int) DocumentStats {
	if wordsPerMinute <= 0 {
		wordsPerMinute = DefaultReadingSpeed
	}
	words := len(strings.Fields(combinedText))
	minutes := float64(words) / float64(wordsPerMinute)
	return DocumentStats{
		WordCount:   words,
		PageCount:   pageCount,
		ReadingTime: time.Duration(minutes * float64(time.Minute)),
	}
}
