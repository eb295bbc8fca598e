// Package chunk splits combined document text into fixed-size word chunks for
// the storage collaborator.
package chunk

import (
	"strings"

	"github.com/notesage/docextract/internal/domain"
)

// DefaultMaxWords is the word cap per chunk.
const DefaultMaxWords = 500

// Split divides text into chunks of at most maxWords whitespace-separated
// words, greedily and in order. It is deterministic and idempotent: the same
// text and cap always produce the same chunks, and joining the chunks' words
// reconstructs the original word sequence exactly. maxWords <= 0 selects
// DefaultMaxWords.
func Split(text string, maxWords int) []domain.TextChunk {
	if maxWords <= 0 {
		maxWords = DefaultMaxWords
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	chunks := make([]domain.TextChunk, 0, (len(words)+maxWords-1)/maxWords)
	for start := 0; start < len(words); start += maxWords {
		end := start + maxWords
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, domain.TextChunk{
			Text:    strings.Join(words[start:end], " "),
			Ordinal: len(chunks),
		})
	}
	return chunks
}
