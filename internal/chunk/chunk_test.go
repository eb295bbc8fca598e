package chunk

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func words(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("w%d", i)
	}
	return strings.Join(parts, " ")
}

func TestSplit(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		maxWords   int
		wantChunks int
		wantLast   int // word count of the final chunk
	}{
		{"empty text", "", 500, 0, 0},
		{"whitespace only", "  \n\t  ", 500, 0, 0},
		{"under one chunk", words(10), 500, 1, 10},
		{"exactly one chunk", words(500), 500, 1, 500},
		{"one word over", words(501), 500, 2, 1},
		{"multiple full chunks", words(1500), 500, 3, 500},
		{"small cap", words(7), 3, 3, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chunks := Split(tt.text, tt.maxWords)
			require.Len(t, chunks, tt.wantChunks)
			if tt.wantChunks == 0 {
				return
			}
			last := chunks[len(chunks)-1]
			assert.Len(t, strings.Fields(last.Text), tt.wantLast)
			for i, c := range chunks {
				assert.Equal(t, i, c.Ordinal)
				assert.LessOrEqual(t, len(strings.Fields(c.Text)), tt.maxWords)
			}
		})
	}
}

func TestSplitReconstructsWordSequence(t *testing.T) {
	text := "The  quick\nbrown fox\tjumps over the lazy dog " + words(1203)
	chunks := Split(text, 500)

	var joined []string
	for _, c := range chunks {
		joined = append(joined, strings.Fields(c.Text)...)
	}
	assert.Equal(t, strings.Fields(text), joined)
}

func TestSplitDeterministic(t *testing.T) {
	text := words(1234)
	first := Split(text, 500)
	second := Split(text, 500)
	assert.Equal(t, first, second)
}

func TestSplitDefaultCap(t *testing.T) {
	chunks := Split(words(501), 0)
	require.Len(t, chunks, 2)
	assert.Len(t, strings.Fields(chunks[0].Text), DefaultMaxWords)
}
