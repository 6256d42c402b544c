package document

import (
	"fmt"
	"strings"
	"unicode"
)

const (
	DefaultChunkSize    = 4000
	DefaultChunkOverlap = 500
)

// PageChunk is one window of a page's text.
type PageChunk struct {
	PageNumber int
	Content    string
}

// Chunker splits page text into fixed-size windows that overlap by
// chunkOverlap characters. Sizes count runes, not bytes.
type Chunker struct {
	chunkSize    int
	chunkOverlap int
}

// NewChunker creates a new chunker. The overlap must be smaller than the
// chunk size or the window would never advance.
func NewChunker(chunkSize, chunkOverlap int) (*Chunker, error) {
	if chunkSize <= 0 || chunkOverlap < 0 || chunkSize <= chunkOverlap {
		return nil, fmt.Errorf("%w: size=%d overlap=%d", ErrInvalidChunkConfig, chunkSize, chunkOverlap)
	}
	return &Chunker{
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
	}, nil
}

// ChunkText expects text already passed through cleanText.
func (c *Chunker) ChunkText(text string, pageNumber int) []PageChunk {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}

	step := c.chunkSize - c.chunkOverlap
	chunks := make([]PageChunk, 0, len(runes)/step+1)

	for start := 0; start < len(runes); start += step {
		end := min(start+c.chunkSize, len(runes))
		chunks = append(chunks, PageChunk{
			PageNumber: pageNumber,
			Content:    string(runes[start:end]),
		})

		// the window already reached the end, another one would only repeat the tail
		if end == len(runes) {
			break
		}
	}

	return chunks
}

// cleanText collapses whitespace runs into one space and trims the ends
func cleanText(text string) string {
	var result strings.Builder
	result.Grow(len(text))
	prevSpace := false

	for _, r := range text {
		if unicode.IsSpace(r) {
			if !prevSpace {
				result.WriteRune(' ')
				prevSpace = true
			}
		} else {
			result.WriteRune(r)
			prevSpace = false
		}
	}

	return strings.TrimSpace(result.String())
}
