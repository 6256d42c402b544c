package document

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewChunker_RejectsNonAdvancingWindow(t *testing.T) {
	tests := []struct {
		name          string
		size, overlap int
	}{
		{"overlap equals size", 500, 500},
		{"overlap exceeds size", 100, 150},
		{"zero size", 0, 0},
		{"negative overlap", 100, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewChunker(tt.size, tt.overlap)
			assert.ErrorIs(t, err, ErrInvalidChunkConfig)
			assert.Nil(t, c)
		})
	}
}

func TestChunkText_EmptyText(t *testing.T) {
	c, err := NewChunker(10, 2)
	require.NoError(t, err)
	assert.Empty(t, c.ChunkText("", 1))
}

func TestChunkText_ShortTextIsOneChunk(t *testing.T) {
	c, err := NewChunker(DefaultChunkSize, DefaultChunkOverlap)
	require.NoError(t, err)

	chunks := c.ChunkText("Net operating income of $1.2M", 3)
	require.Len(t, chunks, 1)
	assert.Equal(t, 3, chunks[0].PageNumber)
	assert.Equal(t, "Net operating income of $1.2M", chunks[0].Content)
}

func TestChunkText_CountAndReconstruction(t *testing.T) {
	tests := []struct {
		size, overlap, length int
	}{
		{40, 10, 100},
		{40, 10, 101},
		{40, 10, 41},
		{4000, 500, 9000},
		{4000, 500, 4001},
		{7, 0, 50},
		{5, 4, 23},
	}

	for _, tt := range tests {
		c, err := NewChunker(tt.size, tt.overlap)
		require.NoError(t, err)

		text := makeText(tt.length)
		chunks := c.ChunkText(text, 1)

		step := tt.size - tt.overlap
		want := (tt.length - tt.overlap + step - 1) / step
		assert.Len(t, chunks, want, "size=%d overlap=%d len=%d", tt.size, tt.overlap, tt.length)

		var rebuilt strings.Builder
		for i, chunk := range chunks {
			runes := []rune(chunk.Content)
			assert.LessOrEqual(t, len(runes), tt.size)
			if i == 0 {
				rebuilt.WriteString(chunk.Content)
				continue
			}
			rebuilt.WriteString(string(runes[tt.overlap:]))
		}
		assert.Equal(t, text, rebuilt.String())
	}
}

func TestChunkText_OverlapBetweenNeighbours(t *testing.T) {
	c, err := NewChunker(10, 3)
	require.NoError(t, err)

	chunks := c.ChunkText("abcdefghijklmnopqrstuvwxyz", 2)
	require.Len(t, chunks, 4)
	assert.Equal(t, "abcdefghij", chunks[0].Content)
	assert.Equal(t, "hijklmnopq", chunks[1].Content)
	assert.Equal(t, "opqrstuvwx", chunks[2].Content)
	assert.Equal(t, "vwxyz", chunks[3].Content)
	for _, chunk := range chunks {
		assert.Equal(t, 2, chunk.PageNumber)
	}
}

func TestChunkText_CountsCharactersNotBytes(t *testing.T) {
	c, err := NewChunker(4, 1)
	require.NoError(t, err)

	chunks := c.ChunkText("€€€€€€€", 1)
	require.Len(t, chunks, 2)
	assert.Equal(t, "€€€€", chunks[0].Content)
	assert.Equal(t, "€€€€", chunks[1].Content)
}

func TestCleanText(t *testing.T) {
	assert.Equal(t, "Cap rate 6.5%", cleanText("  Cap\n\trate   6.5%\r\n "))
	assert.Equal(t, "", cleanText(" \n\t  "))
	assert.Equal(t, "a b", cleanText("a  b"))
}

func makeText(n int) string {
	const alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"
	var b strings.Builder
	for i := 0; i < n; i++ {
		b.WriteByte(alphabet[i%len(alphabet)])
	}
	return b.String()
}
