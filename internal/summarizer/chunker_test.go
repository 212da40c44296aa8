package summarizer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChunkTextShortInputIsSingleChunk(t *testing.T) {
	chunks := ChunkText("hello world", 100)
	require.Equal(t, []string{"hello world"}, chunks)
}

func TestChunkTextSplitsOnSentenceBoundaries(t *testing.T) {
	text := strings.TrimSpace(strings.Repeat("This is a sentence. ", 20))
	chunks := ChunkText(text, 100)
	require.Greater(t, len(chunks), 1)
	for _, chunk := range chunks {
		require.LessOrEqual(t, len(chunk), 100)
		require.NotEmpty(t, chunk)
	}
}

func TestChunkTextFlattensNewlines(t *testing.T) {
	text := strings.TrimSpace(strings.Repeat("First line.\nSecond line. ", 10))
	chunks := ChunkText(text, 60)
	require.Greater(t, len(chunks), 1)
	for _, chunk := range chunks {
		require.NotContains(t, chunk, "\n")
	}
}

func TestChunkTextHardSplitsOversizedSentence(t *testing.T) {
	sentence := strings.Repeat("a", 250)
	chunks := ChunkText(sentence, 100)
	require.Len(t, chunks, 3)
	require.Len(t, chunks[0], 100)
	require.Len(t, chunks[1], 100)
	require.Len(t, chunks[2], 50)
}

func TestChunkTextPreservesOrder(t *testing.T) {
	text := "Alpha comes first and fills some room. Beta follows right after it. Gamma closes out the sequence nicely."
	chunks := ChunkText(text, 50)
	joined := strings.Join(chunks, " ")
	alpha := strings.Index(joined, "Alpha")
	beta := strings.Index(joined, "Beta")
	gamma := strings.Index(joined, "Gamma")
	require.True(t, alpha < beta && beta < gamma)
}

func TestPlainTextStripsMarkdown(t *testing.T) {
	out := PlainText("# Heading\n\nSome **bold** text with a [link](https://example.com).")
	require.NotContains(t, out, "#")
	require.NotContains(t, out, "**")
	require.NotContains(t, out, "https://example.com")
	require.Contains(t, out, "Heading")
	require.Contains(t, out, "bold")
	require.Contains(t, out, "link")
}

func TestPlainTextPassesProseThrough(t *testing.T) {
	out := PlainText("Just a plain sentence.")
	require.Equal(t, "Just a plain sentence.", out)
}
