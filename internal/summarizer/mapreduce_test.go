package summarizer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRunMapReduceSingleChunk(t *testing.T) {
	calls := 0
	call := func(ctx context.Context, prompt, input string, maxTokens int) (string, int, error) {
		calls++
		require.Equal(t, "short text", input)
		require.Equal(t, 200, maxTokens)
		return "condensed", 7, nil
	}
	out, tokens, err := runMapReduce(context.Background(), "short text", Request{}, 3000, call)
	require.NoError(t, err)
	require.Equal(t, "condensed", out)
	require.Equal(t, 7, tokens)
	require.Equal(t, 1, calls)
}

func TestRunMapReduceMultiChunk(t *testing.T) {
	text := strings.TrimSpace(strings.Repeat("Sentences pile up into a long note. ", 8))
	chunkCount := len(ChunkText(text, 100))
	require.Greater(t, chunkCount, 1)

	var prompts []string
	var budgets []int
	call := func(ctx context.Context, prompt, input string, maxTokens int) (string, int, error) {
		prompts = append(prompts, prompt)
		budgets = append(budgets, maxTokens)
		return "part", 10, nil
	}
	out, tokens, err := runMapReduce(context.Background(), text, Request{}, 100, call)
	require.NoError(t, err)
	require.Equal(t, "part", out)
	require.Len(t, prompts, chunkCount+1)
	require.Equal(t, (chunkCount+1)*10, tokens)

	for _, prompt := range prompts[:chunkCount] {
		require.True(t, strings.HasPrefix(prompt, "Summarize the following text"))
	}
	last := prompts[chunkCount]
	require.True(t, strings.HasPrefix(last, "Combine and condense the following summaries"))

	// Map calls run at the base budget; the reduce call gets twice that.
	for _, budget := range budgets[:chunkCount] {
		require.Equal(t, 100, budget)
	}
	require.Equal(t, 200, budgets[chunkCount])
}

func TestRunMapReduceFailsOnChunkError(t *testing.T) {
	text := strings.TrimSpace(strings.Repeat("Sentences pile up into a long note. ", 8))
	boom := errors.New("backend down")
	calls := 0
	call := func(ctx context.Context, prompt, input string, maxTokens int) (string, int, error) {
		calls++
		if calls == 2 {
			return "", 0, boom
		}
		return "part", 1, nil
	}
	out, tokens, err := runMapReduce(context.Background(), text, Request{}, 100, call)
	require.ErrorIs(t, err, boom)
	require.Empty(t, out)
	require.Zero(t, tokens)
	require.Equal(t, 2, calls)
}
