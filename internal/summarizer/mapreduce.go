package summarizer

import (
	"context"
	"strings"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

// completionFunc issues one backend call. prompt carries the instruction text;
// input carries the chunk (or the combined sub-summaries for the reduce call).
// Backends that take free-form prompts concatenate the two; the local
// inference backend ignores prompt and summarizes input directly. Returned
// token counts are best-effort and may be zero.
type completionFunc func(ctx context.Context, prompt, input string, maxTokens int) (string, int, error)

// runMapReduce drives the two-level summarization flow shared by every
// backend: chunk the text, summarize each chunk in order, then reduce the
// sub-summaries into the requested length. A single chunk is summarized with
// one call at twice the budget to leave room for the style preamble. Chunk
// calls run sequentially; any failed call fails the whole run.
func runMapReduce(ctx context.Context, text string, req Request, chunkSize int, call completionFunc) (string, int, error) {
	chunks := ChunkText(text, chunkSize)
	prompt, budget := buildPrompt(req.Kind, req.LineCount, req.Style, len(text))

	if len(chunks) == 1 {
		return call(ctx, prompt, chunks[0], budget*2)
	}

	logutil.GetLogger(ctx).Info("summarizing in chunks",
		zap.Int("chunks", len(chunks)),
		zap.Int("chunk_size", chunkSize),
		zap.Int("input_len", len(text)),
	)

	parts := make([]string, 0, len(chunks))
	totalTokens := 0
	for _, chunk := range chunks {
		out, tokens, err := call(ctx, prompt, chunk, budget)
		if err != nil {
			return "", 0, err
		}
		parts = append(parts, out)
		totalTokens += tokens
	}

	combined := strings.Join(parts, "\n\n")
	out, tokens, err := call(ctx, reducePrompt(req.LineCount, len(text)), combined, budget*2)
	if err != nil {
		return "", 0, err
	}
	totalTokens += tokens
	return out, totalTokens, nil
}
