package summarizer

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

const defaultGeminiModel = "gemini-2.0-flash"

type geminiBackend struct {
	apiKey    string
	model     string
	chunkSize int
}

func newGeminiBackend(profile ChatProfileConfig, chunkSize int) *geminiBackend {
	model := strings.TrimSpace(profile.Model)
	if model == "" {
		model = defaultGeminiModel
	}
	if chunkSize <= 0 {
		chunkSize = defaultChatChunkSize
	}
	return &geminiBackend{
		apiKey:    strings.TrimSpace(profile.APIKey),
		model:     model,
		chunkSize: chunkSize,
	}
}

func (b *geminiBackend) Name() string {
	return "gemini"
}

func (b *geminiBackend) Summarize(ctx context.Context, text string, req Request) (*Result, error) {
	if b.apiKey == "" {
		return nil, notConfigured("gemini")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  b.apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	system := systemPrompt(req.Style)

	call := func(ctx context.Context, prompt, input string, maxTokens int) (string, int, error) {
		resp, err := client.Models.GenerateContent(
			ctx,
			b.model,
			[]*genai.Content{{Parts: []*genai.Part{{Text: prompt + "\n\n" + input}}}},
			&genai.GenerateContentConfig{
				SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: system}}},
				MaxOutputTokens:   int32(maxTokens),
				Temperature:       genai.Ptr[float32](chatTemperature),
			},
		)
		if err != nil {
			return "", 0, fmt.Errorf("gemini generate content: %w", err)
		}
		tokens := 0
		if resp.UsageMetadata != nil {
			tokens = int(resp.UsageMetadata.TotalTokenCount)
		}
		return strings.TrimSpace(resp.Text()), tokens, nil
	}

	summary, tokens, err := runMapReduce(ctx, text, req, b.chunkSize, call)
	if err != nil {
		return nil, err
	}
	return &Result{Summary: summary, Provider: "gemini", Model: b.model, Tokens: &tokens}, nil
}

func init() {
	Register("gemini", func(cfg Config) Summarizer {
		return newGeminiBackend(cfg.Gemini, cfg.ChunkSize)
	})
}
