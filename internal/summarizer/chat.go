package summarizer

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const (
	defaultOpenAIModel = "gpt-3.5-turbo"
	defaultGroqModel   = "openai/gpt-oss-120b"
	defaultGroqBaseURL = "https://api.groq.com/openai/v1"

	defaultChatChunkSize = 3000
	chatTemperature      = 0.3
)

// chatBackend wraps any OpenAI-compatible chat-completion API. The openai and
// groq profiles share this implementation and differ only in credential
// source, base URL and model identifier.
type chatBackend struct {
	provider  string
	apiKey    string
	baseURL   string
	model     string
	chunkSize int
}

func newChatBackend(provider string, profile ChatProfileConfig, defaultModel, defaultBaseURL string, chunkSize int) *chatBackend {
	model := strings.TrimSpace(profile.Model)
	if model == "" {
		model = defaultModel
	}
	baseURL := strings.TrimSpace(profile.BaseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if chunkSize <= 0 {
		chunkSize = defaultChatChunkSize
	}
	return &chatBackend{
		provider:  provider,
		apiKey:    strings.TrimSpace(profile.APIKey),
		baseURL:   baseURL,
		model:     model,
		chunkSize: chunkSize,
	}
}

func (b *chatBackend) Name() string {
	return b.provider
}

func (b *chatBackend) client() *openai.Client {
	cfg := openai.DefaultConfig(b.apiKey)
	if b.baseURL != "" {
		cfg.BaseURL = b.baseURL
	}
	return openai.NewClientWithConfig(cfg)
}

func (b *chatBackend) Summarize(ctx context.Context, text string, req Request) (*Result, error) {
	if b.apiKey == "" {
		return nil, notConfigured(b.provider)
	}
	client := b.client()
	system := systemPrompt(req.Style)

	call := func(ctx context.Context, prompt, input string, maxTokens int) (string, int, error) {
		resp, err := client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
			Model: b.model,
			Messages: []openai.ChatCompletionMessage{
				{Role: openai.ChatMessageRoleSystem, Content: system},
				{Role: openai.ChatMessageRoleUser, Content: prompt + "\n\n" + input},
			},
			MaxTokens:   maxTokens,
			Temperature: chatTemperature,
		})
		if err != nil {
			return "", 0, fmt.Errorf("%s chat completion: %w", b.provider, err)
		}
		if len(resp.Choices) == 0 {
			return "", 0, fmt.Errorf("%s response has no choices", b.provider)
		}
		return strings.TrimSpace(resp.Choices[0].Message.Content), resp.Usage.TotalTokens, nil
	}

	summary, tokens, err := runMapReduce(ctx, text, req, b.chunkSize, call)
	if err != nil {
		return nil, err
	}
	return &Result{Summary: summary, Provider: b.provider, Model: b.model, Tokens: &tokens}, nil
}

func init() {
	Register("openai", func(cfg Config) Summarizer {
		return newChatBackend("openai", cfg.OpenAI, defaultOpenAIModel, "", cfg.ChunkSize)
	})
	Register("groq", func(cfg Config) Summarizer {
		return newChatBackend("groq", cfg.Groq, defaultGroqModel, defaultGroqBaseURL, cfg.ChunkSize)
	})
}
