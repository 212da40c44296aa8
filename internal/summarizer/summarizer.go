package summarizer

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

type Kind string

const (
	KindSummary    Kind = "summary"
	KindKeyPoints  Kind = "key_points"
	KindFlashcards Kind = "flashcards"
)

type Style string

const (
	StyleBestFit   Style = "best_fit"
	StyleTechnical Style = "technical"
	StyleCasual    Style = "casual"
)

// ErrNotConfigured is returned when the selected backend has no usable
// credentials. It is never produced by the mock backend.
var ErrNotConfigured = errors.New("ai provider not configured")

// Request carries the caller-supplied summarization parameters. LineCount nil
// means the length is derived from the content size.
type Request struct {
	LineCount *int
	Kind      Kind
	Style     Style
}

// Result is the value returned by a backend. It is never mutated after a
// backend produces it. Tokens is nil when the backend does not report usage.
type Result struct {
	Summary  string
	Provider string
	Model    string
	Tokens   *int
}

type Summarizer interface {
	Name() string
	Summarize(ctx context.Context, text string, req Request) (*Result, error)
}

// Config holds everything a backend needs. The web layer maps its own config
// section onto this struct so the package stays free of app wiring.
type Config struct {
	Provider  string
	ChunkSize int
	OpenAI    ChatProfileConfig
	Groq      ChatProfileConfig
	Gemini    ChatProfileConfig
	Local     LocalModelConfig
}

type ChatProfileConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

type LocalModelConfig struct {
	Endpoint string
	Model    string
}

type Factory func(cfg Config) Summarizer

var registry = map[string]Factory{}

func Register(name string, factory Factory) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "" || factory == nil {
		return
	}
	registry[key] = factory
}

// New selects a backend. Explicit name wins, then the configured provider,
// then whichever hosted profile has credentials, then the mock backend.
// Selection never fails.
func New(name string, cfg Config) Summarizer {
	for _, candidate := range []string{name, cfg.Provider} {
		key := strings.ToLower(strings.TrimSpace(candidate))
		if key == "" {
			continue
		}
		if factory := registry[key]; factory != nil {
			return factory(cfg)
		}
	}
	switch {
	case cfg.OpenAI.APIKey != "":
		return registry["openai"](cfg)
	case cfg.Groq.APIKey != "":
		return registry["groq"](cfg)
	case cfg.Gemini.APIKey != "":
		return registry["gemini"](cfg)
	}
	return registry["mock"](cfg)
}

func notConfigured(provider string) error {
	return fmt.Errorf("%w: %s api key missing", ErrNotConfigured, provider)
}
