package summarizer

import (
	"context"
	"strings"
)

// mockBackend returns the first N sentences of the input verbatim. It is the
// universal fallback when no hosted or local backend is configured, and the
// workhorse of the test suite.
type mockBackend struct{}

func (mockBackend) Name() string {
	return "mock"
}

func (mockBackend) Summarize(ctx context.Context, text string, req Request) (*Result, error) {
	_ = ctx
	sentences := strings.Split(strings.ReplaceAll(text, "\n", " "), ". ")
	n := 3
	if req.LineCount != nil {
		n = *req.LineCount
	}
	if n > len(sentences) {
		n = len(sentences)
	}
	summary := strings.Join(sentences[:n], ". ")
	if !strings.HasSuffix(summary, ".") {
		summary += "."
	}
	tokens := len(strings.Fields(text))
	return &Result{Summary: summary, Provider: "mock", Model: "mock-v1", Tokens: &tokens}, nil
}

func init() {
	Register("mock", func(cfg Config) Summarizer {
		return mockBackend{}
	})
}
