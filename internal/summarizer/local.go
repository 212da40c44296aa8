package summarizer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"
)

const (
	defaultLocalEndpoint = "http://127.0.0.1:8900"
	defaultLocalModel    = "facebook/bart-large-cnn"

	localChunkSize = 800

	localDefaultMaxLength = 130
	localDefaultMinLength = 50
)

// localModelCache holds the process-wide inference client. Loading the model
// on the daemon is expensive, so the client is initialized at most once per
// model identifier; concurrent first use must not trigger a second load.
var localModelCache struct {
	mu     sync.Mutex
	client *localClient
	model  string
}

// localBackend summarizes through a locally running sequence-to-sequence
// inference daemon. Style is accepted but ignored; the model has no notion of
// tone. Token usage is not reported.
type localBackend struct {
	endpoint string
	model    string
}

func newLocalBackend(cfg LocalModelConfig) *localBackend {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		endpoint = defaultLocalEndpoint
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultLocalModel
	}
	return &localBackend{endpoint: endpoint, model: model}
}

func (b *localBackend) Name() string {
	return "local"
}

func (b *localBackend) getClient(ctx context.Context) (*localClient, error) {
	localModelCache.mu.Lock()
	defer localModelCache.mu.Unlock()
	if localModelCache.client != nil && localModelCache.model == b.model {
		return localModelCache.client, nil
	}
	client := &localClient{
		endpoint: strings.TrimRight(b.endpoint, "/"),
		model:    b.model,
		http:     &http.Client{Timeout: 5 * time.Minute},
	}
	logutil.GetLogger(ctx).Info("loading local summarization model", zap.String("model", b.model))
	if err := client.load(ctx); err != nil {
		return nil, fmt.Errorf("load local model: %w", err)
	}
	localModelCache.client = client
	localModelCache.model = b.model
	return client, nil
}

func (b *localBackend) Summarize(ctx context.Context, text string, req Request) (*Result, error) {
	client, err := b.getClient(ctx)
	if err != nil {
		return nil, err
	}

	maxLength, minLength := localDefaultMaxLength, localDefaultMinLength
	if req.LineCount != nil {
		maxLength = *req.LineCount * 25
		if maxLength < 30 {
			maxLength = 30
		}
		minLength = *req.LineCount * 10
		if minLength < 10 {
			minLength = 10
		}
	}

	call := func(ctx context.Context, prompt, input string, maxTokens int) (string, int, error) {
		_ = prompt
		_ = maxTokens
		out, err := client.summarize(ctx, input, maxLength, minLength)
		return out, 0, err
	}

	summary, _, err := runMapReduce(ctx, text, req, localChunkSize, call)
	if err != nil {
		return nil, err
	}
	return &Result{Summary: summary, Provider: "local", Model: b.model, Tokens: nil}, nil
}

type localClient struct {
	endpoint string
	model    string
	http     *http.Client
}

type localLoadRequest struct {
	Model string `json:"model"`
}

type localSummarizeRequest struct {
	Model     string `json:"model"`
	Text      string `json:"text"`
	MaxLength int    `json:"max_length"`
	MinLength int    `json:"min_length"`
	DoSample  bool   `json:"do_sample"`
	Truncate  bool   `json:"truncation"`
}

type localSummarizeResponse struct {
	SummaryText string `json:"summary_text"`
}

func (c *localClient) load(ctx context.Context) error {
	_, err := c.post(ctx, "/models/load", localLoadRequest{Model: c.model})
	return err
}

func (c *localClient) summarize(ctx context.Context, text string, maxLength, minLength int) (string, error) {
	body, err := c.post(ctx, "/summarize", localSummarizeRequest{
		Model:     c.model,
		Text:      text,
		MaxLength: maxLength,
		MinLength: minLength,
		DoSample:  false,
		Truncate:  true,
	})
	if err != nil {
		return "", err
	}
	var out localSummarizeResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return "", fmt.Errorf("decode local inference response: %w", err)
	}
	return strings.TrimSpace(out.SummaryText), nil
}

func (c *localClient) post(ctx context.Context, path string, payload interface{}) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+path, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("local inference request failed: %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}
	return body, nil
}

func init() {
	Register("local", func(cfg Config) Summarizer {
		return newLocalBackend(cfg.Local)
	})
}
