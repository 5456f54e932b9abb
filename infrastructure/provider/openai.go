package provider

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/jobvault/jobvault/internal/config"
)

// errEmbeddingCountMismatch indicates the API returned fewer embedding
// vectors than requested. Retryable because transient upstream issues can
// produce partial responses behind a 200 status.
var errEmbeddingCountMismatch = errors.New("embedding response count mismatch")

// OpenAIEmbedder generates embeddings through any OpenAI-compatible API.
type OpenAIEmbedder struct {
	client        *openai.Client
	model         string
	dimension     int
	maxRetries    int
	initialDelay  time.Duration
	backoffFactor float64
}

// OpenAIOption is a functional option for OpenAIEmbedder.
type OpenAIOption func(*OpenAIEmbedder)

// WithMaxRetries sets the maximum retry count.
func WithMaxRetries(n int) OpenAIOption {
	return func(p *OpenAIEmbedder) { p.maxRetries = n }
}

// WithInitialDelay sets the initial retry delay.
func WithInitialDelay(d time.Duration) OpenAIOption {
	return func(p *OpenAIEmbedder) { p.initialDelay = d }
}

// WithBackoffFactor sets the backoff multiplier.
func WithBackoffFactor(f float64) OpenAIOption {
	return func(p *OpenAIEmbedder) { p.backoffFactor = f }
}

// NewOpenAIEmbedder creates an embedder from configuration.
func NewOpenAIEmbedder(cfg config.EmbeddingConfig, opts ...OpenAIOption) *OpenAIEmbedder {
	clientCfg := openai.DefaultConfig(cfg.APIKey())
	if cfg.BaseURL() != "" {
		clientCfg.BaseURL = cfg.BaseURL()
	}

	maxRetries := cfg.MaxRetries()
	if maxRetries == 0 {
		maxRetries = 5
	}

	p := &OpenAIEmbedder{
		client:        openai.NewClientWithConfig(clientCfg),
		model:         cfg.Model(),
		dimension:     cfg.NativeDimensions(),
		maxRetries:    maxRetries,
		initialDelay:  2 * time.Second,
		backoffFactor: 2.0,
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Dimension returns the width of vectors the model emits.
func (p *OpenAIEmbedder) Dimension() int {
	return p.dimension
}

// Embed generates embeddings for the given texts in a single API call.
func (p *OpenAIEmbedder) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return [][]float64{}, nil
	}

	req := openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(p.model),
		Input: texts,
	}

	var resp openai.EmbeddingResponse
	var err error

	err = p.withRetry(ctx, func() error {
		resp, err = p.client.CreateEmbeddings(ctx, req)
		if err != nil {
			return err
		}
		if len(resp.Data) != len(texts) {
			return fmt.Errorf("%w: got %d vectors for %d texts", errEmbeddingCountMismatch, len(resp.Data), len(texts))
		}
		return nil
	})

	if err != nil {
		return nil, p.wrapError("embedding", err)
	}

	embeddings := make([][]float64, len(resp.Data))
	for i, data := range resp.Data {
		embeddings[i] = make([]float64, len(data.Embedding))
		for j, v := range data.Embedding {
			embeddings[i][j] = float64(v)
		}
	}

	return embeddings, nil
}

// withRetry executes the function with exponential backoff retry.
func (p *OpenAIEmbedder) withRetry(ctx context.Context, fn func() error) error {
	delay := p.initialDelay
	var lastErr error

	for attempt := 0; attempt <= p.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		if !p.isRetryable(lastErr) {
			return lastErr
		}

		if attempt < p.maxRetries {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay = time.Duration(float64(delay) * p.backoffFactor)
			}
		}
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

// isRetryable determines if an error should be retried.
func (p *OpenAIEmbedder) isRetryable(err error) bool {
	if errors.Is(err, errEmbeddingCountMismatch) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		// Network errors are retryable
		return true
	}

	return false
}

// wrapError wraps an OpenAI error into a ProviderError.
func (p *OpenAIEmbedder) wrapError(operation string, err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return NewProviderError(operation, apiErr.HTTPStatusCode, apiErr.Message, err)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return NewProviderError(operation, reqErr.HTTPStatusCode, reqErr.Error(), err)
	}

	return NewProviderError(operation, 0, err.Error(), err)
}

var _ Embedder = (*OpenAIEmbedder)(nil)
