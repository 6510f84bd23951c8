// ABOUTME: Client for OpenAI-compatible model services (Ollama by default)
// ABOUTME: Provides embeddings and text generation with retry and timeouts
package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/harper/kb-standalone/internal/util"
	openai "github.com/sashabaranov/go-openai"
)

// ClientConfig holds the settings for one model-service client.
type ClientConfig struct {
	Host           string // OpenAI-compatible base URL, e.g. http://localhost:11434/v1
	APIKey         string
	ChatModel      string
	EmbeddingModel string
	// Dimension is the vector size the embedding model is expected to
	// produce. 0 disables the check.
	Dimension  int
	Timeout    time.Duration
	MaxRetries int
	RetryDelay time.Duration
}

// Client wraps the OpenAI-compatible API with retry logic. Batch and
// single embedding calls go through the same endpoint, so element i of a
// batch result matches what a single call on texts[i] would return.
type Client struct {
	api            *openai.Client
	chatModel      string
	embeddingModel string
	dimension      int
	timeout        time.Duration
	maxRetries     int
	retryDelay     time.Duration
}

// NewClient creates a client for the configured model service.
func NewClient(cfg *ClientConfig) (*Client, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("model service host is required")
	}
	if cfg.ChatModel == "" || cfg.EmbeddingModel == "" {
		return nil, fmt.Errorf("chat and embedding model names are required")
	}

	apiCfg := openai.DefaultConfig(cfg.APIKey)
	apiCfg.BaseURL = cfg.Host

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}

	return &Client{
		api:            openai.NewClientWithConfig(apiCfg),
		chatModel:      cfg.ChatModel,
		embeddingModel: cfg.EmbeddingModel,
		dimension:      cfg.Dimension,
		timeout:        timeout,
		maxRetries:     cfg.MaxRetries,
		retryDelay:     cfg.RetryDelay,
	}, nil
}

// Embed converts a single text into an embedding vector.
func (c *Client) Embed(ctx context.Context, text string) ([]float64, error) {
	vectors, err := c.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch converts texts into embedding vectors, preserving input
// order. The whole batch fails if any element comes back with the wrong
// dimensionality, so callers never see a partially usable result.
func (c *Client) EmbedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			if err := sleepCtx(ctx, util.CalculateBackoff(c.retryDelay, attempt)); err != nil {
				return nil, err
			}
		}

		vectors, err := c.embedOnce(ctx, texts)
		if err == nil {
			return vectors, nil
		}
		lastErr = err
		if !retryable(err) {
			return nil, err
		}
	}

	return nil, fmt.Errorf("embedding failed after %d attempts: %w", c.maxRetries+1, lastErr)
}

func (c *Client) embedOnce(ctx context.Context, texts []string) ([][]float64, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.api.CreateEmbeddings(reqCtx, openai.EmbeddingRequestStrings{
		Input: texts,
		Model: openai.EmbeddingModel(c.embeddingModel),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", classify(err), err)
	}

	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("%w: requested %d embeddings, got %d", ErrMalformedResponse, len(texts), len(resp.Data))
	}

	vectors := make([][]float64, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(texts) {
			return nil, fmt.Errorf("%w: embedding index %d out of range", ErrMalformedResponse, d.Index)
		}
		if len(d.Embedding) == 0 {
			return nil, fmt.Errorf("%w: empty embedding at index %d", ErrMalformedResponse, d.Index)
		}
		if c.dimension > 0 && len(d.Embedding) != c.dimension {
			return nil, fmt.Errorf("%w: expected %d dimensions, got %d", ErrMalformedResponse, c.dimension, len(d.Embedding))
		}

		vector := make([]float64, len(d.Embedding))
		for i, v := range d.Embedding {
			vector[i] = float64(v)
		}
		vectors[d.Index] = vector
	}

	for i, v := range vectors {
		if v == nil {
			return nil, fmt.Errorf("%w: missing embedding for input %d", ErrMalformedResponse, i)
		}
	}

	return vectors, nil
}

// Generate sends instructions, the assembled context, and the question to
// the generation model and returns the full answer text. The call is
// synchronous; no partial answer is surfaced.
func (c *Client) Generate(ctx context.Context, instructions, contextBlock, question string) (string, error) {
	prompt := buildPrompt(contextBlock, question)

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			if err := sleepCtx(ctx, util.CalculateBackoff(c.retryDelay, attempt)); err != nil {
				return "", err
			}
		}

		answer, err := c.generateOnce(ctx, instructions, prompt)
		if err == nil {
			return answer, nil
		}
		lastErr = err
		if !retryable(err) {
			return "", err
		}
	}

	return "", fmt.Errorf("generation failed after %d attempts: %w", c.maxRetries+1, lastErr)
}

func (c *Client) generateOnce(ctx context.Context, instructions, prompt string) (string, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.api.CreateChatCompletion(reqCtx, openai.ChatCompletionRequest{
		Model: c.chatModel,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: instructions},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
		Temperature: 0.2,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", classify(err), err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("%w: no completion choices returned", ErrMalformedResponse)
	}

	return resp.Choices[0].Message.Content, nil
}

func buildPrompt(contextBlock, question string) string {
	if contextBlock == "" {
		contextBlock = "(no relevant passages found)"
	}
	return fmt.Sprintf("CONTEXT:\n%s\n\nQUESTION:\n%s", contextBlock, question)
}

// sleepCtx waits for the backoff delay unless the caller gives up first.
func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
