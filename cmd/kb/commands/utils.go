// ABOUTME: Shared utility functions for CLI commands
// ABOUTME: Consolidates pipeline construction and output helpers
package commands

import (
	"fmt"

	"github.com/joho/godotenv"

	"github.com/harper/kb-standalone/internal/chunker"
	"github.com/harper/kb-standalone/internal/config"
	"github.com/harper/kb-standalone/internal/index/sqlite"
	"github.com/harper/kb-standalone/internal/llm"
	"github.com/harper/kb-standalone/internal/pipeline"
	"github.com/harper/kb-standalone/internal/retriever"
)

// newPipeline builds a fully wired pipeline from the environment. The
// returned store must be closed by the caller when done.
func newPipeline() (*pipeline.Pipeline, *sqlite.Store, error) {
	// Load .env for local overrides
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("loading configuration: %w", err)
	}

	store, err := sqlite.Open(cfg.DBPath, cfg.VectorDimension, cfg.EmbeddingModel)
	if err != nil {
		return nil, nil, fmt.Errorf("opening index: %w", err)
	}

	client, err := llm.NewClient(&llm.ClientConfig{
		Host:           cfg.Host,
		APIKey:         cfg.APIKey,
		ChatModel:      cfg.ChatModel,
		EmbeddingModel: cfg.EmbeddingModel,
		Dimension:      cfg.VectorDimension,
		Timeout:        cfg.Timeout,
		MaxRetries:     cfg.MaxRetries,
		RetryDelay:     cfg.RetryDelay,
	})
	if err != nil {
		store.Close()
		return nil, nil, fmt.Errorf("initializing model client: %w", err)
	}

	ch, err := chunker.New(cfg.ChunkSize, cfg.ChunkOverlap)
	if err != nil {
		store.Close()
		return nil, nil, fmt.Errorf("initializing chunker: %w", err)
	}

	r := retriever.New(ch, client, store)
	return pipeline.New(cfg, r, client), store, nil
}

// truncate shortens a string to maxLen runes, adding "..." if truncated
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// validatePositiveInt returns error if n is not positive
func validatePositiveInt(n int, name string) error {
	if n <= 0 {
		return fmt.Errorf("%s must be positive, got %d", name, n)
	}
	return nil
}
