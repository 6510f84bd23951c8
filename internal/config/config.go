// ABOUTME: Centralized configuration for the knowledge-base pipeline
// ABOUTME: Loads from environment variables with validation and defaults
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config holds all settings for one pipeline instance. It is constructed
// once and passed explicitly into constructors, so several pipelines with
// different settings can coexist in one process.
type Config struct {
	// Model service settings. Host is any OpenAI-compatible endpoint;
	// the default is a local Ollama server. APIKey is sent as a bearer
	// token; Ollama ignores it.
	Host           string
	APIKey         string
	ChatModel      string
	EmbeddingModel string
	Timeout        time.Duration
	MaxRetries     int
	RetryDelay     time.Duration

	// Retrieval settings
	ChunkSize       int
	ChunkOverlap    int
	TopK            int
	ContextBudget   int
	VectorDimension int
	Instructions    string

	// Storage settings
	DBPath string
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Host:            getEnv("KB_HOST", "http://localhost:11434/v1"),
		APIKey:          getEnv("KB_API_KEY", "ollama"),
		ChatModel:       getEnv("KB_MODEL", "mistral"),
		EmbeddingModel:  getEnv("KB_EMBEDDING_MODEL", "nomic-embed-text"),
		Timeout:         getEnvDuration("KB_TIMEOUT", 120*time.Second),
		MaxRetries:      getEnvInt("KB_MAX_RETRIES", 3),
		RetryDelay:      getEnvDuration("KB_RETRY_DELAY", 2*time.Second),
		ChunkSize:       getEnvInt("KB_CHUNK_SIZE", 1000),
		ChunkOverlap:    getEnvInt("KB_CHUNK_OVERLAP", 200),
		TopK:            getEnvInt("KB_TOP_K", 5),
		ContextBudget:   getEnvInt("KB_CONTEXT_BUDGET", 6000),
		VectorDimension: getEnvInt("KB_VECTOR_DIMENSION", 768),
		Instructions:    getEnv("KB_INSTRUCTIONS", DefaultInstructions),
		DBPath:          getEnv("KB_DB_PATH", DefaultDBPath()),
	}

	return cfg, cfg.Validate()
}

// DefaultInstructions is the fixed preamble sent ahead of the assembled
// context and the question.
const DefaultInstructions = `You are a knowledge-base assistant. Answer the question using only the provided context passages. Cite the source document IDs you relied on. If the context does not contain the answer, say you do not know.`

// DefaultDBPath returns the index location following the XDG spec.
func DefaultDBPath() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(".local", "share", "kb", "index.db")
		}
		dataHome = filepath.Join(homeDir, ".local", "share")
	}
	return filepath.Join(dataHome, "kb", "index.db")
}

func (c *Config) Validate() error {
	if c.ChunkSize <= 0 {
		return fmt.Errorf("KB_CHUNK_SIZE must be positive, got %d", c.ChunkSize)
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("KB_CHUNK_OVERLAP must be in [0, %d), got %d", c.ChunkSize, c.ChunkOverlap)
	}
	if c.TopK <= 0 {
		return fmt.Errorf("KB_TOP_K must be positive, got %d", c.TopK)
	}
	if c.ContextBudget <= 0 {
		return fmt.Errorf("KB_CONTEXT_BUDGET must be positive, got %d", c.ContextBudget)
	}
	if c.VectorDimension < 0 {
		return fmt.Errorf("KB_VECTOR_DIMENSION must not be negative, got %d", c.VectorDimension)
	}
	if c.MaxRetries < 0 || c.MaxRetries > 10 {
		return fmt.Errorf("KB_MAX_RETRIES must be 0-10, got %d", c.MaxRetries)
	}
	return nil
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
