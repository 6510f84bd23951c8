// ABOUTME: Main entry point for the knowledge-base MCP server with stdio transport
// ABOUTME: Initializes the index, model client, and pipeline with all tools
package main

import (
	"log"

	"github.com/harper/kb-standalone/internal/chunker"
	"github.com/harper/kb-standalone/internal/config"
	"github.com/harper/kb-standalone/internal/index/sqlite"
	"github.com/harper/kb-standalone/internal/llm"
	"github.com/harper/kb-standalone/internal/mcp"
	"github.com/harper/kb-standalone/internal/pipeline"
	"github.com/harper/kb-standalone/internal/retriever"
	"github.com/joho/godotenv"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

func main() {
	// Load .env file if it exists (for local overrides)
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found (this is okay for production): %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	store, err := sqlite.Open(cfg.DBPath, cfg.VectorDimension, cfg.EmbeddingModel)
	if err != nil {
		log.Fatalf("Failed to open index: %v", err)
	}
	defer store.Close()

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
		log.Fatalf("Failed to initialize model client: %v", err)
	}

	ch, err := chunker.New(cfg.ChunkSize, cfg.ChunkOverlap)
	if err != nil {
		log.Fatalf("Failed to initialize chunker: %v", err)
	}

	p := pipeline.New(cfg, retriever.New(ch, client, store), client)

	server := mcpserver.NewMCPServer(
		"Knowledge Base",
		"0.1.0",
	)

	mcp.RegisterTools(server, p)

	// Start server with stdio transport
	log.Println("Knowledge-base MCP server starting on stdio...")
	if err := mcpserver.ServeStdio(server); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
