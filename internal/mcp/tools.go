// ABOUTME: MCP tool definitions and registration for the knowledge-base server
// ABOUTME: Exposes ingest, answer, search, list, and remove as tools
package mcp

import (
	"context"

	"github.com/harper/kb-standalone/internal/index"
	"github.com/harper/kb-standalone/internal/models"
	"github.com/harper/kb-standalone/internal/pipeline"
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// Service is the slice of the pipeline the MCP tools need.
// *pipeline.Pipeline satisfies it.
type Service interface {
	Ingest(ctx context.Context, doc models.Document) (int, error)
	Answer(ctx context.Context, question string) (*pipeline.Answer, error)
	Search(ctx context.Context, query string, k int) ([]models.ScoredPassage, error)
	Documents(ctx context.Context) ([]index.DocumentInfo, error)
	Remove(ctx context.Context, documentID string) error
}

// RegisterTools registers all MCP tools with the server.
func RegisterTools(server *mcpserver.MCPServer, service Service) *Handlers {
	handlers := &Handlers{service: service}

	server.AddTool(mcp.Tool{
		Name:        "ingest_document",
		Description: "Ingest a document into the knowledge base. Provide either a file path on the server, or an id plus raw text. Re-ingesting an existing id replaces its chunks.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Path to a .txt, .md, or .pdf file to ingest",
				},
				"id": map[string]interface{}{
					"type":        "string",
					"description": "Document identifier (defaults to the file base name when path is given)",
				},
				"text": map[string]interface{}{
					"type":        "string",
					"description": "Raw document text (used when no path is given; requires id)",
				},
			},
		},
	}, handlers.IngestDocument)

	server.AddTool(mcp.Tool{
		Name:        "answer_question",
		Description: "Answer a question using retrieval-augmented generation over the knowledge base. Returns the answer text and the source document ids it was grounded on.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"question": map[string]interface{}{
					"type":        "string",
					"description": "Question to answer",
				},
			},
			Required: []string{"question"},
		},
	}, handlers.AnswerQuestion)

	server.AddTool(mcp.Tool{
		Name:        "search_passages",
		Description: "Retrieve the most similar passages for a query without generating an answer.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Search query",
				},
				"max_results": map[string]interface{}{
					"type":        "number",
					"description": "Maximum number of passages to return (default: 5)",
					"default":     5,
				},
			},
			Required: []string{"query"},
		},
	}, handlers.SearchPassages)

	server.AddTool(mcp.Tool{
		Name:        "list_documents",
		Description: "List indexed documents with their chunk counts.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.ListDocuments)

	server.AddTool(mcp.Tool{
		Name:        "remove_document",
		Description: "Remove a document and all of its chunks from the knowledge base.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"id": map[string]interface{}{
					"type":        "string",
					"description": "Document identifier to remove",
				},
			},
			Required: []string{"id"},
		},
	}, handlers.RemoveDocument)

	return handlers
}
