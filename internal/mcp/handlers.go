// ABOUTME: MCP tool handler implementations for the knowledge-base server
// ABOUTME: Thin adapters from tool arguments onto the pipeline
package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/harper/kb-standalone/internal/loader"
	"github.com/harper/kb-standalone/internal/models"
	"github.com/mark3labs/mcp-go/mcp"
)

// Handlers contains the handler functions for all MCP tools.
type Handlers struct {
	service Service
}

// IngestDocument handles the ingest_document tool.
func (h *Handlers) IngestDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := request.GetString("path", "")
	id := request.GetString("id", "")
	text := request.GetString("text", "")

	var (
		doc models.Document
		err error
	)
	switch {
	case path != "" && id != "":
		doc, err = loader.LoadWithID(path, id)
	case path != "":
		doc, err = loader.Load(path)
	case id != "" && text != "":
		doc = models.Document{ID: id, Text: text}
	default:
		return mcp.NewToolResultError("provide either path, or id and text"), nil
	}
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("loading document failed: %v", err)), nil
	}

	chunks, err := h.service.Ingest(ctx, doc)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("ingestion failed: %v", err)), nil
	}

	return jsonResult(map[string]interface{}{
		"document_id": doc.ID,
		"chunks":      chunks,
	})
}

// AnswerQuestion handles the answer_question tool.
func (h *Handlers) AnswerQuestion(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	question, err := request.RequireString("question")
	if err != nil {
		return mcp.NewToolResultError("question argument is required and must be a string"), nil
	}

	answer, err := h.service.Answer(ctx, question)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("answering failed: %v", err)), nil
	}

	return jsonResult(map[string]interface{}{
		"answer":  answer.Text,
		"sources": answer.Sources,
	})
}

// SearchPassages handles the search_passages tool.
func (h *Handlers) SearchPassages(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query argument is required and must be a string"), nil
	}
	maxResults := request.GetInt("max_results", 5)

	results, err := h.service.Search(ctx, query, maxResults)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("search failed: %v", err)), nil
	}
	if results == nil {
		results = []models.ScoredPassage{}
	}

	return jsonResult(map[string]interface{}{
		"results": results,
	})
}

// ListDocuments handles the list_documents tool.
func (h *Handlers) ListDocuments(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	docs, err := h.service.Documents(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing documents failed: %v", err)), nil
	}

	return jsonResult(map[string]interface{}{
		"documents": docs,
		"count":     len(docs),
	})
}

// RemoveDocument handles the remove_document tool.
func (h *Handlers) RemoveDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("id")
	if err != nil {
		return mcp.NewToolResultError("id argument is required and must be a string"), nil
	}

	if err := h.service.Remove(ctx, id); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("removal failed: %v", err)), nil
	}

	return jsonResult(map[string]interface{}{
		"removed": id,
	})
}

func jsonResult(response map[string]interface{}) (*mcp.CallToolResult, error) {
	responseJSON, err := json.Marshal(response)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal response: %v", err)), nil
	}
	return mcp.NewToolResultText(string(responseJSON)), nil
}
