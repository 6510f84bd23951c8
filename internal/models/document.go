// ABOUTME: Document is the unit of ingestion for the knowledge base
// ABOUTME: Immutable once ingested; re-ingesting the same ID replaces its chunks
package models

// Document is a piece of source material to index. ID must be unique
// across the knowledge base; re-ingesting a Document with an existing ID
// replaces every chunk previously stored for it.
type Document struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}
