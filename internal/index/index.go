// ABOUTME: VectorIndex capability interface and shared index types
// ABOUTME: Backed by SQLite for persistence or by memory for tests
package index

import (
	"context"
	"errors"

	"github.com/harper/kb-standalone/internal/models"
)

// ErrIndexCorruption means a stored entry violates the index's
// dimensionality invariant, usually because the embedding model changed
// without reindexing.
var ErrIndexCorruption = errors.New("index entry violates dimension invariant")

// DocumentInfo summarizes one indexed document.
type DocumentInfo struct {
	ID     string `json:"id"`
	Chunks int    `json:"chunks"`
}

// Index is the vector-storage capability: persisted (vector, passage,
// provenance) entries with cosine nearest-neighbor lookup. Upsert is
// atomic per entry ID; concurrent readers never observe a partial write.
type Index interface {
	// Upsert inserts the entry or atomically replaces the entry with the
	// same ID.
	Upsert(ctx context.Context, entry models.IndexEntry) error

	// DeleteByDocument removes every entry belonging to the document.
	// Deleting an unknown document is not an error.
	DeleteByDocument(ctx context.Context, documentID string) error

	// Query returns up to k entries ranked by descending cosine
	// similarity to the vector. Ties keep insertion order. An empty
	// index yields an empty result, not an error.
	Query(ctx context.Context, vector []float64, k int) ([]models.ScoredPassage, error)

	// Documents lists indexed documents with their chunk counts, in
	// ingestion order.
	Documents(ctx context.Context) ([]DocumentInfo, error)

	Close() error
}
